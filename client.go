package sentryotel

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/getsentry/sentry-go"
)

// Client is the monitoring side of the bridge: the hub spans are reported
// through and the instrumenter mode.
type Client struct {
	hub          *sentry.Hub
	instrumenter Instrumenter
	destination  string
}

type ClientOption func(*sentry.ClientOptions)

// WithTransport replaces the HTTP transport of the underlying sentry client.
func WithTransport(t sentry.Transport) ClientOption {
	return func(o *sentry.ClientOptions) {
		o.Transport = t
	}
}

// NewClient creates a sentry client and hub from cfg.
func NewClient(cfg Config, opts ...ClientOption) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		Release:          cfg.Release,
		Debug:            cfg.Debug,
		EnableTracing:    true,
		TracesSampleRate: cfg.TracesSampleRate,
	}

	for _, opt := range opts {
		opt(&options)
	}

	sc, err := sentry.NewClient(options)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create sentry client")
	}

	return NewClientFromHub(sentry.NewHub(sc, sentry.NewScope()), cfg.Instrumenter), nil
}

// NewClientFromHub wraps an already configured hub, e.g. sentry.CurrentHub()
// after sentry.Init.
func NewClientFromHub(hub *sentry.Hub, instrumenter Instrumenter) *Client {
	c := &Client{
		hub:          hub,
		instrumenter: instrumenter,
	}

	if hub != nil && hub.Client() != nil {
		c.destination = dsnHost(hub.Client().Options().Dsn)
	}

	return c
}

func dsnHost(raw string) string {
	if raw == "" {
		return ""
	}

	dsn, err := sentry.NewDsn(raw)
	if err != nil {
		return ""
	}

	return dsn.GetHost()
}

func (c *Client) Hub() *sentry.Hub { return c.hub }

// Ready reports whether the hub has a bound sentry client and OpenTelemetry
// drives instrumentation.
func (c *Client) Ready() bool {
	return c != nil && c.hub != nil && c.hub.Client() != nil && c.instrumenter == InstrumenterOTel
}

// DestinationHost is the host telemetry is uploaded to, empty when no DSN is
// configured.
func (c *Client) DestinationHost() string { return c.destination }

// AddEventProcessor registers p on the sentry client. It must not be called
// concurrently with event capture.
func (c *Client) AddEventProcessor(p sentry.EventProcessor) {
	if sc := c.hub.Client(); sc != nil {
		sc.AddEventProcessor(p)
	}
}

// Flush waits until buffered events are sent or the timeout expires.
func (c *Client) Flush(timeout time.Duration) bool {
	return c.hub.Flush(timeout)
}
