package sentryotel

import (
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/getsentry/sentry-go"
	"gofr.dev/pkg/gofr/config"
)

// Instrumenter names the side that drives span creation. The bridge only acts
// when OpenTelemetry is the instrumenter.
type Instrumenter string

const (
	InstrumenterSentry Instrumenter = "sentry"
	InstrumenterOTel   Instrumenter = "otel"
)

const defaultTracesSampleRate = "1.0"

// Config represents the bridge settings, read from the application's env config.
type Config struct {
	DSN              string
	Environment      string
	Release          string
	Debug            bool
	TracesSampleRate float64
	Instrumenter     Instrumenter
}

// Validate checks if the bridge configuration is valid
func (cfg *Config) Validate() error {
	if cfg.DSN != "" {
		if _, err := sentry.NewDsn(cfg.DSN); err != nil {
			return errors.Wrap(err, "failed to parse SENTRY_DSN")
		}
	}

	if cfg.TracesSampleRate < 0 || cfg.TracesSampleRate > 1 {
		return errors.Newf("SENTRY_TRACES_SAMPLE_RATE must be within [0, 1], got %v", cfg.TracesSampleRate)
	}

	switch cfg.Instrumenter {
	case InstrumenterOTel, InstrumenterSentry:
	default:
		return errors.Newf("unknown SENTRY_INSTRUMENTER %q", cfg.Instrumenter)
	}

	return nil
}

// LoadConfig reads the SENTRY_* keys from c and validates the result.
func LoadConfig(c config.Config) (Config, error) {
	rate, err := strconv.ParseFloat(c.GetOrDefault("SENTRY_TRACES_SAMPLE_RATE", defaultTracesSampleRate), 64)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to parse SENTRY_TRACES_SAMPLE_RATE")
	}

	debug, err := strconv.ParseBool(c.GetOrDefault("SENTRY_DEBUG", "false"))
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to parse SENTRY_DEBUG")
	}

	cfg := Config{
		DSN:              c.Get("SENTRY_DSN"),
		Environment:      c.Get("SENTRY_ENVIRONMENT"),
		Release:          c.Get("SENTRY_RELEASE"),
		Debug:            debug,
		TracesSampleRate: rate,
		Instrumenter:     Instrumenter(c.GetOrDefault("SENTRY_INSTRUMENTER", string(InstrumenterOTel))),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
