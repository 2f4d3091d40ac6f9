package main

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"gofr.dev/pkg/gofr"
	gofrHTTP "gofr.dev/pkg/gofr/http"
	"gofr.dev/pkg/gofr/logging"

	sentryotel "gofr.dev/sentry-otel"
	"gofr.dev/sentry-otel/internal/migrations"
)

const flushTimeout = 2 * time.Second

type Item struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// sqlDB is the part of gofr's SQL datasource the handlers use.
type sqlDB interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

type handler struct {
	tracer trace.Tracer
}

func main() {
	app := gofr.New()
	logger := logging.NewLogger(logging.INFO)

	cfg, err := sentryotel.LoadConfig(app.Config)
	if err != nil {
		logger.Fatalf("invalid sentry configuration: %v", err)
	}

	client, err := sentryotel.NewClient(cfg)
	if err != nil {
		logger.Fatalf("failed to create sentry client: %v", err)
	}

	processor := sentryotel.NewSpanProcessor(client, logger)
	client.AddEventProcessor(processor.LinkErrors())

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(processor),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", app.Config.GetOrDefault("APP_NAME", "items")),
		)),
	)

	h := &handler{tracer: tp.Tracer("gofr.dev/sentry-otel/internal")}

	app.Migrate(migrations.All())
	app.UseMiddleware(sentryScope(client))

	app.GET("/items", h.List)
	app.POST("/items", h.Create)

	app.Run()

	shutdown(tp, client, logger)
}

type errorLogger interface {
	Errorf(format string, args ...interface{})
}

// shutdown ends the tracer provider, then flushes the events it produced.
func shutdown(tp *sdktrace.TracerProvider, client *sentryotel.Client, logger errorLogger) {
	if err := tp.Shutdown(context.Background()); err != nil {
		logger.Errorf("failed to shut down tracer provider: %v", err)
	}

	client.Flush(flushTimeout)
}

// sentryScope gives every request its own scope on a cloned hub, continuing
// the caller's trace when it sent sentry-trace and baggage headers.
func sentryScope(client *sentryotel.Client) gofrHTTP.Middleware {
	return func(inner http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scope := sentryotel.NewScope(client.Hub().Clone())
			scope.ContinueFromRequest(r)

			inner.ServeHTTP(w, r.WithContext(sentryotel.ContextWithScope(r.Context(), scope)))
		})
	}
}

// start opens the request's server span on the scope installed by sentryScope.
func (h *handler) start(c *gofr.Context, method, target string) (context.Context, trace.Span) {
	return h.tracer.Start(c, method+" "+target,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(semconv.HTTPMethod(method), semconv.HTTPTarget(target)))
}

func (h *handler) query(ctx context.Context, db sqlDB, statement string, args ...interface{}) (*sql.Rows, error) {
	ctx, span := h.tracer.Start(ctx, "SELECT items",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(semconv.DBSystemMySQL, semconv.DBStatement(statement)))
	defer span.End()

	rows, err := db.QueryContext(ctx, statement, args...)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	return rows, nil
}

func (h *handler) exec(ctx context.Context, db sqlDB, statement string, args ...interface{}) (sql.Result, error) {
	ctx, span := h.tracer.Start(ctx, "INSERT items",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(semconv.DBSystemMySQL, semconv.DBStatement(statement)))
	defer span.End()

	res, err := db.ExecContext(ctx, statement, args...)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	return res, nil
}

func (h *handler) List(c *gofr.Context) (interface{}, error) {
	ctx, span := h.start(c, "GET", "/items")
	defer span.End()

	rows, err := h.query(ctx, c.SQL, "SELECT id, name FROM items ORDER BY id")
	if err != nil {
		c.Logger.Errorf("failed to query items: %v", err)
		span.SetStatus(codes.Error, err.Error())

		return nil, err
	}
	defer rows.Close()

	items := make([]Item, 0)

	for rows.Next() {
		var item Item

		if err := rows.Scan(&item.ID, &item.Name); err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}

		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")

	return items, nil
}

func (h *handler) Create(c *gofr.Context) (interface{}, error) {
	ctx, span := h.start(c, "POST", "/items")
	defer span.End()

	var item Item

	if err := c.Bind(&item); err != nil {
		c.Logger.Errorf("error binding request body: %v", err)
		span.SetStatus(codes.Error, err.Error())

		return nil, err
	}

	if item.Name == "" {
		span.SetStatus(codes.Error, "missing name")
		return nil, errors.New("missing item name")
	}

	res, err := h.exec(ctx, c.SQL, "INSERT INTO items (name) VALUES (?)", item.Name)
	if err != nil {
		c.Logger.Errorf("failed to insert item: %v", err)
		span.SetStatus(codes.Error, err.Error())

		return nil, err
	}

	item.ID, err = res.LastInsertId()
	if err != nil {
		return nil, err
	}

	span.SetStatus(codes.Ok, "")

	return item, nil
}
