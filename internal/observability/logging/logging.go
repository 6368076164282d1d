package logging

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

type Environment string

const (
	EnvDev  Environment = "dev"
	EnvProd Environment = "prod"
)

// Module names the component a log line belongs to.
type Module string

type ServiceInfo struct {
	Name     string
	Version  string
	Revision string
}

type Config struct {
	Service       ServiceInfo
	Environment   Environment
	Level         slog.Leveler
	ProjectID     string
	DefaultModule Module
}

type moduleKey struct{}

// WithModule overrides the module attribute for records logged with ctx.
func WithModule(ctx context.Context, module Module) context.Context {
	return context.WithValue(ctx, moduleKey{}, module)
}

func moduleFrom(ctx context.Context) (Module, bool) {
	m, ok := ctx.Value(moduleKey{}).(Module)
	return m, ok && m != ""
}

// Handler decorates records with the module and the active span.
type Handler struct {
	next          slog.Handler
	projectID     string
	defaultModule Module
}

func NewHandler(w io.Writer, cfg Config) *Handler {
	opts := &slog.HandlerOptions{Level: cfg.Level}

	var base slog.Handler
	if cfg.Environment == EnvProd {
		base = slog.NewJSONHandler(w, opts)
	} else {
		base = slog.NewTextHandler(w, opts)
	}

	service := []any{slog.String("name", cfg.Service.Name)}
	if cfg.Service.Version != "" {
		service = append(service, slog.String("version", cfg.Service.Version))
	}
	if cfg.Service.Revision != "" {
		service = append(service, slog.String("revision", cfg.Service.Revision))
	}

	base = base.WithAttrs([]slog.Attr{
		slog.Group("service", service...),
		slog.String("env", string(cfg.Environment)),
	})

	return &Handler{
		next:          base,
		projectID:     cfg.ProjectID,
		defaultModule: cfg.DefaultModule,
	}
}

func New(w io.Writer, cfg Config) *slog.Logger {
	return slog.New(NewHandler(w, cfg))
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	module := h.defaultModule
	if m, ok := moduleFrom(ctx); ok {
		module = m
	}
	if module != "" {
		r.AddAttrs(slog.String("module", string(module)))
	}

	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		r.AddAttrs(
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
		r.AddAttrs(gcpTraceAttrs(ctx, h.projectID)...)
	}

	return h.next.Handle(ctx, r)
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{
		next:          h.next.WithAttrs(attrs),
		projectID:     h.projectID,
		defaultModule: h.defaultModule,
	}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{
		next:          h.next.WithGroup(name),
		projectID:     h.projectID,
		defaultModule: h.defaultModule,
	}
}
