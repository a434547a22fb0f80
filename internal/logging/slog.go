package logging

import (
	"context"
	"log/slog"
	"time"

	"github.com/rs/zerolog"
)

// Handler is a slog.Handler that writes records through a zerolog.Logger.
// Groups are flattened into dotted keys.
type Handler struct {
	logger zerolog.Logger
	attrs  []slog.Attr
	prefix string
}

// NewHandler creates a Handler writing to logger.
func NewHandler(logger zerolog.Logger) *Handler {
	return &Handler{logger: logger}
}

// Slog returns a *slog.Logger backed by logger.
func Slog(logger zerolog.Logger) *slog.Logger {
	return slog.New(NewHandler(logger))
}

// Enabled reports whether logger would write a record at level.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	lvl := zerologLevel(level)
	return lvl >= h.logger.GetLevel() && lvl >= zerolog.GlobalLevel()
}

// Handle writes r along with any attributes added by WithAttrs.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	event := h.logger.WithLevel(zerologLevel(r.Level))
	if event == nil {
		return nil
	}
	for _, a := range h.attrs {
		addAttr(event, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		addAttr(event, h.prefix, a)
		return true
	})
	event.Msg(r.Message)
	return nil
}

// WithAttrs returns a Handler that adds attrs to every record.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	next := *h
	next.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	next.attrs = append(next.attrs, h.attrs...)
	for _, a := range attrs {
		// Qualify now so later groups don't apply to these attributes.
		a.Key = h.prefix + a.Key
		next.attrs = append(next.attrs, a)
	}
	return &next
}

// WithGroup returns a Handler that qualifies later attribute keys with name.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = h.prefix + name + "."
	return &next
}

func addAttr(event *zerolog.Event, prefix string, a slog.Attr) {
	v := a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	key := prefix + a.Key

	switch v.Kind() {
	case slog.KindString:
		event.Str(key, v.String())
	case slog.KindInt64:
		event.Int64(key, v.Int64())
	case slog.KindUint64:
		event.Uint64(key, v.Uint64())
	case slog.KindFloat64:
		event.Float64(key, v.Float64())
	case slog.KindBool:
		event.Bool(key, v.Bool())
	case slog.KindDuration:
		event.Dur(key, v.Duration())
	case slog.KindTime:
		event.Str(key, v.Time().Format(time.RFC3339Nano))
	case slog.KindGroup:
		group := key + "."
		if a.Key == "" {
			group = prefix
		}
		for _, ga := range v.Group() {
			addAttr(event, group, ga)
		}
	default:
		if err, ok := v.Any().(error); ok {
			event.AnErr(key, err)
			return
		}
		event.Interface(key, v.Any())
	}
}

func zerologLevel(level slog.Level) zerolog.Level {
	switch {
	case level < slog.LevelInfo:
		return zerolog.DebugLevel
	case level < slog.LevelWarn:
		return zerolog.InfoLevel
	case level < slog.LevelError:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}
