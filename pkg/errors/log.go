package errors

import "log/slog"

// LogHandler is the default Handler. It forwards reports to a
// structured logger: rejections at warn level, panics at error level.
type LogHandler struct {
	// Logger receives the reports. Nil uses slog.Default().
	Logger *slog.Logger
	// Verbose adds the wrapped cause and panic stack traces.
	Verbose bool
}

func (h *LogHandler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// HandleError logs a runtime rejection.
func (h *LogHandler) HandleError(err *WeftError) {
	if err == nil {
		return
	}
	attrs := []any{
		slog.String("op", err.Op),
		slog.String("kind", err.Kind.String()),
	}
	if err.Component != "" {
		attrs = append(attrs, slog.String("component", err.Component))
	}
	if err.Property != "" {
		attrs = append(attrs, slog.String("property", err.Property))
	}
	if h.Verbose && err.Err != nil {
		attrs = append(attrs, slog.Any("cause", err.Err))
	}
	h.logger().Warn("weft rejection", attrs...)
}

// HandlePanic logs a recovered panic.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	attrs := []any{
		slog.String("op", err.Op),
		slog.Any("value", err.Value),
	}
	if h.Verbose && err.StackTrace != "" {
		attrs = append(attrs, slog.String("stack", err.StackTrace))
	}
	h.logger().Error("weft panic", attrs...)
}
