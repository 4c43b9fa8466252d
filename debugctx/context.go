package debugctx

import (
	"context"
	"fmt"
	"io"
	"strings"
)

type enabledKey struct{}
type writerKey struct{}

const maxTraceBodyCharacters = 1024

func WithEnabled(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, enabledKey{}, enabled)
}

func Enabled(ctx context.Context) bool {
	if ctx == nil {
		return false
	}

	enabled, _ := ctx.Value(enabledKey{}).(bool)
	return enabled
}

func WithWriter(ctx context.Context, writer io.Writer) context.Context {
	if writer == nil {
		return ctx
	}

	return context.WithValue(ctx, writerKey{}, writer)
}

func Writer(ctx context.Context) io.Writer {
	if ctx == nil {
		return nil
	}

	writer, _ := ctx.Value(writerKey{}).(io.Writer)
	return writer
}

func Printf(ctx context.Context, format string, args ...any) {
	if !Enabled(ctx) {
		return
	}

	writer := Writer(ctx)
	if writer == nil {
		return
	}

	message := strings.TrimSpace(fmt.Sprintf(format, args...))
	if message == "" {
		return
	}

	_, _ = fmt.Fprintf(writer, "debug: %s\n", message)
}

// PrintRequest traces an outbound request. Bearer credentials never reach
// the trace.
func PrintRequest(ctx context.Context, method, fullURL string, body []byte) {
	Printf(ctx, "request %s %s %s", method, fullURL, limitTraceBody(body))
}

// PrintResponse traces an inbound response status and truncated body.
func PrintResponse(ctx context.Context, status int, body []byte) {
	Printf(ctx, "response %d %s", status, limitTraceBody(body))
}

func limitTraceBody(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if len(trimmed) <= maxTraceBodyCharacters {
		return trimmed
	}
	return trimmed[:maxTraceBodyCharacters] + "... (truncated)"
}
