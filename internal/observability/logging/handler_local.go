//go:build !gcloud

package logging

import (
	"context"
	"log/slog"
)

// Local logs carry trace_id and span_id only.
func gcpTraceAttrs(context.Context, string) []slog.Attr {
	return nil
}
