package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/arbor/pkg/domain"
)

// LoggingHooks logs every lifecycle event. Passes are logged at Info,
// views and renderers at Debug.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnPassBegin: func(ctx context.Context, e *domain.PassEvent) {
			logger.InfoContext(ctx, "pass_begin", "pass", e.Pass)
		},
		OnPassEnd: func(ctx context.Context, e *domain.PassEvent) {
			if e.Err != nil {
				logger.ErrorContext(ctx, "pass_end", "pass", e.Pass, "error", e.Err)
				return
			}
			logger.InfoContext(ctx, "pass_end", "pass", e.Pass)
		},
		OnViewCreate: func(ctx context.Context, e *domain.ViewEvent) {
			logger.DebugContext(ctx, "view_create", "view_id", e.ViewID, "kind", e.Kind, "name", e.Name)
		},
		OnViewDestroy: func(ctx context.Context, e *domain.ViewEvent) {
			logger.DebugContext(ctx, "view_destroy", "view_id", e.ViewID, "kind", e.Kind, "name", e.Name)
		},
		OnRendererCreate: func(ctx context.Context, e *domain.RendererEvent) {
			logger.DebugContext(ctx, "renderer_create", "view_id", e.ViewID, "encapsulation", encapsulation(e.Type))
		},
		OnRendererDestroy: func(ctx context.Context, e *domain.RendererEvent) {
			logger.DebugContext(ctx, "renderer_destroy", "view_id", e.ViewID)
		},
	}
}
