package usecase

import (
	"context"
	"runtime/debug"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/shipper/pkg/domain/interfaces"
	"github.com/m-mizutani/shipper/pkg/domain/model"
)

// Notifiers fans a notification out to every notifier in order. A panicking
// notifier is logged and does not stop the others.
type Notifiers []interfaces.Notifier

// Notify implements interfaces.Notifier
func (ns Notifiers) Notify(ctx context.Context, n model.Notification) {
	for _, notifier := range ns {
		notify(ctx, notifier, n)
	}
}

func notify(ctx context.Context, notifier interfaces.Notifier, n model.Notification) {
	defer func() {
		if r := recover(); r != nil {
			ctxlog.From(ctx).Error("panic in notifier",
				"recover", r,
				"stack", string(debug.Stack()),
			)
		}
	}()
	notifier.Notify(ctx, n)
}
