package notify

import (
	"context"

	"github.com/sardorqobilov/fieldsale-client/pkg/enums"
	pkgerrors "github.com/sardorqobilov/fieldsale-client/pkg/errors"
	"github.com/sardorqobilov/fieldsale-client/pkg/logger"
)

// Notification is a short transient message surfaced to the agent. It never
// blocks interaction; the hosting UI decides how long to show it.
type Notification struct {
	Category enums.NotificationCategory
	Message  string
}

// Notifier receives user-facing notifications from engine operations.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// Func adapts a plain function to the Notifier interface.
type Func func(ctx context.Context, n Notification)

func (f Func) Notify(ctx context.Context, n Notification) {
	f(ctx, n)
}

// FromError builds the notification for a failed operation using the error's
// domain metadata.
func FromError(err error) Notification {
	meta := pkgerrors.MetadataFor(pkgerrors.CodeOf(err))
	return Notification{
		Category: enums.NotificationError,
		Message:  meta.PublicMessage,
	}
}

// Success builds a success notification.
func Success(message string) Notification {
	return Notification{Category: enums.NotificationSuccess, Message: message}
}

// Info builds an informational notification.
func Info(message string) Notification {
	return Notification{Category: enums.NotificationInfo, Message: message}
}

// LogSink is the default Notifier: it writes notifications to the structured
// log so headless runs (CLI, tests) still record what the agent would see.
type LogSink struct {
	Log *logger.Logger
}

func (s LogSink) Notify(ctx context.Context, n Notification) {
	if s.Log == nil {
		return
	}
	ctx = s.Log.WithField(ctx, "category", string(n.Category))
	switch n.Category {
	case enums.NotificationError:
		s.Log.Warn(ctx, n.Message)
	default:
		s.Log.Info(ctx, n.Message)
	}
}
