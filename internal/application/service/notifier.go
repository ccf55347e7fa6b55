package service

import (
	"errors"

	"go.uber.org/zap"

	"github.com/khoahotran/spotme/pkg/logger"
)

type NotificationKind string

const (
	NotifyInfo    NotificationKind = "info"
	NotifySuccess NotificationKind = "success"
	NotifyError   NotificationKind = "error"
)

// Notifier surfaces transient user-facing messages. Notify must not block.
type Notifier interface {
	Notify(kind NotificationKind, message string)
}

type NotifierFunc func(kind NotificationKind, message string)

func (f NotifierFunc) Notify(kind NotificationKind, message string) { f(kind, message) }

// MultiNotifier fans a message out to every notifier in order.
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(kind NotificationKind, message string) {
	for _, n := range m {
		if n != nil {
			n.Notify(kind, message)
		}
	}
}

type logNotifier struct {
	logger logger.Logger
}

// NewLogNotifier writes notifications to the structured log.
func NewLogNotifier(l logger.Logger) Notifier {
	return &logNotifier{logger: l.With(zap.String("component", "notifier"))}
}

func (n *logNotifier) Notify(kind NotificationKind, message string) {
	switch kind {
	case NotifyError:
		n.logger.Error("User notification", errors.New(message))
	default:
		n.logger.Info("User notification", zap.String("kind", string(kind)), zap.String("message", message))
	}
}
