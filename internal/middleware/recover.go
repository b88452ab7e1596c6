package middleware

import (
	"fmt"
	"runtime/debug"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Guard runs fn and turns a panic into a logged error, so one failing event
// never takes down the event loop
func Guard(logger *zap.Logger, event string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s handler: %v", event, r)
			logger.Error("Recovered from handler panic",
				zap.String("event", event),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()),
			)
		}
	}()

	if err := fn(); err != nil {
		logger.Error("Handler failed", zap.String("event", event), zap.Error(err))
		return err
	}
	return nil
}

// Recover creates telebot middleware that guards every handler and swallows
// its error after logging it
func Recover(logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			_ = Guard(logger, eventName(c), func() error {
				return next(c)
			})
			return nil
		}
	}
}

func eventName(c tele.Context) string {
	msg := c.Message()
	if msg == nil {
		return "update"
	}
	if msg.Text != "" && msg.Text[0] == '/' {
		return "command"
	}
	return "message"
}
