package server

import (
	"errors"

	"github.com/SaiNageswarS/go-ajax-boot/logger"
	"go.uber.org/zap"
)

var errFatal = errors.New("logger.Fatal called")

type fatalRecorder struct {
	isFatalCalled bool
	fatalMsg      string
}

// withMockLogger runs fn with logger.Fatal replaced by a recorder. The stand-in
// panics so fn stops where the real Fatal would exit; other panics propagate.
func withMockLogger(fn func()) (rec *fatalRecorder) {
	rec = &fatalRecorder{}
	orig := logger.Fatal
	logger.Fatal = func(msg string, _ ...zap.Field) {
		rec.isFatalCalled, rec.fatalMsg = true, msg
		panic(errFatal)
	}
	defer func() {
		logger.Fatal = orig
		if r := recover(); r != nil && r != errFatal {
			panic(r)
		}
	}()

	fn()
	return rec
}
