package log

import (
	"go.uber.org/zap"
)

var base = zap.NewNop()

// Init builds the process logger: JSON output in production, console in
// dev. Safe to call once at startup (and from tests).
func Init(prod bool) (*zap.Logger, error) {
	var (
		l   *zap.Logger
		err error
	)
	if prod {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}
	base = l
	return l, nil
}

// L returns the process logger. Nop until Init is called.
func L() *zap.Logger { return base }

func Sync() { _ = base.Sync() }
