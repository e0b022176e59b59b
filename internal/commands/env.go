package commands

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/gerunddev/mdslate/convert"
	"github.com/gerunddev/mdslate/internal/config"
	"github.com/gerunddev/mdslate/internal/logger"
)

type envKey struct{}

// Env keeps everything the commands need in a single place
type Env struct {
	Cfg        *config.Config
	ConfigPath string
	Log        *logger.Logger
	Engine     *convert.Engine

	Out io.Writer
	In  io.Reader

	// ErrLogged is set once a failing command has been reported on stderr
	ErrLogged bool

	start    time.Time
	console  bool
	closeLog func() error
}

// EnvFromContext returns the environment stored by ContextWithEnv
func EnvFromContext(ctx context.Context) *Env {
	if env, ok := ctx.Value(envKey{}).(*Env); ok {
		return env
	}
	// this should never happen
	panic("command environment not found in context")
}

// ContextWithEnv returns ctx carrying a fresh environment writing to stdout
func ContextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, &Env{
		Cfg:    config.DefaultConfig(),
		Log:    logger.Discard(),
		Engine: convert.New(),
		Out:    os.Stdout,
		In:     os.Stdin,
		start:  time.Now(),
	})
}

// Uptime returns the time since the environment was created
func (e *Env) Uptime() time.Duration {
	return time.Since(e.start)
}
