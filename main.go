package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gerunddev/mdslate/internal/commands"
)

const version = "0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(commands.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	var err error
	// NOTE: os.Exit is called at the end of main to set exit code, make sure
	// there are no other deferred functions after that
	defer func() {
		stop()
		if err != nil {
			if !commands.EnvFromContext(ctx).ErrLogged {
				fmt.Fprintf(os.Stderr, "mdslate: %v\n", err)
			}
			os.Exit(1)
		}
	}()
	err = commands.NewApp(version).Run(ctx, os.Args)
}
