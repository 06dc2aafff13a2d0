// Command citegraph crawls, analyzes and serves academic citation graphs.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/citegraph/internal/cli"
	cgerrors "github.com/matzehuels/citegraph/pkg/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.New(os.Stderr, cli.LogInfo).RootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(exitCode(err))
	}
}

// exitCode maps interrupts to 130 and bad input to 2.
func exitCode(err error) int {
	switch {
	case errors.Is(err, context.Canceled):
		return 130
	case cgerrors.Is(err, cgerrors.ErrCodeInvalidInput), cgerrors.Is(err, cgerrors.ErrCodeInvalidFormat):
		return 2
	}
	return 1
}
