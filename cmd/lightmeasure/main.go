package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/lightmeasure/internal/calculator"
	calculatordomain "github.com/smallbiznis/lightmeasure/internal/calculator/domain"
	"github.com/smallbiznis/lightmeasure/internal/clock"
	"github.com/smallbiznis/lightmeasure/internal/config"
	"github.com/smallbiznis/lightmeasure/internal/export"
	"github.com/smallbiznis/lightmeasure/internal/observability"
	"github.com/smallbiznis/lightmeasure/internal/preference"
	"github.com/smallbiznis/lightmeasure/internal/unit"
	"github.com/smallbiznis/lightmeasure/pkg/log/ctxlogger"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const startStopTimeout = 15 * time.Second

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return 2
	}
	name := args[0]
	if name == "help" || name == "-h" || name == "--help" {
		usage(stdout)
		return 0
	}
	cmd, ok := lookupCommand(name)
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n", name)
		usage(stderr)
		return 2
	}

	var (
		svc   calculatordomain.Service
		genID *snowflake.Node
	)
	app := fx.New(
		fx.NopLogger,
		config.Module,
		observability.Module,
		clock.Module,
		unit.Module,
		preference.Module,
		export.Module,
		calculator.Module,
		fx.Populate(&svc, &genID),
	)
	if err := app.Err(); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	startCtx, cancel := context.WithTimeout(context.Background(), startStopTimeout)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	ctx := ctxlogger.ContextWithInvocation(context.Background(), genID.Generate().String())
	ctx = ctxlogger.ContextWithCommand(ctx, name)
	code := execute(ctx, cmd, svc, args[1:], stdin, stdout, stderr)
	ctxlogger.FromContext(ctx).Debug("command finished", zap.Int("exit_code", code))

	stopCtx, stopCancel := context.WithTimeout(context.Background(), startStopTimeout)
	defer stopCancel()
	if err := app.Stop(stopCtx); err != nil {
		fmt.Fprintf(stderr, "warning: shutdown: %v\n", err)
	}
	return code
}

// execute runs one command against svc and maps its error to an exit status.
// A failed save after a successful calculation is only a warning.
func execute(ctx context.Context, cmd command, svc calculatordomain.Service, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	env := &env{svc: svc, stdin: stdin, stdout: stdout, stderr: stderr}
	err := cmd.run(ctx, env, args)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		return 2
	case errors.Is(err, calculatordomain.ErrPersistence):
		fmt.Fprintf(stderr, "warning: %v\n", err)
		return 0
	default:
		fmt.Fprintf(stderr, "error: %s\n", describe(err))
		return 1
	}
}

func describe(err error) string {
	var numErr *calculatordomain.NumberError
	switch {
	case errors.Is(err, calculatordomain.ErrMissingRate):
		return "no rate configured; set one with `lightmeasure rate -set <price per base unit>`"
	case errors.As(err, &numErr):
		if numErr.Input == "" {
			return "please enter a valid number"
		}
		return fmt.Sprintf("please enter a valid number (got %q)", numErr.Input)
	case errors.Is(err, calculatordomain.ErrEmptyInput):
		return "no values to process"
	case errors.Is(err, calculatordomain.ErrEmptyResultSet):
		return "no results to export"
	default:
		return err.Error()
	}
}
