package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sweetpotato0/ai-uigen/config"
	errorskg "github.com/sweetpotato0/ai-uigen/errors"
	uimcp "github.com/sweetpotato0/ai-uigen/mcp"
	"github.com/sweetpotato0/ai-uigen/pkg/logging"
	"github.com/sweetpotato0/ai-uigen/runner"
	"github.com/sweetpotato0/ai-uigen/server"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(configPath *string) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the generator page, JSON API, metrics and MCP endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, *configPath, nil)
			if err != nil {
				return err
			}
			defer closeApp(a)

			if cmd.Flags().Changed("addr") {
				if err := config.ValidateServerConfig(config.ServerConfig{Addr: addr}); err != nil {
					return err
				}
				a.cfg.Server.Addr = addr
			}

			srv := server.New(server.Config{
				Addr:      a.cfg.Server.Addr,
				Generator: a.runner,
				Gatherer:  a.registry,
				MCP:       uimcp.Handler(uimcp.NewServer("uigen", version, a.runner)),
				Model:     a.cfg.Gemini.Model,
			})

			errCh := make(chan error, 1)
			go func() { errCh <- srv.ListenAndServe() }()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			logging.Logger().Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}

func newGenerateCmd(configPath *string) *cobra.Command {
	var opts outputOptions

	cmd := &cobra.Command{
		Use:   "generate <description>",
		Short: "Generate one HTML file for a UI description",
		Example: `  uigen generate "a login form with remember-me"
  uigen generate --out pricing.html "a pricing page with three tiers"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			description := strings.Join(args, " ")
			if strings.TrimSpace(description) == "" {
				return errors.New(runner.MessageEmptyPrompt)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, *configPath, io.Discard)
			if err != nil {
				return err
			}
			defer closeApp(a)

			fmt.Fprintln(cmd.ErrOrStderr(), headerColor("Generating..."))
			result, err := a.runner.Generate(ctx, description)
			if err != nil {
				return generateError(err)
			}
			return writeResult(cmd.OutOrStdout(), cmd.ErrOrStderr(), result, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.OutPath, "out", "o", "", "write the output to a file instead of stdout")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "print the result object as JSON")
	return cmd
}

func newMCPCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the generate_ui tool over MCP stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, *configPath, io.Discard)
			if err != nil {
				return err
			}
			defer closeApp(a)

			err = uimcp.ServeStdio(ctx, uimcp.NewServer("uigen", version, a.runner))
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}

// generateError maps a runner error to the message shown to the user.
// Details were already logged by the runner.
func generateError(err error) error {
	switch {
	case errors.Is(err, errorskg.ErrEmptyPrompt):
		return errors.New(runner.MessageEmptyPrompt)
	case errors.Is(err, errorskg.ErrBusy):
		return errors.New("a generation is already in progress")
	default:
		return errors.New(runner.MessageTerminalFailure)
	}
}

func closeApp(a *app) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.Close(ctx); err != nil {
		logging.Logger().Warn("telemetry shutdown failed", "error", err)
	}
}
