package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"society/internal/api"
	"society/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the society operations as a JSON API",
	Long: `Start an HTTP server exposing bills, payments, expenses, ledgers and
reports under /api. The listen address comes from HTTP_ADDR and the per-request
timeout from REQUEST_TIMEOUT.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default: HTTP_ADDR)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("serve")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx, log)
	if err != nil {
		return err
	}
	log = logger.WithSociety("serve", a.cfg.SocietyID)

	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = a.cfg.HTTPAddr
	}

	app := api.NewApp(api.Services{
		Store:    a.store,
		Bills:    a.bills,
		Payments: a.payments,
		Expenses: a.expenses,
	}, a.cfg.RequestTimeout)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("Listening")
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return handleError(err, log)
	case <-ctx.Done():
		log.Info().Msg("Shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error().Err(err).Msg("Shutdown failed")
			return err
		}
		return nil
	}
}
