// Serve command: run the MediMeld sync API over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/medimeld/medimeld/internal/server"
	"github.com/medimeld/medimeld/internal/syncer"
	"github.com/medimeld/medimeld/pkg/types"
)

var (
	flagAddr    string
	flagLogFile string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the sync API server",
	Long:  "Serve the batch sync, note listing, and acknowledgment endpoints over HTTP until interrupted.",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "HTTP bind address (default: config listen_addr or :8000)")
	serveCmd.Flags().StringVar(&flagLogFile, "log-file", "", "rotating log file (default: config log_file or stderr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := flagAddr
	if addr == "" {
		addr = configListenAddr
	}
	if addr == "" {
		addr = types.DefaultListenAddr
	}
	logFile := flagLogFile
	if logFile == "" {
		logFile = configLogFile
	}

	cfg := types.Config{ListenAddr: addr, LogFile: logFile}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(logFile)

	store, err := attachStore(logger)
	if err != nil {
		return fmt.Errorf("attach store: %w", err)
	}
	defer store.Detach()

	svc := syncer.New(store, logger)
	handler := server.New(svc, store, logger)

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr, "data_dir", store.DataDir())
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
