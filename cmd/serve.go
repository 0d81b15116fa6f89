package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fdumary/HawkEye/internal/audit"
	"github.com/fdumary/HawkEye/internal/config"
	"github.com/fdumary/HawkEye/internal/credential"
	"github.com/fdumary/HawkEye/internal/identity"
	"github.com/fdumary/HawkEye/internal/web"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the access-control server",
	Long: `Start the HawkEye HTTP server.
The server exposes authentication, enrollment, area access decisions
and the audit log under /api.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 0, "Port to listen on (overrides HAWKEYE_PORT)")
	serveCmd.Flags().String("host", "", "Host to bind to (overrides HAWKEYE_HOST)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	if port := mustGetInt(cmd, "port"); port != 0 {
		cfg.Server.Port = port
	}
	if host := mustGetString(cmd, "host"); host != "" {
		cfg.Server.Host = host
	}

	identities, err := identity.LoadStore(cfg.Roster.Path)
	if err != nil {
		return fmt.Errorf("failed to load roster: %w", err)
	}
	fmt.Printf("Loaded %d personnel records\n", identities.Len())

	be, err := openBackend(cfg)
	if err != nil {
		return err
	}
	defer be.close()
	fmt.Printf("Using %s storage backend\n", cfg.Database.Driver)

	cmp, err := credential.NewComparator(cfg.Verifier.Comparator)
	if err != nil {
		return fmt.Errorf("failed to create comparator: %w", err)
	}
	verifier := credential.NewVerifier(be.credentials, cmp, cfg.Verifier.Threshold, cfg.Verifier.Timeout)

	opts := []audit.Option{
		audit.WithCapacity(cfg.Audit.Capacity),
		audit.WithWindow(cfg.Audit.Window),
		audit.WithRecorder(be.recorder),
	}
	if cfg.Audit.LogPath != "" {
		f, err := os.OpenFile(cfg.Audit.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open audit log file: %w", err)
		}
		defer f.Close()
		opts = append(opts, audit.WithSink(audit.NewJSONWriterSink(f)))
	}
	ledger := audit.NewLedger(opts...)

	if err := ledger.Restore(context.Background()); err != nil {
		return fmt.Errorf("failed to restore audit history: %w", err)
	}
	if n := ledger.Len(); n > 0 {
		fmt.Printf("Restored %d audit events\n", n)
	}

	server := web.NewServer(cfg, identities, verifier, ledger, be.sessions)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		fmt.Printf("\nReceived %v, shutting down...\n", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
