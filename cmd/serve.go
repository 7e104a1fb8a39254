package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crmimport/config"
	"crmimport/storage"
	"crmimport/web"

	"github.com/spf13/cobra"
)

var (
	servePort   int
	serveDBPath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local mapping API",
	Long: `Start a local HTTP server exposing the interactive mapping flow as JSON:
upload a file to open a session, pick a sheet, revise the proposed mapping,
then commit to execute the import.`,
	Example: `
  # Start local server on default port
  crmimport serve

  # Start with explicit db and custom port
  crmimport serve --port 9090 --db ./crmimport.db
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		store, err := storage.OpenSQLite(serveDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		addr := fmt.Sprintf(":%d", servePort)
		server := &http.Server{
			Addr:    addr,
			Handler: web.NewServer(store, *cfg),
		}

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.ListenAndServe()
		}()

		fmt.Printf("Listening on http://localhost:%d\n", servePort)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-sigCh:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				return fmt.Errorf("shutdown server: %w", err)
			}
			err := <-errCh
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVar(&servePort, "port", 8080, "HTTP port for the local mapping API")
	serveCmd.Flags().StringVar(&serveDBPath, "db", "./crmimport.db", "Path to local SQLite database")
}
