package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tasklist/api"
	"tasklist/handler"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the task list over HTTP",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	opts := []handler.Option{handler.WithLocation(a.loc)}
	if a.journal != nil {
		opts = append(opts, handler.WithJournal(a.journal))
	}
	h := handler.NewHandler(a.store, opts...)

	mux := api.SetupRoutes(h)

	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server started on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		return err
	}
	log.Println("Server stopped")
	return nil
}
