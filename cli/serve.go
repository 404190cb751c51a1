package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/kutbudev/todolists/api"
	"github.com/kutbudev/todolists/internal/store"
	"github.com/kutbudev/todolists/pkg/config"
	"github.com/kutbudev/todolists/pkg/repository"
)

func newServeCommand(load loader) *cobra.Command {
	var (
		port    int
		host    string
		memory  bool
		migrate bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if cmd.Flags().Changed("host") {
				cfg.Server.Host = host
			}
			if memory {
				cfg.Store = config.StoreMemory
			}

			s, closeStore, err := openStore(cfg, migrate)
			if err != nil {
				return err
			}
			defer closeStore()

			if !cfg.Debug {
				gin.SetMode(gin.ReleaseMode)
			}
			srv := &http.Server{
				Addr:              cfg.Server.Addr(),
				Handler:           api.NewRouter(s),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				log.Printf("Listening on %s (store: %s)", srv.Addr, cfg.Store)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return fmt.Errorf("server failed: %w", err)
			case <-ctx.Done():
			}

			log.Println("Shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "Port to listen on")
	cmd.Flags().StringVar(&host, "host", "localhost", "Host to bind")
	cmd.Flags().BoolVar(&memory, "memory", false, "Keep data in memory instead of postgres")
	cmd.Flags().BoolVar(&migrate, "migrate", false, "Run schema migration before serving")

	return cmd
}

// openStore returns the configured store and a function releasing it.
func openStore(cfg *config.Config, migrate bool) (store.Store, func(), error) {
	if cfg.Store == config.StoreMemory {
		return store.NewMemory(), func() {}, nil
	}

	db, err := repository.NewDatabase(cfg)
	if err != nil {
		return nil, nil, err
	}
	if migrate {
		if err := repository.Migrate(db); err != nil {
			_ = repository.Close(db)
			return nil, nil, err
		}
	}
	closeDB := func() {
		if err := repository.Close(db); err != nil {
			log.Printf("closing database: %v", err)
		}
	}
	return store.NewGorm(db), closeDB, nil
}
