package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jgoulah/ecohome/internal/logger"
	"github.com/jgoulah/ecohome/internal/web"
)

var (
	serveAddr    string
	serveDebug   bool
	serveLogFile string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web dashboard and JSON API",
	Long:  `Starts the HTTP server for the household dashboard, CSV import/export and the JSON API.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config, default :5000)")
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "enable debug logging and gin debug mode")
	serveCmd.Flags().StringVar(&serveLogFile, "log-file", "", "also append logs to this file (stdout logging continues)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	debug := serveDebug || cfg.Server.Debug

	log := logger.Default
	log.SetDebug(debug)
	if serveLogFile != "" {
		if err := log.AddFile(serveLogFile); err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
	}

	if debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	gin.DefaultWriter = log.Writer()

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	srv := &http.Server{
		Addr:              cfg.GetAddr(),
		Handler:           web.New(db, cfg, log).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening on %s (database %s)", srv.Addr, getDBPath())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
