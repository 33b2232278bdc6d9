package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/leagueroast/gazette/internal/api"
	"github.com/leagueroast/gazette/internal/archive"
)

var serveFlags struct {
	addr string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve archived issues and standings over HTTP",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveFlags.addr, "addr", ":8080", "Listen address")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.Archive.Enabled {
		return fmt.Errorf("archive is disabled; nothing to serve")
	}

	db, err := archive.Open(cfg.Archive.Path)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer db.Close()

	appCfg := cfg
	appCfg.Archive.Enabled = false
	a, cleanup, err := buildApp(appCfg)
	if err != nil {
		return err
	}
	defer cleanup()

	server := api.NewServer(serveFlags.addr, db, a, strconv.Itoa(cfg.Season))
	if err := server.Start(cmd.Context()); err != nil {
		return err
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-cmd.Context().Done():
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}
