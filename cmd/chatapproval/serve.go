package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/viant/chatapproval"
	"github.com/viant/chatapproval/internal/server"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP front door and approval engine",
		Long: `Start the approval service.

Examples:
  chatapproval serve --config chatapproval.yaml
  chatapproval serve --addr :9090 --transport memory --store memory`,
		RunE: runServe,
	}
	cmd.Flags().String("addr", "", "listen address, overrides server.addr")
	cmd.Flags().String("transport", "", "transport kind (memory, gateway), overrides transport.kind")
	cmd.Flags().String("store", "", "store kind (memory, fs, sqlite), overrides store.kind")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Server.Addr = addr
	}
	if kind, _ := cmd.Flags().GetString("transport"); kind != "" {
		cfg.Transport.Kind = kind
	}
	if kind, _ := cmd.Flags().GetString("store"); kind != "" {
		cfg.Store.Kind = kind
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := chatapproval.New(ctx, chatapproval.WithConfig(cfg))
	if err != nil {
		return err
	}
	if err = srv.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := srv.Shutdown(context.WithoutCancel(ctx)); err != nil {
			srv.Logger().Error("shutdown failed", "error", err)
		}
	}()
	apiKey, err := srv.APIKey(ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve API key: %w", err)
	}
	if apiKey == "" {
		srv.Logger().Warn("no API key configured, mutating routes are unprotected")
	}
	return server.New(srv, apiKey, srv.Logger()).ListenAndServe(ctx, cfg.Server)
}
