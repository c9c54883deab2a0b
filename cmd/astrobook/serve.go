package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orastria/astrobook/internal/config"
	"github.com/orastria/astrobook/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that accepts questionnaire payloads and returns download URLs for generated books.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if servePort != 0 {
		cfg.Port = servePort
	}

	runner, cleanup, err := buildRunner(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("building pipeline: %w", err)
	}
	defer cleanup()

	srv := server.New(server.Config{
		Port:      cfg.Port,
		JWTSecret: cfg.JWTSecret,
	}, runner)

	return srv.Start()
}
