package main

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/ostinato-fm/ostinato/internal/config"
	"github.com/ostinato-fm/ostinato/internal/pages/recommend"
	"github.com/ostinato-fm/ostinato/pkg/middleware"
	"github.com/ostinato-fm/ostinato/pkg/router"
	"github.com/ostinato-fm/ostinato/pkg/server"
)

func serveCmd() *cobra.Command {
	var (
		address string
		dir     string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		Long: `Start the web server with the recommendation routes mounted.

Settings come from ostinato.json in the working directory; flags
override the file.

Examples:
  ostinato serve
  ostinato serve --address=:3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, address, dir)
		},
	}

	cmd.Flags().StringVarP(&address, "address", "a", "", "Listen address (default from ostinato.json)")
	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Directory containing ostinato.json")

	return cmd
}

func runServe(cmd *cobra.Command, address, dir string) error {
	cfg, err := config.Load(dir)
	if err != nil {
		return err
	}
	if address == "" {
		address = cfg.Server.Address
	}

	rt, err := buildRouter(cfg)
	if err != nil {
		return err
	}

	srv := server.New(&server.Config{
		Address:         address,
		ShutdownTimeout: cfg.ShutdownTimeout(),
	}, rt)

	return srv.Run(cmd.Context())
}

// buildRouter mounts every page package and wires the activation middleware.
func buildRouter(cfg *config.Config) (*router.Router, error) {
	client := recommend.NewClient(cfg.API.BaseURL, &http.Client{Timeout: cfg.APITimeout()})

	rt := router.New()
	if err := rt.Mount(recommend.New(client).Routes()...); err != nil {
		return nil, err
	}
	rt.Use(
		middleware.Prometheus(),
		middleware.OpenTelemetry(),
	)
	return rt, nil
}
