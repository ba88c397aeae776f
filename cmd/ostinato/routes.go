package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ostinato-fm/ostinato/internal/config"
	"github.com/ostinato-fm/ostinato/internal/pages/recommend"
	"github.com/ostinato-fm/ostinato/pkg/routetree"
)

func routesCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List and validate the route table",
		Long: `Validate the application's route table and print each route
with its index and loader flags.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoutes(dir)
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Directory containing ostinato.json")

	return cmd
}

func runRoutes(dir string) error {
	cfg, err := config.Load(dir)
	if err != nil {
		return err
	}

	routes := appRoutes(cfg)
	if err := routetree.Validate(routes); err != nil {
		return err
	}

	for _, info := range routetree.Flatten(routes) {
		flags := ""
		if info.Index {
			flags += " [index]"
		}
		if info.HasLoader {
			flags += " [loader]"
		}
		fmt.Printf("%s%s\n", info.Pattern, flags)
	}
	return nil
}

// appRoutes builds the full route table of the application.
func appRoutes(cfg *config.Config) []*routetree.Node {
	client := recommend.NewClient(cfg.API.BaseURL, nil)
	return recommend.New(client).Routes()
}
