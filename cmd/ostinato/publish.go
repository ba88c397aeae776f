package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ostinato-fm/ostinato/internal/config"
	oerrors "github.com/ostinato-fm/ostinato/internal/errors"
	"github.com/ostinato-fm/ostinato/pkg/publish"
)

func publishCmd() *cobra.Command {
	var (
		dir    string
		bucket string
		prefix string
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish the route manifest to S3",
		Long: `Flatten the route table into a manifest and upload it to S3.

Bucket, prefix, and region come from the publish section of
ostinato.json; flags override the file. AWS credentials are read
from the environment.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPublish(cmd, dir, bucket, prefix)
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Directory containing ostinato.json")
	cmd.Flags().StringVarP(&bucket, "bucket", "b", "", "S3 bucket (default from ostinato.json)")
	cmd.Flags().StringVarP(&prefix, "prefix", "p", "", "Key prefix (default from ostinato.json)")

	return cmd
}

func runPublish(cmd *cobra.Command, dir, bucket, prefix string) error {
	cfg, err := config.Load(dir)
	if err != nil {
		return err
	}
	if bucket == "" {
		bucket = cfg.Publish.Bucket
	}
	if prefix == "" {
		prefix = cfg.Publish.Prefix
	}
	if bucket == "" {
		return oerrors.New(oerrors.CategoryConfig, "no publish bucket configured").
			WithSuggestion(`Set publish.bucket in ostinato.json or pass --bucket`)
	}

	p := publish.New(
		publish.NewS3Client(cfg.Publish.Region),
		bucket, prefix,
		publish.WithBaseURL(cfg.Publish.BaseURL),
	)

	key, err := p.Publish(cmd.Context(), appRoutes(cfg))
	if err != nil {
		return err
	}
	fmt.Printf("published s3://%s/%s\n", bucket, key)
	return nil
}
