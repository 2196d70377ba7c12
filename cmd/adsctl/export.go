package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"adsfront/internal/config"
	"adsfront/internal/services"
)

func newExportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Upload the current listing to S3 as a JSON snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s3cfg, err := config.NewS3Config(cmd.Context(), a.cfg.S3)
			if err != nil {
				return err
			}
			exp := services.NewSnapshotExporter(a.client, s3cfg.Uploader(), s3cfg.Bucket, s3cfg.Prefix, a.log)
			key, err := exp.Export(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(a.out, "s3://%s/%s\n", s3cfg.Bucket, key)
			return err
		},
	}
	cmd.Flags().String("bucket", "", "destination bucket (ADS_S3_BUCKET)")
	cmd.Flags().String("prefix", "", "key prefix (ADS_S3_PREFIX)")
	cmd.Flags().String("region", "", "AWS region (ADS_S3_REGION)")
	_ = a.v.BindPFlag("s3.bucket", cmd.Flags().Lookup("bucket"))
	_ = a.v.BindPFlag("s3.prefix", cmd.Flags().Lookup("prefix"))
	_ = a.v.BindPFlag("s3.region", cmd.Flags().Lookup("region"))
	return cmd
}
