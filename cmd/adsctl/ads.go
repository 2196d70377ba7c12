package main

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"adsfront/internal/models"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List advertisements, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ads, err := a.client.ListAds(cmd.Context())
			if err != nil {
				return err
			}
			return a.print(ads)
		},
	}
}

func newCreateCmd(a *app) *cobra.Command {
	var in models.AdFields
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an advertisement",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ad, err := a.client.CreateAd(cmd.Context(), models.CreateAdInput{Token: a.token(), Ad: in})
			if err != nil {
				return err
			}
			return a.print(ad)
		},
	}
	cmd.Flags().StringVar(&in.Title, "title", "", "title")
	cmd.Flags().StringVar(&in.Description, "description", "", "description")
	cmd.Flags().Float64Var(&in.Price, "price", 0, "price")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("description")
	_ = cmd.MarkFlagRequired("price")
	return cmd
}

func newUpdateCmd(a *app) *cobra.Command {
	var (
		patch      models.AdPatch
		price      float64
		clearPrice bool
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an advertisement; --clear-price sends a null price",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return errors.Errorf("ad id must be an integer, got %q", args[0])
			}
			if !clearPrice {
				patch.Price = models.Float(price)
			}
			ad, err := a.client.UpdateAd(cmd.Context(), models.UpdateAdInput{ID: id, Ad: patch, Token: a.token()})
			if err != nil {
				return err
			}
			return a.print(ad)
		},
	}
	cmd.Flags().StringVar(&patch.Title, "title", "", "title")
	cmd.Flags().StringVar(&patch.Description, "description", "", "description")
	cmd.Flags().Float64Var(&price, "price", 0, "price")
	cmd.Flags().BoolVar(&clearPrice, "clear-price", false, "send a null price")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("description")
	cmd.MarkFlagsMutuallyExclusive("price", "clear-price")
	cmd.MarkFlagsOneRequired("price", "clear-price")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an advertisement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.DeleteAd(cmd.Context(), models.DeleteAdInput{ID: args[0], Token: a.token()}); err != nil {
				return err
			}
			_, err := fmt.Fprintf(a.out, "deleted %s\n", args[0])
			return err
		},
	}
}
