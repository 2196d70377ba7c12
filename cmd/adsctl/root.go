package main

import (
	"encoding/json"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"adsfront/internal/adsapi"
	"adsfront/internal/config"
	"adsfront/internal/logging"
	"adsfront/internal/models"
)

// app is built once per invocation in PersistentPreRunE.
type app struct {
	v      *viper.Viper
	out    io.Writer
	cfg    *config.Config
	log    zerolog.Logger
	client *adsapi.Client
}

func (a *app) token() models.Token {
	return models.Token{TokenType: a.cfg.TokenType, AccessToken: a.cfg.AccessToken}
}

func (a *app) print(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{v: config.New(), out: out}

	root := &cobra.Command{
		Use:           "adsctl",
		Short:         "Command line client for the classified-ads backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.ReadConfigFile(a.v); err != nil {
				return err
			}
			a.cfg = config.FromViper(a.v)
			a.log = logging.New(a.cfg.LogLevel, a.cfg.Environment)
			a.client = adsapi.NewClient(
				adsapi.NewTransport(a.cfg.BaseURL, a.cfg.RequestTimeout, a.cfg.RateLimit, a.cfg.RateBurst),
				a.log,
			)
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file, yaml, json or toml (ADS_CONFIG)")
	flags.String("base-url", "", "backend base URL (ADS_BASE_URL)")
	flags.String("token-type", "", "token type sent in Authorization (ADS_TOKEN_TYPE)")
	flags.String("access-token", "", "access token sent in Authorization (ADS_ACCESS_TOKEN)")
	flags.String("log-level", "", "log level (ADS_LOG_LEVEL)")
	_ = a.v.BindPFlag("config", flags.Lookup("config"))
	_ = a.v.BindPFlag("base_url", flags.Lookup("base-url"))
	_ = a.v.BindPFlag("token_type", flags.Lookup("token-type"))
	_ = a.v.BindPFlag("access_token", flags.Lookup("access-token"))
	_ = a.v.BindPFlag("log_level", flags.Lookup("log-level"))

	root.AddCommand(
		newListCmd(a),
		newCreateCmd(a),
		newUpdateCmd(a),
		newDeleteCmd(a),
		newExportCmd(a),
	)
	return root
}
