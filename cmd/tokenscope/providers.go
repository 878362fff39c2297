package main

import (
	"github.com/spf13/cobra"

	"mercator-hq/tokenscope/pkg/cli"
	"mercator-hq/tokenscope/pkg/providers"
)

var providersFlags struct {
	format string
}

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List providers, their models and credential status",
	RunE:  listProviders,
}

func init() {
	rootCmd.AddCommand(providersCmd)

	providersCmd.Flags().StringVarP(&providersFlags.format, "format", "o", "text", "output format (text, json, csv)")
}

func listProviders(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(providersFlags.format)
	if err != nil {
		return err
	}

	catalogue := providers.ListProviders()
	rows := make([]cli.ProviderRow, 0, len(catalogue))
	for _, p := range catalogue {
		models := make([]string, 0, len(p.Models))
		for _, m := range p.Models {
			models = append(models, m.ID)
		}
		rows = append(rows, cli.ProviderRow{
			ID:     string(p.ID),
			Name:   p.Name,
			Status: providerStatus(p.ID),
			Models: models,
		})
	}

	return cli.NewFormatter(format, app.tr).FormatTo(cmd.OutOrStdout(), rows)
}

func providerStatus(id providers.ProviderID) string {
	if id == providers.OpenAI {
		return app.tr.Message("ProviderLocal", nil)
	}
	if p, ok := app.cfg.Provider(id); ok && p.Configured() {
		return app.tr.Message("ProviderConfigured", nil)
	}
	return app.tr.Message("ProviderNotConfigured", nil)
}
