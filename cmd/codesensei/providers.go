package main

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"codesensei/internal/config"
	"codesensei/internal/provider"
)

func providersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List available providers and credential status",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runProviders(cfg)
		},
	}
}

func runProviders(cfg *config.Config) error {
	rows := pterm.TableData{
		{"Provider", "Model", "Pricing (per 1M)", "Credential", "Env Var", "Portal"},
	}

	for _, name := range provider.Names() {
		adapter, err := provider.New(name, cfg)
		if err != nil {
			return err
		}

		credential := "not set"
		if cred, ok := adapter.Credential(); ok {
			credential = config.MaskCredential(cred.Value) + " (" + cred.Source + ")"
		}

		display := adapter.DisplayName()
		if name == cfg.Provider {
			display += " *"
		}

		pricing := fmt.Sprintf("$%.2f in / $%.2f out",
			adapter.EstimateCost(1_000_000, 0), adapter.EstimateCost(0, 1_000_000))

		rows = append(rows, []string{
			display,
			adapter.ModelName(),
			pricing,
			credential,
			adapter.CredentialEnvVar(),
			adapter.CredentialPortalURL(),
		})
	}

	return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}
