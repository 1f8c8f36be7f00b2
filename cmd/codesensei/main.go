package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"codesensei/internal/config"
	"codesensei/internal/errdefs"
	"codesensei/internal/output"
	"codesensei/internal/provider"

	// Register providers via init() side effects.
	_ "codesensei/internal/provider/anthropic"
	_ "codesensei/internal/provider/gemini"
	_ "codesensei/internal/provider/openai"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"

	configPath   string
	providerFlag string
)

func versionString() string {
	return fmt.Sprintf("codesensei %s (commit: %s, built: %s)", version, commit, date)
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "codesensei",
		Short: "AI-powered codebase documentation",
		Long: "codesensei analyzes a codebase and generates learning documentation\n" +
			"with an LLM: overview, architecture, core files, per-module deep\n" +
			"dives, plus an interactive mode for exploring individual files.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&providerFlag, "provider", "", "override provider name")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println(versionString())
		},
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(explainCmd())
	rootCmd.AddCommand(configureCmd())
	rootCmd.AddCommand(providersCmd())

	if err := rootCmd.Execute(); err != nil {
		console := output.Default()
		console.Errorf("%v\n", err)
		if hint := errdefs.HintOf(err); hint != "" {
			console.Dimf("Hint: %s\n", hint)
		}
		os.Exit(1)
	}
}

// loadConfig resolves the config path and loads the config file.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return config.Load(path)
}

// resolveAdapter picks the backend: the --provider flag wins over the
// config file's selection.
func resolveAdapter(cfg *config.Config) (provider.Adapter, error) {
	name := providerFlag
	if name == "" {
		name = cfg.Provider
	}
	if name == "" {
		return nil, errdefs.New(errdefs.KindConfiguration,
			"no provider configured",
			"run 'codesensei configure' to pick a provider and set an API key")
	}
	return provider.New(name, cfg)
}
