package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"codesensei/internal/config"
	"codesensei/internal/errdefs"
	"codesensei/internal/output"
	"codesensei/internal/provider"
)

func configureCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "configure",
		Short: "Select a provider and store an API key",
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			return runConfigure(ctx)
		},
	}
}

func runConfigure(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	console := output.Default().WithEmoji(cfg.EmojiEnabled)
	reader := bufio.NewReader(os.Stdin)

	names := provider.Names()
	console.Titlef("Choose a provider\n")
	for i, name := range names {
		adapter, err := provider.New(name, cfg)
		if err != nil {
			return err
		}
		inRate := adapter.EstimateCost(1_000_000, 0)
		outRate := adapter.EstimateCost(0, 1_000_000)
		console.Printf("  %d. %s (%s) — $%.2f/M input, $%.2f/M output\n",
			i+1, adapter.DisplayName(), adapter.ModelName(), inRate, outRate)
	}
	console.Printf("\nProvider [1-%d]: ", len(names))

	choice, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("reading selection: %w", err)
	}
	idx, err := strconv.Atoi(strings.TrimSpace(choice))
	if err != nil || idx < 1 || idx > len(names) {
		return errdefs.New(errdefs.KindConfiguration,
			"invalid selection",
			fmt.Sprintf("enter a number between 1 and %d", len(names)))
	}
	name := names[idx-1]

	adapter, err := provider.New(name, cfg)
	if err != nil {
		return err
	}

	console.Printf("\nGet an API key at: %s\n", adapter.CredentialPortalURL())
	console.Printf("API key (input hidden): ")
	keyBytes, err := readSecret()
	console.Println("")
	if err != nil {
		return fmt.Errorf("reading API key: %w", err)
	}
	key := strings.TrimSpace(string(keyBytes))
	if key == "" {
		return errdefs.New(errdefs.KindConfiguration, "no API key entered", "")
	}

	spinner, _ := pterm.DefaultSpinner.Start("Validating API key...")
	valid, msg := adapter.ValidateCredential(ctx, key)
	if !valid {
		if spinner != nil {
			spinner.Fail(msg)
		}
		return errdefs.New(errdefs.KindAuthentication, msg,
			"get a new key at "+adapter.CredentialPortalURL())
	}
	if spinner != nil {
		spinner.Success(msg)
	}

	cfg.Provider = name
	cfg.Credentials[name] = key

	path := configPath
	if path == "" {
		path, err = config.DefaultPath()
		if err != nil {
			return err
		}
	}
	if err := config.Save(cfg, path); err != nil {
		return err
	}

	console.Successf("Saved %s with key %s\n", adapter.DisplayName(), config.MaskCredential(key))
	console.Dimf("Config: %s\n", path)
	return nil
}

// readSecret reads a line without echo when stdin is a terminal, and
// falls back to a plain read otherwise (pipes, tests).
func readSecret() ([]byte, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		return term.ReadPassword(fd)
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return nil, err
	}
	return []byte(line), nil
}
