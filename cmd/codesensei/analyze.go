package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"codesensei/internal/generate"
	"codesensei/internal/output"
	"codesensei/internal/provider"
	"codesensei/internal/scanner"
)

// estimatedOutputTokens approximates generated output for the cost
// preview: each document is capped at 4096 tokens.
const estimatedOutputTokens = 4096

func analyzeCmd() *cobra.Command {
	var (
		frameworksFlag string
		yesFlag        bool
	)

	cmd := &cobra.Command{
		Use:   "analyze [path]",
		Short: "Generate documentation for a codebase",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			root := "."
			if len(args) > 0 {
				root = args[0]
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			return runAnalyze(ctx, root, parseFrameworks(frameworksFlag), yesFlag)
		},
	}

	cmd.Flags().StringVar(&frameworksFlag, "frameworks", "", "comma-separated framework names to include in prompts")
	cmd.Flags().BoolVarP(&yesFlag, "yes", "y", false, "skip the cost confirmation prompt")
	return cmd
}

func runAnalyze(ctx context.Context, root string, frameworks []string, skipConfirm bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	adapter, err := resolveAdapter(cfg)
	if err != nil {
		return err
	}

	console := output.Default().WithEmoji(cfg.EmojiEnabled)

	spinner, _ := pterm.DefaultSpinner.Start("Scanning " + root + "...")
	result, err := scanner.Scan(root, frameworks)
	if err != nil {
		if spinner != nil {
			spinner.Fail("Scan failed")
		}
		return err
	}
	if spinner != nil {
		spinner.Success(fmt.Sprintf("Scanned %d files", len(result.Files)))
	}

	docCount := len(stagesPreview(result))
	result.EstimatedCost = adapter.EstimateCost(result.TotalTokens, estimatedOutputTokens*docCount)

	console.Titlef("Analysis summary\n")
	console.Printf("  Files:          %d\n", len(result.Files))
	console.Printf("  Tokens:         %d\n", result.TotalTokens)
	console.Printf("  Provider:       %s (%s)\n", adapter.DisplayName(), adapter.ModelName())
	console.Printf("  Estimated cost: $%.4f\n\n", result.EstimatedCost)

	if !skipConfirm && !confirm(console, "Generate documentation?") {
		console.Println("Aborted.")
		return nil
	}

	caller := provider.NewCaller(adapter)
	outputDir, err := generate.NewPipeline(caller, console).Run(ctx, result)
	if err != nil {
		return err
	}

	console.Successf("Documentation generated successfully!\n")
	console.Dimf("Output directory: %s\n", outputDir)
	return nil
}

// stagesPreview lists the documents a run would produce, for the cost
// estimate: six fixed stages plus one per qualifying module.
func stagesPreview(result *scanner.AnalysisResult) []string {
	docs := []string{"overview", "orientation", "architecture", "core-files", "quality", "next-steps"}
	for _, m := range scanner.GroupModules(result.Files) {
		docs = append(docs, "deep-dive-"+m.Name)
	}
	return docs
}

func confirm(console *output.Console, question string) bool {
	console.Printf("%s [y/N] ", question)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func parseFrameworks(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var names []string
	for _, name := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	return names
}
