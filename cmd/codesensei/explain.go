package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"codesensei/internal/generate"
	"codesensei/internal/output"
	"codesensei/internal/provider"
	"codesensei/internal/repl"
	"codesensei/internal/scanner"
)

// explainContentCeiling bounds how much of a folder's content is loaded
// for an explain session.
const explainContentCeiling = 50_000

func explainCmd() *cobra.Command {
	var (
		frameworksFlag string
		writeFlag      bool
	)

	cmd := &cobra.Command{
		Use:   "explain <path>",
		Short: "Explore a file or folder interactively",
		Long: "explain loads a file or folder and starts an interactive session\n" +
			"for asking questions about it. With --write it generates a one-shot\n" +
			"explanation document instead.",
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			return runExplain(ctx, args[0], parseFrameworks(frameworksFlag), writeFlag)
		},
	}

	cmd.Flags().StringVar(&frameworksFlag, "frameworks", "", "comma-separated framework names to include in prompts")
	cmd.Flags().BoolVar(&writeFlag, "write", false, "write an explanation document instead of starting a session")
	return cmd
}

func runExplain(ctx context.Context, path string, frameworks []string, write bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	adapter, err := resolveAdapter(cfg)
	if err != nil {
		return err
	}

	content, isDir, err := loadExplainContent(path)
	if err != nil {
		return err
	}

	console := output.Default().WithEmoji(cfg.EmojiEnabled)
	caller := provider.NewCaller(adapter)
	pipeline := generate.NewPipeline(caller, console)
	outputDir := filepath.Join(projectRootFor(path, isDir), generate.OutputDirName)

	if write {
		console.Dimf("Generating explanation for %s...\n", path)
		text, err := pipeline.Explain(ctx, path, content, frameworks, isDir)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
		docPath := filepath.Join(outputDir, "explain-"+filepath.Base(path)+".md")
		if err := os.WriteFile(docPath, []byte(text), 0o644); err != nil {
			return fmt.Errorf("writing explanation: %w", err)
		}
		console.Successf("Explanation written to %s\n", docPath)
		return nil
	}

	return repl.Run(ctx, repl.Options{
		Path:          path,
		Content:       content,
		Frameworks:    frameworks,
		Completer:     caller,
		Console:       console,
		Input:         os.Stdin,
		TranscriptDir: outputDir,
	})
}

// loadExplainContent reads a file directly; for a folder it scans the
// tree and renders the most important files under a token ceiling.
func loadExplainContent(path string) (content string, isDir bool, err error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", false, fmt.Errorf("reading %s: %w", path, err)
	}

	if !info.IsDir() {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", false, fmt.Errorf("reading %s: %w", path, err)
		}
		return string(data), false, nil
	}

	result, err := scanner.Scan(path, nil)
	if err != nil {
		return "", true, err
	}
	critical := scanner.CriticalFiles(result, 20)
	return scanner.RenderFiles(critical, explainContentCeiling), true, nil
}

// projectRootFor picks where the session output lands: the folder
// itself, or the containing directory for a single file.
func projectRootFor(path string, isDir bool) string {
	if isDir {
		return path
	}
	return filepath.Dir(path)
}
