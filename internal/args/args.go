// Package args parses command-line arguments and stdin input for the
// tag pipeline CLI.
package args

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/markis/tagproc/internal/config"
)

// Arguments represents the command-line arguments structure.
type Arguments struct {
	Prompts      []string
	Model        string
	Command      string
	InputFile    string
	UsePlainText bool
	Debug        bool
}

// ParseArgs parses command-line arguments and stdin input, returning an
// Arguments struct. Predefined prompts from the config become
// subcommands. A prompt is required unless an input file is given for
// offline replay.
func ParseArgs(cfg *config.Config) (Arguments, error) {
	args := Arguments{}

	rootCmd := &cobra.Command{
		Use:   "tagproc [command] [flags] [prompt]",
		Short: "Stream a model response and dispatch its inline tags to handlers",
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			if len(cmdArgs) > 0 {
				args.Prompts = append(args.Prompts, cmdArgs[0])
			}
			return nil
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.PersistentFlags().StringVar(&args.Model, "model", cfg.Model, "The AI model to use")
	rootCmd.PersistentFlags().StringVar(&args.InputFile, "input", "", "Replay a saved response from a file instead of querying the model")
	rootCmd.PersistentFlags().BoolVar(&args.UsePlainText, "plain", shouldUsePlainText(cfg), "Disable markdown rendering")
	rootCmd.PersistentFlags().BoolVar(&args.Debug, "debug", false, "Enable processor diagnostics")

	for name, prompt := range cfg.Prompts {
		cmdPrompt := prompt
		cmd := &cobra.Command{
			Use:   name + " [input]",
			Short: summarizePrompt(cmdPrompt.Prompt),
			RunE: func(cmd *cobra.Command, cmdArgs []string) error {
				args.Command = name
				if len(cmdArgs) > 0 {
					args.Prompts = append(args.Prompts, cmdArgs[0])
				}
				args.Prompts = append(args.Prompts, cmdPrompt.Prompt)
				if cmdPrompt.Model != "" {
					args.Model = cmdPrompt.Model
				}
				return nil
			},
		}
		rootCmd.AddCommand(cmd)
	}

	// Read from stdin if available
	if stat, err := os.Stdin.Stat(); err == nil && (stat.Mode()&os.ModeCharDevice) == 0 {
		scanner := bufio.NewScanner(os.Stdin)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		var buf strings.Builder
		for scanner.Scan() {
			buf.WriteString(scanner.Text())
			buf.WriteByte('\n')
		}
		if err := scanner.Err(); err != nil {
			return Arguments{}, fmt.Errorf("failed to read stdin: %w", err)
		}
		if prompt := strings.TrimSpace(buf.String()); prompt != "" {
			args.Prompts = append(args.Prompts, prompt)
		}
	}

	if err := rootCmd.Execute(); err != nil {
		return Arguments{}, err
	}

	if len(args.Prompts) == 0 && args.InputFile == "" {
		return Arguments{}, errors.New("no prompt provided")
	}

	return args, nil
}

// shouldUsePlainText determines if plain text output should be used
// based on config, environment, and terminal settings.
func shouldUsePlainText(cfg *config.Config) bool {
	if cfg.Render.Format == "plain" {
		return true
	}

	// Check if output is being redirected
	if fileInfo, _ := os.Stdout.Stat(); fileInfo != nil {
		if (fileInfo.Mode() & os.ModeCharDevice) == 0 {
			return true
		}
	}

	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return true
	}

	if term := os.Getenv("TERM"); term == "dumb" {
		return true
	}

	return false
}

func summarizePrompt(prompt string) string {
	summary := strings.TrimSpace(prompt)
	if len(summary) > 60 {
		summary = summary[:57] + "..."
	}
	return summary
}
