// Command tagproc streams a model response and routes its inline tags
// through the tag processor to terminal handlers.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/markis/tagproc"
	"github.com/markis/tagproc/internal/args"
	"github.com/markis/tagproc/internal/client"
	"github.com/markis/tagproc/internal/config"
	"github.com/markis/tagproc/internal/render"
	"github.com/markis/tagproc/internal/stream"
)

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	arguments, err := args.ParseArgs(cfg)
	if err != nil {
		return err
	}

	var opts []tagproc.Option
	if arguments.Debug {
		opts = append(opts, tagproc.WithDebug())
	}
	if cfg.Threshold > 0 {
		opts = append(opts, tagproc.WithAutoProcessThreshold(cfg.Threshold))
	}
	proc := tagproc.New(opts...)

	renderer := render.NewTerminalRenderer(os.Stdout, arguments.UsePlainText, cfg.Render.Wrap)
	if err := renderer.Register(proc, cfg.Tags); err != nil {
		return err
	}

	if arguments.InputFile != "" {
		return replayFile(proc, arguments.InputFile)
	}

	prompt := strings.Join(arguments.Prompts, "\n\n")
	body, err := client.Stream(ctx, prompt, arguments.Model)
	if err != nil {
		return err
	}
	defer func() {
		if err := body.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to close response body: %v\n", err)
		}
	}()

	parser := stream.NewParser(ctx)
	go parser.Process(body)

	for chunk := range parser.Chunks() {
		if chunk.Error != nil {
			return fmt.Errorf("stream error: %w", chunk.Error)
		}
		if chunk.Done {
			break
		}
		proc.ProcessToken(chunk.Content)
	}
	proc.Flush()
	return nil
}

// replayFile feeds a saved response through the processor in one pass,
// for offline inspection of a recorded stream.
func replayFile(proc *tagproc.Processor, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}
	proc.ProcessString(string(data))
	proc.Flush()
	return nil
}
