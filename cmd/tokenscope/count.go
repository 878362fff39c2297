package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"mercator-hq/tokenscope/pkg/cli"
	"mercator-hq/tokenscope/pkg/providers"
	"mercator-hq/tokenscope/pkg/providers/anthropic"
	"mercator-hq/tokenscope/pkg/state"
)

var countFlags struct {
	provider  string
	model     string
	text      string
	textFile  string
	images    []string
	imageURLs []string
	format    string
}

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Count the input tokens of a prompt",
	Long: `Count the input tokens of text and images for one provider and model.

Examples:
  # Local count with an OpenAI encoding
  tokenscope count --provider openai --model gpt-4o --text "hello world"

  # Read the prompt from a file ("-" reads stdin)
  tokenscope count --provider gemini --model gemini-1.5-pro --text-file prompt.txt

  # Add local and remote images
  tokenscope count --provider anthropic --model claude-3-haiku-20240307 \
      --image diagram.png --image-url https://example.com/cat.jpg

  # Machine-readable output
  tokenscope count --provider openai --model gpt-4 --text hi --format json`,
	RunE: runCount,
}

func init() {
	rootCmd.AddCommand(countCmd)

	countCmd.Flags().StringVarP(&countFlags.provider, "provider", "p", "", "provider identifier (anthropic, gemini, openai)")
	countCmd.Flags().StringVarP(&countFlags.model, "model", "m", "", "model identifier")
	countCmd.Flags().StringVarP(&countFlags.text, "text", "t", "", "prompt text")
	countCmd.Flags().StringVarP(&countFlags.textFile, "text-file", "f", "", "read prompt text from a file (- for stdin)")
	countCmd.Flags().StringArrayVarP(&countFlags.images, "image", "i", nil, "local image file (repeatable)")
	countCmd.Flags().StringArrayVarP(&countFlags.imageURLs, "image-url", "u", nil, "remote image URL (repeatable)")
	countCmd.Flags().StringVarP(&countFlags.format, "format", "o", "text", "output format (text, json, csv)")

	_ = countCmd.MarkFlagRequired("provider")
	_ = countCmd.MarkFlagRequired("model")
	countCmd.MarkFlagsMutuallyExclusive("text", "text-file")
}

func runCount(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(countFlags.format)
	if err != nil {
		return err
	}

	text, err := readPromptText(cmd)
	if err != nil {
		return err
	}

	id := providers.ProviderID(countFlags.provider)
	if !providers.IsKnownProvider(id) {
		return providers.NewUnsupportedProviderError(countFlags.provider)
	}
	if !providers.IsValidModel(id, countFlags.model) {
		slog.Warn("model is not in the catalogue", "provider", id, "model", countFlags.model)
	}

	manager, err := newManager(app.cfg)
	if err != nil {
		return err
	}

	render := func(err error) string { return cli.UserMessage(err, app.tr) }

	store := state.NewStore()
	store.SelectProvider(id)
	store.SelectModel(countFlags.model)
	store.UpdateInputText(text)

	for _, path := range countFlags.images {
		file, err := anthropic.FileFromPath(appFs, path)
		if err != nil {
			return err
		}
		img, err := manager.ConvertFile(file)
		if err != nil {
			return err
		}
		store.AddInputImage(img)
	}

	var progress cli.ProgressReporter = cli.NopProgress{}
	if format == cli.FormatText {
		progress = cli.NewProgressReporter(cmd.ErrOrStderr())
	}
	progress.Start(int64(len(countFlags.imageURLs) + 1))
	defer progress.Finish()

	ctx := cmd.Context()
	for _, url := range countFlags.imageURLs {
		progress.Step(app.tr.Message("FetchingImage", map[string]any{"URL": providers.StripQuery(url)}))
		store.UpdateImageURL(url)
		if err := store.AddImageFromURL(ctx, manager, render); err != nil {
			return err
		}
	}

	progress.Step(app.tr.Message("Counting", nil))
	result, err := store.Submit(ctx, manager, render)
	if err != nil {
		return err
	}
	progress.Finish()

	snapshot := store.State()
	return cli.NewFormatter(format, app.tr).FormatTo(cmd.OutOrStdout(), &cli.CountResult{
		Provider:    string(snapshot.Provider),
		Model:       snapshot.Model,
		Images:      len(snapshot.Images),
		InputTokens: result.InputTokens,
		TotalTokens: result.TotalTokens,
	})
}

// readPromptText returns --text, or the contents of --text-file.
func readPromptText(cmd *cobra.Command) (string, error) {
	if countFlags.textFile == "" {
		return countFlags.text, nil
	}

	var (
		data []byte
		err  error
	)
	if countFlags.textFile == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = afero.ReadFile(appFs, countFlags.textFile)
	}
	if err != nil {
		return "", cli.NewConfigError("text-file", fmt.Sprintf("cannot read %s: %v", countFlags.textFile, err))
	}
	return strings.TrimSuffix(string(data), "\n"), nil
}
