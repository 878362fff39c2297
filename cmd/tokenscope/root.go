package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"mercator-hq/tokenscope/pkg/cli"
	"mercator-hq/tokenscope/pkg/config"
	"mercator-hq/tokenscope/pkg/i18n"
	"mercator-hq/tokenscope/pkg/providerfactory"
	"mercator-hq/tokenscope/pkg/telemetry/logging"
	"mercator-hq/tokenscope/pkg/tokens"
)

// defaultConfigFile is read when --config is not given and it exists.
const defaultConfigFile = "tokenscope.yaml"

var (
	// Global flags
	cfgFile string
	envFile string
	lang    string
	verbose bool
)

// app is prepared by the root command before any subcommand runs.
var app struct {
	cfg        *config.Config
	configPath string
	tr         *i18n.Translations
}

// appFs is the filesystem read by --text-file and --image.
var appFs = afero.NewOsFs()

// newTokenizer builds the local tokenizer used for OpenAI counts.
var newTokenizer = func(cfg config.TokenizerConfig) tokens.Tokenizer {
	return tokens.NewTiktoken(tokens.Options{Offline: cfg.Offline})
}

var rootCmd = &cobra.Command{
	Use:   "tokenscope",
	Short: "Count LLM input tokens for text and images",
	Long: `Tokenscope counts the input tokens a prompt costs with Anthropic, Google
Gemini and OpenAI models.

Anthropic and Gemini are asked through their token-counting endpoints and
need an API key. OpenAI counts are computed locally.

Credentials are read from the config file, from TOKENSCOPE_PROVIDERS_<NAME>_API_KEY,
or from ANTHROPIC_API_KEY, GEMINI_API_KEY and OPENAI_API_KEY. A .env file in
the working directory is loaded first.`,
	Version:           Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the root command and exits with the code for its error.
func Execute() {
	ctx, stop := cli.SetupSignalHandler(context.Background())
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, cli.UserMessage(err, app.tr))
	}
	os.Exit(cli.ExitCode(err))
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default ./"+defaultConfigFile+" if present)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "load credentials from this .env file (default ./.env if present)")
	rootCmd.PersistentFlags().StringVar(&lang, "lang", "", "message language (en, ja)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// setup loads credentials and configuration, then installs the logger and
// translations.
func setup(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	var err error
	if envFile != "" {
		err = config.LoadDotEnv(envFile)
	} else {
		err = config.LoadDotEnv()
	}
	if err != nil {
		return cli.NewConfigError("env-file", err.Error())
	}

	path, err := resolveConfigPath(cfgFile)
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfigWithEnvOverrides(path)
	if err != nil {
		return cli.NewConfigError("config", err.Error())
	}
	if lang != "" {
		cfg.Locale = lang
	}

	// One-shot commands stay quiet unless asked; the server keeps the
	// configured level.
	switch {
	case verbose:
		cfg.Telemetry.Logging.Level = "debug"
	case cmd.Name() != "serve":
		cfg.Telemetry.Logging.Level = "warn"
	}

	logger, err := logging.New(logging.FromConfig(cfg.Telemetry.Logging))
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}
	logging.SetDefault(logger)

	tr, err := i18n.NewTranslations(cfg.Locale)
	if err != nil {
		return cli.NewConfigError("locale", err.Error())
	}

	app.cfg = cfg
	app.configPath = path
	app.tr = tr
	return nil
}

// resolveConfigPath returns the explicit path, the default file when it
// exists, or "" for defaults plus environment.
func resolveConfigPath(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if _, err := os.Stat(defaultConfigFile); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", cli.NewConfigError("config", err.Error())
	}
	return defaultConfigFile, nil
}

// newManager builds the provider manager for cfg.
func newManager(cfg *config.Config, opts ...providerfactory.Option) (*providerfactory.Manager, error) {
	opts = append([]providerfactory.Option{
		providerfactory.WithTokenizer(newTokenizer(cfg.Tokenizer)),
		providerfactory.WithImageLimits(cfg.Images.MaxFileSize, cfg.Images.FetchTimeout),
	}, opts...)
	return providerfactory.NewManager(cfg.ProviderConfigs(), opts...)
}
