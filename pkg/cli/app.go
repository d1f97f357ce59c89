package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mchmarny/fraudcheck/pkg/check"
	"github.com/mchmarny/fraudcheck/pkg/config"
	"github.com/mchmarny/fraudcheck/pkg/logging"
	"github.com/mchmarny/fraudcheck/pkg/model"
	urfave "github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

const (
	appName     = "fraudcheck"
	cacheDir    = "cache"
	envFileName = ".env"

	formatJSON = "json"
	formatYAML = "yaml"
)

var (
	version = "v0.0.1-default"
	commit  = ""
	date    = ""

	debugFlag = &urfave.BoolFlag{
		Name:    "debug",
		Usage:   "Prints verbose logs (optional, default: false)",
		Sources: urfave.EnvVars("FRAUDCHECK_DEBUG"),
	}

	configFlag = &urfave.StringFlag{
		Name:    "config",
		Usage:   "Path to the config file (default: $HOME/.fraudcheck/config.yaml)",
		Sources: urfave.EnvVars("FRAUDCHECK_CONFIG"),
	}

	modelFlag = &urfave.StringFlag{
		Name:    "model",
		Usage:   "Path or URL of the model artifact (overrides config)",
		Sources: urfave.EnvVars("FRAUDCHECK_MODEL"),
	}

	encodersFlag = &urfave.StringFlag{
		Name:    "encoders",
		Usage:   "Path or URL of the encoder artifact (overrides config)",
		Sources: urfave.EnvVars("FRAUDCHECK_ENCODERS"),
	}

	formatFlag = &urfave.StringFlag{
		Name:  "format",
		Usage: "Output format [json, yaml]",
		Value: formatJSON,
	}
)

// Execute creates and runs the CLI application.
func Execute() {
	initLogging(false)

	if err := godotenv.Load(envFileName); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("error loading env file", "path", envFileName, "error", err)
	}

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func newApp() *urfave.Command {
	return &urfave.Command{
		Name:                  appName,
		Version:               fmt.Sprintf("%s (%s - %s)", version, commit, date),
		EnableShellCompletion: true,
		HideHelpCommand:       true,
		Usage:                 "Classify loan applicants as fraudulent or legitimate",
		Flags: []urfave.Flag{
			debugFlag,
			configFlag,
			modelFlag,
			encodersFlag,
			formatFlag,
		},
		Commands: []*urfave.Command{
			serverCmd,
			predictCmd,
			schemaCmd,
			tokenCmd,
		},
		Before: func(ctx context.Context, cmd *urfave.Command) (context.Context, error) {
			if cmd.Bool(debugFlag.Name) {
				initLogging(true)
			}
			return ctx, nil
		},
	}
}

// appConfig is what a command needs once flags, env and the config file
// have been merged and the artifacts loaded.
type appConfig struct {
	Config  *config.Config
	HomeDir string
	Store   *model.Store
	Service *check.Service
}

// loadConfig resolves the config file and applies flag overrides.
// Debug set on the command line wins over the configured log level.
func loadConfig(cmd *urfave.Command) (*config.Config, string, error) {
	home := getHomeDir()

	var (
		cfg *config.Config
		err error
	)
	if p := cmd.String(configFlag.Name); p != "" {
		cfg, err = config.Load(p)
	} else {
		cfg, err = config.ReadOrCreate(home)
	}
	if err != nil {
		return nil, "", fmt.Errorf("loading config: %w", err)
	}

	if v := cmd.String(modelFlag.Name); v != "" {
		cfg.ModelPath = v
	}
	if v := cmd.String(encodersFlag.Name); v != "" {
		cfg.EncoderPath = v
	}
	if cmd.Bool(debugFlag.Name) {
		cfg.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}

	return cfg, home, nil
}

// loadApp loads the config and both artifacts, then checks that they agree
// with the applicant record layout.
func loadApp(ctx context.Context, cmd *urfave.Command) (*appConfig, error) {
	cfg, home, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	if !cmd.Bool(debugFlag.Name) {
		logging.SetDefaultCLILogger(cfg.LogLevel)
	}

	token, err := getModelToken(home)
	if err != nil {
		slog.Debug("no model token", "error", err)
	}

	store, err := model.Load(ctx, &model.Options{
		ModelPath:   cfg.ModelPath,
		EncoderPath: cfg.EncoderPath,
		CacheDir:    filepath.Join(home, cacheDir),
		Token:       token,
	})
	if err != nil {
		return nil, fmt.Errorf("loading artifacts: %w", err)
	}

	svc, err := check.New(store)
	if err != nil {
		return nil, err
	}

	return &appConfig{
		Config:  cfg,
		HomeDir: home,
		Store:   store,
		Service: svc,
	}, nil
}

func initLogging(debug bool) {
	level := "info"
	if debug {
		level = "debug"
	}
	logging.SetDefaultCLILogger(level)
}

func getHomeDir() string {
	dir, created, err := config.GetOrCreateHomeDir(appName)
	if err != nil {
		slog.Debug("error getting home dir, using current dir instead", "error", err)
		return "."
	}
	if created {
		slog.Debug("created app dir", "path", dir)
	}
	return dir
}

func encode(w io.Writer, format string, v any) error {
	switch format {
	case formatYAML, "yml":
		return yaml.NewEncoder(w).Encode(v)
	case formatJSON, "":
		e := json.NewEncoder(w)
		e.SetIndent("", "  ")
		return e.Encode(v)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}
