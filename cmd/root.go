package cmd

import (
	"context"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/giv/internal/app"
	"github.com/zjrosen/giv/internal/browser"
	"github.com/zjrosen/giv/internal/config"
	"github.com/zjrosen/giv/internal/git"
	"github.com/zjrosen/giv/internal/history"
	"github.com/zjrosen/giv/internal/log"
	"github.com/zjrosen/giv/internal/tracing"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "giv",
	Short: "A terminal history browser for git repositories",
	Long: `giv shows the history of the git repository in the current directory:
a scrollable list of commits (with uncommitted and staged changes on top)
and the full diff of the selected one.`,
	Version:      version,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runApp,
}

func init() {
	cobra.OnInitialize(func() { setDefaults(viper.GetViper()) })
	bindFlags(rootCmd, viper.GetViper())
}

// bindFlags registers the command line flags and binds them to their
// configuration keys.
func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	defaults := config.Defaults()
	flags := cmd.Flags()

	flags.Bool("debug", defaults.Debug, "write a debug log")
	flags.String("log-file", defaults.LogFile, "debug log path")
	flags.Bool("no-watch", false, "disable refresh when the repository changes on disk")
	flags.Duration("watch-debounce", defaults.WatchDebounce, "quiet period before a change triggers a refresh")
	flags.Duration("commit-cache-ttl", defaults.CommitCacheTTL, "how long commit metadata stays cached")
	flags.Bool("trace", defaults.Tracing.Enabled, "record history spans")
	flags.String("trace-exporter", defaults.Tracing.Exporter, `span format: "file" or "stdouttrace"`)
	flags.String("trace-file", defaults.Tracing.File, "span output path")
	flags.Float64("trace-sample-rate", defaults.Tracing.SampleRate, "fraction of traces to record")

	for key, flag := range map[string]string{
		"debug":               "debug",
		"log_file":            "log-file",
		"watch_debounce":      "watch-debounce",
		"commit_cache_ttl":    "commit-cache-ttl",
		"tracing.enabled":     "trace",
		"tracing.exporter":    "trace-exporter",
		"tracing.file":        "trace-file",
		"tracing.sample_rate": "trace-sample-rate",
	} {
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}
}

// setDefaults installs the defaults and reads GIV_* environment variables,
// e.g. GIV_DEBUG or GIV_TRACING_FILE.
func setDefaults(v *viper.Viper) {
	defaults := config.Defaults()
	v.SetDefault("debug", defaults.Debug)
	v.SetDefault("log_file", defaults.LogFile)
	v.SetDefault("watch", defaults.Watch)
	v.SetDefault("watch_debounce", defaults.WatchDebounce)
	v.SetDefault("commit_cache_ttl", defaults.CommitCacheTTL)
	v.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	v.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	v.SetDefault("tracing.file", defaults.Tracing.File)
	v.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)

	v.SetEnvPrefix("GIV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// loadConfig decodes and validates the configuration for cmd.
func loadConfig(cmd *cobra.Command, v *viper.Viper) (config.Config, error) {
	var cfg config.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}

	// Handle --no-watch flag (negated logic)
	if noWatch, _ := cmd.Flags().GetBool("no-watch"); noWatch {
		cfg.Watch = false
	}

	return cfg, cfg.Validate()
}

func runApp(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd, viper.GetViper())
	if err != nil {
		return &StartupError{Stage: "configuration", Err: err}
	}

	if cfg.Debug {
		cleanup, err := log.InitWithTeaLog(cfg.LogFile, "giv")
		if err != nil {
			return &StartupError{Stage: "logging", Err: err}
		}
		defer cleanup()
	}
	log.Info(log.CatConfig, "Starting giv",
		"version", version,
		"watch", cfg.Watch,
		"watch_debounce", cfg.WatchDebounce,
		"commit_cache_ttl", cfg.CommitCacheTTL,
		"tracing", cfg.Tracing.Enabled)

	provider, err := tracing.NewProvider(tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		Exporter:    cfg.Tracing.Exporter,
		File:        cfg.Tracing.File,
		SampleRate:  cfg.Tracing.SampleRate,
		ServiceName: tracing.DefaultServiceName,
	})
	if err != nil {
		return &StartupError{Stage: "tracing", Err: err}
	}
	if provider.Enabled() {
		log.Info(log.CatTrace, "Recording spans",
			"exporter", cfg.Tracing.Exporter,
			"file", cfg.Tracing.File,
			"sample_rate", cfg.Tracing.SampleRate)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			log.ErrorErr(log.CatTrace, "Failed to flush spans", err)
		}
	}()

	ctx := cmd.Context()
	repo, gitDir, err := openRepository(ctx, cfg)
	if err != nil {
		return &StartupError{Stage: "opening repository", Err: err}
	}

	if !term.IsTerminal(os.Stdout.Fd()) {
		return &StartupError{Stage: "terminal", Err: errNotTerminal}
	}

	zone.NewGlobal()
	model := app.New(ctx, browser.New(repo, history.WithTracer(provider.Tracer())), cfg, gitDir)
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	_, err = p.Run()

	// Clean up watcher resources
	if closeErr := model.Close(); closeErr != nil {
		log.ErrorErr(log.CatWatcher, "Failed to stop watcher", closeErr)
	}

	if err != nil {
		return &RenderError{Err: err}
	}
	return nil
}

// openRepository opens the repository containing the working directory. The
// git directory is only needed for watching; failing to find it disables
// watching rather than startup.
func openRepository(ctx context.Context, cfg config.Config) (*git.RealExecutor, string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, "", err
	}

	repo, err := git.Open(ctx, wd, git.WithCommitCacheTTL(cfg.CommitCacheTTL))
	if err != nil {
		return nil, "", err
	}

	if !cfg.Watch {
		return repo, "", nil
	}
	gitDir, err := repo.GitDir(ctx)
	if err != nil {
		log.ErrorErr(log.CatWatcher, "Failed to locate git directory, not watching", err)
		return repo, "", nil
	}
	return repo, gitDir, nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
