package cmd

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/giv/internal/config"
	"github.com/zjrosen/giv/internal/testutil"
	"github.com/zjrosen/giv/internal/tracing"
)

// parse builds a fresh command and configuration bound to args.
func parse(t *testing.T, args ...string) (*cobra.Command, *viper.Viper) {
	t.Helper()
	cmd := &cobra.Command{Use: "giv"}
	v := viper.New()
	bindFlags(cmd, v)
	setDefaults(v)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd, v
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(parse(t))
	require.NoError(t, err)
	require.Equal(t, config.Defaults(), cfg)
}

func TestLoadConfig_Flags(t *testing.T) {
	cfg, err := loadConfig(parse(t,
		"--debug",
		"--log-file", "giv.log",
		"--no-watch",
		"--watch-debounce", "1s",
		"--commit-cache-ttl", "5m",
		"--trace",
		"--trace-exporter", "stdouttrace",
		"--trace-file", "spans.json",
		"--trace-sample-rate", "0.5",
	))
	require.NoError(t, err)

	require.True(t, cfg.Debug)
	require.Equal(t, "giv.log", cfg.LogFile)
	require.False(t, cfg.Watch)
	require.Equal(t, time.Second, cfg.WatchDebounce)
	require.Equal(t, 5*time.Minute, cfg.CommitCacheTTL)
	require.Equal(t, config.TracingConfig{
		Enabled:    true,
		Exporter:   tracing.ExporterStdouttrace,
		File:       "spans.json",
		SampleRate: 0.5,
	}, cfg.Tracing)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("GIV_DEBUG", "true")
	t.Setenv("GIV_WATCH", "false")
	t.Setenv("GIV_WATCH_DEBOUNCE", "750ms")
	t.Setenv("GIV_TRACING_ENABLED", "1")
	t.Setenv("GIV_TRACING_FILE", "env.jsonl")

	cfg, err := loadConfig(parse(t))
	require.NoError(t, err)
	require.True(t, cfg.Debug)
	require.False(t, cfg.Watch)
	require.Equal(t, 750*time.Millisecond, cfg.WatchDebounce)
	require.True(t, cfg.Tracing.Enabled)
	require.Equal(t, "env.jsonl", cfg.Tracing.File)
}

func TestLoadConfig_FlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("GIV_LOG_FILE", "env.log")

	cfg, err := loadConfig(parse(t, "--log-file", "flag.log"))
	require.NoError(t, err)
	require.Equal(t, "flag.log", cfg.LogFile)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{name: "negative debounce", args: []string{"--watch-debounce", "-1s"}, want: config.ErrNegativeDuration},
		{name: "empty log file", args: []string{"--debug", "--log-file", ""}, want: config.ErrEmptyPath},
		{name: "unknown exporter", args: []string{"--trace", "--trace-exporter", "otlp"}, want: config.ErrUnknownExporter},
		{name: "sample rate", args: []string{"--trace", "--trace-sample-rate", "2"}, want: config.ErrSampleRate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(parse(t, tt.args...))
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRootCmd_RejectsArguments(t *testing.T) {
	require.Error(t, rootCmd.Args(rootCmd, []string{"HEAD"}))
	require.NoError(t, rootCmd.Args(rootCmd, nil))
}

func TestOpenRepository(t *testing.T) {
	r := testutil.NewRepo(t)
	r.Write("a.txt", "one\n").Commit("first")
	chdir(t, r.Dir)

	cfg := config.Defaults()
	repo, gitDir, err := openRepository(testContext(t), cfg)
	require.NoError(t, err)
	require.NotNil(t, repo)
	require.Equal(t, r.Git("rev-parse", "--absolute-git-dir"), gitDir)

	cfg.Watch = false
	_, gitDir, err = openRepository(testContext(t), cfg)
	require.NoError(t, err)
	require.Empty(t, gitDir, "the git directory is only looked up for watching")
}

func TestOpenRepository_NotARepository(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("GIT_CEILING_DIRECTORIES", filepath.Dir(dir))
	chdir(t, dir)

	_, _, err := openRepository(testContext(t), config.Defaults())
	require.Error(t, err)
}

func TestErrors_Unwrap(t *testing.T) {
	cause := errors.New("boom")

	startup := &StartupError{Stage: "opening repository", Err: cause}
	require.ErrorIs(t, startup, cause)
	require.Equal(t, "opening repository: boom", startup.Error())

	render := &RenderError{Err: cause}
	require.ErrorIs(t, render, cause)
	require.Equal(t, "running program: boom", render.Error())
}

func TestSetVersion(t *testing.T) {
	old := rootCmd.Version
	t.Cleanup(func() { SetVersion(old) })

	SetVersion("1.2.3 (commit: abc, built: today)")
	require.Equal(t, "1.2.3 (commit: abc, built: today)", rootCmd.Version)
}
