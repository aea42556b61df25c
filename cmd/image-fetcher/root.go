package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/vertextoedge/image-fetcher/internal/adapter/filesystem"
	"github.com/vertextoedge/image-fetcher/internal/config"
	"github.com/vertextoedge/image-fetcher/internal/console"
	"github.com/vertextoedge/image-fetcher/internal/hashindex"
	"github.com/vertextoedge/image-fetcher/internal/logger"
	"github.com/vertextoedge/image-fetcher/internal/service/fetcher"
	"github.com/vertextoedge/image-fetcher/internal/service/maintenance"
	"github.com/vertextoedge/image-fetcher/internal/service/orchestrator"
	"github.com/vertextoedge/image-fetcher/internal/validator"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "image-fetcher [url[,url...]]...",
		Short: "Fetch images from URLs into a local directory",
		Long: `Downloads images from the given URLs, accepting only JPEG, PNG, GIF, BMP
and WebP up to a size limit, and skips any image whose content is already
present in the output directory. Without arguments the URLs are read from
a prompt.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, configPath, args, stdin, stdout, stderr)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Path to configuration file (default ./"+config.DefaultConfigFile+" if present)")
	flags.String("output-dir", "Fetched_Images", "Directory to save images into")
	flags.String("timeout", fetcher.DefaultTimeout.String(), "Total timeout per request, e.g. 10s")
	flags.String("user-agent", fetcher.DefaultUserAgent, "User-Agent header sent with each request")
	flags.Int("max-size", 10, "Maximum image size in MiB")
	flags.Bool("progress", false, "Show a progress bar per download")
	flags.String("log-level", "warn", "Log level: debug, info, warn, error")
	flags.String("log-format", "text", "Log format: text, json")

	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "image-fetcher", version)
		},
	}
}

func run(cmd *cobra.Command, configPath string, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cfg, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()
	log := logger.GetZapLogger()

	log.Debug("starting image-fetcher",
		zap.String("version", version),
		zap.String("output_dir", cfg.OutputDir))

	fsManager, err := filesystem.NewManager(cfg.OutputDir)
	if err != nil {
		return err
	}

	maintenance.New(&maintenance.Config{
		TempFileMaxAge: cfg.Cleanup.GetStaleTempAge(),
	}, fsManager, log).Sweep()

	index, err := hashindex.BuildFromDirectory(fsManager.RootDir())
	if index == nil {
		return fmt.Errorf("failed to index output dir: %w", err)
	}
	for _, e := range multierr.Errors(err) {
		log.Warn("file not indexed", zap.Error(e))
	}
	log.Debug("index built", zap.Int("digests", index.Len()))

	policy, err := validator.NewPolicy(cfg.Fetch.AllowedTypes, cfg.Fetch.GetMaxSize())
	if err != nil {
		return fmt.Errorf("invalid content policy: %w", err)
	}

	fetchCfg := &fetcher.Config{
		UserAgent: cfg.Fetch.UserAgent,
		Timeout:   cfg.Fetch.GetTimeout(),
		ChunkSize: cfg.Fetch.ChunkSize,
	}
	if cfg.Fetch.Progress {
		fetchCfg.Progress = console.NewProgressFunc(stderr)
	}
	f := fetcher.New(fetchCfg, policy, fsManager, log)

	reporter := console.NewReporter(stdout)
	reporter.Banner()

	inputs := args
	if len(inputs) == 0 {
		line, err := console.Prompt(stdin, stdout)
		if err != nil {
			return err
		}
		inputs = []string{line}
	}

	start := time.Now()
	summary := orchestrator.New(f, index, reporter, log).Run(cmd.Context(), inputs...)
	log.Debug("run finished",
		zap.Int("urls", summary.Total()),
		zap.Duration("elapsed", time.Since(start)))

	return nil
}
