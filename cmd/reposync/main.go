package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/quantmind-br/reposync/internal/app"
	"github.com/quantmind-br/reposync/internal/config"
	"github.com/quantmind-br/reposync/internal/domain"
	"github.com/quantmind-br/reposync/internal/git"
	"github.com/quantmind-br/reposync/internal/history"
	"github.com/quantmind-br/reposync/internal/output"
	"github.com/quantmind-br/reposync/internal/source"
	"github.com/quantmind-br/reposync/internal/utils"
	"github.com/quantmind-br/reposync/pkg/version"
)

var (
	cfgFile string
	verbose bool
	log     *utils.Logger

	// Dependencies for testing
	osStat       = os.Stat
	execLookPath = exec.LookPath
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "reposync",
	Short: "Clone or fetch every repository of a GitHub organization",
	Long: `RepoSync lists the repositories of a GitHub organization through the gh CLI
and brings the local directory in line with it: repositories without a
working copy are cloned, existing ones are fetched.

Jobs run concurrently under a fixed cap (--max-threads, below 10). A failed
job is logged and never stops the rest of the batch.`,
	Version:       version.Short(),
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.reposync/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	// Listing flags
	rootCmd.Flags().StringP("github-org", "g", config.DefaultOrg, "GitHub organization to sync")
	rootCmd.Flags().IntP("limit", "L", config.DefaultSourceLimit, "Max repositories requested from the listing")
	rootCmd.Flags().String("source", config.DefaultSourceType, "Listing source: gh or file")
	rootCmd.Flags().String("source-file", "", "JSON or YAML listing file for --source file")
	rootCmd.Flags().StringSliceP("filters", "f", nil, "Comma-separated substrings; matching repositories are skipped (case-insensitive)")

	// Sync flags
	rootCmd.Flags().IntP("max-threads", "m", config.DefaultWorkers, fmt.Sprintf("Concurrent jobs (must be below %d)", config.MaxWorkers))
	rootCmd.Flags().Bool("https", false, "Clone over HTTPS instead of SSH")
	rootCmd.Flags().String("backend", config.DefaultBackend, "Git backend: exec or gogit")
	rootCmd.Flags().String("dir", config.DefaultSyncDirectory, "Directory holding the working copies")
	rootCmd.Flags().BoolP("dry-run", "d", false, "List selected repositories without cloning or fetching")

	// Output flags
	rootCmd.Flags().Bool("progress", false, "Show a progress bar instead of per-repository lines")
	rootCmd.Flags().String("report", "", "Write a JSON report of the batch to this file")
	rootCmd.Flags().Bool("no-history", false, "Do not record outcomes in the history store")

	// Bind flags to viper
	_ = viper.BindPFlag("source.org", rootCmd.Flags().Lookup("github-org"))
	_ = viper.BindPFlag("source.limit", rootCmd.Flags().Lookup("limit"))
	_ = viper.BindPFlag("source.type", rootCmd.Flags().Lookup("source"))
	_ = viper.BindPFlag("source.file", rootCmd.Flags().Lookup("source-file"))
	_ = viper.BindPFlag("exclude", rootCmd.Flags().Lookup("filters"))
	_ = viper.BindPFlag("concurrency.workers", rootCmd.Flags().Lookup("max-threads"))
	_ = viper.BindPFlag("sync.backend", rootCmd.Flags().Lookup("backend"))
	_ = viper.BindPFlag("sync.directory", rootCmd.Flags().Lookup("dir"))

	// Add subcommands
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(historyCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

func newLogger(cfg *config.Config) *utils.Logger {
	level := config.DefaultLogLevel
	format := config.DefaultLogFormat
	if cfg != nil {
		if cfg.Logging.Level != "" {
			level = cfg.Logging.Level
		}
		if cfg.Logging.Format != "" {
			format = cfg.Logging.Format
		}
	}
	return utils.NewLogger(utils.LoggerOptions{
		Level:   level,
		Format:  format,
		Verbose: verbose,
	})
}

// applyFlags copies the flags viper cannot bind directly onto cfg
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	if cmd.Flags().Changed("https") {
		https, _ := cmd.Flags().GetBool("https")
		if https {
			cfg.Sync.Transport = string(domain.TransportHTTPS)
		} else {
			cfg.Sync.Transport = string(domain.TransportSSH)
		}
	}
	if noHistory, _ := cmd.Flags().GetBool("no-history"); noHistory {
		cfg.History.Enabled = false
	}
	return cfg.Validate()
}

func run(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log = newLogger(cfg)

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	showProgress, _ := cmd.Flags().GetBool("progress")
	reportPath, _ := cmd.Flags().GetString("report")

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown. Dispatched jobs are not cancelled; an
	// interrupt only stops a listing that is still in progress.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case <-sigCh:
			log.Info().Msg("Interrupt received, waiting for running jobs to finish...")
			cancel()
		case <-ctx.Done():
		}
	}()

	var progressOut io.Writer
	if showProgress {
		progressOut = os.Stderr
	}

	orchestrator, err := newOrchestrator(cfg, dryRun, progressOut, log)
	if err != nil {
		return err
	}
	defer orchestrator.Close()

	report, err := orchestrator.Run(ctx)
	if err != nil {
		return err
	}

	output.NewPrinter(output.PrinterOptions{Output: cmd.OutOrStdout()}).Summary(report)

	if reportPath != "" {
		if err := output.WriteReportFile(reportPath, report); err != nil {
			log.Warn().Err(err).Str("path", reportPath).Msg("Failed to write report")
		}
	}
	return nil
}

// newOrchestrator wires source, backend and history from cfg
func newOrchestrator(cfg *config.Config, dryRun bool, progressOut io.Writer, logger *utils.Logger) (*app.Orchestrator, error) {
	src, err := newSource(cfg, logger)
	if err != nil {
		return nil, err
	}

	baseDir := utils.ExpandPath(cfg.Sync.Directory)
	opts := app.OrchestratorOptions{
		Source:         src,
		Logger:         logger,
		Transport:      cfg.Transport(),
		Exclude:        cfg.Exclude,
		Workers:        cfg.Concurrency.Workers,
		BaseDir:        baseDir,
		DryRun:         dryRun,
		ProgressOutput: progressOut,
	}

	if !dryRun {
		if err := utils.EnsureDir(baseDir); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", baseDir, err)
		}
		opts.Backend = newBackend(cfg, progressOut != nil, logger)

		if cfg.History.Enabled {
			store, err := history.Open(history.Options{Directory: utils.ExpandPath(cfg.History.Directory)})
			if err != nil {
				logger.Warn().Err(err).Msg("History store unavailable, outcomes will not be recorded")
			} else {
				opts.Recorder = store
			}
		}
	}

	orchestrator, err := app.NewOrchestrator(opts)
	if err != nil {
		if opts.Recorder != nil {
			opts.Recorder.Close()
		}
		return nil, err
	}
	return orchestrator, nil
}

func newSource(cfg *config.Config, logger *utils.Logger) (domain.Source, error) {
	switch cfg.Source.Type {
	case config.SourceFile:
		return source.NewFileSource(utils.ExpandPath(cfg.Source.File)), nil
	case config.SourceGH, "":
		return source.NewGHSource(source.GHSourceOptions{
			Org:    cfg.Source.Org,
			Limit:  cfg.Source.Limit,
			Logger: logger,
		}), nil
	default:
		return nil, domain.NewConfigError("source.type", "unknown source "+cfg.Source.Type)
	}
}

// newBackend selects the git backend. With a progress bar on screen the
// transfer output of each job is discarded.
func newBackend(cfg *config.Config, quiet bool, logger *utils.Logger) domain.Backend {
	var stdout, stderr io.Writer = os.Stdout, os.Stderr
	if quiet {
		stdout, stderr = io.Discard, io.Discard
	}

	if cfg.Sync.Backend == config.BackendGoGit {
		return git.NewGoGitBackend(git.GoGitBackendOptions{
			Client:   git.NewClient(),
			Progress: stderr,
			Logger:   logger,
		})
	}
	return git.NewExecBackend(git.ExecBackendOptions{
		Stdout: stdout,
		Stderr: stderr,
		Logger: logger,
	})
}
