package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quantmind-br/reposync/internal/config"
	"github.com/quantmind-br/reposync/internal/git"
	"github.com/quantmind-br/reposync/internal/history"
	"github.com/quantmind-br/reposync/internal/output"
	"github.com/quantmind-br/reposync/internal/source"
	"github.com/quantmind-br/reposync/internal/utils"
	"github.com/quantmind-br/reposync/pkg/version"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check system dependencies",
	Long:  "Verifies that git and gh are installed and that the sync directory is writable.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, cfgErr := config.Load()
		if cfgErr != nil {
			cfg = config.Default()
		}

		checks := []output.Check{
			checkBinary("git", git.DefaultGitBinary, true),
			checkBinary("gh", source.DefaultGHBinary, cfg.Source.Type == config.SourceGH),
			checkWritableDir("Sync directory", cfg.Sync.Directory),
			checkConfig(cfgErr),
			checkHistoryDir(cfg.History.Directory),
		}

		output.NewPrinter(output.PrinterOptions{Output: cmd.OutOrStdout()}).Checks(checks)
		return nil
	},
}

// checkBinary looks name up on PATH. A missing optional binary is a warning.
func checkBinary(label, name string, required bool) output.Check {
	path, err := execLookPath(name)
	if err == nil {
		return output.Check{Name: label, Status: output.CheckOK, Detail: path}
	}
	if !required {
		return output.Check{Name: label, Status: output.CheckWarn, Detail: "not found in PATH, only needed for --source gh"}
	}
	return output.Check{Name: label, Status: output.CheckFailed, Detail: "not found in PATH"}
}

// checkWritableDir checks that dir exists and accepts new files
func checkWritableDir(label, dir string) output.Check {
	dir = utils.ExpandPath(dir)
	info, err := osStat(dir)
	if err != nil {
		return output.Check{Name: label, Status: output.CheckFailed, Detail: fmt.Sprintf("%s: %v", dir, err)}
	}
	if !info.IsDir() {
		return output.Check{Name: label, Status: output.CheckFailed, Detail: dir + " is not a directory"}
	}
	if !utils.IsWritableDir(dir) {
		return output.Check{Name: label, Status: output.CheckFailed, Detail: dir + " is not writable"}
	}
	return output.Check{Name: label, Status: output.CheckOK, Detail: dir}
}

func checkConfig(err error) output.Check {
	if err != nil {
		return output.Check{Name: "Config file", Status: output.CheckWarn, Detail: err.Error()}
	}
	return output.Check{Name: "Config file", Status: output.CheckOK}
}

// checkHistoryDir reports a missing history directory as a warning
func checkHistoryDir(dir string) output.Check {
	dir = utils.ExpandPath(dir)
	info, err := osStat(dir)
	if err != nil || !info.IsDir() {
		return output.Check{Name: "History directory", Status: output.CheckWarn, Detail: "will be created on first use"}
	}
	return output.Check{Name: "History directory", Status: output.CheckOK, Detail: dir}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.Full())
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the last recorded outcome of every repository",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		store, err := history.Open(history.Options{Directory: utils.ExpandPath(cfg.History.Directory)})
		if err != nil {
			return err
		}
		defer store.Close()

		printer := output.NewPrinter(output.PrinterOptions{Output: cmd.OutOrStdout()})

		if wipe, _ := cmd.Flags().GetBool("clear"); wipe {
			if err := store.Clear(); err != nil {
				return fmt.Errorf("failed to clear history: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "History cleared")
			return nil
		}

		if name, _ := cmd.Flags().GetString("repo"); name != "" {
			rec, err := store.Get(context.Background(), name)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			printer.History([]history.Record{rec})
			return nil
		}

		records, err := store.List(context.Background())
		if err != nil {
			return err
		}
		printer.History(records)
		return nil
	},
}

func init() {
	historyCmd.Flags().Bool("clear", false, "Delete all recorded outcomes")
	historyCmd.Flags().String("repo", "", "Show a single repository")
}
