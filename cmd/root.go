package cmd

import (
	"fmt"
	"os"

	"fmerge/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "fmerge",
	Short: "Folder merge tool",
	Long: `fmerge consolidates an ordered set of sibling folders (chapters of a scanned
document, for example) into one folder whose files are renumbered in sequence.
Originals can be backed up first and an index records where each folder starts.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format with ISO8601 timestamps, as the CLI is used interactively
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
