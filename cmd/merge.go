package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"fmerge/core/config"
	"fmerge/core/database"
	"fmerge/core/filesystem"
	"fmerge/core/logger"
	"fmerge/core/merge"
	"fmerge/core/prompt"
	"fmerge/core/storage"
	"fmerge/feature/history"
	"fmerge/feature/mirror"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the merge command
	mergeOrder      string
	mergeNoBackup   bool
	mergeNoIndex    bool
	mergeYes        bool
	mergeExcludes   []string
	mergeSkipNested bool
	mergeBackupName string
	mergeIndexName  string
	mergeDryRun     bool
)

// mergeCmd merges the folders of a main directory.
var mergeCmd = &cobra.Command{
	Use:   "merge [directory]",
	Short: "Merge sibling folders into one renumbered folder",
	Long: `Merge the folders of a main directory (default: the working directory) into one
folder. Files are copied in the chosen folder order into a staging directory and renamed
1, 2, 3... zero-padded to the digit count of the total. Only when every copy succeeded
are the originals removed and the staging directory renamed after the first folder.

Examples:
  # Interactive: choose the order and the merge method at the prompt
  fmerge merge ./scans

  # Merge folders 2, 0 and 1 in that order, backup and index, no prompts
  fmerge merge ./scans --order "2 0 1" --yes

  # Keep the natural order, no backup, show the plan only
  fmerge merge ./scans --yes --no-backup --dry-run`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMerge,
}

func init() {
	mergeCmd.Flags().StringVar(&mergeOrder, "order", "", "Folder order as space separated indices (empty keeps the listed order)")
	mergeCmd.Flags().BoolVar(&mergeNoBackup, "no-backup", false, "Do not create a backup of the folders")
	mergeCmd.Flags().BoolVar(&mergeNoIndex, "no-index", false, "Do not write an index file")
	mergeCmd.Flags().BoolVar(&mergeYes, "yes", false, "Accept the order and the merge method without prompting")
	mergeCmd.Flags().StringSliceVar(&mergeExcludes, "exclude", nil, "Names never merged (repeatable)")
	mergeCmd.Flags().BoolVar(&mergeSkipNested, "skip-nested", false, "Skip folders that contain directories instead of aborting")
	mergeCmd.Flags().StringVar(&mergeBackupName, "backup-name", "", "Backup directory name (default from config)")
	mergeCmd.Flags().StringVar(&mergeIndexName, "index-name", "", "Index file name (default from config)")
	mergeCmd.Flags().BoolVar(&mergeDryRun, "dry-run", false, "Plan the merge and print it without changing anything")

	RootCmd.AddCommand(mergeCmd)
}

func runMerge(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	root := "."
	if len(args) == 1 {
		root = args[0]
	}
	root, err = filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", root, err)
	}

	fs := filesystem.NewOS()
	if ok, err := fs.IsDir(root); err != nil {
		return err
	} else if !ok {
		return fmt.Errorf("%s is not a directory", root)
	}

	applyMergeFlags(cmd, &cfg.Merge)

	opts := merge.Options{
		Config:    cfg.Merge,
		AssumeYes: mergeYes,
		DryRun:    mergeDryRun,
		Method:    methodFromFlags(mergeYes, mergeNoBackup, mergeNoIndex),
	}
	if cmd.Flags().Changed("order") {
		opts.Order = &mergeOrder
	} else if mergeYes {
		// An empty order keeps the listed order.
		natural := ""
		opts.Order = &natural
	}

	// Optional remote mirror for the backup
	if cfg.Storage.Enabled {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to connect to storage: %w", err)
		}
		opts.Mirror = mirror.New(client, cfg.Storage.Bucket, cfg.Storage.Prefix, fs, l)
	}

	// Optional run journal
	if cfg.Database.Enabled {
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		journal := history.NewService(db, l)
		if err := journal.Migrate(); err != nil {
			return err
		}
		opts.Journal = journal
	}

	sess := &merge.Session{
		Root:     root,
		FS:       fs,
		Logger:   l,
		Excludes: merge.NewExcludeSet(defaultExcludes()...),
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		// A second interrupt terminates the process, even while waiting for input.
		stop()
	}()

	out := cmd.OutOrStdout()
	l.Info("Starting merge", zap.String("root", root), zap.Bool("dry_run", mergeDryRun))

	report, err := merge.NewRunner(sess, prompt.New(cmd.InOrStdin(), out), opts).Run(ctx)
	if report != nil {
		printMergeReport(out, report)
	}
	return err
}

// applyMergeFlags overrides the merge configuration with explicitly set flags.
func applyMergeFlags(cmd *cobra.Command, cfg *merge.Config) {
	if cmd.Flags().Changed("backup-name") {
		cfg.BackupName = mergeBackupName
	}
	if cmd.Flags().Changed("index-name") {
		cfg.IndexName = mergeIndexName
	}
	if mergeSkipNested {
		cfg.NestedPolicy = string(merge.NestedSkip)
	}
	cfg.Exclude = append(cfg.Exclude, mergeExcludes...)
}

// methodFromFlags returns the merge method selected on the command line,
// or nil when the operator should be asked.
func methodFromFlags(yes, noBackup, noIndex bool) *merge.Method {
	if !yes && !noBackup && !noIndex {
		return nil
	}
	return &merge.Method{Backup: !noBackup, Index: !noIndex}
}

// defaultExcludes returns the names excluded from every run: the running executable.
func defaultExcludes() []string {
	exe, err := os.Executable()
	if err != nil {
		return nil
	}
	return []string{exe, filepath.Base(exe)}
}

func printMergeReport(w io.Writer, report *merge.Report) {
	bold := color.New(color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	if report.DryRun && report.Plan != nil {
		fmt.Fprintln(w, bold("Planned merge:"))
		for _, f := range report.Plan.Folders {
			fmt.Fprintf(w, "%d - '%s' (%d files, starts on %s)\n", f.Ordinal, f.Entry.Name, len(f.Files), f.FirstDestination)
		}
		for _, s := range report.Plan.Skipped {
			fmt.Fprintf(w, "%d - '%s' %s\n", s.Ordinal, s.Entry.Name, yellow("skipped: "+s.Reason))
		}
		for _, op := range report.Plan.Operations {
			fmt.Fprintf(w, "  %s <- %s\n", op.Destination, op.Source)
		}
		fmt.Fprintln(w)
	}

	switch report.State {
	case merge.StateDone:
		if report.DryRun {
			fmt.Fprintf(w, "%s nothing was changed (dry run)\n", green("DONE"))
		} else {
			fmt.Fprintf(w, "%s merged into %s\n", green("DONE"), report.Merged)
		}
	case merge.StateAborted:
		fmt.Fprintf(w, "%s nothing was changed\n", yellow("QUIT"))
	case merge.StateFailed:
		fmt.Fprintf(w, "%s %v\n", red("FAILED"), report.Err)
	}

	if report.Backup != nil {
		fmt.Fprintf(w, "Backup: %s\n", report.Backup.Root)
	}
	if report.IndexPath != "" {
		fmt.Fprintf(w, "Index:  %s\n", report.IndexPath)
	}
	for _, warning := range report.Warnings {
		fmt.Fprintf(w, "%s %s\n", yellow("WARNING"), warning)
	}
	fmt.Fprintf(w, "Run %s took %s\n", report.RunID, report.Duration().Round(time.Millisecond))
}
