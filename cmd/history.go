package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"fmerge/core/config"
	"fmerge/core/database"
	"fmerge/feature/history"
	"fmerge/feature/history/models"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var historyLimit int

// historyCmd is the parent command for journal queries.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect the run journal",
	Long: `Inspect past merge runs recorded in the journal database.
The journal is written only when database.enabled is set (DATABASE_ENABLED=true).`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openJournal()
		if err != nil {
			return err
		}
		runs, err := svc.List(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}
		printRuns(cmd.OutOrStdout(), runs)
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one run and its folders",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openJournal()
		if err != nil {
			return err
		}
		run, err := svc.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printRun(cmd.OutOrStdout(), run)
		return nil
	},
}

func init() {
	historyListCmd.Flags().IntVar(&historyLimit, "limit", history.DefaultLimit, "Maximum number of runs to list")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	RootCmd.AddCommand(historyCmd)
}

func openJournal() (*history.Service, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if !cfg.Database.Enabled {
		return nil, fmt.Errorf("the run journal is disabled (set DATABASE_ENABLED=true)")
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	svc := history.NewService(db, nil)
	if err := svc.Migrate(); err != nil {
		return nil, err
	}
	return svc, nil
}

func stateLabel(state string) string {
	switch state {
	case "done":
		return color.New(color.FgGreen).Sprint(state)
	case "failed":
		return color.New(color.FgRed).Sprint(state)
	default:
		return color.New(color.FgYellow).Sprint(state)
	}
}

func printRuns(w io.Writer, runs []models.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTARTED\tSTATE\tMETHOD\tFILES\tROOT")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n",
			r.ID, r.StartedAt.Local().Format(time.DateTime), stateLabel(r.State), r.Method, r.TotalFiles, r.Root)
	}
	_ = tw.Flush()
}

func printRun(w io.Writer, r *models.Run) {
	fmt.Fprintf(w, "Run:      %s\n", r.ID)
	fmt.Fprintf(w, "Root:     %s\n", r.Root)
	fmt.Fprintf(w, "State:    %s\n", stateLabel(r.State))
	fmt.Fprintf(w, "Method:   %s\n", r.Method)
	fmt.Fprintf(w, "Started:  %s (%s)\n", r.StartedAt.Local().Format(time.DateTime), time.Duration(r.DurationMs)*time.Millisecond)
	if r.Merged != "" {
		fmt.Fprintf(w, "Merged:   %s (%d files, width %d)\n", r.Merged, r.TotalFiles, r.Width)
	}
	if r.BackupPath != "" {
		fmt.Fprintf(w, "Backup:   %s\n", r.BackupPath)
	}
	if r.IndexPath != "" {
		fmt.Fprintf(w, "Index:    %s\n", r.IndexPath)
	}
	if r.Error != "" {
		fmt.Fprintf(w, "Error:    %s\n", r.Error)
	}
	if r.Warnings != "" {
		for _, warning := range strings.Split(r.Warnings, "\n") {
			fmt.Fprintf(w, "Warning:  %s\n", warning)
		}
	}

	if len(r.Folders) == 0 {
		return
	}
	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tFOLDER\tFILES\tSTARTS ON")
	for _, f := range r.Folders {
		start := f.FirstFile
		if f.Skipped {
			start = "skipped: " + f.Reason
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", f.Ordinal, f.Name, f.Files, start)
	}
	_ = tw.Flush()
}
