package merge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"fmerge/core/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Prompter is the operator input/output capability set.
type Prompter interface {
	// Present shows an enumerated list of entries under a title.
	Present(title string, entries []SourceEntry)
	// ReadLine reads one line of free-form text.
	ReadLine(prompt string) (string, error)
	// ReadToken reads a short confirmation or flag token.
	ReadToken(prompt string) (string, error)
	// Report shows a non-fatal error to the operator.
	Report(err error)
}

// Journal persists finished runs.
type Journal interface {
	Record(ctx context.Context, report *Report) error
}

// Options controls a single run.
type Options struct {
	Config

	// Order, when set, is used instead of prompting for the order.
	Order *string

	// Method, when set, is used instead of prompting for the merge method.
	Method *Method

	// AssumeYes accepts the parsed order without asking for confirmation.
	AssumeYes bool

	// DryRun stops after planning; nothing is written.
	DryRun bool

	// Mirror receives the local backup once it exists. Optional.
	Mirror Mirror

	// Journal records the run outcome. Optional.
	Journal Journal
}

const orderPrompt = "Enter the order of folders using spaces (e.g. '0 1 6 2 5 3 4');\n" +
	"press ENTER if the order is correct and all folders should be included, or '-q' to quit: "

// Runner drives one merge through its states.
type Runner struct {
	sess     *Session
	prompter Prompter
	opts     Options
	state    State
}

// NewRunner creates a runner. The configured exclusions and the staging name are added to the
// session's exclusions.
func NewRunner(sess *Session, prompter Prompter, opts Options) *Runner {
	opts.Config = opts.Config.withDefaults()
	if sess.Excludes == nil {
		sess.Excludes = NewExcludeSet()
	}
	sess.Excludes.Add(opts.Exclude...)
	sess.Excludes.Add(opts.StagingName)
	if sess.Logger == nil {
		sess.Logger = zap.NewNop()
	}
	return &Runner{sess: sess, prompter: prompter, opts: opts}
}

// State returns the current run state.
func (r *Runner) State() State {
	return r.state
}

// Run executes the merge. An operator quit ends the run in StateAborted with a nil error;
// every other failure ends in StateFailed and is returned.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	report := &Report{
		RunID:     uuid.NewString(),
		Root:      r.sess.Root,
		DryRun:    r.opts.DryRun,
		StartedAt: time.Now(),
	}
	r.sess.Logger = logger.WithRun(r.sess.Logger, report.RunID)

	err := r.run(ctx, report)
	report.FinishedAt = time.Now()

	switch {
	case err == nil:
		r.transition(StateDone)
	case errors.Is(err, ErrAborted):
		r.transition(StateAborted)
		err = nil
	default:
		r.transition(StateFailed)
		report.Err = err
	}
	report.State = r.state

	r.sess.Logger.Info("Merge finished",
		zap.String("state", string(report.State)),
		zap.Duration("duration", report.Duration()),
		zap.Int("warnings", len(report.Warnings)),
	)

	if r.opts.Journal != nil && !report.DryRun {
		// An interrupted run is still recorded.
		if jErr := r.opts.Journal.Record(context.WithoutCancel(ctx), report); jErr != nil {
			r.sess.Logger.Warn("Failed to record run in journal", zap.Error(jErr))
		}
	}

	return report, err
}

func (r *Runner) run(ctx context.Context, report *Report) error {
	r.transition(StateCollectingEntries)
	entries, err := Collect(r.sess)
	if err != nil {
		return err
	}
	candidates := NewFilter(r.sess.Excludes, r.sess.Logger).Candidates(entries)
	if len(candidates) == 0 {
		return fmt.Errorf("%w: no folders found in %s", ErrNothingToMerge, r.sess.Root)
	}

	r.transition(StateSpecifyingOrder)
	order, err := r.specifyOrder(candidates)
	if err != nil {
		return err
	}
	report.Order = order
	r.transition(StateOrderConfirmed)

	method, err := r.selectMethod()
	if err != nil {
		return err
	}
	report.Method = method

	policy, err := ParseNestedPolicy(r.opts.NestedPolicy)
	if err != nil {
		return err
	}
	plan, err := NewPlanner(r.sess, policy).Plan(order)
	if err != nil {
		return err
	}
	report.Plan = plan

	backups := NewBackupManager(r.sess, r.opts.Mirror)
	var backupName, indexName string
	if method.Backup {
		backupName, err = r.chooseName("backup folder", r.opts.BackupName, func(name string) error {
			if name == r.opts.StagingName {
				return &PathCollisionError{Purpose: "backup", Path: filepath.Join(r.sess.Root, name)}
			}
			_, err := backups.CheckName(name)
			return err
		})
		if err != nil {
			return err
		}
	}
	if method.Index {
		indexName, err = r.chooseName("index file", r.opts.IndexName, func(name string) error {
			if name == backupName || name == r.opts.StagingName {
				return &PathCollisionError{Purpose: "index", Path: filepath.Join(r.sess.Root, name)}
			}
			_, err := checkFreeName(r.sess, "index", name)
			return err
		})
		if err != nil {
			return err
		}
	}

	if r.opts.DryRun {
		r.sess.Logger.Info("Dry-run mode: no changes were made")
		return nil
	}

	var hook FolderHook
	if method.Index {
		recorder, err := NewIndexRecorder(r.sess, indexName)
		if err != nil {
			return err
		}
		report.IndexPath = recorder.Path()
		hook = recorder.Hook()
	}

	if method.Backup {
		r.transition(StateBackingUp)
		folders := make([]SourceEntry, 0, len(plan.Folders))
		for _, f := range plan.Folders {
			folders = append(folders, f.Entry)
		}
		record, err := backups.Backup(ctx, report.RunID, folders, backupName)
		if err != nil {
			return err
		}
		report.Backup = record
	}

	r.transition(StateStaging)
	stager := NewStager(r.sess, r.opts.StagingName)
	if err := stager.Execute(ctx, plan, hook); err != nil {
		var collision *PathCollisionError
		if !errors.As(err, &collision) {
			r.transition(StateRollingBack)
		}
		return err
	}

	r.transition(StateCommitting)
	result, err := stager.Commit(plan)
	if result != nil {
		report.Warnings = append(report.Warnings, result.Warnings...)
	}
	if err != nil {
		return err
	}
	report.Merged = result.Merged
	return nil
}

// specifyOrder loops until the operator enters a valid, confirmed order.
func (r *Runner) specifyOrder(candidates []SourceEntry) ([]SourceEntry, error) {
	if r.opts.Order != nil {
		idx, err := ParseOrder(*r.opts.Order, len(candidates))
		if err != nil {
			return nil, err
		}
		return Select(candidates, idx), nil
	}

	for {
		r.prompter.Present("Folders in directory:", candidates)
		line, err := r.prompter.ReadLine(orderPrompt)
		if err != nil {
			return nil, inputError(err)
		}
		if IsQuit(line) {
			return nil, ErrAborted
		}

		idx, err := ParseOrder(line, len(candidates))
		if err != nil {
			r.sess.Logger.Debug("Rejected order specification", zap.String("input", line), zap.Error(err))
			r.prompter.Report(err)
			continue
		}
		order := Select(candidates, idx)
		if r.opts.AssumeYes {
			return order, nil
		}

		r.prompter.Present("Current order:", order)
		token, err := r.prompter.ReadToken("Press ENTER if this is the correct order, or enter anything else to go back: ")
		if err != nil {
			return nil, inputError(err)
		}
		if IsQuit(token) {
			return nil, ErrAborted
		}
		if t := strings.TrimSpace(token); t == "" || t == ConfirmToken {
			return order, nil
		}
	}
}

// selectMethod loops until a valid merge method token is entered.
func (r *Runner) selectMethod() (Method, error) {
	if r.opts.Method != nil {
		return *r.opts.Method, nil
	}

	for {
		token, err := r.prompter.ReadToken(MethodMenu + "\n> ")
		if err != nil {
			return Method{}, inputError(err)
		}
		method, err := ParseMethod(token)
		if errors.Is(err, ErrAborted) {
			return Method{}, err
		}
		if err != nil {
			r.prompter.Report(err)
			continue
		}
		return method, nil
	}
}

// chooseName returns initial if check accepts it, otherwise asks for alternates
// until one is accepted. Filesystem failures end the loop.
func (r *Runner) chooseName(purpose, initial string, check func(string) error) (string, error) {
	name := initial
	for {
		err := check(name)
		if err == nil {
			return name, nil
		}
		var fsErr *FilesystemOperationError
		if errors.As(err, &fsErr) {
			return "", err
		}

		r.prompter.Report(err)
		line, err := r.prompter.ReadLine(fmt.Sprintf("Enter a different name for the %s: ", purpose))
		if err != nil {
			return "", inputError(err)
		}
		if IsQuit(line) {
			return "", ErrAborted
		}
		name = strings.TrimSpace(line)
	}
}

func (r *Runner) transition(next State) {
	if r.state == next {
		return
	}
	r.sess.Logger.Debug("State transition", zap.String("from", string(r.state)), zap.String("to", string(next)))
	r.state = next
}

// inputError maps a closed input stream to an operator abort.
func inputError(err error) error {
	if errors.Is(err, io.EOF) {
		return ErrAborted
	}
	return fmt.Errorf("failed to read operator input: %w", err)
}
