package merge

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fmerge/core/filesystem"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testRoot = "/scans"

// newTestSession creates an in-memory main directory. Paths ending in "/" are created as
// directories; every other path becomes a file whose content is its own path.
func newTestSession(t *testing.T, paths ...string) (*Session, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(testRoot, 0o755))
	for _, p := range paths {
		full := filepath.Join(testRoot, p)
		if strings.HasSuffix(p, "/") {
			require.NoError(t, fs.MkdirAll(full, 0o755))
			continue
		}
		require.NoError(t, fs.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, afero.WriteFile(fs, full, []byte(p), 0o644))
	}
	return &Session{
		Root:     testRoot,
		FS:       filesystem.New(fs),
		Logger:   zap.NewNop(),
		Excludes: NewExcludeSet(),
	}, fs
}

func readFile(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	return string(data)
}

func exists(t *testing.T, fs afero.Fs, path string) bool {
	t.Helper()
	ok, err := afero.Exists(fs, path)
	require.NoError(t, err)
	return ok
}

// snapshotTree returns every file below root with its content.
func snapshotTree(t *testing.T, fs afero.Fs, root string) map[string]string {
	t.Helper()
	tree := map[string]string{}
	require.NoError(t, afero.Walk(fs, root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			data, err := afero.ReadFile(fs, p)
			if err != nil {
				return err
			}
			tree[p] = string(data)
		}
		return nil
	}))
	return tree
}

func dirNames(t *testing.T, fs afero.Fs, path string) []string {
	t.Helper()
	infos, err := afero.ReadDir(fs, path)
	require.NoError(t, err)
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name())
	}
	return names
}

var errInjected = errors.New("injected failure")

// faultyAccess wraps an Access and fails selected operations.
type faultyAccess struct {
	filesystem.Access

	// failFileCopyAt fails the n-th (1-based) non-recursive copy.
	failFileCopyAt int
	fileCopies     int

	// failDirCopyAt fails the n-th (1-based) recursive copy.
	failDirCopyAt int
	dirCopies     int

	// failRemove fails Remove for the listed paths.
	failRemove map[string]bool
}

func (f *faultyAccess) Copy(src, dst string, recursive bool) error {
	if recursive {
		f.dirCopies++
		if f.dirCopies == f.failDirCopyAt {
			return errInjected
		}
	} else {
		f.fileCopies++
		if f.fileCopies == f.failFileCopyAt {
			return errInjected
		}
	}
	return f.Access.Copy(src, dst, recursive)
}

func (f *faultyAccess) Remove(path string) error {
	if f.failRemove[path] {
		return errInjected
	}
	return f.Access.Remove(path)
}

// scriptedPrompter answers ReadLine and ReadToken from one queue of inputs.
// An exhausted queue returns io.EOF.
type scriptedPrompter struct {
	inputs    []string
	presented map[string][][]string
	prompts   []string
	reported  []error
}

func newScriptedPrompter(inputs ...string) *scriptedPrompter {
	return &scriptedPrompter{inputs: inputs, presented: map[string][][]string{}}
}

func (p *scriptedPrompter) Present(title string, entries []SourceEntry) {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	p.presented[title] = append(p.presented[title], names)
}

func (p *scriptedPrompter) ReadLine(prompt string) (string, error) {
	p.prompts = append(p.prompts, prompt)
	if len(p.inputs) == 0 {
		return "", io.EOF
	}
	next := p.inputs[0]
	p.inputs = p.inputs[1:]
	return next, nil
}

func (p *scriptedPrompter) ReadToken(prompt string) (string, error) {
	line, err := p.ReadLine(prompt)
	return strings.TrimSpace(line), err
}

func (p *scriptedPrompter) Report(err error) {
	p.reported = append(p.reported, err)
}

type mockMirror struct {
	mock.Mock
}

func (m *mockMirror) MirrorBackup(ctx context.Context, record *BackupRecord) error {
	return m.Called(ctx, record).Error(0)
}

type mockJournal struct {
	mock.Mock
}

func (m *mockJournal) Record(ctx context.Context, report *Report) error {
	return m.Called(ctx, report).Error(0)
}
