package filesystem

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Entry is one immediate child of a directory.
type Entry struct {
	// Name is the base name of the entry.
	Name string
	// Path is the full path of the entry.
	Path string
	// IsDir reports whether the entry is a directory.
	IsDir bool
}

// Access defines the directory operations the merge engine depends on.
type Access interface {
	// ReadDir lists the immediate children of path, sorted by name.
	ReadDir(path string) ([]Entry, error)
	// Exists reports whether anything exists at path.
	Exists(path string) (bool, error)
	// IsDir reports whether path exists and is a directory.
	IsDir(path string) (bool, error)
	// Mkdir creates path and any missing parents.
	Mkdir(path string) error
	// Remove deletes a file or a directory tree.
	Remove(path string) error
	// Copy copies src to dst. Directories require recursive to be set.
	Copy(src, dst string, recursive bool) error
	// Rename moves oldpath to newpath.
	Rename(oldpath, newpath string) error
	// AppendFile appends data to path, creating the file when needed.
	AppendFile(path string, data []byte) error
	// Open opens path for reading.
	Open(path string) (io.ReadCloser, error)
	// Walk walks the tree rooted at root in lexical order.
	Walk(root string, fn filepath.WalkFunc) error
}

// AferoAccess implements Access on an afero filesystem.
type AferoAccess struct {
	fs afero.Fs
}

// New wraps an afero filesystem.
func New(fs afero.Fs) *AferoAccess {
	return &AferoAccess{fs: fs}
}

// NewOS returns an Access backed by the real operating system filesystem.
func NewOS() *AferoAccess {
	return New(afero.NewOsFs())
}

// Fs returns the underlying afero filesystem.
func (a *AferoAccess) Fs() afero.Fs {
	return a.fs
}

func (a *AferoAccess) ReadDir(path string) ([]Entry, error) {
	infos, err := afero.ReadDir(a.fs, path)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", path, err)
	}

	entries := make([]Entry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, Entry{
			Name:  info.Name(),
			Path:  filepath.Join(path, info.Name()),
			IsDir: info.IsDir(),
		})
	}
	return entries, nil
}

func (a *AferoAccess) Exists(path string) (bool, error) {
	return afero.Exists(a.fs, path)
}

func (a *AferoAccess) IsDir(path string) (bool, error) {
	ok, err := afero.IsDir(a.fs, path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return ok, err
}

func (a *AferoAccess) Mkdir(path string) error {
	if err := a.fs.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", path, err)
	}
	return nil
}

func (a *AferoAccess) Remove(path string) error {
	if err := a.fs.RemoveAll(path); err != nil {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}

func (a *AferoAccess) Rename(oldpath, newpath string) error {
	if err := a.fs.Rename(oldpath, newpath); err != nil {
		return fmt.Errorf("rename %s -> %s: %w", oldpath, newpath, err)
	}
	return nil
}

func (a *AferoAccess) Copy(src, dst string, recursive bool) error {
	info, err := a.fs.Stat(src)
	if err != nil {
		return fmt.Errorf("stat %s: %w", src, err)
	}
	if !info.IsDir() {
		return a.copyFile(src, dst, info.Mode())
	}
	if !recursive {
		return fmt.Errorf("copy %s: source is a directory", src)
	}

	return afero.Walk(a.fs, src, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if fi.IsDir() {
			if rel == "." {
				// The destination root itself must not exist yet.
				if ok, _ := afero.Exists(a.fs, target); ok {
					return fmt.Errorf("copy %s: destination %s already exists", src, target)
				}
			}
			return a.fs.MkdirAll(target, fi.Mode().Perm()|0o700)
		}
		return a.copyFile(path, target, fi.Mode())
	})
}

func (a *AferoAccess) copyFile(src, dst string, mode os.FileMode) error {
	in, err := a.fs.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := a.fs.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, mode.Perm())
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("copy %s -> %s: %w", src, dst, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", dst, err)
	}
	return nil
}

func (a *AferoAccess) AppendFile(path string, data []byte) error {
	f, err := a.fs.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("append %s: %w", path, err)
	}
	return f.Close()
}

func (a *AferoAccess) Open(path string) (io.ReadCloser, error) {
	f, err := a.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}

func (a *AferoAccess) Walk(root string, fn filepath.WalkFunc) error {
	return afero.Walk(a.fs, root, fn)
}
