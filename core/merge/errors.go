package merge

import (
	"errors"
	"fmt"
)

var (
	// ErrNothingToMerge is returned when no eligible source folder or file remains.
	ErrNothingToMerge = errors.New("nothing to merge")
	// ErrAborted is returned when the operator enters the quit token.
	ErrAborted = errors.New("merge aborted by operator")
)

// FormatErrorKind classifies an order specification error.
type FormatErrorKind string

const (
	// ImproperFormat means a character that is neither a digit nor whitespace was entered.
	ImproperFormat FormatErrorKind = "improper_format"
	// TooManyNumbers means more indices than candidates were entered.
	TooManyNumbers FormatErrorKind = "too_many_numbers"
	// OutOfRange means an index exceeds the highest candidate index.
	OutOfRange FormatErrorKind = "out_of_range"
	// Duplicate means an index was entered more than once.
	Duplicate FormatErrorKind = "duplicate"
)

// FormatError reports an invalid order specification.
type FormatError struct {
	Kind FormatErrorKind
	// Value is the offending index (OutOfRange, Duplicate).
	Value int
	// Char is the offending character (ImproperFormat).
	Char rune
	// Max is the highest valid index.
	Max int
}

func (e *FormatError) Error() string {
	switch e.Kind {
	case ImproperFormat:
		return fmt.Sprintf("improper format: unexpected character %q", e.Char)
	case TooManyNumbers:
		return fmt.Sprintf("too many numbers entered (at most %d)", e.Max+1)
	case OutOfRange:
		return fmt.Sprintf("%d is not within range (0 - %d)", e.Value, e.Max)
	case Duplicate:
		return fmt.Sprintf("%d was entered more than once", e.Value)
	default:
		return string(e.Kind)
	}
}

// PathCollisionError reports that a name chosen for a backup, index or staging path already exists.
type PathCollisionError struct {
	// Purpose is what the path was meant for: "backup", "index" or "staging".
	Purpose string
	Path    string
}

func (e *PathCollisionError) Error() string {
	return fmt.Sprintf("%s path %s already exists", e.Purpose, e.Path)
}

// NestedDirectoryError reports a directory found inside a source folder.
type NestedDirectoryError struct {
	Folder string
	Child  string
}

func (e *NestedDirectoryError) Error() string {
	return fmt.Sprintf("folder %s contains a directory (%s); remove it and try again", e.Folder, e.Child)
}

// FilesystemOperationError reports a failed copy, rename or remove.
type FilesystemOperationError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemOperationError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemOperationError) Unwrap() error {
	return e.Err
}

// BackupCreationError reports a failed backup. It is always fatal to the run.
type BackupCreationError struct {
	Path string
	Err  error
}

func (e *BackupCreationError) Error() string {
	return fmt.Sprintf("failed to create backup %s: %v", e.Path, e.Err)
}

func (e *BackupCreationError) Unwrap() error {
	return e.Err
}
