package merge

import (
	"fmt"
	"strings"
)

// Merge method tokens. The leading dash is optional.
const (
	TokenNoBackup        = "-b"
	TokenNoIndex         = "-i"
	TokenNoBackupOrIndex = "-c"
	TokenQuit            = "-q"
)

// Method selects which optional phases run.
type Method struct {
	Backup bool `json:"backup"`
	Index  bool `json:"index"`
}

// MethodBoth runs both the backup and the index phases.
var MethodBoth = Method{Backup: true, Index: true}

// String returns a short description of the selected phases.
func (m Method) String() string {
	switch {
	case m.Backup && m.Index:
		return "backup+index"
	case m.Backup:
		return "backup"
	case m.Index:
		return "index"
	default:
		return "none"
	}
}

// IsQuit reports whether token is the quit token.
func IsQuit(token string) bool {
	t := strings.TrimSpace(token)
	return t == TokenQuit || t == strings.TrimPrefix(TokenQuit, "-")
}

// ParseMethod parses a merge method token. An empty token selects MethodBoth.
// The quit token returns ErrAborted.
func ParseMethod(token string) (Method, error) {
	t := strings.TrimSpace(token)
	if t == "" {
		return MethodBoth, nil
	}
	if IsQuit(t) {
		return Method{}, ErrAborted
	}
	switch "-" + strings.TrimPrefix(t, "-") {
	case TokenNoBackup:
		return Method{Backup: false, Index: true}, nil
	case TokenNoIndex:
		return Method{Backup: true, Index: false}, nil
	case TokenNoBackupOrIndex:
		return Method{}, nil
	default:
		return Method{}, fmt.Errorf("incorrect merge method: %q", token)
	}
}

// MethodMenu is the operator-facing description of the method tokens.
const MethodMenu = `Enter a merge method (enter only ONE):
FLAG      |  RESULT
'ENTER':     Create a Backup and an Index
'-b':        Do not create a Backup, but create an Index
'-i':        Do not create an Index, but create a Backup
'-c':        Do not create a Backup or an Index
'-q':        Quit`
