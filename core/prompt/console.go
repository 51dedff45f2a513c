package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"fmerge/core/merge"

	"github.com/fatih/color"
)

var (
	titleStyle = color.New(color.Bold).SprintFunc()
	indexStyle = color.New(color.FgCyan).SprintFunc()
	errorStyle = color.New(color.FgRed).SprintFunc()
)

// Console is an interactive operator prompt over a reader and a writer.
type Console struct {
	in  *bufio.Reader
	out io.Writer
}

// New creates a console prompt.
func New(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewReader(in), out: out}
}

// Present prints the entries as "<index> - '<name>'" lines under a title.
func (c *Console) Present(title string, entries []merge.SourceEntry) {
	fmt.Fprintln(c.out, titleStyle(title))
	for i, e := range entries {
		fmt.Fprintf(c.out, "%s - '%s'\n", indexStyle(i), e.Name)
	}
	fmt.Fprintln(c.out)
}

// ReadLine prints the prompt and reads one line without its line terminator.
// A final line without a newline is returned as is; io.EOF is returned only
// when no input is left.
func (c *Console) ReadLine(prompt string) (string, error) {
	fmt.Fprint(c.out, prompt)
	line, err := c.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return trimEOL(line), nil
		}
		return "", err
	}
	return trimEOL(line), nil
}

// ReadToken reads a line and trims surrounding whitespace.
func (c *Console) ReadToken(prompt string) (string, error) {
	line, err := c.ReadLine(prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Report prints a non-fatal error.
func (c *Console) Report(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(c.out, "%s %s\n\n", errorStyle("ERROR:"), err.Error())
}

func trimEOL(s string) string {
	return strings.TrimRight(s, "\r\n")
}
