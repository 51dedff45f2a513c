// Package prompt implements the interactive operator console used by the merge command.
//
// Console satisfies merge.Prompter. Titles are printed in bold and errors in red
// through fatih/color, which disables colors on its own when the output is not a
// terminal or NO_COLOR is set.
package prompt
