// Package menu implements the interactive removal menu: five terminal
// choices, one downstream action each, no return to the menu afterwards.
package menu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrInvalidChoice is returned for any selection outside the closed range.
// It is a fatal usage error for the caller.
var ErrInvalidChoice = errors.New("invalid menu choice")

// Selection is one of the five terminal menu choices.
type Selection int

const (
	SelectionFull Selection = iota + 1
	SelectionBinaries
	SelectionConfig
	SelectionCache
	SelectionCancel
)

func (s Selection) String() string {
	switch s {
	case SelectionFull:
		return "full removal"
	case SelectionBinaries:
		return "binaries only"
	case SelectionConfig:
		return "configuration only"
	case SelectionCache:
		return "cache only"
	case SelectionCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// Prompt renders the menu to out and blocks on in for a single selection.
// There is no timeout; cancellation is purely user-driven. Any input that
// does not parse to a number in [1,5] yields ErrInvalidChoice.
//
// The caller owns the buffered reader: Prompt consumes exactly one line
// from it, so later prompts on the same reader see the remaining input.
func Prompt(in *bufio.Reader, out io.Writer) (Selection, error) {
	fmt.Fprintln(out, "What should be removed?")
	fmt.Fprintln(out, "  1) Everything (binaries, configuration, cache, desktop entry, PATH entry)")
	fmt.Fprintln(out, "  2) Binaries only")
	fmt.Fprintln(out, "  3) Configuration only")
	fmt.Fprintln(out, "  4) Cache only")
	fmt.Fprintln(out, "  5) Cancel")
	fmt.Fprint(out, "Choice [1-5]: ")

	answer, err := in.ReadString('\n')
	if err != nil && answer == "" {
		return 0, fmt.Errorf("%w: no input", ErrInvalidChoice)
	}

	choice, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil || choice < int(SelectionFull) || choice > int(SelectionCancel) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidChoice, strings.TrimSpace(answer))
	}
	return Selection(choice), nil
}
