package cmd

import (
	"fmt"

	"github.com/spiffcs/scout/internal/tui"
)

// tuiFlag implements pflag.Value for the tri-state --tui flag.
type tuiFlag struct {
	value **bool
}

func newTUIFlag(value **bool) *tuiFlag {
	return &tuiFlag{value: value}
}

func (f *tuiFlag) String() string {
	switch {
	case *f.value == nil:
		return "auto"
	case **f.value:
		return "true"
	default:
		return "false"
	}
}

func (f *tuiFlag) Set(s string) error {
	var v bool
	switch s {
	case "true", "1", "yes":
		v = true
	case "false", "0", "no":
		v = false
	case "auto":
		*f.value = nil
		return nil
	default:
		return fmt.Errorf("invalid value %q: use true, false, or auto", s)
	}
	*f.value = &v
	return nil
}

func (f *tuiFlag) Type() string {
	return "bool"
}

func (f *tuiFlag) IsBoolFlag() bool {
	return true
}

// shouldUseTUI determines whether to use TUI based on options.
func shouldUseTUI(opts *Options) bool {
	// Disable TUI when verbose logging is requested so logs are visible
	if opts.Verbosity > 0 {
		return false
	}
	if opts.TUI != nil {
		return *opts.TUI
	}
	return tui.ShouldUseTUI()
}
