package terr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Level is the severity of a Diagnostic.
type Level string

const (
	LevelFatal   Level = "error"
	LevelWarning Level = "warning"
)

// Diagnostic is a structured error or warning produced by a pass. Fatal
// diagnostics abort the pass for the current function; warnings are
// collected and the pass continues.
type Diagnostic struct {
	Level    Level
	Code     Code
	Function string
	Reason   string
	Position string
	cause    error
}

// New builds a fatal Diagnostic.
func New(code Code, function, reason string) *Diagnostic {
	return &Diagnostic{Level: LevelFatal, Code: code, Function: function, Reason: reason}
}

// Warning builds a non-fatal Diagnostic.
func Warning(code Code, function, reason string) *Diagnostic {
	return &Diagnostic{Level: LevelWarning, Code: code, Function: function, Reason: reason}
}

// At attaches the IR position (typically a block label) the diagnostic
// was raised at.
func (d *Diagnostic) At(position string) *Diagnostic {
	d.Position = position
	return d
}

// Wrap attaches an underlying cause, preserving its stack via pkg/errors
// so a later terr.Cause(d) recovers the original failure.
func (d *Diagnostic) Wrap(cause error) *Diagnostic {
	d.cause = errors.WithStack(cause)
	return d
}

func (d *Diagnostic) Error() string {
	loc := fmt.Sprintf("in function %q", d.Function)
	if d.Position != "" {
		loc = fmt.Sprintf("%s at %q", loc, d.Position)
	}
	msg := fmt.Sprintf("%s[%s]: %s: %s", d.Level, d.Code, loc, d.Reason)
	if d.cause != nil {
		return fmt.Sprintf("%s: %s", msg, d.cause)
	}
	return msg
}

// Cause returns the wrapped underlying error, if any, via pkg/errors so
// callers can unwrap past the diagnostic to the root cause.
func Cause(d *Diagnostic) error {
	if d == nil || d.cause == nil {
		return nil
	}
	return errors.Cause(d.cause)
}
