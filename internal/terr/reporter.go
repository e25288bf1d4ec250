package terr

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Reporter renders Diagnostics to a stream, colorized by severity.
type Reporter struct {
	out io.Writer
}

// NewReporter returns a Reporter writing to out.
func NewReporter(out io.Writer) *Reporter {
	return &Reporter{out: out}
}

// Report prints a single diagnostic, one line per severity color.
func (r *Reporter) Report(d *Diagnostic) {
	levelColor := color.New(color.FgRed, color.Bold)
	if d.Level == LevelWarning {
		levelColor = color.New(color.FgYellow, color.Bold)
	}
	fmt.Fprintf(r.out, "%s[%s]: in function %q: %s\n",
		levelColor.Sprint(string(d.Level)), d.Code, d.Function, d.Reason)
	if cause := Cause(d); cause != nil {
		fmt.Fprintf(r.out, "  %s %s\n", color.New(color.Faint).Sprint("caused by:"), cause)
	}
}

// ReportAll prints every diagnostic in order.
func (r *Reporter) ReportAll(ds []*Diagnostic) {
	for _, d := range ds {
		r.Report(d)
	}
}
