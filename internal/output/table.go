package output

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/fastify/org-admin/internal/lifecycle"
)

var (
	addColor    = color.New(color.FgGreen)
	removeColor = color.New(color.FgRed)
	failColor   = color.New(color.FgRed, color.Bold)
	skipColor   = color.New(color.FgYellow)
)

// TableFormatter renders plans and reports as plain terminal text.
type TableFormatter struct{}

// FormatPlan prints one line per intended mutation.
func (f *TableFormatter) FormatPlan(plan lifecycle.Plan, w io.Writer) error {
	if plan.IsEmpty() {
		fmt.Fprintln(w, "Nothing to do; membership already matches the target state.")
		return nil
	}

	fmt.Fprintf(w, "Planned changes (%d):\n", len(plan.Entries))
	for _, entry := range plan.Entries {
		fmt.Fprintf(w, "  %s @%s %s %s\n",
			actionMark(entry.Action), entry.Login, actionVerb(entry.Action), entry.TeamSlug)
	}
	return nil
}

// FormatReport prints per-entry outcomes and a closing tally.
func (f *TableFormatter) FormatReport(report lifecycle.ExecutionReport, w io.Writer) error {
	for _, r := range report.Results {
		status := string(r.Status)
		switch r.Status {
		case lifecycle.StatusFailed:
			status = failColor.Sprint("FAILED")
		case lifecycle.StatusSkipped:
			status = skipColor.Sprint("skipped (dry-run)")
		}

		fmt.Fprintf(w, "  %s @%s %s %s: %s\n",
			actionMark(r.Entry.Action), r.Entry.Login, actionVerb(r.Entry.Action), r.Entry.TeamSlug, status)
		if r.Err != nil {
			fmt.Fprintf(w, "      %v\n", r.Err)
		}
	}

	fmt.Fprintf(w, "Applied %d, skipped %d, failed %d.\n", report.Applied, report.Skipped, report.Failed)
	return nil
}

func actionMark(a lifecycle.Action) string {
	if a == lifecycle.ActionAddToTeam {
		return addColor.Sprint("+")
	}
	return removeColor.Sprint("-")
}

func actionVerb(a lifecycle.Action) string {
	if a == lifecycle.ActionAddToTeam {
		return "join"
	}
	return "leave"
}
