package output

import (
	"encoding/json"
	"io"

	"github.com/fastify/org-admin/internal/lifecycle"
)

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	Pretty bool
}

type jsonEntry struct {
	Login  string `json:"login"`
	Action string `json:"action"`
	Team   string `json:"team"`
}

type jsonResult struct {
	jsonEntry
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type jsonReport struct {
	Results []jsonResult `json:"results"`
	Applied int          `json:"applied"`
	Skipped int          `json:"skipped"`
	Failed  int          `json:"failed"`
}

// FormatPlan outputs the plan entries as JSON
func (f *JSONFormatter) FormatPlan(plan lifecycle.Plan, w io.Writer) error {
	entries := make([]jsonEntry, 0, len(plan.Entries))
	for _, e := range plan.Entries {
		entries = append(entries, jsonEntry{Login: e.Login, Action: string(e.Action), Team: e.TeamSlug})
	}
	return f.encode(entries, w)
}

// FormatReport outputs per-entry outcomes and the tally as JSON
func (f *JSONFormatter) FormatReport(report lifecycle.ExecutionReport, w io.Writer) error {
	out := jsonReport{
		Results: make([]jsonResult, 0, len(report.Results)),
		Applied: report.Applied,
		Skipped: report.Skipped,
		Failed:  report.Failed,
	}
	for _, r := range report.Results {
		jr := jsonResult{
			jsonEntry: jsonEntry{Login: r.Entry.Login, Action: string(r.Entry.Action), Team: r.Entry.TeamSlug},
			Status:    string(r.Status),
		}
		if r.Err != nil {
			jr.Error = r.Err.Error()
		}
		out.Results = append(out.Results, jr)
	}
	return f.encode(out, w)
}

func (f *JSONFormatter) encode(v any, w io.Writer) error {
	encoder := json.NewEncoder(w)
	if f.Pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(v)
}
