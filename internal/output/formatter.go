package output

import (
	"io"

	"github.com/fastify/org-admin/internal/lifecycle"
)

// Format represents the output format
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// Formatter renders plans and execution reports for the operator.
type Formatter interface {
	FormatPlan(plan lifecycle.Plan, w io.Writer) error
	FormatReport(report lifecycle.ExecutionReport, w io.Writer) error
}

// NewFormatter creates a formatter for the specified format
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{}
	default:
		return &TableFormatter{}
	}
}
