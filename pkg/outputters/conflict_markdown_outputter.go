package outputters

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/praetorian-inc/janus-framework/pkg/chain"
	"github.com/praetorian-inc/janus-framework/pkg/chain/cfg"

	"github.com/kintrospect/kintrospect/pkg/acl"
)

const defaultMDOutfile = "acl_problem_report.md"

// ConflictMarkdownOutputter renders audit reports as Markdown tables, one
// section per app, appended to a single file.
type ConflictMarkdownOutputter struct {
	*chain.BaseOutputter
	outfile string
	reports []*acl.AuditReport
}

func NewConflictMarkdownOutputter(configs ...cfg.Config) chain.Outputter {
	m := &ConflictMarkdownOutputter{}
	m.BaseOutputter = chain.NewBaseOutputter(m, configs...)
	return m
}

func (m *ConflictMarkdownOutputter) Initialize() error {
	outfile, err := cfg.As[string](m.Arg("mdoutfile"))
	if err != nil || outfile == "" {
		outfile = defaultMDOutfile
	}
	m.outfile = outfile
	return nil
}

func (m *ConflictMarkdownOutputter) Output(val any) error {
	if report, ok := val.(*acl.AuditReport); ok {
		m.reports = append(m.reports, report)
	}
	return nil
}

func (m *ConflictMarkdownOutputter) Complete() error {
	if len(m.reports) == 0 {
		return nil
	}
	sortReports(m.reports)
	slog.Debug("writing Markdown output", "filename", m.outfile, "reports", len(m.reports))

	f, err := os.Create(m.outfile)
	if err != nil {
		return fmt.Errorf("error creating Markdown file %s: %w", m.outfile, err)
	}
	defer f.Close()

	for _, r := range m.reports {
		if _, err := f.WriteString(renderReportMarkdown(r)); err != nil {
			return fmt.Errorf("error writing to Markdown file %s: %w", m.outfile, err)
		}
	}
	return nil
}

func renderReportMarkdown(r *acl.AuditReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## App %s (%s)\n\n", r.AppName, r.AppID)

	if !r.HasConflicts() {
		b.WriteString("No record-level grants exceed the app-level baseline.\n\n")
		return b.String()
	}

	b.WriteString("| Kind | Name | Record | App | Excess | Condition | Count |\n")
	b.WriteString("| --- | --- | --- | --- | --- | --- | --- |\n")
	for _, c := range r.Conflicts {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %d |\n",
			c.Kind, c.Name, c.Record, c.App, c.Excess, c.Condition, c.Count)
	}
	b.WriteString("\n")
	return b.String()
}

func (m *ConflictMarkdownOutputter) Params() []cfg.Param {
	return []cfg.Param{
		cfg.NewParam[string]("mdoutfile", "the file to write the Markdown report to").WithDefault(defaultMDOutfile),
	}
}
