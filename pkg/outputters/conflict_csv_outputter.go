package outputters

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/praetorian-inc/janus-framework/pkg/chain"
	"github.com/praetorian-inc/janus-framework/pkg/chain/cfg"

	"github.com/kintrospect/kintrospect/internal/message"
	"github.com/kintrospect/kintrospect/pkg/acl"
)

// ConflictCSVOutputter writes one tab-separated problem report per audited
// app, <appID>_acl_problem.csv, under the output directory.
type ConflictCSVOutputter struct {
	*chain.BaseOutputter
	reports []*acl.AuditReport
	outDir  string
}

func NewConflictCSVOutputter(configs ...cfg.Config) chain.Outputter {
	o := &ConflictCSVOutputter{}
	o.BaseOutputter = chain.NewBaseOutputter(o, configs...)
	return o
}

func (o *ConflictCSVOutputter) Initialize() error {
	outDir, err := cfg.As[string](o.Arg("csv-dir"))
	if err != nil || outDir == "" {
		outDir = "kintrospect-output"
	}
	o.outDir = outDir
	return nil
}

func (o *ConflictCSVOutputter) Output(v any) error {
	report, ok := v.(*acl.AuditReport)
	if !ok {
		return nil
	}
	o.reports = append(o.reports, report)
	return nil
}

func (o *ConflictCSVOutputter) Complete() error {
	if len(o.reports) == 0 {
		return nil
	}
	if err := os.MkdirAll(o.outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	for _, r := range o.reports {
		if err := o.writeReport(r); err != nil {
			return err
		}
	}
	return nil
}

func (o *ConflictCSVOutputter) writeReport(r *acl.AuditReport) error {
	path := filepath.Join(o.outDir, r.AppID+"_acl_problem.csv")
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating problem report: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	writer.Comma = '\t'
	defer writer.Flush()

	header := []string{
		"App",
		"Kind",
		"Name",
		"Record Permissions",
		"App Permissions",
		"Excess",
		"Condition",
		"Count",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("writing problem report header: %w", err)
	}

	for _, c := range r.Conflicts {
		row := []string{
			r.AppName,
			c.Kind.String(),
			c.Name,
			c.Record.String(),
			c.App.String(),
			c.Excess.String(),
			c.Condition,
			strconv.Itoa(c.Count),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing problem report row: %w", err)
		}
	}

	message.Info("Wrote %d conflict(s) for app %s to %s", len(r.Conflicts), r.AppID, path)
	return nil
}

func (o *ConflictCSVOutputter) Params() []cfg.Param {
	return []cfg.Param{
		cfg.NewParam[string]("csv-dir", "directory to write per-app problem reports to").
			WithDefault("kintrospect-output"),
	}
}
