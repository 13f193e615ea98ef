package outputters

import (
	"fmt"

	"github.com/praetorian-inc/janus-framework/pkg/chain"
	"github.com/praetorian-inc/janus-framework/pkg/chain/cfg"

	"github.com/kintrospect/kintrospect/internal/message"
	"github.com/kintrospect/kintrospect/pkg/acl"
)

// ConflictConsoleOutputter renders audit reports as colored console output,
// one section per app.
type ConflictConsoleOutputter struct {
	*chain.BaseOutputter
	reports []*acl.AuditReport
}

func NewConflictConsoleOutputter(configs ...cfg.Config) chain.Outputter {
	o := &ConflictConsoleOutputter{}
	o.BaseOutputter = chain.NewBaseOutputter(o, configs...)
	return o
}

func (o *ConflictConsoleOutputter) Output(v any) error {
	report, ok := v.(*acl.AuditReport)
	if !ok {
		return nil
	}
	o.reports = append(o.reports, report)
	return nil
}

func (o *ConflictConsoleOutputter) Complete() error {
	if len(o.reports) == 0 {
		message.Info("Nothing was audited")
		return nil
	}

	sortReports(o.reports)

	totalConflicts := 0
	for _, r := range o.reports {
		message.Section("App %s (%s)", r.AppName, r.AppID)

		if !r.HasConflicts() {
			message.Success("No record-level grants exceed the app-level baseline")
		}
		for _, c := range r.Conflicts {
			totalConflicts++
			line := fmt.Sprintf("%-12s %-24s record=%-16s app=%-16s excess=%s",
				c.Kind, c.Name, c.Record, c.App, message.Emphasize(c.Excess.String()))
			if c.Count > 1 {
				line += fmt.Sprintf(" (x%d)", c.Count)
			}
			message.Error("%s", line)
			if c.Condition != "" {
				message.Info("    condition: %s", c.Condition)
			}
		}

		if dangling := danglingPrincipals(r); len(dangling) > 0 {
			for _, p := range dangling {
				message.Warning("Unresolvable principal in ACL: %s (%s)", p.Code, p.Kind)
			}
		}
	}

	if totalConflicts > 0 {
		message.Warning("%d conflicting grants across %d app(s)", totalConflicts, len(o.reports))
	} else {
		message.Success("All record-level grants stay within their app-level baselines")
	}
	return nil
}

func danglingPrincipals(r *acl.AuditReport) []acl.Principal {
	var out []acl.Principal
	for _, p := range r.Principals {
		if !p.Valid {
			out = append(out, p)
		}
	}
	return out
}

func (o *ConflictConsoleOutputter) Params() []cfg.Param {
	return []cfg.Param{}
}
