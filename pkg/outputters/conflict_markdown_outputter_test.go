package outputters

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kintrospect/kintrospect/pkg/acl"
)

func TestRenderReportMarkdown(t *testing.T) {
	r := &acl.AuditReport{
		AppID:   "52",
		AppName: "Expense Tracker",
		Conflicts: []acl.Conflict{
			{
				Kind:      acl.KindUser,
				Name:      "alice",
				Record:    acl.NewPermissionSet(acl.PermView, acl.PermEdit, acl.PermDelete),
				App:       acl.NewPermissionSet(acl.PermView, acl.PermEdit),
				Excess:    acl.NewPermissionSet(acl.PermDelete),
				Condition: `status in ("open")`,
				Count:     2,
			},
		},
	}

	md := renderReportMarkdown(r)
	assert.Contains(t, md, "## App Expense Tracker (52)")
	assert.Contains(t, md, "| USER | alice | view/edit/delete | view/edit | delete | status in (\"open\") | 2 |")
}

func TestSortReports_ProblemsFirstThenNumericID(t *testing.T) {
	conflicted := []acl.Conflict{{Kind: acl.KindUser, Name: "alice", Excess: acl.NewPermissionSet(acl.PermDelete), Count: 1}}
	reports := []*acl.AuditReport{
		{AppID: "101"},
		{AppID: "7", Conflicts: conflicted},
		{AppID: "52", Conflicts: conflicted},
		{AppID: "9"},
	}

	sortReports(reports)

	got := make([]string, len(reports))
	for i, r := range reports {
		got[i] = r.AppID
	}
	assert.Equal(t, []string{"7", "52", "9", "101"}, got)
}

func TestRenderReportMarkdown_NoConflicts(t *testing.T) {
	md := renderReportMarkdown(&acl.AuditReport{AppID: "7", AppName: "Clean"})
	assert.Contains(t, md, "No record-level grants exceed the app-level baseline.")
	assert.NotContains(t, md, "| Kind |")
}
