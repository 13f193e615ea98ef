package audit

import (
	"github.com/praetorian-inc/janus-framework/pkg/chain"
	"github.com/praetorian-inc/janus-framework/pkg/chain/cfg"

	"github.com/kintrospect/kintrospect/internal/registry"
	kintonelinks "github.com/kintrospect/kintrospect/pkg/links/kintone"
	"github.com/kintrospect/kintrospect/pkg/links/options"
	"github.com/kintrospect/kintrospect/pkg/outputters"
)

func init() {
	registry.Register("kintone", "audit", "problem-report", *ProblemReport)
}

var ProblemReport = chain.NewModule(
	cfg.NewMetadata(
		"Kintone ACL Problem Report",
		"Audit every app in the snapshot (or a chosen subset) and write per-app problem reports plus a combined JSON report.",
	).WithProperties(map[string]any{
		"id":       "problem-report",
		"platform": "kintone",
		"authors":  []string{"kintrospect"},
		"references": []string{
			"https://cybozu.dev/ja/kintone/docs/rest-api/apps/get-app-acl/",
		},
	}).WithChainInputParam(
		options.KintoneAppIDs().Name()),
).WithLinks(
	kintonelinks.NewSnapshotAppEnumLink,
	kintonelinks.NewSnapshotLoadLink,
	kintonelinks.NewAclAuditLink,
).WithOutputters(
	outputters.NewConflictConsoleOutputter,
	outputters.NewConflictCSVOutputter,
	outputters.NewConflictMarkdownOutputter,
	outputters.NewReportJSONOutputter,
).WithInputParam(
	options.KintoneAppIDs(),
)
