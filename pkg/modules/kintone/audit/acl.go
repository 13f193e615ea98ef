// Package audit holds the modules that reconcile record-level grants against
// app-level baselines over a saved snapshot.
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
	registry.Register("kintone", "audit", "acl", *AclAudit)
}

var AclAudit = chain.NewModule(
	cfg.NewMetadata(
		"Kintone ACL Audit",
		"Resolve effective app-level permissions for one app and flag record-level grants that exceed them.",
	).WithProperties(map[string]any{
		"id":       "acl",
		"platform": "kintone",
		"authors":  []string{"kintrospect"},
		"references": []string{
			"https://cybozu.dev/ja/kintone/docs/rest-api/apps/get-app-acl/",
			"https://cybozu.dev/ja/kintone/docs/rest-api/apps/get-record-acl/",
		},
	}).WithChainInputParam(
		options.KintoneAppID().Name()),
).WithLinks(
	kintonelinks.NewSnapshotLoadLink,
	kintonelinks.NewAclAuditLink,
).WithOutputters(
	outputters.NewConflictConsoleOutputter,
	outputters.NewConflictCSVOutputter,
	outputters.NewReportJSONOutputter,
).WithInputParam(
	options.KintoneAppID(),
)
