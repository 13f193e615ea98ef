package recon

import (
	"github.com/praetorian-inc/janus-framework/pkg/chain"
	"github.com/praetorian-inc/janus-framework/pkg/chain/cfg"

	"github.com/kintrospect/kintrospect/internal/registry"
	kintonelinks "github.com/kintrospect/kintrospect/pkg/links/kintone"
	"github.com/kintrospect/kintrospect/pkg/links/options"
	"github.com/kintrospect/kintrospect/pkg/outputters"
)

func init() {
	registry.Register("kintone", "recon", "app-config", *AppConfigFetch)
}

var AppConfigFetch = chain.NewModule(
	cfg.NewMetadata(
		"Kintone App Configuration Fetch",
		"Fetch the app ACL, record ACL, field ACL, form fields, workflow, and view settings of a kintone app and save them as a YAML snapshot.",
	).WithProperties(map[string]any{
		"id":       "app-config",
		"platform": "kintone",
		"authors":  []string{"kintrospect"},
		"references": []string{
			"https://cybozu.dev/ja/kintone/docs/rest-api/apps/",
		},
	}).WithChainInputParam(
		options.KintoneAppID().Name()),
).WithLinks(
	kintonelinks.NewAppConfigFetchLink,
).WithOutputters(
	outputters.NewSnapshotYAMLOutputter,
).WithInputParam(
	options.KintoneAppID(),
)
