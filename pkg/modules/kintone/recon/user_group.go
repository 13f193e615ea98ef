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
	registry.Register("kintone", "recon", "user-group", *UserGroupList)
}

var UserGroupList = chain.NewModule(
	cfg.NewMetadata(
		"Kintone User and Group Listing",
		"Fetch every user, every group, and each group's roster from a kintone tenant and save them as a YAML snapshot.",
	).WithProperties(map[string]any{
		"id":       "user-group",
		"platform": "kintone",
		"authors":  []string{"kintrospect"},
		"references": []string{
			"https://cybozu.dev/ja/common/docs/user-api/",
		},
	}).WithChainInputParam(
		options.KintoneSubdomain().Name()),
).WithLinks(
	kintonelinks.NewDirectoryFetchLink,
).WithOutputters(
	outputters.NewSnapshotYAMLOutputter,
	outputters.NewReportJSONOutputter,
).WithInputParam(
	options.KintoneSubdomain(),
)
