package options

import (
	"regexp"

	"github.com/praetorian-inc/janus-framework/pkg/chain/cfg"
)

func KintoneSubdomain() cfg.Param {
	return cfg.NewParam[string]("subdomain", "kintone subdomain (the <name> in <name>.cybozu.com)").
		WithShortcode("s").
		AsRequired()
}

func KintoneAPIToken() cfg.Param {
	return cfg.NewParam[string]("api-token", "kintone app API token for /k/v1 endpoints")
}

func KintoneUsername() cfg.Param {
	return cfg.NewParam[string]("username", "kintone account username for /v1 directory endpoints").
		WithShortcode("u")
}

func KintonePassword() cfg.Param {
	return cfg.NewParam[string]("password", "kintone account password for /v1 directory endpoints").
		WithShortcode("p")
}

func KintoneAppID() cfg.Param {
	return cfg.NewParam[string]("app", "kintone app ID").
		WithRegex(regexp.MustCompile(`^\d+$`)).
		WithShortcode("a").
		AsRequired()
}

func KintoneAppIDs() cfg.Param {
	return cfg.NewParam[[]string]("apps", "kintone app IDs to audit, or 'all' for every app in the snapshot").
		WithDefault([]string{"all"}).
		WithShortcode("a")
}

func KintoneSnapshotDir() cfg.Param {
	return cfg.NewParam[string]("snapshot-dir", "directory holding the YAML snapshot of tenant and app configuration").
		WithDefault("kintrospect-output").
		WithShortcode("d")
}

func KintoneRateLimit() cfg.Param {
	return cfg.NewParam[int]("rate", "maximum kintone API requests per second").
		WithDefault(5)
}

func KintoneWorkers() cfg.Param {
	return cfg.NewParam[int]("workers", "number of concurrent group roster fetches").
		WithDefault(4)
}
