package cmd

// import modules so their init() functions are called

import (
	_ "github.com/kintrospect/kintrospect/pkg/modules/kintone/audit"
	_ "github.com/kintrospect/kintrospect/pkg/modules/kintone/recon"
)
