// Package kintone holds the chain links that fetch tenant and app
// configuration from kintone, and the links that run the offline permission
// audit over a snapshot.
package kintone

import (
	"github.com/praetorian-inc/janus-framework/pkg/chain"
	"github.com/praetorian-inc/janus-framework/pkg/chain/cfg"

	"github.com/kintrospect/kintrospect/pkg/kintone"
	"github.com/kintrospect/kintrospect/pkg/links/options"
)

// APIBaseLink carries the authenticated kintone client shared by every
// fetching link.
type APIBaseLink struct {
	*chain.Base
	Client    *kintone.Client
	Subdomain string
}

func NewAPIBaseLink(link chain.Link, configs ...cfg.Config) *APIBaseLink {
	b := &APIBaseLink{}
	b.Base = chain.NewBase(link, configs...)
	return b
}

func (b *APIBaseLink) Params() []cfg.Param {
	return []cfg.Param{
		options.KintoneSubdomain(),
		options.KintoneAPIToken(),
		options.KintoneUsername(),
		options.KintonePassword(),
		options.KintoneRateLimit(),
	}
}

func (b *APIBaseLink) Initialize() error {
	b.Subdomain, _ = cfg.As[string](b.Arg("subdomain"))
	token, _ := cfg.As[string](b.Arg("api-token"))
	username, _ := cfg.As[string](b.Arg("username"))
	password, _ := cfg.As[string](b.Arg("password"))
	rps, _ := cfg.As[int](b.Arg("rate"))

	opts := []kintone.Option{}
	if token != "" {
		opts = append(opts, kintone.WithAPIToken(token))
	}
	if username != "" {
		opts = append(opts, kintone.WithPasswordAuth(username, password))
	}
	if rps > 0 {
		opts = append(opts, kintone.WithRateLimit(float64(rps)))
	}
	b.Client = kintone.NewClient(b.Subdomain, opts...)
	return nil
}
