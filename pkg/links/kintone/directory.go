package kintone

import (
	"fmt"
	"sync"

	"github.com/praetorian-inc/janus-framework/pkg/chain"
	"github.com/praetorian-inc/janus-framework/pkg/chain/cfg"
	"golang.org/x/sync/errgroup"

	"github.com/kintrospect/kintrospect/pkg/kintone"
	"github.com/kintrospect/kintrospect/pkg/links/options"
	"github.com/kintrospect/kintrospect/pkg/snapshot"
)

// DirectoryFetchLink walks the tenant directory: every group, each group's
// roster, and the flat user listing. Roster fetches run concurrently under a
// worker limit since large tenants carry hundreds of groups.
type DirectoryFetchLink struct {
	*APIBaseLink
	workers int
}

func NewDirectoryFetchLink(configs ...cfg.Config) chain.Link {
	l := &DirectoryFetchLink{}
	l.APIBaseLink = NewAPIBaseLink(l, configs...)
	return l
}

func (l *DirectoryFetchLink) Params() []cfg.Param {
	return append(l.APIBaseLink.Params(), options.KintoneWorkers())
}

func (l *DirectoryFetchLink) Initialize() error {
	if err := l.APIBaseLink.Initialize(); err != nil {
		return err
	}
	l.workers, _ = cfg.As[int](l.Arg("workers"))
	if l.workers < 1 {
		l.workers = 1
	}
	return nil
}

func (l *DirectoryFetchLink) Process(input any) error {
	ctx := l.Context()

	groups, err := l.Client.AllGroups(ctx)
	if err != nil {
		return fmt.Errorf("listing groups: %w", err)
	}
	users, err := l.Client.AllUsers(ctx)
	if err != nil {
		return fmt.Errorf("listing users: %w", err)
	}
	l.Logger.Info("fetched tenant directory", "groups", len(groups), "users", len(users))

	rosters := make(map[string][]kintone.User, len(groups))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)
	for i := range groups {
		grp := groups[i]
		g.Go(func() error {
			members, err := l.Client.GroupUsers(gctx, grp.Code)
			if err != nil {
				return fmt.Errorf("listing members of %s: %w", grp.Code, err)
			}
			mu.Lock()
			rosters[grp.Code] = members
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	l.Send(snapshot.DirectoryFromAPI(groups, rosters, users))
	return nil
}
