package kintone

import (
	"fmt"
	"os"
	"regexp"

	"github.com/praetorian-inc/janus-framework/pkg/chain"
	"github.com/praetorian-inc/janus-framework/pkg/chain/cfg"

	"github.com/kintrospect/kintrospect/pkg/acl"
	"github.com/kintrospect/kintrospect/pkg/links/options"
	"github.com/kintrospect/kintrospect/pkg/snapshot"
)

// SnapshotLoadLink reads one app's configuration plus the tenant directory
// from a snapshot and emits the assembled audit input. Input is the app ID.
type SnapshotLoadLink struct {
	*chain.Base
	root string
	dir  *snapshot.Directory
}

func NewSnapshotLoadLink(configs ...cfg.Config) chain.Link {
	l := &SnapshotLoadLink{}
	l.Base = chain.NewBase(l, configs...)
	return l
}

func (l *SnapshotLoadLink) Params() []cfg.Param {
	return []cfg.Param{options.KintoneSnapshotDir()}
}

func (l *SnapshotLoadLink) Initialize() error {
	l.root, _ = cfg.As[string](l.Arg("snapshot-dir"))
	dir, err := snapshot.LoadDirectory(l.root)
	if err != nil {
		return fmt.Errorf("loading tenant directory from %s: %w", l.root, err)
	}
	l.dir = dir
	return nil
}

func (l *SnapshotLoadLink) Process(input any) error {
	appID, ok := input.(string)
	if !ok || appID == "" {
		return fmt.Errorf("expected an app ID, got %T", input)
	}
	app, err := snapshot.LoadApp(l.root, appID)
	if err != nil {
		return err
	}
	l.Send(app.AuditInput(l.dir))
	return nil
}

// AclAuditLink runs the reconciliation engine over one audit input and emits
// the report.
type AclAuditLink struct {
	*chain.Base
}

func NewAclAuditLink(configs ...cfg.Config) chain.Link {
	l := &AclAuditLink{}
	l.Base = chain.NewBase(l, configs...)
	return l
}

func (l *AclAuditLink) Process(input any) error {
	in, ok := input.(*acl.AuditInput)
	if !ok {
		return fmt.Errorf("expected an audit input, got %T", input)
	}
	report, err := acl.Audit(in)
	if err != nil {
		return fmt.Errorf("auditing app %s: %w", in.AppID, err)
	}
	l.Logger.Info("audit complete", "app", report.AppID, "name", report.AppName,
		"conflicts", len(report.Conflicts), "occurrences", report.TotalOccurrences())
	l.Send(report)
	return nil
}

var appDirPattern = regexp.MustCompile(`^(\d+)_`)

// SnapshotAppEnumLink expands "all" into every app ID present in the
// snapshot root and passes explicit IDs through. Input is a slice of IDs.
type SnapshotAppEnumLink struct {
	*chain.Base
	root string
}

func NewSnapshotAppEnumLink(configs ...cfg.Config) chain.Link {
	l := &SnapshotAppEnumLink{}
	l.Base = chain.NewBase(l, configs...)
	return l
}

func (l *SnapshotAppEnumLink) Params() []cfg.Param {
	return []cfg.Param{options.KintoneSnapshotDir()}
}

func (l *SnapshotAppEnumLink) Initialize() error {
	l.root, _ = cfg.As[string](l.Arg("snapshot-dir"))
	return nil
}

func (l *SnapshotAppEnumLink) Process(input any) error {
	ids, ok := input.([]string)
	if !ok {
		if id, single := input.(string); single {
			ids = []string{id}
		} else {
			return fmt.Errorf("expected app IDs, got %T", input)
		}
	}

	for _, id := range ids {
		if id != "all" {
			l.Send(id)
			continue
		}
		entries, err := os.ReadDir(l.root)
		if err != nil {
			return fmt.Errorf("reading snapshot root: %w", err)
		}
		found := 0
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			m := appDirPattern.FindStringSubmatch(e.Name())
			if m == nil {
				continue
			}
			found++
			l.Send(m[1])
		}
		l.Logger.Info("enumerated snapshot apps", "count", found)
	}
	return nil
}
