package outputters

import (
	"fmt"

	"github.com/praetorian-inc/janus-framework/pkg/chain"
	"github.com/praetorian-inc/janus-framework/pkg/chain/cfg"

	"github.com/kintrospect/kintrospect/internal/message"
	"github.com/kintrospect/kintrospect/pkg/links/options"
	"github.com/kintrospect/kintrospect/pkg/snapshot"
)

// SnapshotYAMLOutputter persists fetched directory and app configuration
// under the snapshot directory, in the layout the audit modules read back.
type SnapshotYAMLOutputter struct {
	*chain.BaseOutputter
	root    string
	written int
}

func NewSnapshotYAMLOutputter(configs ...cfg.Config) chain.Outputter {
	o := &SnapshotYAMLOutputter{}
	o.BaseOutputter = chain.NewBaseOutputter(o, configs...)
	return o
}

func (o *SnapshotYAMLOutputter) Initialize() error {
	root, err := cfg.As[string](o.Arg("snapshot-dir"))
	if err != nil || root == "" {
		root = "kintrospect-output"
	}
	o.root = root
	return nil
}

func (o *SnapshotYAMLOutputter) Output(v any) error {
	switch val := v.(type) {
	case *snapshot.Directory:
		if err := val.Write(o.root); err != nil {
			return fmt.Errorf("writing directory snapshot: %w", err)
		}
		message.Success("Saved tenant directory (%d groups) to %s", len(val.Groups), o.root)
	case *snapshot.App:
		if err := val.Write(o.root); err != nil {
			return fmt.Errorf("writing snapshot of app %s: %w", val.AppID, err)
		}
		message.Success("Saved configuration of app %s (%s)", val.AppID, val.Name)
	default:
		return nil
	}
	o.written++
	return nil
}

func (o *SnapshotYAMLOutputter) Complete() error {
	if o.written == 0 {
		message.Warning("Nothing was fetched, snapshot unchanged")
	}
	return nil
}

func (o *SnapshotYAMLOutputter) Params() []cfg.Param {
	return []cfg.Param{options.KintoneSnapshotDir()}
}
