package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kintrospect/kintrospect/pkg/acl"
	"github.com/kintrospect/kintrospect/pkg/kintone"
)

// App is the persisted configuration of one kintone app. Fields are nil when
// the corresponding endpoint was not fetched or its file is absent.
type App struct {
	AppID string
	Name  string

	AppACL     *kintone.AppACL
	RecordACL  *kintone.RecordACL
	FieldACL   *kintone.FieldACL
	FormFields *kintone.FormFields
	Process    *kintone.ProcessManagement
	Settings   *kintone.AppSettings
	Views      *kintone.Views
}

// Dir is the snapshot directory name for this app, "<appID>_<name>" with
// filesystem-hostile characters replaced.
func (a *App) Dir() string {
	return a.AppID + "_" + sanitizeName(a.Name)
}

func sanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, name)
}

func (a *App) file(dir, suffix string) string {
	return filepath.Join(dir, a.AppID+"_"+suffix)
}

// Write persists the app under root in its own directory. Only the sections
// that were fetched are written.
func (a *App) Write(root string) error {
	dir := filepath.Join(root, a.Dir())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating app snapshot directory: %w", err)
	}

	type section struct {
		suffix string
		value  any
	}
	var sections []section
	if a.AppACL != nil {
		sections = append(sections, section{"app_acl.yaml", a.AppACL})
	}
	if a.RecordACL != nil {
		sections = append(sections, section{"record_acl.yaml", a.RecordACL})
	}
	if a.FieldACL != nil {
		sections = append(sections, section{"field_acl.yaml", a.FieldACL})
	}
	if a.FormFields != nil {
		sections = append(sections, section{"form_fields.yaml", a.FormFields})
	}
	if a.Process != nil {
		sections = append(sections, section{"status.yaml", a.Process})
	}
	if a.Settings != nil {
		sections = append(sections, section{"settings.yaml", a.Settings})
	}
	if a.Views != nil {
		sections = append(sections, section{"views.yaml", a.Views})
	}
	for _, s := range sections {
		if err := writeYAML(a.file(dir, s.suffix), s.value); err != nil {
			return err
		}
	}
	return nil
}

// FindAppDir locates the snapshot directory of one app under root by its
// "<appID>_" prefix. Exactly one match is required.
func FindAppDir(root, appID string) (string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return "", fmt.Errorf("reading snapshot root: %w", err)
	}
	prefix := appID + "_"
	var matches []string
	for _, e := range entries {
		if e.IsDir() && strings.HasPrefix(e.Name(), prefix) {
			matches = append(matches, e.Name())
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no snapshot directory for app %s under %s", appID, root)
	case 1:
		return filepath.Join(root, matches[0]), nil
	default:
		return "", fmt.Errorf("ambiguous snapshot directories for app %s: %s", appID, strings.Join(matches, ", "))
	}
}

// LoadApp reads one app's snapshot back from root. Absent section files
// leave the matching field nil; the caller decides which sections it cannot
// do without.
func LoadApp(root, appID string) (*App, error) {
	dir, err := FindAppDir(root, appID)
	if err != nil {
		return nil, err
	}

	a := &App{AppID: appID, Name: strings.TrimPrefix(filepath.Base(dir), appID+"_")}

	if err := loadSection(a.file(dir, "app_acl.yaml"), &a.AppACL); err != nil {
		return nil, err
	}
	if err := loadSection(a.file(dir, "record_acl.yaml"), &a.RecordACL); err != nil {
		return nil, err
	}
	if err := loadSection(a.file(dir, "field_acl.yaml"), &a.FieldACL); err != nil {
		return nil, err
	}
	if err := loadSection(a.file(dir, "form_fields.yaml"), &a.FormFields); err != nil {
		return nil, err
	}
	if err := loadSection(a.file(dir, "status.yaml"), &a.Process); err != nil {
		return nil, err
	}
	if err := loadSection(a.file(dir, "settings.yaml"), &a.Settings); err != nil {
		return nil, err
	}
	if err := loadSection(a.file(dir, "views.yaml"), &a.Views); err != nil {
		return nil, err
	}
	if a.Settings != nil && a.Settings.Name != "" {
		a.Name = a.Settings.Name
	}
	return a, nil
}

func loadSection[T any](path string, out **T) error {
	var v T
	if err := loadYAML(path, &v); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	*out = &v
	return nil
}

// AuditInput assembles the engine's input from this app and the tenant
// directory. Sections that were never persisted stay nil, so the engine can
// refuse to audit on partial data.
func (a *App) AuditInput(d *Directory) *acl.AuditInput {
	in := &acl.AuditInput{
		AppID:   a.AppID,
		AppName: a.Name,
	}
	if d != nil {
		in.Groups = d.ACLGroups()
		in.Users = d.ACLUsers()
	}
	if a.AppACL != nil {
		in.AppRules = make([]acl.AppRuleInput, 0, len(a.AppACL.Rights))
		for _, r := range a.AppACL.Rights {
			in.AppRules = append(in.AppRules, acl.AppRuleInput{
				Code:   r.Entity.Code,
				Kind:   r.Entity.Type,
				View:   r.RecordViewable,
				Add:    r.RecordAddable,
				Edit:   r.RecordEditable,
				Delete: r.RecordDeletable,
				Manage: r.AppEditable,
				Import: r.RecordImportable,
				Export: r.RecordExportable,
			})
		}
	}
	if a.RecordACL != nil {
		in.RecordBlocks = make([]acl.RecordBlockInput, 0, len(a.RecordACL.Rights))
		for _, right := range a.RecordACL.Rights {
			block := acl.RecordBlockInput{Condition: right.FilterCond}
			for _, e := range right.Entities {
				block.Entries = append(block.Entries, acl.RecordEntryInput{
					Code:   e.Entity.Code,
					Kind:   e.Entity.Type,
					View:   e.Viewable,
					Edit:   e.Editable,
					Delete: e.Deletable,
				})
			}
			in.RecordBlocks = append(in.RecordBlocks, block)
		}
	}
	if a.FormFields != nil {
		in.FieldLabels = a.FormFields.FieldLabels()
	}
	return in
}
