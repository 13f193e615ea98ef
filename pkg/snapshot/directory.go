// Package snapshot persists fetched tenant and app configuration as YAML so
// that audits can run offline, long after the live fetch, and so that two
// runs over the same snapshot are bit-for-bit comparable.
package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/kintrospect/kintrospect/pkg/acl"
	"github.com/kintrospect/kintrospect/pkg/kintone"
)

const (
	groupListFile = "group_user_list.yaml"
	userListFile  = "user_list.yaml"
)

// UserEntry is one persisted user, inside a group roster or the flat tenant
// listing.
type UserEntry struct {
	ID       string `yaml:"id,omitempty"`
	Username string `yaml:"username"`
	Name     string `yaml:"name,omitempty"`
	Email    string `yaml:"email,omitempty"`
	Valid    bool   `yaml:"valid"`
}

// GroupEntry is one persisted group with its expanded roster.
type GroupEntry struct {
	Name  string      `yaml:"name"`
	Users []UserEntry `yaml:"users"`
}

// Directory is the persisted form of the tenant directory: every group with
// its roster, plus the flat user listing for people in no group at all.
type Directory struct {
	Groups map[string]GroupEntry
	Users  []UserEntry
}

// DirectoryFromAPI assembles a Directory from live listings. rosters maps
// group code to that group's members.
func DirectoryFromAPI(groups []kintone.Group, rosters map[string][]kintone.User, users []kintone.User) *Directory {
	d := &Directory{Groups: make(map[string]GroupEntry, len(groups))}
	for _, g := range groups {
		entry := GroupEntry{Name: g.Name}
		for _, u := range rosters[g.Code] {
			entry.Users = append(entry.Users, userEntry(u))
		}
		d.Groups[g.Code] = entry
	}
	for _, u := range users {
		d.Users = append(d.Users, userEntry(u))
	}
	return d
}

func userEntry(u kintone.User) UserEntry {
	return UserEntry{ID: u.ID, Username: u.Code, Name: u.Name, Email: u.Email, Valid: u.Valid}
}

// Write persists the directory under dir as group_user_list.yaml and
// user_list.yaml, creating dir if needed.
func (d *Directory) Write(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}
	if err := writeYAML(filepath.Join(dir, groupListFile), d.Groups); err != nil {
		return err
	}
	return writeYAML(filepath.Join(dir, userListFile), d.Users)
}

// LoadDirectory reads a directory snapshot back from dir. A missing
// user_list.yaml is tolerated; a missing group_user_list.yaml is not, since
// group expansion is what the audit needs most.
func LoadDirectory(dir string) (*Directory, error) {
	d := &Directory{}
	if err := loadYAML(filepath.Join(dir, groupListFile), &d.Groups); err != nil {
		return nil, err
	}
	if err := loadYAML(filepath.Join(dir, userListFile), &d.Users); err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return d, nil
}

// ACLGroups converts the snapshot into the engine's group inventory, sorted
// by group code so repeated loads resolve identically.
func (d *Directory) ACLGroups() []acl.Group {
	codes := make([]string, 0, len(d.Groups))
	for code := range d.Groups {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	groups := make([]acl.Group, 0, len(codes))
	for _, code := range codes {
		entry := d.Groups[code]
		g := acl.Group{Code: code, Name: entry.Name}
		for _, u := range entry.Users {
			g.Members = append(g.Members, aclUser(u))
		}
		groups = append(groups, g)
	}
	return groups
}

// ACLUsers converts the flat user listing into the engine's user inventory.
func (d *Directory) ACLUsers() []acl.User {
	users := make([]acl.User, 0, len(d.Users))
	for _, u := range d.Users {
		users = append(users, aclUser(u))
	}
	return users
}

func aclUser(u UserEntry) acl.User {
	return acl.User{Username: u.Username, Email: u.Email, DisplayName: u.Name, Disabled: !u.Valid}
}

func writeYAML(path string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}

func loadYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return nil
}
