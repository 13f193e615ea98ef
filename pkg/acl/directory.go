package acl

import (
	"log/slog"
	"strings"
)

// EveryoneCode is the built-in group code kintone uses for "everybody".
const EveryoneCode = "everyone"

// User is a directory entry for a person.
type User struct {
	Username    string
	Email       string
	DisplayName string
	Disabled    bool
}

// Group is a directory entry for a static group and its roster. Member order
// is preserved for display; membership tests do not depend on it.
type Group struct {
	Code    string
	Name    string
	Members []User
}

// Directory resolves principal codes against the user, group, and form-field
// inventories fetched from the platform. It is built once per audit run and
// read-only afterwards. Group membership is owned here as a single
// group -> members map; the user -> groups view is a derived index, so the
// two can never drift apart.
type Directory struct {
	groups      map[string]Group
	users       map[string]User
	fieldLabels map[string]string

	memberships map[string]map[string]bool // group code -> set of usernames
}

// NewDirectory builds the directory from raw inventories. Duplicate group or
// user codes keep the first occurrence.
func NewDirectory(groups []Group, users []User, fieldLabels map[string]string) *Directory {
	d := &Directory{
		groups:      make(map[string]Group, len(groups)),
		users:       make(map[string]User, len(users)),
		fieldLabels: make(map[string]string, len(fieldLabels)),
		memberships: make(map[string]map[string]bool, len(groups)),
	}
	for _, g := range groups {
		if _, ok := d.groups[g.Code]; ok {
			continue
		}
		d.groups[g.Code] = g
		members := make(map[string]bool, len(g.Members))
		for _, u := range g.Members {
			members[u.Username] = true
			if _, ok := d.users[u.Username]; !ok {
				d.users[u.Username] = u
			}
		}
		d.memberships[g.Code] = members
	}
	for _, u := range users {
		if _, ok := d.users[u.Username]; !ok {
			d.users[u.Username] = u
		}
	}
	for code, label := range fieldLabels {
		d.fieldLabels[code] = label
	}
	return d
}

// Resolve maps a principal code and its declared kind to a Principal. It
// never fails: a code missing from its directory comes back with Valid=false
// and the raw code as display name, and an unrecognized kind string comes
// back as KindUnknown. Missing group and field references are logged because
// they usually mean stale configuration.
func (d *Directory) Resolve(code string, declared Kind) Principal {
	p := Principal{Code: code, Kind: declared, DisplayName: code, Valid: true}

	switch declared {
	case KindUser:
		if u, ok := d.users[code]; ok {
			if u.DisplayName != "" {
				p.DisplayName = u.DisplayName
			}
		} else {
			p.Valid = false
		}
	case KindGroup:
		if strings.EqualFold(code, EveryoneCode) {
			p.Kind = KindEveryone
			return p
		}
		if g, ok := d.groups[code]; ok {
			if g.Name != "" {
				p.DisplayName = g.Name
			}
		} else {
			p.Valid = false
			slog.Warn("group code not found in directory", "code", code)
		}
	case KindFieldEntity:
		if label, ok := d.fieldLabels[code]; ok {
			p.DisplayName = label
		} else {
			p.Valid = false
			slog.Warn("field entity not found in form fields", "code", code)
		}
	case KindOrganization:
		// No organization roster is fetched; the code stands for itself.
	case KindEveryone, KindCreator:
		// Built-in dynamic subjects, always resolvable.
	case KindUnknown:
		p.Valid = false
	}
	return p
}

// MembersOf returns the roster of a group, or an empty slice for unknown
// groups. Unknown groups are not an error here; Resolve is where the gap is
// reported.
func (d *Directory) MembersOf(groupCode string) []User {
	g, ok := d.groups[groupCode]
	if !ok {
		return nil
	}
	return g.Members
}

// IsMember reports whether the user belongs to the group.
func (d *Directory) IsMember(groupCode, username string) bool {
	return d.memberships[groupCode][username]
}

// GroupsOf returns the codes of every group counting the user as a member.
// The result is computed from the group -> members map on demand.
func (d *Directory) GroupsOf(username string) []string {
	var codes []string
	for code, members := range d.memberships {
		if members[username] {
			codes = append(codes, code)
		}
	}
	return codes
}

// User looks up a directory user by username.
func (d *Directory) User(username string) (User, bool) {
	u, ok := d.users[username]
	return u, ok
}
