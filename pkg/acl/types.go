package acl

import (
	"encoding/json"
	"sort"
	"strings"
)

// Kind identifies what sort of subject a permission entity refers to.
// Raw ACL data carries the kind as a free-form string; anything we do not
// recognize maps to KindUnknown so it cannot silently take a valid code path.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindUser
	KindGroup
	KindFieldEntity
	KindOrganization
	KindEveryone
	KindCreator
)

var kindNames = map[Kind]string{
	KindUnknown:      "UNKNOWN",
	KindUser:         "USER",
	KindGroup:        "GROUP",
	KindFieldEntity:  "FIELD_ENTITY",
	KindOrganization: "ORGANIZATION",
	KindEveryone:     "EVERYONE",
	KindCreator:      "CREATOR",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "UNKNOWN"
}

// MarshalJSON renders the kind as its name so JSON reports stay readable.
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// ParseKind maps a raw entity type string to a Kind. The zero value
// (KindUnknown) is returned for anything outside the closed set.
func ParseKind(raw string) Kind {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "USER":
		return KindUser
	case "GROUP":
		return KindGroup
	case "FIELD_ENTITY":
		return KindFieldEntity
	case "ORGANIZATION":
		return KindOrganization
	case "EVERYONE":
		return KindEveryone
	case "CREATOR":
		return KindCreator
	default:
		return KindUnknown
	}
}

// Permission is a single capability flag.
type Permission uint8

const (
	PermView Permission = iota
	PermAdd
	PermEdit
	PermDelete
	PermManage
	PermImport
	PermExport

	permCount
)

var permNames = [permCount]string{"view", "add", "edit", "delete", "manage", "import", "export"}

func (p Permission) String() string {
	if int(p) < len(permNames) {
		return permNames[p]
	}
	return "invalid"
}

// PermissionSet is a bitset over the capability catalog. App-level rules may
// carry any flag; record-level rules only ever carry the RecordCatalog subset.
type PermissionSet uint8

// RecordCatalog is the capability subset shared between the app-level and
// record-level layers. Cross-layer comparison is restricted to these three.
const RecordCatalog = PermissionSet(1<<PermView | 1<<PermEdit | 1<<PermDelete)

func NewPermissionSet(perms ...Permission) PermissionSet {
	var s PermissionSet
	for _, p := range perms {
		s |= 1 << p
	}
	return s
}

func (s PermissionSet) Has(p Permission) bool { return s&(1<<p) != 0 }

func (s PermissionSet) IsEmpty() bool { return s == 0 }

// Diff returns the capabilities present in s but absent from other.
func (s PermissionSet) Diff(other PermissionSet) PermissionSet { return s &^ other }

// Restrict masks the set down to the given catalog.
func (s PermissionSet) Restrict(catalog PermissionSet) PermissionSet { return s & catalog }

// Slice returns the contained permissions in catalog order.
func (s PermissionSet) Slice() []Permission {
	perms := make([]Permission, 0, permCount)
	for p := PermView; p < permCount; p++ {
		if s.Has(p) {
			perms = append(perms, p)
		}
	}
	return perms
}

// String renders the set as "view/edit/delete". The order is fixed by the
// catalog, so equal sets always render identically.
func (s PermissionSet) String() string {
	if s == 0 {
		return "-"
	}
	names := make([]string, 0, permCount)
	for _, p := range s.Slice() {
		names = append(names, p.String())
	}
	return strings.Join(names, "/")
}

// MarshalJSON renders the set as a list of permission names.
func (s PermissionSet) MarshalJSON() ([]byte, error) {
	names := make([]string, 0, permCount)
	for _, p := range s.Slice() {
		names = append(names, p.String())
	}
	return json.Marshal(names)
}

// Principal is a resolved permission subject. Valid is false when the code
// could not be found in its directory or the declared kind was unrecognized;
// such principals are kept, not dropped, because dangling references are
// exactly what an audit needs to surface.
type Principal struct {
	Code        string
	Kind        Kind
	DisplayName string
	Valid       bool
}

// Rule is one ordered entry of an ACL: a principal and the permissions
// granted to it. Rule order is semantically significant and preserved
// exactly as received.
type Rule struct {
	Principal   Principal
	Permissions PermissionSet
}

// RuleBlock is a record-level rule group: a filter condition (opaque, never
// evaluated) and the ordered entries it applies to.
type RuleBlock struct {
	Condition string
	Entries   []Rule
}

// Conflict records a record-level grant that exceeds the principal's
// effective app-level permissions. Count is the number of record entries
// that produced this exact (kind, name, record set, app set) tuple.
type Conflict struct {
	Kind      Kind
	Name      string
	Record    PermissionSet
	App       PermissionSet
	Excess    PermissionSet
	Condition string
	Count     int
}

// sortConflicts orders conflicts for stable presentation: grouped by
// principal (kind, then name), higher occurrence counts first within a
// principal, permission sets as the final tie-break.
func sortConflicts(conflicts []Conflict) {
	sort.SliceStable(conflicts, func(i, j int) bool {
		a, b := conflicts[i], conflicts[j]
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		if a.Record != b.Record {
			return a.Record < b.Record
		}
		return a.App < b.App
	})
}
