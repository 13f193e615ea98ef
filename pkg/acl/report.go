package acl

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mpvl/unique"
)

// ErrNoInput is returned when an audit is invoked without its rule sources.
// A half-computed conflict report is actively misleading, so a missing input
// aborts before anything is produced; an empty conflict list always means
// "audited and found nothing".
var ErrNoInput = errors.New("acl: audit input is missing")

// AuditInput is everything one audit run consumes. The caller (snapshot
// loader or live fetcher) assembles it; the engine performs no I/O.
type AuditInput struct {
	AppID   string
	AppName string

	AppRules     []AppRuleInput
	RecordBlocks []RecordBlockInput

	Groups      []Group
	Users       []User
	FieldLabels map[string]string
}

// AuditReport is the full outcome of one reconciliation run: the
// deduplicated conflicts plus every principal that appeared in either ACL
// layer, with validity flags, so dangling references surface even when they
// cause no permission conflict.
type AuditReport struct {
	RunID       string
	AppID       string
	AppName     string
	GeneratedAt time.Time

	Conflicts  []Conflict
	Principals []Principal

	// TargetUsers is the distinct set of usernames that hold any permission
	// on the app, directly or through group membership.
	TargetUsers []string
}

// HasConflicts reports whether the audit found any excess grants.
func (r *AuditReport) HasConflicts() bool { return len(r.Conflicts) > 0 }

// TotalOccurrences is the sum of occurrence counts across all conflicts.
func (r *AuditReport) TotalOccurrences() int {
	total := 0
	for _, c := range r.Conflicts {
		total += c.Count
	}
	return total
}

// Audit runs the whole reconciliation pass: directory construction,
// normalization, effective-permission resolution, conflict detection, and
// aggregation. It is a single linear pass over in-memory data; concurrent
// calls with distinct inputs need no coordination.
func Audit(in *AuditInput) (*AuditReport, error) {
	if in == nil || in.AppRules == nil || in.RecordBlocks == nil {
		return nil, ErrNoInput
	}

	dir := NewDirectory(in.Groups, in.Users, in.FieldLabels)
	appRules := NormalizeAppRules(dir, in.AppRules)
	blocks := NormalizeRecordRules(dir, in.RecordBlocks)

	res := NewResolver(dir, appRules)
	conflicts := Aggregate(DetectConflicts(res, blocks))

	return &AuditReport{
		RunID:       uuid.NewString(),
		AppID:       in.AppID,
		AppName:     in.AppName,
		GeneratedAt: time.Now().UTC(),
		Conflicts:   conflicts,
		Principals:  collectPrincipals(appRules, blocks),
		TargetUsers: collectTargetUsers(dir, appRules, blocks),
	}, nil
}

// collectPrincipals gathers every principal referenced by either layer,
// first occurrence order, deduplicated by (kind, code).
func collectPrincipals(appRules []Rule, blocks []RuleBlock) []Principal {
	type pkey struct {
		kind Kind
		code string
	}
	seen := make(map[pkey]bool)
	var out []Principal

	add := func(p Principal) {
		key := pkey{kind: p.Kind, code: p.Code}
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, p)
	}
	for _, r := range appRules {
		add(r.Principal)
	}
	for _, b := range blocks {
		for _, e := range b.Entries {
			add(e.Principal)
		}
	}
	return out
}

// collectTargetUsers flattens every referenced user and group roster into a
// sorted, distinct username list.
func collectTargetUsers(dir *Directory, appRules []Rule, blocks []RuleBlock) []string {
	var names []string
	addPrincipal := func(p Principal) {
		switch p.Kind {
		case KindUser:
			names = append(names, p.Code)
		case KindGroup:
			for _, u := range dir.MembersOf(p.Code) {
				names = append(names, u.Username)
			}
		}
	}
	for _, r := range appRules {
		addPrincipal(r.Principal)
	}
	for _, b := range blocks {
		for _, e := range b.Entries {
			addPrincipal(e.Principal)
		}
	}
	s := unique.StringSlice{P: &names}
	unique.Sort(s)
	unique.Strings(s.P)
	return names
}
