package acl

import (
	"log/slog"
	"strings"
)

// Resolver computes the effective app-level permission set for a principal.
// It mirrors the platform's own evaluation order: rules are scanned in their
// original order and the first match wins. Resolution is pure; the same
// inputs always produce the same output.
type Resolver struct {
	dir   *Directory
	rules []Rule

	everyone    PermissionSet
	hasEveryone bool
}

// NewResolver builds a resolver over the normalized app-level rules. The
// EVERYONE rule, if present, is pulled out once as the fallback grant.
func NewResolver(dir *Directory, appRules []Rule) *Resolver {
	r := &Resolver{dir: dir, rules: appRules}
	for _, rule := range appRules {
		if isEveryone(rule.Principal) {
			r.everyone = rule.Permissions
			r.hasEveryone = true
			break
		}
	}
	return r
}

func isEveryone(p Principal) bool {
	return p.Kind == KindEveryone || strings.EqualFold(p.Code, EveryoneCode)
}

// Direct returns the permission set of the first app rule naming the code
// directly, without any membership resolution. A group that appears twice
// with different grants is dead configuration past its first occurrence;
// the duplicate is noted but never changes the result.
func (r *Resolver) Direct(code string) (PermissionSet, bool) {
	found := false
	var perms PermissionSet
	for _, rule := range r.rules {
		if rule.Principal.Code != code {
			continue
		}
		if found {
			slog.Debug("duplicate app rule for principal, first occurrence wins", "code", code)
			break
		}
		perms = rule.Permissions
		found = true
	}
	return perms, found
}

// EffectiveUser resolves a user's governing app-level permission set:
//
//  1. a rule naming the user directly wins,
//  2. otherwise the first rule (in original order) whose principal is a
//     group counting the user as a member wins; groups granted access
//     earlier take precedence even over later, more permissive ones,
//  3. otherwise the EVERYONE grant applies if one exists,
//  4. otherwise the user has no access: the empty set.
func (r *Resolver) EffectiveUser(username string) PermissionSet {
	for _, rule := range r.rules {
		if rule.Principal.Code == username {
			return rule.Permissions
		}
	}
	for _, rule := range r.rules {
		if rule.Principal.Kind != KindGroup {
			continue
		}
		if r.dir.IsMember(rule.Principal.Code, username) {
			return rule.Permissions
		}
	}
	return r.everyone
}

// Effective resolves any principal. Groups, organizations, and dynamic
// subjects (field entities, creator) match only their own direct rule, never
// group membership. Users get the full membership-aware resolution.
func (r *Resolver) Effective(p Principal) PermissionSet {
	switch p.Kind {
	case KindUser:
		return r.EffectiveUser(p.Code)
	case KindEveryone:
		return r.everyone
	case KindGroup, KindFieldEntity, KindOrganization, KindCreator, KindUnknown:
		if perms, ok := r.Direct(p.Code); ok {
			return perms
		}
		return r.everyone
	default:
		return r.everyone
	}
}

// EveryonePermissions returns the fallback grant and whether an EVERYONE
// rule exists at all.
func (r *Resolver) EveryonePermissions() (PermissionSet, bool) {
	return r.everyone, r.hasEveryone
}
