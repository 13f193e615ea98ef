package acl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testDirectory() *Directory {
	groups := []Group{
		{Code: "groupA", Name: "Group A", Members: []User{
			{Username: "alice", Email: "alice@example.com", DisplayName: "Alice"},
			{Username: "bob", Email: "bob@example.com", DisplayName: "Bob"},
		}},
		{Code: "groupB", Name: "Group B", Members: []User{
			{Username: "alice", Email: "alice@example.com", DisplayName: "Alice"},
			{Username: "carol", Email: "carol@example.com", DisplayName: "Carol"},
		}},
	}
	users := []User{
		{Username: "dave", Email: "dave@example.com", DisplayName: "Dave"},
	}
	fields := map[string]string{
		"assignee": "Assignee (field)",
	}
	return NewDirectory(groups, users, fields)
}

func appRules(dir *Directory, raw []AppRuleInput) []Rule {
	return NormalizeAppRules(dir, raw)
}

func TestResolver_FirstGroupWins(t *testing.T) {
	dir := testDirectory()
	rules := appRules(dir, []AppRuleInput{
		{Code: "groupA", Kind: "GROUP", View: true},
		{Code: "groupB", Kind: "GROUP", View: true, Edit: true},
	})
	res := NewResolver(dir, rules)

	// alice belongs to both groups; groupA appears first, so its narrower
	// grant governs her even though groupB grants more.
	perms := res.EffectiveUser("alice")
	assert.Equal(t, NewPermissionSet(PermView), perms)

	// carol is only in groupB.
	assert.Equal(t, NewPermissionSet(PermView, PermEdit), res.EffectiveUser("carol"))
}

func TestResolver_DirectUserBeatsGroup(t *testing.T) {
	dir := testDirectory()
	rules := appRules(dir, []AppRuleInput{
		{Code: "groupA", Kind: "GROUP", View: true},
		{Code: "alice", Kind: "USER", View: true, Edit: true, Delete: true},
	})
	res := NewResolver(dir, rules)

	// alice is a groupA member and groupA is listed first, but a rule naming
	// her directly always wins.
	assert.Equal(t, NewPermissionSet(PermView, PermEdit, PermDelete), res.EffectiveUser("alice"))
	assert.Equal(t, NewPermissionSet(PermView), res.EffectiveUser("bob"))
}

func TestResolver_EveryoneFallback(t *testing.T) {
	dir := testDirectory()
	rules := appRules(dir, []AppRuleInput{
		{Code: "groupA", Kind: "GROUP", View: true, Edit: true},
		{Code: "everyone", Kind: "GROUP", View: true},
	})
	res := NewResolver(dir, rules)

	// dave is in no listed group.
	assert.Equal(t, NewPermissionSet(PermView), res.EffectiveUser("dave"))

	everyone, ok := res.EveryonePermissions()
	assert.True(t, ok)
	assert.Equal(t, NewPermissionSet(PermView), everyone)
}

func TestResolver_NoMatchNoEveryone(t *testing.T) {
	dir := testDirectory()
	rules := appRules(dir, []AppRuleInput{
		{Code: "groupA", Kind: "GROUP", View: true},
	})
	res := NewResolver(dir, rules)

	perms := res.EffectiveUser("dave")
	assert.True(t, perms.IsEmpty())

	_, ok := res.EveryonePermissions()
	assert.False(t, ok)
}

func TestResolver_DuplicateGroupRuleFirstOccurrenceWins(t *testing.T) {
	dir := testDirectory()
	rules := appRules(dir, []AppRuleInput{
		{Code: "groupA", Kind: "GROUP", View: true},
		{Code: "groupA", Kind: "GROUP", View: true, Edit: true, Delete: true},
	})
	res := NewResolver(dir, rules)

	direct, ok := res.Direct("groupA")
	assert.True(t, ok)
	assert.Equal(t, NewPermissionSet(PermView), direct)
}

func TestResolver_FieldEntityDirectOnly(t *testing.T) {
	dir := testDirectory()
	rules := appRules(dir, []AppRuleInput{
		{Code: "assignee", Kind: "FIELD_ENTITY", View: true, Edit: true},
		{Code: "everyone", Kind: "GROUP", View: true},
	})
	res := NewResolver(dir, rules)

	p := dir.Resolve("assignee", KindFieldEntity)
	assert.Equal(t, NewPermissionSet(PermView, PermEdit), res.Effective(p))

	// An unlisted field entity falls back to everyone, not to membership.
	q := dir.Resolve("creator_field", KindFieldEntity)
	assert.Equal(t, NewPermissionSet(PermView), res.Effective(q))
}

func TestResolver_Deterministic(t *testing.T) {
	dir := testDirectory()
	rules := appRules(dir, []AppRuleInput{
		{Code: "groupB", Kind: "GROUP", View: true, Edit: true},
		{Code: "groupA", Kind: "GROUP", View: true},
		{Code: "everyone", Kind: "GROUP", View: true},
	})
	res := NewResolver(dir, rules)

	first := res.EffectiveUser("alice")
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, res.EffectiveUser("alice"))
	}
	// alice is in groupB which is listed first this time.
	assert.Equal(t, NewPermissionSet(PermView, PermEdit), first)
}
