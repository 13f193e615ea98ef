package acl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDirectory_ResolveKnownPrincipals(t *testing.T) {
	dir := testDirectory()

	g := dir.Resolve("groupA", KindGroup)
	assert.True(t, g.Valid)
	assert.Equal(t, "Group A", g.DisplayName)

	u := dir.Resolve("alice", KindUser)
	assert.True(t, u.Valid)
	assert.Equal(t, "Alice", u.DisplayName)

	f := dir.Resolve("assignee", KindFieldEntity)
	assert.True(t, f.Valid)
	assert.Equal(t, "Assignee (field)", f.DisplayName)
}

func TestDirectory_ResolveDanglingReferences(t *testing.T) {
	dir := testDirectory()

	g := dir.Resolve("retired-group", KindGroup)
	assert.False(t, g.Valid)
	assert.Equal(t, "retired-group", g.DisplayName)

	u := dir.Resolve("ghost", KindUser)
	assert.False(t, u.Valid)
	assert.Equal(t, "ghost", u.DisplayName)
}

func TestDirectory_ResolveUnknownKind(t *testing.T) {
	dir := testDirectory()

	p := dir.Resolve("something", ParseKind("DEPARTMENT"))
	assert.Equal(t, KindUnknown, p.Kind)
	assert.False(t, p.Valid)
	assert.Equal(t, "something", p.DisplayName)
}

func TestDirectory_EveryoneIsAlwaysValid(t *testing.T) {
	dir := testDirectory()

	p := dir.Resolve("everyone", KindGroup)
	assert.True(t, p.Valid)
	assert.Equal(t, KindEveryone, p.Kind)
}

func TestDirectory_MembersOfUnknownGroupIsEmpty(t *testing.T) {
	dir := testDirectory()
	assert.Empty(t, dir.MembersOf("nope"))
}

func TestDirectory_DerivedMembershipIndex(t *testing.T) {
	dir := testDirectory()

	assert.True(t, dir.IsMember("groupA", "alice"))
	assert.True(t, dir.IsMember("groupB", "alice"))
	assert.False(t, dir.IsMember("groupA", "carol"))

	groups := dir.GroupsOf("alice")
	assert.ElementsMatch(t, []string{"groupA", "groupB"}, groups)
	assert.Empty(t, dir.GroupsOf("dave"))
}

func TestParseKind(t *testing.T) {
	assert.Equal(t, KindUser, ParseKind("USER"))
	assert.Equal(t, KindGroup, ParseKind("group"))
	assert.Equal(t, KindFieldEntity, ParseKind("FIELD_ENTITY"))
	assert.Equal(t, KindCreator, ParseKind("CREATOR"))
	assert.Equal(t, KindUnknown, ParseKind(""))
	assert.Equal(t, KindUnknown, ParseKind("ROLE"))
}

func TestPermissionSet_String(t *testing.T) {
	assert.Equal(t, "-", PermissionSet(0).String())
	assert.Equal(t, "view/edit/delete", NewPermissionSet(PermDelete, PermView, PermEdit).String())
	assert.Equal(t, "view/add/manage", NewPermissionSet(PermManage, PermAdd, PermView).String())
}

func TestNormalize_PreservesOrderAndKeepsInvalid(t *testing.T) {
	dir := testDirectory()
	rules := NormalizeAppRules(dir, []AppRuleInput{
		{Code: "groupB", Kind: "GROUP", View: true},
		{Code: "", Kind: "USER", View: true}, // malformed: skipped
		{Code: "retired", Kind: "GROUP", Edit: true},
		{Code: "groupA", Kind: "GROUP", View: true},
	})

	assert.Len(t, rules, 3)
	assert.Equal(t, "groupB", rules[0].Principal.Code)
	assert.Equal(t, "retired", rules[1].Principal.Code)
	assert.False(t, rules[1].Principal.Valid)
	assert.Equal(t, "groupA", rules[2].Principal.Code)
}
