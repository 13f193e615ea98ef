package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kintrospect/kintrospect/pkg/acl"
	"github.com/kintrospect/kintrospect/pkg/kintone"
)

func testDirectorySnapshot() *Directory {
	return &Directory{
		Groups: map[string]GroupEntry{
			"dev-team": {Name: "Dev Team", Users: []UserEntry{
				{Username: "alice", Email: "alice@example.com", Valid: true},
				{Username: "bob", Email: "bob@example.com", Valid: true},
			}},
			"audit-team": {Name: "Audit Team", Users: []UserEntry{
				{Username: "carol", Valid: false},
			}},
		},
		Users: []UserEntry{
			{Username: "dave", Email: "dave@example.com", Valid: true},
		},
	}
}

func TestDirectory_RoundTrip(t *testing.T) {
	root := t.TempDir()
	d := testDirectorySnapshot()
	require.NoError(t, d.Write(root))

	got, err := LoadDirectory(root)
	require.NoError(t, err)
	assert.Equal(t, d.Groups, got.Groups)
	assert.Equal(t, d.Users, got.Users)
}

func TestDirectory_MissingGroupListFails(t *testing.T) {
	_, err := LoadDirectory(t.TempDir())
	assert.Error(t, err)
}

func TestDirectory_ACLConversion(t *testing.T) {
	d := testDirectorySnapshot()

	groups := d.ACLGroups()
	require.Len(t, groups, 2)
	// Sorted by code regardless of map iteration order.
	assert.Equal(t, "audit-team", groups[0].Code)
	assert.Equal(t, "dev-team", groups[1].Code)
	require.Len(t, groups[1].Members, 2)
	assert.Equal(t, "alice", groups[1].Members[0].Username)

	users := d.ACLUsers()
	require.Len(t, users, 1)
	assert.Equal(t, "dave", users[0].Username)
	assert.False(t, users[0].Disabled)

	// Valid=false maps to Disabled=true.
	assert.True(t, groups[0].Members[0].Disabled)
}

func TestDirectoryFromAPI(t *testing.T) {
	groups := []kintone.Group{{Code: "dev-team", Name: "Dev Team"}}
	rosters := map[string][]kintone.User{
		"dev-team": {{ID: "1", Code: "alice", Name: "Alice", Email: "alice@example.com", Valid: true}},
	}
	users := []kintone.User{{ID: "2", Code: "dave", Valid: true}}

	d := DirectoryFromAPI(groups, rosters, users)
	require.Contains(t, d.Groups, "dev-team")
	require.Len(t, d.Groups["dev-team"].Users, 1)
	assert.Equal(t, "alice", d.Groups["dev-team"].Users[0].Username)
	require.Len(t, d.Users, 1)
	assert.Equal(t, "dave", d.Users[0].Username)
}

func testApp() *App {
	return &App{
		AppID: "52",
		Name:  "Expense Tracker",
		AppACL: &kintone.AppACL{Rights: []kintone.AppRight{
			{Entity: kintone.Entity{Type: "GROUP", Code: "dev-team"}, RecordViewable: true, RecordEditable: true},
			{Entity: kintone.Entity{Type: "GROUP", Code: "everyone"}, RecordViewable: true},
		}},
		RecordACL: &kintone.RecordACL{Rights: []kintone.RecordRight{
			{FilterCond: `status in ("open")`, Entities: []kintone.RecordRightEntity{
				{Entity: kintone.Entity{Type: "USER", Code: "alice"}, Viewable: true, Editable: true, Deletable: true},
			}},
		}},
		FormFields: &kintone.FormFields{Properties: map[string]kintone.FieldProperty{
			"assignee": {Type: "USER_SELECT", Code: "assignee", Label: "Assignee"},
		}},
		Settings: &kintone.AppSettings{Name: "Expense Tracker"},
	}
}

func TestApp_RoundTrip(t *testing.T) {
	root := t.TempDir()
	app := testApp()
	require.NoError(t, app.Write(root))

	got, err := LoadApp(root, "52")
	require.NoError(t, err)
	assert.Equal(t, "52", got.AppID)
	assert.Equal(t, "Expense Tracker", got.Name)
	require.NotNil(t, got.AppACL)
	assert.Equal(t, app.AppACL.Rights, got.AppACL.Rights)
	require.NotNil(t, got.RecordACL)
	assert.Equal(t, `status in ("open")`, got.RecordACL.Rights[0].FilterCond)
	// Sections never written stay nil.
	assert.Nil(t, got.FieldACL)
	assert.Nil(t, got.Process)
	assert.Nil(t, got.Views)
}

func TestApp_DirNameSanitized(t *testing.T) {
	app := &App{AppID: "7", Name: `Sales/Q3 "forecast"`}
	assert.Equal(t, "7_Sales_Q3__forecast_", app.Dir())
}

func TestFindAppDir(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, (&App{AppID: "52", Name: "A", Settings: &kintone.AppSettings{Name: "A"}}).Write(root))

	_, err := FindAppDir(root, "52")
	assert.NoError(t, err)

	_, err = FindAppDir(root, "99")
	assert.Error(t, err)

	// A second directory with the same prefix makes the lookup ambiguous.
	require.NoError(t, (&App{AppID: "52", Name: "B", Settings: &kintone.AppSettings{Name: "B"}}).Write(root))
	_, err = FindAppDir(root, "52")
	assert.Error(t, err)
}

func TestApp_AuditInput(t *testing.T) {
	app := testApp()
	in := app.AuditInput(testDirectorySnapshot())

	require.NotNil(t, in.AppRules)
	require.Len(t, in.AppRules, 2)
	assert.Equal(t, "dev-team", in.AppRules[0].Code)
	assert.Equal(t, "GROUP", in.AppRules[0].Kind)
	assert.True(t, in.AppRules[0].View)
	assert.True(t, in.AppRules[0].Edit)
	assert.False(t, in.AppRules[0].Delete)

	require.Len(t, in.RecordBlocks, 1)
	assert.Equal(t, `status in ("open")`, in.RecordBlocks[0].Condition)
	require.Len(t, in.RecordBlocks[0].Entries, 1)
	assert.True(t, in.RecordBlocks[0].Entries[0].Delete)

	assert.Equal(t, "Assignee", in.FieldLabels["assignee"])
	assert.Len(t, in.Groups, 2)
	assert.Len(t, in.Users, 1)

	// The assembled input feeds straight into the engine: alice's record
	// grant exceeds dev-team's app baseline by delete.
	report, err := acl.Audit(in)
	require.NoError(t, err)
	require.True(t, report.HasConflicts())
	assert.Equal(t, "delete", report.Conflicts[0].Excess.String())
}

func TestApp_AuditInput_MissingSectionsStayNil(t *testing.T) {
	app := &App{AppID: "52", Name: "Partial"}
	in := app.AuditInput(nil)
	assert.Nil(t, in.AppRules)
	assert.Nil(t, in.RecordBlocks)

	_, err := acl.Audit(in)
	assert.ErrorIs(t, err, acl.ErrNoInput)
}
