package kintone

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	opts = append([]Option{WithBaseURL(srv.URL), WithRateLimit(1000)}, opts...)
	return NewClient("test", opts...)
}

func TestAllUsers_Pagination(t *testing.T) {
	// 150 users: one full page, one short page.
	users := make([]User, 150)
	for i := range users {
		users[i] = User{Code: fmt.Sprintf("user%03d", i), Name: fmt.Sprintf("User %d", i), Valid: true}
	}

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/users.json", r.URL.Path)
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		size, _ := strconv.Atoi(r.URL.Query().Get("size"))
		end := offset + size
		if end > len(users) {
			end = len(users)
		}
		var batch []User
		if offset < len(users) {
			batch = users[offset:end]
		}
		json.NewEncoder(w).Encode(map[string]any{"users": batch})
	}))

	got, err := c.AllUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 150)
	assert.Equal(t, "user000", got[0].Code)
	assert.Equal(t, "user149", got[149].Code)
}

func TestGroupUsers_PassesGroupCode(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/group/users.json", r.URL.Path)
		assert.Equal(t, "dev-team", r.URL.Query().Get("code"))
		json.NewEncoder(w).Encode(map[string]any{"users": []User{
			{Code: "alice", Name: "Alice", Email: "alice@example.com", Valid: true},
		}})
	}))

	got, err := c.GroupUsers(context.Background(), "dev-team")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "alice", got[0].Code)
}

func TestAppACL_TokenHeader(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/k/v1/app/acl.json", r.URL.Path)
		assert.Equal(t, "52", r.URL.Query().Get("app"))
		assert.Equal(t, "secret-token", r.Header.Get("X-Cybozu-API-Token"))
		json.NewEncoder(w).Encode(AppACL{Rights: []AppRight{
			{Entity: Entity{Type: "GROUP", Code: "everyone"}, RecordViewable: true},
		}})
	}), WithAPIToken("secret-token"))

	acl, err := c.AppACL(context.Background(), "52")
	require.NoError(t, err)
	require.Len(t, acl.Rights, 1)
	assert.True(t, acl.Rights[0].RecordViewable)
	assert.Equal(t, "everyone", acl.Rights[0].Entity.Code)
}

func TestRecordACL_PreservesBlockOrder(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(RecordACL{Rights: []RecordRight{
			{FilterCond: `status in ("open")`, Entities: []RecordRightEntity{
				{Entity: Entity{Type: "GROUP", Code: "g1"}, Viewable: true},
			}},
			{FilterCond: `status in ("done")`, Entities: []RecordRightEntity{
				{Entity: Entity{Type: "USER", Code: "alice"}, Viewable: true, Editable: true},
			}},
		}})
	}))

	acl, err := c.RecordACL(context.Background(), "52")
	require.NoError(t, err)
	require.Len(t, acl.Rights, 2)
	assert.Equal(t, `status in ("open")`, acl.Rights[0].FilterCond)
	assert.Equal(t, `status in ("done")`, acl.Rights[1].FilterCond)
}

func TestAPIError_Decoded(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{
			"code":    "CB_NO02",
			"id":      "xyz",
			"message": "No privilege to proceed.",
		})
	}))

	_, err := c.AppACL(context.Background(), "52")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Equal(t, "CB_NO02", apiErr.Code)
	assert.Contains(t, apiErr.Error(), "No privilege")
}

func TestFormFields_Labels(t *testing.T) {
	ff := FormFields{Properties: map[string]FieldProperty{
		"assignee": {Type: "USER_SELECT", Code: "assignee", Label: "Assignee"},
		"status":   {Type: "DROP_DOWN", Code: "status"},
	}}
	labels := ff.FieldLabels()
	assert.Equal(t, "Assignee", labels["assignee"])
	// Missing label falls back to the code.
	assert.Equal(t, "status", labels["status"])
}
