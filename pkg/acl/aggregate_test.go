package acl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate_CountsDuplicates(t *testing.T) {
	view := NewPermissionSet(PermView)
	viewDelete := NewPermissionSet(PermView, PermDelete)

	candidates := []Conflict{
		{Kind: KindUser, Name: "Alice", Record: viewDelete, App: view, Excess: NewPermissionSet(PermDelete), Count: 1},
		{Kind: KindUser, Name: "Alice", Record: viewDelete, App: view, Excess: NewPermissionSet(PermDelete), Count: 1},
		{Kind: KindGroup, Name: "Group B", Record: viewDelete, App: view, Excess: NewPermissionSet(PermDelete), Count: 1},
	}

	out := Aggregate(candidates)
	require.Len(t, out, 2)

	assert.Equal(t, KindUser, out[0].Kind)
	assert.Equal(t, 2, out[0].Count)
	assert.Equal(t, KindGroup, out[1].Kind)
	assert.Equal(t, 1, out[1].Count)
}

func TestAggregate_Idempotent(t *testing.T) {
	view := NewPermissionSet(PermView)
	candidates := []Conflict{
		{Kind: KindUser, Name: "Bob", Record: NewPermissionSet(PermEdit), App: view, Excess: NewPermissionSet(PermEdit), Count: 1},
		{Kind: KindUser, Name: "Bob", Record: NewPermissionSet(PermEdit), App: view, Excess: NewPermissionSet(PermEdit), Count: 1},
		{Kind: KindUser, Name: "Alice", Record: NewPermissionSet(PermDelete), App: view, Excess: NewPermissionSet(PermDelete), Count: 1},
	}

	once := Aggregate(candidates)
	twice := Aggregate(once)
	assert.Equal(t, once, twice)
}

func TestAggregate_StableOrder(t *testing.T) {
	view := NewPermissionSet(PermView)
	candidates := []Conflict{
		{Kind: KindUser, Name: "Carol", Record: NewPermissionSet(PermEdit), App: view, Excess: NewPermissionSet(PermEdit), Count: 1},
		{Kind: KindUser, Name: "Alice", Record: NewPermissionSet(PermDelete), App: view, Excess: NewPermissionSet(PermDelete), Count: 1},
		{Kind: KindUser, Name: "Alice", Record: NewPermissionSet(PermDelete), App: view, Excess: NewPermissionSet(PermDelete), Count: 1},
		{Kind: KindUser, Name: "Alice", Record: NewPermissionSet(PermEdit), App: view, Excess: NewPermissionSet(PermEdit), Count: 1},
	}

	out := Aggregate(candidates)
	require.Len(t, out, 3)

	// Alice's tuples group together, higher count first; Carol follows.
	assert.Equal(t, "Alice", out[0].Name)
	assert.Equal(t, 2, out[0].Count)
	assert.Equal(t, "Alice", out[1].Name)
	assert.Equal(t, 1, out[1].Count)
	assert.Equal(t, "Carol", out[2].Name)
}

func TestAggregate_DivergentExcessPanics(t *testing.T) {
	view := NewPermissionSet(PermView)
	candidates := []Conflict{
		{Kind: KindUser, Name: "Alice", Record: NewPermissionSet(PermDelete), App: view, Excess: NewPermissionSet(PermDelete), Count: 1},
		{Kind: KindUser, Name: "Alice", Record: NewPermissionSet(PermDelete), App: view, Excess: NewPermissionSet(PermEdit), Count: 1},
	}
	assert.Panics(t, func() { Aggregate(candidates) })
}
