package services

import (
	"testing"

	"nestory-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFamilyOnePerParent(t *testing.T) {
	db := newTestDB(t)
	svc := NewFamilyService(db)

	family, err := svc.CreateFamily("parent-1", "The Parks")
	require.NoError(t, err)
	assert.Equal(t, "The Parks", family.FamilyName)
	assert.True(t, family.IsActive)

	_, err = svc.CreateFamily("parent-1", "Second Family")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	// A different parent is unaffected.
	_, err = svc.CreateFamily("parent-2", "The Kims")
	require.NoError(t, err)
}

func TestGetFamilyByIDOwnership(t *testing.T) {
	db := newTestDB(t)
	svc := NewFamilyService(db)

	family, err := svc.CreateFamily("parent-1", "The Parks")
	require.NoError(t, err)

	got, err := svc.GetFamilyByID("parent-1", family.ID)
	require.NoError(t, err)
	assert.Equal(t, family.ID, got.ID)

	_, err = svc.GetFamilyByID("parent-2", family.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access")

	_, err = svc.GetFamilyByID("parent-1", "no-such-family")
	require.Error(t, err)
}

func TestDeleteFamilyDeactivatesChildren(t *testing.T) {
	db := newTestDB(t)
	families := NewFamilyService(db)
	children := NewChildService(db)

	_, err := families.CreateFamily("parent-1", "The Parks")
	require.NoError(t, err)
	child, err := children.AddChild("parent-1", "Sam", 8)
	require.NoError(t, err)

	require.NoError(t, families.DeleteFamily("parent-1"))

	var reloaded models.Child
	require.NoError(t, db.First(&reloaded, "id = ?", child.ID).Error)
	assert.False(t, reloaded.IsActive)
}

func TestAddChildRequiresFamily(t *testing.T) {
	db := newTestDB(t)
	svc := NewChildService(db)

	_, err := svc.AddChild("parent-1", "Sam", 8)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create a family first")
}

func TestAddChildAgeBounds(t *testing.T) {
	db := newTestDB(t)
	families := NewFamilyService(db)
	children := NewChildService(db)

	_, err := families.CreateFamily("parent-1", "The Parks")
	require.NoError(t, err)

	_, err = children.AddChild("parent-1", "Too Young", 2)
	require.Error(t, err)
	_, err = children.AddChild("parent-1", "Too Old", 18)
	require.Error(t, err)

	child, err := children.AddChild("parent-1", "Sam", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, child.Age)
}

func TestChildLimit(t *testing.T) {
	db := newTestDB(t)
	families := NewFamilyService(db)
	children := NewChildService(db)

	_, err := families.CreateFamily("parent-1", "The Parks")
	require.NoError(t, err)

	names := []string{"A", "B", "C", "D", "E", "F"}
	for _, n := range names {
		_, err := children.AddChild("parent-1", n, 8)
		require.NoError(t, err)
	}

	_, err = children.AddChild("parent-1", "One Too Many", 8)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at most")
}

func TestChildOwnershipEnforced(t *testing.T) {
	db := newTestDB(t)
	families := NewFamilyService(db)
	children := NewChildService(db)

	_, err := families.CreateFamily("parent-1", "The Parks")
	require.NoError(t, err)
	child, err := children.AddChild("parent-1", "Sam", 8)
	require.NoError(t, err)

	_, err = children.GetChild("parent-2", child.ID)
	require.Error(t, err)

	require.NoError(t, children.RemoveChild("parent-1", child.ID))

	// Removed children disappear from reads.
	_, err = children.GetChild("parent-1", child.ID)
	require.Error(t, err)
	list, err := children.ListChildren("parent-1")
	require.NoError(t, err)
	assert.Empty(t, list)
}
