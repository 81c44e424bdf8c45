package services

import (
	"testing"

	"nestory-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type assignmentFixture struct {
	svc   *AssignmentService
	g     *GamificationService
	child *models.Child
	story *models.Story
}

func newAssignmentFixture(t *testing.T) *assignmentFixture {
	t.Helper()
	g := newTestGamification(t)

	_, err := NewFamilyService(g.DB).CreateFamily("parent-1", "The Parks")
	require.NoError(t, err)
	child, err := NewChildService(g.DB).AddChild("parent-1", "Sam", 8)
	require.NoError(t, err)

	story := models.Story{
		Title: "Dragon Tales", Author: "A",
		AgeGroup: models.AgeGroupEarlyReader, Genres: []string{"fantasy"},
	}
	require.NoError(t, NewStoryService(g.DB, nil).CreateStory(&story, "admin-1"))

	return &assignmentFixture{
		svc:   NewAssignmentService(g.DB, g),
		g:     g,
		child: child,
		story: &story,
	}
}

func TestCreateAssignmentDuplicateRejected(t *testing.T) {
	f := newAssignmentFixture(t)

	assignment, err := f.svc.CreateAssignment("parent-1", f.child.ID, f.story.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentStatusAssigned, assignment.Status)

	_, err = f.svc.CreateAssignment("parent-1", f.child.ID, f.story.ID, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already assigned")
}

func TestCreateAssignmentOwnChildOnly(t *testing.T) {
	f := newAssignmentFixture(t)

	_, err := f.svc.CreateAssignment("parent-2", f.child.ID, f.story.ID, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Child not found")
}

func TestCompleteAssignmentAwardsOnce(t *testing.T) {
	f := newAssignmentFixture(t)

	assignment, err := f.svc.CreateAssignment("parent-1", f.child.ID, f.story.ID, nil)
	require.NoError(t, err)

	updated, err := f.svc.UpdateStatus("parent-1", assignment.ID, models.AssignmentStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentStatusCompleted, updated.Status)
	require.NotNil(t, updated.CompletedAt)

	prog, err := f.g.GetProgress("parent-1", f.child.ID)
	require.NoError(t, err)
	assert.Equal(t, assignmentCompletionPoints, prog.TotalPoints)
	assert.Equal(t, 1, prog.Stats.AssignmentsCompleted)

	// Re-completing an already completed assignment never pays twice.
	_, err = f.svc.UpdateStatus("parent-1", assignment.ID, models.AssignmentStatusCompleted)
	require.NoError(t, err)
	prog, err = f.g.GetProgress("parent-1", f.child.ID)
	require.NoError(t, err)
	assert.Equal(t, assignmentCompletionPoints, prog.TotalPoints)
}

func TestUpdateStatusValidation(t *testing.T) {
	f := newAssignmentFixture(t)

	assignment, err := f.svc.CreateAssignment("parent-1", f.child.ID, f.story.ID, nil)
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus("parent-1", assignment.ID, "abandoned")
	require.Error(t, err)

	_, err = f.svc.UpdateStatus("parent-2", assignment.ID, models.AssignmentStatusCompleted)
	require.Error(t, err, "another parent cannot touch the assignment")
}

func TestListChildAssignmentsStatusFilter(t *testing.T) {
	f := newAssignmentFixture(t)

	second := models.Story{
		Title: "Space Cats", Author: "B",
		AgeGroup: models.AgeGroupEarlyReader, Genres: []string{"sci-fi"},
	}
	require.NoError(t, NewStoryService(f.g.DB, nil).CreateStory(&second, "admin-1"))

	a1, err := f.svc.CreateAssignment("parent-1", f.child.ID, f.story.ID, nil)
	require.NoError(t, err)
	_, err = f.svc.CreateAssignment("parent-1", f.child.ID, second.ID, nil)
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus("parent-1", a1.ID, models.AssignmentStatusCompleted)
	require.NoError(t, err)

	all, err := f.svc.ListChildAssignments("parent-1", f.child.ID, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	completed, err := f.svc.ListChildAssignments("parent-1", f.child.ID, models.AssignmentStatusCompleted)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, a1.ID, completed[0].ID)
}

func TestDeleteAssignment(t *testing.T) {
	f := newAssignmentFixture(t)

	assignment, err := f.svc.CreateAssignment("parent-1", f.child.ID, f.story.ID, nil)
	require.NoError(t, err)

	require.Error(t, f.svc.DeleteAssignment("parent-2", assignment.ID))
	require.NoError(t, f.svc.DeleteAssignment("parent-1", assignment.ID))
	require.Error(t, f.svc.DeleteAssignment("parent-1", assignment.ID))
}
