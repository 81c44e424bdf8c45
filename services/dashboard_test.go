package services

import (
	"testing"

	"nestory-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFamilyDashboard(t *testing.T) {
	f := newAssignmentFixture(t)
	svc := NewDashboardService(f.g.DB)

	assignment, err := f.svc.CreateAssignment("parent-1", f.child.ID, f.story.ID, nil)
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus("parent-1", assignment.ID, models.AssignmentStatusCompleted)
	require.NoError(t, err)

	require.NoError(t, f.g.AddReadingTime("parent-1", f.child.ID, 45))

	dash, err := svc.GetFamilyDashboard("parent-1")
	require.NoError(t, err)
	require.Len(t, dash.ChildStats, 1)

	stats := dash.ChildStats[0]
	assert.EqualValues(t, 1, stats.TotalAssignments)
	assert.EqualValues(t, 1, stats.CompletedAssignments)
	assert.Equal(t, float64(100), stats.CompletionRate)
	assert.Equal(t, 45, stats.TotalReadingMinutes)

	require.NotNil(t, dash.MostActiveReader)
	assert.Equal(t, f.child.ID, dash.MostActiveReader.ID)
	assert.Len(t, dash.RecentAssignments, 1)
	assert.Len(t, dash.RecentCompletions, 1)
}

func TestFamilyDashboardRequiresFamily(t *testing.T) {
	svc := NewDashboardService(newTestDB(t))
	_, err := svc.GetFamilyDashboard("parent-without-family")
	require.Error(t, err)
}

func TestChildDashboard(t *testing.T) {
	f := newAssignmentFixture(t)
	svc := NewDashboardService(f.g.DB)

	_, err := f.svc.CreateAssignment("parent-1", f.child.ID, f.story.ID, nil)
	require.NoError(t, err)

	dash, err := svc.GetChildDashboard("parent-1", f.child.ID)
	require.NoError(t, err)
	assert.Len(t, dash.ActiveAssignments, 1)
	assert.EqualValues(t, 1, dash.Stats.TotalAssignments)

	_, err = svc.GetChildDashboard("parent-2", f.child.ID)
	require.Error(t, err)
}

func TestDashboardSummary(t *testing.T) {
	f := newAssignmentFixture(t)
	svc := NewDashboardService(f.g.DB)

	assignment, err := f.svc.CreateAssignment("parent-1", f.child.ID, f.story.ID, nil)
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus("parent-1", assignment.ID, models.AssignmentStatusCompleted)
	require.NoError(t, err)

	sum, err := svc.GetSummary("parent-1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, sum.ChildCount)
	assert.EqualValues(t, 1, sum.TotalAssignments)
	assert.EqualValues(t, 1, sum.CompletedAssignments)
	assert.Equal(t, assignmentCompletionPoints, sum.TotalPoints)
}
