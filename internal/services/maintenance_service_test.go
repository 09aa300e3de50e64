package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/issue-tracker-api/internal/models"
)

func TestMaintenanceService_SweepOverdueTasks(t *testing.T) {
	env := setupServiceTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner")
	project := env.createProject(t, owner, "MNT")

	deadline := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	for _, status := range []models.TaskStatus{
		models.TaskStatusBacklog,
		models.TaskStatusInProgress,
		models.TaskStatusReview,
		models.TaskStatusPostponed,
		models.TaskStatusDone,
		models.TaskStatusClosed,
		models.TaskStatusBeingLate,
	} {
		_, err := env.tasks.CreateTask(ctx, CreateTaskInput{
			ProjectID: project.ID, CreatorID: owner.ID, Name: string(status),
			Status: status, Deadline: &deadline,
		})
		require.NoError(t, err)
	}

	env.maintenance.now = func() time.Time { return deadline.Add(-time.Minute) }
	affected, err := env.maintenance.SweepOverdueTasks(ctx)
	require.NoError(t, err)
	assert.Zero(t, affected, "nothing is overdue before the deadline")

	env.maintenance.now = func() time.Time { return deadline.Add(time.Minute) }
	affected, err = env.maintenance.SweepOverdueTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), affected)

	affected, err = env.maintenance.SweepOverdueTasks(ctx)
	require.NoError(t, err)
	assert.Zero(t, affected)

	var delayed []models.Task
	require.NoError(t, env.db.Where("status = ?", models.TaskStatusIsDelayed).Order("id").Find(&delayed).Error)
	require.Len(t, delayed, 3)
	for i, name := range []string{"BL", "IP", "RV"} {
		assert.Equal(t, name, delayed[i].Name)
		assert.NotNil(t, delayed[i].ModifiedAt)
	}
}

func TestScheduler_RejectsInvalidSpec(t *testing.T) {
	env := setupServiceTestEnv(t)

	_, err := NewScheduler("every minute", env.maintenance)
	assert.Error(t, err)

	scheduler, err := NewScheduler("*/5 * * * *", env.maintenance)
	require.NoError(t, err)
	scheduler.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	scheduler.Stop(ctx)
}
