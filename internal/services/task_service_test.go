package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/issue-tracker-api/internal/models"
	"github.com/yukikurage/issue-tracker-api/internal/repository"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestTaskService_CreateTask_Numbering(t *testing.T) {
	env := setupServiceTestEnv(t)
	owner := env.createUser(t, "owner")
	project := env.createProject(t, owner, "NUM")

	for i, want := range []string{"NUM-0", "NUM-1", "NUM-2"} {
		task := env.createTask(t, project, owner, "task")
		assert.Equal(t, want, task.Number, "task %d", i)
		assert.Equal(t, models.TaskStatusBacklog, task.Status)
		assert.Equal(t, models.TaskTypeWorkItem, task.Type)
		assert.Equal(t, models.TaskPriorityMedium, task.Priority)
		assert.Equal(t, "owner", task.Creator.Username)
	}
}

func TestTaskService_CreateTask_Validation(t *testing.T) {
	env := setupServiceTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner")
	outsider := env.createUser(t, "outsider")
	project := env.createProject(t, owner, "VAL")
	negative := -1

	tests := []struct {
		name  string
		input CreateTaskInput
		err   error
	}{
		{"missing name", CreateTaskInput{}, ErrTaskNameRequired},
		{"bad status", CreateTaskInput{Name: "x", Status: "ZZ"}, ErrInvalidTaskStatus},
		{"bad type", CreateTaskInput{Name: "x", Type: "EPIC"}, ErrInvalidTaskType},
		{"bad priority", CreateTaskInput{Name: "x", Priority: "XX"}, ErrInvalidTaskPriority},
		{"negative estimate", CreateTaskInput{Name: "x", EstimateHours: &negative}, ErrInvalidEstimate},
		{"performer outside project", CreateTaskInput{Name: "x", PerformerID: &outsider.ID}, ErrPerformerNotMember},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.input.ProjectID = project.ID
			tt.input.CreatorID = owner.ID
			_, err := env.tasks.CreateTask(ctx, tt.input)
			assert.ErrorIs(t, err, tt.err)
		})
	}

	_, err := env.tasks.CreateTask(ctx, CreateTaskInput{Name: "x", ProjectID: project.ID, CreatorID: outsider.ID})
	assert.ErrorIs(t, err, ErrNotProjectMember)
}

func TestTaskService_ListTasks_SweepsFirst(t *testing.T) {
	env := setupServiceTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner")
	project := env.createProject(t, owner, "SWP")

	past := time.Now().UTC().Add(-time.Hour)
	late, err := env.tasks.CreateTask(ctx, CreateTaskInput{
		ProjectID: project.ID, CreatorID: owner.ID, Name: "late",
		Status: models.TaskStatusInProgress, Deadline: &past,
	})
	require.NoError(t, err)
	_, err = env.tasks.CreateTask(ctx, CreateTaskInput{
		ProjectID: project.ID, CreatorID: owner.ID, Name: "finished",
		Status: models.TaskStatusDone, Deadline: &past,
	})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		tasks, total, err := env.tasks.ListTasks(ctx, ListTasksInput{UserID: owner.ID})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)

		byID := map[uint64]models.TaskStatus{}
		for _, task := range tasks {
			byID[task.ID] = task.Status
		}
		assert.Equal(t, models.TaskStatusIsDelayed, byID[late.ID], "listing %d", i)
		for id, status := range byID {
			if id != late.ID {
				assert.Equal(t, models.TaskStatusDone, status)
			}
		}
	}
}

func TestTaskService_ListTasks_AccessScoping(t *testing.T) {
	env := setupServiceTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	alices := env.createProject(t, alice, "ALI")
	bobs := env.createProject(t, bob, "BOB")
	env.createTask(t, alices, alice, "alice task")
	env.createTask(t, bobs, bob, "bob task")

	tasks, total, err := env.tasks.ListTasks(ctx, ListTasksInput{UserID: alice.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, tasks, 1)
	assert.Equal(t, "alice task", tasks[0].Name)

	tasks, total, err = env.tasks.ListTasks(ctx, ListTasksInput{UserID: alice.ID, ProjectID: &bobs.ID})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, tasks)

	loner := env.createUser(t, "loner")
	tasks, _, err = env.tasks.ListTasks(ctx, ListTasksInput{UserID: loner.ID})
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestTaskService_ListTasks_SweepFailureFailsListing(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `tasks` SET").WillReturnError(errors.New("lock wait timeout exceeded"))
	mock.ExpectRollback()

	taskRepo := repository.NewTaskRepository(db)
	service := NewTaskService(taskRepo, repository.NewProjectRepository(db), NewMaintenanceService(taskRepo), nil)

	tasks, _, err := service.ListTasks(context.Background(), ListTasksInput{UserID: 1})
	require.ErrorIs(t, err, ErrSweepFailed)
	assert.Nil(t, tasks)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskService_UpdateTask(t *testing.T) {
	env := setupServiceTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner")
	dev := env.createUser(t, "dev")
	outsider := env.createUser(t, "outsider")
	project := env.createProject(t, owner, "UPD")
	env.addMember(t, project, dev, "Developer")
	task := env.createTask(t, project, owner, "task")
	assert.Nil(t, task.ModifiedAt)

	status := models.TaskStatusReview
	name := "renamed"
	updated, err := env.tasks.UpdateTask(ctx, task.ID, UpdateTaskInput{Name: &name, Status: &status, PerformerID: &dev.ID})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Name)
	assert.Equal(t, models.TaskStatusReview, updated.Status)
	assert.Equal(t, "UPD-0", updated.Number)
	require.NotNil(t, updated.ModifiedAt)
	require.NotNil(t, updated.Performer)
	assert.Equal(t, "dev", updated.Performer.Username)

	_, err = env.tasks.UpdateTask(ctx, task.ID, UpdateTaskInput{PerformerID: &outsider.ID})
	assert.ErrorIs(t, err, ErrPerformerNotMember)

	bad := models.TaskStatus("XX")
	_, err = env.tasks.UpdateTask(ctx, task.ID, UpdateTaskInput{Status: &bad})
	assert.ErrorIs(t, err, ErrInvalidTaskStatus)

	cleared, err := env.tasks.UpdateTask(ctx, task.ID, UpdateTaskInput{ClearPerformer: true})
	require.NoError(t, err)
	assert.Nil(t, cleared.PerformerID)

	_, err = env.tasks.UpdateTask(ctx, 999, UpdateTaskInput{})
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestTaskService_DeleteTask_Permissions(t *testing.T) {
	env := setupServiceTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner")
	dev := env.createUser(t, "dev")
	project := env.createProject(t, owner, "DEL")
	env.addMember(t, project, dev, "Developer")

	ownersTask := env.createTask(t, project, owner, "owner's")
	devsTask := env.createTask(t, project, dev, "dev's")

	assert.ErrorIs(t, env.tasks.DeleteTask(ctx, ownersTask.ID, dev.ID), ErrTaskDeleteDenied)
	require.NoError(t, env.tasks.DeleteTask(ctx, devsTask.ID, owner.ID), "the manager may delete any task")
	require.NoError(t, env.tasks.DeleteTask(ctx, ownersTask.ID, owner.ID))
	assert.ErrorIs(t, env.tasks.DeleteTask(ctx, ownersTask.ID, owner.ID), ErrTaskNotFound)
}

func TestTaskService_ConnectAndRelated(t *testing.T) {
	env := setupServiceTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner")
	project := env.createProject(t, owner, "REL")

	a := env.createTask(t, project, owner, "A")
	b := env.createTask(t, project, owner, "B")
	c := env.createTask(t, project, owner, "C")

	_, err := env.tasks.Connect(ctx, ConnectInput{FromTaskID: a.ID, ToTaskID: b.ID, RelationType: models.RelationBlocks, UserID: owner.ID})
	require.NoError(t, err)
	_, err = env.tasks.Connect(ctx, ConnectInput{FromTaskID: c.ID, ToTaskID: a.ID, RelationType: models.RelationRelates, UserID: owner.ID})
	require.NoError(t, err)

	related, err := env.tasks.RelatedTasks(ctx, a.ID, owner.ID)
	require.NoError(t, err)
	require.Len(t, related, 2)
	assert.Equal(t, models.RelationBlocks, related[0].RelationType)
	assert.Equal(t, "B", related[0].Tasks[0].Name)
	assert.Equal(t, models.RelationRelates, related[1].RelationType)
	assert.Equal(t, "C", related[1].Tasks[0].Name)

	related, err = env.tasks.RelatedTasks(ctx, b.ID, owner.ID)
	require.NoError(t, err)
	require.Len(t, related, 1)
	assert.Equal(t, models.RelationIsBlockedBy, related[0].RelationType)
	assert.Equal(t, "A", related[0].Tasks[0].Name)

	related, err = env.tasks.RelatedTasks(ctx, c.ID, owner.ID)
	require.NoError(t, err)
	require.Len(t, related, 1)
	assert.Equal(t, models.RelationRelates, related[0].RelationType)
	assert.Equal(t, "A", related[0].Tasks[0].Name)
}

func TestTaskService_RelatedTasks_HidesInvisibleProjects(t *testing.T) {
	env := setupServiceTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice")
	carol := env.createUser(t, "carol")

	public := env.createProject(t, alice, "PUB")
	private := env.createProject(t, carol, "SEC")
	env.addMember(t, public, carol, "Developer")

	open := env.createTask(t, public, alice, "open")
	secret := env.createTask(t, private, carol, "secret")
	sibling := env.createTask(t, public, alice, "sibling")

	_, err := env.tasks.Connect(ctx, ConnectInput{FromTaskID: open.ID, ToTaskID: secret.ID, RelationType: models.RelationBlocks, UserID: carol.ID})
	require.NoError(t, err)
	_, err = env.tasks.Connect(ctx, ConnectInput{FromTaskID: secret.ID, ToTaskID: open.ID, RelationType: models.RelationRelates, UserID: carol.ID})
	require.NoError(t, err)
	_, err = env.tasks.Connect(ctx, ConnectInput{FromTaskID: open.ID, ToTaskID: sibling.ID, RelationType: models.RelationClones, UserID: alice.ID})
	require.NoError(t, err)

	related, err := env.tasks.RelatedTasks(ctx, open.ID, alice.ID)
	require.NoError(t, err)
	require.Len(t, related, 1)
	assert.Equal(t, models.RelationClones, related[0].RelationType)
	assert.Equal(t, "sibling", related[0].Tasks[0].Name)

	related, err = env.tasks.RelatedTasks(ctx, open.ID, carol.ID)
	require.NoError(t, err)
	assert.Len(t, related, 3)
}

func TestTaskService_Connect_Validation(t *testing.T) {
	env := setupServiceTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	alices := env.createProject(t, alice, "ALI")
	bobs := env.createProject(t, bob, "BOB")
	a := env.createTask(t, alices, alice, "a")
	hidden := env.createTask(t, bobs, bob, "hidden")

	_, err := env.tasks.Connect(ctx, ConnectInput{FromTaskID: a.ID, ToTaskID: a.ID, RelationType: models.RelationType(7), UserID: alice.ID})
	assert.ErrorIs(t, err, ErrInvalidRelationType)

	_, err = env.tasks.Connect(ctx, ConnectInput{FromTaskID: a.ID, ToTaskID: 999, RelationType: models.RelationBlocks, UserID: alice.ID})
	assert.ErrorIs(t, err, ErrTaskNotFound)

	_, err = env.tasks.Connect(ctx, ConnectInput{FromTaskID: a.ID, ToTaskID: hidden.ID, RelationType: models.RelationBlocks, UserID: alice.ID})
	assert.ErrorIs(t, err, ErrTaskNotFound, "tasks in foreign projects look absent")

	for i := 0; i < 2; i++ {
		_, err = env.tasks.Connect(ctx, ConnectInput{FromTaskID: a.ID, ToTaskID: a.ID, RelationType: models.RelationRelates, UserID: alice.ID})
		require.NoError(t, err, "duplicate edges are accepted")
	}
	var count int64
	require.NoError(t, env.db.Model(&models.TaskRelation{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

type fakeDrafter struct {
	drafts []TaskDraft
	err    error
}

func (f fakeDrafter) DraftTasks(ctx context.Context, text string) ([]TaskDraft, error) {
	return f.drafts, f.err
}

func TestTaskService_DraftTasks(t *testing.T) {
	ctx := context.Background()

	_, err := (&TaskService{}).DraftTasks(ctx, DraftTasksInput{Text: "x"})
	assert.ErrorIs(t, err, ErrAIServiceNotConfigured)

	past := time.Now().Add(-72 * time.Hour)
	service := &TaskService{drafter: fakeDrafter{drafts: []TaskDraft{
		{Name: "Fix login", Type: "BUG", Priority: "HG"},
		{Name: "  "},
		{Name: "Write docs", Type: "NOPE", Priority: "", Deadline: &past},
	}}}

	_, err = service.DraftTasks(ctx, DraftTasksInput{Text: " "})
	assert.ErrorIs(t, err, ErrDraftTextRequired)

	drafts, err := service.DraftTasks(ctx, DraftTasksInput{Text: "notes"})
	require.NoError(t, err)
	require.Len(t, drafts, 2)
	assert.Equal(t, "BUG", drafts[0].Type)
	assert.Equal(t, string(models.TaskTypeWorkItem), drafts[1].Type)
	assert.Equal(t, string(models.TaskPriorityMedium), drafts[1].Priority)
	assert.Nil(t, drafts[1].Deadline)

	_, err = (&TaskService{drafter: fakeDrafter{}}).DraftTasks(ctx, DraftTasksInput{Text: "notes"})
	assert.ErrorIs(t, err, ErrAINoTasksGenerated)

	_, err = (&TaskService{drafter: fakeDrafter{err: errors.New("boom")}}).DraftTasks(ctx, DraftTasksInput{Text: "notes"})
	assert.Error(t, err)
}
