package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/collabhub/hub/internal/authz"
	"github.com/collabhub/hub/internal/models"
	appErr "github.com/collabhub/hub/pkg/errors"
)

func TestCreateThreadRequiresExactlyOneScope(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", models.ProfileHuman, false)
	p := env.createProject(t, alice, "apollo")
	task, err := env.taskSvc.CreateTask(ctx, alice, &CreateTaskInput{ProjectID: p.ID, Title: "build"})
	require.NoError(t, err)

	_, err = env.threadSvc.CreateThread(ctx, alice, &CreateThreadInput{Title: "floating"})
	require.True(t, appErr.IsCode(err, appErr.CodeInvalid))

	_, err = env.threadSvc.CreateThread(ctx, alice, &CreateThreadInput{
		Title: "both", ProjectID: &p.ID, TaskID: &task.ID,
	})
	require.True(t, appErr.IsCode(err, appErr.CodeInvalid))

	th, err := env.threadSvc.CreateThread(ctx, alice, &CreateThreadInput{Title: "plan", ProjectID: &p.ID})
	require.NoError(t, err)
	require.Equal(t, models.ThreadGeneral, th.Kind)

	th2, err := env.threadSvc.CreateThread(ctx, alice, &CreateThreadInput{
		Title: "task talk", TaskID: &task.ID, Kind: models.ThreadPlanning,
	})
	require.NoError(t, err)
	require.Equal(t, models.ThreadPlanning, th2.Kind)
}

func TestThreadVisibilityFollowsScope(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", models.ProfileHuman, false)
	out := env.createUser(t, "out", models.ProfileHuman, false)
	p := env.createProject(t, alice, "apollo")
	task, err := env.taskSvc.CreateTask(ctx, alice, &CreateTaskInput{ProjectID: p.ID, Title: "build"})
	require.NoError(t, err)

	th, err := env.threadSvc.CreateThread(ctx, alice, &CreateThreadInput{Title: "task talk", TaskID: &task.ID})
	require.NoError(t, err)

	_, err = env.threadSvc.GetThread(ctx, alice, th.ID)
	require.NoError(t, err)
	_, err = env.threadSvc.GetThread(ctx, out, th.ID)
	require.True(t, appErr.IsCode(err, appErr.CodeNotFound))

	got, err := env.threadSvc.ListThreads(ctx, alice, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	got, err = env.threadSvc.ListThreads(ctx, out, nil)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestUnscopedThreadReadsAsNotFoundEvenForMembers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", models.ProfileHuman, false)
	env.createProject(t, alice, "apollo")

	// Row pointing at a task that no longer exists: the thread's scope
	// cannot be resolved, so access checks fail closed.
	var th models.Thread
	require.NoError(t, env.db.Exec(
		`INSERT INTO threads (title, kind, task_id, created_at, updated_at) VALUES ('orphan', 'general', 9999, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
	).Error)
	require.NoError(t, env.db.Where("title = ?", "orphan").First(&th).Error)

	_, err := env.threadSvc.GetThread(ctx, alice, th.ID)
	require.True(t, appErr.IsCode(err, appErr.CodeNotFound))
}

func TestUpdateThreadKeepsScope(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", models.ProfileHuman, false)
	vera := env.createUser(t, "vera", models.ProfileHuman, false)
	p := env.createProject(t, alice, "apollo")
	env.addMember(t, p.ID, vera.ID, authz.RoleViewer)

	th, err := env.threadSvc.CreateThread(ctx, alice, &CreateThreadInput{Title: "plan", ProjectID: &p.ID})
	require.NoError(t, err)

	title := "roadmap"
	kind := models.ThreadUpdate
	got, err := env.threadSvc.UpdateThread(ctx, alice, th.ID, &UpdateThreadInput{Title: &title, Kind: &kind})
	require.NoError(t, err)
	require.Equal(t, "roadmap", got.Title)
	require.Equal(t, models.ThreadUpdate, got.Kind)
	require.Equal(t, p.ID, *got.ProjectID)

	_, err = env.threadSvc.UpdateThread(ctx, vera, th.ID, &UpdateThreadInput{Title: &title})
	require.True(t, appErr.IsCode(err, appErr.CodeForbidden))

	require.NoError(t, env.threadSvc.DeleteThread(ctx, alice, th.ID))
	require.Contains(t, env.dispatched.verbs(), "thread.deleted")
}
