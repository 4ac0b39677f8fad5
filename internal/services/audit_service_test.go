package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/collabhub/hub/internal/models"
	appErr "github.com/collabhub/hub/pkg/errors"
)

func TestAuditTrailListsNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", models.ProfileHuman, false)
	p := env.createProject(t, alice, "apollo")
	task, err := env.taskSvc.CreateTask(ctx, alice, &CreateTaskInput{ProjectID: p.ID, Title: "build"})
	require.NoError(t, err)
	require.NoError(t, env.taskSvc.DeleteTask(ctx, alice, task.ID))

	views, err := env.auditSvc.ListEvents(ctx, alice, nil)
	require.NoError(t, err)
	require.Len(t, views, 3)
	require.Equal(t, "task.deleted", views[0].Event.Verb)
	require.Equal(t, "project.created", views[2].Event.Verb)

	_, err = env.auditSvc.ListEvents(ctx, nil, nil)
	require.True(t, appErr.IsCode(err, appErr.CodeUnauthorized))
}

func TestAuditVerbFilterAndLimit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", models.ProfileHuman, false)
	env.createProject(t, alice, "apollo")
	env.createProject(t, alice, "borealis")

	views, err := env.auditSvc.ListEvents(ctx, alice, &AuditFilters{Verb: "project.created"})
	require.NoError(t, err)
	require.Len(t, views, 2)

	views, err = env.auditSvc.ListEvents(ctx, alice, &AuditFilters{Limit: 1})
	require.NoError(t, err)
	require.Len(t, views, 1)
}

func TestAuditTargetResolution(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", models.ProfileHuman, false)
	p := env.createProject(t, alice, "apollo")
	task, err := env.taskSvc.CreateTask(ctx, alice, &CreateTaskInput{ProjectID: p.ID, Title: "build"})
	require.NoError(t, err)

	views, err := env.auditSvc.ListEvents(ctx, alice, &AuditFilters{Verb: "task.created"})
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.True(t, views[0].Target.Available)
	require.Equal(t, "build", views[0].Target.Label)

	// Deleting the task leaves the event behind with a dangling target.
	require.NoError(t, env.taskSvc.DeleteTask(ctx, alice, task.ID))
	views, err = env.auditSvc.ListEvents(ctx, alice, &AuditFilters{Verb: "task.created"})
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.False(t, views[0].Target.Available)
	require.Equal(t, "unavailable", views[0].Target.Label)
}

func TestAuditEventActorSurvivesAsReference(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", models.ProfileHuman, false)
	env.createProject(t, alice, "apollo")

	views, err := env.auditSvc.ListEvents(ctx, alice, nil)
	require.NoError(t, err)
	require.NotEmpty(t, views)
	require.NotNil(t, views[0].Event.ActorID)
	require.Equal(t, alice.ID, *views[0].Event.ActorID)
}
