package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/collabhub/hub/internal/authz"
	"github.com/collabhub/hub/internal/models"
	appErr "github.com/collabhub/hub/pkg/errors"
)

func TestAddAssignmentDefaultsAndDuplicates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", models.ProfileHuman, false)
	bob := env.createUser(t, "bob", models.ProfileHuman, false)
	p := env.createProject(t, alice, "apollo")
	env.addMember(t, p.ID, bob.ID, authz.RoleMember)

	task, err := env.taskSvc.CreateTask(ctx, alice, &CreateTaskInput{ProjectID: p.ID, Title: "build"})
	require.NoError(t, err)

	a, err := env.assignmentSvc.AddAssignment(ctx, alice, &AddAssignmentInput{
		TaskID: task.ID, AssigneeID: bob.ID,
	})
	require.NoError(t, err)
	require.Equal(t, models.AssignmentAssignee, a.Role)

	// Same triple again is a conflict.
	_, err = env.assignmentSvc.AddAssignment(ctx, alice, &AddAssignmentInput{
		TaskID: task.ID, AssigneeID: bob.ID, Role: models.AssignmentAssignee,
	})
	require.True(t, appErr.IsCode(err, appErr.CodeAlreadyExists))

	// A different role for the same user is fine.
	_, err = env.assignmentSvc.AddAssignment(ctx, alice, &AddAssignmentInput{
		TaskID: task.ID, AssigneeID: bob.ID, Role: models.AssignmentReviewer,
	})
	require.NoError(t, err)

	_, err = env.assignmentSvc.AddAssignment(ctx, alice, &AddAssignmentInput{
		TaskID: task.ID, AssigneeID: bob.ID, Role: "stakeholder",
	})
	require.True(t, appErr.IsCode(err, appErr.CodeInvalid))

	_, err = env.assignmentSvc.AddAssignment(ctx, alice, &AddAssignmentInput{
		TaskID: task.ID, AssigneeID: 9999,
	})
	require.True(t, appErr.IsCode(err, appErr.CodeInvalid))

	require.Contains(t, env.dispatched.verbs(), "task.assignment.created")
}

func TestAssignmentVisibilityAndRemoval(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", models.ProfileHuman, false)
	vera := env.createUser(t, "vera", models.ProfileHuman, false)
	out := env.createUser(t, "out", models.ProfileHuman, false)
	p := env.createProject(t, alice, "apollo")
	env.addMember(t, p.ID, vera.ID, authz.RoleViewer)

	task, err := env.taskSvc.CreateTask(ctx, alice, &CreateTaskInput{ProjectID: p.ID, Title: "build"})
	require.NoError(t, err)
	a, err := env.assignmentSvc.AddAssignment(ctx, alice, &AddAssignmentInput{
		TaskID: task.ID, AssigneeID: alice.ID, Role: models.AssignmentOwner,
	})
	require.NoError(t, err)

	items, err := env.assignmentSvc.ListAssignments(ctx, vera, task.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)

	_, err = env.assignmentSvc.ListAssignments(ctx, out, task.ID)
	require.True(t, appErr.IsCode(err, appErr.CodeNotFound))

	// Viewers cannot add or remove assignments.
	_, err = env.assignmentSvc.AddAssignment(ctx, vera, &AddAssignmentInput{
		TaskID: task.ID, AssigneeID: vera.ID,
	})
	require.True(t, appErr.IsCode(err, appErr.CodeForbidden))
	err = env.assignmentSvc.RemoveAssignment(ctx, vera, a.ID)
	require.True(t, appErr.IsCode(err, appErr.CodeForbidden))

	require.NoError(t, env.assignmentSvc.RemoveAssignment(ctx, alice, a.ID))
	require.Contains(t, env.dispatched.verbs(), "task.assignment.deleted")
}
