package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/collabhub/hub/internal/authz"
	"github.com/collabhub/hub/internal/models"
	appErr "github.com/collabhub/hub/pkg/errors"
)

// TestCollaborationScenario walks two projects and three users through the
// full flow: project setup, membership grants, tasks, threads, messages, and
// the audit trail the flow leaves behind.
func TestCollaborationScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.createUser(t, "owner", models.ProfileHuman, false)
	dev := env.createUser(t, "dev", models.ProfileHuman, false)
	guest := env.createUser(t, "guest", models.ProfileHuman, false)

	// Owner bootstraps the project; dev joins as member, guest as viewer.
	p := env.createProject(t, owner, "launch")
	_, err := env.membershipSvc.AddMember(ctx, owner, &AddMemberInput{
		ProjectID: p.ID, UserID: dev.ID, Role: authz.RoleMember,
	})
	require.NoError(t, err)
	_, err = env.membershipSvc.AddMember(ctx, owner, &AddMemberInput{
		ProjectID: p.ID, UserID: guest.ID, Role: authz.RoleViewer,
	})
	require.NoError(t, err)

	// The member plans work: a task with a subtask and a discussion thread.
	task, err := env.taskSvc.CreateTask(ctx, dev, &CreateTaskInput{
		ProjectID: p.ID, Title: "ship v1", Status: models.StatusTodo, Priority: models.PriorityHigh,
	})
	require.NoError(t, err)
	sub, err := env.taskSvc.CreateTask(ctx, dev, &CreateTaskInput{
		ProjectID: p.ID, Title: "write docs", ParentID: &task.ID,
	})
	require.NoError(t, err)
	_, err = env.assignmentSvc.AddAssignment(ctx, dev, &AddAssignmentInput{
		TaskID: sub.ID, AssigneeID: dev.ID,
	})
	require.NoError(t, err)

	th, err := env.threadSvc.CreateThread(ctx, dev, &CreateThreadInput{Title: "v1 scope", TaskID: &task.ID})
	require.NoError(t, err)
	_, err = env.messageSvc.CreateMessage(ctx, dev, &CreateMessageInput{ThreadID: th.ID, Body: "cutting scope to core flows"})
	require.NoError(t, err)

	// The viewer reads everything but cannot write anything.
	_, err = env.taskSvc.GetTask(ctx, guest, task.ID)
	require.NoError(t, err)
	msgs, err := env.messageSvc.ListMessages(ctx, guest, &MessageFilters{ThreadID: &th.ID})
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	_, err = env.messageSvc.CreateMessage(ctx, guest, &CreateMessageInput{ThreadID: th.ID, Body: "me too"})
	require.True(t, appErr.IsCode(err, appErr.CodeForbidden))
	_, err = env.taskSvc.CreateTask(ctx, guest, &CreateTaskInput{ProjectID: p.ID, Title: "sneak"})
	require.True(t, appErr.IsCode(err, appErr.CodeForbidden))

	// A second project stays invisible to everyone but its owner.
	other := env.createProject(t, dev, "skunkworks")
	_, err = env.projectSvc.GetProject(ctx, guest, other.ID)
	require.True(t, appErr.IsCode(err, appErr.CodeNotFound))
	visible, err := env.projectSvc.ListProjects(ctx, guest, nil)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	require.Equal(t, "launch", visible[0].Name)

	// Work progresses and wraps up.
	done := models.StatusDone
	_, err = env.taskSvc.UpdateTask(ctx, dev, sub.ID, &UpdateTaskInput{Status: &done})
	require.NoError(t, err)

	// The audit trail covers every mutation in order.
	require.Equal(t, []string{
		"project.created",
		"membership.created",
		"membership.created",
		"task.created",
		"task.created",
		"task.assignment.created",
		"thread.created",
		"message.created",
		"project.created",
		"task.updated",
	}, env.dispatched.verbs())

	views, err := env.auditSvc.ListEvents(ctx, guest, nil)
	require.NoError(t, err)
	require.Len(t, views, 10)
}
