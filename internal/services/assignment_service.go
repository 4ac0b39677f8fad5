package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/collabhub/hub/internal/audit"
	"github.com/collabhub/hub/internal/authz"
	"github.com/collabhub/hub/internal/models"
	"github.com/collabhub/hub/internal/repository"
	appErr "github.com/collabhub/hub/pkg/errors"
	"github.com/collabhub/hub/pkg/logger"
)

// AssignmentService attaches users to tasks in a role. The
// (task, assignee, role) triple is unique; duplicates surface as
// already_exists.
type AssignmentService interface {
	AddAssignment(ctx context.Context, actor *authz.Actor, input *AddAssignmentInput) (*models.TaskAssignment, error)
	ListAssignments(ctx context.Context, actor *authz.Actor, taskID uint) ([]models.TaskAssignment, error)
	RemoveAssignment(ctx context.Context, actor *authz.Actor, assignmentID uint) error
}

type AddAssignmentInput struct {
	TaskID     uint
	AssigneeID uint
	Role       models.AssignmentRole
}

type assignmentService struct {
	assignments repository.AssignmentRepository
	tasks       repository.TaskRepository
	users       repository.UserRepository
	engine      *authz.Engine
	recorder    *audit.Recorder
}

func NewAssignmentService(assignments repository.AssignmentRepository, tasks repository.TaskRepository, users repository.UserRepository, engine *authz.Engine, recorder *audit.Recorder) AssignmentService {
	return &assignmentService{assignments: assignments, tasks: tasks, users: users, engine: engine, recorder: recorder}
}

var _ AssignmentService = (*assignmentService)(nil)

// loadTask resolves the task an assignment operation runs against.
func (s *assignmentService) loadTask(ctx context.Context, actor *authz.Actor, taskID uint, min authz.Role) (*models.Task, error) {
	var t models.Task
	if err := s.tasks.GetByID(ctx, taskID, &t); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, appErr.NotFound("task")
		}
		return nil, err
	}
	if err := authorize(ctx, s.engine, actor, &t, min, "task"); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *assignmentService) AddAssignment(ctx context.Context, actor *authz.Actor, input *AddAssignmentInput) (*models.TaskAssignment, error) {
	if _, err := s.loadTask(ctx, actor, input.TaskID, authz.RoleMember); err != nil {
		return nil, err
	}
	role := input.Role
	if role == "" {
		role = models.AssignmentAssignee
	}
	if !role.Valid() {
		return nil, appErr.Invalid("role", "unknown assignment role")
	}
	var u models.User
	if err := s.users.GetByID(ctx, input.AssigneeID, &u); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, appErr.Invalid("assignee_id", "user does not exist")
		}
		return nil, err
	}

	a := &models.TaskAssignment{
		TaskID:     input.TaskID,
		AssigneeID: input.AssigneeID,
		Role:       role,
		AddedByID:  actorID(actor),
	}
	if err := s.assignments.Create(ctx, a); err != nil {
		return nil, err
	}
	a.Assignee = &u

	logger.L().Info("assignment added",
		zap.Uint("task_id", input.TaskID),
		zap.Uint("assignee_id", input.AssigneeID),
		zap.String("role", string(role)))
	if _, err := s.recorder.Record(ctx, actor, "task.assignment.created",
		&models.TargetRef{Kind: models.TargetAssignment, ID: a.ID},
		map[string]any{"task_id": input.TaskID, "assignee_id": input.AssigneeID, "role": string(role)}); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *assignmentService) ListAssignments(ctx context.Context, actor *authz.Actor, taskID uint) ([]models.TaskAssignment, error) {
	if _, err := s.loadTask(ctx, actor, taskID, authz.RoleViewer); err != nil {
		return nil, err
	}
	return s.assignments.ListByTask(ctx, taskID)
}

func (s *assignmentService) RemoveAssignment(ctx context.Context, actor *authz.Actor, assignmentID uint) error {
	var a models.TaskAssignment
	if err := s.assignments.GetByID(ctx, assignmentID, &a); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return appErr.NotFound("assignment")
		}
		return err
	}
	if err := authorize(ctx, s.engine, actor, &a, authz.RoleMember, "assignment"); err != nil {
		return err
	}
	if err := s.assignments.Delete(ctx, assignmentID); err != nil {
		return err
	}
	_, err := s.recorder.Record(ctx, actor, "task.assignment.deleted",
		&models.TargetRef{Kind: models.TargetAssignment, ID: assignmentID},
		map[string]any{"task_id": a.TaskID, "assignee_id": a.AssigneeID, "role": string(a.Role)})
	return err
}
