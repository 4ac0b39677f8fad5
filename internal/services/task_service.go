package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/collabhub/hub/internal/audit"
	"github.com/collabhub/hub/internal/authz"
	"github.com/collabhub/hub/internal/models"
	"github.com/collabhub/hub/internal/repository"
	appErr "github.com/collabhub/hub/pkg/errors"
	"github.com/collabhub/hub/pkg/logger"
)

// TaskService manages tasks within a project: CRUD, parent linkage, and tag
// assignment. The parent task rules (same project, never itself) hold on
// every create and update.
type TaskService interface {
	CreateTask(ctx context.Context, actor *authz.Actor, input *CreateTaskInput) (*models.Task, error)
	GetTask(ctx context.Context, actor *authz.Actor, taskID uint) (*models.Task, error)
	ListTasks(ctx context.Context, actor *authz.Actor, filters *TaskFilters) ([]models.Task, error)
	UpdateTask(ctx context.Context, actor *authz.Actor, taskID uint, patch *UpdateTaskInput) (*models.Task, error)
	DeleteTask(ctx context.Context, actor *authz.Actor, taskID uint) error
}

type CreateTaskInput struct {
	ProjectID   uint
	ParentID    *uint
	Title       string
	Description string
	Status      models.TaskStatus
	Priority    int
	Position    uint
	DueAt       *time.Time
	TagIDs      []uint
}

type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *models.TaskStatus
	Priority    *int
	Position    *uint
	ParentID    *uint
	ClearParent bool
	DueAt       *time.Time
	ClearDueAt  bool
	TagIDs      []uint
}

type TaskFilters struct {
	ProjectID *uint
	ParentID  *uint
	Status    models.TaskStatus
}

type taskService struct {
	tasks    repository.TaskRepository
	projects repository.ProjectRepository
	tags     repository.TagRepository
	engine   *authz.Engine
	recorder *audit.Recorder
}

func NewTaskService(tasks repository.TaskRepository, projects repository.ProjectRepository, tags repository.TagRepository, engine *authz.Engine, recorder *audit.Recorder) TaskService {
	return &taskService{tasks: tasks, projects: projects, tags: tags, engine: engine, recorder: recorder}
}

var _ TaskService = (*taskService)(nil)

// validateParent enforces the parent task rules: the parent must exist, live
// in the same project, and must not be the task itself.
func (s *taskService) validateParent(ctx context.Context, projectID uint, taskID uint, parentID uint) error {
	if parentID == taskID && taskID != 0 {
		return appErr.Invalid("parent_id", "a task cannot be its own parent")
	}
	var parent models.Task
	if err := s.tasks.GetByID(ctx, parentID, &parent); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return appErr.Invalid("parent_id", "parent task does not exist")
		}
		return err
	}
	if parent.ProjectID != projectID {
		return appErr.Invalid("parent_id", "parent task belongs to a different project")
	}
	return nil
}

// resolveTags loads the referenced tags, rejecting unknown ids.
func (s *taskService) resolveTags(ctx context.Context, ids []uint) ([]models.Tag, error) {
	tags, err := s.tags.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(tags) != len(ids) {
		return nil, appErr.Invalid("tag_ids", "unknown tag id")
	}
	return tags, nil
}

func (s *taskService) CreateTask(ctx context.Context, actor *authz.Actor, input *CreateTaskInput) (*models.Task, error) {
	var p models.Project
	if err := s.projects.GetByID(ctx, input.ProjectID, &p); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, appErr.NotFound("project")
		}
		return nil, err
	}
	if err := authorize(ctx, s.engine, actor, &p, authz.RoleMember, "project"); err != nil {
		return nil, err
	}
	if input.Title == "" {
		return nil, appErr.Invalid("title", "title is required")
	}
	status := input.Status
	if status == "" {
		status = models.StatusBacklog
	}
	if !status.Valid() {
		return nil, appErr.Invalid("status", "unknown status")
	}
	priority := input.Priority
	if priority == 0 {
		priority = models.PriorityMedium
	}
	if priority < models.PriorityLow || priority > models.PriorityUrgent {
		return nil, appErr.Invalid("priority", "priority must be between 1 and 4")
	}
	if input.ParentID != nil {
		if err := s.validateParent(ctx, input.ProjectID, 0, *input.ParentID); err != nil {
			return nil, err
		}
	}
	tags, err := s.resolveTags(ctx, input.TagIDs)
	if err != nil {
		return nil, err
	}

	t := &models.Task{
		ProjectID:   input.ProjectID,
		ParentID:    input.ParentID,
		Title:       input.Title,
		Description: input.Description,
		Status:      status,
		Priority:    priority,
		Position:    input.Position,
		DueAt:       input.DueAt,
		Tags:        tags,
		CreatedByID: actorID(actor),
	}
	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, err
	}

	logger.L().Info("task created", zap.Uint("task_id", t.ID), zap.Uint("project_id", t.ProjectID))
	if _, err := s.recorder.Record(ctx, actor, "task.created", &models.TargetRef{Kind: models.TargetTask, ID: t.ID}, nil); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *taskService) GetTask(ctx context.Context, actor *authz.Actor, taskID uint) (*models.Task, error) {
	var t models.Task
	if err := s.tasks.GetWithTags(ctx, taskID, &t); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, appErr.NotFound("task")
		}
		return nil, err
	}
	if err := authorize(ctx, s.engine, actor, &t, authz.RoleViewer, "task"); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *taskService) ListTasks(ctx context.Context, actor *authz.Actor, filters *TaskFilters) ([]models.Task, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	f := repository.TaskFilter{MemberID: memberFilter(actor)}
	if filters != nil {
		f.ProjectID = filters.ProjectID
		f.ParentID = filters.ParentID
		f.Status = filters.Status
	}
	return s.tasks.List(ctx, f)
}

func (s *taskService) UpdateTask(ctx context.Context, actor *authz.Actor, taskID uint, patch *UpdateTaskInput) (*models.Task, error) {
	var t models.Task
	if err := s.tasks.GetWithTags(ctx, taskID, &t); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, appErr.NotFound("task")
		}
		return nil, err
	}
	if err := authorize(ctx, s.engine, actor, &t, authz.RoleMember, "task"); err != nil {
		return nil, err
	}

	if patch.Title != nil {
		if *patch.Title == "" {
			return nil, appErr.Invalid("title", "title is required")
		}
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, appErr.Invalid("status", "unknown status")
		}
		t.Status = *patch.Status
	}
	if patch.Priority != nil {
		if *patch.Priority < models.PriorityLow || *patch.Priority > models.PriorityUrgent {
			return nil, appErr.Invalid("priority", "priority must be between 1 and 4")
		}
		t.Priority = *patch.Priority
	}
	if patch.Position != nil {
		t.Position = *patch.Position
	}
	if patch.ClearParent {
		t.ParentID = nil
	} else if patch.ParentID != nil {
		if err := s.validateParent(ctx, t.ProjectID, t.ID, *patch.ParentID); err != nil {
			return nil, err
		}
		t.ParentID = patch.ParentID
	}
	if patch.ClearDueAt {
		t.DueAt = nil
	} else if patch.DueAt != nil {
		t.DueAt = patch.DueAt
	}

	if err := s.tasks.Update(ctx, &t); err != nil {
		return nil, err
	}
	if patch.TagIDs != nil {
		tags, err := s.resolveTags(ctx, patch.TagIDs)
		if err != nil {
			return nil, err
		}
		if err := s.tasks.ReplaceTags(ctx, &t, tags); err != nil {
			return nil, err
		}
		t.Tags = tags
	}

	if _, err := s.recorder.Record(ctx, actor, "task.updated", &models.TargetRef{Kind: models.TargetTask, ID: t.ID}, nil); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *taskService) DeleteTask(ctx context.Context, actor *authz.Actor, taskID uint) error {
	var t models.Task
	if err := s.tasks.GetByID(ctx, taskID, &t); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return appErr.NotFound("task")
		}
		return err
	}
	if err := authorize(ctx, s.engine, actor, &t, authz.RoleMember, "task"); err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, taskID); err != nil {
		return err
	}
	_, err := s.recorder.Record(ctx, actor, "task.deleted",
		&models.TargetRef{Kind: models.TargetTask, ID: taskID},
		map[string]any{"title": t.Title, "project_id": t.ProjectID})
	return err
}
