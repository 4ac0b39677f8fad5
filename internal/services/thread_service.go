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

// ThreadService manages conversation threads. A thread attaches to exactly
// one of a project or a task; the scope is fixed at creation and cannot be
// moved afterwards.
type ThreadService interface {
	CreateThread(ctx context.Context, actor *authz.Actor, input *CreateThreadInput) (*models.Thread, error)
	GetThread(ctx context.Context, actor *authz.Actor, threadID uint) (*models.Thread, error)
	ListThreads(ctx context.Context, actor *authz.Actor, filters *ThreadFilters) ([]models.Thread, error)
	UpdateThread(ctx context.Context, actor *authz.Actor, threadID uint, patch *UpdateThreadInput) (*models.Thread, error)
	DeleteThread(ctx context.Context, actor *authz.Actor, threadID uint) error
}

type CreateThreadInput struct {
	Title     string
	Kind      models.ThreadKind
	ProjectID *uint
	TaskID    *uint
}

type UpdateThreadInput struct {
	Title *string
	Kind  *models.ThreadKind
}

type ThreadFilters struct {
	ProjectID *uint
	TaskID    *uint
}

type threadService struct {
	threads  repository.ThreadRepository
	projects repository.ProjectRepository
	tasks    repository.TaskRepository
	engine   *authz.Engine
	recorder *audit.Recorder
}

func NewThreadService(threads repository.ThreadRepository, projects repository.ProjectRepository, tasks repository.TaskRepository, engine *authz.Engine, recorder *audit.Recorder) ThreadService {
	return &threadService{threads: threads, projects: projects, tasks: tasks, engine: engine, recorder: recorder}
}

var _ ThreadService = (*threadService)(nil)

func (s *threadService) CreateThread(ctx context.Context, actor *authz.Actor, input *CreateThreadInput) (*models.Thread, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if input.Title == "" {
		return nil, appErr.Invalid("title", "title is required")
	}
	kind := input.Kind
	if kind == "" {
		kind = models.ThreadGeneral
	}
	if !kind.Valid() {
		return nil, appErr.Invalid("kind", "unknown thread kind")
	}
	if (input.ProjectID == nil) == (input.TaskID == nil) {
		return nil, appErr.Invalid("scope", "thread must attach to exactly one of project or task")
	}

	// The scope target must exist and be editable before the thread is
	// created; an invisible target reads as not_found.
	if input.ProjectID != nil {
		var p models.Project
		if err := s.projects.GetByID(ctx, *input.ProjectID, &p); err != nil {
			if appErr.IsCode(err, appErr.CodeNotFound) {
				return nil, appErr.NotFound("project")
			}
			return nil, err
		}
		if err := authorize(ctx, s.engine, actor, &p, authz.RoleMember, "project"); err != nil {
			return nil, err
		}
	} else {
		var t models.Task
		if err := s.tasks.GetByID(ctx, *input.TaskID, &t); err != nil {
			if appErr.IsCode(err, appErr.CodeNotFound) {
				return nil, appErr.NotFound("task")
			}
			return nil, err
		}
		if err := authorize(ctx, s.engine, actor, &t, authz.RoleMember, "task"); err != nil {
			return nil, err
		}
	}

	th := &models.Thread{
		Title:       input.Title,
		Kind:        kind,
		ProjectID:   input.ProjectID,
		TaskID:      input.TaskID,
		CreatedByID: actorID(actor),
	}
	if err := s.threads.Create(ctx, th); err != nil {
		return nil, err
	}

	logger.L().Info("thread created", zap.Uint("thread_id", th.ID))
	if _, err := s.recorder.Record(ctx, actor, "thread.created", &models.TargetRef{Kind: models.TargetThread, ID: th.ID}, nil); err != nil {
		return nil, err
	}
	return th, nil
}

func (s *threadService) GetThread(ctx context.Context, actor *authz.Actor, threadID uint) (*models.Thread, error) {
	var th models.Thread
	if err := s.threads.GetByID(ctx, threadID, &th); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, appErr.NotFound("thread")
		}
		return nil, err
	}
	if err := authorize(ctx, s.engine, actor, &th, authz.RoleViewer, "thread"); err != nil {
		return nil, err
	}
	return &th, nil
}

func (s *threadService) ListThreads(ctx context.Context, actor *authz.Actor, filters *ThreadFilters) ([]models.Thread, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	f := repository.ThreadFilter{MemberID: memberFilter(actor)}
	if filters != nil {
		f.ProjectID = filters.ProjectID
		f.TaskID = filters.TaskID
	}
	return s.threads.List(ctx, f)
}

func (s *threadService) UpdateThread(ctx context.Context, actor *authz.Actor, threadID uint, patch *UpdateThreadInput) (*models.Thread, error) {
	var th models.Thread
	if err := s.threads.GetByID(ctx, threadID, &th); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, appErr.NotFound("thread")
		}
		return nil, err
	}
	if err := authorize(ctx, s.engine, actor, &th, authz.RoleMember, "thread"); err != nil {
		return nil, err
	}

	if patch.Title != nil {
		if *patch.Title == "" {
			return nil, appErr.Invalid("title", "title is required")
		}
		th.Title = *patch.Title
	}
	if patch.Kind != nil {
		if !patch.Kind.Valid() {
			return nil, appErr.Invalid("kind", "unknown thread kind")
		}
		th.Kind = *patch.Kind
	}

	if err := s.threads.Update(ctx, &th); err != nil {
		return nil, err
	}
	if _, err := s.recorder.Record(ctx, actor, "thread.updated", &models.TargetRef{Kind: models.TargetThread, ID: th.ID}, nil); err != nil {
		return nil, err
	}
	return &th, nil
}

func (s *threadService) DeleteThread(ctx context.Context, actor *authz.Actor, threadID uint) error {
	var th models.Thread
	if err := s.threads.GetByID(ctx, threadID, &th); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return appErr.NotFound("thread")
		}
		return err
	}
	if err := authorize(ctx, s.engine, actor, &th, authz.RoleMember, "thread"); err != nil {
		return err
	}
	if err := s.threads.Delete(ctx, threadID); err != nil {
		return err
	}
	_, err := s.recorder.Record(ctx, actor, "thread.deleted",
		&models.TargetRef{Kind: models.TargetThread, ID: threadID},
		map[string]any{"title": th.Title})
	return err
}
