package services

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/collabhub/hub/internal/audit"
	"github.com/collabhub/hub/internal/authz"
	"github.com/collabhub/hub/internal/models"
	"github.com/collabhub/hub/internal/repository"
	appErr "github.com/collabhub/hub/pkg/errors"
	"github.com/collabhub/hub/pkg/logger"
)

// ProjectService owns project lifecycle: creation (with the atomic OWNER
// membership), visibility-scoped reads, updates, and owner-gated deletion.
type ProjectService interface {
	CreateProject(ctx context.Context, actor *authz.Actor, input *CreateProjectInput) (*models.Project, error)
	GetProject(ctx context.Context, actor *authz.Actor, projectID uint) (*models.Project, error)
	ListProjects(ctx context.Context, actor *authz.Actor, filters *ProjectFilters) ([]models.Project, error)
	UpdateProject(ctx context.Context, actor *authz.Actor, projectID uint, patch *UpdateProjectInput) (*models.Project, error)
	DeleteProject(ctx context.Context, actor *authz.Actor, projectID uint) error
}

type CreateProjectInput struct {
	Name        string
	Description string
}

type UpdateProjectInput struct {
	Name        *string
	Description *string
	IsArchived  *bool
}

type ProjectFilters struct {
	IncludeArchived bool
}

type projectService struct {
	db       *gorm.DB
	projects repository.ProjectRepository
	engine   *authz.Engine
	recorder *audit.Recorder
}

func NewProjectService(db *gorm.DB, projects repository.ProjectRepository, engine *authz.Engine, recorder *audit.Recorder) ProjectService {
	return &projectService{db: db, projects: projects, engine: engine, recorder: recorder}
}

var _ ProjectService = (*projectService)(nil)

// CreateProject creates the project and the creator's OWNER membership in a
// single transaction: there is no observable state where the project exists
// without someone authorized to manage it.
func (s *projectService) CreateProject(ctx context.Context, actor *authz.Actor, input *CreateProjectInput) (*models.Project, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if input.Name == "" {
		return nil, appErr.Invalid("name", "name is required")
	}

	p := &models.Project{
		Name:        input.Name,
		Description: input.Description,
		CreatedByID: actorID(actor),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return appErr.Wrap(err, appErr.CodeInternal, "create project failed")
		}
		m := &models.ProjectMembership{
			ProjectID:   p.ID,
			UserID:      actor.ID,
			Role:        authz.RoleOwner,
			InvitedByID: actorID(actor),
		}
		if err := tx.Create(m).Error; err != nil {
			return appErr.Wrap(err, appErr.CodeInternal, "create owner membership failed")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.L().Info("project created", zap.Uint("project_id", p.ID), zap.Uint("actor_id", actor.ID))
	if _, err := s.recorder.Record(ctx, actor, "project.created", &models.TargetRef{Kind: models.TargetProject, ID: p.ID}, nil); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *projectService) GetProject(ctx context.Context, actor *authz.Actor, projectID uint) (*models.Project, error) {
	var p models.Project
	if err := s.projects.GetByID(ctx, projectID, &p); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, appErr.NotFound("project")
		}
		return nil, err
	}
	if err := authorize(ctx, s.engine, actor, &p, authz.RoleViewer, "project"); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *projectService) ListProjects(ctx context.Context, actor *authz.Actor, filters *ProjectFilters) ([]models.Project, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	f := repository.ProjectFilter{MemberID: memberFilter(actor)}
	if filters != nil {
		f.IncludeArchived = filters.IncludeArchived
	}
	return s.projects.List(ctx, f)
}

func (s *projectService) UpdateProject(ctx context.Context, actor *authz.Actor, projectID uint, patch *UpdateProjectInput) (*models.Project, error) {
	var p models.Project
	if err := s.projects.GetByID(ctx, projectID, &p); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, appErr.NotFound("project")
		}
		return nil, err
	}
	if err := authorize(ctx, s.engine, actor, &p, authz.RoleMember, "project"); err != nil {
		return nil, err
	}

	if patch.Name != nil {
		if *patch.Name == "" {
			return nil, appErr.Invalid("name", "name is required")
		}
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.IsArchived != nil {
		p.IsArchived = *patch.IsArchived
	}

	if err := s.projects.Update(ctx, &p); err != nil {
		return nil, err
	}
	if _, err := s.recorder.Record(ctx, actor, "project.updated", &models.TargetRef{Kind: models.TargetProject, ID: p.ID}, nil); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *projectService) DeleteProject(ctx context.Context, actor *authz.Actor, projectID uint) error {
	var p models.Project
	if err := s.projects.GetByID(ctx, projectID, &p); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return appErr.NotFound("project")
		}
		return err
	}
	if err := authorize(ctx, s.engine, actor, &p, authz.RoleOwner, "project"); err != nil {
		return err
	}
	if err := s.projects.Delete(ctx, projectID); err != nil {
		return err
	}
	logger.L().Info("project deleted", zap.Uint("project_id", projectID), zap.Uint("actor_id", actor.ID))
	_, err := s.recorder.Record(ctx, actor, "project.deleted",
		&models.TargetRef{Kind: models.TargetProject, ID: projectID},
		map[string]any{"name": p.Name})
	return err
}
