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

// MembershipService manages who belongs to a project and with what role.
// Every operation is gated on ADMIN in the target project.
type MembershipService interface {
	AddMember(ctx context.Context, actor *authz.Actor, input *AddMemberInput) (*models.ProjectMembership, error)
	ListMembers(ctx context.Context, actor *authz.Actor, projectID uint) ([]models.ProjectMembership, error)
	UpdateMember(ctx context.Context, actor *authz.Actor, projectID, membershipID uint, role authz.Role) (*models.ProjectMembership, error)
	RemoveMember(ctx context.Context, actor *authz.Actor, projectID, membershipID uint) error
}

type AddMemberInput struct {
	ProjectID uint
	UserID    uint
	Role      authz.Role
}

type membershipService struct {
	projects    repository.ProjectRepository
	memberships repository.MembershipRepository
	users       repository.UserRepository
	engine      *authz.Engine
	recorder    *audit.Recorder
}

func NewMembershipService(projects repository.ProjectRepository, memberships repository.MembershipRepository, users repository.UserRepository, engine *authz.Engine, recorder *audit.Recorder) MembershipService {
	return &membershipService{projects: projects, memberships: memberships, users: users, engine: engine, recorder: recorder}
}

var _ MembershipService = (*membershipService)(nil)

// loadProject resolves the project behind every membership operation.
// Invisible projects surface as not_found before any threshold check.
func (s *membershipService) loadProject(ctx context.Context, actor *authz.Actor, projectID uint, min authz.Role) (*models.Project, error) {
	var p models.Project
	if err := s.projects.GetByID(ctx, projectID, &p); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, appErr.NotFound("project")
		}
		return nil, err
	}
	if err := authorize(ctx, s.engine, actor, &p, min, "project"); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *membershipService) AddMember(ctx context.Context, actor *authz.Actor, input *AddMemberInput) (*models.ProjectMembership, error) {
	if _, err := s.loadProject(ctx, actor, input.ProjectID, authz.RoleAdmin); err != nil {
		return nil, err
	}
	role := input.Role
	if role == "" {
		role = authz.RoleMember
	}
	if !role.Valid() {
		return nil, appErr.Invalid("role", "unknown role")
	}
	var u models.User
	if err := s.users.GetByID(ctx, input.UserID, &u); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, appErr.Invalid("user_id", "user does not exist")
		}
		return nil, err
	}

	m := &models.ProjectMembership{
		ProjectID:   input.ProjectID,
		UserID:      input.UserID,
		Role:        role,
		InvitedByID: actorID(actor),
	}
	if err := s.memberships.Create(ctx, m); err != nil {
		return nil, err
	}
	m.User = &u

	logger.L().Info("member added",
		zap.Uint("project_id", input.ProjectID),
		zap.Uint("user_id", input.UserID),
		zap.String("role", string(role)))
	if _, err := s.recorder.Record(ctx, actor, "membership.created",
		&models.TargetRef{Kind: models.TargetMembership, ID: m.ID},
		map[string]any{"project_id": input.ProjectID, "user_id": input.UserID, "role": string(role)}); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *membershipService) ListMembers(ctx context.Context, actor *authz.Actor, projectID uint) ([]models.ProjectMembership, error) {
	if _, err := s.loadProject(ctx, actor, projectID, authz.RoleViewer); err != nil {
		return nil, err
	}
	return s.memberships.ListByProject(ctx, projectID)
}

func (s *membershipService) UpdateMember(ctx context.Context, actor *authz.Actor, projectID, membershipID uint, role authz.Role) (*models.ProjectMembership, error) {
	if _, err := s.loadProject(ctx, actor, projectID, authz.RoleAdmin); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, appErr.Invalid("role", "unknown role")
	}
	var m models.ProjectMembership
	if err := s.memberships.GetByID(ctx, membershipID, &m); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, appErr.NotFound("membership")
		}
		return nil, err
	}
	if m.ProjectID != projectID {
		return nil, appErr.NotFound("membership")
	}

	previous := m.Role
	m.Role = role
	if err := s.memberships.Update(ctx, &m); err != nil {
		return nil, err
	}
	if _, err := s.recorder.Record(ctx, actor, "membership.updated",
		&models.TargetRef{Kind: models.TargetMembership, ID: m.ID},
		map[string]any{"project_id": projectID, "user_id": m.UserID, "role": string(role), "previous_role": string(previous)}); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *membershipService) RemoveMember(ctx context.Context, actor *authz.Actor, projectID, membershipID uint) error {
	if _, err := s.loadProject(ctx, actor, projectID, authz.RoleAdmin); err != nil {
		return err
	}
	var m models.ProjectMembership
	if err := s.memberships.GetByID(ctx, membershipID, &m); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return appErr.NotFound("membership")
		}
		return err
	}
	if m.ProjectID != projectID {
		return appErr.NotFound("membership")
	}
	if err := s.memberships.Delete(ctx, membershipID); err != nil {
		return err
	}
	_, err := s.recorder.Record(ctx, actor, "membership.deleted",
		&models.TargetRef{Kind: models.TargetMembership, ID: membershipID},
		map[string]any{"project_id": projectID, "user_id": m.UserID, "role": string(m.Role)})
	return err
}
