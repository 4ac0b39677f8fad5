package services

import (
	"context"

	"gorm.io/datatypes"

	"github.com/collabhub/hub/internal/audit"
	"github.com/collabhub/hub/internal/authz"
	"github.com/collabhub/hub/internal/models"
	"github.com/collabhub/hub/internal/repository"
	appErr "github.com/collabhub/hub/pkg/errors"
)

// MessageService manages messages within threads. Author label and role
// default from the posting actor: the label falls back to the username, and
// accounts with an agent profile post as agents unless they say otherwise.
type MessageService interface {
	CreateMessage(ctx context.Context, actor *authz.Actor, input *CreateMessageInput) (*models.Message, error)
	GetMessage(ctx context.Context, actor *authz.Actor, messageID uint) (*models.Message, error)
	ListMessages(ctx context.Context, actor *authz.Actor, filters *MessageFilters) ([]models.Message, error)
	UpdateMessage(ctx context.Context, actor *authz.Actor, messageID uint, patch *UpdateMessageInput) (*models.Message, error)
	DeleteMessage(ctx context.Context, actor *authz.Actor, messageID uint) error
}

type CreateMessageInput struct {
	ThreadID    uint
	Body        string
	AuthorRole  models.AuthorRole
	AuthorLabel string
	Metadata    map[string]any
}

type UpdateMessageInput struct {
	Body     *string
	Metadata map[string]any
}

type MessageFilters struct {
	ThreadID *uint
}

type messageService struct {
	messages repository.MessageRepository
	threads  repository.ThreadRepository
	users    repository.UserRepository
	engine   *authz.Engine
	recorder *audit.Recorder
}

func NewMessageService(messages repository.MessageRepository, threads repository.ThreadRepository, users repository.UserRepository, engine *authz.Engine, recorder *audit.Recorder) MessageService {
	return &messageService{messages: messages, threads: threads, users: users, engine: engine, recorder: recorder}
}

var _ MessageService = (*messageService)(nil)

func (s *messageService) CreateMessage(ctx context.Context, actor *authz.Actor, input *CreateMessageInput) (*models.Message, error) {
	var th models.Thread
	if err := s.threads.GetByID(ctx, input.ThreadID, &th); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, appErr.NotFound("thread")
		}
		return nil, err
	}
	if err := authorize(ctx, s.engine, actor, &th, authz.RoleMember, "thread"); err != nil {
		return nil, err
	}
	if input.Body == "" {
		return nil, appErr.Invalid("body", "body is required")
	}

	role := input.AuthorRole
	label := input.AuthorLabel
	if role == "" || label == "" {
		var u models.User
		if err := s.users.GetWithProfile(ctx, actor.ID, &u); err != nil {
			return nil, err
		}
		if label == "" {
			label = u.Username
			if u.Profile != nil && u.Profile.DisplayName != "" {
				label = u.Profile.DisplayName
			}
		}
		if role == "" {
			role = models.AuthorHuman
			if u.Profile != nil && u.Profile.Kind == models.ProfileAgent {
				role = models.AuthorAgent
			}
		}
	}
	if !role.Valid() {
		return nil, appErr.Invalid("author_role", "unknown author role")
	}

	m := &models.Message{
		ThreadID:    input.ThreadID,
		AuthorRole:  role,
		AuthorLabel: label,
		Body:        input.Body,
		Metadata:    datatypes.JSONMap(input.Metadata),
		CreatedByID: actorID(actor),
	}
	if err := s.messages.Create(ctx, m); err != nil {
		return nil, err
	}

	if _, err := s.recorder.Record(ctx, actor, "message.created",
		&models.TargetRef{Kind: models.TargetMessage, ID: m.ID},
		map[string]any{"thread_id": m.ThreadID}); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *messageService) GetMessage(ctx context.Context, actor *authz.Actor, messageID uint) (*models.Message, error) {
	var m models.Message
	if err := s.messages.GetByID(ctx, messageID, &m); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, appErr.NotFound("message")
		}
		return nil, err
	}
	if err := authorize(ctx, s.engine, actor, &m, authz.RoleViewer, "message"); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *messageService) ListMessages(ctx context.Context, actor *authz.Actor, filters *MessageFilters) ([]models.Message, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	f := repository.MessageFilter{MemberID: memberFilter(actor)}
	if filters != nil {
		f.ThreadID = filters.ThreadID
	}
	return s.messages.List(ctx, f)
}

func (s *messageService) UpdateMessage(ctx context.Context, actor *authz.Actor, messageID uint, patch *UpdateMessageInput) (*models.Message, error) {
	var m models.Message
	if err := s.messages.GetByID(ctx, messageID, &m); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, appErr.NotFound("message")
		}
		return nil, err
	}
	if err := authorize(ctx, s.engine, actor, &m, authz.RoleMember, "message"); err != nil {
		return nil, err
	}

	if patch.Body != nil {
		if *patch.Body == "" {
			return nil, appErr.Invalid("body", "body is required")
		}
		m.Body = *patch.Body
	}
	if patch.Metadata != nil {
		m.Metadata = datatypes.JSONMap(patch.Metadata)
	}

	if err := s.messages.Update(ctx, &m); err != nil {
		return nil, err
	}
	if _, err := s.recorder.Record(ctx, actor, "message.updated",
		&models.TargetRef{Kind: models.TargetMessage, ID: m.ID},
		map[string]any{"thread_id": m.ThreadID}); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *messageService) DeleteMessage(ctx context.Context, actor *authz.Actor, messageID uint) error {
	var m models.Message
	if err := s.messages.GetByID(ctx, messageID, &m); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return appErr.NotFound("message")
		}
		return err
	}
	if err := authorize(ctx, s.engine, actor, &m, authz.RoleMember, "message"); err != nil {
		return err
	}
	if err := s.messages.Delete(ctx, messageID); err != nil {
		return err
	}
	_, err := s.recorder.Record(ctx, actor, "message.deleted",
		&models.TargetRef{Kind: models.TargetMessage, ID: messageID},
		map[string]any{"thread_id": m.ThreadID})
	return err
}
