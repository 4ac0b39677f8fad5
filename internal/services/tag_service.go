package services

import (
	"context"

	gslug "github.com/gosimple/slug"

	"github.com/collabhub/hub/internal/authz"
	"github.com/collabhub/hub/internal/models"
	"github.com/collabhub/hub/internal/repository"
	appErr "github.com/collabhub/hub/pkg/errors"
)

// TagService manages the global tag vocabulary. Tags are not scoped to a
// project: any authenticated actor may manage them, and tag changes are not
// audited.
type TagService interface {
	CreateTag(ctx context.Context, actor *authz.Actor, input *CreateTagInput) (*models.Tag, error)
	GetTag(ctx context.Context, actor *authz.Actor, tagID uint) (*models.Tag, error)
	ListTags(ctx context.Context, actor *authz.Actor) ([]models.Tag, error)
	UpdateTag(ctx context.Context, actor *authz.Actor, tagID uint, patch *UpdateTagInput) (*models.Tag, error)
	DeleteTag(ctx context.Context, actor *authz.Actor, tagID uint) error
}

type CreateTagInput struct {
	Name        string
	Slug        string
	Color       string
	Description string
}

type UpdateTagInput struct {
	Name        *string
	Slug        *string
	Color       *string
	Description *string
}

type tagService struct {
	tags repository.TagRepository
}

func NewTagService(tags repository.TagRepository) TagService {
	return &tagService{tags: tags}
}

var _ TagService = (*tagService)(nil)

func (s *tagService) CreateTag(ctx context.Context, actor *authz.Actor, input *CreateTagInput) (*models.Tag, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if input.Name == "" {
		return nil, appErr.Invalid("name", "name is required")
	}
	slug := input.Slug
	if slug == "" {
		slug = gslug.Make(input.Name)
	}
	taken, err := s.tags.NameOrSlugTaken(ctx, input.Name, slug, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, appErr.Duplicate("tag")
	}

	t := &models.Tag{
		Name:        input.Name,
		Slug:        slug,
		Color:       input.Color,
		Description: input.Description,
	}
	if err := s.tags.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *tagService) GetTag(ctx context.Context, actor *authz.Actor, tagID uint) (*models.Tag, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	var t models.Tag
	if err := s.tags.GetByID(ctx, tagID, &t); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, appErr.NotFound("tag")
		}
		return nil, err
	}
	return &t, nil
}

func (s *tagService) ListTags(ctx context.Context, actor *authz.Actor) ([]models.Tag, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	return s.tags.List(ctx)
}

func (s *tagService) UpdateTag(ctx context.Context, actor *authz.Actor, tagID uint, patch *UpdateTagInput) (*models.Tag, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	var t models.Tag
	if err := s.tags.GetByID(ctx, tagID, &t); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, appErr.NotFound("tag")
		}
		return nil, err
	}

	if patch.Name != nil {
		if *patch.Name == "" {
			return nil, appErr.Invalid("name", "name is required")
		}
		t.Name = *patch.Name
		// Renaming re-derives the slug unless one is supplied explicitly.
		if patch.Slug == nil {
			t.Slug = gslug.Make(t.Name)
		}
	}
	if patch.Slug != nil {
		if *patch.Slug == "" {
			return nil, appErr.Invalid("slug", "slug is required")
		}
		t.Slug = *patch.Slug
	}
	if patch.Color != nil {
		t.Color = *patch.Color
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}

	taken, err := s.tags.NameOrSlugTaken(ctx, t.Name, t.Slug, t.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, appErr.Duplicate("tag")
	}
	if err := s.tags.Update(ctx, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *tagService) DeleteTag(ctx context.Context, actor *authz.Actor, tagID uint) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if err := s.tags.Delete(ctx, tagID); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return appErr.NotFound("tag")
		}
		return err
	}
	return nil
}
