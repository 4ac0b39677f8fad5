package services

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/collabhub/hub/internal/audit"
	"github.com/collabhub/hub/internal/authz"
	"github.com/collabhub/hub/internal/models"
	"github.com/collabhub/hub/internal/repository"
	"github.com/collabhub/hub/pkg/logger"
)

// captureDispatcher records dispatched events instead of delivering them.
type captureDispatcher struct {
	events []*models.AuditEvent
}

func (c *captureDispatcher) Dispatch(_ context.Context, ev *models.AuditEvent) {
	c.events = append(c.events, ev)
}

func (c *captureDispatcher) verbs() []string {
	out := make([]string, 0, len(c.events))
	for _, ev := range c.events {
		out = append(out, ev.Verb)
	}
	return out
}

type testEnv struct {
	db         *gorm.DB
	users      repository.UserRepository
	projects   repository.ProjectRepository
	members    repository.MembershipRepository
	tasks      repository.TaskRepository
	tags       repository.TagRepository
	threads    repository.ThreadRepository
	messages   repository.MessageRepository
	assigns    repository.AssignmentRepository
	audits     repository.AuditRepository
	engine     *authz.Engine
	recorder   *audit.Recorder
	dispatched *captureDispatcher

	projectSvc    ProjectService
	membershipSvc MembershipService
	taskSvc       TaskService
	assignmentSvc AssignmentService
	threadSvc     ThreadService
	messageSvc    MessageService
	tagSvc        TagService
	webhookSvc    WebhookService
	auditSvc      AuditService
	userSvc       UserService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger.InitNop()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.UserProfile{},
		&models.Project{},
		&models.ProjectMembership{},
		&models.Tag{},
		&models.Task{},
		&models.TaskAssignment{},
		&models.Thread{},
		&models.Message{},
		&models.AuditEvent{},
		&models.Webhook{},
	))

	env := &testEnv{
		db:         db,
		users:      repository.NewUserRepository(db),
		projects:   repository.NewProjectRepository(db),
		members:    repository.NewMembershipRepository(db),
		tasks:      repository.NewTaskRepository(db),
		tags:       repository.NewTagRepository(db),
		threads:    repository.NewThreadRepository(db),
		messages:   repository.NewMessageRepository(db),
		assigns:    repository.NewAssignmentRepository(db),
		audits:     repository.NewAuditRepository(db),
		dispatched: &captureDispatcher{},
	}
	env.engine = authz.NewEngine(env.members, repository.NewScopeLookup(db))
	env.recorder = audit.NewRecorder(env.audits, env.dispatched)

	env.projectSvc = NewProjectService(db, env.projects, env.engine, env.recorder)
	env.membershipSvc = NewMembershipService(env.projects, env.members, env.users, env.engine, env.recorder)
	env.taskSvc = NewTaskService(env.tasks, env.projects, env.tags, env.engine, env.recorder)
	env.assignmentSvc = NewAssignmentService(env.assigns, env.tasks, env.users, env.engine, env.recorder)
	env.threadSvc = NewThreadService(env.threads, env.projects, env.tasks, env.engine, env.recorder)
	env.messageSvc = NewMessageService(env.messages, env.threads, env.users, env.engine, env.recorder)
	env.tagSvc = NewTagService(env.tags)
	env.webhookSvc = NewWebhookService(repository.NewWebhookRepository(db))
	env.auditSvc = NewAuditService(env.audits, audit.NewResolver(db))
	env.userSvc = NewUserService(env.users)
	return env
}

func (e *testEnv) createUser(t *testing.T, username string, kind models.ProfileKind, superuser bool) *authz.Actor {
	t.Helper()
	u := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		IsSuperuser:  superuser,
		Profile:      &models.UserProfile{Kind: kind},
	}
	require.NoError(t, e.users.Create(context.Background(), u))
	return &authz.Actor{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		IsSuperuser: u.IsSuperuser,
	}
}

// createProject bootstraps a project owned by the actor.
func (e *testEnv) createProject(t *testing.T, owner *authz.Actor, name string) *models.Project {
	t.Helper()
	p, err := e.projectSvc.CreateProject(context.Background(), owner, &CreateProjectInput{Name: name})
	require.NoError(t, err)
	return p
}

// addMember grants the user a role in the project directly, bypassing the
// service layer, for test setup.
func (e *testEnv) addMember(t *testing.T, projectID, userID uint, role authz.Role) {
	t.Helper()
	require.NoError(t, e.members.Create(context.Background(), &models.ProjectMembership{
		ProjectID: projectID,
		UserID:    userID,
		Role:      role,
	}))
}
