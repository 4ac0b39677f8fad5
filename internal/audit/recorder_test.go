package audit

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/collabhub/hub/internal/authz"
	"github.com/collabhub/hub/internal/models"
	"github.com/collabhub/hub/internal/repository"
	"github.com/collabhub/hub/pkg/logger"
)

type captureDispatcher struct {
	events []*models.AuditEvent
}

func (c *captureDispatcher) Dispatch(_ context.Context, ev *models.AuditEvent) {
	c.events = append(c.events, ev)
}

func newRecorderEnv(t *testing.T) (*Recorder, repository.AuditRepository, *captureDispatcher) {
	t.Helper()
	logger.InitNop()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.AuditEvent{}))

	events := repository.NewAuditRepository(db)
	dispatched := &captureDispatcher{}
	return NewRecorder(events, dispatched), events, dispatched
}

func TestRecordPersistsAndDispatches(t *testing.T) {
	rec, events, dispatched := newRecorderEnv(t)
	ctx := context.Background()
	actor := &authz.Actor{ID: 7, Username: "alice", Email: "alice@example.com"}

	ev, err := rec.Record(ctx, actor, "task.created",
		&models.TargetRef{Kind: models.TargetTask, ID: 42},
		map[string]any{"project_id": uint(1)},
	)
	require.NoError(t, err)
	require.NotZero(t, ev.ID)

	// The dispatcher sees the same event, with the actor snapshot attached.
	require.Len(t, dispatched.events, 1)
	require.Same(t, ev, dispatched.events[0])
	require.NotNil(t, ev.Actor)
	require.Equal(t, "alice", ev.Actor.Username)
	require.Equal(t, "alice@example.com", ev.Actor.Email)

	// The stored row carries only the actor id, not the snapshot.
	var stored models.AuditEvent
	require.NoError(t, events.GetByID(ctx, ev.ID, &stored))
	require.Equal(t, "task.created", stored.Verb)
	require.NotNil(t, stored.ActorID)
	require.Equal(t, uint(7), *stored.ActorID)
	require.Equal(t, models.TargetTask, stored.TargetKind)
	require.NotNil(t, stored.TargetID)
	require.Equal(t, uint(42), *stored.TargetID)
}

func TestRecordAnonymousAndTargetless(t *testing.T) {
	rec, events, dispatched := newRecorderEnv(t)
	ctx := context.Background()

	ev, err := rec.Record(ctx, nil, "system.maintenance", nil, nil)
	require.NoError(t, err)
	require.Nil(t, ev.ActorID)
	require.Nil(t, ev.Actor)
	require.Nil(t, ev.Target())
	require.Len(t, dispatched.events, 1)

	var stored models.AuditEvent
	require.NoError(t, events.GetByID(ctx, ev.ID, &stored))
	require.Nil(t, stored.ActorID)
	require.Empty(t, stored.TargetKind)
}

func TestRecordRowExistsBeforeDispatch(t *testing.T) {
	logger.InitNop()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.AuditEvent{}))

	events := repository.NewAuditRepository(db)
	probe := &rowProbe{t: t, events: events}
	rec := NewRecorder(events, probe)

	_, err = rec.Record(context.Background(), nil, "project.created", nil, nil)
	require.NoError(t, err)
	require.True(t, probe.sawRow)
}

// rowProbe asserts the audit row is already readable when Dispatch runs.
type rowProbe struct {
	t      *testing.T
	events repository.AuditRepository
	sawRow bool
}

func (p *rowProbe) Dispatch(ctx context.Context, ev *models.AuditEvent) {
	var stored models.AuditEvent
	require.NoError(p.t, p.events.GetByID(ctx, ev.ID, &stored))
	p.sawRow = true
}
