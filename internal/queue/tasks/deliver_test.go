package tasks

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/collabhub/hub/internal/models"
	"github.com/collabhub/hub/internal/repository"
	"github.com/collabhub/hub/internal/webhooks"
	"github.com/collabhub/hub/pkg/logger"
)

func newHandlerEnv(t *testing.T, hookURL string) (*DeliverTaskHandler, repository.AuditRepository) {
	t.Helper()
	logger.InitNop()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.AuditEvent{}, &models.Webhook{}))

	events := repository.NewAuditRepository(db)
	hooks := repository.NewWebhookRepository(db)
	if hookURL != "" {
		require.NoError(t, hooks.Create(context.Background(), &models.Webhook{
			Name: "sink", URL: hookURL, IsActive: true,
		}))
	}
	return NewDeliverTaskHandler(events, webhooks.NewDeliverer(hooks, time.Second)), events
}

func TestHandleDeliverHappyPath(t *testing.T) {
	var bodies [][]byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		bodies = append(bodies, b)
	}))
	defer srv.Close()

	h, events := newHandlerEnv(t, srv.URL)
	ctx := context.Background()
	ev := &models.AuditEvent{Verb: "task.created"}
	require.NoError(t, events.Create(ctx, ev))

	raw, err := json.Marshal(webhooks.DeliverPayload{EventID: ev.ID})
	require.NoError(t, err)
	require.NoError(t, h.HandleDeliver(ctx, asynq.NewTask(webhooks.TaskTypeDeliver, raw)))

	require.Len(t, bodies, 1)
	var got map[string]any
	require.NoError(t, json.Unmarshal(bodies[0], &got))
	require.Equal(t, "task.created", got["event"])
}

func TestHandleDeliverNeverRetries(t *testing.T) {
	h, _ := newHandlerEnv(t, "")
	ctx := context.Background()

	// Malformed payloads and vanished events both complete without error so
	// asynq never reschedules the task.
	require.NoError(t, h.HandleDeliver(ctx, asynq.NewTask(webhooks.TaskTypeDeliver, []byte("{not json"))))

	raw, err := json.Marshal(webhooks.DeliverPayload{EventID: 9999})
	require.NoError(t, err)
	require.NoError(t, h.HandleDeliver(ctx, asynq.NewTask(webhooks.TaskTypeDeliver, raw)))
}
