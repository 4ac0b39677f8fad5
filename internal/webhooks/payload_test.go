package webhooks

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/collabhub/hub/internal/models"
)

func TestBuildPayloadFullEvent(t *testing.T) {
	actorID := uint(7)
	targetID := uint(42)
	ev := &models.AuditEvent{
		ID:         3,
		ActorID:    &actorID,
		Actor:      &models.User{ID: 7, Username: "alice", Email: "alice@example.com"},
		Verb:       "task.created",
		TargetKind: models.TargetTask,
		TargetID:   &targetID,
		Metadata:   map[string]any{"project_id": float64(1)},
		CreatedAt:  time.Date(2025, 6, 1, 12, 0, 0, 500000000, time.UTC),
	}

	body, err := BuildPayload(ev)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(body, &got))
	require.Equal(t, float64(3), got["id"])
	require.Equal(t, "task.created", got["event"])
	require.Equal(t, map[string]any{
		"id": float64(7), "username": "alice", "email": "alice@example.com",
	}, got["actor"])
	require.Equal(t, map[string]any{
		"app_label": "hub", "model": "task", "id": float64(42),
	}, got["target"])
	require.Equal(t, map[string]any{"project_id": float64(1)}, got["metadata"])
	require.Equal(t, "2025-06-01T12:00:00.5Z", got["created_at"])
}

func TestBuildPayloadAnonymousAndTargetless(t *testing.T) {
	ev := &models.AuditEvent{ID: 1, Verb: "system.maintenance", CreatedAt: time.Now()}

	body, err := BuildPayload(ev)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(body, &got))
	// Keys are present, explicitly null.
	v, ok := got["actor"]
	require.True(t, ok)
	require.Nil(t, v)
	v, ok = got["target"]
	require.True(t, ok)
	require.Nil(t, v)
	// Metadata is always an object, never null.
	require.Equal(t, map[string]any{}, got["metadata"])
}

func TestSignMatchesHMACSHA256(t *testing.T) {
	body := []byte(`{"id":1}`)
	mac := hmac.New(sha256.New, []byte("s3cret"))
	mac.Write(body)
	want := hex.EncodeToString(mac.Sum(nil))
	require.Equal(t, want, Sign("s3cret", body))
}
