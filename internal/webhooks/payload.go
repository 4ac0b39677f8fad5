package webhooks

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/collabhub/hub/internal/models"
)

// AppLabel namespaces target references in outbound payloads.
const AppLabel = "hub"

// SignatureHeader carries the hex HMAC-SHA256 of the request body, computed
// with the webhook's shared secret.
const SignatureHeader = "X-Signature"

type actorPayload struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type targetPayload struct {
	AppLabel string `json:"app_label"`
	Model    string `json:"model"`
	ID       uint   `json:"id"`
}

type eventPayload struct {
	ID        uint           `json:"id"`
	Event     string         `json:"event"`
	Actor     *actorPayload  `json:"actor"`
	Target    *targetPayload `json:"target"`
	Metadata  map[string]any `json:"metadata"`
	CreatedAt string         `json:"created_at"`
}

// BuildPayload serializes an audit event into the wire format delivered to
// webhook endpoints. The actor and target keys are always present, null when
// absent.
func BuildPayload(ev *models.AuditEvent) ([]byte, error) {
	p := eventPayload{
		ID:        ev.ID,
		Event:     ev.Verb,
		Metadata:  map[string]any{},
		CreatedAt: ev.CreatedAt.Format(time.RFC3339Nano),
	}
	if ev.Actor != nil {
		p.Actor = &actorPayload{
			ID:       ev.Actor.ID,
			Username: ev.Actor.Username,
			Email:    ev.Actor.Email,
		}
	}
	if ref := ev.Target(); ref != nil {
		p.Target = &targetPayload{
			AppLabel: AppLabel,
			Model:    string(ref.Kind),
			ID:       ref.ID,
		}
	}
	for k, v := range ev.Metadata {
		p.Metadata[k] = v
	}
	return json.Marshal(p)
}

// Sign computes the hex HMAC-SHA256 of body using the webhook secret.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
