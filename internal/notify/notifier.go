// Package notify enqueues user-facing events as notification rows. Delivery
// to email/push is a downstream worker's job; this side is best-effort and
// must never fail the mutation that triggered it.
package notify

import (
	"encoding/json"
	"log/slog"

	"github.com/castlinked/castlinked-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type DBNotifier struct {
	db *gorm.DB
}

func NewDBNotifier(db *gorm.DB) *DBNotifier {
	return &DBNotifier{db: db}
}

func (n *DBNotifier) Notify(userID uuid.UUID, event string, payload map[string]interface{}) error {
	row := models.Notification{
		ID:     uuid.New(),
		UserID: userID,
		Event:  event,
	}
	if len(payload) > 0 {
		if b, err := json.Marshal(payload); err == nil {
			row.Payload = datatypes.JSON(b)
		}
	}

	if err := n.db.Create(&row).Error; err != nil {
		slog.Error("failed to enqueue notification", "event", event, "user_id", userID.String(), "error", err)
		return err
	}
	return nil
}
