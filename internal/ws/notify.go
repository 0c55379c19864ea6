package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const EventProfileUpdated = "profile_updated"

type ProfileUpdatedEvent struct {
	Type         string  `json:"type"`
	UserID       string  `json:"userId"`
	OverallScore float64 `json:"overallScore"`
	Source       string  `json:"source"`
	Timestamp    string  `json:"timestamp"`
}

// NotifyProfileUpdated pushes a profile_updated event to the user's open
// dashboards. source names the flow that changed the profile.
func (h *Hub) NotifyProfileUpdated(userID uuid.UUID, overallScore float64, source string) {
	if h == nil || userID == uuid.Nil {
		return
	}
	evt := ProfileUpdatedEvent{
		Type:         EventProfileUpdated,
		UserID:       userID.String(),
		OverallScore: overallScore,
		Source:       source,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		h.log.Warn("ws event encode failed", zap.Error(err))
		return
	}
	h.SendToUser(userID, b)
}
