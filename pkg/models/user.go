package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a dashboard administrator allowed to retrain models and change thresholds
type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}
