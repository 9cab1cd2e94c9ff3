package db

import (
	"time"
	
	"github.com/jackc/pgx/v5/pgtype"
)

// Notification is one persisted notification record. A record is owned by
// exactly one user and, once created, only the read/read_at pair mutates.
type Notification struct {
	ID                string             `json:"id"`
	UserID            string             `json:"user_id"`
	Type              string             `json:"type"`
	Title             string             `json:"title"`
	Message           string             `json:"message"`
	RelatedEntityID   pgtype.Text        `json:"related_entity_id"`
	RelatedEntityType pgtype.Text        `json:"related_entity_type"`
	Read              bool               `json:"read"`
	ReadAt            pgtype.Timestamptz `json:"read_at"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}
