package notification

import (
	"fmt"
	"time"
	
	"github.com/jackc/pgx/v5/pgtype"
	
	db "github.com/hostelia/hostelia-BE/internal/db/sqlc"
)

// Notification type tags. The set grows as new business events are added;
// it is validated at the boundary but stored as plain text so a new tag
// needs no migration.
const (
	TypeProblemCreated       = "problem_created"
	TypeProblemStatusUpdated = "problem_status_updated"
	TypeFeeSubmitted         = "fee_submitted"
	TypeFeeStatusUpdated     = "fee_status_updated"
	TypeMessFeedback         = "mess_feedback"
	TypeAnnouncement         = "announcement"
	TypeTransitLogged        = "transit_logged"
	TypeContactMessage       = "contact_message"
)

// Related entity tags. The pair (type, id) is a weak reference: deleting
// the referenced entity never touches the notification.
const (
	EntityProblem      = "problem"
	EntityFee          = "fee"
	EntityAnnouncement = "announcement"
	EntityMessMenu     = "mess_menu"
	EntityTransitEntry = "transit_entry"
	EntityContact      = "contact"
)

const (
	maxTitleLength   = 200
	maxMessageLength = 2000
)

var knownTypes = map[string]struct{}{
	TypeProblemCreated:       {},
	TypeProblemStatusUpdated: {},
	TypeFeeSubmitted:         {},
	TypeFeeStatusUpdated:     {},
	TypeMessFeedback:         {},
	TypeAnnouncement:         {},
	TypeTransitLogged:        {},
	TypeContactMessage:       {},
}

var knownEntityTypes = map[string]struct{}{
	EntityProblem:      {},
	EntityFee:          {},
	EntityAnnouncement: {},
	EntityMessMenu:     {},
	EntityTransitEntry: {},
	EntityContact:      {},
}

func IsKnownType(value string) bool {
	_, ok := knownTypes[value]
	return ok
}

func IsKnownEntityType(value string) bool {
	_, ok := knownEntityTypes[value]
	return ok
}

// CreateParams carries the data a business collaborator supplies when it
// requests a notification.
type CreateParams struct {
	UserID            string `json:"user_id"`
	Type              string `json:"type"`
	Title             string `json:"title"`
	Message           string `json:"message"`
	RelatedEntityID   string `json:"related_entity_id"`
	RelatedEntityType string `json:"related_entity_type"`
}

// ValidateData checks everything except the recipient, which bulk creation
// supplies separately.
func (params CreateParams) ValidateData() error {
	if !IsKnownType(params.Type) {
		return fmt.Errorf("unknown notification type %q", params.Type)
	}
	if params.Title == "" || len(params.Title) > maxTitleLength {
		return fmt.Errorf("title must contain from 1 to %d characters", maxTitleLength)
	}
	if params.Message == "" || len(params.Message) > maxMessageLength {
		return fmt.Errorf("message must contain from 1 to %d characters", maxMessageLength)
	}
	if params.RelatedEntityType != "" && !IsKnownEntityType(params.RelatedEntityType) {
		return fmt.Errorf("unknown related entity type %q", params.RelatedEntityType)
	}
	if (params.RelatedEntityID == "") != (params.RelatedEntityType == "") {
		return fmt.Errorf("related entity id and type must be provided together")
	}
	
	return nil
}

func (params CreateParams) Validate() error {
	if params.UserID == "" {
		return fmt.Errorf("user ID is required")
	}
	
	return params.ValidateData()
}

// EventPayload is the JSON body pushed over a live channel for one record.
type EventPayload struct {
	ID                string    `json:"id"`
	Type              string    `json:"type"`
	Title             string    `json:"title"`
	Message           string    `json:"message"`
	RelatedEntityID   *string   `json:"related_entity_id"`
	RelatedEntityType *string   `json:"related_entity_type"`
	Read              bool      `json:"read"`
	CreatedAt         time.Time `json:"created_at"`
}

func NewEventPayload(n db.Notification) EventPayload {
	payload := EventPayload{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
	
	if n.RelatedEntityID.Valid {
		payload.RelatedEntityID = &n.RelatedEntityID.String
	}
	if n.RelatedEntityType.Valid {
		payload.RelatedEntityType = &n.RelatedEntityType.String
	}
	
	return payload
}

func textOrNull(value string) pgtype.Text {
	return pgtype.Text{String: value, Valid: value != ""}
}
