package db

import (
	"context"
	"time"
	
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const createNotification = `
INSERT INTO notifications (id, user_id, type, title, message, related_entity_id, related_entity_type)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, user_id, type, title, message, related_entity_id, related_entity_type, read, read_at, created_at, updated_at
`

type CreateNotificationParams struct {
	ID                string      `json:"id"`
	UserID            string      `json:"user_id"`
	Type              string      `json:"type"`
	Title             string      `json:"title"`
	Message           string      `json:"message"`
	RelatedEntityID   pgtype.Text `json:"related_entity_id"`
	RelatedEntityType pgtype.Text `json:"related_entity_type"`
}

func (q *Queries) CreateNotification(ctx context.Context, arg CreateNotificationParams) (Notification, error) {
	row := q.db.QueryRow(ctx, createNotification,
		arg.ID,
		arg.UserID,
		arg.Type,
		arg.Title,
		arg.Message,
		arg.RelatedEntityID,
		arg.RelatedEntityType,
	)
	
	var n Notification
	err := row.Scan(
		&n.ID,
		&n.UserID,
		&n.Type,
		&n.Title,
		&n.Message,
		&n.RelatedEntityID,
		&n.RelatedEntityType,
		&n.Read,
		&n.ReadAt,
		&n.CreatedAt,
		&n.UpdatedAt,
	)
	return n, err
}

type CreateNotificationsParams struct {
	ID                string      `json:"id"`
	UserID            string      `json:"user_id"`
	Type              string      `json:"type"`
	Title             string      `json:"title"`
	Message           string      `json:"message"`
	RelatedEntityID   pgtype.Text `json:"related_entity_id"`
	RelatedEntityType pgtype.Text `json:"related_entity_type"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

// CreateNotifications bulk-inserts one record per recipient using the
// Postgres COPY protocol.
func (q *Queries) CreateNotifications(ctx context.Context, args []CreateNotificationsParams) (int64, error) {
	return q.db.CopyFrom(
		ctx,
		pgx.Identifier{"notifications"},
		[]string{"id", "user_id", "type", "title", "message", "related_entity_id", "related_entity_type", "created_at", "updated_at"},
		pgx.CopyFromSlice(len(args), func(i int) ([]any, error) {
			return []any{
				args[i].ID,
				args[i].UserID,
				args[i].Type,
				args[i].Title,
				args[i].Message,
				args[i].RelatedEntityID,
				args[i].RelatedEntityType,
				args[i].CreatedAt,
				args[i].UpdatedAt,
			}, nil
		}),
	)
}

const listNotificationsByUser = `
SELECT id, user_id, type, title, message, related_entity_id, related_entity_type, read, read_at, created_at, updated_at
FROM notifications
WHERE user_id = $1
  AND (NOT $2::bool OR read = FALSE)
ORDER BY created_at DESC
LIMIT $3 OFFSET $4
`

type ListNotificationsByUserParams struct {
	UserID     string `json:"user_id"`
	UnreadOnly bool   `json:"unread_only"`
	Limit      int32  `json:"limit"`
	Offset     int32  `json:"offset"`
}

func (q *Queries) ListNotificationsByUser(ctx context.Context, arg ListNotificationsByUserParams) ([]Notification, error) {
	rows, err := q.db.Query(ctx, listNotificationsByUser,
		arg.UserID,
		arg.UnreadOnly,
		arg.Limit,
		arg.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	
	items := []Notification{}
	for rows.Next() {
		var n Notification
		if err := rows.Scan(
			&n.ID,
			&n.UserID,
			&n.Type,
			&n.Title,
			&n.Message,
			&n.RelatedEntityID,
			&n.RelatedEntityType,
			&n.Read,
			&n.ReadAt,
			&n.CreatedAt,
			&n.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	
	return items, rows.Err()
}

const countNotificationsByUser = `
SELECT count(*) FROM notifications
WHERE user_id = $1
  AND (NOT $2::bool OR read = FALSE)
`

type CountNotificationsByUserParams struct {
	UserID     string `json:"user_id"`
	UnreadOnly bool   `json:"unread_only"`
}

func (q *Queries) CountNotificationsByUser(ctx context.Context, arg CountNotificationsByUserParams) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, countNotificationsByUser, arg.UserID, arg.UnreadOnly).Scan(&count)
	return count, err
}

const countUnreadNotificationsByUser = `
SELECT count(*) FROM notifications
WHERE user_id = $1 AND read = FALSE
`

func (q *Queries) CountUnreadNotificationsByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, countUnreadNotificationsByUser, userID).Scan(&count)
	return count, err
}

const markNotificationRead = `
UPDATE notifications
SET read = TRUE,
    read_at = COALESCE(read_at, now()),
    updated_at = now()
WHERE id = $1 AND user_id = $2
RETURNING id, user_id, type, title, message, related_entity_id, related_entity_type, read, read_at, created_at, updated_at
`

type MarkNotificationReadParams struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
}

// MarkNotificationRead marks one owned notification as read. The user_id
// predicate is the ownership check: a foreign id scans as ErrRecordNotFound.
func (q *Queries) MarkNotificationRead(ctx context.Context, arg MarkNotificationReadParams) (Notification, error) {
	row := q.db.QueryRow(ctx, markNotificationRead, arg.ID, arg.UserID)
	
	var n Notification
	err := row.Scan(
		&n.ID,
		&n.UserID,
		&n.Type,
		&n.Title,
		&n.Message,
		&n.RelatedEntityID,
		&n.RelatedEntityType,
		&n.Read,
		&n.ReadAt,
		&n.CreatedAt,
		&n.UpdatedAt,
	)
	return n, err
}

const markAllNotificationsRead = `
UPDATE notifications
SET read = TRUE,
    read_at = now(),
    updated_at = now()
WHERE user_id = $1 AND read = FALSE
`

func (q *Queries) MarkAllNotificationsRead(ctx context.Context, userID string) (int64, error) {
	tag, err := q.db.Exec(ctx, markAllNotificationsRead, userID)
	if err != nil {
		return 0, err
	}
	
	return tag.RowsAffected(), nil
}

const deleteReadNotificationsBefore = `
DELETE FROM notifications
WHERE read = TRUE AND created_at < $1
`

func (q *Queries) DeleteReadNotificationsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteReadNotificationsBefore, cutoff)
	if err != nil {
		return 0, err
	}
	
	return tag.RowsAffected(), nil
}
