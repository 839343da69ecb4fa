package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BIGvic-Coder/task-manager-api/internal/domain"
)

type ActivityLogRepository interface {
	Create(ctx context.Context, entry domain.ActivityLog) error
	GetByID(ctx context.Context, id string) (domain.ActivityLog, error)
	List(ctx context.Context) ([]domain.ActivityLog, error)
}

type PgActivityLogRepository struct {
	pool *pgxpool.Pool
}

func NewPgActivityLogRepository(pool *pgxpool.Pool) *PgActivityLogRepository {
	return &PgActivityLogRepository{pool: pool}
}

const activityLogSelect = `
	SELECT l.id, l.user_id, u.name, u.email, l.action, l.entity, l.entity_id, l.details, l.created_at
	FROM activity_logs l
	JOIN users u ON u.id = l.user_id
`

func scanActivityLog(row pgx.Row) (domain.ActivityLog, error) {
	var (
		entry  domain.ActivityLog
		author domain.LogAuthor
	)
	err := row.Scan(
		&entry.ID,
		&entry.UserID,
		&author.Name,
		&author.Email,
		&entry.Action,
		&entry.Entity,
		&entry.EntityID,
		&entry.Details,
		&entry.Timestamp,
	)
	if err != nil {
		return domain.ActivityLog{}, err
	}
	author.ID = entry.UserID
	entry.User = &author
	return entry, nil
}

func (r *PgActivityLogRepository) Create(ctx context.Context, entry domain.ActivityLog) error {
	const query = `
		INSERT INTO activity_logs (id, user_id, action, entity, entity_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		entry.ID,
		entry.UserID,
		entry.Action,
		entry.Entity,
		entry.EntityID,
		entry.Details,
		entry.Timestamp,
	)
	return err
}

func (r *PgActivityLogRepository) GetByID(ctx context.Context, id string) (domain.ActivityLog, error) {
	return scanActivityLog(r.pool.QueryRow(ctx, activityLogSelect+` WHERE l.id = $1`, id))
}

func (r *PgActivityLogRepository) List(ctx context.Context) ([]domain.ActivityLog, error) {
	rows, err := r.pool.Query(ctx, activityLogSelect+` ORDER BY l.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []domain.ActivityLog{}
	for rows.Next() {
		entry, err := scanActivityLog(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
