package postgres

import (
	"context"
	"fmt"
	"time"

	"equiprent-backend/internal/domain"
	"equiprent-backend/internal/repository"
)

type statusUpdateRepository struct {
	db DBTX
}

func NewStatusUpdateRepository(db DBTX) repository.StatusUpdateRepository {
	return &statusUpdateRepository{db: db}
}

func (r *statusUpdateRepository) Create(ctx context.Context, u *domain.RentalStatusUpdate) error {
	query := `INSERT INTO rental_status_updates (rental_id, old_status, new_status, actor_id, notes, is_visible_to_customer, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		u.RentalID, u.OldStatus, u.NewStatus, u.ActorID, u.Notes, u.IsVisibleToCustomer, time.Now().UTC(),
	).Scan(&u.ID)
	if err != nil {
		return fmt.Errorf("insert status update: %w", err)
	}
	return nil
}

func (r *statusUpdateRepository) ListByRental(ctx context.Context, rentalID int64) ([]domain.RentalStatusUpdate, error) {
	query := `SELECT id, rental_id, old_status, new_status, actor_id, notes, is_visible_to_customer, created_on
	          FROM rental_status_updates WHERE rental_id = $1 ORDER BY created_on DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, rentalID)
	if err != nil {
		return nil, fmt.Errorf("list status updates: %w", err)
	}
	defer rows.Close()

	var updates []domain.RentalStatusUpdate
	for rows.Next() {
		var u domain.RentalStatusUpdate
		if err := rows.Scan(&u.ID, &u.RentalID, &u.OldStatus, &u.NewStatus, &u.ActorID, &u.Notes, &u.IsVisibleToCustomer, &u.CreatedOn); err != nil {
			return nil, fmt.Errorf("scan status update: %w", err)
		}
		updates = append(updates, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status updates: %w", err)
	}
	return updates, nil
}
