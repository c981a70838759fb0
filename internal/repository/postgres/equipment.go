package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"equiprent-backend/internal/domain"
	"equiprent-backend/internal/repository"
)

type equipmentRepository struct {
	db DBTX
}

func NewEquipmentRepository(db DBTX) repository.EquipmentRepository {
	return &equipmentRepository{db: db}
}

const equipmentColumns = `id, seller_id, name, status, total_units, daily_rate_cents, weekly_rate_cents, monthly_rate_cents, created_on, updated_on`

func (r *equipmentRepository) GetByID(ctx context.Context, id int64) (*domain.Equipment, error) {
	query := `SELECT ` + equipmentColumns + ` FROM equipment WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *equipmentRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Equipment, error) {
	query := `SELECT ` + equipmentColumns + ` FROM equipment WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *equipmentRepository) scanOne(row *sql.Row) (*domain.Equipment, error) {
	eq := &domain.Equipment{}
	err := row.Scan(&eq.ID, &eq.SellerID, &eq.Name, &eq.Status, &eq.TotalUnits,
		&eq.DailyRateCents, &eq.WeeklyRateCents, &eq.MonthlyRateCents, &eq.CreatedOn, &eq.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrEquipmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan equipment: %w", err)
	}
	return eq, nil
}
