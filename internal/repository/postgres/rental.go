package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"equiprent-backend/internal/domain"
	"equiprent-backend/internal/repository"

	"github.com/lib/pq"
)

type rentalRepository struct {
	db DBTX
}

func NewRentalRepository(db DBTX) repository.RentalRepository {
	return &rentalRepository{db: db}
}

const rentalColumns = `id, reference, equipment_id, customer_id, seller_id, start_date, end_date, quantity,
	daily_rate_cents, total_days, subtotal_cents, delivery_fee_cents, insurance_fee_cents,
	security_deposit_cents, late_fee_cents, damage_fee_cents, total_amount_cents,
	status, customer_notes, cancellation_reason,
	approved_at, cancelled_at, actual_start_date, actual_end_date, created_on, updated_on`

func (r *rentalRepository) Create(ctx context.Context, rt *domain.Rental) error {
	query := `INSERT INTO rentals (reference, equipment_id, customer_id, seller_id, start_date, end_date, quantity,
	            daily_rate_cents, total_days, subtotal_cents, delivery_fee_cents, insurance_fee_cents,
	            security_deposit_cents, late_fee_cents, damage_fee_cents, total_amount_cents,
	            status, customer_notes, approved_at, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
	          RETURNING id, created_on, updated_on`
	now := time.Now().UTC()
	err := r.db.QueryRowContext(ctx, query,
		rt.Reference, rt.EquipmentID, rt.CustomerID, rt.SellerID, rt.StartDate, rt.EndDate, rt.Quantity,
		rt.DailyRateCents, rt.TotalDays, rt.SubtotalCents, rt.DeliveryFeeCents, rt.InsuranceFeeCents,
		rt.SecurityDepositCents, rt.LateFeeCents, rt.DamageFeeCents, rt.TotalAmountCents,
		rt.Status, rt.CustomerNotes, rt.ApprovedAt, now, now,
	).Scan(&rt.ID, &rt.CreatedOn, &rt.UpdatedOn)
	if err != nil {
		return fmt.Errorf("insert rental: %w", err)
	}
	return nil
}

func (r *rentalRepository) GetByID(ctx context.Context, id int64) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *rentalRepository) GetByReference(ctx context.Context, reference string) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE reference = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, reference))
}

func (r *rentalRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *rentalRepository) UpdateStatus(ctx context.Context, rt *domain.Rental) error {
	query := `UPDATE rentals
	          SET status = $1, cancellation_reason = $2, approved_at = $3, cancelled_at = $4,
	              actual_start_date = $5, actual_end_date = $6, late_fee_cents = $7,
	              damage_fee_cents = $8, total_amount_cents = $9, updated_on = $10
	          WHERE id = $11`
	res, err := r.db.ExecContext(ctx, query,
		rt.Status, rt.CancellationReason, rt.ApprovedAt, rt.CancelledAt,
		rt.ActualStartDate, rt.ActualEndDate, rt.LateFeeCents,
		rt.DamageFeeCents, rt.TotalAmountCents, time.Now().UTC(), rt.ID)
	if err != nil {
		return fmt.Errorf("update rental status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update rental status: %w", err)
	}
	if affected == 0 {
		return domain.ErrRentalNotFound
	}
	return nil
}

func (r *rentalRepository) SumHeldUnits(ctx context.Context, equipmentID int64, start, end time.Time, statuses []domain.RentalStatus) (int32, error) {
	// Overlap test: existing.start <= requested.end AND existing.end >= requested.start.
	query := `SELECT COALESCE(SUM(quantity), 0) FROM rentals
	          WHERE equipment_id = $1 AND status = ANY($2) AND start_date <= $3 AND end_date >= $4`
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}
	var held int32
	err := r.db.QueryRowContext(ctx, query, equipmentID, pq.Array(names), end, start).Scan(&held)
	if err != nil {
		return 0, fmt.Errorf("sum held units: %w", err)
	}
	return held, nil
}

func (r *rentalRepository) ListByCustomer(ctx context.Context, customerID int64, status domain.RentalStatus, page, pageSize int32) ([]domain.Rental, int32, error) {
	return r.list(ctx, "customer_id", customerID, status, page, pageSize)
}

func (r *rentalRepository) ListBySeller(ctx context.Context, sellerID int64, status domain.RentalStatus, page, pageSize int32) ([]domain.Rental, int32, error) {
	return r.list(ctx, "seller_id", sellerID, status, page, pageSize)
}

func (r *rentalRepository) list(ctx context.Context, column string, id int64, status domain.RentalStatus, page, pageSize int32) ([]domain.Rental, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	where := ` FROM rentals WHERE ` + column + ` = $1`
	args := []interface{}{id}
	if status != "" {
		where += ` AND status = $2`
		args = append(args, status)
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*)`+where, args...).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("count rentals: %w", err)
	}

	query := fmt.Sprintf(`SELECT `+rentalColumns+where+` ORDER BY created_on DESC LIMIT $%d OFFSET $%d`,
		len(args)+1, len(args)+2)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list rentals: %w", err)
	}
	defer rows.Close()

	rentals, err := r.scanMany(rows)
	if err != nil {
		return nil, 0, err
	}
	return rentals, count, nil
}

func (r *rentalRepository) ListOverdueCandidates(ctx context.Context, cutoff time.Time) ([]domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE status = ANY($1) AND end_date < $2 ORDER BY end_date ASC`
	statuses := []string{string(domain.RentalStatusInProgress), string(domain.RentalStatusOverdue)}
	rows, err := r.db.QueryContext(ctx, query, pq.Array(statuses), cutoff)
	if err != nil {
		return nil, fmt.Errorf("list overdue candidates: %w", err)
	}
	defer rows.Close()
	return r.scanMany(rows)
}

func (r *rentalRepository) scanOne(row *sql.Row) (*domain.Rental, error) {
	rt := &domain.Rental{}
	err := row.Scan(
		&rt.ID, &rt.Reference, &rt.EquipmentID, &rt.CustomerID, &rt.SellerID,
		&rt.StartDate, &rt.EndDate, &rt.Quantity,
		&rt.DailyRateCents, &rt.TotalDays, &rt.SubtotalCents, &rt.DeliveryFeeCents, &rt.InsuranceFeeCents,
		&rt.SecurityDepositCents, &rt.LateFeeCents, &rt.DamageFeeCents, &rt.TotalAmountCents,
		&rt.Status, &rt.CustomerNotes, &rt.CancellationReason,
		&rt.ApprovedAt, &rt.CancelledAt, &rt.ActualStartDate, &rt.ActualEndDate, &rt.CreatedOn, &rt.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrRentalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan rental: %w", err)
	}
	return rt, nil
}

func (r *rentalRepository) scanMany(rows *sql.Rows) ([]domain.Rental, error) {
	var rentals []domain.Rental
	for rows.Next() {
		var rt domain.Rental
		err := rows.Scan(
			&rt.ID, &rt.Reference, &rt.EquipmentID, &rt.CustomerID, &rt.SellerID,
			&rt.StartDate, &rt.EndDate, &rt.Quantity,
			&rt.DailyRateCents, &rt.TotalDays, &rt.SubtotalCents, &rt.DeliveryFeeCents, &rt.InsuranceFeeCents,
			&rt.SecurityDepositCents, &rt.LateFeeCents, &rt.DamageFeeCents, &rt.TotalAmountCents,
			&rt.Status, &rt.CustomerNotes, &rt.CancellationReason,
			&rt.ApprovedAt, &rt.CancelledAt, &rt.ActualStartDate, &rt.ActualEndDate, &rt.CreatedOn, &rt.UpdatedOn)
		if err != nil {
			return nil, fmt.Errorf("scan rental: %w", err)
		}
		rentals = append(rentals, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rentals: %w", err)
	}
	return rentals, nil
}
