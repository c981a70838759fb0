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

type saleRepository struct {
	db DBTX
}

func NewSaleRepository(db DBTX) repository.SaleRepository {
	return &saleRepository{db: db}
}

const saleColumns = `id, rental_id, total_revenue_cents, subtotal_cents, delivery_fee_cents, insurance_fee_cents,
	late_fee_cents, damage_fee_cents, commission_basis_points, commission_cents, seller_payout_cents,
	seller_id, customer_id, equipment_id, rental_days, rental_start_date, rental_end_date, quantity,
	payout_status, payout_date, payout_reference, sale_date, created_on, updated_on`

func (r *saleRepository) Create(ctx context.Context, sale *domain.Sale) error {
	query := `INSERT INTO sales (rental_id, total_revenue_cents, subtotal_cents, delivery_fee_cents, insurance_fee_cents,
	            late_fee_cents, damage_fee_cents, commission_basis_points, commission_cents, seller_payout_cents,
	            seller_id, customer_id, equipment_id, rental_days, rental_start_date, rental_end_date, quantity,
	            payout_status, sale_date, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
	          RETURNING id, created_on, updated_on`
	now := time.Now().UTC()
	err := r.db.QueryRowContext(ctx, query,
		sale.RentalID, sale.TotalRevenueCents, sale.SubtotalCents, sale.DeliveryFeeCents, sale.InsuranceFeeCents,
		sale.LateFeeCents, sale.DamageFeeCents, sale.CommissionBasisPoints, sale.CommissionCents, sale.SellerPayoutCents,
		sale.SellerID, sale.CustomerID, sale.EquipmentID, sale.RentalDays, sale.RentalStartDate, sale.RentalEndDate, sale.Quantity,
		sale.PayoutStatus, sale.SaleDate, now, now,
	).Scan(&sale.ID, &sale.CreatedOn, &sale.UpdatedOn)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSaleExists
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

func (r *saleRepository) GetByRentalID(ctx context.Context, rentalID int64) (*domain.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE rental_id = $1`
	return r.scanSale(r.db.QueryRowContext(ctx, query, rentalID))
}

func (r *saleRepository) GetByRentalIDForUpdate(ctx context.Context, rentalID int64) (*domain.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE rental_id = $1 FOR UPDATE`
	return r.scanSale(r.db.QueryRowContext(ctx, query, rentalID))
}

func (r *saleRepository) scanSale(row *sql.Row) (*domain.Sale, error) {
	sale := &domain.Sale{}
	err := row.Scan(
		&sale.ID, &sale.RentalID, &sale.TotalRevenueCents, &sale.SubtotalCents, &sale.DeliveryFeeCents, &sale.InsuranceFeeCents,
		&sale.LateFeeCents, &sale.DamageFeeCents, &sale.CommissionBasisPoints, &sale.CommissionCents, &sale.SellerPayoutCents,
		&sale.SellerID, &sale.CustomerID, &sale.EquipmentID, &sale.RentalDays, &sale.RentalStartDate, &sale.RentalEndDate, &sale.Quantity,
		&sale.PayoutStatus, &sale.PayoutDate, &sale.PayoutReference, &sale.SaleDate, &sale.CreatedOn, &sale.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSaleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan sale: %w", err)
	}
	return sale, nil
}

func (r *saleRepository) UpdatePayout(ctx context.Context, sale *domain.Sale) error {
	query := `UPDATE sales SET payout_status = $1, payout_date = $2, payout_reference = $3, updated_on = $4
	          WHERE rental_id = $5`
	res, err := r.db.ExecContext(ctx, query,
		sale.PayoutStatus, sale.PayoutDate, sale.PayoutReference, time.Now().UTC(), sale.RentalID)
	if err != nil {
		return fmt.Errorf("update payout: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update payout: %w", err)
	}
	if affected == 0 {
		return domain.ErrSaleNotFound
	}
	return nil
}

// isUniqueViolation detects Postgres error 23505 (unique_violation).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
