package service

import (
	"context"
	"errors"
	"time"

	"equiprent-backend/internal/domain"
	"equiprent-backend/internal/repository"
)

type settlementEngine struct {
	commissionBP int32
}

func NewSettlementEngine(commissionBasisPoints int32) SettlementEngine {
	if commissionBasisPoints <= 0 {
		commissionBasisPoints = domain.DefaultCommissionBasisPoints
	}
	return &settlementEngine{commissionBP: commissionBasisPoints}
}

// Settle creates the sale record for a completed rental. Retried
// completions find the existing sale and return it unchanged; the
// unique constraint on rental_id backstops any race the pre-check
// misses.
func (e *settlementEngine) Settle(ctx context.Context, repos repository.Repositories, rt *domain.Rental) (*domain.Sale, error) {
	existing, err := repos.Sales().GetByRentalID(ctx, rt.ID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrSaleNotFound) {
		return nil, err
	}

	revenue := rt.SubtotalCents + rt.DeliveryFeeCents + rt.InsuranceFeeCents + rt.LateFeeCents + rt.DamageFeeCents
	commission := commissionAmount(revenue, e.commissionBP)

	sale := &domain.Sale{
		RentalID:              rt.ID,
		TotalRevenueCents:     revenue,
		SubtotalCents:         rt.SubtotalCents,
		DeliveryFeeCents:      rt.DeliveryFeeCents,
		InsuranceFeeCents:     rt.InsuranceFeeCents,
		LateFeeCents:          rt.LateFeeCents,
		DamageFeeCents:        rt.DamageFeeCents,
		CommissionBasisPoints: e.commissionBP,
		CommissionCents:       commission,
		SellerPayoutCents:     revenue - commission,
		SellerID:              rt.SellerID,
		CustomerID:            rt.CustomerID,
		EquipmentID:           rt.EquipmentID,
		RentalDays:            rt.TotalDays,
		RentalStartDate:       rt.StartDate,
		RentalEndDate:         rt.EndDate,
		Quantity:              rt.Quantity,
		PayoutStatus:          domain.PayoutStatusPending,
		SaleDate:              time.Now().UTC(),
	}

	if err := repos.Sales().Create(ctx, sale); err != nil {
		if errors.Is(err, domain.ErrSaleExists) {
			return repos.Sales().GetByRentalID(ctx, rt.ID)
		}
		return nil, err
	}
	return sale, nil
}

// commissionAmount rounds half up in integer cents. Security deposits
// never enter the revenue base.
func commissionAmount(revenueCents int64, basisPoints int32) int64 {
	return (revenueCents*int64(basisPoints) + 5000) / 10000
}
