package domain

import "time"

// RentalStatusUpdate is one row of the append-only audit trail. A row is
// written in the same transaction as every status mutation, so the log
// and the rental's current status never diverge. Rows are never updated
// or deleted.
type RentalStatusUpdate struct {
	ID       int64 `json:"id"`
	RentalID int64 `json:"rental_id"`
	// OldStatus is empty for the creation row.
	OldStatus           RentalStatus `json:"old_status,omitempty"`
	NewStatus           RentalStatus `json:"new_status"`
	ActorID             int64        `json:"actor_id"`
	Notes               string       `json:"notes,omitempty"`
	IsVisibleToCustomer bool         `json:"is_visible_to_customer"`
	CreatedOn           time.Time    `json:"created_on"`
}
