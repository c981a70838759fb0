package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"equiprent-backend/internal/repository"

	_ "github.com/lib/pq"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx, letting every
// repository run against the shared pool or a transaction unchanged.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Store bundles all Postgres repositories over one connection pool and
// implements repository.Transactor.
type Store struct {
	db            *sql.DB
	equipment     repository.EquipmentRepository
	rentals       repository.RentalRepository
	statusUpdates repository.StatusUpdateRepository
	sales         repository.SaleRepository
	notifications repository.NotificationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:            db,
		equipment:     NewEquipmentRepository(db),
		rentals:       NewRentalRepository(db),
		statusUpdates: NewStatusUpdateRepository(db),
		sales:         NewSaleRepository(db),
		notifications: NewNotificationRepository(db),
	}
}

func (s *Store) Equipment() repository.EquipmentRepository         { return s.equipment }
func (s *Store) Rentals() repository.RentalRepository              { return s.rentals }
func (s *Store) StatusUpdates() repository.StatusUpdateRepository  { return s.statusUpdates }
func (s *Store) Sales() repository.SaleRepository                  { return s.sales }
func (s *Store) Notifications() repository.NotificationRepository  { return s.notifications }

// WithinTx runs fn against repositories sharing one transaction.
// Reservation, transition+audit and completion+settlement each go
// through here so they commit atomically or not at all.
func (s *Store) WithinTx(ctx context.Context, fn func(repository.Repositories) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	txStore := &Store{
		db:            s.db,
		equipment:     NewEquipmentRepository(tx),
		rentals:       NewRentalRepository(tx),
		statusUpdates: NewStatusUpdateRepository(tx),
		sales:         NewSaleRepository(tx),
		notifications: NewNotificationRepository(tx),
	}

	if err := fn(txStore); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			return fmt.Errorf("rollback after %w: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
