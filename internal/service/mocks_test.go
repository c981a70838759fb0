package service

import (
	"context"
	"time"

	"equiprent-backend/internal/domain"
	"equiprent-backend/internal/repository"

	"github.com/stretchr/testify/mock"
)

// MockEquipmentRepo
type MockEquipmentRepo struct {
	mock.Mock
}

func (m *MockEquipmentRepo) GetByID(ctx context.Context, id int64) (*domain.Equipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Equipment), args.Error(1)
}
func (m *MockEquipmentRepo) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Equipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Equipment), args.Error(1)
}

// MockRentalRepo
type MockRentalRepo struct {
	mock.Mock
}

func (m *MockRentalRepo) Create(ctx context.Context, rt *domain.Rental) error {
	args := m.Called(ctx, rt)
	return args.Error(0)
}
func (m *MockRentalRepo) GetByID(ctx context.Context, id int64) (*domain.Rental, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) GetByReference(ctx context.Context, reference string) (*domain.Rental, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Rental, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) UpdateStatus(ctx context.Context, rt *domain.Rental) error {
	args := m.Called(ctx, rt)
	return args.Error(0)
}
func (m *MockRentalRepo) SumHeldUnits(ctx context.Context, equipmentID int64, start, end time.Time, statuses []domain.RentalStatus) (int32, error) {
	args := m.Called(ctx, equipmentID, start, end, statuses)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockRentalRepo) ListByCustomer(ctx context.Context, customerID int64, status domain.RentalStatus, page, pageSize int32) ([]domain.Rental, int32, error) {
	args := m.Called(ctx, customerID, status, page, pageSize)
	return args.Get(0).([]domain.Rental), args.Get(1).(int32), args.Error(2)
}
func (m *MockRentalRepo) ListBySeller(ctx context.Context, sellerID int64, status domain.RentalStatus, page, pageSize int32) ([]domain.Rental, int32, error) {
	args := m.Called(ctx, sellerID, status, page, pageSize)
	return args.Get(0).([]domain.Rental), args.Get(1).(int32), args.Error(2)
}
func (m *MockRentalRepo) ListOverdueCandidates(ctx context.Context, cutoff time.Time) ([]domain.Rental, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).([]domain.Rental), args.Error(1)
}

// MockStatusUpdateRepo
type MockStatusUpdateRepo struct {
	mock.Mock
}

func (m *MockStatusUpdateRepo) Create(ctx context.Context, u *domain.RentalStatusUpdate) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}
func (m *MockStatusUpdateRepo) ListByRental(ctx context.Context, rentalID int64) ([]domain.RentalStatusUpdate, error) {
	args := m.Called(ctx, rentalID)
	return args.Get(0).([]domain.RentalStatusUpdate), args.Error(1)
}

// MockSaleRepo
type MockSaleRepo struct {
	mock.Mock
}

func (m *MockSaleRepo) Create(ctx context.Context, sale *domain.Sale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}
func (m *MockSaleRepo) GetByRentalID(ctx context.Context, rentalID int64) (*domain.Sale, error) {
	args := m.Called(ctx, rentalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Sale), args.Error(1)
}
func (m *MockSaleRepo) GetByRentalIDForUpdate(ctx context.Context, rentalID int64) (*domain.Sale, error) {
	args := m.Called(ctx, rentalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Sale), args.Error(1)
}
func (m *MockSaleRepo) UpdatePayout(ctx context.Context, sale *domain.Sale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}
func (m *MockNotificationRepo) ListByUser(ctx context.Context, userID int64, page, pageSize int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, userID, notificationID int64) error {
	args := m.Called(ctx, userID, notificationID)
	return args.Error(0)
}

// fakeStore satisfies repository.Transactor over the mocks. WithinTx
// just invokes the function against the same repository set, which is
// what the real store does with transaction-bound copies.
type fakeStore struct {
	equipment     *MockEquipmentRepo
	rentals       *MockRentalRepo
	statusUpdates *MockStatusUpdateRepo
	sales         *MockSaleRepo
	notifications *MockNotificationRepo
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		equipment:     new(MockEquipmentRepo),
		rentals:       new(MockRentalRepo),
		statusUpdates: new(MockStatusUpdateRepo),
		sales:         new(MockSaleRepo),
		notifications: new(MockNotificationRepo),
	}
}

func (s *fakeStore) Equipment() repository.EquipmentRepository        { return s.equipment }
func (s *fakeStore) Rentals() repository.RentalRepository             { return s.rentals }
func (s *fakeStore) StatusUpdates() repository.StatusUpdateRepository { return s.statusUpdates }
func (s *fakeStore) Sales() repository.SaleRepository                 { return s.sales }
func (s *fakeStore) Notifications() repository.NotificationRepository { return s.notifications }

func (s *fakeStore) WithinTx(ctx context.Context, fn func(repository.Repositories) error) error {
	return fn(s)
}

// MockSettlementEngine
type MockSettlementEngine struct {
	mock.Mock
}

func (m *MockSettlementEngine) Settle(ctx context.Context, repos repository.Repositories, rt *domain.Rental) (*domain.Sale, error) {
	args := m.Called(ctx, repos, rt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Sale), args.Error(1)
}

// noopNotifier keeps booking tests focused on the state machine.
type noopNotifier struct{}

func (noopNotifier) ListNotifications(ctx context.Context, userID int64, page, pageSize int32) ([]domain.Notification, int32, error) {
	return nil, 0, nil
}
func (noopNotifier) MarkAsRead(ctx context.Context, userID, notificationID int64) error { return nil }
func (noopNotifier) BookingCreated(ctx context.Context, rt *domain.Rental)              {}
func (noopNotifier) StatusChanged(ctx context.Context, rt *domain.Rental, oldStatus domain.RentalStatus) {
}
func (noopNotifier) RentalSettled(ctx context.Context, rt *domain.Rental, sale *domain.Sale) {}
