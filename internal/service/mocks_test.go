package service

import (
	"context"

	"removal-backend/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Hand-written testify mocks for the repository boundaries.

type mockRemovalRepo struct {
	mock.Mock
}

func (m *mockRemovalRepo) Create(ctx context.Context, req *model.RemovalRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *mockRemovalRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.RemovalRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RemovalRequest), args.Error(1)
}

func (m *mockRemovalRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.RemovalRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RemovalRequest), args.Error(1)
}

func (m *mockRemovalRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.RemovalRequest, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RemovalRequest), args.Error(1)
}

func (m *mockRemovalRepo) ListByStatuses(ctx context.Context, statuses []string) ([]model.RemovalRequest, error) {
	args := m.Called(ctx, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RemovalRequest), args.Error(1)
}

func (m *mockRemovalRepo) List(ctx context.Context, status string, page, limit int) ([]model.RemovalRequest, int64, error) {
	args := m.Called(ctx, status, page, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.RemovalRequest), args.Get(1).(int64), args.Error(2)
}

func (m *mockRemovalRepo) ListAll(ctx context.Context) ([]model.RemovalRequest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RemovalRequest), args.Error(1)
}

func (m *mockRemovalRepo) UpdateDecision(ctx context.Context, req *model.RemovalRequest, approval *model.Approval) error {
	args := m.Called(ctx, req, approval)
	return args.Error(0)
}

func (m *mockRemovalRepo) AddImage(ctx context.Context, req *model.RemovalRequest, img *model.RequestImage) error {
	args := m.Called(ctx, req, img)
	return args.Error(0)
}

func (m *mockRemovalRepo) RemoveImage(ctx context.Context, req *model.RemovalRequest, imageID uuid.UUID) error {
	args := m.Called(ctx, req, imageID)
	return args.Error(0)
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserRepo) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *mockUserRepo) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type mockReasonRepo struct {
	mock.Mock
}

func (m *mockReasonRepo) List(ctx context.Context) ([]model.RemovalReason, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RemovalReason), args.Error(1)
}

func (m *mockReasonRepo) GetByID(ctx context.Context, id string) (*model.RemovalReason, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RemovalReason), args.Error(1)
}

type mockAuditRepo struct {
	mock.Mock
}

func (m *mockAuditRepo) Log(ctx context.Context, entry *model.AuditLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *mockAuditRepo) List(ctx context.Context, page, limit int) ([]model.AuditLog, int64, error) {
	args := m.Called(ctx, page, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.AuditLog), args.Get(1).(int64), args.Error(2)
}

// stubTxManager runs the function directly, without a database.
type stubTxManager struct{}

func (stubTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}
