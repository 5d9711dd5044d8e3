package service

import (
	"context"
	"testing"
	"time"

	"removal-backend/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requestWithStatus(owner uuid.UUID, status string, updatedAt time.Time) model.RemovalRequest {
	return model.RemovalRequest{
		ID:              uuid.New(),
		UserID:          owner,
		UserName:        "John Doe",
		Department:      "IT",
		Term:            model.TermReturnable,
		DateFrom:        updatedAt,
		ItemDescription: "Asset",
		RemovalReasonID: "repair",
		Status:          status,
		CreatedAt:       updatedAt,
		UpdatedAt:       updatedAt,
	}
}

func TestMyRequests_Buckets(t *testing.T) {
	ctx := context.Background()
	actor := seedUser(model.RoleEmployee)
	now := time.Now()

	removalRepo := new(mockRemovalRepo)
	userRepo := new(mockUserRepo)
	userRepo.On("GetByID", ctx, actor.ID.String()).Return(actor, nil)
	removalRepo.On("ListByUser", ctx, actor.ID).Return([]model.RemovalRequest{
		requestWithStatus(actor.ID, model.StatusPendingHOD, now),
		requestWithStatus(actor.ID, model.StatusPendingSecurity, now),
		requestWithStatus(actor.ID, model.StatusApproved, now),
		requestWithStatus(actor.ID, model.StatusRejected, now),
	}, nil)

	svc := NewDashboardService(removalRepo, userRepo)

	buckets, err := svc.MyRequests(ctx, actor.ID.String())
	require.NoError(t, err)
	assert.Len(t, buckets.Pending, 2)
	assert.Len(t, buckets.Approved, 1)
	assert.Len(t, buckets.Rejected, 1)
}

func TestPendingForActor(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	cases := []struct {
		role     string
		expected []string
	}{
		{model.RoleEmployee, []string{}},
		{model.RoleFinance, []string{model.StatusPendingFinance}},
		{model.RoleAdmin, []string{
			model.StatusPendingHOD,
			model.StatusPendingFinance,
			model.StatusPendingMOD,
			model.StatusPendingSecurity,
		}},
	}

	for _, tc := range cases {
		actor := seedUser(tc.role)
		removalRepo := new(mockRemovalRepo)
		userRepo := new(mockUserRepo)
		userRepo.On("GetByID", ctx, actor.ID.String()).Return(actor, nil)

		var matching []model.RemovalRequest
		for _, s := range tc.expected {
			matching = append(matching, requestWithStatus(uuid.New(), s, now))
		}
		removalRepo.On("ListByStatuses", ctx, tc.expected).Return(matching, nil).Maybe()
		removalRepo.On("ListByStatuses", ctx, []string(nil)).Return([]model.RemovalRequest{}, nil).Maybe()

		svc := NewDashboardService(removalRepo, userRepo)

		pending, err := svc.PendingForActor(ctx, actor.ID.String())
		require.NoError(t, err, tc.role)
		assert.Len(t, pending, len(tc.expected), tc.role)
	}
}

func TestDashboard(t *testing.T) {
	ctx := context.Background()
	actor := seedUser(model.RoleHOD)
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	removalRepo := new(mockRemovalRepo)
	userRepo := new(mockUserRepo)
	userRepo.On("GetByID", ctx, actor.ID.String()).Return(actor, nil)
	removalRepo.On("ListAll", ctx).Return([]model.RemovalRequest{
		requestWithStatus(uuid.New(), model.StatusPendingHOD, base.Add(3*time.Hour)),
		requestWithStatus(uuid.New(), model.StatusPendingFinance, base.Add(1*time.Hour)),
		requestWithStatus(uuid.New(), model.StatusApproved, base.Add(5*time.Hour)),
		requestWithStatus(uuid.New(), model.StatusApproved, base.Add(2*time.Hour)),
		requestWithStatus(uuid.New(), model.StatusRejected, base.Add(4*time.Hour)),
		requestWithStatus(uuid.New(), model.StatusPendingHOD, base.Add(6*time.Hour)),
	}, nil)

	svc := NewDashboardService(removalRepo, userRepo)

	stats, err := svc.Dashboard(ctx, actor.ID.String(), 3)
	require.NoError(t, err)

	assert.Equal(t, 6, stats.TotalRequests)
	assert.Equal(t, 3, stats.PendingCount)
	assert.Equal(t, 2, stats.ApprovedCount)
	assert.Equal(t, 1, stats.RejectedCount)
	// HOD can act only on the two PENDING_HOD requests.
	assert.Equal(t, 2, stats.AwaitingMyAction)
	// 2 of 6 approved -> 33%.
	assert.Equal(t, 33, stats.ApprovalRate)

	// Recent activity sorted by updatedAt descending.
	require.Len(t, stats.RecentActivity, 3)
	assert.True(t, stats.RecentActivity[0].UpdatedAt >= stats.RecentActivity[1].UpdatedAt)
	assert.True(t, stats.RecentActivity[1].UpdatedAt >= stats.RecentActivity[2].UpdatedAt)
}

func TestDashboard_EmptyCollection(t *testing.T) {
	ctx := context.Background()
	actor := seedUser(model.RoleAdmin)

	removalRepo := new(mockRemovalRepo)
	userRepo := new(mockUserRepo)
	userRepo.On("GetByID", ctx, actor.ID.String()).Return(actor, nil)
	removalRepo.On("ListAll", ctx).Return([]model.RemovalRequest{}, nil)

	svc := NewDashboardService(removalRepo, userRepo)

	stats, err := svc.Dashboard(ctx, actor.ID.String(), 5)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalRequests)
	assert.Equal(t, 0, stats.ApprovalRate)
	assert.Empty(t, stats.RecentActivity)
}
