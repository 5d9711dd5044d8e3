package service

import (
	"context"
	"fmt"
	"math"
	"sort"

	"removal-backend/internal/model"
	"removal-backend/internal/repository"
	"removal-backend/internal/workflow"
)

// Derived read views over the request collection. Everything here is
// recomputed from repository reads on each call: collections are small and
// the projections must share the exact CanAct/bucket logic the write path
// uses, so nothing is cached or pre-aggregated in SQL.

type RequestBuckets struct {
	Pending  []RemovalRequestResponse `json:"pending"`
	Approved []RemovalRequestResponse `json:"approved"`
	Rejected []RemovalRequestResponse `json:"rejected"`
}

type DashboardResponse struct {
	TotalRequests    int                      `json:"total_requests"`
	PendingCount     int                      `json:"pending_count"`
	ApprovedCount    int                      `json:"approved_count"`
	RejectedCount    int                      `json:"rejected_count"`
	AwaitingMyAction int                      `json:"awaiting_my_action"`
	ApprovalRate     int                      `json:"approval_rate"` // rounded percentage of all requests that are approved
	RecentActivity   []RemovalRequestResponse `json:"recent_activity"`
}

type DashboardService interface {
	// MyRequests returns the actor's own requests partitioned into
	// pending/approved/rejected buckets.
	MyRequests(ctx context.Context, actorID string) (RequestBuckets, error)
	// PendingForActor returns every request the actor's role may currently
	// decide on, oldest first.
	PendingForActor(ctx context.Context, actorID string) ([]RemovalRequestResponse, error)
	// Dashboard aggregates counts, the approval rate and recent activity.
	Dashboard(ctx context.Context, actorID string, recentLimit int) (DashboardResponse, error)
}

type dashboardService struct {
	removalRepo repository.RemovalRepository
	userRepo    repository.UserRepository
}

func NewDashboardService(removalRepo repository.RemovalRepository, userRepo repository.UserRepository) DashboardService {
	return &dashboardService{removalRepo: removalRepo, userRepo: userRepo}
}

func (s *dashboardService) MyRequests(ctx context.Context, actorID string) (RequestBuckets, error) {
	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return RequestBuckets{}, ErrNotAuthenticated
	}

	removals, err := s.removalRepo.ListByUser(ctx, actor.ID)
	if err != nil {
		return RequestBuckets{}, fmt.Errorf("failed to list requests: %w", err)
	}

	buckets := RequestBuckets{
		Pending:  []RemovalRequestResponse{},
		Approved: []RemovalRequestResponse{},
		Rejected: []RemovalRequestResponse{},
	}
	for i := range removals {
		resp := toRemovalResponse(&removals[i])
		switch removals[i].Status {
		case model.StatusApproved:
			buckets.Approved = append(buckets.Approved, resp)
		case model.StatusRejected:
			buckets.Rejected = append(buckets.Rejected, resp)
		default:
			buckets.Pending = append(buckets.Pending, resp)
		}
	}
	return buckets, nil
}

func (s *dashboardService) PendingForActor(ctx context.Context, actorID string) ([]RemovalRequestResponse, error) {
	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, ErrNotAuthenticated
	}

	removals, err := s.removalRepo.ListByStatuses(ctx, actionable(actor.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to list pending requests: %w", err)
	}

	res := make([]RemovalRequestResponse, 0, len(removals))
	for i := range removals {
		res = append(res, toRemovalResponse(&removals[i]))
	}
	return res, nil
}

func (s *dashboardService) Dashboard(ctx context.Context, actorID string, recentLimit int) (DashboardResponse, error) {
	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return DashboardResponse{}, ErrNotAuthenticated
	}

	removals, err := s.removalRepo.ListAll(ctx)
	if err != nil {
		return DashboardResponse{}, fmt.Errorf("failed to list requests: %w", err)
	}

	if recentLimit <= 0 {
		recentLimit = 5
	}

	resp := DashboardResponse{
		TotalRequests:  len(removals),
		RecentActivity: []RemovalRequestResponse{},
	}
	for i := range removals {
		switch removals[i].Status {
		case model.StatusApproved:
			resp.ApprovedCount++
		case model.StatusRejected:
			resp.RejectedCount++
		default:
			resp.PendingCount++
		}
		if workflow.CanAct(actor.Role, removals[i].Status) {
			resp.AwaitingMyAction++
		}
	}

	if resp.TotalRequests > 0 {
		resp.ApprovalRate = int(math.Round(float64(resp.ApprovedCount) / float64(resp.TotalRequests) * 100))
	}

	sort.SliceStable(removals, func(i, j int) bool {
		return removals[i].UpdatedAt.After(removals[j].UpdatedAt)
	})
	for i := range removals {
		if i >= recentLimit {
			break
		}
		resp.RecentActivity = append(resp.RecentActivity, toRemovalResponse(&removals[i]))
	}

	return resp, nil
}

// actionable mirrors the workflow policy table as a status list per role.
func actionable(role string) []string {
	var statuses []string
	for _, s := range []string{
		model.StatusPendingHOD,
		model.StatusPendingFinance,
		model.StatusPendingMOD,
		model.StatusPendingSecurity,
	} {
		if workflow.CanAct(role, s) {
			statuses = append(statuses, s)
		}
	}
	return statuses
}
