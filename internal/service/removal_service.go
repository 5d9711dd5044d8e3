package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"removal-backend/internal/model"
	"removal-backend/internal/repository"
	"removal-backend/internal/workflow"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Sentinel errors surfaced by the removal services. Handlers map these to
// HTTP statuses; everything else is treated as an internal failure.
var (
	ErrNotAuthenticated = errors.New("authentication required")
	ErrNotAuthorized    = errors.New("not authorized to act on this request at its current stage")
	ErrRequestNotFound  = errors.New("removal request not found")
	ErrRequestFinalized = errors.New("request is finalized; attachments can no longer change")
	ErrStateCorrupted   = errors.New("stored request state is inconsistent with its approval trail")
)

// --- DTOs ---

type CreateRemovalRequestDTO struct {
	Term             string     `json:"term" binding:"required,oneof=RETURNABLE NON_RETURNABLE"`
	DateFrom         time.Time  `json:"date_from" binding:"required"`
	DateTo           *time.Time `json:"date_to"`
	TargetDepartment string     `json:"target_department"`
	Employee         string     `json:"employee"`
	ItemDescription  string     `json:"item_description" binding:"required"`
	RemovalReasonID  string     `json:"removal_reason_id" binding:"required"`
	CustomReason     string     `json:"custom_reason"`
	Images           []string   `json:"images"` // opaque URL/data-blob references
}

type DecisionDTO struct {
	Signature       string `json:"signature"`
	RejectionReason string `json:"rejection_reason"`
}

type AddImageDTO struct {
	URL string `json:"url" binding:"required"`
}

type RemovalFilter struct {
	Status string // empty for all
	Page   int
	Limit  int
}

type ApprovalResponse struct {
	Stage           string `json:"stage"`
	Approved        bool   `json:"approved"`
	Signature       string `json:"signature,omitempty"`
	RejectionReason string `json:"rejection_reason,omitempty"`
	ApprovedBy      string `json:"approved_by"`
	Timestamp       string `json:"timestamp"`
}

type ImageResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type RemovalRequestResponse struct {
	ID               string             `json:"id"`
	UserID           string             `json:"user_id"`
	UserName         string             `json:"user_name"`
	Department       string             `json:"department"`
	Term             string             `json:"term"`
	DateFrom         string             `json:"date_from"`
	DateTo           *string            `json:"date_to,omitempty"`
	TargetDepartment string             `json:"target_department,omitempty"`
	Employee         string             `json:"employee,omitempty"`
	ItemDescription  string             `json:"item_description"`
	RemovalReasonID  string             `json:"removal_reason_id"`
	CustomReason     string             `json:"custom_reason,omitempty"`
	Images           []ImageResponse    `json:"images"`
	Status           string             `json:"status"`
	Approvals        []ApprovalResponse `json:"approvals"`
	CreatedAt        string             `json:"created_at"`
	UpdatedAt        string             `json:"updated_at"`
}

// broadcaster is the slice of the websocket hub the service needs.
type broadcaster interface{ GetBroadcast() chan []byte }

// RequestEvent is the payload broadcast to websocket clients on lifecycle changes.
type RequestEvent struct {
	Event     string `json:"event"` // request.created, request.approved, request.rejected
	RequestID string `json:"request_id"`
	Status    string `json:"status"`
	Stage     string `json:"stage,omitempty"`
	Actor     string `json:"actor"`
}

// --- Interface ---

// RemovalService owns the removal-request lifecycle: creation, the
// approve/reject transition and attachment mutation. Every call takes the
// acting user explicitly; there is no ambient current-user state.
type RemovalService interface {
	CreateRequest(ctx context.Context, actorID string, req CreateRemovalRequestDTO) (RemovalRequestResponse, error)
	GetRequest(ctx context.Context, id string) (RemovalRequestResponse, error)
	GetFlow(ctx context.Context, id string) ([]workflow.StageState, error)
	List(ctx context.Context, filter RemovalFilter) ([]RemovalRequestResponse, int64, error)
	Decide(ctx context.Context, id, actorID string, approved bool, decision DecisionDTO) (RemovalRequestResponse, error)
	AddImage(ctx context.Context, id, actorID, url string) (RemovalRequestResponse, error)
	RemoveImage(ctx context.Context, id, actorID, imageID string) (RemovalRequestResponse, error)
}

type removalService struct {
	removalRepo repository.RemovalRepository
	userRepo    repository.UserRepository
	reasonRepo  repository.ReasonRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
	hub         broadcaster
	now         func() time.Time
}

func NewRemovalService(
	removalRepo repository.RemovalRepository,
	userRepo repository.UserRepository,
	reasonRepo repository.ReasonRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub broadcaster,
) RemovalService {
	return &removalService{
		removalRepo: removalRepo,
		userRepo:    userRepo,
		reasonRepo:  reasonRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
		hub:         hub,
		now:         time.Now,
	}
}

// --- Implementation ---

func (s *removalService) CreateRequest(ctx context.Context, actorID string, req CreateRemovalRequestDTO) (RemovalRequestResponse, error) {
	actor, err := s.requireActor(ctx, actorID)
	if err != nil {
		return RemovalRequestResponse{}, err
	}

	if _, err := s.reasonRepo.GetByID(ctx, req.RemovalReasonID); err != nil {
		return RemovalRequestResponse{}, fmt.Errorf("unknown removal reason %q", req.RemovalReasonID)
	}
	if req.RemovalReasonID == model.ReasonOtherID && req.CustomReason == "" {
		return RemovalRequestResponse{}, errors.New("custom reason is required when reason is Other")
	}

	// Term-dependent fields: dateTo/targetDepartment belong to RETURNABLE,
	// employee to NON_RETURNABLE. Re-validated here even though the form
	// collaborator checks them too.
	if req.Term == model.TermNonReturnable {
		req.DateTo = nil
		req.TargetDepartment = ""
	} else {
		req.Employee = ""
	}
	if req.DateTo != nil && req.DateTo.Before(req.DateFrom) {
		return RemovalRequestResponse{}, errors.New("date_to must not precede date_from")
	}

	now := s.now()
	removal := model.RemovalRequest{
		ID:               uuid.New(),
		UserID:           actor.ID,
		UserName:         actor.Name,
		Department:       actor.Department,
		Term:             req.Term,
		DateFrom:         req.DateFrom,
		DateTo:           req.DateTo,
		TargetDepartment: req.TargetDepartment,
		Employee:         req.Employee,
		ItemDescription:  req.ItemDescription,
		RemovalReasonID:  req.RemovalReasonID,
		CustomReason:     req.CustomReason,
		Status:           model.StatusPendingHOD,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	for _, url := range req.Images {
		removal.Images = append(removal.Images, model.RequestImage{
			ID:        uuid.New(),
			RequestID: removal.ID,
			URL:       url,
			CreatedAt: now,
		})
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.removalRepo.Create(txCtx, &removal); err != nil {
			return fmt.Errorf("failed to create removal request: %w", err)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"term":   removal.Term,
			"reason": removal.RemovalReasonID,
		})
		audit := &model.AuditLog{
			UserID:     &actor.ID,
			Action:     model.ActionCreateRequest,
			EntityID:   removal.ID.String(),
			EntityName: removal.ItemDescription,
			Details:    string(details),
		}
		if err := s.auditRepo.Log(txCtx, audit); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}

		return nil
	})
	if err != nil {
		return RemovalRequestResponse{}, err
	}

	s.broadcast(RequestEvent{
		Event:     "request.created",
		RequestID: removal.ID.String(),
		Status:    removal.Status,
		Actor:     actor.Name,
	})

	return toRemovalResponse(&removal), nil
}

func (s *removalService) GetRequest(ctx context.Context, id string) (RemovalRequestResponse, error) {
	removal, err := s.findByID(ctx, id)
	if err != nil {
		return RemovalRequestResponse{}, err
	}
	return toRemovalResponse(removal), nil
}

func (s *removalService) GetFlow(ctx context.Context, id string) ([]workflow.StageState, error) {
	removal, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return workflow.StageStates(removal), nil
}

func (s *removalService) List(ctx context.Context, filter RemovalFilter) ([]RemovalRequestResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	removals, total, err := s.removalRepo.List(ctx, filter.Status, filter.Page, filter.Limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list removal requests: %w", err)
	}

	res := make([]RemovalRequestResponse, 0, len(removals))
	for i := range removals {
		res = append(res, toRemovalResponse(&removals[i]))
	}
	return res, total, nil
}

// Decide applies one approve/reject decision. The request row is locked for
// the duration of the transaction, so two concurrent decisions on the same
// request serialize and the loser fails the transition precondition.
func (s *removalService) Decide(ctx context.Context, id, actorID string, approved bool, decision DecisionDTO) (RemovalRequestResponse, error) {
	actor, err := s.requireActor(ctx, actorID)
	if err != nil {
		return RemovalRequestResponse{}, err
	}

	removalID, err := uuid.Parse(id)
	if err != nil {
		return RemovalRequestResponse{}, ErrRequestNotFound
	}

	var removal *model.RemovalRequest
	var stage string
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		removal, err = s.removalRepo.FindByIDForUpdate(txCtx, removalID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRequestNotFound
			}
			return fmt.Errorf("failed to load removal request: %w", err)
		}

		if !workflow.CanAct(actor.Role, removal.Status) {
			// Terminal/draft statuses are nobody's to act on; report those
			// as a stale transition rather than a role problem.
			if _, ok := workflow.CurrentStage(removal.Status); !ok {
				return fmt.Errorf("%w: status is %s", workflow.ErrInvalidTransition, removal.Status)
			}
			return ErrNotAuthorized
		}

		// The stored status must be reproducible from the approval trail
		// before another decision is stacked on top of it.
		derived, derr := workflow.DeriveStatus(removal.Approvals)
		if derr != nil {
			return fmt.Errorf("%w: %v", ErrStateCorrupted, derr)
		}
		if derived != removal.Status {
			return fmt.Errorf("%w: status is %s but the trail derives %s", ErrStateCorrupted, removal.Status, derived)
		}

		if err := workflow.ApplyDecision(removal, approved, actor.Name, decision.Signature, decision.RejectionReason, s.now()); err != nil {
			return err
		}

		appended := &removal.Approvals[len(removal.Approvals)-1]
		stage = appended.Stage
		if err := s.removalRepo.UpdateDecision(txCtx, removal, appended); err != nil {
			return fmt.Errorf("failed to persist decision: %w", err)
		}

		action := model.ActionApproveStage
		detailsMap := map[string]interface{}{"stage": stage, "status": removal.Status}
		if !approved {
			action = model.ActionRejectStage
			detailsMap["reason"] = decision.RejectionReason
		}
		details, _ := json.Marshal(detailsMap)
		audit := &model.AuditLog{
			UserID:     &actor.ID,
			Action:     action,
			EntityID:   removal.ID.String(),
			EntityName: removal.ItemDescription,
			Details:    string(details),
		}
		if err := s.auditRepo.Log(txCtx, audit); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}

		return nil
	})
	if err != nil {
		return RemovalRequestResponse{}, err
	}

	event := "request.approved"
	if !approved {
		event = "request.rejected"
	}
	s.broadcast(RequestEvent{
		Event:     event,
		RequestID: removal.ID.String(),
		Status:    removal.Status,
		Stage:     stage,
		Actor:     actor.Name,
	})

	return toRemovalResponse(removal), nil
}

// AddImage attaches an image reference. The request row is locked and the
// terminal check runs inside the transaction, so an attachment cannot land
// on a request a concurrent decision is finalizing.
func (s *removalService) AddImage(ctx context.Context, id, actorID, url string) (RemovalRequestResponse, error) {
	actor, err := s.requireActor(ctx, actorID)
	if err != nil {
		return RemovalRequestResponse{}, err
	}

	removalID, err := uuid.Parse(id)
	if err != nil {
		return RemovalRequestResponse{}, ErrRequestNotFound
	}

	now := s.now()
	img := model.RequestImage{
		ID:        uuid.New(),
		RequestID: removalID,
		URL:       url,
		CreatedAt: now,
	}

	var removal *model.RemovalRequest
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		removal, err = s.removalRepo.FindByIDForUpdate(txCtx, removalID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRequestNotFound
			}
			return fmt.Errorf("failed to load removal request: %w", err)
		}
		if model.IsTerminal(removal.Status) {
			return ErrRequestFinalized
		}

		removal.UpdatedAt = now
		if err := s.removalRepo.AddImage(txCtx, removal, &img); err != nil {
			return fmt.Errorf("failed to add image: %w", err)
		}
		details, _ := json.Marshal(map[string]interface{}{"image_id": img.ID.String()})
		audit := &model.AuditLog{
			UserID:   &actor.ID,
			Action:   model.ActionAddImage,
			EntityID: removal.ID.String(),
			Details:  string(details),
		}
		if err := s.auditRepo.Log(txCtx, audit); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		return RemovalRequestResponse{}, err
	}

	removal.Images = append(removal.Images, img)
	return toRemovalResponse(removal), nil
}

// RemoveImage detaches an image, with the same lock discipline as AddImage.
func (s *removalService) RemoveImage(ctx context.Context, id, actorID, imageID string) (RemovalRequestResponse, error) {
	actor, err := s.requireActor(ctx, actorID)
	if err != nil {
		return RemovalRequestResponse{}, err
	}

	removalID, err := uuid.Parse(id)
	if err != nil {
		return RemovalRequestResponse{}, ErrRequestNotFound
	}
	imgID, imgIDErr := uuid.Parse(imageID)

	now := s.now()
	var removal *model.RemovalRequest
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		removal, err = s.removalRepo.FindByIDForUpdate(txCtx, removalID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRequestNotFound
			}
			return fmt.Errorf("failed to load removal request: %w", err)
		}
		if model.IsTerminal(removal.Status) {
			return ErrRequestFinalized
		}
		if imgIDErr != nil {
			// Unknown image ids are a no-op, matching remove-if-present semantics.
			return nil
		}

		removal.UpdatedAt = now
		if err := s.removalRepo.RemoveImage(txCtx, removal, imgID); err != nil {
			return fmt.Errorf("failed to remove image: %w", err)
		}
		details, _ := json.Marshal(map[string]interface{}{"image_id": imageID})
		audit := &model.AuditLog{
			UserID:   &actor.ID,
			Action:   model.ActionRemoveImage,
			EntityID: removal.ID.String(),
			Details:  string(details),
		}
		if err := s.auditRepo.Log(txCtx, audit); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		return RemovalRequestResponse{}, err
	}
	if imgIDErr != nil {
		return toRemovalResponse(removal), nil
	}

	kept := removal.Images[:0]
	for _, img := range removal.Images {
		if img.ID != imgID {
			kept = append(kept, img)
		}
	}
	removal.Images = kept
	return toRemovalResponse(removal), nil
}

// --- Helpers ---

func (s *removalService) requireActor(ctx context.Context, actorID string) (*model.User, error) {
	if actorID == "" {
		return nil, ErrNotAuthenticated
	}
	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, ErrNotAuthenticated
	}
	return actor, nil
}

func (s *removalService) findByID(ctx context.Context, id string) (*model.RemovalRequest, error) {
	removalID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrRequestNotFound
	}
	removal, err := s.removalRepo.FindByID(ctx, removalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to load removal request: %w", err)
	}
	return removal, nil
}

func (s *removalService) broadcast(event RequestEvent) {
	if s.hub == nil {
		return
	}
	payload, _ := json.Marshal(event)
	select {
	case s.hub.GetBroadcast() <- payload:
	default:
		// No listener draining the hub; drop rather than block the request.
	}
}

func toRemovalResponse(r *model.RemovalRequest) RemovalRequestResponse {
	resp := RemovalRequestResponse{
		ID:               r.ID.String(),
		UserID:           r.UserID.String(),
		UserName:         r.UserName,
		Department:       r.Department,
		Term:             r.Term,
		DateFrom:         r.DateFrom.Format(time.RFC3339),
		TargetDepartment: r.TargetDepartment,
		Employee:         r.Employee,
		ItemDescription:  r.ItemDescription,
		RemovalReasonID:  r.RemovalReasonID,
		CustomReason:     r.CustomReason,
		Images:           make([]ImageResponse, 0, len(r.Images)),
		Status:           r.Status,
		Approvals:        make([]ApprovalResponse, 0, len(r.Approvals)),
		CreatedAt:        r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        r.UpdatedAt.Format(time.RFC3339),
	}
	if r.DateTo != nil {
		s := r.DateTo.Format(time.RFC3339)
		resp.DateTo = &s
	}
	for _, img := range r.Images {
		resp.Images = append(resp.Images, ImageResponse{ID: img.ID.String(), URL: img.URL})
	}
	for _, a := range r.Approvals {
		resp.Approvals = append(resp.Approvals, ApprovalResponse{
			Stage:           a.Stage,
			Approved:        a.Approved,
			Signature:       a.Signature,
			RejectionReason: a.RejectionReason,
			ApprovedBy:      a.ApprovedBy,
			Timestamp:       a.Timestamp.Format(time.RFC3339),
		})
	}
	return resp
}
