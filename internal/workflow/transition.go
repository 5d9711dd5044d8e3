package workflow

import (
	"fmt"
	"time"

	"removal-backend/internal/model"
)

// stageFor maps each pending status to its approval gate. Terminal statuses
// and DRAFT have no active gate.
var stageFor = map[string]string{
	model.StatusPendingHOD:      model.StageHOD,
	model.StatusPendingFinance:  model.StageFinance,
	model.StatusPendingMOD:      model.StageMOD,
	model.StatusPendingSecurity: model.StageSecurity,
}

// statusFlow advances one step along the fixed gate order on approval.
// APPROVED and REJECTED are fixed points.
var statusFlow = map[string]string{
	model.StatusDraft:           model.StatusPendingHOD,
	model.StatusPendingHOD:      model.StatusPendingFinance,
	model.StatusPendingFinance:  model.StatusPendingMOD,
	model.StatusPendingMOD:      model.StatusPendingSecurity,
	model.StatusPendingSecurity: model.StatusApproved,
	model.StatusApproved:        model.StatusApproved,
	model.StatusRejected:        model.StatusRejected,
}

// CurrentStage returns the gate a request in status is waiting at.
// ok is false for DRAFT, APPROVED and REJECTED; nothing can act on those.
func CurrentStage(status string) (stage string, ok bool) {
	stage, ok = stageFor[status]
	return stage, ok
}

// NextStatus returns the status reached by approving at the current gate.
func NextStatus(status string) string {
	return statusFlow[status]
}

// ApplyDecision records one approve/reject decision on req: it appends an
// Approval for the active gate, moves status forward (or to REJECTED) and
// bumps UpdatedAt. All preconditions are checked before anything is
// written, so a failed call leaves req untouched.
func ApplyDecision(req *model.RemovalRequest, approved bool, actorName, signature, rejectionReason string, now time.Time) error {
	stage, ok := CurrentStage(req.Status)
	if !ok {
		return fmt.Errorf("%w: status is %s", ErrInvalidTransition, req.Status)
	}
	if approved && signature == "" {
		return ErrMissingSignature
	}
	if !approved && rejectionReason == "" {
		return ErrMissingRejectionReason
	}

	approval := model.Approval{
		RequestID:       req.ID,
		Seq:             len(req.Approvals) + 1,
		Stage:           stage,
		Approved:        approved,
		Signature:       signature,
		RejectionReason: rejectionReason,
		ApprovedBy:      actorName,
		Timestamp:       now,
	}

	req.Approvals = append(req.Approvals, approval)
	if approved {
		req.Status = NextStatus(req.Status)
	} else {
		req.Status = model.StatusRejected
	}
	req.UpdatedAt = now
	return nil
}

// DeriveStatus replays an approvals sequence from PENDING_HOD and returns
// the status it produces. The sequence must be a prefix of the gate order
// with at most one terminal rejection as its last entry; anything else is
// reported as corrupt. A stored request whose status disagrees with
// DeriveStatus of its approvals has been tampered with or mis-written.
func DeriveStatus(approvals []model.Approval) (string, error) {
	status := model.StatusPendingHOD
	for i, a := range approvals {
		stage, ok := CurrentStage(status)
		if !ok {
			return "", fmt.Errorf("approval %d follows terminal status %s", i+1, status)
		}
		if a.Stage != stage {
			return "", fmt.Errorf("approval %d is for stage %s, expected %s", i+1, a.Stage, stage)
		}
		if a.Approved {
			status = NextStatus(status)
		} else {
			status = model.StatusRejected
		}
	}
	return status, nil
}

// Per-stage display states for an approval flow.
const (
	StageApproved = "approved" // gate cleared
	StageRejected = "rejected" // request rejected at this gate
	StageCurrent  = "current"  // request is waiting at this gate
	StageWaiting  = "waiting"  // gate not reached yet
)

// StageState describes one gate of a request's approval flow.
type StageState struct {
	Stage    string          `json:"stage"`
	State    string          `json:"state"`
	Approval *model.Approval `json:"approval,omitempty"`
}

// StageStates derives the canonical per-gate view of a request from its
// status and approvals. This is the single source for flow rendering;
// clients must not re-infer gate states from the approvals array.
func StageStates(req *model.RemovalRequest) []StageState {
	byStage := make(map[string]*model.Approval, len(req.Approvals))
	for i := range req.Approvals {
		byStage[req.Approvals[i].Stage] = &req.Approvals[i]
	}

	current, _ := CurrentStage(req.Status)

	states := make([]StageState, 0, len(model.StageOrder))
	for _, stage := range model.StageOrder {
		s := StageState{Stage: stage, Approval: byStage[stage]}
		switch {
		case s.Approval != nil && s.Approval.Approved:
			s.State = StageApproved
		case s.Approval != nil:
			s.State = StageRejected
		case stage == current:
			s.State = StageCurrent
		default:
			s.State = StageWaiting
		}
		states = append(states, s)
	}
	return states
}
