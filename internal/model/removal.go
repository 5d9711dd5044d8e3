package model

import (
	"time"

	"github.com/google/uuid"
)

// RemovalStatus enum constants. DRAFT exists only as a conceptual
// pre-submission state; new requests always enter at PENDING_HOD.
const (
	StatusDraft           = "DRAFT"
	StatusPendingHOD      = "PENDING_HOD"
	StatusPendingFinance  = "PENDING_FINANCE"
	StatusPendingMOD      = "PENDING_MOD"
	StatusPendingSecurity = "PENDING_SECURITY"
	StatusApproved        = "APPROVED"
	StatusRejected        = "REJECTED"
)

// Approval stage enum constants, in fixed gate order.
const (
	StageHOD      = "HOD"
	StageFinance  = "FINANCE"
	StageMOD      = "MOD"
	StageSecurity = "SECURITY"
)

// StageOrder is the fixed sequence of approval gates every request must clear.
var StageOrder = []string{StageHOD, StageFinance, StageMOD, StageSecurity}

// RemovalTerm enum constants
const (
	TermReturnable    = "RETURNABLE"
	TermNonReturnable = "NON_RETURNABLE"
)

// ReasonOtherID is the reserved removal-reason id that requires the request
// to carry free-text CustomReason.
const ReasonOtherID = "other"

// IsTerminal reports whether status accepts no further approvals.
func IsTerminal(status string) bool {
	return status == StatusApproved || status == StatusRejected
}

// RemovalReason is a fixed catalog entry, loaded once and never mutated.
type RemovalReason struct {
	ID   string `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name string `gorm:"type:varchar(255);not null" json:"name"`
}

// RemovalRequest is the central entity: an asset removal/transfer request
// moving through the four approval gates.
//
// Requester identity (UserID/UserName/Department) is a snapshot captured at
// creation time, not a live reference: later user changes never rewrite
// historical requests.
type RemovalRequest struct {
	ID               uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID           uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	UserName         string         `gorm:"type:varchar(255);not null" json:"user_name"`
	Department       string         `gorm:"type:varchar(100);not null" json:"department"`
	Term             string         `gorm:"type:varchar(20);not null" json:"term"` // RETURNABLE, NON_RETURNABLE
	DateFrom         time.Time      `gorm:"not null" json:"date_from"`
	DateTo           *time.Time     `json:"date_to,omitempty"`                              // RETURNABLE only, optional
	TargetDepartment string         `gorm:"type:varchar(100)" json:"target_department"`     // RETURNABLE only
	Employee         string         `gorm:"type:varchar(255)" json:"employee"`              // NON_RETURNABLE: receiving person
	ItemDescription  string         `gorm:"type:text;not null" json:"item_description"`
	RemovalReasonID  string         `gorm:"type:varchar(36);not null" json:"removal_reason_id"`
	CustomReason     string         `gorm:"type:text" json:"custom_reason"` // required when reason id is "other"
	Images           []RequestImage `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE" json:"images"`
	Status           string         `gorm:"type:varchar(20);not null;index" json:"status"`
	Approvals        []Approval     `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE" json:"approvals"`
	CreatedAt        time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"index" json:"updated_at"`
}

// Approval is an append-only audit record of one gate decision. Rows are
// never updated or deleted; Seq preserves decision order.
type Approval struct {
	ID              uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RequestID       uuid.UUID `gorm:"type:uuid;not null;index" json:"request_id"`
	Seq             int       `gorm:"not null" json:"seq"`
	Stage           string    `gorm:"type:varchar(20);not null" json:"stage"` // HOD, FINANCE, MOD, SECURITY
	Approved        bool      `gorm:"not null" json:"approved"`
	Signature       string    `gorm:"type:text" json:"signature,omitempty"`        // opaque payload, required when approved
	RejectionReason string    `gorm:"type:text" json:"rejection_reason,omitempty"` // required when rejected
	ApprovedBy      string    `gorm:"type:varchar(255);not null" json:"approved_by"`
	Timestamp       time.Time `gorm:"not null" json:"timestamp"`
}

// RequestImage is an attachment reference. The URL is opaque to the core;
// a data URL or blob reference handed over by the client, stored verbatim.
type RequestImage struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RequestID uuid.UUID `gorm:"type:uuid;not null;index" json:"request_id"`
	URL       string    `gorm:"type:text;not null" json:"url"`
	CreatedAt time.Time `json:"created_at"`
}
