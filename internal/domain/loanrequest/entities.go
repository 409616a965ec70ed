package loanrequest

import (
	"errors"
	"time"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

var (
	ErrNotFound         = errors.New("loan request not found")
	ErrNBFCUnavailable  = errors.New("NBFC not found or not accepting loan requests")
	ErrNoAnalysis       = errors.New("no eligibility analysis found; run an analysis first")
	ErrNBFCNotMatched   = errors.New("NBFC is not in your eligible or borderline match list")
	ErrDuplicatePending = errors.New("you already have a pending request with this NBFC")
	ErrNotApproved      = errors.New("only approved offers can be accepted")
	ErrAlreadyAccepted  = errors.New("offer already accepted")
	ErrOtherAccepted    = errors.New("you have already accepted an offer from another NBFC")
	ErrInvalidDecision  = errors.New("status must be approved or rejected")
	ErrInvalidInput     = errors.New("invalid input")
)

// NBFCDecision is written exactly once, when the request leaves pending.
type NBFCDecision struct {
	DecidedAt     *time.Time `gorm:"column:decided_at" json:"decided_at"`
	DecidedBy     string     `gorm:"column:decided_by;size:32" json:"decided_by"`
	Reason        string     `gorm:"column:reason;type:text" json:"reason,omitempty"`
	OfferedAmount *float64   `gorm:"column:offered_amount;type:decimal(18,2)" json:"offered_amount,omitempty"`
	OfferedROI    *float64   `gorm:"column:offered_roi;type:decimal(6,2)" json:"offered_roi,omitempty"`
}

func (d NBFCDecision) IsSet() bool { return d.DecidedAt != nil }

type StudentAcceptance struct {
	Accepted   bool       `gorm:"column:accepted;not null;default:false" json:"accepted"`
	AcceptedAt *time.Time `gorm:"column:accepted_at" json:"accepted_at,omitempty"`
}

// Snapshot is copied from the student profile and analysis at creation and
// never rewritten afterwards.
type Snapshot struct {
	StudentName      string  `gorm:"column:student_name;size:255" json:"student_name"`
	StudentEmail     string  `gorm:"column:student_email;size:255" json:"student_email"`
	StudentPhone     string  `gorm:"column:student_phone;size:32" json:"student_phone"`
	EligibilityScore float64 `gorm:"column:eligibility_score;type:decimal(6,2)" json:"eligibility_score"`
	EligibilityLabel string  `gorm:"column:eligibility_label;size:64" json:"eligibility_label"`
	EstimatedLoanMin float64 `gorm:"column:estimated_loan_min;type:decimal(18,2)" json:"estimated_loan_min"`
	EstimatedLoanMax float64 `gorm:"column:estimated_loan_max;type:decimal(18,2)" json:"estimated_loan_max"`
	NBFCName         string  `gorm:"column:nbfc_name;size:255" json:"nbfc_name"`
	MatchPercentage  float64 `gorm:"column:match_percentage;type:decimal(6,2)" json:"match_percentage"`
	MatchStatus      string  `gorm:"column:match_status;size:32" json:"match_status"`
}

// Table: loan_requests
type LoanRequest struct {
	ID         uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	RequestID  string `gorm:"column:request_id;size:32;not null;uniqueIndex:ux_loan_requests_request_id" json:"request_id"`
	StudentID  string `gorm:"column:student_id;size:32;not null;index:idx_loan_requests_student" json:"student_id"`
	NBFCID     string `gorm:"column:nbfc_id;size:32;not null;index:idx_loan_requests_nbfc" json:"nbfc_id"`
	AnalysisID string `gorm:"column:analysis_id;size:32" json:"analysis_id,omitempty"`
	Status     Status `gorm:"column:status;size:16;not null;default:'pending';index:idx_loan_requests_status" json:"status"`
	// PendingKey is "student:nbfc" while pending and NULL otherwise; the unique
	// index makes a second concurrent pending insert fail.
	PendingKey *string `gorm:"column:pending_key;size:65;uniqueIndex:ux_loan_requests_pending_key" json:"-"`
	// AcceptedKey is the student id once accepted; one accepted offer per student.
	AcceptedKey *string           `gorm:"column:accepted_key;size:32;uniqueIndex:ux_loan_requests_accepted_key" json:"-"`
	Decision    NBFCDecision      `gorm:"embedded;embeddedPrefix:decision_" json:"-"`
	Acceptance  StudentAcceptance `gorm:"embedded;embeddedPrefix:acceptance_" json:"student_acceptance"`
	Snapshot    Snapshot          `gorm:"embedded;embeddedPrefix:snapshot_" json:"snapshot"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (LoanRequest) TableName() string { return "loan_requests" }

func PendingKeyFor(studentID, nbfcID string) *string {
	k := studentID + ":" + nbfcID
	return &k
}

// Decide moves a pending request to approved or rejected and records the
// decision. It refuses any other starting state.
func (l *LoanRequest) Decide(status Status, d NBFCDecision, at time.Time) error {
	if status != StatusApproved && status != StatusRejected {
		return ErrInvalidDecision
	}
	if l.Status != StatusPending || l.Decision.IsSet() {
		return ErrNotFound
	}
	at = at.UTC()
	d.DecidedAt = &at
	l.Status = status
	l.Decision = d
	l.PendingKey = nil
	return nil
}

func (l *LoanRequest) Accept(at time.Time) error {
	if l.Status != StatusApproved {
		return ErrNotApproved
	}
	if l.Acceptance.Accepted {
		return ErrAlreadyAccepted
	}
	at = at.UTC()
	key := l.StudentID
	l.Acceptance = StudentAcceptance{Accepted: true, AcceptedAt: &at}
	l.AcceptedKey = &key
	return nil
}
