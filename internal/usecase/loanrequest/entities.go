package loanrequest

import (
	"time"

	domain "eduloan-backend/internal/domain/loanrequest"
	"eduloan-backend/pkg/page"
)

type CreateInput struct {
	StudentID  string
	NBFCID     string
	AnalysisID string // optional
}

type DecideInput struct {
	NBFCID        string
	RequestID     string
	Status        domain.Status
	OfferedAmount *float64
	OfferedROI    *float64
	Reason        string
}

type ListInput struct {
	ActorID string
	Status  domain.Status // empty: any
	Page    int
	Limit   int
}

type RequestDTO struct {
	RequestID         string                   `json:"request_id"`
	StudentID         string                   `json:"student_id"`
	NBFCID            string                   `json:"nbfc_id"`
	AnalysisID        string                   `json:"analysis_id,omitempty"`
	Status            domain.Status            `json:"status"`
	NBFCDecision      *domain.NBFCDecision     `json:"nbfc_decision"`
	StudentAcceptance domain.StudentAcceptance `json:"student_acceptance"`
	Snapshot          domain.Snapshot          `json:"snapshot"`
	CreatedAt         time.Time                `json:"created_at"`
	UpdatedAt         time.Time                `json:"updated_at"`
}

type ListOutput struct {
	Requests   []RequestDTO `json:"requests"`
	Pagination page.Info    `json:"pagination"`
}

func toDTO(l *domain.LoanRequest) RequestDTO {
	dto := RequestDTO{
		RequestID:         l.RequestID,
		StudentID:         l.StudentID,
		NBFCID:            l.NBFCID,
		AnalysisID:        l.AnalysisID,
		Status:            l.Status,
		StudentAcceptance: l.Acceptance,
		Snapshot:          l.Snapshot,
		CreatedAt:         l.CreatedAt,
		UpdatedAt:         l.UpdatedAt,
	}
	if l.Decision.IsSet() {
		d := l.Decision
		dto.NBFCDecision = &d
	}
	return dto
}
