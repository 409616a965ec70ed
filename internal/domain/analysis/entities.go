package analysis

import (
	"errors"
	"time"

	"gorm.io/datatypes"
)

var ErrNotFound = errors.New("analysis not found")

// NBFCMatch is one lender entry produced by the external eligibility engine.
type NBFCMatch struct {
	NBFCID          string  `json:"nbfc_id"`
	NBFCName        string  `json:"nbfc_name"`
	MatchPercentage float64 `json:"match_percentage"`
	Status          string  `json:"status"`
}

// Table: analysis_histories. Rows are written by the analysis pipeline; this
// service only reads them.
type History struct {
	ID               uint64                         `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	AnalysisID       string                         `gorm:"column:analysis_id;size:32;not null;uniqueIndex:ux_analysis_histories_analysis_id" json:"analysis_id"`
	StudentID        string                         `gorm:"column:student_id;size:32;not null;index:idx_analysis_histories_student" json:"student_id"`
	EligibilityScore float64                        `gorm:"column:eligibility_score;type:decimal(6,2)" json:"eligibility_score"`
	EligibilityLabel string                         `gorm:"column:eligibility_label;size:64" json:"eligibility_label"`
	EstimatedLoanMin float64                        `gorm:"column:estimated_loan_min;type:decimal(18,2)" json:"estimated_loan_min"`
	EstimatedLoanMax float64                        `gorm:"column:estimated_loan_max;type:decimal(18,2)" json:"estimated_loan_max"`
	FOIR             float64                        `gorm:"column:foir;type:decimal(6,2)" json:"foir"`
	EligibleNBFCs    datatypes.JSONSlice[NBFCMatch] `gorm:"column:eligible_nbfcs" json:"eligible_nbfcs"`
	BorderlineNBFCs  datatypes.JSONSlice[NBFCMatch] `gorm:"column:borderline_nbfcs" json:"borderline_nbfcs"`
	CreatedAt        time.Time                      `gorm:"column:created_at;autoCreateTime;index:idx_analysis_histories_student" json:"created_at"`
}

func (History) TableName() string { return "analysis_histories" }

// FindMatch looks in the eligible list first, then the borderline list.
func (h *History) FindMatch(nbfcID string) (NBFCMatch, bool) {
	for _, m := range h.EligibleNBFCs {
		if m.NBFCID == nbfcID {
			if m.Status == "" {
				m.Status = "eligible"
			}
			return m, true
		}
	}
	for _, m := range h.BorderlineNBFCs {
		if m.NBFCID == nbfcID {
			if m.Status == "" {
				m.Status = "borderline"
			}
			return m, true
		}
	}
	return NBFCMatch{}, false
}
