package loanrequest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	adminDomain "eduloan-backend/internal/domain/admin"
	analysisDomain "eduloan-backend/internal/domain/analysis"
	domain "eduloan-backend/internal/domain/loanrequest"
	nbfcDomain "eduloan-backend/internal/domain/nbfc"
	notif "eduloan-backend/internal/domain/notification"
	studentDomain "eduloan-backend/internal/domain/student"
	"eduloan-backend/internal/domain/uow"
	"eduloan-backend/pkg/id"
	"eduloan-backend/pkg/page"

	"gorm.io/gorm"
)

type Deps struct {
	Requests domain.Repository
	NBFCs    nbfcDomain.Repository
	Analyses analysisDomain.Repository
	Students studentDomain.Repository
	Admins   adminDomain.Repository
	UoW      uow.UnitOfWork
	Notifier notif.Notifier
	Log      *slog.Logger
}

type Usecase struct {
	requests domain.Repository
	nbfcs    nbfcDomain.Repository
	analyses analysisDomain.Repository
	students studentDomain.Repository
	admins   adminDomain.Repository
	uow      uow.UnitOfWork
	notifier notif.Notifier
	log      *slog.Logger
	now      func() time.Time
}

func NewUsecase(d Deps) *Usecase {
	return &Usecase{
		requests: d.Requests,
		nbfcs:    d.NBFCs,
		analyses: d.Analyses,
		students: d.Students,
		admins:   d.Admins,
		uow:      d.UoW,
		notifier: d.Notifier,
		log:      d.Log,
		now:      time.Now,
	}
}

func notFound(err error) bool { return errors.Is(err, gorm.ErrRecordNotFound) }

func (u *Usecase) Create(ctx context.Context, in CreateInput) (*RequestDTO, error) {
	if in.NBFCID == "" {
		return nil, fmt.Errorf("%w: nbfc_id is required", domain.ErrInvalidInput)
	}

	lender, err := u.nbfcs.GetByNBFCID(ctx, in.NBFCID)
	switch {
	case notFound(err):
		return nil, domain.ErrNBFCUnavailable
	case err != nil:
		return nil, fmt.Errorf("load nbfc: %w", err)
	case !lender.AcceptsRequests():
		return nil, domain.ErrNBFCUnavailable
	}

	a, err := u.resolveAnalysis(ctx, in.StudentID, in.AnalysisID)
	if err != nil {
		return nil, err
	}
	match, ok := a.FindMatch(in.NBFCID)
	if !ok {
		return nil, domain.ErrNBFCNotMatched
	}

	// Friendly check; the pending_key index catches the race.
	switch _, err := u.requests.GetPendingByStudentAndNBFC(ctx, in.StudentID, in.NBFCID); {
	case err == nil:
		return nil, domain.ErrDuplicatePending
	case !notFound(err):
		return nil, fmt.Errorf("check pending: %w", err)
	}

	st, err := u.students.GetByStudentID(ctx, in.StudentID)
	if notFound(err) {
		return nil, studentDomain.ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("load student: %w", err)
	}

	nbfcName := match.NBFCName
	if nbfcName == "" {
		nbfcName = lender.Name
	}
	l := &domain.LoanRequest{
		RequestID:  id.NewID32(),
		StudentID:  in.StudentID,
		NBFCID:     in.NBFCID,
		AnalysisID: a.AnalysisID,
		Status:     domain.StatusPending,
		Snapshot: domain.Snapshot{
			StudentName:      st.Name,
			StudentEmail:     st.Email,
			StudentPhone:     st.Phone,
			EligibilityScore: a.EligibilityScore,
			EligibilityLabel: a.EligibilityLabel,
			EstimatedLoanMin: a.EstimatedLoanMin,
			EstimatedLoanMax: a.EstimatedLoanMax,
			NBFCName:         nbfcName,
			MatchPercentage:  match.MatchPercentage,
			MatchStatus:      match.Status,
		},
	}
	if err := u.requests.Create(ctx, l); err != nil {
		if errors.Is(err, domain.ErrDuplicatePending) {
			return nil, err
		}
		return nil, fmt.Errorf("create loan request: %w", err)
	}
	u.log.Info("loan request created", "request_id", l.RequestID, "student_id", l.StudentID, "nbfc_id", l.NBFCID)

	u.notifier.Dispatch(ctx, notif.Intent{
		RecipientID:    l.NBFCID,
		RecipientModel: notif.RecipientNBFC,
		Type:           notif.TypeLoanRequestReceived,
		Title:          "New loan request",
		Message:        fmt.Sprintf("%s has sent you a loan request.", displayName(st.Name)),
		Data: map[string]any{
			"request_id":       l.RequestID,
			"student_id":       l.StudentID,
			"match_percentage": match.MatchPercentage,
			"match_status":     match.Status,
		},
	})

	dto := toDTO(l)
	return &dto, nil
}

// resolveAnalysis uses the given analysis when the student owns it, otherwise
// the student's latest.
func (u *Usecase) resolveAnalysis(ctx context.Context, studentID, analysisID string) (*analysisDomain.History, error) {
	if analysisID != "" {
		a, err := u.analyses.GetForStudent(ctx, analysisID, studentID)
		if err == nil {
			return a, nil
		}
		if !notFound(err) {
			return nil, fmt.Errorf("load analysis: %w", err)
		}
	}
	a, err := u.analyses.GetLatestForStudent(ctx, studentID)
	if notFound(err) {
		return nil, domain.ErrNoAnalysis
	}
	if err != nil {
		return nil, fmt.Errorf("load latest analysis: %w", err)
	}
	return a, nil
}

func (u *Usecase) Accept(ctx context.Context, studentID, requestID string) (*RequestDTO, error) {
	var accepted *domain.LoanRequest
	err := u.uow.WithinLoanRequestTx(ctx, requestID, func(r uow.Repos, l *domain.LoanRequest) error {
		if l.StudentID != studentID {
			return domain.ErrNotFound
		}
		if err := l.Accept(u.now()); err != nil {
			return err
		}
		switch other, err := r.LoanRequests.GetAcceptedByStudent(ctx, studentID); {
		case err == nil && other.RequestID != l.RequestID:
			return domain.ErrOtherAccepted
		case err != nil && !notFound(err):
			return fmt.Errorf("check accepted: %w", err)
		}
		if err := r.LoanRequests.SaveTransition(ctx, l); err != nil {
			return err
		}
		accepted = l
		return nil
	})
	if notFound(err) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	log := u.log.With("request_id", accepted.RequestID, "student_id", studentID)
	log.Info("loan offer accepted", "nbfc_id", accepted.NBFCID)

	if n, err := u.requests.CancelOtherPending(ctx, studentID, accepted.RequestID); err != nil {
		log.Error("cancel other pending requests failed", "error", err)
	} else if n > 0 {
		log.Info("cancelled other pending requests", "count", n)
	}

	student := displayName(accepted.Snapshot.StudentName)
	data := map[string]any{
		"request_id": accepted.RequestID,
		"student_id": accepted.StudentID,
		"nbfc_id":    accepted.NBFCID,
	}
	u.notifier.Dispatch(ctx, notif.Intent{
		RecipientID:    accepted.NBFCID,
		RecipientModel: notif.RecipientNBFC,
		Type:           notif.TypeLoanOfferAccepted,
		Title:          "Loan offer accepted",
		Message:        fmt.Sprintf("%s has accepted your loan offer.", student),
		Data:           data,
	})

	admins, err := u.admins.ListActiveIDs(ctx)
	if err != nil {
		log.Error("list active admins failed", "error", err)
	}
	for _, adminID := range admins {
		u.notifier.Dispatch(ctx, notif.Intent{
			RecipientID:    adminID,
			RecipientModel: notif.RecipientAdmin,
			Type:           notif.TypeLoanOfferAcceptedAdmin,
			Title:          "Loan offer accepted",
			Message:        fmt.Sprintf("%s accepted a loan offer from %s.", student, accepted.Snapshot.NBFCName),
			Data:           data,
		})
	}

	dto := toDTO(accepted)
	return &dto, nil
}

func (u *Usecase) Decide(ctx context.Context, in DecideInput) (*RequestDTO, error) {
	if in.Status != domain.StatusApproved && in.Status != domain.StatusRejected {
		return nil, domain.ErrInvalidDecision
	}
	if (in.OfferedAmount != nil && *in.OfferedAmount < 0) || (in.OfferedROI != nil && *in.OfferedROI < 0) {
		return nil, fmt.Errorf("%w: offered amount and roi must not be negative", domain.ErrInvalidInput)
	}

	var decided *domain.LoanRequest
	err := u.uow.WithinLoanRequestTx(ctx, in.RequestID, func(r uow.Repos, l *domain.LoanRequest) error {
		// wrong owner and wrong state look the same to the caller
		if l.NBFCID != in.NBFCID {
			return domain.ErrNotFound
		}
		d := domain.NBFCDecision{
			DecidedBy:     in.NBFCID,
			Reason:        in.Reason,
			OfferedAmount: in.OfferedAmount,
			OfferedROI:    in.OfferedROI,
		}
		if err := l.Decide(in.Status, d, u.now()); err != nil {
			return err
		}
		if err := r.LoanRequests.SaveTransition(ctx, l); err != nil {
			return err
		}
		decided = l
		return nil
	})
	if notFound(err) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	log := u.log.With("request_id", decided.RequestID, "nbfc_id", in.NBFCID)
	log.Info("loan request decided", "status", decided.Status)

	outcome := nbfcDomain.OutcomeRejected
	if decided.Status == domain.StatusApproved {
		outcome = nbfcDomain.OutcomeApproved
	}
	if err := u.nbfcs.IncrementDecisionStats(ctx, in.NBFCID, outcome); err != nil {
		log.Error("update nbfc stats failed", "error", err)
	}

	u.notifier.Dispatch(ctx, decisionIntent(decided))

	dto := toDTO(decided)
	return &dto, nil
}

func decisionIntent(l *domain.LoanRequest) notif.Intent {
	lender := displayName(l.Snapshot.NBFCName)
	data := map[string]any{
		"request_id": l.RequestID,
		"nbfc_id":    l.NBFCID,
		"status":     string(l.Status),
	}
	in := notif.Intent{RecipientID: l.StudentID, RecipientModel: notif.RecipientStudent, Data: data}
	if l.Status == domain.StatusApproved {
		in.Type = notif.TypeLoanRequestApproved
		in.Title = "Loan request approved"
		in.Message = fmt.Sprintf("%s has approved your loan request.", lender)
		if l.Decision.OfferedAmount != nil {
			data["offered_amount"] = *l.Decision.OfferedAmount
		}
		if l.Decision.OfferedROI != nil {
			data["offered_roi"] = *l.Decision.OfferedROI
		}
		return in
	}
	in.Type = notif.TypeLoanRequestRejected
	in.Title = "Loan request rejected"
	in.Message = fmt.Sprintf("%s has rejected your loan request.", lender)
	if l.Decision.Reason != "" {
		data["reason"] = l.Decision.Reason
	}
	return in
}

func displayName(name string) string {
	if name == "" {
		return "A student"
	}
	return name
}

func (u *Usecase) ListForStudent(ctx context.Context, in ListInput) (*ListOutput, error) {
	return u.list(ctx, domain.ListFilter{StudentID: in.ActorID, Status: in.Status}, in)
}

func (u *Usecase) ListForNBFC(ctx context.Context, in ListInput) (*ListOutput, error) {
	return u.list(ctx, domain.ListFilter{NBFCID: in.ActorID, Status: in.Status}, in)
}

func (u *Usecase) list(ctx context.Context, f domain.ListFilter, in ListInput) (*ListOutput, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, f.Status)
	}
	p, limit := page.Normalize(in.Page, in.Limit)
	f.Offset, f.Limit = page.Offset(p, limit), limit

	rows, total, err := u.requests.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := &ListOutput{Requests: make([]RequestDTO, 0, len(rows)), Pagination: page.New(p, limit, total)}
	for i := range rows {
		out.Requests = append(out.Requests, toDTO(&rows[i]))
	}
	return out, nil
}

func (u *Usecase) GetForNBFC(ctx context.Context, nbfcID, requestID string) (*RequestDTO, error) {
	l, err := u.requests.GetByRequestID(ctx, requestID)
	if notFound(err) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if l.NBFCID != nbfcID {
		return nil, domain.ErrNotFound
	}
	dto := toDTO(l)
	return &dto, nil
}
