package http

import (
	"log/slog"
	"net/http"

	"eduloan-backend/internal/adapter/middleware"
	domain "eduloan-backend/internal/domain/loanrequest"
	uc "eduloan-backend/internal/usecase/loanrequest"
	"eduloan-backend/pkg/id"

	"github.com/labstack/echo/v4"
)

type LoanRequestHandler struct {
	uc  *uc.Usecase
	log *slog.Logger
}

func NewLoanRequestHandler(u *uc.Usecase, log *slog.Logger) *LoanRequestHandler {
	return &LoanRequestHandler{uc: u, log: log}
}

type createLoanRequestReq struct {
	NBFCID            string `json:"nbfcId"            validate:"required,hex32"`
	AnalysisHistoryID string `json:"analysisHistoryId" validate:"omitempty,hex32"`
}

type decideLoanRequestReq struct {
	Status        string   `json:"status"        validate:"required,oneof=approved rejected"`
	OfferedAmount *float64 `json:"offeredAmount" validate:"omitempty,gt=0,dec2"`
	OfferedROI    *float64 `json:"offeredRoi"    validate:"omitempty,gte=0,lte=100,dec2"`
	Reason        string   `json:"reason"        validate:"max=2000"`
}

// bindValid binds the body and runs the validator; it writes the 400 itself.
func bindValid(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, fail(c, http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(req); err != nil {
		return false, fail(c, http.StatusBadRequest, "validation failed", ToFieldErrors(err)...)
	}
	return true, nil
}

func requestIDParam(c echo.Context) (string, bool) {
	rid := c.Param("id")
	return rid, id.Valid(rid)
}

func (h *LoanRequestHandler) Create(c echo.Context) error {
	actor, _ := middleware.ActorFrom(c)
	var req createLoanRequestReq
	if okBody, err := bindValid(c, &req); !okBody {
		return err
	}
	dto, err := h.uc.Create(c.Request().Context(), uc.CreateInput{
		StudentID:  actor.ID,
		NBFCID:     req.NBFCID,
		AnalysisID: req.AnalysisHistoryID,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return ok(c, http.StatusCreated, dto, "loan request sent")
}

func (h *LoanRequestHandler) Accept(c echo.Context) error {
	actor, _ := middleware.ActorFrom(c)
	rid, valid := requestIDParam(c)
	if !valid {
		return fail(c, http.StatusNotFound, domain.ErrNotFound.Error())
	}
	dto, err := h.uc.Accept(c.Request().Context(), actor.ID, rid)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return ok(c, http.StatusOK, dto, "offer accepted")
}

func (h *LoanRequestHandler) Decide(c echo.Context) error {
	actor, _ := middleware.ActorFrom(c)
	rid, valid := requestIDParam(c)
	if !valid {
		return fail(c, http.StatusNotFound, domain.ErrNotFound.Error())
	}
	var req decideLoanRequestReq
	if okBody, err := bindValid(c, &req); !okBody {
		return err
	}
	dto, err := h.uc.Decide(c.Request().Context(), uc.DecideInput{
		NBFCID:        actor.ID,
		RequestID:     rid,
		Status:        domain.Status(req.Status),
		OfferedAmount: req.OfferedAmount,
		OfferedROI:    req.OfferedROI,
		Reason:        req.Reason,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return ok(c, http.StatusOK, dto, "loan request "+req.Status)
}

func bindListQuery(c echo.Context) (uc.ListInput, error) {
	var (
		in     uc.ListInput
		status string
	)
	err := echo.QueryParamsBinder(c).
		Int("page", &in.Page).
		Int("limit", &in.Limit).
		String("status", &status).
		BindError()
	in.Status = domain.Status(status)
	return in, err
}

func (h *LoanRequestHandler) ListForStudent(c echo.Context) error {
	actor, _ := middleware.ActorFrom(c)
	in, err := bindListQuery(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid query parameters")
	}
	in.ActorID = actor.ID
	out, err := h.uc.ListForStudent(c.Request().Context(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return ok(c, http.StatusOK, out, "")
}

func (h *LoanRequestHandler) ListForNBFC(c echo.Context) error {
	actor, _ := middleware.ActorFrom(c)
	in, err := bindListQuery(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid query parameters")
	}
	in.ActorID = actor.ID
	out, err := h.uc.ListForNBFC(c.Request().Context(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return ok(c, http.StatusOK, out, "")
}

func (h *LoanRequestHandler) GetForNBFC(c echo.Context) error {
	actor, _ := middleware.ActorFrom(c)
	rid, valid := requestIDParam(c)
	if !valid {
		return fail(c, http.StatusNotFound, domain.ErrNotFound.Error())
	}
	dto, err := h.uc.GetForNBFC(c.Request().Context(), actor.ID, rid)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return ok(c, http.StatusOK, dto, "")
}
