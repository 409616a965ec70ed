package http

import (
	"errors"
	"log/slog"
	"net/http"

	analysisDomain "eduloan-backend/internal/domain/analysis"
	lrDomain "eduloan-backend/internal/domain/loanrequest"
	nbfcDomain "eduloan-backend/internal/domain/nbfc"
	notifDomain "eduloan-backend/internal/domain/notification"
	studentDomain "eduloan-backend/internal/domain/student"

	"github.com/labstack/echo/v4"
)

// Response is the envelope of every API reply.
type Response struct {
	Success bool         `json:"success"`
	Data    any          `json:"data,omitempty"`
	Message string       `json:"message,omitempty"`
	Error   string       `json:"error,omitempty"`
	Details []FieldError `json:"details,omitempty"`
}

func ok(c echo.Context, code int, data any, msg string) error {
	return c.JSON(code, Response{Success: true, Data: data, Message: msg})
}

func fail(c echo.Context, code int, msg string, details ...FieldError) error {
	return c.JSON(code, Response{Success: false, Error: msg, Details: details})
}

var errorStatus = []struct {
	err  error
	code int
}{
	{lrDomain.ErrNotFound, http.StatusNotFound},
	{lrDomain.ErrNBFCUnavailable, http.StatusNotFound},
	{studentDomain.ErrNotFound, http.StatusNotFound},
	{nbfcDomain.ErrNotFound, http.StatusNotFound},
	{analysisDomain.ErrNotFound, http.StatusNotFound},
	{notifDomain.ErrNotFound, http.StatusNotFound},

	{lrDomain.ErrNoAnalysis, http.StatusBadRequest},
	{lrDomain.ErrNBFCNotMatched, http.StatusBadRequest},
	{lrDomain.ErrDuplicatePending, http.StatusBadRequest},
	{lrDomain.ErrNotApproved, http.StatusBadRequest},
	{lrDomain.ErrAlreadyAccepted, http.StatusBadRequest},
	{lrDomain.ErrOtherAccepted, http.StatusBadRequest},
	{lrDomain.ErrInvalidDecision, http.StatusBadRequest},
}

// writeError maps domain errors to status codes. Anything unknown is logged
// and reported as a generic 500.
func writeError(c echo.Context, log *slog.Logger, err error) error {
	if errors.Is(err, lrDomain.ErrInvalidInput) {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	for _, m := range errorStatus {
		if errors.Is(err, m.err) {
			return fail(c, m.code, m.err.Error())
		}
	}
	log.Error("request failed",
		slog.String("method", c.Request().Method),
		slog.String("route", c.Path()),
		slog.Any("err", err),
	)
	return fail(c, http.StatusInternalServerError, "internal server error")
}
