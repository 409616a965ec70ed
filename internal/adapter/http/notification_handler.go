package http

import (
	"log/slog"
	"net/http"

	"eduloan-backend/internal/adapter/middleware"
	domain "eduloan-backend/internal/domain/notification"
	uc "eduloan-backend/internal/usecase/notification"
	"eduloan-backend/pkg/id"

	"github.com/labstack/echo/v4"
)

type NotificationHandler struct {
	uc  *uc.Usecase
	log *slog.Logger
}

func NewNotificationHandler(u *uc.Usecase, log *slog.Logger) *NotificationHandler {
	return &NotificationHandler{uc: u, log: log}
}

func recipient(c echo.Context) (string, domain.RecipientKind, bool) {
	actor, found := middleware.ActorFrom(c)
	if !found {
		return "", "", false
	}
	kind, known := domain.KindForRole(actor.Role)
	return actor.ID, kind, known
}

func (h *NotificationHandler) List(c echo.Context) error {
	rid, kind, known := recipient(c)
	if !known {
		return fail(c, http.StatusForbidden, "access denied")
	}
	in := uc.ListInput{RecipientID: rid, Kind: kind}
	err := echo.QueryParamsBinder(c).
		Bool("unread", &in.UnreadOnly).
		Int("page", &in.Page).
		Int("limit", &in.Limit).
		BindError()
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid query parameters")
	}
	out, err := h.uc.List(c.Request().Context(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return ok(c, http.StatusOK, out, "")
}

func (h *NotificationHandler) MarkRead(c echo.Context) error {
	rid, kind, known := recipient(c)
	if !known {
		return fail(c, http.StatusForbidden, "access denied")
	}
	nid := c.Param("id")
	if !id.Valid(nid) {
		return fail(c, http.StatusNotFound, domain.ErrNotFound.Error())
	}
	if err := h.uc.MarkRead(c.Request().Context(), nid, rid, kind); err != nil {
		return writeError(c, h.log, err)
	}
	return ok(c, http.StatusOK, nil, "notification marked as read")
}
