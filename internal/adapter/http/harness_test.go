package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eduloan-backend/internal/adapter/middleware"
	"eduloan-backend/internal/domain/analysis"
	domain "eduloan-backend/internal/domain/loanrequest"
	"eduloan-backend/internal/domain/nbfc"
	"eduloan-backend/internal/domain/student"
	"eduloan-backend/internal/domain/uow"
	"eduloan-backend/internal/testutil/adminmock"
	"eduloan-backend/internal/testutil/analysismock"
	"eduloan-backend/internal/testutil/loanrequestmock"
	"eduloan-backend/internal/testutil/nbfcmock"
	"eduloan-backend/internal/testutil/notificationmock"
	"eduloan-backend/internal/testutil/studentmock"
	"eduloan-backend/internal/testutil/uowmock"
	ucLoan "eduloan-backend/internal/usecase/loanrequest"
	ucNotif "eduloan-backend/internal/usecase/notification"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

const (
	stu   = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	nbfcX = "11111111111111111111111111111111"
	nbfcY = "22222222222222222222222222222222"
	anID  = "cccccccccccccccccccccccccccccccc"
	rqID  = "dddddddddddddddddddddddddddddddd"
)

var jwtSecret = []byte("handler-test-secret")

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Details []FieldError    `json:"details"`
}

type harness struct {
	e        *echo.Echo
	reqs     *loanrequestmock.Repo
	nbfcs    *nbfcmock.Repo
	analyses *analysismock.Repo
	admins   *adminmock.Repo
	notifs   *notificationmock.Repo
	notifier *notificationmock.Notifier
	logs     *bytes.Buffer
}

func newHarness(t *testing.T, idem echo.MiddlewareFunc) *harness {
	t.Helper()
	h := &harness{
		reqs: &loanrequestmock.Repo{
			GetPendingByStudentAndNBFCFn: func(context.Context, string, string) (*domain.LoanRequest, error) {
				return nil, gorm.ErrRecordNotFound
			},
			GetAcceptedByStudentFn: func(context.Context, string) (*domain.LoanRequest, error) {
				return nil, gorm.ErrRecordNotFound
			},
		},
		nbfcs: &nbfcmock.Repo{
			GetByNBFCIDFn: func(_ context.Context, id string) (*nbfc.NBFC, error) {
				return &nbfc.NBFC{NBFCID: id, Name: "Lender X", IsActive: true, IsApproved: true, LendingEnabled: true}, nil
			},
		},
		analyses: &analysismock.Repo{
			GetLatestForStudentFn: func(_ context.Context, s string) (*analysis.History, error) {
				return &analysis.History{
					AnalysisID: anID, StudentID: s, EligibilityScore: 80,
					EligibleNBFCs: []analysis.NBFCMatch{{NBFCID: nbfcX, NBFCName: "Lender X", MatchPercentage: 90}},
				}, nil
			},
		},
		admins: &adminmock.Repo{
			ListActiveIDsFn: func(context.Context) ([]string, error) { return nil, nil },
		},
		notifs:   &notificationmock.Repo{},
		notifier: &notificationmock.Notifier{},
		logs:     &bytes.Buffer{},
	}
	students := &studentmock.Repo{
		GetByStudentIDFn: func(_ context.Context, id string) (*student.Student, error) {
			return &student.Student{StudentID: id, Name: "Asha Rao", Email: "asha@example.com"}, nil
		},
	}
	log := slog.New(slog.NewJSONHandler(h.logs, nil))
	loanUC := ucLoan.NewUsecase(ucLoan.Deps{
		Requests: h.reqs,
		NBFCs:    h.nbfcs,
		Analyses: h.analyses,
		Students: students,
		Admins:   h.admins,
		UoW:      uowmock.Passthrough(uow.Repos{LoanRequests: h.reqs, NBFCs: h.nbfcs}),
		Notifier: h.notifier,
		Log:      log,
	})

	h.e = echo.New()
	h.e.Validator = NewValidator()
	Register(h.e, Routes{
		Health:        NewHandler(nil),
		LoanRequests:  NewLoanRequestHandler(loanUC, log),
		Notifications: NewNotificationHandler(ucNotif.NewUsecase(h.notifs), log),
		JWTSecret:     jwtSecret,
		Idempotency:   idem,
	})
	return h
}

func token(t *testing.T, role, id string) string {
	t.Helper()
	tok, err := middleware.SignToken(jwtSecret, middleware.Actor{ID: id, Role: role}, time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}

type call struct {
	method, path string
	role, actor  string // empty role: no token
	body         any
	header       map[string]string
}

func (h *harness) do(t *testing.T, c call) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var rd io.Reader
	if c.body != nil {
		b, err := json.Marshal(c.body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(c.method, c.path, rd)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if c.role != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token(t, c.role, c.actor))
	}
	for k, v := range c.header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.e.ServeHTTP(rec, req)

	var env envelope
	if rec.Code != stdhttp.StatusNoContent && rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("bad json %q: %v", rec.Body.String(), err)
		}
	}
	return rec, env
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(env.Data, &v); err != nil {
		t.Fatalf("decode data %s: %v", env.Data, err)
	}
	return v
}
