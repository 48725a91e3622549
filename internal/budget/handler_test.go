package budget_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/frahmantamala/budget-approval/internal"
	"github.com/frahmantamala/budget-approval/internal/auth"
	"github.com/frahmantamala/budget-approval/internal/budget"
	"github.com/frahmantamala/budget-approval/internal/user"
)

// mockBudgetService backs the handler tests with canned responses.
type mockBudgetService struct {
	submitted    *budget.BudgetRequest
	submitErr    error
	ownRequests  []budget.BudgetRequest
	pending      []budget.BudgetRequest
	all          []budget.BudgetRequest
	listErr      error
	decided      *budget.BudgetRequest
	decideErr    error
	summary      *budget.Summary
	summaryErr   error
	lastDTO      budget.CreateBudgetRequestDTO
	lastStatusID int64
}

func (m *mockBudgetService) SubmitRequest(dto budget.CreateBudgetRequestDTO) (*budget.BudgetRequest, error) {
	m.lastDTO = dto
	if m.submitErr != nil {
		return nil, m.submitErr
	}
	return m.submitted, nil
}

func (m *mockBudgetService) ListOwnRequests(userID string) ([]budget.BudgetRequest, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.ownRequests, nil
}

func (m *mockBudgetService) ListPending() ([]budget.BudgetRequest, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.pending, nil
}

func (m *mockBudgetService) ListAll() ([]budget.BudgetRequest, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.all, nil
}

func (m *mockBudgetService) SetStatus(id int64, dto budget.UpdateStatusDTO) (*budget.BudgetRequest, error) {
	m.lastStatusID = id
	if m.decideErr != nil {
		return nil, m.decideErr
	}
	return m.decided, nil
}

func (m *mockBudgetService) GetSummary() (*budget.Summary, error) {
	if m.summaryErr != nil {
		return nil, m.summaryErr
	}
	return m.summary, nil
}

var _ = Describe("Budget Handler", func() {
	var (
		service *mockBudgetService
		handler *budget.Handler
		router  *chi.Mux
	)

	sessionUser := &auth.SessionUser{
		ID:    "user-42",
		Email: "alice@example.com",
		Role:  user.RoleEmployee,
	}

	withSession := func(req *http.Request) *http.Request {
		ctx := auth.ContextWithUser(req.Context(), sessionUser)
		return req.WithContext(ctx)
	}

	BeforeEach(func() {
		service = &mockBudgetService{}
		handler = budget.NewHandler(service)

		router = chi.NewRouter()
		router.Post("/budgets", handler.SubmitRequest)
		router.Get("/budgets/user", handler.ListOwnRequests)
		router.Get("/budgets/pending", handler.ListPending)
		router.Get("/budgets", handler.ListAll)
		router.Put("/budgets/{id}/status", handler.UpdateStatus)
		router.Get("/budgets/summary", handler.GetSummary)
	})

	Describe("SubmitRequest", func() {
		It("creates a request for the session user", func() {
			service.submitted = &budget.BudgetRequest{
				ID:          1,
				Title:       "Laptop",
				Amount:      decimal.RequireFromString("1200.00"),
				Status:      budget.StatusPending,
				RequestedBy: "user-42",
			}

			body := bytes.NewBufferString(`{"title":"Laptop","amount":1200.00}`)
			req := withSession(httptest.NewRequest(http.MethodPost, "/budgets", body))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(service.lastDTO.UserID).To(Equal("user-42"))

			var resp map[string]interface{}
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["message"]).To(Equal("Budget request submitted successfully!"))
		})

		It("ignores a userId supplied in the body", func() {
			service.submitted = &budget.BudgetRequest{ID: 1, Status: budget.StatusPending}

			body := bytes.NewBufferString(`{"title":"Laptop","amount":100,"userId":"someone-else"}`)
			req := withSession(httptest.NewRequest(http.MethodPost, "/budgets", body))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			Expect(service.lastDTO.UserID).To(Equal("user-42"))
		})

		It("returns 401 without a session user", func() {
			body := bytes.NewBufferString(`{"title":"Laptop","amount":100}`)
			req := httptest.NewRequest(http.MethodPost, "/budgets", body)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})

		It("returns 400 on a malformed body", func() {
			body := bytes.NewBufferString(`{"title":`)
			req := withSession(httptest.NewRequest(http.MethodPost, "/budgets", body))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("maps validation errors to 400 with a message body", func() {
			service.submitErr = internal.NewValidationFieldError("amount", "amount must be greater than zero", internal.ErrCodeInvalidAmount)

			body := bytes.NewBufferString(`{"title":"Laptop","amount":0}`)
			req := withSession(httptest.NewRequest(http.MethodPost, "/budgets", body))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))

			var resp map[string]string
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["message"]).To(Equal("amount must be greater than zero"))
		})
	})

	Describe("ListOwnRequests", func() {
		It("returns the session user's requests", func() {
			service.ownRequests = []budget.BudgetRequest{
				{ID: 1, Title: "Laptop", RequestedBy: "user-42", Status: budget.StatusPending},
			}

			req := withSession(httptest.NewRequest(http.MethodGet, "/budgets/user", nil))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))

			var resp []map[string]interface{}
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp).To(HaveLen(1))
			Expect(resp[0]["requestedBy"]).To(Equal("user-42"))
		})

		It("returns 401 without a session user", func() {
			req := httptest.NewRequest(http.MethodGet, "/budgets/user", nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})
	})

	Describe("UpdateStatus", func() {
		It("applies a decision and echoes the new status", func() {
			service.decided = &budget.BudgetRequest{ID: 7, Status: budget.StatusApproved}

			body := bytes.NewBufferString(`{"status":"Approved"}`)
			req := withSession(httptest.NewRequest(http.MethodPut, "/budgets/7/status", body))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(service.lastStatusID).To(Equal(int64(7)))

			var resp map[string]interface{}
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["message"]).To(Equal("Budget request Approved successfully!"))
		})

		It("returns 400 for a non-numeric id", func() {
			body := bytes.NewBufferString(`{"status":"Approved"}`)
			req := withSession(httptest.NewRequest(http.MethodPut, "/budgets/abc/status", body))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("returns 404 when the request does not exist", func() {
			service.decideErr = internal.ErrBudgetRequestNotFound

			body := bytes.NewBufferString(`{"status":"Approved"}`)
			req := withSession(httptest.NewRequest(http.MethodPut, "/budgets/99/status", body))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})

		It("returns 400 when the request was already decided", func() {
			service.decideErr = internal.ErrAlreadyDecided

			body := bytes.NewBufferString(`{"status":"Rejected"}`)
			req := withSession(httptest.NewRequest(http.MethodPut, "/budgets/7/status", body))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))

			var resp map[string]string
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["message"]).To(Equal("Budget request has already been decided."))
		})
	})

	Describe("GetSummary", func() {
		It("returns aggregated figures", func() {
			service.summary = &budget.Summary{
				Pending:  budget.StatusSummary{Count: 2, TotalAmount: decimal.RequireFromString("300.00")},
				Approved: budget.StatusSummary{Count: 1, TotalAmount: decimal.RequireFromString("1000.00")},
				Rejected: budget.StatusSummary{Count: 0, TotalAmount: decimal.Zero},
			}

			req := withSession(httptest.NewRequest(http.MethodGet, "/budgets/summary", nil))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))

			var resp budget.Summary
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Pending.Count).To(Equal(2))
			Expect(resp.Approved.Count).To(Equal(1))
		})
	})
})
