package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"budgetmaster/internal/aggregate"
	apperrors "budgetmaster/internal/errors"
	"budgetmaster/internal/models"
	"budgetmaster/internal/month"
	"budgetmaster/internal/pagination"
	"budgetmaster/internal/services"
)

// --- mock transaction service ---

type mockTransactionService struct {
	createTransactionFn   func(userID string, in services.TransactionInput) (*models.Transaction, error)
	importTransactionsFn  func(userID string, in []services.TransactionInput) ([]models.Transaction, error)
	getUserTransactionsFn func(userID string, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	getTransactionByIDFn  func(userID, transactionID string) (*models.Transaction, error)
	updateTransactionFn   func(userID, transactionID string, update services.TransactionUpdate) (*models.Transaction, error)
	deleteTransactionFn   func(userID, transactionID string) error
	getMonthlySummaryFn   func(userID string, m month.Key) (*services.MonthlySummary, error)
}

func (m *mockTransactionService) CreateTransaction(_ context.Context, userID string, in services.TransactionInput) (*models.Transaction, error) {
	if m.createTransactionFn != nil {
		return m.createTransactionFn(userID, in)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) ImportTransactions(_ context.Context, userID string, in []services.TransactionInput) ([]models.Transaction, error) {
	if m.importTransactionsFn != nil {
		return m.importTransactionsFn(userID, in)
	}
	return make([]models.Transaction, len(in)), nil
}

func (m *mockTransactionService) GetUserTransactions(_ context.Context, userID string, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	if m.getUserTransactionsFn != nil {
		return m.getUserTransactionsFn(userID, page, filter)
	}
	resp := pagination.NewPageResponse([]models.Transaction{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockTransactionService) ListAllTransactions(context.Context, string) ([]models.Transaction, error) {
	return nil, nil
}

func (m *mockTransactionService) GetTransactionByID(_ context.Context, userID, transactionID string) (*models.Transaction, error) {
	if m.getTransactionByIDFn != nil {
		return m.getTransactionByIDFn(userID, transactionID)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) UpdateTransaction(_ context.Context, userID, transactionID string, update services.TransactionUpdate) (*models.Transaction, error) {
	if m.updateTransactionFn != nil {
		return m.updateTransactionFn(userID, transactionID, update)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) DeleteTransaction(_ context.Context, userID, transactionID string) error {
	if m.deleteTransactionFn != nil {
		return m.deleteTransactionFn(userID, transactionID)
	}
	return nil
}

func (m *mockTransactionService) GetMonthlySummary(_ context.Context, userID string, mk month.Key) (*services.MonthlySummary, error) {
	if m.getMonthlySummaryFn != nil {
		return m.getMonthlySummaryFn(userID, mk)
	}
	return &services.MonthlySummary{Month: mk.String()}, nil
}

var _ services.TransactionServicer = (*mockTransactionService)(nil)

func setupTransactionRouter(handler *TransactionHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(testUserID))
	auth.POST("/transactions", handler.CreateTransaction)
	auth.POST("/transactions/import", handler.ImportTransactions)
	auth.GET("/transactions", handler.GetTransactions)
	auth.GET("/transactions/summary", handler.GetMonthlySummary)
	auth.GET("/transactions/:id", handler.GetTransaction)
	auth.PUT("/transactions/:id", handler.UpdateTransaction)
	auth.DELETE("/transactions/:id", handler.DeleteTransaction)
	return r
}

func TestTransactionHandler_CreateTransaction(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		var got services.TransactionInput
		svc := &mockTransactionService{
			createTransactionFn: func(userID string, in services.TransactionInput) (*models.Transaction, error) {
				got = in
				return &models.Transaction{
					Base:        models.Base{ID: testID},
					UserID:      userID,
					Date:        in.Date,
					Category:    in.Category,
					Amount:      in.Amount,
					Description: in.Description,
				}, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/transactions",
			`{"date":"2024-03-05","type":"groceries","category":"expense","amount":"120.50","description":"REMA 1000"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if !got.Date.Equal(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("expected date 2024-03-05, got %v", got.Date)
		}
		if got.Category != models.CategoryExpense || !got.Amount.Equal(decimal.RequireFromString("120.50")) {
			t.Errorf("unexpected input %+v", got)
		}
	})

	t.Run("accepts RFC3339 dates", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/transactions",
			`{"date":"2024-03-05T10:00:00Z","category":"income","amount":100}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("returns 400 on unknown category", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/transactions", `{"date":"2024-03-05","category":"transfer","amount":100}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on bad date", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/transactions", `{"date":"05/03/2024","category":"expense","amount":100}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("propagates service errors", func(t *testing.T) {
		svc := &mockTransactionService{
			createTransactionFn: func(string, services.TransactionInput) (*models.Transaction, error) {
				return nil, apperrors.ErrNegativeAmount
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/transactions", `{"date":"2024-03-05","category":"expense","amount":-1}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "NEGATIVE_AMOUNT")
	})
}

func TestTransactionHandler_ImportTransactions(t *testing.T) {
	t.Run("returns 201 with count", func(t *testing.T) {
		var n int
		svc := &mockTransactionService{
			importTransactionsFn: func(_ string, in []services.TransactionInput) ([]models.Transaction, error) {
				n = len(in)
				return make([]models.Transaction, len(in)), nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/transactions/import", `{"transactions":[
			{"date":"2024-03-05","category":"expense","amount":100,"description":"Kiwi"},
			{"date":"2024-04-01","category":"income","amount":30000,"description":"Salary"}
		]}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if n != 2 {
			t.Errorf("expected 2 inputs, got %d", n)
		}
		if parseJSON(t, rec)["imported"].(float64) != 2 {
			t.Error("expected imported count 2")
		}
	})

	t.Run("returns 400 on empty batch", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/transactions/import", `{"transactions":[]}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 when one row is invalid", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/transactions/import", `{"transactions":[
			{"date":"2024-03-05","category":"expense","amount":100},
			{"date":"2024-03-05","category":"bogus","amount":100}
		]}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_GetTransactions(t *testing.T) {
	t.Run("parses filters", func(t *testing.T) {
		svc := &mockTransactionService{
			getUserTransactionsFn: func(_ string, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
				if page.Page != 2 || page.PageSize != 10 {
					t.Errorf("unexpected page %+v", page)
				}
				if filter.Month == nil || filter.Month.String() != "2024-03" {
					t.Errorf("expected month filter 2024-03, got %v", filter.Month)
				}
				if filter.Category == nil || *filter.Category != models.CategoryExpense {
					t.Errorf("expected expense filter, got %v", filter.Category)
				}
				resp := pagination.NewPageResponse([]models.Transaction{}, page.Page, page.PageSize, 0)
				return &resp, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/transactions?month=2024-03&category=expense&page=2&page_size=10", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("returns 400 on invalid category", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", "/transactions?category=transfer", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_CATEGORY")
	})

	t.Run("returns 400 on page size above limit", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", "/transactions?page_size=500", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_UpdateTransaction(t *testing.T) {
	t.Run("passes partial update", func(t *testing.T) {
		svc := &mockTransactionService{
			updateTransactionFn: func(_, _ string, update services.TransactionUpdate) (*models.Transaction, error) {
				if update.Date == nil || update.Date.Month() != time.April {
					t.Errorf("expected April date, got %v", update.Date)
				}
				if update.Amount != nil || update.Category != nil {
					t.Errorf("expected only date, got %+v", update)
				}
				return &models.Transaction{}, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/transactions/"+testID, `{"date":"2024-04-02"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("returns 404 when missing", func(t *testing.T) {
		svc := &mockTransactionService{
			updateTransactionFn: func(string, string, services.TransactionUpdate) (*models.Transaction, error) {
				return nil, apperrors.ErrTransactionNotFound
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/transactions/"+testID, `{"description":"x"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_DeleteTransaction(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}))

		rec := doRequest(r, "DELETE", "/transactions/"+testID, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on invalid id", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}))

		rec := doRequest(r, "DELETE", "/transactions/42", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_GetMonthlySummary(t *testing.T) {
	t.Run("returns totals", func(t *testing.T) {
		svc := &mockTransactionService{
			getMonthlySummaryFn: func(_ string, m month.Key) (*services.MonthlySummary, error) {
				return &services.MonthlySummary{
					Month: m.String(),
					Totals: aggregate.Totals{
						TotalIncome:   decimal.NewFromInt(1000),
						TotalExpenses: decimal.NewFromInt(400),
						NetTotal:      decimal.NewFromInt(600),
					},
					FoodSpent: decimal.NewFromInt(250),
				}, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/transactions/summary?month=2024-03", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		if result["net_total"] != "600" || result["food_spent"] != "250" || result["month"] != "2024-03" {
			t.Errorf("unexpected summary %v", result)
		}
	})
}
