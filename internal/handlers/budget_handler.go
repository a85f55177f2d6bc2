package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "budgetmaster/internal/errors"
	"budgetmaster/internal/models"
	"budgetmaster/internal/month"
	"budgetmaster/internal/services"
	"budgetmaster/internal/storage"
)

// BudgetHandler handles budget-related requests.
type BudgetHandler struct {
	budgetService services.BudgetServicer
	reconciler    services.Reconciler
	auditService  services.AuditServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer, reconciler services.Reconciler, auditService services.AuditServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService, reconciler: reconciler, auditService: auditService}
}

// CreateBudgetRequest represents the request payload for creating a budget.
type CreateBudgetRequest struct {
	Name          string           `json:"name" binding:"required,notblank,max=100"`
	PlannedBudget *decimal.Decimal `json:"planned_budget" binding:"required" swaggertype:"number"`
	MoneySpent    *decimal.Decimal `json:"money_spent" swaggertype:"number"`
	Month         string           `json:"month" binding:"required,month_key" example:"2024-11"`
	IsRecurring   bool             `json:"is_recurring"`
}

// UpdateBudgetRequest represents the request payload for updating a budget.
type UpdateBudgetRequest struct {
	Name          *string          `json:"name" binding:"omitempty,notblank,max=100"`
	PlannedBudget *decimal.Decimal `json:"planned_budget" swaggertype:"number"`
	MoneySpent    *decimal.Decimal `json:"money_spent" swaggertype:"number"`
	Month         *string          `json:"month" binding:"omitempty,month_key" example:"2024-11"`
	IsRecurring   *bool            `json:"is_recurring"`
}

// SyncFoodBudgetRequest represents the request payload for a food budget sync.
type SyncFoodBudgetRequest struct {
	Month string `json:"month" binding:"required,month_key" example:"2024-03"`
}

// BudgetListResponse is the list of budgets of one month.
type BudgetListResponse struct {
	Month   string          `json:"month"`
	Budgets []models.Budget `json:"budgets"`
}

// CreateBudget handles the creation of a budget, or of twelve monthly budgets
// when is_recurring is set.
// @Summary     Create a budget
// @Description Create a budget for a month. Recurring budgets are created for the given month and the 11 following months.
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateBudgetRequest true "Budget details"
// @Success     201 {object} map[string][]models.Budget "Budgets created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Budget already exists for a month"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets [post]
func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	m, err := month.Parse(req.Month)
	if err != nil {
		respondWithError(c, apperrors.ErrInvalidMonth)
		return
	}

	draft := services.BudgetDraft{
		Name:          req.Name,
		PlannedBudget: *req.PlannedBudget,
		Month:         m,
		IsRecurring:   req.IsRecurring,
	}
	if req.MoneySpent != nil {
		draft.MoneySpent = *req.MoneySpent
	}

	budgets, err := h.budgetService.AddBudget(c.Request.Context(), userID, draft)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_BUDGET", "budget", budgets[0].ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "month": req.Month, "is_recurring": req.IsRecurring, "rows": len(budgets)})

	c.JSON(http.StatusCreated, gin.H{"budgets": budgets})
}

// GetBudgets handles listing the budgets of a month.
// @Summary     Get budgets
// @Description Get the authenticated user's budgets for a month
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       month query string false "Month as YYYY-MM (default current month)"
// @Success     200 {object} BudgetListResponse "Budgets of the month"
// @Failure     400 {object} ErrorResponse "Invalid month"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets [get]
func (h *BudgetHandler) GetBudgets(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	m, err := parseMonthQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgets, err := h.budgetService.FetchBudgets(c.Request.Context(), userID, m)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, BudgetListResponse{Month: m.String(), Budgets: budgets})
}

// GetBudget handles retrieving a specific budget.
// @Summary     Get budget by ID
// @Description Get a specific budget by ID
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget ID"
// @Success     200 {object} models.Budget "Budget details"
// @Failure     400 {object} ErrorResponse "Invalid budget ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [get]
func (h *BudgetHandler) GetBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.budgetService.GetBudgetByID(c.Request.Context(), userID, budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// UpdateBudget handles updating an existing budget.
// @Summary     Update budget
// @Description Update fields of a single month's budget
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string              true "Budget ID"
// @Param       request body UpdateBudgetRequest true "Updated budget fields"
// @Success     200 {object} models.Budget "Updated budget"
// @Failure     400 {object} ErrorResponse "Invalid input or budget ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     409 {object} ErrorResponse "Budget already exists for the month"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [put]
func (h *BudgetHandler) UpdateBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	budget, err := h.budgetService.UpdateBudget(c.Request.Context(), userID, budgetID, storage.BudgetUpdate{
		Name:          req.Name,
		PlannedBudget: req.PlannedBudget,
		MoneySpent:    req.MoneySpent,
		Month:         req.Month,
		IsRecurring:   req.IsRecurring,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_BUDGET", "budget", budgetID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// DeleteBudget handles deleting a budget.
// @Summary     Delete budget
// @Description Delete a single month's budget; other months of a recurring budget are kept
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget ID"
// @Success     200 {object} MessageResponse "Budget deleted"
// @Failure     400 {object} ErrorResponse "Invalid budget ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [delete]
func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetService.DeleteBudget(c.Request.Context(), userID, budgetID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_BUDGET", "budget", budgetID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Budget deleted successfully"})
}

// SyncFoodBudget recomputes the food budget of a month from the user's transactions.
// @Summary     Synchronize food budget
// @Description Set money_spent of the month's food budget to the food spend of the user's transactions, creating the budget if needed
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body SyncFoodBudgetRequest true "Month to synchronize"
// @Success     200 {object} services.SyncResult "Synchronization result"
// @Failure     400 {object} ErrorResponse "Invalid month"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Synchronization failed"
// @Router      /budgets/food/sync [post]
func (h *BudgetHandler) SyncFoodBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SyncFoodBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	m, err := month.Parse(req.Month)
	if err != nil {
		respondWithError(c, apperrors.ErrInvalidMonth)
		return
	}

	result, err := h.reconciler.ReconcileMonth(c.Request.Context(), userID, m)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "SYNC_FOOD_BUDGET", "budget", result.Budget.ID, c.ClientIP(),
		map[string]interface{}{"month": result.Month, "spent": result.Spent.String(), "created": result.Created})

	c.JSON(http.StatusOK, result)
}
