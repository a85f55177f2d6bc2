package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "budgetmaster/internal/errors"
	"budgetmaster/internal/pagination"
	"budgetmaster/internal/services"
)

// SavingsGoalHandler handles savings goal requests.
type SavingsGoalHandler struct {
	goalService  services.SavingsGoalServicer
	auditService services.AuditServicer
}

// NewSavingsGoalHandler creates a new SavingsGoalHandler.
func NewSavingsGoalHandler(goalService services.SavingsGoalServicer, auditService services.AuditServicer) *SavingsGoalHandler {
	return &SavingsGoalHandler{goalService: goalService, auditService: auditService}
}

// CreateSavingsGoalRequest represents the request payload for creating a savings goal.
type CreateSavingsGoalRequest struct {
	Name         string           `json:"name" binding:"required,notblank,max=100"`
	TargetAmount *decimal.Decimal `json:"target_amount" binding:"required" swaggertype:"number"`
	SavedAmount  *decimal.Decimal `json:"saved_amount" swaggertype:"number"`
	Deadline     *string          `json:"deadline" example:"2025-06-30"`
}

// UpdateSavingsGoalRequest represents the request payload for updating a savings goal.
type UpdateSavingsGoalRequest struct {
	Name         *string          `json:"name" binding:"omitempty,notblank,max=100"`
	TargetAmount *decimal.Decimal `json:"target_amount" swaggertype:"number"`
	Deadline     *string          `json:"deadline" example:"2025-06-30"`
}

// AddFundsRequest represents the request payload for adding funds to a goal.
type AddFundsRequest struct {
	Amount *decimal.Decimal `json:"amount" binding:"required" swaggertype:"number"`
}

// CreateSavingsGoal handles creating a savings goal.
// @Summary     Create savings goal
// @Description Create a savings goal for the authenticated user
// @Tags        savings-goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateSavingsGoalRequest true "Savings goal details"
// @Success     201 {object} models.SavingsGoal "Savings goal created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /savings-goals [post]
func (h *SavingsGoalHandler) CreateSavingsGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateSavingsGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	input := services.SavingsGoalInput{Name: req.Name, TargetAmount: *req.TargetAmount}
	if req.SavedAmount != nil {
		input.SavedAmount = *req.SavedAmount
	}
	if req.Deadline != nil {
		deadline, err := parseFlexibleTime(*req.Deadline)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid deadline format, use RFC3339 or YYYY-MM-DD"))
			return
		}
		input.Deadline = &deadline
	}

	goal, err := h.goalService.CreateSavingsGoal(c.Request.Context(), userID, input)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_SAVINGS_GOAL", "savings_goal", goal.ID, c.ClientIP(),
		map[string]interface{}{"name": goal.Name, "target_amount": goal.TargetAmount.String()})

	c.JSON(http.StatusCreated, gin.H{"savings_goal": goal})
}

// GetSavingsGoals handles listing savings goals.
// @Summary     Get savings goals
// @Description Get a paginated list of the authenticated user's savings goals
// @Tags        savings-goals
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.SavingsGoal] "Paginated savings goals"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /savings-goals [get]
func (h *SavingsGoalHandler) GetSavingsGoals(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	result, err := h.goalService.GetUserSavingsGoals(c.Request.Context(), userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetSavingsGoal handles retrieving a savings goal.
// @Summary     Get savings goal by ID
// @Description Get a specific savings goal by ID
// @Tags        savings-goals
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Savings goal ID"
// @Success     200 {object} models.SavingsGoal "Savings goal details"
// @Failure     400 {object} ErrorResponse "Invalid savings goal ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Savings goal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /savings-goals/{id} [get]
func (h *SavingsGoalHandler) GetSavingsGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	goal, err := h.goalService.GetSavingsGoalByID(c.Request.Context(), userID, goalID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"savings_goal": goal, "progress": goal.Progress()})
}

// UpdateSavingsGoal handles updating a savings goal.
// @Summary     Update savings goal
// @Description Update the name, target or deadline of a savings goal
// @Tags        savings-goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                   true "Savings goal ID"
// @Param       request body UpdateSavingsGoalRequest true "Updated fields"
// @Success     200 {object} models.SavingsGoal "Updated savings goal"
// @Failure     400 {object} ErrorResponse "Invalid input or savings goal ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Savings goal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /savings-goals/{id} [put]
func (h *SavingsGoalHandler) UpdateSavingsGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateSavingsGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	update := services.SavingsGoalUpdate{Name: req.Name, TargetAmount: req.TargetAmount}
	if req.Deadline != nil {
		deadline, err := parseFlexibleTime(*req.Deadline)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid deadline format, use RFC3339 or YYYY-MM-DD"))
			return
		}
		update.Deadline = &deadline
	}

	goal, err := h.goalService.UpdateSavingsGoal(c.Request.Context(), userID, goalID, update)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_SAVINGS_GOAL", "savings_goal", goalID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"savings_goal": goal})
}

// DeleteSavingsGoal handles deleting a savings goal.
// @Summary     Delete savings goal
// @Description Delete a savings goal
// @Tags        savings-goals
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Savings goal ID"
// @Success     200 {object} MessageResponse "Savings goal deleted"
// @Failure     400 {object} ErrorResponse "Invalid savings goal ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Savings goal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /savings-goals/{id} [delete]
func (h *SavingsGoalHandler) DeleteSavingsGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.goalService.DeleteSavingsGoal(c.Request.Context(), userID, goalID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_SAVINGS_GOAL", "savings_goal", goalID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Savings goal deleted successfully"})
}

// AddFunds handles adding money to a savings goal.
// @Summary     Add funds
// @Description Add a positive amount to the saved amount of a goal
// @Tags        savings-goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string          true "Savings goal ID"
// @Param       request body AddFundsRequest true "Amount to add"
// @Success     200 {object} models.SavingsGoal "Updated savings goal"
// @Failure     400 {object} ErrorResponse "Invalid amount or savings goal ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Savings goal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /savings-goals/{id}/funds [post]
func (h *SavingsGoalHandler) AddFunds(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AddFundsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	goal, err := h.goalService.AddFunds(c.Request.Context(), userID, goalID, *req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "ADD_SAVINGS_FUNDS", "savings_goal", goalID, c.ClientIP(),
		map[string]interface{}{"amount": req.Amount.String()})

	c.JSON(http.StatusOK, gin.H{"savings_goal": goal})
}
