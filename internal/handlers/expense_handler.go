package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "expensely/internal/errors"
	"expensely/internal/models"
	"expensely/internal/services"
)

// lastExpensesLimit is how many records the last-expenses endpoint returns.
const lastExpensesLimit = 5

// ExpenseHandler handles expense-related requests.
type ExpenseHandler struct {
	expenseService services.ExpenseServicer
	auditService   services.AuditServicer
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseService services.ExpenseServicer, auditService services.AuditServicer) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService, auditService: auditService}
}

// CreateExpenseRequest represents the request payload for creating an expense.
// An unknown or missing category falls back to Other rather than failing.
type CreateExpenseRequest struct {
	Title    string   `json:"title" binding:"required,max=200"`
	Amount   *float64 `json:"amount" binding:"required,gte=0"`
	Category string   `json:"category"`
	Date     string   `json:"date" binding:"required"`
	Notes    string   `json:"notes" binding:"max=1000"`
}

// UpdateExpenseRequest represents a partial expense update. Absent
// fields are left unchanged; a supplied category must be valid.
type UpdateExpenseRequest struct {
	Title    *string  `json:"title" binding:"omitempty,max=200"`
	Amount   *float64 `json:"amount" binding:"omitempty,gte=0"`
	Category *string  `json:"category" binding:"omitempty,expense_category"`
	Date     *string  `json:"date"`
	Notes    *string  `json:"notes" binding:"omitempty,max=1000"`
}

// ListExpensesQuery holds the query parameters for listing expenses.
type ListExpensesQuery struct {
	Filter    string `form:"filter"`
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
	Category  string `form:"category" binding:"omitempty,expense_category"`
}

// CreateExpense handles the creation of a new expense
// @Summary     Create an expense
// @Description Create a new expense for the authenticated user
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateExpenseRequest true "Expense details"
// @Success     201 {object} models.Expense "Expense created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	date, err := parseFlexibleTime(req.Date)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	expense, err := h.expenseService.CreateExpense(
		userID,
		req.Title,
		*req.Amount,
		models.ParseCategory(req.Category),
		date,
		req.Notes,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_EXPENSE", "expense", expense.ID, c.ClientIP(),
		map[string]interface{}{"title": expense.Title, "amount": expense.Amount, "category": expense.Category})

	c.JSON(http.StatusCreated, gin.H{"expense": expense})
}

// GetExpenses handles the retrieval of expenses with optional filters
// @Summary     List expenses
// @Description List the authenticated user's expenses, newest date first. Supports a relative window (week, month, 3months, year), an explicit startDate/endDate range that overrides the window, and a category filter.
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       filter    query string false "Relative window" Enums(week, month, 3months, year)
// @Param       startDate query string false "Explicit range start (YYYY-MM-DD)"
// @Param       endDate   query string false "Explicit range end (YYYY-MM-DD)"
// @Param       category  query string false "Category filter"
// @Success     200 {array} models.Expense "Expenses"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "No expenses found"
// @Router      /expenses [get]
func (h *ExpenseHandler) GetExpenses(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q ListExpensesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	query := services.ExpenseQuery{RangeToken: q.Filter}

	// An explicit range needs both bounds; a lone bound is ignored,
	// matching the source behavior.
	if q.StartDate != "" && q.EndDate != "" {
		start, err := parseFlexibleTime(q.StartDate)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
			return
		}
		end, err := parseFlexibleTime(q.EndDate)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
			return
		}
		query.StartDate = &start
		query.EndDate = &end
	}

	if q.Category != "" {
		category := models.Category(q.Category)
		query.Category = &category
	}

	expenses, err := h.expenseService.GetExpenses(userID, query)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": len(expenses), "expenses": expenses})
}

// GetExpenseByID handles the retrieval of a single expense
// @Summary     Get an expense
// @Description Get one of the authenticated user's expenses by id
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} models.Expense "Expense"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /expenses/{id} [get]
func (h *ExpenseHandler) GetExpenseByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.GetExpenseByID(userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// UpdateExpense handles partial updates of an expense
// @Summary     Update an expense
// @Description Update fields of one of the authenticated user's expenses
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string               true "Expense ID"
// @Param       request body UpdateExpenseRequest true "Fields to update"
// @Success     200 {object} models.Expense "Updated expense"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /expenses/{id} [patch]
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	update := services.ExpenseUpdate{
		Title:  req.Title,
		Amount: req.Amount,
		Notes:  req.Notes,
	}
	if req.Category != nil {
		category := models.Category(*req.Category)
		update.Category = &category
	}
	if req.Date != nil && *req.Date != "" {
		date, err := parseFlexibleTime(*req.Date)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
			return
		}
		update.Date = &date
	}

	expense, err := h.expenseService.UpdateExpense(userID, c.Param("id"), update)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_EXPENSE", "expense", expense.ID, c.ClientIP(),
		map[string]interface{}{"title": expense.Title, "amount": expense.Amount, "category": expense.Category})

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// DeleteExpense handles the deletion of an expense
// @Summary     Delete an expense
// @Description Delete one of the authenticated user's expenses
// @Tags        expenses
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     204 "Expense deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID := c.Param("id")
	if err := h.expenseService.DeleteExpense(userID, expenseID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_EXPENSE", "expense", expenseID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}

// GetLastExpenses handles the retrieval of the five most recent expenses
// @Summary     Last five expenses
// @Description Get the authenticated user's five most recent expenses by date
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.Expense "Expenses"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "No expenses found"
// @Router      /expenses/last5 [get]
func (h *ExpenseHandler) GetLastExpenses(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenses, err := h.expenseService.GetLastExpenses(userID, lastExpensesLimit)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expenses": expenses})
}

// GetMostUsedCategory handles the most-used-category aggregation
// @Summary     Most used category
// @Description Get the category with the most expenses in the trailing three months
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.CategoryCount "Winning category and count"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "No expenses found"
// @Router      /expenses/most-used-category [get]
func (h *ExpenseHandler) GetMostUsedCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.expenseService.MostUsedCategory(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": result.Category, "count": result.Count})
}

// GetCategorySummary handles the all-time category summary aggregation
// @Summary     Category summary
// @Description Get total spend and record count per category over the whole ledger, sorted by total descending
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} services.CategorySummary "Per-category totals"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "No expenses found"
// @Router      /expenses/category-summary [get]
func (h *ExpenseHandler) GetCategorySummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.expenseService.CategorySummary(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": summary})
}

// GetHighestSpentCategory handles the highest-spent-category aggregation
// @Summary     Highest spent category
// @Description Get the category with the highest total spend in the trailing three months
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.CategoryTotal "Winning category and total"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "No expenses found"
// @Router      /expenses/highest-spent-category [get]
func (h *ExpenseHandler) GetHighestSpentCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.expenseService.HighestSpentCategory(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": result.Category, "total_amount": result.TotalAmount})
}

// GetLastMonthSummary handles the trailing-month category summary
// @Summary     Last month summary
// @Description Get total spend and record count per category over the trailing month, sorted by total descending
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} services.CategorySummary "Per-category totals"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "No expenses found"
// @Router      /expenses/last-month-summary [get]
func (h *ExpenseHandler) GetLastMonthSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.expenseService.LastMonthSummary(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": summary})
}
