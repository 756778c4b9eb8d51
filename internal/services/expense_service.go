package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "expensely/internal/errors"
	"expensely/internal/models"
	"expensely/internal/timerange"
)

// expenseService handles expense-related business logic.
type expenseService struct {
	db *gorm.DB

	// emptyAsNotFound preserves the source policy of answering 404 when
	// a list or summary comes back empty. One flag, applied everywhere.
	emptyAsNotFound bool
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(db *gorm.DB, emptyAsNotFound bool) ExpenseServicer {
	return &expenseService{db: db, emptyAsNotFound: emptyAsNotFound}
}

// owned returns a query pre-scoped to the given owner. All reads and
// writes in this service go through it, so an unscoped query cannot be
// built by accident.
func (s *expenseService) owned(userID string) *gorm.DB {
	return s.db.Model(&models.Expense{}).Where("user_id = ?", userID)
}

// CreateExpense creates a new expense for a user.
func (s *expenseService) CreateExpense(userID, title string, amount float64, category models.Category, date time.Time, notes string) (*models.Expense, error) {
	if userID == "" {
		return nil, apperrors.ErrUnauthorized
	}
	if title == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "title is required")
	}
	if amount < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be negative")
	}
	if date.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "date is required")
	}
	if !category.IsValid() {
		category = models.CategoryOther
	}

	expense := &models.Expense{
		UserID:   userID,
		Title:    title,
		Amount:   amount,
		Category: category,
		Date:     date,
		Notes:    notes,
	}

	if err := s.db.Create(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return expense, nil
}

// GetExpenses retrieves the user's expenses matching the query, most
// recent date first. Equal dates fall back to insertion order, which the
// time-ordered UUIDv7 primary key makes deterministic.
func (s *expenseService) GetExpenses(userID string, query ExpenseQuery) ([]models.Expense, error) {
	q, err := s.applyExpenseQuery(s.owned(userID), query, time.Now())
	if err != nil {
		return nil, err
	}

	var expenses []models.Expense
	if err := q.Order("date DESC, id ASC").Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if len(expenses) == 0 && s.emptyAsNotFound {
		return nil, apperrors.ErrNoExpenses
	}
	return expenses, nil
}

// applyExpenseQuery composes the date window and category filters onto
// an already owner-scoped query. An explicit start/end pair overrides
// the named range token entirely.
func (s *expenseService) applyExpenseQuery(q *gorm.DB, query ExpenseQuery, now time.Time) (*gorm.DB, error) {
	var window *timerange.Window
	if w, ok := timerange.Resolve(query.RangeToken, now); ok {
		window = &w
	}
	if query.StartDate != nil && query.EndDate != nil {
		w := timerange.Explicit(*query.StartDate, *query.EndDate)
		window = &w
	}
	if window != nil {
		q = q.Where("date >= ? AND date <= ?", window.Start, window.End)
	}

	if query.Category != nil {
		if !query.Category.IsValid() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown category")
		}
		q = q.Where("category = ?", *query.Category)
	}

	return q, nil
}

// GetExpenseByID retrieves an expense by ID for a specific user.
func (s *expenseService) GetExpenseByID(userID, expenseID string) (*models.Expense, error) {
	var expense models.Expense
	if err := s.owned(userID).Where("id = ?", expenseID).First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &expense, nil
}

// UpdateExpense applies a partial update to an owned expense,
// re-validating constraints and bumping UpdatedAt.
func (s *expenseService) UpdateExpense(userID, expenseID string, update ExpenseUpdate) (*models.Expense, error) {
	expense, err := s.GetExpenseByID(userID, expenseID)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		if *update.Title == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "title must not be empty")
		}
		expense.Title = *update.Title
	}
	if update.Amount != nil {
		if *update.Amount < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be negative")
		}
		expense.Amount = *update.Amount
	}
	if update.Category != nil {
		if !update.Category.IsValid() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown category")
		}
		expense.Category = *update.Category
	}
	if update.Date != nil {
		if update.Date.IsZero() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "date must not be empty")
		}
		expense.Date = *update.Date
	}
	if update.Notes != nil {
		expense.Notes = *update.Notes
	}

	if err := s.db.Save(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expense, nil
}

// DeleteExpense removes an owned expense.
func (s *expenseService) DeleteExpense(userID, expenseID string) error {
	result := s.owned(userID).Where("id = ?", expenseID).Delete(&models.Expense{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrExpenseNotFound
	}
	return nil
}

// GetLastExpenses retrieves the user's most recent expenses by date.
func (s *expenseService) GetLastExpenses(userID string, limit int) ([]models.Expense, error) {
	var expenses []models.Expense
	if err := s.owned(userID).
		Order("date DESC, id ASC").
		Limit(limit).
		Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if len(expenses) == 0 && s.emptyAsNotFound {
		return nil, apperrors.ErrNoExpenses
	}
	return expenses, nil
}

// windowed scopes a query to the trailing window resolved from token.
func (s *expenseService) windowed(userID, token string) *gorm.DB {
	q := s.owned(userID)
	if w, ok := timerange.Resolve(token, time.Now()); ok {
		q = q.Where("date >= ? AND date <= ?", w.Start, w.End)
	}
	return q
}

// MostUsedCategory returns the category with the most expenses in the
// trailing three months. Ties go to the lexicographically smaller
// category name so there is always exactly one winner.
func (s *expenseService) MostUsedCategory(userID string) (*CategoryCount, error) {
	var rows []CategoryCount
	if err := s.windowed(userID, timerange.TokenThreeMonths).
		Select("category, COUNT(*) AS count").
		Group("category").
		Order("count DESC, category ASC").
		Limit(1).
		Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if len(rows) == 0 {
		return nil, apperrors.ErrNoExpenses
	}
	return &rows[0], nil
}

// CategorySummary returns per-category totals and counts over the whole
// ledger, sorted by total spend descending.
func (s *expenseService) CategorySummary(userID string) ([]CategorySummary, error) {
	return s.summarize(s.owned(userID))
}

// LastMonthSummary returns per-category totals and counts over the
// trailing calendar month.
func (s *expenseService) LastMonthSummary(userID string) ([]CategorySummary, error) {
	return s.summarize(s.windowed(userID, timerange.TokenMonth))
}

func (s *expenseService) summarize(q *gorm.DB) ([]CategorySummary, error) {
	var rows []CategorySummary
	if err := q.
		Select("category, SUM(amount) AS total_amount, COUNT(*) AS count").
		Group("category").
		Order("total_amount DESC, category ASC").
		Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if len(rows) == 0 && s.emptyAsNotFound {
		return nil, apperrors.ErrNoExpenses
	}
	return rows, nil
}

// HighestSpentCategory returns the category with the highest total
// spend in the trailing three months, with the same tie-break as
// MostUsedCategory.
func (s *expenseService) HighestSpentCategory(userID string) (*CategoryTotal, error) {
	var rows []CategoryTotal
	if err := s.windowed(userID, timerange.TokenThreeMonths).
		Select("category, SUM(amount) AS total_amount").
		Group("category").
		Order("total_amount DESC, category ASC").
		Limit(1).
		Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if len(rows) == 0 {
		return nil, apperrors.ErrNoExpenses
	}
	return &rows[0], nil
}
