package services

import (
	"time"

	"expensely/internal/models"
	"expensely/internal/pagination"
)

// ExpenseQuery holds optional filter parameters for listing expenses.
// When StartDate and EndDate are both set, they replace any window the
// RangeToken would resolve to; the two are never merged.
type ExpenseQuery struct {
	RangeToken string
	StartDate  *time.Time
	EndDate    *time.Time
	Category   *models.Category
}

// ExpenseUpdate holds the fields of a partial expense update. Nil
// fields are left untouched.
type ExpenseUpdate struct {
	Title    *string
	Amount   *float64
	Category *models.Category
	Date     *time.Time
	Notes    *string
}

// CategoryCount is a count-per-category aggregation row.
type CategoryCount struct {
	Category models.Category `json:"category"`
	Count    int64           `json:"count"`
}

// CategoryTotal is a sum-per-category aggregation row.
type CategoryTotal struct {
	Category    models.Category `json:"category"`
	TotalAmount float64         `json:"total_amount"`
}

// CategorySummary combines the total spend and record count for one category.
type CategorySummary struct {
	Category    models.Category `json:"category"`
	TotalAmount float64         `json:"total_amount"`
	Count       int64           `json:"count"`
}

// ExpenseServicer defines the contract for expense-related business logic.
// Every operation is scoped to the owning user; no call path can touch
// another user's records.
type ExpenseServicer interface {
	CreateExpense(userID, title string, amount float64, category models.Category, date time.Time, notes string) (*models.Expense, error)
	GetExpenses(userID string, query ExpenseQuery) ([]models.Expense, error)
	GetExpenseByID(userID, expenseID string) (*models.Expense, error)
	UpdateExpense(userID, expenseID string, update ExpenseUpdate) (*models.Expense, error)
	DeleteExpense(userID, expenseID string) error
	GetLastExpenses(userID string, limit int) ([]models.Expense, error)
	MostUsedCategory(userID string) (*CategoryCount, error)
	CategorySummary(userID string) ([]CategorySummary, error)
	HighestSpentCategory(userID string) (*CategoryTotal, error)
	LastMonthSummary(userID string) ([]CategorySummary, error)
}

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	SendResetCode(email string) error
	VerifyResetCode(email, code string) error
	ResetPassword(email, newPassword string) error
}

// CodeSender delivers a one-time numeric code to an email address.
// Implemented by the SMTP mailer; faked in tests.
type CodeSender interface {
	SendResetCode(email, code string) error
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
	GetUserActivity(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.AuditLog], error)
}
