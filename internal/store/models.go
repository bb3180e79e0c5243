package store

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType distinguishes money coming in from money going out.
type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

// Transaction is a single posted income or expense entry.
type Transaction struct {
	ID         string          `json:"id"`
	Type       TransactionType `json:"type"`
	CategoryID string          `json:"categoryId"`
	Amount     decimal.Decimal `json:"amount"`
	Note       string          `json:"note"`
	Date       time.Time       `json:"date"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// Category groups transactions for budgeting and reporting.
type Category struct {
	ID   string          `json:"id"`
	Name string          `json:"name"`
	Type TransactionType `json:"type"`
	Icon string          `json:"icon"`
}

// Budget caps spending for one category in one month ("2006-01" format).
type Budget struct {
	ID         string          `json:"id"`
	CategoryID string          `json:"categoryId"`
	Amount     decimal.Decimal `json:"amount"`
	Month      string          `json:"month"`
}

// Goal is a savings target the user works toward.
type Goal struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	Deadline      time.Time       `json:"deadline"`
	Achieved      bool            `json:"achieved"`
}

// RecurringRule describes a transaction the scheduler posts automatically.
type RecurringRule struct {
	ID          string          `json:"id"`
	Type        TransactionType `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Frequency   string          `json:"frequency"`
	NextDue     time.Time       `json:"nextDue"`
}

// NotificationType classifies user-facing notifications.
type NotificationType string

const (
	NotificationBudgetWarning NotificationType = "budget_warning"
	NotificationGoalAchieved  NotificationType = "goal_achieved"
	NotificationBillReminder  NotificationType = "bill_reminder"
	NotificationRecurring     NotificationType = "recurring_transaction"
	NotificationGeneral       NotificationType = "general"
)

// NotificationPriority orders notifications for display.
type NotificationPriority string

const (
	PriorityLow    NotificationPriority = "low"
	PriorityMedium NotificationPriority = "medium"
	PriorityHigh   NotificationPriority = "high"
)

// NotificationDraft is an unsaved notification produced by a domain event.
// The repository assigns the id on create; drafts always start unread.
type NotificationDraft struct {
	Type      NotificationType     `json:"type"`
	Title     string               `json:"title"`
	Message   string               `json:"message"`
	Icon      string               `json:"icon"`
	Priority  NotificationPriority `json:"priority"`
	IsRead    bool                 `json:"isRead"`
	CreatedAt time.Time            `json:"createdAt"`
	RelatedID string               `json:"relatedId,omitempty"`
}

// Notification is a persisted NotificationDraft.
type Notification struct {
	ID string `json:"id"`
	NotificationDraft
}
