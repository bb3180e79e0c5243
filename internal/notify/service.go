// Package notify turns domain events (budget thresholds crossed, goals
// reached, bills due, recurring entries posted) into persisted user-facing
// notifications. Delivery is best effort: a failing notification pipeline
// must never block or fail the domain action that triggered it, so every
// persistence error is swallowed after logging.
package notify

import (
	"context"
	"time"

	"github.com/dmarifin/dompet/internal/logging"
	"github.com/dmarifin/dompet/internal/store"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Creator is the capability needed from the local store: persist one draft
// and hand back its id.
type Creator interface {
	Create(ctx context.Context, d store.NotificationDraft) (string, error)
}

// Service builds and persists notification drafts. It is stateless apart
// from its collaborators and safe for concurrent use.
type Service struct {
	notifications Creator
	log           logging.Logger
	printer       *message.Printer

	now func() time.Time
}

// New builds a Service. locale controls number formatting in messages
// (e.g. language.Indonesian renders 5000000 as "5.000.000").
func New(c Creator, log logging.Logger, locale language.Tag) *Service {
	return &Service{
		notifications: c,
		log:           log,
		printer:       message.NewPrinter(locale),
		now:           time.Now,
	}
}

// draft stamps the shared defaults every notification starts with.
func (s *Service) draft(t store.NotificationType, p store.NotificationPriority,
	title, msg, icon, relatedID string) store.NotificationDraft {
	return store.NotificationDraft{
		Type:      t,
		Title:     title,
		Message:   msg,
		Icon:      icon,
		Priority:  p,
		IsRead:    false,
		CreatedAt: s.now(),
		RelatedID: relatedID,
	}
}

// deliver persists the draft, swallowing any failure. The swallow is
// deliberate and visible here rather than hidden at call sites.
func (s *Service) deliver(ctx context.Context, d store.NotificationDraft) {
	if _, err := s.notifications.Create(ctx, d); err != nil {
		s.log.Error(ctx, "notification dropped", "type", d.Type, "error", err)
	}
}

// amount renders a money value with locale-aware thousands grouping and no
// fraction digits.
func (s *Service) amount(v decimal.Decimal) string {
	return s.printer.Sprint(number.Decimal(v.InexactFloat64(), number.MaxFractionDigits(0)))
}

// BudgetThreshold reports how much of a category's budget is used.
// percentage is percent-of-budget-consumed; classification:
// >= 100 over budget (high), 80..100 approaching (medium), below 80 (low).
func (s *Service) BudgetThreshold(ctx context.Context, category string, percentage float64, budgetID string) {
	var d store.NotificationDraft
	switch {
	case percentage >= 100:
		d = s.draft(store.NotificationBudgetWarning, store.PriorityHigh,
			"Budget Exceeded!",
			s.printer.Sprintf("You are over your %s budget (%.0f%% used).", category, percentage),
			"alert-circle", budgetID)
	case percentage >= 80:
		d = s.draft(store.NotificationBudgetWarning, store.PriorityMedium,
			"Budget Warning",
			s.printer.Sprintf("You are approaching your %s budget limit (%.0f%% used).", category, percentage),
			"alert", budgetID)
	default:
		d = s.draft(store.NotificationBudgetWarning, store.PriorityLow,
			"Budget Update",
			s.printer.Sprintf("Your %s budget is at %.0f%%.", category, percentage),
			"information", budgetID)
	}
	s.deliver(ctx, d)
}

// GoalAchieved celebrates a completed savings goal.
func (s *Service) GoalAchieved(ctx context.Context, name string, achieved decimal.Decimal, goalID string) {
	d := s.draft(store.NotificationGoalAchieved, store.PriorityHigh,
		"Goal Achieved!",
		s.printer.Sprintf("Congratulations! You reached your \"%s\" goal of %s.", name, s.amount(achieved)),
		"trophy", goalID)
	s.deliver(ctx, d)
}

// BillReminder reminds about an upcoming bill. dueDate is passed through
// verbatim; no parsing or validation happens here.
func (s *Service) BillReminder(ctx context.Context, description string, amount decimal.Decimal, dueDate string, relatedID string) {
	d := s.draft(store.NotificationBillReminder, store.PriorityMedium,
		"Bill Reminder",
		s.printer.Sprintf("%s of %s is due on %s.", description, s.amount(amount), dueDate),
		"file-document", relatedID)
	s.deliver(ctx, d)
}

// RecurringPosted announces a recurring transaction the scheduler just
// posted. Icon and wording depend on whether money came in or went out.
func (s *Service) RecurringPosted(ctx context.Context, description string, txType store.TransactionType, amount decimal.Decimal, txID string) {
	icon := "cash-minus"
	msg := s.printer.Sprintf("Recurring expense posted: %s (%s).", description, s.amount(amount))
	if txType == store.TransactionIncome {
		icon = "cash-plus"
		msg = s.printer.Sprintf("Recurring income received: %s (%s).", description, s.amount(amount))
	}

	d := s.draft(store.NotificationRecurring, store.PriorityLow,
		"Recurring Transaction", msg, icon, txID)
	s.deliver(ctx, d)
}

// Welcome is the one-time greeting after a fresh install. "One time" is the
// caller's responsibility; this service happily creates another if invoked
// again.
func (s *Service) Welcome(ctx context.Context) {
	d := s.draft(store.NotificationGeneral, store.PriorityLow,
		"Welcome to Dompet!",
		"Start by adding your first transaction or setting up a budget.",
		"hand-wave", "")
	s.deliver(ctx, d)
}
