package store

import (
	"context"
	"fmt"
	"time"

	"github.com/dmarifin/dompet/internal/dbx"
	"github.com/shopspring/decimal"
)

// GoalRepository stores savings goals.
type GoalRepository struct {
	db dbx.DBTX
}

func NewGoalRepository(db dbx.DBTX) *GoalRepository {
	return &GoalRepository{db: db}
}

// CreateOrUpdate upserts a goal by id.
func (r *GoalRepository) CreateOrUpdate(ctx context.Context, g *Goal) error {
	query := `INSERT INTO goals (id, name, target_amount, current_amount, deadline, achieved)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name,
			target_amount = excluded.target_amount,
			current_amount = excluded.current_amount,
			deadline = excluded.deadline,
			achieved = excluded.achieved`
	_, err := r.db.ExecContext(ctx, query,
		g.ID, g.Name, g.TargetAmount.String(), g.CurrentAmount.String(),
		g.Deadline.Format(time.RFC3339Nano), g.Achieved)
	if err != nil {
		return fmt.Errorf("failed to upsert goal: %w", err)
	}
	return nil
}

// All returns every goal ordered by deadline.
func (r *GoalRepository) All(ctx context.Context) ([]Goal, error) {
	query := `SELECT id, name, target_amount, current_amount, deadline, achieved
		FROM goals ORDER BY deadline`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select goals: %w", err)
	}
	defer rows.Close()

	var result []Goal
	for rows.Next() {
		var (
			item                      Goal
			target, current, deadline string
		)
		if err := rows.Scan(&item.ID, &item.Name, &target, &current, &deadline, &item.Achieved); err != nil {
			return nil, err
		}
		if item.TargetAmount, err = decimal.NewFromString(target); err != nil {
			return nil, fmt.Errorf("bad target amount for goal %s: %w", item.ID, err)
		}
		if item.CurrentAmount, err = decimal.NewFromString(current); err != nil {
			return nil, fmt.Errorf("bad current amount for goal %s: %w", item.ID, err)
		}
		if item.Deadline, err = time.Parse(time.RFC3339Nano, deadline); err != nil {
			return nil, fmt.Errorf("bad deadline for goal %s: %w", item.ID, err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Purge deletes all goals.
func (r *GoalRepository) Purge(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM goals`); err != nil {
		return fmt.Errorf("failed to purge goals: %w", err)
	}
	return nil
}
