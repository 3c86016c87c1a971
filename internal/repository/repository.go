package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/geraldhq/bnpl-gateway/internal/models"
	"github.com/google/uuid"
)

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// SaveDecision persists a credit decision with its risk-factor snapshot
func (r *Repository) SaveDecision(ctx context.Context, rec *models.DecisionRecord) error {
	riskFactors, err := json.Marshal(rec.Decision.RiskFactors)
	if err != nil {
		return fmt.Errorf("failed to encode risk factors: %w", err)
	}

	rec.ID = uuid.New()
	query := `
		INSERT INTO bnpl.decision (id, user_id, requested_cents, approved, credit_limit_cents,
			amount_granted_cents, score_numeric, score_band, risk_factors, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, CURRENT_TIMESTAMP)
		RETURNING created_at`
	err = r.db.QueryRowContext(ctx, query,
		rec.ID, rec.UserID, rec.RequestedCents, rec.Decision.Approved, rec.Decision.CreditLimitCents,
		rec.AmountGrantedCents, rec.Decision.Score, rec.Decision.ScoreBand, riskFactors).
		Scan(&rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save decision: %w", err)
	}
	return nil
}

// SavePlan persists a repayment plan and its installments in one transaction
func (r *Repository) SavePlan(ctx context.Context, plan *models.Plan) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	plan.ID = uuid.New()
	query := `
		INSERT INTO bnpl.plan (id, decision_id, user_id, total_cents, created_at)
		VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP)
		RETURNING created_at`
	if err := tx.QueryRowContext(ctx, query, plan.ID, plan.DecisionID, plan.UserID, plan.TotalCents).
		Scan(&plan.CreatedAt); err != nil {
		return fmt.Errorf("failed to save plan: %w", err)
	}

	instQuery := `
		INSERT INTO bnpl.installment (id, plan_id, due_date, amount_cents, status, created_at)
		VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP)`
	for _, inst := range plan.Installments {
		if _, err := tx.ExecContext(ctx, instQuery,
			uuid.New(), plan.ID, inst.DueDate, inst.AmountCents, inst.Status); err != nil {
			return fmt.Errorf("failed to save installment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit plan: %w", err)
	}
	return nil
}

// PlanByID retrieves a plan with its installments ordered by due date.
// Returns (nil, nil) when the plan does not exist.
func (r *Repository) PlanByID(ctx context.Context, id uuid.UUID) (*models.Plan, error) {
	plan := &models.Plan{}
	query := `
		SELECT id, decision_id, user_id, total_cents, created_at
		FROM bnpl.plan
		WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&plan.ID, &plan.DecisionID, &plan.UserID, &plan.TotalCents, &plan.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find plan: %w", err)
	}

	instQuery := `
		SELECT due_date, amount_cents, status
		FROM bnpl.installment
		WHERE plan_id = $1
		ORDER BY due_date`
	rows, err := r.db.QueryContext(ctx, instQuery, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load installments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var inst models.Installment
		if err := rows.Scan(&inst.DueDate, &inst.AmountCents, &inst.Status); err != nil {
			return nil, fmt.Errorf("failed to scan installment: %w", err)
		}
		plan.Installments = append(plan.Installments, inst)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate installments: %w", err)
	}
	return plan, nil
}

// DecisionsByUser retrieves the most recent decisions for a user
func (r *Repository) DecisionsByUser(ctx context.Context, userID string, limit int) ([]models.DecisionRecord, error) {
	query := `
		SELECT id, user_id, requested_cents, approved, credit_limit_cents,
			amount_granted_cents, score_numeric, score_band, risk_factors, created_at
		FROM bnpl.decision
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query decisions: %w", err)
	}
	defer rows.Close()

	var records []models.DecisionRecord
	for rows.Next() {
		var rec models.DecisionRecord
		var riskFactors []byte
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.RequestedCents, &rec.Decision.Approved,
			&rec.Decision.CreditLimitCents, &rec.AmountGrantedCents, &rec.Decision.Score,
			&rec.Decision.ScoreBand, &riskFactors, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan decision: %w", err)
		}
		if err := json.Unmarshal(riskFactors, &rec.Decision.RiskFactors); err != nil {
			return nil, fmt.Errorf("failed to decode risk factors: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate decisions: %w", err)
	}
	return records, nil
}

// MarkOverdueInstallments flips scheduled installments past due to overdue
// and returns the number of rows affected
func (r *Repository) MarkOverdueInstallments(ctx context.Context, asOf time.Time) (int64, error) {
	query := `
		UPDATE bnpl.installment
		SET status = $1
		WHERE status = $2 AND due_date < $3`
	res, err := r.db.ExecContext(ctx, query, models.InstallmentOverdue, models.InstallmentScheduled, asOf)
	if err != nil {
		return 0, fmt.Errorf("failed to mark overdue installments: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count overdue installments: %w", err)
	}
	return n, nil
}

// OverdueInstallments lists currently overdue installments for the ops digest
func (r *Repository) OverdueInstallments(ctx context.Context) ([]models.OverdueInstallment, error) {
	query := `
		SELECT i.plan_id, p.user_id, i.due_date, i.amount_cents
		FROM bnpl.installment i
		JOIN bnpl.plan p ON p.id = i.plan_id
		WHERE i.status = $1
		ORDER BY i.due_date`
	rows, err := r.db.QueryContext(ctx, query, models.InstallmentOverdue)
	if err != nil {
		return nil, fmt.Errorf("failed to query overdue installments: %w", err)
	}
	defer rows.Close()

	var overdue []models.OverdueInstallment
	for rows.Next() {
		var o models.OverdueInstallment
		if err := rows.Scan(&o.PlanID, &o.UserID, &o.DueDate, &o.AmountCents); err != nil {
			return nil, fmt.Errorf("failed to scan overdue installment: %w", err)
		}
		overdue = append(overdue, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate overdue installments: %w", err)
	}
	return overdue, nil
}
