package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/campus-labs/college-erp-api/internal/models"
	appErrors "github.com/campus-labs/college-erp-api/pkg/errors"
)

// FeeRepository manages persistence for fee records.
type FeeRepository struct {
	db *sqlx.DB
}

// NewFeeRepository constructs a FeeRepository.
func NewFeeRepository(db *sqlx.DB) *FeeRepository {
	return &FeeRepository{db: db}
}

const feeColumns = `id, student_id, student_name, amount, type, status, due_date, paid_date, receipt_number`

// Create inserts a new fee record.
func (r *FeeRepository) Create(ctx context.Context, f *models.Fee) error {
	query := `INSERT INTO fees (` + feeColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.ExecContext(ctx, query,
		f.ID, f.StudentID, f.StudentName, f.Amount, f.Type, f.Status, f.DueDate, f.PaidDate, f.ReceiptNumber)
	if err != nil {
		return fmt.Errorf("insert fee: %w", err)
	}
	return nil
}

// List returns all fee records ordered by due date.
func (r *FeeRepository) List(ctx context.Context) ([]models.Fee, error) {
	query := `SELECT ` + feeColumns + ` FROM fees ORDER BY due_date ASC, id ASC`
	var fees []models.Fee
	if err := r.db.SelectContext(ctx, &fees, query); err != nil {
		return nil, fmt.Errorf("list fees: %w", err)
	}
	return fees, nil
}

// ListByStudent returns the fee records billed to a student.
func (r *FeeRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Fee, error) {
	query := `SELECT ` + feeColumns + ` FROM fees WHERE student_id = $1 ORDER BY due_date ASC, id ASC`
	var fees []models.Fee
	if err := r.db.SelectContext(ctx, &fees, query, studentID); err != nil {
		return nil, fmt.Errorf("list fees by student: %w", err)
	}
	return fees, nil
}

// Find fetches a fee record by ID.
func (r *FeeRepository) Find(ctx context.Context, id string) (*models.Fee, error) {
	query := `SELECT ` + feeColumns + ` FROM fees WHERE id = $1`
	var fee models.Fee
	if err := r.db.GetContext(ctx, &fee, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "fee not found")
		}
		return nil, fmt.Errorf("find fee: %w", err)
	}
	return &fee, nil
}

// Update rewrites a fee row.
func (r *FeeRepository) Update(ctx context.Context, f *models.Fee) error {
	query := `UPDATE fees SET student_name = $2, amount = $3, type = $4, status = $5,
        due_date = $6, paid_date = $7, receipt_number = $8 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query,
		f.ID, f.StudentName, f.Amount, f.Type, f.Status, f.DueDate, f.PaidDate, f.ReceiptNumber)
	if err != nil {
		return fmt.Errorf("update fee: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "fee not found")
	}
	return nil
}
