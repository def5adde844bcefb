// Package repository contains the sqlx-backed Postgres implementations
// of the entity tables. The services accept either these or the
// in-memory store; both map missing rows to the typed not-found error so
// callers see one convention.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/campus-labs/college-erp-api/internal/models"
	appErrors "github.com/campus-labs/college-erp-api/pkg/errors"
)

// AdmissionRepository manages persistence for admission applications.
type AdmissionRepository struct {
	db *sqlx.DB
}

// NewAdmissionRepository constructs an AdmissionRepository.
func NewAdmissionRepository(db *sqlx.DB) *AdmissionRepository {
	return &AdmissionRepository{db: db}
}

type admissionRow struct {
	models.Admission
	Docs pq.StringArray `db:"documents"`
}

func (r admissionRow) toModel() models.Admission {
	a := r.Admission
	a.Documents = []string(r.Docs)
	return a
}

const admissionColumns = `id, student_id, student_name, email, phone, course, status, application_date, documents, fees_paid, review_date, review_remarks`

// Create inserts a new admission application.
func (r *AdmissionRepository) Create(ctx context.Context, a *models.Admission) error {
	query := `INSERT INTO admissions (` + admissionColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.StudentID, a.StudentName, a.Email, a.Phone, a.Course, a.Status,
		a.ApplicationDate, pq.Array(a.Documents), a.FeesPaid, a.ReviewDate, a.ReviewRemarks)
	if err != nil {
		return fmt.Errorf("insert admission: %w", err)
	}
	return nil
}

// List returns applications matching the provided filter.
func (r *AdmissionRepository) List(ctx context.Context, filter models.AdmissionFilter) ([]models.Admission, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.Course != "" {
		conditions = append(conditions, fmt.Sprintf("course = $%d", len(args)+1))
		args = append(args, filter.Course)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(student_name) LIKE $%d OR LOWER(email) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	query := fmt.Sprintf(`SELECT %s FROM admissions WHERE %s ORDER BY application_date ASC`,
		admissionColumns, strings.Join(conditions, " AND "))

	var rows []admissionRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list admissions: %w", err)
	}
	out := make([]models.Admission, len(rows))
	for i, row := range rows {
		out[i] = row.toModel()
	}
	return out, nil
}

// Find fetches an application by ID.
func (r *AdmissionRepository) Find(ctx context.Context, id string) (*models.Admission, error) {
	query := `SELECT ` + admissionColumns + ` FROM admissions WHERE id = $1`
	var row admissionRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "admission not found")
		}
		return nil, fmt.Errorf("find admission: %w", err)
	}
	a := row.toModel()
	return &a, nil
}

// FindByStudent fetches the application keyed to a student ID.
func (r *AdmissionRepository) FindByStudent(ctx context.Context, studentID string) (*models.Admission, error) {
	query := `SELECT ` + admissionColumns + ` FROM admissions WHERE student_id = $1`
	var row admissionRow
	if err := r.db.GetContext(ctx, &row, query, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "admission not found")
		}
		return nil, fmt.Errorf("find admission by student: %w", err)
	}
	a := row.toModel()
	return &a, nil
}

// Update rewrites an application row.
func (r *AdmissionRepository) Update(ctx context.Context, a *models.Admission) error {
	query := `UPDATE admissions SET student_name = $2, email = $3, phone = $4, course = $5,
        status = $6, documents = $7, fees_paid = $8, review_date = $9, review_remarks = $10
        WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query,
		a.ID, a.StudentName, a.Email, a.Phone, a.Course, a.Status,
		pq.Array(a.Documents), a.FeesPaid, a.ReviewDate, a.ReviewRemarks)
	if err != nil {
		return fmt.Errorf("update admission: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "admission not found")
	}
	return nil
}
