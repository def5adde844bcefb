package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/campus-labs/college-erp-api/internal/models"
	appErrors "github.com/campus-labs/college-erp-api/pkg/errors"
)

// BookRepository manages persistence for the library catalog.
type BookRepository struct {
	db *sqlx.DB
}

// NewBookRepository constructs a BookRepository.
func NewBookRepository(db *sqlx.DB) *BookRepository {
	return &BookRepository{db: db}
}

const bookColumns = `id, title, author, isbn, category, status, issued_to_student_id, issued_to_name, issued_date, due_date`

// Create inserts a catalog entry.
func (r *BookRepository) Create(ctx context.Context, b *models.LibraryBook) error {
	query := `INSERT INTO library_books (` + bookColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.ExecContext(ctx, query,
		b.ID, b.Title, b.Author, b.ISBN, b.Category, b.Status,
		b.IssuedToStudentID, b.IssuedToName, b.IssuedDate, b.DueDate)
	if err != nil {
		return fmt.Errorf("insert book: %w", err)
	}
	return nil
}

// List returns the full catalog.
func (r *BookRepository) List(ctx context.Context) ([]models.LibraryBook, error) {
	query := `SELECT ` + bookColumns + ` FROM library_books ORDER BY title ASC`
	var books []models.LibraryBook
	if err := r.db.SelectContext(ctx, &books, query); err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

// ListIssuedTo returns the books currently on loan to a student.
func (r *BookRepository) ListIssuedTo(ctx context.Context, studentID string) ([]models.LibraryBook, error) {
	query := `SELECT ` + bookColumns + ` FROM library_books
        WHERE status = $1 AND issued_to_student_id = $2 ORDER BY due_date ASC`
	var books []models.LibraryBook
	if err := r.db.SelectContext(ctx, &books, query, models.BookIssued, studentID); err != nil {
		return nil, fmt.Errorf("list issued books: %w", err)
	}
	return books, nil
}

// Find fetches a catalog entry by ID.
func (r *BookRepository) Find(ctx context.Context, id string) (*models.LibraryBook, error) {
	query := `SELECT ` + bookColumns + ` FROM library_books WHERE id = $1`
	var book models.LibraryBook
	if err := r.db.GetContext(ctx, &book, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "book not found")
		}
		return nil, fmt.Errorf("find book: %w", err)
	}
	return &book, nil
}

// MarkIssued transitions an available copy to issued. The status guard
// in the WHERE clause makes concurrent issue attempts lose cleanly.
func (r *BookRepository) MarkIssued(ctx context.Context, bookID, studentID, studentName string, issuedAt, dueAt time.Time) (*models.LibraryBook, error) {
	query := `UPDATE library_books
        SET status = $2, issued_to_student_id = $3, issued_to_name = $4, issued_date = $5, due_date = $6
        WHERE id = $1 AND status = $7`
	res, err := r.db.ExecContext(ctx, query,
		bookID, models.BookIssued, studentID, studentName, issuedAt, dueAt, models.BookAvailable)
	if err != nil {
		return nil, fmt.Errorf("issue book: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		if _, findErr := r.Find(ctx, bookID); findErr != nil {
			return nil, findErr
		}
		return nil, appErrors.ErrNotAvailable
	}
	return r.Find(ctx, bookID)
}

// MarkReturned clears the loan fields regardless of prior state.
func (r *BookRepository) MarkReturned(ctx context.Context, bookID string) (*models.LibraryBook, error) {
	query := `UPDATE library_books
        SET status = $2, issued_to_student_id = NULL, issued_to_name = NULL, issued_date = NULL, due_date = NULL
        WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, bookID, models.BookAvailable)
	if err != nil {
		return nil, fmt.Errorf("return book: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "book not found")
	}
	return r.Find(ctx, bookID)
}
