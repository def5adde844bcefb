package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/campus-labs/college-erp-api/internal/models"
)

type bookRepository interface {
	ListBooks(ctx context.Context) ([]models.LibraryBook, error)
	MarkBookIssued(ctx context.Context, bookID, studentID, studentName string, issuedAt, dueAt time.Time) (*models.LibraryBook, error)
	MarkBookReturned(ctx context.Context, bookID string) (*models.LibraryBook, error)
}

// LibraryService handles book circulation.
type LibraryService struct {
	repo     bookRepository
	identity *IdentityService
	cache    *CacheService
	loanDays int
	logger   *zap.Logger
	now      func() time.Time
}

// NewLibraryService constructs a LibraryService.
func NewLibraryService(repo bookRepository, identity *IdentityService, cache *CacheService, loanDays int, logger *zap.Logger) *LibraryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loanDays <= 0 {
		loanDays = 30
	}
	return &LibraryService{
		repo:     repo,
		identity: identity,
		cache:    cache,
		loanDays: loanDays,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// List returns the catalog.
func (s *LibraryService) List(ctx context.Context) ([]models.LibraryBook, error) {
	return s.repo.ListBooks(ctx)
}

// IssueBook loans an available book to a student for the configured
// loan period. The store rejects copies that are not available.
func (s *LibraryService) IssueBook(ctx context.Context, bookID, studentID string) (*models.LibraryBook, error) {
	profile, err := s.identity.ResolveProfile(ctx, studentID)
	if err != nil {
		return nil, err
	}
	issuedAt := s.now()
	dueAt := issuedAt.AddDate(0, 0, s.loanDays)
	book, err := s.repo.MarkBookIssued(ctx, bookID, profile.StudentID, profile.FullName, issuedAt, dueAt)
	if err != nil {
		return nil, err
	}
	s.cache.InvalidateDashboards(ctx)
	s.logger.Info("book issued",
		zap.String("book_id", book.ID),
		zap.String("student_id", profile.StudentID),
		zap.Time("due", dueAt))
	return book, nil
}

// ReturnBook closes the loan. Returning a book that is not issued is a
// no-op and succeeds.
func (s *LibraryService) ReturnBook(ctx context.Context, bookID string) (*models.LibraryBook, error) {
	book, err := s.repo.MarkBookReturned(ctx, bookID)
	if err != nil {
		return nil, err
	}
	s.cache.InvalidateDashboards(ctx)
	return book, nil
}
