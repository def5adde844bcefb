package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-labs/college-erp-api/internal/models"
	"github.com/campus-labs/college-erp-api/internal/store"
	appErrors "github.com/campus-labs/college-erp-api/pkg/errors"
)

func newLibraryFixture(t *testing.T, loanDays int) (*store.MemoryStore, *LibraryService) {
	t.Helper()
	mem := store.NewMemoryStore()
	identity := NewIdentityService(mem, nil)
	svc := NewLibraryService(mem, identity, nil, loanDays, nil)
	svc.now = func() time.Time { return time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC) }
	return mem, svc
}

func TestIssueBook(t *testing.T) {
	ctx := context.Background()

	t.Run("loans an available book for the configured period", func(t *testing.T) {
		mem, svc := newLibraryFixture(t, 30)
		require.NoError(t, mem.CreateStudentProfile(ctx, &models.StudentProfile{
			StudentID: "CS1", FullName: "Itadori Yuji",
		}))
		require.NoError(t, mem.CreateBook(ctx, &models.LibraryBook{ID: "b1", Title: "Algorithms", Status: models.BookAvailable}))

		book, err := svc.IssueBook(ctx, "b1", "CS1")
		require.NoError(t, err)
		assert.Equal(t, models.BookIssued, book.Status)
		require.NotNil(t, book.IssuedToName)
		assert.Equal(t, "Itadori Yuji", *book.IssuedToName)
		require.NotNil(t, book.DueDate)
		assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), *book.DueDate)
		assert.True(t, book.IssueConsistent())
	})

	t.Run("issued book rejects a second loan", func(t *testing.T) {
		mem, svc := newLibraryFixture(t, 30)
		require.NoError(t, mem.CreateStudentProfile(ctx, &models.StudentProfile{StudentID: "CS1", FullName: "One"}))
		require.NoError(t, mem.CreateStudentProfile(ctx, &models.StudentProfile{StudentID: "CS2", FullName: "Two"}))
		require.NoError(t, mem.CreateBook(ctx, &models.LibraryBook{ID: "b1", Status: models.BookAvailable}))

		_, err := svc.IssueBook(ctx, "b1", "CS1")
		require.NoError(t, err)
		_, err = svc.IssueBook(ctx, "b1", "CS2")
		assert.ErrorIs(t, err, appErrors.ErrNotAvailable)
	})

	t.Run("unknown student leaves the book untouched", func(t *testing.T) {
		mem, svc := newLibraryFixture(t, 30)
		require.NoError(t, mem.CreateBook(ctx, &models.LibraryBook{ID: "b1", Status: models.BookAvailable}))

		_, err := svc.IssueBook(ctx, "b1", "ghost")
		assert.ErrorIs(t, err, appErrors.ErrNotFound)

		book, err := mem.FindBook(ctx, "b1")
		require.NoError(t, err)
		assert.Equal(t, models.BookAvailable, book.Status)
	})
}

func TestReturnBook(t *testing.T) {
	ctx := context.Background()
	mem, svc := newLibraryFixture(t, 30)
	require.NoError(t, mem.CreateStudentProfile(ctx, &models.StudentProfile{StudentID: "CS1", FullName: "One"}))
	require.NoError(t, mem.CreateBook(ctx, &models.LibraryBook{ID: "b1", Status: models.BookAvailable}))
	_, err := svc.IssueBook(ctx, "b1", "CS1")
	require.NoError(t, err)

	book, err := svc.ReturnBook(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, models.BookAvailable, book.Status)
	assert.Nil(t, book.IssuedToStudentID)
	assert.True(t, book.IssueConsistent())

	// returning an already returned book succeeds
	book, err = svc.ReturnBook(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, models.BookAvailable, book.Status)
}
