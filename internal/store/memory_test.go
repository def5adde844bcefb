package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-labs/college-erp-api/internal/models"
	appErrors "github.com/campus-labs/college-erp-api/pkg/errors"
)

func TestAddOccupant(t *testing.T) {
	ctx := context.Background()

	t.Run("keeps counter and list in sync", func(t *testing.T) {
		s := NewMemoryStore()
		require.NoError(t, s.CreateRoom(ctx, &models.HostelRoom{ID: "r1", RoomNumber: "101", Capacity: 2}))

		room, err := s.AddOccupant(ctx, "r1", models.RoomOccupant{StudentID: "CS1", StudentName: "One"})
		require.NoError(t, err)
		assert.Equal(t, 1, room.Occupied)
		assert.Len(t, room.Occupants, 1)
		assert.True(t, room.Consistent())
	})

	t.Run("rejects a full room and leaves it unchanged", func(t *testing.T) {
		s := NewMemoryStore()
		require.NoError(t, s.CreateRoom(ctx, &models.HostelRoom{
			ID: "r1", RoomNumber: "101", Capacity: 1,
			Occupied:  1,
			Occupants: []models.RoomOccupant{{StudentID: "CS1", StudentName: "One"}},
		}))

		_, err := s.AddOccupant(ctx, "r1", models.RoomOccupant{StudentID: "CS2", StudentName: "Two"})
		assert.ErrorIs(t, err, appErrors.ErrRoomFull)

		room, err := s.FindRoom(ctx, "r1")
		require.NoError(t, err)
		assert.Equal(t, 1, room.Occupied)
		assert.Len(t, room.Occupants, 1)
	})

	t.Run("reports a desynced counter instead of patching it", func(t *testing.T) {
		s := NewMemoryStore()
		require.NoError(t, s.CreateRoom(ctx, &models.HostelRoom{
			ID: "r1", RoomNumber: "101", Capacity: 3, Occupied: 2,
			Occupants: []models.RoomOccupant{{StudentID: "CS1"}},
		}))

		_, err := s.AddOccupant(ctx, "r1", models.RoomOccupant{StudentID: "CS2"})
		assert.ErrorIs(t, err, appErrors.ErrInvariant)
	})

	t.Run("unknown room", func(t *testing.T) {
		s := NewMemoryStore()
		_, err := s.AddOccupant(ctx, "nope", models.RoomOccupant{StudentID: "CS1"})
		assert.ErrorIs(t, err, appErrors.ErrNotFound)
	})
}

func TestRemoveOccupant(t *testing.T) {
	ctx := context.Background()

	t.Run("derives the counter from the remaining list", func(t *testing.T) {
		s := NewMemoryStore()
		require.NoError(t, s.CreateRoom(ctx, &models.HostelRoom{
			ID: "r1", RoomNumber: "101", Capacity: 2, Occupied: 2,
			Occupants: []models.RoomOccupant{{StudentID: "CS1"}, {StudentID: "CS2"}},
		}))

		room, err := s.RemoveOccupant(ctx, "r1", "CS1")
		require.NoError(t, err)
		assert.Equal(t, 1, room.Occupied)
		assert.False(t, room.HasOccupant("CS1"))
		assert.True(t, room.HasOccupant("CS2"))
	})

	t.Run("absent student is a no-op", func(t *testing.T) {
		s := NewMemoryStore()
		require.NoError(t, s.CreateRoom(ctx, &models.HostelRoom{
			ID: "r1", RoomNumber: "101", Capacity: 2, Occupied: 1,
			Occupants: []models.RoomOccupant{{StudentID: "CS1"}},
		}))

		room, err := s.RemoveOccupant(ctx, "r1", "CS9")
		require.NoError(t, err)
		assert.Equal(t, 1, room.Occupied)
	})
}

func TestMarkBookIssued(t *testing.T) {
	ctx := context.Background()
	issuedAt := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	dueAt := issuedAt.AddDate(0, 0, 30)

	t.Run("stamps all loan fields together", func(t *testing.T) {
		s := NewMemoryStore()
		require.NoError(t, s.CreateBook(ctx, &models.LibraryBook{ID: "b1", Title: "Algorithms", Status: models.BookAvailable}))

		book, err := s.MarkBookIssued(ctx, "b1", "CS1", "One", issuedAt, dueAt)
		require.NoError(t, err)
		assert.Equal(t, models.BookIssued, book.Status)
		assert.True(t, book.IssueConsistent())
		require.NotNil(t, book.DueDate)
		assert.Equal(t, dueAt, *book.DueDate)
	})

	t.Run("issued book cannot be issued again", func(t *testing.T) {
		s := NewMemoryStore()
		require.NoError(t, s.CreateBook(ctx, &models.LibraryBook{ID: "b1", Status: models.BookAvailable}))
		_, err := s.MarkBookIssued(ctx, "b1", "CS1", "One", issuedAt, dueAt)
		require.NoError(t, err)

		_, err = s.MarkBookIssued(ctx, "b1", "CS2", "Two", issuedAt, dueAt)
		assert.ErrorIs(t, err, appErrors.ErrNotAvailable)
	})

	t.Run("reserved book is not available", func(t *testing.T) {
		s := NewMemoryStore()
		require.NoError(t, s.CreateBook(ctx, &models.LibraryBook{ID: "b1", Status: models.BookReserved}))
		_, err := s.MarkBookIssued(ctx, "b1", "CS1", "One", issuedAt, dueAt)
		assert.ErrorIs(t, err, appErrors.ErrNotAvailable)
	})
}

func TestMarkBookReturned(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	sid, name := "CS1", "One"
	issuedAt := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.CreateBook(ctx, &models.LibraryBook{
		ID: "b1", Status: models.BookIssued,
		IssuedToStudentID: &sid, IssuedToName: &name,
		IssuedDate: &issuedAt, DueDate: &issuedAt,
	}))

	book, err := s.MarkBookReturned(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, models.BookAvailable, book.Status)
	assert.Nil(t, book.IssuedToStudentID)
	assert.True(t, book.IssueConsistent())

	// returning twice is harmless
	book, err = s.MarkBookReturned(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, models.BookAvailable, book.Status)
}

func TestUpsertExamResult(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.UpsertExamResult(ctx, &models.ExamResult{StudentID: "CS1", ExamID: "e1", ObtainedMarks: 70, Grade: "B+"}))
	require.NoError(t, s.UpsertExamResult(ctx, &models.ExamResult{StudentID: "CS1", ExamID: "e1", ObtainedMarks: 85, Grade: "A"}))

	results, err := s.ListResultsByExam(ctx, "e1")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 85, results[0].ObtainedMarks)
	assert.Equal(t, "A", results[0].Grade)
}

func TestReturnedCopiesDoNotAliasStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.CreateRoom(ctx, &models.HostelRoom{
		ID: "r1", RoomNumber: "101", Capacity: 2, Occupied: 1,
		Occupants: []models.RoomOccupant{{StudentID: "CS1"}},
	}))

	room, err := s.FindRoom(ctx, "r1")
	require.NoError(t, err)
	room.Occupants[0].StudentID = "tampered"

	fresh, err := s.FindRoom(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "CS1", fresh.Occupants[0].StudentID)
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, Seed(ctx, s))

	rooms, err := s.ListRooms(ctx)
	require.NoError(t, err)
	for _, r := range rooms {
		assert.True(t, r.Consistent(), "room %s", r.RoomNumber)
	}

	books, err := s.ListBooks(ctx)
	require.NoError(t, err)
	for _, b := range books {
		assert.True(t, b.IssueConsistent(), "book %s", b.Title)
	}

	user, err := s.FindUserByEmail(ctx, "admin@college.edu")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)
}
