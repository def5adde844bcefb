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

func newStudentFixture(t *testing.T) (*store.MemoryStore, *StudentService) {
	t.Helper()
	mem := store.NewMemoryStore()
	identity := NewIdentityService(mem, nil)
	svc := NewStudentService(identity, mem, mem, mem, mem, nil)
	return mem, svc
}

func seedProfile(t *testing.T, mem *store.MemoryStore, studentID, name string, status models.AdmissionStatus) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, mem.CreateStudentProfile(ctx, &models.StudentProfile{
		StudentID: studentID, FullName: name, Course: "CSE", Year: 2, CurrentSemester: 3,
	}))
	require.NoError(t, mem.CreateAdmission(ctx, &models.Admission{
		ID: "adm-" + studentID, StudentID: studentID, StudentName: name,
		Course: "CSE", Status: status, ApplicationDate: time.Now(),
	}))
}

func TestGetStudentView(t *testing.T) {
	ctx := context.Background()

	t.Run("non-approved student gets a sentinel view", func(t *testing.T) {
		mem, svc := newStudentFixture(t)
		seedProfile(t, mem, "CS1", "Pending Student", models.AdmissionPending)
		require.NoError(t, mem.CreateFee(ctx, &models.Fee{
			ID: "f1", StudentID: "CS1", Amount: 5000, Status: models.FeePending, DueDate: time.Now(),
		}))

		view, err := svc.GetStudentView(ctx, "CS1")
		require.NoError(t, err)
		assert.Equal(t, models.AdmissionPending, view.AdmissionStatus)
		assert.Equal(t, "Pending Student", view.StudentName)
		assert.Nil(t, view.Course)
		assert.Nil(t, view.Year)
		assert.Empty(t, view.Fees)
		assert.Nil(t, view.Room)
		assert.Nil(t, view.NextFee)
		assert.Zero(t, view.TotalFeesPaid)
		assert.Zero(t, view.CGPA)
	})

	t.Run("student with no application is treated as pending", func(t *testing.T) {
		mem, svc := newStudentFixture(t)
		require.NoError(t, mem.CreateStudentProfile(ctx, &models.StudentProfile{
			StudentID: "CS2", FullName: "No Application", Course: "CSE", Year: 1, CurrentSemester: 1,
		}))

		view, err := svc.GetStudentView(ctx, "CS2")
		require.NoError(t, err)
		assert.Equal(t, models.AdmissionPending, view.AdmissionStatus)
	})

	t.Run("unknown student fails", func(t *testing.T) {
		_, svc := newStudentFixture(t)
		_, err := svc.GetStudentView(ctx, "ghost")
		assert.ErrorIs(t, err, appErrors.ErrNotFound)
	})

	t.Run("approved student aggregates every table", func(t *testing.T) {
		mem, svc := newStudentFixture(t)
		seedProfile(t, mem, "CS1", "Approved Student", models.AdmissionApproved)

		paid := time.Date(2024, 1, 25, 0, 0, 0, 0, time.UTC)
		require.NoError(t, mem.CreateFee(ctx, &models.Fee{
			ID: "f1", StudentID: "CS1", Amount: 50000, Type: models.FeeTuition,
			Status: models.FeePaid, DueDate: paid, PaidDate: &paid,
		}))
		require.NoError(t, mem.CreateFee(ctx, &models.Fee{
			ID: "f2", StudentID: "CS1", Amount: 2000, Type: models.FeeLibrary,
			Status: models.FeeOverdue, DueDate: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		}))
		require.NoError(t, mem.CreateFee(ctx, &models.Fee{
			ID: "f3", StudentID: "CS1", Amount: 15000, Type: models.FeeHostel,
			Status: models.FeePending, DueDate: time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC),
		}))

		require.NoError(t, mem.CreateRoom(ctx, &models.HostelRoom{
			ID: "r1", RoomNumber: "101", Capacity: 2, Occupied: 1,
			Occupants: []models.RoomOccupant{{StudentID: "CS1", StudentName: "Approved Student"}},
		}))
		require.NoError(t, mem.CreateBook(ctx, &models.LibraryBook{ID: "b1", Title: "Algorithms", Status: models.BookAvailable}))
		_, err := mem.MarkBookIssued(ctx, "b1", "CS1", "Approved Student", paid, paid.AddDate(0, 0, 30))
		require.NoError(t, err)

		require.NoError(t, mem.UpsertStudentGrade(ctx, &models.StudentGrade{
			StudentID: "CS1", CGPA: 8.5, Percentage: 78.5, Course: "CSE", Year: 2,
		}))

		view, err := svc.GetStudentView(ctx, "CS1")
		require.NoError(t, err)
		assert.Equal(t, models.AdmissionApproved, view.AdmissionStatus)
		require.NotNil(t, view.Course)
		assert.Equal(t, "CSE", *view.Course)
		assert.Equal(t, int64(50000), view.TotalFeesPaid)
		assert.Equal(t, int64(17000), view.PendingFees)
		require.NotNil(t, view.NextFee)
		assert.Equal(t, "f2", view.NextFee.ID)
		require.NotNil(t, view.Room)
		assert.Equal(t, "101", view.Room.RoomNumber)
		require.Len(t, view.Books, 1)
		assert.InDelta(t, 8.5, view.CGPA, 0.001)
	})

	t.Run("earliest due date ties keep table order", func(t *testing.T) {
		mem, svc := newStudentFixture(t)
		seedProfile(t, mem, "CS1", "Tied Student", models.AdmissionApproved)
		due := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		require.NoError(t, mem.CreateFee(ctx, &models.Fee{ID: "first", StudentID: "CS1", Amount: 100, Status: models.FeePending, DueDate: due}))
		require.NoError(t, mem.CreateFee(ctx, &models.Fee{ID: "second", StudentID: "CS1", Amount: 200, Status: models.FeePending, DueDate: due}))

		view, err := svc.GetStudentView(ctx, "CS1")
		require.NoError(t, err)
		require.NotNil(t, view.NextFee)
		assert.Equal(t, "first", view.NextFee.ID)
	})
}
