package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-labs/college-erp-api/internal/models"
	"github.com/campus-labs/college-erp-api/internal/store"
	appErrors "github.com/campus-labs/college-erp-api/pkg/errors"
)

// fakeCacheRepo is an in-process CacheRepository for cache behaviour
// tests.
type fakeCacheRepo struct {
	mu      sync.Mutex
	entries map[string][]byte
	sets    int
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{entries: map[string][]byte{}}
}

func (f *fakeCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, ok := f.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (f *fakeCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.entries[key] = raw
	f.sets++
	return nil
}

func (f *fakeCacheRepo) DeleteByPattern(_ context.Context, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = map[string][]byte{}
	return nil
}

func newDashboardFixture(t *testing.T, cache *CacheService) (*store.MemoryStore, *DashboardService) {
	t.Helper()
	mem := store.NewMemoryStore()
	svc := NewDashboardService(mem, mem, mem, mem, mem, mem, mem, cache, time.Minute, nil)
	svc.now = func() time.Time { return time.Date(2024, 2, 20, 9, 0, 0, 0, time.UTC) }
	return mem, svc
}

func seedApproved(t *testing.T, mem *store.MemoryStore, studentID, name, course string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, mem.CreateAdmission(ctx, &models.Admission{
		ID: "adm-" + studentID, StudentID: studentID, StudentName: name,
		Course: course, Status: models.AdmissionApproved,
	}))
	require.NoError(t, mem.CreateStudentProfile(ctx, &models.StudentProfile{
		StudentID: studentID, FullName: name, Course: course, Year: 2, CurrentSemester: 3,
	}))
}

func TestInstitutionMetrics(t *testing.T) {
	ctx := context.Background()

	t.Run("only approved students contribute revenue", func(t *testing.T) {
		mem, svc := newDashboardFixture(t, nil)
		seedApproved(t, mem, "CS1", "Approved", "CSE")
		require.NoError(t, mem.CreateAdmission(ctx, &models.Admission{
			ID: "adm-p", StudentID: "EC9", StudentName: "Pending", Status: models.AdmissionPending,
		}))
		require.NoError(t, mem.CreateAdmission(ctx, &models.Admission{
			ID: "adm-u", StudentID: "EC8", StudentName: "UnderReview", Status: models.AdmissionUnderReview,
		}))

		paidJan := time.Date(2024, 1, 25, 0, 0, 0, 0, time.UTC)
		paidFeb := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
		require.NoError(t, mem.CreateFee(ctx, &models.Fee{ID: "f1", StudentID: "CS1", Amount: 50000, Status: models.FeePaid, DueDate: paidJan, PaidDate: &paidJan}))
		require.NoError(t, mem.CreateFee(ctx, &models.Fee{ID: "f2", StudentID: "CS1", Amount: 1500, Status: models.FeePaid, DueDate: paidFeb, PaidDate: &paidFeb}))
		require.NoError(t, mem.CreateFee(ctx, &models.Fee{ID: "f3", StudentID: "CS1", Amount: 2000, Status: models.FeeOverdue, DueDate: paidJan}))
		// paid by a non-approved student, must not count
		require.NoError(t, mem.CreateFee(ctx, &models.Fee{ID: "f4", StudentID: "EC9", Amount: 99999, Status: models.FeePaid, DueDate: paidFeb, PaidDate: &paidFeb}))

		metrics, err := svc.InstitutionMetrics(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, metrics.TotalApprovedStudents)
		assert.Equal(t, int64(51500), metrics.TotalRevenueCollected)
		assert.Equal(t, int64(1500), metrics.MonthlyRevenue)
		assert.Equal(t, 1, metrics.PendingAdmissions, "under_review must not count as pending")
		assert.Equal(t, 1, metrics.UnderReviewAdmissions)
		assert.Equal(t, 1, metrics.OverduePayments)
	})

	t.Run("occupancy is rounded to the nearest percent", func(t *testing.T) {
		mem, svc := newDashboardFixture(t, nil)
		require.NoError(t, mem.CreateRoom(ctx, &models.HostelRoom{
			ID: "r1", RoomNumber: "101", Capacity: 3, Occupied: 2,
			Occupants: []models.RoomOccupant{{StudentID: "a"}, {StudentID: "b"}},
		}))

		metrics, err := svc.InstitutionMetrics(ctx)
		require.NoError(t, err)
		assert.Equal(t, 67, metrics.HostelOccupancy)
	})

	t.Run("second call is served from cache and mutations invalidate it", func(t *testing.T) {
		repo := newFakeCacheRepo()
		cache := NewCacheService(repo, nil, time.Minute, nil, true)
		mem, svc := newDashboardFixture(t, cache)
		seedApproved(t, mem, "CS1", "Approved", "CSE")

		first, err := svc.InstitutionMetrics(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, repo.sets)

		second, err := svc.InstitutionMetrics(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, repo.sets, "second call must not recompute")
		assert.Equal(t, first.TotalApprovedStudents, second.TotalApprovedStudents)

		cache.InvalidateDashboards(ctx)
		_, err = svc.InstitutionMetrics(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, repo.sets, "invalidation must force a recompute")
	})
}

func TestTopPerformers(t *testing.T) {
	ctx := context.Background()
	mem, svc := newDashboardFixture(t, nil)
	seedApproved(t, mem, "CS1", "First", "CSE")
	seedApproved(t, mem, "CS2", "Second", "CSE")
	seedApproved(t, mem, "EC1", "Third", "ECE")
	seedApproved(t, mem, "ME1", "NoGrades", "ME")

	require.NoError(t, mem.UpsertStudentGrade(ctx, &models.StudentGrade{StudentID: "CS1", CGPA: 8.0, Course: "CSE"}))
	require.NoError(t, mem.UpsertStudentGrade(ctx, &models.StudentGrade{StudentID: "CS2", CGPA: 9.5, Course: "CSE"}))
	require.NoError(t, mem.UpsertStudentGrade(ctx, &models.StudentGrade{StudentID: "EC1", CGPA: 8.0, Course: "ECE"}))

	performers, err := svc.TopPerformers(ctx, 2)
	require.NoError(t, err)
	require.Len(t, performers, 2)
	assert.Equal(t, "CS2", performers[0].StudentID)
	// tie between CS1 and EC1 keeps admission order
	assert.Equal(t, "CS1", performers[1].StudentID)

	// a wider limit surfaces the record-less student at the bottom
	all, err := svc.TopPerformers(ctx, 10)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "ME1", all[3].StudentID)
	assert.Zero(t, all[3].CGPA)
	assert.Equal(t, "ME", all[3].Course)
}

func TestClassAverage(t *testing.T) {
	ctx := context.Background()

	t.Run("overall mean spans every approved student", func(t *testing.T) {
		mem, svc := newDashboardFixture(t, nil)
		seedApproved(t, mem, "CS1", "One", "CSE")
		seedApproved(t, mem, "CS2", "Two", "CSE")
		seedApproved(t, mem, "EC1", "Three", "ECE")

		require.NoError(t, mem.UpsertStudentGrade(ctx, &models.StudentGrade{StudentID: "CS1", CGPA: 8.0, Course: "CSE"}))
		require.NoError(t, mem.UpsertStudentGrade(ctx, &models.StudentGrade{StudentID: "CS2", CGPA: 9.0, Course: "CSE"}))
		require.NoError(t, mem.UpsertStudentGrade(ctx, &models.StudentGrade{StudentID: "EC1", CGPA: 7.0, Course: "ECE"}))

		average, err := svc.ClassAverage(ctx)
		require.NoError(t, err)
		assert.InDelta(t, 8.0, average.Overall, 0.001)
		assert.InDelta(t, 8.5, average.ByCourse["CSE"], 0.001)
		assert.InDelta(t, 7.0, average.ByCourse["ECE"], 0.001)
	})

	t.Run("record-less students pull the mean down as zeros", func(t *testing.T) {
		mem, svc := newDashboardFixture(t, nil)
		seedApproved(t, mem, "CS1", "Graded", "CSE")
		seedApproved(t, mem, "CS2", "NoRecord", "CSE")

		require.NoError(t, mem.UpsertStudentGrade(ctx, &models.StudentGrade{StudentID: "CS1", CGPA: 8.0, Course: "CSE"}))

		average, err := svc.ClassAverage(ctx)
		require.NoError(t, err)
		assert.InDelta(t, 4.0, average.Overall, 0.001)
		assert.InDelta(t, 4.0, average.ByCourse["CSE"], 0.001)
	})

	t.Run("zero when nobody is approved", func(t *testing.T) {
		_, svc := newDashboardFixture(t, nil)

		average, err := svc.ClassAverage(ctx)
		require.NoError(t, err)
		assert.Zero(t, average.Overall)
		assert.Empty(t, average.ByCourse)
	})
}

func TestExamWorklist(t *testing.T) {
	ctx := context.Background()
	mem, svc := newDashboardFixture(t, nil)
	seedApproved(t, mem, "CS1", "Graded", "CSE")
	seedApproved(t, mem, "CS2", "Ungraded", "CSE")

	require.NoError(t, mem.CreateExam(ctx, &models.Exam{
		ID: "e1", SubjectName: "Data Structures", MaxMarks: 100, Status: models.ExamCompleted,
	}))
	require.NoError(t, mem.UpsertExamResult(ctx, &models.ExamResult{
		StudentID: "CS1", ExamID: "e1", ObtainedMarks: 85, Grade: "A",
	}))

	worklist, err := svc.ExamWorklist(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, "Data Structures", worklist.SubjectName)
	require.Len(t, worklist.Students, 2)

	assert.True(t, worklist.Students[0].IsGraded)
	require.NotNil(t, worklist.Students[0].ObtainedMarks)
	assert.Equal(t, 85, *worklist.Students[0].ObtainedMarks)

	assert.False(t, worklist.Students[1].IsGraded)
	assert.Nil(t, worklist.Students[1].ObtainedMarks)

	_, err = svc.ExamWorklist(ctx, "ghost")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}
