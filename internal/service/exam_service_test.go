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

func newExamFixture(t *testing.T) (*store.MemoryStore, *ExamService) {
	t.Helper()
	mem := store.NewMemoryStore()
	svc := NewExamService(mem, mem, nil, nil, nil)
	svc.now = func() time.Time { return time.Date(2024, 2, 15, 10, 0, 0, 0, time.UTC) }
	return mem, svc
}

func seedExam(t *testing.T, mem *store.MemoryStore, id string, maxMarks int, status models.ExamStatus) {
	t.Helper()
	require.NoError(t, mem.CreateExam(context.Background(), &models.Exam{
		ID: id, SubjectID: "s1", SubjectName: "Data Structures", SubjectCode: "CS201",
		Type: models.ExamMidterm, Date: time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC),
		DurationMinutes: 120, MaxMarks: maxMarks, Status: status, Semester: 3,
	}))
}

func TestScheduleExam(t *testing.T) {
	ctx := context.Background()
	mem, svc := newExamFixture(t)
	require.NoError(t, mem.CreateSubject(ctx, &models.Subject{
		ID: "s1", Name: "Data Structures", Code: "CS201", Credits: 4, Semester: 3,
	}))

	exam, err := svc.ScheduleExam(ctx, ScheduleExamRequest{
		SubjectID: "s1", Type: "final",
		Date: time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC),
		DurationMinutes: 180, MaxMarks: 100,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ExamScheduled, exam.Status)
	assert.Equal(t, "CS201", exam.SubjectCode)
	assert.Equal(t, 3, exam.Semester)

	t.Run("unknown subject", func(t *testing.T) {
		_, err := svc.ScheduleExam(ctx, ScheduleExamRequest{
			SubjectID: "ghost", Type: "quiz", Date: time.Now(), MaxMarks: 20,
		})
		assert.ErrorIs(t, err, appErrors.ErrNotFound)
	})

	t.Run("invalid payload", func(t *testing.T) {
		_, err := svc.ScheduleExam(ctx, ScheduleExamRequest{SubjectID: "s1", Type: "viva", Date: time.Now(), MaxMarks: 100})
		assert.ErrorIs(t, err, appErrors.ErrValidation)
	})
}

func TestRecordResult(t *testing.T) {
	ctx := context.Background()

	seedStudent := func(t *testing.T, mem *store.MemoryStore) {
		require.NoError(t, mem.CreateStudentProfile(ctx, &models.StudentProfile{
			StudentID: "CS1", FullName: "Itadori Yuji", Course: "CSE", Year: 2, CurrentSemester: 3,
		}))
	}

	t.Run("records marks, derives the grade and flips the exam to graded", func(t *testing.T) {
		mem, svc := newExamFixture(t)
		seedStudent(t, mem)
		seedExam(t, mem, "e1", 100, models.ExamCompleted)

		result, err := svc.RecordResult(ctx, "e1", RecordResultRequest{StudentID: "CS1", ObtainedMarks: 85})
		require.NoError(t, err)
		assert.Equal(t, "A", result.Grade)

		exam, err := mem.FindExam(ctx, "e1")
		require.NoError(t, err)
		assert.Equal(t, models.ExamGraded, exam.Status)

		grade, err := mem.FindStudentGrade(ctx, "CS1")
		require.NoError(t, err)
		assert.InDelta(t, 9.0, grade.CGPA, 0.001)
		assert.InDelta(t, 85.0, grade.Percentage, 0.001)
		require.Len(t, grade.Marks, 1)
		assert.Equal(t, "Data Structures", grade.Marks[0].SubjectName)
	})

	t.Run("explicit grade wins over the derived one", func(t *testing.T) {
		mem, svc := newExamFixture(t)
		seedStudent(t, mem)
		seedExam(t, mem, "e1", 100, models.ExamCompleted)

		result, err := svc.RecordResult(ctx, "e1", RecordResultRequest{StudentID: "CS1", ObtainedMarks: 85, Grade: "B+"})
		require.NoError(t, err)
		assert.Equal(t, "B+", result.Grade)
	})

	t.Run("marks above the maximum are rejected", func(t *testing.T) {
		mem, svc := newExamFixture(t)
		seedStudent(t, mem)
		seedExam(t, mem, "e1", 50, models.ExamCompleted)

		_, err := svc.RecordResult(ctx, "e1", RecordResultRequest{StudentID: "CS1", ObtainedMarks: 51})
		assert.ErrorIs(t, err, appErrors.ErrOutOfRange)

		_, err = mem.FindExamResult(ctx, "CS1", "e1")
		assert.ErrorIs(t, err, appErrors.ErrNotFound)
	})

	t.Run("recording twice overwrites and recomputes", func(t *testing.T) {
		mem, svc := newExamFixture(t)
		seedStudent(t, mem)
		seedExam(t, mem, "e1", 100, models.ExamCompleted)

		_, err := svc.RecordResult(ctx, "e1", RecordResultRequest{StudentID: "CS1", ObtainedMarks: 55})
		require.NoError(t, err)
		_, err = svc.RecordResult(ctx, "e1", RecordResultRequest{StudentID: "CS1", ObtainedMarks: 92})
		require.NoError(t, err)

		results, err := mem.ListResultsByExam(ctx, "e1")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, 92, results[0].ObtainedMarks)

		grade, err := mem.FindStudentGrade(ctx, "CS1")
		require.NoError(t, err)
		assert.InDelta(t, 10.0, grade.CGPA, 0.001)
	})

	t.Run("unknown student", func(t *testing.T) {
		mem, svc := newExamFixture(t)
		seedExam(t, mem, "e1", 100, models.ExamCompleted)
		_, err := svc.RecordResult(ctx, "e1", RecordResultRequest{StudentID: "ghost", ObtainedMarks: 10})
		assert.ErrorIs(t, err, appErrors.ErrNotFound)
	})

	t.Run("unknown exam", func(t *testing.T) {
		_, svc := newExamFixture(t)
		_, err := svc.RecordResult(ctx, "ghost", RecordResultRequest{StudentID: "CS1", ObtainedMarks: 10})
		assert.ErrorIs(t, err, appErrors.ErrNotFound)
	})
}
