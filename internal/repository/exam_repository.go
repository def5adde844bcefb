package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/campus-labs/college-erp-api/internal/models"
	appErrors "github.com/campus-labs/college-erp-api/pkg/errors"
)

// ExamRepository manages persistence for subjects, exams, exam results
// and the cached academic records.
type ExamRepository struct {
	db *sqlx.DB
}

// NewExamRepository constructs an ExamRepository.
func NewExamRepository(db *sqlx.DB) *ExamRepository {
	return &ExamRepository{db: db}
}

// CreateSubject inserts a subject.
func (r *ExamRepository) CreateSubject(ctx context.Context, s *models.Subject) error {
	query := `INSERT INTO subjects (id, name, code, credits, semester, instructor)
        VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.db.ExecContext(ctx, query, s.ID, s.Name, s.Code, s.Credits, s.Semester, s.Instructor); err != nil {
		return fmt.Errorf("insert subject: %w", err)
	}
	return nil
}

// ListSubjects returns all subjects.
func (r *ExamRepository) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	var subjects []models.Subject
	query := `SELECT id, name, code, credits, semester, instructor FROM subjects ORDER BY code ASC`
	if err := r.db.SelectContext(ctx, &subjects, query); err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	return subjects, nil
}

// FindSubject fetches a subject by ID.
func (r *ExamRepository) FindSubject(ctx context.Context, id string) (*models.Subject, error) {
	var subject models.Subject
	query := `SELECT id, name, code, credits, semester, instructor FROM subjects WHERE id = $1`
	if err := r.db.GetContext(ctx, &subject, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, fmt.Errorf("find subject: %w", err)
	}
	return &subject, nil
}

const examColumns = `id, subject_id, subject_name, subject_code, type, date, duration_minutes, max_marks, status, semester`

// CreateExam inserts an exam.
func (r *ExamRepository) CreateExam(ctx context.Context, e *models.Exam) error {
	query := `INSERT INTO exams (` + examColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.SubjectID, e.SubjectName, e.SubjectCode, e.Type, e.Date,
		e.DurationMinutes, e.MaxMarks, e.Status, e.Semester)
	if err != nil {
		return fmt.Errorf("insert exam: %w", err)
	}
	return nil
}

// ListExams returns all exams ordered by date.
func (r *ExamRepository) ListExams(ctx context.Context) ([]models.Exam, error) {
	var exams []models.Exam
	query := `SELECT ` + examColumns + ` FROM exams ORDER BY date ASC`
	if err := r.db.SelectContext(ctx, &exams, query); err != nil {
		return nil, fmt.Errorf("list exams: %w", err)
	}
	return exams, nil
}

// FindExam fetches an exam by ID.
func (r *ExamRepository) FindExam(ctx context.Context, id string) (*models.Exam, error) {
	var exam models.Exam
	query := `SELECT ` + examColumns + ` FROM exams WHERE id = $1`
	if err := r.db.GetContext(ctx, &exam, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "exam not found")
		}
		return nil, fmt.Errorf("find exam: %w", err)
	}
	return &exam, nil
}

// SetExamStatus updates an exam's lifecycle state.
func (r *ExamRepository) SetExamStatus(ctx context.Context, id string, status models.ExamStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE exams SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("set exam status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "exam not found")
	}
	return nil
}

// UpsertExamResult records marks, overwriting any prior result for the
// same (student, exam) pair.
func (r *ExamRepository) UpsertExamResult(ctx context.Context, result *models.ExamResult) error {
	query := `INSERT INTO exam_results (student_id, exam_id, obtained_marks, grade, recorded_at)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (student_id, exam_id)
        DO UPDATE SET obtained_marks = EXCLUDED.obtained_marks, grade = EXCLUDED.grade, recorded_at = EXCLUDED.recorded_at`
	_, err := r.db.ExecContext(ctx, query,
		result.StudentID, result.ExamID, result.ObtainedMarks, result.Grade, result.RecordedAt)
	if err != nil {
		return fmt.Errorf("upsert exam result: %w", err)
	}
	return nil
}

// FindExamResult fetches the result for one (student, exam) pair.
func (r *ExamRepository) FindExamResult(ctx context.Context, studentID, examID string) (*models.ExamResult, error) {
	var result models.ExamResult
	query := `SELECT student_id, exam_id, obtained_marks, grade, recorded_at
        FROM exam_results WHERE student_id = $1 AND exam_id = $2`
	if err := r.db.GetContext(ctx, &result, query, studentID, examID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "exam result not found")
		}
		return nil, fmt.Errorf("find exam result: %w", err)
	}
	return &result, nil
}

// ListResultsByStudent returns all of a student's results.
func (r *ExamRepository) ListResultsByStudent(ctx context.Context, studentID string) ([]models.ExamResult, error) {
	var results []models.ExamResult
	query := `SELECT student_id, exam_id, obtained_marks, grade, recorded_at
        FROM exam_results WHERE student_id = $1 ORDER BY recorded_at ASC`
	if err := r.db.SelectContext(ctx, &results, query, studentID); err != nil {
		return nil, fmt.Errorf("list results by student: %w", err)
	}
	return results, nil
}

// ListResultsByExam returns all recorded results for an exam.
func (r *ExamRepository) ListResultsByExam(ctx context.Context, examID string) ([]models.ExamResult, error) {
	var results []models.ExamResult
	query := `SELECT student_id, exam_id, obtained_marks, grade, recorded_at
        FROM exam_results WHERE exam_id = $1 ORDER BY student_id ASC`
	if err := r.db.SelectContext(ctx, &results, query, examID); err != nil {
		return nil, fmt.Errorf("list results by exam: %w", err)
	}
	return results, nil
}

type gradeRow struct {
	models.StudentGrade
	MarksJSON []byte `db:"marks"`
}

// UpsertStudentGrade replaces the cached academic record for a student.
func (r *ExamRepository) UpsertStudentGrade(ctx context.Context, g *models.StudentGrade) error {
	marks, err := json.Marshal(g.Marks)
	if err != nil {
		return fmt.Errorf("marshal marks: %w", err)
	}
	query := `INSERT INTO student_grades (student_id, cgpa, percentage, current_semester, course, year, marks, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        ON CONFLICT (student_id)
        DO UPDATE SET cgpa = EXCLUDED.cgpa, percentage = EXCLUDED.percentage,
            current_semester = EXCLUDED.current_semester, course = EXCLUDED.course,
            year = EXCLUDED.year, marks = EXCLUDED.marks, updated_at = EXCLUDED.updated_at`
	_, err = r.db.ExecContext(ctx, query,
		g.StudentID, g.CGPA, g.Percentage, g.CurrentSemester, g.Course, g.Year, marks, g.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert student grade: %w", err)
	}
	return nil
}

// FindStudentGrade fetches the cached academic record for a student.
func (r *ExamRepository) FindStudentGrade(ctx context.Context, studentID string) (*models.StudentGrade, error) {
	var row gradeRow
	query := `SELECT student_id, cgpa, percentage, current_semester, course, year, marks, updated_at
        FROM student_grades WHERE student_id = $1`
	if err := r.db.GetContext(ctx, &row, query, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "academic record not found")
		}
		return nil, fmt.Errorf("find student grade: %w", err)
	}
	grade := row.StudentGrade
	if len(row.MarksJSON) > 0 {
		if err := json.Unmarshal(row.MarksJSON, &grade.Marks); err != nil {
			return nil, fmt.Errorf("unmarshal marks: %w", err)
		}
	}
	return &grade, nil
}
