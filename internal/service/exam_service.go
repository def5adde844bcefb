package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campus-labs/college-erp-api/internal/models"
	appErrors "github.com/campus-labs/college-erp-api/pkg/errors"
)

type examRepository interface {
	CreateSubject(ctx context.Context, s *models.Subject) error
	ListSubjects(ctx context.Context) ([]models.Subject, error)
	FindSubject(ctx context.Context, id string) (*models.Subject, error)
	CreateExam(ctx context.Context, e *models.Exam) error
	ListExams(ctx context.Context) ([]models.Exam, error)
	FindExam(ctx context.Context, id string) (*models.Exam, error)
	SetExamStatus(ctx context.Context, id string, status models.ExamStatus) error
	UpsertExamResult(ctx context.Context, r *models.ExamResult) error
	ListResultsByStudent(ctx context.Context, studentID string) ([]models.ExamResult, error)
	UpsertStudentGrade(ctx context.Context, g *models.StudentGrade) error
}

type examDirectory interface {
	FindStudentProfile(ctx context.Context, studentID string) (*models.StudentProfile, error)
}

// ScheduleExamRequest is the payload for scheduling an exam.
type ScheduleExamRequest struct {
	SubjectID       string    `json:"subject_id" validate:"required"`
	Type            string    `json:"type" validate:"required,oneof=midterm final quiz assignment"`
	Date            time.Time `json:"date" validate:"required"`
	DurationMinutes int       `json:"duration_minutes" validate:"min=0"`
	MaxMarks        int       `json:"max_marks" validate:"required,gt=0"`
}

// AddSubjectRequest is the payload for creating a subject.
type AddSubjectRequest struct {
	Name       string `json:"name" validate:"required"`
	Code       string `json:"code" validate:"required"`
	Credits    int    `json:"credits" validate:"required,gt=0"`
	Semester   int    `json:"semester" validate:"required,gt=0"`
	Instructor string `json:"instructor" validate:"required"`
}

// RecordResultRequest is the payload for recording marks. Grade is
// optional; when empty it is derived from the marks.
type RecordResultRequest struct {
	StudentID     string `json:"student_id" validate:"required"`
	ObtainedMarks int    `json:"obtained_marks" validate:"min=0"`
	Grade         string `json:"grade" validate:"omitempty,oneof=A+ A B+ B C+ C D F"`
}

// ExamService handles subject reference data, exam scheduling and
// result recording.
type ExamService struct {
	repo      examRepository
	directory examDirectory
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewExamService constructs an ExamService.
func NewExamService(repo examRepository, directory examDirectory, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ExamService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ExamService{
		repo:      repo,
		directory: directory,
		cache:     cache,
		validator: validate,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// ListSubjects returns the subject catalog.
func (s *ExamService) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	return s.repo.ListSubjects(ctx)
}

// AddSubject creates a subject.
func (s *ExamService) AddSubject(ctx context.Context, req AddSubjectRequest) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}
	subject := &models.Subject{
		ID:         uuid.NewString(),
		Name:       req.Name,
		Code:       req.Code,
		Credits:    req.Credits,
		Semester:   req.Semester,
		Instructor: req.Instructor,
	}
	if err := s.repo.CreateSubject(ctx, subject); err != nil {
		return nil, err
	}
	return subject, nil
}

// ListExams returns all exams.
func (s *ExamService) ListExams(ctx context.Context) ([]models.Exam, error) {
	return s.repo.ListExams(ctx)
}

// ScheduleExam creates an exam for a subject. The subject's display
// fields are denormalised onto the exam at creation time.
func (s *ExamService) ScheduleExam(ctx context.Context, req ScheduleExamRequest) (*models.Exam, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid exam payload")
	}
	subject, err := s.repo.FindSubject(ctx, req.SubjectID)
	if err != nil {
		return nil, err
	}
	exam := &models.Exam{
		ID:              uuid.NewString(),
		SubjectID:       subject.ID,
		SubjectName:     subject.Name,
		SubjectCode:     subject.Code,
		Type:            models.ExamType(req.Type),
		Date:            req.Date,
		DurationMinutes: req.DurationMinutes,
		MaxMarks:        req.MaxMarks,
		Status:          models.ExamScheduled,
		Semester:        subject.Semester,
	}
	if err := s.repo.CreateExam(ctx, exam); err != nil {
		return nil, err
	}
	s.logger.Info("exam scheduled",
		zap.String("exam_id", exam.ID),
		zap.String("subject", exam.SubjectCode),
		zap.Time("date", exam.Date))
	return exam, nil
}

// RecordResult stores a student's marks for an exam, derives the grade
// when not supplied, flips the exam to graded and recomputes the
// student's cached academic record. Recording twice overwrites.
func (s *ExamService) RecordResult(ctx context.Context, examID string, req RecordResultRequest) (*models.ExamResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid result payload")
	}
	exam, err := s.repo.FindExam(ctx, examID)
	if err != nil {
		return nil, err
	}
	if req.ObtainedMarks < 0 || req.ObtainedMarks > exam.MaxMarks {
		return nil, appErrors.ErrOutOfRange
	}
	profile, err := s.directory.FindStudentProfile(ctx, req.StudentID)
	if err != nil {
		return nil, err
	}

	grade := req.Grade
	if grade == "" {
		grade = DeriveGrade(req.ObtainedMarks, exam.MaxMarks)
	}
	result := &models.ExamResult{
		StudentID:     req.StudentID,
		ExamID:        exam.ID,
		ObtainedMarks: req.ObtainedMarks,
		Grade:         grade,
		RecordedAt:    s.now(),
	}
	if err := s.repo.UpsertExamResult(ctx, result); err != nil {
		return nil, err
	}
	if exam.Status != models.ExamGraded {
		if err := s.repo.SetExamStatus(ctx, exam.ID, models.ExamGraded); err != nil {
			return nil, err
		}
	}
	if err := s.recomputeGrade(ctx, profile); err != nil {
		return nil, err
	}
	s.cache.InvalidateDashboards(ctx)
	s.logger.Info("exam result recorded",
		zap.String("exam_id", exam.ID),
		zap.String("student_id", req.StudentID),
		zap.String("grade", grade))
	return result, nil
}

// recomputeGrade rebuilds the cached academic record from every result
// the student holds.
func (s *ExamService) recomputeGrade(ctx context.Context, profile *models.StudentProfile) error {
	results, err := s.repo.ListResultsByStudent(ctx, profile.StudentID)
	if err != nil {
		return err
	}

	marks := make([]models.ExamMark, 0, len(results))
	for _, r := range results {
		exam, err := s.repo.FindExam(ctx, r.ExamID)
		if err != nil {
			if isNotFound(err) {
				continue
			}
			return err
		}
		marks = append(marks, models.ExamMark{
			ExamID:        exam.ID,
			SubjectName:   exam.SubjectName,
			Type:          exam.Type,
			ObtainedMarks: r.ObtainedMarks,
			MaxMarks:      exam.MaxMarks,
			Grade:         r.Grade,
		})
	}

	cgpa, percentage := computePerformance(marks)
	return s.repo.UpsertStudentGrade(ctx, &models.StudentGrade{
		StudentID:       profile.StudentID,
		CGPA:            cgpa,
		Percentage:      percentage,
		CurrentSemester: profile.CurrentSemester,
		Course:          profile.Course,
		Year:            profile.Year,
		Marks:           marks,
		UpdatedAt:       s.now(),
	})
}
