package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campus-labs/college-erp-api/internal/models"
	appErrors "github.com/campus-labs/college-erp-api/pkg/errors"
)

type admissionRepository interface {
	CreateAdmission(ctx context.Context, a *models.Admission) error
	ListAdmissions(ctx context.Context, filter models.AdmissionFilter) ([]models.Admission, error)
	FindAdmission(ctx context.Context, id string) (*models.Admission, error)
	UpdateAdmission(ctx context.Context, a *models.Admission) error
}

// ApplyRequest is the payload for submitting an admission application.
type ApplyRequest struct {
	StudentName string   `json:"student_name" validate:"required"`
	Email       string   `json:"email" validate:"required,email"`
	Phone       string   `json:"phone" validate:"required"`
	Course      string   `json:"course" validate:"required"`
	Documents   []string `json:"documents"`
}

// ReviewRequest approves or rejects an application.
type ReviewRequest struct {
	Status  string `json:"status" validate:"required,oneof=approved rejected"`
	Remarks string `json:"remarks"`
}

// AdmissionService handles the application lifecycle. Approving an
// application is what unlocks a student's aggregation views; setting it
// back to rejected is a soft revoke that hides them again without
// touching the underlying records.
type AdmissionService struct {
	repo      admissionRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewAdmissionService constructs an AdmissionService.
func NewAdmissionService(repo admissionRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *AdmissionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AdmissionService{
		repo:      repo,
		cache:     cache,
		validator: validate,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Apply registers a new application in pending state and assigns the
// student ID derived from the course code and application year.
func (s *AdmissionService) Apply(ctx context.Context, req ApplyRequest) (*models.Admission, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid application payload")
	}
	ts := s.now()
	admission := &models.Admission{
		ID:              uuid.NewString(),
		StudentID:       newStudentID(req.Course, ts),
		StudentName:     req.StudentName,
		Email:           req.Email,
		Phone:           req.Phone,
		Course:          req.Course,
		Status:          models.AdmissionPending,
		ApplicationDate: ts,
		Documents:       req.Documents,
	}
	if err := s.repo.CreateAdmission(ctx, admission); err != nil {
		return nil, err
	}
	s.cache.InvalidateDashboards(ctx)
	s.logger.Info("admission application received",
		zap.String("admission_id", admission.ID),
		zap.String("student_id", admission.StudentID),
		zap.String("course", admission.Course))
	return admission, nil
}

// newStudentID derives a roll-number style ID such as CS2024A1B2C3.
func newStudentID(course string, ts time.Time) string {
	prefix := strings.ToUpper(course)
	if len(prefix) > 2 {
		prefix = prefix[:2]
	}
	suffix := strings.ToUpper(uuid.NewString()[:6])
	return fmt.Sprintf("%s%d%s", prefix, ts.Year(), suffix)
}

// List returns applications matching the filter.
func (s *AdmissionService) List(ctx context.Context, filter models.AdmissionFilter) ([]models.Admission, error) {
	return s.repo.ListAdmissions(ctx, filter)
}

// Find fetches an application by ID.
func (s *AdmissionService) Find(ctx context.Context, id string) (*models.Admission, error) {
	return s.repo.FindAdmission(ctx, id)
}

// SetStatus approves or rejects an application. Re-applying the same
// decision is idempotent; flipping a decision overwrites it.
func (s *AdmissionService) SetStatus(ctx context.Context, id string, req ReviewRequest) (*models.Admission, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid review payload")
	}
	admission, err := s.repo.FindAdmission(ctx, id)
	if err != nil {
		return nil, err
	}

	ts := s.now()
	admission.Status = models.AdmissionStatus(req.Status)
	admission.ReviewDate = &ts
	if req.Remarks != "" {
		remarks := req.Remarks
		admission.ReviewRemarks = &remarks
	}
	if err := s.repo.UpdateAdmission(ctx, admission); err != nil {
		return nil, err
	}
	s.cache.InvalidateDashboards(ctx)
	s.logger.Info("admission reviewed",
		zap.String("admission_id", admission.ID),
		zap.String("status", req.Status))
	return admission, nil
}
