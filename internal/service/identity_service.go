package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/campus-labs/college-erp-api/internal/models"
)

type identityDirectory interface {
	FindStudentProfile(ctx context.Context, studentID string) (*models.StudentProfile, error)
	FindAdmissionByStudent(ctx context.Context, studentID string) (*models.Admission, error)
}

// IdentityService resolves student IDs to display names and admission
// status. Every aggregation view goes through it so a rename or a
// status change propagates everywhere at once.
type IdentityService struct {
	repo   identityDirectory
	logger *zap.Logger
}

// NewIdentityService constructs an IdentityService.
func NewIdentityService(repo identityDirectory, logger *zap.Logger) *IdentityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IdentityService{repo: repo, logger: logger}
}

// ResolveProfile returns the directory entry for a student ID.
func (s *IdentityService) ResolveProfile(ctx context.Context, studentID string) (*models.StudentProfile, error) {
	return s.repo.FindStudentProfile(ctx, studentID)
}

// ResolveAdmissionStatus returns the student's admission status. A
// student with no application on file is treated as pending.
func (s *IdentityService) ResolveAdmissionStatus(ctx context.Context, studentID string) (models.AdmissionStatus, error) {
	admission, err := s.repo.FindAdmissionByStudent(ctx, studentID)
	if err != nil {
		if isNotFound(err) {
			return models.AdmissionPending, nil
		}
		return "", err
	}
	return admission.Status, nil
}

// IsApproved reports whether the student may surface academic and
// resource data through the aggregation views.
func (s *IdentityService) IsApproved(ctx context.Context, studentID string) (bool, error) {
	status, err := s.ResolveAdmissionStatus(ctx, studentID)
	if err != nil {
		return false, err
	}
	return status == models.AdmissionApproved, nil
}
