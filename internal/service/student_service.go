package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/campus-labs/college-erp-api/internal/dto"
	"github.com/campus-labs/college-erp-api/internal/models"
)

type studentFeeReader interface {
	ListFeesByStudent(ctx context.Context, studentID string) ([]models.Fee, error)
}

type studentBookReader interface {
	ListBooksIssuedTo(ctx context.Context, studentID string) ([]models.LibraryBook, error)
}

type studentRoomReader interface {
	FindRoomByOccupant(ctx context.Context, studentID string) (*models.HostelRoom, error)
}

type studentGradeReader interface {
	FindStudentGrade(ctx context.Context, studentID string) (*models.StudentGrade, error)
}

// StudentService assembles the per-student aggregation view. It is a
// pure read path: nothing here mutates the entity tables.
type StudentService struct {
	identity *IdentityService
	fees     studentFeeReader
	books    studentBookReader
	rooms    studentRoomReader
	grades   studentGradeReader
	logger   *zap.Logger
}

// NewStudentService constructs a StudentService.
func NewStudentService(identity *IdentityService, fees studentFeeReader, books studentBookReader, rooms studentRoomReader, grades studentGradeReader, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{identity: identity, fees: fees, books: books, rooms: rooms, grades: grades, logger: logger}
}

// GetStudentView builds the aggregated dashboard payload for one
// student. Non-approved students receive a sentinel view carrying only
// their identity and real admission status.
func (s *StudentService) GetStudentView(ctx context.Context, studentID string) (*dto.StudentView, error) {
	profile, err := s.identity.ResolveProfile(ctx, studentID)
	if err != nil {
		return nil, err
	}
	status, err := s.identity.ResolveAdmissionStatus(ctx, studentID)
	if err != nil {
		return nil, err
	}

	view := &dto.StudentView{
		StudentID:       profile.StudentID,
		StudentName:     profile.FullName,
		AdmissionStatus: status,
		Fees:            []models.Fee{},
		Books:           []models.LibraryBook{},
	}
	if status != models.AdmissionApproved {
		return view, nil
	}

	course := profile.Course
	year := profile.Year
	view.Course = &course
	view.Year = &year
	view.CurrentSemester = profile.CurrentSemester

	fees, err := s.fees.ListFeesByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	view.Fees = fees
	view.TotalFeesPaid, view.PendingFees = feeTotals(fees)
	view.NextFee = nextUnpaidFee(fees)

	books, err := s.books.ListBooksIssuedTo(ctx, studentID)
	if err != nil {
		return nil, err
	}
	view.Books = books

	room, err := s.rooms.FindRoomByOccupant(ctx, studentID)
	if err != nil && !isNotFound(err) {
		return nil, err
	}
	view.Room = room

	grade, err := s.grades.FindStudentGrade(ctx, studentID)
	if err != nil && !isNotFound(err) {
		return nil, err
	}
	if grade != nil {
		view.AcademicRecord = grade
		view.CGPA = grade.CGPA
		view.Percentage = grade.Percentage
	}
	return view, nil
}

// feeTotals splits a student's fees into paid and outstanding sums.
// Overdue fees count toward the outstanding total.
func feeTotals(fees []models.Fee) (paid, pending int64) {
	for _, f := range fees {
		if f.Status == models.FeePaid {
			paid += f.Amount
		} else {
			pending += f.Amount
		}
	}
	return paid, pending
}

// nextUnpaidFee picks the unpaid fee with the earliest due date. Ties
// keep the first record in table order.
func nextUnpaidFee(fees []models.Fee) *models.Fee {
	var next *models.Fee
	for i := range fees {
		f := &fees[i]
		if f.Status == models.FeePaid {
			continue
		}
		if next == nil || f.DueDate.Before(next.DueDate) {
			next = f
		}
	}
	if next == nil {
		return nil
	}
	c := *next
	return &c
}
