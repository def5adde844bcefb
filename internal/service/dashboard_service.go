package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/campus-labs/college-erp-api/internal/dto"
	"github.com/campus-labs/college-erp-api/internal/models"
)

const (
	metricsCacheKey       = "dash:metrics"
	topPerformersCacheKey = "dash:top:%d"
	classAverageCacheKey  = "dash:classavg"
)

type dashboardAdmissionReader interface {
	ListAdmissions(ctx context.Context, filter models.AdmissionFilter) ([]models.Admission, error)
}

type dashboardFeeReader interface {
	ListFees(ctx context.Context) ([]models.Fee, error)
}

type dashboardRoomReader interface {
	ListRooms(ctx context.Context) ([]models.HostelRoom, error)
}

type dashboardBookReader interface {
	ListBooks(ctx context.Context) ([]models.LibraryBook, error)
}

type dashboardGradeReader interface {
	FindStudentGrade(ctx context.Context, studentID string) (*models.StudentGrade, error)
}

type dashboardExamReader interface {
	FindExam(ctx context.Context, id string) (*models.Exam, error)
	ListResultsByExam(ctx context.Context, examID string) ([]models.ExamResult, error)
}

type dashboardDirectory interface {
	FindStudentProfile(ctx context.Context, studentID string) (*models.StudentProfile, error)
}

// DashboardService computes the institution-wide aggregation views.
// All reads are snapshots of the entity tables; only approved students
// contribute to any figure.
type DashboardService struct {
	admissions dashboardAdmissionReader
	fees       dashboardFeeReader
	rooms      dashboardRoomReader
	books      dashboardBookReader
	grades     dashboardGradeReader
	exams      dashboardExamReader
	directory  dashboardDirectory
	cache      *CacheService
	cacheTTL   time.Duration
	logger     *zap.Logger
	now        func() time.Time
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(
	admissions dashboardAdmissionReader,
	fees dashboardFeeReader,
	rooms dashboardRoomReader,
	books dashboardBookReader,
	grades dashboardGradeReader,
	exams dashboardExamReader,
	directory dashboardDirectory,
	cache *CacheService,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		admissions: admissions,
		fees:       fees,
		rooms:      rooms,
		books:      books,
		grades:     grades,
		exams:      exams,
		directory:  directory,
		cache:      cache,
		cacheTTL:   cacheTTL,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// approvedAdmissions returns the approved applications in table order.
func (s *DashboardService) approvedAdmissions(ctx context.Context) ([]models.Admission, error) {
	return s.admissions.ListAdmissions(ctx, models.AdmissionFilter{Status: models.AdmissionApproved})
}

// InstitutionMetrics assembles the admin dashboard summary. Revenue
// figures only count fees billed to approved students.
func (s *DashboardService) InstitutionMetrics(ctx context.Context) (*dto.InstitutionMetrics, error) {
	var cached dto.InstitutionMetrics
	if hit, _ := s.cache.Get(ctx, metricsCacheKey, &cached); hit {
		return &cached, nil
	}

	approved, err := s.approvedAdmissions(ctx)
	if err != nil {
		return nil, err
	}
	approvedSet := make(map[string]bool, len(approved))
	for _, a := range approved {
		approvedSet[a.StudentID] = true
	}

	allAdmissions, err := s.admissions.ListAdmissions(ctx, models.AdmissionFilter{})
	if err != nil {
		return nil, err
	}
	pending, underReview := 0, 0
	for _, a := range allAdmissions {
		switch a.Status {
		case models.AdmissionPending:
			pending++
		case models.AdmissionUnderReview:
			underReview++
		}
	}

	fees, err := s.fees.ListFees(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	var revenue, monthly int64
	overdue := 0
	for _, f := range fees {
		if !approvedSet[f.StudentID] {
			continue
		}
		switch f.Status {
		case models.FeePaid:
			revenue += f.Amount
			if f.PaidDate != nil && f.PaidDate.Year() == now.Year() && f.PaidDate.Month() == now.Month() {
				monthly += f.Amount
			}
		case models.FeeOverdue:
			overdue++
		}
	}

	rooms, err := s.rooms.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	var capacity, occupied int
	for _, r := range rooms {
		capacity += r.Capacity
		occupied += r.Occupied
	}
	occupancy := 0
	if capacity > 0 {
		occupancy = int(math.Round(float64(occupied) / float64(capacity) * 100))
	}

	books, err := s.books.ListBooks(ctx)
	if err != nil {
		return nil, err
	}
	issued := 0
	for _, b := range books {
		if b.Status == models.BookIssued {
			issued++
		}
	}

	metrics := &dto.InstitutionMetrics{
		TotalApprovedStudents: len(approved),
		TotalRevenueCollected: revenue,
		MonthlyRevenue:        monthly,
		HostelOccupancy:       occupancy,
		PendingAdmissions:     pending,
		UnderReviewAdmissions: underReview,
		OverduePayments:       overdue,
		BooksIssued:           issued,
		GeneratedAt:           now,
	}
	_ = s.cache.Set(ctx, metricsCacheKey, metrics, s.cacheTTL)
	return metrics, nil
}

// TopPerformers ranks approved students by CGPA, highest first. Ties
// keep admission table order. Students with no academic record rank at
// the bottom with a zero CGPA.
func (s *DashboardService) TopPerformers(ctx context.Context, limit int) ([]dto.TopPerformer, error) {
	if limit <= 0 {
		limit = 5
	}
	key := fmt.Sprintf(topPerformersCacheKey, limit)
	var cached []dto.TopPerformer
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached, nil
	}

	approved, err := s.approvedAdmissions(ctx)
	if err != nil {
		return nil, err
	}

	performers := make([]dto.TopPerformer, 0, len(approved))
	for _, a := range approved {
		cgpa, err := s.studentCGPA(ctx, a.StudentID)
		if err != nil {
			return nil, err
		}
		performers = append(performers, dto.TopPerformer{
			StudentID:   a.StudentID,
			StudentName: a.StudentName,
			Course:      a.Course,
			CGPA:        cgpa,
		})
	}
	sort.SliceStable(performers, func(i, j int) bool {
		return performers[i].CGPA > performers[j].CGPA
	})
	if len(performers) > limit {
		performers = performers[:limit]
	}
	_ = s.cache.Set(ctx, key, performers, s.cacheTTL)
	return performers, nil
}

// studentCGPA looks up the cached academic record; a student without
// one scores zero.
func (s *DashboardService) studentCGPA(ctx context.Context, studentID string) (float64, error) {
	grade, err := s.grades.FindStudentGrade(ctx, studentID)
	if err != nil {
		if isNotFound(err) {
			return 0, nil
		}
		return 0, err
	}
	return grade.CGPA, nil
}

// ClassAverage returns the mean CGPA across all approved students, plus
// the per-course breakdown. Zero overall when nobody is approved.
func (s *DashboardService) ClassAverage(ctx context.Context) (*dto.ClassAverage, error) {
	var cached dto.ClassAverage
	if hit, _ := s.cache.Get(ctx, classAverageCacheKey, &cached); hit {
		return &cached, nil
	}

	approved, err := s.approvedAdmissions(ctx)
	if err != nil {
		return nil, err
	}

	var total float64
	sums := map[string]float64{}
	counts := map[string]int{}
	for _, a := range approved {
		cgpa, err := s.studentCGPA(ctx, a.StudentID)
		if err != nil {
			return nil, err
		}
		total += cgpa
		sums[a.Course] += cgpa
		counts[a.Course]++
	}

	average := &dto.ClassAverage{ByCourse: make(map[string]float64, len(sums))}
	if len(approved) > 0 {
		average.Overall = round2(total / float64(len(approved)))
	}
	for course, sum := range sums {
		average.ByCourse[course] = round2(sum / float64(counts[course]))
	}
	_ = s.cache.Set(ctx, classAverageCacheKey, average, s.cacheTTL)
	return average, nil
}

// ExamWorklist reports grading progress for one exam: every approved
// student with their result, if recorded.
func (s *DashboardService) ExamWorklist(ctx context.Context, examID string) (*dto.ExamWorklist, error) {
	exam, err := s.exams.FindExam(ctx, examID)
	if err != nil {
		return nil, err
	}

	results, err := s.exams.ListResultsByExam(ctx, examID)
	if err != nil {
		return nil, err
	}
	byStudent := make(map[string]models.ExamResult, len(results))
	for _, r := range results {
		byStudent[r.StudentID] = r
	}

	approved, err := s.approvedAdmissions(ctx)
	if err != nil {
		return nil, err
	}

	worklist := &dto.ExamWorklist{
		ExamID:      exam.ID,
		SubjectName: exam.SubjectName,
		MaxMarks:    exam.MaxMarks,
		Status:      exam.Status,
		Students:    make([]dto.ExamWorklistEntry, 0, len(approved)),
	}
	for _, a := range approved {
		entry := dto.ExamWorklistEntry{
			StudentID:   a.StudentID,
			StudentName: a.StudentName,
		}
		if r, ok := byStudent[a.StudentID]; ok {
			marks := r.ObtainedMarks
			grade := r.Grade
			entry.IsGraded = true
			entry.ObtainedMarks = &marks
			entry.Grade = &grade
		}
		worklist.Students = append(worklist.Students, entry)
	}
	return worklist, nil
}
