package dto

import (
	"time"

	"github.com/campus-labs/college-erp-api/internal/models"
)

// StudentView is the aggregated per-student payload consumed by the
// student dashboard. For non-approved students the collection fields are
// empty and the numeric fields zero; AdmissionStatus always carries the
// real status so callers can render "pending" messaging.
type StudentView struct {
	StudentID       string                 `json:"student_id"`
	StudentName     string                 `json:"student_name"`
	AdmissionStatus models.AdmissionStatus `json:"admission_status"`
	Course          *string                `json:"course"`
	Year            *int                   `json:"year"`
	CurrentSemester int                    `json:"current_semester"`
	Fees            []models.Fee           `json:"fees"`
	Books           []models.LibraryBook   `json:"books"`
	Room            *models.HostelRoom     `json:"room"`
	TotalFeesPaid   int64                  `json:"total_fees_paid"`
	PendingFees     int64                  `json:"pending_fees"`
	NextFee         *models.Fee            `json:"next_fee"`
	AcademicRecord  *models.StudentGrade   `json:"academic_record"`
	CGPA            float64                `json:"cgpa"`
	Percentage      float64                `json:"percentage"`
}

// InstitutionMetrics is the admin dashboard summary.
type InstitutionMetrics struct {
	TotalApprovedStudents int       `json:"total_approved_students"`
	TotalRevenueCollected int64     `json:"total_revenue_collected"`
	MonthlyRevenue        int64     `json:"monthly_revenue"`
	HostelOccupancy       int       `json:"hostel_occupancy"`
	PendingAdmissions     int       `json:"pending_admissions"`
	UnderReviewAdmissions int       `json:"under_review_admissions"`
	OverduePayments       int       `json:"overdue_payments"`
	BooksIssued           int       `json:"books_issued"`
	GeneratedAt           time.Time `json:"generated_at"`
}

// ClassAverage reports the mean CGPA across approved students, overall
// and broken down by course. Students without an academic record count
// as zero.
type ClassAverage struct {
	Overall  float64            `json:"overall"`
	ByCourse map[string]float64 `json:"by_course"`
}

// TopPerformer is one row of the admin performance leaderboard.
type TopPerformer struct {
	StudentID   string  `json:"student_id"`
	StudentName string  `json:"student_name"`
	Course      string  `json:"course"`
	CGPA        float64 `json:"cgpa"`
}

// ExamWorklistEntry reports grading progress for one approved student.
type ExamWorklistEntry struct {
	StudentID     string  `json:"student_id"`
	StudentName   string  `json:"student_name"`
	IsGraded      bool    `json:"is_graded"`
	ObtainedMarks *int    `json:"obtained_marks,omitempty"`
	Grade         *string `json:"grade,omitempty"`
}

// ExamWorklist drives the per-exam grading screen.
type ExamWorklist struct {
	ExamID      string              `json:"exam_id"`
	SubjectName string              `json:"subject_name"`
	MaxMarks    int                 `json:"max_marks"`
	Status      models.ExamStatus   `json:"status"`
	Students    []ExamWorklistEntry `json:"students"`
}
