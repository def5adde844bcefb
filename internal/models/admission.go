package models

import "time"

// AdmissionStatus gates the visibility of a student's academic and
// resource data: only approved students surface fees, books, rooms and
// grades through the aggregation views.
type AdmissionStatus string

const (
	AdmissionPending     AdmissionStatus = "pending"
	AdmissionUnderReview AdmissionStatus = "under_review"
	AdmissionApproved    AdmissionStatus = "approved"
	AdmissionRejected    AdmissionStatus = "rejected"
)

// Admission represents a student's admission application.
// StudentID is the stable join key across all entity tables; StudentName
// is a display cache updated on write.
type Admission struct {
	ID              string          `db:"id" json:"id"`
	StudentID       string          `db:"student_id" json:"student_id"`
	StudentName     string          `db:"student_name" json:"student_name"`
	Email           string          `db:"email" json:"email"`
	Phone           string          `db:"phone" json:"phone"`
	Course          string          `db:"course" json:"course"`
	Status          AdmissionStatus `db:"status" json:"status"`
	ApplicationDate time.Time       `db:"application_date" json:"application_date"`
	Documents       []string        `db:"-" json:"documents"`
	FeesPaid        bool            `db:"fees_paid" json:"fees_paid"`
	ReviewDate      *time.Time      `db:"review_date" json:"review_date,omitempty"`
	ReviewRemarks   *string         `db:"review_remarks" json:"review_remarks,omitempty"`
}

// AdmissionFilter captures search criteria for listing applications.
type AdmissionFilter struct {
	Status   AdmissionStatus
	Course   string
	Search   string
	Page     int
	PageSize int
}
