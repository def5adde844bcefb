package models

import "time"

// BookStatus is the circulation state of a library book.
type BookStatus string

const (
	BookAvailable BookStatus = "available"
	BookIssued    BookStatus = "issued"
	BookReserved  BookStatus = "reserved"
)

// LibraryBook is a single physical copy in the library catalog.
// Invariant: the issue fields are present iff Status == issued.
type LibraryBook struct {
	ID                string     `db:"id" json:"id"`
	Title             string     `db:"title" json:"title"`
	Author            string     `db:"author" json:"author"`
	ISBN              string     `db:"isbn" json:"isbn"`
	Category          string     `db:"category" json:"category"`
	Status            BookStatus `db:"status" json:"status"`
	IssuedToStudentID *string    `db:"issued_to_student_id" json:"issued_to_student_id,omitempty"`
	IssuedToName      *string    `db:"issued_to_name" json:"issued_to_name,omitempty"`
	IssuedDate        *time.Time `db:"issued_date" json:"issued_date,omitempty"`
	DueDate           *time.Time `db:"due_date" json:"due_date,omitempty"`
}

// IssueConsistent reports whether the issue fields agree with the status.
func (b *LibraryBook) IssueConsistent() bool {
	if b.Status == BookIssued {
		return b.IssuedToStudentID != nil && b.IssuedDate != nil && b.DueDate != nil
	}
	return b.IssuedDate == nil && b.DueDate == nil
}
