package models

import "time"

// FeeType classifies what a fee record bills for.
type FeeType string

const (
	FeeTuition FeeType = "tuition"
	FeeHostel  FeeType = "hostel"
	FeeLibrary FeeType = "library"
	FeeExam    FeeType = "exam"
	FeeOther   FeeType = "other"
)

// FeeStatus is the payment state of a fee record.
type FeeStatus string

const (
	FeePaid    FeeStatus = "paid"
	FeePending FeeStatus = "pending"
	FeeOverdue FeeStatus = "overdue"
)

// Fee is a billed amount for a student. Amounts are whole rupees.
// Fee records are created at billing time and never deleted; paying a fee
// is the only sanctioned mutation.
type Fee struct {
	ID            string     `db:"id" json:"id"`
	StudentID     string     `db:"student_id" json:"student_id"`
	StudentName   string     `db:"student_name" json:"student_name"`
	Amount        int64      `db:"amount" json:"amount"`
	Type          FeeType    `db:"type" json:"type"`
	Status        FeeStatus  `db:"status" json:"status"`
	DueDate       time.Time  `db:"due_date" json:"due_date"`
	PaidDate      *time.Time `db:"paid_date" json:"paid_date,omitempty"`
	ReceiptNumber *string    `db:"receipt_number" json:"receipt_number,omitempty"`
}
