package models

// StudentProfile is the directory entry mapping a stable student ID to
// display and enrollment attributes. It is the identity resolver's
// lookup table.
type StudentProfile struct {
	StudentID       string `db:"student_id" json:"student_id"`
	FullName        string `db:"full_name" json:"full_name"`
	Email           string `db:"email" json:"email"`
	Course          string `db:"course" json:"course"`
	Year            int    `db:"year" json:"year"`
	CurrentSemester int    `db:"current_semester" json:"current_semester"`
}
