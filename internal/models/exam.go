package models

import "time"

// Subject is static reference data for a course unit.
type Subject struct {
	ID         string `db:"id" json:"id"`
	Name       string `db:"name" json:"name"`
	Code       string `db:"code" json:"code"`
	Credits    int    `db:"credits" json:"credits"`
	Semester   int    `db:"semester" json:"semester"`
	Instructor string `db:"instructor" json:"instructor"`
}

// ExamType classifies an assessment.
type ExamType string

const (
	ExamMidterm    ExamType = "midterm"
	ExamFinal      ExamType = "final"
	ExamQuiz       ExamType = "quiz"
	ExamAssignment ExamType = "assignment"
)

// ExamStatus is the lifecycle state of an exam.
type ExamStatus string

const (
	ExamScheduled ExamStatus = "scheduled"
	ExamCompleted ExamStatus = "completed"
	ExamGraded    ExamStatus = "graded"
)

// Exam is a scheduled assessment for a subject. SubjectName and
// SubjectCode are display caches of the referenced Subject.
// DurationMinutes of 0 means untimed (assignments).
type Exam struct {
	ID              string     `db:"id" json:"id"`
	SubjectID       string     `db:"subject_id" json:"subject_id"`
	SubjectName     string     `db:"subject_name" json:"subject_name"`
	SubjectCode     string     `db:"subject_code" json:"subject_code"`
	Type            ExamType   `db:"type" json:"type"`
	Date            time.Time  `db:"date" json:"date"`
	DurationMinutes int        `db:"duration_minutes" json:"duration_minutes"`
	MaxMarks        int        `db:"max_marks" json:"max_marks"`
	Status          ExamStatus `db:"status" json:"status"`
	Semester        int        `db:"semester" json:"semester"`
}

// ExamResult records a student's marks for one exam. At most one result
// exists per (StudentID, ExamID); recording again overwrites.
type ExamResult struct {
	StudentID     string    `db:"student_id" json:"student_id"`
	ExamID        string    `db:"exam_id" json:"exam_id"`
	ObtainedMarks int       `db:"obtained_marks" json:"obtained_marks"`
	Grade         string    `db:"grade" json:"grade"`
	RecordedAt    time.Time `db:"recorded_at" json:"recorded_at"`
}

// ExamMark is the per-exam line of a student's academic record.
type ExamMark struct {
	ExamID        string   `json:"exam_id"`
	SubjectName   string   `json:"subject_name"`
	Type          ExamType `json:"type"`
	ObtainedMarks int      `json:"obtained_marks"`
	MaxMarks      int      `json:"max_marks"`
	Grade         string   `json:"grade"`
}

// StudentGrade is the cached academic record for a student. It is
// recomputed whenever a new exam result is recorded, never authored
// independently.
type StudentGrade struct {
	StudentID       string     `db:"student_id" json:"student_id"`
	CGPA            float64    `db:"cgpa" json:"cgpa"`
	Percentage      float64    `db:"percentage" json:"percentage"`
	CurrentSemester int        `db:"current_semester" json:"current_semester"`
	Course          string     `db:"course" json:"course"`
	Year            int        `db:"year" json:"year"`
	Marks           []ExamMark `db:"-" json:"marks"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}
