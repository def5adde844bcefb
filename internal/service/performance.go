// Package service implements the application use cases on top of the
// entity tables. Services accept small consumer-defined repository
// interfaces so the in-memory store and the Postgres repositories are
// interchangeable.
package service

import (
	"math"

	"github.com/campus-labs/college-erp-api/internal/models"
)

// gradePoints maps a letter grade to its point value on the 10-point
// scale. Unknown grades count as zero.
var gradePoints = map[string]float64{
	"A+": 10,
	"A":  9,
	"B+": 8,
	"B":  7,
	"C+": 6,
	"C":  5,
	"D":  4,
	"F":  0,
}

// GradePoint returns the point value for a letter grade.
func GradePoint(grade string) float64 {
	return gradePoints[grade]
}

// DeriveGrade maps a percentage score to its letter grade.
func DeriveGrade(obtained, maxMarks int) string {
	if maxMarks <= 0 {
		return "F"
	}
	pct := float64(obtained) / float64(maxMarks) * 100
	switch {
	case pct >= 90:
		return "A+"
	case pct >= 80:
		return "A"
	case pct >= 70:
		return "B+"
	case pct >= 60:
		return "B"
	case pct >= 50:
		return "C"
	default:
		return "F"
	}
}

// computePerformance derives CGPA and percentage from a set of marks.
// CGPA is the unweighted mean of grade points; percentage is total
// obtained over total maximum. Both are zero for an empty set.
func computePerformance(marks []models.ExamMark) (cgpa, percentage float64) {
	if len(marks) == 0 {
		return 0, 0
	}
	var points float64
	var obtained, maximum int
	for _, m := range marks {
		points += GradePoint(m.Grade)
		obtained += m.ObtainedMarks
		maximum += m.MaxMarks
	}
	cgpa = round2(points / float64(len(marks)))
	if maximum > 0 {
		percentage = round2(float64(obtained) / float64(maximum) * 100)
	}
	return cgpa, percentage
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
