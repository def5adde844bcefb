package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/campus-labs/college-erp-api/internal/models"
)

func TestDeriveGrade(t *testing.T) {
	cases := []struct {
		obtained int
		max      int
		want     string
	}{
		{90, 100, "A+"},
		{89, 100, "A"},
		{80, 100, "A"},
		{79, 100, "B+"},
		{70, 100, "B+"},
		{60, 100, "B"},
		{59, 100, "C"},
		{50, 100, "C"},
		{49, 100, "F"},
		{0, 100, "F"},
		{45, 50, "A+"},
		{10, 0, "F"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, DeriveGrade(tc.obtained, tc.max), "%d/%d", tc.obtained, tc.max)
	}
}

func TestGradePoint(t *testing.T) {
	assert.Equal(t, 10.0, GradePoint("A+"))
	assert.Equal(t, 9.0, GradePoint("A"))
	assert.Equal(t, 4.0, GradePoint("D"))
	assert.Equal(t, 0.0, GradePoint("F"))
	assert.Equal(t, 0.0, GradePoint("X"))
}

func TestComputePerformance(t *testing.T) {
	t.Run("empty set yields zeros", func(t *testing.T) {
		cgpa, pct := computePerformance(nil)
		assert.Zero(t, cgpa)
		assert.Zero(t, pct)
	})

	t.Run("cgpa is the unweighted mean of grade points", func(t *testing.T) {
		marks := []models.ExamMark{
			{Grade: "A", ObtainedMarks: 85, MaxMarks: 100},
			{Grade: "B+", ObtainedMarks: 72, MaxMarks: 100},
		}
		cgpa, pct := computePerformance(marks)
		assert.InDelta(t, 8.5, cgpa, 0.001)
		assert.InDelta(t, 78.5, pct, 0.001)
	})

	t.Run("unknown grades count as zero points", func(t *testing.T) {
		marks := []models.ExamMark{
			{Grade: "A+", ObtainedMarks: 95, MaxMarks: 100},
			{Grade: "??", ObtainedMarks: 10, MaxMarks: 100},
		}
		cgpa, _ := computePerformance(marks)
		assert.InDelta(t, 5.0, cgpa, 0.001)
	})

	t.Run("mixed maximums weight the percentage, not the cgpa", func(t *testing.T) {
		marks := []models.ExamMark{
			{Grade: "A+", ObtainedMarks: 45, MaxMarks: 50},
			{Grade: "C", ObtainedMarks: 50, MaxMarks: 100},
		}
		cgpa, pct := computePerformance(marks)
		assert.InDelta(t, 7.5, cgpa, 0.001)
		assert.InDelta(t, 63.33, pct, 0.01)
	})
}
