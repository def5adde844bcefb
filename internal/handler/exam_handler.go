package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus-labs/college-erp-api/internal/service"
	appErrors "github.com/campus-labs/college-erp-api/pkg/errors"
	"github.com/campus-labs/college-erp-api/pkg/response"
)

// ExamHandler exposes subject, exam and grading endpoints.
type ExamHandler struct {
	exams      *service.ExamService
	dashboards *service.DashboardService
}

// NewExamHandler constructs ExamHandler.
func NewExamHandler(exams *service.ExamService, dashboards *service.DashboardService) *ExamHandler {
	return &ExamHandler{exams: exams, dashboards: dashboards}
}

// ListSubjects godoc
// @Summary List subjects
// @Tags Exams
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /subjects [get]
func (h *ExamHandler) ListSubjects(c *gin.Context) {
	subjects, err := h.exams.ListSubjects(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subjects, nil)
}

// AddSubject godoc
// @Summary Create a subject
// @Tags Exams
// @Accept json
// @Produce json
// @Param payload body service.AddSubjectRequest true "Subject"
// @Success 201 {object} response.Envelope
// @Router /subjects [post]
func (h *ExamHandler) AddSubject(c *gin.Context) {
	var req service.AddSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload"))
		return
	}
	subject, err := h.exams.AddSubject(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, subject)
}

// List godoc
// @Summary List exams
// @Tags Exams
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /exams [get]
func (h *ExamHandler) List(c *gin.Context) {
	exams, err := h.exams.ListExams(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, exams, nil)
}

// Schedule godoc
// @Summary Schedule an exam
// @Tags Exams
// @Accept json
// @Produce json
// @Param payload body service.ScheduleExamRequest true "Exam"
// @Success 201 {object} response.Envelope
// @Router /exams [post]
func (h *ExamHandler) Schedule(c *gin.Context) {
	var req service.ScheduleExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid exam payload"))
		return
	}
	exam, err := h.exams.ScheduleExam(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, exam)
}

// RecordResult godoc
// @Summary Record a student's marks for an exam
// @Tags Exams
// @Accept json
// @Produce json
// @Param id path string true "Exam ID"
// @Param payload body service.RecordResultRequest true "Result"
// @Success 200 {object} response.Envelope
// @Router /exams/{id}/results [post]
func (h *ExamHandler) RecordResult(c *gin.Context) {
	var req service.RecordResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid result payload"))
		return
	}
	result, err := h.exams.RecordResult(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Worklist godoc
// @Summary Grading progress for one exam
// @Tags Exams
// @Produce json
// @Param id path string true "Exam ID"
// @Success 200 {object} response.Envelope
// @Router /exams/{id}/worklist [get]
func (h *ExamHandler) Worklist(c *gin.Context) {
	worklist, err := h.dashboards.ExamWorklist(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, worklist, nil)
}
