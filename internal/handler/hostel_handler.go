package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus-labs/college-erp-api/internal/service"
	appErrors "github.com/campus-labs/college-erp-api/pkg/errors"
	"github.com/campus-labs/college-erp-api/pkg/response"
)

// HostelHandler exposes room allocation endpoints.
type HostelHandler struct {
	hostel *service.HostelService
}

// NewHostelHandler constructs HostelHandler.
func NewHostelHandler(hostel *service.HostelService) *HostelHandler {
	return &HostelHandler{hostel: hostel}
}

type occupantRequest struct {
	StudentID string `json:"student_id" binding:"required"`
}

// List godoc
// @Summary List hostel rooms
// @Tags Hostel
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /rooms [get]
func (h *HostelHandler) List(c *gin.Context) {
	rooms, err := h.hostel.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rooms, nil)
}

// Allocate godoc
// @Summary House a student in a room
// @Tags Hostel
// @Accept json
// @Produce json
// @Param id path string true "Room ID"
// @Param payload body occupantRequest true "Student"
// @Success 200 {object} response.Envelope
// @Router /rooms/{id}/allocate [post]
func (h *HostelHandler) Allocate(c *gin.Context) {
	var req occupantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid allocation payload"))
		return
	}
	room, err := h.hostel.AllocateRoom(c.Request.Context(), c.Param("id"), req.StudentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, room, nil)
}

// Remove godoc
// @Summary Vacate a student from a room
// @Tags Hostel
// @Accept json
// @Produce json
// @Param id path string true "Room ID"
// @Param payload body occupantRequest true "Student"
// @Success 200 {object} response.Envelope
// @Router /rooms/{id}/remove [post]
func (h *HostelHandler) Remove(c *gin.Context) {
	var req occupantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid removal payload"))
		return
	}
	room, err := h.hostel.RemoveFromRoom(c.Request.Context(), c.Param("id"), req.StudentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, room, nil)
}
