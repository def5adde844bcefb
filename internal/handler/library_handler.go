package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus-labs/college-erp-api/internal/service"
	appErrors "github.com/campus-labs/college-erp-api/pkg/errors"
	"github.com/campus-labs/college-erp-api/pkg/response"
)

// LibraryHandler exposes book circulation endpoints.
type LibraryHandler struct {
	library *service.LibraryService
}

// NewLibraryHandler constructs LibraryHandler.
func NewLibraryHandler(library *service.LibraryService) *LibraryHandler {
	return &LibraryHandler{library: library}
}

type issueBookRequest struct {
	StudentID string `json:"student_id" binding:"required"`
}

// List godoc
// @Summary List the library catalog
// @Tags Library
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /books [get]
func (h *LibraryHandler) List(c *gin.Context) {
	books, err := h.library.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, books, nil)
}

// Issue godoc
// @Summary Issue a book to a student
// @Tags Library
// @Accept json
// @Produce json
// @Param id path string true "Book ID"
// @Param payload body issueBookRequest true "Borrower"
// @Success 200 {object} response.Envelope
// @Router /books/{id}/issue [post]
func (h *LibraryHandler) Issue(c *gin.Context) {
	var req issueBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid issue payload"))
		return
	}
	book, err := h.library.IssueBook(c.Request.Context(), c.Param("id"), req.StudentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, book, nil)
}

// Return godoc
// @Summary Return a book
// @Tags Library
// @Produce json
// @Param id path string true "Book ID"
// @Success 200 {object} response.Envelope
// @Router /books/{id}/return [post]
func (h *LibraryHandler) Return(c *gin.Context) {
	book, err := h.library.ReturnBook(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, book, nil)
}
