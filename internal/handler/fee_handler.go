package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus-labs/college-erp-api/internal/service"
	"github.com/campus-labs/college-erp-api/pkg/response"
)

// FeeHandler exposes fee payment and reporting endpoints.
type FeeHandler struct {
	fees *service.FeeService
}

// NewFeeHandler constructs FeeHandler.
func NewFeeHandler(fees *service.FeeService) *FeeHandler {
	return &FeeHandler{fees: fees}
}

// List godoc
// @Summary List fee records
// @Tags Fees
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /fees [get]
func (h *FeeHandler) List(c *gin.Context) {
	fees, err := h.fees.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, fees, nil)
}

// Pay godoc
// @Summary Settle a fee
// @Tags Fees
// @Produce json
// @Param id path string true "Fee ID"
// @Success 200 {object} response.Envelope
// @Router /fees/{id}/pay [post]
func (h *FeeHandler) Pay(c *gin.Context) {
	fee, err := h.fees.PayFee(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, fee, nil)
}

// Receipt godoc
// @Summary Download the payment receipt as PDF
// @Tags Fees
// @Produce application/pdf
// @Param id path string true "Fee ID"
// @Success 200 {file} binary
// @Router /fees/{id}/receipt [get]
func (h *FeeHandler) Receipt(c *gin.Context) {
	pdf, err := h.fees.ReceiptPDF(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, fmt.Sprintf("receipt-%s.pdf", c.Param("id")), "application/pdf", pdf)
}

// Export godoc
// @Summary Export the fee ledger as CSV
// @Tags Fees
// @Produce text/csv
// @Success 200 {file} binary
// @Router /fees/export [get]
func (h *FeeHandler) Export(c *gin.Context) {
	csv, err := h.fees.ExportCSV(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, "fees.csv", "text/csv", csv)
}
