package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campus-labs/college-erp-api/internal/models"
	appErrors "github.com/campus-labs/college-erp-api/pkg/errors"
	"github.com/campus-labs/college-erp-api/pkg/export"
)

type feeRepository interface {
	ListFees(ctx context.Context) ([]models.Fee, error)
	FindFee(ctx context.Context, id string) (*models.Fee, error)
	UpdateFee(ctx context.Context, f *models.Fee) error
}

type receiptRenderer interface {
	RenderReceipt(fields export.ReceiptFields) ([]byte, error)
}

type csvRenderer interface {
	Render(dataset export.Dataset) ([]byte, error)
}

// FeeService handles fee payment and reporting.
type FeeService struct {
	repo    feeRepository
	cache   *CacheService
	pdf     receiptRenderer
	csv     csvRenderer
	logger  *zap.Logger
	now     func() time.Time
	receipt func(ts time.Time) string
}

// NewFeeService constructs a FeeService.
func NewFeeService(repo feeRepository, cache *CacheService, pdf receiptRenderer, csv csvRenderer, logger *zap.Logger) *FeeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeeService{
		repo:    repo,
		cache:   cache,
		pdf:     pdf,
		csv:     csv,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
		receipt: newReceiptNumber,
	}
}

// newReceiptNumber builds a receipt reference from the payment year and
// a short random suffix.
func newReceiptNumber(ts time.Time) string {
	return fmt.Sprintf("RCP-%d-%s", ts.Year(), strings.ToUpper(uuid.NewString()[:8]))
}

// List returns all fee records.
func (s *FeeService) List(ctx context.Context) ([]models.Fee, error) {
	return s.repo.ListFees(ctx)
}

// PayFee settles a pending or overdue fee, stamping the payment date
// and a fresh receipt number. Paying a settled fee fails.
func (s *FeeService) PayFee(ctx context.Context, feeID string) (*models.Fee, error) {
	fee, err := s.repo.FindFee(ctx, feeID)
	if err != nil {
		return nil, err
	}
	if fee.Status == models.FeePaid {
		return nil, appErrors.ErrAlreadyPaid
	}

	ts := s.now()
	receipt := s.receipt(ts)
	fee.Status = models.FeePaid
	fee.PaidDate = &ts
	fee.ReceiptNumber = &receipt

	if err := s.repo.UpdateFee(ctx, fee); err != nil {
		return nil, err
	}
	s.cache.InvalidateDashboards(ctx)
	s.logger.Info("fee paid",
		zap.String("fee_id", fee.ID),
		zap.String("student_id", fee.StudentID),
		zap.String("receipt", receipt))
	return fee, nil
}

// ReceiptPDF renders the payment receipt for a settled fee.
func (s *FeeService) ReceiptPDF(ctx context.Context, feeID string) ([]byte, error) {
	fee, err := s.repo.FindFee(ctx, feeID)
	if err != nil {
		return nil, err
	}
	if fee.Status != models.FeePaid || fee.ReceiptNumber == nil || fee.PaidDate == nil {
		return nil, appErrors.New("RECEIPT_UNAVAILABLE", 409, "receipt is only available for paid fees")
	}
	return s.pdf.RenderReceipt(export.ReceiptFields{
		Institution:   "Campus Labs College",
		ReceiptNumber: *fee.ReceiptNumber,
		StudentName:   fee.StudentName,
		StudentID:     fee.StudentID,
		FeeType:       string(fee.Type),
		Amount:        strconv.FormatInt(fee.Amount, 10),
		PaidDate:      fee.PaidDate.Format("2006-01-02"),
	})
}

// ExportCSV renders the full fee ledger as CSV.
func (s *FeeService) ExportCSV(ctx context.Context) ([]byte, error) {
	fees, err := s.repo.ListFees(ctx)
	if err != nil {
		return nil, err
	}
	dataset := export.Dataset{
		Headers: []string{"id", "student_id", "student_name", "amount", "type", "status", "due_date", "paid_date", "receipt_number"},
	}
	for _, f := range fees {
		row := map[string]string{
			"id":           f.ID,
			"student_id":   f.StudentID,
			"student_name": f.StudentName,
			"amount":       strconv.FormatInt(f.Amount, 10),
			"type":         string(f.Type),
			"status":       string(f.Status),
			"due_date":     f.DueDate.Format("2006-01-02"),
		}
		if f.PaidDate != nil {
			row["paid_date"] = f.PaidDate.Format("2006-01-02")
		}
		if f.ReceiptNumber != nil {
			row["receipt_number"] = *f.ReceiptNumber
		}
		dataset.Append(row)
	}
	return s.csv.Render(dataset)
}
