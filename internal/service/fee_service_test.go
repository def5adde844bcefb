package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-labs/college-erp-api/internal/models"
	"github.com/campus-labs/college-erp-api/internal/store"
	appErrors "github.com/campus-labs/college-erp-api/pkg/errors"
	"github.com/campus-labs/college-erp-api/pkg/export"
)

// capturingReceiptRenderer records the fields handed to the PDF layer.
type capturingReceiptRenderer struct {
	fields export.ReceiptFields
}

func (r *capturingReceiptRenderer) RenderReceipt(fields export.ReceiptFields) ([]byte, error) {
	r.fields = fields
	return []byte("%PDF"), nil
}

func newFeeFixture(t *testing.T) (*store.MemoryStore, *FeeService) {
	t.Helper()
	mem := store.NewMemoryStore()
	svc := NewFeeService(mem, nil, export.NewPDFExporter(), export.NewCSVExporter(), nil)
	svc.now = func() time.Time { return time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC) }
	return mem, svc
}

func TestPayFee(t *testing.T) {
	ctx := context.Background()

	t.Run("settles a pending fee and stamps a receipt", func(t *testing.T) {
		mem, svc := newFeeFixture(t)
		require.NoError(t, mem.CreateFee(ctx, &models.Fee{
			ID: "f1", StudentID: "CS1", StudentName: "Itadori Yuji",
			Amount: 15000, Type: models.FeeHostel, Status: models.FeePending,
			DueDate: time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC),
		}))

		fee, err := svc.PayFee(ctx, "f1")
		require.NoError(t, err)
		assert.Equal(t, models.FeePaid, fee.Status)
		require.NotNil(t, fee.PaidDate)
		assert.Equal(t, 2024, fee.PaidDate.Year())
		require.NotNil(t, fee.ReceiptNumber)
		assert.Regexp(t, regexp.MustCompile(`^RCP-2024-[0-9A-F-]{8}$`), *fee.ReceiptNumber)

		stored, err := mem.FindFee(ctx, "f1")
		require.NoError(t, err)
		assert.Equal(t, models.FeePaid, stored.Status)
	})

	t.Run("overdue fees can still be paid", func(t *testing.T) {
		mem, svc := newFeeFixture(t)
		require.NoError(t, mem.CreateFee(ctx, &models.Fee{
			ID: "f1", StudentID: "CS1", Amount: 2000, Status: models.FeeOverdue,
			DueDate: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		}))

		fee, err := svc.PayFee(ctx, "f1")
		require.NoError(t, err)
		assert.Equal(t, models.FeePaid, fee.Status)
	})

	t.Run("paying a settled fee fails and changes nothing", func(t *testing.T) {
		mem, svc := newFeeFixture(t)
		paid := time.Date(2024, 1, 25, 0, 0, 0, 0, time.UTC)
		receipt := "RCP-2024-001"
		require.NoError(t, mem.CreateFee(ctx, &models.Fee{
			ID: "f1", StudentID: "CS1", Amount: 50000, Status: models.FeePaid,
			DueDate: paid, PaidDate: &paid, ReceiptNumber: &receipt,
		}))

		_, err := svc.PayFee(ctx, "f1")
		assert.ErrorIs(t, err, appErrors.ErrAlreadyPaid)

		stored, err := mem.FindFee(ctx, "f1")
		require.NoError(t, err)
		assert.Equal(t, "RCP-2024-001", *stored.ReceiptNumber)
		assert.Equal(t, paid, *stored.PaidDate)
	})

	t.Run("unknown fee", func(t *testing.T) {
		_, svc := newFeeFixture(t)
		_, err := svc.PayFee(ctx, "ghost")
		assert.ErrorIs(t, err, appErrors.ErrNotFound)
	})
}

func TestReceiptPDF(t *testing.T) {
	ctx := context.Background()

	t.Run("renders for a paid fee", func(t *testing.T) {
		mem, svc := newFeeFixture(t)
		require.NoError(t, mem.CreateFee(ctx, &models.Fee{
			ID: "f1", StudentID: "CS1", StudentName: "Itadori Yuji",
			Amount: 15000, Type: models.FeeHostel, Status: models.FeePending,
			DueDate: time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC),
		}))
		_, err := svc.PayFee(ctx, "f1")
		require.NoError(t, err)

		pdf, err := svc.ReceiptPDF(ctx, "f1")
		require.NoError(t, err)
		assert.NotEmpty(t, pdf)
	})

	t.Run("field values reach the renderer formatted", func(t *testing.T) {
		mem := store.NewMemoryStore()
		renderer := &capturingReceiptRenderer{}
		svc := NewFeeService(mem, nil, renderer, export.NewCSVExporter(), nil)
		svc.now = func() time.Time { return time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC) }

		require.NoError(t, mem.CreateFee(ctx, &models.Fee{
			ID: "f1", StudentID: "CS1", StudentName: "Itadori Yuji",
			Amount: 15000, Type: models.FeeHostel, Status: models.FeePending,
			DueDate: time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC),
		}))
		_, err := svc.PayFee(ctx, "f1")
		require.NoError(t, err)

		_, err = svc.ReceiptPDF(ctx, "f1")
		require.NoError(t, err)
		assert.Equal(t, "15000", renderer.fields.Amount)
		assert.Equal(t, "Itadori Yuji", renderer.fields.StudentName)
		assert.Equal(t, "hostel", renderer.fields.FeeType)
		assert.Equal(t, "2024-02-10", renderer.fields.PaidDate)
	})

	t.Run("unpaid fee has no receipt", func(t *testing.T) {
		mem, svc := newFeeFixture(t)
		require.NoError(t, mem.CreateFee(ctx, &models.Fee{
			ID: "f1", StudentID: "CS1", Amount: 2000, Status: models.FeePending,
			DueDate: time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC),
		}))

		_, err := svc.ReceiptPDF(ctx, "f1")
		require.Error(t, err)
	})
}

func TestExportCSV(t *testing.T) {
	ctx := context.Background()
	mem, svc := newFeeFixture(t)
	paid := time.Date(2024, 1, 25, 0, 0, 0, 0, time.UTC)
	receipt := "RCP-2024-001"
	require.NoError(t, mem.CreateFee(ctx, &models.Fee{
		ID: "f1", StudentID: "CS1", StudentName: "Itadori Yuji",
		Amount: 50000, Type: models.FeeTuition, Status: models.FeePaid,
		DueDate: paid, PaidDate: &paid, ReceiptNumber: &receipt,
	}))

	out, err := svc.ExportCSV(ctx)
	require.NoError(t, err)
	assert.Contains(t, string(out), "student_id")
	assert.Contains(t, string(out), "Itadori Yuji")
	assert.Contains(t, string(out), "RCP-2024-001")
}
