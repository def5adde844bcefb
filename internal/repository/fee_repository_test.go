package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-labs/college-erp-api/internal/models"
	appErrors "github.com/campus-labs/college-erp-api/pkg/errors"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	return sqlxdb, mock, func() {
		db.Close()
	}
}

func TestFeeFind(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewFeeRepository(db)

	due := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "student_id", "student_name", "amount", "type", "status", "due_date", "paid_date", "receipt_number"}).
		AddRow("2", "EC2024002", "Nobara Kugisaki", int64(15000), "hostel", "pending", due, nil, nil)
	mock.ExpectQuery("SELECT (.+) FROM fees WHERE id").
		WithArgs("2").
		WillReturnRows(rows)

	fee, err := repo.Find(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, int64(15000), fee.Amount)
	assert.Equal(t, models.FeePending, fee.Status)
	assert.Nil(t, fee.PaidDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeeFindNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewFeeRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM fees WHERE id").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.Find(context.Background(), "missing")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeeUpdate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewFeeRepository(db)

	paid := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
	receipt := "RCP-2024-AB12CD34"
	mock.ExpectExec("UPDATE fees SET").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), &models.Fee{
		ID: "2", StudentID: "EC2024002", StudentName: "Nobara Kugisaki",
		Amount: 15000, Type: models.FeeHostel, Status: models.FeePaid,
		DueDate: paid, PaidDate: &paid, ReceiptNumber: &receipt,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeeUpdateNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewFeeRepository(db)

	mock.ExpectExec("UPDATE fees SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.Fee{ID: "missing", DueDate: time.Now()})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeeListByStudent(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewFeeRepository(db)

	due := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "student_id", "student_name", "amount", "type", "status", "due_date", "paid_date", "receipt_number"}).
		AddRow("1", "CS2024001", "Itadori Yuji", int64(50000), "tuition", "paid", due, due, "RCP-2024-001").
		AddRow("3", "CS2024001", "Itadori Yuji", int64(2000), "library", "overdue", due, nil, nil)
	mock.ExpectQuery("SELECT (.+) FROM fees WHERE student_id").
		WithArgs("CS2024001").
		WillReturnRows(rows)

	fees, err := repo.ListByStudent(context.Background(), "CS2024001")
	require.NoError(t, err)
	require.Len(t, fees, 2)
	assert.Equal(t, models.FeeOverdue, fees[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
