package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-labs/college-erp-api/internal/models"
	"github.com/campus-labs/college-erp-api/internal/store"
	appErrors "github.com/campus-labs/college-erp-api/pkg/errors"
)

func newAdmissionFixture(t *testing.T) (*store.MemoryStore, *AdmissionService) {
	t.Helper()
	mem := store.NewMemoryStore()
	svc := NewAdmissionService(mem, nil, nil, nil)
	svc.now = func() time.Time { return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) }
	return mem, svc
}

func TestApply(t *testing.T) {
	ctx := context.Background()

	t.Run("registers a pending application with a derived student id", func(t *testing.T) {
		mem, svc := newAdmissionFixture(t)
		admission, err := svc.Apply(ctx, ApplyRequest{
			StudentName: "Yuta Okkotsu",
			Email:       "yuta.okkotsu@student.college.edu",
			Phone:       "+911234567009",
			Course:      "CSE",
			Documents:   []string{"10th Certificate", "12th Certificate"},
		})
		require.NoError(t, err)
		assert.Equal(t, models.AdmissionPending, admission.Status)
		assert.Regexp(t, `^CS2024[0-9A-F]{6}$`, admission.StudentID)
		assert.False(t, admission.FeesPaid)

		stored, err := mem.FindAdmission(ctx, admission.ID)
		require.NoError(t, err)
		assert.Equal(t, "Yuta Okkotsu", stored.StudentName)
	})

	t.Run("invalid payload", func(t *testing.T) {
		_, svc := newAdmissionFixture(t)
		_, err := svc.Apply(ctx, ApplyRequest{StudentName: "No Email", Phone: "1", Course: "CSE"})
		assert.ErrorIs(t, err, appErrors.ErrValidation)
	})
}

func TestSetStatus(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T, mem *store.MemoryStore, status models.AdmissionStatus) {
		require.NoError(t, mem.CreateAdmission(ctx, &models.Admission{
			ID: "a1", StudentID: "CS1", StudentName: "Applicant", Status: status,
		}))
	}

	t.Run("approves a pending application", func(t *testing.T) {
		mem, svc := newAdmissionFixture(t)
		seed(t, mem, models.AdmissionPending)

		admission, err := svc.SetStatus(ctx, "a1", ReviewRequest{Status: "approved", Remarks: "All documents verified"})
		require.NoError(t, err)
		assert.Equal(t, models.AdmissionApproved, admission.Status)
		require.NotNil(t, admission.ReviewDate)
		require.NotNil(t, admission.ReviewRemarks)
	})

	t.Run("approving twice is idempotent", func(t *testing.T) {
		mem, svc := newAdmissionFixture(t)
		seed(t, mem, models.AdmissionApproved)

		admission, err := svc.SetStatus(ctx, "a1", ReviewRequest{Status: "approved"})
		require.NoError(t, err)
		assert.Equal(t, models.AdmissionApproved, admission.Status)
	})

	t.Run("rejecting an approved application revokes visibility", func(t *testing.T) {
		mem, svc := newAdmissionFixture(t)
		seed(t, mem, models.AdmissionApproved)

		admission, err := svc.SetStatus(ctx, "a1", ReviewRequest{Status: "rejected", Remarks: "Revoked"})
		require.NoError(t, err)
		assert.Equal(t, models.AdmissionRejected, admission.Status)
	})

	t.Run("only approved and rejected are valid decisions", func(t *testing.T) {
		mem, svc := newAdmissionFixture(t)
		seed(t, mem, models.AdmissionPending)

		_, err := svc.SetStatus(ctx, "a1", ReviewRequest{Status: "under_review"})
		assert.ErrorIs(t, err, appErrors.ErrValidation)
	})

	t.Run("unknown application", func(t *testing.T) {
		_, svc := newAdmissionFixture(t)
		_, err := svc.SetStatus(ctx, "ghost", ReviewRequest{Status: "approved"})
		assert.ErrorIs(t, err, appErrors.ErrNotFound)
	})
}

func TestListAdmissionsFilter(t *testing.T) {
	ctx := context.Background()
	mem, svc := newAdmissionFixture(t)
	require.NoError(t, mem.CreateAdmission(ctx, &models.Admission{
		ID: "a1", StudentID: "CS1", StudentName: "Itadori Yuji", Email: "yuji@x", Course: "CSE", Status: models.AdmissionApproved,
	}))
	require.NoError(t, mem.CreateAdmission(ctx, &models.Admission{
		ID: "a2", StudentID: "EC1", StudentName: "Nobara Kugisaki", Email: "nobara@x", Course: "ECE", Status: models.AdmissionPending,
	}))

	approved, err := svc.List(ctx, models.AdmissionFilter{Status: models.AdmissionApproved})
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, "a1", approved[0].ID)

	byName, err := svc.List(ctx, models.AdmissionFilter{Search: "nobara"})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "a2", byName[0].ID)
}
