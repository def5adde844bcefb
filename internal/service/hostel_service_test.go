package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-labs/college-erp-api/internal/models"
	"github.com/campus-labs/college-erp-api/internal/store"
	appErrors "github.com/campus-labs/college-erp-api/pkg/errors"
)

func newHostelFixture(t *testing.T) (*store.MemoryStore, *HostelService) {
	t.Helper()
	mem := store.NewMemoryStore()
	identity := NewIdentityService(mem, nil)
	return mem, NewHostelService(mem, identity, nil, nil)
}

func TestAllocateRoom(t *testing.T) {
	ctx := context.Background()

	t.Run("houses the student under their directory name", func(t *testing.T) {
		mem, svc := newHostelFixture(t)
		require.NoError(t, mem.CreateStudentProfile(ctx, &models.StudentProfile{
			StudentID: "CS1", FullName: "Itadori Yuji", Course: "CSE",
		}))
		require.NoError(t, mem.CreateRoom(ctx, &models.HostelRoom{ID: "r1", RoomNumber: "101", Capacity: 2}))

		room, err := svc.AllocateRoom(ctx, "r1", "CS1")
		require.NoError(t, err)
		assert.Equal(t, 1, room.Occupied)
		require.Len(t, room.Occupants, 1)
		assert.Equal(t, "Itadori Yuji", room.Occupants[0].StudentName)
	})

	t.Run("full room rejects and stays unchanged", func(t *testing.T) {
		mem, svc := newHostelFixture(t)
		require.NoError(t, mem.CreateStudentProfile(ctx, &models.StudentProfile{StudentID: "CS2", FullName: "Two"}))
		require.NoError(t, mem.CreateRoom(ctx, &models.HostelRoom{
			ID: "r1", RoomNumber: "101", Capacity: 1, Occupied: 1,
			Occupants: []models.RoomOccupant{{StudentID: "CS1", StudentName: "One"}},
		}))

		_, err := svc.AllocateRoom(ctx, "r1", "CS2")
		assert.ErrorIs(t, err, appErrors.ErrRoomFull)

		room, err := mem.FindRoom(ctx, "r1")
		require.NoError(t, err)
		assert.Equal(t, 1, room.Occupied)
		assert.False(t, room.HasOccupant("CS2"))
	})

	t.Run("unknown student", func(t *testing.T) {
		mem, svc := newHostelFixture(t)
		require.NoError(t, mem.CreateRoom(ctx, &models.HostelRoom{ID: "r1", RoomNumber: "101", Capacity: 2}))
		_, err := svc.AllocateRoom(ctx, "r1", "ghost")
		assert.ErrorIs(t, err, appErrors.ErrNotFound)
	})
}

func TestRemoveFromRoom(t *testing.T) {
	ctx := context.Background()
	mem, svc := newHostelFixture(t)
	require.NoError(t, mem.CreateRoom(ctx, &models.HostelRoom{
		ID: "r1", RoomNumber: "101", Capacity: 2, Occupied: 2,
		Occupants: []models.RoomOccupant{{StudentID: "CS1"}, {StudentID: "CS2"}},
	}))

	room, err := svc.RemoveFromRoom(ctx, "r1", "CS1")
	require.NoError(t, err)
	assert.Equal(t, 1, room.Occupied)

	// removing again is a no-op
	room, err = svc.RemoveFromRoom(ctx, "r1", "CS1")
	require.NoError(t, err)
	assert.Equal(t, 1, room.Occupied)
}
