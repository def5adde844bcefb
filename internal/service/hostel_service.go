package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/campus-labs/college-erp-api/internal/models"
)

type roomRepository interface {
	ListRooms(ctx context.Context) ([]models.HostelRoom, error)
	AddOccupant(ctx context.Context, roomID string, occupant models.RoomOccupant) (*models.HostelRoom, error)
	RemoveOccupant(ctx context.Context, roomID, studentID string) (*models.HostelRoom, error)
}

// HostelService handles room allocation. Occupancy bookkeeping lives in
// the store's write path; this layer resolves identity and invalidates
// the cached dashboards.
type HostelService struct {
	repo     roomRepository
	identity *IdentityService
	cache    *CacheService
	logger   *zap.Logger
}

// NewHostelService constructs a HostelService.
func NewHostelService(repo roomRepository, identity *IdentityService, cache *CacheService, logger *zap.Logger) *HostelService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HostelService{repo: repo, identity: identity, cache: cache, logger: logger}
}

// List returns every room.
func (s *HostelService) List(ctx context.Context) ([]models.HostelRoom, error) {
	return s.repo.ListRooms(ctx)
}

// AllocateRoom houses a student in a room. A full room rejects the
// allocation and stays unchanged.
func (s *HostelService) AllocateRoom(ctx context.Context, roomID, studentID string) (*models.HostelRoom, error) {
	profile, err := s.identity.ResolveProfile(ctx, studentID)
	if err != nil {
		return nil, err
	}
	room, err := s.repo.AddOccupant(ctx, roomID, models.RoomOccupant{
		StudentID:   profile.StudentID,
		StudentName: profile.FullName,
	})
	if err != nil {
		return nil, err
	}
	s.cache.InvalidateDashboards(ctx)
	s.logger.Info("room allocated",
		zap.String("room_id", room.ID),
		zap.String("student_id", profile.StudentID),
		zap.Int("occupied", room.Occupied))
	return room, nil
}

// RemoveFromRoom vacates a student from a room. Removing a student who
// is not housed there succeeds without change.
func (s *HostelService) RemoveFromRoom(ctx context.Context, roomID, studentID string) (*models.HostelRoom, error) {
	room, err := s.repo.RemoveOccupant(ctx, roomID, studentID)
	if err != nil {
		return nil, err
	}
	s.cache.InvalidateDashboards(ctx)
	return room, nil
}
