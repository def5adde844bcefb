package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/campus-labs/college-erp-api/internal/models"
	appErrors "github.com/campus-labs/college-erp-api/pkg/errors"
)

// RoomRepository manages persistence for hostel rooms and occupancy.
// Occupant writes run in a transaction with the room row locked so the
// occupancy counter never drifts from the occupant list.
type RoomRepository struct {
	db *sqlx.DB
}

// NewRoomRepository constructs a RoomRepository.
func NewRoomRepository(db *sqlx.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

type roomRow struct {
	models.HostelRoom
	AmenityList pq.StringArray `db:"amenities"`
}

// Create inserts a room and its occupants.
func (r *RoomRepository) Create(ctx context.Context, room *models.HostelRoom) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO hostel_rooms (id, room_number, capacity, occupied, type, floor, amenities)
         VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		room.ID, room.RoomNumber, room.Capacity, room.Occupied, room.Type, room.Floor, pq.Array(room.Amenities))
	if err != nil {
		return fmt.Errorf("insert room: %w", err)
	}
	for _, o := range room.Occupants {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO room_occupants (room_id, student_id, student_name) VALUES ($1, $2, $3)`,
			room.ID, o.StudentID, o.StudentName); err != nil {
			return fmt.Errorf("insert occupant: %w", err)
		}
	}
	return tx.Commit()
}

// List returns every room with its occupants.
func (r *RoomRepository) List(ctx context.Context) ([]models.HostelRoom, error) {
	var rows []roomRow
	query := `SELECT id, room_number, capacity, occupied, type, floor, amenities
        FROM hostel_rooms ORDER BY room_number ASC`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}

	rooms := make([]models.HostelRoom, len(rows))
	index := make(map[string]*models.HostelRoom, len(rows))
	for i, row := range rows {
		rooms[i] = row.HostelRoom
		rooms[i].Amenities = []string(row.AmenityList)
		index[rooms[i].ID] = &rooms[i]
	}

	type occupantRow struct {
		RoomID      string `db:"room_id"`
		StudentID   string `db:"student_id"`
		StudentName string `db:"student_name"`
	}
	var occupants []occupantRow
	if err := r.db.SelectContext(ctx, &occupants,
		`SELECT room_id, student_id, student_name FROM room_occupants ORDER BY id ASC`); err != nil {
		return nil, fmt.Errorf("list occupants: %w", err)
	}
	for _, o := range occupants {
		if room, ok := index[o.RoomID]; ok {
			room.Occupants = append(room.Occupants, models.RoomOccupant{StudentID: o.StudentID, StudentName: o.StudentName})
		}
	}
	return rooms, nil
}

// Find fetches a room with its occupants.
func (r *RoomRepository) Find(ctx context.Context, id string) (*models.HostelRoom, error) {
	return r.findWhere(ctx, "hr.id = $1", id)
}

// FindByOccupant fetches the room housing the given student.
func (r *RoomRepository) FindByOccupant(ctx context.Context, studentID string) (*models.HostelRoom, error) {
	room, err := r.findWhere(ctx,
		"hr.id = (SELECT room_id FROM room_occupants WHERE student_id = $1 LIMIT 1)", studentID)
	if err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) && appErr.Code == appErrors.ErrNotFound.Code {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no room allocation")
		}
		return nil, err
	}
	return room, nil
}

func (r *RoomRepository) findWhere(ctx context.Context, where string, arg interface{}) (*models.HostelRoom, error) {
	query := `SELECT hr.id, hr.room_number, hr.capacity, hr.occupied, hr.type, hr.floor, hr.amenities
        FROM hostel_rooms hr WHERE ` + where
	var row roomRow
	if err := r.db.GetContext(ctx, &row, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "room not found")
		}
		return nil, fmt.Errorf("find room: %w", err)
	}
	room := row.HostelRoom
	room.Amenities = []string(row.AmenityList)

	var occupants []models.RoomOccupant
	if err := r.db.SelectContext(ctx, &occupants,
		`SELECT student_id, student_name FROM room_occupants WHERE room_id = $1 ORDER BY id ASC`, room.ID); err != nil {
		return nil, fmt.Errorf("load occupants: %w", err)
	}
	room.Occupants = occupants
	return &room, nil
}

// AddOccupant appends the student and bumps the counter in one
// transaction, holding the room row lock for the duration.
func (r *RoomRepository) AddOccupant(ctx context.Context, roomID string, occupant models.RoomOccupant) (*models.HostelRoom, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var room struct {
		Capacity int `db:"capacity"`
		Occupied int `db:"occupied"`
	}
	err = tx.GetContext(ctx, &room,
		`SELECT capacity, occupied FROM hostel_rooms WHERE id = $1 FOR UPDATE`, roomID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "room not found")
		}
		return nil, fmt.Errorf("lock room: %w", err)
	}

	var listed int
	if err := tx.GetContext(ctx, &listed,
		`SELECT COUNT(*) FROM room_occupants WHERE room_id = $1`, roomID); err != nil {
		return nil, fmt.Errorf("count occupants: %w", err)
	}
	if listed != room.Occupied {
		return nil, appErrors.Clone(appErrors.ErrInvariant, "room occupancy counter out of sync")
	}
	if room.Occupied >= room.Capacity {
		return nil, appErrors.ErrRoomFull
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO room_occupants (room_id, student_id, student_name) VALUES ($1, $2, $3)`,
		roomID, occupant.StudentID, occupant.StudentName); err != nil {
		return nil, fmt.Errorf("insert occupant: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE hostel_rooms SET occupied = occupied + 1 WHERE id = $1`, roomID); err != nil {
		return nil, fmt.Errorf("bump occupancy: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return r.Find(ctx, roomID)
}

// RemoveOccupant drops the student and rederives the counter from the
// remaining rows. Removing an absent student is a no-op.
func (r *RoomRepository) RemoveOccupant(ctx context.Context, roomID, studentID string) (*models.HostelRoom, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.GetContext(ctx, &exists, `SELECT 1 FROM hostel_rooms WHERE id = $1 FOR UPDATE`, roomID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "room not found")
		}
		return nil, fmt.Errorf("lock room: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM room_occupants WHERE id = (
            SELECT id FROM room_occupants WHERE room_id = $1 AND student_id = $2 ORDER BY id ASC LIMIT 1
        )`, roomID, studentID); err != nil {
		return nil, fmt.Errorf("delete occupant: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE hostel_rooms SET occupied = (SELECT COUNT(*) FROM room_occupants WHERE room_id = $1)
         WHERE id = $1`, roomID); err != nil {
		return nil, fmt.Errorf("rederive occupancy: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return r.Find(ctx, roomID)
}
