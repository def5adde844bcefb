package models

// RoomType is the sharing class of a hostel room.
type RoomType string

const (
	RoomSingle RoomType = "single"
	RoomDouble RoomType = "double"
	RoomTriple RoomType = "triple"
)

// RoomOccupant identifies a student housed in a room. StudentName is a
// display cache; StudentID is the join key.
type RoomOccupant struct {
	StudentID   string `db:"student_id" json:"student_id"`
	StudentName string `db:"student_name" json:"student_name"`
}

// HostelRoom is a hostel room with its occupancy state.
// Invariant: Occupied == len(Occupants) and 0 <= Occupied <= Capacity;
// both fields are written atomically by the store only.
type HostelRoom struct {
	ID         string         `db:"id" json:"id"`
	RoomNumber string         `db:"room_number" json:"room_number"`
	Capacity   int            `db:"capacity" json:"capacity"`
	Occupied   int            `db:"occupied" json:"occupied"`
	Occupants  []RoomOccupant `db:"-" json:"occupants"`
	Type       RoomType       `db:"type" json:"type"`
	Floor      int            `db:"floor" json:"floor"`
	Amenities  []string       `db:"-" json:"amenities"`
}

// Consistent reports whether the occupancy counter agrees with the
// occupant list and capacity bounds.
func (r *HostelRoom) Consistent() bool {
	return r.Occupied == len(r.Occupants) && r.Occupied >= 0 && r.Occupied <= r.Capacity
}

// HasOccupant reports whether the student is housed in this room.
func (r *HostelRoom) HasOccupant(studentID string) bool {
	for _, o := range r.Occupants {
		if o.StudentID == studentID {
			return true
		}
	}
	return false
}
