// Package store provides the in-memory implementation of the entity
// tables. It is the default backend and the one the test suites run
// against; the sqlx repositories in internal/repository implement the
// same interfaces for durable deployments.
package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/campus-labs/college-erp-api/internal/models"
	appErrors "github.com/campus-labs/college-erp-api/pkg/errors"
)

// MemoryStore holds every entity table behind one mutex. Slices keep
// seed/insertion order, which the aggregation views rely on for tie
// breaking.
type MemoryStore struct {
	mu sync.RWMutex

	admissions []models.Admission
	fees       []models.Fee
	rooms      []models.HostelRoom
	books      []models.LibraryBook
	subjects   []models.Subject
	exams      []models.Exam
	results    []models.ExamResult
	grades     map[string]models.StudentGrade

	profiles []models.StudentProfile
	users    []models.User
	tokens   map[string]models.RefreshToken
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		grades: make(map[string]models.StudentGrade),
		tokens: make(map[string]models.RefreshToken),
	}
}

// ---- admissions ----

func (s *MemoryStore) CreateAdmission(_ context.Context, a *models.Admission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.admissions = append(s.admissions, copyAdmission(*a))
	return nil
}

func (s *MemoryStore) ListAdmissions(_ context.Context, filter models.AdmissionFilter) ([]models.Admission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Admission, 0, len(s.admissions))
	for _, a := range s.admissions {
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		if filter.Course != "" && a.Course != filter.Course {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(a.StudentName), needle) &&
				!strings.Contains(strings.ToLower(a.Email), needle) {
				continue
			}
		}
		out = append(out, copyAdmission(a))
	}
	return out, nil
}

func (s *MemoryStore) FindAdmission(_ context.Context, id string) (*models.Admission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.admissions {
		if a.ID == id {
			c := copyAdmission(a)
			return &c, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "admission not found")
}

func (s *MemoryStore) FindAdmissionByStudent(_ context.Context, studentID string) (*models.Admission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.admissions {
		if a.StudentID == studentID {
			c := copyAdmission(a)
			return &c, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "admission not found")
}

func (s *MemoryStore) UpdateAdmission(_ context.Context, a *models.Admission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.admissions {
		if s.admissions[i].ID == a.ID {
			s.admissions[i] = copyAdmission(*a)
			return nil
		}
	}
	return appErrors.Clone(appErrors.ErrNotFound, "admission not found")
}

// ---- fees ----

func (s *MemoryStore) CreateFee(_ context.Context, f *models.Fee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fees = append(s.fees, copyFee(*f))
	return nil
}

func (s *MemoryStore) ListFees(_ context.Context) ([]models.Fee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Fee, len(s.fees))
	for i, f := range s.fees {
		out[i] = copyFee(f)
	}
	return out, nil
}

func (s *MemoryStore) ListFeesByStudent(_ context.Context, studentID string) ([]models.Fee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Fee
	for _, f := range s.fees {
		if f.StudentID == studentID {
			out = append(out, copyFee(f))
		}
	}
	return out, nil
}

func (s *MemoryStore) FindFee(_ context.Context, id string) (*models.Fee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, f := range s.fees {
		if f.ID == id {
			c := copyFee(f)
			return &c, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "fee not found")
}

func (s *MemoryStore) UpdateFee(_ context.Context, f *models.Fee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.fees {
		if s.fees[i].ID == f.ID {
			s.fees[i] = copyFee(*f)
			return nil
		}
	}
	return appErrors.Clone(appErrors.ErrNotFound, "fee not found")
}

// ---- hostel rooms ----

func (s *MemoryStore) CreateRoom(_ context.Context, r *models.HostelRoom) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms = append(s.rooms, copyRoom(*r))
	return nil
}

func (s *MemoryStore) ListRooms(_ context.Context) ([]models.HostelRoom, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.HostelRoom, len(s.rooms))
	for i, r := range s.rooms {
		out[i] = copyRoom(r)
	}
	return out, nil
}

func (s *MemoryStore) FindRoom(_ context.Context, id string) (*models.HostelRoom, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.rooms {
		if r.ID == id {
			c := copyRoom(r)
			return &c, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "room not found")
}

func (s *MemoryStore) FindRoomByOccupant(_ context.Context, studentID string) (*models.HostelRoom, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.rooms {
		if r.HasOccupant(studentID) {
			c := copyRoom(r)
			return &c, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "no room allocation")
}

// AddOccupant appends the student and bumps the counter atomically.
// A room whose counter disagrees with its occupant list is reported as
// an invariant violation, not silently patched.
func (s *MemoryStore) AddOccupant(_ context.Context, roomID string, occupant models.RoomOccupant) (*models.HostelRoom, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rooms {
		if s.rooms[i].ID != roomID {
			continue
		}
		if !s.rooms[i].Consistent() {
			return nil, appErrors.Clone(appErrors.ErrInvariant, "room occupancy counter out of sync")
		}
		if s.rooms[i].Occupied >= s.rooms[i].Capacity {
			return nil, appErrors.ErrRoomFull
		}
		s.rooms[i].Occupants = append(s.rooms[i].Occupants, occupant)
		s.rooms[i].Occupied = len(s.rooms[i].Occupants)
		c := copyRoom(s.rooms[i])
		return &c, nil
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "room not found")
}

// RemoveOccupant drops the first occurrence of the student and derives
// the counter from the remaining list. Removing an absent student is a
// no-op.
func (s *MemoryStore) RemoveOccupant(_ context.Context, roomID, studentID string) (*models.HostelRoom, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rooms {
		if s.rooms[i].ID != roomID {
			continue
		}
		if !s.rooms[i].Consistent() {
			return nil, appErrors.Clone(appErrors.ErrInvariant, "room occupancy counter out of sync")
		}
		for j, o := range s.rooms[i].Occupants {
			if o.StudentID == studentID {
				s.rooms[i].Occupants = append(s.rooms[i].Occupants[:j], s.rooms[i].Occupants[j+1:]...)
				break
			}
		}
		s.rooms[i].Occupied = len(s.rooms[i].Occupants)
		c := copyRoom(s.rooms[i])
		return &c, nil
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "room not found")
}

// ---- library books ----

func (s *MemoryStore) CreateBook(_ context.Context, b *models.LibraryBook) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.books = append(s.books, copyBook(*b))
	return nil
}

func (s *MemoryStore) ListBooks(_ context.Context) ([]models.LibraryBook, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.LibraryBook, len(s.books))
	for i, b := range s.books {
		out[i] = copyBook(b)
	}
	return out, nil
}

func (s *MemoryStore) ListBooksIssuedTo(_ context.Context, studentID string) ([]models.LibraryBook, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.LibraryBook
	for _, b := range s.books {
		if b.Status == models.BookIssued && b.IssuedToStudentID != nil && *b.IssuedToStudentID == studentID {
			out = append(out, copyBook(b))
		}
	}
	return out, nil
}

func (s *MemoryStore) FindBook(_ context.Context, id string) (*models.LibraryBook, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.books {
		if b.ID == id {
			c := copyBook(b)
			return &c, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "book not found")
}

// MarkBookIssued transitions an available book to issued, stamping the
// loan fields together so the issued-iff-loan-fields invariant holds.
func (s *MemoryStore) MarkBookIssued(_ context.Context, bookID, studentID, studentName string, issuedAt, dueAt time.Time) (*models.LibraryBook, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.books {
		if s.books[i].ID != bookID {
			continue
		}
		if s.books[i].Status != models.BookAvailable {
			return nil, appErrors.ErrNotAvailable
		}
		s.books[i].Status = models.BookIssued
		s.books[i].IssuedToStudentID = &studentID
		s.books[i].IssuedToName = &studentName
		s.books[i].IssuedDate = &issuedAt
		s.books[i].DueDate = &dueAt
		c := copyBook(s.books[i])
		return &c, nil
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "book not found")
}

// MarkBookReturned clears the loan fields regardless of prior state.
func (s *MemoryStore) MarkBookReturned(_ context.Context, bookID string) (*models.LibraryBook, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.books {
		if s.books[i].ID != bookID {
			continue
		}
		s.books[i].Status = models.BookAvailable
		s.books[i].IssuedToStudentID = nil
		s.books[i].IssuedToName = nil
		s.books[i].IssuedDate = nil
		s.books[i].DueDate = nil
		c := copyBook(s.books[i])
		return &c, nil
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "book not found")
}

// ---- subjects and exams ----

func (s *MemoryStore) CreateSubject(_ context.Context, sub *models.Subject) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subjects = append(s.subjects, *sub)
	return nil
}

func (s *MemoryStore) ListSubjects(_ context.Context) ([]models.Subject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Subject, len(s.subjects))
	copy(out, s.subjects)
	return out, nil
}

func (s *MemoryStore) FindSubject(_ context.Context, id string) (*models.Subject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sub := range s.subjects {
		if sub.ID == id {
			c := sub
			return &c, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
}

func (s *MemoryStore) CreateExam(_ context.Context, e *models.Exam) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exams = append(s.exams, *e)
	return nil
}

func (s *MemoryStore) ListExams(_ context.Context) ([]models.Exam, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Exam, len(s.exams))
	copy(out, s.exams)
	return out, nil
}

func (s *MemoryStore) FindExam(_ context.Context, id string) (*models.Exam, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.exams {
		if e.ID == id {
			c := e
			return &c, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "exam not found")
}

func (s *MemoryStore) SetExamStatus(_ context.Context, id string, status models.ExamStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.exams {
		if s.exams[i].ID == id {
			s.exams[i].Status = status
			return nil
		}
	}
	return appErrors.Clone(appErrors.ErrNotFound, "exam not found")
}

// UpsertExamResult overwrites any existing result for the same
// (student, exam) pair instead of appending a duplicate.
func (s *MemoryStore) UpsertExamResult(_ context.Context, r *models.ExamResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.results {
		if s.results[i].StudentID == r.StudentID && s.results[i].ExamID == r.ExamID {
			s.results[i] = *r
			return nil
		}
	}
	s.results = append(s.results, *r)
	return nil
}

func (s *MemoryStore) FindExamResult(_ context.Context, studentID, examID string) (*models.ExamResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.results {
		if r.StudentID == studentID && r.ExamID == examID {
			c := r
			return &c, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "exam result not found")
}

func (s *MemoryStore) ListResultsByStudent(_ context.Context, studentID string) ([]models.ExamResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.ExamResult
	for _, r := range s.results {
		if r.StudentID == studentID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *MemoryStore) ListResultsByExam(_ context.Context, examID string) ([]models.ExamResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.ExamResult
	for _, r := range s.results {
		if r.ExamID == examID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *MemoryStore) UpsertStudentGrade(_ context.Context, g *models.StudentGrade) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grades[g.StudentID] = copyGrade(*g)
	return nil
}

func (s *MemoryStore) FindStudentGrade(_ context.Context, studentID string) (*models.StudentGrade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if g, ok := s.grades[studentID]; ok {
		c := copyGrade(g)
		return &c, nil
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "academic record not found")
}

// ---- directory and users ----

func (s *MemoryStore) CreateStudentProfile(_ context.Context, p *models.StudentProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles = append(s.profiles, *p)
	return nil
}

func (s *MemoryStore) ListStudentProfiles(_ context.Context) ([]models.StudentProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.StudentProfile, len(s.profiles))
	copy(out, s.profiles)
	return out, nil
}

func (s *MemoryStore) FindStudentProfile(_ context.Context, studentID string) (*models.StudentProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.profiles {
		if p.StudentID == studentID {
			c := p
			return &c, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
}

func (s *MemoryStore) CreateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = append(s.users, copyUser(*u))
	return nil
}

func (s *MemoryStore) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			c := copyUser(u)
			return &c, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
}

func (s *MemoryStore) FindUserByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == id {
			c := copyUser(u)
			return &c, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
}

func (s *MemoryStore) UpdateLastLogin(_ context.Context, id string, ts time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == id {
			t := ts
			s.users[i].LastLogin = &t
			return nil
		}
	}
	return appErrors.Clone(appErrors.ErrNotFound, "user not found")
}

func (s *MemoryStore) CreateRefreshToken(_ context.Context, t *models.RefreshToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[t.Token] = *t
	return nil
}

func (s *MemoryStore) FindRefreshToken(_ context.Context, token string) (*models.RefreshToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if t, ok := s.tokens[token]; ok {
		c := t
		return &c, nil
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "refresh token not found")
}

func (s *MemoryStore) RevokeRefreshToken(_ context.Context, id string, revokedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, t := range s.tokens {
		if t.ID == id {
			t.Revoked = true
			ts := revokedAt
			t.RevokedAt = &ts
			s.tokens[token] = t
			return nil
		}
	}
	return appErrors.Clone(appErrors.ErrNotFound, "refresh token not found")
}

// ---- copy helpers (no aliasing of internal slices) ----

func copyAdmission(a models.Admission) models.Admission {
	a.Documents = append([]string(nil), a.Documents...)
	if a.ReviewDate != nil {
		d := *a.ReviewDate
		a.ReviewDate = &d
	}
	if a.ReviewRemarks != nil {
		r := *a.ReviewRemarks
		a.ReviewRemarks = &r
	}
	return a
}

func copyFee(f models.Fee) models.Fee {
	if f.PaidDate != nil {
		d := *f.PaidDate
		f.PaidDate = &d
	}
	if f.ReceiptNumber != nil {
		r := *f.ReceiptNumber
		f.ReceiptNumber = &r
	}
	return f
}

func copyRoom(r models.HostelRoom) models.HostelRoom {
	r.Occupants = append([]models.RoomOccupant(nil), r.Occupants...)
	r.Amenities = append([]string(nil), r.Amenities...)
	return r
}

func copyBook(b models.LibraryBook) models.LibraryBook {
	if b.IssuedToStudentID != nil {
		v := *b.IssuedToStudentID
		b.IssuedToStudentID = &v
	}
	if b.IssuedToName != nil {
		v := *b.IssuedToName
		b.IssuedToName = &v
	}
	if b.IssuedDate != nil {
		v := *b.IssuedDate
		b.IssuedDate = &v
	}
	if b.DueDate != nil {
		v := *b.DueDate
		b.DueDate = &v
	}
	return b
}

func copyGrade(g models.StudentGrade) models.StudentGrade {
	g.Marks = append([]models.ExamMark(nil), g.Marks...)
	return g
}

func copyUser(u models.User) models.User {
	if u.StudentID != nil {
		v := *u.StudentID
		u.StudentID = &v
	}
	if u.LastLogin != nil {
		v := *u.LastLogin
		u.LastLogin = &v
	}
	return u
}
