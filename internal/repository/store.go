package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/campus-labs/college-erp-api/internal/models"
)

// Store bundles the per-entity repositories behind the method set the
// services consume, so Postgres can stand in wherever the in-memory
// store does.
type Store struct {
	admissions *AdmissionRepository
	fees       *FeeRepository
	rooms      *RoomRepository
	books      *BookRepository
	exams      *ExamRepository
	users      *UserRepository
}

// NewStore constructs a Store over one database handle.
func NewStore(db *sqlx.DB) *Store {
	return &Store{
		admissions: NewAdmissionRepository(db),
		fees:       NewFeeRepository(db),
		rooms:      NewRoomRepository(db),
		books:      NewBookRepository(db),
		exams:      NewExamRepository(db),
		users:      NewUserRepository(db),
	}
}

func (s *Store) CreateAdmission(ctx context.Context, a *models.Admission) error {
	return s.admissions.Create(ctx, a)
}

func (s *Store) ListAdmissions(ctx context.Context, filter models.AdmissionFilter) ([]models.Admission, error) {
	return s.admissions.List(ctx, filter)
}

func (s *Store) FindAdmission(ctx context.Context, id string) (*models.Admission, error) {
	return s.admissions.Find(ctx, id)
}

func (s *Store) FindAdmissionByStudent(ctx context.Context, studentID string) (*models.Admission, error) {
	return s.admissions.FindByStudent(ctx, studentID)
}

func (s *Store) UpdateAdmission(ctx context.Context, a *models.Admission) error {
	return s.admissions.Update(ctx, a)
}

func (s *Store) CreateFee(ctx context.Context, f *models.Fee) error {
	return s.fees.Create(ctx, f)
}

func (s *Store) ListFees(ctx context.Context) ([]models.Fee, error) {
	return s.fees.List(ctx)
}

func (s *Store) ListFeesByStudent(ctx context.Context, studentID string) ([]models.Fee, error) {
	return s.fees.ListByStudent(ctx, studentID)
}

func (s *Store) FindFee(ctx context.Context, id string) (*models.Fee, error) {
	return s.fees.Find(ctx, id)
}

func (s *Store) UpdateFee(ctx context.Context, f *models.Fee) error {
	return s.fees.Update(ctx, f)
}

func (s *Store) CreateRoom(ctx context.Context, room *models.HostelRoom) error {
	return s.rooms.Create(ctx, room)
}

func (s *Store) ListRooms(ctx context.Context) ([]models.HostelRoom, error) {
	return s.rooms.List(ctx)
}

func (s *Store) FindRoom(ctx context.Context, id string) (*models.HostelRoom, error) {
	return s.rooms.Find(ctx, id)
}

func (s *Store) FindRoomByOccupant(ctx context.Context, studentID string) (*models.HostelRoom, error) {
	return s.rooms.FindByOccupant(ctx, studentID)
}

func (s *Store) AddOccupant(ctx context.Context, roomID string, occupant models.RoomOccupant) (*models.HostelRoom, error) {
	return s.rooms.AddOccupant(ctx, roomID, occupant)
}

func (s *Store) RemoveOccupant(ctx context.Context, roomID, studentID string) (*models.HostelRoom, error) {
	return s.rooms.RemoveOccupant(ctx, roomID, studentID)
}

func (s *Store) CreateBook(ctx context.Context, b *models.LibraryBook) error {
	return s.books.Create(ctx, b)
}

func (s *Store) ListBooks(ctx context.Context) ([]models.LibraryBook, error) {
	return s.books.List(ctx)
}

func (s *Store) ListBooksIssuedTo(ctx context.Context, studentID string) ([]models.LibraryBook, error) {
	return s.books.ListIssuedTo(ctx, studentID)
}

func (s *Store) FindBook(ctx context.Context, id string) (*models.LibraryBook, error) {
	return s.books.Find(ctx, id)
}

func (s *Store) MarkBookIssued(ctx context.Context, bookID, studentID, studentName string, issuedAt, dueAt time.Time) (*models.LibraryBook, error) {
	return s.books.MarkIssued(ctx, bookID, studentID, studentName, issuedAt, dueAt)
}

func (s *Store) MarkBookReturned(ctx context.Context, bookID string) (*models.LibraryBook, error) {
	return s.books.MarkReturned(ctx, bookID)
}

func (s *Store) CreateSubject(ctx context.Context, subject *models.Subject) error {
	return s.exams.CreateSubject(ctx, subject)
}

func (s *Store) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	return s.exams.ListSubjects(ctx)
}

func (s *Store) FindSubject(ctx context.Context, id string) (*models.Subject, error) {
	return s.exams.FindSubject(ctx, id)
}

func (s *Store) CreateExam(ctx context.Context, e *models.Exam) error {
	return s.exams.CreateExam(ctx, e)
}

func (s *Store) ListExams(ctx context.Context) ([]models.Exam, error) {
	return s.exams.ListExams(ctx)
}

func (s *Store) FindExam(ctx context.Context, id string) (*models.Exam, error) {
	return s.exams.FindExam(ctx, id)
}

func (s *Store) SetExamStatus(ctx context.Context, id string, status models.ExamStatus) error {
	return s.exams.SetExamStatus(ctx, id, status)
}

func (s *Store) UpsertExamResult(ctx context.Context, r *models.ExamResult) error {
	return s.exams.UpsertExamResult(ctx, r)
}

func (s *Store) FindExamResult(ctx context.Context, studentID, examID string) (*models.ExamResult, error) {
	return s.exams.FindExamResult(ctx, studentID, examID)
}

func (s *Store) ListResultsByStudent(ctx context.Context, studentID string) ([]models.ExamResult, error) {
	return s.exams.ListResultsByStudent(ctx, studentID)
}

func (s *Store) ListResultsByExam(ctx context.Context, examID string) ([]models.ExamResult, error) {
	return s.exams.ListResultsByExam(ctx, examID)
}

func (s *Store) UpsertStudentGrade(ctx context.Context, g *models.StudentGrade) error {
	return s.exams.UpsertStudentGrade(ctx, g)
}

func (s *Store) FindStudentGrade(ctx context.Context, studentID string) (*models.StudentGrade, error) {
	return s.exams.FindStudentGrade(ctx, studentID)
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	return s.users.CreateUser(ctx, u)
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.users.FindUserByEmail(ctx, email)
}

func (s *Store) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.users.FindUserByID(ctx, id)
}

func (s *Store) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	return s.users.UpdateLastLogin(ctx, id, ts)
}

func (s *Store) CreateStudentProfile(ctx context.Context, p *models.StudentProfile) error {
	return s.users.CreateStudentProfile(ctx, p)
}

func (s *Store) ListStudentProfiles(ctx context.Context) ([]models.StudentProfile, error) {
	return s.users.ListStudentProfiles(ctx)
}

func (s *Store) FindStudentProfile(ctx context.Context, studentID string) (*models.StudentProfile, error) {
	return s.users.FindStudentProfile(ctx, studentID)
}

func (s *Store) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	return s.users.CreateRefreshToken(ctx, token)
}

func (s *Store) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	return s.users.FindRefreshToken(ctx, token)
}

func (s *Store) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	return s.users.RevokeRefreshToken(ctx, id, revokedAt)
}
