package store

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/campus-labs/college-erp-api/internal/models"
)

const seedPassword = "password123"

// Seed loads the demo dataset used when the memory driver runs without a
// database. Every account authenticates with the shared demo password.
func Seed(ctx context.Context, s *MemoryStore) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	pwd := string(hash)
	now := time.Now().UTC()

	type student struct {
		userID    string
		studentID string
		name      string
		email     string
		course    string
	}
	students := []student{
		{"2", "CS2024001", "Itadori Yuji", "yuji.itadori@student.college.edu", "CSE"},
		{"3", "EC2024002", "Nobara Kugisaki", "nobara.kugisaki@student.college.edu", "ECE"},
		{"4", "CS2024003", "Megumi Fushiguro", "megumi.fushiguro@student.college.edu", "CSE"},
		{"5", "CS2024004", "Gojo Satoru", "gojo.satoru@student.college.edu", "CSE"},
		{"6", "EC2024005", "Sukuna Ryomen", "sukuna.ryomen@student.college.edu", "ECE"},
		{"7", "ME2024006", "Maki Zenin", "maki.zenin@student.college.edu", "ME"},
		{"8", "CS2024007", "Toge Inumaki", "toge.inumaki@student.college.edu", "CSE"},
		{"9", "EC2024008", "Panda", "panda@student.college.edu", "ECE"},
	}

	admin := models.User{
		ID: "1", Email: "admin@college.edu", PasswordHash: pwd,
		FullName: "Gojo Sensei", Role: models.RoleAdmin, Active: true,
		CreatedAt: now, UpdatedAt: now,
	}
	if err := s.CreateUser(ctx, &admin); err != nil {
		return err
	}
	for _, st := range students {
		sid := st.studentID
		u := models.User{
			ID: st.userID, Email: st.email, PasswordHash: pwd,
			FullName: st.name, Role: models.RoleStudent, StudentID: &sid,
			Active: true, CreatedAt: now, UpdatedAt: now,
		}
		if err := s.CreateUser(ctx, &u); err != nil {
			return err
		}
		p := models.StudentProfile{
			StudentID: st.studentID, FullName: st.name, Email: st.email,
			Course: st.course, Year: 2, CurrentSemester: 3,
		}
		if err := s.CreateStudentProfile(ctx, &p); err != nil {
			return err
		}
	}

	review := day(2024, 2, 1)
	approvedRemark := "All documents verified"
	rejectedRemark := "Incomplete documentation"
	admissions := []models.Admission{
		{ID: "1", StudentID: "CS2024001", StudentName: "Itadori Yuji", Email: "yuji.itadori@student.college.edu", Phone: "+911234567001", Course: "CSE", Status: models.AdmissionApproved, ApplicationDate: day(2024, 1, 10), Documents: []string{"10th Certificate", "12th Certificate", "Transfer Certificate"}, FeesPaid: true, ReviewDate: &review, ReviewRemarks: &approvedRemark},
		{ID: "2", StudentID: "EC2024002", StudentName: "Nobara Kugisaki", Email: "nobara.kugisaki@student.college.edu", Phone: "+911234567002", Course: "ECE", Status: models.AdmissionApproved, ApplicationDate: day(2024, 1, 11), Documents: []string{"10th Certificate", "12th Certificate", "Transfer Certificate"}, FeesPaid: true, ReviewDate: &review, ReviewRemarks: &approvedRemark},
		{ID: "3", StudentID: "CS2024003", StudentName: "Megumi Fushiguro", Email: "megumi.fushiguro@student.college.edu", Phone: "+911234567003", Course: "CSE", Status: models.AdmissionApproved, ApplicationDate: day(2024, 1, 12), Documents: []string{"10th Certificate", "12th Certificate", "Transfer Certificate", "Medical Certificate"}, FeesPaid: true, ReviewDate: &review, ReviewRemarks: &approvedRemark},
		{ID: "4", StudentID: "CS2024004", StudentName: "Gojo Satoru", Email: "gojo.satoru@student.college.edu", Phone: "+911234567004", Course: "CSE", Status: models.AdmissionApproved, ApplicationDate: day(2024, 1, 12), Documents: []string{"10th Certificate", "12th Certificate"}, FeesPaid: true, ReviewDate: &review, ReviewRemarks: &approvedRemark},
		{ID: "5", StudentID: "EC2024005", StudentName: "Sukuna Ryomen", Email: "sukuna.ryomen@student.college.edu", Phone: "+911234567005", Course: "ECE", Status: models.AdmissionPending, ApplicationDate: day(2024, 1, 15), Documents: []string{"10th Certificate", "12th Certificate"}, FeesPaid: false},
		{ID: "6", StudentID: "ME2024006", StudentName: "Maki Zenin", Email: "maki.zenin@student.college.edu", Phone: "+911234567006", Course: "ME", Status: models.AdmissionApproved, ApplicationDate: day(2024, 1, 16), Documents: []string{"10th Certificate", "12th Certificate", "Transfer Certificate"}, FeesPaid: true, ReviewDate: &review, ReviewRemarks: &approvedRemark},
		{ID: "7", StudentID: "CS2024007", StudentName: "Toge Inumaki", Email: "toge.inumaki@student.college.edu", Phone: "+911234567007", Course: "CSE", Status: models.AdmissionUnderReview, ApplicationDate: day(2024, 1, 20), Documents: []string{"10th Certificate", "12th Certificate"}, FeesPaid: false},
		{ID: "8", StudentID: "EC2024008", StudentName: "Panda", Email: "panda@student.college.edu", Phone: "+911234567008", Course: "ECE", Status: models.AdmissionRejected, ApplicationDate: day(2024, 1, 20), Documents: []string{"10th Certificate"}, FeesPaid: false, ReviewDate: &review, ReviewRemarks: &rejectedRemark},
	}
	for i := range admissions {
		if err := s.CreateAdmission(ctx, &admissions[i]); err != nil {
			return err
		}
	}

	paid1 := day(2024, 1, 25)
	rcp1 := "RCP-2024-001"
	fees := []models.Fee{
		{ID: "1", StudentID: "CS2024001", StudentName: "Itadori Yuji", Amount: 50000, Type: models.FeeTuition, Status: models.FeePaid, DueDate: day(2024, 1, 31), PaidDate: &paid1, ReceiptNumber: &rcp1},
		{ID: "2", StudentID: "EC2024002", StudentName: "Nobara Kugisaki", Amount: 15000, Type: models.FeeHostel, Status: models.FeePending, DueDate: day(2024, 2, 15)},
		{ID: "3", StudentID: "CS2024001", StudentName: "Itadori Yuji", Amount: 2000, Type: models.FeeLibrary, Status: models.FeeOverdue, DueDate: day(2024, 1, 15)},
		{ID: "4", StudentID: "CS2024003", StudentName: "Megumi Fushiguro", Amount: 50000, Type: models.FeeTuition, Status: models.FeePending, DueDate: day(2024, 2, 28)},
		{ID: "5", StudentID: "CS2024004", StudentName: "Gojo Satoru", Amount: 1500, Type: models.FeeExam, Status: models.FeePending, DueDate: day(2024, 3, 10)},
	}
	for i := range fees {
		if err := s.CreateFee(ctx, &fees[i]); err != nil {
			return err
		}
	}

	rooms := []models.HostelRoom{
		{ID: "1", RoomNumber: "101", Capacity: 2, Occupied: 2, Occupants: []models.RoomOccupant{{StudentID: "CS2024001", StudentName: "Itadori Yuji"}, {StudentID: "CS2024003", StudentName: "Megumi Fushiguro"}}, Type: models.RoomDouble, Floor: 1, Amenities: []string{"WiFi", "AC", "Study Table", "Wardrobe"}},
		{ID: "2", RoomNumber: "102", Capacity: 2, Occupied: 1, Occupants: []models.RoomOccupant{{StudentID: "EC2024002", StudentName: "Nobara Kugisaki"}}, Type: models.RoomDouble, Floor: 1, Amenities: []string{"WiFi", "AC", "Study Table", "Wardrobe"}},
		{ID: "3", RoomNumber: "201", Capacity: 3, Occupied: 0, Occupants: nil, Type: models.RoomTriple, Floor: 2, Amenities: []string{"WiFi", "Fan", "Study Table", "Wardrobe"}},
	}
	for i := range rooms {
		if err := s.CreateRoom(ctx, &rooms[i]); err != nil {
			return err
		}
	}

	issuedTo := "CS2024001"
	issuedName := "Itadori Yuji"
	issuedAt := day(2024, 1, 20)
	dueAt := day(2024, 2, 20)
	books := []models.LibraryBook{
		{ID: "1", Title: "Introduction to Algorithms", Author: "Thomas H. Cormen", ISBN: "978-0262033848", Category: "Computer Science", Status: models.BookIssued, IssuedToStudentID: &issuedTo, IssuedToName: &issuedName, IssuedDate: &issuedAt, DueDate: &dueAt},
		{ID: "2", Title: "Digital Electronics", Author: "R.P. Jain", ISBN: "978-0070144735", Category: "Electronics", Status: models.BookAvailable},
		{ID: "3", Title: "Mechanical Engineering Design", Author: "Joseph Shigley", ISBN: "978-0073398204", Category: "Mechanical", Status: models.BookReserved},
		{ID: "4", Title: "Database System Concepts", Author: "Abraham Silberschatz", ISBN: "978-0078022159", Category: "Computer Science", Status: models.BookAvailable},
	}
	for i := range books {
		if err := s.CreateBook(ctx, &books[i]); err != nil {
			return err
		}
	}

	subjects := []models.Subject{
		{ID: "1", Name: "Data Structures", Code: "CS201", Credits: 4, Semester: 3, Instructor: "Dr. Yaga"},
		{ID: "2", Name: "Database Management Systems", Code: "CS202", Credits: 4, Semester: 3, Instructor: "Dr. Ieiri"},
		{ID: "3", Name: "Digital Electronics", Code: "EC201", Credits: 3, Semester: 3, Instructor: "Prof. Nanami"},
		{ID: "4", Name: "Engineering Mathematics III", Code: "MA201", Credits: 3, Semester: 3, Instructor: "Dr. Kusakabe"},
	}
	for i := range subjects {
		if err := s.CreateSubject(ctx, &subjects[i]); err != nil {
			return err
		}
	}

	exams := []models.Exam{
		{ID: "1", SubjectID: "1", SubjectName: "Data Structures", SubjectCode: "CS201", Type: models.ExamMidterm, Date: day(2024, 2, 10), DurationMinutes: 120, MaxMarks: 100, Status: models.ExamGraded, Semester: 3},
		{ID: "2", SubjectID: "2", SubjectName: "Database Management Systems", SubjectCode: "CS202", Type: models.ExamMidterm, Date: day(2024, 2, 12), DurationMinutes: 120, MaxMarks: 100, Status: models.ExamCompleted, Semester: 3},
		{ID: "3", SubjectID: "1", SubjectName: "Data Structures", SubjectCode: "CS201", Type: models.ExamFinal, Date: day(2024, 5, 20), DurationMinutes: 180, MaxMarks: 100, Status: models.ExamScheduled, Semester: 3},
		{ID: "4", SubjectID: "4", SubjectName: "Engineering Mathematics III", SubjectCode: "MA201", Type: models.ExamAssignment, Date: day(2024, 3, 1), DurationMinutes: 0, MaxMarks: 50, Status: models.ExamScheduled, Semester: 3},
	}
	for i := range exams {
		if err := s.CreateExam(ctx, &exams[i]); err != nil {
			return err
		}
	}

	results := []models.ExamResult{
		{StudentID: "CS2024001", ExamID: "1", ObtainedMarks: 85, Grade: "A", RecordedAt: day(2024, 2, 15)},
		{StudentID: "CS2024003", ExamID: "1", ObtainedMarks: 92, Grade: "A+", RecordedAt: day(2024, 2, 15)},
		{StudentID: "CS2024004", ExamID: "1", ObtainedMarks: 78, Grade: "B+", RecordedAt: day(2024, 2, 15)},
	}
	for i := range results {
		if err := s.UpsertExamResult(ctx, &results[i]); err != nil {
			return err
		}
	}

	grades := []models.StudentGrade{
		{StudentID: "CS2024001", CGPA: 9.0, Percentage: 85, CurrentSemester: 3, Course: "CSE", Year: 2, Marks: []models.ExamMark{{ExamID: "1", SubjectName: "Data Structures", Type: models.ExamMidterm, ObtainedMarks: 85, MaxMarks: 100, Grade: "A"}}, UpdatedAt: day(2024, 2, 15)},
		{StudentID: "CS2024003", CGPA: 10.0, Percentage: 92, CurrentSemester: 3, Course: "CSE", Year: 2, Marks: []models.ExamMark{{ExamID: "1", SubjectName: "Data Structures", Type: models.ExamMidterm, ObtainedMarks: 92, MaxMarks: 100, Grade: "A+"}}, UpdatedAt: day(2024, 2, 15)},
		{StudentID: "CS2024004", CGPA: 8.0, Percentage: 78, CurrentSemester: 3, Course: "CSE", Year: 2, Marks: []models.ExamMark{{ExamID: "1", SubjectName: "Data Structures", Type: models.ExamMidterm, ObtainedMarks: 78, MaxMarks: 100, Grade: "B+"}}, UpdatedAt: day(2024, 2, 15)},
	}
	for i := range grades {
		if err := s.UpsertStudentGrade(ctx, &grades[i]); err != nil {
			return err
		}
	}

	return nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
