// ============================================================================
// internal/student/service.go
// Student record store over MongoDB
// ============================================================================

package student

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sudhee23/NPTEL-Management-Backend/internal/ingest"
	"github.com/sudhee23/NPTEL-Management-Backend/internal/shared"
)

var (
	// ErrNotFound means no student matches the requested key.
	ErrNotFound = errors.New("student not found")

	// ErrDuplicate means a record with the same roll number already exists.
	ErrDuplicate = errors.New("student with this roll number already exists")

	// ErrCourseExists means the student already has an enrollment with the
	// same course ID (case-insensitively).
	ErrCourseExists = errors.New("student already enrolled in this course")
)

// Service provides student record operations. It implements the
// ingest.Store contract (FindByIdentity + SaveCourses) used by the
// bulk-ingestion pipeline.
type Service struct {
	db          *mongo.Database
	studentsCol *mongo.Collection
}

// NewService creates a new student Service instance
func NewService(db *mongo.Database) *Service {
	return &Service{
		db:          db,
		studentsCol: db.Collection(shared.StudentsCollection),
	}
}

// EnsureIndexes creates the indexes the matching cascade relies on.
func (s *Service) EnsureIndexes(ctx context.Context) error {
	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := s.studentsCol.Indexes().CreateMany(queryCtx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "rollnumber", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "email", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "courses.courseid", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create student indexes: %w", err)
	}
	return nil
}

// ============================================================================
// Ingestion Store Contract
// ============================================================================

// FindByIdentity resolves a row identity against stored records using the
// requested match mode. A nil student with a nil error means no record
// matched; the ingest cascade decides whether to try a looser mode.
func (s *Service) FindByIdentity(ctx context.Context, id ingest.Identity, mode ingest.MatchMode) (*shared.Student, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := identityFilter(id, mode)
	if filter == nil {
		return nil, nil
	}

	var student shared.Student
	err := s.studentsCol.FindOne(queryCtx, filter).Decode(&student)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		log.Printf("Error finding student by identity %s: %v", id, err)
		return nil, err
	}

	return &student, nil
}

// identityFilter builds the bson filter for one cascade step. Returns nil
// when the identity carries nothing usable for that mode.
func identityFilter(id ingest.Identity, mode ingest.MatchMode) bson.M {
	var or []bson.M

	switch mode {
	case ingest.MatchExact:
		if id.Email != "" {
			or = append(or, bson.M{"email": id.Email})
		}
		if id.RollNumber != "" {
			or = append(or, bson.M{"rollnumber": id.RollNumber})
		}

	case ingest.MatchFold:
		if id.Email != "" {
			or = append(or, bson.M{"email": anchoredFold(id.Email)})
		}
		if id.RollNumber != "" {
			or = append(or, bson.M{"rollnumber": anchoredFold(id.RollNumber)})
		}

	case ingest.MatchEmailPrefix:
		local := id.EmailLocalPart()
		if local == "" {
			return nil
		}
		or = append(or, bson.M{"email": primitive.Regex{
			Pattern: "^" + regexp.QuoteMeta(local),
			Options: "i",
		}})
	}

	if len(or) == 0 {
		return nil
	}
	return bson.M{"$or": or}
}

// anchoredFold is a whole-string, case-insensitive equality expressed as a
// regex filter.
func anchoredFold(value string) primitive.Regex {
	return primitive.Regex{
		Pattern: "^" + regexp.QuoteMeta(value) + "$",
		Options: "i",
	}
}

// SaveCourses replaces a student's whole course list in a single document
// update. This is the one write the merge path relies on; per-document
// atomicity is the only guarantee assumed.
func (s *Service) SaveCourses(ctx context.Context, rollNumber string, courses []shared.CourseEnrollment) error {
	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	result, err := s.studentsCol.UpdateOne(queryCtx,
		bson.M{"rollnumber": rollNumber},
		bson.M{"$set": bson.M{
			"courses":    courses,
			"updated_at": time.Now(),
		}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ============================================================================
// Record CRUD
// ============================================================================

// Create inserts a new student record.
func (s *Service) Create(ctx context.Context, student *shared.Student) error {
	if student.RollNumber == "" || student.Name == "" || student.Email == "" {
		return fmt.Errorf("rollNumber, name and email are required")
	}

	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if student.Courses == nil {
		student.Courses = []shared.CourseEnrollment{}
	}
	student.CreatedAt = time.Now()

	_, err := s.studentsCol.InsertOne(queryCtx, student)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert student: %w", err)
	}
	return nil
}

// Get retrieves one student by roll number.
func (s *Service) Get(ctx context.Context, rollNumber string) (*shared.Student, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var student shared.Student
	err := s.studentsCol.FindOne(queryCtx, bson.M{"rollnumber": rollNumber}).Decode(&student)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &student, nil
}

// List retrieves all students, sorted by roll number.
func (s *Service) List(ctx context.Context) ([]shared.Student, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "rollnumber", Value: 1}})
	cursor, err := s.studentsCol.Find(queryCtx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(queryCtx)

	students := []shared.Student{}
	if err := cursor.All(queryCtx, &students); err != nil {
		return nil, err
	}
	return students, nil
}

// ListByCourse retrieves students enrolled in a course, with optional year
// and branch filters. Course matching is case-insensitive like everywhere
// else course IDs are compared.
func (s *Service) ListByCourse(ctx context.Context, courseID, year, branch string) ([]shared.Student, error) {
	if courseID == "" {
		return nil, fmt.Errorf("courseId is required")
	}

	queryCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	filter := bson.M{"courses.courseid": anchoredFold(courseID)}
	if year != "" {
		filter["year"] = year
	}
	if branch != "" {
		filter["branch"] = anchoredFold(branch)
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "rollnumber", Value: 1}})
	cursor, err := s.studentsCol.Find(queryCtx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(queryCtx)

	students := []shared.Student{}
	if err := cursor.All(queryCtx, &students); err != nil {
		return nil, err
	}
	return students, nil
}

// AddCourse appends an enrollment through the student API. Unlike
// bulk-created enrollments this path requires a course name, and rejects a
// duplicate course ID for the same student.
func (s *Service) AddCourse(ctx context.Context, rollNumber string, enrollment shared.CourseEnrollment) error {
	if enrollment.CourseID == "" || enrollment.CourseName == "" {
		return fmt.Errorf("courseId and courseName are required")
	}

	student, err := s.Get(ctx, rollNumber)
	if err != nil {
		return err
	}
	if student.HasCourse(enrollment.CourseID) {
		return ErrCourseExists
	}

	enrollment.CourseID = strings.ToLower(enrollment.CourseID)
	if enrollment.Results == nil {
		enrollment.Results = []shared.WeekResult{}
	}

	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err = s.studentsCol.UpdateOne(queryCtx,
		bson.M{"rollnumber": rollNumber},
		bson.M{
			"$push": bson.M{"courses": enrollment},
			"$set":  bson.M{"updated_at": time.Now()},
		},
	)
	return err
}

// ============================================================================
// Bulk Administrative Operations
// ============================================================================

// DeleteAll removes every student record.
func (s *Service) DeleteAll(ctx context.Context) (int64, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	result, err := s.studentsCol.DeleteMany(queryCtx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to delete students: %w", err)
	}

	log.Printf("Deleted %d student records", result.DeletedCount)
	return result.DeletedCount, nil
}

// ResetAllResults clears every result list on every enrollment while keeping
// the enrollments themselves.
func (s *Service) ResetAllResults(ctx context.Context) (int64, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	result, err := s.studentsCol.UpdateMany(queryCtx,
		bson.M{},
		bson.M{"$set": bson.M{
			"courses.$[].results": []shared.WeekResult{},
			"updated_at":          time.Now(),
		}},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to reset course results: %w", err)
	}

	log.Printf("Reset course results on %d student records", result.ModifiedCount)
	return result.ModifiedCount, nil
}
