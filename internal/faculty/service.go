// ============================================================================
// internal/faculty/service.go
// Faculty record store over MongoDB
// ============================================================================

package faculty

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sudhee23/NPTEL-Management-Backend/internal/shared"
)

// ErrNotFound means no faculty record matches the requested name.
var ErrNotFound = errors.New("faculty not found")

// Service provides faculty record operations. Report queries filtered by
// faculty name resolve through these records to a branch and course list.
type Service struct {
	db           *mongo.Database
	facultiesCol *mongo.Collection
}

// NewService creates a new faculty Service instance
func NewService(db *mongo.Database) *Service {
	return &Service{
		db:           db,
		facultiesCol: db.Collection(shared.FacultiesCollection),
	}
}

// Create inserts a new faculty record.
func (s *Service) Create(ctx context.Context, f *shared.Faculty) error {
	if f.Name == "" {
		return fmt.Errorf("facultyName is required")
	}

	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	for i, c := range f.Courses {
		f.Courses[i] = strings.ToLower(c)
	}
	f.CreatedAt = time.Now()

	_, err := s.facultiesCol.InsertOne(queryCtx, f)
	if err != nil {
		return fmt.Errorf("failed to insert faculty: %w", err)
	}
	return nil
}

// List retrieves all faculty records, sorted by name.
func (s *Service) List(ctx context.Context) ([]shared.Faculty, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "facultyname", Value: 1}})
	cursor, err := s.facultiesCol.Find(queryCtx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(queryCtx)

	faculties := []shared.Faculty{}
	if err := cursor.All(queryCtx, &faculties); err != nil {
		return nil, err
	}
	return faculties, nil
}

// FindByName retrieves one faculty by name, case-insensitively. Report
// filters come from query parameters typed by humans, so exact case is not
// required.
func (s *Service) FindByName(ctx context.Context, name string) (*shared.Faculty, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{"facultyname": primitive.Regex{
		Pattern: "^" + regexp.QuoteMeta(name) + "$",
		Options: "i",
	}}

	var f shared.Faculty
	err := s.facultiesCol.FindOne(queryCtx, filter).Decode(&f)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}
