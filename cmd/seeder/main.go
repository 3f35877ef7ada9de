// Seeder inserts a small set of sample student and faculty records so the
// upload and report endpoints can be exercised against a fresh database.
package main

import (
	"context"
	"log"
	"time"

	"github.com/sudhee23/NPTEL-Management-Backend/internal/faculty"
	"github.com/sudhee23/NPTEL-Management-Backend/internal/shared"
	"github.com/sudhee23/NPTEL-Management-Backend/internal/student"
)

func main() {
	log.Println("INFO: Starting seeder...")

	// 1. Load Configuration and connect
	shared.LoadEnv("")
	config, err := shared.LoadServiceConfig("nptel-seeder")
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	mongoClient, db, err := shared.ConnectMongoDB(&config.MongoDB)
	if err != nil {
		log.Fatalf("FATAL: Failed to connect to MongoDB: %v", err)
	}
	defer shared.DisconnectMongoDB(mongoClient)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	studentService := student.NewService(db)
	facultyService := faculty.NewService(db)

	if err := studentService.EnsureIndexes(ctx); err != nil {
		log.Printf("Warning: failed to ensure indexes: %v", err)
	}

	// 2. Seed students
	students := []shared.Student{
		{
			RollNumber: "20CS001",
			Name:       "Asha Verma",
			Email:      "asha.verma@college.edu",
			Branch:     "CSE",
			Year:       "3",
			Courses: []shared.CourseEnrollment{
				{CourseID: "noc25-cs52", CourseName: "Deep Learning", Mentor: "Dr. Rao", Results: []shared.WeekResult{}},
			},
		},
		{
			RollNumber: "20CS002",
			Name:       "Rohit Iyer",
			Email:      "rohit.iyer@college.edu",
			Branch:     "CSE",
			Year:       "3",
			Courses:    []shared.CourseEnrollment{},
		},
		{
			RollNumber: "20CE010",
			Name:       "Meena Pillai",
			Email:      "meena.pillai@college.edu",
			Branch:     "CIVIL",
			Year:       "2",
			Courses: []shared.CourseEnrollment{
				{CourseID: "noc25-ce38", CourseName: "Structural Analysis", Mentor: "Dr. Nair", Results: []shared.WeekResult{}},
			},
		},
	}

	seeded := 0
	for i := range students {
		if err := studentService.Create(ctx, &students[i]); err != nil {
			log.Printf("Warning: skipping student %s: %v", students[i].RollNumber, err)
			continue
		}
		seeded++
	}
	log.Printf("INFO: Seeded %d/%d students", seeded, len(students))

	// 3. Seed faculty
	faculties := []shared.Faculty{
		{Name: "Dr. Rao", Email: "rao@college.edu", Branch: "CSE", Courses: []string{"noc25-cs52"}},
		{Name: "Dr. Nair", Email: "nair@college.edu", Branch: "CIVIL", Courses: []string{"noc25-ce38"}},
	}

	for i := range faculties {
		if err := facultyService.Create(ctx, &faculties[i]); err != nil {
			log.Printf("Warning: skipping faculty %s: %v", faculties[i].Name, err)
			continue
		}
	}
	log.Printf("INFO: Seeded %d faculty records", len(faculties))

	log.Println("INFO: Seeder finished.")
}
