package model

import "time"

// Institution is the top level of the course hierarchy (a university).
type Institution struct {
	ID        int64     `json:"id"`
	ShortName string    `json:"short_name"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Centre is a faculty or school within an institution.
type Centre struct {
	ID            int64     `json:"id"`
	InstitutionID int64     `json:"institution_id"`
	ShortName     string    `json:"short_name"`
	FullName      string    `json:"full_name"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Degree is a study programme offered by a centre.
type Degree struct {
	ID        int64     `json:"id"`
	CentreID  int64     `json:"centre_id"`
	ShortName string    `json:"short_name"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Course is a taught subject within a degree, for one academic year.
type Course struct {
	ID        int64     `json:"id"`
	DegreeID  int64     `json:"degree_id"`
	ShortName string    `json:"short_name"`
	FullName  string    `json:"full_name"`
	Year      int       `json:"year"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CourseRole is a user's role inside one course.
type CourseRole string

const (
	CourseRoleTeacher CourseRole = "TEACHER"
	CourseRoleStudent CourseRole = "STUDENT"
)

// CourseUser links a user to a course with a per-course role.
type CourseUser struct {
	CourseID int64      `json:"course_id"`
	UserID   int64      `json:"user_id"`
	Role     CourseRole `json:"role"`
	JoinedAt time.Time  `json:"joined_at"`
}

// CourseMember enriches CourseUser with account details for listings.
type CourseMember struct {
	CourseUser
	Name  string `json:"name"`
	Email string `json:"email"`
}
