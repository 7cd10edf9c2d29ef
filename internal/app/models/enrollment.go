package models

import "time"

// Enrollment is a student's program registration, owned by exactly one user.
// JSON tags are snake_case because the browser client reads and writes records in that shape.
type Enrollment struct {
	ID           int64     `json:"id" db:"id" example:"12"`
	EnrollmentID string    `json:"enrollment_id" db:"enrollment_id" example:"ENR-MBA-20261018-7K2Q"`
	StudentName  string    `json:"student_name" db:"student_name" example:"Rahul Mehta"`
	DOB          time.Time `json:"dob" db:"dob" example:"2004-05-21T00:00:00Z"`
	Gender       string    `json:"gender" db:"gender" example:"Male"`
	Course       string    `json:"course" db:"course" example:"MBA"`
	Semester     int       `json:"semester" db:"semester" example:"2"`
	Email        string    `json:"email" db:"email" example:"rahul@example.com"`
	Mobile       string    `json:"mobile" db:"mobile" example:"9876543210"`
	Address      string    `json:"address" db:"address" example:"12 MG Road, Pune"`
	Percentage   float64   `json:"percentage" db:"percentage" example:"78.5"`
	UserID       int64     `json:"user_id" db:"user_id" example:"1"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// EnrollmentFilter narrows an owner's enrollment list by exact match
type EnrollmentFilter struct {
	Course   string
	Semester *int
}
