package dto

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yigit/enrollportal/internal/app/models"
)

// FlexibleNumber holds a numeric form field that may arrive as a JSON number or a string.
// Browser forms post "4" where an API client posts 4; both decode to "4" and validation parses it later.
type FlexibleNumber string

// UnmarshalJSON implements json.Unmarshaler
func (n *FlexibleNumber) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	switch {
	case raw == "null":
		*n = ""
	case strings.HasPrefix(raw, `"`):
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = FlexibleNumber(strings.TrimSpace(s))
	default:
		var num json.Number
		if err := json.Unmarshal(b, &num); err != nil {
			return fmt.Errorf("expected a number: %w", err)
		}
		*n = FlexibleNumber(num.String())
	}
	return nil
}

// EnrollmentFields is the fixed set of writable enrollment attributes, as submitted
type EnrollmentFields struct {
	StudentName string
	DOB         string
	Gender      string
	Course      string
	Semester    string
	Email       string
	Mobile      string
	Address     string
	Percentage  string
}

// CreateEnrollmentRequest is the body of POST /api/enrollments
type CreateEnrollmentRequest struct {
	StudentName string         `json:"studentName" example:"Rahul Mehta"`
	DOB         string         `json:"dob" example:"2004-05-21"`
	Gender      string         `json:"gender" example:"Male"`
	Course      string         `json:"course" example:"MBA"`
	Semester    FlexibleNumber `json:"semester" swaggertype:"integer" example:"2"`
	Email       string         `json:"email" example:"rahul@example.com"`
	Mobile      string         `json:"mobile" example:"9876543210"`
	Address     string         `json:"address" example:"12 MG Road, Pune"`
	Percentage  FlexibleNumber `json:"percentage" swaggertype:"number" example:"78.5"`
}

// Fields converts the request into the typed field set
func (r *CreateEnrollmentRequest) Fields() EnrollmentFields {
	return EnrollmentFields{
		StudentName: r.StudentName,
		DOB:         r.DOB,
		Gender:      r.Gender,
		Course:      r.Course,
		Semester:    string(r.Semester),
		Email:       r.Email,
		Mobile:      r.Mobile,
		Address:     r.Address,
		Percentage:  string(r.Percentage),
	}
}

// UpdateEnrollmentRequest is the body of PUT /api/students/:id, the record shape returned by GET.
// Server-owned columns (id, enrollment_id, user_id, timestamps) are ignored if present.
type UpdateEnrollmentRequest struct {
	StudentName string         `json:"student_name" example:"Rahul Mehta"`
	DOB         string         `json:"dob" example:"2004-05-21"`
	Gender      string         `json:"gender" example:"Male"`
	Course      string         `json:"course" example:"MBA"`
	Semester    FlexibleNumber `json:"semester" swaggertype:"integer" example:"3"`
	Email       string         `json:"email" example:"rahul@example.com"`
	Mobile      string         `json:"mobile" example:"9876543210"`
	Address     string         `json:"address" example:"12 MG Road, Pune"`
	Percentage  FlexibleNumber `json:"percentage" swaggertype:"number" example:"81"`
}

// Fields converts the request into the typed field set
func (r *UpdateEnrollmentRequest) Fields() EnrollmentFields {
	return EnrollmentFields{
		StudentName: r.StudentName,
		DOB:         r.DOB,
		Gender:      r.Gender,
		Course:      r.Course,
		Semester:    string(r.Semester),
		Email:       r.Email,
		Mobile:      r.Mobile,
		Address:     r.Address,
		Percentage:  string(r.Percentage),
	}
}

// EnrollmentCreated is the summary returned after a successful enrollment
type EnrollmentCreated struct {
	ID           int64  `json:"id" example:"12"`
	EnrollmentID string `json:"enrollmentId" example:"ENR-MBA-20261018-7K2Q"`
	StudentName  string `json:"studentName" example:"Rahul Mehta"`
	Course       string `json:"course" example:"MBA"`
	Semester     int    `json:"semester" example:"2"`
}

// NewEnrollmentCreated builds the creation summary from a stored record
func NewEnrollmentCreated(e *models.Enrollment) *EnrollmentCreated {
	return &EnrollmentCreated{
		ID:           e.ID,
		EnrollmentID: e.EnrollmentID,
		StudentName:  e.StudentName,
		Course:       e.Course,
		Semester:     e.Semester,
	}
}

// CreateEnrollmentResponse wraps the creation summary
type CreateEnrollmentResponse struct {
	Success    bool               `json:"success" example:"true"`
	Message    string             `json:"message" example:"Enrollment successful"`
	Enrollment *EnrollmentCreated `json:"enrollment"`
}

// StudentListResponse wraps an owner's enrollment list
type StudentListResponse struct {
	Success  bool                `json:"success" example:"true"`
	Students []models.Enrollment `json:"students"`
}

// StudentResponse wraps a single enrollment record
type StudentResponse struct {
	Success bool               `json:"success" example:"true"`
	Student *models.Enrollment `json:"student"`
}
