package dto

import (
	"strings"
	"time"

	"github.com/yigit/campusrecords/internal/app/models"
	"github.com/yigit/campusrecords/internal/pkg/apperrors"
)

var dateLayouts = []string{"2006-01-02", time.RFC3339}

// parseDate accepts a calendar date or an RFC 3339 timestamp. Empty means unset.
func parseDate(field, value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, apperrors.NewValidationError(field+" must be a date (YYYY-MM-DD)", field)
}

// AddressRequest is the address part of a student body
type AddressRequest struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country" example:"Philippines"`
}

// toModel returns nil unless a location field is present; country defaults to Philippines
func (r *AddressRequest) toModel() *models.Address {
	if r == nil {
		return nil
	}
	a := &models.Address{
		Street:     r.Street,
		City:       r.City,
		Province:   r.Province,
		PostalCode: r.PostalCode,
		Country:    r.Country,
	}
	if a.IsEmpty() {
		return nil
	}
	if a.Country == "" {
		a.Country = models.DefaultCountry
	}
	return a
}

// CreateStudentRequest is the body of POST /api/students
type CreateStudentRequest struct {
	Name                 string          `json:"name" example:"Juan Dela Cruz"`
	StudID               string          `json:"stud_id" example:"2024-00123"`
	Email                string          `json:"email" example:"juan@school.edu.ph"`
	Course               string          `json:"course" example:"CICT"`
	YearLevel            string          `json:"year_level" example:"1st Year"`
	Section              string          `json:"section" example:"A"`
	EnrollmentStatus     string          `json:"enrollment_status" example:"Regular" enums:"Regular,Irregular,LOA,Graduated,Dropped"`
	DateOfBirth          string          `json:"date_of_birth" example:"2005-06-15"`
	Gender               string          `json:"gender" enums:"Male,Female,Other,Prefer not to say"`
	ContactNumber        string          `json:"contact_number"`
	Address              *AddressRequest `json:"address,omitempty"`
	GuardianName         string          `json:"guardian_name"`
	GuardianContact      string          `json:"guardian_contact"`
	GuardianRelationship string          `json:"guardian_relationship"`
	DateEnrolled         string          `json:"date_enrolled" example:"2024-08-12"`
	ExpectedGraduation   string          `json:"expected_graduation" example:"2028-06-30"`
}

// ToModel builds the student with enrollment status Regular and enrollment date now by default
func (r *CreateStudentRequest) ToModel(now time.Time) (*models.Student, error) {
	s := &models.Student{
		Name:                 r.Name,
		StudID:               r.StudID,
		Email:                r.Email,
		Course:               r.Course,
		YearLevel:            r.YearLevel,
		Section:              r.Section,
		EnrollmentStatus:     models.EnrollmentStatus(r.EnrollmentStatus),
		Gender:               models.Gender(r.Gender),
		ContactNumber:        r.ContactNumber,
		Address:              r.Address.toModel(),
		GuardianName:         r.GuardianName,
		GuardianContact:      r.GuardianContact,
		GuardianRelationship: r.GuardianRelationship,
		DateEnrolled:         now.UTC(),
	}
	if s.EnrollmentStatus == "" {
		s.EnrollmentStatus = models.EnrollmentRegular
	}

	var err error
	if s.DateOfBirth, err = parseDate("date_of_birth", r.DateOfBirth); err != nil {
		return nil, err
	}
	if s.ExpectedGraduation, err = parseDate("expected_graduation", r.ExpectedGraduation); err != nil {
		return nil, err
	}
	enrolled, err := parseDate("date_enrolled", r.DateEnrolled)
	if err != nil {
		return nil, err
	}
	if enrolled != nil {
		s.DateEnrolled = *enrolled
	}
	return s, nil
}

// UpdateStudentRequest is the body of PUT /api/students/{id}. Required fields change only when
// non-empty; optional fields change whenever supplied; a supplied address replaces the old one.
type UpdateStudentRequest struct {
	Name                 *string         `json:"name,omitempty"`
	StudID               *string         `json:"stud_id,omitempty"`
	Email                *string         `json:"email,omitempty"`
	Course               *string         `json:"course,omitempty"`
	YearLevel            *string         `json:"year_level,omitempty"`
	Section              *string         `json:"section,omitempty"`
	EnrollmentStatus     *string         `json:"enrollment_status,omitempty"`
	DateOfBirth          *string         `json:"date_of_birth,omitempty"`
	Gender               *string         `json:"gender,omitempty"`
	ContactNumber        *string         `json:"contact_number,omitempty"`
	Address              *AddressRequest `json:"address,omitempty"`
	GuardianName         *string         `json:"guardian_name,omitempty"`
	GuardianContact      *string         `json:"guardian_contact,omitempty"`
	GuardianRelationship *string         `json:"guardian_relationship,omitempty"`
	DateEnrolled         *string         `json:"date_enrolled,omitempty"`
	ExpectedGraduation   *string         `json:"expected_graduation,omitempty"`
}

// ApplyTo merges the supplied fields into s
func (r *UpdateStudentRequest) ApplyTo(s *models.Student) error {
	setNonEmpty(&s.Name, r.Name)
	setNonEmpty(&s.StudID, r.StudID)
	setNonEmpty(&s.Email, r.Email)
	setNonEmpty(&s.Course, r.Course)
	setNonEmpty(&s.YearLevel, r.YearLevel)
	if r.EnrollmentStatus != nil && *r.EnrollmentStatus != "" {
		s.EnrollmentStatus = models.EnrollmentStatus(*r.EnrollmentStatus)
	}

	setString(&s.Section, r.Section)
	setString(&s.ContactNumber, r.ContactNumber)
	setString(&s.GuardianName, r.GuardianName)
	setString(&s.GuardianContact, r.GuardianContact)
	setString(&s.GuardianRelationship, r.GuardianRelationship)
	if r.Gender != nil {
		s.Gender = models.Gender(*r.Gender)
	}
	if r.Address != nil {
		s.Address = r.Address.toModel()
	}

	var err error
	if r.DateOfBirth != nil {
		if s.DateOfBirth, err = parseDate("date_of_birth", *r.DateOfBirth); err != nil {
			return err
		}
	}
	if r.ExpectedGraduation != nil {
		if s.ExpectedGraduation, err = parseDate("expected_graduation", *r.ExpectedGraduation); err != nil {
			return err
		}
	}
	if r.DateEnrolled != nil {
		enrolled, err := parseDate("date_enrolled", *r.DateEnrolled)
		if err != nil {
			return err
		}
		if enrolled != nil {
			s.DateEnrolled = *enrolled
		}
	}
	return nil
}

func setNonEmpty(dst *string, src *string) {
	if src != nil && *src != "" {
		*dst = *src
	}
}
