package models

import "time"

// Address of a student. It is stored only when at least one location field is set.
type Address struct {
	Street     string `json:"street,omitempty" bson:"street,omitempty"`
	City       string `json:"city,omitempty" bson:"city,omitempty"`
	Province   string `json:"province,omitempty" bson:"province,omitempty"`
	PostalCode string `json:"postal_code,omitempty" bson:"postal_code,omitempty"`
	Country    string `json:"country,omitempty" bson:"country,omitempty"`
}

// IsEmpty reports whether none of the location fields is set
func (a *Address) IsEmpty() bool {
	return a == nil || (a.Street == "" && a.City == "" && a.Province == "" && a.PostalCode == "")
}

// Student record. Course is free text or a department id, code or name; it is not a foreign key.
type Student struct {
	Base                 `bson:",inline"`
	Name                 string           `json:"name" bson:"name" validate:"required"`
	StudID               string           `json:"stud_id" bson:"stud_id" validate:"required"`
	Email                string           `json:"email" bson:"email" validate:"required"`
	Course               string           `json:"course" bson:"course" validate:"required"`
	YearLevel            string           `json:"year_level" bson:"year_level" validate:"required"`
	Section              string           `json:"section,omitempty" bson:"section,omitempty"`
	EnrollmentStatus     EnrollmentStatus `json:"enrollment_status" bson:"enrollment_status" validate:"required,oneof=Regular Irregular LOA Graduated Dropped"`
	DateOfBirth          *time.Time       `json:"date_of_birth,omitempty" bson:"date_of_birth,omitempty"`
	Gender               Gender           `json:"gender,omitempty" bson:"gender,omitempty" validate:"omitempty,oneof=Male Female Other 'Prefer not to say'"`
	ContactNumber        string           `json:"contact_number,omitempty" bson:"contact_number,omitempty"`
	Address              *Address         `json:"address,omitempty" bson:"address,omitempty"`
	GuardianName         string           `json:"guardian_name,omitempty" bson:"guardian_name,omitempty"`
	GuardianContact      string           `json:"guardian_contact,omitempty" bson:"guardian_contact,omitempty"`
	GuardianRelationship string           `json:"guardian_relationship,omitempty" bson:"guardian_relationship,omitempty"`
	DateEnrolled         time.Time        `json:"date_enrolled" bson:"date_enrolled"`
	ExpectedGraduation   *time.Time       `json:"expected_graduation,omitempty" bson:"expected_graduation,omitempty"`
}
