package models

import "time"

// Status is the lifecycle flag shared by departments and courses
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Semester of a course offering
type Semester string

const (
	SemesterFirst  Semester = "1st Semester"
	SemesterSecond Semester = "2nd Semester"
	SemesterSummer Semester = "Summer"
)

// Year levels. Courses accept the first four; students may also be in 5th Year.
const (
	FirstYear  = "1st Year"
	SecondYear = "2nd Year"
	ThirdYear  = "3rd Year"
	FourthYear = "4th Year"
	FifthYear  = "5th Year"
)

// EnrollmentStatus of a student
type EnrollmentStatus string

const (
	EnrollmentRegular   EnrollmentStatus = "Regular"
	EnrollmentIrregular EnrollmentStatus = "Irregular"
	EnrollmentLOA       EnrollmentStatus = "LOA"
	EnrollmentGraduated EnrollmentStatus = "Graduated"
	EnrollmentDropped   EnrollmentStatus = "Dropped"
)

// Gender of a student
type Gender string

const (
	GenderMale         Gender = "Male"
	GenderFemale       Gender = "Female"
	GenderOther        Gender = "Other"
	GenderPreferNotSay Gender = "Prefer not to say"
)

// DefaultCountry is stored when a student address omits the country
const DefaultCountry = "Philippines"

// DefaultCredits is applied to courses created without credits
const DefaultCredits = 3

// Base carries the identity and timestamps assigned by the document store
type Base struct {
	ID        string    `json:"id" bson:"_id"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

func (b *Base) DocumentID() string { return b.ID }

func (b *Base) SetDocumentID(id string) { b.ID = id }

func (b *Base) CreatedTime() time.Time { return b.CreatedAt }

func (b *Base) SetTimestamps(created, updated time.Time) {
	b.CreatedAt = created
	b.UpdatedAt = updated
}
