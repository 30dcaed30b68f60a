package models

// Course belongs to exactly one department, referenced by id
type Course struct {
	Base          `bson:",inline"`
	CourseCode    string   `json:"course_code" bson:"course_code" validate:"required"`
	CourseName    string   `json:"course_name" bson:"course_name" validate:"required"`
	Description   string   `json:"description" bson:"description"`
	Department    string   `json:"department" bson:"department" validate:"required"`
	Credits       int      `json:"credits" bson:"credits" validate:"min=0"`
	Semester      Semester `json:"semester" bson:"semester" validate:"required,oneof='1st Semester' '2nd Semester' Summer"`
	YearLevel     string   `json:"year_level" bson:"year_level" validate:"required,oneof='1st Year' '2nd Year' '3rd Year' '4th Year'"`
	Prerequisites string   `json:"prerequisites" bson:"prerequisites"`
	Status        Status   `json:"status" bson:"status" validate:"required,oneof=active inactive"`

	// PopulatedDepartment is the resolved department, filled on reads. It is never stored.
	PopulatedDepartment *Department `json:"-" bson:"-" validate:"-"`
}
