package dto

import (
	"time"

	"github.com/yigit/campusrecords/internal/app/models"
)

// DepartmentRef is the populated form of a course's department
type DepartmentRef struct {
	ID   string `json:"id" example:"5b0d7c1e-1f7a-4d6b-9a57-2f1f3f0f9b21"`
	Name string `json:"name,omitempty" example:"College of Information and Communications Technology"`
	Code string `json:"code,omitempty" example:"CICT"`
}

// CourseResponse is a course with its department populated
type CourseResponse struct {
	ID            string         `json:"id"`
	CourseCode    string         `json:"course_code" example:"IT101"`
	CourseName    string         `json:"course_name" example:"Introduction to Computing"`
	Description   string         `json:"description"`
	Department    *DepartmentRef `json:"department"`
	Credits       int            `json:"credits" example:"3"`
	Semester      string         `json:"semester" example:"1st Semester"`
	YearLevel     string         `json:"year_level" example:"1st Year"`
	Prerequisites string         `json:"prerequisites"`
	Status        string         `json:"status" example:"active"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// NewCourseResponse renders c. A department that no longer resolves is rendered by id only.
func NewCourseResponse(c *models.Course) CourseResponse {
	ref := &DepartmentRef{ID: c.Department}
	if d := c.PopulatedDepartment; d != nil {
		ref.Name = d.Name
		ref.Code = d.Code
	}
	return CourseResponse{
		ID:            c.ID,
		CourseCode:    c.CourseCode,
		CourseName:    c.CourseName,
		Description:   c.Description,
		Department:    ref,
		Credits:       c.Credits,
		Semester:      string(c.Semester),
		YearLevel:     c.YearLevel,
		Prerequisites: c.Prerequisites,
		Status:        string(c.Status),
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

// NewCourseResponses renders a list of courses
func NewCourseResponses(courses []*models.Course) []CourseResponse {
	out := make([]CourseResponse, 0, len(courses))
	for _, c := range courses {
		out = append(out, NewCourseResponse(c))
	}
	return out
}

// CreateCourseRequest is the body of POST /api/courses
type CreateCourseRequest struct {
	CourseCode    string `json:"course_code" example:"IT101"`
	CourseName    string `json:"course_name" example:"Introduction to Computing"`
	Description   string `json:"description"`
	Department    string `json:"department" example:"5b0d7c1e-1f7a-4d6b-9a57-2f1f3f0f9b21"`
	Credits       *int   `json:"credits,omitempty" example:"3"`
	Semester      string `json:"semester" example:"1st Semester" enums:"1st Semester,2nd Semester,Summer"`
	YearLevel     string `json:"year_level" example:"1st Year" enums:"1st Year,2nd Year,3rd Year,4th Year"`
	Prerequisites string `json:"prerequisites"`
	Status        string `json:"status" example:"active" enums:"active,inactive"`
}

// ToModel builds the course with defaults for omitted credits, semester, year level and status
func (r *CreateCourseRequest) ToModel() *models.Course {
	c := &models.Course{
		CourseCode:    r.CourseCode,
		CourseName:    r.CourseName,
		Description:   r.Description,
		Department:    r.Department,
		Credits:       models.DefaultCredits,
		Semester:      models.Semester(r.Semester),
		YearLevel:     r.YearLevel,
		Prerequisites: r.Prerequisites,
		Status:        models.Status(r.Status),
	}
	if r.Credits != nil {
		c.Credits = *r.Credits
	}
	if c.Semester == "" {
		c.Semester = models.SemesterFirst
	}
	if c.YearLevel == "" {
		c.YearLevel = models.FirstYear
	}
	if c.Status == "" {
		c.Status = models.StatusActive
	}
	return c
}

// UpdateCourseRequest is the body of PUT /api/courses/{id}. Only supplied fields change.
type UpdateCourseRequest struct {
	CourseCode    *string `json:"course_code,omitempty"`
	CourseName    *string `json:"course_name,omitempty"`
	Description   *string `json:"description,omitempty"`
	Department    *string `json:"department,omitempty"`
	Credits       *int    `json:"credits,omitempty"`
	Semester      *string `json:"semester,omitempty"`
	YearLevel     *string `json:"year_level,omitempty"`
	Prerequisites *string `json:"prerequisites,omitempty"`
	Status        *string `json:"status,omitempty"`
}

// ApplyTo merges the supplied fields into c
func (r *UpdateCourseRequest) ApplyTo(c *models.Course) {
	setString(&c.CourseCode, r.CourseCode)
	setString(&c.CourseName, r.CourseName)
	setString(&c.Description, r.Description)
	setString(&c.Department, r.Department)
	setString(&c.YearLevel, r.YearLevel)
	setString(&c.Prerequisites, r.Prerequisites)
	if r.Credits != nil {
		c.Credits = *r.Credits
	}
	if r.Semester != nil {
		c.Semester = models.Semester(*r.Semester)
	}
	if r.Status != nil {
		c.Status = models.Status(*r.Status)
	}
}
