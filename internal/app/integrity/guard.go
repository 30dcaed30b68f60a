// Package integrity decides whether a proposed department, course or student write may be
// persisted. It normalizes the record, validates its fields, resolves the course department
// reference and checks the unique fields against current collection state.
package integrity

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/yigit/campusrecords/internal/app/models"
	"github.com/yigit/campusrecords/internal/pkg/apperrors"
	"github.com/yigit/campusrecords/internal/pkg/logger"
	"github.com/yigit/campusrecords/internal/pkg/validation"
)

// DepartmentLookup reads departments
type DepartmentLookup interface {
	GetByID(ctx context.Context, id string) (*models.Department, error)
	FindByField(ctx context.Context, field, value, exceptID string) (*models.Department, bool, error)
}

// CourseLookup reads courses
type CourseLookup interface {
	FindByField(ctx context.Context, field, value, exceptID string) (*models.Course, bool, error)
	CountByDepartment(ctx context.Context, departmentID string) (int, error)
}

// StudentLookup reads students
type StudentLookup interface {
	FindByField(ctx context.Context, field, value, exceptID string) (*models.Student, bool, error)
}

// DeletePolicy decides what happens to courses that reference a deleted department
type DeletePolicy string

const (
	// DeleteAllow deletes the department and leaves referencing courses dangling
	DeleteAllow DeletePolicy = "allow"
	// DeleteRestrict refuses to delete a department that courses still reference
	DeleteRestrict DeletePolicy = "restrict"
)

// Guard enforces field validity, reference existence and uniqueness before writes
type Guard struct {
	departments  DepartmentLookup
	courses      CourseLookup
	students     StudentLookup
	validate     *validator.Validate
	deletePolicy DeletePolicy
}

// NewGuard creates a Guard. An unknown policy behaves like DeleteAllow.
func NewGuard(departments DepartmentLookup, courses CourseLookup, students StudentLookup, policy DeletePolicy) *Guard {
	if policy != DeleteRestrict {
		policy = DeleteAllow
	}
	return &Guard{
		departments:  departments,
		courses:      courses,
		students:     students,
		validate:     validation.New(),
		deletePolicy: policy,
	}
}

// NormalizeDepartment trims every field, uppercases the code and lowercases the head email
func NormalizeDepartment(d *models.Department) {
	d.Name = strings.TrimSpace(d.Name)
	d.Code = validation.NormalizeCode(d.Code)
	d.Description = strings.TrimSpace(d.Description)
	d.HeadName = strings.TrimSpace(d.HeadName)
	d.HeadEmail = validation.NormalizeEmail(d.HeadEmail)
	d.HeadContact = strings.TrimSpace(d.HeadContact)
}

// NormalizeCourse trims every field and uppercases the course code
func NormalizeCourse(c *models.Course) {
	c.CourseCode = validation.NormalizeCode(c.CourseCode)
	c.CourseName = strings.TrimSpace(c.CourseName)
	c.Description = strings.TrimSpace(c.Description)
	c.Department = strings.TrimSpace(c.Department)
	c.YearLevel = strings.TrimSpace(c.YearLevel)
	c.Prerequisites = strings.TrimSpace(c.Prerequisites)
}

// NormalizeStudent trims every text field and lowercases the email
func NormalizeStudent(s *models.Student) {
	s.Name = strings.TrimSpace(s.Name)
	s.StudID = strings.TrimSpace(s.StudID)
	s.Email = validation.NormalizeEmail(s.Email)
	s.Course = strings.TrimSpace(s.Course)
	s.YearLevel = strings.TrimSpace(s.YearLevel)
	s.Section = strings.TrimSpace(s.Section)
	s.ContactNumber = strings.TrimSpace(s.ContactNumber)
	s.GuardianName = strings.TrimSpace(s.GuardianName)
	s.GuardianContact = strings.TrimSpace(s.GuardianContact)
	s.GuardianRelationship = strings.TrimSpace(s.GuardianRelationship)
}

// CheckDepartment normalizes d and verifies it may be written. exceptID is the id of the
// department being updated, or empty on create.
func (g *Guard) CheckDepartment(ctx context.Context, d *models.Department, exceptID string) error {
	NormalizeDepartment(d)
	if err := g.validateStruct(d); err != nil {
		return err
	}

	for _, f := range []struct{ field, value string }{
		{"name", d.Name},
		{"code", d.Code},
	} {
		_, found, err := g.departments.FindByField(ctx, f.field, f.value, exceptID)
		if err != nil {
			return err
		}
		if found {
			return apperrors.NewDuplicateKeyError("Department", f.field)
		}
	}
	return nil
}

// CheckCourse normalizes c and verifies it may be written. previous is the stored course on
// update, or nil on create. On success c carries its resolved department.
func (g *Guard) CheckCourse(ctx context.Context, c *models.Course, previous *models.Course) error {
	NormalizeCourse(c)
	if err := g.validateStruct(c); err != nil {
		return err
	}

	dept, err := g.departments.GetByID(ctx, c.Department)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return apperrors.NewNotFoundError("Department", "department")
		}
		return err
	}

	exceptID := ""
	if previous != nil {
		exceptID = previous.ID
	}
	if previous == nil || previous.CourseCode != c.CourseCode {
		_, found, err := g.courses.FindByField(ctx, "course_code", c.CourseCode, exceptID)
		if err != nil {
			return err
		}
		if found {
			return apperrors.NewDuplicateKeyError("Course", "course_code")
		}
	}

	c.PopulatedDepartment = dept
	return nil
}

// CheckStudent normalizes s and verifies it may be written. The course field is free text
// and is not resolved.
func (g *Guard) CheckStudent(ctx context.Context, s *models.Student, exceptID string) error {
	NormalizeStudent(s)
	if err := g.validateStruct(s); err != nil {
		return err
	}

	for _, f := range []struct{ field, value string }{
		{"stud_id", s.StudID},
		{"email", s.Email},
	} {
		_, found, err := g.students.FindByField(ctx, f.field, f.value, exceptID)
		if err != nil {
			return err
		}
		if found {
			return apperrors.NewDuplicateKeyError("Student", f.field)
		}
	}
	return nil
}

// CheckDepartmentDelete applies the delete policy to a department about to be removed
func (g *Guard) CheckDepartmentDelete(ctx context.Context, departmentID string) error {
	if g.deletePolicy != DeleteRestrict {
		return nil
	}

	n, err := g.courses.CountByDepartment(ctx, departmentID)
	if err != nil {
		return err
	}
	if n > 0 {
		logger.Warn().Str("departmentID", departmentID).Int("courses", n).
			Msg("Refusing to delete a department that courses still reference")
		return apperrors.NewConflictError("Department is still referenced by courses").
			WithDetails(map[string]interface{}{"courses": n})
	}
	return nil
}

func (g *Guard) validateStruct(v interface{}) error {
	err := g.validate.Struct(v)
	if err == nil {
		return nil
	}
	fields, messages := validation.Describe(err)
	if len(fields) == 0 {
		return apperrors.NewValidationError(err.Error())
	}
	return apperrors.NewValidationError(strings.Join(messages, ", "), fields...)
}
