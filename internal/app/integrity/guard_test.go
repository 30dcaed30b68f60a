package integrity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/campusrecords/internal/app/models"
	"github.com/yigit/campusrecords/internal/app/repositories"
	"github.com/yigit/campusrecords/internal/pkg/apperrors"
	"github.com/yigit/campusrecords/internal/pkg/docstore"
)

func newTestGuard(t *testing.T, policy DeletePolicy) (*Guard, *repositories.Repositories) {
	t.Helper()
	repos, err := repositories.NewRepositories(docstore.NewMemoryBackend())
	require.NoError(t, err)
	return NewGuard(repos.DepartmentRepository, repos.CourseRepository, repos.StudentRepository, policy), repos
}

func createDepartment(t *testing.T, g *Guard, repos *repositories.Repositories, name, code string) *models.Department {
	t.Helper()
	d := &models.Department{Name: name, Code: code, Status: models.StatusActive}
	require.NoError(t, g.CheckDepartment(context.Background(), d, ""))
	created, err := repos.DepartmentRepository.Create(context.Background(), d)
	require.NoError(t, err)
	return created
}

func validCourse(departmentID string) *models.Course {
	return &models.Course{
		CourseCode: "it101",
		CourseName: "Introduction to Computing",
		Department: departmentID,
		Credits:    3,
		Semester:   models.SemesterFirst,
		YearLevel:  models.FirstYear,
		Status:     models.StatusActive,
	}
}

func TestCheckDepartmentDuplicateCodeAfterUppercasing(t *testing.T) {
	g, repos := newTestGuard(t, DeleteAllow)
	ctx := context.Background()

	first := createDepartment(t, g, repos, "College of ICT", "cict")
	assert.Equal(t, "CICT", first.Code)

	second := &models.Department{Name: "Another College", Code: "CICT ", Status: models.StatusActive}
	err := g.CheckDepartment(ctx, second, "")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindDuplicate, apperrors.KindOf(err))
	assert.Equal(t, "code", apperrors.FieldOf(err))
}

func TestCheckDepartmentDuplicateName(t *testing.T) {
	g, repos := newTestGuard(t, DeleteAllow)
	createDepartment(t, g, repos, "College of ICT", "CICT")

	err := g.CheckDepartment(context.Background(),
		&models.Department{Name: "  College of ICT ", Code: "OTHER", Status: models.StatusActive}, "")
	assert.Equal(t, apperrors.KindDuplicate, apperrors.KindOf(err))
	assert.Equal(t, "name", apperrors.FieldOf(err))
}

func TestCheckDepartmentUpdateExcludesItself(t *testing.T) {
	g, repos := newTestGuard(t, DeleteAllow)
	d := createDepartment(t, g, repos, "College of ICT", "CICT")

	d.Description = "updated"
	assert.NoError(t, g.CheckDepartment(context.Background(), d, d.ID))
}

func TestCheckDepartmentValidation(t *testing.T) {
	g, _ := newTestGuard(t, DeleteAllow)

	tests := []struct {
		name      string
		dept      models.Department
		wantField string
	}{
		{"missing name", models.Department{Code: "CS", Status: models.StatusActive}, "name"},
		{"missing code", models.Department{Name: "CS", Status: models.StatusActive}, "code"},
		{"bad head email", models.Department{Name: "CS", Code: "CS", HeadEmail: "head@school", Status: models.StatusActive}, "head_email"},
		{"long tld", models.Department{Name: "CS", Code: "CS", HeadEmail: "head@school.museum", Status: models.StatusActive}, "head_email"},
		{"bad status", models.Department{Name: "CS", Code: "CS", Status: "closed"}, "status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := tt.dept
			err := g.CheckDepartment(context.Background(), &d, "")
			require.Error(t, err)
			assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
			assert.Equal(t, tt.wantField, apperrors.FieldOf(err))
		})
	}
}

func TestCheckDepartmentAcceptsEmptyOrValidHeadEmail(t *testing.T) {
	g, _ := newTestGuard(t, DeleteAllow)

	for _, email := range []string{"", "  Head.Name@CICT.school.ph "} {
		d := &models.Department{Name: "CS", Code: "cs", HeadEmail: email, Status: models.StatusActive}
		require.NoError(t, g.CheckDepartment(context.Background(), d, ""))
	}
}

func TestCheckCourseUnknownDepartment(t *testing.T) {
	g, _ := newTestGuard(t, DeleteAllow)

	err := g.CheckCourse(context.Background(), validCourse("does-not-exist"), nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	assert.Equal(t, "department", apperrors.FieldOf(err))
}

func TestCheckCoursePopulatesDepartment(t *testing.T) {
	g, repos := newTestGuard(t, DeleteAllow)
	d := createDepartment(t, g, repos, "College of ICT", "CICT")

	c := validCourse(d.ID)
	require.NoError(t, g.CheckCourse(context.Background(), c, nil))
	assert.Equal(t, "IT101", c.CourseCode)
	require.NotNil(t, c.PopulatedDepartment)
	assert.Equal(t, "CICT", c.PopulatedDepartment.Code)
	assert.Equal(t, "College of ICT", c.PopulatedDepartment.Name)
}

func TestCheckCourseDuplicateCode(t *testing.T) {
	g, repos := newTestGuard(t, DeleteAllow)
	ctx := context.Background()
	d := createDepartment(t, g, repos, "College of ICT", "CICT")

	first := validCourse(d.ID)
	require.NoError(t, g.CheckCourse(ctx, first, nil))
	stored, err := repos.CourseRepository.Create(ctx, first)
	require.NoError(t, err)

	dup := validCourse(d.ID)
	dup.CourseCode = "It101"
	err = g.CheckCourse(ctx, dup, nil)
	assert.Equal(t, apperrors.KindDuplicate, apperrors.KindOf(err))
	assert.Equal(t, "course_code", apperrors.FieldOf(err))

	// An update that keeps its own code passes
	same := *stored
	same.CourseName = "Renamed"
	assert.NoError(t, g.CheckCourse(ctx, &same, stored))
}

func TestCheckCourseCredits(t *testing.T) {
	g, repos := newTestGuard(t, DeleteAllow)
	d := createDepartment(t, g, repos, "College of ICT", "CICT")

	c := validCourse(d.ID)
	c.Credits = -1
	err := g.CheckCourse(context.Background(), c, nil)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	assert.Equal(t, "credits", apperrors.FieldOf(err))

	c = validCourse(d.ID)
	c.Credits = 0
	assert.NoError(t, g.CheckCourse(context.Background(), c, nil))
}

func TestCheckCourseEnumerations(t *testing.T) {
	g, repos := newTestGuard(t, DeleteAllow)
	d := createDepartment(t, g, repos, "College of ICT", "CICT")

	c := validCourse(d.ID)
	c.YearLevel = models.FifthYear
	err := g.CheckCourse(context.Background(), c, nil)
	assert.Equal(t, "year_level", apperrors.FieldOf(err))

	c = validCourse(d.ID)
	c.Semester = "3rd Semester"
	err = g.CheckCourse(context.Background(), c, nil)
	assert.Equal(t, "semester", apperrors.FieldOf(err))
}

func TestCheckStudentDuplicates(t *testing.T) {
	g, repos := newTestGuard(t, DeleteAllow)
	ctx := context.Background()

	s := &models.Student{
		Name: "Juan", StudID: "2024-001", Email: "Juan@School.edu.ph",
		Course: "CICT", YearLevel: models.FirstYear, EnrollmentStatus: models.EnrollmentRegular,
	}
	require.NoError(t, g.CheckStudent(ctx, s, ""))
	assert.Equal(t, "juan@school.edu.ph", s.Email)
	stored, err := repos.StudentRepository.Create(ctx, s)
	require.NoError(t, err)

	sameID := &models.Student{
		Name: "Maria", StudID: "2024-001", Email: "maria@school.edu.ph",
		Course: "CICT", YearLevel: models.FirstYear, EnrollmentStatus: models.EnrollmentRegular,
	}
	err = g.CheckStudent(ctx, sameID, "")
	assert.Equal(t, apperrors.KindDuplicate, apperrors.KindOf(err))
	assert.Equal(t, "stud_id", apperrors.FieldOf(err))

	sameEmail := &models.Student{
		Name: "Maria", StudID: "2024-002", Email: "JUAN@school.edu.ph",
		Course: "Anything at all", YearLevel: models.FirstYear, EnrollmentStatus: models.EnrollmentRegular,
	}
	err = g.CheckStudent(ctx, sameEmail, "")
	assert.Equal(t, apperrors.KindDuplicate, apperrors.KindOf(err))
	assert.Equal(t, "email", apperrors.FieldOf(err))

	assert.NoError(t, g.CheckStudent(ctx, stored, stored.ID))
}

func TestCheckStudentRequiredFields(t *testing.T) {
	g, _ := newTestGuard(t, DeleteAllow)

	err := g.CheckStudent(context.Background(), &models.Student{EnrollmentStatus: models.EnrollmentRegular}, "")
	require.Error(t, err)

	var ce *apperrors.CustomError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, []string{"name", "stud_id", "email", "course", "year_level"}, ce.Fields)
}

func TestNormalizationIsIdempotent(t *testing.T) {
	d := &models.Department{Name: " CS ", Code: " cs ", HeadEmail: " A@B.CO "}
	NormalizeDepartment(d)
	once := *d
	NormalizeDepartment(d)
	assert.Equal(t, once, *d)

	c := &models.Course{CourseCode: " it101 ", Department: " x "}
	NormalizeCourse(c)
	onceCourse := *c
	NormalizeCourse(c)
	assert.Equal(t, onceCourse, *c)

	s := &models.Student{Email: " Juan@School.EDU.ph ", StudID: " 1 "}
	NormalizeStudent(s)
	onceStudent := *s
	NormalizeStudent(s)
	assert.Equal(t, onceStudent, *s)
}

func TestCheckDepartmentDeletePolicy(t *testing.T) {
	ctx := context.Background()

	for _, tc := range []struct {
		policy   DeletePolicy
		wantKind apperrors.Kind
	}{
		{DeleteAllow, ""},
		{DeleteRestrict, apperrors.KindConflict},
	} {
		t.Run(string(tc.policy), func(t *testing.T) {
			g, repos := newTestGuard(t, tc.policy)
			d := createDepartment(t, g, repos, "College of ICT", "CICT")
			c := validCourse(d.ID)
			require.NoError(t, g.CheckCourse(ctx, c, nil))
			_, err := repos.CourseRepository.Create(ctx, c)
			require.NoError(t, err)

			err = g.CheckDepartmentDelete(ctx, d.ID)
			assert.Equal(t, tc.wantKind, apperrors.KindOf(err))
		})
	}

	g, repos := newTestGuard(t, DeleteRestrict)
	empty := createDepartment(t, g, repos, "Empty", "EMP")
	assert.NoError(t, g.CheckDepartmentDelete(ctx, empty.ID))
}
