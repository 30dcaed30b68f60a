package stats

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/campusrecords/internal/app/models"
)

func dept(id, name, code string) *models.Department {
	d := &models.Department{Name: name, Code: code}
	d.ID = id
	return d
}

func student(course, year string, status models.EnrollmentStatus) *models.Student {
	return &models.Student{Course: course, YearLevel: year, EnrollmentStatus: status}
}

func TestAggregateDepartmentResolution(t *testing.T) {
	departments := []*models.Department{dept("D1", "Dept A", "CS")}
	students := []*models.Student{
		student("CS", models.FirstYear, ""),
		student("CS", models.FirstYear, ""),
		student("Math", models.FirstYear, ""),
	}

	res := Aggregate(departments, nil, students)

	assert.Equal(t, []DepartmentCount{
		{Department: "Dept A", Code: "CS", Count: 2, Percentage: "66.7"},
	}, res.ByDepartment)

	require.Len(t, res.ByCourse, 2)
	assert.Equal(t, LabelCount{Label: "CS - Dept A", Count: 2, Percentage: "66.7"}, res.ByCourse[0])
	assert.Equal(t, LabelCount{Label: "Math", Count: 1, Percentage: "33.3"}, res.ByCourse[1])
}

func TestAggregateResolvesByIDThenCodeThenName(t *testing.T) {
	departments := []*models.Department{
		dept("D1", "Computer Science", "CS"),
		dept("D2", "Information Technology", "IT"),
	}
	students := []*models.Student{
		student("D2", models.FirstYear, ""),
		student("IT", models.FirstYear, ""),
		student("Information Technology", models.FirstYear, ""),
		student("Computer Science", models.FirstYear, ""),
	}

	res := Aggregate(departments, nil, students)

	assert.Equal(t, "Information Technology", res.ByDepartment[0].Department)
	assert.Equal(t, 3, res.ByDepartment[0].Count)
	assert.Equal(t, "Computer Science", res.ByDepartment[1].Department)
	assert.Equal(t, 1, res.ByDepartment[1].Count)
	assert.Equal(t, "IT - Information Technology", res.ByCourse[0].Label)
	assert.Equal(t, 3, res.ByCourse[0].Count)
}

func TestAggregateKeepsZeroCountDepartmentsInCollectionOrder(t *testing.T) {
	departments := []*models.Department{
		dept("D1", "A", "A"),
		dept("D2", "B", "B"),
		dept("D3", "C", "C"),
	}
	students := []*models.Student{student("C", models.FirstYear, "")}

	res := Aggregate(departments, nil, students)

	require.Len(t, res.ByDepartment, 3)
	assert.Equal(t, "C", res.ByDepartment[0].Code)
	assert.Equal(t, "A", res.ByDepartment[1].Code)
	assert.Equal(t, "B", res.ByDepartment[2].Code)
	assert.Equal(t, "0.0", res.ByDepartment[1].Percentage)
}

func TestAggregateEmptyStudents(t *testing.T) {
	departments := []*models.Department{dept("D1", "Dept A", "CS")}
	courses := []*models.Course{{CourseCode: "CS1", PopulatedDepartment: departments[0]}}

	res := Aggregate(departments, courses, nil)

	assert.Equal(t, 0, res.TotalStudents)
	assert.Equal(t, 1, res.TotalDepartments)
	assert.Equal(t, 1, res.TotalCourses)
	for _, row := range res.ByDepartment {
		assert.Equal(t, "0.0", row.Percentage)
	}
	assert.Empty(t, res.ByCourse)
	assert.Empty(t, res.ByYearLevel)
	assert.Empty(t, res.ByEnrollmentStatus)
	assert.Equal(t, []LabelCount{{Label: "CS - Dept A", Count: 1, Percentage: "100.0"}}, res.CoursesPerDepartment)
}

func TestPercentageZeroDenominator(t *testing.T) {
	assert.Equal(t, "0.0", Percentage(0, 0))
	assert.Equal(t, "0.0", Percentage(5, 0))
	assert.Equal(t, "50.0", Percentage(1, 2))
	assert.Equal(t, "33.3", Percentage(1, 3))
}

func TestAggregateYearLevelOrder(t *testing.T) {
	students := []*models.Student{
		student("X", models.FifthYear, ""),
		student("X", models.SecondYear, ""),
		student("X", models.SecondYear, ""),
		student("X", "", ""),
		student("X", "Graduate", ""),
	}

	res := Aggregate(nil, nil, students)

	labels := make([]string, 0, len(res.ByYearLevel))
	for _, row := range res.ByYearLevel {
		labels = append(labels, row.Label)
	}
	// Unlisted labels rank -1 and keep first-seen order ahead of listed levels
	assert.Equal(t, []string{UnknownLabel, "Graduate", models.SecondYear, models.FifthYear}, labels)
}

func TestAggregateEnrollmentStatus(t *testing.T) {
	students := []*models.Student{
		student("X", models.FirstYear, models.EnrollmentIrregular),
		student("X", models.FirstYear, ""),
		student("X", models.FirstYear, models.EnrollmentRegular),
		student("X", models.FirstYear, models.EnrollmentLOA),
	}

	res := Aggregate(nil, nil, students)

	assert.Equal(t, 2, res.RegularStudents)
	assert.Equal(t, []LabelCount{
		{Label: "Regular", Count: 2, Percentage: "50.0"},
		{Label: "Irregular", Count: 1, Percentage: "25.0"},
		{Label: "LOA", Count: 1, Percentage: "25.0"},
	}, res.ByEnrollmentStatus)
}

func TestAggregateByCourseTopTenWithStableTies(t *testing.T) {
	var students []*models.Student
	for i := 0; i < 12; i++ {
		students = append(students, student(fmt.Sprintf("Course %02d", i), models.FirstYear, ""))
	}
	students = append(students, student("Course 11", models.FirstYear, ""))
	students = append(students, student("", models.FirstYear, ""))

	res := Aggregate(nil, nil, students)

	require.Len(t, res.ByCourse, TopCourses)
	assert.Equal(t, "Course 11", res.ByCourse[0].Label)
	assert.Equal(t, 2, res.ByCourse[0].Count)
	for i := 1; i < TopCourses; i++ {
		assert.Equal(t, fmt.Sprintf("Course %02d", i-1), res.ByCourse[i].Label)
	}
}

func TestAggregateUnknownCourseLabelAndDanglingDepartment(t *testing.T) {
	courses := []*models.Course{
		{CourseCode: "A1"},
		{CourseCode: "A2", PopulatedDepartment: dept("D1", "Dept A", "A")},
		{CourseCode: "A3", PopulatedDepartment: dept("D1", "Dept A", "A")},
	}
	students := []*models.Student{student("", models.FirstYear, "")}

	res := Aggregate(nil, courses, students)

	assert.Equal(t, UnknownLabel, res.ByCourse[0].Label)
	assert.Equal(t, []LabelCount{
		{Label: "A - Dept A", Count: 2, Percentage: "66.7"},
		{Label: UnknownLabel, Count: 1, Percentage: "33.3"},
	}, res.CoursesPerDepartment)
}

func TestAggregateTotalsAndDeterminism(t *testing.T) {
	departments := []*models.Department{
		dept("D1", "Computer Science", "CS"),
		dept("D2", "Information Technology", "IT"),
		dept("D3", "Nursing", "BSN"),
	}
	courses := []*models.Course{
		{CourseCode: "CS1", PopulatedDepartment: departments[0]},
		{CourseCode: "CS2", PopulatedDepartment: departments[0]},
		{CourseCode: "IT1", PopulatedDepartment: departments[1]},
		{CourseCode: "X1"},
	}
	years := []string{models.FirstYear, models.SecondYear, models.ThirdYear, models.FourthYear, "", "Irregular Year"}
	statuses := []models.EnrollmentStatus{"", models.EnrollmentRegular, models.EnrollmentDropped, models.EnrollmentGraduated}
	coursesText := []string{"CS", "D2", "Nursing", "Fine Arts", ""}

	var students []*models.Student
	for i := 0; i < 40; i++ {
		students = append(students, student(coursesText[i%len(coursesText)], years[i%len(years)], statuses[i%len(statuses)]))
	}

	res := Aggregate(departments, courses, students)

	sum := func(rows []LabelCount) int {
		total := 0
		for _, r := range rows {
			total += r.Count
		}
		return total
	}
	assert.Equal(t, res.TotalStudents, sum(res.ByEnrollmentStatus))
	assert.Equal(t, res.TotalStudents, sum(res.ByYearLevel))
	assert.Equal(t, res.TotalCourses, sum(res.CoursesPerDepartment))

	first, err := json.Marshal(res)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := json.Marshal(Aggregate(departments, courses, students))
		require.NoError(t, err)
		assert.Equal(t, string(first), string(again))
	}
}

func TestAggregateIgnoresNilRecords(t *testing.T) {
	departments := []*models.Department{dept("D1", "Computer Science", "CS"), nil}
	courses := []*models.Course{{CourseCode: "CS1", PopulatedDepartment: departments[0]}, nil}
	students := []*models.Student{student("CS", models.FirstYear, ""), nil, nil}

	res := Aggregate(departments, courses, students)

	assert.Equal(t, 1, res.TotalDepartments)
	assert.Equal(t, 1, res.TotalCourses)
	assert.Equal(t, 1, res.TotalStudents)
	require.Len(t, res.ByEnrollmentStatus, 1)
	assert.Equal(t, "100.0", res.ByEnrollmentStatus[0].Percentage)
	require.Len(t, res.CoursesPerDepartment, 1)
	assert.Equal(t, 1, res.CoursesPerDepartment[0].Count)
	require.Len(t, res.ByDepartment, 1)
	assert.Equal(t, 1, res.ByDepartment[0].Count)
}
