// Package stats derives the dashboard view-model from snapshots of the department, course
// and student collections. Aggregate is pure: it performs no I/O and keeps no state between
// calls.
package stats

import (
	"sort"
	"strconv"

	"github.com/yigit/campusrecords/internal/app/models"
)

// UnknownLabel groups records with a missing value
const UnknownLabel = "Unknown"

// TopCourses bounds the students-by-course grouping
const TopCourses = 10

// yearLevelOrder is the display order of year levels. Labels outside it rank as -1 and
// therefore sort before every listed level.
var yearLevelOrder = []string{
	models.FirstYear,
	models.SecondYear,
	models.ThirdYear,
	models.FourthYear,
	models.FifthYear,
}

// DepartmentCount is one row of students-by-department
type DepartmentCount struct {
	Department string `json:"department" example:"College of ICT"`
	Code       string `json:"code" example:"CICT"`
	Count      int    `json:"count" example:"42"`
	Percentage string `json:"percentage" example:"35.0"`
}

// LabelCount is one row of a grouping keyed by a display label
type LabelCount struct {
	Label      string `json:"label" example:"CICT - College of ICT"`
	Count      int    `json:"count" example:"42"`
	Percentage string `json:"percentage" example:"35.0"`
}

// Result is the dashboard view-model
type Result struct {
	TotalStudents        int               `json:"totalStudents"`
	TotalDepartments     int               `json:"totalDepartments"`
	TotalCourses         int               `json:"totalCourses"`
	RegularStudents      int               `json:"regularStudents"`
	ByDepartment         []DepartmentCount `json:"byDepartment"`
	ByCourse             []LabelCount      `json:"byCourse"`
	ByYearLevel          []LabelCount      `json:"byYearLevel"`
	ByEnrollmentStatus   []LabelCount      `json:"byEnrollmentStatus"`
	CoursesPerDepartment []LabelCount      `json:"coursesPerDepartment"`
}

// departmentIndex resolves a student's free-text course to a department by id, code or
// name, in that order. It is built from one snapshot and discarded after the call.
type departmentIndex struct {
	byID   map[string]*models.Department
	byCode map[string]*models.Department
	byName map[string]*models.Department
}

func newDepartmentIndex(departments []*models.Department) departmentIndex {
	idx := departmentIndex{
		byID:   make(map[string]*models.Department, len(departments)),
		byCode: make(map[string]*models.Department, len(departments)),
		byName: make(map[string]*models.Department, len(departments)),
	}
	// Later entries overwrite earlier ones on a shared key
	for _, d := range departments {
		if d.ID != "" {
			idx.byID[d.ID] = d
		}
		if d.Code != "" {
			idx.byCode[d.Code] = d
		}
		if d.Name != "" {
			idx.byName[d.Name] = d
		}
	}
	return idx
}

func (idx departmentIndex) resolve(course string) *models.Department {
	if course == "" {
		return nil
	}
	if d, ok := idx.byID[course]; ok {
		return d
	}
	if d, ok := idx.byCode[course]; ok {
		return d
	}
	if d, ok := idx.byName[course]; ok {
		return d
	}
	return nil
}

// present drops nil entries so totals and groupings count the same records
func present[T any](in []*T) []*T {
	out := make([]*T, 0, len(in))
	for _, v := range in {
		if v != nil {
			out = append(out, v)
		}
	}
	return out
}

// counter counts occurrences per label and remembers first-seen order
type counter struct {
	order  []string
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(label string) {
	if _, seen := c.counts[label]; !seen {
		c.order = append(c.order, label)
	}
	c.counts[label]++
}

// rows returns the groups in first-seen order
func (c *counter) rows(total int) []LabelCount {
	out := make([]LabelCount, 0, len(c.order))
	for _, label := range c.order {
		n := c.counts[label]
		out = append(out, LabelCount{Label: label, Count: n, Percentage: Percentage(n, total)})
	}
	return out
}

func sortByCountDesc(rows []LabelCount) {
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Count > rows[j].Count })
}

// Percentage renders 100*count/total with one decimal. A zero total renders "0.0".
func Percentage(count, total int) string {
	if total <= 0 {
		return "0.0"
	}
	return strconv.FormatFloat(100*float64(count)/float64(total), 'f', 1, 64)
}

// DepartmentLabel is the "code - name" display label of a department
func DepartmentLabel(d *models.Department) string {
	return d.Code + " - " + d.Name
}

func yearLevelRank(label string) int {
	for i, l := range yearLevelOrder {
		if l == label {
			return i
		}
	}
	return -1
}

// Aggregate computes the dashboard statistics. Courses are expected to carry their
// populated department; malformed records are grouped permissively and never cause an error.
func Aggregate(departments []*models.Department, courses []*models.Course, students []*models.Student) Result {
	departments, courses, students = present(departments), present(courses), present(students)

	res := Result{
		TotalStudents:    len(students),
		TotalDepartments: len(departments),
		TotalCourses:     len(courses),
	}

	idx := newDepartmentIndex(departments)

	// Students by department: one row per department, unresolved students left out
	perDept := make(map[string]int, len(departments))
	for _, s := range students {
		if d := idx.resolve(s.Course); d != nil && d.ID != "" {
			perDept[d.ID]++
		}
	}
	res.ByDepartment = make([]DepartmentCount, 0, len(departments))
	for _, d := range departments {
		n := perDept[d.ID]
		res.ByDepartment = append(res.ByDepartment, DepartmentCount{
			Department: d.Name,
			Code:       d.Code,
			Count:      n,
			Percentage: Percentage(n, res.TotalStudents),
		})
	}
	sort.SliceStable(res.ByDepartment, func(i, j int) bool {
		return res.ByDepartment[i].Count > res.ByDepartment[j].Count
	})

	// Students by course label, top ten
	byCourse := newCounter()
	for _, s := range students {
		label := s.Course
		if d := idx.resolve(s.Course); d != nil {
			label = DepartmentLabel(d)
		} else if label == "" {
			label = UnknownLabel
		}
		byCourse.add(label)
	}
	res.ByCourse = byCourse.rows(res.TotalStudents)
	sortByCountDesc(res.ByCourse)
	if len(res.ByCourse) > TopCourses {
		res.ByCourse = res.ByCourse[:TopCourses]
	}

	// Students by year level, in fixed ordinal order
	byYear := newCounter()
	for _, s := range students {
		label := s.YearLevel
		if label == "" {
			label = UnknownLabel
		}
		byYear.add(label)
	}
	res.ByYearLevel = byYear.rows(res.TotalStudents)
	sort.SliceStable(res.ByYearLevel, func(i, j int) bool {
		return yearLevelRank(res.ByYearLevel[i].Label) < yearLevelRank(res.ByYearLevel[j].Label)
	})

	// Students by enrollment status
	byStatus := newCounter()
	for _, s := range students {
		label := string(s.EnrollmentStatus)
		if label == "" {
			label = string(models.EnrollmentRegular)
		}
		byStatus.add(label)
	}
	res.RegularStudents = byStatus.counts[string(models.EnrollmentRegular)]
	res.ByEnrollmentStatus = byStatus.rows(res.TotalStudents)
	sortByCountDesc(res.ByEnrollmentStatus)

	// Courses per department, using each course's populated department
	perCourseDept := newCounter()
	for _, c := range courses {
		label := UnknownLabel
		if c.PopulatedDepartment != nil {
			label = DepartmentLabel(c.PopulatedDepartment)
		}
		perCourseDept.add(label)
	}
	res.CoursesPerDepartment = perCourseDept.rows(res.TotalCourses)
	sortByCountDesc(res.CoursesPerDepartment)

	return res
}
