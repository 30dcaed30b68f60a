package seed

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/yigit/campusrecords/internal/app/models/dto"
	"github.com/yigit/campusrecords/internal/app/services"
	"github.com/yigit/campusrecords/internal/pkg/apperrors"
)

type sampleDepartment struct {
	department dto.CreateDepartmentRequest
	courses    []dto.CreateCourseRequest
}

func intPtr(n int) *int { return &n }

var sampleData = []sampleDepartment{
	{
		department: dto.CreateDepartmentRequest{
			Name:        "College of Information and Communications Technology",
			Code:        "CICT",
			Description: "Computing and information technology programs",
		},
		courses: []dto.CreateCourseRequest{
			{CourseCode: "IT101", CourseName: "Introduction to Computing", YearLevel: "1st Year", Semester: "1st Semester"},
			{CourseCode: "IT102", CourseName: "Computer Programming 1", YearLevel: "1st Year", Semester: "2nd Semester"},
			{CourseCode: "IT201", CourseName: "Data Structures and Algorithms", YearLevel: "2nd Year", Semester: "1st Semester"},
		},
	},
	{
		department: dto.CreateDepartmentRequest{
			Name:        "College of Business Administration",
			Code:        "CBA",
			Description: "Business, accounting and management programs",
		},
		courses: []dto.CreateCourseRequest{
			{CourseCode: "BA101", CourseName: "Principles of Management", YearLevel: "1st Year", Semester: "1st Semester"},
			{CourseCode: "ACC101", CourseName: "Financial Accounting", YearLevel: "1st Year", Semester: "2nd Semester", Credits: intPtr(6)},
		},
	},
	{
		department: dto.CreateDepartmentRequest{
			Name: "College of Engineering",
			Code: "COE",
		},
		courses: []dto.CreateCourseRequest{
			{CourseCode: "ES101", CourseName: "Engineering Drawing", YearLevel: "1st Year", Semester: "Summer", Credits: intPtr(2)},
		},
	},
}

// CreateDefaultData creates sample departments and their courses. Records that already
// exist are left alone, so running it again is harmless.
func CreateDefaultData(ctx context.Context, svc *services.Services, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data (Departments/Courses)...")
	var finalErr error

	existing, err := svc.DepartmentService.GetAllDepartments(ctx)
	if err != nil {
		return err
	}
	byCode := make(map[string]string, len(existing))
	for _, d := range existing {
		byCode[d.Code] = d.ID
	}

	for _, sample := range sampleData {
		req := sample.department
		departmentID, ok := byCode[req.Code]
		if !ok {
			created, err := svc.DepartmentService.CreateDepartment(ctx, &req)
			if err != nil {
				lgr.Error().Err(err).Str("code", req.Code).Msg("Error creating department")
				finalErr = errors.Join(finalErr, err)
				continue
			}
			departmentID = created.ID
		}

		for _, course := range sample.courses {
			course.Department = departmentID
			_, err := svc.CourseService.CreateCourse(ctx, &course)
			if err != nil && apperrors.KindOf(err) != apperrors.KindDuplicate {
				lgr.Error().Err(err).Str("courseCode", course.CourseCode).Msg("Error creating course")
				finalErr = errors.Join(finalErr, err)
			}
		}
	}

	if finalErr == nil {
		lgr.Info().Msg("Default data is in place")
	}
	return finalErr
}
