package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/campusrecords/internal/app/models"
	"github.com/yigit/campusrecords/internal/pkg/apperrors"
	"github.com/yigit/campusrecords/internal/pkg/docstore"
)

func newTestRepositories(t *testing.T) *Repositories {
	t.Helper()
	repos, err := NewRepositories(docstore.NewMemoryBackend())
	require.NoError(t, err)
	return repos
}

func TestStorageDuplicateBecomesDuplicateKind(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepositories(t)

	tests := []struct {
		name      string
		create    func() error
		wantField string
	}{
		{
			name: "department code",
			create: func() error {
				_, err := repos.DepartmentRepository.Create(ctx, &models.Department{Name: "College of ICT", Code: "CICT"})
				if err != nil {
					return err
				}
				_, err = repos.DepartmentRepository.Create(ctx, &models.Department{Name: "Other College", Code: "CICT"})
				return err
			},
			wantField: "code",
		},
		{
			name: "student email",
			create: func() error {
				_, err := repos.StudentRepository.Create(ctx, &models.Student{StudID: "2024-001", Email: "juan@school.edu"})
				if err != nil {
					return err
				}
				_, err = repos.StudentRepository.Create(ctx, &models.Student{StudID: "2024-002", Email: "juan@school.edu"})
				return err
			},
			wantField: "email",
		},
		{
			name: "course code",
			create: func() error {
				_, err := repos.CourseRepository.Create(ctx, &models.Course{CourseCode: "IT101"})
				if err != nil {
					return err
				}
				_, err = repos.CourseRepository.Create(ctx, &models.Course{CourseCode: "IT101"})
				return err
			},
			wantField: "course_code",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.create()
			require.Error(t, err)
			assert.Equal(t, apperrors.KindDuplicate, apperrors.KindOf(err))
			assert.Equal(t, tt.wantField, apperrors.FieldOf(err))
		})
	}
}

func TestStorageDuplicateOnUpdate(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepositories(t)

	_, err := repos.DepartmentRepository.Create(ctx, &models.Department{Name: "College of ICT", Code: "CICT"})
	require.NoError(t, err)
	other, err := repos.DepartmentRepository.Create(ctx, &models.Department{Name: "College of Business", Code: "CBA"})
	require.NoError(t, err)

	_, err = repos.DepartmentRepository.Update(ctx, other.ID, &models.Department{Name: "College of Business", Code: "CICT"})
	assert.Equal(t, apperrors.KindDuplicate, apperrors.KindOf(err))
	assert.Equal(t, "code", apperrors.FieldOf(err))
}

func TestMissingDocumentBecomesNotFound(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepositories(t)

	_, err := repos.CourseRepository.GetByID(ctx, "missing")
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(repos.StudentRepository.Delete(ctx, "missing")))
}
