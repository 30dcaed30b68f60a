package seed

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/campusrecords/internal/app/integrity"
	"github.com/yigit/campusrecords/internal/app/repositories"
	"github.com/yigit/campusrecords/internal/app/services"
	"github.com/yigit/campusrecords/internal/pkg/auth"
	"github.com/yigit/campusrecords/internal/pkg/docstore"
)

func TestCreateDefaultDataIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repos, err := repositories.NewRepositories(docstore.NewMemoryBackend())
	require.NoError(t, err)
	sessions := auth.NewSessionService(auth.SessionConfig{SecretKey: "s", Expiration: time.Hour})
	svc := services.NewServices(repos, integrity.DeleteAllow, nil, sessions, zerolog.Nop())

	require.NoError(t, CreateDefaultData(ctx, svc, zerolog.Nop()))
	require.NoError(t, CreateDefaultData(ctx, svc, zerolog.Nop()))

	departments, err := svc.DepartmentService.GetAllDepartments(ctx)
	require.NoError(t, err)
	assert.Len(t, departments, len(sampleData))

	courses, err := svc.CourseService.GetAllCourses(ctx)
	require.NoError(t, err)
	assert.Len(t, courses, 6)
	for _, c := range courses {
		assert.NotNil(t, c.PopulatedDepartment, c.CourseCode)
	}
}
