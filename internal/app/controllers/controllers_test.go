package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/campusrecords/internal/app/integrity"
	"github.com/yigit/campusrecords/internal/app/repositories"
	"github.com/yigit/campusrecords/internal/app/services"
	"github.com/yigit/campusrecords/internal/middleware"
	"github.com/yigit/campusrecords/internal/pkg/auth"
	"github.com/yigit/campusrecords/internal/pkg/docstore"
)

const testFrontend = "http://frontend.test"

type stubGoogle struct{}

func (stubGoogle) AuthCodeURL(state string) string {
	return "https://accounts.google.test/auth?state=" + state
}

func (stubGoogle) Exchange(ctx context.Context, code string) (*auth.GoogleProfile, error) {
	return &auth.GoogleProfile{ID: "g-" + code, Name: "Ana", Email: "ana@example.com"}, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Count   *int            `json:"count"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string      `json:"code"`
		Kind    string      `json:"kind"`
		Message string      `json:"message"`
		Field   string      `json:"field"`
		Details interface{} `json:"details"`
	} `json:"error"`
}

func newTestRouter(t *testing.T, policy integrity.DeletePolicy) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	backend := docstore.NewMemoryBackend()
	repos, err := repositories.NewRepositories(backend)
	require.NoError(t, err)
	sessions := auth.NewSessionService(auth.SessionConfig{SecretKey: "secret", Expiration: time.Hour, Issuer: "test"})
	svc := services.NewServices(repos, policy, stubGoogle{}, sessions, zerolog.Nop())
	authMiddleware := middleware.NewAuthMiddleware(sessions, "campus_session")

	departments := NewDepartmentController(svc.DepartmentService)
	courses := NewCourseController(svc.CourseService)
	students := NewStudentController(svc.StudentService)
	dashboard := NewDashboardController(svc.DashboardService)
	authController := NewAuthController(svc.AuthService, CookieConfig{Name: "campus_session"}, testFrontend+"/", zerolog.Nop())
	health := NewHealthController(backend)

	r := gin.New()
	r.GET("/", health.Root)
	api := r.Group("/api")
	api.GET("/health", health.Health)
	api.GET("/auth/google", authController.GoogleLogin)
	api.GET("/auth/google/callback", authController.GoogleCallback)
	api.GET("/auth/logout", authController.Logout)
	api.GET("/auth/me", authMiddleware.OptionalSession(), authController.Me)

	api.GET("/departments", departments.GetAllDepartments)
	api.GET("/departments/search/:query", departments.SearchDepartments)
	api.GET("/departments/:id", departments.GetDepartmentByID)
	api.POST("/departments", departments.CreateDepartment)
	api.PUT("/departments/:id", departments.UpdateDepartment)
	api.DELETE("/departments/:id", departments.DeleteDepartment)

	api.GET("/courses", courses.GetAllCourses)
	api.GET("/courses/department/:departmentId", courses.GetCoursesByDepartment)
	api.GET("/courses/:id", courses.GetCourseByID)
	api.POST("/courses", courses.CreateCourse)
	api.PUT("/courses/:id", courses.UpdateCourse)

	api.GET("/students", students.GetAllStudents)
	api.POST("/students", students.CreateStudent)
	api.PUT("/students/:id", students.UpdateStudent)
	api.DELETE("/students/:id", students.DeleteStudent)

	api.GET("/dashboard/stats", dashboard.GetStats)
	return r
}

func do(t *testing.T, r *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") != "" {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w, env
}

func createDepartment(t *testing.T, r *gin.Engine, name, code string) string {
	t.Helper()
	w, env := do(t, r, http.MethodPost, "/api/departments", map[string]string{"name": name, "code": code})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var dept struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &dept))
	return dept.ID
}

func TestDepartmentEndpoints(t *testing.T) {
	r := newTestRouter(t, integrity.DeleteAllow)

	w, env := do(t, r, http.MethodGet, "/api/departments", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, env.Count)
	assert.Equal(t, 0, *env.Count)
	assert.JSONEq(t, `[]`, string(env.Data))

	id := createDepartment(t, r, "College of ICT", "cict")

	t.Run("duplicate code in different case is a conflict", func(t *testing.T) {
		w, env := do(t, r, http.MethodPost, "/api/departments", map[string]string{"name": "Other", "code": "CICT"})
		assert.Equal(t, http.StatusConflict, w.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "RES_002", env.Error.Code)
		assert.Equal(t, "DuplicateKey", env.Error.Kind)
		assert.Equal(t, "code", env.Error.Field)
	})

	t.Run("missing name is a validation error", func(t *testing.T) {
		w, env := do(t, r, http.MethodPost, "/api/departments", map[string]string{"code": "X"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "ValidationError", env.Error.Kind)
		assert.Equal(t, "name", env.Error.Field)
	})

	t.Run("malformed body", func(t *testing.T) {
		w, env := do(t, r, http.MethodPost, "/api/departments", `{"name":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "VAL_001", env.Error.Code)
	})

	t.Run("get, search and update", func(t *testing.T) {
		w, _ := do(t, r, http.MethodGet, "/api/departments/"+id, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		w, env := do(t, r, http.MethodGet, "/api/departments/search/ict", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, *env.Count)

		w, env = do(t, r, http.MethodPut, "/api/departments/"+id, map[string]string{"head_email": "Head@School.EDU"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, string(env.Data), `"head_email":"head@school.edu"`)

		w, env = do(t, r, http.MethodPut, "/api/departments/"+id, map[string]string{"head_email": "not-an-email"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "head_email", env.Error.Field)
	})

	t.Run("unknown id", func(t *testing.T) {
		w, env := do(t, r, http.MethodGet, "/api/departments/missing", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "RES_001", env.Error.Code)
	})

	t.Run("delete", func(t *testing.T) {
		w, env := do(t, r, http.MethodDelete, "/api/departments/"+id, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Department deleted successfully", env.Message)

		w, _ = do(t, r, http.MethodDelete, "/api/departments/"+id, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCourseEndpoints(t *testing.T) {
	r := newTestRouter(t, integrity.DeleteAllow)
	deptID := createDepartment(t, r, "College of ICT", "CICT")

	t.Run("unknown department is reported on the department field", func(t *testing.T) {
		w, env := do(t, r, http.MethodPost, "/api/courses", map[string]string{
			"course_code": "IT101", "course_name": "Intro", "department": "missing",
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "department", env.Error.Field)
	})

	w, env := do(t, r, http.MethodPost, "/api/courses", map[string]string{
		"course_code": "it101", "course_name": "Intro", "department": deptID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var course struct {
		ID         string `json:"id"`
		CourseCode string `json:"course_code"`
		Credits    int    `json:"credits"`
		Semester   string `json:"semester"`
		Department struct {
			ID   string `json:"id"`
			Code string `json:"code"`
		} `json:"department"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &course))
	assert.Equal(t, "IT101", course.CourseCode)
	assert.Equal(t, 3, course.Credits)
	assert.Equal(t, "1st Semester", course.Semester)
	assert.Equal(t, deptID, course.Department.ID)
	assert.Equal(t, "CICT", course.Department.Code)

	t.Run("credits of the wrong type", func(t *testing.T) {
		w, env := do(t, r, http.MethodPost, "/api/courses", `{"course_code":"IT102","course_name":"X","department":"`+deptID+`","credits":"three"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "credits", env.Error.Field)
	})

	t.Run("negative credits", func(t *testing.T) {
		w, env := do(t, r, http.MethodPut, "/api/courses/"+course.ID, map[string]int{"credits": -1})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "credits", env.Error.Field)
	})

	t.Run("list by department", func(t *testing.T) {
		w, env := do(t, r, http.MethodGet, "/api/courses/department/"+deptID, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, *env.Count)
	})

	t.Run("dangling department after delete", func(t *testing.T) {
		w, _ := do(t, r, http.MethodDelete, "/api/departments/"+deptID, nil)
		require.Equal(t, http.StatusOK, w.Code)

		w, env := do(t, r, http.MethodGet, "/api/courses/"+course.ID, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":"`+deptID+`"}`, string(mustField(t, env.Data, "department")))
	})
}

func TestDepartmentDeleteRestricted(t *testing.T) {
	r := newTestRouter(t, integrity.DeleteRestrict)
	deptID := createDepartment(t, r, "College of ICT", "CICT")

	w, _ := do(t, r, http.MethodPost, "/api/courses", map[string]string{
		"course_code": "IT101", "course_name": "Intro", "department": deptID,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w, env := do(t, r, http.MethodDelete, "/api/departments/"+deptID, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "RES_004", env.Error.Code)
	assert.Equal(t, "Conflict", env.Error.Kind)
}

func TestStudentEndpointsAndDashboard(t *testing.T) {
	r := newTestRouter(t, integrity.DeleteAllow)
	createDepartment(t, r, "College of ICT", "CICT")

	w, env := do(t, r, http.MethodPost, "/api/students", map[string]interface{}{
		"name": "Juan", "stud_id": "2024-001", "email": "juan@school.edu", "course": "CICT",
		"year_level": "1st Year", "address": map[string]string{"city": "Manila"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, string(env.Data), `"country":"Philippines"`)
	studentID := string(mustField(t, env.Data, "id"))

	w, env = do(t, r, http.MethodPost, "/api/students", map[string]interface{}{
		"name": "Other", "stud_id": "2024-001", "email": "other@school.edu", "course": "CICT", "year_level": "1st Year",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "stud_id", env.Error.Field)

	w, env = do(t, r, http.MethodPost, "/api/students", map[string]interface{}{
		"name": "Bad", "stud_id": "2024-002", "email": "bad@school.edu", "course": "CICT",
		"year_level": "1st Year", "gender": "Unknown",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "gender", env.Error.Field)

	w, env = do(t, r, http.MethodGet, "/api/dashboard/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `1`, string(mustField(t, env.Data, "totalStudents")))
	assert.JSONEq(t, `1`, string(mustField(t, env.Data, "regularStudents")))
	assert.JSONEq(t, `[{"department":"College of ICT","code":"CICT","count":1,"percentage":"100.0"}]`,
		string(mustField(t, env.Data, "byDepartment")))

	var id string
	require.NoError(t, json.Unmarshal([]byte(studentID), &id))
	w, _ = do(t, r, http.MethodDelete, "/api/students/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthEndpoints(t *testing.T) {
	r := newTestRouter(t, integrity.DeleteAllow)

	w, _ := do(t, r, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Backend is running!"}`, w.Body.String())

	w, _ = do(t, r, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var health HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "Connected", health.Database)
	assert.Equal(t, "memory", health.Backend)
}

func TestGoogleSignInFlow(t *testing.T) {
	r := newTestRouter(t, integrity.DeleteAllow)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/auth/google", nil))
	require.Equal(t, http.StatusTemporaryRedirect, w.Code)
	location, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	state := location.Query().Get("state")
	require.NotEmpty(t, state)
	stateCookie := findCookie(w.Result().Cookies(), "oauth_state")
	require.NotNil(t, stateCookie)

	t.Run("mismatched state goes back to the frontend", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/google/callback?state=other&code=1", nil)
		req.AddCookie(stateCookie)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, testFrontend+"/", w.Header().Get("Location"))
	})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/google/callback?state="+state+"&code=1", nil)
	req.AddCookie(stateCookie)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, testFrontend+"/dashboard", w.Header().Get("Location"))
	session := findCookie(w.Result().Cookies(), "campus_session")
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)

	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(session)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"googleId":"g-1"`)
	assert.Contains(t, w.Body.String(), `"provider":"google"`)

	w, env := do(t, r, http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, env.Data)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/auth/logout", nil))
	assert.Equal(t, testFrontend, w.Header().Get("Location"))
	cleared := findCookie(w.Result().Cookies(), "campus_session")
	require.NotNil(t, cleared)
	assert.True(t, cleared.MaxAge < 0)
}

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func mustField(t *testing.T, raw json.RawMessage, field string) json.RawMessage {
	t.Helper()
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &m))
	v, ok := m[field]
	require.True(t, ok, "missing field %s", field)
	return v
}
