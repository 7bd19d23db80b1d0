package person_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"academy-service/internal/logger"
	"academy-service/internal/metrics"
	"academy-service/internal/person"
	"academy-service/internal/testdb"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersonHandler_Shared(t *testing.T) {
	pgContainer := testdb.SetupSharedPostgres(t)
	defer pgContainer.Cleanup(t)

	pgContainer.RunMigrations(t, (*person.Person)(nil))

	// Create handler ONCE and reuse across all subtests
	repo := person.NewRepository(pgContainer.DB, metrics.NewMock())
	service := person.NewService(repo, nil, logger.New())
	handler := person.NewHandler(service, logger.New(), metrics.NewMock())
	router := chi.NewRouter()
	handler.RegisterRoutes(router)

	t.Run("CreatePerson", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "user_info")

		payload := map[string]interface{}{
			"is_student": true,
			"is_teacher": false,
			"name":       "Asha",
			"email":      "Asha@X.com",
			"phone":      "98765 43210",
		}
		body, _ := json.Marshal(payload)

		req := httptest.NewRequest(http.MethodPost, "/user", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response person.Person
		err := json.NewDecoder(w.Body).Decode(&response)
		require.NoError(t, err)

		assert.NotZero(t, response.ID)
		assert.NotZero(t, response.CreatedAt)
		assert.True(t, response.IsStudent)
		assert.False(t, response.IsTeacher)
		assert.Equal(t, "Asha", response.Name)

		// Phone and email are stored normalized
		assert.Equal(t, "9876543210", response.Phone)
		assert.Equal(t, "asha@x.com", response.Email)
	})

	t.Run("CreatePersonDuplicateName", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "user_info")

		payload := map[string]interface{}{
			"is_student": true,
			"is_teacher": false,
			"name":       "Asha",
			"email":      "asha@example.com",
			"phone":      "9876543210",
		}
		body, _ := json.Marshal(payload)

		req := httptest.NewRequest(http.MethodPost, "/user", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusCreated, w.Code)

		// Same name with different email/phone is still a duplicate
		payload["email"] = "other@example.com"
		payload["phone"] = "1234567890"
		body, _ = json.Marshal(payload)

		req = httptest.NewRequest(http.MethodPost, "/user", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w = httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "already registered")
	})

	t.Run("CreatePersonInvalidPhone", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "user_info")

		payload := map[string]interface{}{
			"is_student": true,
			"name":       "Ravi",
			"email":      "ravi@example.com",
			"phone":      "12ab",
		}
		body, _ := json.Marshal(payload)

		req := httptest.NewRequest(http.MethodPost, "/user", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid Phone Number")

		// Nothing was persisted
		count, err := pgContainer.DB.NewSelect().Model((*person.Person)(nil)).Count(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})

	t.Run("CreatePersonInvalidEmail", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "user_info")

		payload := map[string]interface{}{
			"is_student": true,
			"name":       "Ravi",
			"email":      "not-an-email",
			"phone":      "9876543210",
		}
		body, _ := json.Marshal(payload)

		req := httptest.NewRequest(http.MethodPost, "/user", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid email id")
	})

	t.Run("CreatePersonMissingName", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "user_info")

		payload := map[string]interface{}{
			"is_student": true,
			"email":      "ravi@example.com",
			"phone":      "9876543210",
		}
		body, _ := json.Marshal(payload)

		req := httptest.NewRequest(http.MethodPost, "/user", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("GetAllPersons", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "user_info")

		ctx := context.Background()
		persons := []*person.Person{
			{IsStudent: true, Name: "Asha", Email: "asha@example.com", Phone: "9876543210"},
			{IsTeacher: true, Name: "Meera", Email: "meera@example.com", Phone: "9123456780"},
		}
		for _, p := range persons {
			_, err := pgContainer.DB.NewInsert().Model(p).Exec(ctx)
			require.NoError(t, err)
		}

		req := httptest.NewRequest(http.MethodGet, "/students/", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response struct {
			Data []person.Person `json:"data"`
		}
		err := json.NewDecoder(w.Body).Decode(&response)
		require.NoError(t, err)

		assert.Len(t, response.Data, 2)
		assert.Equal(t, "Asha", response.Data[0].Name)
		assert.Equal(t, "Meera", response.Data[1].Name)
	})

	t.Run("ListStudentsAndTeachers", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "user_info")

		ctx := context.Background()
		persons := []*person.Person{
			{IsStudent: true, Name: "StudentOnly", Email: "s@example.com", Phone: "9876543210"},
			{IsTeacher: true, Name: "TeacherOnly", Email: "t@example.com", Phone: "9123456780"},
			{IsStudent: true, IsTeacher: true, Name: "Both", Email: "b@example.com", Phone: "9988776655"},
		}
		for _, p := range persons {
			_, err := pgContainer.DB.NewInsert().Model(p).Exec(ctx)
			require.NoError(t, err)
		}

		req := httptest.NewRequest(http.MethodGet, "/students/list", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)

		var students struct {
			Data []person.Person `json:"data"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&students))
		assert.Len(t, students.Data, 2)

		req = httptest.NewRequest(http.MethodGet, "/teachers/list", nil)
		w = httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)

		var teachers struct {
			Data []person.Person `json:"data"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&teachers))
		assert.Len(t, teachers.Data, 2)
	})

	t.Run("GetPersonNotFound", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "user_info")

		req := httptest.NewRequest(http.MethodGet, "/students/99999", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("UpdatePersonPartial", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "user_info")

		ctx := context.Background()
		existing := &person.Person{IsStudent: true, Name: "Asha", Email: "asha@example.com", Phone: "9876543210"}
		_, err := pgContainer.DB.NewInsert().Model(existing).Exec(ctx)
		require.NoError(t, err)

		body, _ := json.Marshal(map[string]interface{}{"name": "Asha Kumar"})

		req := httptest.NewRequest(http.MethodPut, "/students/1", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response person.Person
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))

		// Only the supplied field changed
		assert.Equal(t, "Asha Kumar", response.Name)
		assert.Equal(t, "asha@example.com", response.Email)
		assert.Equal(t, "9876543210", response.Phone)
		assert.True(t, response.IsStudent)
	})

	t.Run("UpdatePersonEmptyPatch", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "user_info")

		ctx := context.Background()
		existing := &person.Person{IsStudent: true, Name: "Asha", Email: "asha@example.com", Phone: "9876543210"}
		_, err := pgContainer.DB.NewInsert().Model(existing).Exec(ctx)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPut, "/students/1", bytes.NewReader([]byte("{}")))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response person.Person
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, "Asha", response.Name)
		assert.Equal(t, "asha@example.com", response.Email)
		assert.Equal(t, "9876543210", response.Phone)
	})

	t.Run("UpdatePersonRevalidatesPhone", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "user_info")

		ctx := context.Background()
		existing := &person.Person{IsStudent: true, Name: "Asha", Email: "asha@example.com", Phone: "9876543210"}
		_, err := pgContainer.DB.NewInsert().Model(existing).Exec(ctx)
		require.NoError(t, err)

		body, _ := json.Marshal(map[string]interface{}{"phone": "bad", "name": "Changed"})

		req := httptest.NewRequest(http.MethodPut, "/students/1", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		// The valid name change must not have been applied either
		stored := new(person.Person)
		err = pgContainer.DB.NewSelect().Model(stored).Where("user_id = ?", 1).Scan(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Asha", stored.Name)
	})

	t.Run("UpdatePersonNotFound", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "user_info")

		body, _ := json.Marshal(map[string]interface{}{"name": "Ghost"})

		req := httptest.NewRequest(http.MethodPut, "/students/99999", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)

		// A patch against a missing id must not create a row
		count, err := pgContainer.DB.NewSelect().Model((*person.Person)(nil)).Count(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})

	t.Run("DeletePersonThenGet", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "user_info")

		ctx := context.Background()
		existing := &person.Person{IsStudent: true, Name: "Asha", Email: "asha@example.com", Phone: "9876543210"}
		_, err := pgContainer.DB.NewInsert().Model(existing).Exec(ctx)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodDelete, "/students/1", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "User deleted successfully")

		req = httptest.NewRequest(http.MethodGet, "/students/1", nil)
		w = httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("DeletePersonNotFound", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "user_info")

		req := httptest.NewRequest(http.MethodDelete, "/students/99999", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "user_info")

		req := httptest.NewRequest(http.MethodPost, "/user", bytes.NewReader([]byte("invalid json")))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("InvalidPersonID", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "user_info")

		req := httptest.NewRequest(http.MethodGet, "/students/invalid", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
