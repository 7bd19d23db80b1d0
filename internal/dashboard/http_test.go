package dashboard_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"academy-service/internal/dashboard"
	"academy-service/internal/logger"
	"academy-service/internal/metrics"
	"academy-service/internal/payment"
	"academy-service/internal/person"
	"academy-service/internal/testdb"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardHandler_Shared(t *testing.T) {
	pgContainer := testdb.SetupSharedPostgres(t)
	defer pgContainer.Cleanup(t)

	pgContainer.RunMigrations(t, (*person.Person)(nil), (*payment.Payment)(nil))

	repo := dashboard.NewRepository(pgContainer.DB, metrics.NewMock())
	handler := dashboard.NewHandler(repo, logger.New(), metrics.NewMock())
	router := chi.NewRouter()
	handler.RegisterRoutes(router)

	getStats := func(t *testing.T) dashboard.Stats {
		t.Helper()
		req := httptest.NewRequest(http.MethodGet, "/dashboard/stats", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var stats dashboard.Stats
		require.NoError(t, json.NewDecoder(w.Body).Decode(&stats))
		return stats
	}

	t.Run("EmptyDatabaseYieldsZeroes", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "user_info", "payments")

		stats := getStats(t)
		assert.Equal(t, 0, stats.TotalStudents)
		assert.Equal(t, 0, stats.TotalTeachers)
		assert.Equal(t, 0, stats.TotalPayments)
		assert.Equal(t, 0.0, stats.TotalRevenue)
		assert.Equal(t, 0.0, stats.PendingAmount)
		assert.Equal(t, 0.0, stats.OverdueAmount)
	})

	t.Run("CountsAndSums", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "user_info", "payments")

		ctx := context.Background()
		persons := []*person.Person{
			{IsStudent: true, Name: "Asha", Email: "asha@example.com", Phone: "9876543210"},
			{IsStudent: true, IsTeacher: true, Name: "Meera", Email: "meera@example.com", Phone: "9123456780"},
			{IsTeacher: true, Name: "Ravi", Email: "ravi@example.com", Phone: "9988776655"},
		}
		for _, p := range persons {
			_, err := pgContainer.DB.NewInsert().Model(p).Exec(ctx)
			require.NoError(t, err)
		}

		payments := []*payment.Payment{
			{StudentID: 1, Amount: 500, DueDate: payment.NewDate(2024, 1, 1), Status: payment.StatusPaid},
			{StudentID: 1, Amount: 300, DueDate: payment.NewDate(2024, 2, 1), Status: payment.StatusPaid},
			{StudentID: 2, Amount: 250, DueDate: payment.NewDate(2024, 3, 1), Status: payment.StatusPending},
		}
		for _, p := range payments {
			_, err := pgContainer.DB.NewInsert().Model(p).Exec(ctx)
			require.NoError(t, err)
		}

		stats := getStats(t)
		assert.Equal(t, 2, stats.TotalStudents)
		assert.Equal(t, 2, stats.TotalTeachers)
		assert.Equal(t, 3, stats.TotalPayments)
		assert.Equal(t, 800.0, stats.TotalRevenue)
		assert.Equal(t, 250.0, stats.PendingAmount)

		// No overdue payments: the sum is 0.0, not null
		assert.Equal(t, 0.0, stats.OverdueAmount)
	})

	t.Run("SumsTrackStatusChanges", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "user_info", "payments")

		ctx := context.Background()
		asha := &person.Person{IsStudent: true, Name: "Asha", Email: "asha@example.com", Phone: "9876543210"}
		_, err := pgContainer.DB.NewInsert().Model(asha).Exec(ctx)
		require.NoError(t, err)

		overdue := &payment.Payment{StudentID: asha.ID, Amount: 150, DueDate: payment.NewDate(2024, 1, 1), Status: payment.StatusOverdue}
		_, err = pgContainer.DB.NewInsert().Model(overdue).Exec(ctx)
		require.NoError(t, err)

		stats := getStats(t)
		assert.Equal(t, 150.0, stats.OverdueAmount)
		assert.Equal(t, 0.0, stats.TotalRevenue)

		_, err = pgContainer.DB.NewUpdate().
			Model(overdue).
			Set("status = ?", payment.StatusPaid).
			WherePK().
			Exec(ctx)
		require.NoError(t, err)

		stats = getStats(t)
		assert.Equal(t, 0.0, stats.OverdueAmount)
		assert.Equal(t, 150.0, stats.TotalRevenue)
	})
}
