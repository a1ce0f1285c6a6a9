package reservations

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	resvc "unistay-backend/internal/application/reservations"
	"unistay-backend/internal/domain"
	"unistay-backend/internal/middleware"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupReservationsApp(t *testing.T, actor middleware.AuthUser) (*fiber.App, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Property{}, &domain.PropertyImage{}, &domain.Reservation{}, &domain.Notification{}))

	h := &Handlers{Service: &resvc.Service{DB: db, Quota: 2}}
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		middleware.SetAuthUser(c, actor)
		return c.Next()
	})
	app.Post("/reservations", h.CreateReservation)
	app.Get("/reservations", h.GetReservations)
	app.Patch("/reservations/:id/status", h.UpdateStatus)
	app.Delete("/reservations/:id", h.Cancel)
	app.Post("/reservations/expire", h.Expire)
	return app, db
}

func TestCreateReservation_201(t *testing.T) {
	studentID := uuid.New()
	app, db := setupReservationsApp(t, middleware.AuthUser{UserID: studentID, Role: domain.RoleStudent})

	property := &domain.Property{
		LandlordID:        uuid.New(),
		Title:             "Room",
		Address:           "1 Lane",
		City:              "Accra",
		MonthlyRent:       4000,
		AllowReservations: true,
	}
	require.NoError(t, db.Create(property).Error)

	body, _ := json.Marshal(map[string]string{
		"property_id": property.PropertyID.String(),
		"message":     "is this still free?",
	})
	req := httptest.NewRequest("POST", "/reservations", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	assert.Equal(t, true, result["success"])
	data := result["data"].(map[string]interface{})
	assert.Equal(t, "reserved", data["status"])
}

func TestCreateReservation_MissingPropertyID(t *testing.T) {
	app, _ := setupReservationsApp(t, middleware.AuthUser{UserID: uuid.New(), Role: domain.RoleStudent})

	body, _ := json.Marshal(map[string]string{"message": "hi"})
	req := httptest.NewRequest("POST", "/reservations", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	assert.Equal(t, false, result["success"])
}

func TestCreateReservation_QuotaGives400(t *testing.T) {
	studentID := uuid.New()
	app, db := setupReservationsApp(t, middleware.AuthUser{UserID: studentID, Role: domain.RoleStudent})

	for i := 0; i < 3; i++ {
		property := &domain.Property{
			LandlordID:        uuid.New(),
			Title:             "Room",
			Address:           "1 Lane",
			City:              "Accra",
			MonthlyRent:       4000,
			AllowReservations: true,
		}
		require.NoError(t, db.Create(property).Error)
		body, _ := json.Marshal(map[string]string{"property_id": property.PropertyID.String()})
		req := httptest.NewRequest("POST", "/reservations", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		if i < 2 {
			assert.Equal(t, 201, resp.StatusCode)
			continue
		}
		assert.Equal(t, 400, resp.StatusCode)
		var result map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Contains(t, result["message"], "Free tier limit reached")
	}
}

func TestUpdateStatus_WrongLandlord403(t *testing.T) {
	landlordID := uuid.New()
	app, db := setupReservationsApp(t, middleware.AuthUser{UserID: landlordID, Role: domain.RoleLandlord})

	reservation := &domain.Reservation{
		PropertyID: uuid.New(),
		StudentID:  uuid.New(),
		LandlordID: uuid.New(), // someone else's reservation
		Status:     domain.ReservationReserved,
		ExpiresAt:  time.Now().Add(24 * time.Hour),
	}
	require.NoError(t, db.Create(reservation).Error)

	body, _ := json.Marshal(map[string]string{"status": "approved"})
	req := httptest.NewRequest("PATCH", "/reservations/"+reservation.ReservationID.String()+"/status", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 403, resp.StatusCode)
}

func TestUpdateStatus_BadStatusValue(t *testing.T) {
	app, _ := setupReservationsApp(t, middleware.AuthUser{UserID: uuid.New(), Role: domain.RoleLandlord})

	body, _ := json.Marshal(map[string]string{"status": "expired"})
	req := httptest.NewRequest("PATCH", "/reservations/"+uuid.New().String()+"/status", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestExpire_ReportsCount(t *testing.T) {
	app, db := setupReservationsApp(t, middleware.AuthUser{UserID: uuid.New(), Role: domain.RoleAdmin})

	stale := &domain.Reservation{
		PropertyID: uuid.New(),
		StudentID:  uuid.New(),
		LandlordID: uuid.New(),
		Status:     domain.ReservationReserved,
		ExpiresAt:  time.Now().Add(-time.Hour),
	}
	require.NoError(t, db.Create(stale).Error)

	req := httptest.NewRequest("POST", "/reservations/expire", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	data := result["data"].(map[string]interface{})
	assert.EqualValues(t, 1, data["expired"])
}
