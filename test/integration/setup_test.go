package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"clinic-billing-backend/internal/database"
	"clinic-billing-backend/internal/handler"
	"clinic-billing-backend/internal/middleware"
	"clinic-billing-backend/internal/repository"
	"clinic-billing-backend/internal/service"
	"clinic-billing-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// envelope matches the standard JSON response shape of pkg/utils
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// newTestApp wires the full application against an in-memory database,
// mirroring the wiring in cmd/server/main.go.
func newTestApp(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.InitJWT("integration-test-secret", 15*time.Minute, 168*time.Hour)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	userRepo := repository.NewUserRepo(db)
	auditRepo := repository.NewAuditRepo(db)
	patientRepo := repository.NewPatientRepo(db)
	billRepo := repository.NewBillRepo(db)

	authService := service.NewAuthService(userRepo, auditRepo)
	patientService := service.NewPatientService(patientRepo, auditRepo)
	billingService := service.NewBillingService(billRepo, patientRepo, auditRepo)

	authHandler := handler.NewAuthHandler(authService)
	billHandler := handler.NewBillHandler(billingService)
	patientHandler := handler.NewPatientHandler(patientService)

	r := gin.New()

	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", authHandler.Logout)
	}

	billing := r.Group("/")
	billing.Use(middleware.AuthMiddleware(), middleware.TabSession())
	{
		billing.GET("/", billHandler.NewBillForm)
		billing.POST("/", billHandler.CreateBill)
		billing.GET("/bill/:id", billHandler.BillSummary)
		billing.GET("/patients/list", patientHandler.ListPatients)
		billing.GET("/patients/search", patientHandler.SearchPatients)
		billing.POST("/patients/:id/delete", patientHandler.DeletePatient)
	}

	return r, db
}

// do performs one request against the router; body is JSON-encoded when set
func do(t *testing.T, r *gin.Engine, method, target, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

// registerAndLogin creates a staff account and returns its access token
func registerAndLogin(t *testing.T, r *gin.Engine) string {
	t.Helper()

	rec := do(t, r, "POST", "/auth/register", "", map[string]string{
		"username": "frontdesk",
		"password": "s3cret-pass",
	})
	if rec.Code != 200 {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}

	rec = do(t, r, "POST", "/auth/login", "", map[string]string{
		"username": "frontdesk",
		"password": "s3cret-pass",
	})
	if rec.Code != 200 {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}
	var data struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("failed to decode login data: %v", err)
	}
	if data.AccessToken == "" {
		t.Fatal("login returned empty access token")
	}
	return data.AccessToken
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode envelope: %v (body: %s)", err, rec.Body.String())
	}
	if !env.Success {
		t.Fatalf("request failed: %s", env.Error)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("failed to decode data: %v (data: %s)", err, env.Data)
	}
}
