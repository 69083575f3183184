package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"gharinto/internal/database"
	"gharinto/internal/middleware"
	"gharinto/internal/modules/auth"
	"gharinto/internal/modules/lead"
	"gharinto/internal/modules/notification"
	"gharinto/internal/modules/project"
	"gharinto/internal/modules/wallet"
	"gharinto/internal/pkg/events"
	jwtsvc "gharinto/internal/pkg/jwt"
	"gharinto/internal/repository"
)

type TestSuite struct {
	router *gin.Engine
	db     *gorm.DB
}

type TestResponse struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *ErrorDetail           `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func setupTestSuite(t *testing.T) *TestSuite {
	gin.SetMode(gin.TestMode)

	// A shared-cache DSN keeps every pooled connection on the same database.
	dsn := fmt.Sprintf("file:e2e_%s?mode=memory&cache=shared", t.Name())
	db, err := database.Connect(dsn)
	require.NoError(t, err, "Failed to connect to test database")

	require.NoError(t, repository.AutoMigrate(db))
	require.NoError(t, wallet.AutoMigrate(db))
	require.NoError(t, notification.AutoMigrate(db))

	userRepo := repository.NewUserRepository(db)
	leadRepo := repository.NewLeadRepository(db)
	projectRepo := repository.NewProjectRepository(db)

	jwtService := jwtsvc.New("test_secret_key_32_characters_min", 24*time.Hour)
	eventLog := events.Nop()

	hub := notification.NewHub()
	notifService := notification.NewService(notification.NewRepository(db), hub)
	notifHandler := notification.NewHandler(notifService, hub)

	authHandler := auth.NewHandler(auth.NewService(userRepo, jwtService))
	leadHandler := lead.NewHandler(lead.NewService(leadRepo, userRepo, notifService, eventLog))
	projectHandler := project.NewHandler(project.NewService(projectRepo))
	walletHandler := wallet.NewHandler(wallet.NewService(db))

	r := gin.New()
	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterPublicRoutes(v1)
		leadHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(jwtService))
		{
			authHandler.RegisterProtectedRoutes(protected)
			leadHandler.RegisterProtectedRoutes(protected)
			projectHandler.RegisterProtectedRoutes(protected)
			walletHandler.RegisterRoutes(protected)
			notifHandler.RegisterRoutes(protected)
		}
	}

	return &TestSuite{router: r, db: db}
}

func (s *TestSuite) request(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, TestResponse) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var resp TestResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

// register creates an account through the API and returns (userID, referralCode).
func (s *TestSuite) register(t *testing.T, name, email, password, role string, referralCode string) (int64, string) {
	t.Helper()

	w, resp := s.request(t, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"name":         name,
		"email":        email,
		"password":     password,
		"role":         role,
		"referralCode": referralCode,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	user := resp.Data["user"].(map[string]interface{})
	code, _ := user["referralCode"].(string)
	return int64(user["id"].(float64)), code
}

func (s *TestSuite) login(t *testing.T, email, password string) string {
	t.Helper()

	w, resp := s.request(t, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return resp.Data["token"].(string)
}

func referralFullHomeLead() map[string]any {
	return map[string]any{
		"firstName":    "Asha",
		"lastName":     "Verma",
		"email":        "asha.verma@example.com",
		"phone":        "+91-9876543210",
		"city":         "Mumbai",
		"budgetMin":    500000,
		"budgetMax":    800000,
		"projectType":  "full_home",
		"propertyType": "apartment",
		"timeline":     "immediate",
		"source":       "referral",
	}
}

func TestLeadLifecycle(t *testing.T) {
	s := setupTestSuite(t)

	_, _ = s.register(t, "Rohit Mehta", "pm@gharinto.com", "pm123456", "project_manager", "")
	pmToken := s.login(t, "pm@gharinto.com", "pm123456")

	designerID, _ := s.register(t, "Kavya Nair", "designer@gharinto.com", "designer123", "designer", "")
	customerID, _ := s.register(t, "Priya Sharma", "customer@gharinto.com", "customer123", "customer", "")

	// Public intake, no token.
	w, resp := s.request(t, http.MethodPost, "/api/v1/leads", "", referralFullHomeLead())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, float64(90), resp.Data["score"])
	assert.Equal(t, "new", resp.Data["status"])
	leadID := int64(resp.Data["id"].(float64))

	// Listing requires a permissioned caller.
	w, _ = s.request(t, http.MethodGet, "/api/v1/leads", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, resp = s.request(t, http.MethodGet, "/api/v1/leads?minScore=80", pmToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), resp.Data["total"])

	// Customers cannot own leads.
	w, resp = s.request(t, http.MethodPost, fmt.Sprintf("/api/v1/leads/%d/assign", leadID), pmToken,
		map[string]any{"assignedTo": customerID})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_ROLE", resp.Error.Code)

	w, resp = s.request(t, http.MethodPost, fmt.Sprintf("/api/v1/leads/%d/assign", leadID), pmToken,
		map[string]any{"assignedTo": designerID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, float64(designerID), resp.Data["assignedTo"])
	assert.Equal(t, "new", resp.Data["status"], "assignment must not advance the status machine")

	// Plain status edit.
	w, _ = s.request(t, http.MethodPut, fmt.Sprintf("/api/v1/leads/%d", leadID), pmToken,
		map[string]any{"status": "qualified"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Status cannot be edited straight to converted.
	w, resp = s.request(t, http.MethodPut, fmt.Sprintf("/api/v1/leads/%d", leadID), pmToken,
		map[string]any{"status": "converted"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "INVALID_STATE", resp.Error.Code)

	// Convert with a budget below the stated minimum: succeeds with warning.
	w, resp = s.request(t, http.MethodPost, fmt.Sprintf("/api/v1/leads/%d/convert", leadID), pmToken,
		map[string]any{"projectTitle": "Verma Residence", "budget": 350000})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, resp.Data["budgetWarning"], "below")
	leadData := resp.Data["lead"].(map[string]interface{})
	assert.Equal(t, "converted", leadData["status"])
	projectData := resp.Data["project"].(map[string]interface{})
	assert.Equal(t, "Verma Residence", projectData["title"])

	// Second conversion loses.
	w, resp = s.request(t, http.MethodPost, fmt.Sprintf("/api/v1/leads/%d/convert", leadID), pmToken,
		map[string]any{"projectTitle": "Duplicate", "budget": 100000})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "INVALID_STATE", resp.Error.Code)

	// Terminal leads refuse edits.
	w, _ = s.request(t, http.MethodPut, fmt.Sprintf("/api/v1/leads/%d", leadID), pmToken,
		map[string]any{"city": "Pune"})
	assert.Equal(t, http.StatusConflict, w.Code)

	// The project landed with the lead's designer and client contact.
	w, resp = s.request(t, http.MethodGet, "/api/v1/projects", pmToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	projects := resp.Data["projects"].([]interface{})
	require.Len(t, projects, 1)
	created := projects[0].(map[string]interface{})
	assert.Equal(t, "Asha Verma", created["clientName"])
	assert.Equal(t, float64(designerID), created["designerId"])

	// The designer got a project notification.
	designerToken := s.login(t, "designer@gharinto.com", "designer123")
	w, resp = s.request(t, http.MethodGet, "/api/v1/notifications", designerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.GreaterOrEqual(t, resp.Data["unreadCount"].(float64), float64(1))

	// Analytics reflect the converted pipeline.
	w, resp = s.request(t, http.MethodGet, "/api/v1/analytics/leads", pmToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), resp.Data["total"])
	byStatus := resp.Data["byStatus"].(map[string]interface{})
	assert.Equal(t, float64(1), byStatus["converted"])
	assert.Equal(t, float64(1), resp.Data["conversionRate"])
}

func TestCustomerCannotReadLeads(t *testing.T) {
	s := setupTestSuite(t)

	_, _ = s.register(t, "Priya Sharma", "customer@gharinto.com", "customer123", "customer", "")
	token := s.login(t, "customer@gharinto.com", "customer123")

	w, resp := s.request(t, http.MethodGet, "/api/v1/leads", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", resp.Error.Code)
}

func TestRegistrationReferralCreditsBothWallets(t *testing.T) {
	s := setupTestSuite(t)

	_, code := s.register(t, "Referrer", "referrer@gharinto.com", "secret123", "customer", "")
	require.NotEmpty(t, code)
	_, _ = s.register(t, "Referred", "referred@gharinto.com", "secret123", "customer", code)

	referrerToken := s.login(t, "referrer@gharinto.com", "secret123")
	w, resp := s.request(t, http.MethodGet, "/api/v1/wallet", referrerToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, float64(1000), resp.Data["wallet"].(map[string]interface{})["balance"])

	referredToken := s.login(t, "referred@gharinto.com", "secret123")
	w, resp = s.request(t, http.MethodGet, "/api/v1/wallet", referredToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(500), resp.Data["wallet"].(map[string]interface{})["balance"])

	w, resp = s.request(t, http.MethodGet, "/api/v1/wallet/transactions", referredToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	txns := resp.Data["transactions"].([]interface{})
	require.Len(t, txns, 1)
	assert.Equal(t, "REFERRAL_BONUS", txns[0].(map[string]interface{})["type"])
}

func TestConversionPaysReferrerBonus(t *testing.T) {
	s := setupTestSuite(t)

	_, _ = s.register(t, "Rohit Mehta", "pm@gharinto.com", "pm123456", "project_manager", "")
	pmToken := s.login(t, "pm@gharinto.com", "pm123456")

	_, code := s.register(t, "Referrer", "referrer@gharinto.com", "secret123", "customer", "")

	payload := referralFullHomeLead()
	payload["referralCode"] = code
	w, resp := s.request(t, http.MethodPost, "/api/v1/leads", "", payload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	leadID := int64(resp.Data["id"].(float64))

	w, _ = s.request(t, http.MethodPost, fmt.Sprintf("/api/v1/leads/%d/convert", leadID), pmToken,
		map[string]any{"projectTitle": "Referred Home", "budget": 600000})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	referrerToken := s.login(t, "referrer@gharinto.com", "secret123")
	w, resp = s.request(t, http.MethodGet, "/api/v1/wallet", referrerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2000), resp.Data["wallet"].(map[string]interface{})["balance"])
}

func TestLeadNotFound(t *testing.T) {
	s := setupTestSuite(t)

	_, _ = s.register(t, "Rohit Mehta", "pm@gharinto.com", "pm123456", "project_manager", "")
	pmToken := s.login(t, "pm@gharinto.com", "pm123456")

	w, resp := s.request(t, http.MethodGet, "/api/v1/leads/9999", pmToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}
