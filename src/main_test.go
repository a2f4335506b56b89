package main

import (
	"filae/src/db"
	"filae/src/models"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/tidwall/gjson"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type TestSuite struct {
	suite.Suite
	DB            *gorm.DB
	CustomerToken string
	MerchantToken string
}

func (s *TestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	registerValidators()

	d, err := gorm.Open(sqlite.Open("file:apitest?mode=memory&cache=shared"), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("error opening test database: %s", err.Error())
	}
	inner, err := d.DB()
	if err != nil {
		log.Fatalf("error accessing inner db instance: %s", err.Error())
	}
	inner.SetMaxOpenConns(1)

	db.NewDB(d)
	s.DB = d

	err = d.AutoMigrate(
		&models.User{},
		&models.Establishment{},
		&models.QueueEntry{},
		&models.Notification{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	router := newTestRouter()
	s.CustomerToken = s.signup(router, "Cora Customer", "cora@example.com", "customer")
	s.MerchantToken = s.signup(router, "Mel Merchant", "mel@example.com", "merchant")
}

func (s *TestSuite) TearDownSuite() {
	inner, err := s.DB.DB()
	if err != nil {
		log.Printf("Error accessing inner db instance: %s\n", err.Error())
		return
	}
	inner.Close()
}

func newTestRouter() *gin.Engine {
	router := setupRouter()
	guestAuthRoutes(router)
	protectedRoutes(router)
	return router
}

// signup registers an account and logs it in, returning the bearer token.
func (s *TestSuite) signup(router *gin.Engine, name, email, role string) string {
	body, _ := json.Marshal(map[string]any{"name": name, "email": email, "role": role})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/auth/register", strings.NewReader(string(body)))
	router.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		log.Fatalf("could not register %s: status %d", email, w.Code)
	}

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("POST", "/api/v1/auth/login", strings.NewReader(string(body)))
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		log.Fatalf("could not log in %s: status %d", email, w.Code)
	}
	rbytes, _ := io.ReadAll(w.Body)
	return gjson.GetBytes(rbytes, "token").String()
}

func (s *TestSuite) request(router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		assert.Nil(s.T(), err)
		reader = strings.NewReader(string(data))
	}
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	}
	router.ServeHTTP(w, req)
	return w
}

// createEstablishment posts a new establishment as the merchant and returns its id.
func (s *TestSuite) createEstablishment(router *gin.Engine, name string) uint {
	w := s.request(router, "POST", "/api/v1/establishments", s.MerchantToken, map[string]any{
		"name":     name,
		"category": "restaurant",
		"address":  "1 Main St",
		"city":     "Springfield",
		"state":    "IL",
	})
	assert.Equal(s.T(), http.StatusCreated, w.Code)
	rbytes, _ := io.ReadAll(w.Body)
	return uint(gjson.GetBytes(rbytes, "id").Uint())
}

func (s *TestSuite) TestPingRoute() {
	router := setupRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/", nil)
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 200, w.Code)
}

func (s *TestSuite) TestMaintenanceMode() {
	os.Setenv("MAINTENANCE_MODE", "true")
	defer os.Unsetenv("MAINTENANCE_MODE")

	router := setupRouter()
	router = maintenanceModeMiddleware(router)
	apiv1Group(router)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 503, w.Code)
}

func (s *TestSuite) TestAuthRoutes() {
	router := newTestRouter()

	s.Run("login with unknown email", func() {
		w := s.request(router, "POST", "/api/v1/auth/login", "", map[string]any{"email": "nobody@example.com"})
		assert.Equal(s.T(), 404, w.Code)
	})

	s.Run("register without email", func() {
		w := s.request(router, "POST", "/api/v1/auth/register", "", map[string]any{"name": "No Email"})
		assert.Equal(s.T(), 400, w.Code)
	})

	s.Run("register duplicate email", func() {
		w := s.request(router, "POST", "/api/v1/auth/register", "", map[string]any{"name": "Cora Again", "email": "cora@example.com"})
		assert.Equal(s.T(), 409, w.Code)
	})

	s.Run("protected route without token", func() {
		w := s.request(router, "GET", "/api/v1/queues/my-queues", "", nil)
		assert.Equal(s.T(), 401, w.Code)
	})
}

func (s *TestSuite) TestEstablishments() {
	router := newTestRouter()

	s.Run("customers cannot create establishments", func() {
		w := s.request(router, "POST", "/api/v1/establishments", s.CustomerToken, map[string]any{
			"name":     "Forbidden Fonda",
			"category": "restaurant",
			"address":  "2 Main St",
			"city":     "Springfield",
			"state":    "IL",
		})
		assert.Equal(s.T(), 403, w.Code)
	})

	id := s.createEstablishment(router, "Gilded Grill")

	s.Run("list with filters", func() {
		w := s.request(router, "GET", "/api/v1/establishments?city=Springfield", s.CustomerToken, nil)
		assert.Equal(s.T(), 200, w.Code)
		rbytes, _ := io.ReadAll(w.Body)
		assert.GreaterOrEqual(s.T(), gjson.GetBytes(rbytes, "count").Int(), int64(1))
	})

	s.Run("get by id", func() {
		w := s.request(router, "GET", fmt.Sprintf("/api/v1/establishments/%d", id), s.CustomerToken, nil)
		assert.Equal(s.T(), 200, w.Code)
		rbytes, _ := io.ReadAll(w.Body)
		assert.Equal(s.T(), "Gilded Grill", gjson.GetBytes(rbytes, "data.name").String())
		assert.Equal(s.T(), "gilded-grill", gjson.GetBytes(rbytes, "data.slug").String())
	})

	s.Run("get unknown id", func() {
		w := s.request(router, "GET", "/api/v1/establishments/999999", s.CustomerToken, nil)
		assert.Equal(s.T(), 404, w.Code)
	})

	s.Run("closing the door blocks joins", func() {
		w := s.request(router, "PUT", fmt.Sprintf("/api/v1/establishments/%d/accepting", id), s.MerchantToken, map[string]any{"accepting": false})
		assert.Equal(s.T(), 204, w.Code)

		w = s.request(router, "POST", "/api/v1/queues/join", s.CustomerToken, map[string]any{"establishment_id": id})
		assert.Equal(s.T(), 409, w.Code)

		w = s.request(router, "PUT", fmt.Sprintf("/api/v1/establishments/%d/accepting", id), s.MerchantToken, map[string]any{"accepting": true})
		assert.Equal(s.T(), 204, w.Code)
	})

	s.Run("only the owner flips accepting", func() {
		w := s.request(router, "PUT", fmt.Sprintf("/api/v1/establishments/%d/accepting", id), s.CustomerToken, map[string]any{"accepting": false})
		assert.Equal(s.T(), 403, w.Code)
	})
}

func (s *TestSuite) TestQueueFlow() {
	router := newTestRouter()
	id := s.createEstablishment(router, "Queue Flow Kitchen")

	var entryID int64

	s.Run("join", func() {
		w := s.request(router, "POST", "/api/v1/queues/join", s.CustomerToken, map[string]any{
			"establishment_id": id,
			"party_size":       2,
			"notes":            "stroller",
		})
		assert.Equal(s.T(), 201, w.Code)
		rbytes, _ := io.ReadAll(w.Body)
		sjson := string(rbytes)
		entryID = gjson.Get(sjson, "data.id").Int()
		assert.Equal(s.T(), int64(1), gjson.Get(sjson, "data.position").Int())
		assert.Equal(s.T(), "WAITING", gjson.Get(sjson, "data.status").String())
		assert.Regexp(s.T(), `^[A-Z]{2}-[A-Z0-9]{4}$`, gjson.Get(sjson, "data.ticket_code").String())
		assert.Equal(s.T(), int64(10), gjson.Get(sjson, "data.estimated_wait_minutes").Int())
	})

	s.Run("join rejects oversized parties", func() {
		w := s.request(router, "POST", "/api/v1/queues/join", s.CustomerToken, map[string]any{
			"establishment_id": id,
			"party_size":       21,
		})
		assert.Equal(s.T(), 400, w.Code)
	})

	s.Run("double join", func() {
		w := s.request(router, "POST", "/api/v1/queues/join", s.CustomerToken, map[string]any{"establishment_id": id})
		assert.Equal(s.T(), 409, w.Code)
	})

	s.Run("my queues", func() {
		w := s.request(router, "GET", "/api/v1/queues/my-queues", s.CustomerToken, nil)
		assert.Equal(s.T(), 200, w.Code)
		rbytes, _ := io.ReadAll(w.Body)
		assert.Equal(s.T(), int64(1), gjson.GetBytes(rbytes, "count").Int())
	})

	s.Run("establishment queue", func() {
		w := s.request(router, "GET", fmt.Sprintf("/api/v1/queues/establishment/%d", id), s.MerchantToken, nil)
		assert.Equal(s.T(), 200, w.Code)
		rbytes, _ := io.ReadAll(w.Body)
		assert.Equal(s.T(), int64(1), gjson.GetBytes(rbytes, "count").Int())
	})

	s.Run("customers cannot call next", func() {
		w := s.request(router, "POST", fmt.Sprintf("/api/v1/queues/establishment/%d/call-next", id), s.CustomerToken, nil)
		assert.Equal(s.T(), 403, w.Code)
	})

	s.Run("call next", func() {
		w := s.request(router, "POST", fmt.Sprintf("/api/v1/queues/establishment/%d/call-next", id), s.MerchantToken, nil)
		assert.Equal(s.T(), 200, w.Code)
		rbytes, _ := io.ReadAll(w.Body)
		assert.Equal(s.T(), "CALLED", gjson.GetBytes(rbytes, "data.status").String())
	})

	s.Run("call next on empty queue", func() {
		w := s.request(router, "POST", fmt.Sprintf("/api/v1/queues/establishment/%d/call-next", id), s.MerchantToken, nil)
		assert.Equal(s.T(), 409, w.Code)
	})

	s.Run("cancel after being called", func() {
		w := s.request(router, "PUT", fmt.Sprintf("/api/v1/queues/%d/cancel", entryID), s.CustomerToken, nil)
		assert.Equal(s.T(), 409, w.Code)
	})

	s.Run("finish", func() {
		w := s.request(router, "PUT", fmt.Sprintf("/api/v1/queues/%d/finish", entryID), s.MerchantToken, nil)
		assert.Equal(s.T(), 200, w.Code)
		rbytes, _ := io.ReadAll(w.Body)
		assert.Equal(s.T(), "FINISHED", gjson.GetBytes(rbytes, "data.status").String())
	})

	s.Run("cancel a fresh entry", func() {
		w := s.request(router, "POST", "/api/v1/queues/join", s.CustomerToken, map[string]any{"establishment_id": id})
		assert.Equal(s.T(), 201, w.Code)
		rbytes, _ := io.ReadAll(w.Body)
		freshID := gjson.GetBytes(rbytes, "data.id").Int()

		w = s.request(router, "PUT", fmt.Sprintf("/api/v1/queues/%d/cancel", freshID), s.MerchantToken, nil)
		assert.Equal(s.T(), 403, w.Code)

		w = s.request(router, "PUT", fmt.Sprintf("/api/v1/queues/%d/cancel", freshID), s.CustomerToken, nil)
		assert.Equal(s.T(), 200, w.Code)
		rbytes, _ = io.ReadAll(w.Body)
		assert.Equal(s.T(), "CANCELLED", gjson.GetBytes(rbytes, "data.status").String())
	})

	s.Run("notifications accumulate and mark read", func() {
		w := s.request(router, "GET", "/api/v1/notifications", s.CustomerToken, nil)
		assert.Equal(s.T(), 200, w.Code)
		rbytes, _ := io.ReadAll(w.Body)
		sjson := string(rbytes)
		assert.Greater(s.T(), gjson.Get(sjson, "count").Int(), int64(0))
		nid := gjson.Get(sjson, "data.0.id").String()

		w = s.request(router, "PUT", fmt.Sprintf("/api/v1/notifications/%s/read", nid), s.CustomerToken, nil)
		assert.Equal(s.T(), 204, w.Code)

		w = s.request(router, "PUT", fmt.Sprintf("/api/v1/notifications/%s/read", nid), s.MerchantToken, nil)
		assert.Equal(s.T(), 403, w.Code)
	})
}

func TestRunner(t *testing.T) {
	suite.Run(t, new(TestSuite))
}
