package toolapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/growtools/growtools/internal/auth"
	"github.com/growtools/growtools/internal/config"
	"github.com/growtools/growtools/internal/cookievault"
	"github.com/growtools/growtools/internal/db/models"
	websess "github.com/growtools/growtools/internal/web/session"
)

// testStorage is a minimal in-memory implementation of storage.Storage for tests.
type testStorage struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ storage.Storage = (*testStorage)(nil)

func (s *testStorage) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v := s.data[key]
	out := make([]byte, len(v))
	copy(out, v)

	return out, nil
}

func (s *testStorage) Set(key string, val []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		s.data = make(map[string][]byte)
	}

	buf := make([]byte, len(val))
	copy(buf, val)
	s.data[key] = buf

	return nil
}

func (s *testStorage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)

	return nil
}

func (s *testStorage) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = make(map[string][]byte)

	return nil
}

func (s *testStorage) Close() error { return nil }

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Role{}, &models.User{}, &models.Tool{}, &models.ToolCredential{},
	))

	require.NoError(t, db.Create(&models.Role{Name: models.RoleAdmin, IsSystem: true}).Error)
	require.NoError(t, db.Create(&models.Role{Name: models.RoleSubscriber, IsSystem: true}).Error)

	return db
}

func newTestConfig() *config.Config {
	return &config.Config{
		Webserver: config.Webserver{
			CookiePassphrase: "test-passphrase",
			Session:          config.Session{ExpiryTime: time.Minute},
		},
	}
}

func seedUser(t *testing.T, db *gorm.DB, roleName, username string) *models.User {
	t.Helper()

	var role models.Role
	require.NoError(t, db.Where(models.WhereNameIs, roleName).First(&role).Error)

	user := &models.User{
		Active:   true,
		Username: username,
		Email:    username + "@example.com",
		Password: models.HashPassword("secret"),
		RoleID:   role.ID,
	}
	require.NoError(t, db.Create(user).Error)

	return user
}

// newSession writes a session for the user and returns the session ID to be
// used as the cookie value.
func newSession(t *testing.T, user *models.User) string {
	t.Helper()

	sessionID, err := websess.GenerateSessionID()
	require.NoError(t, err)

	data := &websess.Data{User: *user}
	require.NoError(t, data.Write(sessionID, time.Minute))

	return sessionID
}

func newTestService(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	websess.Init(&testStorage{data: make(map[string][]byte)})

	db := newTestDB(t)
	app := fiber.New()

	var s Service
	s.Init(app, newTestConfig(), db, auth.NewService(db))

	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, target, sessionID string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")

	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: "session", Value: sessionID})
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()

	defer func() {
		_ = resp.Body.Close()
	}()

	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestCreate_RequiresAdminSession(t *testing.T) {
	app, db := newTestService(t)

	body := fiber.Map{"name": "ToolA", "slug": "tool-a", "priceMonthly": 9.99}

	// No session at all.
	resp := doJSON(t, app, http.MethodPost, Path, "", body)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// A subscriber session is rejected the same way.
	sub := seedUser(t, db, models.RoleSubscriber, "sub")
	resp = doJSON(t, app, http.MethodPost, Path, newSession(t, sub), body)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCreate_Success(t *testing.T) {
	app, db := newTestService(t)
	admin := seedUser(t, db, models.RoleAdmin, "admin")
	sessionID := newSession(t, admin)

	resp := doJSON(t, app, http.MethodPost, Path, sessionID, fiber.Map{
		"name":         "ChatTool",
		"slug":         "chat-tool",
		"category":     "writing",
		"priceMonthly": 19.99,
		"isActive":     true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.Tool
	decodeBody(t, resp, &created)

	assert.NotZero(t, created.ID)
	assert.Equal(t, "ChatTool", created.Name)
	assert.Equal(t, "chat-tool", created.Slug)
	assert.InDelta(t, 19.99, created.PriceMonthly, 0.001)
}

func TestCreate_DuplicateSlug(t *testing.T) {
	app, db := newTestService(t)
	admin := seedUser(t, db, models.RoleAdmin, "admin")
	sessionID := newSession(t, admin)

	body := fiber.Map{"name": "ToolA", "slug": "tool-a", "priceMonthly": 5.0}

	resp := doJSON(t, app, http.MethodPost, Path, sessionID, body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, Path, sessionID, body)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errBody map[string]string
	decodeBody(t, resp, &errBody)
	assert.Equal(t, ErrMsgDuplicateSlug, errBody["error"])
}

func TestCreate_NegativePriceRejected(t *testing.T) {
	app, db := newTestService(t)
	admin := seedUser(t, db, models.RoleAdmin, "admin")

	resp := doJSON(t, app, http.MethodPost, Path, newSession(t, admin), fiber.Map{
		"name":         "ToolA",
		"slug":         "tool-a",
		"priceMonthly": -1.0,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestGet_NotFound(t *testing.T) {
	app, db := newTestService(t)
	admin := seedUser(t, db, models.RoleAdmin, "admin")

	resp := doJSON(t, app, http.MethodGet, Path+"/9999", newSession(t, admin), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestDelete(t *testing.T) {
	app, db := newTestService(t)
	admin := seedUser(t, db, models.RoleAdmin, "admin")
	sessionID := newSession(t, admin)

	resp := doJSON(t, app, http.MethodPost, Path, sessionID, fiber.Map{
		"name": "ToolA", "slug": "tool-a", "priceMonthly": 5.0,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.Tool
	decodeBody(t, resp, &created)

	resp = doJSON(t, app, http.MethodDelete, Path+"/1", sessionID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, Path+"/1", sessionID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestCookies_RoundTrip(t *testing.T) {
	app, db := newTestService(t)
	admin := seedUser(t, db, models.RoleAdmin, "admin")
	sessionID := newSession(t, admin)

	resp := doJSON(t, app, http.MethodPost, Path, sessionID, fiber.Map{
		"name": "ToolA", "slug": "tool-a", "priceMonthly": 5.0,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	// No cookies stored yet: empty list, not an error.
	resp = doJSON(t, app, http.MethodGet, Path+"/1/cookies", sessionID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cookies []cookievault.Cookie
	decodeBody(t, resp, &cookies)
	assert.Empty(t, cookies)

	stored := []cookievault.Cookie{
		{Name: "sessionid", Value: "abc123", Domain: ".example.com", Path: "/", Secure: true},
		{Name: "csrftoken", Value: "tok", Domain: ".example.com", Path: "/"},
	}

	resp = doJSON(t, app, http.MethodPut, Path+"/1/cookies", sessionID, stored)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var putResult map[string]int
	decodeBody(t, resp, &putResult)
	assert.Equal(t, len(stored), putResult["stored"])

	resp = doJSON(t, app, http.MethodGet, Path+"/1/cookies", sessionID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	decodeBody(t, resp, &cookies)
	assert.Equal(t, stored, cookies)
}

func TestPutCookies_ToolMissing(t *testing.T) {
	app, db := newTestService(t)
	admin := seedUser(t, db, models.RoleAdmin, "admin")

	resp := doJSON(t, app, http.MethodPut, Path+"/42/cookies", newSession(t, admin),
		[]cookievault.Cookie{{Name: "a", Value: "b"}})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()
}
