package settingapi

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

func newTestService(t *testing.T) (*fiber.App, string) {
	t.Helper()

	websess.Init(&testStorage{data: make(map[string][]byte)})

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Role{}, &models.User{}, &models.AppSetting{}))

	adminRole := models.Role{Name: models.RoleAdmin, IsSystem: true}
	require.NoError(t, db.Create(&adminRole).Error)

	admin := models.User{
		Active:   true,
		Username: "admin",
		Email:    "admin@example.com",
		RoleID:   adminRole.ID,
	}
	require.NoError(t, db.Create(&admin).Error)

	sessionID, err := websess.GenerateSessionID()
	require.NoError(t, err)

	data := &websess.Data{User: admin}
	require.NoError(t, data.Write(sessionID, time.Minute))

	app := fiber.New()

	var s Service
	s.Init(app, &config.Config{}, db, auth.NewService(db))

	return app, sessionID
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

func TestSettings_CRUD(t *testing.T) {
	app, sessionID := newTestService(t)

	// Unknown key is a 404.
	resp := doJSON(t, app, http.MethodGet, Path+"/telegram_link", sessionID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()

	// Upsert a value.
	resp = doJSON(t, app, http.MethodPut, Path+"/telegram_link", sessionID,
		fiber.Map{"value": "https://t.me/growtools"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	// Read it back.
	resp = doJSON(t, app, http.MethodGet, Path+"/telegram_link", sessionID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var setting models.AppSetting
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&setting))
	_ = resp.Body.Close()

	require.NotNil(t, setting.Value)
	assert.Equal(t, "https://t.me/growtools", *setting.Value)

	// Setting a null value keeps the key but clears the value.
	resp = doJSON(t, app, http.MethodPut, Path+"/telegram_link", sessionID,
		fiber.Map{"value": nil})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, Path+"/telegram_link", sessionID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	setting = models.AppSetting{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&setting))
	_ = resp.Body.Close()
	assert.Nil(t, setting.Value)

	// Delete removes the key.
	resp = doJSON(t, app, http.MethodDelete, Path+"/telegram_link", sessionID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, Path+"/telegram_link", sessionID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestSettings_RequireAdmin(t *testing.T) {
	app, _ := newTestService(t)

	resp := doJSON(t, app, http.MethodGet, Path, "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	_ = resp.Body.Close()
}
