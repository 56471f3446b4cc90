package web

import (
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
	"github.com/growtools/growtools/internal/db/models"
	"github.com/growtools/growtools/internal/web/session"
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

// newAuthTestApp builds a bare Fiber app with only the page access control
// middleware and plain-text routes, so redirects can be asserted without the
// full template stack.
func newAuthTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	session.Init(&testStorage{data: make(map[string][]byte)})

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Role{}, &models.User{}))

	require.NoError(t, db.Create(&models.Role{Name: models.RoleAdmin, IsSystem: true}).Error)
	require.NoError(t, db.Create(&models.Role{Name: models.RoleSubscriber, IsSystem: true}).Error)

	app := fiber.New()
	app.Use(PageAuth(auth.NewService(db)))

	for _, path := range []string{"/", "/login", "/dashboard", "/admin", "/checkout/slug", "/payment/ref", "/tool/slug"} {
		app.Get(path, func(c *fiber.Ctx) error {
			return c.SendString("ok")
		})
	}

	return app, db
}

func newSessionFor(t *testing.T, db *gorm.DB, roleName string) string {
	t.Helper()

	var role models.Role
	require.NoError(t, db.Where(models.WhereNameIs, roleName).First(&role).Error)

	user := &models.User{
		Active:   true,
		Username: roleName + "-user",
		Email:    roleName + "@example.com",
		RoleID:   role.ID,
	}
	require.NoError(t, db.Create(user).Error)

	sessionID, err := session.GenerateSessionID()
	require.NoError(t, err)

	data := &session.Data{User: *user}
	require.NoError(t, data.Write(sessionID, time.Minute))

	return sessionID
}

func getPage(t *testing.T, app *fiber.App, target, sessionID string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: "session", Value: sessionID})
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	defer func() {
		_ = resp.Body.Close()
	}()

	return resp
}

func TestPageAuth_RedirectMatrix(t *testing.T) {
	app, db := newAuthTestApp(t)

	subscriberSession := newSessionFor(t, db, models.RoleSubscriber)
	adminSession := newSessionFor(t, db, models.RoleAdmin)

	tests := []struct {
		name     string
		target   string
		session  string
		wantCode int
		wantLoc  string
	}{
		{"anonymous storefront passes", "/", "", http.StatusOK, ""},
		{"anonymous tool page passes", "/tool/slug", "", http.StatusOK, ""},
		{"anonymous login passes", "/login", "", http.StatusOK, ""},
		{"anonymous dashboard redirects to login", "/dashboard", "", http.StatusFound, "/login"},
		{"anonymous admin redirects to login", "/admin", "", http.StatusFound, "/login"},
		{"anonymous checkout redirects to login", "/checkout/slug", "", http.StatusFound, "/login"},
		{"anonymous payment redirects to login", "/payment/ref", "", http.StatusFound, "/login"},
		{"subscriber dashboard passes", "/dashboard", subscriberSession, http.StatusOK, ""},
		{"subscriber checkout passes", "/checkout/slug", subscriberSession, http.StatusOK, ""},
		{"subscriber admin redirects to dashboard", "/admin", subscriberSession, http.StatusFound, "/dashboard"},
		{"subscriber login redirects to dashboard", "/login", subscriberSession, http.StatusFound, "/dashboard"},
		{"admin admin passes", "/admin", adminSession, http.StatusOK, ""},
		{"admin dashboard redirects to admin", "/dashboard", adminSession, http.StatusFound, "/admin"},
		{"admin login redirects to admin", "/login", adminSession, http.StatusFound, "/admin"},
		{"stale cookie on dashboard redirects to login", "/dashboard", "deadbeef", http.StatusFound, "/login"},
		{"stale cookie on storefront passes", "/", "deadbeef", http.StatusOK, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := getPage(t, app, tc.target, tc.session)

			assert.Equal(t, tc.wantCode, resp.StatusCode)
			if tc.wantLoc != "" {
				assert.Equal(t, tc.wantLoc, resp.Header.Get("Location"))
			}
		})
	}
}
