package login

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage"
	"github.com/pquerna/otp/totp"
	"gorm.io/gorm"

	"github.com/growtools/growtools/internal/auth"
	"github.com/growtools/growtools/internal/config"
	"github.com/growtools/growtools/internal/db/models"
	websess "github.com/growtools/growtools/internal/web/session"
)

// noOpViews is a minimal Fiber Views engine used for tests.
// It writes the "error" field from the provided fiber.Map (if any), or a
// totp_step marker, so tests can assert what the handler rendered.
type noOpViews struct{}

func (noOpViews) Load() error { return nil }

func (noOpViews) Render(w io.Writer, name string, data interface{}, _ ...string) error {
	if m, ok := data.(fiber.Map); ok {
		if v, exists := m["error"]; exists && v != nil {
			_, _ = io.WriteString(w, v.(string))
			return nil
		}

		if v, exists := m["totp_step"]; exists && v == true {
			_, _ = io.WriteString(w, "totp_step")
			return nil
		}
	}

	// write template name to have some content
	_, _ = io.WriteString(w, name)

	return nil
}

func newTestApp() *fiber.App {
	return fiber.New(fiber.Config{Views: noOpViews{}})
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite in-memory db: %v", err)
	}

	if err := db.AutoMigrate(&models.Role{}, &models.User{}); err != nil {
		t.Fatalf("failed to migrate models: %v", err)
	}

	for _, name := range []string{models.RoleAdmin, models.RoleSubscriber} {
		if err := db.Create(&models.Role{Name: name, IsSystem: true}).Error; err != nil {
			t.Fatalf("failed to seed role %s: %v", name, err)
		}
	}

	return db
}

func newTestConfig() *config.Config {
	return &config.Config{
		DevMode: false,
		Webserver: config.Webserver{
			URL:     "http://localhost",
			Port:    3000,
			Session: config.Session{ExpiryTime: time.Minute},
		},
	}
}

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

func initSessionStore() {
	// Initialize a fresh in-memory session store for each test.
	websess.Init(&testStorage{data: make(map[string][]byte)})
}

func roleID(t *testing.T, db *gorm.DB, name string) uint {
	t.Helper()

	var role models.Role
	if err := db.Where(models.WhereNameIs, name).First(&role).Error; err != nil {
		t.Fatalf("failed to load role %s: %v", name, err)
	}

	return role.ID
}

func performPost(t *testing.T, app *fiber.App, target string, form url.Values) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}

	return resp
}

func TestPost_Subscriber_SetsCookieAndRedirects(t *testing.T) {
	db := newTestDB(t)
	cfg := newTestConfig()
	cfg.DevMode = false // Secure cookie expected

	app := newTestApp()

	initSessionStore()

	var s Service
	s.Init(app, cfg, db, auth.NewService(db))

	lp := auth.NewLocalProvider(db)
	if _, err := lp.CreateUser("bob", "bob@example.com", "s3cr3t", roleID(t, db, models.RoleSubscriber)); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	form := url.Values{
		"username": {"bob"},
		"password": {"s3cr3t"},
	}
	resp := performPost(t, app, Path, form)

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected 302 Found, got %d", resp.StatusCode)
	}

	if loc := resp.Header.Get("Location"); loc != "/dashboard" {
		t.Fatalf("expected redirect to /dashboard, got %s", loc)
	}

	setCookie := resp.Header.Get("Set-Cookie")
	if !strings.Contains(setCookie, "session=") {
		t.Fatalf("expected session cookie, got %q", setCookie)
	}

	if !strings.Contains(strings.ToLower(setCookie), "secure") {
		t.Fatalf("expected Secure flag on cookie when DevMode=false, got %q", setCookie)
	}
}

func TestPost_Admin_RedirectsToAdmin(t *testing.T) {
	db := newTestDB(t)
	cfg := newTestConfig()
	app := newTestApp()

	initSessionStore()

	var s Service
	s.Init(app, cfg, db, auth.NewService(db))

	lp := auth.NewLocalProvider(db)
	if _, err := lp.CreateUser("root", "root@example.com", "s3cr3t", roleID(t, db, models.RoleAdmin)); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	resp := performPost(t, app, Path, url.Values{
		"username": {"root"},
		"password": {"s3cr3t"},
	})

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected 302 Found, got %d", resp.StatusCode)
	}

	if loc := resp.Header.Get("Location"); loc != "/admin" {
		t.Fatalf("expected redirect to /admin, got %s", loc)
	}
}

func TestPost_DevModeDisablesSecure(t *testing.T) {
	db := newTestDB(t)
	cfg := newTestConfig()
	cfg.DevMode = true // Secure=false expected

	app := newTestApp()

	initSessionStore()

	var s Service
	s.Init(app, cfg, db, auth.NewService(db))

	lp := auth.NewLocalProvider(db)
	if _, err := lp.CreateUser("carol", "carol@example.com", "pass", roleID(t, db, models.RoleSubscriber)); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	resp := performPost(t, app, Path, url.Values{
		"username": {"carol"},
		"password": {"pass"},
	})

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected 302 Found, got %d", resp.StatusCode)
	}

	setCookie := resp.Header.Get("Set-Cookie")
	if strings.Contains(strings.ToLower(setCookie), "secure") {
		t.Fatalf("did not expect Secure flag when DevMode=true, got %q", setCookie)
	}
}

func TestPost_WrongPassword_RendersError(t *testing.T) {
	db := newTestDB(t)
	cfg := newTestConfig()
	app := newTestApp()

	initSessionStore()

	var s Service
	s.Init(app, cfg, db, auth.NewService(db))

	lp := auth.NewLocalProvider(db)
	if _, err := lp.CreateUser("dave", "dave@example.com", "right", roleID(t, db, models.RoleSubscriber)); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	resp := performPost(t, app, Path, url.Values{
		"username": {"dave"},
		"password": {"wrong"},
	})

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 OK on render error page, got %d", resp.StatusCode)
	}

	bodyBytes, _ := io.ReadAll(resp.Body)

	if !strings.Contains(string(bodyBytes), "Invalid username or password") {
		t.Fatalf("expected error message in body, got %q", string(bodyBytes))
	}

	if setCookie := resp.Header.Get("Set-Cookie"); strings.Contains(setCookie, "session=") {
		t.Fatalf("did not expect a session cookie, got %q", setCookie)
	}
}

func TestPost_TOTPStep(t *testing.T) {
	db := newTestDB(t)
	cfg := newTestConfig()
	app := newTestApp()

	initSessionStore()

	var s Service
	s.Init(app, cfg, db, auth.NewService(db))

	lp := auth.NewLocalProvider(db)

	user, err := lp.CreateUser("eve", "eve@example.com", "pass", roleID(t, db, models.RoleAdmin))
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	key, err := totp.Generate(totp.GenerateOpts{Issuer: "GrowTools", AccountName: "eve"})
	if err != nil {
		t.Fatalf("failed to generate TOTP key: %v", err)
	}

	code, err := totp.GenerateCode(key.Secret(), time.Now())
	if err != nil {
		t.Fatalf("failed to generate TOTP code: %v", err)
	}

	if err := lp.EnrollTOTP(user.ID, key.Secret(), code); err != nil {
		t.Fatalf("failed to enroll TOTP: %v", err)
	}

	// Correct password without a code asks for the second factor.
	resp := performPost(t, app, Path, url.Values{
		"username": {"eve"},
		"password": {"pass"},
	})

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 OK for TOTP step, got %d", resp.StatusCode)
	}

	bodyBytes, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()

	if !strings.Contains(string(bodyBytes), "totp_step") {
		t.Fatalf("expected TOTP step render, got %q", string(bodyBytes))
	}

	// A wrong code is rejected.
	resp = performPost(t, app, Path, url.Values{
		"username":  {"eve"},
		"password":  {"pass"},
		"totp_code": {"000000"},
	})

	bodyBytes, _ = io.ReadAll(resp.Body)
	_ = resp.Body.Close()

	if !strings.Contains(string(bodyBytes), "Invalid one-time code") {
		t.Fatalf("expected invalid code message, got %q", string(bodyBytes))
	}

	// The current code completes the login.
	code, err = totp.GenerateCode(key.Secret(), time.Now())
	if err != nil {
		t.Fatalf("failed to generate TOTP code: %v", err)
	}

	resp = performPost(t, app, Path, url.Values{
		"username":  {"eve"},
		"password":  {"pass"},
		"totp_code": {code},
	})

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected 302 Found after TOTP login, got %d", resp.StatusCode)
	}

	if loc := resp.Header.Get("Location"); loc != "/admin" {
		t.Fatalf("expected redirect to /admin, got %s", loc)
	}
}
