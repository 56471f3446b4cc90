// Package extensionapi serves the browser extension endpoints: the zip
// artifact downloads and the decrypted cookie lists the extension injects.
package extensionapi

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/growtools/growtools/internal/auth"
	"github.com/growtools/growtools/internal/config"
	"github.com/growtools/growtools/internal/cookievault"
	"github.com/growtools/growtools/internal/db/controller/credential"
	"github.com/growtools/growtools/internal/db/controller/tool"
	"github.com/growtools/growtools/internal/web/handler"
)

const (
	// Path is the path prefix for the extension endpoints.
	Path = "/api/extension"

	// ErrMsgArtifactMissing is the user-facing message when a build is not
	// on disk.
	ErrMsgArtifactMissing = "Extension build is not available. Please contact support."
)

// Service is the extension API handler service.
type Service struct {
	handler.Service
	cfg   *config.Config
	db    *gorm.DB
	vault *cookievault.Vault
}

// Handler is the extension API handler.
var Handler = Service{}

// Init initializes the extension API handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg
	s.vault = cookievault.New(cfg.Webserver.CookiePassphrase)

	app.Get(Path+"/download", auth.RequireUser(), s.Download)
	app.Get(Path+"/admin-download", auth.RequireAdmin(authService), s.AdminDownload)
	app.Get(Path+"/cookies/:slug", auth.RequireUser(), s.Cookies)
}

// Download streams the subscriber extension zip.
func (s *Service) Download(c *fiber.Ctx) error {
	return s.sendArtifact(c, s.cfg.Extension.ArtifactPath)
}

// AdminDownload streams the admin extension zip.
func (s *Service) AdminDownload(c *fiber.Ctx) error {
	return s.sendArtifact(c, s.cfg.Extension.AdminArtifactPath)
}

// sendArtifact streams a zip build as an attachment, or answers 404 with a
// support-contact message when the file is missing.
func (s *Service) sendArtifact(c *fiber.Ctx, path string) error {
	if path == "" {
		return artifactMissing(c, path)
	}

	if _, err := os.Stat(path); err != nil {
		return artifactMissing(c, path)
	}

	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filepath.Base(path)+`"`)
	c.Set(fiber.HeaderContentType, "application/zip")

	return c.SendFile(path)
}

func artifactMissing(c *fiber.Ctx, path string) error {
	log.Warn().Str("path", path).Msg("extension artifact missing")

	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": ErrMsgArtifactMissing,
	})
}

// Cookies returns the decrypted session cookies for an active tool. Any
// failure short of a broken database degrades to an empty list, so the
// extension never has to handle a decryption error.
func (s *Service) Cookies(c *fiber.Ctx) error {
	slug := c.Params("slug")

	t, err := tool.GetBySlug(s.db, slug)
	if err != nil {
		if errors.Is(err, tool.ErrToolNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Tool not found",
			})
		}

		log.Error().Err(err).Str("slug", slug).Msg("failed to load tool for cookie fetch")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal Server Error",
		})
	}

	if !t.IsActive {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Tool not found",
		})
	}

	cred, err := credential.Get(s.db, t.ID)
	if err != nil {
		if !errors.Is(err, credential.ErrCredentialNotFound) {
			log.Error().Err(err).Uint64("tool_id", t.ID).Msg("failed to load cookie blob")
		}

		return c.JSON([]cookievault.Cookie{})
	}

	return c.JSON(s.vault.Decrypt(cred.Blob))
}
