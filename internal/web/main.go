// Package web wires the Fiber application: templates, static files, page
// access control and the handler services.
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/template/html/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/growtools/growtools/internal/auth"
	"github.com/growtools/growtools/internal/config"
	loggerfiber "github.com/growtools/growtools/internal/logger/adapter/fiber"
	"github.com/growtools/growtools/internal/web/handler/admin"
	"github.com/growtools/growtools/internal/web/handler/api/admin/bundleapi"
	"github.com/growtools/growtools/internal/web/handler/api/admin/screenshotapi"
	"github.com/growtools/growtools/internal/web/handler/api/admin/settingapi"
	"github.com/growtools/growtools/internal/web/handler/api/admin/toolapi"
	"github.com/growtools/growtools/internal/web/handler/api/configapi"
	"github.com/growtools/growtools/internal/web/handler/api/extensionapi"
	"github.com/growtools/growtools/internal/web/handler/checkout"
	"github.com/growtools/growtools/internal/web/handler/dashboard"
	"github.com/growtools/growtools/internal/web/handler/login"
	"github.com/growtools/growtools/internal/web/handler/logout"
	"github.com/growtools/growtools/internal/web/handler/oidclogin"
	"github.com/growtools/growtools/internal/web/handler/storefront"
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	db           *gorm.DB
	authService  *auth.Service
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for graceful shutdown of the web service.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		err := s.App.Shutdown()
		if err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, db *gorm.DB) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	httpFS := http.FS(templateEmbedFS{embeddedTemplates})
	templateEngine := html.NewFileSystem(httpFS, ".gohtml")

	// in dev mode, use local filesystem for templates
	if cfg.DevMode {
		templateEngine = html.New("./internal/web/templates", ".gohtml")
		templateEngine.ShouldReload = true

		log.Warn().Msg("dev mode enabled: using local filesystem for templates")
	}

	templateEngine.AddFunc("add", func(a, b int) int {
		return a + b
	})
	templateEngine.AddFunc("price", func(v float64) string {
		return strconv.FormatFloat(v, 'f', 2, 64)
	})

	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			Views:          templateEngine,
		},
	)

	// access logging
	app.Use(loggerfiber.New(loggerfiber.Config{
		Config:        cfg.Log,
		CheckAliveURI: "/checkalive",
	}))

	// serve embedded static files
	app.Use("/static",
		filesystem.New(
			filesystem.Config{
				Root:       http.FS(embeddedStaticFiles),
				PathPrefix: "static",
				Browse:     cfg.Webserver.BrowseStatic,
			},
		),
	)

	authService := auth.NewService(db)

	// page access control (API routes carry their own guards)
	app.Use(PageAuth(authService))

	service := &Service{
		cfg:         cfg,
		App:         app,
		db:          db,
		authService: authService,
	}

	service.alive.Store(true)

	// liveness endpoint for load balancers, flips to 503 during shutdown
	app.Get("/checkalive", func(c *fiber.Ctx) error {
		if !service.alive.Load() {
			return c.SendStatus(fiber.StatusServiceUnavailable)
		}

		return c.SendString("OK")
	})

	// init handlers (they register their own routes)
	login.Handler.Init(app, cfg, db, authService)
	logout.Handler.Init(app, cfg, db, authService)
	oidclogin.Handler.Init(app, cfg, db, authService)
	storefront.Handler.Init(app, cfg, db, authService)
	checkout.Handler.Init(app, cfg, db, authService)
	dashboard.Handler.Init(app, cfg, db, authService)
	admin.Handler.Init(app, cfg, db, authService)
	configapi.Handler.Init(app, cfg, db, authService)
	toolapi.Handler.Init(app, cfg, db, authService)
	bundleapi.Handler.Init(app, cfg, db, authService)
	screenshotapi.Handler.Init(app, cfg, db, authService)
	settingapi.Handler.Init(app, cfg, db, authService)
	extensionapi.Handler.Init(app, cfg, db, authService)

	return service
}
