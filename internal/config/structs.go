package config

import (
	"time"

	"github.com/growtools/growtools/internal/logger"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	Extension Extension
	OIDC      OIDC
}

// Webserver implement webserver settings.
type Webserver struct {
	BrowseStatic     bool    // enable static file browsing (for development purposes only)
	CleanPath        bool    // use clean path middleware to allow multi slash requests
	DisableRecover   bool    // disable recover middleware
	Domain           string  // domain name for the webserver
	Port             int     // listening port for the webserver
	ShutDownTime     int     // wait time for shutdown
	URL              string  // base url for the webserver
	CookiePassphrase string  // passphrase for the tool credential vault
	Session          Session // session settings
}

// Extension holds settings for the companion browser extension.
type Extension struct {
	ArtifactPath      string // path to the user extension zip build
	AdminArtifactPath string // path to the admin extension zip build
	DashboardURL      string // dashboard url baked into the extension popup
}

// OIDC holds OpenID Connect settings for admin single sign-on.
type OIDC struct {
	Enabled      bool
	ProviderURL  string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
	AdminGroup   string // provider group granting the admin role
}
