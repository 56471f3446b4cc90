// Package auth provides authentication and authorization functionality for the application.
//
// Two authentication sources are supported:
//   - Local database authentication with Argon2id password hashing, with an
//     optional TOTP second factor for accounts that have one enrolled
//   - OpenID Connect (OIDC) authentication with an external identity
//     provider, intended for administrator single sign-on
//
// # Authorization
//
// Authorization is deliberately simple: a user either holds the admin role
// or the subscriber role. Administrators manage the catalog, settings and
// stored tool credentials; subscribers see the storefront, their dashboard
// and the extension downloads. There is no permission matrix.
//
// The Service type answers role questions (IsAdmin, RoleName) and resolves
// the current user from the session cookie.
//
// # Middleware
//
// Fiber middleware functions are provided for route protection:
//   - RequireUser: the request must carry a valid session
//   - RequireAdmin: the session's user must hold the admin role
//
// Both return JSON errors, which suits the API routes they guard. Page
// routes use redirects instead, handled in the web package.
//
// Example usage:
//
//	authService := auth.NewService(db)
//
//	app.Post("/api/admin/tools",
//	    auth.RequireAdmin(authService),
//	    handler,
//	)
package auth
