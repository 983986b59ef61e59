// Package httpapi exposes the login flows over HTTP.
//
// Routes:
//
//	GET  /oauth/{provider}/login     302 to the provider consent page
//	GET  /oauth/{provider}/callback  completes an OAuth login
//	POST /auth/login                 direct login for an existing account
//	POST /auth/refresh               exchanges a refresh token for a new pair
//	GET  /api/me                     current account (Bearer access token)
//	PUT  /api/me                     renames the current account
//	GET  /health/live, /health/ready
//
// Failed flows answer {"error": kind, "stage": stage}.
package httpapi
