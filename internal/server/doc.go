// Package server provides HTTP routing, middleware, and the MusicKit
// authorization flow used during setup.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Authorization Handler
//
// [AuthorizeHandler] drives the one-time Apple Music user authorization.
// It serves a local page that configures MusicKit JS with a freshly minted
// developer token, the user signs in with their Apple ID, and the page posts
// the resulting Music User Token back to /save_token. The handler delivers
// the token through a channel and accepts only one submission.
//
// When the user runs the setup command, a temporary HTTP server starts on
// localhost:8888, collects the token, and shuts down.
package server
