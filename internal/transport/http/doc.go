// Package http implements the HTTP handlers of the live preview server.
// Handlers stay thin: they read the latest build from a BuildStore and
// format it, leaving loading and rendering to the app package.
//
// # Routes
//
//	GET /             latest page with the live reload script injected
//	GET /api/rows     rendered rows, warnings and stats as JSON
//	GET /api/health   server and last build status
//	GET /metrics      Prometheus exposition of the build metrics
//	GET /ws           WebSocket endpoint for reload notifications
//	GET /*            static assets (style.css, icons, jackets, replays)
//
// Errors are rendered as errors.APIError through chi/render.
package http
