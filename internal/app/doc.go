// Package app wires the record history components into the two programs.
//
// Builder runs one batch build: validate paths, load the sheet, render the
// document, write it atomically, then the optional CSV mirror and PNG
// snapshot. Each step runs in its own span and fails with a typed AppError.
//
// Preview keeps the latest build in memory, rebuilds when the input file
// changes and serves the page with a live reload script:
//
//	watcher ──> Builder.Render ──> buildStore ──> HTTP handlers
//	                         └──> websocket hub ──> open pages reload
//
// The watcher, the hub and the HTTP server run in one errgroup; cancelling
// the context stops all three.
package app
