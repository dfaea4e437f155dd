// Package websocket pushes build events to open preview pages.
//
// The Hub owns the client set and fans out messages; each Client runs a read
// pump and a write pump over its connection. Pages reload on a "reload"
// message and show an overlay on "build_error".
package websocket
