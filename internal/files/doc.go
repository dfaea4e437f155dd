// Package files provides the file system operations of the site builder.
//
// Manager resolves paths against the site directory. It answers existence
// checks for referenced assets such as replays, and it writes generated
// documents atomically so that readers never observe a partially written page.
//
// Example usage:
//
//	manager := files.NewManager("/srv/site")
//
//	if manager.Exists("replays/run.osr") {
//	    // link the replay
//	}
//
//	err := manager.WriteFileAtomic("index.html", page)
package files
