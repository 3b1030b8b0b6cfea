// Package config loads and watches the editor's TOML configuration.
//
// A missing config file is not an error; defaults apply. A malformed
// file is an error so a typo never silently resets the editor. The
// Watcher reloads the file on change with debouncing, since editors
// that save atomically produce several filesystem events per write.
package config
