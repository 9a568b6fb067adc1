// Package store keeps named templates in a directory and reads and writes
// the global configuration file.
package store
