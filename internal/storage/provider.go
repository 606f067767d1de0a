// Package storage defines the course output file-system abstraction.
package storage

// Provider is the interface for course output file operations. All paths
// are relative to the output base directory.
type Provider interface {
	// List returns the relative paths of every content file under dir.
	List(dir string) ([]string, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path, creating parent
	// directories as needed.
	Write(path string, content []byte) error
}
