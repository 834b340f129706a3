// Package storage defines the workspace file-system abstraction.
package storage

import "github.com/CynaCons/OpenT-A2L-Forge/internal/models"

// Provider is the interface for workspace file operations. Every path is
// relative to the workspace root.
type Provider interface {
	// List returns every file under dir whose extension is one of exts
	// (case-insensitive), sorted by path.
	List(dir string, exts ...string) ([]models.FileInfo, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path.
	Write(path string, content []byte) error
	// Abs resolves path to an absolute file-system path inside the root.
	Abs(path string) (string, error)
}
