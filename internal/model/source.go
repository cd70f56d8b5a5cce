// Package model defines the data structures shared by the style-check engine.
package model

// Path represents a file system path.
type Path string

// Digest is a hex-encoded content fingerprint. Only equality is meaningful.
type Digest string

// File represents an eligible source file and its current content digest.
type File struct {
	Path Path
	Hash Digest
}

// Candidate is the change-detection verdict for one eligible file.
type Candidate struct {
	File     File
	Previous Digest // empty when the registry had no entry
	Changed  bool
}
