package organizer

import "errors"

var (
	// ErrCollision indicates the destination path is occupied by a
	// different file. The source is never overwritten.
	ErrCollision = errors.New("destination occupied by a different file")

	// ErrMoveFailed indicates the file relocation failed.
	ErrMoveFailed = errors.New("failed to move file")

	// ErrPathTraversal indicates a destination path would escape its root.
	ErrPathTraversal = errors.New("path traversal detected")

	// ErrUntagged indicates the music tagger could not classify a unit.
	ErrUntagged = errors.New("music unit not tagged")
)
