package scanner

import (
	"path/filepath"
	"strings"
)

// Recognized extensions per media category.
var (
	videoExtensions = map[string]struct{}{
		".mkv": {}, ".mp4": {}, ".avi": {}, ".mov": {}, ".wmv": {},
		".flv": {}, ".webm": {}, ".m4v": {},
	}
	audioExtensions = map[string]struct{}{
		".mp3": {}, ".flac": {}, ".wav": {}, ".m4a": {}, ".ogg": {},
		".wma": {}, ".aac": {},
	}
	subtitleExtensions = map[string]struct{}{
		".srt": {}, ".vtt": {}, ".sub": {}, ".ass": {}, ".ssa": {}, ".idx": {},
	}
	// Non-subtitle sidecars that follow their primary file around.
	sidecarExtensions = map[string]struct{}{
		".nfo": {}, ".jpg": {}, ".jpeg": {}, ".png": {},
	}
)

func ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// IsVideo reports whether the path has a recognized video extension.
func IsVideo(path string) bool {
	_, ok := videoExtensions[ext(path)]
	return ok
}

// IsAudio reports whether the path has a recognized audio extension.
func IsAudio(path string) bool {
	_, ok := audioExtensions[ext(path)]
	return ok
}

// IsSubtitle reports whether the path has a recognized subtitle extension.
func IsSubtitle(path string) bool {
	_, ok := subtitleExtensions[ext(path)]
	return ok
}

// IsSidecar reports whether the path is a sidecar: a subtitle, or a
// metadata/image companion file.
func IsSidecar(path string) bool {
	if IsSubtitle(path) {
		return true
	}
	_, ok := sidecarExtensions[ext(path)]
	return ok
}

// IsMedia reports whether the path is a primary media file (video or audio).
func IsMedia(path string) bool {
	return IsVideo(path) || IsAudio(path)
}

// isSample reports whether a video file looks like a release sample.
func isSample(path string) bool {
	return strings.Contains(strings.ToLower(filepath.Base(path)), "sample")
}
