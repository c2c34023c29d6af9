package organizer

import "github.com/vmunix/sortarr/internal/media"

// Tagger classifies music units. It returns a mapping from each source
// file path to its destination path relative to the music root.
// Implementations wrap external tagging tools; ErrUntagged means the
// unit could not be classified and should go to review.
type Tagger interface {
	Tag(unit *media.Unit) (map[string]string, error)
}

// NoopTagger declines every unit. It is the default when no external
// tagging tool is configured, leaving music for manual review.
type NoopTagger struct{}

func (NoopTagger) Tag(*media.Unit) (map[string]string, error) {
	return nil, ErrUntagged
}
