package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type MediaKind string

const (
	MediaText  MediaKind = "text"
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
	MediaAudio MediaKind = "audio"
)

func (k MediaKind) Valid() bool {
	switch k {
	case MediaText, MediaImage, MediaVideo, MediaAudio:
		return true
	}
	return false
}

type Submission struct {
	ID          uuid.UUID   `json:"id"`
	Title       string      `json:"title,omitempty"`
	Description string      `json:"description,omitempty"`
	RubricIDs   []uuid.UUID `json:"rubricIds"`
	Items       []MediaItem `json:"items"`
	BatchID     string      `json:"batchId,omitempty"`
	SubmittedAt time.Time   `json:"submittedAt"`
}

type MediaItem struct {
	Kind     MediaKind         `json:"kind"`
	Content  string            `json:"content"` // raw text or base64 payload
	Filename string            `json:"filename,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// ContentKey joins item payloads with '|' in submission order. It is the
// canonical scoring input, so item order matters.
func (s *Submission) ContentKey() string {
	parts := make([]string, len(s.Items))
	for i, item := range s.Items {
		parts[i] = item.Content
	}
	return strings.Join(parts, "|")
}
