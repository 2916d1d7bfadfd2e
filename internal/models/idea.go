package models

import "time"

// IdeaSource identifies this client in submitted ideas.
const IdeaSource = "desktop_app"

// IdeaRecord is a captured idea as sent to the backend.
type IdeaRecord struct {
	Content   string `json:"content"`
	Source    string `json:"source"`
	Timestamp string `json:"timestamp"` // RFC 3339, UTC
}

// NewIdeaRecord stamps content with the given capture time.
func NewIdeaRecord(content string, at time.Time) IdeaRecord {
	return IdeaRecord{
		Content:   content,
		Source:    IdeaSource,
		Timestamp: at.UTC().Format(time.RFC3339),
	}
}
