package entity

import (
	"encoding/json"
	"time"
)

// Roadmap is a generated career roadmap saved by a user.
// Content is the generator's document stored verbatim as JSON; the shape
// `{title, stages:[...]}` is trusted, not validated here.
// Records are immutable after creation.
type Roadmap struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Title     string          `json:"title"`
	Content   json.RawMessage `json:"content"`
	CreatedAt time.Time       `json:"created_at"`
}

// StageNames pulls the stage names out of Content for search indexing.
// A document without the expected shape yields an empty slice.
func (r *Roadmap) StageNames() []string {
	var doc struct {
		Stages []struct {
			Name string `json:"name"`
		} `json:"stages"`
	}
	if err := json.Unmarshal(r.Content, &doc); err != nil {
		return nil
	}
	names := make([]string, 0, len(doc.Stages))
	for _, s := range doc.Stages {
		if s.Name != "" {
			names = append(names, s.Name)
		}
	}
	return names
}
