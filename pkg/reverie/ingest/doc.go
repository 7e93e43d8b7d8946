package ingest

import (
	"errors"
	"strings"
)

// DefaultTitle replaces a blank entry title.
const DefaultTitle = "Untitled"

// Doc is a journal entry's text fields as seen by the analytics engine.
type Doc struct {
	Title string
	Text  string
	Tags  string
}

// Normalize trims every field and fills in the default title.
func (d *Doc) Normalize() {
	d.Title = strings.TrimSpace(d.Title)
	d.Text = strings.TrimSpace(d.Text)
	d.Tags = strings.TrimSpace(d.Tags)
	if d.Title == "" {
		d.Title = DefaultTitle
	}
}

// Validate checks if the document has required fields
func (d *Doc) Validate() error {
	if strings.TrimSpace(d.Text) == "" {
		return errors.New("entry text is required")
	}
	return nil
}

// Searchable joins title, text and tags into the string indexed for search
// and clustering.
func (d Doc) Searchable() string {
	return d.Title + " " + d.Text + " " + d.Tags
}
