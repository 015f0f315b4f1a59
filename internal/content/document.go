package content

// Document is one loosely-structured record from the content API.
// Upstream occasionally serializes absent fields as the literal strings
// "undefined" or "null"; Summary scrubs those.
type Document struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	URL      string `json:"url"`
	ImageURL string `json:"imageUrl"`
}

// PublicationSummary is the cleaned composition input derived from one
// document. It is never cached or persisted.
type PublicationSummary struct {
	Title    string
	Subtitle string
	URL      string
	ImageURL string
}

// Summary maps the raw document to a cleaned summary with empty-string
// substitution for absent or junk field values.
func (d Document) Summary() PublicationSummary {
	return PublicationSummary{
		Title:    cleanField(d.Title),
		Subtitle: cleanField(d.Subtitle),
		URL:      cleanField(d.URL),
		ImageURL: cleanField(d.ImageURL),
	}
}

func cleanField(s string) string {
	switch s {
	case "undefined", "null":
		return ""
	default:
		return s
	}
}
