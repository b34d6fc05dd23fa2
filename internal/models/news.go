package models

import "time"

// HeadlineDocument is the indexed form of a headline stored in Elasticsearch.
type HeadlineDocument struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	Link      string    `json:"link"`
	Timestamp time.Time `json:"timestamp"`
	Keywords  []string  `json:"keywords"`
	Source    string    `json:"source"`
}

// Headline converts the document back into a search hit.
func (d HeadlineDocument) Headline() NewsHeadline {
	return NewsHeadline{
		Title:     d.Title,
		Link:      d.Link,
		Published: d.Timestamp,
		Source:    d.Source,
	}
}
