// Package carrier defines the social-media artifact that hides the payload:
// a post, its attached search-result documents, a rooted comment forest, and
// a per-document list of editorial angles. It also normalizes the two input
// shapes the upstream pipeline is known to emit (see ParseRecord and
// ParsePayload) into a single canonical form, so every other package
// operates on one shape only.
package carrier

import (
	"encoding/json"
	"fmt"
)

// CommentNode is one node of the rooted reply forest.
type CommentNode struct {
	ID        string        `json:"id"`
	ParentID  string        `json:"parent_id"`
	LinkID    string        `json:"link_id"`
	Author    string        `json:"author"`
	Body      string        `json:"body"`
	Permalink string        `json:"permalink"`
	Replies   []CommentNode `json:"replies"`
}

// Post is the root artifact the comment forest replies to.
type Post struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Author        string        `json:"author"`
	Selftext      string        `json:"selftext"`
	Subreddit     string        `json:"subreddit"`
	URL           string        `json:"url"`
	Permalink     string        `json:"permalink"`
	SearchResults []string      `json:"search_results"`
	Comments      []CommentNode `json:"comments"`
}

// Angle is an editorial pointer into a document: a quote, the tangent it
// suggests, and a category label. Two angles are equal iff SourceQuote,
// Tangent and Category all match; SourceDocument is metadata, not identity.
type Angle struct {
	SourceQuote    string `json:"source_quote"`
	Tangent        string `json:"tangent"`
	Category       string `json:"category"`
	SourceDocument *int   `json:"source_document,omitempty"`
}

// Equal reports whether a and b name the same angle.
func (a Angle) Equal(b Angle) bool {
	return a.SourceQuote == b.SourceQuote && a.Tangent == b.Tangent && a.Category == b.Category
}

// Record is the canonical carrier: a post plus one angle list per attached
// document, in document order.
type Record struct {
	Post   Post      `json:"post"`
	Angles [][]Angle `json:"angles"`
}

// recordEnvelope mirrors the two shapes the upstream pipeline is known to
// emit: {post: ..., angles: ...} and the n8n-style {data: ..., angles: ...}.
type recordEnvelope struct {
	Post   *Post     `json:"post"`
	Data   *Post     `json:"data"`
	Angles [][]Angle `json:"angles"`
}

// ParseRecord unmarshals raw JSON into the canonical Record shape,
// unwrapping a single level of {data: <post>} nesting when {post: <post>}
// is absent.
func ParseRecord(raw []byte) (Record, error) {
	var env recordEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Record{}, fmt.Errorf("carrier: parse record: %w", err)
	}

	var post *Post
	switch {
	case env.Post != nil:
		post = env.Post
	case env.Data != nil:
		post = env.Data
	default:
		return Record{}, fmt.Errorf(`carrier: record has neither "post" nor "data"`)
	}

	return Record{Post: *post, Angles: env.Angles}, nil
}

// payloadEnvelope mirrors the optional {payload: "..."} wrapper.
type payloadEnvelope struct {
	Payload *string `json:"payload"`
}

// ParsePayload unmarshals raw JSON into the secret payload string, accepting
// either a bare JSON string or {"payload": "..."}.
func ParsePayload(raw []byte) (string, error) {
	var env payloadEnvelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Payload != nil {
		return *env.Payload, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}

	return "", fmt.Errorf(`carrier: payload must be a JSON string or {"payload": "..."}`)
}
