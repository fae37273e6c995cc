package feed

import (
	"encoding/json"
	"fmt"
	"io"
)

// ParseError reports a feed document that could not be decoded at all.
// Individual malformed entries are skipped, not reported.
type ParseError struct {
	Reason string
	Err    error
}

// Error implements error.
func (e *ParseError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("feed: %s: %v", e.Reason, e.Err)
	}
	return "feed: " + e.Reason
}

// Unwrap exposes the wrapped cause.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Wire shapes of the exported feed document. Entries are held raw so one
// malformed entry cannot fail the whole document.
type document struct {
	Feed []json.RawMessage `json:"feed"`
}

type entry struct {
	Thread *thread `json:"thread"`
}

type thread struct {
	Post    *postBody `json:"post"`
	Replies []thread  `json:"replies"`
}

type postBody struct {
	Record *record `json:"record"`
}

type record struct {
	CreatedAt *string `json:"createdAt"`
	Text      string  `json:"text"`
}

// Parser converts feed documents into post trees, assigning each post a
// unique sequential identifier. Identifiers start at one; zero is the
// unassigned sentinel.
type Parser struct {
	nextID int64
}

// NewParser returns a parser with a fresh identifier sequence.
func NewParser() *Parser {
	return &Parser{nextID: 1}
}

// ParseThreads decodes a feed document and returns its top-level posts
// with replies attached one level deep. Entries that do not decode or
// lack a createdAt are skipped.
func (p *Parser) ParseThreads(r io.Reader) ([]*Post, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, &ParseError{Reason: "document does not decode", Err: err}
	}

	posts := make([]*Post, 0, len(doc.Feed))
	for _, raw := range doc.Feed {
		var item entry
		if err := json.Unmarshal(raw, &item); err != nil {
			continue
		}
		if item.Thread == nil {
			continue
		}
		post, ok := p.buildPost(item.Thread.Post)
		if !ok {
			continue
		}
		for _, replyThread := range item.Thread.Replies {
			reply, ok := p.buildPost(replyThread.Post)
			if !ok {
				continue
			}
			post.AddReply(reply)
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func (p *Parser) buildPost(body *postBody) (*Post, bool) {
	if body == nil || body.Record == nil || body.Record.CreatedAt == nil {
		return nil, false
	}
	return NewPost(p.uniqueID(), *body.Record.CreatedAt, body.Record.Text), true
}

func (p *Parser) uniqueID() int64 {
	id := p.nextID
	p.nextID++
	return id
}
