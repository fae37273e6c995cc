// Package feed models social feed posts and parses them out of exported
// feed documents. Posts declare persistence descriptors so a whole thread
// tree can round-trip through a hash store, with replies loaded lazily.
package feed

import (
	persist "github.com/goliatone/go-persist"
)

// TypeName is the registered persistable type for posts.
const TypeName = "feed.post"

const defaultCreatedAt = "1970-01-01T00:00:00Z"

// Post is one feed entry. Replies are held behind refs so a loaded post
// does not drag its whole reply tree out of the store.
type Post struct {
	id      int64
	created string
	text    string
	replies []*persist.Ref
}

// NewPost builds a post with the given identifier. An empty createdAt
// falls back to the epoch timestamp.
func NewPost(id int64, createdAt, text string) *Post {
	if createdAt == "" {
		createdAt = defaultCreatedAt
	}
	return &Post{
		id:      id,
		created: createdAt,
		text:    text,
		replies: []*persist.Ref{},
	}
}

// PersistableType implements persist.Persistable.
func (p *Post) PersistableType() string {
	return TypeName
}

// ID returns the post identifier; zero means unassigned.
func (p *Post) ID() int64 {
	return p.id
}

// CreatedAt returns the post timestamp string.
func (p *Post) CreatedAt() string {
	return p.created
}

// Text returns the post body.
func (p *Post) Text() string {
	return p.text
}

// SetText replaces the post body.
func (p *Post) SetText(text string) {
	p.text = text
}

// Replies returns the reply refs in feed order.
func (p *Post) Replies() []*persist.Ref {
	return p.replies
}

// AddReply appends a reply post.
func (p *Post) AddReply(reply *Post) {
	p.replies = append(p.replies, persist.Of(reply))
}

// Snapshot flattens the post into the map shape moderation rules evaluate
// against.
func (p *Post) Snapshot() map[string]any {
	return map[string]any{
		"id":         p.id,
		"createdAt":  p.created,
		"text":       p.text,
		"replyCount": len(p.replies),
	}
}

// Descriptor declares how posts map onto store rows.
func Descriptor() persist.TypeDescriptor {
	return persist.TypeDescriptor{
		Name: TypeName,
		New: func() persist.Persistable {
			return NewPost(0, "", "")
		},
		Scalars: []persist.ScalarField{
			{
				Name:       "id",
				Kind:       persist.KindInt,
				Identifier: true,
				GetInt:     func(value persist.Persistable) int64 { return value.(*Post).id },
				SetInt:     func(value persist.Persistable, v int64) { value.(*Post).id = v },
			},
			{
				Name:    "createdAt",
				Kind:    persist.KindText,
				GetText: func(value persist.Persistable) string { return value.(*Post).created },
				SetText: func(value persist.Persistable, v string) { value.(*Post).created = v },
			},
			{
				Name:    "text",
				Kind:    persist.KindText,
				GetText: func(value persist.Persistable) string { return value.(*Post).text },
				SetText: func(value persist.Persistable, v string) { value.(*Post).text = v },
			},
		},
		Lists: []persist.ListField{
			{
				Name:     "replies",
				Elem:     TypeName,
				Deferred: true,
				Get:      func(value persist.Persistable) []*persist.Ref { return value.(*Post).replies },
				Set:      func(value persist.Persistable, refs []*persist.Ref) { value.(*Post).replies = refs },
			},
		},
	}
}

// Register adds the post descriptor to a registry.
func Register(registry *persist.Registry) error {
	return registry.Register(Descriptor())
}
