package activity

import (
	"strings"
	"time"
)

// EventInput describes the common fields for persistence lifecycle events.
type EventInput struct {
	ActorID    string
	UserID     string
	TenantID   string
	ObjectType string
	ObjectID   string
	Channel    string
	Metadata   map[string]any
	OccurredAt time.Time
}

// BuildPersistedEvent constructs a normalized activity event for an object write.
func BuildPersistedEvent(input EventInput) Event {
	return buildEvent("object.persisted", input)
}

// BuildLoadedEvent constructs a normalized activity event for an object read.
func BuildLoadedEvent(input EventInput) Event {
	return buildEvent("object.loaded", input)
}

// BuildHydratedEvent constructs a normalized activity event for a deferred
// reference resolved on first access.
func BuildHydratedEvent(input EventInput) Event {
	return buildEvent("object.hydrated", input)
}

func buildEvent(verb string, input EventInput) Event {
	objectType := strings.TrimSpace(input.ObjectType)
	if objectType == "" {
		objectType = "object"
	}
	objectID := strings.TrimSpace(input.ObjectID)
	if objectID == "" {
		objectID = objectType
	}

	return Event{
		Verb:       verb,
		ActorID:    strings.TrimSpace(input.ActorID),
		UserID:     strings.TrimSpace(input.UserID),
		TenantID:   strings.TrimSpace(input.TenantID),
		ObjectType: objectType,
		ObjectID:   objectID,
		Channel:    strings.TrimSpace(input.Channel),
		Metadata:   cloneMap(input.Metadata),
		OccurredAt: input.OccurredAt,
	}
}
