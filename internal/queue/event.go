// Package queue defines message payloads exchanged over the message broker
// and the consumer that records them.
package queue

// CatalogQueueName is the durable queue catalog changes are published to.
const CatalogQueueName = "catalog.changed"

// Catalog event actions.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// CatalogEvent is published after a movie, director, genre or user has been
// created, updated or deleted.  It carries enough information for an audit
// trail without querying the primary database.
type CatalogEvent struct {
	Resource   string `json:"resource"`    // movies, directors, genres or users
	Action     string `json:"action"`      // created, updated or deleted
	ID         uint64 `json:"id"`          // primary key of the affected row
	Actor      string `json:"actor"`       // username from the access token, empty when the route is open
	OccurredAt string `json:"occurred_at"` // RFC 3339, UTC
}
