// Package queue defines message payloads exchanged over the message broker
// and the consumer that processes them.
package queue

// ListingImportedQueue is the durable queue carrying ListingImportedEvent.
const ListingImportedQueue = "listing.imported"

// ListingImportedEvent is published after a listing and its photos were
// stored from a scraped page.  Consumers use the photo ids to run room
// inference without re-reading the listing.
type ListingImportedEvent struct {
    ListingID  uint64   `json:"listing_id"`
    PhotoIDs   []uint64 `json:"photo_ids"`
    URL        string   `json:"url"`
    ImportedAt string   `json:"imported_at"`
}
