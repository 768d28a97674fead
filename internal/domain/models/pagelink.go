package models

import "time"

// PageLink is a directed edge between two pages. At most one edge exists
// per ordered (from, to) pair; self loops are rejected at the service layer.
type PageLink struct {
	ID         string    `json:"id"`
	FromPageID string    `json:"from_page_id"`
	ToPageID   string    `json:"to_page_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// PageLinks groups the adjacency of one page.
type PageLinks struct {
	Outgoing []PageLink `json:"outgoing"`
	Incoming []PageLink `json:"incoming"`
}
