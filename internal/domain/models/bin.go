package models

import (
	"encoding/json"
	"time"
)

// BinItemType discriminates what kind of entity a bin item snapshots.
type BinItemType string

const (
	BinItemTypePage   BinItemType = "page"
	BinItemTypeFolder BinItemType = "folder"
)

// SnapshotVersion is written into every snapshot payload so future schema
// changes to Page/Folder cannot silently break old bin items.
const SnapshotVersion = 1

// BinItem holds a self-contained snapshot of a deleted page or folder
// subtree. It is created in the same transaction as the live-row deletions
// and consumed by a successful restore.
type BinItem struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	ItemType  BinItemType     `json:"item_type"`
	ItemID    string          `json:"item_id"` // original entity id
	ItemData  json.RawMessage `json:"item_data"`
	DeletedAt time.Time       `json:"deleted_at"`
	CreatedAt time.Time       `json:"created_at"`
}

// PageSnapshot is the payload for a deleted page: the page row plus its
// outgoing edges at deletion time.
type PageSnapshot struct {
	Version int        `json:"version"`
	Page    Page       `json:"page"`
	Links   []PageLink `json:"links"`
}

// FolderSnapshot is the payload for a deleted folder: the folder row, every
// descendant folder, every contained page, and every edge touching any of
// those pages.
type FolderSnapshot struct {
	Version      int        `json:"version"`
	Folder       Folder     `json:"folder"`
	Subfolders   []Folder   `json:"subfolders"`
	Pages        []Page     `json:"pages"`
	AllPageLinks []PageLink `json:"allPageLinks"`
}
