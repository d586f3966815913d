package models

import (
	"time"

	"github.com/google/uuid"
)

// Image is one stored gallery image. Analysis fields stay NULL until
// the classification pass has run; IsAnalyzed flips to true after any
// terminal outcome (success, irrelevance or failure).
type Image struct {
	ID               uuid.UUID       `db:"id" json:"id"`
	UserID           int             `db:"user_id" json:"userId"`
	OriginalFilename string          `db:"original_filename" json:"originalFilename"`
	StoragePath      string          `db:"storage_path" json:"storagePath"`
	ImageURL         string          `db:"image_url" json:"imageUrl"` // stored reference, not enough for private access
	DisplayOrder     *int            `db:"display_order" json:"displayOrder,omitempty"`
	BristolScore     *int            `db:"bristol_score" json:"bristolScore,omitempty"`
	SizeBucket       *string         `db:"size_bucket" json:"sizeBucket,omitempty"`
	Indicators       map[string]bool `db:"indicators" json:"indicators,omitempty"`
	Warnings         []string        `db:"warnings" json:"warnings,omitempty"`
	Notes            *string         `db:"notes" json:"notes,omitempty"`
	IsAnalyzed       bool            `db:"is_analyzed" json:"isAnalyzed"`
	CreatedAt        time.Time       `db:"created_at" json:"createdAt"`

	// Computed at read time, never persisted.
	DisplayURL string `db:"-" json:"displayUrl,omitempty"`
}

// Analysis is the structured judgement produced by the classifier.
type Analysis struct {
	Relevant     bool            `json:"relevant"`
	BristolScore int             `json:"bristol_score"`
	SizeBucket   string          `json:"size_bucket"`
	Indicators   map[string]bool `json:"indicators"`
	Warnings     []string        `json:"warnings"`
	Notes        string          `json:"notes"`
}

// SizeBuckets is the closed set of accepted size_bucket values.
var SizeBuckets = map[string]bool{
	"small":  true,
	"normal": true,
	"large":  true,
}
