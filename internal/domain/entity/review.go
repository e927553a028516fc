package entity

import (
	"time"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Review is an element of a product's reviews array. AuthorID is stored
// under "uid" to stay compatible with documents written by web clients.
type Review struct {
	ID           string    `json:"id" firestore:"id"`
	ReviewerName string    `json:"reviewerName" firestore:"reviewerName"`
	Rating       int       `json:"rating" firestore:"rating"`
	Comment      string    `json:"comment" firestore:"comment"`
	Date         time.Time `json:"date" firestore:"date"`
	AuthorID     string    `json:"authorId" firestore:"uid"`
}

func ValidRating(rating int) bool {
	return rating >= MinRating && rating <= MaxRating
}

// ReviewEvent describes a ledger mutation for live subscribers.
type ReviewEvent struct {
	Type      string    `json:"type"` // "added", "updated", "deleted"
	ProductID string    `json:"productId"`
	Reviews   []Review  `json:"reviews"`
	At        time.Time `json:"at"`
}

const (
	ReviewAdded   = "added"
	ReviewUpdated = "updated"
	ReviewDeleted = "deleted"
)
