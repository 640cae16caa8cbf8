package store

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"

	"upscout/pkg/models"
)

// IdentityHash derives a stable hex digest from the listing's composite
// identity (title, link, capture date). The identity is deliberately
// lossy: two distinct same-day postings with identical title and link
// collide, which is an accepted approximation of the source pages.
func IdentityHash(l *models.Listing) string {
	sum := sha1.Sum([]byte(l.Identity()))
	return hex.EncodeToString(sum[:])
}

// ListingKey builds the document key for a caller-scoped listing.
func ListingKey(userID string, l *models.Listing) string {
	return fmt.Sprintf("job:%s:%s", userID, IdentityHash(l))
}

// indexKey is the per-caller set of document keys, used by Query.
func indexKey(userID string) string {
	return fmt.Sprintf("jobs:index:%s", userID)
}
