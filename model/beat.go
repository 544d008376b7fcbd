package model

import "time"

// Beat represents one sellable beat with its three license tiers.
type Beat struct {
	ID               string             `json:"id" bson:"id"`
	Title            string             `json:"title" bson:"title"`
	YouTubeURL       string             `json:"youtubeUrl" bson:"youtubeUrl"`
	ThumbnailURL     string             `json:"thumbnailUrl" bson:"thumbnailUrl"` // derived from YouTubeURL
	Slug             string             `json:"slug" bson:"slug"`                 // derived from Title
	WhopProductIDs   TierSet[string]    `json:"whopProductIds" bson:"whopProductIds"`
	WhopPurchaseURLs TierSet[string]    `json:"whopPurchaseUrls" bson:"whopPurchaseUrls"`
	Prices           TierSet[float64]   `json:"prices" bson:"prices"` // dollars
	Licenses         TierSet[string]    `json:"licenses" bson:"licenses"`
	Assets           TierSet[[]string]  `json:"assets" bson:"assets"` // object-store keys per tier
	CreatedAt        time.Time          `json:"createdAt" bson:"createdAt"`
	Listed           bool               `json:"listed" bson:"listed"`
}

// BeatUpdate carries a partial update. Nil fields are left untouched, so the
// merge is shallow at the top level. Slug and ThumbnailURL are deliberately
// absent: they are recomputed when Title or YouTubeURL change and cannot
// drift on their own. CreatedAt is immutable after creation.
type BeatUpdate struct {
	Title            *string            `json:"title,omitempty"`
	YouTubeURL       *string            `json:"youtubeUrl,omitempty"`
	WhopProductIDs   *TierSet[string]   `json:"whopProductIds,omitempty"`
	WhopPurchaseURLs *TierSet[string]   `json:"whopPurchaseUrls,omitempty"`
	Prices           *TierSet[float64]  `json:"prices,omitempty"`
	Licenses         *TierSet[string]   `json:"licenses,omitempty"`
	Assets           *TierSet[[]string] `json:"assets,omitempty"`
	Listed           *bool              `json:"listed,omitempty"`
}
