// Package beat validates inbound beat payloads and derives the computed
// fields of a beat record: id, slug, thumbnail URL and timestamps.
package beat

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"beatstore/model"
)

// FlexNumber decodes a JSON number or a numeric string. Valid stays false
// when the value was absent, null, or not parseable as a number.
type FlexNumber struct {
	Value float64
	Valid bool
}

// UnmarshalJSON coerces numeric strings; anything unparseable is left
// invalid rather than failing the whole decode, so validation can name the
// exact field that is wrong.
func (n *FlexNumber) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		return nil
	}

	if s[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
		if err != nil {
			return nil
		}
		n.Value = f
		n.Valid = true
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return nil
	}
	n.Value = f
	n.Valid = true
	return nil
}

// MarshalJSON emits the plain number.
func (n FlexNumber) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.Value)
}

// CreatePayload is the inbound shape of a beat-creation request. Pointer
// fields distinguish an absent mapping from a present-but-empty one.
type CreatePayload struct {
	ID               string                     `json:"id"`
	Title            string                     `json:"title"`
	YouTubeURL       string                     `json:"youtubeUrl"`
	WhopProductIDs   *model.TierSet[string]     `json:"whopProductIds"`
	WhopPurchaseURLs *model.TierSet[string]     `json:"whopPurchaseUrls"`
	Prices           *model.TierSet[FlexNumber] `json:"prices"`
	Licenses         *model.TierSet[*string]    `json:"licenses"`
	Assets           *model.TierSet[[]string]   `json:"assets"`
	Listed           *bool                      `json:"listed"`
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases the title, collapses every run of characters outside
// [a-z0-9] to a single hyphen and strips leading/trailing hyphens.
func Slugify(title string) string {
	slug := slugStrip.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}

// ThumbnailURL derives the YouTube thumbnail from the watch URL: the video
// id is the substring after "v=" up to the next "&".
func ThumbnailURL(youtubeURL string) string {
	videoID := ""
	if _, after, found := strings.Cut(youtubeURL, "v="); found {
		videoID, _, _ = strings.Cut(after, "&")
	}
	return fmt.Sprintf("https://img.youtube.com/vi/%s/mqdefault.jpg", videoID)
}

// Validate checks the payload in order: title, youtubeUrl, whopProductIds,
// prices, licenses. The returned ValidationError names the specific field
// and tier that failed.
func Validate(p *CreatePayload) error {
	if strings.TrimSpace(p.Title) == "" {
		return &model.ValidationError{Field: "title", Reason: "required"}
	}
	if strings.TrimSpace(p.YouTubeURL) == "" {
		return &model.ValidationError{Field: "youtubeUrl", Reason: "required"}
	}

	if p.WhopProductIDs == nil {
		return &model.ValidationError{Field: "whopProductIds", Reason: "required"}
	}
	for _, tier := range model.Tiers() {
		if strings.TrimSpace(p.WhopProductIDs.Get(tier)) == "" {
			return &model.ValidationError{Field: "whopProductIds", Tier: tier, Reason: "required"}
		}
	}

	if p.Prices == nil {
		return &model.ValidationError{Field: "prices", Reason: "required"}
	}
	for _, tier := range model.Tiers() {
		price := p.Prices.Get(tier)
		if !price.Valid {
			return &model.ValidationError{Field: "prices", Tier: tier, Reason: "must be a number"}
		}
		if math.IsInf(price.Value, 0) || math.IsNaN(price.Value) {
			return &model.ValidationError{Field: "prices", Tier: tier, Reason: "must be finite"}
		}
		if price.Value < 0 {
			return &model.ValidationError{Field: "prices", Tier: tier, Reason: "must be non-negative"}
		}
	}

	if p.Licenses == nil {
		return &model.ValidationError{Field: "licenses", Reason: "required"}
	}
	for _, tier := range model.Tiers() {
		// Empty license text is allowed, a missing tier key is not.
		if p.Licenses.Get(tier) == nil {
			return &model.ValidationError{Field: "licenses", Tier: tier, Reason: "required"}
		}
	}

	return nil
}

// Normalize validates the payload and produces the stored record: derived
// slug and thumbnail, generated id, creation timestamp, defaulted listing
// state and asset lists.
func Normalize(p *CreatePayload, now time.Time) (*model.Beat, error) {
	if err := Validate(p); err != nil {
		return nil, err
	}

	id := p.ID
	if id == "" {
		id = fmt.Sprintf("beat_%d", now.UnixMilli())
	}

	record := &model.Beat{
		ID:             id,
		Title:          p.Title,
		YouTubeURL:     p.YouTubeURL,
		ThumbnailURL:   ThumbnailURL(p.YouTubeURL),
		Slug:           Slugify(p.Title),
		WhopProductIDs: *p.WhopProductIDs,
		Prices: model.Map(func(t model.Tier) float64 {
			return p.Prices.Get(t).Value
		}),
		Licenses: model.Map(func(t model.Tier) string {
			if s := p.Licenses.Get(t); s != nil {
				return *s
			}
			return ""
		}),
		Assets: model.Map(func(t model.Tier) []string {
			return []string{}
		}),
		CreatedAt: now.UTC(),
	}

	if p.WhopPurchaseURLs != nil {
		record.WhopPurchaseURLs = *p.WhopPurchaseURLs
	}
	if p.Assets != nil {
		record.Assets = model.Map(func(t model.Tier) []string {
			if files := p.Assets.Get(t); files != nil {
				return files
			}
			return []string{}
		})
	}
	if p.Listed != nil {
		record.Listed = *p.Listed
	}

	return record, nil
}
