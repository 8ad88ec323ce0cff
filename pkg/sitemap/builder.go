// Package sitemap assembles the directory sitemap from a cached location
// listing. The listing is best-effort display data fetched from the upstream
// search API and cached in the token store's backend.
package sitemap

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"regexp"
	"strings"
	"time"

	"github.com/kitchenfinder/places-client/pkg/cache"
	"github.com/kitchenfinder/places-client/pkg/places"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// LocationsCacheKey holds the cached location listing.
	LocationsCacheKey = "places:all-locations"

	// LocationsTTL bounds how stale the listing may get.
	LocationsTTL = 30 * time.Minute

	xmlnsSitemap = "http://www.sitemaps.org/schemas/sitemap/0.9"
)

// Searcher issues a text search against the upstream API.
type Searcher interface {
	SearchText(ctx context.Context, req places.SearchRequest) (*places.SearchResponse, error)
}

// Location is one directory entry in the sitemap.
type Location struct {
	PlaceID string `json:"place_id"`
	Name    string `json:"name"`
}

// Builder produces the sitemap for the directory site.
type Builder struct {
	store    cache.Store
	searcher Searcher
	siteURL  string
	query    string
	logger   zerolog.Logger
}

// NewBuilder creates a sitemap builder. siteURL is the public origin of the
// directory (no trailing slash); query is the listing search sent upstream.
func NewBuilder(store cache.Store, searcher Searcher, siteURL, query string) *Builder {
	return &Builder{
		store:    store,
		searcher: searcher,
		siteURL:  strings.TrimRight(siteURL, "/"),
		query:    query,
		logger:   log.With().Str("component", "sitemap").Logger(),
	}
}

// Locations returns the location listing, from cache when fresh. Upstream
// failures yield an empty listing rather than an error; the sitemap is
// advisory and must never fail the serving process.
func (b *Builder) Locations(ctx context.Context) []Location {
	if raw, ok := b.store.Get(ctx, LocationsCacheKey); ok {
		var cached []Location
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			b.logger.Debug().Int("locations", len(cached)).Msg("Location listing served from cache")
			return cached
		}
	}

	resp, err := b.searcher.SearchText(ctx, places.SearchRequest{
		TextQuery:      b.query,
		MaxResultCount: places.DefaultMaxResultCount,
	})
	if err != nil {
		b.logger.Warn().Err(err).Msg("Location listing fetch failed, serving empty sitemap")
		return nil
	}

	locations := make([]Location, 0, len(resp.Places))
	for _, place := range resp.Places {
		name := ""
		if place.DisplayName != nil {
			name = place.DisplayName.Text
		}
		locations = append(locations, Location{
			PlaceID: place.ID,
			Name:    name,
		})
	}

	if data, err := json.Marshal(locations); err == nil {
		b.store.Set(ctx, LocationsCacheKey, string(data), LocationsTTL)
	}

	return locations
}

type urlEntry struct {
	Loc        string `xml:"loc"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

type urlSet struct {
	XMLName xml.Name   `xml:"urlset"`
	Xmlns   string     `xml:"xmlns,attr"`
	URLs    []urlEntry `xml:"url"`
}

// XML renders the sitemap document.
func (b *Builder) XML(ctx context.Context) ([]byte, error) {
	set := urlSet{
		Xmlns: xmlnsSitemap,
		URLs: []urlEntry{
			{Loc: b.siteURL + "/", ChangeFreq: "daily", Priority: "1.0"},
		},
	}

	for _, loc := range b.Locations(ctx) {
		slug := Slugify(loc.Name)
		if slug == "" {
			continue
		}
		set.URLs = append(set.URLs, urlEntry{
			Loc:        b.siteURL + "/kitchens/" + slug,
			ChangeFreq: "weekly",
			Priority:   "0.8",
		})
	}

	data, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), data...), nil
}

var nonWordChars = regexp.MustCompile(`[^\w-]+`)
var dashRuns = regexp.MustCompile(`-+`)

// Slugify converts a display name to a URL-friendly slug.
func Slugify(text string) string {
	slug := strings.ToLower(text)
	slug = strings.ReplaceAll(slug, " ", "-")
	slug = nonWordChars.ReplaceAllString(slug, "")
	slug = dashRuns.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
