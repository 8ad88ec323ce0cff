package places

// LocalizedText is a text value with an optional language code, as returned
// by the Places API for display names and summaries.
type LocalizedText struct {
	Text         string `json:"text,omitempty"`
	LanguageCode string `json:"languageCode,omitempty"`
}

// LatLng is a geographic coordinate pair.
type LatLng struct {
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
}

// Photo describes a place photo. The URL fields are populated by the client
// from the photo resource name; the rest comes from the API.
type Photo struct {
	Name     string `json:"name,omitempty"`
	WidthPx  int    `json:"widthPx,omitempty"`
	HeightPx int    `json:"heightPx,omitempty"`

	// Media URLs in three widths, derived from Name by the Details call.
	URL      string `json:"url,omitempty"`
	URLSmall string `json:"urlSmall,omitempty"`
	URLLarge string `json:"urlLarge,omitempty"`
}

// Place is a search result or place details record. Fields map to the
// X-Goog-FieldMask requested by the client; absent fields stay zero.
type Place struct {
	ID                  string         `json:"id,omitempty"`
	DisplayName         *LocalizedText `json:"displayName,omitempty"`
	FormattedAddress    string         `json:"formattedAddress,omitempty"`
	Location            *LatLng        `json:"location,omitempty"`
	Rating              float64        `json:"rating,omitempty"`
	UserRatingCount     int            `json:"userRatingCount,omitempty"`
	PriceLevel          string         `json:"priceLevel,omitempty"`
	BusinessStatus      string         `json:"businessStatus,omitempty"`
	NationalPhoneNumber string         `json:"nationalPhoneNumber,omitempty"`
	WebsiteURI          string         `json:"websiteUri,omitempty"`
	GoogleMapsURI       string         `json:"googleMapsUri,omitempty"`
	EditorialSummary    *LocalizedText `json:"editorialSummary,omitempty"`
	Types               []string       `json:"types,omitempty"`
	Photos              []Photo        `json:"photos,omitempty"`
}

// SearchRequest is the body of a searchText call. PageToken continues a
// previous search; it must be the token returned by the immediately
// preceding page.
type SearchRequest struct {
	TextQuery      string `json:"textQuery"`
	MaxResultCount int    `json:"maxResultCount,omitempty"`
	PageToken      string `json:"pageToken,omitempty"`
}

// SearchResponse is the result of a searchText call. NextPageToken is empty
// on the last page.
type SearchResponse struct {
	Places        []Place `json:"places"`
	NextPageToken string  `json:"nextPageToken,omitempty"`
}
