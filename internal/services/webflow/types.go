package webflow

// FieldData is a CMS item's field map. Webflow field shapes vary per
// collection, so values stay dynamic with typed accessors for the shapes the
// pipeline reads.
type FieldData map[string]any

// String returns the named field as a string, empty when absent or not a
// string.
func (f FieldData) String(key string) string {
	value, _ := f[key].(string)
	return value
}

// ImageURL returns the url of an image field, which Webflow delivers as an
// object {url, alt, ...}. Returns empty when the field is absent or shaped
// differently.
func (f FieldData) ImageURL(key string) string {
	object, ok := f[key].(map[string]any)
	if !ok {
		return ""
	}
	url, _ := object["url"].(string)
	return url
}

// Item is one CMS collection item.
type Item struct {
	ID         string    `json:"id"`
	IsDraft    bool      `json:"isDraft"`
	IsArchived bool      `json:"isArchived"`
	FieldData  FieldData `json:"fieldData"`
}

// ItemList is the paginated collection items response.
type ItemList struct {
	Items      []Item `json:"items"`
	Pagination struct {
		Limit  int `json:"limit"`
		Offset int `json:"offset"`
		Total  int `json:"total"`
	} `json:"pagination"`
}

// ImageRef is the image payload shape Webflow accepts on writes.
type ImageRef struct {
	URL string `json:"url"`
	Alt string `json:"alt,omitempty"`
}

// NewItem is the payload for creating a collection item.
type NewItem struct {
	IsDraft    bool      `json:"isDraft"`
	IsArchived bool      `json:"isArchived"`
	FieldData  FieldData `json:"fieldData"`
}
