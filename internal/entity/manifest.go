package entity

import (
	"bytes"
	"encoding/json"
)

// Manifest mirrors the install metadata of a web app manifest.
// Nullable members are pointers; Display always carries a value once defaults are applied.
type Manifest struct {
	BackgroundColor           *string              `json:"background_color"`
	Description               *string              `json:"description"`
	Dir                       *string              `json:"dir"`
	Display                   string               `json:"display"`
	Lang                      *string              `json:"lang"`
	Name                      *string              `json:"name"`
	Orientation               *string              `json:"orientation"`
	PreferRelatedApplications bool                 `json:"prefer_related_applications"`
	RelatedApplications       []RelatedApplication `json:"related_applications"`
	Scope                     *string              `json:"scope"`
	ShortName                 *string              `json:"short_name"`
	StartURL                  *string              `json:"start_url"`
	ThemeColor                *string              `json:"theme_color"`
}

// RelatedApplication is a native application related to the web app.
type RelatedApplication struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
	ID       string `json:"id"`
}

// Icon describes an icon discovered on the site or generated by the backend.
type Icon struct {
	Src       string `json:"src"`
	Sizes     string `json:"sizes,omitempty"`
	Type      string `json:"type,omitempty"`
	Generated bool   `json:"generated,omitempty"`
}

// UnmarshalJSON accepts either a bare source string or an icon object.
func (i *Icon) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var src string
		if err := json.Unmarshal(data, &src); err != nil {
			return err
		}
		*i = Icon{Src: src}
		return nil
	}

	type plain Icon
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*i = Icon(p)
	return nil
}

// GenerateResult is the payload returned by the manifest-generation backend.
type GenerateResult struct {
	Content            *Manifest       `json:"content"`
	ID                 string          `json:"id"`
	SiteServiceWorkers json.RawMessage `json:"siteServiceWorkers"`
	Icons              []Icon          `json:"icons"`
	Suggestions        []string        `json:"suggestions"`
	Warnings           []string        `json:"warnings"`
	Errors             []string        `json:"errors"`
}
