// Package generator holds the state behind the manifest request form:
// the candidate site URL, the last error, and whatever the manifest
// service returned for that URL.
package generator

import (
	"context"

	"github.com/user/manifest-service/internal/entity"
	"github.com/user/manifest-service/internal/repository"
)

const (
	defaultDisplay     = "fullscreen"
	defaultOrientation = "any"
	defaultLang        = ""
)

// Generator applies the two state operations. It keeps no state of its own;
// callers own the entity.State it mutates.
type Generator struct {
	manifests repository.ManifestRepository
}

func New(manifests repository.ManifestRepository) *Generator {
	return &Generator{manifests: manifests}
}

// UpdateLink normalizes and validates raw. On success the URL is stored and
// the error cleared; otherwise only the error is set and ErrInvalidURL returned.
func UpdateLink(state *entity.State, raw string) error {
	url := NormalizeURL(raw)
	if !IsValidURL(url) {
		setError(state, InvalidURLMessage)
		return ErrInvalidURL
	}

	state.URL = &url
	state.Error = nil
	return nil
}

// GetManifestInformation requests the manifest for state.URL.
// Success replaces the manifest fields and leaves Error as it was.
// Failure only sets Error and returns a *FetchError.
func (g *Generator) GetManifestInformation(ctx context.Context, state *entity.State) error {
	result, err := g.manifests.Generate(ctx, state.URL)
	if err != nil {
		msg := fetchErrorMessage(err)
		setError(state, msg)
		return &FetchError{Message: msg, Err: err}
	}

	applyResult(state, result)
	setManifestDefaults(state)
	return nil
}

func applyResult(state *entity.State, result *entity.GenerateResult) {
	state.Manifest = result.Content
	state.ManifestID = nil
	if result.ID != "" {
		id := result.ID
		state.ManifestID = &id
	}
	state.SiteServiceWorkers = result.SiteServiceWorkers
	state.Icons = result.Icons
	if state.Icons == nil {
		state.Icons = []entity.Icon{}
	}
	state.Suggestions = result.Suggestions
	state.Warnings = result.Warnings
	state.Errors = result.Errors
}

func setManifestDefaults(state *entity.State) {
	m := state.Manifest
	if m == nil {
		return
	}

	if m.Lang == nil || *m.Lang == "" {
		lang := defaultLang
		m.Lang = &lang
	}
	if m.Display == "" {
		m.Display = defaultDisplay
	}
	if m.Orientation == nil || *m.Orientation == "" {
		orientation := defaultOrientation
		m.Orientation = &orientation
	}
}

func setError(state *entity.State, msg string) {
	state.Error = &msg
}
