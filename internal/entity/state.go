package entity

import (
	"encoding/json"
	"time"
)

// State is the record a UI renders while a manifest is being requested.
type State struct {
	URL                *string         `json:"url"`
	Error              *string         `json:"error"`
	Manifest           *Manifest       `json:"manifest"`
	ManifestID         *string         `json:"manifestId"`
	SiteServiceWorkers json.RawMessage `json:"siteServiceWorkers"`
	Icons              []Icon          `json:"icons"`
	Suggestions        []string        `json:"suggestions"`
	Warnings           []string        `json:"warnings"`
	Errors             []string        `json:"errors"`
}

// NewState returns the empty state a session starts with.
func NewState() State {
	return State{Icons: []Icon{}}
}

// Clone returns a deep copy so callers can read a snapshot without sharing slices.
func (s State) Clone() State {
	out := State{
		URL:         cloneString(s.URL),
		Error:       cloneString(s.Error),
		ManifestID:  cloneString(s.ManifestID),
		Suggestions: cloneStrings(s.Suggestions),
		Warnings:    cloneStrings(s.Warnings),
		Errors:      cloneStrings(s.Errors),
	}
	if s.SiteServiceWorkers != nil {
		out.SiteServiceWorkers = append(json.RawMessage(nil), s.SiteServiceWorkers...)
	}
	if s.Icons != nil {
		out.Icons = append([]Icon{}, s.Icons...)
	}
	if s.Manifest != nil {
		m := *s.Manifest
		m.BackgroundColor = cloneString(m.BackgroundColor)
		m.Description = cloneString(m.Description)
		m.Dir = cloneString(m.Dir)
		m.Lang = cloneString(m.Lang)
		m.Name = cloneString(m.Name)
		m.Orientation = cloneString(m.Orientation)
		m.Scope = cloneString(m.Scope)
		m.ShortName = cloneString(m.ShortName)
		m.StartURL = cloneString(m.StartURL)
		m.ThemeColor = cloneString(m.ThemeColor)
		if m.RelatedApplications != nil {
			m.RelatedApplications = append([]RelatedApplication{}, m.RelatedApplications...)
		}
		out.Manifest = &m
	}
	return out
}

// Session ties a State to the browser session that owns it.
type Session struct {
	ID        string    `json:"id"`
	State     State     `json:"state"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string{}, in...)
}
