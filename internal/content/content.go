// Package content stores the admin-editable site copy: the hero block and
// site metadata shown on the storefront home page.
package content

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// ErrNotFound is returned when no site content has been saved yet.
var ErrNotFound = errors.New("content: not found")

// SiteContent is the editable copy block.
type SiteContent struct {
	HeroTitle       string
	HeroDescription string
	HeroButton      string
	SiteTitle       string
	SiteDescription string
	UpdatedAt       time.Time
}

// Store persists SiteContent.
type Store interface {
	Get(ctx context.Context) (SiteContent, error)
	Save(ctx context.Context, c SiteContent) error
}

// Default returns the copy used until an admin saves their own.
func Default() SiteContent {
	return SiteContent{
		HeroTitle:       "Paper goods, printed properly",
		HeroDescription: "Stationery, stamps and cards from a small press. *New arrivals weekly.*",
		HeroButton:      "Browse the shop",
		SiteTitle:       "docushop",
		SiteDescription: "A small stationery storefront.",
	}
}

var heroSanitizer = bluemonday.UGCPolicy()

// HeroHTML renders the hero description as markdown and sanitizes the result
// before it is marked safe for templates. Admin input is still untrusted
// input.
func (c SiteContent) HeroHTML() template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(c.HeroDescription), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(c.HeroDescription))
	}
	return template.HTML(heroSanitizer.SanitizeBytes(buf.Bytes()))
}
