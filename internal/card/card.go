// Package card renders the self-contained share image attached to a briefing.
package card

import (
	"encoding/base64"
	"fmt"
	"html"
	"strings"
)

// Width and Height of the rendered card, matching the backend's 4:5 share image.
const (
	Width  = 1080
	Height = 1350
)

// Card holds the text drawn on a briefing image
type Card struct {
	Date     string
	Symbol   string
	Headline string
	Up       bool
}

// SVG renders the card as an SVG document
func (c Card) SVG() string {
	accent := "#22c55e"
	if !c.Up {
		accent = "#ef4444"
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`, Width, Height, Width, Height)
	b.WriteString(`<rect width="100%" height="100%" fill="#0b0f17"/>`)
	fmt.Fprintf(&b, `<text x="80" y="160" font-family="monospace" font-size="40" fill="#a1a1aa">%s</text>`, html.EscapeString(c.Date))
	fmt.Fprintf(&b, `<text x="80" y="420" font-family="sans-serif" font-size="220" font-weight="700" fill="%s">%s</text>`, accent, html.EscapeString(c.Symbol))
	fmt.Fprintf(&b, `<text x="80" y="560" font-family="sans-serif" font-size="48" fill="#f5f5f4">%s</text>`, html.EscapeString(c.Headline))
	b.WriteString(`<text x="80" y="1270" font-family="monospace" font-size="32" fill="#71717a">While You Were Sleeping</text>`)
	b.WriteString(`</svg>`)
	return b.String()
}

// DataURL returns the card as an embeddable base64 data URL
func (c Card) DataURL() string {
	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(c.SVG()))
}
