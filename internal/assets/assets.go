// Package assets builds deterministic media URLs for sign videos and
// thumbnails. The builder never performs I/O; whether an asset actually
// exists is the playback layer's problem.
package assets

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Config holds the remote asset host settings.
type Config struct {
	CloudName  string
	Version    string // version segment for id-addressed videos
	VersionAlt string // version segment for folder-addressed videos and thumbnails
}

// DefaultConfig returns the asset host settings used by the production app.
func DefaultConfig() Config {
	return Config{
		CloudName:  "dxjb5lepy",
		Version:    "v1742644994",
		VersionAlt: "v1742374651",
	}
}

// Resolver maps sign names to asset URLs.
type Resolver struct {
	cfg Config
}

// NewResolver creates a resolver for the given asset host.
func NewResolver(cfg Config) *Resolver {
	if cfg.CloudName == "" {
		cfg = DefaultConfig()
	}
	return &Resolver{cfg: cfg}
}

func (r *Resolver) root() string {
	return fmt.Sprintf("https://res.cloudinary.com/%s", r.cfg.CloudName)
}

// VideoURL returns the URL for a video addressed by name and the host's
// unique id suffix, e.g. hello + g34znt -> .../v.../hello_g34znt.mp4.
func (r *Resolver) VideoURL(name, id string) string {
	return fmt.Sprintf("%s/%s/%s_%s.mp4", r.root(), r.cfg.Version, Slugify(name), id)
}

// VideoURLInFolder returns the URL for a video addressed by name within an
// optional folder. An empty folder addresses the version root.
func (r *Resolver) VideoURLInFolder(name, folder string) string {
	if folder != "" {
		return fmt.Sprintf("%s/%s/%s/%s.mp4", r.root(), r.cfg.VersionAlt, folder, Slugify(name))
	}
	return fmt.Sprintf("%s/%s/%s.mp4", r.root(), r.cfg.VersionAlt, Slugify(name))
}

// ThumbnailURL returns the thumbnail URL for a sign name.
func (r *Resolver) ThumbnailURL(name string) string {
	return fmt.Sprintf("%s/%s/thumbnails/%s.jpg", r.root(), r.cfg.VersionAlt, Slugify(name))
}

// IsAbsoluteHTTPURL reports whether s looks like a usable absolute URL.
func IsAbsoluteHTTPURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// stripMarks removes combining marks so accented words slugify to ASCII.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify normalizes a word or phrase to a lower-case, hyphenated,
// identifier-safe form. Punctuation is dropped, whitespace runs collapse
// to a single hyphen.
func Slugify(s string) string {
	if folded, _, err := transform.String(stripMarks, s); err == nil {
		s = folded
	}
	s = strings.ToLower(strings.TrimSpace(s))

	var b strings.Builder
	pendingHyphen := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-' || r == '_':
			pendingHyphen = true
		}
	}
	return b.String()
}
