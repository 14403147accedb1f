// Package resolver maps free text to a sign video through a tiered
// fallback: exact match, substring match, then a synthesized entry whose
// URL is derived from the query itself.
package resolver

import (
	"strings"

	"github.com/handspeak/handspeak/internal/assets"
	"github.com/handspeak/handspeak/internal/catalog"
)

// GeneratedCategory marks synthesized signs. They never join the catalog
// or any course.
const GeneratedCategory = "generated"

// Resolver resolves words and short phrases against a loaded catalog.
type Resolver struct {
	assets *assets.Resolver
	signs  []catalog.Sign
}

// New creates a resolver over the given catalog snapshot.
func New(res *assets.Resolver, signs []catalog.Sign) *Resolver {
	return &Resolver{assets: res, signs: signs}
}

// Resolve returns the best-matching sign for a query, or nil when the
// query is empty after trimming. A query that matches nothing yields a
// synthesized transient sign, so callers always get something playable.
func (r *Resolver) Resolve(query string) *catalog.Sign {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	if sign := r.exactMatch(query); sign != nil {
		return sign
	}
	if sign := r.substringMatch(query); sign != nil {
		return sign
	}
	return r.synthesize(query)
}

// exactMatch finds a sign whose word or transliteration equals the query.
// A hit without a video URL gets one rebuilt from the query; the original
// catalog entry is left untouched.
func (r *Resolver) exactMatch(query string) *catalog.Sign {
	for i := range r.signs {
		s := &r.signs[i]
		if !strings.EqualFold(s.Word, query) &&
			!equalFoldNonEmpty(s.SinhalaTranslit, query) &&
			!equalFoldNonEmpty(s.TamilTranslit, query) {
			continue
		}

		match := *s
		if match.VideoURL == "" {
			repaired := r.assets.VideoURLInFolder(query, "")
			if repaired == "" {
				return nil // fall through to substring tier
			}
			match.VideoURL = repaired
		}
		return &match
	}
	return nil
}

// substringMatch finds the first sign, in catalog order, whose word
// contains or is contained in the query and that has a video. First hit
// wins regardless of overlap length; that ordering quirk is part of the
// contract.
func (r *Resolver) substringMatch(query string) *catalog.Sign {
	q := strings.ToLower(query)
	for i := range r.signs {
		s := &r.signs[i]
		if s.VideoURL == "" {
			continue
		}
		w := strings.ToLower(s.Word)
		if w == "" {
			continue
		}
		if strings.Contains(q, w) || strings.Contains(w, q) {
			match := *s
			return &match
		}
	}
	return nil
}

// synthesize builds a transient sign for a query with no catalog entry.
func (r *Resolver) synthesize(query string) *catalog.Sign {
	return &catalog.Sign{
		SignID:       assets.Slugify(query) + "-gen",
		Word:         query,
		Category:     GeneratedCategory,
		VideoURL:     r.assets.VideoURLInFolder(query, ""),
		ThumbnailURL: r.assets.ThumbnailURL(query),
	}
}

func equalFoldNonEmpty(a, b string) bool {
	return a != "" && strings.EqualFold(a, b)
}
