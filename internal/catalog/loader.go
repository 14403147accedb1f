package catalog

import (
	"fmt"
	"log/slog"

	"github.com/handspeak/handspeak/internal/assets"
)

// LoadError reports a structurally invalid catalog source. Individual
// malformed records are repaired, not rejected; only a source that is not
// a collection of records at all produces a LoadError.
type LoadError struct {
	Source string
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("catalog source %s: %s: %v", e.Source, e.Reason, e.Err)
	}
	return fmt.Sprintf("catalog source %s: %s", e.Source, e.Reason)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Load concatenates the given sources in order and normalizes every
// record: each sign leaves with a unique non-empty SignID and absolute
// video/thumbnail URLs. Records without a word cannot be addressed and
// are skipped.
func Load(res *assets.Resolver, sources ...[]RawSign) []Sign {
	var signs []Sign
	seen := make(map[string]bool)

	for _, source := range sources {
		for _, raw := range source {
			if raw.Word == "" {
				slog.Warn("skipping sign record without word", "category", raw.Category)
				continue
			}

			sign := Sign{
				SignID:          uniqueID(raw, seen),
				Word:            raw.Word,
				Category:        raw.Category,
				VideoURL:        raw.VideoURL,
				ThumbnailURL:    raw.ThumbnailURL,
				RelatedSigns:    raw.RelatedSigns,
				SinhalaTranslit: raw.SinhalaTranslit,
				TamilTranslit:   raw.TamilTranslit,
			}
			repairURLs(res, raw, &sign)

			seen[sign.SignID] = true
			signs = append(signs, sign)
		}
	}

	return signs
}

// Source supplies one collection of raw sign records at load time.
type Source func() ([]RawSign, error)

// FromRecords wraps an in-memory record collection.
func FromRecords(records []RawSign) Source {
	return func() ([]RawSign, error) { return records, nil }
}

// FromJSONFile defers reading a JSON source file to load time.
func FromJSONFile(path string) Source {
	return func() ([]RawSign, error) { return JSONSource(path) }
}

// FromYAMLFile defers reading a YAML source file to load time.
func FromYAMLFile(path string) Source {
	return func() ([]RawSign, error) { return YAMLSource(path) }
}

// FromXLSXFile defers reading a spreadsheet source file to load time.
func FromXLSXFile(path string) Source {
	return func() ([]RawSign, error) { return XLSXSource(path) }
}

// LoadSources resolves each source and normalizes the combined catalog.
// The first structurally invalid source aborts the load.
func LoadSources(res *assets.Resolver, sources ...Source) ([]Sign, error) {
	collections := make([][]RawSign, 0, len(sources))
	for _, src := range sources {
		records, err := src()
		if err != nil {
			return nil, err
		}
		collections = append(collections, records)
	}
	return Load(res, collections...), nil
}

// uniqueID returns the record's SignID, deriving one from the word when
// absent. Either way the id is disambiguated against ids already in this
// load batch by bumping a numeric suffix.
func uniqueID(raw RawSign, seen map[string]bool) string {
	id := raw.SignID
	if id == "" {
		id = assets.Slugify(raw.Word) + "-001"
	}
	if !seen[id] {
		return id
	}

	base := id
	for n := 2; ; n++ {
		id = fmt.Sprintf("%s-%d", base, n)
		if !seen[id] {
			return id
		}
	}
}

// repairURLs fills missing or non-absolute media URLs from the asset
// resolver. Records carrying an upload id use the id-suffixed scheme;
// alphabet signs live in their own folder on the asset host.
func repairURLs(res *assets.Resolver, raw RawSign, sign *Sign) {
	name := raw.VideoName
	if name == "" {
		name = raw.Word
	}

	if !assets.IsAbsoluteHTTPURL(sign.VideoURL) {
		if raw.VideoID != "" {
			sign.VideoURL = res.VideoURL(name, raw.VideoID)
		} else {
			folder := ""
			if raw.Category == "alphabet" {
				folder = "alphabet"
			}
			sign.VideoURL = res.VideoURLInFolder(name, folder)
		}
	}

	if !assets.IsAbsoluteHTTPURL(sign.ThumbnailURL) {
		sign.ThumbnailURL = res.ThumbnailURL(name)
	}
}
