// Package catalog loads and organizes the sign dictionary: raw records
// from static sources become normalized Signs, which group into Courses
// by category.
package catalog

// Sign is one learnable unit: a word or short phrase plus its video.
type Sign struct {
	SignID          string   `json:"signId"`
	Word            string   `json:"word"`
	Category        string   `json:"category"`
	VideoURL        string   `json:"videoUrl"`
	ThumbnailURL    string   `json:"thumbnailUrl"`
	RelatedSigns    []string `json:"relatedSigns,omitempty"`
	SinhalaTranslit string   `json:"sinhalaTranslit,omitempty"`
	TamilTranslit   string   `json:"tamilTranslit,omitempty"`
}

// RawSign is a sign record as it appears in a static source, before
// normalization. Identity and media URLs may be absent; the loader
// repairs them. VideoName/VideoID address the id-suffixed upload scheme
// used by older assets.
type RawSign struct {
	SignID          string   `json:"signId" yaml:"sign_id"`
	Word            string   `json:"word" yaml:"word"`
	Category        string   `json:"category" yaml:"category"`
	VideoURL        string   `json:"videoUrl" yaml:"video_url"`
	ThumbnailURL    string   `json:"thumbnailUrl" yaml:"thumbnail_url"`
	VideoName       string   `json:"videoName" yaml:"video_name"`
	VideoID         string   `json:"videoId" yaml:"video_id"`
	RelatedSigns    []string `json:"relatedSigns" yaml:"related_signs"`
	SinhalaTranslit string   `json:"sinhalaTranslit" yaml:"sinhala_translit"`
	TamilTranslit   string   `json:"tamilTranslit" yaml:"tamil_translit"`
}

// Category is static course metadata. It is configuration, not user data.
type Category struct {
	ID              string `json:"id" yaml:"id"`
	Title           string `json:"title" yaml:"title"`
	Description     string `json:"description" yaml:"description"`
	Icon            string `json:"icon" yaml:"icon"`
	BackgroundColor string `json:"backgroundColor" yaml:"background_color"`
}

// Course is a derived view: category metadata plus the signs that belong
// to it. Courses are recomputed from the catalog, never stored.
type Course struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	Icon            string `json:"icon"`
	BackgroundColor string `json:"backgroundColor"`
	TotalChapters   int    `json:"totalChapters"`
	Signs           []Sign `json:"signs"`
}
