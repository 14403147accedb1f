package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// signSourceSchema pins the structural shape of a JSON sign source: an
// array of objects with string fields. Field presence is not enforced
// here; the loader repairs incomplete records.
const signSourceSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"properties": {
			"signId":          {"type": "string"},
			"word":            {"type": "string"},
			"category":        {"type": "string"},
			"videoUrl":        {"type": "string"},
			"thumbnailUrl":    {"type": "string"},
			"videoName":       {"type": "string"},
			"videoId":         {"type": "string"},
			"relatedSigns":    {"type": "array", "items": {"type": "string"}},
			"sinhalaTranslit": {"type": "string"},
			"tamilTranslit":   {"type": "string"}
		}
	}
}`

// JSONSource reads a JSON sign source file, validating its structure
// before decoding.
func JSONSource(path string) ([]RawSign, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Source: path, Reason: "unreadable", Err: err}
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(signSourceSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, &LoadError{Source: path, Reason: "invalid JSON", Err: err}
	}
	if !result.Valid() {
		reasons := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			reasons = append(reasons, desc.String())
		}
		return nil, &LoadError{Source: path, Reason: strings.Join(reasons, "; ")}
	}

	var records []RawSign
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, &LoadError{Source: path, Reason: "decoding records", Err: err}
	}
	return records, nil
}

// YAMLSource reads a YAML sign source file.
func YAMLSource(path string) ([]RawSign, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Source: path, Reason: "unreadable", Err: err}
	}

	var records []RawSign
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, &LoadError{Source: path, Reason: "not a sequence of sign records", Err: err}
	}
	return records, nil
}

// xlsxColumns maps recognized header names to RawSign fields.
var xlsxColumns = map[string]func(*RawSign, string){
	"sign_id":       func(r *RawSign, v string) { r.SignID = v },
	"word":          func(r *RawSign, v string) { r.Word = v },
	"category":      func(r *RawSign, v string) { r.Category = v },
	"video_url":     func(r *RawSign, v string) { r.VideoURL = v },
	"thumbnail_url": func(r *RawSign, v string) { r.ThumbnailURL = v },
	"video_name":    func(r *RawSign, v string) { r.VideoName = v },
	"video_id":      func(r *RawSign, v string) { r.VideoID = v },
	"sinhala":       func(r *RawSign, v string) { r.SinhalaTranslit = v },
	"tamil":         func(r *RawSign, v string) { r.TamilTranslit = v },
	"related": func(r *RawSign, v string) {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				r.RelatedSigns = append(r.RelatedSigns, part)
			}
		}
	},
}

// XLSXSource reads a spreadsheet sign source. The first sheet must carry
// a header row; unrecognized columns are ignored.
func XLSXSource(path string) ([]RawSign, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &LoadError{Source: path, Reason: "unreadable workbook", Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &LoadError{Source: path, Reason: "workbook has no sheets"}
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &LoadError{Source: path, Reason: fmt.Sprintf("reading sheet %s", sheets[0]), Err: err}
	}
	if len(rows) == 0 {
		return nil, &LoadError{Source: path, Reason: "missing header row"}
	}

	setters := make([]func(*RawSign, string), len(rows[0]))
	known := 0
	for i, header := range rows[0] {
		if set, ok := xlsxColumns[strings.ToLower(strings.TrimSpace(header))]; ok {
			setters[i] = set
			known++
		}
	}
	if known == 0 {
		return nil, &LoadError{Source: path, Reason: "header row has no recognized columns"}
	}

	records := make([]RawSign, 0, len(rows)-1)
	for _, row := range rows[1:] {
		var raw RawSign
		for i, cell := range row {
			if i < len(setters) && setters[i] != nil && cell != "" {
				setters[i](&raw, cell)
			}
		}
		records = append(records, raw)
	}
	return records, nil
}

// CategoriesFromYAML reads the static category metadata file.
func CategoriesFromYAML(path string) ([]Category, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading categories: %w", err)
	}

	var doc struct {
		Categories []Category `yaml:"categories"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing categories: %w", err)
	}
	return doc.Categories, nil
}
