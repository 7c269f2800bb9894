// Package backup implements the portable forms of a whole planner:
// the JSON backup document and its base64 share code. Re-importing a
// document upserts every record by identifier and never deletes.
package backup

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"omniplan/internal/model"
)

// ErrMissingCollections rejects documents that do not carry both
// top-level record collections.
var ErrMissingCollections = errors.New("backup: document must contain both campaigns and brands")

// Document is the full planner snapshot used for bulk export and
// re-import. Field order matches the historical export so older files
// keep round-tripping.
type Document struct {
	Campaigns []model.Campaign `json:"campaigns"`
	Brands    []model.Brand    `json:"brands"`
}

// Encode renders the document as indented JSON.
func Encode(doc Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// Decode parses and validates a backup document. A payload missing
// either top-level collection is rejected whole; nothing about it is
// usable for a partial import.
func Decode(data []byte) (Document, error) {
	var probe struct {
		Campaigns json.RawMessage `json:"campaigns"`
		Brands    json.RawMessage `json:"brands"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return Document{}, fmt.Errorf("backup: malformed document: %w", err)
	}
	if probe.Campaigns == nil || probe.Brands == nil {
		return Document{}, ErrMissingCollections
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("backup: malformed document: %w", err)
	}
	return doc, nil
}

// EncodeShareCode packs the document into a plain-text code suitable
// for chat channels: standard base64 over the compact JSON form.
func EncodeShareCode(doc Document) (string, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// DecodeShareCode reverses EncodeShareCode. Any decoding or parsing
// failure aborts the import as a whole; no records from a corrupt
// payload are ever applied.
func DecodeShareCode(code string) (Document, error) {
	data, err := base64.StdEncoding.DecodeString(code)
	if err != nil {
		return Document{}, fmt.Errorf("backup: invalid share code: %w", err)
	}
	return Decode(data)
}
