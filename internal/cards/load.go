package cards

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format identifies a deck file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ErrUnknownFormat is returned for deck files with an unsupported extension.
var ErrUnknownFormat = errors.New("cards: unknown deck format")

// FormatOf infers the encoding of a deck file from its extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// Load reads and validates a deck file. A deck without a name is named
// after the file.
func Load(path string) (Deck, error) {
	format, err := FormatOf(path)
	if err != nil {
		return Deck{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Deck{}, fmt.Errorf("cards: read %s: %w", path, err)
	}
	d, err := Parse(data, format)
	if err != nil {
		return Deck{}, fmt.Errorf("cards: %s: %w", path, err)
	}
	if d.Name == "" {
		d.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return d, nil
}

// Parse decodes and validates a deck.
func Parse(data []byte, format Format) (Deck, error) {
	d, err := Decode(data, format)
	if err != nil {
		return Deck{}, err
	}
	if err := d.Validate(); err != nil {
		return Deck{}, err
	}
	return d, nil
}

// Decode decodes a deck without validating it. Unknown fields are rejected.
func Decode(data []byte, format Format) (Deck, error) {
	var d Deck
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&d); err != nil && !errors.Is(err, io.EOF) {
			return Deck{}, fmt.Errorf("decode yaml: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&d); err != nil {
			return Deck{}, fmt.Errorf("decode json: %w", err)
		}
	default:
		return Deck{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return d, nil
}
