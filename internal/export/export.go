// Package export writes store snapshots as JSON or YAML.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/san-kum/scenestage/internal/scene"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown export format: %s", s)
	}
}

// Write encodes snap to w.
func Write(w io.Writer, format Format, snap scene.Snapshot) error {
	if snap.Scenes == nil {
		snap.Scenes = []scene.Scene{}
	}
	if snap.Events == nil {
		snap.Events = []scene.Event{}
	}

	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(snap)
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(snap); err != nil {
			return err
		}
		return encoder.Close()
	default:
		return fmt.Errorf("unknown export format: %s", format)
	}
}

// WriteFile encodes snap to path, or to stdout when path is "-" or empty.
func WriteFile(path string, format Format, snap scene.Snapshot) error {
	if path == "" || path == "-" {
		return Write(os.Stdout, format, snap)
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return Write(file, format, snap)
}
