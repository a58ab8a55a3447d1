package scene

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a scene file encoding.
type Format int

const (
	TOML Format = iota
	YAML
	JSON
)

func (f Format) String() string {
	switch f {
	case TOML:
		return "toml"
	case YAML:
		return "yaml"
	case JSON:
		return "json"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat returns the format named s ("toml", "yaml", "yml" or "json").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "toml":
		return TOML, nil
	case "yaml", "yml":
		return YAML, nil
	case "json":
		return JSON, nil
	}
	return 0, fmt.Errorf("scene: unknown format %q", s)
}

// FormatFromPath returns the format matching the extension of filename.
func FormatFromPath(filename string) (Format, error) {
	return ParseFormat(filepath.Ext(filename))
}

// Decoder decodes a value from the reader it was created with.
type Decoder interface {
	Decode(v any) error
}

// Encoder encodes a value to the writer it was created with.
type Encoder interface {
	Encode(v any) error
}

// DecoderFunc returns a strict [Decoder] for the format: unknown keys are
// errors so that typos in scene files do not go unnoticed.
func (f Format) DecoderFunc() func(r io.Reader) Decoder {
	switch f {
	case YAML:
		return func(r io.Reader) Decoder {
			d := yaml.NewDecoder(r)
			d.KnownFields(true)
			return d
		}
	case JSON:
		return func(r io.Reader) Decoder {
			d := json.NewDecoder(r)
			d.DisallowUnknownFields()
			return d
		}
	default:
		return func(r io.Reader) Decoder {
			return toml.NewDecoder(r).DisallowUnknownFields()
		}
	}
}

// EncoderFunc returns an [Encoder] for the format.
func (f Format) EncoderFunc() func(w io.Writer) Encoder {
	switch f {
	case YAML:
		return func(w io.Writer) Encoder {
			e := yaml.NewEncoder(w)
			e.SetIndent(2)
			return e
		}
	case JSON:
		return func(w io.Writer) Encoder {
			e := json.NewEncoder(w)
			e.SetIndent("", "  ")
			return e
		}
	default:
		return func(w io.Writer) Encoder {
			return toml.NewEncoder(w).SetIndentTables(true)
		}
	}
}

// Decode reads a scene in the given format.
func Decode(r io.Reader, format Format) (*Scene, error) {
	sc := &Scene{}
	if err := format.DecoderFunc()(r).Decode(sc); err != nil {
		if errors.Is(err, io.EOF) {
			return sc, nil
		}
		return nil, fmt.Errorf("scene: decode %s: %w", format, err)
	}
	return sc, nil
}

// Encode writes sc in the given format.
func Encode(w io.Writer, sc *Scene, format Format) error {
	e := format.EncoderFunc()(w)
	if err := e.Encode(sc); err != nil {
		return fmt.Errorf("scene: encode %s: %w", format, err)
	}
	if c, ok := e.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Open reads the scene file filename, choosing the format by extension.
func Open(filename string) (*Scene, error) {
	format, err := FormatFromPath(filename)
	if err != nil {
		return nil, err
	}
	fp, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	sc, err := Decode(bufio.NewReader(fp), format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return sc, nil
}

// Save writes sc to filename, choosing the format by extension.
func Save(sc *Scene, filename string) error {
	format, err := FormatFromPath(filename)
	if err != nil {
		return err
	}
	fp, err := os.Create(filename)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(fp)
	err = Encode(bw, sc, format)
	if err == nil {
		err = bw.Flush()
	}
	if cerr := fp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}
	return nil
}
