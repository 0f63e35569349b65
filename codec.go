package facet

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"io"
	"mime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Codec is a wire representation. A registry carries a set of codecs and
// adapters negotiate one per request: the Content-Type header selects the
// decode codec, the Accept header selects the encode codec.
type Codec interface {
	ContentType() string
	Encode(w io.Writer, v any) error
	Decode(r io.Reader, v any) error
}

type jsonCodec struct{}

func (jsonCodec) ContentType() string { return "application/json" }

func (jsonCodec) Encode(w io.Writer, v any) error {
	return json.NewEncoder(w).Encode(v)
}

func (jsonCodec) Decode(r io.Reader, v any) error {
	err := json.NewDecoder(r).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

type xmlCodec struct{}

func (xmlCodec) ContentType() string { return "application/xml" }

func (xmlCodec) Encode(w io.Writer, v any) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	return xml.NewEncoder(w).Encode(v)
}

func (xmlCodec) Decode(r io.Reader, v any) error {
	err := xml.NewDecoder(r).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

type yamlCodec struct{}

func (yamlCodec) ContentType() string { return "application/yaml" }

func (yamlCodec) Encode(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func (yamlCodec) Decode(r io.Reader, v any) error {
	err := yaml.NewDecoder(r).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// codecSet holds all registered codecs. Index 0 is always JSON (the default).
type codecSet struct {
	codecs []Codec
}

// newCodecSet builds a set with JSON first, then XML and YAML, then any
// user-registered codecs.
func newCodecSet(user []Codec) *codecSet {
	cs := &codecSet{codecs: make([]Codec, 0, 3+len(user))}
	cs.codecs = append(cs.codecs, jsonCodec{}, xmlCodec{}, yamlCodec{})
	cs.codecs = append(cs.codecs, user...)
	return cs
}

// negotiate picks a codec based on the Accept header value.
// Returns (JSON, true) for empty or */* accept values.
// Returns (nil, false) if an explicit Accept has no match.
func (cs *codecSet) negotiate(accept string) (Codec, bool) {
	if accept == "" {
		return cs.codecs[0], true
	}

	type candidate struct {
		codec   Codec
		quality float64
	}

	var best candidate
	best.quality = -1

	for part := range strings.SplitSeq(accept, ",") {
		mediaType, params, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}

		q := 1.0
		if qs, ok := params["q"]; ok {
			if parsed, err := strconv.ParseFloat(qs, 64); err == nil {
				q = parsed
			}
		}

		// q=0 means "not acceptable" (RFC 9110 section 12.4.2).
		if q <= 0 || q <= best.quality {
			continue
		}

		if mediaType == "*/*" {
			best = candidate{codec: cs.codecs[0], quality: q}
			continue
		}

		for _, c := range cs.codecs {
			if c.ContentType() == mediaType {
				best = candidate{codec: c, quality: q}
				break
			}
		}
	}

	if best.codec == nil {
		return nil, false
	}
	return best.codec, true
}

// forContentType returns the codec matching the given Content-Type.
// Returns (JSON, true) for empty content type.
// Returns (nil, false) if the content type is present but unrecognized.
func (cs *codecSet) forContentType(contentType string) (Codec, bool) {
	if contentType == "" {
		return cs.codecs[0], true
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, false
	}

	for _, c := range cs.codecs {
		if c.ContentType() == mediaType {
			return c, true
		}
	}
	return nil, false
}

// contentTypes returns all codec content types (for the surface description).
func (cs *codecSet) contentTypes() []string {
	cts := make([]string, len(cs.codecs))
	for i, c := range cs.codecs {
		cts[i] = c.ContentType()
	}
	return cts
}
