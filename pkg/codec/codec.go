// Package codec converts typed values to a stable text form and back.
//
// Object datasets store one encoded record per line, so the text form
// must be newline-free; codecs therefore emit base64. The round trip
// must be deterministic for every type used with an object tap.
package codec

import (
	"encoding/base64"

	gojson "github.com/goccy/go-json"

	"github.com/ajitpratap0/nova/pkg/errors"
)

// Codec encodes values of a single statically-known type. The target
// type is fixed at construction, never inspected by reflection at the
// call site.
type Codec[T any] interface {
	// Name identifies the encoding, e.g. in shard metadata
	Name() string
	// EncodeToText encodes v into a single newline-free string
	EncodeToText(v T) (string, error)
	// DecodeFromText inverts EncodeToText
	DecodeFromText(s string) (T, error)
}

// jsonCodec is the default codec: JSON bytes wrapped in base64
type jsonCodec[T any] struct{}

// JSON returns the default codec for T, encoding values as
// base64(JSON). It round-trips any JSON-serializable type.
func JSON[T any]() Codec[T] {
	return jsonCodec[T]{}
}

func (jsonCodec[T]) Name() string {
	return "json-base64"
}

func (jsonCodec[T]) EncodeToText(v T) (string, error) {
	data, err := gojson.Marshal(v)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrorTypeData, "failed to encode record")
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

func (jsonCodec[T]) DecodeFromText(s string) (T, error) {
	var v T
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return v, errors.Wrap(err, errors.ErrorTypeDecode, "record is not valid base64")
	}
	if err := gojson.Unmarshal(data, &v); err != nil {
		return v, errors.Wrap(err, errors.ErrorTypeDecode, "failed to decode record")
	}
	return v, nil
}
