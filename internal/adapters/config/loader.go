// Package config provides the YAML catalog and input loaders for derive.
package config

import (
	"bytes"
	"errors"
	"io"
	"os"
	"slices"
	"strings"

	"go.trai.ch/derive/internal/core/domain"
	"go.trai.ch/derive/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// SupportedVersion is the catalog format version understood by the loader.
const SupportedVersion = "1"

var (
	// ErrUnsupportedVersion is returned when a catalog declares an unknown format version.
	ErrUnsupportedVersion = zerr.New("unsupported catalog version")

	// ErrInvalidInput is returned when an inputs file entry is not a scalar.
	ErrInvalidInput = zerr.New("invalid input value")
)

// Loader implements ports.ConfigLoader using YAML files.
type Loader struct {
	logger ports.Logger
}

// NewLoader creates a new Loader.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{logger: logger}
}

// LoadCatalog reads the catalog at path and returns its descriptors sorted by name.
func (l *Loader) LoadCatalog(path string) ([]domain.ArgumentDescriptor, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read catalog file"), "path", path)
	}

	descs, err := ParseCatalog(data)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}

	l.logger.Debug("loaded catalog " + path)
	return descs, nil
}

// ParseCatalog decodes a catalog document. Unknown fields are rejected.
func ParseCatalog(data []byte) ([]domain.ArgumentDescriptor, error) {
	var file Catalogfile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, zerr.Wrap(err, "failed to parse catalog file")
	}

	if file.Version != "" && file.Version != SupportedVersion {
		return nil, zerr.With(zerr.Wrap(ErrUnsupportedVersion, "cannot load catalog"), "version", file.Version)
	}

	names := make([]string, 0, len(file.Arguments))
	for name := range file.Arguments {
		names = append(names, name)
	}
	slices.Sort(names)

	descs := make([]domain.ArgumentDescriptor, 0, len(names))
	for _, name := range names {
		dto := file.Arguments[name]
		cacheable := true
		if dto.Cacheable != nil {
			cacheable = *dto.Cacheable
		}
		descs = append(descs, domain.ArgumentDescriptor{
			Name:       name,
			Type:       dto.Type,
			Cacheable:  cacheable,
			Async:      dto.Async,
			Expression: strings.TrimSpace(dto.Expression),
			DependsOn:  dto.DependsOn,
		})
	}
	return descs, nil
}

// LoadInputs reads a flat name to scalar mapping from path.
func (l *Loader) LoadInputs(path string) (map[string]domain.Value, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read inputs file"), "path", path)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to parse inputs file"), "path", path)
	}

	inputs := make(map[string]domain.Value, len(raw))
	for name, x := range raw {
		v, err := toValue(x)
		if err != nil {
			return nil, zerr.With(zerr.With(err, "input", name), "path", path)
		}
		inputs[name] = v
	}

	l.logger.Debug("loaded inputs " + path)
	return inputs, nil
}

// ParseValue decodes a single YAML scalar such as `1`, `1.5`, `true` or `"text"`.
// An empty string is the empty string value.
func ParseValue(s string) (domain.Value, error) {
	if s == "" {
		return domain.String(""), nil
	}

	var x any
	if err := yaml.Unmarshal([]byte(s), &x); err != nil {
		return domain.Value{}, zerr.With(zerr.Wrap(err, "failed to parse value"), "value", s)
	}
	v, err := toValue(x)
	if err != nil {
		return domain.Value{}, zerr.With(err, "value", s)
	}
	return v, nil
}

func toValue(x any) (domain.Value, error) {
	if x == nil {
		return domain.Value{}, zerr.Wrap(ErrInvalidInput, "value is null")
	}
	v, err := domain.ValueOf(x)
	if err != nil {
		return domain.Value{}, zerr.Wrap(ErrInvalidInput, err.Error())
	}
	return v, nil
}
