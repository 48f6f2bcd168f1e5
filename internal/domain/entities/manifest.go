package entities

import (
	"bytes"
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

const (
	manifestFieldName    = "name"
	manifestFieldVersion = "version"
	manifestFieldPrivate = "private"
	manifestIndent       = "  "
)

// Manifest is a parsed package.json. Top-level fields keep their file order
// so that writing the manifest back only touches what the engine changed.
// Dependency fields are decoded into ordered name -> range maps keyed by kind.
type Manifest struct {
	fields *orderedmap.OrderedMap[string, json.RawMessage]
	deps   map[DependencyKind]*orderedmap.OrderedMap[string, string]
}

// NewManifest creates a minimal manifest with a name and a version.
func NewManifest(name, version string) *Manifest {
	m := &Manifest{
		fields: orderedmap.New[string, json.RawMessage](),
		deps:   make(map[DependencyKind]*orderedmap.OrderedMap[string, string]),
	}
	m.setString(manifestFieldName, name)
	m.setString(manifestFieldVersion, version)
	return m
}

// ParseManifest decodes package.json content.
func ParseManifest(data []byte) (*Manifest, error) {
	fields := orderedmap.New[string, json.RawMessage]()
	if err := json.Unmarshal(data, fields); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	m := &Manifest{
		fields: fields,
		deps:   make(map[DependencyKind]*orderedmap.OrderedMap[string, string]),
	}
	for _, kind := range ManifestDependencyKinds() {
		raw, ok := fields.Get(string(kind))
		if !ok {
			continue
		}
		deps := orderedmap.New[string, string]()
		if err := json.Unmarshal(raw, deps); err != nil {
			return nil, fmt.Errorf("failed to parse manifest field %q: %w", kind, err)
		}
		m.deps[kind] = deps
	}
	return m, nil
}

// Name returns the "name" field, or an empty string when absent.
func (m *Manifest) Name() string { return m.stringField(manifestFieldName) }

// Version returns the "version" field, or an empty string when absent.
func (m *Manifest) Version() string { return m.stringField(manifestFieldVersion) }

// SetVersion rewrites the "version" field in place.
func (m *Manifest) SetVersion(version string) { m.setString(manifestFieldVersion, version) }

// Private reports whether the manifest sets "private": true.
func (m *Manifest) Private() bool {
	raw, ok := m.fields.Get(manifestFieldPrivate)
	if !ok {
		return false
	}
	var private bool
	if err := json.Unmarshal(raw, &private); err != nil {
		return false
	}
	return private
}

// Field returns the raw JSON of a top-level field.
func (m *Manifest) Field(key string) (json.RawMessage, bool) {
	return m.fields.Get(key)
}

// DependencyNames returns the dependency names declared under kind, in file order.
func (m *Manifest) DependencyNames(kind DependencyKind) []string {
	deps, ok := m.deps[kind]
	if !ok {
		return nil
	}
	names := make([]string, 0, deps.Len())
	for pair := deps.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// DependencyRange returns the range declared for name under kind.
func (m *Manifest) DependencyRange(kind DependencyKind, name string) (string, bool) {
	deps, ok := m.deps[kind]
	if !ok {
		return "", false
	}
	return deps.Get(name)
}

// SetDependencyRange declares (or rewrites) the range of name under kind.
func (m *Manifest) SetDependencyRange(kind DependencyKind, name, versionRange string) {
	deps, ok := m.deps[kind]
	if !ok {
		deps = orderedmap.New[string, string]()
		m.deps[kind] = deps
	}
	deps.Set(name, versionRange)
}

// MarshalJSON encodes the manifest compactly, without HTML escaping.
func (m *Manifest) MarshalJSON() ([]byte, error) {
	for _, kind := range ManifestDependencyKinds() {
		deps, ok := m.deps[kind]
		if !ok {
			continue
		}
		raw, err := encodeStringMap(deps)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %q: %w", kind, err)
		}
		m.fields.Set(string(kind), raw)
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for pair := m.fields.Oldest(); pair != nil; pair = pair.Next() {
		if !first {
			buf.WriteByte(',')
		}
		first = false

		key, err := encodeValue(pair.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if err = json.Compact(&buf, pair.Value); err != nil {
			return nil, fmt.Errorf("invalid value for field %q: %w", pair.Key, err)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Bytes returns the manifest formatted the way npm writes package.json.
func (m *Manifest) Bytes() ([]byte, error) {
	compact, err := m.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err = json.Indent(&out, compact, "", manifestIndent); err != nil {
		return nil, fmt.Errorf("failed to format manifest: %w", err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

func (m *Manifest) stringField(key string) string {
	raw, ok := m.fields.Get(key)
	if !ok {
		return ""
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return ""
	}
	return value
}

func (m *Manifest) setString(key, value string) {
	raw, err := encodeValue(value)
	if err != nil {
		return
	}
	m.fields.Set(key, raw)
}

func encodeStringMap(values *orderedmap.OrderedMap[string, string]) (json.RawMessage, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for pair := values.Oldest(); pair != nil; pair = pair.Next() {
		if pair != values.Oldest() {
			buf.WriteByte(',')
		}
		key, err := encodeValue(pair.Key)
		if err != nil {
			return nil, err
		}
		value, err := encodeValue(pair.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func encodeValue(value any) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(value); err != nil {
		return nil, fmt.Errorf("failed to encode %v: %w", value, err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
