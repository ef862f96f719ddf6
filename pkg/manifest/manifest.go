// Package manifest loads the assets.json documents emitted by the build.
// A manifest maps each script handle to the dependency list the build
// declared for it, and remembers the order handles appear in the document
// so reports can follow the build's own ordering.
package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// DefaultName is the manifest file name inside an assets folder.
const DefaultName = "assets.json"

// AssetRecord describes one build artifact as declared by the manifest.
type AssetRecord struct {
	// Dependencies is the ordered list of script handles this artifact
	// depends on.
	Dependencies []string `json:"dependencies"`

	// Version is emitted by some build pipelines. It does not participate
	// in the diff; every artifact in the new manifest is considered.
	Version string `json:"version,omitempty"`
}

// Manifest is an ordered mapping from artifact handle to its record.
type Manifest struct {
	records map[string]AssetRecord
	order   []string
}

// New returns an empty manifest.
func New() *Manifest {
	return &Manifest{records: make(map[string]AssetRecord)}
}

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &m, nil
}

// LoadOrEmpty reads the manifest at path, falling back to an empty manifest
// when the file is missing or unparseable. Used for the old snapshot, where
// no prior manifest simply means no prior artifacts.
func LoadOrEmpty(path string) *Manifest {
	m, err := Load(path)
	if err != nil {
		return New()
	}
	return m
}

// UnmarshalJSON decodes the manifest object while preserving key order.
// encoding/json map decoding would lose the document order, so the object is
// walked token by token instead.
func (m *Manifest) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("manifest must be a JSON object, got %v", tok)
	}

	m.records = make(map[string]AssetRecord)
	m.order = nil

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		handle, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("unexpected manifest key token %v", keyTok)
		}

		var rec AssetRecord
		if err := dec.Decode(&rec); err != nil {
			return fmt.Errorf("invalid record for %q: %w", handle, err)
		}

		if _, seen := m.records[handle]; !seen {
			m.order = append(m.order, handle)
		}
		m.records[handle] = rec
	}

	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// MarshalJSON encodes the manifest in its recorded handle order.
func (m *Manifest) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, handle := range m.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(handle)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(m.records[handle])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Add inserts or replaces the record for handle, appending it to the order
// on first insert.
func (m *Manifest) Add(handle string, rec AssetRecord) {
	if m.records == nil {
		m.records = make(map[string]AssetRecord)
	}
	if _, seen := m.records[handle]; !seen {
		m.order = append(m.order, handle)
	}
	m.records[handle] = rec
}

// Record returns the record for handle and whether it exists.
func (m *Manifest) Record(handle string) (AssetRecord, bool) {
	rec, ok := m.records[handle]
	return rec, ok
}

// Has reports whether handle is present in the manifest.
func (m *Manifest) Has(handle string) bool {
	_, ok := m.records[handle]
	return ok
}

// Handles returns the artifact handles in document order.
func (m *Manifest) Handles() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Len returns the number of artifacts in the manifest.
func (m *Manifest) Len() int {
	return len(m.records)
}
