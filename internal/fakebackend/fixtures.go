// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package fakebackend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/noldarim/nlctl/internal/protocol"
	"gopkg.in/yaml.v3"
)

// Fixture is one canned answer of the fake service.
type Fixture struct {
	Name     string
	Match    []string      // whole-command phrases, compared after normalization
	Keywords []string      // all must appear in the normalized command
	Status   int           // HTTP status, 200 when unset
	Delay    time.Duration // simulated processing time
	Response protocol.NLResponse
}

type fixtureFile struct {
	Responses []fixtureEntry `yaml:"responses"`
}

type fixtureEntry struct {
	Name     string        `yaml:"name"`
	Match    []string      `yaml:"match"`
	Keywords []string      `yaml:"keywords"`
	Status   int           `yaml:"status"`
	Delay    time.Duration `yaml:"delay"`
	Response yaml.Node     `yaml:"response"`
}

// Fixtures is an ordered, read-only set of canned answers.
type Fixtures struct {
	items []Fixture
}

// LoadFixtures reads a fixture file from disk.
func LoadFixtures(path string) (*Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures: %w", err)
	}
	f, err := ParseFixtures(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// ParseFixtures decodes fixture YAML. Response bodies keep the key order of the
// YAML source so payloads come back the way they were written.
func ParseFixtures(data []byte) (*Fixtures, error) {
	var file fixtureFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("invalid fixture yaml: %w", err)
	}

	items := make([]Fixture, 0, len(file.Responses))
	for i, entry := range file.Responses {
		if len(entry.Match) == 0 && len(entry.Keywords) == 0 {
			return nil, fmt.Errorf("fixture %d (%s): match or keywords required", i, entry.Name)
		}

		raw, err := nodeToJSON(&entry.Response)
		if err != nil {
			return nil, fmt.Errorf("fixture %d (%s): %w", i, entry.Name, err)
		}
		var resp protocol.NLResponse
		if err := json.Unmarshal(raw, &resp); err != nil {
			return nil, fmt.Errorf("fixture %d (%s): response is not an NL response: %w", i, entry.Name, err)
		}

		status := entry.Status
		if status == 0 {
			status = 200
		}
		items = append(items, Fixture{
			Name:     entry.Name,
			Match:    normalizeAll(entry.Match),
			Keywords: normalizeAll(entry.Keywords),
			Status:   status,
			Delay:    entry.Delay,
			Response: resp,
		})
	}
	return &Fixtures{items: items}, nil
}

// Len returns the number of fixtures
func (f *Fixtures) Len() int {
	return len(f.items)
}

// Lookup finds the fixture for a command. Exact phrases win over keyword
// fixtures; within each kind the first fixture in file order wins.
func (f *Fixtures) Lookup(text string) (Fixture, bool) {
	norm := normalize(text)
	for _, fx := range f.items {
		for _, m := range fx.Match {
			if m == norm {
				return fx, true
			}
		}
	}
	for _, fx := range f.items {
		if len(fx.Keywords) > 0 && containsAll(norm, fx.Keywords) {
			return fx, true
		}
	}
	return Fixture{}, false
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func normalizeAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if n := normalize(s); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func containsAll(s string, words []string) bool {
	for _, w := range words {
		if !strings.Contains(s, w) {
			return false
		}
	}
	return true
}

// nodeToJSON converts a YAML node to JSON without going through a map.
func nodeToJSON(n *yaml.Node) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeNode(&buf, n); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeNode(buf *bytes.Buffer, n *yaml.Node) error {
	switch n.Kind {
	case 0:
		buf.WriteString("null")
		return nil
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			buf.WriteString("null")
			return nil
		}
		return writeNode(buf, n.Content[0])
	case yaml.AliasNode:
		return writeNode(buf, n.Alias)
	case yaml.MappingNode:
		buf.WriteByte('{')
		for i := 0; i+1 < len(n.Content); i += 2 {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(n.Content[i].Value)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := writeNode(buf, n.Content[i+1]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	case yaml.SequenceNode:
		buf.WriteByte('[')
		for i, child := range n.Content {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeNode(buf, child); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	case yaml.ScalarNode:
		return writeScalar(buf, n)
	}
	return fmt.Errorf("line %d: unsupported yaml node kind %d", n.Line, n.Kind)
}

func writeScalar(buf *bytes.Buffer, n *yaml.Node) error {
	var v any
	switch n.ShortTag() {
	case "!!null":
		buf.WriteString("null")
		return nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return err
		}
		v = b
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return err
		}
		v = i
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return err
		}
		v = f
	default:
		v = n.Value
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	buf.Write(data)
	return nil
}
