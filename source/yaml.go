package source

import (
	"errors"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/paularlott/toon"
)

// MaxAliasExpansions caps the number of nodes produced by expanding aliases in
// one YAML document.
const MaxAliasExpansions = 100_000

// YAML reads the first document of a YAML stream. Mappings become records in
// document order, aliases are expanded and timestamps without a time of day
// become dates. An empty stream is null. An alias that refers to one of its
// own ancestors, or expansions beyond MaxAliasExpansions, is an error.
func YAML(r io.Reader) (toon.Node, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return toon.Null{}, nil
		}
		return nil, err
	}
	c := &yamlConverter{expanding: make(map[*yaml.Node]bool)}
	return c.convert(&doc)
}

type yamlConverter struct {
	// Anchored nodes whose alias is being expanded
	expanding map[*yaml.Node]bool
	aliased   int
	depth     int
}

func (c *yamlConverter) convert(n *yaml.Node) (toon.Node, error) {
	if c.depth > 0 {
		c.aliased++
		if c.aliased > MaxAliasExpansions {
			return nil, fmt.Errorf("source: line %d: alias expansion exceeds %d nodes", n.Line, MaxAliasExpansions)
		}
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return toon.Null{}, nil
		}
		return c.convert(n.Content[0])
	case yaml.AliasNode:
		target := n.Alias
		if target == nil || c.expanding[target] {
			return nil, fmt.Errorf("source: line %d: recursive alias %q", n.Line, n.Value)
		}
		c.expanding[target] = true
		c.depth++
		v, err := c.convert(target)
		c.depth--
		delete(c.expanding, target)
		return v, err
	case yaml.MappingNode:
		r := toon.NewRecord()
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i]
			if key.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("source: line %d: mapping keys must be scalars", key.Line)
			}
			if _, dup := r.Get(key.Value); dup {
				return nil, fmt.Errorf("source: line %d: duplicate key %q", key.Line, key.Value)
			}
			v, err := c.convert(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			r.Add(key.Value, v)
		}
		return r, nil
	case yaml.SequenceNode:
		seq := make(toon.Sequence, 0, len(n.Content))
		for _, item := range n.Content {
			v, err := c.convert(item)
			if err != nil {
				return nil, err
			}
			seq = append(seq, v)
		}
		return seq, nil
	case yaml.ScalarNode:
		return yamlScalar(n)
	}
	return nil, fmt.Errorf("source: line %d: unexpected YAML node kind %d", n.Line, n.Kind)
}

func yamlScalar(n *yaml.Node) (toon.Node, error) {
	switch n.ShortTag() {
	case "!!null":
		return toon.Null{}, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		return toon.Bool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return toon.Int(i), nil
		}
		return toon.ParseNumber(n.Value)
	case "!!float":
		if num, err := toon.ParseNumber(n.Value); err == nil {
			return num, nil
		}
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, err
		}
		return toon.Float(f), nil
	case "!!timestamp":
		if d, err := time.Parse(time.DateOnly, n.Value); err == nil {
			return toon.DateOf(d), nil
		}
		var t time.Time
		if err := n.Decode(&t); err != nil {
			return nil, err
		}
		return toon.DateTimeOf(t), nil
	}
	return toon.Text(n.Value), nil
}
