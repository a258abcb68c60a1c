package scenegraph

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"navigator/internal/geom"
)

// NodeDef is the YAML form of a node in an environment file, e.g. assets/env/courtyard.yaml:
//
//	nodes:
//	  - name: Ground
//	    type: plane
//	    scale: [40, 1, 40]
//	  - name: Cube.001
//	    type: cube
//	    position: [2, 0.5, 0]
//
// A node without type is a group.
type NodeDef struct {
	Name     string     `yaml:"name"`
	Type     string     `yaml:"type,omitempty"`
	Position [3]float32 `yaml:"position,omitempty"`
	Scale    [3]float32 `yaml:"scale,omitempty"`
	Children []NodeDef  `yaml:"children,omitempty"`
}

// EnvironmentDef is the top level of an environment file.
type EnvironmentDef struct {
	Name  string    `yaml:"name,omitempty"`
	Nodes []NodeDef `yaml:"nodes"`
}

// Parse decodes an environment from YAML and builds its graph.
func Parse(data []byte) (*Node, error) {
	var def EnvironmentDef
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}
	return def.Build()
}

// LoadFile reads and parses the environment file at path.
func LoadFile(path string) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}
	return Parse(data)
}

// Build turns the definition into a graph rooted at a group named after the environment.
func (d EnvironmentDef) Build() (*Node, error) {
	name := d.Name
	if name == "" {
		name = "Environment"
	}
	root := NewGroup(name)
	for i, nd := range d.Nodes {
		n, err := nd.build()
		if err != nil {
			return nil, fmt.Errorf("environment: node %d: %w", i, err)
		}
		root.Add(n)
	}
	return root, nil
}

func (d NodeDef) build() (*Node, error) {
	pos := geom.V(d.Position[0], d.Position[1], d.Position[2])
	scale := geom.V(d.Scale[0], d.Scale[1], d.Scale[2])
	var n *Node
	if d.Type == "" {
		n = NewGroup(d.Name)
		n.Position = pos
		n.Scale = scale
	} else {
		var err error
		n, err = NewPrimitive(d.Name, d.Type, pos, scale)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", d.Name, err)
		}
	}
	for _, cd := range d.Children {
		c, err := cd.build()
		if err != nil {
			return nil, err
		}
		n.Add(c)
	}
	return n, nil
}

// Save writes def as YAML to path.
func (d EnvironmentDef) Save(path string) error {
	data, err := yaml.Marshal(d)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
