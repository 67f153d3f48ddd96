// Package maven turns a Maven project descriptor into classpath entries.
//
// Only what is needed to compute a compile classpath is modelled: coordinates,
// parent inheritance, properties, dependencies and dependency management.
// Artifacts are looked up in a local repository laid out like ~/.m2/repository;
// nothing is fetched over the network.
package maven

import (
	"encoding/xml"
	"fmt"
	"strings"
)

type POM struct {
	XMLName              xml.Name              `xml:"project"`
	GroupID              string                `xml:"groupId"`
	ArtifactID           string                `xml:"artifactId"`
	Version              string                `xml:"version"`
	Packaging            string                `xml:"packaging"`
	Parent               *Parent               `xml:"parent"`
	Properties           Properties            `xml:"properties"`
	Dependencies         []Dependency          `xml:"dependencies>dependency"`
	DependencyManagement *DependencyManagement `xml:"dependencyManagement"`
}

type Parent struct {
	GroupID      string `xml:"groupId"`
	ArtifactID   string `xml:"artifactId"`
	Version      string `xml:"version"`
	RelativePath string `xml:"relativePath"`
}

func (p *Parent) Coordinate() Coordinate {
	return Coordinate{GroupID: p.GroupID, ArtifactID: p.ArtifactID, Version: p.Version}
}

// Properties holds the free-form <properties> block.
type Properties map[string]string

func (p *Properties) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	if *p == nil {
		*p = make(Properties)
	}
	for {
		token, err := d.Token()
		if err != nil {
			return err
		}
		switch t := token.(type) {
		case xml.StartElement:
			var value string
			if err := d.DecodeElement(&value, &t); err != nil {
				return err
			}
			(*p)[t.Name.Local] = strings.TrimSpace(value)
		case xml.EndElement:
			if t.Name == start.Name {
				return nil
			}
		}
	}
}

type Dependency struct {
	GroupID    string      `xml:"groupId"`
	ArtifactID string      `xml:"artifactId"`
	Version    string      `xml:"version"`
	Type       string      `xml:"type"`
	Classifier string      `xml:"classifier"`
	Scope      string      `xml:"scope"`
	Optional   string      `xml:"optional"`
	Exclusions []Exclusion `xml:"exclusions>exclusion"`
}

func (d Dependency) Key() ArtifactKey {
	return ArtifactKey{GroupID: d.GroupID, ArtifactID: d.ArtifactID}
}

func (d Dependency) IsOptional() bool {
	return strings.TrimSpace(d.Optional) == "true"
}

type Exclusion struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
}

type DependencyManagement struct {
	Dependencies []Dependency `xml:"dependencies>dependency"`
}

// ArtifactKey identifies an artifact independent of its version.
type ArtifactKey struct {
	GroupID    string
	ArtifactID string
}

func (k ArtifactKey) String() string {
	return k.GroupID + ":" + k.ArtifactID
}

// Coordinate is a versioned artifact, optionally with a classifier.
type Coordinate struct {
	GroupID    string
	ArtifactID string
	Version    string
	Classifier string
}

func (c Coordinate) Key() ArtifactKey {
	return ArtifactKey{GroupID: c.GroupID, ArtifactID: c.ArtifactID}
}

func (c Coordinate) String() string {
	if c.Classifier != "" {
		return fmt.Sprintf("%s:%s:%s:%s", c.GroupID, c.ArtifactID, c.Classifier, c.Version)
	}
	return fmt.Sprintf("%s:%s:%s", c.GroupID, c.ArtifactID, c.Version)
}

// ParseCoordinate accepts group:artifact:version and
// group:artifact:classifier:version.
func ParseCoordinate(s string) (Coordinate, error) {
	parts := strings.Split(s, ":")
	switch len(parts) {
	case 3:
		return Coordinate{GroupID: parts[0], ArtifactID: parts[1], Version: parts[2]}, nil
	case 4:
		return Coordinate{GroupID: parts[0], ArtifactID: parts[1], Classifier: parts[2], Version: parts[3]}, nil
	default:
		return Coordinate{}, fmt.Errorf("invalid maven coordinate %q (expected group:artifact:version or group:artifact:classifier:version)", s)
	}
}

// ParsePOM decodes a pom.xml document without resolving its parent or
// properties.
func ParsePOM(data []byte) (*POM, error) {
	var pom POM
	if err := xml.Unmarshal(data, &pom); err != nil {
		return nil, fmt.Errorf("parse pom: %w", err)
	}
	return &pom, nil
}

// inherit fills what p leaves unset from its already effective parent.
func (p *POM) inherit(parent *POM) {
	if p.GroupID == "" {
		p.GroupID = parent.GroupID
	}
	if p.Version == "" {
		p.Version = parent.Version
	}
	if p.Properties == nil {
		p.Properties = make(Properties)
	}
	for k, v := range parent.Properties {
		if _, ok := p.Properties[k]; !ok {
			p.Properties[k] = v
		}
	}
	if parent.DependencyManagement == nil {
		return
	}
	if p.DependencyManagement == nil {
		p.DependencyManagement = &DependencyManagement{}
	}
	own := make(map[ArtifactKey]bool)
	for _, d := range p.DependencyManagement.Dependencies {
		own[d.Key()] = true
	}
	for _, d := range parent.DependencyManagement.Dependencies {
		if !own[d.Key()] {
			p.DependencyManagement.Dependencies = append(p.DependencyManagement.Dependencies, d)
		}
	}
}

// interpolate expands ${...} references in coordinates of dependencies and
// managed dependencies. References may nest; unknown ones are left as is.
func (p *POM) interpolate() {
	props := map[string]string{
		"project.groupId":    p.GroupID,
		"project.artifactId": p.ArtifactID,
		"project.version":    p.Version,
		"pom.groupId":        p.GroupID,
		"pom.artifactId":     p.ArtifactID,
		"pom.version":        p.Version,
	}
	if p.Parent != nil {
		props["project.parent.groupId"] = p.Parent.GroupID
		props["project.parent.version"] = p.Parent.Version
	}
	for k, v := range p.Properties {
		props[k] = v
	}

	expand := func(s string) string {
		// bounded so that self-referencing properties terminate
		for range 8 {
			if !strings.Contains(s, "${") {
				return s
			}
			next := s
			for k, v := range props {
				next = strings.ReplaceAll(next, "${"+k+"}", v)
			}
			if next == s {
				return s
			}
			s = next
		}
		return s
	}

	fix := func(deps []Dependency) {
		for i := range deps {
			deps[i].GroupID = expand(deps[i].GroupID)
			deps[i].ArtifactID = expand(deps[i].ArtifactID)
			deps[i].Version = expand(deps[i].Version)
			deps[i].Scope = expand(deps[i].Scope)
			deps[i].Classifier = expand(deps[i].Classifier)
		}
	}
	fix(p.Dependencies)
	if p.DependencyManagement != nil {
		fix(p.DependencyManagement.Dependencies)
	}
}

func (p *POM) managed() map[ArtifactKey]Dependency {
	m := make(map[ArtifactKey]Dependency)
	if p.DependencyManagement == nil {
		return m
	}
	for _, d := range p.DependencyManagement.Dependencies {
		if _, ok := m[d.Key()]; !ok {
			m[d.Key()] = d
		}
	}
	return m
}
