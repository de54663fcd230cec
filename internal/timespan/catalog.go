// Package timespan holds the ordered catalog of recognized rating time
// spans. Guides not tied to a single election cycle are scoped by one of
// these spans, and retrieval of the most recent guide for an organization
// walks the catalog in order, first match wins.
package timespan

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// defaultSpans lists the recognized spans, most recent first. Deployments can
// replace it with a YAML file (see LoadCatalog).
var defaultSpans = []string{
	"2016",
	"2015-2016",
	"2015",
	"2014-2015",
	"2014",
	"2013-2014",
	"2013",
	"2012-2013",
	"2012",
	"2011-2012",
	"2011",
	"2010-2011",
	"2010",
}

// Catalog is an ordered, fixed enumeration of valid time-span strings.
type Catalog struct {
	spans []string
}

// DefaultCatalog returns the built-in span catalog.
func DefaultCatalog() *Catalog {
	return &Catalog{spans: defaultSpans}
}

// catalogFile is the YAML shape of a span catalog override.
type catalogFile struct {
	TimeSpans []string `yaml:"time_spans"`
}

// LoadCatalog reads a span catalog from a YAML file of the form:
//
//	time_spans:
//	  - "2016"
//	  - "2015-2016"
//
// Order in the file is preserved and is expected to be most recent first.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read time span catalog: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse time span catalog: %w", err)
	}
	if len(file.TimeSpans) == 0 {
		return nil, fmt.Errorf("time span catalog %s lists no spans", path)
	}

	return &Catalog{spans: file.TimeSpans}, nil
}

// Spans returns the catalog entries in order. The returned slice must not be
// mutated.
func (c *Catalog) Spans() []string {
	return c.spans
}

// Contains reports whether the given span is recognized.
func (c *Catalog) Contains(span string) bool {
	for _, s := range c.spans {
		if s == span {
			return true
		}
	}
	return false
}
