package catalog

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"
	"sync"
	"unicode"

	"gopkg.in/yaml.v3"
)

// GeneralDomain is the catalog entry used when a domain is not recognised
const GeneralDomain = "General"

//go:embed domains.yaml
var embeddedCatalog []byte

// Domain is a named professional field and its canonical skills
type Domain struct {
	Name   string   `yaml:"name"`
	Skills []string `yaml:"skills"`
}

type catalogFile struct {
	Version  int      `yaml:"version"`
	Fallback string   `yaml:"fallback"`
	Domains  []Domain `yaml:"domains"`
}

// Catalog is an immutable mapping from domain name to an ordered skill list.
// Lookups compare names with NormalizeName.
type Catalog struct {
	version  int
	domains  []Domain
	byKey    map[string]int
	fallback int

	// universe is every skill across every domain, lower-cased, de-duplicated and sorted
	universe []string
}

var (
	defaultCatalog *Catalog
	defaultOnce    sync.Once
)

// Default returns the process-wide catalog parsed from the embedded data.
// It is built once and never mutated.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(embeddedCatalog)
		if err != nil {
			panic(fmt.Sprintf("embedded domain catalog is invalid: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Parse builds a Catalog from YAML data
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse domain catalog: %w", err)
	}

	fallbackName := file.Fallback
	if fallbackName == "" {
		fallbackName = GeneralDomain
	}

	c := &Catalog{
		version:  file.Version,
		domains:  make([]Domain, 0, len(file.Domains)),
		byKey:    make(map[string]int, len(file.Domains)),
		fallback: -1,
	}

	seen := make(map[string]bool)
	for _, d := range file.Domains {
		name := strings.TrimSpace(d.Name)
		if name == "" {
			return nil, fmt.Errorf("domain catalog entry %d has no name", len(c.domains))
		}
		key := NormalizeName(name)
		if _, exists := c.byKey[key]; exists {
			return nil, fmt.Errorf("domain catalog has duplicate domain %q", name)
		}

		skills := make([]string, 0, len(d.Skills))
		for _, s := range d.Skills {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			skills = append(skills, s)

			lower := strings.ToLower(s)
			if !seen[lower] {
				seen[lower] = true
				c.universe = append(c.universe, lower)
			}
		}

		c.byKey[key] = len(c.domains)
		c.domains = append(c.domains, Domain{Name: name, Skills: skills})
	}

	idx, ok := c.byKey[NormalizeName(fallbackName)]
	if !ok {
		return nil, fmt.Errorf("domain catalog has no fallback domain %q", fallbackName)
	}
	c.fallback = idx

	slices.Sort(c.universe)

	return c, nil
}

// Version returns the catalog data version
func (c *Catalog) Version() int {
	return c.version
}

// Lookup returns the domain entry for name. The second return value is false
// when name was not recognised and the fallback entry was returned instead.
func (c *Catalog) Lookup(name string) (Domain, bool) {
	idx, ok := c.byKey[NormalizeName(name)]
	if !ok {
		return c.copyDomain(c.fallback), false
	}
	return c.copyDomain(idx), true
}

// Skills returns the ordered canonical skills for a domain (fallback applied)
func (c *Catalog) Skills(name string) []string {
	d, _ := c.Lookup(name)
	return d.Skills
}

// DomainSkills returns the domain's skills as a comma-separated string
func (c *Catalog) DomainSkills(name string) string {
	return strings.Join(c.Skills(name), ", ")
}

// Domains returns the catalog's domain names in declaration order
func (c *Catalog) Domains() []string {
	names := make([]string, len(c.domains))
	for i, d := range c.domains {
		names[i] = d.Name
	}
	return names
}

// Universe returns every known skill, lower-cased, de-duplicated and sorted
func (c *Catalog) Universe() []string {
	return slices.Clone(c.universe)
}

func (c *Catalog) copyDomain(idx int) Domain {
	d := c.domains[idx]
	return Domain{Name: d.Name, Skills: slices.Clone(d.Skills)}
}

// NormalizeName lower-cases a domain name and strips whitespace, hyphens and
// underscores so "Data Science", "data-science" and "DATA_SCIENCE" compare equal
func NormalizeName(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '-' || r == '_' {
			return -1
		}
		return unicode.ToLower(r)
	}, name)
}
