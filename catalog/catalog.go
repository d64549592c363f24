// Package catalog loads the indicator taxonomy (dimensions, subdimensions,
// indicators and their formula components) from a versioned YAML file and
// seeds it into the store.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/VLP-TECH/camara-vlc/models"
)

const (
	defaultFormula = "AGREGACION_DIRECTA"
	defaultSource  = "Desconocida"
	// missingDescription marks components without a data description.
	missingDescription = "nan"
)

type Catalog struct {
	Version    string         `yaml:"version"`
	Dimensions []DimensionDef `yaml:"dimensions"`
}

type DimensionDef struct {
	Name          string            `yaml:"name"`
	Weight        int               `yaml:"weight"`
	Subdimensions []SubdimensionDef `yaml:"subdimensions"`
}

type SubdimensionDef struct {
	Name       string         `yaml:"name"`
	Weight     int            `yaml:"weight"`
	Indicators []IndicatorDef `yaml:"indicators"`
}

type IndicatorDef struct {
	Name       string         `yaml:"name"`
	Origin     string         `yaml:"origin"`
	Formula    string         `yaml:"formula"`
	Importance string         `yaml:"importance"`
	Source     string         `yaml:"source"`
	Components []ComponentDef `yaml:"components"`
}

type ComponentDef struct {
	Description string      `yaml:"description"`
	Role        models.Role `yaml:"role"`
}

// Load reads and validates a catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes a catalog and validates it.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate rejects catalogs that would break name uniqueness or carry unknown
// importance tiers or component roles.
func (c *Catalog) Validate() error {
	var errs []error
	seen := map[string]map[string]bool{
		"dimension":    {},
		"subdimension": {},
		"indicator":    {},
	}
	unique := func(kind, name string) {
		if strings.TrimSpace(name) == "" {
			errs = append(errs, fmt.Errorf("%s with empty name", kind))
			return
		}
		if seen[kind][name] {
			errs = append(errs, fmt.Errorf("duplicate %s %q", kind, name))
		}
		seen[kind][name] = true
	}

	if len(c.Dimensions) == 0 {
		errs = append(errs, errors.New("catalog has no dimensions"))
	}
	for _, d := range c.Dimensions {
		unique("dimension", d.Name)
		if d.Weight < 0 {
			errs = append(errs, fmt.Errorf("dimension %q has negative weight", d.Name))
		}
		for _, s := range d.Subdimensions {
			unique("subdimension", s.Name)
			for _, ind := range s.Indicators {
				unique("indicator", ind.Name)
				if _, ok := models.ParseImportance(ind.Importance); !ok {
					errs = append(errs, fmt.Errorf("indicator %q: unknown importance %q", ind.Name, ind.Importance))
				}
				for _, comp := range ind.Components {
					if !comp.Role.Valid() {
						errs = append(errs, fmt.Errorf("indicator %q: unknown component role %q", ind.Name, comp.Role))
					}
				}
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid catalog: %w", errors.Join(errs...))
	}
	return nil
}

// Warnings reports conditions that are allowed but suspicious. Dimension
// weights are percentages the global score trusts as given.
func (c *Catalog) Warnings() []string {
	var out []string
	total := 0
	for _, d := range c.Dimensions {
		total += d.Weight
		if len(d.Subdimensions) == 0 {
			out = append(out, fmt.Sprintf("dimension %q has no subdimensions", d.Name))
		}
	}
	if total != 100 {
		out = append(out, fmt.Sprintf("dimension weights sum to %d, not 100", total))
	}
	return out
}

// SharedDescriptions returns the component descriptions used by more than one
// component. Data behind those descriptions is stored once as macro data.
func (c *Catalog) SharedDescriptions() map[string]bool {
	counts := make(map[string]int)
	for _, d := range c.Dimensions {
		for _, s := range d.Subdimensions {
			for _, ind := range s.Indicators {
				for _, comp := range ind.Components {
					if comp.Description == "" || comp.Description == missingDescription {
						continue
					}
					counts[comp.Description]++
				}
			}
		}
	}
	shared := make(map[string]bool)
	for desc, n := range counts {
		if n > 1 {
			shared[desc] = true
		}
	}
	return shared
}

// Models builds the dimension tree ready to be inserted.
func (c *Catalog) Models() []models.Dimension {
	shared := c.SharedDescriptions()
	dims := make([]models.Dimension, 0, len(c.Dimensions))
	for _, d := range c.Dimensions {
		dim := models.Dimension{Nombre: d.Name, Peso: d.Weight}
		for _, s := range d.Subdimensions {
			sub := models.Subdimension{Nombre: s.Name, Peso: s.Weight}
			for _, ind := range s.Indicators {
				tier, _ := models.ParseImportance(ind.Importance)
				indicator := models.Indicator{
					Nombre:      ind.Name,
					Origen:      ind.Origin,
					Formula:     orDefault(ind.Formula, defaultFormula),
					Importancia: string(tier),
					Fuente:      orDefault(ind.Source, defaultSource),
				}
				for _, comp := range ind.Components {
					source := models.SourceRaw
					if shared[comp.Description] {
						source = models.SourceMacro
					}
					indicator.Components = append(indicator.Components, models.Component{
						DescripcionDato: comp.Description,
						Fuente:          source,
						Rol:             comp.Role,
					})
				}
				sub.Indicators = append(sub.Indicators, indicator)
			}
			dim.Subdimensions = append(dim.Subdimensions, sub)
		}
		dims = append(dims, dim)
	}
	return dims
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
