package upload

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Definition describes one document slot offered to every employee.
type Definition struct {
	ID          string  `yaml:"id" json:"id"`
	Label       string  `yaml:"label" json:"label"`
	Description string  `yaml:"description" json:"description"`
	Accept      string  `yaml:"accept" json:"accept"`
	MaxSizeMB   float64 `yaml:"max_size_mb" json:"max_size_mb"`
	Required    bool    `yaml:"required" json:"required"`
	Strict      bool    `yaml:"strict_accept" json:"strict_accept"`
}

// Config returns the slot configuration for this definition.
func (d Definition) Config() Config {
	return Config{
		ID:           d.ID,
		Label:        d.Label,
		Description:  d.Description,
		Accept:       d.Accept,
		MaxSizeMB:    d.MaxSizeMB,
		StrictAccept: d.Strict,
	}.withDefaults()
}

// Catalog is the ordered set of slot definitions.
type Catalog struct {
	Slots []Definition `yaml:"slots"`
	index map[string]int
}

// DefaultCatalog returns the built-in onboarding document slots.
func DefaultCatalog() *Catalog {
	c := &Catalog{Slots: []Definition{
		{ID: "national_id", Label: "National ID", Description: "Front side of a government issued ID card", Required: true},
		{ID: "passport_photo", Label: "Passport Photo", Description: "Recent photo on a plain background", Accept: "image/*", MaxSizeMB: 2, Required: true},
		{ID: "resume", Label: "Resume", Description: "Latest resume or CV", Accept: ".pdf", MaxSizeMB: 10, Strict: true},
		{ID: "degree_certificate", Label: "Degree Certificate", Description: "Highest completed qualification", Required: true},
		{ID: "bank_details", Label: "Bank Details", Description: "Cancelled cheque or bank letter for payroll", Required: true},
	}}
	c.reindex()
	return c
}

// LoadCatalog reads slot definitions from a YAML file. An empty path yields the default catalog.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading slot catalog: %w", err)
	}
	return ParseCatalog(raw)
}

// ParseCatalog decodes a YAML catalog and validates every definition.
func ParseCatalog(raw []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parsing slot catalog: %w", err)
	}
	if len(c.Slots) == 0 {
		return nil, fmt.Errorf("slot catalog has no slots")
	}
	seen := make(map[string]bool, len(c.Slots))
	for _, d := range c.Slots {
		if d.ID == "" {
			return nil, fmt.Errorf("slot catalog: slot without id")
		}
		if seen[d.ID] {
			return nil, fmt.Errorf("slot catalog: duplicate slot %q", d.ID)
		}
		seen[d.ID] = true
		if err := d.Config().Check(); err != nil {
			return nil, fmt.Errorf("slot catalog: slot %q: %w", d.ID, err)
		}
	}
	c.reindex()
	return &c, nil
}

func (c *Catalog) reindex() {
	c.index = make(map[string]int, len(c.Slots))
	for i, d := range c.Slots {
		c.index[d.ID] = i
	}
}

// Get returns the definition with the given id.
func (c *Catalog) Get(id string) (Definition, bool) {
	i, ok := c.index[id]
	if !ok {
		return Definition{}, false
	}
	return c.Slots[i], true
}

// Required returns the ids of the required slots in catalog order.
func (c *Catalog) Required() []string {
	var ids []string
	for _, d := range c.Slots {
		if d.Required {
			ids = append(ids, d.ID)
		}
	}
	return ids
}
