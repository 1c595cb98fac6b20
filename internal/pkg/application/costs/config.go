package costs

import (
	"io"
	"strings"

	"github.com/diwise/ifc-elements/internal/pkg/application/extraction"
	yaml "gopkg.in/yaml.v2"
)

type ElementCost struct {
	Type     string  `yaml:"type"`
	UnitCost float64 `yaml:"unitCost"`
}

// Config is the element catalogue. It lists the element types to extract, in report order,
// together with their unit cost per item or per square metre.
type Config struct {
	Currency string        `yaml:"currency"`
	Elements []ElementCost `yaml:"elements"`
}

func LoadConfiguration(data io.Reader) (*Config, error) {

	buf, err := io.ReadAll(data)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	err = yaml.Unmarshal(buf, &cfg)

	return cfg, err
}

// DefaultConfig lists the default element types without any costs
func DefaultConfig() *Config {
	cfg := &Config{}
	for _, t := range extraction.DefaultElementTypes {
		cfg.Elements = append(cfg.Elements, ElementCost{Type: t})
	}
	return cfg
}

func (c *Config) ElementTypes() []string {
	labels := make([]string, 0, len(c.Elements))
	for _, e := range c.Elements {
		labels = append(labels, e.Type)
	}
	return labels
}

// UnitCost returns the configured cost for an element type, or zero if the type is not listed
func (c *Config) UnitCost(elementType string) float64 {
	for _, e := range c.Elements {
		if strings.EqualFold(e.Type, elementType) {
			return e.UnitCost
		}
	}
	return 0
}
