// Package seed holds the demo marketplace used by the in-memory backend.
package seed

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"agrotrust/internal/domain/entity"
)

//go:embed seed.yaml
var defaultData []byte

type Data struct {
	Farmers  []entity.FarmerProfile `yaml:"farmers"`
	Products []entity.Product       `yaml:"products"`
	Orders   []entity.Order         `yaml:"orders"`
}

// Default decodes the embedded demo data.
func Default() (*Data, error) {
	return Parse(defaultData)
}

func Parse(raw []byte) (*Data, error) {
	var d Data
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("decode seed data: %w", err)
	}
	if err := d.check(); err != nil {
		return nil, err
	}
	return &d, nil
}

// check rejects seed data that references unknown farmers or statuses.
func (d *Data) check() error {
	farmers := make(map[string]bool, len(d.Farmers))
	for _, f := range d.Farmers {
		if f.ID == "" {
			return fmt.Errorf("seed farmer without id")
		}
		farmers[f.ID] = true
	}
	for _, p := range d.Products {
		if !farmers[p.FarmerID] {
			return fmt.Errorf("seed product %s references unknown farmer %q", p.ID, p.FarmerID)
		}
	}
	for _, o := range d.Orders {
		if !farmers[o.FarmerID] {
			return fmt.Errorf("seed order %s references unknown farmer %q", o.ID, o.FarmerID)
		}
		if !o.Status.Valid() {
			return fmt.Errorf("seed order %s has unknown status %q", o.ID, o.Status)
		}
	}
	return nil
}
