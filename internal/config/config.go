// internal/config/config.go
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Document is the register-map file loaded once at startup. Unknown
// extra fields are ignored for forward compatibility.
type Document struct {
	SlaveID    int    `yaml:"slave_id"`
	Endianness string `yaml:"endianness"`

	// Probe is the register used to test reachability during
	// discovery. When absent the first entry of Registers is used.
	Probe *RegisterEntry `yaml:"probe"`

	Registers []RegisterEntry `yaml:"registers"`
}

// RegisterEntry is one register descriptor as written in the map file.
type RegisterEntry struct {
	Name     string   `yaml:"name"`
	Type     string   `yaml:"type"`
	Address  uint16   `yaml:"address"`
	Function *uint8   `yaml:"function"` // default 3 (read holding)
	Scale    *float64 `yaml:"scale"`    // default 1.0
	Words    uint16   `yaml:"words"`    // explicit for ascii only

	// Map holds the enum/bitmask symbol table. It is kept as a raw
	// node so the file's key order survives into the symbol list.
	Map yaml.Node `yaml:"map"`

	Min *float64 `yaml:"min"`
	Max *float64 `yaml:"max"`
}

// Load reads and parses the register map at path.
func Load(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &doc, nil
}
