// Package hostsyms loads the host-exported symbol table (SPEC_FULL.md §3
// "Host-exported entry", §6) from a manifest file. The manifest format is
// not part of the loader's contract — packaging of the exported symbol
// table is explicitly out of scope (spec.md §1) — but the CLI needs some
// on-disk representation to demonstrate the loader end to end, so this
// package owns exactly that one concern.
package hostsyms

import (
	"fmt"
	"os"
	"strconv"

	"github.com/Manu343726/armldr/internal/armelf"
	"golang.org/x/exp/slices"
	yamlv2 "gopkg.in/yaml.v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// LoadManifest reads the current manifest schema: a YAML mapping of
// symbol name to address, the address given as a decimal or 0x-prefixed
// hex string (e.g. `printf: 0x08001234`).
func LoadManifest(path string) ([]armelf.HostSymbol, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}

	var entries map[string]string
	if err := yamlv3.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return toTable(entries)
}

// legacyManifest is the older one-level schema some firmware images still
// ship: a list of explicit name/address records under a top-level key,
// decoded with yaml.v2 so the two schemas share no struct tags and a
// manifest written for one format can't silently half-match the other.
type legacyManifest struct {
	Symbols []struct {
		Name    string `yaml:"name"`
		Address string `yaml:"address"`
	} `yaml:"symbols"`
}

// LoadManifestV2 reads the legacy manifest schema.
func LoadManifestV2(path string) ([]armelf.HostSymbol, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}

	var m legacyManifest
	if err := yamlv2.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parsing legacy manifest %s: %w", path, err)
	}

	entries := make(map[string]string, len(m.Symbols))
	for _, sym := range m.Symbols {
		entries[sym.Name] = sym.Address
	}
	return toTable(entries)
}

func toTable(entries map[string]string) ([]armelf.HostSymbol, error) {
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	slices.Sort(names)

	table := make([]armelf.HostSymbol, 0, len(names))
	for _, name := range names {
		addrStr := entries[name]
		addr, err := strconv.ParseUint(addrStr, 0, 32)
		if err != nil {
			return nil, fmt.Errorf("symbol %q: invalid address %q: %w", name, addrStr, err)
		}
		if name == "" {
			return nil, fmt.Errorf("manifest contains an unnamed symbol")
		}
		table = append(table, armelf.HostSymbol{Name: name, Address: uint32(addr)})
	}
	return table, nil
}
