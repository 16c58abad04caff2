// Package identity maps source-local identifiers onto canonical ones. The
// maps are static, human-maintained tables; the resolver does no fuzzy
// matching on purpose : an unreviewed guess would silently fuse or fracture
// real-world entities.
package identity

import (
	"fmt"
	"os"
	"strings"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/statloom/statloom/internal/domain/meta"
)

// ErrUnmapped reports a source identifier missing from a declared identity
// map. This is a configuration error: letting the identifier through would
// split one real-world entity into two canonical ones.
var ErrUnmapped = crerr.New("unmapped source identifier")

// Resolver holds per-league, per-kind identity maps.
type Resolver struct {
	maps map[meta.Kind]map[string]map[string]string
}

func NewResolver() *Resolver {
	return &Resolver{maps: make(map[meta.Kind]map[string]map[string]string)}
}

// Register installs (or extends) the identity map for one kind in one
// league. Once a map exists for a (kind, league) pair, every identifier of
// that kind must appear in it.
func (r *Resolver) Register(kind meta.Kind, league string, mapping map[string]string) {
	league = strings.ToLower(strings.TrimSpace(league))
	byLeague, ok := r.maps[kind]
	if !ok {
		byLeague = make(map[string]map[string]string)
		r.maps[kind] = byLeague
	}
	table, ok := byLeague[league]
	if !ok {
		table = make(map[string]string)
		byLeague[league] = table
	}
	for src, canonical := range mapping {
		table[src] = canonical
	}
}

// LoadFile reads identity maps from a JSON document shaped as
// {"kind": {"league": {"source id": "canonical id"}}}.
func (r *Resolver) LoadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read identity map file: %w", err)
	}
	var doc map[string]map[string]map[string]string
	if err := sonic.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("decode identity map file %s: %w", path, err)
	}
	for kind, byLeague := range doc {
		for league, table := range byLeague {
			r.Register(meta.Kind(kind), league, table)
		}
	}
	return nil
}

// Resolve maps a source identifier to its canonical identifier. When no map
// is registered for the (kind, league) pair the identifier passes through
// unchanged; when a map exists, a missing entry is fatal.
func (r *Resolver) Resolve(kind meta.Kind, league, source string) (string, error) {
	league = strings.ToLower(strings.TrimSpace(league))
	source = strings.TrimSpace(source)
	if source == "" {
		return "", fmt.Errorf("resolve %s identifier: empty source identifier", kind)
	}

	table, ok := r.maps[kind][league]
	if !ok {
		return source, nil
	}
	canonical, ok := table[source]
	if !ok {
		return "", crerr.Wrapf(ErrUnmapped, "kind=%s league=%s id=%q", kind, league, source)
	}
	return canonical, nil
}
