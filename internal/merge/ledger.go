package merge

import (
	"github.com/statloom/statloom/internal/domain/meta"
	"github.com/statloom/statloom/internal/domain/opt"
)

// Ledger remembers, per canonical identifier, the last non-null value of
// every forward-fill-eligible field. One ledger serves one league run;
// running several leagues concurrently requires one ledger each, otherwise
// fields bleed between leagues. The ledger is not safe for concurrent use.
type Ledger struct {
	entries map[string]map[string]any
}

func NewLedger() *Ledger {
	return &Ledger{entries: make(map[string]map[string]any)}
}

// Slot is a writable view over one optional field of a freshly merged
// record. It lets the ledger patch or read the field without the merge
// layer reflecting over struct members.
type Slot interface {
	null() bool
	value() any
	fill(v any)
}

type optSlot[T any] struct {
	p *opt.Val[T]
}

// Field adapts an optional struct member into a ledger slot.
func Field[T any](p *opt.Val[T]) Slot {
	return optSlot[T]{p: p}
}

func (s optSlot[T]) null() bool {
	return s.p.Null()
}

func (s optSlot[T]) value() any {
	return s.p.MustGet()
}

func (s optSlot[T]) fill(v any) {
	if t, ok := v.(T); ok {
		*s.p = opt.Of(t)
	}
}

// Apply runs strictly after the field-by-field merge for an entity. Fields
// tagged golden for the kind are patched from the ledger when the merge left
// them empty; fields the merge did populate refresh the ledger instead.
// Non-golden fields are untouched either way.
func (l *Ledger) Apply(kind meta.Kind, canonicalID string, fields map[string]Slot) {
	if canonicalID == "" {
		return
	}
	key := string(kind) + "/" + canonicalID
	for name, slot := range fields {
		if !meta.Golden(kind, name) {
			continue
		}
		if slot.null() {
			if prev, ok := l.entries[key][name]; ok {
				slot.fill(prev)
			}
			continue
		}
		state, ok := l.entries[key]
		if !ok {
			state = make(map[string]any)
			l.entries[key] = state
		}
		state[name] = slot.value()
	}
}
