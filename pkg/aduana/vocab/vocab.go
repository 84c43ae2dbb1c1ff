// Package vocab maintains the per-project vocabulary dictionary: accepted
// primary-category values and the secondary-category values observed under
// each. The primaries double as the fuzzy-match target list; the whole
// structure is the browsable taxonomy.
package vocab

import (
	"encoding/json"
	"sort"

	"github.com/cognicore/aduana/pkg/aduana/textnorm"
)

// Dictionary maps primary-category keys to their associated secondary values.
// Keys and values pass through textnorm.CanonicalKey before insertion; a
// key's value set never holds duplicates.
type Dictionary struct {
	entries map[string][]string
}

// Pair is one primary/secondary observation from the canonical record set.
type Pair struct {
	Principal  string
	Secundario string
}

// New creates an empty dictionary.
func New() *Dictionary {
	return &Dictionary{entries: make(map[string][]string)}
}

// Len reports the number of primary keys.
func (d *Dictionary) Len() int { return len(d.entries) }

// Primaries returns the primary keys in sorted order.
func (d *Dictionary) Primaries() []string {
	out := make([]string, 0, len(d.entries))
	for k := range d.entries {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Secondaries returns a copy of the values associated with a primary key.
func (d *Dictionary) Secondaries(primary string) []string {
	return append([]string(nil), d.entries[primary]...)
}

// Has reports whether a primary key exists.
func (d *Dictionary) Has(primary string) bool {
	_, ok := d.entries[primary]
	return ok
}

// Add canonicalizes and inserts a primary/secondary association, creating the
// primary key if new. An empty secondary still creates the key. Reports
// whether the dictionary changed.
func (d *Dictionary) Add(primary, secondary string) bool {
	p := textnorm.CanonicalKey(primary)
	if p == "" {
		return false
	}
	changed := false
	if _, ok := d.entries[p]; !ok {
		d.entries[p] = []string{}
		changed = true
	}
	s := textnorm.CanonicalKey(secondary)
	if s == "" {
		return changed
	}
	for _, existing := range d.entries[p] {
		if existing == s {
			return changed
		}
	}
	d.entries[p] = append(d.entries[p], s)
	return true
}

// Learn grows the dictionary from pipeline output: secondary values grouped
// by primary value, purely additive. Existing entries are never removed or
// overwritten, so re-running over the same record set is a no-op. Returns
// the number of associations added.
func (d *Dictionary) Learn(pairs []Pair) int {
	added := 0
	for _, p := range pairs {
		if d.Add(p.Principal, p.Secundario) {
			added++
		}
	}
	return added
}

// RenamePrimary renames a key. When the new name already exists the two value
// sets are merged and sorted. Reports whether the old key existed.
func (d *Dictionary) RenamePrimary(old, new string) bool {
	values, ok := d.entries[old]
	if !ok {
		return false
	}
	clean := textnorm.CanonicalKey(new)
	if clean == "" {
		return false
	}
	if clean == old {
		return true
	}
	if existing, ok := d.entries[clean]; ok {
		union := make(map[string]struct{}, len(existing)+len(values))
		for _, v := range existing {
			union[v] = struct{}{}
		}
		for _, v := range values {
			union[v] = struct{}{}
		}
		merged := make([]string, 0, len(union))
		for v := range union {
			merged = append(merged, v)
		}
		sort.Strings(merged)
		d.entries[clean] = merged
	} else {
		d.entries[clean] = values
	}
	delete(d.entries, old)
	return true
}

// RenameSecondary renames a value under a primary key. When the new value is
// already present the old one is simply dropped.
func (d *Dictionary) RenameSecondary(primary, old, new string) bool {
	values, ok := d.entries[primary]
	if !ok {
		return false
	}
	clean := textnorm.CanonicalKey(new)
	if clean == "" {
		return false
	}
	idx := -1
	exists := false
	for i, v := range values {
		if v == old {
			idx = i
		}
		if v == clean {
			exists = true
		}
	}
	if idx < 0 {
		return false
	}
	if exists && clean != old {
		d.entries[primary] = append(values[:idx], values[idx+1:]...)
	} else {
		values[idx] = clean
	}
	return true
}

// DeletePrimary removes a key and all its values.
func (d *Dictionary) DeletePrimary(primary string) bool {
	if _, ok := d.entries[primary]; !ok {
		return false
	}
	delete(d.entries, primary)
	return true
}

// DeleteSecondary removes one value; a key left without values is removed.
func (d *Dictionary) DeleteSecondary(primary, secondary string) bool {
	values, ok := d.entries[primary]
	if !ok {
		return false
	}
	for i, v := range values {
		if v != secondary {
			continue
		}
		d.entries[primary] = append(values[:i], values[i+1:]...)
		if len(d.entries[primary]) == 0 {
			delete(d.entries, primary)
		}
		return true
	}
	return false
}

// MarshalJSON encodes the document form: primary -> ordered value list, keys
// sorted. This matches the legacy diccionario.json layout.
func (d *Dictionary) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.entries)
}

// UnmarshalJSON decodes the document form.
func (d *Dictionary) UnmarshalJSON(data []byte) error {
	entries := make(map[string][]string)
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	for k, v := range entries {
		if v == nil {
			entries[k] = []string{}
		}
	}
	d.entries = entries
	return nil
}
