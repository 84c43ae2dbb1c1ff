package refdata

import (
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/aduana/pkg/aduana/textnorm"
)

// Sentinel descriptions for tariff lookups. Downstream consumers join these
// into reports verbatim, so they keep the wire values of the legacy system.
const (
	GlossNA       = "N/A"
	GlossNotFound = "Código no encontrado"
)

// TariffEntry is one leaf of the tariff classification: a digits-only code,
// its original gloss and the section (partida) it belongs to.
type TariffEntry struct {
	Code    string
	Gloss   string
	Section string

	normGloss string
}

// TariffIndex is a flat, query-ready view over the hierarchical tariff
// taxonomy: exact lookup by cleaned code plus substring search over
// accent-stripped glosses.
type TariffIndex struct {
	entries []TariffEntry
	byCode  map[string]string
}

// tariffDoc mirrors the on-disk shape: section code -> description + leaves.
type tariffDoc struct {
	Partidas map[string]struct {
		Descripcion string            `yaml:"descripcion"`
		Subpartidas map[string]string `yaml:"subpartidas"`
	} `yaml:"partidas"`
}

// NewTariffIndex flattens entries into an index. Entries whose code cleans to
// empty are discarded. Later duplicates of a code do not displace the first.
func NewTariffIndex(entries []TariffEntry) *TariffIndex {
	idx := &TariffIndex{byCode: make(map[string]string)}
	for _, e := range entries {
		code := textnorm.CleanTariffCode(e.Code)
		if code == "" || strings.TrimSpace(e.Gloss) == "" {
			continue
		}
		e.Code = code
		e.Gloss = strings.TrimSpace(e.Gloss)
		e.normGloss = textnorm.Normalize(e.Gloss)
		idx.entries = append(idx.entries, e)
		if _, ok := idx.byCode[code]; !ok {
			idx.byCode[code] = e.Gloss
		}
	}
	return idx
}

// EmptyTariffIndex returns an index with no entries; every lookup degrades to
// a sentinel. Used when the reference file is missing or malformed.
func EmptyTariffIndex() *TariffIndex {
	return NewTariffIndex(nil)
}

// LoadTariff reads the hierarchical tariff taxonomy from a YAML file.
func LoadTariff(path string) (*TariffIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc tariffDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	var entries []TariffEntry
	sections := make([]string, 0, len(doc.Partidas))
	for code := range doc.Partidas {
		sections = append(sections, code)
	}
	sort.Strings(sections)
	for _, section := range sections {
		p := doc.Partidas[section]
		codes := make([]string, 0, len(p.Subpartidas))
		for code := range p.Subpartidas {
			codes = append(codes, code)
		}
		sort.Strings(codes)
		for _, code := range codes {
			entries = append(entries, TariffEntry{
				Code:    code,
				Gloss:   p.Subpartidas[code],
				Section: p.Descripcion,
			})
		}
	}
	return NewTariffIndex(entries), nil
}

// Len reports the number of indexed entries.
func (t *TariffIndex) Len() int { return len(t.entries) }

// Lookup returns the original gloss for a tariff code. The code is cleaned
// before lookup, so float-rendered and punctuated forms resolve identically.
// An empty code yields "N/A"; an unknown one "Código no encontrado".
func (t *TariffIndex) Lookup(code string) string {
	clean := textnorm.CleanTariffCode(code)
	if clean == "" || t.Len() == 0 {
		return GlossNA
	}
	if gloss, ok := t.byCode[clean]; ok {
		return gloss
	}
	return GlossNotFound
}

// SearchGloss returns every entry whose normalized gloss contains the
// normalized query, in index order. An empty query matches nothing.
func (t *TariffIndex) SearchGloss(query string) []TariffEntry {
	q := textnorm.Normalize(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var out []TariffEntry
	for _, e := range t.entries {
		if strings.Contains(e.normGloss, q) {
			out = append(out, e)
		}
	}
	return out
}
