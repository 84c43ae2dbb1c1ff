// Package aduana is the trade-import record cleaning engine facade. It wires
// the per-project configuration documents, the shared reference tables and
// the snapshot store into the batch pipeline that turns raw spreadsheet rows
// into the canonical, analysis-ready record set.
package aduana

import (
	"context"
	"crypto/rand"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/aduana/pkg/aduana/fuzzymatch"
	"github.com/cognicore/aduana/pkg/aduana/ingest"
	"github.com/cognicore/aduana/pkg/aduana/project"
	"github.com/cognicore/aduana/pkg/aduana/refdata"
	"github.com/cognicore/aduana/pkg/aduana/store"
	"github.com/cognicore/aduana/pkg/aduana/textnorm"
)

// FallbackPrimary labels rows whose primary category could not be resolved
// against a non-empty vocabulary.
const FallbackPrimary = "otras marcas"

// Engine is the main cleaning engine facade.
type Engine struct {
	projects *project.Store
	refs     *refdata.Set
	store    store.Store
	entropy  *ulid.MonotonicEntropy
	now      func() time.Time
}

// Options configures an Engine instance.
type Options struct {
	Projects *project.Store
	RefData  *refdata.Set
	Store    store.Store
}

// New creates an Engine with the given dependencies. A nil RefData degrades
// every reference lookup to its sentinel.
func New(opts Options) *Engine {
	refs := opts.RefData
	if refs == nil {
		refs = refdata.Empty()
	}
	return &Engine{
		projects: opts.Projects,
		refs:     refs,
		store:    opts.Store,
		entropy:  ulid.Monotonic(rand.Reader, 0),
		now:      time.Now,
	}
}

// Close cleanly shuts down the engine.
func (e *Engine) Close() error {
	return e.store.Close()
}

// Result is the outcome of one pipeline run.
type Result struct {
	Records []store.Record
	Summary store.RunSummary
}

// RunPipeline executes the full cleaning pipeline for one project and
// replaces its snapshot. A sensitivity of 0 selects the design default.
//
// Only configuration-class failures (no input files, unresolved column
// mapping) abort the run; malformed individual cells become sentinels or are
// dropped during the coercion step, and the drop counts are reported in the
// summary so data loss stays observable.
func (e *Engine) RunPipeline(ctx context.Context, projectID string, sensitivity int) (*Result, error) {
	if sensitivity == 0 {
		sensitivity = fuzzymatch.DefaultThreshold
	}

	// 1. Load
	rows, err := ingest.LoadDir(e.projects.DataDir(projectID))
	if err != nil {
		return nil, err
	}

	// 2. Map columns
	mapping, err := e.projects.LoadMapping(projectID)
	if err != nil {
		return nil, err
	}
	if err := mapping.Validate(ingest.Headers(rows)); err != nil {
		return nil, err
	}
	mapped := mapping.Apply(rows)

	dict := e.projects.LoadDictionary(projectID)
	rules := e.projects.LoadRules(projectID)
	resolver := fuzzymatch.New(dict.Primaries(), sensitivity)

	// 5 (precomputed). Corrections are built once over the distinct keys so
	// the mapping is deterministic for the whole batch.
	keys := make([]string, 0, len(mapped))
	for _, m := range mapped {
		keys = append(keys, textnorm.CanonicalKey(m.Principal))
	}
	corrections := resolver.Corrections(keys)

	sum := store.RunSummary{
		Project: projectID,
		RowsIn:  len(mapped),
	}

	// 3-6. Normalize, enrich, resolve, coerce and filter.
	seen := make(map[store.Record]struct{})
	records := make([]store.Record, 0, len(mapped))
	for _, m := range mapped {
		if !m.HasFecha {
			sum.DroppedSinFecha++
			continue
		}
		valor, ok := parseValor(m.ValorRaw)
		if !ok {
			sum.DroppedSinValor++
			continue
		}

		key := textnorm.CanonicalKey(m.Principal)
		primary := key
		if resolver.Enabled() {
			if corrected, ok := corrections[key]; ok {
				primary = corrected
			} else if !resolver.InVocabulary(key) {
				primary = FallbackPrimary
			}
		}

		pais, continente := e.refs.Countries.Resolve(m.PaisRaw)
		codigo := textnorm.CleanTariffCode(m.CodigoArancel)

		rec := store.Record{
			Fecha:              m.Fecha,
			Continente:         continente,
			Pais:               pais,
			CodigoArancel:      codigo,
			DescripcionArancel: e.refs.Tariff.Lookup(codigo),
			FiltroPrincipal:    primary,
			FiltroSecundario:   textnorm.CanonicalKey(m.Producto),
			SegmentoProducto:   rules.Classify(m.SegmentText),
			ValorCIF:           valor,
			Producto:           m.Producto,
		}

		if _, dup := seen[rec]; dup {
			sum.DroppedDuplicados++
			continue
		}
		seen[rec] = struct{}{}
		records = append(records, rec)
	}

	// 7. Emit
	sum.RunID = ulid.MustNew(ulid.Timestamp(e.now()), e.entropy).String()
	sum.FinishedAt = e.now()
	sum.RowsOut = len(records)
	if err := e.store.ReplaceSnapshot(ctx, projectID, records, sum); err != nil {
		return nil, fmt.Errorf("persist snapshot: %w", err)
	}

	return &Result{Records: records, Summary: sum}, nil
}

// parseValor coerces the numeric value cell. Thousands separators written as
// commas are tolerated; anything unparseable or negative drops the row.
func parseValor(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// LearnDictionary grows a project's vocabulary dictionary from a canonical
// record set: secondary values grouped under their primary category, purely
// additive and idempotent. Rows labeled with the fallback sentinel are
// skipped; the catch-all bucket is not a brand.
func (e *Engine) LearnDictionary(projectID string, recs []store.Record) error {
	dict := e.projects.LoadDictionary(projectID)
	for _, r := range recs {
		if r.FiltroPrincipal == "" || r.FiltroPrincipal == FallbackPrimary {
			continue
		}
		dict.Add(r.FiltroPrincipal, r.FiltroSecundario)
	}
	return e.projects.SaveDictionary(projectID, dict)
}

// LookupTariff returns the gloss for a tariff code, or a sentinel.
func (e *Engine) LookupTariff(code string) string {
	return e.refs.Tariff.Lookup(code)
}

// SearchTariffByGloss returns the tariff entries whose gloss contains the
// query, accent- and case-insensitively.
func (e *Engine) SearchTariffByGloss(query string) []refdata.TariffEntry {
	return e.refs.Tariff.SearchGloss(query)
}

// ResolveCountry standardizes a raw country name and returns its continent.
func (e *Engine) ResolveCountry(raw string) (string, string) {
	return e.refs.Countries.Resolve(raw)
}

// Snapshot returns a project's current canonical record set.
func (e *Engine) Snapshot(ctx context.Context, projectID string) ([]store.Record, error) {
	return e.store.Snapshot(ctx, projectID)
}

// LastRun returns a project's most recent run summary.
func (e *Engine) LastRun(ctx context.Context, projectID string) (store.RunSummary, bool, error) {
	return e.store.LastRun(ctx, projectID)
}
