// Package analytics computes the filterable reporting views served over a
// canonical record snapshot: value totals and record counts along each
// classification axis, plus a monthly time series.
package analytics

import (
	"sort"
	"time"

	"github.com/cognicore/aduana/pkg/aduana/store"
)

// Filter narrows a snapshot before aggregation. Zero values mean "no
// restriction"; list filters match any of their entries.
type Filter struct {
	Desde       time.Time
	Hasta       time.Time
	Continentes []string
	Principales []string
	Segmentos   []string
}

// Apply returns the records passing every restriction, preserving order.
func Apply(recs []store.Record, f Filter) []store.Record {
	continentes := toSet(f.Continentes)
	principales := toSet(f.Principales)
	segmentos := toSet(f.Segmentos)

	var out []store.Record
	for _, r := range recs {
		if !f.Desde.IsZero() && r.Fecha.Before(f.Desde) {
			continue
		}
		if !f.Hasta.IsZero() && r.Fecha.After(f.Hasta) {
			continue
		}
		if continentes != nil {
			if _, ok := continentes[r.Continente]; !ok {
				continue
			}
		}
		if principales != nil {
			if _, ok := principales[r.FiltroPrincipal]; !ok {
				continue
			}
		}
		if segmentos != nil {
			if _, ok := segmentos[r.SegmentoProducto]; !ok {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// Total is one aggregation bucket: summed CIF value and record count.
type Total struct {
	Label     string
	ValorCIF  float64
	Registros int
}

// ByPrimary totals records per primary category, highest value first.
func ByPrimary(recs []store.Record) []Total {
	return groupBy(recs, func(r store.Record) string { return r.FiltroPrincipal })
}

// ByContinent totals records per continent, highest value first.
func ByContinent(recs []store.Record) []Total {
	return groupBy(recs, func(r store.Record) string { return r.Continente })
}

// ByCountry totals records per standardized country, highest value first.
func ByCountry(recs []store.Record) []Total {
	return groupBy(recs, func(r store.Record) string { return r.Pais })
}

// BySegment totals records per product segment, highest value first.
func BySegment(recs []store.Record) []Total {
	return groupBy(recs, func(r store.Record) string { return r.SegmentoProducto })
}

// TopPrimaries returns the n primary categories with the highest total value.
func TopPrimaries(recs []store.Record, n int) []Total {
	totals := ByPrimary(recs)
	if n >= 0 && n < len(totals) {
		totals = totals[:n]
	}
	return totals
}

func groupBy(recs []store.Record, key func(store.Record) string) []Total {
	grouped := make(map[string]*Total)
	for _, r := range recs {
		k := key(r)
		t, ok := grouped[k]
		if !ok {
			t = &Total{Label: k}
			grouped[k] = t
		}
		t.ValorCIF += r.ValorCIF
		t.Registros++
	}

	out := make([]Total, 0, len(grouped))
	for _, t := range grouped {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ValorCIF != out[j].ValorCIF {
			return out[i].ValorCIF > out[j].ValorCIF
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// MonthTotal is one point of the monthly value series.
type MonthTotal struct {
	Mes       string // "2006-01"
	ValorCIF  float64
	Registros int
}

// MonthlySeries sums CIF value per calendar month, in chronological order.
func MonthlySeries(recs []store.Record) []MonthTotal {
	grouped := make(map[string]*MonthTotal)
	for _, r := range recs {
		mes := r.Fecha.Format("2006-01")
		t, ok := grouped[mes]
		if !ok {
			t = &MonthTotal{Mes: mes}
			grouped[mes] = t
		}
		t.ValorCIF += r.ValorCIF
		t.Registros++
	}

	out := make([]MonthTotal, 0, len(grouped))
	for _, t := range grouped {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Mes < out[j].Mes })
	return out
}
