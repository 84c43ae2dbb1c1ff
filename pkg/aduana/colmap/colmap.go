// Package colmap resolves a project's column-role mapping against raw
// spreadsheet rows and produces the pipeline's fixed-shape intermediate
// representation. Everything downstream of Apply operates on Mapped rows
// only, never on raw input columns.
package colmap

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cognicore/aduana/pkg/aduana/ingest"
	"github.com/cognicore/aduana/pkg/aduana/internalerr"
)

// Date-strategy discriminators, stored verbatim in config.json.
const (
	DateSplit  = "Columnas separadas"
	DateSingle = "Una sola columna"
)

// TariffColumn is the fixed input column holding the tariff code; it is not
// part of the configurable mapping.
const TariffColumn = "partida arancelaria"

// DateConfig selects one of the two mutually exclusive date strategies and
// names the columns it reads.
type DateConfig struct {
	Tipo          string `json:"tipo"`
	Ano           string `json:"ano,omitempty"`
	Mes           string `json:"mes,omitempty"`
	Dia           string `json:"dia,omitempty"`
	FechaCompleta string `json:"fecha_completa,omitempty"`
}

// Mapping assigns semantic roles to input column names. Created and edited by
// the configuration collaborator; read-only to the pipeline.
type Mapping struct {
	FiltroPrincipal  string     `json:"filtro_principal"`
	FiltroSecundario string     `json:"filtro_secundario_base"`
	ValorNumerico    string     `json:"valor_numerico"`
	Pais             string     `json:"pais"`
	SegmentacionBase string     `json:"segmentacion_base,omitempty"`
	ConfigFecha      DateConfig `json:"config_fecha"`
}

// Mapped is one validated row with canonical roles resolved. HasFecha is
// false when the date could not be assembled; such rows are dropped during
// the coercion/filter step, not here.
type Mapped struct {
	Fecha         time.Time
	HasFecha      bool
	Principal     string
	Producto      string
	PaisRaw       string
	ValorRaw      string
	CodigoArancel string
	SegmentText   string
}

// segmentColumn returns the column driving segmentation, defaulting to the
// secondary-category column.
func (m Mapping) segmentColumn() string {
	if strings.TrimSpace(m.SegmentacionBase) != "" {
		return m.SegmentacionBase
	}
	return m.FiltroSecundario
}

// Validate fails fast when a required role is unassigned or references a
// column absent from the uploaded data. The pipeline must not silently
// proceed with missing roles.
func (m Mapping) Validate(headers []string) error {
	present := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		present[strings.ToLower(strings.TrimSpace(h))] = struct{}{}
	}

	required := []struct{ role, column string }{
		{"filtro_principal", m.FiltroPrincipal},
		{"filtro_secundario_base", m.FiltroSecundario},
		{"valor_numerico", m.ValorNumerico},
		{"pais", m.Pais},
	}
	switch m.ConfigFecha.Tipo {
	case DateSplit:
		required = append(required,
			struct{ role, column string }{"config_fecha.ano", m.ConfigFecha.Ano},
			struct{ role, column string }{"config_fecha.mes", m.ConfigFecha.Mes},
			struct{ role, column string }{"config_fecha.dia", m.ConfigFecha.Dia},
		)
	case DateSingle:
		required = append(required,
			struct{ role, column string }{"config_fecha.fecha_completa", m.ConfigFecha.FechaCompleta},
		)
	default:
		return fmt.Errorf("%w: unknown date strategy %q", internalerr.ErrInvalidMapping, m.ConfigFecha.Tipo)
	}

	for _, r := range required {
		col := strings.ToLower(strings.TrimSpace(r.column))
		if col == "" {
			return fmt.Errorf("%w: role %s is unassigned", internalerr.ErrInvalidMapping, r.role)
		}
		if _, ok := present[col]; !ok {
			return fmt.Errorf("%w: role %s references missing column %q", internalerr.ErrInvalidMapping, r.role, r.column)
		}
	}
	return nil
}

// Apply resolves roles and assembles dates for every row. Per-cell failures
// never abort: a row with an unparseable date simply has HasFecha unset.
func (m Mapping) Apply(rows []ingest.Row) []Mapped {
	col := func(r ingest.Row, name string) string {
		return r[strings.ToLower(strings.TrimSpace(name))]
	}

	out := make([]Mapped, 0, len(rows))
	for _, r := range rows {
		mapped := Mapped{
			Principal:     strings.TrimSpace(col(r, m.FiltroPrincipal)),
			Producto:      strings.TrimSpace(col(r, m.FiltroSecundario)),
			PaisRaw:       strings.TrimSpace(col(r, m.Pais)),
			ValorRaw:      strings.TrimSpace(col(r, m.ValorNumerico)),
			CodigoArancel: strings.TrimSpace(r[TariffColumn]),
			SegmentText:   strings.TrimSpace(col(r, m.segmentColumn())),
		}
		switch m.ConfigFecha.Tipo {
		case DateSplit:
			mapped.Fecha, mapped.HasFecha = assembleDate(
				col(r, m.ConfigFecha.Ano),
				col(r, m.ConfigFecha.Mes),
				col(r, m.ConfigFecha.Dia),
			)
		case DateSingle:
			mapped.Fecha, mapped.HasFecha = parseDate(col(r, m.ConfigFecha.FechaCompleta))
		}
		out = append(out, mapped)
	}
	return out
}

// assembleDate combines year/month/day cells into a calendar date. Any part
// failing to parse as its component, or an impossible combination such as
// month 13 or February 30th, yields a missing date.
func assembleDate(year, month, day string) (time.Time, bool) {
	y, okY := parseDatePart(year)
	mo, okM := parseDatePart(month)
	d, okD := parseDatePart(day)
	if !okY || !okM || !okD {
		return time.Time{}, false
	}
	if y < 1 || mo < 1 || mo > 12 || d < 1 || d > 31 {
		return time.Time{}, false
	}
	t := time.Date(y, time.Month(mo), d, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (Feb 30 -> Mar 1); reject anything that
	// did not round-trip.
	if t.Year() != y || t.Month() != time.Month(mo) || t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}

// parseDatePart accepts integers and integral float renderings ("2023.0").
func parseDatePart(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"02/01/2006",
	"02-01-2006",
	"2006/01/02",
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}
