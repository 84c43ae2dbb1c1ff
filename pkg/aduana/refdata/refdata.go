// Package refdata loads the static reference datasets (tariff taxonomy,
// country/continent map) into query-ready structures. A Set is built once per
// process and passed into the pipeline; reference data is read-only and may
// be shared across concurrent projects.
package refdata

// Set bundles the reference lookups a pipeline run depends on.
type Set struct {
	Tariff    *TariffIndex
	Countries *CountryResolver
}

// Empty returns a Set where every lookup degrades to its sentinel.
func Empty() *Set {
	return &Set{Tariff: EmptyTariffIndex(), Countries: EmptyCountryResolver()}
}

// Load reads both reference files. Missing or malformed files are never
// fatal: the corresponding lookup degrades to empty and downstream fields
// become sentinels instead of aborting the run.
func Load(tariffPath, countriesPath string) *Set {
	s := Empty()
	if tariffPath != "" {
		if idx, err := LoadTariff(tariffPath); err == nil {
			s.Tariff = idx
		}
	}
	if countriesPath != "" {
		if r, err := LoadCountries(countriesPath); err == nil {
			s.Countries = r
		}
	}
	return s
}
