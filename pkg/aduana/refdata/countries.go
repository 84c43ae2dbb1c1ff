package refdata

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/aduana/pkg/aduana/textnorm"
)

// Sentinel values for country resolution.
const (
	ContinentOther = "Otros"
	CountryUnknown = "Desconocido"
)

// Country is one reference entry: canonical name, continent and the aliases
// that fold to it.
type Country struct {
	Nombre     string   `yaml:"nombre"`
	Continente string   `yaml:"continente"`
	Alias      []string `yaml:"alias"`
}

// CountryResolver folds raw country names to a canonical name and continent.
// Aliases are resolved first, then the continent of the canonical name.
type CountryResolver struct {
	continent map[string]string // canonical name -> continent
	alias     map[string]string // alias -> canonical name
}

type countriesDoc struct {
	Paises []Country `yaml:"paises"`
}

// NewCountryResolver builds a resolver from reference entries. Names and
// aliases are normalized the same way raw input will be.
func NewCountryResolver(countries []Country) *CountryResolver {
	r := &CountryResolver{
		continent: make(map[string]string),
		alias:     make(map[string]string),
	}
	for _, c := range countries {
		name := textnorm.Normalize(strings.TrimSpace(c.Nombre))
		if name == "" {
			continue
		}
		if strings.TrimSpace(c.Continente) != "" {
			r.continent[name] = strings.TrimSpace(c.Continente)
		}
		for _, a := range c.Alias {
			a = textnorm.Normalize(strings.TrimSpace(a))
			if a != "" && a != name {
				r.alias[a] = name
			}
		}
	}
	return r
}

// EmptyCountryResolver resolves everything to the "unknown" sentinels.
func EmptyCountryResolver() *CountryResolver {
	return NewCountryResolver(nil)
}

// LoadCountries reads the country reference list from a YAML file.
func LoadCountries(path string) (*CountryResolver, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc countriesDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return NewCountryResolver(doc.Paises), nil
}

// Len reports the number of known canonical countries.
func (r *CountryResolver) Len() int { return len(r.continent) }

// Resolve standardizes a raw country name and returns it with its continent.
// Unknown names pass through normalized with continent "Otros"; an empty name
// resolves to the "Desconocido" sentinel pair.
func (r *CountryResolver) Resolve(raw string) (string, string) {
	name := textnorm.Normalize(strings.TrimSpace(raw))
	if name == "" {
		return CountryUnknown, CountryUnknown
	}
	if canonical, ok := r.alias[name]; ok {
		name = canonical
	}
	if continent, ok := r.continent[name]; ok {
		return name, continent
	}
	return name, ContinentOther
}
