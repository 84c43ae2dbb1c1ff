package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"

	"github.com/cognicore/aduana/pkg/aduana/config"
	"github.com/cognicore/aduana/pkg/aduana/refdata"
)

type codeResult struct {
	Codigo      string `json:"codigo"`
	Descripcion string `json:"descripcion"`
}

type glossResult struct {
	Codigo      string `json:"codigo"`
	Descripcion string `json:"descripcion"`
	Seccion     string `json:"seccion,omitempty"`
}

type countryResult struct {
	Pais       string `json:"pais"`
	Continente string `json:"continente"`
}

func main() {
	var (
		configPath = flag.String("config", "", "Optional: engine configuration YAML")
		code       = flag.String("code", "", "Tariff code to look up")
		gloss      = flag.String("gloss", "", "Substring to search tariff glosses for")
		country    = flag.String("country", "", "Country name to standardize")
	)
	flag.Parse()

	if *code == "" && *gloss == "" && *country == "" {
		log.Fatal("one of --code, --gloss or --country required")
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
	}

	refs := refdata.Load(cfg.TariffPath, cfg.CountriesPath)

	var result any
	switch {
	case *code != "":
		result = codeResult{Codigo: *code, Descripcion: refs.Tariff.Lookup(*code)}
	case *gloss != "":
		hits := refs.Tariff.SearchGloss(*gloss)
		out := make([]glossResult, 0, len(hits))
		for _, h := range hits {
			out = append(out, glossResult{Codigo: h.Code, Descripcion: h.Gloss, Seccion: h.Section})
		}
		result = out
	default:
		name, continente := refs.Countries.Resolve(*country)
		result = countryResult{Pais: name, Continente: continente}
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("marshal result: %v", err)
	}
	fmt.Println(string(out))
}
