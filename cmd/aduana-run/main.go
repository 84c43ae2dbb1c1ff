package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"

	"github.com/cognicore/aduana/pkg/aduana"
	"github.com/cognicore/aduana/pkg/aduana/config"
	"github.com/cognicore/aduana/pkg/aduana/project"
	"github.com/cognicore/aduana/pkg/aduana/refdata"
	"github.com/cognicore/aduana/pkg/aduana/store/sqlite"
)

type report struct {
	RunID             string `json:"run_id"`
	Project           string `json:"project"`
	RowsIn            int    `json:"rows_in"`
	RowsOut           int    `json:"rows_out"`
	DroppedSinFecha   int    `json:"dropped_sin_fecha"`
	DroppedSinValor   int    `json:"dropped_sin_valor"`
	DroppedDuplicados int    `json:"dropped_duplicados"`
	DictionaryUpdated bool   `json:"dictionary_updated"`
}

func main() {
	var (
		configPath  = flag.String("config", "", "Optional: engine configuration YAML")
		projectID   = flag.String("project", "", "Project directory name (required)")
		sensitivity = flag.Int("sensitivity", 0, "Fuzzy-match threshold 70-100; 0 uses the configured default")
		learn       = flag.Bool("learn", false, "Grow the project dictionary from the cleaned output")
	)
	flag.Parse()

	if *projectID == "" {
		log.Fatal("--project required")
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
	}
	if *sensitivity == 0 {
		*sensitivity = cfg.DefaultSensitivity
	}

	ctx := context.Background()

	db, err := sqlite.Open(ctx, cfg.DBPath)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}

	engine := aduana.New(aduana.Options{
		Projects: project.NewStore(cfg.ProjectsDir),
		RefData:  refdata.Load(cfg.TariffPath, cfg.CountriesPath),
		Store:    db,
	})
	defer engine.Close()

	result, err := engine.RunPipeline(ctx, *projectID, *sensitivity)
	if err != nil {
		log.Fatalf("run pipeline: %v", err)
	}

	rep := report{
		RunID:             result.Summary.RunID,
		Project:           result.Summary.Project,
		RowsIn:            result.Summary.RowsIn,
		RowsOut:           result.Summary.RowsOut,
		DroppedSinFecha:   result.Summary.DroppedSinFecha,
		DroppedSinValor:   result.Summary.DroppedSinValor,
		DroppedDuplicados: result.Summary.DroppedDuplicados,
	}
	if *learn {
		if err := engine.LearnDictionary(*projectID, result.Records); err != nil {
			log.Fatalf("learn dictionary: %v", err)
		}
		rep.DictionaryUpdated = true
	}

	out, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		log.Fatalf("marshal report: %v", err)
	}
	fmt.Println(string(out))
}
