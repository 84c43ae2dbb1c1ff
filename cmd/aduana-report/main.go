package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/cognicore/aduana/pkg/aduana"
	"github.com/cognicore/aduana/pkg/aduana/analytics"
	"github.com/cognicore/aduana/pkg/aduana/config"
	"github.com/cognicore/aduana/pkg/aduana/project"
	"github.com/cognicore/aduana/pkg/aduana/store/sqlite"
)

type report struct {
	Project     string        `json:"project"`
	Records     int           `json:"records"`
	LastRunID   string        `json:"last_run_id,omitempty"`
	ByPrimary   []bucketJSON  `json:"by_primary"`
	ByContinent []bucketJSON  `json:"by_continent"`
	ByCountry   []bucketJSON  `json:"by_country"`
	BySegment   []bucketJSON  `json:"by_segment"`
	Monthly     []monthlyJSON `json:"monthly"`
}

type bucketJSON struct {
	Label     string  `json:"label"`
	ValorCIF  float64 `json:"valor_cif"`
	Registros int     `json:"registros"`
}

type monthlyJSON struct {
	Mes       string  `json:"mes"`
	ValorCIF  float64 `json:"valor_cif"`
	Registros int     `json:"registros"`
}

func buckets(totals []analytics.Total) []bucketJSON {
	out := make([]bucketJSON, 0, len(totals))
	for _, t := range totals {
		out = append(out, bucketJSON{Label: t.Label, ValorCIF: t.ValorCIF, Registros: t.Registros})
	}
	return out
}

func main() {
	var (
		configPath = flag.String("config", "", "Optional: engine configuration YAML")
		projectID  = flag.String("project", "", "Project directory name (required)")
		desde      = flag.String("desde", "", "Optional: lower date bound, YYYY-MM-DD")
		hasta      = flag.String("hasta", "", "Optional: upper date bound, YYYY-MM-DD")
		continente = flag.String("continente", "", "Optional: comma-separated continent filter")
		principal  = flag.String("principal", "", "Optional: comma-separated primary-category filter")
		segmento   = flag.String("segmento", "", "Optional: comma-separated segment filter")
		top        = flag.Int("top", 0, "Optional: truncate by_primary to the top N buckets")
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

	ctx := context.Background()

	db, err := sqlite.Open(ctx, cfg.DBPath)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}

	engine := aduana.New(aduana.Options{
		Projects: project.NewStore(cfg.ProjectsDir),
		Store:    db,
	})
	defer engine.Close()

	recs, err := engine.Snapshot(ctx, *projectID)
	if err != nil {
		log.Fatalf("load snapshot: %v", err)
	}

	filter := analytics.Filter{
		Continentes: splitList(*continente),
		Principales: splitList(*principal),
		Segmentos:   splitList(*segmento),
	}
	filter.Desde = parseBound(*desde, "desde")
	filter.Hasta = parseBound(*hasta, "hasta")
	recs = analytics.Apply(recs, filter)

	rep := report{
		Project:     *projectID,
		Records:     len(recs),
		ByPrimary:   buckets(analytics.ByPrimary(recs)),
		ByContinent: buckets(analytics.ByContinent(recs)),
		ByCountry:   buckets(analytics.ByCountry(recs)),
		BySegment:   buckets(analytics.BySegment(recs)),
	}
	for _, m := range analytics.MonthlySeries(recs) {
		rep.Monthly = append(rep.Monthly, monthlyJSON{Mes: m.Mes, ValorCIF: m.ValorCIF, Registros: m.Registros})
	}
	if *top > 0 {
		rep.ByPrimary = buckets(analytics.TopPrimaries(recs, *top))
	}
	if sum, ok, err := engine.LastRun(ctx, *projectID); err == nil && ok {
		rep.LastRunID = sum.RunID
	}

	out, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		log.Fatalf("marshal report: %v", err)
	}
	fmt.Println(string(out))
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseBound(s, name string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		log.Fatalf("--%s: %v", name, err)
	}
	return t
}
