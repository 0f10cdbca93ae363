package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"StockCharter/internal/cache"
	"StockCharter/internal/calculator"
	"StockCharter/internal/collector"
	"StockCharter/internal/config"
	"StockCharter/internal/recorder"
	"StockCharter/internal/render"
	"StockCharter/internal/scheduler"
	"StockCharter/internal/symbols"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] StockCharter starting...")

	// Optional .env bootstrap before config reads the environment.
	if err := godotenv.Load(); err == nil {
		log.Println("[INFO] .env loaded")
	}

	cfgPath := flag.String("config", "configs/config.yaml", "path to YAML config")
	symbolsFile := flag.String("c", "", "path to the symbols file (one ticker per line)")
	startDate := flag.String("s", "", "start date for fetching stock data (YYYY-MM-DD)")
	indicators := flag.String("i", "", "comma-separated indicator list (e.g. MA50,MA200,MACD,RSI,BollingerBands,Ichimoku)")
	output := flag.String("o", "", "dashboard output path")
	watch := flag.Bool("watch", false, "stay resident and re-run on the configured cron schedule")
	flag.Parse()

	if v := os.Getenv("CONFIG_PATH"); v != "" && *cfgPath == "configs/config.yaml" {
		*cfgPath = v
	}
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}

	// Command-line flags override config.
	if *symbolsFile != "" {
		cfg.SymbolsFile = *symbolsFile
	}
	if *startDate != "" {
		cfg.Chart.StartDate = *startDate
	}
	if *indicators != "" {
		cfg.Chart.Indicators = *indicators
	}
	if *output != "" {
		cfg.Chart.Output = *output
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init fetcher
	var fetcher collector.Fetcher
	if cfg.DataSource.BaseURL != "" {
		fetcher = collector.NewBarsAPIFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	} else {
		fetcher = collector.NewYahooFetcher(cfg.Proxy)
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	store := cache.NewStore(cfg.Cache.Dir, cfg.RefreshInterval(), fetcher)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	job := func() {
		if err := runOnce(cfg, store, rec); err != nil {
			log.Printf("[ERROR] run: %v", err)
		}
	}

	if *watch && cfg.Schedule.WatchCron == "" {
		log.Println("[WARN] -watch set but schedule.watch_cron is empty, running once")
	}
	if *watch && cfg.Schedule.WatchCron != "" {
		sched := scheduler.NewScheduler()
		if err := sched.Register(cfg.Schedule.WatchCron, job); err != nil {
			log.Fatalf("[FATAL] register cron task: %v", err)
		}
		sched.Start()
		defer sched.Stop()
		job()

		log.Println("[INFO] StockCharter is watching. Press Ctrl+C to stop.")
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("[INFO] shutdown signal received, stopping...")
		return
	}

	job()
	log.Println("[INFO] StockCharter finished")
}

// runOnce processes every symbol once and writes the dashboard. Per-symbol
// failures are isolated: a bad symbol renders as an error card and the rest
// complete normally.
func runOnce(cfg *config.Config, store *cache.Store, rec recorder.Recorder) error {
	syms, err := symbols.Load(cfg.SymbolsFile)
	if err != nil {
		return err
	}
	if len(syms) == 0 {
		log.Printf("[WARN] no symbols in %s", cfg.SymbolsFile)
		return nil
	}

	start, err := time.Parse("2006-01-02", cfg.Chart.StartDate)
	if err != nil {
		return err
	}
	asOf := time.Now()
	names := calculator.Names(cfg.Chart.Indicators)

	charts := make([]render.SymbolChart, len(syms))
	sem := make(chan struct{}, cfg.Concurrency)
	var wg sync.WaitGroup
	for i, sym := range syms {
		wg.Add(1)
		go func(i int, sym string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			charts[i] = processSymbol(store, rec, sym, start, asOf, names, cfg.Chart.Indicators)
		}(i, sym)
	}
	wg.Wait()

	failed := 0
	for _, c := range charts {
		if c.Err != nil {
			failed++
			log.Printf("[WARN] %s failed: %v", c.Symbol, c.Err)
		}
	}

	if err := render.WriteDashboard(cfg.Chart.Output, "StockCharter dashboard", charts); err != nil {
		return err
	}
	log.Printf("[INFO] dashboard written to %s (%d symbols, %d failed)",
		cfg.Chart.Output, len(charts), failed)
	return nil
}

func processSymbol(store *cache.Store, rec recorder.Recorder, sym string,
	start, asOf time.Time, names []string, indicators string) render.SymbolChart {

	chart := render.SymbolChart{Symbol: sym, Indicators: names}
	run := recorder.RunRecord{Symbol: sym, Indicators: indicators}

	series, origin, err := store.Get(sym, start, asOf)
	if err == nil {
		chart.Series, err = calculator.Apply(series, names)
	}
	if err != nil {
		chart.Err = err
		run.Err = err.Error()
	} else {
		n := chart.Series.Len()
		run.Source = string(origin)
		run.Bars = n
		run.FirstDate = chart.Series.Dates[0]
		run.LastDate = chart.Series.Dates[n-1]
		run.LastClose = chart.Series.Close[n-1]
	}
	if rerr := rec.RecordRun(&run); rerr != nil {
		log.Printf("[ERROR] record run for %s: %v", sym, rerr)
	}
	return chart
}
