package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strconv"
	"time"

	"signalfarm/internal/modkit"
	"signalfarm/internal/modkit/module"
	"signalfarm/internal/platform/config"
	"signalfarm/internal/platform/logger"
	"signalfarm/internal/platform/store"

	alertsmod "signalfarm/internal/services/alerts/module"
	classifydom "signalfarm/internal/services/classify/domain"
	classifymod "signalfarm/internal/services/classify/module"
	messagesmod "signalfarm/internal/services/messages/module"
	projectsmod "signalfarm/internal/services/projects/module"
	signalsmod "signalfarm/internal/services/signals/module"
)

func mustSetEnv(k, v string) {
	if v != "" {
		_ = os.Setenv(k, v)
	}
}

func main() {
	root := config.New()
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_")
	l := logger.Get()

	st, err := store.Open(context.Background(), store.Config{
		PG: store.PGConfig{
			Enabled:     true,
			URL:         pgCfg.MustString("DBURL"),
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", true),
		},
		CH: store.CHConfig{
			Enabled: chCfg.MayBool("ENABLED", false),
			URL:     chCfg.MayString("DBURL", ""),
		},
	}, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	var (
		sinceStr = flag.String("since", "", "inclusive hour, e.g. 2026-03-01T00 (empty = unbounded)")
		untilStr = flag.String("until", "", "exclusive hour, e.g. 2026-03-01T06 (empty = unbounded)")
		workers  = flag.Int("workers", 2, "concurrency (>=1)")
		page     = flag.Int("page", 5000, "page size (rows)")
		promote  = flag.Float64("promote", 0.7, "candidate promotion confidence")
		dryRun   = flag.Bool("dry-run", false, "classify but do not write")
	)
	flag.Parse()

	var since, until time.Time
	if *sinceStr != "" {
		if since, err = time.Parse("2006-01-02T15", *sinceStr); err != nil {
			log.Fatalf("bad -since: %v", err)
		}
	}
	if *untilStr != "" {
		if until, err = time.Parse("2006-01-02T15", *untilStr); err != nil {
			log.Fatalf("bad -until: %v", err)
		}
	}

	// Pass CLI flags into CORE_CLASSIFY_* so the module can read its own config
	mustSetEnv("CORE_CLASSIFY_WORKERS", strconv.Itoa(*workers))
	mustSetEnv("CORE_CLASSIFY_PAGE_SIZE", strconv.Itoa(*page))
	mustSetEnv("CORE_CLASSIFY_PROMOTE_CONFIDENCE", strconv.FormatFloat(*promote, 'f', -1, 64))
	mustSetEnv("CORE_CLASSIFY_DRY_RUN", map[bool]string{true: "1", false: "0"}[*dryRun])

	deps := modkit.Deps{
		Cfg: root,
		PG:  st.PG,
		CH:  st.CH,
		Log: *l,
	}

	// Build dependency modules first
	messages := messagesmod.New(deps)
	signals := signalsmod.New(deps)
	projects := projectsmod.New(deps)
	alerts := alertsmod.New(deps)

	cm := classifymod.New(
		deps,
		classifymod.Options{
			Workers:           *workers,
			PageSize:          *page,
			PromoteConfidence: *promote,
			DryRun:            *dryRun,
		},
		modkit.WithPorts(classifydom.Ports{
			Messages: module.MustPortsOf[messagesmod.Ports](messages).Reader,
			Signals:  module.MustPortsOf[signalsmod.Ports](signals).Writer,
			Registry: module.MustPortsOf[projectsmod.Ports](projects).Registry,
			Admin:    module.MustPortsOf[projectsmod.Ports](projects).Admin,
			Alerts:   module.MustPortsOf[alertsmod.Ports](alerts).Writer,
		}),
	)

	// Register ports
	module.Register(messages.Name(), messages.Ports())
	module.Register(signals.Name(), signals.Ports())
	module.Register(projects.Name(), projects.Ports())
	module.Register(alerts.Name(), alerts.Ports())
	module.Register(cm.Name(), cm.Ports())

	// Kick the runner
	ports := cm.Ports().(classifymod.Ports)
	stats, err := ports.Runner.RunRange(context.Background(), since.UTC(), until.UTC())
	if err != nil {
		l.Fatal().Err(err).Msg("classify failed")
	}
	l.Info().
		Int("messages", stats.Messages).
		Int("records", stats.Records).
		Int("candidates", stats.Candidates).
		Int("alerts", stats.Alerts).
		Strs("promoted", stats.Promoted).
		Msg("classify run complete")
}
