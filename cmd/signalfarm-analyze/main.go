package main

import (
	"context"
	"flag"
	"os"
	"strconv"

	"signalfarm/internal/modkit"
	"signalfarm/internal/modkit/module"
	"signalfarm/internal/platform/config"
	"signalfarm/internal/platform/logger"
	"signalfarm/internal/platform/store"

	alertsmod "signalfarm/internal/services/alerts/module"
	oppdom "signalfarm/internal/services/opportunity/domain"
	oppmod "signalfarm/internal/services/opportunity/module"
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
	l := logger.Get()

	st, err := store.Open(context.Background(), store.Config{
		PG: store.PGConfig{
			Enabled:     true,
			URL:         pgCfg.MustString("DBURL"),
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", true),
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
		project     = flag.String("project", "", "assess a single tracked project instead of sweeping")
		workers     = flag.Int("workers", 2, "concurrency (>=1)")
		minActivity = flag.Float64("min-activity", 0.3, "activity floor for the sweep")
	)
	flag.Parse()

	// Pass CLI flags into CORE_OPPORTUNITY_* so the module can read its own config
	mustSetEnv("CORE_OPPORTUNITY_WORKERS", strconv.Itoa(*workers))
	mustSetEnv("CORE_OPPORTUNITY_MIN_ACTIVITY", strconv.FormatFloat(*minActivity, 'f', -1, 64))

	deps := modkit.Deps{
		Cfg: root,
		PG:  st.PG,
		Log: *l,
	}

	signals := signalsmod.New(deps)
	projects := projectsmod.New(deps)
	alerts := alertsmod.New(deps)

	om := oppmod.New(deps, modkit.WithPorts(oppdom.Ports{
		Signals:  module.MustPortsOf[signalsmod.Ports](signals).Query,
		Registry: module.MustPortsOf[projectsmod.Ports](projects).Registry,
		Admin:    module.MustPortsOf[projectsmod.Ports](projects).Admin,
		Alerts:   module.MustPortsOf[alertsmod.Ports](alerts).Writer,
	}))

	module.Register(signals.Name(), signals.Ports())
	module.Register(projects.Name(), projects.Ports())
	module.Register(alerts.Name(), alerts.Ports())
	module.Register(om.Name(), om.Ports())

	an := om.Ports().(oppmod.Ports).Analyzer
	ctx := context.Background()

	if *project != "" {
		a, err := an.ScoreProject(ctx, *project)
		if err != nil {
			l.Fatal().Err(err).Str("project", *project).Msg("assessment failed")
		}
		l.Info().
			Str("project", a.Project).
			Str("type", a.Type).
			Float64("score", a.Score).
			Bool("worth_participating", a.Worth).
			Msg("assessment complete")
		return
	}

	rep, err := an.AnalyzeAll(ctx)
	if err != nil {
		l.Fatal().Err(err).Msg("sweep failed")
	}
	for _, a := range rep.Assessments {
		l.Info().
			Str("project", a.Project).
			Str("type", a.Type).
			Float64("score", a.Score).
			Bool("worth_participating", a.Worth).
			Msg("assessed")
	}
	l.Info().
		Int("assessed", len(rep.Assessments)).
		Int("skipped", rep.Skipped).
		Int("failed", len(rep.Failures)).
		Msg("sweep complete")
}
