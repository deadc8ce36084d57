package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/lifehubapp/lifehub/modules"
	"github.com/lifehubapp/lifehub/modules/account"
	"github.com/lifehubapp/lifehub/modules/admin"
	"github.com/lifehubapp/lifehub/modules/billing"
	"github.com/lifehubapp/lifehub/modules/finances"
	"github.com/lifehubapp/lifehub/modules/habits"
	"github.com/lifehubapp/lifehub/modules/healthlog"
	"github.com/lifehubapp/lifehub/pkg/cache"
	"github.com/lifehubapp/lifehub/pkg/config"
	"github.com/lifehubapp/lifehub/pkg/email"
	"github.com/lifehubapp/lifehub/pkg/httpserver"
	"github.com/lifehubapp/lifehub/pkg/logger"
	"github.com/lifehubapp/lifehub/pkg/pg"
	"github.com/lifehubapp/lifehub/pkg/redis"
	"github.com/lifehubapp/lifehub/svc/entitlement"
	"github.com/lifehubapp/lifehub/svc/finance"
	"github.com/lifehubapp/lifehub/svc/habit"
	"github.com/lifehubapp/lifehub/svc/health"
	"github.com/lifehubapp/lifehub/svc/user"
)

// appConfig holds the application-level settings that do not belong to any
// single package.
type appConfig struct {
	AdminToken  string `env:"ADMIN_TOKEN"` // empty disables the admin surface
	PlansFile   string `env:"PLANS_FILE"`  // optional YAML catalog seed
	CachePrefix string `env:"CACHE_PREFIX" envDefault:"lifehub"`
}

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var (
		appCfg    appConfig
		logCfg    logger.Config
		pgCfg     pg.Config
		redisCfg  redis.Config
		emailCfg  email.Config
		serverCfg httpserver.Config
	)
	config.MustLoad(&appCfg)
	config.MustLoad(&logCfg)
	config.MustLoad(&pgCfg)
	config.MustLoad(&redisCfg)
	config.MustLoad(&emailCfg)
	config.MustLoad(&serverCfg)

	log := logger.NewFromConfig(logCfg, "lifehub")

	// Storage.
	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, pgCfg, log); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	redisClient, err := redis.Connect(ctx, redisCfg)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer func() { _ = redisClient.Close() }()

	appCache := cache.NewRedisCache(redisClient, appCfg.CachePrefix)

	// Entitlement core: cached stores own their invalidation, so plan edits
	// and plan changes take effect without touching cache keys here.
	planStore := entitlement.NewCachedPlanStore(
		entitlement.NewPGPlanStore(pool), appCache, entitlement.DefaultPlanTTL)
	subStore := entitlement.NewCachedSubscriptionStore(
		entitlement.NewPGSubscriptionStore(pool), appCache, entitlement.DefaultSubTTL)

	if appCfg.PlansFile != "" {
		if err := seedPlans(ctx, appCfg.PlansFile, planStore, log); err != nil {
			return fmt.Errorf("seed plan catalog: %w", err)
		}
	}

	habitRepo := habit.NewPGRepository(pool)
	financeRepo := finance.NewPGRepository(pool)
	healthRepo := health.NewPGRepository(pool)
	userStorage := user.NewPGStorage(pool)

	registry := entitlement.NewRegistry()
	registry.Register(entitlement.ResourceHabit, habitRepo.CountActive)
	registry.Register(entitlement.ResourceTransaction, financeRepo.CountTransactions)
	registry.Register(entitlement.ResourceBudget, financeRepo.CountBudgets)

	eval := entitlement.NewEvaluator(planStore, subStore, registry,
		entitlement.WithLogger(log))

	// Services.
	mailer := newMailer(emailCfg, log)
	userSvc := user.NewService(userStorage, eval,
		user.WithLogger(log), user.WithMailer(mailer))
	habitSvc := habit.NewService(habitRepo, eval, habit.WithLogger(log))
	financeSvc := finance.NewService(financeRepo, eval, finance.WithLogger(log))
	healthSvc := health.NewService(healthRepo, eval,
		health.WithLogger(log),
		health.WithDrugLabelLookup(health.NewOpenFDAClient()))

	// HTTP surface.
	opts := modules.RouterOptions{
		Auth:    userSvc,
		Account: account.Router(userSvc),
		Habits:  habits.Router(habitSvc),
		Finance: finances.Router(financeSvc),
		Health:  healthlog.Router(healthSvc),
		Billing: billing.Router(eval, planStore),
		Healthchecks: map[string]func(context.Context) error{
			"postgres": pg.Healthcheck(pool),
			"redis":    redis.Healthcheck(redisClient),
		},
		Logger: log,
	}
	if appCfg.AdminToken != "" {
		opts.Admin = admin.Router(planStore, appCfg.AdminToken)
	} else {
		log.WarnContext(ctx, "ADMIN_TOKEN not set, admin surface disabled")
	}

	srv := httpserver.NewFromConfig(serverCfg, httpserver.WithLogger(log))
	return srv.Run(ctx, modules.Router(opts))
}

// seedPlans loads the YAML catalog and upserts every plan through the
// cached store, invalidating stale catalog entries as it goes.
func seedPlans(ctx context.Context, path string, store entitlement.PlanStore, log *slog.Logger) error {
	plans, err := entitlement.LoadCatalogFile(path)
	if err != nil {
		return err
	}
	for _, plan := range plans {
		if err := store.SavePlan(ctx, plan); err != nil {
			return err
		}
	}
	log.InfoContext(ctx, "plan catalog seeded",
		slog.Int("plans", len(plans)), slog.String("file", path))
	return nil
}

// newMailer picks Postmark when a server token is configured, otherwise
// the file-writing dev sender.
func newMailer(cfg email.Config, log *slog.Logger) email.Sender {
	if cfg.PostmarkServerToken != "" {
		sender, err := email.NewPostmarkSender(cfg)
		if err == nil {
			return sender
		}
		log.Warn("postmark init failed, falling back to dev sender", logger.Error(err))
	}
	return email.NewDevSender(cfg.DevOutputDir)
}
