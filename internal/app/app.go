// Package app assembles configuration, storage, services, and the
// Telegram runtime into a runnable application.
package app

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/bloodlink/bloodbot/core/bootstrap"
	corecmd "github.com/bloodlink/bloodbot/core/cmd"
	coreconfig "github.com/bloodlink/bloodbot/core/config"
	"github.com/bloodlink/bloodbot/core/logger"
	"github.com/bloodlink/bloodbot/core/metrics"
	coretelegram "github.com/bloodlink/bloodbot/core/telegram"
	"github.com/bloodlink/bloodbot/core/telegram/router"
	"github.com/bloodlink/bloodbot/internal/bot"
	"github.com/bloodlink/bloodbot/internal/notify"
	"github.com/bloodlink/bloodbot/internal/service"
	"github.com/bloodlink/bloodbot/internal/session"
	"github.com/bloodlink/bloodbot/internal/storage"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// Config wraps the core configuration for the cmd runner.
type Config struct {
	Core *coreconfig.Config
}

// CoreConfig implements cmd.ConfigCarrier.
func (c *Config) CoreConfig() *coreconfig.Config { return c.Core }

// LoadConfig reads and normalizes the YAML/env configuration.
func LoadConfig(path string) (corecmd.ConfigCarrier, error) {
	cfg, err := coreconfig.Load(path)
	if err != nil {
		return nil, err
	}
	return &Config{Core: cfg}, nil
}

// App owns the wired application graph.
type App struct {
	cfg *coreconfig.Config
	db  *sqlx.DB

	sessions    *session.Manager
	bot         *bot.Bot
	broadcaster *notify.Broadcaster
}

// Bootstrap initializes logging, the database, migrations, and the
// service graph.
func Bootstrap(carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
	cfg := carrier.CoreConfig()

	res, err := bootstrap.Run(bootstrap.Options{
		Config:   cfg,
		Database: cfg.Database,
	})
	if err != nil {
		return nil, err
	}
	return New(cfg, res.DB), nil
}

// New wires repositories, services, and handlers onto an open database.
func New(cfg *coreconfig.Config, db *sqlx.DB) *App {
	users := storage.NewUserStore(db)
	centers := storage.NewCenterStore(db)
	needs := storage.NewNeedStore(db)
	applications := storage.NewApplicationStore(db)
	requests := storage.NewRequestStore(db)

	broadcaster := notify.NewBroadcaster(25)

	donorSvc := service.NewDonorService(users, needs, service.DonorConfig{
		SearchRadiusKM:       cfg.App.SearchRadiusKM,
		MatchLimit:           cfg.App.MatchLimit,
		DonationIntervalDays: cfg.App.DonationIntervalDays,
		CertificateTTLDays:   cfg.App.CertificateTTLDays,
	})
	centerSvc := service.NewCenterService(centers, users, users, applications, requests, service.CenterConfig{
		StaffAccessCode:      cfg.App.StaffAccessCode,
		DonationIntervalDays: cfg.App.DonationIntervalDays,
	})
	needSvc := service.NewNeedService(needs, users, broadcaster, service.NeedConfig{
		SearchRadiusKM:       cfg.App.SearchRadiusKM,
		DonationIntervalDays: cfg.App.DonationIntervalDays,
		ComposeAlert:         bot.ComposeUrgentAlert,
	})
	appSvc := service.NewApplicationService(applications, users, service.ApplicationConfig{
		DonationIntervalDays: cfg.App.DonationIntervalDays,
	})
	reqSvc := service.NewRequestService(requests, users, broadcaster, service.RequestConfig{
		SearchRadiusKM:       cfg.App.SearchRadiusKM,
		DonationIntervalDays: cfg.App.DonationIntervalDays,
		ComposeRequest:       bot.ComposeRequestAlert,
	})

	sessions := session.NewManager()
	tgBot := bot.New(sessions, donorSvc, centerSvc, needSvc, appSvc, reqSvc, bot.Config{
		CertificateTTLDays: cfg.App.CertificateTTLDays,
	})

	return &App{
		cfg:         cfg,
		db:          db,
		sessions:    sessions,
		bot:         tgBot,
		broadcaster: broadcaster,
	}
}

// TelegramRunOptions implements cmd.TelegramApp.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()
	a.bot.Register(reg)

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID: a.cfg.Telegram.AdminID,
	})
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))
	routes = append(routes, router.TextRoutes(a.sessions, reg, router.TextOptions{})...)

	metrics.Init()

	return coretelegram.RunOptions{
		Config:      a.cfg,
		Registry:    reg,
		OnError:     a.bot.OnError,
		Middlewares: coretelegram.DefaultMiddlewares(a.cfg, nil),
		Routes:      routes,
		OnStart: func(ctx context.Context, rt coretelegram.Runtime) error {
			a.broadcaster.SetSender(botSender{bot: rt.Bot})

			go func() {
				if err := metrics.Serve(ctx, a.cfg.Metrics.Listen); err != nil {
					logger.L.With("component", "metrics").Error("metrics server failed",
						slog.String("err", err.Error()),
					)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context, rt coretelegram.Runtime) error {
			return a.db.Close()
		},
	}, nil
}

// botSender adapts the telebot API to the broadcaster.
type botSender struct {
	bot *tele.Bot
}

func (s botSender) Send(_ context.Context, chatID int64, text string) error {
	_, err := s.bot.Send(&tele.User{ID: chatID}, text)
	return err
}

var _ notify.Sender = botSender{}
