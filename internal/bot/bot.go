// Package bot wires the donor and staff conversation flows to the
// Telegram runtime.
package bot

import (
	"context"
	"errors"
	"fmt"

	"github.com/bloodlink/bloodbot/core/buildinfo"
	"github.com/bloodlink/bloodbot/core/logger"
	tg "github.com/bloodlink/bloodbot/core/telegram"
	"github.com/bloodlink/bloodbot/core/telegram/commands"
	tghelpers "github.com/bloodlink/bloodbot/core/telegram/helpers"
	"github.com/bloodlink/bloodbot/internal/domain"
	"github.com/bloodlink/bloodbot/internal/service"
	"github.com/bloodlink/bloodbot/internal/session"
	"github.com/bloodlink/bloodbot/internal/storage"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// Config carries the bot-level settings the handlers need directly.
type Config struct {
	CertificateTTLDays int
}

// Bot glues sessions, services, and the registry together.
type Bot struct {
	sessions     *session.Manager
	donors       *service.DonorService
	centers      *service.CenterService
	needs        *service.NeedService
	applications *service.ApplicationService
	requests     *service.RequestService
	cfg          Config
}

func New(
	sessions *session.Manager,
	donors *service.DonorService,
	centers *service.CenterService,
	needs *service.NeedService,
	applications *service.ApplicationService,
	requests *service.RequestService,
	cfg Config,
) *Bot {
	return &Bot{
		sessions:     sessions,
		donors:       donors,
		centers:      centers,
		needs:        needs,
		applications: applications,
		requests:     requests,
		cfg:          cfg,
	}
}

// Sessions exposes the FSM for the message router.
func (b *Bot) Sessions() *session.Manager { return b.sessions }

// Register wires all commands, callbacks, and conversation states.
func (b *Bot) Register(reg *tg.Registry) {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     b.handleStart,
		Description: "Main menu",
	})
	reg.RegisterCommand("/help", commands.Command{
		Handler:     b.handleHelp,
		Description: "How this bot works",
	})
	reg.RegisterCommand("/version", commands.Command{
		Handler:     b.handleVersion,
		Description: "Build info",
		AdminOnly:   true,
		Hidden:      true,
	})
	reg.SetTextFallback(func(c tele.Context) error {
		return tghelpers.SendText(c, textUnknown)
	})

	b.registerOnboarding(reg)
	b.registerDonorMenu(reg)
	b.registerStaffMenu(reg)
}

func (b *Bot) handleStart(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	sender := c.Sender()
	b.sessions.Reset(sender.ID)

	u, err := b.donors.EnsureUser(ctx, sender.ID, sender.Username, sender.FirstName, sender.LastName)
	if err != nil {
		return err
	}

	// Registered users land straight in their menu.
	if u.Registered {
		if u.Role == domain.RoleStaff && u.CenterID != nil {
			return b.showStaffMenu(c)
		}
		return b.showDonorMenu(c)
	}
	return b.askRole(c, textWelcome)
}

func (b *Bot) handleHelp(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	u, err := b.donors.Profile(ctx, c.Sender().ID)
	if err != nil || !u.Registered {
		return tghelpers.SendText(c, textHelpGuest)
	}
	if u.Role == domain.RoleStaff {
		return tghelpers.SendText(c, textHelpStaff)
	}
	return tghelpers.SendText(c, textHelpDonor)
}

func (b *Bot) handleVersion(c tele.Context) error {
	return tghelpers.SendText(c, fmt.Sprintf("bloodbot %s (%s, built %s)",
		buildinfo.Version, buildinfo.Commit, buildinfo.Date))
}

func (b *Bot) askRole(c tele.Context, text string) error {
	b.sessions.SetState(c.Sender().ID, StateRoleSelect)
	return tghelpers.SendText(c, text, &tele.SendOptions{ReplyMarkup: roleKeyboard()})
}

// expireSession handles the missing-draft case: the process restarted or
// the draft was dropped mid-flow, so the user starts over from role
// selection instead of hitting a nil draft.
func (b *Bot) expireSession(c tele.Context) error {
	b.sessions.Reset(c.Sender().ID)
	return b.askRole(c, textSessionExpired)
}

func (b *Bot) showDonorMenu(c tele.Context) error {
	b.sessions.Reset(c.Sender().ID)
	return tghelpers.SendText(c, textDonorMenu, &tele.SendOptions{ReplyMarkup: donorMenuKeyboard()})
}

func (b *Bot) showStaffMenu(c tele.Context) error {
	b.sessions.Reset(c.Sender().ID)
	return tghelpers.SendText(c, textStaffMenu, &tele.SendOptions{ReplyMarkup: staffMenuKeyboard()})
}

// OnError answers a failed handler with a generic retry notice. The
// session state is left untouched so the user can repeat the step.
func (b *Bot) OnError(err error, c tele.Context) {
	logger.TG.Error("handler failed",
		slog.String("event", "handler.error"),
		slog.String("err", err.Error()),
	)
	if c == nil {
		return
	}
	if sendErr := c.Send(textFailure); sendErr != nil {
		logger.TG.Error("failure notice not delivered",
			slog.String("event", "handler.error"),
			slog.String("err", sendErr.Error()),
		)
	}
}

// currentUser loads the sender's profile, creating the bare record on
// first contact.
func (b *Bot) currentUser(c tele.Context) (*domain.User, error) {
	ctx := tghelpers.BuildContext(c)
	sender := c.Sender()
	u, err := b.donors.Profile(ctx, sender.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return b.donors.EnsureUser(ctx, sender.ID, sender.Username, sender.FirstName, sender.LastName)
	}
	return u, err
}

// staffCenter resolves the sender's center or bounces them to /start.
func (b *Bot) staffCenter(c tele.Context) (*domain.User, *domain.MedicalCenter, error) {
	u, err := b.currentUser(c)
	if err != nil {
		return nil, nil, err
	}
	if u.Role != domain.RoleStaff || u.CenterID == nil {
		return nil, nil, b.expireSession(c)
	}
	ctx := tghelpers.BuildContext(c)
	center, err := b.centers.ByID(ctx, *u.CenterID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil, b.expireSession(c)
	}
	if err != nil {
		return nil, nil, err
	}
	return u, center, nil
}

func reqCtx(c tele.Context) context.Context {
	return tghelpers.BuildContext(c)
}
