package bot

import (
	"errors"
	"strings"

	tg "github.com/bloodlink/bloodbot/core/telegram"
	"github.com/bloodlink/bloodbot/core/telegram/callbacks"
	tghelpers "github.com/bloodlink/bloodbot/core/telegram/helpers"
	"github.com/bloodlink/bloodbot/internal/domain"
	"github.com/bloodlink/bloodbot/internal/service"
	"github.com/bloodlink/bloodbot/internal/session"
	"github.com/bloodlink/bloodbot/internal/storage"

	tele "gopkg.in/telebot.v4"
)

func (b *Bot) registerOnboarding(reg *tg.Registry) {
	_ = reg.RegisterCallback(cbRoleDonor, b.cbRoleDonor)
	_ = reg.RegisterCallback(cbRoleStaff, b.cbRoleStaff)
	_ = reg.RegisterCallback(cbOnboardBlood, b.cbOnboardBloodType)
	_ = reg.RegisterCallback(cbStaffLogin, b.cbStaffLoginEntry)
	_ = reg.RegisterCallback(cbStaffRegister, b.cbStaffRegisterEntry)
	_ = reg.RegisterCallback(cbRegSkipPin, b.cbRegisterSkipPin)

	b.sessions.Register(StateRoleSelect, func(c tele.Context) error {
		return b.askRole(c, textWelcome)
	})
	b.sessions.Register(StateDonorBloodType, func(c tele.Context) error {
		return tghelpers.SendText(c, textBadBloodType,
			&tele.SendOptions{ReplyMarkup: bloodTypeKeyboard(cbOnboardBlood)})
	})
	b.sessions.Register(StateDonorLocation, b.stDonorLocation)
	b.sessions.Register(StateDonorLastDonation, b.stDonorLastDonation)

	b.sessions.Register(StateStaffAccessCode, b.stStaffAccessCode)
	b.sessions.Register(StateCenterChoice, func(c tele.Context) error {
		return tghelpers.SendText(c, textStaffEntry,
			&tele.SendOptions{ReplyMarkup: staffEntryKeyboard()})
	})
	b.sessions.Register(StateCenterLoginName, b.stCenterLoginName)
	b.sessions.Register(StateCenterLoginPassword, b.stCenterLoginPassword)
	b.sessions.Register(StateCenterRegName, b.stCenterRegName)
	b.sessions.Register(StateCenterRegCity, b.stCenterRegCity)
	b.sessions.Register(StateCenterRegAddress, b.stCenterRegAddress)
	b.sessions.Register(StateCenterRegLocation, b.stCenterRegLocation)
	b.sessions.Register(StateCenterRegLogin, b.stCenterRegLogin)
	b.sessions.Register(StateCenterRegPassword, b.stCenterRegPassword)
}

// --- Role selection ---

func (b *Bot) cbRoleDonor(c tele.Context) error {
	userID := c.Sender().ID
	sess := b.sessions.Get(userID)
	sess.Donor = &session.DonorDraft{}
	b.sessions.SetState(userID, StateDonorBloodType)
	return tghelpers.SendText(c, textAskBloodType,
		&tele.SendOptions{ReplyMarkup: bloodTypeKeyboard(cbOnboardBlood)})
}

func (b *Bot) cbRoleStaff(c tele.Context) error {
	b.sessions.SetState(c.Sender().ID, StateStaffAccessCode)
	return tghelpers.SendText(c, textAskAccessCode)
}

// --- Donor onboarding ---

func (b *Bot) cbOnboardBloodType(c tele.Context) error {
	userID := c.Sender().ID
	sess := b.sessions.Get(userID)
	if sess.Donor == nil {
		return b.expireSession(c)
	}
	bt, err := domain.ParseBloodType(callbacks.CallbackPayload(c))
	if err != nil {
		return tghelpers.SendText(c, textBadBloodType)
	}
	sess.Donor.BloodType = bt
	b.sessions.SetState(userID, StateDonorLocation)
	return tghelpers.SendText(c, textAskLocation)
}

func (b *Bot) stDonorLocation(c tele.Context) error {
	userID := c.Sender().ID
	sess := b.sessions.Get(userID)
	if sess.Donor == nil {
		return b.expireSession(c)
	}

	if loc := messageLocation(c); loc != nil {
		lat, lon := float64(loc.Lat), float64(loc.Lng)
		sess.Donor.Latitude = &lat
		sess.Donor.Longitude = &lon
		return tghelpers.SendText(c, textAskCityAfterPin)
	}

	city := strings.TrimSpace(c.Text())
	if city == "" {
		return tghelpers.SendText(c, textAskLocation)
	}
	sess.Donor.City = city
	b.sessions.SetState(userID, StateDonorLastDonation)
	return tghelpers.SendText(c, textAskLastDonation)
}

func (b *Bot) stDonorLastDonation(c tele.Context) error {
	userID := c.Sender().ID
	sess := b.sessions.Get(userID)
	if sess.Donor == nil {
		return b.expireSession(c)
	}

	last, err := domain.ParseDonationDate(c.Text())
	if err != nil {
		return tghelpers.SendText(c, textBadDate)
	}
	sess.Donor.LastDonation = last

	u, err := b.currentUser(c)
	if err != nil {
		return err
	}
	if err := b.donors.CompleteOnboarding(reqCtx(c), u, sess.Donor); err != nil {
		return err
	}
	if err := tghelpers.SendText(c, textDonorRegistered); err != nil {
		return err
	}
	return b.showDonorMenu(c)
}

// --- Staff access and login ---

func (b *Bot) stStaffAccessCode(c tele.Context) error {
	if err := b.centers.VerifyAccessCode(strings.TrimSpace(c.Text())); err != nil {
		if errors.Is(err, service.ErrBadAccessCode) {
			return tghelpers.SendText(c, textBadAccessCode)
		}
		return err
	}
	b.sessions.SetState(c.Sender().ID, StateCenterChoice)
	return tghelpers.SendText(c, textStaffEntry,
		&tele.SendOptions{ReplyMarkup: staffEntryKeyboard()})
}

func (b *Bot) cbStaffLoginEntry(c tele.Context) error {
	userID := c.Sender().ID
	sess := b.sessions.Get(userID)
	sess.Center = &session.CenterDraft{}
	b.sessions.SetState(userID, StateCenterLoginName)
	return tghelpers.SendText(c, textAskLoginName)
}

func (b *Bot) stCenterLoginName(c tele.Context) error {
	userID := c.Sender().ID
	sess := b.sessions.Get(userID)
	if sess.Center == nil {
		return b.expireSession(c)
	}
	sess.Center.LoginName = strings.TrimSpace(c.Text())
	b.sessions.SetState(userID, StateCenterLoginPassword)
	return tghelpers.SendText(c, textAskLoginPass)
}

func (b *Bot) stCenterLoginPassword(c tele.Context) error {
	userID := c.Sender().ID
	sess := b.sessions.Get(userID)
	if sess.Center == nil {
		return b.expireSession(c)
	}

	u, err := b.currentUser(c)
	if err != nil {
		return err
	}
	_, err = b.centers.Login(reqCtx(c), u.ID, sess.Center.LoginName, c.Text())
	if errors.Is(err, service.ErrBadCredentials) {
		b.sessions.SetState(userID, StateCenterLoginName)
		return tghelpers.SendText(c, textBadCredentials)
	}
	if err != nil {
		return err
	}
	if err := tghelpers.SendText(c, textStaffLoggedIn); err != nil {
		return err
	}
	return b.showStaffMenu(c)
}

// --- Center registration ---

func (b *Bot) cbStaffRegisterEntry(c tele.Context) error {
	userID := c.Sender().ID
	sess := b.sessions.Get(userID)
	sess.Center = &session.CenterDraft{}
	b.sessions.SetState(userID, StateCenterRegName)
	return tghelpers.SendText(c, textAskCenterName)
}

func (b *Bot) stCenterRegName(c tele.Context) error {
	return b.centerRegTextStep(c, func(d *session.CenterDraft, text string) {
		d.Name = text
	}, StateCenterRegCity, textAskCenterCity, nil)
}

func (b *Bot) stCenterRegCity(c tele.Context) error {
	return b.centerRegTextStep(c, func(d *session.CenterDraft, text string) {
		d.City = text
	}, StateCenterRegAddress, textAskCenterAddr, nil)
}

func (b *Bot) stCenterRegAddress(c tele.Context) error {
	return b.centerRegTextStep(c, func(d *session.CenterDraft, text string) {
		d.Address = text
	}, StateCenterRegLocation, textAskCenterPin, skipKeyboard(cbRegSkipPin))
}

func (b *Bot) stCenterRegLocation(c tele.Context) error {
	userID := c.Sender().ID
	sess := b.sessions.Get(userID)
	if sess.Center == nil {
		return b.expireSession(c)
	}
	if loc := messageLocation(c); loc != nil {
		lat, lon := float64(loc.Lat), float64(loc.Lng)
		sess.Center.Latitude = &lat
		sess.Center.Longitude = &lon
	} else if !strings.EqualFold(strings.TrimSpace(c.Text()), "skip") {
		return tghelpers.SendText(c, textAskCenterPin,
			&tele.SendOptions{ReplyMarkup: skipKeyboard(cbRegSkipPin)})
	}
	b.sessions.SetState(userID, StateCenterRegLogin)
	return tghelpers.SendText(c, textAskCenterLogin)
}

func (b *Bot) cbRegisterSkipPin(c tele.Context) error {
	userID := c.Sender().ID
	if b.sessions.Get(userID).Center == nil {
		return b.expireSession(c)
	}
	b.sessions.SetState(userID, StateCenterRegLogin)
	return tghelpers.SendText(c, textAskCenterLogin)
}

func (b *Bot) stCenterRegLogin(c tele.Context) error {
	return b.centerRegTextStep(c, func(d *session.CenterDraft, text string) {
		d.Login = text
	}, StateCenterRegPassword, textAskCenterPass, nil)
}

func (b *Bot) stCenterRegPassword(c tele.Context) error {
	userID := c.Sender().ID
	sess := b.sessions.Get(userID)
	if sess.Center == nil {
		return b.expireSession(c)
	}

	u, err := b.currentUser(c)
	if err != nil {
		return err
	}
	_, err = b.centers.Register(reqCtx(c), u.ID, sess.Center, c.Text())
	if errors.Is(err, storage.ErrDuplicateLogin) {
		b.sessions.SetState(userID, StateCenterRegLogin)
		return tghelpers.SendText(c, textLoginTaken)
	}
	if err != nil {
		return err
	}
	if err := tghelpers.SendText(c, textCenterCreated); err != nil {
		return err
	}
	return b.showStaffMenu(c)
}

func (b *Bot) centerRegTextStep(c tele.Context, apply func(*session.CenterDraft, string), next session.State, prompt string, markup *tele.ReplyMarkup) error {
	userID := c.Sender().ID
	sess := b.sessions.Get(userID)
	if sess.Center == nil {
		return b.expireSession(c)
	}
	text := strings.TrimSpace(c.Text())
	if text == "" {
		return tghelpers.SendText(c, textUnknown)
	}
	apply(sess.Center, text)
	b.sessions.SetState(userID, next)
	if markup != nil {
		return tghelpers.SendText(c, prompt, &tele.SendOptions{ReplyMarkup: markup})
	}
	return tghelpers.SendText(c, prompt)
}

func messageLocation(c tele.Context) *tele.Location {
	if msg := c.Message(); msg != nil && msg.Location != nil {
		return msg.Location
	}
	return nil
}
