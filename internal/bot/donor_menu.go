package bot

import (
	"errors"
	"fmt"
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

func (b *Bot) registerDonorMenu(reg *tg.Registry) {
	_ = reg.RegisterCallback(cbDonorFind, b.cbFindCenters)
	_ = reg.RegisterCallback(cbDonorApps, b.cbMyApplications)
	_ = reg.RegisterCallback(cbDonorProfile, b.cbProfile)
	_ = reg.RegisterCallback(cbDonorCert, b.cbCertificate)
	_ = reg.RegisterCallback(cbDonorSwitch, func(c tele.Context) error {
		b.sessions.Reset(c.Sender().ID)
		return b.askRole(c, textWelcome)
	})
	_ = reg.RegisterCallback(cbDonorHelp, func(c tele.Context) error {
		return tghelpers.SendText(c, textHelpDonor)
	})
	_ = reg.RegisterCallback(cbBackDonor, func(c tele.Context) error {
		return b.showDonorMenu(c)
	})

	_ = reg.RegisterCallback(cbUpdateBloodGo, b.cbUpdateBloodStart)
	_ = reg.RegisterCallback(cbUpdateBlood, b.cbUpdateBloodPick)
	_ = reg.RegisterCallback(cbUpdateLoc, b.cbUpdateLocationStart)
	_ = reg.RegisterCallback(cbUpdateLocSkip, b.cbUpdateLocationSkip)
	_ = reg.RegisterCallback(cbUpdateDate, b.cbUpdateDateStart)
	_ = reg.RegisterCallback(cbApplyNew, b.cbApply)
	_ = reg.RegisterCallback(cbAppCancel, b.cbCancelApplication)

	b.sessions.Register(StateDonorUpdateBloodType, func(c tele.Context) error {
		return tghelpers.SendText(c, textBadBloodType,
			&tele.SendOptions{ReplyMarkup: bloodTypeKeyboard(cbUpdateBlood)})
	})
	b.sessions.Register(StateDonorUpdateLocation, b.stUpdateLocation)
	b.sessions.Register(StateDonorUpdateDate, b.stUpdateDate)
	b.sessions.Register(StateDonorCertificate, b.stCertificatePhoto)
}

// --- Matching ---

func (b *Bot) cbFindCenters(c tele.Context) error {
	u, err := b.currentUser(c)
	if err != nil {
		return err
	}
	// Ineligible donors still get the list; only applying is gated.
	if eligible, wait := b.donors.Eligibility(u); !eligible {
		if err := tghelpers.SendText(c, fmt.Sprintf(textNotEligibleFmt, wait)); err != nil {
			return err
		}
	}

	matches, err := b.donors.FindMatches(reqCtx(c), u)
	if errors.Is(err, service.ErrProfileIncomplete) {
		return b.expireSession(c)
	}
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		return tghelpers.SendText(c, textNoMatches)
	}

	for _, m := range matches {
		if err := tghelpers.SendMD(c, renderMatch(m), applyKeyboard(m.Center.ID)); err != nil {
			return err
		}
	}
	return nil
}

// --- Applications ---

func (b *Bot) cbApply(c tele.Context) error {
	u, err := b.currentUser(c)
	if err != nil {
		return err
	}
	centerID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return tghelpers.SendText(c, textUnknown)
	}

	app, err := b.applications.Apply(reqCtx(c), u, centerID)
	switch {
	case errors.Is(err, service.ErrNotEligible):
		_, wait := b.donors.Eligibility(u)
		return tghelpers.SendText(c, fmt.Sprintf(textNotEligibleFmt, wait))
	case errors.Is(err, storage.ErrDuplicatePending):
		return tghelpers.SendText(c, textAlreadyApplied)
	case errors.Is(err, service.ErrProfileIncomplete):
		return b.expireSession(c)
	case err != nil:
		return err
	}
	return tghelpers.SendText(c, fmt.Sprintf(textApplied, app.Ref))
}

func (b *Bot) cbMyApplications(c tele.Context) error {
	u, err := b.currentUser(c)
	if err != nil {
		return err
	}
	apps, err := b.applications.ForDonor(reqCtx(c), u.ID)
	if err != nil {
		return err
	}
	if len(apps) == 0 {
		return tghelpers.SendText(c, textNoApplications)
	}
	for _, app := range apps {
		if app.Status == domain.ApplicationPending {
			if err := tghelpers.SendMD(c, renderApplication(app), cancelAppKeyboard(app.Ref)); err != nil {
				return err
			}
			continue
		}
		if err := tghelpers.SendMD(c, renderApplication(app)); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bot) cbCancelApplication(c tele.Context) error {
	u, err := b.currentUser(c)
	if err != nil {
		return err
	}
	ref := callbacks.CallbackPayload(c)

	err = b.applications.Cancel(reqCtx(c), u, ref)
	switch {
	case errors.Is(err, storage.ErrInvalidTransition):
		return tghelpers.SendText(c, textAppGone)
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, service.ErrNotOwner):
		return tghelpers.SendText(c, textAppGone)
	case err != nil:
		return err
	}
	return tghelpers.SendText(c, textAppCancelled)
}

// --- Profile updates ---

func (b *Bot) cbProfile(c tele.Context) error {
	u, err := b.currentUser(c)
	if err != nil {
		return err
	}
	eligible, wait := b.donors.Eligibility(u)
	return tghelpers.SendMD(c, renderProfile(u, eligible, wait), donorProfileKeyboard())
}

func (b *Bot) cbUpdateBloodStart(c tele.Context) error {
	b.sessions.SetState(c.Sender().ID, StateDonorUpdateBloodType)
	return tghelpers.SendText(c, textAskBloodType,
		&tele.SendOptions{ReplyMarkup: bloodTypeKeyboard(cbUpdateBlood)})
}

func (b *Bot) cbUpdateBloodPick(c tele.Context) error {
	u, err := b.currentUser(c)
	if err != nil {
		return err
	}
	bt, err := domain.ParseBloodType(callbacks.CallbackPayload(c))
	if err != nil {
		return tghelpers.SendText(c, textBadBloodType)
	}
	if err := b.donors.UpdateBloodType(reqCtx(c), u.ID, bt); err != nil {
		return err
	}
	if err := tghelpers.SendText(c, textProfileUpdated); err != nil {
		return err
	}
	return b.showDonorMenu(c)
}

func (b *Bot) cbUpdateLocationStart(c tele.Context) error {
	userID := c.Sender().ID
	sess := b.sessions.Get(userID)
	sess.Donor = &session.DonorDraft{}
	b.sessions.SetState(userID, StateDonorUpdateLocation)
	return tghelpers.SendText(c, textAskLocation,
		&tele.SendOptions{ReplyMarkup: skipKeyboard(cbUpdateLocSkip)})
}

func (b *Bot) cbUpdateLocationSkip(c tele.Context) error {
	return b.showDonorMenu(c)
}

func (b *Bot) stUpdateLocation(c tele.Context) error {
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

	u, err := b.currentUser(c)
	if err != nil {
		return err
	}
	if err := b.donors.UpdateLocation(reqCtx(c), u.ID, city, sess.Donor.Latitude, sess.Donor.Longitude); err != nil {
		return err
	}
	if err := tghelpers.SendText(c, textProfileUpdated); err != nil {
		return err
	}
	return b.showDonorMenu(c)
}

func (b *Bot) cbUpdateDateStart(c tele.Context) error {
	b.sessions.SetState(c.Sender().ID, StateDonorUpdateDate)
	return tghelpers.SendText(c, textAskLastDonation)
}

func (b *Bot) stUpdateDate(c tele.Context) error {
	last, err := domain.ParseDonationDate(c.Text())
	if err != nil {
		return tghelpers.SendText(c, textBadDate)
	}
	u, err := b.currentUser(c)
	if err != nil {
		return err
	}
	if err := b.donors.UpdateLastDonation(reqCtx(c), u.ID, last); err != nil {
		return err
	}
	if err := tghelpers.SendText(c, textProfileUpdated); err != nil {
		return err
	}
	return b.showDonorMenu(c)
}

// --- Certificate ---

func (b *Bot) cbCertificate(c tele.Context) error {
	u, err := b.currentUser(c)
	if err != nil {
		return err
	}
	fileID, ok, err := b.donors.Certificate(reqCtx(c), u)
	if err != nil {
		return err
	}
	if ok {
		photo := &tele.Photo{File: tele.File{FileID: fileID}}
		return c.Send(photo)
	}
	if u.CertificateFileID != nil {
		// Had one, but it just got cleared as expired.
		if err := tghelpers.SendText(c, textCertificateExpired); err != nil {
			return err
		}
	} else if err := tghelpers.SendText(c, textCertificateNone); err != nil {
		return err
	}
	b.sessions.SetState(c.Sender().ID, StateDonorCertificate)
	return tghelpers.SendText(c, textAskCertificate)
}

func (b *Bot) stCertificatePhoto(c tele.Context) error {
	msg := c.Message()
	if msg == nil || msg.Photo == nil {
		return tghelpers.SendText(c, textAskCertificate)
	}
	u, err := b.currentUser(c)
	if err != nil {
		return err
	}
	if err := b.donors.SaveCertificate(reqCtx(c), u.ID, msg.Photo.FileID); err != nil {
		return err
	}
	if err := tghelpers.SendText(c, fmt.Sprintf(textCertificateSaved, b.cfg.CertificateTTLDays)); err != nil {
		return err
	}
	return b.showDonorMenu(c)
}
