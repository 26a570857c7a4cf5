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

func (b *Bot) registerStaffMenu(reg *tg.Registry) {
	_ = reg.RegisterCallback(cbStaffBoard, b.cbBoard)
	_ = reg.RegisterCallback(cbStaffToggle, b.cbToggleNeed)
	_ = reg.RegisterCallback(cbStaffTriage, b.cbTriage)
	_ = reg.RegisterCallback(cbAppOk, b.cbApprove)
	_ = reg.RegisterCallback(cbAppNo, b.cbReject)
	_ = reg.RegisterCallback(cbStaffReq, b.cbNewRequest)
	_ = reg.RegisterCallback(cbRequestBlood, b.cbRequestBloodPick)
	_ = reg.RegisterCallback(cbStaffEdit, b.cbEditCenter)
	_ = reg.RegisterCallback(cbStaffEditF, b.cbEditCenterField)
	_ = reg.RegisterCallback(cbStaffStats, b.cbStatistics)
	_ = reg.RegisterCallback(cbStaffHelp, func(c tele.Context) error {
		return tghelpers.SendText(c, textHelpStaff)
	})
	_ = reg.RegisterCallback(cbBackStaff, func(c tele.Context) error {
		return b.showStaffMenu(c)
	})

	b.sessions.Register(StateRequestBloodType, func(c tele.Context) error {
		return tghelpers.SendText(c, textAskRequestBlood,
			&tele.SendOptions{ReplyMarkup: bloodTypeKeyboard(cbRequestBlood)})
	})
	b.sessions.Register(StateRequestDate, b.stRequestDate)
	b.sessions.Register(StateEditCenterField, b.stEditCenterValue)
}

// --- Traffic light board ---

func (b *Bot) cbBoard(c tele.Context) error {
	_, center, err := b.staffCenter(c)
	if err != nil || center == nil {
		return err
	}
	board, err := b.needs.Board(reqCtx(c), center.ID)
	if err != nil {
		return err
	}
	return tghelpers.SendText(c, textBoardHint,
		&tele.SendOptions{ReplyMarkup: boardKeyboard(board)})
}

func (b *Bot) cbToggleNeed(c tele.Context) error {
	_, center, err := b.staffCenter(c)
	if err != nil || center == nil {
		return err
	}
	bt, err := domain.ParseBloodType(callbacks.CallbackPayload(c))
	if err != nil {
		return tghelpers.SendText(c, textBadBloodType)
	}

	ctx := reqCtx(c)
	if _, err := b.needs.Toggle(ctx, center, bt); err != nil {
		return err
	}
	board, err := b.needs.Board(ctx, center.ID)
	if err != nil {
		return err
	}
	return tghelpers.EditOrSendMD(c, textBoardHint, boardKeyboard(board))
}

// --- Application triage ---

func (b *Bot) cbTriage(c tele.Context) error {
	_, center, err := b.staffCenter(c)
	if err != nil || center == nil {
		return err
	}
	apps, err := b.applications.PendingForCenter(reqCtx(c), center.ID)
	if err != nil {
		return err
	}
	if len(apps) == 0 {
		return tghelpers.SendText(c, textTriageEmpty)
	}
	for _, app := range apps {
		if err := tghelpers.SendMD(c, renderTriageItem(app), triageKeyboard(app.Ref)); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bot) cbApprove(c tele.Context) error {
	return b.decide(c, domain.ApplicationCompleted)
}

func (b *Bot) cbReject(c tele.Context) error {
	return b.decide(c, domain.ApplicationRejected)
}

func (b *Bot) decide(c tele.Context, to domain.ApplicationStatus) error {
	_, center, err := b.staffCenter(c)
	if err != nil || center == nil {
		return err
	}
	ref := callbacks.CallbackPayload(c)

	ctx := reqCtx(c)
	if to == domain.ApplicationCompleted {
		err = b.applications.Approve(ctx, center.ID, ref)
	} else {
		err = b.applications.Reject(ctx, center.ID, ref)
	}
	switch {
	case errors.Is(err, storage.ErrInvalidTransition):
		return tghelpers.SendText(c, textAppGone)
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, service.ErrNotOwner):
		return tghelpers.SendText(c, textAppGone)
	case err != nil:
		return err
	}
	if to == domain.ApplicationCompleted {
		return tghelpers.SendText(c, textAppApproved)
	}
	return tghelpers.SendText(c, textAppRejected)
}

// --- Dated donation requests ---

func (b *Bot) cbNewRequest(c tele.Context) error {
	_, center, err := b.staffCenter(c)
	if err != nil || center == nil {
		return err
	}
	userID := c.Sender().ID
	sess := b.sessions.Get(userID)
	sess.Request = &session.RequestDraft{}
	b.sessions.SetState(userID, StateRequestBloodType)
	return tghelpers.SendText(c, textAskRequestBlood,
		&tele.SendOptions{ReplyMarkup: bloodTypeKeyboard(cbRequestBlood)})
}

func (b *Bot) cbRequestBloodPick(c tele.Context) error {
	userID := c.Sender().ID
	sess := b.sessions.Get(userID)
	if sess.Request == nil {
		return b.expireSession(c)
	}
	bt, err := domain.ParseBloodType(callbacks.CallbackPayload(c))
	if err != nil {
		return tghelpers.SendText(c, textBadBloodType)
	}
	sess.Request.BloodType = bt
	b.sessions.SetState(userID, StateRequestDate)
	return tghelpers.SendText(c, textAskRequestDate)
}

func (b *Bot) stRequestDate(c tele.Context) error {
	userID := c.Sender().ID
	sess := b.sessions.Get(userID)
	if sess.Request == nil {
		return b.expireSession(c)
	}
	date, err := domain.ParseDonationDate(c.Text())
	if err != nil || date == nil {
		return tghelpers.SendText(c, textBadDate)
	}

	u, center, err := b.staffCenter(c)
	if err != nil || center == nil {
		return err
	}
	if _, err := b.requests.Create(reqCtx(c), center, u.ID, sess.Request.BloodType, *date); err != nil {
		return err
	}
	if err := tghelpers.SendText(c, textRequestCreated); err != nil {
		return err
	}
	return b.showStaffMenu(c)
}

// --- Center profile editing ---

func (b *Bot) cbEditCenter(c tele.Context) error {
	_, center, err := b.staffCenter(c)
	if err != nil || center == nil {
		return err
	}
	return tghelpers.SendText(c, textEditCenterPick,
		&tele.SendOptions{ReplyMarkup: editCenterKeyboard()})
}

func (b *Bot) cbEditCenterField(c tele.Context) error {
	field := callbacks.CallbackPayload(c)
	switch field {
	case "name", "city", "address", "location":
	default:
		return tghelpers.SendText(c, textUnknown)
	}
	userID := c.Sender().ID
	sess := b.sessions.Get(userID)
	sess.Edit = &session.EditDraft{Field: field}
	b.sessions.SetState(userID, StateEditCenterField)
	if field == "location" {
		return tghelpers.SendText(c, textAskNewPin)
	}
	return tghelpers.SendText(c, fmt.Sprintf(textAskNewValueFmt, field))
}

func (b *Bot) stEditCenterValue(c tele.Context) error {
	userID := c.Sender().ID
	sess := b.sessions.Get(userID)
	if sess.Edit == nil {
		return b.expireSession(c)
	}
	_, center, err := b.staffCenter(c)
	if err != nil || center == nil {
		return err
	}

	ctx := reqCtx(c)
	if sess.Edit.Field == "location" {
		loc := messageLocation(c)
		if loc == nil {
			return tghelpers.SendText(c, textAskNewPin)
		}
		if err := b.centers.UpdateLocation(ctx, center.ID, float64(loc.Lat), float64(loc.Lng)); err != nil {
			return err
		}
	} else {
		value := strings.TrimSpace(c.Text())
		if value == "" {
			return tghelpers.SendText(c, fmt.Sprintf(textAskNewValueFmt, sess.Edit.Field))
		}
		if err := b.centers.UpdateField(ctx, center.ID, sess.Edit.Field, value); err != nil {
			return err
		}
	}
	if err := tghelpers.SendText(c, textCenterUpdated); err != nil {
		return err
	}
	return b.showStaffMenu(c)
}

// --- Statistics ---

func (b *Bot) cbStatistics(c tele.Context) error {
	_, center, err := b.staffCenter(c)
	if err != nil || center == nil {
		return err
	}
	stats, err := b.centers.Statistics(reqCtx(c), center.ID)
	if err != nil {
		return err
	}
	return tghelpers.SendMD(c, renderStatistics(stats))
}
