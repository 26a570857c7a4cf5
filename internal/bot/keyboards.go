package bot

import (
	"fmt"

	"github.com/bloodlink/bloodbot/core/telegram/keyboard"
	"github.com/bloodlink/bloodbot/internal/domain"

	tele "gopkg.in/telebot.v4"
)

// Callback uniques. Each flow gets its own key so the registry can stay
// stateless: the unique alone tells us what the tap means.
const (
	cbRoleDonor = "role_donor"
	cbRoleStaff = "role_staff"

	cbOnboardBlood = "ob_blood"

	cbStaffLogin    = "staff_login"
	cbStaffRegister = "staff_register"
	cbRegSkipPin    = "reg_loc_skip"

	cbDonorFind    = "dn_find"
	cbDonorApps    = "dn_apps"
	cbDonorProfile = "dn_profile"
	cbDonorCert    = "dn_cert"
	cbDonorSwitch  = "dn_switch"
	cbDonorHelp    = "dn_help"

	cbUpdateBlood   = "upd_blood"
	cbUpdateBloodGo = "upd_blood_go"
	cbUpdateLoc     = "upd_loc"
	cbUpdateLocSkip = "upd_loc_skip"
	cbUpdateDate    = "upd_date"

	cbApplyNew  = "app_new"
	cbAppCancel = "app_cancel"
	cbAppOk     = "app_ok"
	cbAppNo     = "app_no"

	cbStaffBoard   = "st_board"
	cbStaffToggle  = "st_toggle"
	cbStaffTriage  = "st_triage"
	cbStaffReq     = "st_req"
	cbRequestBlood = "req_blood"
	cbStaffEdit    = "st_edit"
	cbStaffEditF   = "st_edit_f"
	cbStaffStats   = "st_stats"
	cbStaffHelp    = "st_help"
	cbBackDonor    = "back_donor"
	cbBackStaff    = "back_staff"
)

func roleKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{
			{Text: "🩸 I'm a donor", Unique: cbRoleDonor},
			{Text: "🏥 Medical center staff", Unique: cbRoleStaff},
		},
	)
}

// bloodTypeKeyboard lays the eight groups out in a 2-wide grid.
func bloodTypeKeyboard(unique string) *tele.ReplyMarkup {
	buttons := make([]keyboard.InlineBtn, 0, len(domain.BloodTypes))
	for _, bt := range domain.BloodTypes {
		buttons = append(buttons, keyboard.InlineBtn{
			Text:   string(bt),
			Unique: unique,
			Data:   string(bt),
		})
	}
	return keyboard.InlineButtonsNPerRow(buttons, 2)
}

func skipKeyboard(unique string) *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: "Skip", Unique: unique},
	})
}

func staffEntryKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{
			{Text: "🔑 Log in", Unique: cbStaffLogin},
			{Text: "🆕 Register a center", Unique: cbStaffRegister},
		},
	)
}

func donorMenuKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{{Text: "🔍 Where is my blood needed?", Unique: cbDonorFind}},
		[]keyboard.InlineBtn{{Text: "📋 My applications", Unique: cbDonorApps}},
		[]keyboard.InlineBtn{{Text: "👤 Update profile", Unique: cbDonorProfile}},
		[]keyboard.InlineBtn{{Text: "📄 My certificate", Unique: cbDonorCert}},
		[]keyboard.InlineBtn{
			{Text: "🔄 Switch role", Unique: cbDonorSwitch},
			{Text: "ℹ️ Help", Unique: cbDonorHelp},
		},
	)
}

func donorProfileKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{{Text: "🩸 Blood type", Unique: cbUpdateBloodGo}},
		[]keyboard.InlineBtn{{Text: "📍 Location", Unique: cbUpdateLoc}},
		[]keyboard.InlineBtn{{Text: "📅 Last donation date", Unique: cbUpdateDate}},
		[]keyboard.InlineBtn{{Text: "⬅️ Back", Unique: cbBackDonor}},
	)
}

func staffMenuKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{{Text: "🚦 Blood needs board", Unique: cbStaffBoard}},
		[]keyboard.InlineBtn{{Text: "📋 Pending applications", Unique: cbStaffTriage}},
		[]keyboard.InlineBtn{{Text: "📣 New donation request", Unique: cbStaffReq}},
		[]keyboard.InlineBtn{{Text: "✏️ Edit center profile", Unique: cbStaffEdit}},
		[]keyboard.InlineBtn{
			{Text: "📊 Statistics", Unique: cbStaffStats},
			{Text: "ℹ️ Help", Unique: cbStaffHelp},
		},
	)
}

// boardKeyboard renders the traffic light: one button per blood type,
// labeled with the current marker; tapping cycles the status.
func boardKeyboard(board map[domain.BloodType]domain.NeedStatus) *tele.ReplyMarkup {
	buttons := make([]keyboard.InlineBtn, 0, len(domain.BloodTypes))
	for _, bt := range domain.BloodTypes {
		buttons = append(buttons, keyboard.InlineBtn{
			Text:   fmt.Sprintf("%s %s", board[bt].Marker(), bt),
			Unique: cbStaffToggle,
			Data:   string(bt),
		})
	}
	rows := [][]keyboard.InlineBtn{}
	for i := 0; i < len(buttons); i += 2 {
		rows = append(rows, buttons[i:i+2])
	}
	rows = append(rows, []keyboard.InlineBtn{{Text: "⬅️ Back", Unique: cbBackStaff}})
	return keyboard.InlineButtonsRows(rows...)
}

func editCenterKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{
			{Text: "Name", Unique: cbStaffEditF, Data: "name"},
			{Text: "City", Unique: cbStaffEditF, Data: "city"},
		},
		[]keyboard.InlineBtn{
			{Text: "Address", Unique: cbStaffEditF, Data: "address"},
			{Text: "Location", Unique: cbStaffEditF, Data: "location"},
		},
		[]keyboard.InlineBtn{{Text: "⬅️ Back", Unique: cbBackStaff}},
	)
}

func applyKeyboard(centerID int64) *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: "🙋 Apply to donate", Unique: cbApplyNew, Data: fmt.Sprintf("%d", centerID)},
	})
}

func cancelAppKeyboard(ref string) *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: "❌ Cancel application", Unique: cbAppCancel, Data: ref},
	})
}

func triageKeyboard(ref string) *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{
			{Text: "✅ Approve", Unique: cbAppOk, Data: ref},
			{Text: "🚫 Reject", Unique: cbAppNo, Data: ref},
		},
	)
}
