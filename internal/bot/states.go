package bot

import "github.com/bloodlink/bloodbot/internal/session"

// Conversation states. Every multi-step flow walks through these; states
// that expect an inline-button tap still get a text handler so stray
// messages re-prompt instead of being swallowed.
const (
	StateRoleSelect session.State = "role_select"

	StateDonorBloodType    session.State = "donor_blood_type"
	StateDonorLocation     session.State = "donor_location"
	StateDonorLastDonation session.State = "donor_last_donation"

	StateStaffAccessCode     session.State = "staff_access_code"
	StateCenterChoice        session.State = "center_choice"
	StateCenterLoginName     session.State = "center_login_name"
	StateCenterLoginPassword session.State = "center_login_password"
	StateCenterRegName       session.State = "center_reg_name"
	StateCenterRegCity       session.State = "center_reg_city"
	StateCenterRegAddress    session.State = "center_reg_address"
	StateCenterRegLocation   session.State = "center_reg_location"
	StateCenterRegLogin      session.State = "center_reg_login"
	StateCenterRegPassword   session.State = "center_reg_password"

	StateDonorUpdateBloodType session.State = "donor_update_blood_type"
	StateDonorUpdateLocation  session.State = "donor_update_location"
	StateDonorUpdateDate      session.State = "donor_update_date"
	StateDonorCertificate     session.State = "donor_certificate"

	StateRequestBloodType session.State = "request_blood_type"
	StateRequestDate      session.State = "request_date"
	StateEditCenterField  session.State = "edit_center_field"
)
