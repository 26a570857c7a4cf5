package bot

// User-facing texts. Kept in one place so wording changes never touch
// handler logic.
const (
	textWelcome = "Welcome to BloodLink! 🩸\nThis bot connects blood donors with medical centers.\n\nWho are you?"

	textSessionExpired = "Your session expired. Let's start over.\n\nWho are you?"

	textAskBloodType    = "Select your blood type:"
	textAskLocation     = "Type your city, or share your location so we can find centers near you:"
	textAskCityAfterPin = "Got your location. Now type your city name:"
	textAskLastDonation = "When did you last donate blood?\nSend a date as DD.MM.YYYY, or \"never\" if you haven't donated before."
	textBadDate         = "That doesn't look like a date. Use DD.MM.YYYY, for example 15.03.2024, or \"never\"."
	textBadBloodType    = "Please pick one of the buttons with a valid blood type."
	textDonorRegistered = "You're registered as a donor. Thank you! 🎉"

	textAskAccessCode   = "Enter the staff access code:"
	textBadAccessCode   = "Wrong access code. Try again or send /start to go back."
	textStaffEntry      = "Staff area. Log in to an existing center or register a new one:"
	textAskLoginName    = "Enter the center login:"
	textAskLoginPass    = "Enter the password:"
	textBadCredentials  = "Invalid login or password. Let's try again.\n\nEnter the center login:"
	textAskCenterName   = "Enter the center name:"
	textAskCenterCity   = "Enter the center's city:"
	textAskCenterAddr   = "Enter the center's street address:"
	textAskCenterPin    = "Share the center's location on the map, or type \"skip\":"
	textAskCenterLogin  = "Choose a login for staff access:"
	textLoginTaken      = "That login is already taken. Choose another one:"
	textAskCenterPass   = "Choose a password:"
	textCenterCreated   = "Medical center registered. You're logged in as staff. ✅"
	textStaffLoggedIn   = "Logged in. Welcome back! ✅"

	textDonorMenu = "Donor menu — what would you like to do?"
	textStaffMenu = "Staff menu — what would you like to do?"

	textNoMatches       = "No centers currently need your blood type nearby. We'll notify you when that changes. 🙏"
	textNotEligibleFmt  = "You donated recently, so you can't donate yet. %d day(s) to go."
	textApplied         = "Application sent! The center will review it. Reference: %s"
	textAlreadyApplied  = "You already have an open application at this center."
	textNoApplications  = "You have no applications yet."
	textAppCancelled    = "Application cancelled."
	textAppGone         = "This application was already resolved."
	textProfileUpdated  = "Profile updated. ✅"

	textProfileCanDonate = "✅ you can donate"
	textProfileWaitFmt   = "⏳ wait %d more day(s)"

	textAskCertificate     = "Send a photo of your donation certificate:"
	textCertificateSaved   = "Certificate saved. It stays valid for %d days."
	textCertificateNone    = "You have no valid certificate on file."
	textCertificateExpired = "Your certificate has expired and was removed. Upload a new one after your next donation."

	textBoardHint      = "Tap a blood type to cycle its status: 🟢 ok → 🟡 need → 🔴 urgent → 🟢."
	textUrgentAlertFmt = "🔴 Urgent: %s blood needed!\n%s\n%s, %s\n\nIf you can donate, please apply or come by."

	textTriageEmpty   = "No pending applications."
	textAppApproved   = "Application approved — donation recorded."
	textAppRejected   = "Application rejected."

	textAskRequestBlood = "New donation request. Select the blood type:"
	textAskRequestDate  = "Enter the date donors are needed (DD.MM.YYYY):"
	textRequestCreated  = "Request created and donors notified. 📣"
	textRequestAlertFmt = "🩸 %s blood needed at %s on %s.\n%s, %s"

	textEditCenterPick = "Which field do you want to edit?"
	textAskNewValueFmt = "Send the new %s:"
	textAskNewPin      = "Share the new location on the map:"
	textCenterUpdated  = "Center profile updated. ✅"

	textUnknown = "I didn't get that. Use the menu buttons or send /help."
	textFailure = "Something went wrong. Please try again."

	textHelpDonor = `What I can do for you:
• Find centers that need your blood type right now
• Apply to donate and track your applications
• Remind you when you're eligible to donate again (every 60 days)
• Keep your donation certificate (valid 180 days)

Commands:
/start — main menu
/help — this message`

	textHelpStaff = `Staff tools:
• Blood needs board — toggle demand per blood type; urgent status alerts nearby eligible donors
• Applications — approve or reject donor applications
• Donation requests — schedule a dated call for donors
• Statistics — donor base overview

Commands:
/start — main menu
/help — this message`

	textHelpGuest = `This bot connects blood donors with medical centers.
Send /start to register as a donor or log in as medical center staff.`
)
