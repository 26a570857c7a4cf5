package bot

import (
	"fmt"
	"strings"

	"github.com/bloodlink/bloodbot/core/telegram/format"
	"github.com/bloodlink/bloodbot/internal/domain"
	"github.com/bloodlink/bloodbot/internal/match"
	"github.com/bloodlink/bloodbot/internal/service"
	"github.com/bloodlink/bloodbot/internal/storage"
)

func md(text string) string {
	escaped, err := format.EscapeMarkdown(text, format.MarkdownV1, "")
	if err != nil {
		return text
	}
	return escaped
}

func renderMatch(m match.Match) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s *%s*\n%s, %s", m.Status.Marker(), md(m.Center.Name), md(m.Center.City), md(m.Center.Address))
	if m.DistanceKM != nil {
		fmt.Fprintf(&b, "\n📍 %.1f km away", *m.DistanceKM)
	}
	return b.String()
}

func renderApplication(app domain.DonationApplication) string {
	icon := map[domain.ApplicationStatus]string{
		domain.ApplicationPending:   "⏳",
		domain.ApplicationCompleted: "✅",
		domain.ApplicationCancelled: "❌",
		domain.ApplicationRejected:  "🚫",
	}[app.Status]
	return fmt.Sprintf("%s %s — %s blood, %s\nRef: `%s`",
		icon, app.Status, app.BloodType,
		app.CreatedAt.Format(domain.DateLayout), app.Ref)
}

func renderTriageItem(app storage.ApplicationWithDonor) string {
	name := strings.TrimSpace(app.DonorFirstName + " " + app.DonorLastName)
	if app.DonorUsername != "" {
		name += " (@" + app.DonorUsername + ")"
	}
	return fmt.Sprintf("⏳ *%s* — %s blood\nApplied %s\nRef: `%s`",
		md(name), app.BloodType,
		app.CreatedAt.Format(domain.DateLayout), app.Ref)
}

func renderStatistics(stats *service.Statistics) string {
	var b strings.Builder
	b.WriteString("📊 *Statistics*\n\n")
	fmt.Fprintf(&b, "Registered donors: %d\n", stats.Donors.Total)
	fmt.Fprintf(&b, "Eligible right now: %d\n", stats.Donors.Eligible)
	fmt.Fprintf(&b, "Pending applications: %d\n", stats.PendingCount)

	b.WriteString("\nBy blood type:\n")
	for _, bt := range domain.BloodTypes {
		if n := stats.Donors.ByType[bt]; n > 0 {
			fmt.Fprintf(&b, "  %s: %d\n", bt, n)
		}
	}

	if len(stats.RecentRequests) > 0 {
		b.WriteString("\nRecent requests:\n")
		for _, r := range stats.RecentRequests {
			fmt.Fprintf(&b, "  %s on %s\n", r.BloodType, r.RequestDate.Format(domain.DateLayout))
		}
	}
	return b.String()
}

func renderProfile(u *domain.User, eligible bool, waitDays int) string {
	bt := "—"
	if u.BloodType != nil {
		bt = string(*u.BloodType)
	}
	city := format.DerefString(u.City, "—")
	status := textProfileCanDonate
	if !eligible {
		status = fmt.Sprintf(textProfileWaitFmt, waitDays)
	}
	return fmt.Sprintf("👤 *Your profile*\nBlood type: %s\nCity: %s\nLast donation: %s\nStatus: %s",
		bt, md(city), domain.FormatDate(u.LastDonationDate), status)
}

// ComposeUrgentAlert renders the notification sent when a center flips a
// blood type to urgent.
func ComposeUrgentAlert(center *domain.MedicalCenter, bt domain.BloodType) string {
	return fmt.Sprintf(textUrgentAlertFmt, bt, center.Name, center.City, center.Address)
}

// ComposeRequestAlert renders the notification for a dated request.
func ComposeRequestAlert(center *domain.MedicalCenter, r *domain.DonationRequest) string {
	return fmt.Sprintf(textRequestAlertFmt,
		r.BloodType, center.Name, domain.FormatDate(&r.RequestDate),
		center.City, center.Address)
}
