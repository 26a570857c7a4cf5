package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bloodlink/bloodbot/internal/domain"
	"github.com/bloodlink/bloodbot/internal/service"
	"github.com/bloodlink/bloodbot/internal/session"
	"github.com/bloodlink/bloodbot/internal/storage"

	tele "gopkg.in/telebot.v4"
)

// recordingCtx captures outgoing texts; the embedded interface covers
// the methods handlers never touch.
type recordingCtx struct {
	tele.Context
	sender *tele.User
	store  map[string]any
	sent   []string
}

func (c *recordingCtx) Sender() *tele.User  { return c.sender }
func (c *recordingCtx) Chat() *tele.Chat    { return nil }
func (c *recordingCtx) Update() tele.Update { return tele.Update{} }

func (c *recordingCtx) Get(key string) any { return c.store[key] }

func (c *recordingCtx) Set(key string, val any) {
	if c.store == nil {
		c.store = make(map[string]any)
	}
	c.store[key] = val
}

func (c *recordingCtx) Send(what any, _ ...any) error {
	if text, ok := what.(string); ok {
		c.sent = append(c.sent, text)
	}
	return nil
}

type fakeUserRepo struct {
	user *domain.User
}

func (f *fakeUserRepo) Upsert(context.Context, *domain.User) error { return nil }

func (f *fakeUserRepo) ByTelegramID(_ context.Context, id int64) (*domain.User, error) {
	if f.user == nil || f.user.TelegramID != id {
		return nil, storage.ErrNotFound
	}
	return f.user, nil
}

func (f *fakeUserRepo) SaveDonorProfile(context.Context, *domain.User) error { return nil }

func (f *fakeUserRepo) SetBloodType(context.Context, int64, domain.BloodType) error { return nil }

func (f *fakeUserRepo) SetLocation(context.Context, int64, string, *float64, *float64) error {
	return nil
}

func (f *fakeUserRepo) SetLastDonation(context.Context, int64, *time.Time) error { return nil }

func (f *fakeUserRepo) SetCertificate(context.Context, int64, string, time.Time) error { return nil }

func (f *fakeUserRepo) ClearCertificate(context.Context, int64) error { return nil }

type fakeActiveNeeds struct {
	needs []storage.NeedWithCenter
}

func (f *fakeActiveNeeds) ActiveByType(context.Context, domain.BloodType) ([]storage.NeedWithCenter, error) {
	return f.needs, nil
}

func TestFindCentersListsMatchesForIneligibleDonor(t *testing.T) {
	bt := domain.BloodOPos
	city := "Almaty"
	last := time.Now().AddDate(0, 0, -10)
	users := &fakeUserRepo{user: &domain.User{
		ID:               1,
		TelegramID:       42,
		Role:             domain.RoleDonor,
		Registered:       true,
		BloodType:        &bt,
		City:             &city,
		LastDonationDate: &last,
	}}
	needs := &fakeActiveNeeds{needs: []storage.NeedWithCenter{{
		Center: domain.MedicalCenter{ID: 5, Name: "City Blood Center", City: "Almaty", Address: "Abay Ave 1"},
		Status: domain.NeedUrgent,
	}}}
	donors := service.NewDonorService(users, needs, service.DonorConfig{})
	b := New(session.NewManager(), donors, nil, nil, nil, nil, Config{})

	c := &recordingCtx{sender: &tele.User{ID: 42}}
	if err := b.cbFindCenters(c); err != nil {
		t.Fatalf("cbFindCenters: %v", err)
	}
	if len(c.sent) != 2 {
		t.Fatalf("sent %d messages, want wait notice + 1 match: %q", len(c.sent), c.sent)
	}
	if !strings.Contains(c.sent[0], "day(s) to go") {
		t.Fatalf("first message = %q, want the wait notice", c.sent[0])
	}
	if !strings.Contains(c.sent[1], "City Blood Center") {
		t.Fatalf("second message = %q, want the center listing", c.sent[1])
	}
}

func TestRenderProfileShowsEligibilityStatus(t *testing.T) {
	bt := domain.BloodOPos
	last := time.Now().AddDate(0, 0, -10)
	u := &domain.User{BloodType: &bt, LastDonationDate: &last}

	got := renderProfile(u, false, 50)
	if !strings.Contains(got, fmt.Sprintf(textProfileWaitFmt, 50)) {
		t.Fatalf("profile = %q, want the wait status", got)
	}

	got = renderProfile(u, true, 0)
	if !strings.Contains(got, textProfileCanDonate) {
		t.Fatalf("profile = %q, want the can-donate status", got)
	}
}

func TestOnErrorSendsFailureNotice(t *testing.T) {
	b := New(session.NewManager(), nil, nil, nil, nil, nil, Config{})
	c := &recordingCtx{sender: &tele.User{ID: 7}}

	b.OnError(errors.New("store unavailable"), c)
	if len(c.sent) != 1 || c.sent[0] != textFailure {
		t.Fatalf("sent = %q, want the failure notice", c.sent)
	}

	// Global errors arrive with a nil context.
	b.OnError(errors.New("poller stopped"), nil)
}
