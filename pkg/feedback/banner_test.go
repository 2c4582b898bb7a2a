package feedback_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-intake/pkg/feedback"
	"github.com/goliatone/go-intake/pkg/testsupport"
)

func TestSuccessAutoDismisses(t *testing.T) {
	t.Parallel()

	clock := testsupport.NewFakeClock()
	var seen []feedback.Banner
	c := feedback.NewController(
		feedback.WithClock(clock),
		feedback.WithListener(func(b feedback.Banner) { seen = append(seen, b) }),
	)

	c.Success("Solicitação enviada!", 5*time.Second)
	if !c.Current().Visible {
		t.Fatalf("expected visible banner")
	}

	clock.Advance(4 * time.Second)
	if !c.Current().Visible {
		t.Fatalf("banner dismissed too early")
	}
	clock.Advance(time.Second)
	if c.Current().Visible {
		t.Fatalf("expected banner hidden after timeout")
	}

	want := []feedback.Banner{
		{Kind: feedback.KindSuccess, Message: "Solicitação enviada!", Visible: true, DismissAfter: 5 * time.Second},
		{},
	}
	if diff := cmp.Diff(want, seen); diff != "" {
		t.Fatalf("transitions mismatch (-want +got):\n%s", diff)
	}
}

func TestErrorAndWarningPersist(t *testing.T) {
	t.Parallel()

	clock := testsupport.NewFakeClock()
	c := feedback.NewController(feedback.WithClock(clock))

	c.Error("Falha no envio", "https://wa.me/5562999999999")
	if clock.Pending() != 0 {
		t.Fatalf("error banner must not schedule dismissal")
	}
	clock.Advance(time.Hour)
	if got := c.Current(); !got.Visible || got.Kind != feedback.KindError || got.Link == "" {
		t.Fatalf("error banner should persist, got %+v", got)
	}

	b := c.Show(feedback.Banner{Kind: feedback.KindWarning, Message: "Preencha os campos", DismissAfter: time.Second})
	if b.DismissAfter != 0 || clock.Pending() != 0 {
		t.Fatalf("warning banner must not auto-dismiss: %+v", b)
	}
}

func TestNewerBannerCancelsPendingDismissal(t *testing.T) {
	t.Parallel()

	clock := testsupport.NewFakeClock()
	c := feedback.NewController(feedback.WithClock(clock))

	c.Success("primeiro", 5*time.Second)
	clock.Advance(3 * time.Second)
	c.Error("falha", "")
	clock.Advance(10 * time.Second)

	if got := c.Current(); !got.Visible || got.Message != "falha" {
		t.Fatalf("stale timer hid newer banner: %+v", got)
	}
}

func TestHide(t *testing.T) {
	t.Parallel()

	clock := testsupport.NewFakeClock()
	calls := 0
	c := feedback.NewController(
		feedback.WithClock(clock),
		feedback.WithListener(func(feedback.Banner) { calls++ }),
	)

	c.Hide()
	if calls != 0 {
		t.Fatalf("hiding a hidden banner must be a no-op")
	}
	c.Success("ok", time.Second)
	c.Hide()
	if clock.Pending() != 0 || c.Current().Visible {
		t.Fatalf("hide must cancel timer and hide banner")
	}
	if calls != 2 {
		t.Fatalf("expected 2 transitions, got %d", calls)
	}
}
