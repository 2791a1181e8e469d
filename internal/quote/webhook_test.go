package quote

import (
	"context"
	"errors"
	"testing"
)

func TestAcquireReusesOwnedWebhook(t *testing.T) {
	t.Parallel()

	platform := newFakePlatform()
	platform.webhooks["c1"] = []Webhook{
		{ID: "foreign", OwnerID: "someone-else"},
		{ID: "mine", OwnerID: "self"},
	}
	w := NewWebhooks(nil, platform, "")

	endpoint, err := w.Acquire(context.Background(), Channel{ID: "c1", Kind: KindStandardText}, testSelf)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if endpoint.Webhook.ID != "mine" || endpoint.ThreadID != "" {
		t.Fatalf("unexpected endpoint: %+v", endpoint)
	}
	if platform.callCount("create_webhook:") != 0 {
		t.Fatalf("owned webhook must be reused")
	}
}

func TestAcquireCreatesOnceAndMemoizes(t *testing.T) {
	t.Parallel()

	platform := newFakePlatform()
	w := NewWebhooks(nil, platform, "quote")
	ch := Channel{ID: "news", Kind: KindAnnouncement}

	first, err := w.Acquire(context.Background(), ch, testSelf)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	second, err := w.Acquire(context.Background(), ch, testSelf)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if first != second {
		t.Fatalf("expected memoized endpoint, got %+v and %+v", first, second)
	}
	if n := platform.callCount("create_webhook:"); n != 1 {
		t.Fatalf("expected one webhook creation, got %d", n)
	}
	if n := platform.callCount("webhooks:"); n != 1 {
		t.Fatalf("expected one listing, got %d", n)
	}

	// a cold memo re-lists and finds the webhook created above
	w.Forget("news")
	third, err := w.Acquire(context.Background(), ch, testSelf)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if third != first {
		t.Fatalf("expected rediscovered webhook %+v, got %+v", first, third)
	}
	if n := platform.callCount("create_webhook:"); n != 1 {
		t.Fatalf("expected no second creation, got %d", n)
	}
}

func TestAcquireThreadUsesParent(t *testing.T) {
	t.Parallel()

	platform := newFakePlatform()
	platform.channels["parent"] = Channel{ID: "parent", Kind: KindStandardText}
	platform.webhooks["parent"] = []Webhook{{ID: "mine", OwnerID: "self"}}
	w := NewWebhooks(nil, platform, "")

	endpoint, err := w.Acquire(context.Background(), Channel{ID: "thread", ParentID: "parent", Kind: KindPublicThread}, testSelf)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if endpoint.Webhook.ID != "mine" || endpoint.ThreadID != "thread" {
		t.Fatalf("unexpected endpoint: %+v", endpoint)
	}
}

func TestAcquireUnsupported(t *testing.T) {
	t.Parallel()

	platform := newFakePlatform()
	platform.channels["forum"] = Channel{ID: "forum", Kind: KindOther}
	w := NewWebhooks(nil, platform, "")

	cases := []Channel{
		{ID: "voice", Kind: KindOther},
		{ID: "thread", ParentID: "forum", Kind: KindPublicThread},
	}
	for _, ch := range cases {
		if _, err := w.Acquire(context.Background(), ch, testSelf); !errors.Is(err, ErrUnsupportedChannel) {
			t.Fatalf("channel %s: expected unsupported, got %v", ch.ID, err)
		}
	}
	if platform.callCount("webhooks:") != 0 {
		t.Fatalf("unsupported channels must not list webhooks")
	}
}

func TestAcquireRequiresSelf(t *testing.T) {
	t.Parallel()

	w := NewWebhooks(nil, newFakePlatform(), "")
	_, err := w.Acquire(context.Background(), Channel{ID: "c1", Kind: KindStandardText}, Self{})
	if !errors.Is(err, ErrMisconfigured) {
		t.Fatalf("expected misconfigured, got %v", err)
	}
}
