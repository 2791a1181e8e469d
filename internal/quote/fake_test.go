package quote

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var errFake = errors.New("fake remote failure")

type fakePlatform struct {
	mu sync.Mutex

	channels       map[string]Channel
	messages       map[string][]Source // channel id -> newest first
	members        map[string]string   // user id -> display name
	roles          map[string]Role
	webhooks       map[string][]Webhook
	perms          Permissions
	deletable      bool
	deleteErr      error
	executeErr     error
	channelErr     map[string]error
	messageErr     map[string]error
	nextWebhookID  int
	calls          []string
	deleted        []string
	posts          []fakePost
	channelCards   map[string][]Card
	recentLimitArg int
}

type fakePost struct {
	Endpoint Endpoint
	Post     Post
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		channels:     map[string]Channel{},
		messages:     map[string][]Source{},
		members:      map[string]string{},
		roles:        map[string]Role{},
		webhooks:     map[string][]Webhook{},
		channelErr:   map[string]error{},
		messageErr:   map[string]error{},
		channelCards: map[string][]Card{},
		deletable:    true,
	}
}

func (f *fakePlatform) record(call string) {
	f.calls = append(f.calls, call)
}

func (f *fakePlatform) callCount(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

func (f *fakePlatform) Channel(ctx context.Context, channelID string) (Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("channel:" + channelID)
	if err := f.channelErr[channelID]; err != nil {
		return Channel{}, err
	}
	ch, ok := f.channels[channelID]
	if !ok {
		return Channel{}, fmt.Errorf("unknown channel %s: %w", channelID, errFake)
	}
	return ch, nil
}

func (f *fakePlatform) RecentMessages(ctx context.Context, channelID string, limit int) ([]Source, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("recent:" + channelID)
	f.recentLimitArg = limit
	msgs := f.messages[channelID]
	if len(msgs) > limit {
		msgs = msgs[:limit]
	}
	return msgs, nil
}

func (f *fakePlatform) Message(ctx context.Context, channelID, messageID string) (Source, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("message:" + messageID)
	if err := f.messageErr[messageID]; err != nil {
		return Source{}, err
	}
	for _, msg := range f.messages[channelID] {
		if msg.MessageID == messageID {
			return msg, nil
		}
	}
	return Source{}, fmt.Errorf("unknown message %s: %w", messageID, errFake)
}

func (f *fakePlatform) MemberDisplayName(ctx context.Context, guildID, userID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("member:" + userID)
	name, ok := f.members[userID]
	if !ok {
		return "", errFake
	}
	return name, nil
}

func (f *fakePlatform) Role(ctx context.Context, guildID, roleID string) (Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	role, ok := f.roles[roleID]
	if !ok {
		return Role{}, errFake
	}
	return role, nil
}

func (f *fakePlatform) Webhooks(ctx context.Context, channelID string) ([]Webhook, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("webhooks:" + channelID)
	return append([]Webhook(nil), f.webhooks[channelID]...), nil
}

func (f *fakePlatform) CreateWebhook(ctx context.Context, channelID, name string) (Webhook, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("create_webhook:" + channelID)
	f.nextWebhookID++
	hook := Webhook{
		ID:        fmt.Sprintf("hook-%d", f.nextWebhookID),
		Token:     "token",
		ChannelID: channelID,
		OwnerID:   "self",
	}
	f.webhooks[channelID] = append(f.webhooks[channelID], hook)
	return hook, nil
}

func (f *fakePlatform) CanDelete(ctx context.Context, msg Message, self Self) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.deletable
}

func (f *fakePlatform) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("delete:" + messageID)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, messageID)
	return nil
}

func (f *fakePlatform) ExecuteWebhook(ctx context.Context, endpoint Endpoint, post Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("execute:" + endpoint.Webhook.ID)
	if f.executeErr != nil {
		return f.executeErr
	}
	f.posts = append(f.posts, fakePost{Endpoint: endpoint, Post: post})
	return nil
}

func (f *fakePlatform) Permissions(ctx context.Context, guildID, channelID, userID string) (Permissions, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.perms, nil
}

func (f *fakePlatform) SendCards(ctx context.Context, channelID string, cards []Card) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("send:" + channelID)
	f.channelCards[channelID] = append(f.channelCards[channelID], cards...)
	return nil
}

type fakeResponder struct {
	deferred int
	replies  []Reply
}

func (r *fakeResponder) Defer(ctx context.Context) error {
	r.deferred++
	return nil
}

func (r *fakeResponder) Reply(ctx context.Context, reply Reply) error {
	r.replies = append(r.replies, reply)
	return nil
}

var testSelf = Self{ID: "self", Username: "Quote", AvatarURL: "https://cdn.example/self.png"}
