package quote

import (
	"strings"
	"testing"
)

func TestMatchInlineJoinsFragmentsInOrder(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		text string
		want string
	}{
		{name: "single", text: "> hello", want: "hello"},
		{name: "two lines", text: "> first\n> second", want: "first\nsecond"},
		{name: "interleaved", text: "> one\nnot a marker\n> two\n>three\n> three", want: "one\ntwo\nthree"},
		{name: "trailing space", text: ">   padded   ", want: "padded"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			req := Match(tc.text)
			if req.Kind != RequestInline {
				t.Fatalf("expected inline request, got %s", req.Kind)
			}
			if req.Query != tc.want {
				t.Fatalf("query=%q want=%q", req.Query, tc.want)
			}
		})
	}
}

func TestMatchInlineFragmentCount(t *testing.T) {
	t.Parallel()

	for n := 1; n <= 5; n++ {
		lines := make([]string, 0, n)
		fragments := make([]string, 0, n)
		for i := 0; i < n; i++ {
			frag := strings.Repeat("x", i+1)
			lines = append(lines, "> "+frag)
			fragments = append(fragments, frag)
		}
		req := Match(strings.Join(lines, "\n"))
		if req.Query != strings.Join(fragments, "\n") {
			t.Fatalf("n=%d query=%q", n, req.Query)
		}
	}
}

func TestMatchLinks(t *testing.T) {
	t.Parallel()

	text := "look https://discord.com/channels/1/2/3 and https://ptb.discordapp.com/channels/1/4/5"
	req := Match(text)
	if req.Kind != RequestLink {
		t.Fatalf("expected link request, got %s", req.Kind)
	}
	if len(req.Links) != 2 {
		t.Fatalf("expected 2 links, got %d", len(req.Links))
	}
	if req.Links[0] != (LinkRef{GuildID: "1", ChannelID: "2", MessageID: "3", Raw: "https://discord.com/channels/1/2/3"}) {
		t.Fatalf("unexpected first link: %+v", req.Links[0])
	}
	if req.Links[1].ChannelID != "4" || req.Links[1].MessageID != "5" {
		t.Fatalf("unexpected second link: %+v", req.Links[1])
	}
}

func TestMatchInlineTakesPrecedence(t *testing.T) {
	t.Parallel()

	req := Match("> hello\nhttps://discord.com/channels/1/2/3")
	if req.Kind != RequestInline {
		t.Fatalf("expected inline precedence, got %s", req.Kind)
	}
	if len(req.Links) != 0 {
		t.Fatalf("inline request must not carry links: %+v", req.Links)
	}
}

func TestMatchPlain(t *testing.T) {
	t.Parallel()

	for _, text := range []string{"", "hello world", ">no space", ">   ", "https://discord.com/channels/1/2"} {
		if req := Match(text); !req.IsEmpty() {
			t.Fatalf("text %q: expected no request, got %s", text, req.Kind)
		}
	}
}
