package router

import (
	"context"
	"io"
	"testing"

	"github.com/ostinato-fm/ostinato/pkg/routetree"
)

func textComponent(text string) routetree.Factory {
	return func(ctx context.Context) (routetree.Component, error) {
		return routetree.ComponentFunc(func(ctx context.Context, w io.Writer, view *routetree.View) error {
			_, err := io.WriteString(w, text)
			return err
		}), nil
	}
}

func mustMount(t *testing.T, nodes ...*routetree.Node) *Router {
	t.Helper()
	r := New()
	if err := r.Mount(nodes...); err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	return r
}

func TestMatchStaticAndParam(t *testing.T) {
	r := mustMount(t,
		routetree.Route("/recommendations/:userName/", textComponent("layout"),
			routetree.WithChildren(
				routetree.Index(textComponent("index")),
				routetree.Route("raw/", textComponent("raw")),
			),
		),
	)

	tests := []struct {
		name    string
		path    string
		pattern string
		user    string
		index   bool
	}{
		{"index via parent path", "/recommendations/rob", "/recommendations/:userName/", "rob", true},
		{"raw child", "/recommendations/rob/raw", "/recommendations/:userName/raw/", "rob", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := r.Match(tt.path)
			if !ok {
				t.Fatalf("no match for %s", tt.path)
			}
			if m.Pattern != tt.pattern {
				t.Errorf("Pattern = %q, want %q", m.Pattern, tt.pattern)
			}
			if m.Params["userName"] != tt.user {
				t.Errorf("params[userName] = %q, want %q", m.Params["userName"], tt.user)
			}
			if m.Leaf.Index != tt.index {
				t.Errorf("Leaf.Index = %v, want %v", m.Leaf.Index, tt.index)
			}
			if len(m.Layouts) != 1 {
				t.Errorf("len(Layouts) = %d, want 1", len(m.Layouts))
			}
		})
	}
}

func TestMatchNoIndexFallsThrough(t *testing.T) {
	r := mustMount(t,
		routetree.Route("/settings/", textComponent("layout"),
			routetree.WithChildren(
				routetree.Route("profile/", textComponent("profile")),
			),
		),
	)

	if _, ok := r.Match("/settings"); ok {
		t.Error("parent without index child should not match on its own path")
	}
	if _, ok := r.Match("/settings/profile"); !ok {
		t.Error("child path should match")
	}
}

func TestMatchStaticWinsOverParam(t *testing.T) {
	r := mustMount(t,
		routetree.Route("/user/me/", textComponent("me")),
		routetree.Route("/user/:name/", textComponent("profile")),
	)

	m, ok := r.Match("/user/me")
	if !ok {
		t.Fatal("expected match")
	}
	if m.Pattern != "/user/me/" {
		t.Errorf("Pattern = %q, want static route", m.Pattern)
	}
	if _, ok := m.Params["name"]; ok {
		t.Error("static match must not leak a backtracked param")
	}
}

func TestMatchNoMatch(t *testing.T) {
	r := mustMount(t, routetree.Route("/a/", textComponent("a")))

	for _, path := range []string{"/b", "/a/b", "/"} {
		if _, ok := r.Match(path); ok {
			t.Errorf("unexpected match for %s", path)
		}
	}
}

func TestMountRejectsInvalidTable(t *testing.T) {
	r := New()
	err := r.Mount(
		routetree.Route("/a/", textComponent("a"), routetree.WithChildren(
			routetree.Index(textComponent("one")),
			routetree.Index(textComponent("two")),
		)),
	)
	if err == nil {
		t.Fatal("Mount() = nil, want validation error")
	}
}

func TestRoutesListing(t *testing.T) {
	r := mustMount(t,
		routetree.Route("/recommendations/:userName/", textComponent("layout"),
			routetree.WithChildren(
				routetree.Index(textComponent("index")),
				routetree.Route("raw/", textComponent("raw")),
			),
		),
	)

	infos := r.Routes()
	if len(infos) != 3 {
		t.Fatalf("len(Routes()) = %d, want 3", len(infos))
	}
	for _, info := range infos {
		if info.Resolved {
			t.Errorf("%s resolved before any activation", info.Pattern)
		}
	}
}

func TestParseParams(t *testing.T) {
	type target struct {
		UserName string `param:"userName"`
		Count    int    `param:"count"`
		Debug    bool   `param:"debug"`
		Skipped  string
	}

	var got target
	err := ParseParams(routetree.Params{
		"userName": "rob",
		"count":    "25",
		"debug":    "true",
	}, &got)
	if err != nil {
		t.Fatalf("ParseParams() error = %v", err)
	}
	if got.UserName != "rob" || got.Count != 25 || !got.Debug {
		t.Errorf("got %+v", got)
	}
	if got.Skipped != "" {
		t.Errorf("untagged field touched: %q", got.Skipped)
	}
}

func TestParseParamsErrors(t *testing.T) {
	type target struct {
		Count int `param:"count"`
	}

	var got target
	if err := ParseParams(routetree.Params{"count": "nope"}, &got); err == nil {
		t.Error("expected error for non-integer value")
	}
	if err := ParseParams(routetree.Params{}, target{}); err == nil {
		t.Error("expected error for non-pointer target")
	}
}
