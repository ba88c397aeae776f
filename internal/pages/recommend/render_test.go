package recommend

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/ostinato-fm/ostinato/pkg/router"
)

func renderPath(t *testing.T, rt *router.Router, path string) string {
	t.Helper()
	m, ok := rt.Match(path)
	if !ok {
		t.Fatalf("no match for %s", path)
	}
	act, err := rt.Activate(context.Background(), m)
	if err != nil {
		t.Fatalf("activate %s: %v", path, err)
	}
	var buf bytes.Buffer
	if err := act.Render(context.Background(), &buf); err != nil {
		t.Fatalf("render %s: %v", path, err)
	}
	return buf.String()
}

func TestRenderRecommendationPages(t *testing.T) {
	srv := fakeAPI(t, map[string]*Recommendations{
		"rob": {
			UserName: "rob",
			Tracks: []Track{
				{ArtistName: "Portishead", TrackName: "Roads", RecordingMBID: "a0c4-1", Score: 0.9731},
				{ArtistName: "Björk", TrackName: "Hyperballad", RecordingMBID: "a0c4-2", Score: 0.9412},
			},
		},
	})

	pages := New(NewClient(srv.URL, srv.Client()))
	routes := pages.Routes()

	rt := router.New()
	if err := rt.Mount(routes...); err != nil {
		t.Fatalf("mount failed: %v", err)
	}

	t.Run("index lists tracks inside the layout", func(t *testing.T) {
		html := renderPath(t, rt, "/recommendations/rob")
		for _, want := range []string{
			"<h1>Recommendations for rob</h1>",
			"2 tracks picked for rob",
			"Roads",
			"Hyperballad",
		} {
			if !strings.Contains(html, want) {
				t.Errorf("index page missing %q\n%s", want, html)
			}
		}
	})

	t.Run("raw view tables scores inside the layout", func(t *testing.T) {
		html := renderPath(t, rt, "/recommendations/rob/raw")
		for _, want := range []string{
			"<h1>Recommendations for rob</h1>",
			"<td>a0c4-1</td>",
			"0.9731",
		} {
			if !strings.Contains(html, want) {
				t.Errorf("raw page missing %q\n%s", want, html)
			}
		}
	})

	t.Run("components resolve only once activated", func(t *testing.T) {
		if !routes[0].Lazy.Resolved() {
			t.Error("layout should be resolved after serving its pages")
		}
		if !routes[0].Children[0].Lazy.Resolved() {
			t.Error("index page should be resolved after rendering")
		}
	})
}

func TestParentAloneDoesNotMatchWithoutIndex(t *testing.T) {
	srv := fakeAPI(t, nil)
	rt := router.New()
	if err := rt.Mount(New(NewClient(srv.URL, srv.Client())).Routes()...); err != nil {
		t.Fatalf("mount failed: %v", err)
	}
	if _, ok := rt.Match("/recommendations"); ok {
		t.Error("/recommendations should not match without a user segment")
	}
}
