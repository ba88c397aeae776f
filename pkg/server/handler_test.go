package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ostinato-fm/ostinato/pkg/routetree"
	"github.com/ostinato-fm/ostinato/pkg/router"
)

func text(s string) routetree.Factory {
	return func(ctx context.Context) (routetree.Component, error) {
		return routetree.ComponentFunc(func(ctx context.Context, w io.Writer, view *routetree.View) error {
			_, err := io.WriteString(w, s)
			return err
		}), nil
	}
}

func newTestServer(t *testing.T, rt *router.Router) *Server {
	t.Helper()
	return New(DefaultConfig(), rt)
}

func testTable(t *testing.T) *router.Router {
	t.Helper()

	loader := func(ctx context.Context, params routetree.Params) (any, error) {
		return "recs:" + params.Get("userName"), nil
	}
	page := func(ctx context.Context) (routetree.Component, error) {
		return routetree.ComponentFunc(func(ctx context.Context, w io.Writer, view *routetree.View) error {
			fmt.Fprintf(w, "<main>%v</main>", view.Data)
			return nil
		}), nil
	}
	layout := func(ctx context.Context) (routetree.Component, error) {
		return routetree.ComponentFunc(func(ctx context.Context, w io.Writer, view *routetree.View) error {
			fmt.Fprintf(w, "<html>%s</html>", view.Child)
			return nil
		}), nil
	}

	rt := router.New()
	err := rt.Mount(
		routetree.Route("/recommendations/:userName/", layout,
			routetree.WithChildren(
				routetree.Index(page, routetree.WithLoader(loader)),
				routetree.Route("raw/", page, routetree.WithLoader(loader)),
			),
		),
	)
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	return rt
}

func TestPageHandlerServesRoutes(t *testing.T) {
	s := newTestServer(t, testTable(t))
	h := s.Handler()

	tests := []struct {
		name string
		path string
		want string
	}{
		{"index route", "/recommendations/rob", "<html><main>recs:rob</main></html>"},
		{"raw route", "/recommendations/rob/raw", "<html><main>recs:rob</main></html>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest("GET", tt.path, nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			if rec.Body.String() != tt.want {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.want)
			}
			if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
				t.Errorf("Content-Type = %q", ct)
			}
		})
	}
}

func TestPageHandlerRedirectsNonCanonical(t *testing.T) {
	s := newTestServer(t, testTable(t))
	h := s.Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/recommendations//rob/?page=2", nil))

	if rec.Code != http.StatusMovedPermanently {
		t.Fatalf("status = %d, want 301", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/recommendations/rob?page=2" {
		t.Errorf("Location = %q", loc)
	}
}

func TestPageHandlerNotFound(t *testing.T) {
	s := newTestServer(t, testTable(t))
	h := s.Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestPageHandlerCustomNotFound(t *testing.T) {
	rt := testTable(t)
	rt.SetNotFound(routetree.ComponentFunc(func(ctx context.Context, w io.Writer, view *routetree.View) error {
		_, err := io.WriteString(w, "<h1>lost?</h1>")
		return err
	}))
	s := newTestServer(t, rt)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if rec.Body.String() != "<h1>lost?</h1>" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestPageHandlerLoaderFailure(t *testing.T) {
	boom := errors.New("backend down")
	rt := router.New()
	err := rt.Mount(routetree.Route("/a/", text("a"),
		routetree.WithLoader(func(ctx context.Context, params routetree.Params) (any, error) {
			return nil, boom
		}),
	))
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	s := newTestServer(t, rt)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/a", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestPageHandlerErrorPage(t *testing.T) {
	rt := router.New()
	err := rt.Mount(routetree.Route("/a/", func(ctx context.Context) (routetree.Component, error) {
		return nil, errors.New("fetch failed")
	}))
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	rt.SetErrorPage(func(ctx router.Ctx, cause error) routetree.Component {
		return routetree.ComponentFunc(func(ctx context.Context, w io.Writer, view *routetree.View) error {
			_, err := io.WriteString(w, "<h1>something broke</h1>")
			return err
		})
	})
	s := newTestServer(t, rt)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/a", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if rec.Body.String() != "<h1>something broke</h1>" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestPageHandlerRejectsBadPaths(t *testing.T) {
	s := newTestServer(t, testTable(t))
	h := s.Handler()

	for _, path := range []string{"/a%00b", "/recommendations/a%2Fb"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", path, rec.Code)
		}
	}
}

func TestPageHandlerRunsMiddleware(t *testing.T) {
	rt := testTable(t)

	var order []string
	rt.Use(
		router.MiddlewareFunc(func(ctx router.Ctx, next func() error) error {
			order = append(order, "outer:"+ctx.Pattern())
			err := next()
			order = append(order, "outer done")
			return err
		}),
		router.MiddlewareFunc(func(ctx router.Ctx, next func() error) error {
			order = append(order, "inner")
			return next()
		}),
	)
	s := newTestServer(t, rt)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/recommendations/rob", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	want := []string{"outer:/recommendations/:userName/", "inner", "outer done"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, testTable(t))

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, testTable(t))

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}
