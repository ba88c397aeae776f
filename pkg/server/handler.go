package server

import (
	"bytes"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ostinato-fm/ostinato/pkg/middleware"
	"github.com/ostinato-fm/ostinato/pkg/routepath"
	"github.com/ostinato-fm/ostinato/pkg/routetree"
	"github.com/ostinato-fm/ostinato/pkg/router"
)

// pageHandler serves route-table pages: canonicalize, match, run the
// middleware chain, activate, render.
func (s *Server) pageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		canon, err := routepath.Canonicalize(r.URL.EscapedPath())
		if err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		if canon.Changed {
			target := canon.Path
			if r.URL.RawQuery != "" {
				target += "?" + r.URL.RawQuery
			}
			http.Redirect(w, r, target, http.StatusMovedPermanently)
			return
		}

		segments, err := routepath.DecodeSegments(canon.Path)
		if err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		path := "/" + strings.Join(segments, "/")

		match, ok := s.router.Match(path)
		if !ok {
			s.renderNotFound(w, r, path)
			return
		}

		ctx := newCtx(r, path, match.Pattern, match.Params,
			s.logger.With("route", match.Pattern))

		// The leaf's cache state before activation tells hit from miss.
		warm := match.Leaf.Lazy != nil && match.Leaf.Lazy.Resolved()

		var buf bytes.Buffer
		start := time.Now()

		invoke := func() error {
			act, err := s.router.Activate(r.Context(), match)
			if err != nil {
				return err
			}
			return act.Render(r.Context(), &buf)
		}

		chain := invoke
		mws := s.router.Middleware()
		for i := len(mws) - 1; i >= 0; i-- {
			mw, next := mws[i], chain
			chain = func() error { return mw.Handle(ctx, next) }
		}

		err = chain()
		elapsed := time.Since(start)

		if err != nil {
			s.recordFailure(match, err)
			s.bus.Publish(ActivityEvent{
				Time:     time.Now(),
				Type:     "error",
				Path:     path,
				Route:    match.Pattern,
				Status:   http.StatusInternalServerError,
				Duration: elapsed.Milliseconds(),
				Detail:   err.Error(),
			})
			s.renderError(w, ctx, err)
			return
		}

		outcome := "miss"
		if warm {
			outcome = "hit"
		}
		middleware.RecordResolution(match.Pattern, outcome)

		s.bus.Publish(ActivityEvent{
			Time:     time.Now(),
			Type:     "navigate",
			Path:     path,
			Route:    match.Pattern,
			Status:   http.StatusOK,
			Duration: elapsed.Milliseconds(),
		})

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		buf.WriteTo(w)
	}
}

func (s *Server) recordFailure(match *router.MatchResult, err error) {
	var le *router.LoaderError
	if errors.As(err, &le) {
		middleware.RecordLoaderError(le.Route)
		return
	}
	var re *router.ResolutionError
	if errors.As(err, &re) {
		middleware.RecordResolution(re.Route, "error")
	}
}

func (s *Server) renderNotFound(w http.ResponseWriter, r *http.Request, path string) {
	s.bus.Publish(ActivityEvent{
		Time:   time.Now(),
		Type:   "navigate",
		Path:   path,
		Status: http.StatusNotFound,
	})

	if nf := s.router.NotFound(); nf != nil {
		var buf bytes.Buffer
		if err := nf.Render(r.Context(), &buf, &routetree.View{}); err == nil {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusNotFound)
			buf.WriteTo(w)
			return
		}
	}
	http.NotFound(w, r)
}

func (s *Server) renderError(w http.ResponseWriter, ctx *Ctx, cause error) {
	ctx.Logger().Error("activation failed", "error", cause)

	if ep := s.router.ErrorPage(); ep != nil {
		if component := ep(ctx, cause); component != nil {
			var buf bytes.Buffer
			view := &routetree.View{Params: ctx.Params()}
			if err := component.Render(ctx.StdContext(), &buf, view); err == nil {
				w.Header().Set("Content-Type", "text/html; charset=utf-8")
				w.WriteHeader(http.StatusInternalServerError)
				buf.WriteTo(w)
				return
			}
		}
	}
	http.Error(w, "internal server error", http.StatusInternalServerError)
}
