package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/idilsaglam/grocery/internal/model"
)

var handledTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "grocery_devserver_requests_total",
	Help: "Requests handled by the development backend by method and status code",
}, []string{"method", "code"})

type server struct {
	repo Repository
	log  *slog.Logger
}

// Handler serves the items collection under prefix (for example "/items")
// plus /metrics.
func Handler(repo Repository, prefix string, log *slog.Logger) http.Handler {
	if log == nil {
		log = slog.Default()
	}
	prefix = "/" + strings.Trim(prefix, "/")
	s := &server{repo: repo, log: log}

	r := mux.NewRouter()
	r.Use(func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			m := httpsnoop.CaptureMetrics(handler, writer, request)
			handledTotal.WithLabelValues(request.Method, strconv.Itoa(m.Code)).Inc()
			log.Info("handled", "method", request.Method, "url", request.URL, "duration", m.Duration, "status", m.Code)
		})
	})

	r.Methods(http.MethodGet).Path(prefix).HandlerFunc(s.list)
	r.Methods(http.MethodPost).Path(prefix).HandlerFunc(s.create)
	r.Methods(http.MethodPatch).Path(prefix + "/{id:[0-9]+}").HandlerFunc(s.patch)
	r.Methods(http.MethodDelete).Path(prefix + "/{id:[0-9]+}").HandlerFunc(s.delete)
	r.Methods(http.MethodGet).Path("/metrics").Handler(promhttp.Handler())
	return r
}

func (s *server) list(w http.ResponseWriter, r *http.Request) {
	items, err := s.repo.List(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *server) create(w http.ResponseWriter, r *http.Request) {
	var it model.Item
	if err := json.NewDecoder(r.Body).Decode(&it); err != nil {
		writeJSON(w, http.StatusBadRequest, errBody("invalid json: "+err.Error()))
		return
	}
	if it.ID <= 0 || strings.TrimSpace(it.Label) == "" {
		writeJSON(w, http.StatusBadRequest, errBody("id must be positive and item non-empty"))
		return
	}
	if err := s.repo.Create(r.Context(), it); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, it)
}

type patchBody struct {
	Checked *bool `json:"checked"`
}

func (s *server) patch(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	var body patchBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errBody("invalid json: "+err.Error()))
		return
	}
	if body.Checked == nil {
		writeJSON(w, http.StatusBadRequest, errBody("checked is required"))
		return
	}
	it, err := s.repo.SetChecked(r.Context(), id, *body.Checked)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (s *server) delete(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	if err := s.repo.Delete(r.Context(), id); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

func (s *server) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, errBody(err.Error()))
	case errors.Is(err, ErrConflict):
		writeJSON(w, http.StatusConflict, errBody(err.Error()))
	default:
		s.log.Error("repository failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, errBody("internal error"))
	}
}

func errBody(msg string) map[string]string { return map[string]string{"error": msg} }

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// Run serves h on addr until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, addr string, h http.Handler, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}
	httpServer := &http.Server{Addr: addr, Handler: h, ReadHeaderTimeout: 10 * time.Second}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
