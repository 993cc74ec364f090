package httpctrl

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Agrid-Dev/retrofitcalc/internal/envelope"
	"github.com/Agrid-Dev/retrofitcalc/internal/metrics"
	"github.com/Agrid-Dev/retrofitcalc/internal/ports"
	"github.com/Agrid-Dev/retrofitcalc/internal/scenario"
)

type Server struct {
	svc      ports.ScenarioService
	srv      *http.Server
	deviceID string
}

// New returns a runnable server.
func New(svc ports.ScenarioService, addr string, deviceID string) *Server {
	mux := http.NewServeMux()
	s := &Server{svc: svc, deviceID: deviceID}

	// Read
	s.handle(mux, "GET /v1", s.handleIndex)
	s.handle(mux, "GET /v1/scenarios", s.handleList)
	s.handle(mux, "GET /v1/scenarios/{id}", s.handleGet)

	// Write: one endpoint per variable
	s.handle(mux, "POST /v1/scenarios/{id}/internal_temperature", s.handlePostInternal)
	s.handle(mux, "POST /v1/scenarios/{id}/external_temperature", s.handlePostExternal)
	s.handle(mux, "POST /v1/scenarios/{id}/season", s.handlePostSeason)
	s.handle(mux, "POST /v1/scenarios/{id}/appliances/{appliance}/enabled", s.handlePostApplianceEnabled)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	s.srv = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// ---- Handlers ----

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"device_id": s.deviceID,
		"scenarios": s.svc.IDs(),
	})
}

func (s *Server) handleList(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.IDs())
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	s.respondReport(w, r.PathValue("id"))
}

func (s *Server) handlePostInternal(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	postValue(s, w, r, id, func(v float64) error {
		return s.svc.SetInternalTemperature(id, v)
	})
}

func (s *Server) handlePostExternal(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	postValue(s, w, r, id, func(v float64) error {
		return s.svc.SetExternalTemperature(id, v)
	})
}

func (s *Server) handlePostSeason(w http.ResponseWriter, r *http.Request) {
	// body: {"value": "winter"}
	id := r.PathValue("id")
	postValue(s, w, r, id, func(v string) error {
		season, err := scenario.ParseSeason(v)
		if err != nil {
			return err
		}
		return s.svc.SetSeason(id, season)
	})
}

func (s *Server) handlePostApplianceEnabled(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	appliance := r.PathValue("appliance")
	postValue(s, w, r, id, func(v bool) error {
		return s.svc.SetApplianceEnabled(id, appliance, v)
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	for _, id := range s.svc.IDs() {
		sum, err := s.svc.Report(id)
		if err != nil {
			metrics.Forget(id)
			continue
		}
		metrics.Observe(sum)
	}
	promhttp.Handler().ServeHTTP(w, r)
}

// ---- generic helpers ----

func (s *Server) handle(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		h(rec, r)
		metrics.RequestsTotal.WithLabelValues(pattern, strconv.Itoa(rec.code)).Inc()
	})
}

func (s *Server) respondReport(w http.ResponseWriter, id string) {
	sum, err := s.svc.Report(id)
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func postValue[T any](s *Server, w http.ResponseWriter, r *http.Request, id string, apply func(T) error) {
	dec := json.NewDecoder(r.Body)
	var req struct {
		Value *T `json:"value"`
	}
	if err := dec.Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Value == nil {
		writeErr(w, http.StatusBadRequest, "missing field 'value'")
		return
	}

	if err := apply(*req.Value); err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}

	s.respondReport(w, id)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, scenario.ErrUnknownScenario), errors.Is(err, scenario.ErrUnknownAppliance):
		return http.StatusNotFound
	case errors.Is(err, envelope.ErrDegenerateAssembly):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
