package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"diet-dashboard/models"
	"diet-dashboard/render"
	"diet-dashboard/services"
	"diet-dashboard/storage"
	"diet-dashboard/utils"
)

// DatasetLoader hands out the memoized dataset.
type DatasetLoader interface {
	Load(ctx context.Context) (*models.Dataset, error)
}

// Handler serves the dashboard. It only translates between HTTP and the
// render pipeline.
type Handler struct {
	loader  DatasetLoader
	logger  *utils.Logger
	metrics *Metrics
	csv     storage.ViewWriter
	xlsx    storage.ViewWriter
}

// NewHandler creates a Handler.
func NewHandler(loader DatasetLoader, logger *utils.Logger, metrics *Metrics) *Handler {
	return &Handler{
		loader:  loader,
		logger:  logger.With("web"),
		metrics: metrics,
		csv:     storage.NewCSVWriter(),
		xlsx:    storage.NewXLSXWriter(),
	}
}

// NewRouter mounts every dashboard route. /metrics serves gatherer.
func NewRouter(h *Handler, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.instrument)

	r.Get("/", h.handlePage)
	r.Get("/api/view", h.handleView)
	r.Get("/api/countries", h.handleCountries)
	r.Get(services.DownloadCSVPath, h.handleDownload(h.csv, "csv"))
	r.Get(services.DownloadXLSXPath, h.handleDownload(h.xlsx, "xlsx"))
	r.Get("/charts/{name}.svg", h.handleChart)
	r.Get("/healthz", h.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return r
}

func (h *Handler) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		h.metrics.Requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	})
}

// dataset loads the dataset or answers 503.
func (h *Handler) dataset(w http.ResponseWriter, r *http.Request) (*models.Dataset, bool) {
	ds, err := h.loader.Load(r.Context())
	if err != nil {
		h.metrics.LoadFailures.Inc()
		h.logger.Error("[%s] %v", middleware.GetReqID(r.Context()), err)
		http.Error(w, "data unavailable: the dataset could not be loaded", http.StatusServiceUnavailable)
		return nil, false
	}
	return ds, true
}

// view runs one render pass for the request's selection.
func (h *Handler) view(w http.ResponseWriter, r *http.Request) (*models.ViewModel, bool) {
	ds, ok := h.dataset(w, r)
	if !ok {
		return nil, false
	}
	sel, err := ParseSelection(ds, r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}

	start := time.Now()
	vm := services.Render(ds, sel)
	h.metrics.ObserveRender(start, vm.Rows.Len())
	h.logger.Debug("[%s] render %s: %d rows", middleware.GetReqID(r.Context()), vm.RenderID, vm.Rows.Len())
	return vm, true
}

func (h *Handler) handlePage(w http.ResponseWriter, r *http.Request) {
	vm, ok := h.view(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, newPageData(vm)); err != nil {
		h.logger.Error("page %s: %v", vm.RenderID, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (h *Handler) handleView(w http.ResponseWriter, r *http.Request) {
	vm, ok := h.view(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, vm)
}

func (h *Handler) handleCountries(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.dataset(w, r)
	if !ok {
		return
	}
	regions := listParam(r.URL.Query(), keyRegion, ds.Regions)
	writeJSON(w, http.StatusOK, map[string][]string{
		"countries": services.CountryOptions(ds, regions),
	})
}

func (h *Handler) handleDownload(vw storage.ViewWriter, format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vm, ok := h.view(w, r)
		if !ok {
			return
		}
		var buf bytes.Buffer
		if err := vw.Write(&buf, vm.Rows); err != nil {
			h.logger.Error("download %s: %v", format, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		h.metrics.Downloads.WithLabelValues(format).Inc()
		w.Header().Set("Content-Type", vw.MimeType())
		w.Header().Set("Content-Disposition", `attachment; filename="`+vw.Filename()+`"`)
		_, _ = buf.WriteTo(w)
	}
}

func (h *Handler) handleChart(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	vm, ok := h.view(w, r)
	if !ok {
		return
	}
	c, found := vm.Chart(name)
	if !found {
		http.NotFound(w, r)
		return
	}

	var buf bytes.Buffer
	if err := render.SVG(&buf, c); err != nil {
		h.logger.Error("chart %s: %v", name, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.metrics.ChartRenders.WithLabelValues(name).Inc()
	w.Header().Set("Content-Type", render.MimeType)
	_, _ = buf.WriteTo(w)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "loaded"
	if _, err := h.loader.Load(r.Context()); err != nil {
		status = "unavailable"
		if !errors.Is(err, services.ErrDataUnavailable) {
			status = "error"
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "dataset": status})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
