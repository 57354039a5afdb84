package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cast"

	"github.com/kalongo/booking-pricing/internal/service"
	"github.com/kalongo/booking-pricing/internal/storage"
)

// Pricer is the part of the pricing service the booking page talks to.
type Pricer interface {
	Quote(ctx context.Context, req service.QuoteReq) service.CostBreakdown
	Rates(ctx context.Context) service.RatesView
	RoomPrices(ctx context.Context, room service.RoomType) service.RoomPrices
	Status() storage.CacheStatus
}

type Handler struct {
	pricer  Pricer
	timeout time.Duration
}

func NewHandler(pricer Pricer, timeout time.Duration) *Handler {
	return &Handler{pricer: pricer, timeout: timeout}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if h.timeout > 0 {
		r.Use(middleware.Timeout(h.timeout))
	}

	r.Get("/healthz", h.HandleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/quote", h.HandleQuote)
		r.Get("/rates", h.HandleRates)
		r.Get("/rooms/{roomType}", h.HandleRoomPrices)
	})
	return r
}

// HandleQuote answers GET /api/quote with the cost summary for the booking form.
// Query parameters mirror the form fields:
//   - room_type: A-Cabin, Cottage, Family House, Kikota, Tent
//   - check_in, check_out: YYYY-MM-DD
//   - adults, children: guest counts, unreadable values count as 0
//   - currency: display currency, TZS when empty
func (h *Handler) HandleQuote(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := service.QuoteReq{
		RoomType: q.Get("room_type"),
		CheckIn:  q.Get("check_in"),
		CheckOut: q.Get("check_out"),
		Adults:   cast.ToInt(q.Get("adults")),
		Children: cast.ToInt(q.Get("children")),
		Currency: q.Get("currency"),
	}
	writeJSON(w, http.StatusOK, h.pricer.Quote(r.Context(), req))
}

func (h *Handler) HandleRates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.pricer.Rates(r.Context()))
}

func (h *Handler) HandleRoomPrices(w http.ResponseWriter, r *http.Request) {
	room := service.ParseRoomType(chi.URLParam(r, "roomType"))
	if room == service.RoomNone {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown room type"})
		return
	}
	writeJSON(w, http.StatusOK, h.pricer.RoomPrices(r.Context(), room))
}

func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"cache":  h.pricer.Status(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
