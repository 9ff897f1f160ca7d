package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/njprem/Voyara_APP_BackEnd/internal/domain"
	"github.com/njprem/Voyara_APP_BackEnd/internal/export"
	"github.com/njprem/Voyara_APP_BackEnd/internal/metrics"
	"github.com/njprem/Voyara_APP_BackEnd/internal/service"
	"github.com/njprem/Voyara_APP_BackEnd/internal/util"
)

type ItineraryHandler struct {
	itineraries *service.ItineraryService
	siteURL     string
	log         zerolog.Logger
}

type SavedTripResponse struct {
	ID            uuid.UUID       `json:"id"`
	UserID        uuid.UUID       `json:"user_id"`
	Destination   string          `json:"destination"`
	ItineraryData domain.Document `json:"itinerary_data"`
	CreatedAt     string          `json:"created_at"`
	DayCount      int             `json:"day_count"`
	ShareURL      string          `json:"share_url"`
}

type saveItineraryRequest struct {
	Destination   string          `json:"destination"`
	ItineraryData json.RawMessage `json:"itinerary_data"`
}

func RegisterItineraries(e *echo.Echo, itineraries *service.ItineraryService, sessions *service.SessionManager, siteURL string, log zerolog.Logger) {
	handler := &ItineraryHandler{itineraries: itineraries, siteURL: strings.TrimRight(siteURL, "/"), log: log}

	group := e.Group("/api/itineraries", LoadSession(sessions, log))
	// Save answers 401 itself so the body matches the documented message.
	group.POST("/save", handler.save)
	group.GET("", handler.list, RequireSession())
	group.GET("/:id", handler.get)
	group.GET("/:id/export.txt", handler.exportText)
	group.GET("/:id/export.ics", handler.exportCalendar)
}

func (h *ItineraryHandler) save(c echo.Context) error {
	owner := ownerID(c)
	if owner == nil {
		return writeError(c, h.log, service.ErrSaveUnauthenticated)
	}

	var req saveItineraryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	trip, err := h.itineraries.Save(c.Request().Context(), owner, req.Destination, domain.Document(req.ItineraryData))
	if err != nil {
		return writeError(c, h.log, err)
	}
	metrics.ObserveItinerarySaved()
	return c.JSON(http.StatusOK, util.Success(h.toResponse(*trip)))
}

func (h *ItineraryHandler) list(c echo.Context) error {
	trips, err := h.itineraries.List(c.Request().Context(), ownerID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	items := make([]SavedTripResponse, 0, len(trips))
	for _, trip := range trips {
		items = append(items, h.toResponse(trip))
	}
	return c.JSON(http.StatusOK, util.Data("itineraries", items))
}

func (h *ItineraryHandler) get(c echo.Context) error {
	trip, err := h.loadTrip(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, util.Data("itinerary", h.toResponse(*trip)))
}

func (h *ItineraryHandler) exportText(c echo.Context) error {
	trip, err := h.loadTrip(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, attachment(trip, "txt"))
	return c.String(http.StatusOK, export.PlainText(trip.Itinerary()))
}

func (h *ItineraryHandler) exportCalendar(c echo.Context) error {
	trip, err := h.loadTrip(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	start := time.Now().UTC()
	if raw := strings.TrimSpace(c.QueryParam("start")); raw != "" {
		parsed, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, util.Error("start must be a date formatted YYYY-MM-DD"))
		}
		start = parsed
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, attachment(trip, "ics"))
	return c.Blob(http.StatusOK, "text/calendar; charset=utf-8", []byte(export.Calendar(*trip, start)))
}

func (h *ItineraryHandler) loadTrip(c echo.Context) (*domain.SavedTrip, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		return nil, service.ErrItineraryNotFound
	}
	return h.itineraries.Get(c.Request().Context(), id)
}

func (h *ItineraryHandler) toResponse(trip domain.SavedTrip) SavedTripResponse {
	return SavedTripResponse{
		ID:            trip.ID,
		UserID:        trip.UserID,
		Destination:   trip.Destination,
		ItineraryData: trip.ItineraryData,
		CreatedAt:     trip.CreatedAt.UTC().Format(time.RFC3339),
		DayCount:      trip.DayCount(),
		ShareURL:      shareURL(h.siteURL, trip.ID),
	}
}

func shareURL(siteURL string, id uuid.UUID) string {
	return fmt.Sprintf("%s/share/%s", strings.TrimRight(siteURL, "/"), id)
}

func attachment(trip *domain.SavedTrip, ext string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			return r
		case r == ' ':
			return '-'
		default:
			return -1
		}
	}, trip.Destination)
	if name == "" {
		name = "itinerary"
	}
	return fmt.Sprintf(`attachment; filename="voyara-%s.%s"`, strings.ToLower(name), ext)
}
