package http

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/njprem/Voyara_APP_BackEnd/internal/domain"
	"github.com/njprem/Voyara_APP_BackEnd/internal/service"
	"github.com/njprem/Voyara_APP_BackEnd/internal/stream"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"home", "trips", "share", "profile", "login"}

var templateFuncs = template.FuncMap{
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
}

// Renderer holds one template set per page, each layered on the shared layout.
type Renderer struct {
	pages     map[string]*template.Template
	itinerary *template.Template
}

func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		tmpl, err := template.New(name).Funcs(templateFuncs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		r.pages[name] = tmpl
	}
	r.itinerary = r.pages["share"].Lookup("itinerary")
	return r, nil
}

func (r *Renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	return tmpl.ExecuteTemplate(w, "layout", data)
}

// RenderItinerary writes the day cards for itin without the page chrome.
func (r *Renderer) RenderItinerary(w io.Writer, itin domain.Itinerary) error {
	return r.itinerary.Execute(w, itin)
}

type page struct {
	Title    string
	SignedIn bool
	Error    string
	Data     any
}

type tripView struct {
	ID          uuid.UUID
	Destination string
	SavedOn     string
	DayLabel    string
	ShareURL    string
	Itinerary   domain.Itinerary
}

type providerView struct {
	ID    string
	Label string
}

type PageHandler struct {
	sessions    *service.SessionManager
	itineraries *service.ItineraryService
	profiles    *service.ProfileService
	auth        *service.AuthService
	siteURL     string
	log         zerolog.Logger
}

type PageDeps struct {
	Renderer    *Renderer
	Sessions    *service.SessionManager
	Itineraries *service.ItineraryService
	Profiles    *service.ProfileService
	Auth        *service.AuthService
	SiteURL     string
	Log         zerolog.Logger
}

func RegisterPages(e *echo.Echo, deps PageDeps) {
	e.Renderer = deps.Renderer
	h := &PageHandler{
		sessions:    deps.Sessions,
		itineraries: deps.Itineraries,
		profiles:    deps.Profiles,
		auth:        deps.Auth,
		siteURL:     strings.TrimRight(deps.SiteURL, "/"),
		log:         deps.Log,
	}
	e.GET("/", h.home)
	e.GET("/login", h.login)
	e.GET("/my-trips", h.myTrips)
	e.GET("/share/:id", h.share)
	e.GET("/profile", h.profile)
}

// identity resolves the viewer from request cookies only. Any refresh the
// session manager attempts is absorbed; the API group persists it later.
func (h *PageHandler) identity(c echo.Context) *service.Identity {
	identity, err := h.sessions.Resolve(c.Request().Context(), NewReadOnlyCookieJar(c.Request()))
	if err != nil {
		if !errors.Is(err, domain.ErrUnauthenticated) {
			h.log.Warn().Err(err).Msg("resolve session for page")
		}
		return nil
	}
	return identity
}

func (h *PageHandler) home(c echo.Context) error {
	return c.Render(http.StatusOK, "home", page{
		Title:    "Plan a trip",
		SignedIn: h.identity(c) != nil,
		Data: map[string]any{
			"Vibes":          domain.Vibes,
			"TransportModes": domain.TransportModes,
			"TravelPeriods":  domain.TravelPeriods,
			"MinDays":        domain.MinTripDays,
			"MaxDays":        domain.MaxTripDays,
			"DefaultDays":    domain.DefaultTripDays,
			"RetryMessage":   stream.RetryMessage,
		},
	})
}

func (h *PageHandler) login(c echo.Context) error {
	if h.identity(c) != nil {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	var providers []providerView
	for _, id := range h.auth.Providers() {
		providers = append(providers, providerView{ID: id, Label: providerLabel(id)})
	}
	view := page{Title: "Sign in", Data: map[string]any{"Providers": providers}}
	if c.QueryParam("error") != "" {
		view.Error = "Could not sign you in. Please try again."
	}
	return c.Render(http.StatusOK, "login", view)
}

func (h *PageHandler) myTrips(c echo.Context) error {
	identity := h.identity(c)
	if identity == nil {
		return c.Redirect(http.StatusSeeOther, "/login")
	}
	owner := identity.UserID
	view := page{Title: "My Trips", SignedIn: true}
	trips, err := h.itineraries.List(c.Request().Context(), &owner)
	if err != nil {
		h.log.Error().Err(err).Msg("list trips for page")
		view.Error = domain.MessageOf(err, "Could not load your trips.")
	}
	views := make([]tripView, 0, len(trips))
	for _, trip := range trips {
		views = append(views, h.tripView(trip))
	}
	view.Data = map[string]any{"Trips": views}
	return c.Render(http.StatusOK, "trips", view)
}

func (h *PageHandler) share(c echo.Context) error {
	view := page{Title: "Shared trip", SignedIn: h.identity(c) != nil, Data: map[string]any{"Trip": nil}}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.Render(http.StatusNotFound, "share", view)
	}
	trip, err := h.itineraries.Get(c.Request().Context(), id)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			h.log.Error().Err(err).Msg("load shared trip")
		}
		return c.Render(http.StatusNotFound, "share", view)
	}
	tv := h.tripView(*trip)
	view.Title = "Trip to " + trip.Destination
	view.Data = map[string]any{"Trip": &tv}
	return c.Render(http.StatusOK, "share", view)
}

func (h *PageHandler) profile(c echo.Context) error {
	identity := h.identity(c)
	if identity == nil {
		return c.Redirect(http.StatusSeeOther, "/login")
	}
	owner := identity.UserID
	view := page{Title: "Profile", SignedIn: true}
	profile, err := h.profiles.GetProfile(c.Request().Context(), &owner)
	if err != nil {
		h.log.Error().Err(err).Msg("load profile for page")
		view.Error = domain.MessageOf(err, "Could not load your profile.")
		profile = &domain.Profile{ID: owner}
	}
	view.Data = map[string]any{"Profile": profile}
	return c.Render(http.StatusOK, "profile", view)
}

func (h *PageHandler) tripView(trip domain.SavedTrip) tripView {
	itin := trip.Itinerary()
	return tripView{
		ID:          trip.ID,
		Destination: trip.Destination,
		SavedOn:     trip.CreatedAt.Format("Jan 2, 2006"),
		DayLabel:    dayCountLabel(len(itin.Days)),
		ShareURL:    shareURL(h.siteURL, trip.ID),
		Itinerary:   itin,
	}
}

// dayCountLabel is the "N Day(s)" summary; empty when there are no days.
func dayCountLabel(n int) string {
	switch {
	case n <= 0:
		return ""
	case n == 1:
		return "1 Day"
	default:
		return fmt.Sprintf("%d Days", n)
	}
}

func providerLabel(id string) string {
	switch id {
	case domain.ProviderGoogle:
		return "Google"
	case domain.ProviderGitHub:
		return "GitHub"
	default:
		return id
	}
}
