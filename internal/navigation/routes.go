// Package navigation names the portal's views. Routes carry no parameters;
// anything a view needs from the previous one travels through session state.
package navigation

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"yojanamitra/internal/i18n"
	"yojanamitra/pkg/platform/httputil"
)

// Route is a named view.
type Route string

const (
	RouteHome         Route = "home"
	RouteProfile      Route = "profile"
	RouteSchemes      Route = "schemes"
	RouteApplications Route = "applications"
	RouteSettings     Route = "settings"
)

var paths = map[Route]string{
	RouteHome:         "/",
	RouteProfile:      "/profile",
	RouteSchemes:      "/schemes",
	RouteApplications: "/applications",
	RouteSettings:     "/settings",
}

// All returns every route in menu order.
func All() []Route {
	return []Route{RouteHome, RouteProfile, RouteSchemes, RouteApplications, RouteSettings}
}

// Path returns the view's path, or "" for an unknown route.
func (r Route) Path() string {
	return paths[r]
}

// Valid reports whether r names a known view.
func (r Route) Valid() bool {
	_, ok := paths[r]
	return ok
}

// Resolve maps a path back to its route.
func Resolve(path string) (Route, bool) {
	for r, p := range paths {
		if p == path {
			return r, true
		}
	}
	return "", false
}

// MenuItem is one entry of the navigation menu.
type MenuItem struct {
	Route Route  `json:"route"`
	Path  string `json:"path"`
	Label string `json:"label"`
}

// Menu returns the labelled menu in lang.
func Menu(lang string) []MenuItem {
	items := make([]MenuItem, 0, len(paths))
	for _, r := range All() {
		items = append(items, MenuItem{Route: r, Path: r.Path(), Label: i18n.Label(i18n.VocabRoute, string(r), lang)})
	}
	return items
}

// LanguageResolver returns the display language for the current session.
type LanguageResolver func(ctx context.Context) string

// Handler serves the menu and the static label vocabularies.
type Handler struct {
	language LanguageResolver
	logger   *slog.Logger
}

func NewHandler(language LanguageResolver, logger *slog.Logger) *Handler {
	if language == nil {
		language = func(context.Context) string { return i18n.Fallback }
	}
	return &Handler{language: language, logger: logger}
}

// Register mounts navigation endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/routes", h.HandleMenu)
	r.Get("/labels", h.HandleLabels)
}

func (h *Handler) lang(r *http.Request) string {
	if lang := r.URL.Query().Get("lang"); lang != "" {
		return lang
	}
	return h.language(r.Context())
}

// HandleMenu handles GET /routes.
func (h *Handler) HandleMenu(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"routes": Menu(h.lang(r))})
}

// HandleLabels handles GET /labels.
func (h *Handler) HandleLabels(w http.ResponseWriter, r *http.Request) {
	lang := h.lang(r)
	out := make(map[i18n.Vocabulary][]i18n.Option, len(i18n.Vocabularies()))
	for _, v := range i18n.Vocabularies() {
		out[v] = i18n.Options(v, lang)
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"language": lang, "vocabularies": out})
}
