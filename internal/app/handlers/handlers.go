package handlers

import (
	_ "embed"
	"html/template"
	"net/http"
	"strings"

	"github.com/ekuznetsova/golinks/internal/app/auth"
	"github.com/ekuznetsova/golinks/internal/app/configs"
	"github.com/ekuznetsova/golinks/internal/app/middlewares"
	"github.com/ekuznetsova/golinks/internal/app/storage"
)

type Handlers struct {
	config configs.Config
	store  storage.Storage
}

func NewHandlers(
	config configs.Config,
	store storage.Storage) Handlers {

	return Handlers{
		config: config,
		store:  store,
	}
}

// NotFound keeps the plain-text body consistent across unmatched routes and
// redirect misses
func (h Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "Not found", http.StatusNotFound)
}

// MethodNotAllowed answers method mismatches. On protected paths the
// identity check still comes first: an unauthenticated caller learns
// nothing beyond the 401.
func (h Handlers) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	if h.config.MultiUser && isProtectedPath(r.URL.Path) {
		if _, ok := h.identity(r); !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
	}
	w.WriteHeader(http.StatusMethodNotAllowed)
}

// isProtectedPath classifies the admin space: the empty path, anything under
// admin, and the api routes. Everything else is public redirect territory.
func isProtectedPath(path string) bool {
	path = strings.TrimPrefix(path, "/")
	return path == "" || strings.HasPrefix(path, "admin") || strings.HasPrefix(path, "api/")
}

//go:embed admin.gohtml
var adminHTML string

var adminTemplate = template.Must(template.New("admin").Parse(adminHTML))

type adminPageData struct {
	UserEmail string
	MultiUser bool
}

// AdminPage renders the embedded admin page. In multi-user mode the caller's
// email comes from the authenticate middleware.
func (h Handlers) AdminPage(w http.ResponseWriter, r *http.Request) {
	owner, _ := middlewares.OwnerFromContext(r.Context())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := adminTemplate.Execute(w, adminPageData{
		UserEmail: owner,
		MultiUser: h.config.MultiUser,
	})
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// identity resolves the caller outside the authenticate middleware. The
// public redirect route needs it for paths in the reserved admin space.
func (h Handlers) identity(r *http.Request) (string, bool) {
	return auth.Identity(r.Header.Get(h.config.IdentityHeader))
}
