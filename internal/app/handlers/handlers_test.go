package handlers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"

	"github.com/ekuznetsova/golinks/internal/app/auth"
	"github.com/ekuznetsova/golinks/internal/app/configs"
	"github.com/ekuznetsova/golinks/internal/app/handlers"
	"github.com/ekuznetsova/golinks/internal/app/middlewares"
	"github.com/ekuznetsova/golinks/internal/app/models"
	"github.com/ekuznetsova/golinks/internal/app/services"
	"github.com/ekuznetsova/golinks/internal/app/storage"
)

func linkFixture(code, destination, owner string) models.Link {
	return models.Link{Code: code, Destination: destination, OwnerEmail: owner}
}

type want struct {
	response    string
	contentType string
	code        int
}

var singleUserConfig = configs.Config{
	ServerAddress:  "localhost:8080",
	IdentityHeader: configs.DefaultIdentityHeader,
}

var multiUserConfig = configs.Config{
	ServerAddress:  "localhost:8080",
	IdentityHeader: configs.DefaultIdentityHeader,
	MultiUser:      true,
}

// newTestServer assembles the same router the binary serves
func newTestServer(t *testing.T, config configs.Config, store storage.Storage) *httptest.Server {
	h := handlers.NewHandlers(config, store)
	linkCreator := services.NewLinkCreator(store, config.MultiUser)
	linkImporter := services.NewLinkImporter(store)

	router := chi.NewRouter()
	router.Use(
		middlewares.ResponseLogger,
		middlewares.RequestLogger,
		middlewares.GzipCompress,
		middleware.AllowContentEncoding("gzip"),
	)
	router.NotFound(h.NotFound)
	router.MethodNotAllowed(h.MethodNotAllowed)

	if config.MultiUser {
		authenticate := middlewares.Authenticate(config.IdentityHeader)
		router.Group(func(router chi.Router) {
			router.Use(authenticate)
			router.HandleFunc("/", h.NotFound)
			router.Get("/admin", h.AdminPage)
			router.HandleFunc("/admin/*", h.NotFound)
		})
		router.Route("/api", func(router chi.Router) {
			router.Use(authenticate)
			router.Get("/links", h.ListLinks)
			router.Post("/links", h.CreateLink(linkCreator))
			router.Delete("/links/*", h.DeleteLink)
			router.Get("/export", h.ExportLinks)
			router.Post("/import", h.ImportLinks(linkImporter))
		})
	} else {
		router.Get("/admin", h.AdminPage)
		router.Route("/api", func(router chi.Router) {
			router.Get("/links", h.ListLinks)
			router.Post("/links", h.CreateLink(linkCreator))
			router.Delete("/links/*", h.DeleteLink)
		})
	}
	router.Get("/*", h.Redirect)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return server
}

// identityToken builds the compact JWT the access proxy would forward. The
// signing key is irrelevant: the resolver never checks it.
func identityToken(t require.TestingT, email string) string {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{Email: email}).
		SignedString([]byte("test"))
	require.NoError(t, err)

	return token
}

func toJSON(t require.TestingT, v interface{}) string {
	result, err := json.Marshal(v)
	require.NoError(t, err)

	return string(result)
}

func doRequest(t require.TestingT, request *http.Request) (*http.Response, string) {
	request.Header.Set("Accept-Encoding", "identity")

	transport := http.Transport{}
	response, err := transport.RoundTrip(request)
	require.NoError(t, err)
	resBody := readBody(t, response)

	return response, resBody
}

func readBody(t require.TestingT, response *http.Response) string {
	resBody, err := io.ReadAll(response.Body)
	require.NoError(t, err)
	require.NoError(t, response.Body.Close())

	return string(resBody)
}
