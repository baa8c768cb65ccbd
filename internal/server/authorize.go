package server

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/amp/internal/shared"
)

//go:embed authorize.html
var authorizePage string

// AuthResult contains the result of a MusicKit authorization flow.
type AuthResult struct {
	Token string
	err   error
}

func (a *AuthResult) Error() error {
	return a.err
}

// AuthorizeHandler serves the MusicKit authorization page and captures the
// Music User Token the page posts back. Implements the Handler interface for
// registration with a Router.
type AuthorizeHandler struct {
	page       string
	resultChan chan AuthResult
	once       sync.Once
	received   bool
	mu         sync.Mutex
}

// NewAuthorizeHandler creates a handler whose page configures MusicKit JS
// with the given developer token.
func NewAuthorizeHandler(developerToken string) *AuthorizeHandler {
	return &AuthorizeHandler{
		page:       strings.ReplaceAll(authorizePage, "{{DEVELOPER_TOKEN}}", developerToken),
		resultChan: make(chan AuthResult, 1),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *AuthorizeHandler) Routes() []string {
	return []string{"/", "/save_token"}
}

// ServeHTTP serves the authorization page on GET / and accepts a single
// token submission on POST /save_token.
func (h *AuthorizeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/" && r.Method == http.MethodGet:
		h.servePage(w)
	case r.URL.Path == "/save_token" && r.Method == http.MethodPost:
		h.saveToken(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *AuthorizeHandler) servePage(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, h.page)
}

func (h *AuthorizeHandler) saveToken(w http.ResponseWriter, r *http.Request) {
	// Only accept one submission
	h.mu.Lock()
	if h.received {
		h.mu.Unlock()
		http.Error(w, "Token already received", http.StatusBadRequest)
		return
	}
	h.received = true
	h.mu.Unlock()

	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || strings.TrimSpace(body.Token) == "" {
		h.mu.Lock()
		h.received = false
		h.mu.Unlock()
		http.Error(w, "Missing token", http.StatusBadRequest)
		return
	}

	h.Send(AuthResult{Token: body.Token})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, `{"ok":true}`)
}

// Send delivers the authorization result through the channel (only once).
func (h *AuthorizeHandler) Send(result AuthResult) {
	h.once.Do(func() {
		h.resultChan <- result
		close(h.resultChan)
	})
}

// Result returns the result channel for receiving flow completion.
//
// The channel receives exactly one result and is then closed.
func (h *AuthorizeHandler) Result() <-chan AuthResult {
	return h.resultChan
}

// Authorize runs the browser authorization flow: it starts a local HTTP
// server, opens the page in the user's browser, and blocks until the page
// posts a Music User Token or ctx expires.
func Authorize(ctx context.Context, addr, developerToken string, logger *log.Logger) (string, error) {
	handler := NewAuthorizeHandler(developerToken)

	router := NewBasicRouter()
	router.Use(Logging(logger))
	router.Handler(handler)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("listen on %s: %w", addr, err)
	}

	srv := &http.Server{Handler: router}
	go func() {
		if serveErr := srv.Serve(listener); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			logger.Error("authorization server failed", "error", serveErr)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	url := fmt.Sprintf("http://%s", listener.Addr().String())
	logger.Info("waiting for authorization", "url", url)
	if err := shared.OpenBrowser(url); err != nil {
		logger.Warn("could not open browser, open the URL manually", "url", url, "error", err)
	}

	select {
	case result := <-handler.Result():
		if result.Error() != nil {
			return "", result.Error()
		}
		return result.Token, nil
	case <-ctx.Done():
		return "", fmt.Errorf("%w: authorization not completed", shared.ErrTimeout)
	}
}
