package oauthsync

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jrsteele09/go-questpath-client/internal/errors"
	"github.com/jrsteele09/go-questpath-client/model"
	"github.com/rs/zerolog/log"
)

const CallbackPath = "/callback"

type result struct {
	identity model.OAuthIdentity
	err      error
}

// Callback is a one-shot loopback server that receives the authorization
// redirect for a single Flow.
type Callback struct {
	google  *Google
	flow    Flow
	srv     *http.Server
	results chan result
}

// Listen starts the callback server on addr ("127.0.0.1:0" picks a port).
func (g *Google) Listen(addr string) (*Callback, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", addr, err)
	}
	cb := &Callback{
		google:  g.withRedirect("http://" + ln.Addr().String() + CallbackPath),
		flow:    NewFlow(),
		results: make(chan result, 1),
	}
	r := chi.NewRouter()
	r.Get(CallbackPath, cb.handle)
	r.Post(CallbackPath, cb.handle)
	cb.srv = &http.Server{Handler: r, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := cb.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Err(err).Msg("Sign-in callback server stopped")
		}
	}()
	return cb, nil
}

// URL is the page the user must open to sign in.
func (cb *Callback) URL() string {
	return cb.google.AuthCodeURL(cb.flow)
}

func (cb *Callback) handle(w http.ResponseWriter, r *http.Request) {
	state := r.FormValue("state")
	code := r.FormValue("code")
	errorParam := r.FormValue("error")

	if state != cb.flow.State {
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}
	if errorParam != "" {
		cb.deliver(result{err: fmt.Errorf("authorization failed: %s %s", errorParam, r.FormValue("error_description"))})
		http.Error(w, "Authorization failed: "+errorParam, http.StatusBadRequest)
		return
	}
	if code == "" {
		http.Error(w, "Missing code parameter", http.StatusBadRequest)
		return
	}

	identity, err := cb.google.Exchange(r.Context(), cb.flow, code)
	if err != nil {
		cb.deliver(result{err: err})
		http.Error(w, "Sign-in failed", http.StatusInternalServerError)
		return
	}
	cb.deliver(result{identity: identity})
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = fmt.Fprintln(w, "Signed in to QuestPath. You can close this window.")
}

func (cb *Callback) deliver(res result) {
	select {
	case cb.results <- res:
	default:
	}
}

// Wait blocks until the redirect arrives or ctx is done, then stops the server.
func (cb *Callback) Wait(ctx context.Context) (model.OAuthIdentity, error) {
	defer cb.Close()
	select {
	case res := <-cb.results:
		return res.identity, res.err
	case <-ctx.Done():
		return model.OAuthIdentity{}, errors.Wrapf(ctx.Err(), "waiting for sign-in")
	}
}

func (cb *Callback) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return cb.srv.Shutdown(ctx)
}
