package httpapi

import (
	"net"
	"net/http"

	"github.com/authcore-dev/authcore"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	Username     string `json:"username"`
	RefreshToken string `json:"refreshToken"`
}

type revokeRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// NewHandler mounts the module's routes on a fresh mux. Verification and
// refresh routes are only registered when the module kind includes them,
// and the JWKS document only when [authcore.Config.JWKSRoute] is set.
func NewHandler(m *authcore.Module) http.Handler {
	s := &server{engine: m.Engine()}
	mux := http.NewServeMux()

	mux.HandleFunc("GET /authorize/available", s.available)
	mux.HandleFunc("POST /authorize/register", s.register)
	mux.HandleFunc("POST /authorize/login", s.login)

	if m.HasEmailVerification() {
		mux.HandleFunc("GET /authorize/verify", s.verify)
	}
	if m.HasRefreshTokens() {
		mux.HandleFunc("POST /authorize", s.authorize)
		mux.HandleFunc("POST /authorize/refresh", s.refresh)
		mux.HandleFunc("POST /authorize/revoke", s.revoke)
	}
	if keySet := m.KeySet(); keySet != nil {
		mux.Handle("GET /.well-known/jwks.json", keySet.Handler())
	}

	return withRequestInfo(mux)
}

type server struct {
	engine *authcore.Engine
}

func (s *server) available(w http.ResponseWriter, r *http.Request) {
	result, err := s.engine.UserAvailable(r.Context(), r.URL.Query().Get("username"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *server) register(w http.ResponseWriter, r *http.Request) {
	var input authcore.NewUser
	if err := decodeJSON(r, &input); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid request body"})
		return
	}
	user, err := s.engine.Register(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (s *server) login(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := decodeJSON(r, &creds); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid request body"})
		return
	}
	result, err := s.engine.Login(r.Context(), creds.Username, creds.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *server) verify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := s.engine.Verify(r.Context(), q.Get("email"), q.Get("token"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *server) authorize(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := decodeJSON(r, &creds); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid request body"})
		return
	}
	result, err := s.engine.Authorize(r.Context(), creds.Username, creds.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// refresh rejects an incomplete request with the same opaque 401 as a bad
// token, before the engine is consulted at all.
func (s *server) refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil || req.Username == "" || req.RefreshToken == "" {
		writeError(w, authcore.ErrUnauthorized)
		return
	}
	result, err := s.engine.RefreshAccessToken(r.Context(), req.Username, req.RefreshToken)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *server) revoke(w http.ResponseWriter, r *http.Request) {
	var req revokeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid request body"})
		return
	}
	result, err := s.engine.RevokeRefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// withRequestInfo attaches the client IP and user agent so audit events
// emitted deeper in the engine can carry them.
func withRequestInfo(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			ctx = authcore.WithClientIP(ctx, host)
		}
		ctx = authcore.WithUserAgent(ctx, r.UserAgent())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
