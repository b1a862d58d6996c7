package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	appAuth "github.com/swapmarket/swapmarket/internal/application/auth"
	appChain "github.com/swapmarket/swapmarket/internal/application/chain"
	appMatch "github.com/swapmarket/swapmarket/internal/application/match"
	appOffer "github.com/swapmarket/swapmarket/internal/application/offer"
	appProduct "github.com/swapmarket/swapmarket/internal/application/product"
	"github.com/swapmarket/swapmarket/internal/domain/fault"
	"github.com/swapmarket/swapmarket/internal/domain/notification"
	"github.com/swapmarket/swapmarket/internal/infrastructure/sse"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	authSvc             *appAuth.Service
	productSvc          *appProduct.Service
	offerSvc            *appOffer.Service
	chainSvc            *appChain.Service
	matchSvc            *appMatch.Service
	sseHub              *sse.Hub
	sessionCookieName   string
	sessionCookieSecure bool
}

func NewServer(
	authSvc *appAuth.Service,
	productSvc *appProduct.Service,
	offerSvc *appOffer.Service,
	chainSvc *appChain.Service,
	matchSvc *appMatch.Service,
	sseHub *sse.Hub,
	sessionCookieName string,
	sessionCookieSecure bool,
) *Server {
	return &Server{
		authSvc:             authSvc,
		productSvc:          productSvc,
		offerSvc:            offerSvc,
		chainSvc:            chainSvc,
		matchSvc:            matchSvc,
		sseHub:              sseHub,
		sessionCookieName:   sessionCookieName,
		sessionCookieSecure: sessionCookieSecure,
	}
}

// Router builds the HTTP router.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.register)
			r.Post("/login", s.login)
			r.Group(func(r chi.Router) {
				r.Use(s.requireAuth)
				r.Post("/logout", s.logout)
				r.Get("/me", s.me)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Route("/products", func(r chi.Router) {
				r.Post("/", s.createProduct)
				r.Get("/", s.listMyProducts)
				r.Get("/{productId}", s.getProduct)
				r.Patch("/{productId}", s.updateProduct)
				r.Post("/{productId}/status", s.setProductStatus)
				r.Get("/{productId}/matches", s.getMatches)
			})

			r.Route("/offers", func(r chi.Router) {
				r.Post("/", s.createOffer)
				r.Get("/", s.listOffers)
				r.Get("/{offerId}", s.getOffer)
				r.Post("/{offerId}/accept", s.acceptOffer)
				r.Post("/{offerId}/reject", s.rejectOffer)
				r.Post("/{offerId}/cancel", s.cancelOffer)
				r.Post("/{offerId}/complete", s.completeOffer)
				r.Post("/{offerId}/counter", s.counterOffer)
				r.Get("/{offerId}/chain", s.getOfferChain)
			})

			r.Get("/events/sse", s.sseEndpoint)
		})
	})

	return r
}

// Helpers
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, map[string]interface{}{
		"error":   code,
		"message": message,
	})
}

// respondFault maps a structured domain error onto an HTTP status and a
// stable error payload.
func respondFault(w http.ResponseWriter, err error) {
	var fe *fault.Error
	if !errors.As(err, &fe) {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	status := http.StatusInternalServerError
	switch fe.Kind {
	case fault.KindValidation:
		status = http.StatusBadRequest
	case fault.KindInvalidTransition:
		status = http.StatusConflict
	case fault.KindConflict:
		status = http.StatusConflict
	case fault.KindNotFound:
		status = http.StatusNotFound
	case fault.KindUnauthorized:
		status = http.StatusForbidden
	}
	body := map[string]interface{}{
		"error":   fe.Code,
		"message": fe.Message,
	}
	if fe.Field != "" {
		body["field"] = fe.Field
	}
	respondJSON(w, status, body)
}

func parseUUIDParam(r *http.Request, key string) (uuid.UUID, error) {
	val := chi.URLParam(r, key)
	return uuid.Parse(val)
}

func decodeBody(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func parseLimitOffset(r *http.Request, defaultLimit, maxLimit int) (int, int) {
	limit := defaultLimit
	offset := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if l, err := strconv.Atoi(v); err == nil {
			limit = l
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if o, err := strconv.Atoi(v); err == nil {
			offset = o
		}
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (s *Server) sseEndpoint(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	if auth == nil {
		respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth")
		return
	}
	clientID := uuid.New().String()
	userID := auth.UserID
	client := notification.NewSSEClient(clientID, &userID)
	s.sseHub.Register(client)
	defer s.sseHub.Unregister(clientID)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "streaming not supported")
		return
	}
	w.WriteHeader(http.StatusOK)
	// Send an initial comment to flush headers and keep the connection alive.
	_, _ = w.Write([]byte(": connected\n\n"))
	flusher.Flush()

	ctx := r.Context()
	for {
		select {
		case msg := <-client.MessageChan:
			if msg == nil {
				return
			}
			payload, _ := json.Marshal(msg)
			_, _ = w.Write([]byte("data: "))
			_, _ = w.Write(payload)
			_, _ = w.Write([]byte("\n\n"))
			flusher.Flush()
		case <-ctx.Done():
			return
		}
	}
}
