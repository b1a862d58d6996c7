package httpapi

import (
	"net/http"

	"github.com/google/uuid"

	appProduct "github.com/swapmarket/swapmarket/internal/application/product"
	domainProduct "github.com/swapmarket/swapmarket/internal/domain/product"
)

type productCreateRequest struct {
	Title              string                          `json:"title"`
	Description        string                          `json:"description,omitempty"`
	CategoryID         uuid.UUID                       `json:"categoryId"`
	Price              float64                         `json:"price"`
	AcceptsTradeOffers bool                            `json:"acceptsTradeOffers"`
	TradePreferences   *domainProduct.TradePreferences `json:"tradePreferences,omitempty"`
}

type productUpdateRequest struct {
	Title              *string                         `json:"title,omitempty"`
	Description        *string                         `json:"description,omitempty"`
	Price              *float64                        `json:"price,omitempty"`
	AcceptsTradeOffers *bool                           `json:"acceptsTradeOffers,omitempty"`
	TradePreferences   *domainProduct.TradePreferences `json:"tradePreferences,omitempty"`
}

type productStatusRequest struct {
	Status domainProduct.Status `json:"status"`
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	var req productCreateRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	p, err := s.productSvc.Create(r.Context(), appProduct.CreateInput{
		OwnerID:            auth.UserID,
		Title:              req.Title,
		Description:        req.Description,
		CategoryID:         req.CategoryID,
		Price:              req.Price,
		AcceptsTradeOffers: req.AcceptsTradeOffers,
		TradePreferences:   req.TradePreferences,
	})
	if err != nil {
		respondFault(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, p)
}

func (s *Server) listMyProducts(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	limit, offset := parseLimitOffset(r, 50, 200)
	products, err := s.productSvc.ListByOwner(r.Context(), auth.UserID, limit, offset)
	if err != nil {
		respondFault(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"products": products})
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "productId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid productId")
		return
	}
	p, err := s.productSvc.Get(r.Context(), id)
	if err != nil {
		respondFault(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (s *Server) updateProduct(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	id, err := parseUUIDParam(r, "productId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid productId")
		return
	}
	var req productUpdateRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	p, err := s.productSvc.Update(r.Context(), id, auth.UserID, appProduct.UpdateInput{
		Title:              req.Title,
		Description:        req.Description,
		Price:              req.Price,
		AcceptsTradeOffers: req.AcceptsTradeOffers,
		TradePreferences:   req.TradePreferences,
	})
	if err != nil {
		respondFault(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (s *Server) setProductStatus(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	id, err := parseUUIDParam(r, "productId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid productId")
		return
	}
	var req productStatusRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	p, err := s.productSvc.SetStatus(r.Context(), id, auth.UserID, req.Status)
	if err != nil {
		respondFault(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (s *Server) getMatches(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	id, err := parseUUIDParam(r, "productId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid productId")
		return
	}
	matches, err := s.matchSvc.FindMatches(r.Context(), id, auth.UserID)
	if err != nil {
		respondFault(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"matches": matches})
}
