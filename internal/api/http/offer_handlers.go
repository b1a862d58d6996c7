package httpapi

import (
	"net/http"

	"github.com/google/uuid"

	appOffer "github.com/swapmarket/swapmarket/internal/application/offer"
	domainOffer "github.com/swapmarket/swapmarket/internal/domain/offer"
)

type offerCreateRequest struct {
	OfferedProductID    uuid.UUID `json:"offeredProductId"`
	RequestedProductID  uuid.UUID `json:"requestedProductId"`
	AdditionalCashOffer float64   `json:"additionalCashOffer,omitempty"`
	Message             string    `json:"message,omitempty"`
}

type offerRejectRequest struct {
	Reason *string `json:"reason,omitempty"`
}

func (s *Server) createOffer(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	var req offerCreateRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	o, err := s.offerSvc.Create(r.Context(), appOffer.CreateInput{
		OfferedProductID:   req.OfferedProductID,
		RequestedProductID: req.RequestedProductID,
		ProposerID:         auth.UserID,
		AdditionalCash:     req.AdditionalCashOffer,
		Message:            req.Message,
	})
	if err != nil {
		respondFault(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, o)
}

// counterOffer creates a new offer attached as a child of the addressed one.
func (s *Server) counterOffer(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	parentID, err := parseUUIDParam(r, "offerId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid offerId")
		return
	}
	var req offerCreateRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	o, err := s.offerSvc.Create(r.Context(), appOffer.CreateInput{
		OfferedProductID:   req.OfferedProductID,
		RequestedProductID: req.RequestedProductID,
		ProposerID:         auth.UserID,
		AdditionalCash:     req.AdditionalCashOffer,
		Message:            req.Message,
		ParentOfferID:      &parentID,
	})
	if err != nil {
		respondFault(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, o)
}

func (s *Server) listOffers(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	limit, offset := parseLimitOffset(r, 50, 200)

	direction := appOffer.ListDirection(r.URL.Query().Get("direction"))
	switch direction {
	case appOffer.DirectionIncoming, appOffer.DirectionOutgoing:
	default:
		direction = appOffer.DirectionAll
	}

	var status *domainOffer.Status
	if v := r.URL.Query().Get("status"); v != "" {
		st := domainOffer.Status(v)
		if err := domainOffer.ValidateStatus(st); err != nil {
			respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid status")
			return
		}
		status = &st
	}

	offers, err := s.offerSvc.List(r.Context(), auth.UserID, direction, status, limit, offset)
	if err != nil {
		respondFault(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"offers": offers})
}

func (s *Server) getOffer(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	id, err := parseUUIDParam(r, "offerId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid offerId")
		return
	}
	o, err := s.offerSvc.Get(r.Context(), id, auth.UserID)
	if err != nil {
		respondFault(w, err)
		return
	}
	respondJSON(w, http.StatusOK, o)
}

func (s *Server) acceptOffer(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	id, err := parseUUIDParam(r, "offerId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid offerId")
		return
	}
	o, err := s.offerSvc.Accept(r.Context(), id, auth.UserID)
	if err != nil {
		respondFault(w, err)
		return
	}
	respondJSON(w, http.StatusOK, o)
}

func (s *Server) rejectOffer(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	id, err := parseUUIDParam(r, "offerId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid offerId")
		return
	}
	var req offerRejectRequest
	if r.ContentLength > 0 {
		if err := decodeBody(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
			return
		}
	}
	o, err := s.offerSvc.Reject(r.Context(), id, auth.UserID, req.Reason)
	if err != nil {
		respondFault(w, err)
		return
	}
	respondJSON(w, http.StatusOK, o)
}

func (s *Server) cancelOffer(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	id, err := parseUUIDParam(r, "offerId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid offerId")
		return
	}
	o, err := s.offerSvc.Cancel(r.Context(), id, auth.UserID)
	if err != nil {
		respondFault(w, err)
		return
	}
	respondJSON(w, http.StatusOK, o)
}

func (s *Server) completeOffer(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	id, err := parseUUIDParam(r, "offerId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid offerId")
		return
	}
	o, err := s.offerSvc.Complete(r.Context(), id, auth.UserID)
	if err != nil {
		respondFault(w, err)
		return
	}
	respondJSON(w, http.StatusOK, o)
}

func (s *Server) getOfferChain(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	id, err := parseUUIDParam(r, "offerId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid offerId")
		return
	}
	tree, err := s.chainSvc.GetChain(r.Context(), id, auth.UserID)
	if err != nil {
		respondFault(w, err)
		return
	}
	respondJSON(w, http.StatusOK, tree)
}
