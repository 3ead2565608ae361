package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/mani-shailesh/focus/internal/xquery"
	"github.com/mani-shailesh/focus/server/auth"
	"github.com/mani-shailesh/focus/server/database"
)

func (h *handler) MembershipRequests(w http.ResponseWriter, r *http.Request) {
	session := auth.GetSession(r)
	query := r.URL.Query()

	requests, err := h.DB.GetMembershipRequests(r.Context(),
		session.User.ID,
		xquery.ParseBool(query, "only_my", false),
		xquery.ParseInt(query, "pending", -1),
		xquery.ParseInt(query, "club_id", 0),
		xquery.ParseOrder(query),
	)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	responses := make([]membershipRequestResponse, len(requests))
	for i, request := range requests {
		responses[i] = newMembershipRequestResponse(request)
	}
	h.respond(w, r, http.StatusOK, responses)
}

// getVisibleMembershipRequest loads a request if the user may see it, meaning
// the requester, a representative of the club or the secretary.
func (h *handler) getVisibleMembershipRequest(w http.ResponseWriter, r *http.Request) (*database.MembershipRequest, bool) {
	session := auth.GetSession(r)
	requestID, err := parseID(r, "request_id")
	if err != nil {
		h.respondDetail(w, r, http.StatusBadRequest, "Invalid request id.")
		return nil, false
	}

	request, err := h.DB.GetMembershipRequest(r.Context(), requestID)
	if err != nil {
		h.respondDBErr(w, r, err)
		return nil, false
	}

	if request.UserID != session.User.ID && !session.User.IsSecretary {
		isRep, err := h.DB.ClubHasRep(r.Context(), request.ClubID, session.User.ID)
		if err != nil {
			h.respondDBErr(w, r, err)
			return nil, false
		}
		if !isRep {
			h.respondDetail(w, r, http.StatusNotFound, "Not found.")
			return nil, false
		}
	}

	return request, true
}

func (h *handler) MembershipRequest(w http.ResponseWriter, r *http.Request) {
	request, ok := h.getVisibleMembershipRequest(w, r)
	if !ok {
		return
	}
	h.respond(w, r, http.StatusOK, newMembershipRequestResponse(*request))
}

type createMembershipRequestRequest struct {
	ClubID int `json:"club"`
}

func (h *handler) CreateMembershipRequest(w http.ResponseWriter, r *http.Request) {
	session := auth.GetSession(r)

	var body createMembershipRequestRequest
	if err := decodeJSON(r, &body); err != nil || body.ClubID == 0 {
		h.respondDetail(w, r, http.StatusBadRequest, "Invalid request body.")
		return
	}

	club, err := h.DB.GetClub(r.Context(), body.ClubID)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	isMember, err := h.DB.ClubHasMember(r.Context(), club.ID, session.User.ID)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}
	if isMember {
		h.respondDetail(w, r, http.StatusConflict, "You are already a member of this club.")
		return
	}

	hasPending, err := h.DB.HasPendingMembershipRequest(r.Context(), session.User.ID, club.ID)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}
	if hasPending {
		h.respondDetail(w, r, http.StatusConflict, "You already have a pending request for this club.")
		return
	}

	request, err := h.DB.CreateMembershipRequest(r.Context(), session.User.ID, club.ID)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	h.Notify(r.Context(), fmt.Sprintf("New membership request from %s for club %s", session.User.Username, club.Name))

	h.respond(w, r, http.StatusCreated, newMembershipRequestResponse(*request))
}

func (h *handler) AcceptMembershipRequest(w http.ResponseWriter, r *http.Request) {
	request, ok := h.getVisibleMembershipRequest(w, r)
	if !ok {
		return
	}

	canManage, err := h.canManageClub(r, request.ClubID)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}
	if !canManage {
		h.respondDetail(w, r, http.StatusForbidden, "Only club representatives can accept requests.")
		return
	}

	accepted, err := h.DB.AcceptMembershipRequest(r.Context(), request.ID)
	if err != nil {
		if errors.Is(err, database.ErrRequestClosed) {
			h.respondDetail(w, r, http.StatusUnprocessableEntity, "This request has already been closed.")
			return
		}
		h.respondDBErr(w, r, err)
		return
	}

	h.respond(w, r, http.StatusOK, newMembershipRequestResponse(*accepted))
}

func (h *handler) RejectMembershipRequest(w http.ResponseWriter, r *http.Request) {
	request, ok := h.getVisibleMembershipRequest(w, r)
	if !ok {
		return
	}

	canManage, err := h.canManageClub(r, request.ClubID)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}
	if !canManage {
		h.respondDetail(w, r, http.StatusForbidden, "Only club representatives can reject requests.")
		return
	}

	rejected, err := h.DB.RejectMembershipRequest(r.Context(), request.ID)
	if err != nil {
		if errors.Is(err, database.ErrRequestClosed) {
			h.respondDetail(w, r, http.StatusUnprocessableEntity, "This request has already been closed.")
			return
		}
		h.respondDBErr(w, r, err)
		return
	}

	h.respond(w, r, http.StatusOK, newMembershipRequestResponse(*rejected))
}

func (h *handler) CancelMembershipRequest(w http.ResponseWriter, r *http.Request) {
	session := auth.GetSession(r)
	request, ok := h.getVisibleMembershipRequest(w, r)
	if !ok {
		return
	}

	if request.UserID != session.User.ID {
		h.respondDetail(w, r, http.StatusForbidden, "Only the requester can cancel a request.")
		return
	}

	cancelled, err := h.DB.CancelMembershipRequest(r.Context(), request.ID)
	if err != nil {
		if errors.Is(err, database.ErrRequestClosed) {
			h.respondDetail(w, r, http.StatusUnprocessableEntity, "This request has already been closed.")
			return
		}
		h.respondDBErr(w, r, err)
		return
	}

	h.respond(w, r, http.StatusOK, newMembershipRequestResponse(*cancelled))
}
