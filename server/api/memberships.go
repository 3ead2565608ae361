package api

import (
	"errors"
	"net/http"

	"github.com/mani-shailesh/focus/internal/xquery"
	"github.com/mani-shailesh/focus/server/auth"
	"github.com/mani-shailesh/focus/server/database"
)

func (h *handler) ClubMemberships(w http.ResponseWriter, r *http.Request) {
	clubID := xquery.ParseInt(r.URL.Query(), "club_id", 0)

	memberships, err := h.DB.GetClubMemberships(r.Context(), clubID)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	responses := make([]clubMembershipResponse, len(memberships))
	for i, membership := range memberships {
		responses[i] = newClubMembershipResponse(membership)
	}
	h.respond(w, r, http.StatusOK, responses)
}

func (h *handler) ClubMembership(w http.ResponseWriter, r *http.Request) {
	membershipID, err := parseID(r, "membership_id")
	if err != nil {
		h.respondDetail(w, r, http.StatusBadRequest, "Invalid membership id.")
		return
	}

	membership, err := h.DB.GetClubMembership(r.Context(), membershipID)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	h.respond(w, r, http.StatusOK, newClubMembershipResponse(*membership))
}

type createClubMembershipRequest struct {
	UserID int `json:"user"`
	RoleID int `json:"club_role"`
}

func (h *handler) CreateClubMembership(w http.ResponseWriter, r *http.Request) {
	var body createClubMembershipRequest
	if err := decodeJSON(r, &body); err != nil {
		h.respondDetail(w, r, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if body.UserID == 0 || body.RoleID == 0 {
		h.respondDetail(w, r, http.StatusBadRequest, "User and club role are required.")
		return
	}

	role, err := h.DB.GetClubRole(r.Context(), body.RoleID)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	canManage, err := h.canManageClub(r, role.ClubID)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}
	if !canManage {
		h.respondDetail(w, r, http.StatusForbidden, "Only club representatives can manage memberships.")
		return
	}

	membership, err := h.DB.CreateClubMembership(r.Context(), body.UserID, body.RoleID)
	if err != nil {
		if errors.Is(err, database.ErrAlreadyExists) {
			h.respondDetail(w, r, http.StatusConflict, "The user already holds this role.")
			return
		}
		h.respondDBErr(w, r, err)
		return
	}

	details, err := h.DB.GetClubMembership(r.Context(), membership.ID)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	h.respond(w, r, http.StatusCreated, newClubMembershipResponse(*details))
}

type updateClubMembershipRequest struct {
	RoleID int `json:"club_role"`
}

// UpdateClubMembership moves a member to another role of the same club.
func (h *handler) UpdateClubMembership(w http.ResponseWriter, r *http.Request) {
	membershipID, err := parseID(r, "membership_id")
	if err != nil {
		h.respondDetail(w, r, http.StatusBadRequest, "Invalid membership id.")
		return
	}

	membership, err := h.DB.GetClubMembership(r.Context(), membershipID)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	canManage, err := h.canManageClub(r, membership.ClubID)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}
	if !canManage {
		h.respondDetail(w, r, http.StatusForbidden, "Only club representatives can manage memberships.")
		return
	}

	var body updateClubMembershipRequest
	if err = decodeJSON(r, &body); err != nil || body.RoleID == 0 {
		h.respondDetail(w, r, http.StatusBadRequest, "Invalid request body.")
		return
	}

	role, err := h.DB.GetClubRole(r.Context(), body.RoleID)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}
	if role.ClubID != membership.ClubID {
		h.respondDetail(w, r, http.StatusBadRequest, "The role belongs to another club.")
		return
	}

	if err = h.DB.UpdateClubMembershipRole(r.Context(), membershipID, body.RoleID); err != nil {
		if errors.Is(err, database.ErrAlreadyExists) {
			h.respondDetail(w, r, http.StatusConflict, "The user already holds this role.")
			return
		}
		h.respondDBErr(w, r, err)
		return
	}

	details, err := h.DB.GetClubMembership(r.Context(), membershipID)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	h.respond(w, r, http.StatusOK, newClubMembershipResponse(*details))
}

// DeleteClubMembership removes a member from a club. Members may leave on
// their own, otherwise a representative is required.
func (h *handler) DeleteClubMembership(w http.ResponseWriter, r *http.Request) {
	session := auth.GetSession(r)
	membershipID, err := parseID(r, "membership_id")
	if err != nil {
		h.respondDetail(w, r, http.StatusBadRequest, "Invalid membership id.")
		return
	}

	membership, err := h.DB.GetClubMembership(r.Context(), membershipID)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	if membership.UserID != session.User.ID {
		canManage, err := h.canManageClub(r, membership.ClubID)
		if err != nil {
			h.respondDBErr(w, r, err)
			return
		}
		if !canManage {
			h.respondDetail(w, r, http.StatusForbidden, "Only club representatives can manage memberships.")
			return
		}
	}

	if err = h.DB.DeleteClubMembership(r.Context(), membershipID); err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
