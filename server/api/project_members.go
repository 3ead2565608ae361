package api

import (
	"errors"
	"net/http"

	"github.com/mani-shailesh/focus/internal/xquery"
	"github.com/mani-shailesh/focus/server/auth"
	"github.com/mani-shailesh/focus/server/database"
)

func (h *handler) ProjectMemberships(w http.ResponseWriter, r *http.Request) {
	session := auth.GetSession(r)
	projectID := xquery.ParseInt(r.URL.Query(), "project_id", 0)

	memberships, err := h.DB.GetProjectMemberships(r.Context(), session.User.ID, projectID)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	responses := make([]projectMembershipResponse, len(memberships))
	for i, membership := range memberships {
		responses[i] = newProjectMembershipResponse(membership)
	}
	h.respond(w, r, http.StatusOK, responses)
}

func (h *handler) ProjectMembership(w http.ResponseWriter, r *http.Request) {
	session := auth.GetSession(r)
	membershipID, err := parseID(r, "membership_id")
	if err != nil {
		h.respondDetail(w, r, http.StatusBadRequest, "Invalid membership id.")
		return
	}

	membership, err := h.DB.GetProjectMembership(r.Context(), membershipID)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	if !session.User.IsSecretary {
		isMember, err := h.DB.ProjectHasClubMember(r.Context(), membership.ProjectID, session.User.ID)
		if err != nil {
			h.respondDBErr(w, r, err)
			return
		}
		if !isMember {
			h.respondDetail(w, r, http.StatusNotFound, "Not found.")
			return
		}
	}

	h.respond(w, r, http.StatusOK, newProjectMembershipResponse(*membership))
}

type createProjectMembershipRequest struct {
	ProjectID int `json:"project"`
	UserID    int `json:"user"`
}

// CreateProjectMembership adds a club member to a project. Restricted to the
// project leader and club representatives.
func (h *handler) CreateProjectMembership(w http.ResponseWriter, r *http.Request) {
	var body createProjectMembershipRequest
	if err := decodeJSON(r, &body); err != nil || body.ProjectID == 0 || body.UserID == 0 {
		h.respondDetail(w, r, http.StatusBadRequest, "Project and user are required.")
		return
	}

	project, err := h.DB.GetProject(r.Context(), body.ProjectID)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	canManage, err := h.canManageProject(r, project)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}
	if !canManage {
		h.respondDetail(w, r, http.StatusForbidden, "Only the project leader can manage project members.")
		return
	}

	isMember, err := h.DB.ClubHasMember(r.Context(), project.OwnerClubID, body.UserID)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}
	if !isMember {
		h.respondDetail(w, r, http.StatusBadRequest, "The user must be a member of the owning club.")
		return
	}

	membership, err := h.DB.CreateProjectMembership(r.Context(), body.ProjectID, body.UserID)
	if err != nil {
		if errors.Is(err, database.ErrAlreadyExists) {
			h.respondDetail(w, r, http.StatusConflict, "The user is already a project member.")
			return
		}
		h.respondDBErr(w, r, err)
		return
	}

	h.respond(w, r, http.StatusCreated, newProjectMembershipResponse(*membership))
}

// DeleteProjectMembership removes a user from a project. Members may leave
// on their own, otherwise the project leader is required.
func (h *handler) DeleteProjectMembership(w http.ResponseWriter, r *http.Request) {
	session := auth.GetSession(r)
	membershipID, err := parseID(r, "membership_id")
	if err != nil {
		h.respondDetail(w, r, http.StatusBadRequest, "Invalid membership id.")
		return
	}

	membership, err := h.DB.GetProjectMembership(r.Context(), membershipID)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	if membership.UserID != session.User.ID {
		project, err := h.DB.GetProject(r.Context(), membership.ProjectID)
		if err != nil {
			h.respondDBErr(w, r, err)
			return
		}
		canManage, err := h.canManageProject(r, project)
		if err != nil {
			h.respondDBErr(w, r, err)
			return
		}
		if !canManage {
			h.respondDetail(w, r, http.StatusForbidden, "Only the project leader can manage project members.")
			return
		}
	}

	if err = h.DB.DeleteProjectMembership(r.Context(), membershipID); err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
