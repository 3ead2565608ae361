package api

import (
	"net/http"

	"github.com/mani-shailesh/focus/internal/xquery"
	"github.com/mani-shailesh/focus/server/auth"
	"github.com/mani-shailesh/focus/server/database"
)

// canManageClub reports whether the user may administer the club, meaning
// the secretary or a representative of the club.
func (h *handler) canManageClub(r *http.Request, clubID int) (bool, error) {
	session := auth.GetSession(r)
	if session.User.IsSecretary {
		return true, nil
	}
	return h.DB.ClubHasRep(r.Context(), clubID, session.User.ID)
}

func (h *handler) ClubRoles(w http.ResponseWriter, r *http.Request) {
	session := auth.GetSession(r)
	clubID := xquery.ParseInt(r.URL.Query(), "club_id", 0)

	roles, err := h.DB.GetClubRoles(r.Context(), session.User.ID, clubID)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	responses := make([]clubRoleResponse, len(roles))
	for i, role := range roles {
		responses[i] = newClubRoleResponse(role)
	}
	h.respond(w, r, http.StatusOK, responses)
}

func (h *handler) ClubRole(w http.ResponseWriter, r *http.Request) {
	session := auth.GetSession(r)
	roleID, err := parseID(r, "role_id")
	if err != nil {
		h.respondDetail(w, r, http.StatusBadRequest, "Invalid role id.")
		return
	}

	role, err := h.DB.GetClubRole(r.Context(), roleID)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	isMember, err := h.DB.ClubHasMember(r.Context(), role.ClubID, session.User.ID)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}
	if !isMember && !session.User.IsSecretary {
		h.respondDetail(w, r, http.StatusNotFound, "Not found.")
		return
	}

	h.respond(w, r, http.StatusOK, newClubRoleResponse(*role))
}

type createClubRoleRequest struct {
	ClubID      int    `json:"club"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Privilege   string `json:"privilege"`
}

func (h *handler) CreateClubRole(w http.ResponseWriter, r *http.Request) {
	var body createClubRoleRequest
	if err := decodeJSON(r, &body); err != nil {
		h.respondDetail(w, r, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if body.Name == "" || body.ClubID == 0 {
		h.respondDetail(w, r, http.StatusBadRequest, "Club and name are required.")
		return
	}
	if body.Privilege != database.PrivilegeRep && body.Privilege != database.PrivilegeMem {
		h.respondDetail(w, r, http.StatusBadRequest, "Privilege must be REP or MEM.")
		return
	}

	canManage, err := h.canManageClub(r, body.ClubID)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}
	if !canManage {
		h.respondDetail(w, r, http.StatusForbidden, "Only club representatives can manage roles.")
		return
	}

	role, err := h.DB.CreateClubRole(r.Context(), body.ClubID, body.Name, body.Description, body.Privilege)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	h.respond(w, r, http.StatusCreated, newClubRoleResponse(*role))
}

type updateClubRoleRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Privilege   *string `json:"privilege"`
}

func (h *handler) UpdateClubRole(w http.ResponseWriter, r *http.Request) {
	roleID, err := parseID(r, "role_id")
	if err != nil {
		h.respondDetail(w, r, http.StatusBadRequest, "Invalid role id.")
		return
	}

	role, err := h.DB.GetClubRole(r.Context(), roleID)
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
		h.respondDetail(w, r, http.StatusForbidden, "Only club representatives can manage roles.")
		return
	}

	var body updateClubRoleRequest
	if err = decodeJSON(r, &body); err != nil {
		h.respondDetail(w, r, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if body.Name != nil {
		role.Name = *body.Name
	}
	if body.Description != nil {
		role.Description = *body.Description
	}
	if body.Privilege != nil {
		if *body.Privilege != database.PrivilegeRep && *body.Privilege != database.PrivilegeMem {
			h.respondDetail(w, r, http.StatusBadRequest, "Privilege must be REP or MEM.")
			return
		}
		role.Privilege = *body.Privilege
	}

	if err = h.DB.UpdateClubRole(r.Context(), roleID, role.Name, role.Description, role.Privilege); err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	h.respond(w, r, http.StatusOK, newClubRoleResponse(*role))
}

func (h *handler) DeleteClubRole(w http.ResponseWriter, r *http.Request) {
	roleID, err := parseID(r, "role_id")
	if err != nil {
		h.respondDetail(w, r, http.StatusBadRequest, "Invalid role id.")
		return
	}

	role, err := h.DB.GetClubRole(r.Context(), roleID)
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
		h.respondDetail(w, r, http.StatusForbidden, "Only club representatives can manage roles.")
		return
	}

	if err = h.DB.DeleteClubRole(r.Context(), roleID); err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
