package api

import (
	"net/http"

	"github.com/mani-shailesh/focus/internal/xquery"
	"github.com/mani-shailesh/focus/server/auth"
)

func (h *handler) Users(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if ids := xquery.ParseIntSlice(query, "ids", nil); len(ids) > 0 {
		users, err := h.DB.GetUsersByIDs(r.Context(), ids)
		if err != nil {
			h.respondDBErr(w, r, err)
			return
		}
		h.respond(w, r, http.StatusOK, newUserResponses(users))
		return
	}

	users, err := h.DB.GetUsers(r.Context(), xquery.ParseString(query, "search", ""))
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	h.respond(w, r, http.StatusOK, newUserResponses(users))
}

func (h *handler) User(w http.ResponseWriter, r *http.Request) {
	userID, err := parseID(r, "user_id")
	if err != nil {
		h.respondDetail(w, r, http.StatusBadRequest, "Invalid user id.")
		return
	}

	user, err := h.DB.GetUser(r.Context(), userID)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	h.respond(w, r, http.StatusOK, newUserResponse(*user))
}

func (h *handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	session := auth.GetSession(r)
	h.respond(w, r, http.StatusOK, newUserResponse(session.User))
}

type updateUserRequest struct {
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

func (h *handler) UpdateCurrentUser(w http.ResponseWriter, r *http.Request) {
	session := auth.GetSession(r)

	var body updateUserRequest
	if err := decodeJSON(r, &body); err != nil {
		h.respondDetail(w, r, http.StatusBadRequest, "Invalid request body.")
		return
	}

	user := session.User
	if body.Email != nil {
		user.Email = *body.Email
	}
	if body.FirstName != nil {
		user.FirstName = *body.FirstName
	}
	if body.LastName != nil {
		user.LastName = *body.LastName
	}

	if err := h.DB.UpdateUser(r.Context(), user.ID, user.Email, user.FirstName, user.LastName); err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	h.respond(w, r, http.StatusOK, newUserResponse(user))
}
