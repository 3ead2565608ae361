package api

import (
	"net/http"

	"github.com/mani-shailesh/focus/internal/tsync"
	"github.com/mani-shailesh/focus/internal/xquery"
	"github.com/mani-shailesh/focus/server/database"
)

func (h *handler) AdminUsers(w http.ResponseWriter, r *http.Request) {
	search := xquery.ParseString(r.URL.Query(), "search", "")

	users, err := h.DB.GetUsers(r.Context(), search)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	h.respond(w, r, http.StatusOK, newUserResponses(users))
}

type adminUpdateUserRequest struct {
	IsSecretary *bool `json:"is_secretary"`
}

// AdminUpdateUser toggles the secretary flag of a user.
func (h *handler) AdminUpdateUser(w http.ResponseWriter, r *http.Request) {
	userID, err := parseID(r, "user_id")
	if err != nil {
		h.respondDetail(w, r, http.StatusBadRequest, "Invalid user id.")
		return
	}

	var body adminUpdateUserRequest
	if err = decodeJSON(r, &body); err != nil || body.IsSecretary == nil {
		h.respondDetail(w, r, http.StatusBadRequest, "Invalid request body.")
		return
	}

	user, err := h.DB.GetUser(r.Context(), userID)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	if err = h.DB.SetUserSecretary(r.Context(), userID, *body.IsSecretary); err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	user.IsSecretary = *body.IsSecretary
	h.respond(w, r, http.StatusOK, newUserResponse(*user))
}

type statsResponse struct {
	Users           int `json:"users"`
	Clubs           int `json:"clubs"`
	Projects        int `json:"projects"`
	Posts           int `json:"posts"`
	Feedbacks       int `json:"feedbacks"`
	PendingRequests int `json:"pending_requests"`
}

// AdminStats gathers the dashboard counters concurrently.
func (h *handler) AdminStats(w http.ResponseWriter, r *http.Request) {
	var stats database.Stats

	eg, ctx := tsync.ErrorGroupWithContext(r.Context())
	eg.Go(func() error {
		var err error
		stats.Users, err = h.DB.CountUsers(ctx)
		return err
	})
	eg.Go(func() error {
		var err error
		stats.Clubs, err = h.DB.CountClubs(ctx)
		return err
	})
	eg.Go(func() error {
		var err error
		stats.Projects, err = h.DB.CountProjects(ctx)
		return err
	})
	eg.Go(func() error {
		var err error
		stats.Posts, err = h.DB.CountPosts(ctx)
		return err
	})
	eg.Go(func() error {
		var err error
		stats.Feedbacks, err = h.DB.CountFeedbacks(ctx)
		return err
	})
	eg.Go(func() error {
		var err error
		stats.PendingRequests, err = h.DB.CountPendingMembershipRequests(ctx)
		return err
	})
	if err := eg.Wait(); err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	h.respond(w, r, http.StatusOK, statsResponse{
		Users:           stats.Users,
		Clubs:           stats.Clubs,
		Projects:        stats.Projects,
		Posts:           stats.Posts,
		Feedbacks:       stats.Feedbacks,
		PendingRequests: stats.PendingRequests,
	})
}
