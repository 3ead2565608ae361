package api

import (
	"net/http"

	"github.com/mani-shailesh/focus/internal/xquery"
	"github.com/mani-shailesh/focus/server/auth"
)

func (h *handler) Posts(w http.ResponseWriter, r *http.Request) {
	session := auth.GetSession(r)
	query := r.URL.Query()

	posts, err := h.DB.GetPosts(r.Context(),
		session.User.ID,
		xquery.ParseInt(query, "channel_id", 0),
		xquery.ParseString(query, "search", ""),
		xquery.ParseOrder(query),
	)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	responses := make([]postResponse, len(posts))
	for i, post := range posts {
		responses[i] = newPostResponse(post)
	}
	h.respond(w, r, http.StatusOK, responses)
}

func (h *handler) Post(w http.ResponseWriter, r *http.Request) {
	postID, err := parseID(r, "post_id")
	if err != nil {
		h.respondDetail(w, r, http.StatusBadRequest, "Invalid post id.")
		return
	}

	post, err := h.DB.GetPost(r.Context(), postID)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	h.respond(w, r, http.StatusOK, newPostResponse(*post))
}

type createPostRequest struct {
	ChannelID int    `json:"channel"`
	Content   string `json:"content"`
}

// CreatePost publishes a post to a channel. Restricted to representatives of
// the owning club.
func (h *handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var body createPostRequest
	if err := decodeJSON(r, &body); err != nil || body.ChannelID == 0 || body.Content == "" {
		h.respondDetail(w, r, http.StatusBadRequest, "Channel and content are required.")
		return
	}

	channel, err := h.DB.GetChannel(r.Context(), body.ChannelID)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	canManage, err := h.canManageClub(r, channel.ClubID)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}
	if !canManage {
		h.respondDetail(w, r, http.StatusForbidden, "Only club representatives can publish posts.")
		return
	}

	post, err := h.DB.CreatePost(r.Context(), body.ChannelID, body.Content)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	h.respond(w, r, http.StatusCreated, newPostResponse(*post))
}

type updatePostRequest struct {
	Content string `json:"content"`
}

func (h *handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	postID, err := parseID(r, "post_id")
	if err != nil {
		h.respondDetail(w, r, http.StatusBadRequest, "Invalid post id.")
		return
	}

	post, err := h.DB.GetPost(r.Context(), postID)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	channel, err := h.DB.GetChannel(r.Context(), post.ChannelID)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	canManage, err := h.canManageClub(r, channel.ClubID)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}
	if !canManage {
		h.respondDetail(w, r, http.StatusForbidden, "Only club representatives can edit posts.")
		return
	}

	var body updatePostRequest
	if err = decodeJSON(r, &body); err != nil || body.Content == "" {
		h.respondDetail(w, r, http.StatusBadRequest, "Content is required.")
		return
	}

	if err = h.DB.UpdatePost(r.Context(), postID, body.Content); err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	post.Content = body.Content
	h.respond(w, r, http.StatusOK, newPostResponse(*post))
}

func (h *handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	postID, err := parseID(r, "post_id")
	if err != nil {
		h.respondDetail(w, r, http.StatusBadRequest, "Invalid post id.")
		return
	}

	post, err := h.DB.GetPost(r.Context(), postID)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	channel, err := h.DB.GetChannel(r.Context(), post.ChannelID)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	canManage, err := h.canManageClub(r, channel.ClubID)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}
	if !canManage {
		h.respondDetail(w, r, http.StatusForbidden, "Only club representatives can delete posts.")
		return
	}

	if err = h.DB.DeletePost(r.Context(), postID); err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
