package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/mani-shailesh/focus/internal/xquery"
	"github.com/mani-shailesh/focus/server/auth"
	"github.com/mani-shailesh/focus/server/database"
)

func (h *handler) Feedbacks(w http.ResponseWriter, r *http.Request) {
	session := auth.GetSession(r)
	query := r.URL.Query()

	feedbacks, err := h.DB.GetFeedbacks(r.Context(),
		session.User.ID,
		session.User.IsSecretary,
		xquery.ParseBool(query, "only_my", false),
		xquery.ParseInt(query, "club_id", 0),
		xquery.ParseOrder(query),
	)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	responses := make([]feedbackResponse, len(feedbacks))
	for i, feedback := range feedbacks {
		responses[i] = newFeedbackResponse(feedback)
	}
	h.respond(w, r, http.StatusOK, responses)
}

// getVisibleFeedback loads a feedback if the user may see it, meaning the
// author, a representative of the club or the secretary.
func (h *handler) getVisibleFeedback(w http.ResponseWriter, r *http.Request, feedbackID int) (*database.FeedbackWithReply, bool) {
	session := auth.GetSession(r)

	feedback, err := h.DB.GetFeedback(r.Context(), feedbackID)
	if err != nil {
		h.respondDBErr(w, r, err)
		return nil, false
	}

	if feedback.AuthorID != session.User.ID && !session.User.IsSecretary {
		isRep, err := h.DB.ClubHasRep(r.Context(), feedback.ClubID, session.User.ID)
		if err != nil {
			h.respondDBErr(w, r, err)
			return nil, false
		}
		if !isRep {
			h.respondDetail(w, r, http.StatusNotFound, "Not found.")
			return nil, false
		}
	}

	return feedback, true
}

func (h *handler) Feedback(w http.ResponseWriter, r *http.Request) {
	feedbackID, err := parseID(r, "feedback_id")
	if err != nil {
		h.respondDetail(w, r, http.StatusBadRequest, "Invalid feedback id.")
		return
	}

	feedback, ok := h.getVisibleFeedback(w, r, feedbackID)
	if !ok {
		return
	}
	h.respond(w, r, http.StatusOK, newFeedbackResponse(*feedback))
}

type createFeedbackRequest struct {
	ClubID  int    `json:"club"`
	Content string `json:"content"`
}

func (h *handler) CreateFeedback(w http.ResponseWriter, r *http.Request) {
	session := auth.GetSession(r)

	var body createFeedbackRequest
	if err := decodeJSON(r, &body); err != nil || body.ClubID == 0 || body.Content == "" {
		h.respondDetail(w, r, http.StatusBadRequest, "Club and content are required.")
		return
	}

	club, err := h.DB.GetClub(r.Context(), body.ClubID)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	feedback, err := h.DB.CreateFeedback(r.Context(), club.ID, session.User.ID, body.Content)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	h.Notify(r.Context(), fmt.Sprintf("New feedback for club %s", club.Name))

	h.respond(w, r, http.StatusCreated, newFeedbackResponse(database.FeedbackWithReply{Feedback: *feedback}))
}

func (h *handler) FeedbackReplies(w http.ResponseWriter, r *http.Request) {
	session := auth.GetSession(r)
	feedbackID := xquery.ParseInt(r.URL.Query(), "feedback_id", 0)

	replies, err := h.DB.GetFeedbackReplies(r.Context(), session.User.ID, session.User.IsSecretary, feedbackID)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	responses := make([]feedbackReplyResponse, len(replies))
	for i, reply := range replies {
		responses[i] = newFeedbackReplyResponse(reply)
	}
	h.respond(w, r, http.StatusOK, responses)
}

func (h *handler) FeedbackReply(w http.ResponseWriter, r *http.Request) {
	replyID, err := parseID(r, "reply_id")
	if err != nil {
		h.respondDetail(w, r, http.StatusBadRequest, "Invalid reply id.")
		return
	}

	reply, err := h.DB.GetFeedbackReply(r.Context(), replyID)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	if _, ok := h.getVisibleFeedback(w, r, reply.FeedbackID); !ok {
		return
	}

	h.respond(w, r, http.StatusOK, newFeedbackReplyResponse(*reply))
}

type createFeedbackReplyRequest struct {
	FeedbackID int    `json:"feedback"`
	Content    string `json:"content"`
}

// CreateFeedbackReply answers a feedback. Each feedback takes exactly one
// reply, written by a representative of the club.
func (h *handler) CreateFeedbackReply(w http.ResponseWriter, r *http.Request) {
	var body createFeedbackReplyRequest
	if err := decodeJSON(r, &body); err != nil || body.FeedbackID == 0 || body.Content == "" {
		h.respondDetail(w, r, http.StatusBadRequest, "Feedback and content are required.")
		return
	}

	feedback, err := h.DB.GetFeedback(r.Context(), body.FeedbackID)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	canManage, err := h.canManageClub(r, feedback.ClubID)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}
	if !canManage {
		h.respondDetail(w, r, http.StatusForbidden, "Only club representatives can reply to feedback.")
		return
	}

	reply, err := h.DB.CreateFeedbackReply(r.Context(), body.FeedbackID, body.Content)
	if err != nil {
		if errors.Is(err, database.ErrAlreadyExists) {
			h.respondDetail(w, r, http.StatusConflict, "This feedback has already been answered.")
			return
		}
		h.respondDBErr(w, r, err)
		return
	}

	h.respond(w, r, http.StatusCreated, newFeedbackReplyResponse(*reply))
}
