package api

import (
	"net/http"

	"github.com/mani-shailesh/focus/internal/xquery"
	"github.com/mani-shailesh/focus/server/auth"
	"github.com/mani-shailesh/focus/server/database"
)

func (h *handler) Conversations(w http.ResponseWriter, r *http.Request) {
	session := auth.GetSession(r)
	query := r.URL.Query()

	conversations, err := h.DB.GetConversations(r.Context(),
		session.User.ID,
		xquery.ParseBool(query, "only_my", false),
		xquery.ParseInt(query, "channel_id", 0),
		xquery.ParseInt(query, "parent_id", 0),
		xquery.ParseBool(query, "replies", false),
		xquery.ParseString(query, "search", ""),
		xquery.ParseOrder(query),
	)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	responses := make([]conversationResponse, len(conversations))
	for i, conversation := range conversations {
		responses[i] = newConversationResponse(conversation)
	}
	h.respond(w, r, http.StatusOK, responses)
}

func (h *handler) Conversation(w http.ResponseWriter, r *http.Request) {
	session := auth.GetSession(r)
	conversationID, err := parseID(r, "conversation_id")
	if err != nil {
		h.respondDetail(w, r, http.StatusBadRequest, "Invalid conversation id.")
		return
	}

	conversation, err := h.DB.GetConversation(r.Context(), conversationID)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	channel, err := h.DB.GetChannel(r.Context(), conversation.ChannelID)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	isMember, err := h.DB.ClubHasMember(r.Context(), channel.ClubID, session.User.ID)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}
	if !isMember && !session.User.IsSecretary {
		h.respondDetail(w, r, http.StatusNotFound, "Not found.")
		return
	}

	h.respond(w, r, http.StatusOK, newConversationResponse(*conversation))
}

type createConversationRequest struct {
	ChannelID int    `json:"channel"`
	ParentID  *int   `json:"parent"`
	Content   string `json:"content"`
}

// CreateConversation posts a message to a club channel. Only members of the
// owning club may write.
func (h *handler) CreateConversation(w http.ResponseWriter, r *http.Request) {
	session := auth.GetSession(r)

	var body createConversationRequest
	if err := decodeJSON(r, &body); err != nil || body.ChannelID == 0 || body.Content == "" {
		h.respondDetail(w, r, http.StatusBadRequest, "Channel and content are required.")
		return
	}

	channel, err := h.DB.GetChannel(r.Context(), body.ChannelID)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	isMember, err := h.DB.ClubHasMember(r.Context(), channel.ClubID, session.User.ID)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}
	if !isMember {
		h.respondDetail(w, r, http.StatusForbidden, "Only club members can write in this channel.")
		return
	}

	if body.ParentID != nil {
		parent, err := h.DB.GetConversation(r.Context(), *body.ParentID)
		if err != nil {
			h.respondDBErr(w, r, err)
			return
		}
		if parent.ChannelID != body.ChannelID {
			h.respondDetail(w, r, http.StatusBadRequest, "The parent message belongs to another channel.")
			return
		}
	}

	conversation, err := h.DB.CreateConversation(r.Context(), body.ChannelID, session.User.ID, body.ParentID, body.Content)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	h.respond(w, r, http.StatusCreated, newConversationResponse(database.ConversationWithAuthor{
		Conversation:   *conversation,
		AuthorUsername: session.User.Username,
	}))
}

// DeleteConversation removes a message. Allowed for the author and for
// representatives of the owning club.
func (h *handler) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	session := auth.GetSession(r)
	conversationID, err := parseID(r, "conversation_id")
	if err != nil {
		h.respondDetail(w, r, http.StatusBadRequest, "Invalid conversation id.")
		return
	}

	conversation, err := h.DB.GetConversation(r.Context(), conversationID)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	if conversation.AuthorID != session.User.ID {
		channel, err := h.DB.GetChannel(r.Context(), conversation.ChannelID)
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
			h.respondDetail(w, r, http.StatusForbidden, "Only the author can delete this message.")
			return
		}
	}

	if err = h.DB.DeleteConversation(r.Context(), conversationID); err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
