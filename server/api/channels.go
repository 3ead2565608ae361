package api

import (
	"net/http"

	"github.com/mani-shailesh/focus/internal/xquery"
	"github.com/mani-shailesh/focus/server/auth"
	"github.com/mani-shailesh/focus/server/database"
)

func (h *handler) Channels(w http.ResponseWriter, r *http.Request) {
	session := auth.GetSession(r)
	query := r.URL.Query()

	channels, err := h.DB.GetChannels(r.Context(),
		session.User.ID,
		xquery.ParseBool(query, "only_my", false),
		xquery.ParseInt(query, "club_id", 0),
		xquery.ParseString(query, "search", ""),
	)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	responses := make([]channelResponse, len(channels))
	for i, channel := range channels {
		responses[i] = newChannelResponse(channel)
	}
	h.respond(w, r, http.StatusOK, responses)
}

func (h *handler) getChannel(w http.ResponseWriter, r *http.Request) (*database.Channel, bool) {
	channelID, err := parseID(r, "channel_id")
	if err != nil {
		h.respondDetail(w, r, http.StatusBadRequest, "Invalid channel id.")
		return nil, false
	}

	channel, err := h.DB.GetChannel(r.Context(), channelID)
	if err != nil {
		h.respondDBErr(w, r, err)
		return nil, false
	}

	return channel, true
}

func (h *handler) Channel(w http.ResponseWriter, r *http.Request) {
	channel, ok := h.getChannel(w, r)
	if !ok {
		return
	}

	subscribed, err := h.DB.IsChannelSubscriber(r.Context(), channel.ID, auth.GetSession(r).User.ID)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	response := newChannelResponse(*channel)
	response.Subscribed = &subscribed
	h.respond(w, r, http.StatusOK, response)
}

type updateChannelRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (h *handler) UpdateChannel(w http.ResponseWriter, r *http.Request) {
	channel, ok := h.getChannel(w, r)
	if !ok {
		return
	}

	canManage, err := h.canManageClub(r, channel.ClubID)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}
	if !canManage {
		h.respondDetail(w, r, http.StatusForbidden, "Only club representatives can edit the channel.")
		return
	}

	var body updateChannelRequest
	if err = decodeJSON(r, &body); err != nil {
		h.respondDetail(w, r, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if body.Name != nil {
		channel.Name = *body.Name
	}
	if body.Description != nil {
		channel.Description = *body.Description
	}

	if err = h.DB.UpdateChannel(r.Context(), channel.ID, channel.Name, channel.Description); err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	h.respond(w, r, http.StatusOK, newChannelResponse(*channel))
}

func (h *handler) SubscribeChannel(w http.ResponseWriter, r *http.Request) {
	session := auth.GetSession(r)
	channel, ok := h.getChannel(w, r)
	if !ok {
		return
	}

	if err := h.DB.SubscribeChannel(r.Context(), channel.ID, session.User.ID); err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) UnsubscribeChannel(w http.ResponseWriter, r *http.Request) {
	session := auth.GetSession(r)
	channel, ok := h.getChannel(w, r)
	if !ok {
		return
	}

	if err := h.DB.UnsubscribeChannel(r.Context(), channel.ID, session.User.ID); err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ChannelSubscribers lists the subscribers of a channel. Restricted to
// representatives of the owning club.
func (h *handler) ChannelSubscribers(w http.ResponseWriter, r *http.Request) {
	channel, ok := h.getChannel(w, r)
	if !ok {
		return
	}

	canManage, err := h.canManageClub(r, channel.ClubID)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}
	if !canManage {
		h.respondDetail(w, r, http.StatusForbidden, "Only club representatives can list subscribers.")
		return
	}

	subscribers, err := h.DB.GetChannelSubscribers(r.Context(), channel.ID)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	h.respond(w, r, http.StatusOK, newUserResponses(subscribers))
}
