package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/yeqown/go-qrcode/v2"
	"github.com/yeqown/go-qrcode/writer/standard"

	"github.com/mani-shailesh/focus/internal/xio"
	"github.com/mani-shailesh/focus/internal/xquery"
	"github.com/mani-shailesh/focus/server/auth"
)

func (h *handler) Clubs(w http.ResponseWriter, r *http.Request) {
	session := auth.GetSession(r)
	query := r.URL.Query()
	search := xquery.ParseString(query, "search", "")

	var memberID int
	if xquery.ParseBool(query, "only_my", false) {
		memberID = session.User.ID
	}

	clubs, err := h.DB.GetClubs(r.Context(), search, memberID)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	responses := make([]clubResponse, len(clubs))
	for i, club := range clubs {
		responses[i] = newClubResponse(club)
	}
	h.respond(w, r, http.StatusOK, responses)
}

func (h *handler) Club(w http.ResponseWriter, r *http.Request) {
	clubID, err := parseID(r, "club_id")
	if err != nil {
		h.respondDetail(w, r, http.StatusBadRequest, "Invalid club id.")
		return
	}

	club, err := h.DB.GetClub(r.Context(), clubID)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	privilege, err := h.DB.GetClubPrivilege(r.Context(), club.ID, auth.GetSession(r).User.ID)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	response := newClubResponse(*club)
	response.Privilege = privilege
	h.respond(w, r, http.StatusOK, response)
}

type createClubRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreateClub registers a new club. Only the secretary may create clubs.
func (h *handler) CreateClub(w http.ResponseWriter, r *http.Request) {
	session := auth.GetSession(r)
	if !session.User.IsSecretary {
		h.respondDetail(w, r, http.StatusForbidden, "Only the secretary can create clubs.")
		return
	}

	var body createClubRequest
	if err := decodeJSON(r, &body); err != nil {
		h.respondDetail(w, r, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if body.Name == "" {
		h.respondDetail(w, r, http.StatusBadRequest, "Name is required.")
		return
	}

	club, err := h.DB.CreateClub(r.Context(), body.Name, body.Description)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	h.respond(w, r, http.StatusCreated, newClubResponse(*club))
}

type updateClubRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// UpdateClub modifies a club. Allowed for representatives of the club and
// the secretary.
func (h *handler) UpdateClub(w http.ResponseWriter, r *http.Request) {
	session := auth.GetSession(r)
	clubID, err := parseID(r, "club_id")
	if err != nil {
		h.respondDetail(w, r, http.StatusBadRequest, "Invalid club id.")
		return
	}

	club, err := h.DB.GetClub(r.Context(), clubID)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	if !session.User.IsSecretary {
		isRep, err := h.DB.ClubHasRep(r.Context(), clubID, session.User.ID)
		if err != nil {
			h.respondDBErr(w, r, err)
			return
		}
		if !isRep {
			h.respondDetail(w, r, http.StatusForbidden, "You do not have permission to perform this action.")
			return
		}
	}

	var body updateClubRequest
	if err = decodeJSON(r, &body); err != nil {
		h.respondDetail(w, r, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if body.Name != nil {
		club.Name = *body.Name
	}
	if body.Description != nil {
		club.Description = *body.Description
	}

	if err = h.DB.UpdateClub(r.Context(), clubID, club.Name, club.Description); err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	h.respond(w, r, http.StatusOK, newClubResponse(*club))
}

func (h *handler) DeleteClub(w http.ResponseWriter, r *http.Request) {
	session := auth.GetSession(r)
	if !session.User.IsSecretary {
		h.respondDetail(w, r, http.StatusForbidden, "Only the secretary can delete clubs.")
		return
	}

	clubID, err := parseID(r, "club_id")
	if err != nil {
		h.respondDetail(w, r, http.StatusBadRequest, "Invalid club id.")
		return
	}

	if err = h.DB.DeleteClub(r.Context(), clubID); err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ClubQR renders a QR code PNG pointing at the club's page.
func (h *handler) ClubQR(w http.ResponseWriter, r *http.Request) {
	clubID, err := parseID(r, "club_id")
	if err != nil {
		h.respondDetail(w, r, http.StatusBadRequest, "Invalid club id.")
		return
	}

	club, err := h.DB.GetClub(r.Context(), clubID)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	qr, err := qrcode.New(fmt.Sprintf("%s/api/clubs/%d", h.Cfg.Server.PublicURL, club.ID))
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to create QR code", slog.Any("err", err))
		h.respondDetail(w, r, http.StatusInternalServerError, "Internal server error.")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	qrW := standard.NewWithWriter(xio.NewResponseWriteCloser(w),
		standard.WithBuiltinImageEncoder(standard.PNG_FORMAT),
	)
	defer func() {
		_ = qrW.Close()
	}()
	if err = qr.Save(qrW); err != nil {
		slog.ErrorContext(r.Context(), "Failed to write QR code", slog.Any("err", err))
	}
}
