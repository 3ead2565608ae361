package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/mani-shailesh/focus/server/database"
)

// errorResponse is the body of every non-2xx JSON response.
type errorResponse struct {
	Detail string `json:"detail"`
}

func (h *handler) respond(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.ErrorContext(r.Context(), "Failed to encode response", slog.Any("err", err))
	}
}

func (h *handler) respondDetail(w http.ResponseWriter, r *http.Request, status int, detail string) {
	h.respond(w, r, status, errorResponse{Detail: detail})
}

// respondDBErr maps missing rows to 404 and everything else to a logged 500.
func (h *handler) respondDBErr(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, sql.ErrNoRows) {
		h.respondDetail(w, r, http.StatusNotFound, "Not found.")
		return
	}
	slog.ErrorContext(r.Context(), "Request failed", slog.String("path", r.URL.Path), slog.Any("err", err))
	h.respondDetail(w, r, http.StatusInternalServerError, "Internal server error.")
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// parseID parses a numeric path value.
func parseID(r *http.Request, name string) (int, error) {
	return strconv.Atoi(r.PathValue(name))
}

type userResponse struct {
	ID          int       `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	IsSecretary bool      `json:"is_secretary"`
	DateJoined  time.Time `json:"date_joined"`
}

func newUserResponse(user database.User) userResponse {
	return userResponse{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		IsSecretary: user.IsSecretary,
		DateJoined:  user.DateJoined,
	}
}

func newUserResponses(users []database.User) []userResponse {
	responses := make([]userResponse, len(users))
	for i, user := range users {
		responses[i] = newUserResponse(user)
	}
	return responses
}

type clubResponse struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	// Privilege is the caller's highest privilege in the club, only set on
	// the club detail response.
	Privilege string `json:"privilege,omitempty"`
}

func newClubResponse(club database.Club) clubResponse {
	return clubResponse{
		ID:          club.ID,
		Name:        club.Name,
		Description: club.Description,
		CreatedAt:   club.CreatedAt,
	}
}

type clubRoleResponse struct {
	ID          int    `json:"id"`
	ClubID      int    `json:"club"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Privilege   string `json:"privilege"`
}

func newClubRoleResponse(role database.ClubRole) clubRoleResponse {
	return clubRoleResponse{
		ID:          role.ID,
		ClubID:      role.ClubID,
		Name:        role.Name,
		Description: role.Description,
		Privilege:   role.Privilege,
	}
}

type clubMembershipResponse struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user"`
	Username  string    `json:"username"`
	ClubID    int       `json:"club"`
	RoleID    int       `json:"club_role"`
	RoleName  string    `json:"role_name"`
	Privilege string    `json:"privilege"`
	Joined    time.Time `json:"joined"`
}

func newClubMembershipResponse(m database.ClubMembershipWithDetails) clubMembershipResponse {
	return clubMembershipResponse{
		ID:        m.ID,
		UserID:    m.UserID,
		Username:  m.Username,
		ClubID:    m.ClubID,
		RoleID:    m.ClubRoleID,
		RoleName:  m.RoleName,
		Privilege: m.Privilege,
		Joined:    m.Joined,
	}
}

type membershipRequestResponse struct {
	ID        int        `json:"id"`
	UserID    int        `json:"user"`
	ClubID    int        `json:"club"`
	Status    string     `json:"status"`
	Initiated time.Time  `json:"initiated"`
	Closed    *time.Time `json:"closed"`
}

func newMembershipRequestResponse(request database.MembershipRequest) membershipRequestResponse {
	return membershipRequestResponse{
		ID:        request.ID,
		UserID:    request.UserID,
		ClubID:    request.ClubID,
		Status:    request.Status,
		Initiated: request.Initiated,
		Closed:    request.Closed,
	}
}

type projectResponse struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	OwnerClubID int        `json:"owner_club"`
	LeaderID    int        `json:"leader"`
	Started     time.Time  `json:"started"`
	Closed      *time.Time `json:"closed"`
}

func newProjectResponse(project database.Project) projectResponse {
	return projectResponse{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		OwnerClubID: project.OwnerClubID,
		LeaderID:    project.LeaderID,
		Started:     project.Started,
		Closed:      project.Closed,
	}
}

type projectMembershipResponse struct {
	ID        int       `json:"id"`
	ProjectID int       `json:"project"`
	UserID    int       `json:"user"`
	Joined    time.Time `json:"joined"`
}

func newProjectMembershipResponse(m database.ProjectMembership) projectMembershipResponse {
	return projectMembershipResponse{
		ID:        m.ID,
		ProjectID: m.ProjectID,
		UserID:    m.UserID,
		Joined:    m.Joined,
	}
}

type channelResponse struct {
	ID          int    `json:"id"`
	ClubID      int    `json:"club"`
	Name        string `json:"name"`
	Description string `json:"description"`
	// Subscribed reports whether the caller subscribes to the channel, only
	// set on the channel detail response.
	Subscribed *bool `json:"subscribed,omitempty"`
}

func newChannelResponse(channel database.Channel) channelResponse {
	return channelResponse{
		ID:          channel.ID,
		ClubID:      channel.ClubID,
		Name:        channel.Name,
		Description: channel.Description,
	}
}

type postResponse struct {
	ID        int       `json:"id"`
	ChannelID int       `json:"channel"`
	Content   string    `json:"content"`
	Created   time.Time `json:"created"`
}

func newPostResponse(post database.Post) postResponse {
	return postResponse{
		ID:        post.ID,
		ChannelID: post.ChannelID,
		Content:   post.Content,
		Created:   post.Created,
	}
}

type conversationResponse struct {
	ID             int       `json:"id"`
	ChannelID      int       `json:"channel"`
	AuthorID       int       `json:"author"`
	AuthorUsername string    `json:"author_username"`
	ParentID       *int      `json:"parent"`
	Content        string    `json:"content"`
	Created        time.Time `json:"created"`
}

func newConversationResponse(c database.ConversationWithAuthor) conversationResponse {
	return conversationResponse{
		ID:             c.ID,
		ChannelID:      c.ChannelID,
		AuthorID:       c.AuthorID,
		AuthorUsername: c.AuthorUsername,
		ParentID:       c.ParentID,
		Content:        c.Content,
		Created:        c.Created,
	}
}

type feedbackResponse struct {
	ID       int       `json:"id"`
	ClubID   int       `json:"club"`
	AuthorID int       `json:"author"`
	Content  string    `json:"content"`
	Created  time.Time `json:"created"`
	ReplyID  *int      `json:"reply"`
}

func newFeedbackResponse(feedback database.FeedbackWithReply) feedbackResponse {
	return feedbackResponse{
		ID:       feedback.ID,
		ClubID:   feedback.ClubID,
		AuthorID: feedback.AuthorID,
		Content:  feedback.Content,
		Created:  feedback.Created,
		ReplyID:  feedback.ReplyID,
	}
}

type feedbackReplyResponse struct {
	ID         int       `json:"id"`
	FeedbackID int       `json:"feedback"`
	Content    string    `json:"content"`
	Created    time.Time `json:"created"`
}

func newFeedbackReplyResponse(reply database.FeedbackReply) feedbackReplyResponse {
	return feedbackReplyResponse{
		ID:         reply.ID,
		FeedbackID: reply.FeedbackID,
		Content:    reply.Content,
		Created:    reply.Created,
	}
}
