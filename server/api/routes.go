package api

import (
	"net/http"

	"github.com/mani-shailesh/focus/server"
)

type handler struct {
	*server.Server
}

// Routes builds the HTTP handler serving the REST API, the auth endpoints,
// the admin endpoints and the API documentation.
func Routes(srv *server.Server) http.Handler {
	h := &handler{Server: srv}

	mux := http.NewServeMux()
	mux.HandleFunc("/", h.NotFound)

	mux.HandleFunc("GET /docs", h.Docs)
	mux.HandleFunc("GET /docs/openapi.json", h.OpenAPISpec)

	authMux := http.NewServeMux()
	authMux.HandleFunc("POST /auth/register", h.Register)
	authMux.HandleFunc("POST /auth/login", h.Login)
	authMux.HandleFunc("GET /auth/{provider}/login", h.SocialLogin)
	authMux.HandleFunc("GET /auth/{provider}/callback", h.SocialLoginCallback)
	authMux.Handle("POST /auth/logout", h.Authenticated(http.HandlerFunc(h.Logout)))
	authMux.Handle("POST /auth/password", h.Authenticated(http.HandlerFunc(h.ChangePassword)))
	mux.Handle("/auth/", h.RateLimited(authMux))

	apiMux := http.NewServeMux()
	apiMux.HandleFunc("/", h.NotFound)

	apiMux.HandleFunc("GET /api/users", h.Users)
	apiMux.HandleFunc("GET /api/users/me", h.CurrentUser)
	apiMux.HandleFunc("PATCH /api/users/me", h.UpdateCurrentUser)
	apiMux.HandleFunc("GET /api/users/{user_id}", h.User)

	apiMux.HandleFunc("GET /api/clubs", h.Clubs)
	apiMux.HandleFunc("POST /api/clubs", h.CreateClub)
	apiMux.HandleFunc("GET /api/clubs/{club_id}", h.Club)
	apiMux.HandleFunc("PATCH /api/clubs/{club_id}", h.UpdateClub)
	apiMux.HandleFunc("DELETE /api/clubs/{club_id}", h.DeleteClub)
	apiMux.HandleFunc("GET /api/clubs/{club_id}/qr", h.ClubQR)

	apiMux.HandleFunc("GET /api/clubroles", h.ClubRoles)
	apiMux.HandleFunc("POST /api/clubroles", h.CreateClubRole)
	apiMux.HandleFunc("GET /api/clubroles/{role_id}", h.ClubRole)
	apiMux.HandleFunc("PATCH /api/clubroles/{role_id}", h.UpdateClubRole)
	apiMux.HandleFunc("DELETE /api/clubroles/{role_id}", h.DeleteClubRole)

	apiMux.HandleFunc("GET /api/clubmemberships", h.ClubMemberships)
	apiMux.HandleFunc("POST /api/clubmemberships", h.CreateClubMembership)
	apiMux.HandleFunc("GET /api/clubmemberships/{membership_id}", h.ClubMembership)
	apiMux.HandleFunc("PATCH /api/clubmemberships/{membership_id}", h.UpdateClubMembership)
	apiMux.HandleFunc("DELETE /api/clubmemberships/{membership_id}", h.DeleteClubMembership)

	apiMux.HandleFunc("GET /api/clubmembershiprequests", h.MembershipRequests)
	apiMux.HandleFunc("POST /api/clubmembershiprequests", h.CreateMembershipRequest)
	apiMux.HandleFunc("GET /api/clubmembershiprequests/{request_id}", h.MembershipRequest)
	apiMux.HandleFunc("POST /api/clubmembershiprequests/{request_id}/accept", h.AcceptMembershipRequest)
	apiMux.HandleFunc("POST /api/clubmembershiprequests/{request_id}/reject", h.RejectMembershipRequest)
	apiMux.HandleFunc("POST /api/clubmembershiprequests/{request_id}/cancel", h.CancelMembershipRequest)

	apiMux.HandleFunc("GET /api/projects", h.Projects)
	apiMux.HandleFunc("POST /api/projects", h.CreateProject)
	apiMux.HandleFunc("GET /api/projects/{project_id}", h.Project)
	apiMux.HandleFunc("PATCH /api/projects/{project_id}", h.UpdateProject)
	apiMux.HandleFunc("POST /api/projects/{project_id}/close", h.CloseProject)
	apiMux.HandleFunc("POST /api/projects/{project_id}/reopen", h.ReopenProject)

	apiMux.HandleFunc("GET /api/projectmemberships", h.ProjectMemberships)
	apiMux.HandleFunc("POST /api/projectmemberships", h.CreateProjectMembership)
	apiMux.HandleFunc("GET /api/projectmemberships/{membership_id}", h.ProjectMembership)
	apiMux.HandleFunc("DELETE /api/projectmemberships/{membership_id}", h.DeleteProjectMembership)

	apiMux.HandleFunc("GET /api/channels", h.Channels)
	apiMux.HandleFunc("GET /api/channels/{channel_id}", h.Channel)
	apiMux.HandleFunc("PATCH /api/channels/{channel_id}", h.UpdateChannel)
	apiMux.HandleFunc("POST /api/channels/{channel_id}/subscribe", h.SubscribeChannel)
	apiMux.HandleFunc("POST /api/channels/{channel_id}/unsubscribe", h.UnsubscribeChannel)
	apiMux.HandleFunc("GET /api/channels/{channel_id}/subscribers", h.ChannelSubscribers)

	apiMux.HandleFunc("GET /api/posts", h.Posts)
	apiMux.HandleFunc("POST /api/posts", h.CreatePost)
	apiMux.HandleFunc("GET /api/posts/{post_id}", h.Post)
	apiMux.HandleFunc("PATCH /api/posts/{post_id}", h.UpdatePost)
	apiMux.HandleFunc("DELETE /api/posts/{post_id}", h.DeletePost)

	apiMux.HandleFunc("GET /api/conversations", h.Conversations)
	apiMux.HandleFunc("POST /api/conversations", h.CreateConversation)
	apiMux.HandleFunc("GET /api/conversations/{conversation_id}", h.Conversation)
	apiMux.HandleFunc("DELETE /api/conversations/{conversation_id}", h.DeleteConversation)

	apiMux.HandleFunc("GET /api/feedbacks", h.Feedbacks)
	apiMux.HandleFunc("POST /api/feedbacks", h.CreateFeedback)
	apiMux.HandleFunc("GET /api/feedbacks/{feedback_id}", h.Feedback)

	apiMux.HandleFunc("GET /api/feedbackreplies", h.FeedbackReplies)
	apiMux.HandleFunc("POST /api/feedbackreplies", h.CreateFeedbackReply)
	apiMux.HandleFunc("GET /api/feedbackreplies/{reply_id}", h.FeedbackReply)

	mux.Handle("/api/", h.Authenticated(apiMux))

	adminMux := http.NewServeMux()
	adminMux.HandleFunc("/", h.NotFound)
	adminMux.HandleFunc("GET /admin/users", h.AdminUsers)
	adminMux.HandleFunc("PATCH /admin/users/{user_id}", h.AdminUpdateUser)
	adminMux.HandleFunc("GET /admin/stats", h.AdminStats)
	mux.Handle("/admin/", h.Authenticated(h.SecretaryOnly(adminMux)))

	return h.AccessLog(mux)
}

func (h *handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.respondDetail(w, r, http.StatusNotFound, "Not found.")
}
