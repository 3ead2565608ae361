package database

import (
	"time"
)

const (
	PrivilegeRep = "REP"
	PrivilegeMem = "MEM"
)

const (
	RequestStatusPending   = "PD"
	RequestStatusAccepted  = "AC"
	RequestStatusRejected  = "RE"
	RequestStatusCancelled = "CN"
)

type User struct {
	ID           int       `db:"id"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	FirstName    string    `db:"first_name"`
	LastName     string    `db:"last_name"`
	IsSecretary  bool      `db:"is_secretary"`
	DateJoined   time.Time `db:"date_joined"`
}

type SocialConnection struct {
	Provider       string    `db:"provider"`
	ProviderUserID string    `db:"provider_user_id"`
	UserID         int       `db:"user_id"`
	ConnectedAt    time.Time `db:"connected_at"`
}

type Session struct {
	ID        string    `db:"id"`
	UserID    int       `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
	ExpiresAt time.Time `db:"expires_at"`
}

type SessionWithUser struct {
	Session
	User User `db:"user"`
}

type Club struct {
	ID          int       `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}

type ClubRole struct {
	ID          int    `db:"id"`
	ClubID      int    `db:"club_id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	Privilege   string `db:"privilege"`
}

type ClubMembership struct {
	ID         int       `db:"id"`
	UserID     int       `db:"user_id"`
	ClubRoleID int       `db:"club_role_id"`
	Joined     time.Time `db:"joined"`
}

type ClubMembershipWithDetails struct {
	ClubMembership
	Username  string `db:"username"`
	ClubID    int    `db:"club_id"`
	RoleName  string `db:"role_name"`
	Privilege string `db:"privilege"`
}

type MembershipRequest struct {
	ID        int        `db:"id"`
	UserID    int        `db:"user_id"`
	ClubID    int        `db:"club_id"`
	Initiated time.Time  `db:"initiated"`
	Status    string     `db:"status"`
	Closed    *time.Time `db:"closed"`
}

type Project struct {
	ID          int        `db:"id"`
	Name        string     `db:"name"`
	Description string     `db:"description"`
	OwnerClubID int        `db:"owner_club_id"`
	LeaderID    int        `db:"leader_id"`
	Started     time.Time  `db:"started"`
	Closed      *time.Time `db:"closed"`
}

type ProjectMembership struct {
	ID        int       `db:"id"`
	UserID    int       `db:"user_id"`
	ProjectID int       `db:"project_id"`
	Joined    time.Time `db:"joined"`
}

type Channel struct {
	ID          int    `db:"id"`
	ClubID      int    `db:"club_id"`
	Name        string `db:"name"`
	Description string `db:"description"`
}

type Post struct {
	ID        int       `db:"id"`
	ChannelID int       `db:"channel_id"`
	Content   string    `db:"content"`
	Created   time.Time `db:"created"`
}

type Conversation struct {
	ID        int       `db:"id"`
	ChannelID int       `db:"channel_id"`
	AuthorID  int       `db:"author_id"`
	ParentID  *int      `db:"parent_id"`
	Content   string    `db:"content"`
	Created   time.Time `db:"created"`
}

type ConversationWithAuthor struct {
	Conversation
	AuthorUsername string `db:"author_username"`
}

type Feedback struct {
	ID       int       `db:"id"`
	ClubID   int       `db:"club_id"`
	AuthorID int       `db:"author_id"`
	Content  string    `db:"content"`
	Created  time.Time `db:"created"`
}

type FeedbackWithReply struct {
	Feedback
	ReplyID *int `db:"reply_id"`
}

type FeedbackReply struct {
	ID         int       `db:"id"`
	FeedbackID int       `db:"feedback_id"`
	Content    string    `db:"content"`
	Created    time.Time `db:"created"`
}

// Stats are the entity counts shown on the admin dashboard.
type Stats struct {
	Users           int
	Clubs           int
	Projects        int
	Posts           int
	Feedbacks       int
	PendingRequests int
}
