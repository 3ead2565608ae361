package database

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDatabase(t *testing.T) (*Database, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = mockDB.Close()
	})
	return Open(sqlx.NewDb(mockDB, "pgx")), mock
}

func TestCreateUser(t *testing.T) {
	t.Run("creates user", func(t *testing.T) {
		db, mock := newMockDatabase(t)

		now := time.Now()
		mock.ExpectQuery(`INSERT INTO users`).
			WithArgs("alice", "alice@example.com", "hash", "Alice", "A", false).
			WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "first_name", "last_name", "is_secretary", "date_joined"}).
				AddRow(1, "alice", "alice@example.com", "hash", "Alice", "A", false, now))

		user, err := db.CreateUser(context.Background(), User{
			Username:     "alice",
			Email:        "alice@example.com",
			PasswordHash: "hash",
			FirstName:    "Alice",
			LastName:     "A",
		})
		require.NoError(t, err)
		assert.Equal(t, 1, user.ID)
		assert.Equal(t, "alice", user.Username)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate username", func(t *testing.T) {
		db, mock := newMockDatabase(t)

		mock.ExpectQuery(`INSERT INTO users`).
			WillReturnError(&pgconn.PgError{Code: "23505"})

		_, err := db.CreateUser(context.Background(), User{Username: "alice"})
		assert.ErrorIs(t, err, ErrAlreadyExists)
	})
}

func TestGetSessionWithUser(t *testing.T) {
	columns := []string{
		"id", "user_id", "created_at", "expires_at",
		"user.id", "user.username", "user.email", "user.password_hash",
		"user.first_name", "user.last_name", "user.is_secretary", "user.date_joined",
	}

	t.Run("valid session", func(t *testing.T) {
		db, mock := newMockDatabase(t)

		now := time.Now()
		mock.ExpectQuery(`SELECT sessions.id`).
			WithArgs("token").
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow("token", 1, now, now.Add(time.Hour), 1, "alice", "", "hash", "", "", true, now))

		session, err := db.GetSessionWithUser(context.Background(), "token")
		require.NoError(t, err)
		assert.Equal(t, "token", session.ID)
		assert.Equal(t, "alice", session.User.Username)
		assert.True(t, session.User.IsSecretary)
	})

	t.Run("expired session", func(t *testing.T) {
		db, mock := newMockDatabase(t)

		now := time.Now()
		mock.ExpectQuery(`SELECT sessions.id`).
			WithArgs("token").
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow("token", 1, now.Add(-2*time.Hour), now.Add(-time.Hour), 1, "alice", "", "", "", "", false, now))

		_, err := db.GetSessionWithUser(context.Background(), "token")
		assert.ErrorIs(t, err, ErrSessionExpired)
	})

	t.Run("unknown session", func(t *testing.T) {
		db, mock := newMockDatabase(t)

		mock.ExpectQuery(`SELECT sessions.id`).
			WithArgs("token").
			WillReturnError(sql.ErrNoRows)

		_, err := db.GetSessionWithUser(context.Background(), "token")
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})
}

func TestCreateClub(t *testing.T) {
	db, mock := newMockDatabase(t)

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO clubs`).
		WithArgs("Chess", "Chess club").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "created_at"}).
			AddRow(1, "Chess", "Chess club", now))
	mock.ExpectExec(`INSERT INTO club_roles`).
		WithArgs(1, "Representative", "Default representative role", PrivilegeRep).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO club_roles`).
		WithArgs(1, "Member", "Default member role", PrivilegeMem).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO channels`).
		WithArgs(1, "Chess", "Channel of Chess").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	club, err := db.CreateClub(context.Background(), "Chess", "Chess club")
	require.NoError(t, err)
	assert.Equal(t, 1, club.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAcceptMembershipRequest(t *testing.T) {
	requestColumns := []string{"id", "user_id", "club_id", "status", "initiated", "closed"}

	t.Run("accepts pending request and joins default role", func(t *testing.T) {
		db, mock := newMockDatabase(t)

		now := time.Now()
		mock.ExpectBegin()
		mock.ExpectQuery(`UPDATE membership_requests`).
			WithArgs(7, RequestStatusAccepted, RequestStatusPending).
			WillReturnRows(sqlmock.NewRows(requestColumns).
				AddRow(7, 2, 3, RequestStatusAccepted, now, now))
		mock.ExpectQuery(`SELECT id FROM club_roles`).
			WithArgs(3, PrivilegeMem).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
		mock.ExpectExec(`INSERT INTO club_memberships`).
			WithArgs(2, 11).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		request, err := db.AcceptMembershipRequest(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, RequestStatusAccepted, request.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already closed request", func(t *testing.T) {
		db, mock := newMockDatabase(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`UPDATE membership_requests`).
			WithArgs(7, RequestStatusAccepted, RequestStatusPending).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		_, err := db.AcceptMembershipRequest(context.Background(), 7)
		assert.ErrorIs(t, err, ErrRequestClosed)
	})
}

func TestCancelMembershipRequest(t *testing.T) {
	db, mock := newMockDatabase(t)

	mock.ExpectQuery(`UPDATE membership_requests`).
		WithArgs(7, RequestStatusCancelled, RequestStatusPending).
		WillReturnError(sql.ErrNoRows)

	_, err := db.CancelMembershipRequest(context.Background(), 7)
	assert.ErrorIs(t, err, ErrRequestClosed)
}

func TestHasPendingMembershipRequest(t *testing.T) {
	db, mock := newMockDatabase(t)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(2, 3, RequestStatusPending).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	hasPending, err := db.HasPendingMembershipRequest(context.Background(), 2, 3)
	require.NoError(t, err)
	assert.True(t, hasPending)
}

func TestCreateFeedbackReply(t *testing.T) {
	t.Run("second reply is rejected", func(t *testing.T) {
		db, mock := newMockDatabase(t)

		mock.ExpectQuery(`INSERT INTO feedback_replies`).
			WithArgs(5, "thanks").
			WillReturnError(&pgconn.PgError{Code: "23505"})

		_, err := db.CreateFeedbackReply(context.Background(), 5, "thanks")
		assert.ErrorIs(t, err, ErrAlreadyExists)
	})

	t.Run("creates reply", func(t *testing.T) {
		db, mock := newMockDatabase(t)

		now := time.Now()
		mock.ExpectQuery(`INSERT INTO feedback_replies`).
			WithArgs(5, "thanks").
			WillReturnRows(sqlmock.NewRows([]string{"id", "feedback_id", "content", "created"}).
				AddRow(1, 5, "thanks", now))

		reply, err := db.CreateFeedbackReply(context.Background(), 5, "thanks")
		require.NoError(t, err)
		assert.Equal(t, 5, reply.FeedbackID)
	})
}

func TestGetProjects(t *testing.T) {
	columns := []string{"id", "name", "description", "owner_club_id", "leader_id", "started", "closed"}

	t.Run("scoped to the user's clubs", func(t *testing.T) {
		db, mock := newMockDatabase(t)

		mock.ExpectQuery(`FROM projects.*club_memberships\.user_id = \$1`).
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(4, "Robotics", "", 3, 2, time.Now(), nil))

		projects, err := db.GetProjects(context.Background(), 1, false, false, 0, "")
		require.NoError(t, err)
		require.Len(t, projects, 1)
		assert.Equal(t, 3, projects[0].OwnerClubID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("secretary sees projects of all clubs", func(t *testing.T) {
		db, mock := newMockDatabase(t)

		mock.ExpectQuery(`FROM projects`).
			WithArgs().
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(4, "Robotics", "", 3, 2, time.Now(), nil).
				AddRow(5, "Drama", "", 8, 6, time.Now(), nil))

		projects, err := db.GetProjects(context.Background(), 1, true, false, 0, "")
		require.NoError(t, err)
		assert.Len(t, projects, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetFeedbacks(t *testing.T) {
	columns := []string{"id", "club_id", "author_id", "content", "created", "reply_id"}

	t.Run("scoped to own feedback and represented clubs", func(t *testing.T) {
		db, mock := newMockDatabase(t)

		mock.ExpectQuery(`FROM feedbacks.*club_roles\.privilege = 'REP'`).
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(5, 3, 1, "hi", time.Now(), nil))

		feedbacks, err := db.GetFeedbacks(context.Background(), 1, false, false, 0, false)
		require.NoError(t, err)
		require.Len(t, feedbacks, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("secretary sees all feedback", func(t *testing.T) {
		db, mock := newMockDatabase(t)

		mock.ExpectQuery(`FROM feedbacks`).
			WithArgs().
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(5, 3, 2, "hi", time.Now(), nil).
				AddRow(6, 8, 4, "ho", time.Now(), nil))

		feedbacks, err := db.GetFeedbacks(context.Background(), 1, true, false, 0, false)
		require.NoError(t, err)
		assert.Len(t, feedbacks, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetFeedbackReplies(t *testing.T) {
	columns := []string{"id", "feedback_id", "content", "created"}

	t.Run("scoped to visible feedback", func(t *testing.T) {
		db, mock := newMockDatabase(t)

		mock.ExpectQuery(`feedback_replies\.feedback_id = \$2`).
			WithArgs(1, 5).
			WillReturnRows(sqlmock.NewRows(columns).AddRow(9, 5, "thanks", time.Now()))

		replies, err := db.GetFeedbackReplies(context.Background(), 1, false, 5)
		require.NoError(t, err)
		assert.Len(t, replies, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("secretary sees all replies", func(t *testing.T) {
		db, mock := newMockDatabase(t)

		mock.ExpectQuery(`feedback_replies\.feedback_id = \$1`).
			WithArgs(5).
			WillReturnRows(sqlmock.NewRows(columns).AddRow(9, 5, "thanks", time.Now()))

		replies, err := db.GetFeedbackReplies(context.Background(), 1, true, 5)
		require.NoError(t, err)
		assert.Len(t, replies, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetPosts(t *testing.T) {
	columns := []string{"id", "channel_id", "content", "created"}

	t.Run("default feed covers subscribed channels", func(t *testing.T) {
		db, mock := newMockDatabase(t)

		mock.ExpectQuery(`FROM channel_subscriptions.*channel_subscriptions\.user_id = \$1`).
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows(columns).AddRow(2, 3, "hello", time.Now()))

		posts, err := db.GetPosts(context.Background(), 1, 0, "", false)
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, 3, posts[0].ChannelID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("explicit channel skips the subscription scope", func(t *testing.T) {
		db, mock := newMockDatabase(t)

		mock.ExpectQuery(`posts\.channel_id = \$1`).
			WithArgs(3).
			WillReturnRows(sqlmock.NewRows(columns).AddRow(2, 3, "hello", time.Now()))

		posts, err := db.GetPosts(context.Background(), 1, 3, "", false)
		require.NoError(t, err)
		assert.Len(t, posts, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetClubMemberships(t *testing.T) {
	columns := []string{"id", "user_id", "club_role_id", "joined", "username", "club_id", "role_name", "privilege"}

	t.Run("lists members of all clubs", func(t *testing.T) {
		db, mock := newMockDatabase(t)

		mock.ExpectQuery(`FROM club_memberships`).
			WithArgs().
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(1, 2, 3, time.Now(), "alice", 4, "Member", PrivilegeMem).
				AddRow(2, 5, 6, time.Now(), "bob", 7, "Member", PrivilegeMem))

		memberships, err := db.GetClubMemberships(context.Background(), 0)
		require.NoError(t, err)
		assert.Len(t, memberships, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("filters by club", func(t *testing.T) {
		db, mock := newMockDatabase(t)

		mock.ExpectQuery(`club_roles\.club_id = \$1`).
			WithArgs(4).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(1, 2, 3, time.Now(), "alice", 4, "Member", PrivilegeMem))

		memberships, err := db.GetClubMemberships(context.Background(), 4)
		require.NoError(t, err)
		assert.Len(t, memberships, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetMembershipRequests(t *testing.T) {
	columns := []string{"id", "user_id", "club_id", "status", "initiated", "closed"}

	t.Run("no status filter by default", func(t *testing.T) {
		db, mock := newMockDatabase(t)

		mock.ExpectQuery(`FROM membership_requests`).
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(7, 1, 3, RequestStatusAccepted, time.Now(), time.Now()).
				AddRow(8, 1, 4, RequestStatusPending, time.Now(), nil))

		requests, err := db.GetMembershipRequests(context.Background(), 1, false, -1, 0, false)
		require.NoError(t, err)
		assert.Len(t, requests, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("pending zero excludes pending requests", func(t *testing.T) {
		db, mock := newMockDatabase(t)

		mock.ExpectQuery(`membership_requests\.status <> \$2`).
			WithArgs(1, RequestStatusPending).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(7, 1, 3, RequestStatusAccepted, time.Now(), time.Now()))

		requests, err := db.GetMembershipRequests(context.Background(), 1, false, 0, 0, false)
		require.NoError(t, err)
		require.Len(t, requests, 1)
		assert.Equal(t, RequestStatusAccepted, requests[0].Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("pending one keeps only pending requests", func(t *testing.T) {
		db, mock := newMockDatabase(t)

		mock.ExpectQuery(`membership_requests\.status = \$2`).
			WithArgs(1, RequestStatusPending).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(8, 1, 4, RequestStatusPending, time.Now(), nil))

		requests, err := db.GetMembershipRequests(context.Background(), 1, false, 1, 0, false)
		require.NoError(t, err)
		require.Len(t, requests, 1)
		assert.Equal(t, RequestStatusPending, requests[0].Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCloseProjectIsIdempotent(t *testing.T) {
	db, mock := newMockDatabase(t)

	mock.ExpectExec(`UPDATE projects SET closed = now\(\)`).
		WithArgs(4).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, db.CloseProject(context.Background(), 4))
}
