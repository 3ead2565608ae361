package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// GetMembershipRequests lists the user's own requests plus requests of clubs
// the user represents. pending < 0 returns all requests, pending == 0 only
// closed ones and anything else only pending ones.
func (d *Database) GetMembershipRequests(ctx context.Context, userID int, onlyMy bool, pending int, clubID int, orderAsc bool) ([]MembershipRequest, error) {
	query := `
		SELECT membership_requests.id,
		       membership_requests.user_id,
		       membership_requests.club_id,
		       membership_requests.status,
		       membership_requests.initiated,
		       membership_requests.closed
		FROM membership_requests
		WHERE (membership_requests.user_id = $1
		       OR EXISTS (SELECT 1
		                  FROM club_memberships
		                  JOIN club_roles ON club_roles.id = club_memberships.club_role_id
		                  WHERE club_roles.club_id = membership_requests.club_id
		                    AND club_memberships.user_id = $1
		                    AND club_roles.privilege = 'REP'))
	`
	args := []any{userID}
	if onlyMy {
		query += " AND membership_requests.user_id = $1"
	}
	if pending >= 0 {
		args = append(args, RequestStatusPending)
		if pending == 0 {
			query += fmt.Sprintf(" AND membership_requests.status <> $%d", len(args))
		} else {
			query += fmt.Sprintf(" AND membership_requests.status = $%d", len(args))
		}
	}
	if clubID != 0 {
		args = append(args, clubID)
		query += fmt.Sprintf(" AND membership_requests.club_id = $%d", len(args))
	}
	if orderAsc {
		query += " ORDER BY membership_requests.initiated"
	} else {
		query += " ORDER BY membership_requests.initiated DESC"
	}

	var requests []MembershipRequest
	if err := d.db.SelectContext(ctx, &requests, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get membership requests: %w", err)
	}

	return requests, nil
}

func (d *Database) GetMembershipRequest(ctx context.Context, requestID int) (*MembershipRequest, error) {
	query := `
		SELECT id, user_id, club_id, status, initiated, closed
		FROM membership_requests
		WHERE id = $1
	`

	var request MembershipRequest
	if err := d.db.GetContext(ctx, &request, query, requestID); err != nil {
		return nil, fmt.Errorf("failed to get membership request: %w", err)
	}

	return &request, nil
}

func (d *Database) CreateMembershipRequest(ctx context.Context, userID int, clubID int) (*MembershipRequest, error) {
	query := `
		INSERT INTO membership_requests (user_id, club_id, status)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, club_id, status, initiated, closed
	`

	var request MembershipRequest
	if err := d.db.GetContext(ctx, &request, query, userID, clubID, RequestStatusPending); err != nil {
		return nil, fmt.Errorf("failed to create membership request: %w", err)
	}

	return &request, nil
}

// HasPendingMembershipRequest reports whether the user already has an open
// request for the club.
func (d *Database) HasPendingMembershipRequest(ctx context.Context, userID int, clubID int) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1
		               FROM membership_requests
		               WHERE user_id = $1
		                 AND club_id = $2
		                 AND status = $3)
	`

	var hasPending bool
	if err := d.db.GetContext(ctx, &hasPending, query, userID, clubID, RequestStatusPending); err != nil {
		return false, fmt.Errorf("failed to check pending membership request: %w", err)
	}

	return hasPending, nil
}

// closeMembershipRequest moves a pending request to the given status and
// returns ErrRequestClosed if the request is not pending anymore.
func closeMembershipRequest(ctx context.Context, tx sqlxExtContext, requestID int, status string) (*MembershipRequest, error) {
	query := `
		UPDATE membership_requests
		SET status = $2, closed = now()
		WHERE id = $1
		  AND status = $3
		RETURNING id, user_id, club_id, status, initiated, closed
	`

	var request MembershipRequest
	if err := tx.GetContext(ctx, &request, query, requestID, status, RequestStatusPending); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRequestClosed
		}
		return nil, fmt.Errorf("failed to close membership request: %w", err)
	}

	return &request, nil
}

// AcceptMembershipRequest accepts a pending request and joins the user into
// the club's default member role in the same transaction.
func (d *Database) AcceptMembershipRequest(ctx context.Context, requestID int) (*MembershipRequest, error) {
	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	request, err := closeMembershipRequest(ctx, tx, requestID, RequestStatusAccepted)
	if err != nil {
		return nil, err
	}

	var roleID int
	if err = tx.GetContext(ctx, &roleID,
		"SELECT id FROM club_roles WHERE club_id = $1 AND privilege = $2 ORDER BY id LIMIT 1",
		request.ClubID, PrivilegeMem,
	); err != nil {
		return nil, fmt.Errorf("failed to get default member role: %w", err)
	}

	if _, err = tx.ExecContext(ctx,
		"INSERT INTO club_memberships (user_id, club_role_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
		request.UserID, roleID,
	); err != nil {
		return nil, fmt.Errorf("failed to create club membership: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return request, nil
}

func (d *Database) RejectMembershipRequest(ctx context.Context, requestID int) (*MembershipRequest, error) {
	return closeMembershipRequest(ctx, d.db, requestID, RequestStatusRejected)
}

func (d *Database) CancelMembershipRequest(ctx context.Context, requestID int) (*MembershipRequest, error) {
	return closeMembershipRequest(ctx, d.db, requestID, RequestStatusCancelled)
}
