package api

import (
	"net/http"

	"github.com/mani-shailesh/focus/internal/xquery"
	"github.com/mani-shailesh/focus/server/auth"
	"github.com/mani-shailesh/focus/server/database"
)

func (h *handler) Projects(w http.ResponseWriter, r *http.Request) {
	session := auth.GetSession(r)
	query := r.URL.Query()

	projects, err := h.DB.GetProjects(r.Context(),
		session.User.ID,
		session.User.IsSecretary,
		xquery.ParseBool(query, "only_my", false),
		xquery.ParseInt(query, "club_id", 0),
		xquery.ParseString(query, "search", ""),
	)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	responses := make([]projectResponse, len(projects))
	for i, project := range projects {
		responses[i] = newProjectResponse(project)
	}
	h.respond(w, r, http.StatusOK, responses)
}

// getVisibleProject loads a project if the user is a member of the owning
// club or the secretary.
func (h *handler) getVisibleProject(w http.ResponseWriter, r *http.Request) (*database.Project, bool) {
	session := auth.GetSession(r)
	projectID, err := parseID(r, "project_id")
	if err != nil {
		h.respondDetail(w, r, http.StatusBadRequest, "Invalid project id.")
		return nil, false
	}

	project, err := h.DB.GetProject(r.Context(), projectID)
	if err != nil {
		h.respondDBErr(w, r, err)
		return nil, false
	}

	if !session.User.IsSecretary {
		isMember, err := h.DB.ClubHasMember(r.Context(), project.OwnerClubID, session.User.ID)
		if err != nil {
			h.respondDBErr(w, r, err)
			return nil, false
		}
		if !isMember {
			h.respondDetail(w, r, http.StatusNotFound, "Not found.")
			return nil, false
		}
	}

	return project, true
}

func (h *handler) Project(w http.ResponseWriter, r *http.Request) {
	project, ok := h.getVisibleProject(w, r)
	if !ok {
		return
	}
	h.respond(w, r, http.StatusOK, newProjectResponse(*project))
}

type createProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	OwnerClubID int    `json:"owner_club"`
	LeaderID    int    `json:"leader"`
}

// CreateProject starts a project under a club. Restricted to representatives
// of the club, and the leader must be a club member.
func (h *handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var body createProjectRequest
	if err := decodeJSON(r, &body); err != nil || body.Name == "" || body.OwnerClubID == 0 || body.LeaderID == 0 {
		h.respondDetail(w, r, http.StatusBadRequest, "Name, owner club and leader are required.")
		return
	}

	canManage, err := h.canManageClub(r, body.OwnerClubID)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}
	if !canManage {
		h.respondDetail(w, r, http.StatusForbidden, "Only club representatives can start projects.")
		return
	}

	leaderIsMember, err := h.DB.ClubHasMember(r.Context(), body.OwnerClubID, body.LeaderID)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}
	if !leaderIsMember {
		h.respondDetail(w, r, http.StatusBadRequest, "The leader must be a member of the owning club.")
		return
	}

	project, err := h.DB.CreateProject(r.Context(), body.Name, body.Description, body.OwnerClubID, body.LeaderID)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	h.respond(w, r, http.StatusCreated, newProjectResponse(*project))
}

// canManageProject reports whether the user may administer the project,
// meaning the project leader, a club representative or the secretary.
func (h *handler) canManageProject(r *http.Request, project *database.Project) (bool, error) {
	session := auth.GetSession(r)
	if session.User.ID == project.LeaderID {
		return true, nil
	}
	return h.canManageClub(r, project.OwnerClubID)
}

type updateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	LeaderID    *int    `json:"leader"`
}

func (h *handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	project, ok := h.getVisibleProject(w, r)
	if !ok {
		return
	}

	canManage, err := h.canManageProject(r, project)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}
	if !canManage {
		h.respondDetail(w, r, http.StatusForbidden, "Only the project leader can edit the project.")
		return
	}

	var body updateProjectRequest
	if err = decodeJSON(r, &body); err != nil {
		h.respondDetail(w, r, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if body.Name != nil {
		project.Name = *body.Name
	}
	if body.Description != nil {
		project.Description = *body.Description
	}
	if body.LeaderID != nil {
		leaderIsMember, err := h.DB.ClubHasMember(r.Context(), project.OwnerClubID, *body.LeaderID)
		if err != nil {
			h.respondDBErr(w, r, err)
			return
		}
		if !leaderIsMember {
			h.respondDetail(w, r, http.StatusBadRequest, "The leader must be a member of the owning club.")
			return
		}
		project.LeaderID = *body.LeaderID
	}

	if err = h.DB.UpdateProject(r.Context(), project.ID, project.Name, project.Description, project.LeaderID); err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	h.respond(w, r, http.StatusOK, newProjectResponse(*project))
}

func (h *handler) CloseProject(w http.ResponseWriter, r *http.Request) {
	project, ok := h.getVisibleProject(w, r)
	if !ok {
		return
	}

	canManage, err := h.canManageProject(r, project)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}
	if !canManage {
		h.respondDetail(w, r, http.StatusForbidden, "Only the project leader can close the project.")
		return
	}

	if err = h.DB.CloseProject(r.Context(), project.ID); err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	updated, err := h.DB.GetProject(r.Context(), project.ID)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	h.respond(w, r, http.StatusOK, newProjectResponse(*updated))
}

func (h *handler) ReopenProject(w http.ResponseWriter, r *http.Request) {
	project, ok := h.getVisibleProject(w, r)
	if !ok {
		return
	}

	canManage, err := h.canManageProject(r, project)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}
	if !canManage {
		h.respondDetail(w, r, http.StatusForbidden, "Only the project leader can reopen the project.")
		return
	}

	if err = h.DB.ReopenProject(r.Context(), project.ID); err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	updated, err := h.DB.GetProject(r.Context(), project.ID)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	h.respond(w, r, http.StatusOK, newProjectResponse(*updated))
}
