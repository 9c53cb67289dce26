package server

import (
	"net/http"

	"github.com/sharein/sharein/internal/middleware"
	"github.com/sharein/sharein/internal/models"
)

type createGroupRequest struct {
	Name string `json:"name"`
	// GroupType is optional; omitted defaults to models.DefaultGroupType.
	// An explicitly empty string is rejected.
	GroupType *string `json:"groupType"`
}

type memberChangeRequest struct {
	UserID  string `json:"userId"`
	GroupID string `json:"groupId"`
}

func (s *Server) createGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	groupType := models.DefaultGroupType
	if req.GroupType != nil {
		groupType = *req.GroupType
	}

	group, err := s.groups.Create(r.Context(), middleware.GetUserID(r.Context()), req.Name, groupType)
	if err != nil {
		writeError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, group)
}

func (s *Server) getGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.groups.ListForUser(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	if groups == nil {
		groups = []*models.Group{}
	}
	respondJSON(w, http.StatusOK, groups)
}

func (s *Server) getGroup(w http.ResponseWriter, r *http.Request) {
	group, err := s.groups.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, group)
}

func (s *Server) getGroupBalances(w http.ResponseWriter, r *http.Request) {
	balances, err := s.groups.Balances(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"balances": balances})
}

func (s *Server) deleteGroup(w http.ResponseWriter, r *http.Request) {
	group, err := s.groups.Delete(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": "your group has been deleted",
		"group":   group,
	})
}

func (s *Server) addUserToGroup(w http.ResponseWriter, r *http.Request) {
	var req memberChangeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	group, err := s.groups.AddMember(r.Context(), req.UserID, req.GroupID)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, group)
}

func (s *Server) removeUserFromGroup(w http.ResponseWriter, r *http.Request) {
	var req memberChangeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	removed, group, err := s.groups.RemoveMember(r.Context(), req.UserID, req.GroupID)
	if err != nil {
		writeError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"removed": removed,
		"group":   group,
	})
}
