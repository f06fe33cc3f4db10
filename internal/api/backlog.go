package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Brightside-Labs/Compass/internal/backlog"
	"github.com/Brightside-Labs/Compass/internal/events"
	"github.com/Brightside-Labs/Compass/internal/matching"
	"github.com/Brightside-Labs/Compass/internal/store"
)

type BacklogHandler struct {
	store  store.Store
	events events.Client
	logger *slog.Logger
}

func NewBacklogHandler(s store.Store, e events.Client, logger *slog.Logger) *BacklogHandler {
	return &BacklogHandler{store: s, events: e, logger: logger}
}

type CreateItemRequest struct {
	Type           string   `json:"type"`
	Title          string   `json:"title"`
	Description    string   `json:"description,omitempty"`
	ParentID       string   `json:"parent_id,omitempty"`
	SprintID       string   `json:"sprint_id,omitempty"`
	AssigneeID     string   `json:"assignee_id,omitempty"`
	StoryPoints    *int     `json:"story_points,omitempty"`
	BusinessValue  *int     `json:"business_value,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	RequiredSkills []string `json:"required_skills,omitempty"`
}

// parentTypeFor returns the required parent type for an item type. Epics
// have no parent.
func parentTypeFor(t store.ItemType) (store.ItemType, bool) {
	switch t {
	case store.TypeStory:
		return store.TypeFeature, true
	case store.TypeFeature:
		return store.TypeEpic, true
	default:
		return "", false
	}
}

// Hierarchy handles GET /psa/backlog/{projectID}, returning the full forest.
func (h *BacklogHandler) Hierarchy(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuid.Parse(chi.URLParam(r, "projectID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}

	items, err := h.store.ListBacklogItems(r.Context(), store.BacklogFilter{ProjectID: &projectID})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	items = backlog.CollapseDuplicates(items)
	if dangling := backlog.Dangling(items); len(dangling) > 0 {
		h.logger.Warn("backlog items reference missing parents",
			"project_id", projectID, "count", len(dangling))
	}

	roots := backlog.Build(items)
	if roots == nil {
		roots = []*store.BacklogItem{}
	}
	writeData(w, http.StatusOK, roots)
}

// Create handles POST /psa/backlog/{projectID}.
func (h *BacklogHandler) Create(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuid.Parse(chi.URLParam(r, "projectID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}

	var req CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title required")
		return
	}
	itemType := store.ItemType(req.Type)
	if !store.ValidType(itemType) {
		writeError(w, http.StatusBadRequest, "type must be epic, feature or story")
		return
	}

	item := &store.BacklogItem{
		ProjectID:      projectID,
		Type:           itemType,
		Title:          req.Title,
		Description:    req.Description,
		Status:         store.StatusBacklog,
		StoryPoints:    req.StoryPoints,
		BusinessValue:  req.BusinessValue,
		Tags:           req.Tags,
		RequiredSkills: req.RequiredSkills,
	}

	if req.ParentID != "" {
		pid, err := uuid.Parse(req.ParentID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid parent_id")
			return
		}
		wantType, allowed := parentTypeFor(itemType)
		if !allowed {
			writeError(w, http.StatusBadRequest, "epics cannot have a parent")
			return
		}
		parent, err := h.store.GetBacklogItem(r.Context(), pid)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if parent == nil {
			writeError(w, http.StatusBadRequest, "parent item not found")
			return
		}
		if parent.Type != wantType {
			writeError(w, http.StatusBadRequest, "a "+string(itemType)+" must belong to a "+string(wantType))
			return
		}
		item.ParentID = &pid
	}

	if req.SprintID != "" {
		sid, err := uuid.Parse(req.SprintID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid sprint_id")
			return
		}
		item.SprintID = &sid
	}
	if req.AssigneeID != "" {
		aid, err := uuid.Parse(req.AssigneeID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid assignee_id")
			return
		}
		item.AssigneeID = &aid
	}

	dup, err := h.store.FindBacklogDuplicate(r.Context(), projectID, item.Title, item.ParentID, item.Type)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if dup != nil {
		writeError(w, http.StatusConflict, "an item with this title already exists here")
		return
	}

	if err := h.store.CreateBacklogItem(r.Context(), item); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if h.events != nil {
		_ = h.events.Publish(events.SubjectItemCreated(item.ID.String()), events.ItemEvent{
			ItemID:    item.ID.String(),
			ProjectID: item.ProjectID.String(),
			Type:      string(item.Type),
			Status:    string(item.Status),
			Title:     item.Title,
		})
	}

	writeData(w, http.StatusCreated, item)
}

// Get handles GET /psa/backlog/item/{id}.
func (h *BacklogHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := h.store.GetBacklogItem(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}
	writeData(w, http.StatusOK, item)
}

type UpdateItemRequest struct {
	Type               string   `json:"type"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Status             string   `json:"status"`
	ParentID           string   `json:"parent_id"`
	SprintID           string   `json:"sprint_id"`
	AssigneeID         string   `json:"assignee_id"`
	StoryPoints        *int     `json:"story_points"`
	BusinessValue      *int     `json:"business_value"`
	Tags               []string `json:"tags"`
	RequiredSkills     []string `json:"required_skills"`
	AcceptanceCriteria []string `json:"acceptance_criteria"`
}

// Update handles PUT /psa/backlog/item/{id} as a full-object replace.
func (h *BacklogHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := h.store.GetBacklogItem(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}

	var req UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title required")
		return
	}
	itemType := store.ItemType(req.Type)
	if !store.ValidType(itemType) {
		writeError(w, http.StatusBadRequest, "type must be epic, feature or story")
		return
	}
	status := store.ItemStatus(req.Status)
	if !store.ValidStatus(status) {
		writeError(w, http.StatusBadRequest, "invalid status")
		return
	}

	item.Type = itemType
	item.Title = req.Title
	item.Description = req.Description
	item.Status = status
	item.StoryPoints = req.StoryPoints
	item.BusinessValue = req.BusinessValue
	item.Tags = req.Tags
	item.RequiredSkills = req.RequiredSkills
	item.AcceptanceCriteria = req.AcceptanceCriteria

	item.ParentID = nil
	if req.ParentID != "" {
		pid, err := uuid.Parse(req.ParentID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid parent_id")
			return
		}
		wantType, allowed := parentTypeFor(itemType)
		if !allowed {
			writeError(w, http.StatusBadRequest, "epics cannot have a parent")
			return
		}
		parent, err := h.store.GetBacklogItem(r.Context(), pid)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if parent == nil || parent.Type != wantType {
			writeError(w, http.StatusBadRequest, "a "+string(itemType)+" must belong to a "+string(wantType))
			return
		}
		item.ParentID = &pid
	}

	item.SprintID = nil
	if req.SprintID != "" {
		sid, err := uuid.Parse(req.SprintID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid sprint_id")
			return
		}
		item.SprintID = &sid
	}
	item.AssigneeID = nil
	if req.AssigneeID != "" {
		aid, err := uuid.Parse(req.AssigneeID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid assignee_id")
			return
		}
		item.AssigneeID = &aid
	}

	if err := h.store.UpdateBacklogItem(r.Context(), item); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if h.events != nil {
		_ = h.events.Publish(events.SubjectItemUpdated(item.ID.String()), events.ItemEvent{
			ItemID:    item.ID.String(),
			ProjectID: item.ProjectID.String(),
			Type:      string(item.Type),
			Status:    string(item.Status),
			Title:     item.Title,
		})
	}

	writeData(w, http.StatusOK, item)
}

// UpdateStatus handles PATCH /psa/backlog/item/{id}/status. The status
// change touches only this item; children keep their own statuses.
func (h *BacklogHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	status := store.ItemStatus(body.Status)
	if !store.ValidStatus(status) {
		writeError(w, http.StatusBadRequest, "invalid status")
		return
	}

	prev, err := h.store.GetBacklogItem(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if prev == nil {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}

	item, err := h.store.UpdateBacklogItemStatus(r.Context(), id, status)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}

	if h.events != nil {
		_ = h.events.Publish(events.SubjectItemStatusChanged(item.ID.String()), events.ItemStatusEvent{
			ItemID:         item.ID.String(),
			PreviousStatus: string(prev.Status),
			NewStatus:      string(item.Status),
		})
	}

	writeData(w, http.StatusOK, item)
}

// Delete handles DELETE /psa/backlog/item/{id}, removing the item and
// all descendants.
func (h *BacklogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	deleted, err := h.store.DeleteBacklogItemCascade(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if deleted == 0 {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}

	if h.events != nil {
		_ = h.events.Publish(events.SubjectItemDeleted(id.String()), events.ItemDeletedEvent{
			ItemID:       id.String(),
			DeletedCount: deleted,
		})
	}

	writeData(w, http.StatusOK, map[string]int{"deleted": deleted})
}

// Board handles GET /psa/backlog/{projectID}/board. With ?status= it
// returns the lane roots for that lane; without, all four lanes.
func (h *BacklogHandler) Board(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuid.Parse(chi.URLParam(r, "projectID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}

	items, err := h.store.ListBacklogItems(r.Context(), store.BacklogFilter{ProjectID: &projectID})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	roots := backlog.Build(backlog.CollapseDuplicates(items))

	if s := r.URL.Query().Get("status"); s != "" {
		status := store.ItemStatus(s)
		if !store.ValidStatus(status) {
			writeError(w, http.StatusBadRequest, "invalid status")
			return
		}
		lane := backlog.LaneRoots(roots, status)
		if lane == nil {
			lane = []*store.BacklogItem{}
		}
		writeData(w, http.StatusOK, lane)
		return
	}

	writeData(w, http.StatusOK, backlog.Board(roots))
}

// Matches handles GET /psa/backlog/item/{id}/matches, returning resources
// ranked by skill coverage of the item's required skills.
func (h *BacklogHandler) Matches(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := h.store.GetBacklogItem(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}

	resources, err := h.store.ListResources(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	matches := matching.RankResources(resources, item.RequiredSkills)
	writeData(w, http.StatusOK, matches)
}
