package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Brightside-Labs/Compass/internal/events"
	"github.com/Brightside-Labs/Compass/internal/store"
)

type AgileHandler struct {
	store  store.Store
	events events.Client
}

func NewAgileHandler(s store.Store, e events.Client) *AgileHandler {
	return &AgileHandler{store: s, events: e}
}

type SprintRequest struct {
	Name               string     `json:"name"`
	Goal               string     `json:"goal,omitempty"`
	StartDate          *time.Time `json:"start_date,omitempty"`
	EndDate            *time.Time `json:"end_date,omitempty"`
	ProgramIncrementID string     `json:"program_increment_id,omitempty"`
}

func (h *AgileHandler) CreateSprint(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuid.Parse(chi.URLParam(r, "projectID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}

	var req SprintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name required")
		return
	}

	sprint := &store.Sprint{
		ProjectID: projectID,
		Name:      req.Name,
		Goal:      req.Goal,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}
	if req.ProgramIncrementID != "" {
		pid, err := uuid.Parse(req.ProgramIncrementID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid program_increment_id")
			return
		}
		sprint.ProgramIncrementID = &pid
	}

	if err := h.store.CreateSprint(r.Context(), sprint); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if h.events != nil {
		_ = h.events.Publish(events.SubjectSprintCreated(sprint.ID.String()), events.SprintEvent{
			SprintID:  sprint.ID.String(),
			ProjectID: sprint.ProjectID.String(),
			Name:      sprint.Name,
		})
	}

	writeData(w, http.StatusCreated, sprint)
}

func (h *AgileHandler) ListSprints(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuid.Parse(chi.URLParam(r, "projectID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}

	sprints, err := h.store.ListSprints(r.Context(), projectID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if sprints == nil {
		sprints = []*store.Sprint{}
	}
	writeData(w, http.StatusOK, sprints)
}

func (h *AgileHandler) GetSprint(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid sprint id")
		return
	}

	sprint, err := h.store.GetSprint(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if sprint == nil {
		writeError(w, http.StatusNotFound, "sprint not found")
		return
	}
	writeData(w, http.StatusOK, sprint)
}

func (h *AgileHandler) UpdateSprint(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid sprint id")
		return
	}

	sprint, err := h.store.GetSprint(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if sprint == nil {
		writeError(w, http.StatusNotFound, "sprint not found")
		return
	}

	var req SprintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name required")
		return
	}

	sprint.Name = req.Name
	sprint.Goal = req.Goal
	sprint.StartDate = req.StartDate
	sprint.EndDate = req.EndDate
	sprint.ProgramIncrementID = nil
	if req.ProgramIncrementID != "" {
		pid, err := uuid.Parse(req.ProgramIncrementID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid program_increment_id")
			return
		}
		sprint.ProgramIncrementID = &pid
	}

	if err := h.store.UpdateSprint(r.Context(), sprint); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if h.events != nil {
		_ = h.events.Publish(events.SubjectSprintUpdated(sprint.ID.String()), events.SprintEvent{
			SprintID:  sprint.ID.String(),
			ProjectID: sprint.ProjectID.String(),
			Name:      sprint.Name,
		})
	}

	writeData(w, http.StatusOK, sprint)
}

func (h *AgileHandler) DeleteSprint(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid sprint id")
		return
	}

	if err := h.store.DeleteSprint(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeData(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type ProgramIncrementRequest struct {
	Name      string     `json:"name"`
	Objective string     `json:"objective,omitempty"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

func (h *AgileHandler) CreateProgramIncrement(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuid.Parse(chi.URLParam(r, "projectID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}

	var req ProgramIncrementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name required")
		return
	}

	pi := &store.ProgramIncrement{
		ProjectID: projectID,
		Name:      req.Name,
		Objective: req.Objective,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}
	if err := h.store.CreateProgramIncrement(r.Context(), pi); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if h.events != nil {
		_ = h.events.Publish(events.SubjectPICreated(pi.ID.String()), events.SprintEvent{
			SprintID:  pi.ID.String(),
			ProjectID: pi.ProjectID.String(),
			Name:      pi.Name,
		})
	}

	writeData(w, http.StatusCreated, pi)
}

func (h *AgileHandler) ListProgramIncrements(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuid.Parse(chi.URLParam(r, "projectID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}

	pis, err := h.store.ListProgramIncrements(r.Context(), projectID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if pis == nil {
		pis = []*store.ProgramIncrement{}
	}
	writeData(w, http.StatusOK, pis)
}

func (h *AgileHandler) GetProgramIncrement(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid program increment id")
		return
	}

	pi, err := h.store.GetProgramIncrement(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if pi == nil {
		writeError(w, http.StatusNotFound, "program increment not found")
		return
	}
	writeData(w, http.StatusOK, pi)
}

func (h *AgileHandler) UpdateProgramIncrement(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid program increment id")
		return
	}

	pi, err := h.store.GetProgramIncrement(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if pi == nil {
		writeError(w, http.StatusNotFound, "program increment not found")
		return
	}

	var req ProgramIncrementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name required")
		return
	}

	pi.Name = req.Name
	pi.Objective = req.Objective
	pi.StartDate = req.StartDate
	pi.EndDate = req.EndDate

	if err := h.store.UpdateProgramIncrement(r.Context(), pi); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeData(w, http.StatusOK, pi)
}

func (h *AgileHandler) DeleteProgramIncrement(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid program increment id")
		return
	}

	if err := h.store.DeleteProgramIncrement(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeData(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type ResourceRequest struct {
	Name   string                `json:"name"`
	Role   string                `json:"role,omitempty"`
	Skills []store.ResourceSkill `json:"skills,omitempty"`
}

func (h *AgileHandler) CreateResource(w http.ResponseWriter, r *http.Request) {
	var req ResourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name required")
		return
	}

	resource := &store.Resource{Name: req.Name, Role: req.Role, Skills: req.Skills}
	if err := h.store.CreateResource(r.Context(), resource); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeData(w, http.StatusCreated, resource)
}

func (h *AgileHandler) ListResources(w http.ResponseWriter, r *http.Request) {
	resources, err := h.store.ListResources(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if resources == nil {
		resources = []*store.Resource{}
	}
	writeData(w, http.StatusOK, resources)
}

func (h *AgileHandler) GetResource(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid resource id")
		return
	}

	resource, err := h.store.GetResource(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if resource == nil {
		writeError(w, http.StatusNotFound, "resource not found")
		return
	}
	writeData(w, http.StatusOK, resource)
}

func (h *AgileHandler) UpdateResource(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid resource id")
		return
	}

	resource, err := h.store.GetResource(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if resource == nil {
		writeError(w, http.StatusNotFound, "resource not found")
		return
	}

	var req ResourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name required")
		return
	}

	resource.Name = req.Name
	resource.Role = req.Role
	resource.Skills = req.Skills

	if err := h.store.UpdateResource(r.Context(), resource); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeData(w, http.StatusOK, resource)
}

func (h *AgileHandler) DeleteResource(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid resource id")
		return
	}

	if err := h.store.DeleteResource(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeData(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *AgileHandler) ProjectStats(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuid.Parse(chi.URLParam(r, "projectID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}

	stats, err := h.store.GetProjectStats(r.Context(), projectID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeData(w, http.StatusOK, stats)
}
