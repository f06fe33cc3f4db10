package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Brightside-Labs/Compass/internal/events"
	"github.com/Brightside-Labs/Compass/internal/store"
)

type LMSHandler struct {
	store  store.Store
	events events.Client
}

func NewLMSHandler(s store.Store, e events.Client) *LMSHandler {
	return &LMSHandler{store: s, events: e}
}

type CourseRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	PriceCents  int    `json:"price_cents"`
	Published   bool   `json:"published"`
}

func (h *LMSHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var req CourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title required")
		return
	}

	course := &store.Course{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		PriceCents:  req.PriceCents,
		Published:   req.Published,
	}
	if err := h.store.CreateCourse(r.Context(), course); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if h.events != nil {
		_ = h.events.Publish(events.SubjectCourseCreated(course.ID.String()), events.CourseEvent{
			CourseID:  course.ID.String(),
			Title:     course.Title,
			Published: course.Published,
		})
	}

	writeData(w, http.StatusCreated, course)
}

func (h *LMSHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.store.ListCourses(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if courses == nil {
		courses = []*store.Course{}
	}
	writeData(w, http.StatusOK, courses)
}

func (h *LMSHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid course id")
		return
	}

	course, err := h.store.GetCourse(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if course == nil {
		writeError(w, http.StatusNotFound, "course not found")
		return
	}
	writeData(w, http.StatusOK, course)
}

func (h *LMSHandler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid course id")
		return
	}

	course, err := h.store.GetCourse(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if course == nil {
		writeError(w, http.StatusNotFound, "course not found")
		return
	}

	var req CourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title required")
		return
	}

	wasPublished := course.Published
	course.Title = req.Title
	course.Description = req.Description
	course.Category = req.Category
	course.PriceCents = req.PriceCents
	course.Published = req.Published

	if err := h.store.UpdateCourse(r.Context(), course); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if h.events != nil && !wasPublished && course.Published {
		_ = h.events.Publish(events.SubjectCoursePublished(course.ID.String()), events.CourseEvent{
			CourseID:  course.ID.String(),
			Title:     course.Title,
			Published: true,
		})
	}

	writeData(w, http.StatusOK, course)
}

func (h *LMSHandler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid course id")
		return
	}

	if err := h.store.DeleteCourse(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeData(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type VideoRequest struct {
	Title           string `json:"title"`
	URL             string `json:"url"`
	DurationSeconds int    `json:"duration_seconds"`
	Position        int    `json:"position"`
}

func (h *LMSHandler) CreateVideo(w http.ResponseWriter, r *http.Request) {
	courseID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid course id")
		return
	}

	course, err := h.store.GetCourse(r.Context(), courseID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if course == nil {
		writeError(w, http.StatusNotFound, "course not found")
		return
	}

	var req VideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" || req.URL == "" {
		writeError(w, http.StatusBadRequest, "title and url required")
		return
	}

	video := &store.Video{
		CourseID:        courseID,
		Title:           req.Title,
		URL:             req.URL,
		DurationSeconds: req.DurationSeconds,
		Position:        req.Position,
	}
	if err := h.store.CreateVideo(r.Context(), video); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if h.events != nil {
		_ = h.events.Publish(events.SubjectVideoCreated(video.ID.String()), map[string]string{
			"video_id":  video.ID.String(),
			"course_id": video.CourseID.String(),
			"title":     video.Title,
		})
	}

	writeData(w, http.StatusCreated, video)
}

func (h *LMSHandler) ListVideos(w http.ResponseWriter, r *http.Request) {
	courseID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid course id")
		return
	}

	videos, err := h.store.ListVideosByCourse(r.Context(), courseID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if videos == nil {
		videos = []*store.Video{}
	}
	writeData(w, http.StatusOK, videos)
}

func (h *LMSHandler) GetVideo(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid video id")
		return
	}

	video, err := h.store.GetVideo(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if video == nil {
		writeError(w, http.StatusNotFound, "video not found")
		return
	}
	writeData(w, http.StatusOK, video)
}

func (h *LMSHandler) UpdateVideo(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid video id")
		return
	}

	video, err := h.store.GetVideo(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if video == nil {
		writeError(w, http.StatusNotFound, "video not found")
		return
	}

	var req VideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" || req.URL == "" {
		writeError(w, http.StatusBadRequest, "title and url required")
		return
	}

	video.Title = req.Title
	video.URL = req.URL
	video.DurationSeconds = req.DurationSeconds
	video.Position = req.Position

	if err := h.store.UpdateVideo(r.Context(), video); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeData(w, http.StatusOK, video)
}

func (h *LMSHandler) DeleteVideo(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid video id")
		return
	}

	if err := h.store.DeleteVideo(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeData(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type DocumentRequest struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	ContentType string `json:"content_type,omitempty"`
	SizeBytes   int64  `json:"size_bytes"`
}

func (h *LMSHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	videoID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid video id")
		return
	}

	video, err := h.store.GetVideo(r.Context(), videoID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if video == nil {
		writeError(w, http.StatusNotFound, "video not found")
		return
	}

	var req DocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" || req.URL == "" {
		writeError(w, http.StatusBadRequest, "title and url required")
		return
	}

	doc := &store.Document{
		VideoID:     videoID,
		Title:       req.Title,
		URL:         req.URL,
		ContentType: req.ContentType,
		SizeBytes:   req.SizeBytes,
	}
	if err := h.store.CreateDocument(r.Context(), doc); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeData(w, http.StatusCreated, doc)
}

func (h *LMSHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	videoID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid video id")
		return
	}

	docs, err := h.store.ListDocumentsByVideo(r.Context(), videoID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if docs == nil {
		docs = []*store.Document{}
	}
	writeData(w, http.StatusOK, docs)
}

func (h *LMSHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid document id")
		return
	}

	if err := h.store.DeleteDocument(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeData(w, http.StatusOK, map[string]string{"status": "deleted"})
}
