package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Brightside-Labs/Compass/internal/store"
)

// Mocks

type mockStore struct {
	mu        sync.Mutex
	items     map[uuid.UUID]*store.BacklogItem
	sprints   map[uuid.UUID]*store.Sprint
	pis       map[uuid.UUID]*store.ProgramIncrement
	resources map[uuid.UUID]*store.Resource
	courses   map[uuid.UUID]*store.Course
	videos    map[uuid.UUID]*store.Video
	documents map[uuid.UUID]*store.Document
}

func newMockStore() *mockStore {
	return &mockStore{
		items:     make(map[uuid.UUID]*store.BacklogItem),
		sprints:   make(map[uuid.UUID]*store.Sprint),
		pis:       make(map[uuid.UUID]*store.ProgramIncrement),
		resources: make(map[uuid.UUID]*store.Resource),
		courses:   make(map[uuid.UUID]*store.Course),
		videos:    make(map[uuid.UUID]*store.Video),
		documents: make(map[uuid.UUID]*store.Document),
	}
}

func (m *mockStore) CreateBacklogItem(_ context.Context, item *store.BacklogItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	item.ID = uuid.New()
	item.CreatedAt = time.Now()
	item.UpdatedAt = time.Now()
	m.items[item.ID] = item
	return nil
}

func (m *mockStore) GetBacklogItem(_ context.Context, id uuid.UUID) (*store.BacklogItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.items[id], nil
}

func (m *mockStore) ListBacklogItems(_ context.Context, filter store.BacklogFilter) ([]*store.BacklogItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*store.BacklogItem
	for _, item := range m.items {
		if filter.ProjectID != nil && item.ProjectID != *filter.ProjectID {
			continue
		}
		if filter.Type != "" && item.Type != filter.Type {
			continue
		}
		if filter.Status != nil && item.Status != *filter.Status {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (m *mockStore) UpdateBacklogItem(_ context.Context, item *store.BacklogItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	item.UpdatedAt = time.Now()
	m.items[item.ID] = item
	return nil
}

func (m *mockStore) UpdateBacklogItemStatus(_ context.Context, id uuid.UUID, status store.ItemStatus) (*store.BacklogItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	item.Status = status
	item.UpdatedAt = time.Now()
	return item, nil
}

func (m *mockStore) DeleteBacklogItemCascade(_ context.Context, id uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return 0, nil
	}
	deleted := 0
	var remove func(id uuid.UUID)
	remove = func(id uuid.UUID) {
		delete(m.items, id)
		deleted++
		for childID, child := range m.items {
			if child.ParentID != nil && *child.ParentID == id {
				remove(childID)
			}
		}
	}
	remove(id)
	return deleted, nil
}

func (m *mockStore) FindBacklogDuplicate(_ context.Context, projectID uuid.UUID, title string, parentID *uuid.UUID, itemType store.ItemType) (*store.BacklogItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, item := range m.items {
		if item.ProjectID != projectID || item.Title != title || item.Type != itemType {
			continue
		}
		if (item.ParentID == nil) != (parentID == nil) {
			continue
		}
		if parentID != nil && *item.ParentID != *parentID {
			continue
		}
		return item, nil
	}
	return nil, nil
}

func (m *mockStore) CreateSprint(_ context.Context, s *store.Sprint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.ID = uuid.New()
	s.CreatedAt = time.Now()
	s.UpdatedAt = time.Now()
	m.sprints[s.ID] = s
	return nil
}

func (m *mockStore) GetSprint(_ context.Context, id uuid.UUID) (*store.Sprint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sprints[id], nil
}

func (m *mockStore) ListSprints(_ context.Context, projectID uuid.UUID) ([]*store.Sprint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*store.Sprint
	for _, s := range m.sprints {
		if s.ProjectID == projectID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockStore) UpdateSprint(_ context.Context, s *store.Sprint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sprints[s.ID] = s
	return nil
}

func (m *mockStore) DeleteSprint(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sprints, id)
	return nil
}

func (m *mockStore) CreateProgramIncrement(_ context.Context, pi *store.ProgramIncrement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	pi.ID = uuid.New()
	pi.CreatedAt = time.Now()
	pi.UpdatedAt = time.Now()
	m.pis[pi.ID] = pi
	return nil
}

func (m *mockStore) GetProgramIncrement(_ context.Context, id uuid.UUID) (*store.ProgramIncrement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pis[id], nil
}

func (m *mockStore) ListProgramIncrements(_ context.Context, projectID uuid.UUID) ([]*store.ProgramIncrement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*store.ProgramIncrement
	for _, pi := range m.pis {
		if pi.ProjectID == projectID {
			out = append(out, pi)
		}
	}
	return out, nil
}

func (m *mockStore) UpdateProgramIncrement(_ context.Context, pi *store.ProgramIncrement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pis[pi.ID] = pi
	return nil
}

func (m *mockStore) DeleteProgramIncrement(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pis, id)
	return nil
}

func (m *mockStore) CreateResource(_ context.Context, r *store.Resource) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.ID = uuid.New()
	r.CreatedAt = time.Now()
	r.UpdatedAt = time.Now()
	m.resources[r.ID] = r
	return nil
}

func (m *mockStore) GetResource(_ context.Context, id uuid.UUID) (*store.Resource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resources[id], nil
}

func (m *mockStore) ListResources(_ context.Context) ([]*store.Resource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*store.Resource
	for _, r := range m.resources {
		out = append(out, r)
	}
	return out, nil
}

func (m *mockStore) UpdateResource(_ context.Context, r *store.Resource) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resources[r.ID] = r
	return nil
}

func (m *mockStore) DeleteResource(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.resources, id)
	return nil
}

func (m *mockStore) CreateCourse(_ context.Context, c *store.Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	c.UpdatedAt = time.Now()
	m.courses[c.ID] = c
	return nil
}

func (m *mockStore) GetCourse(_ context.Context, id uuid.UUID) (*store.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.courses[id], nil
}

func (m *mockStore) ListCourses(_ context.Context) ([]*store.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*store.Course
	for _, c := range m.courses {
		out = append(out, c)
	}
	return out, nil
}

func (m *mockStore) UpdateCourse(_ context.Context, c *store.Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.courses[c.ID] = c
	return nil
}

func (m *mockStore) DeleteCourse(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.courses, id)
	return nil
}

func (m *mockStore) CreateVideo(_ context.Context, v *store.Video) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v.ID = uuid.New()
	v.CreatedAt = time.Now()
	v.UpdatedAt = time.Now()
	m.videos[v.ID] = v
	return nil
}

func (m *mockStore) GetVideo(_ context.Context, id uuid.UUID) (*store.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.videos[id], nil
}

func (m *mockStore) ListVideosByCourse(_ context.Context, courseID uuid.UUID) ([]*store.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*store.Video
	for _, v := range m.videos {
		if v.CourseID == courseID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *mockStore) UpdateVideo(_ context.Context, v *store.Video) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.videos[v.ID] = v
	return nil
}

func (m *mockStore) DeleteVideo(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.videos, id)
	return nil
}

func (m *mockStore) CreateDocument(_ context.Context, d *store.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d.ID = uuid.New()
	d.CreatedAt = time.Now()
	m.documents[d.ID] = d
	return nil
}

func (m *mockStore) ListDocumentsByVideo(_ context.Context, videoID uuid.UUID) ([]*store.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*store.Document
	for _, d := range m.documents {
		if d.VideoID == videoID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *mockStore) DeleteDocument(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.documents, id)
	return nil
}

func (m *mockStore) GetProjectStats(_ context.Context, projectID uuid.UUID) (*store.ProjectStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := &store.ProjectStats{
		ByStatus: make(map[store.ItemStatus]int),
		ByType:   make(map[store.ItemType]int),
	}
	for _, item := range m.items {
		if item.ProjectID != projectID {
			continue
		}
		stats.TotalItems++
		stats.ByStatus[item.Status]++
		stats.ByType[item.Type]++
		if item.StoryPoints != nil {
			stats.TotalPoints += *item.StoryPoints
			if item.Status == store.StatusDone {
				stats.DonePoints += *item.StoryPoints
			}
		}
	}
	return stats, nil
}

func (m *mockStore) Close() error { return nil }

type publishedEvent struct {
	Subject string
	Data    interface{}
}

type mockEvents struct {
	mu        sync.Mutex
	published []publishedEvent
}

func (m *mockEvents) Publish(subject string, data interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, publishedEvent{Subject: subject, Data: data})
	return nil
}

func (m *mockEvents) Close() {}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupRouter(authToken string) (http.Handler, *mockStore, *mockEvents) {
	ms := newMockStore()
	me := &mockEvents{}
	router := NewRouter(ms, me, nil, authToken, 1000, discardLogger())
	return router, ms, me
}

func doRequest(router http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
