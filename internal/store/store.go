package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ItemType string

const (
	TypeEpic    ItemType = "epic"
	TypeFeature ItemType = "feature"
	TypeStory   ItemType = "story"
)

type ItemStatus string

const (
	StatusBacklog    ItemStatus = "backlog"
	StatusInProgress ItemStatus = "in_progress"
	StatusReview     ItemStatus = "review"
	StatusDone       ItemStatus = "done"
)

// Statuses lists the lane statuses in board order.
var Statuses = []ItemStatus{StatusBacklog, StatusInProgress, StatusReview, StatusDone}

// ValidStatus reports whether s is one of the four lane statuses.
func ValidStatus(s ItemStatus) bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// ValidType reports whether t is one of the three hierarchy levels.
func ValidType(t ItemType) bool {
	return t == TypeEpic || t == TypeFeature || t == TypeStory
}

// BacklogItem is a node in the epic → feature → story hierarchy.
// Children is a derived view rebuilt from the flat list; it is never
// persisted and must not be treated as authoritative storage.
type BacklogItem struct {
	ID          uuid.UUID  `json:"id"`
	ProjectID   uuid.UUID  `json:"project_id"`
	Type        ItemType   `json:"type"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      ItemStatus `json:"status"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty"`

	// Story-only fields
	SprintID           *uuid.UUID `json:"sprint_id,omitempty"`
	AssigneeID         *uuid.UUID `json:"assignee_id,omitempty"`
	StoryPoints        *int       `json:"story_points,omitempty"`
	RequiredSkills     []string   `json:"required_skills,omitempty"`
	AcceptanceCriteria []string   `json:"acceptance_criteria,omitempty"`

	// Epic-only fields
	BusinessValue *int `json:"business_value,omitempty"`

	Tags []string `json:"tags,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Children []*BacklogItem `json:"children,omitempty"`
}

type BacklogFilter struct {
	ProjectID *uuid.UUID
	Type      ItemType
	Status    *ItemStatus
	ParentID  *uuid.UUID
	SprintID  *uuid.UUID
	Limit     int
	Offset    int
}

type Sprint struct {
	ID                 uuid.UUID  `json:"id"`
	ProjectID          uuid.UUID  `json:"project_id"`
	Name               string     `json:"name"`
	Goal               string     `json:"goal,omitempty"`
	StartDate          *time.Time `json:"start_date,omitempty"`
	EndDate            *time.Time `json:"end_date,omitempty"`
	ProgramIncrementID *uuid.UUID `json:"program_increment_id,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

type ProgramIncrement struct {
	ID        uuid.UUID  `json:"id"`
	ProjectID uuid.UUID  `json:"project_id"`
	Name      string     `json:"name"`
	Objective string     `json:"objective,omitempty"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// ResourceSkill carries proficiency detail for display. Only the skill
// name participates in match scoring.
type ResourceSkill struct {
	Name            string `json:"name"`
	Proficiency     string `json:"proficiency,omitempty"`
	YearsExperience int    `json:"years_experience,omitempty"`
}

type Resource struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Role      string          `json:"role,omitempty"`
	Skills    []ResourceSkill `json:"skills,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// SkillNames returns just the skill names, for match scoring.
func (r *Resource) SkillNames() []string {
	names := make([]string, 0, len(r.Skills))
	for _, s := range r.Skills {
		names = append(names, s.Name)
	}
	return names
}

type Course struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	PriceCents  int       `json:"price_cents"`
	Published   bool      `json:"published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Video struct {
	ID              uuid.UUID `json:"id"`
	CourseID        uuid.UUID `json:"course_id"`
	Title           string    `json:"title"`
	URL             string    `json:"url"`
	DurationSeconds int       `json:"duration_seconds"`
	Position        int       `json:"position"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type Document struct {
	ID          uuid.UUID `json:"id"`
	VideoID     uuid.UUID `json:"video_id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	ContentType string    `json:"content_type,omitempty"`
	SizeBytes   int64     `json:"size_bytes"`
	CreatedAt   time.Time `json:"created_at"`
}

type ProjectStats struct {
	TotalItems  int                `json:"total_items"`
	ByStatus    map[ItemStatus]int `json:"by_status"`
	ByType      map[ItemType]int   `json:"by_type"`
	TotalPoints int                `json:"total_points"`
	DonePoints  int                `json:"done_points"`
}

type Store interface {
	// Backlog
	CreateBacklogItem(ctx context.Context, item *BacklogItem) error
	GetBacklogItem(ctx context.Context, id uuid.UUID) (*BacklogItem, error)
	ListBacklogItems(ctx context.Context, filter BacklogFilter) ([]*BacklogItem, error)
	UpdateBacklogItem(ctx context.Context, item *BacklogItem) error
	UpdateBacklogItemStatus(ctx context.Context, id uuid.UUID, status ItemStatus) (*BacklogItem, error)
	DeleteBacklogItemCascade(ctx context.Context, id uuid.UUID) (int, error)
	FindBacklogDuplicate(ctx context.Context, projectID uuid.UUID, title string, parentID *uuid.UUID, itemType ItemType) (*BacklogItem, error)

	// Sprints
	CreateSprint(ctx context.Context, s *Sprint) error
	GetSprint(ctx context.Context, id uuid.UUID) (*Sprint, error)
	ListSprints(ctx context.Context, projectID uuid.UUID) ([]*Sprint, error)
	UpdateSprint(ctx context.Context, s *Sprint) error
	DeleteSprint(ctx context.Context, id uuid.UUID) error

	// Program increments
	CreateProgramIncrement(ctx context.Context, pi *ProgramIncrement) error
	GetProgramIncrement(ctx context.Context, id uuid.UUID) (*ProgramIncrement, error)
	ListProgramIncrements(ctx context.Context, projectID uuid.UUID) ([]*ProgramIncrement, error)
	UpdateProgramIncrement(ctx context.Context, pi *ProgramIncrement) error
	DeleteProgramIncrement(ctx context.Context, id uuid.UUID) error

	// Resources
	CreateResource(ctx context.Context, r *Resource) error
	GetResource(ctx context.Context, id uuid.UUID) (*Resource, error)
	ListResources(ctx context.Context) ([]*Resource, error)
	UpdateResource(ctx context.Context, r *Resource) error
	DeleteResource(ctx context.Context, id uuid.UUID) error

	// Courses
	CreateCourse(ctx context.Context, c *Course) error
	GetCourse(ctx context.Context, id uuid.UUID) (*Course, error)
	ListCourses(ctx context.Context) ([]*Course, error)
	UpdateCourse(ctx context.Context, c *Course) error
	DeleteCourse(ctx context.Context, id uuid.UUID) error

	// Videos
	CreateVideo(ctx context.Context, v *Video) error
	GetVideo(ctx context.Context, id uuid.UUID) (*Video, error)
	ListVideosByCourse(ctx context.Context, courseID uuid.UUID) ([]*Video, error)
	UpdateVideo(ctx context.Context, v *Video) error
	DeleteVideo(ctx context.Context, id uuid.UUID) error

	// Documents
	CreateDocument(ctx context.Context, d *Document) error
	ListDocumentsByVideo(ctx context.Context, videoID uuid.UUID) ([]*Document, error)
	DeleteDocument(ctx context.Context, id uuid.UUID) error

	// Stats
	GetProjectStats(ctx context.Context, projectID uuid.UUID) (*ProjectStats, error)

	Close() error
}
