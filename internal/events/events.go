package events

type ItemEvent struct {
	ItemID    string `json:"item_id"`
	ProjectID string `json:"project_id"`
	Type      string `json:"type"`
	Status    string `json:"status"`
	Title     string `json:"title"`
}

type ItemStatusEvent struct {
	ItemID         string `json:"item_id"`
	PreviousStatus string `json:"previous_status"`
	NewStatus      string `json:"new_status"`
}

type ItemDeletedEvent struct {
	ItemID       string `json:"item_id"`
	DeletedCount int    `json:"deleted_count"`
}

type SprintEvent struct {
	SprintID  string `json:"sprint_id"`
	ProjectID string `json:"project_id"`
	Name      string `json:"name"`
}

type CourseEvent struct {
	CourseID  string `json:"course_id"`
	Title     string `json:"title"`
	Published bool   `json:"published"`
}
