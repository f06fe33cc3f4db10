package events

const (
	StreamName   = "COMPASS_EVENTS"
	StreamMaxAge = "720h" // 30 days
)

// Backlog item lifecycle subjects
func SubjectItemCreated(itemID string) string       { return "psa.backlog." + itemID + ".created" }
func SubjectItemUpdated(itemID string) string       { return "psa.backlog." + itemID + ".updated" }
func SubjectItemStatusChanged(itemID string) string { return "psa.backlog." + itemID + ".status" }
func SubjectItemDeleted(itemID string) string       { return "psa.backlog." + itemID + ".deleted" }

// Sprint and program increment subjects
func SubjectSprintCreated(sprintID string) string { return "psa.sprint." + sprintID + ".created" }
func SubjectSprintUpdated(sprintID string) string { return "psa.sprint." + sprintID + ".updated" }
func SubjectPICreated(piID string) string         { return "psa.pi." + piID + ".created" }

// LMS subjects
func SubjectCourseCreated(courseID string) string   { return "lms.course." + courseID + ".created" }
func SubjectCoursePublished(courseID string) string { return "lms.course." + courseID + ".published" }
func SubjectVideoCreated(videoID string) string     { return "lms.video." + videoID + ".created" }
