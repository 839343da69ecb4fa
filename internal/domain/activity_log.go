package domain

import "time"

const (
	EntityTask    = "Task"
	EntityProject = "Project"
	EntityUser    = "User"
)

// ActivityLog registra quien hizo que sobre cual entidad.
type ActivityLog struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	User      *LogAuthor `json:"user,omitempty"`
	Action    string     `json:"action"`
	Entity    string     `json:"entity"`
	EntityID  string     `json:"entity_id"`
	Details   string     `json:"details"`
	Timestamp time.Time  `json:"timestamp"`
}

// LogAuthor es la vista reducida del autor que acompana cada entrada.
type LogAuthor struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
