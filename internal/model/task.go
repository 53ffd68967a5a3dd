package model

import "time"

// TaskStatus represents the lifecycle state of a scrape task.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "PENDING"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusSuccess    TaskStatus = "SUCCESS"
	TaskStatusFailure    TaskStatus = "FAILURE"
)

// SiteNotAvailable is the sentinel stored in ScrapeResult.OfficialSite when
// no official site could be resolved.
const SiteNotAvailable = "Information not available"

// Task is one end-to-end request to resolve and extract contact information
// for a named entity. The terminal status, message and result are written
// exactly once, by the pipeline that ran the task.
type Task struct {
	ID        string        `json:"task_id"`
	Status    TaskStatus    `json:"status"`
	Message   string        `json:"message,omitempty"`
	Result    *ScrapeResult `json:"result,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// ScrapeResult is the outcome of a pipeline run. It is assembled
// incrementally so that an early-stage failure still carries whatever was
// resolved before the failing stage (e.g. the official site).
type ScrapeResult struct {
	EntityName   string       `json:"entity_name"`
	OfficialSite string       `json:"official_site"`
	ContactInfo  *ContactInfo `json:"contact_info,omitempty"`
}

// ContactInfo is the normalized contact record extracted for an entity.
// Phone and Fax are either empty or keep their original formatting with a
// digit count in [6, 18]; Email is either empty or a single lowercased
// address. DeptContacts is an opaque pass-through with no validation.
type ContactInfo struct {
	Phone        string            `json:"phone"`
	Fax          string            `json:"fax"`
	Email        string            `json:"email"`
	Address      string            `json:"address"`
	City         string            `json:"city,omitempty"`
	State        string            `json:"state,omitempty"`
	ZipCode      string            `json:"zip_code,omitempty"`
	DeptContacts map[string]string `json:"department_contacts,omitempty"`
}

// CandidateLink is a harvested URL with its contact-relevance rank. Lower
// ranks are visited first. Pipeline-local, never persisted.
type CandidateLink struct {
	URL  string `json:"url"`
	Rank int    `json:"rank"`
}

// SubmitRequest is the body of a task submission.
type SubmitRequest struct {
	EntityName string `json:"entity_name"`
	// TimeoutSeconds is accepted for API compatibility; individual
	// network calls carry their own timeouts.
	TimeoutSeconds int `json:"timeout_seconds,omitempty"`
}

// WebhookPayload is pushed to the configured delivery endpoint after a task
// reaches a terminal state.
type WebhookPayload struct {
	Status  TaskStatus    `json:"status"`
	Message string        `json:"message"`
	Result  *ScrapeResult `json:"result"`
}
