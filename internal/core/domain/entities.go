package domain

// PunchStatus represents the lifecycle state of a punch record
type PunchStatus string

const (
	PunchStatusPending   PunchStatus = "PENDING"
	PunchStatusCompleted PunchStatus = "COMPLETED"
)

// Identity is the verified caller attached to a request by the session guard
type Identity struct {
	UserID   string
	ClientID string
	IsAdmin  bool
}

// Attachment points at a stored photo independent of the storage backend
type Attachment struct {
	Reference string
	URL       string
}
