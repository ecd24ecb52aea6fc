package client

// ProjectStatus is the lifecycle state of a project.
type ProjectStatus string

const (
	StatusPending    ProjectStatus = "Pending"
	StatusInProgress ProjectStatus = "In Progress"
	StatusCompleted  ProjectStatus = "Completed"
	StatusOnHold     ProjectStatus = "On Hold"
)

// Statuses lists every project status in display order.
var Statuses = []ProjectStatus{StatusPending, StatusInProgress, StatusCompleted, StatusOnHold}

// Valid reports whether s is one of the known statuses.
func (s ProjectStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusOnHold:
		return true
	}
	return false
}

// Client is a business customer owning zero or more projects.
type Client struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	Projects  []Project `json:"projects"`
	CreatedAt Timestamp `json:"createdAt,omitzero"`
}

// Project is a unit of work belonging to exactly one client.
type Project struct {
	ID           int64         `json:"id"`
	Title        string        `json:"title"`
	Details      string        `json:"details"`
	Status       ProjectStatus `json:"status"`
	DeliveryDate string        `json:"deliveryDate,omitempty"`
	CreatedAt    Timestamp     `json:"createdAt,omitzero"`
}

// ClientDraft holds user-supplied values for a new client.
type ClientDraft struct {
	Name    string `validate:"notblank"`
	Email   string
	Phone   string
	Address string
}

// ClientPatch holds the fields to change on an existing client. Nil fields are left alone.
type ClientPatch struct {
	Name    *string
	Email   *string
	Phone   *string
	Address *string
}

// ProjectDraft holds user-supplied values for a new project.
type ProjectDraft struct {
	Title        string        `validate:"notblank"`
	Details      string
	Status       ProjectStatus `validate:"omitempty,status"`
	DeliveryDate string
}

// Clone returns a deep copy of c.
func (c Client) Clone() Client {
	out := c
	out.Projects = make([]Project, len(c.Projects))
	copy(out.Projects, c.Projects)
	return out
}

// CloneAll returns a deep copy of clients. The result is never nil.
func CloneAll(clients []Client) []Client {
	out := make([]Client, len(clients))
	for i, c := range clients {
		out[i] = c.Clone()
	}
	return out
}

// Totals returns the number of clients and the number of projects across them.
func Totals(clients []Client) (clientCount, projectCount int) {
	for _, c := range clients {
		projectCount += len(c.Projects)
	}
	return len(clients), projectCount
}
