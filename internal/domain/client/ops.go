package client

import "fmt"

// Ops creates new entities. The zero value uses random ids and the system clock.
type Ops struct {
	IDs IDGenerator
	Now Clock
}

func (o Ops) ids() IDGenerator {
	if o.IDs == nil {
		return RandomIDs{}
	}
	return o.IDs
}

func (o Ops) now() Clock {
	if o.Now == nil {
		return SystemClock
	}
	return o.Now
}

// AddClient validates draft and appends a new client to a copy of clients.
func (o Ops) AddClient(clients []Client, draft ClientDraft) ([]Client, Client, error) {
	if err := ValidateClientDraft(draft); err != nil {
		return clients, Client{}, err
	}

	id := uniqueID(o.ids(), func(id int64) bool {
		return indexOfClient(clients, id) >= 0
	})
	created := Client{
		ID:        id,
		Name:      draft.Name,
		Email:     draft.Email,
		Phone:     draft.Phone,
		Address:   draft.Address,
		Projects:  []Project{},
		CreatedAt: NewTimestamp(o.now()()),
	}

	updated := append(CloneAll(clients), created)
	return updated, created.Clone(), nil
}

// AddProject validates draft and appends a new project to the client with clientID.
func (o Ops) AddProject(clients []Client, clientID int64, draft ProjectDraft) ([]Client, Project, error) {
	idx := indexOfClient(clients, clientID)
	if idx < 0 {
		return clients, Project{}, fmt.Errorf("%w: client %d", ErrNotFound, clientID)
	}
	if err := ValidateProjectDraft(draft); err != nil {
		return clients, Project{}, err
	}

	status := draft.Status
	if status == "" {
		status = StatusPending
	}

	owner := clients[idx]
	id := uniqueID(o.ids(), func(id int64) bool {
		return indexOfProject(owner.Projects, id) >= 0
	})
	created := Project{
		ID:           id,
		Title:        draft.Title,
		Details:      draft.Details,
		Status:       status,
		DeliveryDate: draft.DeliveryDate,
		CreatedAt:    NewTimestamp(o.now()()),
	}

	updated := CloneAll(clients)
	updated[idx].Projects = append(updated[idx].Projects, created)
	return updated, created, nil
}

// UpdateClient merges patch into the client with id. ID, CreatedAt and Projects are kept.
func UpdateClient(clients []Client, id int64, patch ClientPatch) ([]Client, error) {
	idx := indexOfClient(clients, id)
	if idx < 0 {
		return clients, fmt.Errorf("%w: client %d", ErrNotFound, id)
	}

	merged := clients[idx].Clone()
	if patch.Name != nil {
		merged.Name = *patch.Name
	}
	if patch.Email != nil {
		merged.Email = *patch.Email
	}
	if patch.Phone != nil {
		merged.Phone = *patch.Phone
	}
	if patch.Address != nil {
		merged.Address = *patch.Address
	}
	if err := ValidateClientDraft(ClientDraft{Name: merged.Name}); err != nil {
		return clients, err
	}

	updated := CloneAll(clients)
	updated[idx] = merged
	return updated, nil
}

// DeleteClient removes the client with id. Deleting a missing client is a no-op.
func DeleteClient(clients []Client, id int64) []Client {
	updated := make([]Client, 0, len(clients))
	for _, c := range clients {
		if c.ID != id {
			updated = append(updated, c.Clone())
		}
	}
	return updated
}

// DeleteProject removes a project from its client. Missing ids are a no-op.
func DeleteProject(clients []Client, clientID, projectID int64) []Client {
	updated := CloneAll(clients)
	idx := indexOfClient(updated, clientID)
	if idx < 0 {
		return updated
	}

	kept := make([]Project, 0, len(updated[idx].Projects))
	for _, p := range updated[idx].Projects {
		if p.ID != projectID {
			kept = append(kept, p)
		}
	}
	updated[idx].Projects = kept
	return updated
}

// UpdateProjectStatus sets status on a single project. Any status may follow any other.
func UpdateProjectStatus(clients []Client, clientID, projectID int64, status ProjectStatus) ([]Client, error) {
	cIdx := indexOfClient(clients, clientID)
	if cIdx < 0 {
		return clients, fmt.Errorf("%w: client %d", ErrNotFound, clientID)
	}
	pIdx := indexOfProject(clients[cIdx].Projects, projectID)
	if pIdx < 0 {
		return clients, fmt.Errorf("%w: project %d", ErrNotFound, projectID)
	}
	if err := ValidateStatus(status); err != nil {
		return clients, err
	}

	updated := CloneAll(clients)
	updated[cIdx].Projects[pIdx].Status = status
	return updated, nil
}

// Find returns a copy of the client with id.
func Find(clients []Client, id int64) (Client, error) {
	idx := indexOfClient(clients, id)
	if idx < 0 {
		return Client{}, fmt.Errorf("%w: client %d", ErrNotFound, id)
	}
	return clients[idx].Clone(), nil
}

func indexOfClient(clients []Client, id int64) int {
	for i, c := range clients {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func indexOfProject(projects []Project, id int64) int {
	for i, p := range projects {
		if p.ID == id {
			return i
		}
	}
	return -1
}
