package mcp

import "github.com/subhstories/clientmanager/internal/domain/client"

type GetClientParams struct {
	ID int64 `json:"id"`
}

type AddClientParams struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

type UpdateClientParams struct {
	ID      int64   `json:"id"`
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

type DeleteClientParams struct {
	ID int64 `json:"id"`
}

type AddProjectParams struct {
	ClientID     int64                `json:"client_id"`
	Title        string               `json:"title"`
	Details      string               `json:"details,omitempty"`
	Status       client.ProjectStatus `json:"status,omitempty"`
	DeliveryDate string               `json:"delivery_date,omitempty"`
}

type DeleteProjectParams struct {
	ClientID  int64 `json:"client_id"`
	ProjectID int64 `json:"project_id"`
}

type UpdateProjectStatusParams struct {
	ClientID  int64                `json:"client_id"`
	ProjectID int64                `json:"project_id"`
	Status    client.ProjectStatus `json:"status"`
}

// ClientsResponse carries the full client sequence after an operation,
// with the totals shown above the client list.
type ClientsResponse struct {
	Clients      []client.Client `json:"clients"`
	ClientCount  int             `json:"client_count"`
	ProjectCount int             `json:"project_count"`
	Dirty        bool            `json:"dirty,omitempty"`
}

func newClientsResponse(clients []client.Client, dirty bool) ClientsResponse {
	clientCount, projectCount := client.Totals(clients)
	return ClientsResponse{
		Clients:      clients,
		ClientCount:  clientCount,
		ProjectCount: projectCount,
		Dirty:        dirty,
	}
}

type ClientResponse struct {
	Client  client.Client   `json:"client"`
	Clients []client.Client `json:"clients"`
}

type ProjectResponse struct {
	Project client.Project  `json:"project"`
	Clients []client.Client `json:"clients"`
}

type SaveResponse struct {
	Saved   bool `json:"saved"`
	Clients int  `json:"clients"`
}
