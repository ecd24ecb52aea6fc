package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/subhstories/clientmanager/internal/domain/client"
)

// ClientService defines store operations needed by MCP.
type ClientService interface {
	Clients() []client.Client
	Client(id int64) (client.Client, error)
	AddClient(ctx context.Context, draft client.ClientDraft) (client.Client, []client.Client, error)
	UpdateClient(ctx context.Context, id int64, patch client.ClientPatch) (client.Client, []client.Client, error)
	DeleteClient(ctx context.Context, id int64) ([]client.Client, error)
	AddProject(ctx context.Context, clientID int64, draft client.ProjectDraft) (client.Project, []client.Client, error)
	DeleteProject(ctx context.Context, clientID, projectID int64) ([]client.Client, error)
	UpdateProjectStatus(ctx context.Context, clientID, projectID int64, status client.ProjectStatus) ([]client.Client, error)
	Flush(ctx context.Context) error
	Dirty() bool
}

// Handler dispatches MCP commands.
type Handler struct {
	clients ClientService
}

// NewHandler creates a new MCP handler.
func NewHandler(clients ClientService) *Handler {
	return &Handler{clients: clients}
}

// Handle dispatches a method call to the client service. Every successful mutation
// returns the full client sequence so callers can re-render from it.
func (h *Handler) Handle(ctx context.Context, method string, params json.RawMessage) (any, error) {
	switch method {
	case "list_clients":
		return h.snapshot(), nil
	case "get_client":
		var req GetClientParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		c, err := h.clients.Client(req.ID)
		if err != nil {
			return nil, mapError(err)
		}
		return c, nil
	case "add_client":
		var req AddClientParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		c, clients, err := h.clients.AddClient(ctx, client.ClientDraft{
			Name:    req.Name,
			Email:   req.Email,
			Phone:   req.Phone,
			Address: req.Address,
		})
		if err != nil {
			return nil, mapError(err)
		}
		return ClientResponse{Client: c, Clients: clients}, nil
	case "update_client":
		var req UpdateClientParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		c, clients, err := h.clients.UpdateClient(ctx, req.ID, client.ClientPatch{
			Name:    req.Name,
			Email:   req.Email,
			Phone:   req.Phone,
			Address: req.Address,
		})
		if err != nil {
			return nil, mapError(err)
		}
		return ClientResponse{Client: c, Clients: clients}, nil
	case "delete_client":
		var req DeleteClientParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		clients, err := h.clients.DeleteClient(ctx, req.ID)
		if err != nil {
			return nil, mapError(err)
		}
		return newClientsResponse(clients, false), nil
	case "add_project":
		var req AddProjectParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		p, clients, err := h.clients.AddProject(ctx, req.ClientID, client.ProjectDraft{
			Title:        req.Title,
			Details:      req.Details,
			Status:       req.Status,
			DeliveryDate: req.DeliveryDate,
		})
		if err != nil {
			return nil, mapError(err)
		}
		return ProjectResponse{Project: p, Clients: clients}, nil
	case "delete_project":
		var req DeleteProjectParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		clients, err := h.clients.DeleteProject(ctx, req.ClientID, req.ProjectID)
		if err != nil {
			return nil, mapError(err)
		}
		return newClientsResponse(clients, false), nil
	case "update_project_status":
		var req UpdateProjectStatusParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		clients, err := h.clients.UpdateProjectStatus(ctx, req.ClientID, req.ProjectID, req.Status)
		if err != nil {
			return nil, mapError(err)
		}
		return newClientsResponse(clients, false), nil
	case "save":
		if err := h.clients.Flush(ctx); err != nil {
			return nil, mapError(err)
		}
		return SaveResponse{Saved: true, Clients: len(h.clients.Clients())}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrMethodNotFound, method)
	}
}

func (h *Handler) snapshot() ClientsResponse {
	return newClientsResponse(h.clients.Clients(), h.clients.Dirty())
}

func decodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 || string(params) == "null" {
		return nil
	}
	if err := json.Unmarshal(params, out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	return nil
}

// IsProtocolError reports whether err came from the request itself rather than the domain.
func IsProtocolError(err error) bool {
	return errors.Is(err, ErrMethodNotFound) || errors.Is(err, ErrInvalidParams)
}
