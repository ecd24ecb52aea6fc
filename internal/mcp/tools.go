package mcp

// ToolDefinition describes a callable tool
type ToolDefinition struct {
	Name        string
	Description string
	InputSchema map[string]any
}

var statusEnum = []string{"Pending", "In Progress", "Completed", "On Hold"}

func idProperty(description string) map[string]any {
	return map[string]any{
		"type":        "integer",
		"description": description,
	}
}

func stringProperty(description string) map[string]any {
	return map[string]any{
		"type":        "string",
		"description": description,
	}
}

// buildToolCatalog returns all available MCP tools
func buildToolCatalog() []ToolDefinition {
	return []ToolDefinition{
		// Clients
		{
			Name:        "list_clients",
			Description: "List every client with its projects, in display order",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
		{
			Name:        "get_client",
			Description: "Get a single client by id",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id": idProperty("Client id"),
				},
				"required": []string{"id"},
			},
		},
		{
			Name:        "add_client",
			Description: "Create a client. Returns the new client and the full client list",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name":    stringProperty("Client name (required)"),
					"email":   stringProperty("Contact email"),
					"phone":   stringProperty("Contact phone"),
					"address": stringProperty("Postal address"),
				},
				"required": []string{"name"},
			},
		},
		{
			Name:        "update_client",
			Description: "Change a client's contact fields. Omitted fields are left unchanged",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id":      idProperty("Client id"),
					"name":    stringProperty("New name (must not be blank)"),
					"email":   stringProperty("New email"),
					"phone":   stringProperty("New phone"),
					"address": stringProperty("New address"),
				},
				"required": []string{"id"},
			},
		},
		{
			Name:        "delete_client",
			Description: "Delete a client and all of its projects. Deleting a missing client is a no-op",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id": idProperty("Client id"),
				},
				"required": []string{"id"},
			},
		},

		// Projects
		{
			Name:        "add_project",
			Description: "Append a project to a client. Status defaults to Pending",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"client_id":     idProperty("Owning client id"),
					"title":         stringProperty("Project title (required)"),
					"details":       stringProperty("Free-form notes"),
					"delivery_date": stringProperty("Delivery date, YYYY-MM-DD"),
					"status": map[string]any{
						"type":        "string",
						"description": "Initial status",
						"enum":        statusEnum,
					},
				},
				"required": []string{"client_id", "title"},
			},
		},
		{
			Name:        "delete_project",
			Description: "Remove a project from a client. Missing ids are a no-op",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"client_id":  idProperty("Owning client id"),
					"project_id": idProperty("Project id"),
				},
				"required": []string{"client_id", "project_id"},
			},
		},
		{
			Name:        "update_project_status",
			Description: "Set a project's status. Any status may change to any other",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"client_id":  idProperty("Owning client id"),
					"project_id": idProperty("Project id"),
					"status": map[string]any{
						"type":        "string",
						"description": "New status",
						"enum":        statusEnum,
					},
				},
				"required": []string{"client_id", "project_id", "status"},
			},
		},

		// Persistence
		{
			Name:        "save",
			Description: "Retry writing the in-memory client list after a failed save",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
	}
}
