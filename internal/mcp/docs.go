package mcp

import (
	"context"
	"encoding/json"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `clientmanager tracks a video-editing business's clients and their projects.

Model:
- Client: name (required), email, phone, address, and an ordered list of projects.
- Project: title (required), details, delivery date, and a status of Pending, In Progress, Completed or On Hold.
  Any status may change to any other.

Workflow:
1) Call list_clients to get current ids. Every mutation also returns the full client list; render from that.
2) Mutations (add_client, update_client, delete_client, add_project, delete_project, update_project_status)
   are written to disk immediately.
3) A WRITE_FAILED error means the change was kept in memory but not saved. Call save to retry.
4) Deletes are idempotent; confirm with the user before calling them.

Docs:
- clientmanager://docs/data-file (backing file format)
- clientmanager://clients (current client list as JSON)
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "clientmanager://docs/data-file",
		Name:        "data-file",
		Title:       "Backing file format",
		Description: "Layout of data.json and the rules every write follows.",
		Content: `# data.json

The whole dataset lives in one UTF-8 JSON document:

` + "```json" + `
{
  "clients": [
    {
      "id": 1717000000000,
      "name": "Acme",
      "email": "a@acme.com",
      "phone": "",
      "address": "",
      "projects": [
        {
          "id": 1717000000500,
          "title": "Promo Video",
          "details": "",
          "status": "Pending",
          "deliveryDate": "2024-06-01",
          "createdAt": "2024-05-29T16:26:40.5Z"
        }
      ],
      "createdAt": "2024-05-29T16:26:40Z"
    }
  ]
}
` + "```" + `

- Every save rewrites the whole document; there are no partial updates.
- Saves go to a temporary file that is renamed over data.json, so a crash never leaves half a file.
- Client ids are unique across the file; project ids are unique within their client.
- Two instances writing the same file: the last writer wins.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}

func registerClientResource(server *sdkmcp.Server, handler *Handler) {
	const uri = "clientmanager://clients"
	server.AddResource(&sdkmcp.Resource{
		URI:         uri,
		Name:        "clients",
		Title:       "Clients",
		Description: "Current client list with projects.",
		MIMEType:    "application/json",
	}, func(ctx context.Context, _ *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
		result, err := handler.Handle(ctx, "list_clients", nil)
		if err != nil {
			return nil, err
		}
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return nil, err
		}
		return &sdkmcp.ReadResourceResult{
			Contents: []*sdkmcp.ResourceContents{{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(data),
			}},
		}, nil
	})
}
