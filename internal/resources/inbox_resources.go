package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/inboxai/internal/command"
	"github.com/teemow/inboxai/internal/server"
)

// Resource URIs.
const (
	UnreadURI     = "inbox://unread"
	OperationsURI = "inbox://operations"
)

// RegisterInboxResources registers the read-only inbox resources.
func RegisterInboxResources(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	if sc.Inbox() == nil {
		return fmt.Errorf("inbox service is not configured")
	}

	unreadResource := mcp.NewResource(
		UnreadURI,
		"Unread Emails",
		mcp.WithResourceDescription("Sender and subject of each unread email, without summarizing them"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(unreadResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleUnread(ctx, request, sc)
	})

	operationsResource := mcp.NewResource(
		OperationsURI,
		"Inbox Operations",
		mcp.WithResourceDescription("The operations a free-text command can be mapped to, with their parameters"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(operationsResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleOperations(request, sc)
	})

	return nil
}

func handleUnread(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	headers, err := sc.Inbox().Unread(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list unread emails: %w", err)
	}

	return jsonContents(request.Params.URI, map[string]any{
		"count":  len(headers),
		"emails": headers,
	})
}

func handleOperations(request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	entries := command.Catalog(sc.Inbox()).Entries()

	ops := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		ops = append(ops, map[string]any{
			"name":        e.Name,
			"description": e.Description,
			"parameters":  e.Parameters,
		})
	}

	return jsonContents(request.Params.URI, map[string]any{"operations": ops})
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource data: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}
