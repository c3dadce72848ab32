package inbox_tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/inboxai/internal/batch"
	"github.com/teemow/inboxai/internal/command"
	"github.com/teemow/inboxai/internal/server"
	"github.com/teemow/inboxai/internal/tools/common"
)

// Tool names beyond the catalog operations.
const (
	CommandTool           = "inbox_command"
	SummarizeMessagesTool = "summarize_messages"
	SummarizeEmailTool    = "summarize_email"
)

// RegisterInboxTools registers one tool per catalog operation plus the
// free-text command and summarization tools.
func RegisterInboxTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	if sc.Inbox() == nil {
		return fmt.Errorf("inbox service is not configured")
	}

	for _, entry := range command.Catalog(sc.Inbox()).Entries() {
		tool, err := catalogTool(entry)
		if err != nil {
			return err
		}
		s.AddTool(tool, common.InstrumentedToolHandler(tool.Name, sc, catalogHandler(entry)))
	}

	commandTool := mcp.NewTool(CommandTool,
		mcp.WithDescription("Answer a free-text instruction about the inbox, e.g. \"how many emails from github\" or \"summarize my unread emails\""),
		mcp.WithString("command",
			mcp.Required(),
			mcp.Description("The instruction to interpret"),
		),
	)
	s.AddTool(commandTool, common.InstrumentedToolHandler(CommandTool, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCommand(ctx, request, sc)
		}))

	summarizeMessagesTool := mcp.NewTool(SummarizeMessagesTool,
		mcp.WithDescription("Summarize one or more messages by ID, including the content of their attachments"),
		mcp.WithString("messageIds",
			mcp.Required(),
			mcp.Description("Message ID (string) or array of message IDs to summarize"),
		),
	)
	s.AddTool(summarizeMessagesTool, common.InstrumentedToolHandler(SummarizeMessagesTool, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSummarizeMessages(ctx, request, sc)
		}))

	summarizeEmailTool := mcp.NewTool(SummarizeEmailTool,
		mcp.WithDescription("Summarize an email given its sender, subject and body text"),
		mcp.WithString("sender",
			mcp.Required(),
			mcp.Description("Sender of the email"),
		),
		mcp.WithString("subject",
			mcp.Description("Subject line"),
		),
		mcp.WithString("body",
			mcp.Required(),
			mcp.Description("Plain text body"),
		),
	)
	s.AddTool(summarizeEmailTool, common.InstrumentedToolHandler(SummarizeEmailTool, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSummarizeEmail(ctx, request, sc)
		}))

	return nil
}

func catalogTool(entry command.Entry) (mcp.Tool, error) {
	schema, err := json.Marshal(entry.Parameters)
	if err != nil {
		return mcp.Tool{}, fmt.Errorf("failed to encode schema of %s: %w", entry.Name, err)
	}
	return mcp.NewToolWithRawSchema(string(entry.Name), entry.Description, schema), nil
}

func catalogHandler(entry command.Entry) common.ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		out, err := entry.Run(ctx, request.GetArguments())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to run %s: %v", entry.Name, err)), nil
		}
		return outcomeResult(out)
	}
}

func handleCommand(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("command")
	if err != nil || text == "" {
		return mcp.NewToolResultError("command is required"), nil
	}
	if sc.Dispatcher() == nil {
		return mcp.NewToolResultError("command dispatcher is not configured"), nil
	}

	out, err := sc.Dispatcher().Dispatch(ctx, text)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to answer command: %v", err)), nil
	}
	return outcomeResult(out)
}

func handleSummarizeMessages(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	ids, err := batch.ParseStringOrArray(args["messageIds"], "messageIds")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	results := batch.Process(ctx, ids, sc.Inbox().SummarizeMessage)
	return mcp.NewToolResultText(batch.FormatResults(results)), nil
}

func handleSummarizeEmail(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	sender := common.StringArg(args, "sender")
	if sender == "" {
		return mcp.NewToolResultError("sender is required"), nil
	}

	summary, err := sc.Inbox().SummarizeText(ctx, sender, common.StringArg(args, "subject"), common.StringArg(args, "body"))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to summarize email: %v", err)), nil
	}
	return mcp.NewToolResultText(summary), nil
}

func outcomeResult(out command.Outcome) (*mcp.CallToolResult, error) {
	result, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(result)), nil
}
