package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/habits/pkg/app"
)

func registerTools(srv *server.MCPServer, svc *Service) {
	registerListMonthsTool(srv, svc)
	registerGetMonthTool(srv, svc)
	registerCreateMonthTool(srv, svc)
	registerSwitchMonthTool(srv, svc)
	registerDeleteMonthTool(srv, svc)
	registerAddHabitTool(srv, svc)
	registerRenameHabitTool(srv, svc)
	registerDeleteHabitTool(srv, svc)
	registerToggleDayTool(srv, svc)
}

func monthArg(required bool) mcp.ToolOption {
	if required {
		return mcp.WithString("month",
			mcp.Required(),
			mcp.Description("Month in YYYY-MM form."),
		)
	}
	return mcp.WithString("month",
		mcp.Description("Month in YYYY-MM form. Defaults to the active month."),
	)
}

func indexArg() mcp.ToolOption {
	return mcp.WithNumber("index",
		mcp.Required(),
		mcp.Description("0-based position of the habit within the month."),
		mcp.Min(0),
	)
}

func registerListMonthsTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_months",
		mcp.WithDescription("List every tracked month with habit and completion counts."),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		catalog, err := svc.ListMonths(ctx)
		if err != nil {
			return toolError(err), nil
		}
		return toJSONResult(catalog)
	})
}

func registerGetMonthTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"get_month",
		mcp.WithDescription("Fetch the habit by day grid of a month."),
		monthArg(false),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		view, err := svc.GetMonth(ctx, request.GetString("month", ""))
		if err != nil {
			return toolError(err), nil
		}
		return toJSONResult(view)
	})
}

func registerCreateMonthTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"create_month",
		mcp.WithDescription("Start tracking a new month and make it active."),
		monthArg(true),
		mcp.WithString("habits",
			mcp.Required(),
			mcp.Description("Comma separated habit names, for example \"Run, Read\"."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Month  string `json:"month"`
			Habits string `json:"habits"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		view, err := svc.CreateMonth(ctx, strings.TrimSpace(args.Month), args.Habits)
		if err != nil {
			return toolError(err), nil
		}
		return toJSONResult(view)
	})
}

func registerSwitchMonthTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"switch_month",
		mcp.WithDescription("Make a month the active month. The month need not have data yet."),
		monthArg(true),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		month, err := request.RequireString("month")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		catalog, err := svc.SwitchMonth(ctx, strings.TrimSpace(month))
		if err != nil {
			return toolError(err), nil
		}
		return toJSONResult(catalog)
	})
}

func registerDeleteMonthTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"delete_month",
		mcp.WithDescription("Delete all data for a month."),
		monthArg(true),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		month, err := request.RequireString("month")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		res, err := svc.DeleteMonth(ctx, strings.TrimSpace(month))
		if err != nil {
			return toolError(err), nil
		}
		return toJSONResult(res)
	})
}

func registerAddHabitTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"add_habit",
		mcp.WithDescription("Add a habit with no completions to a month."),
		monthArg(false),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Habit name."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := request.RequireString("name")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		view, err := svc.AddHabit(ctx, request.GetString("month", ""), name)
		if err != nil {
			return toolError(err), nil
		}
		return toJSONResult(view)
	})
}

func registerRenameHabitTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"rename_habit",
		mcp.WithDescription("Rename a habit, keeping its completions."),
		monthArg(false),
		indexArg(),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("New habit name."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		index, err := request.RequireInt("index")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		name, err := request.RequireString("name")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		view, err := svc.RenameHabit(ctx, request.GetString("month", ""), index, name)
		if err != nil {
			return toolError(err), nil
		}
		return toJSONResult(view)
	})
}

func registerDeleteHabitTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"delete_habit",
		mcp.WithDescription("Delete a habit and all of its completions."),
		monthArg(false),
		indexArg(),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		index, err := request.RequireInt("index")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		view, err := svc.DeleteHabit(ctx, request.GetString("month", ""), index)
		if err != nil {
			return toolError(err), nil
		}
		return toJSONResult(view)
	})
}

func registerToggleDayTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"toggle_day",
		mcp.WithDescription("Flip whether a habit was done on a day."),
		monthArg(false),
		indexArg(),
		mcp.WithNumber("day",
			mcp.Required(),
			mcp.Description("Day of the month, starting at 1."),
			mcp.Min(1),
			mcp.Max(31),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Month string `json:"month"`
			Index int    `json:"index"`
			Day   int    `json:"day"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		res, err := svc.ToggleDay(ctx, args.Month, args.Index, args.Day)
		if err != nil {
			return toolError(err), nil
		}
		return toJSONResult(res)
	})
}

func toolError(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(app.Message(err))
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
