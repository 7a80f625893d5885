package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const monthsURI = "habits://months"

func registerResources(srv *server.MCPServer, svc *Service) {
	registerMonthsResource(srv, svc)
	registerMonthTemplate(srv, svc)
}

func registerMonthsResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		monthsURI,
		"Months",
		mcp.WithResourceDescription("All tracked months with habit and completion counts."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		catalog, err := svc.ListMonths(ctx)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, catalog)
	})
}

func registerMonthTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		monthsURI+"/{month}",
		"Month Grid",
		mcp.WithTemplateDescription("The habit by day grid of one month."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		month := templateArg(request, "month", monthsURI+"/")
		if month == "" {
			return nil, fmt.Errorf("month is required")
		}
		view, err := svc.GetMonth(ctx, month)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, view)
	})
}

// templateArg reads a URI template variable, falling back to the URI suffix.
func templateArg(request mcp.ReadResourceRequest, name, prefix string) string {
	switch v := request.Params.Arguments[name].(type) {
	case string:
		return v
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	}
	return strings.TrimPrefix(request.Params.URI, prefix)
}

func encodeResourceJSON(uri string, payload any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
