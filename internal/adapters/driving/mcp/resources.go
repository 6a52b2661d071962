package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// URIScheme is the custom URI scheme for slidefit resources.
	uriScheme = "slidefit://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for the composed frame.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "frame",
		Name:        "frame",
		Description: "The composed overlay frame of the loaded slide",
		MIMEType:    "application/json",
	}, s.handleFrameResource)

	// Static resource for the region list.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "regions",
		Name:        "regions",
		Description: "Regions of the loaded slide with their content and fit",
		MIMEType:    "application/json",
	}, s.handleRegionsResource)

	// Static resource for the asset list.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "assets",
		Name:        "assets",
		Description: "User assets placed on the loaded slide",
		MIMEType:    "application/json",
	}, s.handleAssetsResource)

	// Template for a single region's content.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "regions/{regionId}",
		Name:        "region-content",
		Description: "Content of a specific region, one list item per line",
		MIMEType:    "text/plain",
	}, s.handleRegionContentResource)
}

// handleFrameResource returns the current frame.
func (s *Server) handleFrameResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	return jsonResource(req.Params.URI, s.ports.Editor.Frame())
}

// handleRegionsResource returns the loaded slide's regions.
func (s *Server) handleRegionsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	return jsonResource(req.Params.URI, s.describeSlide().Regions)
}

// handleAssetsResource returns the loaded slide's assets.
func (s *Server) handleAssetsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	assets := s.ports.Editor.Assets()
	if assets == nil {
		return jsonResource(req.Params.URI, []struct{}{})
	}
	return jsonResource(req.Params.URI, assets)
}

// handleRegionContentResource returns the content of a specific region.
func (s *Server) handleRegionContentResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	// Extract regionId from URI: slidefit://regions/{regionId}
	regionID := extractRegionID(req.Params.URI)
	if regionID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	content, err := s.ports.Editor.Content(regionID)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     content.String(),
		}},
	}, nil
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractRegionID extracts the region ID from a URI like slidefit://regions/{regionId}.
func extractRegionID(uri string) string {
	const prefix = uriScheme + "regions/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
