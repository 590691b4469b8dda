package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/stratum"
	"github.com/aretw0/stratum/pkg/cluster"
	"github.com/aretw0/stratum/pkg/domain"
	"github.com/aretw0/stratum/pkg/naming"
	"github.com/aretw0/stratum/pkg/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Verdict mirrors schema.Result for tool output.
type Verdict struct {
	Valid  bool   `json:"valid" jsonschema_description:"Whether the input passed validation"`
	Reason string `json:"reason,omitempty" jsonschema_description:"Why the input was rejected"`
}

// TypeList is the output of list_types.
type TypeList struct {
	Types []schema.Info `json:"types" jsonschema_description:"Registered types in registry order"`
}

// ValueArgs are the arguments of validate_value.
type ValueArgs struct {
	Value string `json:"value"`
	Type  string `json:"type"`
}

// NameArgs are the arguments of validate_name.
type NameArgs struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// TypeArgs are the arguments of describe_type.
type TypeArgs struct {
	Tag string `json:"tag"`
}

// ListArgs are the arguments of list_types.
type ListArgs struct {
	Category string `json:"category"`
}

// ClusterArgs are the arguments of check_cluster.
type ClusterArgs struct {
	Cluster string `json:"cluster"`
}

// Server exposes the validator (and optionally the editor) as an MCP server.
type Server struct {
	validator *stratum.Validator
	clusters  *cluster.Service
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance. clusters may be nil, in which
// case the editor tools are not registered.
func NewServer(v *stratum.Validator, clusters *cluster.Service) *Server {
	s := &Server{
		validator: v,
		clusters:  clusters,
		mcpServer: server.NewMCPServer("stratum-mcp", strings.TrimSpace(stratum.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		slog.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("validate_value",
		mcp.WithDescription("Check whether a raw text value is well formed for a type tag such as INTEGER, DATE or []UUID."),
		mcp.WithString("value", mcp.Required(), mcp.Description("The raw value, exactly as typed; arrays are JSON text")),
		mcp.WithString("type", mcp.Required(), mcp.Description("The type tag")),
		mcp.WithOutputSchema[Verdict](),
	), mcp.NewStructuredToolHandler(s.handleValidateValue))

	s.mcpServer.AddTool(mcp.NewTool("validate_name",
		mcp.WithDescription("Check an identifier against the naming policy."),
		mcp.WithString("name", mcp.Required(), mcp.Description("The proposed name")),
		mcp.WithString("kind", mcp.Description("record (default), cluster, collection or project"),
			mcp.Enum("record", "cluster", "collection", "project")),
		mcp.WithOutputSchema[Verdict](),
	), mcp.NewStructuredToolHandler(s.handleValidateName))

	s.mcpServer.AddTool(mcp.NewTool("describe_type",
		mcp.WithDescription("Describe a type tag: category, description, example and input hint."),
		mcp.WithString("tag", mcp.Required(), mcp.Description("The type tag")),
		mcp.WithOutputSchema[schema.Info](),
	), mcp.NewStructuredToolHandler(s.handleDescribeType))

	s.mcpServer.AddTool(mcp.NewTool("list_types",
		mcp.WithDescription("List every supported type tag, optionally restricted to one category."),
		mcp.WithString("category", mcp.Description("Primitive, Temporal, Identifier or Array")),
		mcp.WithOutputSchema[TypeList](),
	), mcp.NewStructuredToolHandler(s.handleListTypes))

	if s.clusters != nil {
		s.mcpServer.AddTool(mcp.NewTool("check_cluster",
			mcp.WithDescription("Re-validate every record of a stored cluster."),
			mcp.WithString("cluster", mcp.Required(), mcp.Description("Cluster key: project/collection/cluster")),
			mcp.WithOutputSchema[cluster.Report](),
		), mcp.NewStructuredToolHandler(s.handleCheckCluster))
	}
}

// Handler methods for structured tools

func (s *Server) handleValidateValue(ctx context.Context, request mcp.CallToolRequest, args ValueArgs) (Verdict, error) {
	tag := schema.Tag(args.Type)
	if parsed, err := schema.ParseTag(args.Type); err == nil {
		tag = parsed
	}
	return verdict(s.validator.ValidateValue(args.Value, tag)), nil
}

func (s *Server) handleValidateName(ctx context.Context, request mcp.CallToolRequest, args NameArgs) (Verdict, error) {
	kind, err := naming.ParseKind(args.Kind)
	if err != nil {
		return Verdict{}, err
	}
	return verdict(s.validator.ValidateName(kind, args.Name)), nil
}

func (s *Server) handleDescribeType(ctx context.Context, request mcp.CallToolRequest, args TypeArgs) (schema.Info, error) {
	tag, err := schema.ParseTag(args.Tag)
	if err != nil {
		return schema.Info{}, fmt.Errorf("Unknown data type: %s", args.Tag)
	}
	info, _ := schema.Lookup(tag)
	return info, nil
}

func (s *Server) handleListTypes(ctx context.Context, request mcp.CallToolRequest, args ListArgs) (TypeList, error) {
	tags := schema.Tags()
	if args.Category != "" {
		var ok bool
		tags, ok = categoryTags(args.Category)
		if !ok {
			return TypeList{}, fmt.Errorf("unknown category: %s", args.Category)
		}
	}

	out := TypeList{Types: make([]schema.Info, 0, len(tags))}
	for _, tag := range tags {
		info, _ := schema.Lookup(tag)
		out.Types = append(out.Types, info)
	}
	return out, nil
}

func (s *Server) handleCheckCluster(ctx context.Context, request mcp.CallToolRequest, args ClusterArgs) (cluster.Report, error) {
	ref, ok := domain.ParseClusterRef(args.Cluster)
	if !ok {
		return cluster.Report{}, fmt.Errorf("cluster must be project/collection/cluster, got %q", args.Cluster)
	}
	report, err := s.clusters.Check(ctx, ref)
	if err != nil {
		return cluster.Report{}, err
	}
	return *report, nil
}

func categoryTags(name string) ([]schema.Tag, bool) {
	groups := schema.Categorize()
	for _, c := range schema.Categories() {
		if strings.EqualFold(string(c), name) {
			return groups[c], true
		}
	}
	return nil, false
}

func verdict(res schema.Result) Verdict {
	return Verdict{Valid: res.OK(), Reason: res.Reason()}
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource("stratum://types", "Type Registry",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		list, _ := s.handleListTypes(ctx, mcp.CallToolRequest{}, ListArgs{})
		jsonBytes, err := json.Marshal(list.Types)
		if err != nil {
			return nil, fmt.Errorf("failed to encode registry: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "stratum://types",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
