package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"trello-mcp-server/internal/application"
	"trello-mcp-server/internal/domain"
	"trello-mcp-server/internal/infrastructure"
)

// Injected at build time via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	// Load .env file if present (ignore error if missing).
	_ = godotenv.Load()

	// Context with signal cancellation.
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var configPath string

	rootCmd := &cobra.Command{
		Use:     "trello-mcp-server",
		Short:   "MCP server exposing the Trello REST API as tools",
		Version: fmt.Sprintf("%s (commit: %s)", version, commit),
		// Silence Cobra's default error/usage printing; we handle it ourselves.
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), configPath)
		},
	}
	rootCmd.Flags().StringVar(&configPath, "config", "config.yaml", "Path to configuration file")

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run wires configuration, client, services, handlers and transport, then
// blocks until the context is cancelled.
func run(ctx context.Context, configPath string) error {
	// Load configuration
	log.Printf("Loading configuration from: %s", configPath)
	config, err := domain.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	log.Println("Configuration loaded successfully")

	// Create the Trello API client. Default credentials may be absent; tool
	// calls must then carry their own auth argument.
	creds := domain.CredentialsFromConfig(config)
	if creds == nil {
		log.Println("No default credentials configured - clients must provide auth per call")
	}
	client := infrastructure.NewTrelloClient(config.Trello.BaseURL, creds, config.Trello.MaxRetries)

	// Attach request metrics. The global meter provider is a no-op unless an
	// SDK is installed.
	observer, err := infrastructure.NewMetricsObserver(otel.Meter("trello-mcp-server"))
	if err != nil {
		return fmt.Errorf("failed to create metrics observer: %w", err)
	}
	client.SetObserver(observer)

	// Create the service layer and response mapper
	services := infrastructure.NewServices(client)
	mapper := domain.NewResponseMapper()

	// Register a handler per Trello resource
	handlers := []domain.ToolHandler{
		application.NewBoardHandler(services, mapper),
		application.NewListHandler(services, mapper),
		application.NewCardHandler(services, mapper),
		application.NewChecklistHandler(services, mapper),
		application.NewLabelHandler(services, mapper),
		application.NewCommentHandler(services, mapper),
		application.NewAttachmentHandler(services, mapper),
		application.NewMemberHandler(services, mapper),
		application.NewWorkspaceHandler(services, mapper),
		application.NewWebhookHandler(services, mapper),
		application.NewFieldHandler(services, mapper),
		application.NewSearchHandler(services, mapper),
		application.NewBatchHandler(services, mapper),
	}

	router := application.NewRequestRouter(handlers...)
	log.Printf("Request router initialized with %d handler(s)", len(handlers))

	// Create transport based on configuration
	var transport domain.Transport
	switch config.Transport.Type {
	case "stdio":
		log.Println("Initializing stdio transport")
		transport = domain.NewStdioTransport()
	case "http":
		log.Printf("Initializing HTTP transport on %s:%d", config.Transport.HTTP.Host, config.Transport.HTTP.Port)
		transport = domain.NewHTTPTransport(config.Transport.HTTP.Host, config.Transport.HTTP.Port)
	default:
		return fmt.Errorf("invalid transport type: %s", config.Transport.Type)
	}

	// Create server with all dependencies
	server := application.NewServer(transport, router, mapper, config)
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("server failed to start: %w", err)
	}

	if config.Transport.Type == "stdio" {
		log.Println("MCP server started successfully (stdio transport)")
	} else {
		log.Printf("MCP server started successfully (HTTP transport on %s:%d)",
			config.Transport.HTTP.Host, config.Transport.HTTP.Port)
	}

	// Wait for shutdown signal
	<-ctx.Done()
	log.Println("Initiating graceful shutdown...")
	if err := server.Close(); err != nil {
		return fmt.Errorf("error during server shutdown: %w", err)
	}

	log.Println("Server shutdown complete")
	return nil
}
