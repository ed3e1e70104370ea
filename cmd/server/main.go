package main

import (
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"atlas/internal/agent"
	agentAnthropic "atlas/internal/agent/anthropic"
	"atlas/internal/agent/profile"
	"atlas/internal/agent/tools"
	"atlas/internal/athena"
	"atlas/internal/auth"
	"atlas/internal/config"
	"atlas/internal/handler"
	"atlas/internal/middleware"
	"atlas/internal/nextcloud"
	"atlas/internal/service"
	"atlas/internal/store"
	"atlas/internal/zeus"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Debug {
		logLevel = slog.LevelDebug
	}

	var logOut io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.OpenLogFile(cfg.LogDir, cfg.LogMaxFiles)
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		defer logFile.Close()
		logOut = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
	)

	// Optional bearer auth; without a JWKS URL the server runs open and
	// relies on network placement.
	var verifier auth.TokenVerifier
	if cfg.JWKSURL != "" {
		jwksVerifier, err := auth.NewJWKSVerifier(cfg.JWKSURL, logger)
		if err != nil {
			log.Fatalf("Failed to create JWT verifier: %v", err)
		}
		defer jwksVerifier.Close()
		verifier = jwksVerifier
	} else {
		logger.Warn("no JWKS URL configured, bearer auth disabled")
	}

	// External service clients
	zeusClient := zeus.NewClient(cfg.ZeusAPIURL, cfg.ZeusAPIKey)
	nodeStore := zeus.NewNodeStore(zeusClient)
	athenaClient := athena.NewClient(cfg.AthenaAPIURL)
	nextcloudClient := nextcloud.NewClient(cfg.NextcloudURL, cfg.NextcloudUsername, cfg.NextcloudPassword)

	// Workspace state
	workspaceStore := store.New(nextcloudClient, logger)
	workspaceService := service.NewWorkspaceService(nodeStore, workspaceStore, logger)

	// Agent model catalog
	modelRegistry, err := profile.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to load model catalog: %v", err)
	}
	if err := modelRegistry.Validate(cfg.AgentModel); err != nil {
		log.Fatalf("Invalid agent model: %v", err)
	}

	// Agent loop; without an API key the chat endpoint reports itself
	// unconfigured instead of failing on every call.
	var runner handler.AgentRunner
	if cfg.AnthropicAPIKey != "" {
		completer, err := agentAnthropic.NewClient(cfg.AnthropicAPIKey)
		if err != nil {
			log.Fatalf("Failed to create Anthropic client: %v", err)
		}

		registry := tools.NewRegistry()
		searchTool := tools.NewMemorySearchTool(zeusClient)
		storeTool := tools.NewMemoryStoreTool(zeusClient)
		registry.Register(searchTool.Definition(), searchTool)
		registry.Register(storeTool.Definition(), storeTool)

		runner = agent.NewLoop(completer, registry, cfg.AgentModel,
			cfg.AgentMaxTokens, cfg.AgentMaxToolRounds, logger)
		logger.Info("agent initialized",
			"model", cfg.AgentModel,
			"max_tool_rounds", cfg.AgentMaxToolRounds,
		)
	} else {
		logger.Warn("no Anthropic API key configured, chat disabled")
	}

	// Handlers
	nodesHandler := handler.NewNodesHandler(workspaceService, logger)
	chatHandler := handler.NewChatHandler(runner, workspaceStore, logger)
	filesHandler := handler.NewFilesHandler(workspaceStore, nextcloudClient.Configured(), logger)
	graphHandler := handler.NewGraphHandler(athenaClient, logger)
	modelsHandler := handler.NewModelsHandler(cfg, modelRegistry, logger)

	logger.Info("services initialized")

	// HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.Health)

	// Document tree routes
	mux.HandleFunc("GET /api/nodes", nodesHandler.GetTree)
	mux.HandleFunc("POST /api/nodes", nodesHandler.CreateNode)
	mux.HandleFunc("PATCH /api/nodes/{id}", nodesHandler.UpdateNode)
	mux.HandleFunc("DELETE /api/nodes/{id}", nodesHandler.DeleteNode)
	mux.HandleFunc("GET /api/nodes/{id}/revisions", nodesHandler.GetRevisions)

	// Agent routes
	mux.HandleFunc("POST /api/chat", chatHandler.Chat)
	mux.HandleFunc("GET /api/chat/messages", chatHandler.GetMessages)
	mux.HandleFunc("DELETE /api/chat/messages", chatHandler.ClearMessages)
	mux.HandleFunc("GET /api/models", modelsHandler.GetModels)

	// Remote file routes
	mux.HandleFunc("POST /api/nextcloud/list", filesHandler.List)
	mux.HandleFunc("POST /api/nextcloud/file", filesHandler.ReadFile)
	mux.HandleFunc("POST /api/nextcloud/save", filesHandler.SaveFile)
	mux.HandleFunc("POST /api/nextcloud/mkdir", filesHandler.Mkdir)
	mux.HandleFunc("POST /api/nextcloud/delete", filesHandler.Delete)

	// Knowledge-graph routes (read-only pass-through)
	mux.HandleFunc("GET /api/graph/overview", graphHandler.Overview)
	mux.HandleFunc("GET /api/graph/clusters/{id}", graphHandler.Cluster)
	mux.HandleFunc("GET /api/graph/clusters/{id}/memories", graphHandler.ClusterMemories)
	mux.HandleFunc("GET /api/graph/memories/{id}", graphHandler.Memory)
	mux.HandleFunc("GET /api/graph/stats", graphHandler.Stats)
	mux.HandleFunc("GET /api/graph/search", graphHandler.Search)

	// Middleware chain: CORS → Recovery → Auth → Routes
	var root http.Handler = mux
	root = middleware.Auth(verifier)(root)
	root = middleware.Recovery(logger)(root)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
