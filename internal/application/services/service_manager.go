package services

import (
	"log"

	"github.com/schemastudio/backend/internal/bootstrap"
	"github.com/schemastudio/backend/internal/infrastructure/workspace"
	"github.com/schemastudio/backend/pkg/llm"
)

// Config carries the environment-driven settings the services need.
type Config struct {
	WorkspaceDir string
	AIBaseURL    string
	AIKey        string
	AIModel      string
}

// ServiceManager orchestrates all services with dependency injection
type ServiceManager struct {
	Document  *DocumentService
	Suggest   *SuggestionService
	Workspace *workspace.Store
}

// NewServiceManager creates a new service manager with all dependencies wired
func NewServiceManager(cfg Config) (*ServiceManager, error) {
	sm := &ServiceManager{}

	sm.Document = NewDocumentService(bootstrap.DefaultDocument())

	var client llm.Client
	if cfg.AIBaseURL != "" {
		client = llm.NewOpenAIClient(cfg.AIBaseURL, cfg.AIKey)
		log.Printf("🤖 Suggestion service using model %s at %s", cfg.AIModel, cfg.AIBaseURL)
	} else {
		log.Println("🤖 No AI endpoint configured, suggestions use the rule-based fallback")
	}
	sm.Suggest = NewSuggestionService(client, cfg.AIModel)

	ws, err := workspace.NewStore(cfg.WorkspaceDir)
	if err != nil {
		return nil, err
	}
	sm.Workspace = ws

	return sm, nil
}

// Close releases service resources.
func (sm *ServiceManager) Close() error {
	if sm.Workspace != nil {
		return sm.Workspace.Close()
	}
	return nil
}
