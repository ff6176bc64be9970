package lambda

import (
	"context"
	"sync"

	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"

	"mathexp-api/internal/config"
	"mathexp-api/pkg/server"
)

// ContainerManager keeps the service container alive across warm Lambda invocations
type ContainerManager struct {
	container   *server.Container
	mu          sync.RWMutex
	initialized bool
	loadConfig  func() (*config.Config, error)
}

var (
	globalContainerManager *ContainerManager
	containerManagerOnce   sync.Once
)

// GetContainerManager returns the global container manager instance
func GetContainerManager() *ContainerManager {
	containerManagerOnce.Do(func() {
		globalContainerManager = NewContainerManager(config.GetOptimizedConfig)
	})
	return globalContainerManager
}

// NewContainerManager creates a manager that builds its container from loadConfig on first use
func NewContainerManager(loadConfig func() (*config.Config, error)) *ContainerManager {
	return &ContainerManager{loadConfig: loadConfig}
}

// GetContainer returns the service container, initializing it if necessary
func (cm *ContainerManager) GetContainer(ctx context.Context) (*server.Container, error) {
	cm.mu.RLock()
	if cm.initialized {
		container := cm.container
		cm.mu.RUnlock()
		return container, nil
	}
	cm.mu.RUnlock()

	cm.mu.Lock()
	defer cm.mu.Unlock()

	// Another invocation may have won the race
	if cm.initialized {
		return cm.container, nil
	}

	cfg, err := cm.loadConfig()
	if err != nil {
		return nil, err
	}

	// Lambda has no scrape endpoint, so metrics are not registered
	container, err := server.NewContainer(cfg, nil)
	if err != nil {
		return nil, err
	}

	cm.container = container
	cm.initialized = true
	return container, nil
}

// Cleanup releases the container; the next GetContainer rebuilds it
func (cm *ContainerManager) Cleanup() error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.container != nil {
		if err := cm.container.Close(); err != nil {
			return err
		}
		cm.container = nil
	}

	cm.initialized = false
	return nil
}

// StartOptions returns the runtime options shared by the Lambda entrypoints.
// When the runtime receives SIGTERM the container is released.
func StartOptions(cm *ContainerManager) []awslambda.Option {
	return []awslambda.Option{awslambda.WithEnableSIGTERM(cm.shutdown)}
}

func (cm *ContainerManager) shutdown() {
	if err := cm.Cleanup(); err != nil {
		logrus.WithError(err).Error("Failed to release container on shutdown")
		return
	}
	logrus.Info("Container released on shutdown")
}
