package contracts

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pearl-labs/pearl-deploy/internal/domain"
	"github.com/pearl-labs/pearl-deploy/internal/domain/config"
	"github.com/pearl-labs/pearl-deploy/internal/domain/models"
	"github.com/pearl-labs/pearl-deploy/internal/usecase"
)

// Repository indexes compiled artifacts under the artifacts directory.
// Both Hardhat (artifacts/contracts/X.sol/X.json) and Foundry (out/X.sol/X.json)
// layouts are recognised.
type Repository struct {
	projectRoot  string
	artifactsDir string
	// key: "source:Name" and "Name"
	byKey map[string][]*models.Artifact
	log   *slog.Logger
	mu    sync.RWMutex

	indexed bool
}

// NewRepository creates a new artifact repository
func NewRepository(cfg *config.RuntimeConfig, log *slog.Logger) *Repository {
	dir := cfg.Deploy.ArtifactsDir
	if dir != "" && !filepath.IsAbs(dir) {
		dir = filepath.Join(cfg.ProjectRoot, dir)
	}
	return &Repository{
		projectRoot:  cfg.ProjectRoot,
		artifactsDir: dir,
		byKey:        make(map[string][]*models.Artifact),
		log:          log.With("component", "ArtifactRepository"),
	}
}

// Index walks the artifacts directory once
func (r *Repository) Index() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexed {
		return nil
	}
	r.byKey = make(map[string][]*models.Artifact)

	if _, err := os.Stat(r.artifactsDir); os.IsNotExist(err) {
		return fmt.Errorf("artifacts directory %s not found, compile the contracts first", r.artifactsDir)
	}

	err := filepath.Walk(r.artifactsDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if info.Name() == "build-info" {
				return filepath.SkipDir
			}
			return nil
		}
		// Hardhat debug files sit next to every artifact
		if filepath.Ext(path) != ".json" || strings.HasSuffix(path, ".dbg.json") {
			return nil
		}
		r.processArtifact(path)
		return nil
	})
	if err != nil {
		return err
	}

	r.indexed = true
	return nil
}

func (r *Repository) processArtifact(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		r.log.Debug("skipping unreadable artifact", "path", path, "error", err)
		return
	}
	artifact, err := models.ParseArtifact(data)
	if err != nil {
		return
	}
	if artifact.Bytecode.Empty() {
		return
	}

	name := artifact.ContractName
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), ".json")
		artifact.ContractName = name
	}
	artifact.Path = path

	r.byKey[name] = append(r.byKey[name], artifact)
	if artifact.SourceName != "" {
		full := artifact.SourceName + ":" + name
		r.byKey[full] = append(r.byKey[full], artifact)
	}
}

// GetArtifact finds an artifact by "Name" or "source:Name"
func (r *Repository) GetArtifact(ctx context.Context, contractName string) (*models.Artifact, error) {
	if err := r.Index(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := r.byKey[contractName]
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("artifact %s: %w", contractName, domain.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		sources := make([]string, 0, len(matches))
		for _, m := range matches {
			sources = append(sources, m.SourceName+":"+m.ContractName)
		}
		sort.Strings(sources)
		return nil, fmt.Errorf("multiple artifacts named %s, use one of %s", contractName, strings.Join(sources, ", "))
	}
}

// LoadArtifact reads a single artifact file, relative paths resolve against the project root
func (r *Repository) LoadArtifact(ctx context.Context, path string) (*models.Artifact, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.projectRoot, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("artifact file %s: %w", path, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read artifact %s: %w", path, err)
	}
	artifact, err := models.ParseArtifact(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse artifact %s: %w", path, err)
	}
	if artifact.ContractName == "" {
		artifact.ContractName = strings.TrimSuffix(filepath.Base(path), ".json")
	}
	artifact.Path = path
	return artifact, nil
}

// Ensure the adapter implements the interface
var _ usecase.ArtifactRepository = (*Repository)(nil)
