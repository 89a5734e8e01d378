package ports

import "go.trai.ch/derive/internal/core/domain"

// ConfigLoader defines the interface for loading argument catalogs and input sets.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// LoadCatalog reads the catalog at path and returns its descriptors sorted by name.
	LoadCatalog(path string) ([]domain.ArgumentDescriptor, error)

	// LoadInputs reads a flat name to scalar mapping from path.
	LoadInputs(path string) (map[string]domain.Value, error)
}
