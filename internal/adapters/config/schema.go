package config

// Catalogfile represents the structure of an argument catalog file.
type Catalogfile struct {
	Version   string                 `yaml:"version"`
	Arguments map[string]ArgumentDTO `yaml:"arguments"`
}

// ArgumentDTO represents an argument definition in the catalog.
type ArgumentDTO struct {
	Type       string   `yaml:"type"`
	Expression string   `yaml:"expression"`
	Cacheable  *bool    `yaml:"cacheable"`
	Async      bool     `yaml:"async"`
	DependsOn  []string `yaml:"dependsOn"`
}
