package config

import "time"

// DomainConfig holds all configurable business rules and constraints
type DomainConfig struct {
	// Board constraints
	MaxCardsPerBoard int
	MaxEdgesPerBoard int

	// Card constraints
	MaxTitleLength  int
	MaxDetailLength int
	MaxTodoItems    int

	// Card geometry
	MinCardWidth  float64
	MinCardHeight float64

	// Edge constraints
	MaxLabelLength int

	// Link preview
	MetadataFetchTimeout time.Duration

	// Validation settings
	AllowSelfConnections bool
	AllowDuplicateEdges  bool
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		// Board constraints
		MaxCardsPerBoard: 10000,
		MaxEdgesPerBoard: 50000,

		// Card constraints
		MaxTitleLength:  200,
		MaxDetailLength: 50000,
		MaxTodoItems:    500,

		// Card geometry
		MinCardWidth:  200,
		MinCardHeight: 100,

		// Edge constraints
		MaxLabelLength: 200,

		// Link preview
		MetadataFetchTimeout: 5 * time.Second,

		// Validation settings
		AllowSelfConnections: false,
		AllowDuplicateEdges:  true,
	}
}

// DevelopmentDomainConfig returns development-specific configuration
func DevelopmentDomainConfig() *DomainConfig {
	config := DefaultDomainConfig()

	// More permissive for development
	config.MaxCardsPerBoard = 100000
	config.MaxEdgesPerBoard = 500000
	config.AllowSelfConnections = true

	return config
}

// ProductionDomainConfig returns production-specific configuration
func ProductionDomainConfig() *DomainConfig {
	config := DefaultDomainConfig()

	// More restrictive limits for production
	config.MaxCardsPerBoard = 5000
	config.MaxEdgesPerBoard = 25000
	config.MaxDetailLength = 20000

	return config
}

// LoadDomainConfig loads domain configuration based on environment
func LoadDomainConfig(environment string) *DomainConfig {
	switch environment {
	case "production":
		return ProductionDomainConfig()
	case "development":
		return DevelopmentDomainConfig()
	default:
		return DefaultDomainConfig()
	}
}
