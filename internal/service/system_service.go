package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/database"
	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/version"
)

// SystemService handles system-related operations
type SystemService struct {
	db *sql.DB
}

// NewSystemService creates a new SystemService
func NewSystemService(db *sql.DB) *SystemService {
	return &SystemService{
		db: db,
	}
}

// VersionInfo describes the running build and the applied schema.
type VersionInfo struct {
	AppVersion    string `json:"appVersion"`
	SchemaVersion int64  `json:"schemaVersion"`
}

// CheckHealth checks the health of the system
func (s *SystemService) CheckHealth(ctx context.Context) error {
	return database.HealthCheck(ctx, s.db)
}

// CheckVersion returns the application version and the database schema version.
func (s *SystemService) CheckVersion(ctx context.Context) (VersionInfo, error) {
	schema, err := database.SchemaVersion(ctx, s.db)
	if err != nil {
		return VersionInfo{}, fmt.Errorf("failed to get schema version: %w", err)
	}
	return VersionInfo{AppVersion: version.Version, SchemaVersion: schema}, nil
}
