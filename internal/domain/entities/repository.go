package entities

import (
	gitforgeEntities "github.com/rios0rios0/gitforge/pkg/global/domain/entities"
)

// Repository is re-exported from gitforge. Release providers read Organization
// (owner) and Name; ID and ProviderName mirror the target profile.
type Repository = gitforgeEntities.Repository
