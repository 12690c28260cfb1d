package ingest

import "github.com/orderof/catalog/pkg/models"

type SyncPayload struct {
	FranchiseID   *string `json:"franchise_id,omitempty" mod:"trim" validate:"omitempty,max=64"`
	FranchiseName string  `json:"franchise_name" mod:"trim" validate:"required,max=200"`
}

type SyncResponse struct {
	Message   string            `json:"message"`
	Franchise *models.Franchise `json:"franchise"`
	SyncRun   *models.SyncRun   `json:"sync_run"`
}

type PopularResponse struct {
	Message string `json:"message"`
	*PopularResult
}
