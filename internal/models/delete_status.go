package models

// DeleteStatus reports the outcome of a delete-one against the store
type DeleteStatus struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deleted_count"`
}
