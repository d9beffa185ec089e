package models

import "time"

type StatusGetResponse struct {
	// Populated is false until the first successful upload.
	Populated  bool       `json:"populated" yaml:"populated"`
	Chunks     int        `json:"chunks" yaml:"chunks"`
	Dimensions int        `json:"dimensions" yaml:"dimensions"`
	IndexID    string     `json:"indexId,omitempty" yaml:"indexId,omitempty"`
	IndexedAt  *time.Time `json:"indexedAt,omitempty" yaml:"indexedAt,omitempty"`
}
