package dto

import "time"

// JobResponseDTO is one history entry returned by GET /v1/jobs.
type JobResponseDTO struct {
	JobID             string             `json:"jobId"`
	InputText         string             `json:"inputText"`
	Context           GenerateContextDTO `json:"context"`
	Formats           []string           `json:"formats"`
	Outputs           map[string]string  `json:"outputs"`
	RegenerationCount int                `json:"regenerationCount"`
	CreatedAt         time.Time          `json:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt"`
}

// JobListResponseDTO is the body of GET /v1/jobs.
type JobListResponseDTO struct {
	Jobs []JobResponseDTO `json:"jobs"`
}
