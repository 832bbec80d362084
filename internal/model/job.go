package model

import "time"

// Job is one persisted generation artifact: the source it was produced from,
// what was requested, and what came back. Regenerations are bounded by
// RegenerationCount; the counter only ever grows.
type Job struct {
	ID                string            `db:"id" json:"id"`
	UserID            string            `db:"user_id" json:"user_id"`
	InputText         string            `db:"input_text" json:"input_text"`
	Context           GenerateContext   `db:"context" json:"context"`
	Formats           []Format          `db:"formats" json:"formats"`
	Outputs           map[Format]string `db:"outputs" json:"outputs"`
	IsPaid            bool              `db:"is_paid" json:"is_paid"`
	RegenerationCount int               `db:"regeneration_count" json:"regeneration_count"`
	VisibleInHistory  bool              `db:"visible_in_history" json:"visible_in_history"`
	CreatedAt         time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time         `db:"updated_at" json:"updated_at"`
}
