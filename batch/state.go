//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package batch

// State is the lifecycle state of one batch job.
type State string

// Job lifecycle states. Succeeded is the only state results can be fetched
// from; Succeeded, Failed, Cancelled and Expired are terminal.
const (
	StateCreated   State = "created"
	StateUploading State = "uploading"
	StateSubmitted State = "submitted"
	StateQueued    State = "queued"
	StateRunning   State = "running"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
	StateCancelled State = "cancelled"
	StateExpired   State = "expired"
)

// Terminal reports whether no further transition can occur from the state.
func (s State) Terminal() bool {
	switch s {
	case StateSucceeded, StateFailed, StateCancelled, StateExpired:
		return true
	}
	return false
}

// Handle identifies one submitted batch job. UploadRef and JobRef are
// provider-side identifiers; ResultRef is resolved when polling observes the
// succeeded state.
type Handle struct {
	// UploadRef identifies the uploaded request file.
	UploadRef string `json:"upload_ref"`
	// JobRef identifies the remote batch job.
	JobRef string `json:"job_ref"`
	// ResultRef identifies the output file once the job succeeded.
	ResultRef string `json:"result_ref,omitempty"`
	// State is the last observed lifecycle state.
	State State `json:"state"`
	// Requests is the number of requests in the submitted chunk.
	Requests int `json:"requests"`
}
