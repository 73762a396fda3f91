package app

import (
	"errors"
	"testing"
	"time"
)

func TestNewOperation(t *testing.T) {
	tests := []struct {
		name       string
		operation  string
		parameters string
	}{
		{
			name:       "with parameters",
			operation:  "PostCreate",
			parameters: "title=Sunset",
		},
		{
			name:       "empty parameters",
			operation:  "Feed",
			parameters: "",
		},
	}

	start := time.Date(2024, 6, 15, 14, 30, 45, 0, time.UTC)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := NewOperation(tt.operation, tt.parameters, start)

			if op.ID != "20240615T143045Z" {
				t.Errorf("ID = %q, want %q", op.ID, "20240615T143045Z")
			}
			if op.Name != tt.operation {
				t.Errorf("Name = %q, want %q", op.Name, tt.operation)
			}
			if op.Parameters != tt.parameters {
				t.Errorf("Parameters = %q, want %q", op.Parameters, tt.parameters)
			}
			if op.Status != "success" {
				t.Errorf("Status = %q, want %q", op.Status, "success")
			}
			if op.Mutated() {
				t.Error("new operation reports Mutated")
			}
		})
	}
}

func TestOperation_Record(t *testing.T) {
	op := NewOperation("Login", "", time.Now())

	if err := op.Record(nil); err != nil || op.Status != "success" {
		t.Errorf("Record(nil) = %v, status %q", err, op.Status)
	}

	boom := errors.New("boom")
	if err := op.Record(boom); err != boom {
		t.Errorf("Record() returned %v, want the same error", err)
	}
	if op.Status != "error" {
		t.Errorf("Status = %q, want %q", op.Status, "error")
	}

	// A later success does not clear the failure.
	op.Record(nil)
	if op.Status != "error" {
		t.Errorf("Status = %q after success, want %q", op.Status, "error")
	}
}
