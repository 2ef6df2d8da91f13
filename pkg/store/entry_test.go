package store

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewRun(t *testing.T) {
	smiles := []string{"CCO", "CCN"}
	run := NewRun(OperationScoreBatch, "fast", smiles)

	if _, err := uuid.Parse(run.ID); err != nil {
		t.Errorf("ID %q is not a UUID: %v", run.ID, err)
	}
	if run.Operation != OperationScoreBatch {
		t.Errorf("Operation = %q, want %q", run.Operation, OperationScoreBatch)
	}

	smiles[0] = "changed"
	if run.SMILES[0] != "CCO" {
		t.Error("NewRun should copy the compound list")
	}

	other := NewRun(OperationScoreBatch, "fast", nil)
	if other.ID == run.ID {
		t.Error("NewRun should assign distinct IDs")
	}
}

func TestRun_IsExpired(t *testing.T) {
	tests := []struct {
		name    string
		expires time.Time
		want    bool
	}{
		{"future", time.Now().Add(time.Hour), false},
		{"past", time.Now().Add(-time.Second), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := &Run{Expires: tt.expires}
			if got := run.IsExpired(); got != tt.want {
				t.Errorf("IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRun_TTL(t *testing.T) {
	run := &Run{Expires: time.Now().Add(10 * time.Minute)}
	ttl := run.TTL()
	if ttl <= 9*time.Minute || ttl > 10*time.Minute {
		t.Errorf("TTL() = %v, want about 10m", ttl)
	}

	expired := &Run{Expires: time.Now().Add(-time.Minute)}
	if got := expired.TTL(); got != 0 {
		t.Errorf("TTL() of expired run = %v, want 0", got)
	}
}
