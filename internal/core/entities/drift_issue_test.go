package entities

import "testing"

func TestNewPackDrift(t *testing.T) {
	tests := []struct {
		name             string
		pack             PackID
		driftType        DriftType
		message          string
		context          string
		expectedSeverity DriftSeverity
	}{
		{
			name:             "version mismatch - warning severity",
			pack:             PackID{Vendor: "ARM", Name: "CMSIS", Version: "5.8.0"},
			driftType:        DriftVersionMismatch,
			message:          "locked version differs from a fresh resolve",
			context:          "locked: 5.8.0, resolved: 5.9.0",
			expectedSeverity: DriftWarning,
		},
		{
			name:             "pack missing - error severity",
			pack:             PackID{Vendor: "Keil", Name: "STM32F4xx_DFP", Version: "2.17.1"},
			driftType:        DriftPackMissing,
			message:          "locked pack no longer installed",
			context:          "",
			expectedSeverity: DriftError,
		},
		{
			name:             "constraint violated - error severity",
			pack:             PackID{Vendor: "ARM", Name: "CMSIS", Version: "5.8.0"},
			driftType:        DriftConstraintViolated,
			message:          "locked version no longer satisfies the solution's constraint",
			context:          "constraint: >=6.0.0",
			expectedSeverity: DriftError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issue := NewPackDrift(tt.pack, tt.driftType, tt.message, tt.context)

			if issue == nil {
				t.Fatal("NewPackDrift() returned nil")
			}
			if issue.Pack != tt.pack {
				t.Errorf("expected pack %v, got %v", tt.pack, issue.Pack)
			}
			if issue.Type != tt.driftType {
				t.Errorf("expected drift type %v, got %v", tt.driftType, issue.Type)
			}
			if issue.Severity != tt.expectedSeverity {
				t.Errorf("expected severity %v, got %v", tt.expectedSeverity, issue.Severity)
			}
			if issue.Message != tt.message {
				t.Errorf("expected message %q, got %q", tt.message, issue.Message)
			}
			if issue.Context != tt.context {
				t.Errorf("expected context %q, got %q", tt.context, issue.Context)
			}
		})
	}
}

func TestDriftSeverityConstants(t *testing.T) {
	if DriftWarning != 0 {
		t.Errorf("DriftWarning should be 0, got %d", DriftWarning)
	}
	if DriftError != 1 {
		t.Errorf("DriftError should be 1, got %d", DriftError)
	}
}

func TestDriftTypeConstants(t *testing.T) {
	if DriftVersionMismatch != 0 {
		t.Errorf("DriftVersionMismatch should be 0, got %d", DriftVersionMismatch)
	}
	if DriftPackMissing != 1 {
		t.Errorf("DriftPackMissing should be 1, got %d", DriftPackMissing)
	}
	if DriftConstraintViolated != 2 {
		t.Errorf("DriftConstraintViolated should be 2, got %d", DriftConstraintViolated)
	}
}
