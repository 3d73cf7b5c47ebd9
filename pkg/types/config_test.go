package types

import (
	"errors"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:    "empty driver returns ErrDriverEmpty",
			config:  Config{Driver: "", Database: "storedb"},
			wantErr: ErrDriverEmpty,
		},
		{
			name:    "unknown driver returns ErrDriverUnknown",
			config:  Config{Driver: "postgres", Database: "storedb"},
			wantErr: ErrDriverUnknown,
		},
		{
			name:    "empty database returns ErrDatabaseEmpty",
			config:  Config{Driver: DriverSQLite},
			wantErr: ErrDatabaseEmpty,
		},
		{
			name:    "server procedures on sqlite are rejected",
			config:  Config{Driver: DriverSQLite, Database: "storedb", Procedures: ProceduresServer},
			wantErr: ErrServerProcedures,
		},
		{
			name:    "unknown procedures strategy",
			config:  Config{Driver: DriverMySQL, Database: "storedb", Procedures: "remote"},
			wantErr: ErrProceduresUnknown,
		},
		{
			name:    "valid sqlite config",
			config:  Config{Driver: DriverSQLite, Database: "storedb", DataDir: "/tmp/data"},
			wantErr: nil,
		},
		{
			name:    "valid mysql config with server procedures",
			config:  Config{Driver: DriverMySQL, Host: "localhost", Database: "storedb", Procedures: ProceduresServer},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected nil error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error %v, got nil", tt.wantErr)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfigEffectiveProcedures(t *testing.T) {
	tests := []struct {
		config Config
		want   string
	}{
		{Config{Driver: DriverSQLite}, ProceduresNative},
		{Config{Driver: DriverMySQL}, ProceduresServer},
		{Config{Driver: DriverMySQL, Procedures: ProceduresNative}, ProceduresNative},
	}
	for _, tt := range tests {
		if got := tt.config.EffectiveProcedures(); got != tt.want {
			t.Errorf("EffectiveProcedures(%+v) = %q, want %q", tt.config, got, tt.want)
		}
	}
}
