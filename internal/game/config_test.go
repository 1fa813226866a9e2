package game

import "testing"

func envFunc(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(envFunc(nil))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("LoadConfig() = %+v, want defaults %+v", cfg, DefaultConfig())
	}
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		want    Config
		wantErr bool
	}{
		{
			name: "all set",
			env: map[string]string{
				EnvSeed:      "1234",
				EnvPreset:    "halls",
				EnvLevels:    "3",
				EnvFormat:    "JSON",
				EnvColor:     "false",
				EnvVerbosity: "2",
			},
			want: Config{Seed: 1234, Preset: "halls", Levels: 3, Format: FormatJSON, Color: false, Verbosity: 2},
		},
		{
			name: "negative seed",
			env:  map[string]string{EnvSeed: "-5"},
			want: Config{Seed: -5, Preset: "default", Levels: 1, Format: FormatAuto, Color: true},
		},
		{name: "bad seed", env: map[string]string{EnvSeed: "abc"}, wantErr: true},
		{name: "zero levels", env: map[string]string{EnvLevels: "0"}, wantErr: true},
		{name: "bad levels", env: map[string]string{EnvLevels: "many"}, wantErr: true},
		{name: "unknown format", env: map[string]string{EnvFormat: "png"}, wantErr: true},
		{name: "bad color", env: map[string]string{EnvColor: "maybe"}, wantErr: true},
		{name: "negative verbosity", env: map[string]string{EnvVerbosity: "-1"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadConfig(envFunc(tt.env))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Expected error, got config %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadConfig failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("LoadConfig() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
