package utils

import "testing"

func TestGetAbsolutePath(t *testing.T) {
	tests := []struct {
		path    string
		baseDir string
		want    string
	}{
		{"/var/log/trace.log", "/etc/tracegate", "/var/log/trace.log"},
		{"trace.log", "/etc/tracegate", "/etc/tracegate/trace.log"},
		{"./logs/trace.log", "/etc/tracegate", "/etc/tracegate/logs/trace.log"},
		{"../trace.log", "/etc/tracegate", "/etc/trace.log"},
		{"a//b/../trace.log", "/etc//tracegate", "/etc/tracegate/a/trace.log"},
		{"trace.log", "", "trace.log"},
	}

	for _, tt := range tests {
		if got := GetAbsolutePath(tt.path, tt.baseDir); got != tt.want {
			t.Errorf("GetAbsolutePath(%q, %q) = %q, want %q", tt.path, tt.baseDir, got, tt.want)
		}
	}
}
