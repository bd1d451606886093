package validator

import (
	"errors"
	"net/http"
	"testing"
)

func TestGetJWSFromRequest(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr error
	}{
		{"valid bearer token", "Bearer abc.def.ghi", "abc.def.ghi", nil},
		{"missing header", "", "", ErrNoAuthHeader},
		{"wrong scheme", "Basic abc", "", ErrInvalidAuthHeader},
		{"lowercase bearer", "bearer abc", "", ErrInvalidAuthHeader},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			got, err := GetJWSFromRequest(req)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("token = %q, want %q", got, tt.want)
			}
		})
	}
}
