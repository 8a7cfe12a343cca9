package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSecretVersionPath(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare id", "auth-secret", "projects/p1/secrets/auth-secret/versions/latest"},
		{"resource path", "projects/p2/secrets/auth-secret", "projects/p2/secrets/auth-secret/versions/latest"},
		{"pinned version", "projects/p2/secrets/auth-secret/versions/3", "projects/p2/secrets/auth-secret/versions/3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, secretVersionPath("p1", tt.in))
		})
	}
}
