package repository

import "testing"

func TestNormalizeDSN(t *testing.T) {
	tests := []struct {
		name string
		dsn  string
		dev  bool
		want string
	}{
		{"dev url", "postgres://u:p@localhost:5432/db", true, "postgres://u:p@localhost:5432/db?sslmode=disable"},
		{"dev url with params", "postgres://u:p@localhost/db?x=1", true, "postgres://u:p@localhost/db?x=1&sslmode=disable"},
		{"dev keyword", "host=localhost dbname=db", true, "host=localhost dbname=db sslmode=disable"},
		{"dev keeps sslmode", "postgres://h/db?sslmode=require", true, "postgres://h/db?sslmode=require"},
		{"prod url", "postgres://h/db", false, "postgres://h/db?prefer_simple_protocol=true"},
		{"prod keeps flag", "postgres://h/db?prefer_simple_protocol=false", false, "postgres://h/db?prefer_simple_protocol=false"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeDSN(tt.dsn, tt.dev); got != tt.want {
				t.Errorf("normalizeDSN() = %q; want %q", got, tt.want)
			}
		})
	}
}
