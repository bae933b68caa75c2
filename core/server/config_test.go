package server_test

import (
	"testing"

	"match-calendar/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Address(t *testing.T) {
	tests := []struct {
		name string
		port string
		want string
	}{
		{"Default", "", ":8080"},
		{"Plain", "9000", ":9000"},
		{"Prefixed", ":9001", ":9001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, server.Config{Port: tt.port}.Address())
		})
	}
}

func TestConfig_Public(t *testing.T) {
	c := server.Config{PublicPaths: " /health, ,/calendar.ics "}
	assert.Equal(t, []string{"/health", "/calendar.ics"}, c.Public())
	assert.Nil(t, server.Config{}.Public())
}
