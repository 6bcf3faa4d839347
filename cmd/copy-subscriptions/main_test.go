package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseIDs(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"single", "sub_1", []string{"sub_1"}},
		{"several", "sub_1,sub_2", []string{"sub_1", "sub_2"}},
		{"spaces trimmed", " sub_1 , sub_2", []string{"sub_1", "sub_2"}},
		{"blank kept", "sub_1,,sub_2", []string{"sub_1", "", "sub_2"}},
		{"empty", "", []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseIDs(tt.raw))
		})
	}
}
