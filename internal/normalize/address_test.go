package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddress(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"street suffix", "455 MIDDLE STREET", "455 Middle St"},
		{"already abbreviated", "123 N MAIN ST", "123 N Main St"},
		{"po box", "PO BOX 1234", "PO Box 1234"},
		{"po box with periods", "P.O. BOX 1234", "PO Box 1234"},
		{"post office box", "POST OFFICE BOX 42", "PO Box 42"},
		{"directional word", "100 NORTH ELM AVENUE", "100 N Elm Ave"},
		{"compound directional", "200 SOUTHWEST OAK BOULEVARD", "200 SW Oak Blvd"},
		{"unit designator", "12 PINE ST APARTMENT 4B", "12 Pine St Apt 4B"},
		{"suite", "900 MARKET ST SUITE 300", "900 Market St Suite 300"},
		{"numeric tokens unchanged", "1400 5TH AVE", "1400 5TH Ave"},
		{"whitespace collapsed", "  455   MIDDLE  STREET ", "455 Middle St"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Address(tt.input))
		})
	}
}

func TestPhone(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		valid    bool
	}{
		{"dashed ten digits", "339-222-4624", "+13392224624", true},
		{"parenthesized", "(339) 222-4624", "+13392224624", true},
		{"dotted", "339.222.4624", "+13392224624", true},
		{"bare ten digits", "3392224624", "+13392224624", true},
		{"eleven with country code", "13392224624", "+13392224624", true},
		{"eleven without leading one", "23392224624", "", false},
		{"seven digit test data", "2224624", "+15552224624", true},
		{"eight digits", "55222462", "+155222462", true},
		{"too short", "123", "", false},
		{"too long", "133922246241", "", false},
		{"empty", "", "", false},
		{"letters only", "call me", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Phone(tt.input)
			assert.Equal(t, tt.valid, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}
