package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "separate flag and value",
			args:    []string{"-d", "wallet.db", "-x", "ignored"},
			allowed: []string{"-d"},
			want:    []string{"-d", "wallet.db"},
		},
		{
			name:    "combined flag=value",
			args:    []string{"--config=conf.json", "-b=bukit"},
			allowed: []string{"--config"},
			want:    []string{"--config=conf.json"},
		},
		{
			name:    "subcommand words are dropped",
			args:    []string{"backup", "-d", "wallet.db"},
			allowed: []string{"-d"},
			want:    []string{"-d", "wallet.db"},
		},
		{
			name:    "nothing allowed",
			args:    []string{"-a", "-b", "-c"},
			allowed: nil,
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}
