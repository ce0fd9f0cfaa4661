package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateBaseName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"empty", "", errBaseNameRequired},
		{"valid", "ceph-node", nil},
		{"single char", "a", nil},
		{"uppercase", "Ceph", errBaseNameInvalid},
		{"leading hyphen", "-ceph", errBaseNameInvalid},
		{"trailing hyphen", "ceph-", errBaseNameInvalid},
		{"underscore", "ceph_node", errBaseNameInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateBaseName(tt.input)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateSize(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"empty", "", errSizeRequired},
		{"plain bytes", "2048", nil},
		{"gigabytes", "2G", nil},
		{"megabytes lowercase", "512m", nil},
		{"trailing junk", "2GB", errSizeInvalid},
		{"negative", "-2G", errSizeInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateSize(tt.input)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNodeCountOptionsCoverSupportedSizes(t *testing.T) {
	var counts []int
	for _, opt := range NodeCountOptions {
		counts = append(counts, opt.Value)
	}
	assert.Equal(t, []int{1, 2, 3, 5}, counts)
}
