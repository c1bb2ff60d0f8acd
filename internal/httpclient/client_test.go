package httpclient

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateURL(t *testing.T) {
	c := New(5 * time.Second)

	tests := []struct {
		raw     string
		wantErr bool
	}{
		{"http://localhost:8400/api/graphs", false},
		{"https://example.com/api", false},
		{"ftp://example.com/file", true},
		{"file:///etc/passwd", true},
		{"http://", true},
	}
	for _, tt := range tests {
		u, err := url.Parse(tt.raw)
		require.NoError(t, err, tt.raw)
		err = c.ValidateURL(u)
		if tt.wantErr {
			assert.Error(t, err, tt.raw)
		} else {
			assert.NoError(t, err, tt.raw)
		}
	}
}

func TestValidateNilURL(t *testing.T) {
	c := New(time.Second)
	assert.Error(t, c.ValidateURL(nil))
}
