package handlers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeMessageContent(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "  hello  ", want: "hello"},
		{in: `hi <script>alert("x")</script>there`, want: "hi there"},
		{in: `<img src=x onerror=alert(1)>`, want: "&lt;img src=x alert(1)&gt;"},
		{in: "a & b", want: "a &amp; b"},
		{in: "", wantErr: true},
		{in: "<script></script>", wantErr: true},
		{in: strings.Repeat("é", MaxMessageLength), want: strings.Repeat("é", MaxMessageLength)},
		{in: strings.Repeat("é", MaxMessageLength+1), wantErr: true},
	}

	for _, tt := range tests {
		got, err := SanitizeMessageContent(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		assert.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}
