package detect

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name   string
		sample string
		want   string
	}{
		{"ndjson", `{"id":"1","name":"Cafe"}` + "\n" + `{"id":"2","name":"Gym"}`, FormatNDJSON},
		{"json array", "\n[\n  {\"id\": \"1\"}\n]", FormatJSON},
		{"logfmt", "id=1 name=Cafe open=true\nid=2 name=\"Main Gym\" open=false", FormatLogfmt},
		{"csv", "id,name,capacity\n1,Cafe,40\n2,Gym,120", FormatCSV},
		{"prose", "hello there\nnothing to see", FormatUnknown},
		{"empty", "\n\n", FormatUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Format(strings.Split(tt.sample, "\n"))
			assert.Equal(t, tt.want, g.Format)
			if tt.want != FormatUnknown {
				assert.Greater(t, g.Confidence, 0.5)
			}
		})
	}
}
