package sassrender

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInspect(t *testing.T) {
	tests := []struct {
		name string
		css  string
		want CSSStats
	}{
		{
			name: "empty",
			css:  "",
			want: CSSStats{},
		},
		{
			name: "single rule",
			css:  "a{color:red}\n",
			want: CSSStats{Rules: 1, Declarations: 1},
		},
		{
			name: "several rules and declarations",
			css:  "a{background:blue}a{font-weight:bold;color:red}\n",
			want: CSSStats{Rules: 2, Declarations: 3},
		},
		{
			name: "custom properties",
			css:  ":host{--gap:4px;margin:var(--gap)}",
			want: CSSStats{Rules: 1, Declarations: 2},
		},
		{
			name: "media query",
			css:  "@media (min-width:600px){a{color:red}b{color:blue}}",
			want: CSSStats{Rules: 2, Declarations: 2, AtRules: 1},
		},
		{
			name: "charset",
			css:  "@charset \"UTF-8\";a{content:\"é\"}",
			want: CSSStats{Rules: 1, Declarations: 1, AtRules: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Inspect(tt.css))
		})
	}
}
