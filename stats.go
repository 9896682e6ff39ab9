package sassrender

import (
	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// CSSStats summarizes compiled CSS for verbose reporting.
type CSSStats struct {
	Rules        int // rulesets, including those nested in @media
	Declarations int // property declarations, custom properties included
	AtRules      int // @media, @font-face, @keyframes, @charset, ...
}

// Inspect counts rulesets, declarations and at-rules in css.
// Malformed input stops the count at the first parse error.
func Inspect(content string) CSSStats {
	var stats CSSStats

	p := css.NewParser(parse.NewInputString(content), false)
	for {
		gt, _, _ := p.Next()
		switch gt {
		case css.ErrorGrammar:
			// ErrorGrammar at EOF is normal
			return stats
		case css.BeginRulesetGrammar:
			stats.Rules++
		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			stats.Declarations++
		case css.AtRuleGrammar, css.BeginAtRuleGrammar:
			stats.AtRules++
		}
	}
}
