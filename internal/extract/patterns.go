package extract

import (
	"regexp"
	"sync"
)

// markdownPatterns holds compiled regex patterns for Markdown decoration
type markdownPatterns struct {
	ruleLine    *regexp.Regexp
	fenceLine   *regexp.Regexp
	blockPrefix *regexp.Regexp
	image       *regexp.Regexp
	link        *regexp.Regexp
	strong      *regexp.Regexp
	emphasis    *regexp.Regexp
	inlineCode  *regexp.Regexp
	escape      *regexp.Regexp
}

var (
	patterns     *markdownPatterns
	patternsOnce sync.Once
)

// getMarkdownPatterns returns the singleton instance of compiled regex patterns
func getMarkdownPatterns() *markdownPatterns {
	patternsOnce.Do(func() {
		patterns = &markdownPatterns{
			ruleLine:    regexp.MustCompile(`^[-=*_\s]{3,}$`),
			fenceLine:   regexp.MustCompile("^\x60{3}"),
			blockPrefix: regexp.MustCompile(`^(?:>\s*)*(?:#{1,6}\s+|[-*+]\s+|\d+\.\s+)?`),
			image:       regexp.MustCompile(`!\[([^\]]*)\]\([^)]*\)`),
			link:        regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`),
			strong:      regexp.MustCompile(`(\*\*|__)(.+?)(\*\*|__)`),
			emphasis:    regexp.MustCompile(`(^|[^\w*])[*_]([^*_]+)[*_]([^\w*]|$)`),
			inlineCode:  regexp.MustCompile("\x60([^\x60]*)\x60"),
			escape:      regexp.MustCompile(`\\([\\\x60*_{}\[\]()#+\-.!>])`),
		}
	})
	return patterns
}
