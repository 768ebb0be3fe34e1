package markdown

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-slug"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
)

// slugIDs assigns heading ids with go-slug and suffixes repeats with -1, -2.
// A fresh instance is used per document.
type slugIDs struct {
	used map[string]struct{}
}

var _ parser.IDs = (*slugIDs)(nil)

func newSlugIDs() *slugIDs {
	return &slugIDs{used: map[string]struct{}{}}
}

func (s *slugIDs) Generate(value []byte, kind ast.NodeKind) []byte {
	base, err := slug.Normalize(strings.TrimSpace(string(value)))
	if err != nil || base == "" {
		base = "section"
		if kind != ast.KindHeading {
			base = "id"
		}
	}

	candidate := base
	for i := 1; ; i++ {
		if _, taken := s.used[candidate]; !taken {
			break
		}
		candidate = base + "-" + strconv.Itoa(i)
	}
	s.used[candidate] = struct{}{}
	return []byte(candidate)
}

func (s *slugIDs) Put(value []byte) {
	s.used[string(value)] = struct{}{}
}
