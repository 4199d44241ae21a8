// Copyright © 2018 The ELPS authors

package repl

import (
	"sort"
	"strings"

	"github.com/luthersystems/tinylisp/lisp"
	"github.com/luthersystems/tinylisp/parser/lexer"
)

// symbolCompleter implements readline.AutoCompleter by enumerating the
// symbols bound in the REPL environment and the special operators.
type symbolCompleter struct {
	env *lisp.LEnv
}

func (c *symbolCompleter) Do(line []rune, pos int) ([][]rune, int) {
	// extract the word being typed, backwards from the cursor
	start := pos
	for start > 0 && lexer.IsSymbol(line[start-1]) {
		start--
	}
	prefix := string(line[start:pos])
	if prefix == "" {
		return nil, 0
	}

	candidates := c.collectSymbols(prefix)
	if len(candidates) == 0 {
		return nil, 0
	}

	// each entry is the suffix to append
	result := make([][]rune, 0, len(candidates))
	for _, sym := range candidates {
		result = append(result, []rune(sym[len(prefix):]))
	}
	return result, len([]rune(prefix))
}

func (c *symbolCompleter) collectSymbols(prefix string) []string {
	seen := make(map[string]bool)
	var result []string
	add := func(name string) {
		if strings.HasPrefix(name, prefix) && !seen[name] {
			seen[name] = true
			result = append(result, name)
		}
	}
	for _, op := range lisp.DefaultSpecialOps() {
		add(op.Name())
	}
	for env := c.env; env != nil; env = env.Parent {
		for name := range env.Scope {
			add(name)
		}
	}
	sort.Strings(result)
	return result
}
