package cashasm

import "github.com/tdex-network/template-scenarios/pkg/compiler"

type node struct {
	tok token
	// children is only set for pushes.
	children []node
	rng      compiler.Range
	start    int
	end      int
}

func (n node) isPush() bool {
	return n.tok.kind == tokenPushOpen
}

// parse builds the top-level nodes of a script, nesting pushes.
func parse(tokens []token) ([]node, *compiler.CompilationError) {
	nodes, rest, err := parseNodes(tokens)
	if err != nil {
		return nil, err
	}
	if len(rest) > 0 {
		return nil, &compiler.CompilationError{
			Message: "Unexpected closing of push: \">\" has no matching \"<\".",
			Range:   rest[0].rng,
		}
	}
	return nodes, nil
}

func parseNodes(tokens []token) ([]node, []token, *compiler.CompilationError) {
	nodes := make([]node, 0)
	for len(tokens) > 0 {
		tok := tokens[0]
		switch tok.kind {
		case tokenPushClose:
			return nodes, tokens, nil
		case tokenPushOpen:
			children, rest, err := parseNodes(tokens[1:])
			if err != nil {
				return nil, nil, err
			}
			if len(rest) == 0 {
				return nil, nil, &compiler.CompilationError{
					Message: "Unterminated push: \"<\" has no matching \">\".",
					Range:   tok.rng,
				}
			}
			closing := rest[0]
			nodes = append(nodes, node{
				tok:      tok,
				children: children,
				rng: compiler.Range{
					StartLine:   tok.rng.StartLine,
					StartColumn: tok.rng.StartColumn,
					EndLine:     closing.rng.EndLine,
					EndColumn:   closing.rng.EndColumn,
				},
				start: tok.start,
				end:   closing.end,
			})
			tokens = rest[1:]
		default:
			nodes = append(nodes, node{
				tok: tok, rng: tok.rng, start: tok.start, end: tok.end,
			})
			tokens = tokens[1:]
		}
	}
	return nodes, nil, nil
}
