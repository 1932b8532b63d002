package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalk(t *testing.T) {
	file, err := Parse([]byte("let a = b + 1;"), nil)
	require.NoError(t, err)

	var types []string
	Walk(file, func(n *Node) bool {
		types = append(types, n.Type.String())
		return true
	})
	assert.Equal(t, []string{
		"File",
		"Program",
		"VariableDeclaration",
		"VariableDeclarator",
		"Identifier",
		"BinaryExpression",
		"Identifier",
		"NumericLiteral",
	}, types)
	assert.Equal(t, len(types), CountNodes(file))
}

func TestWalkSkipsChildren(t *testing.T) {
	file, err := Parse([]byte("function f() { return 1; }\nx;"), nil)
	require.NoError(t, err)

	var names []string
	Walk(file, func(n *Node) bool {
		if n.Type == NODE_IDENTIFIER {
			names = append(names, n.Name)
		}
		return n.Type != NODE_FUNCTION_DECLARATION
	})
	assert.Equal(t, []string{"x"}, names)
}

func TestWalkArrayHoles(t *testing.T) {
	file, err := Parse([]byte("[, a, , b];"), nil)
	require.NoError(t, err)

	array := file.Program.Body[0].Expression
	require.Len(t, array.Elements, 4)
	assert.Nil(t, array.Elements[0])
	assert.Nil(t, array.Elements[2])

	// File, Program, ExpressionStatement, ArrayExpression and two identifiers.
	assert.Equal(t, 6, CountNodes(file))
	assert.Equal(t, 0, CountNodes(nil))
}

func TestWalkSourceOrder(t *testing.T) {
	file, err := Parse([]byte("'use strict';\nswitch (a) { case b: c; }\n`x${d}y${e}z`;"), nil)
	require.NoError(t, err)

	var seen []string
	Walk(file.Program, func(n *Node) bool {
		switch n.Type {
		case NODE_IDENTIFIER:
			seen = append(seen, n.Name)
		case NODE_TEMPLATE_ELEMENT:
			seen = append(seen, n.Raw)
		case NODE_DIRECTIVE_LITERAL:
			seen = append(seen, n.Value.(string))
		}
		return true
	})
	assert.Equal(t, []string{"use strict", "a", "b", "c", "x", "d", "y", "e", "z"}, seen)
}
