package parser

const (
	leadingComments  = "leadingComments"
	innerComments    = "innerComments"
	trailingComments = "trailingComments"
)

// commentWhitespace is a stretch of whitespace between two tokens that
// holds at least one comment. Its comments go to a node once the nodes
// around the stretch are known:
//
//   - before ends where the whitespace starts; the comments trail it.
//   - after starts where the whitespace ends; the comments lead it.
//   - container encloses the whitespace; the comments are inner comments
//     when neither of the others exists.
type commentWhitespace struct {
	start    int // byte offsets
	end      int
	comments []*Comment

	before    *Node
	after     *Node
	container *Node
}

func (p *Parser) pushCommentWhitespace(start, end int, comments []*Comment) {
	p.commentStack = append(p.commentStack, &commentWhitespace{
		start:    start,
		end:      end,
		comments: comments,
	})
}

// processComment runs for every finished node. Nodes finish children
// first, so a whitespace stretch is settled by the first node that
// encloses it.
func (p *Parser) processComment(node *Node) {
	stack := p.commentStack
	i := len(stack) - 1
	if i < 0 {
		return
	}
	start, end := node.offset(), node.endOffset()

	if stack[i].start == end {
		stack[i].before = node
		i--
	}
	for ; i >= 0; i-- {
		ws := stack[i]
		if ws.end > start {
			ws.container = node
			p.finalizeComment(ws)
			stack = append(stack[:i], stack[i+1:]...)
			continue
		}
		if ws.end == start {
			ws.after = node
		}
		break
	}
	p.commentStack = stack
}

func (p *Parser) finalizeComment(ws *commentWhitespace) {
	if ws.before != nil || ws.after != nil {
		if ws.before != nil {
			ws.before.attachComments(trailingComments, ws.comments)
		}
		if ws.after != nil {
			ws.after.attachComments(leadingComments, ws.comments)
		}
		return
	}

	node := ws.container
	if ws.start > 0 && p.input[ws.start-1] == ',' {
		// A comment after the last comma of a list trails the last element.
		switch node.Type {
		case NODE_OBJECT_EXPRESSION, NODE_OBJECT_PATTERN:
			adjustInnerComments(node, node.Properties, ws)
		case NODE_CALL_EXPRESSION, NODE_OPTIONAL_CALL_EXPRESSION:
			adjustInnerComments(node, node.Arguments, ws)
		case NODE_FUNCTION_DECLARATION, NODE_FUNCTION_EXPRESSION, NODE_ARROW_FUNCTION_EXPRESSION,
			NODE_OBJECT_METHOD, NODE_CLASS_METHOD, NODE_CLASS_PRIVATE_METHOD:
			adjustInnerComments(node, node.Params, ws)
		case NODE_ARRAY_EXPRESSION, NODE_ARRAY_PATTERN:
			adjustInnerComments(node, node.Elements, ws)
		case NODE_EXPORT_NAMED_DECLARATION, NODE_IMPORT_DECLARATION:
			adjustInnerComments(node, node.Specifiers, ws)
		default:
			node.attachComments(innerComments, ws.comments)
		}
		return
	}
	node.attachComments(innerComments, ws.comments)
}

func adjustInnerComments(node *Node, elements []*Node, ws *commentWhitespace) {
	var last *Node
	for i := len(elements) - 1; i >= 0 && last == nil; i-- {
		last = elements[i]
	}
	if last == nil || last.offset() > ws.start {
		node.attachComments(innerComments, ws.comments)
		return
	}
	last.attachComments(trailingComments, ws.comments)
}

// resetPreviousNodeTrailingComments detaches comments from node when it
// turned out to be a modifier, like `async` or `get`, rather than a node
// of the tree.
func (p *Parser) resetPreviousNodeTrailingComments(node *Node) {
	if n := len(p.commentStack); n > 0 && p.commentStack[n-1].before == node {
		p.commentStack[n-1].before = nil
	}
}

// takeSurroundingComments makes the expression wrapped by the parentheses
// from start to end own the comments right outside them.
func (p *Parser) takeSurroundingComments(node *Node, start, end int) {
	for i := len(p.commentStack) - 1; i >= 0; i-- {
		ws := p.commentStack[i]
		switch {
		case ws.start == end:
			ws.before = node
		case ws.end == start:
			ws.after = node
		case ws.end < start:
			return
		}
	}
}

// attachComments puts comments ahead of the ones of the same kind the node
// already has. Whitespace is settled back to front, so this keeps source
// order.
func (n *Node) attachComments(kind string, comments []*Comment) {
	var list *[]*Comment
	switch kind {
	case leadingComments:
		list = &n.LeadingComments
	case innerComments:
		list = &n.InnerComments
	default:
		list = &n.TrailingComments
	}
	if *list == nil {
		n.lateKeys = append(n.lateKeys, kind)
	}
	merged := make([]*Comment, 0, len(comments)+len(*list))
	merged = append(merged, comments...)
	*list = append(merged, *list...)
}
