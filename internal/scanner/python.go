package scanner

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"uf/internal/codemap"
)

func init() {
	Register("python", []string{".py"}, func() Extractor {
		p := sitter.NewParser()
		p.SetLanguage(python.GetLanguage())
		return &pythonExtractor{parser: p}
	})
}

// pythonExtractor extracts function definitions and the bare callee
// names inside them from Python source. Callee names are unresolved by
// design: an attribute call contributes its trailing attribute, a plain
// call its identifier, and nothing links either to a definition.
type pythonExtractor struct {
	parser *sitter.Parser
}

func (e *pythonExtractor) Language() string { return "python" }

func (e *pythonExtractor) Extract(filePath string, source []byte) (FileResult, error) {
	tree, err := e.parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		// Unparseable input contributes an empty result, never an error.
		return FileResult{}, nil
	}
	defer tree.Close()

	// Tree-sitter recovers around syntax errors, but extraction is
	// all-or-nothing per file: any syntax error means the whole file
	// contributes nothing.
	if tree.RootNode().HasError() {
		return FileResult{}, nil
	}

	result := FileResult{}
	collectFunctions(tree.RootNode(), source, filePath, result)
	return result, nil
}

// collectFunctions walks the tree and records every function_definition,
// top-level or nested. Same-named definitions in one file overwrite each
// other (last one wins), matching the map merge downstream.
func collectFunctions(node *sitter.Node, source []byte, filePath string, out FileResult) {
	if node.Type() == "function_definition" {
		if name := fieldText(node, "name", source); name != "" {
			out[name] = codemap.FunctionRecord{
				File:  filePath,
				Calls: collectCalls(node, source),
			}
		}
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		collectFunctions(node.Child(i), source, filePath, out)
	}
}

// collectCalls returns callee names under fn in source order, without
// descending into nested function definitions: their calls belong to
// the nested record. Duplicates are kept; order is call-site order.
func collectCalls(fn *sitter.Node, source []byte) []string {
	calls := []string{}
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n != fn && n.Type() == "function_definition" {
			return
		}
		if n.Type() == "call" {
			if callee := calleeName(n, source); callee != "" {
				calls = append(calls, callee)
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(fn)
	return calls
}

// calleeName extracts the bare name of a call target: the identifier of
// a simple call, or the trailing attribute of an attribute call.
// Anything else (subscripts, immediately-invoked lambdas) is skipped.
func calleeName(call *sitter.Node, source []byte) string {
	fn := call.ChildByFieldName("function")
	if fn == nil {
		return ""
	}
	switch fn.Type() {
	case "identifier":
		return nodeText(fn, source)
	case "attribute":
		return fieldText(fn, "attribute", source)
	}
	return ""
}

func fieldText(node *sitter.Node, field string, source []byte) string {
	child := node.ChildByFieldName(field)
	if child == nil {
		return ""
	}
	return nodeText(child, source)
}

func nodeText(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}
