package syntax

import (
	"encoding/json"
	"io"
)

// FprintJSON writes a JSON representation of the AST to w.
func FprintJSON(w io.Writer, node Node) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toJSON(node))
}

func toJSON(node Node) interface{} {
	if node == nil {
		return nil
	}

	switch n := node.(type) {
	case *Program:
		return map[string]interface{}{
			"type": "Program",
			"list": listJSON(n.List),
		}

	case *Block:
		return map[string]interface{}{
			"type": "Block",
			"pos":  n.pos.String(),
			"list": listJSON(n.List),
		}

	case *Binary:
		return map[string]interface{}{
			"type": "Binary",
			"pos":  n.pos.String(),
			"op":   n.Op.String(),
			"x":    toJSON(n.X),
			"y":    toJSON(n.Y),
		}

	case *Unary:
		return map[string]interface{}{
			"type": "Unary",
			"pos":  n.pos.String(),
			"op":   n.Op.String(),
			"x":    toJSON(n.X),
		}

	case *LetAssign:
		return map[string]interface{}{
			"type": "LetAssign",
			"pos":  n.pos.String(),
			"name": n.Name,
			"init": toJSON(n.Init),
		}

	case *LetGet:
		return map[string]interface{}{
			"type": "LetGet",
			"pos":  n.pos.String(),
			"name": n.Name,
		}

	case *LetSet:
		return map[string]interface{}{
			"type":  "LetSet",
			"pos":   n.pos.String(),
			"name":  n.Name,
			"value": toJSON(n.Value),
		}

	case *Print:
		return map[string]interface{}{
			"type":  "Print",
			"pos":   n.pos.String(),
			"value": toJSON(n.Value),
		}

	case *IfElse:
		m := map[string]interface{}{
			"type": "IfElse",
			"pos":  n.pos.String(),
			"cond": toJSON(n.Cond),
			"then": toJSON(n.Then),
		}
		if n.Else != nil {
			m["else"] = toJSON(n.Else)
		}
		return m

	case *FuncDef:
		params := n.Params
		if params == nil {
			params = []string{}
		}
		return map[string]interface{}{
			"type":   "FuncDef",
			"pos":    n.pos.String(),
			"name":   n.Name,
			"params": params,
			"body":   listJSON(n.Body),
		}

	case *Call:
		return map[string]interface{}{
			"type":   "Call",
			"pos":    n.pos.String(),
			"callee": toJSON(n.Callee),
			"args":   listJSON(n.Args),
		}

	case *Literal:
		return map[string]interface{}{
			"type":  "Literal",
			"pos":   n.pos.String(),
			"kind":  n.Kind.String(),
			"value": n.Value,
		}
	}

	return map[string]interface{}{"type": "Unknown"}
}

func listJSON(list []Expr) []interface{} {
	out := make([]interface{}, len(list))
	for i, x := range list {
		out[i] = toJSON(x)
	}
	return out
}
