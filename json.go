package gosolve

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/valyala/fastjson"
)

// ============================================================
// JSON Serialization
// ============================================================

// maxJSONDepth bounds nesting accepted by ParseJSON.
const maxJSONDepth = 256

var parserPool fastjson.ParserPool

// MarshalExpr converts e into the generic tree form used on the wire.
func MarshalExpr(e Expr) map[string]interface{} {
	switch v := e.(type) {
	case *Const:
		return map[string]interface{}{"type": "const", "value": v.String()}
	case *Var:
		return map[string]interface{}{"type": "var", "name": v.name}
	case *Neg:
		return map[string]interface{}{"type": "neg", "arg": MarshalExpr(v.arg)}
	case *BinOp:
		return map[string]interface{}{
			"type":  v.op.String(),
			"left":  MarshalExpr(v.left),
			"right": MarshalExpr(v.right),
		}
	}
	panic(unknownNode(e))
}

func ToJSON(e Expr) (string, error) {
	b, err := json.Marshal(MarshalExpr(e))
	return string(b), err
}

// ParseJSON decodes an expression tree. Constants accept a JSON number or a
// string such as "3/4" or "-0.25"; non-finite values are a *DomainError.
func ParseJSON(data []byte) (Expr, error) {
	p := parserPool.Get()
	defer parserPool.Put(p)

	v, err := p.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return FromValue(v)
}

// FromValue decodes an expression from an already parsed fastjson value.
func FromValue(v *fastjson.Value) (Expr, error) { return fromValue(v, 0) }

func fromValue(v *fastjson.Value, depth int) (Expr, error) {
	if depth > maxJSONDepth {
		return nil, fmt.Errorf("expression nested deeper than %d", maxJSONDepth)
	}
	if v == nil || v.Type() != fastjson.TypeObject {
		return nil, fmt.Errorf("expression must be an object")
	}
	typ := string(v.GetStringBytes("type"))
	if typ == "" {
		return nil, fmt.Errorf("field 'type' must be a non-empty string")
	}

	sub := func(field string) (Expr, error) {
		c := v.Get(field)
		if c == nil {
			return nil, fmt.Errorf("%s: missing %q", typ, field)
		}
		e, err := fromValue(c, depth+1)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", typ, field, err)
		}
		return e, nil
	}

	switch typ {
	case "const":
		return constFromValue(v.Get("value"))
	case "var":
		name := string(v.GetStringBytes("name"))
		if name == "" {
			return nil, fmt.Errorf("var: 'name' must be a non-empty string")
		}
		return S(name), nil
	case "neg":
		arg, err := sub("arg")
		if err != nil {
			return nil, err
		}
		return Negate(arg), nil
	}

	op, ok := opFromName(typ)
	if !ok {
		return nil, fmt.Errorf("unknown expression type %q", typ)
	}
	left, err := sub("left")
	if err != nil {
		return nil, err
	}
	right, err := sub("right")
	if err != nil {
		return nil, err
	}
	return Binary(op, left, right), nil
}

func constFromValue(v *fastjson.Value) (*Const, error) {
	if v == nil {
		return nil, fmt.Errorf("const: missing \"value\"")
	}
	var text string
	switch v.Type() {
	case fastjson.TypeString:
		text = string(v.GetStringBytes())
	case fastjson.TypeNumber:
		text = v.String()
	default:
		return nil, fmt.Errorf("const: 'value' must be a number or string")
	}
	r, ok := new(big.Rat).SetString(text)
	if !ok {
		return nil, &DomainError{Op: "const", Reason: fmt.Sprintf("%q is not a finite number", text)}
	}
	return &Const{val: r}, nil
}
