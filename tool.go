package gosolve

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/valyala/fastjson"
)

// ============================================================
// Tool Interface
// ============================================================

type ToolRequest struct {
	Tool   string          `json:"tool"`
	Params json.RawMessage `json:"params,omitempty"`
}

type ToolResponse struct {
	Result interface{} `json:"result,omitempty"`
	String string      `json:"string,omitempty"`
	Error  string      `json:"error,omitempty"`
	// Kind classifies Error: "request", "undefined_variable",
	// "division_by_zero" or "domain".
	Kind string `json:"kind,omitempty"`
}

func requestError(err error) ToolResponse {
	return ToolResponse{Error: err.Error(), Kind: "request"}
}

func evalError(err error) ToolResponse {
	kind := "request"
	switch {
	case errors.Is(err, ErrUndefinedVariable):
		kind = "undefined_variable"
	case errors.Is(err, ErrDivisionByZero):
		kind = "division_by_zero"
	case errors.Is(err, ErrDomain):
		kind = "domain"
	}
	return ToolResponse{Error: err.Error(), Kind: kind}
}

// HandleToolCall runs one tool against the engine. Failures are reported in
// the response, never returned or panicked.
func HandleToolCall(req ToolRequest) ToolResponse {
	p := parserPool.Get()
	defer parserPool.Put(p)

	raw := req.Params
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}
	params, err := p.ParseBytes(raw)
	if err != nil {
		return requestError(fmt.Errorf("invalid params: %w", err))
	}
	if params.Type() != fastjson.TypeObject {
		return requestError(fmt.Errorf("params must be an object"))
	}

	getExpr := func(key string) (Expr, error) {
		v := params.Get(key)
		if v == nil {
			return nil, fmt.Errorf("missing param: %s", key)
		}
		e, err := FromValue(v)
		if err != nil {
			return nil, fmt.Errorf("param %s: %w", key, err)
		}
		return e, nil
	}
	getString := func(key string) (string, error) {
		v := params.Get(key)
		if v == nil {
			return "", fmt.Errorf("missing param: %s", key)
		}
		b, err := v.StringBytes()
		if err != nil || len(b) == 0 {
			return "", fmt.Errorf("param %s must be a non-empty string", key)
		}
		return string(b), nil
	}
	getBindings := func(key string) (Bindings, error) {
		out := Bindings{}
		v := params.Get(key)
		if v == nil {
			return out, nil
		}
		obj, err := v.Object()
		if err != nil {
			return nil, fmt.Errorf("param %s must be an object of numbers", key)
		}
		var visitErr error
		obj.Visit(func(k []byte, val *fastjson.Value) {
			if visitErr != nil {
				return
			}
			f, err := val.Float64()
			if err != nil {
				visitErr = fmt.Errorf("param %s.%s must be a number", key, k)
				return
			}
			out[string(k)] = f
		})
		if visitErr != nil {
			return nil, visitErr
		}
		return out, nil
	}
	getEquation := func() (*Equation, string, error) {
		lhs, err := getExpr("lhs")
		if err != nil {
			return nil, "", err
		}
		rhs, err := getExpr("rhs")
		if err != nil {
			return nil, "", err
		}
		target, err := getString("target")
		if err != nil {
			return nil, "", err
		}
		return Eq(lhs, rhs), target, nil
	}
	respond := func(e Expr) ToolResponse {
		return ToolResponse{Result: MarshalExpr(e), String: String(e)}
	}

	switch req.Tool {
	case "simplify":
		e, err := getExpr("expr")
		if err != nil {
			return requestError(err)
		}
		s := Simplifier{CommutativeNormal: params.GetBool("commutative_normal")}
		return respond(s.Simplify(e))

	case "evaluate":
		e, err := getExpr("expr")
		if err != nil {
			return requestError(err)
		}
		b, err := getBindings("bindings")
		if err != nil {
			return requestError(err)
		}
		v, err := Evaluate(e, b)
		if err != nil {
			return evalError(err)
		}
		return ToolResponse{Result: map[string]interface{}{"value": v}, String: fmt.Sprint(v)}

	case "solve":
		eq, target, err := getEquation()
		if err != nil {
			return requestError(err)
		}
		res := Solve(eq, target)
		out := map[string]interface{}{
			"outcome":     res.Outcome.String(),
			"state":       res.State.String(),
			"occurrences": res.Occurrences,
			"steps":       len(res.Steps),
		}
		if res.Value != nil {
			out["value"] = MarshalExpr(res.Value)
		}
		if res.Reason != "" {
			out["reason"] = res.Reason
		}
		if res.Node != nil {
			out["node"] = MarshalExpr(res.Node)
		}
		return ToolResponse{Result: out, String: res.String()}

	case "verify":
		eq, target, err := getEquation()
		if err != nil {
			return requestError(err)
		}
		value, err := getExpr("value")
		if err != nil {
			return requestError(err)
		}
		b, err := getBindings("bindings")
		if err != nil {
			return requestError(err)
		}
		ok, err := Verify(eq, target, value, b)
		if err != nil {
			return evalError(err)
		}
		return ToolResponse{Result: map[string]interface{}{"ok": ok}, String: fmt.Sprint(ok)}

	case "free_variables":
		e, err := getExpr("expr")
		if err != nil {
			return requestError(err)
		}
		names := SortedFreeVariables(e)
		return ToolResponse{Result: names, String: fmt.Sprint(names)}

	case "measure":
		e, err := getExpr("expr")
		if err != nil {
			return requestError(err)
		}
		size, depth := Size(e), Depth(e)
		return ToolResponse{
			Result: map[string]interface{}{"size": size, "depth": depth},
			String: fmt.Sprintf("size=%d depth=%d", size, depth),
		}

	case "tool_spec":
		return ToolResponse{String: ToolSpec()}
	}
	return requestError(fmt.Errorf("unknown tool: %q", req.Tool))
}

// ============================================================
// Tool spec
// ============================================================

func ToolSpec() string {
	tools := []map[string]interface{}{
		ts("simplify", "Simplify an expression. Optional commutative_normal (bool) rewrites a-b as a+(-b)", []string{"expr"}, map[string]string{"expr": "object", "commutative_normal": "boolean"}),
		ts("evaluate", "Evaluate an expression. bindings maps variable names to numbers", []string{"expr"}, map[string]string{"expr": "object", "bindings": "object"}),
		ts("solve", "Isolate target in lhs = rhs", []string{"lhs", "rhs", "target"}, map[string]string{"lhs": "object", "rhs": "object", "target": "string"}),
		ts("verify", "Substitute value for target and compare both sides numerically", []string{"lhs", "rhs", "target", "value"}, map[string]string{"lhs": "object", "rhs": "object", "target": "string", "value": "object", "bindings": "object"}),
		ts("free_variables", "Return the distinct variable names", []string{"expr"}, map[string]string{"expr": "object"}),
		ts("measure", "Return node count and depth", []string{"expr"}, map[string]string{"expr": "object"}),
		ts("tool_spec", "Return this tool schema", []string{}, map[string]string{}),
	}
	spec := map[string]interface{}{"tools": tools}
	b, _ := json.MarshalIndent(spec, "", "  ")
	return string(b)
}

func ts(name, description string, required []string, props map[string]string) map[string]interface{} {
	properties := map[string]interface{}{}
	for k, typ := range props {
		properties[k] = map[string]interface{}{"type": typ}
	}
	return map[string]interface{}{
		"name":        name,
		"description": description,
		"inputSchema": map[string]interface{}{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	}
}
