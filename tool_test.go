package gosolve_test

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	gosolve "github.com/njchilds90/gosolve"
)

func call(tool, params string) gosolve.ToolResponse {
	return gosolve.HandleToolCall(gosolve.ToolRequest{Tool: tool, Params: json.RawMessage(params)})
}

const (
	jsonX     = `{"type":"var","name":"x"}`
	jsonThree = `{"type":"const","value":"3"}`
	jsonTen   = `{"type":"const","value":10}`
)

// ============================================================
// Tool tests
// ============================================================

func TestTool_Solve(t *testing.T) {
	resp := call("solve", `{"lhs":{"type":"add","left":`+jsonThree+`,"right":`+jsonX+`},"rhs":`+jsonTen+`,"target":"x"}`)
	if resp.Error != "" {
		t.Fatal(resp.Error)
	}
	out := resp.Result.(map[string]interface{})
	if out["outcome"] != "solved" {
		t.Errorf("want solved, got %v", out["outcome"])
	}
	value := out["value"].(map[string]interface{})
	if value["value"] != "7" {
		t.Errorf("want 7, got %v", value)
	}
	if resp.String != "solved: 7" {
		t.Errorf("want 'solved: 7', got %q", resp.String)
	}
}

func TestTool_SolveViolation(t *testing.T) {
	resp := call("solve", `{"lhs":{"type":"mul","left":`+jsonX+`,"right":{"type":"const","value":0}},"rhs":{"type":"const","value":5},"target":"x"}`)
	out := resp.Result.(map[string]interface{})
	if out["outcome"] != "domain_violation" || out["reason"] != gosolve.ReasonZeroFactor {
		t.Errorf("unexpected result %v", out)
	}
	if _, ok := out["node"]; !ok {
		t.Error("violation should include the node")
	}
}

func TestTool_Simplify(t *testing.T) {
	resp := call("simplify", `{"expr":{"type":"sub","left":`+jsonX+`,"right":`+jsonThree+`},"commutative_normal":true}`)
	if resp.Error != "" {
		t.Fatal(resp.Error)
	}
	if resp.String != "(x + -3)" {
		t.Errorf("want (x + -3), got %s", resp.String)
	}
}

func TestTool_EvaluateErrors(t *testing.T) {
	tests := []struct {
		params string
		kind   string
	}{
		{`{"expr":{"type":"div","left":` + jsonX + `,"right":{"type":"const","value":0}},"bindings":{"x":1}}`, "division_by_zero"},
		{`{"expr":` + jsonX + `}`, "undefined_variable"},
		{`{"expr":{"type":"pow","left":{"type":"const","value":-8},"right":{"type":"const","value":"1/3"}}}`, "domain"},
		{`{"expr":` + jsonX + `,"bindings":{"x":"one"}}`, "request"},
		{`{}`, "request"},
	}
	for _, tc := range tests {
		resp := call("evaluate", tc.params)
		if resp.Kind != tc.kind {
			t.Errorf("%s: want kind %s, got %s (%s)", tc.params, tc.kind, resp.Kind, resp.Error)
		}
	}
}

func TestTool_Evaluate(t *testing.T) {
	resp := call("evaluate", `{"expr":{"type":"mul","left":`+jsonX+`,"right":`+jsonThree+`},"bindings":{"x":1.5}}`)
	if resp.Error != "" {
		t.Fatal(resp.Error)
	}
	if v := resp.Result.(map[string]interface{})["value"]; v != 4.5 {
		t.Errorf("want 4.5, got %v", v)
	}
}

func TestTool_Verify(t *testing.T) {
	params := `{"lhs":{"type":"add","left":` + jsonX + `,"right":` + jsonThree + `},"rhs":` + jsonTen + `,"target":"x","value":{"type":"const","value":7}}`
	resp := call("verify", params)
	if resp.Error != "" || resp.Result.(map[string]interface{})["ok"] != true {
		t.Errorf("want ok, got %+v", resp)
	}
}

func TestTool_FreeVariablesAndMeasure(t *testing.T) {
	expr := `{"expr":{"type":"add","left":` + jsonX + `,"right":{"type":"var","name":"a"}}}`
	resp := call("free_variables", expr)
	if !reflect.DeepEqual(resp.Result, []string{"a", "x"}) {
		t.Errorf("want [a x], got %v", resp.Result)
	}
	resp = call("measure", expr)
	m := resp.Result.(map[string]interface{})
	if m["size"] != 3 || m["depth"] != 2 {
		t.Errorf("want size 3 depth 2, got %v", m)
	}
}

func TestTool_BadRequests(t *testing.T) {
	if resp := call("nope", `{}`); !strings.Contains(resp.Error, "unknown tool") {
		t.Errorf("want unknown tool error, got %q", resp.Error)
	}
	if resp := call("simplify", `[]`); resp.Kind != "request" {
		t.Errorf("want request error for array params, got %+v", resp)
	}
	if resp := call("solve", `{"lhs":`+jsonX+`,"rhs":`+jsonTen+`}`); !strings.Contains(resp.Error, "target") {
		t.Errorf("want missing target error, got %q", resp.Error)
	}
	resp := gosolve.HandleToolCall(gosolve.ToolRequest{Tool: "simplify"})
	if !strings.Contains(resp.Error, "missing param: expr") {
		t.Errorf("want missing expr error, got %q", resp.Error)
	}
}

func TestToolSpec(t *testing.T) {
	var spec struct {
		Tools []struct {
			Name string `json:"name"`
		} `json:"tools"`
	}
	if err := json.Unmarshal([]byte(gosolve.ToolSpec()), &spec); err != nil {
		t.Fatal(err)
	}
	names := map[string]bool{}
	for _, tool := range spec.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{"simplify", "evaluate", "solve", "verify", "free_variables", "measure"} {
		if !names[want] {
			t.Errorf("tool spec missing %s", want)
		}
	}
}
