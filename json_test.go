package gosolve_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	gosolve "github.com/njchilds90/gosolve"
)

// ============================================================
// JSON tests
// ============================================================

func TestJSON_RoundTrip(t *testing.T) {
	expr := gosolve.Sub(
		gosolve.Div(gosolve.Negate(x), gosolve.MustF(-3, 4)),
		gosolve.Pow(gosolve.Mul(y, gosolve.N(2)), gosolve.Add(gosolve.N(1), x)),
	)
	s, err := gosolve.ToJSON(expr)
	if err != nil {
		t.Fatal(err)
	}
	back, err := gosolve.ParseJSON([]byte(s))
	if err != nil {
		t.Fatalf("ParseJSON(%s): %v", s, err)
	}
	if !back.Equal(expr) {
		t.Errorf("round trip changed the tree: %s vs %s", back, expr)
	}
}

func TestJSON_Shape(t *testing.T) {
	s, err := gosolve.ToJSON(gosolve.Add(x, gosolve.MustF(1, 2)))
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		t.Fatal(err)
	}
	if m["type"] != "add" {
		t.Errorf("want type add, got %v", m["type"])
	}
	right := m["right"].(map[string]interface{})
	if right["type"] != "const" || right["value"] != "1/2" {
		t.Errorf("unexpected const encoding %v", right)
	}
}

func TestParseJSON_NumericValue(t *testing.T) {
	e, err := gosolve.ParseJSON([]byte(`{"type":"const","value":0.25}`))
	if err != nil {
		t.Fatal(err)
	}
	if !e.Equal(gosolve.MustF(1, 4)) {
		t.Errorf("want 1/4, got %s", e)
	}
}

func TestParseJSON_NonFiniteConst(t *testing.T) {
	for _, v := range []string{`"NaN"`, `"Inf"`, `"1/0"`} {
		_, err := gosolve.ParseJSON([]byte(`{"type":"const","value":` + v + `}`))
		if !errors.Is(err, gosolve.ErrDomain) {
			t.Errorf("value %s: want domain error, got %v", v, err)
		}
	}
}

func TestParseJSON_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"invalid json", `{"type":`, "invalid JSON"},
		{"not an object", `[1,2]`, "must be an object"},
		{"missing type", `{"name":"x"}`, "'type'"},
		{"unknown type", `{"type":"sin","arg":{"type":"var","name":"x"}}`, "unknown expression type"},
		{"missing operand", `{"type":"add","left":{"type":"var","name":"x"}}`, `missing "right"`},
		{"bad nested", `{"type":"neg","arg":{"type":"var"}}`, "neg.arg"},
		{"bad const", `{"type":"const","value":true}`, "number or string"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := gosolve.ParseJSON([]byte(tc.in))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("want error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestParseJSON_DepthLimit(t *testing.T) {
	var sb strings.Builder
	const n = 280
	for i := 0; i < n; i++ {
		sb.WriteString(`{"type":"neg","arg":`)
	}
	sb.WriteString(`{"type":"var","name":"x"}`)
	sb.WriteString(strings.Repeat("}", n))
	if _, err := gosolve.ParseJSON([]byte(sb.String())); err == nil || !strings.Contains(err.Error(), "nested deeper") {
		t.Errorf("want depth error, got %v", err)
	}
}
