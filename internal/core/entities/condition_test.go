package entities

import "testing"

func TestConditionEvaluateRequire(t *testing.T) {
	cond := &Condition{
		ID: "CORTEX-M",
		Rules: []Rule{
			{Kind: RuleRequire, Attributes: []Attribute{{Key: "Dcore", Value: "Cortex-M*"}}},
		},
	}
	env := NewEnvironment()
	env.Set("Dcore", "Cortex-M4")

	resolve := func(id string) (bool, error) { return false, nil }
	ok, err := cond.Evaluate(env, resolve)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !ok {
		t.Error("expected condition to be satisfied")
	}

	env2 := NewEnvironment()
	env2.Set("Dcore", "Cortex-A53")
	ok2, _ := cond.Evaluate(env2, resolve)
	if ok2 {
		t.Error("expected condition to fail for non-matching core")
	}
}

func TestConditionEvaluateDeny(t *testing.T) {
	cond := &Condition{
		Rules: []Rule{
			{Kind: RuleDeny, Attributes: []Attribute{{Key: "Tcompiler", Value: "GCC"}}},
		},
	}
	resolve := func(id string) (bool, error) { return false, nil }

	env := NewEnvironment()
	env.Set("Tcompiler", "GCC")
	ok, _ := cond.Evaluate(env, resolve)
	if ok {
		t.Error("expected deny rule to reject GCC")
	}

	env2 := NewEnvironment()
	env2.Set("Tcompiler", "AC6")
	ok2, _ := cond.Evaluate(env2, resolve)
	if !ok2 {
		t.Error("expected deny rule to accept non-GCC")
	}
}

func TestConditionEvaluateAcceptGroup(t *testing.T) {
	cond := &Condition{
		Rules: []Rule{
			{Kind: RuleAccept, Attributes: []Attribute{{Key: "Dfpu", Value: "SP_FPU"}}},
			{Kind: RuleAccept, Attributes: []Attribute{{Key: "Dfpu", Value: "DP_FPU"}}},
		},
	}
	resolve := func(id string) (bool, error) { return false, nil }

	env := NewEnvironment()
	env.Set("Dfpu", "DP_FPU")
	ok, _ := cond.Evaluate(env, resolve)
	if !ok {
		t.Error("expected at least one accept group to match")
	}

	env2 := NewEnvironment()
	env2.Set("Dfpu", "NO_FPU")
	ok2, _ := cond.Evaluate(env2, resolve)
	if ok2 {
		t.Error("expected no accept group to match NO_FPU")
	}
}

func TestConditionNestedReference(t *testing.T) {
	cond := &Condition{
		Rules: []Rule{
			{Kind: RuleRequire, Attributes: []Attribute{{ConditionID: "inner"}}},
		},
	}
	resolve := func(id string) (bool, error) {
		if id == "inner" {
			return true, nil
		}
		return false, nil
	}
	ok, err := cond.Evaluate(NewEnvironment(), resolve)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !ok {
		t.Error("expected nested condition reference to resolve true")
	}
}
