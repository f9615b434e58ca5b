package diag

import "testing"

func TestNewIssue(t *testing.T) {
	issue := NewIssue(Error, E_TYPE_MISMATCH, "test message").Build()

	if issue.Severity() != Error {
		t.Errorf("Severity() = %v; want %v", issue.Severity(), Error)
	}
	if issue.Code() != E_TYPE_MISMATCH {
		t.Errorf("Code() = %v; want %v", issue.Code(), E_TYPE_MISMATCH)
	}
	if issue.Message() != "test message" {
		t.Errorf("Message() = %q; want %q", issue.Message(), "test message")
	}
	if !issue.IsValid() {
		t.Error("NewIssue should produce valid issue")
	}
}

func TestIssueBuilder_WithHint(t *testing.T) {
	issue := NewIssue(Error, E_NO_GRADIENT, "test").
		WithHint("register a gradient factory for this primitive").
		Build()

	if issue.Hint() != "register a gradient factory for this primitive" {
		t.Errorf("Hint() = %q; want %q", issue.Hint(), "register a gradient factory for this primitive")
	}
}

func TestIssueBuilder_WithDetail(t *testing.T) {
	issue := NewIssue(Error, E_NO_SIGNATURE, "test").
		WithDetail(DetailKeySymbol, "f~2").
		WithDetail(DetailKeySignature, "(Scalar, Array)").
		Build()

	details := issue.Details()
	if len(details) != 2 {
		t.Fatalf("len(Details()) = %d; want 2", len(details))
	}
	if details[0].Key != DetailKeySymbol || details[0].Value != "f~2" {
		t.Errorf("Details()[0] = %v; want {%q, %q}", details[0], DetailKeySymbol, "f~2")
	}
	if details[1].Key != DetailKeySignature || details[1].Value != "(Scalar, Array)" {
		t.Errorf("Details()[1] = %v; want {%q, %q}", details[1], DetailKeySignature, "(Scalar, Array)")
	}
}

func TestIssueBuilder_WithDetails(t *testing.T) {
	issue := NewIssue(Error, E_SHAPE_MISMATCH, "test").
		WithDetails(Detail{Key: DetailKeyExpected, Value: "(3,)"}).
		WithDetails(Detail{Key: DetailKeyGot, Value: "(4,)"}).
		Build()

	details := issue.Details()
	if len(details) != 2 {
		t.Fatalf("len(Details()) = %d; want 2", len(details))
	}
	if details[0].Key != DetailKeyExpected || details[0].Value != "(3,)" {
		t.Errorf("Details()[0] = %v; want {%q, %q}", details[0], DetailKeyExpected, "(3,)")
	}
	if details[1].Key != DetailKeyGot || details[1].Value != "(4,)" {
		t.Errorf("Details()[1] = %v; want {%q, %q}", details[1], DetailKeyGot, "(4,)")
	}
}

func TestIssueBuilder_WithDetails_Variadic(t *testing.T) {
	details := ExpectedGot("Scalar", "Tuple")

	issue := NewIssue(Error, E_TYPE_MISMATCH, "test").
		WithDetails(details...).
		Build()

	got := issue.Details()
	if len(got) != 2 {
		t.Fatalf("len(Details()) = %d; want 2", len(got))
	}
}

func TestIssueBuilder_WithExpectedGot(t *testing.T) {
	issue := NewIssue(Error, E_SHAPE_MISMATCH, "test").
		WithExpectedGot("(3,)", "(4,)").
		Build()

	details := issue.Details()
	if len(details) != 2 {
		t.Fatalf("len(Details()) = %d; want 2", len(details))
	}
	if details[0].Key != DetailKeyExpected || details[0].Value != "(3,)" {
		t.Errorf("Details()[0] = %v; want expected=(3,)", details[0])
	}
	if details[1].Key != DetailKeyGot || details[1].Value != "(4,)" {
		t.Errorf("Details()[1] = %v; want got=(4,)", details[1])
	}
}

func TestIssueBuilder_FluentChaining(t *testing.T) {
	issue := NewIssue(Error, E_GENERATION_FAILURE, "elemwise could not generate graph").
		WithHint("check argument shapes").
		WithDetails(Detail{Key: DetailKeyMetaGraph, Value: "elemwise:__add__"}).
		Build()

	if issue.Hint() == "" {
		t.Error("issue should have hint")
	}
	if len(issue.Details()) != 1 {
		t.Error("issue should have details")
	}
	if !issue.IsValid() {
		t.Error("issue should be valid")
	}
}

func TestIssueBuilder_BuildImmutability(t *testing.T) {
	builder := NewIssue(Error, E_INTERNAL, "test").
		WithDetails(Detail{Key: DetailKeySymbol, Value: "original"})

	issue1 := builder.Build()

	builder.WithDetails(Detail{Key: DetailKeyPrimitive, Value: "added"})

	issue2 := builder.Build()

	if len(issue1.Details()) != 1 {
		t.Errorf("issue1 Details() len = %d; want 1 (builder modifications affected built issue)",
			len(issue1.Details()))
	}

	if len(issue2.Details()) != 2 {
		t.Errorf("issue2 Details() len = %d; want 2", len(issue2.Details()))
	}
}

func TestIssueBuilder_BuildDeepCopy(t *testing.T) {
	builder := NewIssue(Error, E_INTERNAL, "test").
		WithDetails(Detail{Key: DetailKeySymbol, Value: "sym"})

	issue := builder.Build()

	details := issue.Details()
	details[0].Value = "modified"

	if issue.Details()[0].Value == "modified" {
		t.Error("modifying Details() return value affected issue")
	}
}

func TestIssueBuilder_EmptySlices(t *testing.T) {
	issue := NewIssue(Error, E_INTERNAL, "test").Build()

	if issue.Details() != nil {
		t.Error("Details() should be nil when no details added")
	}
}

func TestNewIssue_AllSeverities(t *testing.T) {
	severities := []Severity{Fatal, Error, Warning, Info, Hint}

	for _, sev := range severities {
		t.Run(sev.String(), func(t *testing.T) {
			issue := NewIssue(sev, E_INTERNAL, "test").Build()
			if issue.Severity() != sev {
				t.Errorf("Severity() = %v; want %v", issue.Severity(), sev)
			}
			if !issue.IsValid() {
				t.Error("issue should be valid")
			}
		})
	}
}

// TestNewIssue_PanicOnInvalidSeverity verifies that NewIssue panics when
// given an out-of-range severity value.
func TestNewIssue_PanicOnInvalidSeverity(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("NewIssue with invalid severity should panic")
		}
	}()

	NewIssue(Severity(255), E_INTERNAL, "test")
}

// TestNewIssue_PanicOnZeroCode verifies that NewIssue panics when given a
// zero Code value.
func TestNewIssue_PanicOnZeroCode(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("NewIssue with zero code should panic")
		}
	}()

	NewIssue(Error, Code{}, "test")
}

// TestNewIssue_PanicOnEmptyMessage verifies that NewIssue panics when given
// an empty message.
func TestNewIssue_PanicOnEmptyMessage(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("NewIssue with empty message should panic")
		}
	}()

	NewIssue(Error, E_INTERNAL, "")
}

// TestNewIssue_PanicOnSeverityJustAboveHint verifies the boundary case
// where severity is just above the valid range (Hint + 1 = 5).
func TestNewIssue_PanicOnSeverityJustAboveHint(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("NewIssue with severity > Hint should panic")
		}
	}()

	NewIssue(Severity(5), E_INTERNAL, "test")
}

// TestFromIssue_ValidatesInput verifies that FromIssue panics on invalid issues.
func TestFromIssue_ValidatesInput(t *testing.T) {
	t.Run("panics on zero issue", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Error("FromIssue with zero issue should panic")
			}
		}()
		FromIssue(Issue{})
	})

	t.Run("panics on invalid issue (missing code)", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Error("FromIssue with invalid issue should panic")
			}
		}()
		invalid := Issue{
			severity: Error,
			message:  "test",
		}
		FromIssue(invalid)
	})

	t.Run("accepts valid issue", func(t *testing.T) {
		valid := NewIssue(Error, E_INTERNAL, "test message").Build()
		builder := FromIssue(valid)
		if builder == nil {
			t.Error("FromIssue should return non-nil builder for valid issue")
		}
		rebuilt := builder.Build()
		if rebuilt.Message() != "test message" {
			t.Errorf("Message() = %q; want %q", rebuilt.Message(), "test message")
		}
	})
}
