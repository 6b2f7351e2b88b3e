package validate

import "testing"

func TestRequiredAndEmailAccumulateInOrder(t *testing.T) {
	res := New().
		Required("name", "").
		Email("email", "not-an-email").
		Result()

	if res.Valid {
		t.Fatal("expected invalid result")
	}
	if len(res.Errors) != 2 {
		t.Fatalf("len(errors) = %d, want 2", len(res.Errors))
	}
	if res.Errors[0].Field != "name" {
		t.Errorf("errors[0].field = %q, want %q", res.Errors[0].Field, "name")
	}
	if res.Errors[1].Field != "email" {
		t.Errorf("errors[1].field = %q, want %q", res.Errors[1].Field, "email")
	}
}

func TestValidChain(t *testing.T) {
	res := New().
		Required("name", "Ada").
		MinLength("name", "Ada", 2).
		MaxLength("name", "Ada", 100).
		Email("email", "ada@example.com").
		Phone("phone", "+1 (555) 010-0100").
		Result()

	if !res.Valid {
		t.Errorf("expected valid, got %+v", res.Errors)
	}
	if len(res.Errors) != 0 {
		t.Errorf("len(errors) = %d, want 0", len(res.Errors))
	}
}

func TestRequiredWhitespace(t *testing.T) {
	res := New().Required("name", "   ").Result()
	if res.Valid {
		t.Error("whitespace-only value should fail Required")
	}
}

func TestLengthRulesCountCharacters(t *testing.T) {
	tests := []struct {
		name  string
		value string
		min   int
		max   int
		valid bool
	}{
		{"empty skipped", "", 3, 5, true},
		{"within", "abcd", 3, 5, true},
		{"too short", "ab", 3, 5, false},
		{"too long", "abcdef", 3, 5, false},
		{"multibyte counted as runes", "héllo", 3, 5, true},
		{"emoji", "😀😀", 3, 5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := New().MinLength("f", tt.value, tt.min).MaxLength("f", tt.value, tt.max).Result()
			if res.Valid != tt.valid {
				t.Errorf("valid = %v, want %v (%+v)", res.Valid, tt.valid, res.Errors)
			}
		})
	}
}

func TestEmail(t *testing.T) {
	tests := []struct {
		value string
		valid bool
	}{
		{"", true},
		{"a@b.co", true},
		{"first.last@sub.example.org", true},
		{"not-an-email", false},
		{"a@b", false},
		{"a b@c.d", false},
		{"@b.co", false},
	}
	for _, tt := range tests {
		res := New().Email("email", tt.value).Result()
		if res.Valid != tt.valid {
			t.Errorf("Email(%q) valid = %v, want %v", tt.value, res.Valid, tt.valid)
		}
	}
}

func TestPhone(t *testing.T) {
	tests := []struct {
		value string
		valid bool
	}{
		{"", true},
		{"5550100", true},
		{"+44 20 7946 0958", true},
		{"(555) 010-0100", true},
		{"555.010.0100", true},
		{"123456", false},
		{"1234567890123456", false},
		{"555-CALL-NOW", false},
		{"12+34567890", false},
	}
	for _, tt := range tests {
		res := New().Phone("phone", tt.value).Result()
		if res.Valid != tt.valid {
			t.Errorf("Phone(%q) valid = %v, want %v", tt.value, res.Valid, tt.valid)
		}
	}
}

func TestCustomOneOfNotEmpty(t *testing.T) {
	res := New().
		Custom("terms", false, "terms must be accepted").
		OneOf("status", "archived", "pending", "contacted").
		OneOf("level", "", "beginner").
		NotEmpty("interests", 0).
		NotEmpty("tags", 2).
		Result()

	if len(res.Errors) != 3 {
		t.Fatalf("len(errors) = %d, want 3: %+v", len(res.Errors), res.Errors)
	}
	if res.Errors[0].Message != "terms must be accepted" {
		t.Errorf("message = %q", res.Errors[0].Message)
	}
	if res.Errors[1].Field != "status" || res.Errors[2].Field != "interests" {
		t.Errorf("fields = %q, %q", res.Errors[1].Field, res.Errors[2].Field)
	}
}

func TestResultIsSnapshot(t *testing.T) {
	v := New().Required("a", "")
	first := v.Result()
	v.Required("b", "")

	if len(first.Errors) != 1 {
		t.Errorf("earlier result changed: len = %d, want 1", len(first.Errors))
	}
	if len(v.Result().Errors) != 2 {
		t.Errorf("len = %d, want 2", len(v.Result().Errors))
	}
}
