package tables

import "testing"

func TestDefaultIsSingleton(t *testing.T) {
	a := Default()
	b := Default()
	if a != b {
		t.Error("Default() should return the same pointer across calls")
	}
}

func TestClassMembership(t *testing.T) {
	tbl := New()
	if !tbl.Test(ClassDigit, '5') {
		t.Error("'5' should be a digit")
	}
	if tbl.Test(ClassDigit, 'x') {
		t.Error("'x' should not be a digit")
	}
	if !tbl.Test(ClassWord, '_') {
		t.Error("'_' should be a word byte")
	}
	if !tbl.Test(ClassSpace, ' ') || !tbl.Test(ClassSpace, '\t') {
		t.Error("space and tab should be ClassSpace members")
	}
}

func TestLowerAndFlip(t *testing.T) {
	tbl := New()
	if tbl.Lower['A'] != 'a' {
		t.Errorf("Lower['A'] = %q, want 'a'", tbl.Lower['A'])
	}
	if tbl.Flip['a'] != 'A' || tbl.Flip['A'] != 'a' {
		t.Error("Flip should swap case")
	}
	if tbl.Flip['5'] != '5' {
		t.Error("Flip should be identity on non-letters")
	}
}

func TestTypeFlags(t *testing.T) {
	tbl := New()
	if tbl.Type['5']&CTDigit == 0 {
		t.Error("'5' should have CTDigit set")
	}
	if tbl.Type['a']&CTWord == 0 {
		t.Error("'a' should have CTWord set")
	}
	if tbl.Type['(']&CTMeta == 0 {
		t.Error("'(' should have CTMeta set")
	}
}
