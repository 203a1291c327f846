package token

import (
	"testing"
)

func TestTokenize_Basic(t *testing.T) {
	tokens := Tokenize("func(cse,canonicalize{top-down=false})")

	want := []struct {
		typ   Type
		value string
	}{
		{Ident, "func"},
		{LParen, "("},
		{Ident, "cse"},
		{Comma, ","},
		{Ident, "canonicalize"},
		{Options, "top-down=false"},
		{RParen, ")"},
	}

	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(tokens), len(want), tokens)
	}
	for i, w := range want {
		if tokens[i].Type != w.typ || tokens[i].Value != w.value {
			t.Errorf("token[%d] = {%v %q}, want {%v %q}", i, tokens[i].Type, tokens[i].Value, w.typ, w.value)
		}
	}
}

func TestTokenize_Whitespace(t *testing.T) {
	tokens := Tokenize("  cse ,\n\tcanonicalize ")
	if len(tokens) != 3 {
		t.Fatalf("got %d tokens, want 3", len(tokens))
	}
	if tokens[0].Pos != 2 {
		t.Errorf("first token pos = %d, want 2", tokens[0].Pos)
	}
}

func TestTokenize_UnterminatedOptions(t *testing.T) {
	tokens := Tokenize("cse{key=value")
	last := tokens[len(tokens)-1]
	if last.Type != Illegal {
		t.Errorf("unterminated options should be Illegal, got %v", last.Type)
	}
	if last.Pos != 3 {
		t.Errorf("Illegal pos = %d, want 3", last.Pos)
	}
}

func TestTokenize_IllegalCharacter(t *testing.T) {
	tokens := Tokenize("cse;canonicalize")
	if len(tokens) != 3 {
		t.Fatalf("got %d tokens, want 3", len(tokens))
	}
	if tokens[1].Type != Illegal || tokens[1].Value != ";" {
		t.Errorf("token[1] = {%v %q}, want Illegal ';'", tokens[1].Type, tokens[1].Value)
	}
}

func TestTokenize_Empty(t *testing.T) {
	if tokens := Tokenize("   "); len(tokens) != 0 {
		t.Errorf("blank input should produce no tokens, got %v", tokens)
	}
}
