package redsys

import (
	"errors"
	"testing"
)

func TestEncodeOrderCode(t *testing.T) {
	cases := []struct {
		name    string
		id      string
		attempt int
		want    string
	}{
		{"uuid stripped", "3f9a1c2e-7b4d-4e8f-9a01-6c5d4e3f2a1b", 0, "3f9a1c2e7b00"},
		{"short id padded", "r-42", 0, "r420000000" + "00"},
		{"attempt in tail", "3f9a1c2e-7b4d-4e8f-9a01-6c5d4e3f2a1b", 7, "3f9a1c2e7b07"},
		{"two digit attempt", "3f9a1c2e-7b4d-4e8f-9a01-6c5d4e3f2a1b", 12, "3f9a1c2e7b12"},
	}
	for _, tc := range cases {
		got, err := EncodeOrderCode(tc.id, tc.attempt)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("%s: got %s want %s", tc.name, got, tc.want)
		}
		if !ValidOrderCode(got) {
			t.Fatalf("%s: %q violates order code invariant", tc.name, got)
		}
	}
}

func TestEncodeOrderCode_Deterministic(t *testing.T) {
	a, _ := EncodeOrderCode("res-550e8400-e29b", 3)
	b, _ := EncodeOrderCode("res-550e8400-e29b", 3)
	if a != b {
		t.Fatalf("not deterministic: %s vs %s", a, b)
	}
	c, _ := EncodeOrderCode("res-550e8400-e29b", 4)
	if c == a {
		t.Fatal("different attempts must yield different codes")
	}
}

// Suffix sabit genişlikte: tek haneli ve çift haneli attempt'ler asla aynı
// koda düşmemeli, id ne kadar uzun olursa olsun.
func TestEncodeOrderCode_AttemptWidth(t *testing.T) {
	const id = "3f9a1c2e-7b4d-4e8f-9a01-6c5d4e3f2a1b"

	pairs := [][2]int{{7, 47}, {2, 42}, {8, 48}, {0, 10}, {9, 90}}
	for _, p := range pairs {
		a, err := EncodeOrderCode(id, p[0])
		if err != nil {
			t.Fatalf("attempt %d: %v", p[0], err)
		}
		b, err := EncodeOrderCode(id, p[1])
		if err != nil {
			t.Fatalf("attempt %d: %v", p[1], err)
		}
		if a == b {
			t.Fatalf("attempts %d and %d collide: both %q", p[0], p[1], a)
		}
	}

	// 0..99 aynı rezervasyon için tamamı birbirinden farklı olmalı
	seen := map[string]int{}
	for i := 0; i <= maxOrderCodeAttempt; i++ {
		code, err := EncodeOrderCode(id, i)
		if err != nil {
			t.Fatalf("attempt %d: %v", i, err)
		}
		if prev, dup := seen[code]; dup {
			t.Fatalf("attempts %d and %d collide on %q", prev, i, code)
		}
		seen[code] = i
	}
}

func TestEncodeOrderCode_Errors(t *testing.T) {
	if _, err := EncodeOrderCode("---", 0); !errors.Is(err, ErrInvalidOrderCode) {
		t.Fatalf("unusable id: got %v", err)
	}
	if _, err := EncodeOrderCode("abc", -1); !errors.Is(err, ErrInvalidOrderCode) {
		t.Fatalf("negative attempt: got %v", err)
	}
	if _, err := EncodeOrderCode("abc", maxOrderCodeAttempt+1); !errors.Is(err, ErrInvalidOrderCode) {
		t.Fatalf("attempt over limit: got %v", err)
	}
}

func TestUniqueOrderCode_CollisionRetry(t *testing.T) {
	taken := map[string]bool{}
	first, _ := EncodeOrderCode("res-abc123", 0)
	second, _ := EncodeOrderCode("res-abc123", 1)
	taken[first] = true
	taken[second] = true

	code, attempt, err := UniqueOrderCode("res-abc123", 0, func(c string) bool { return taken[c] })
	if err != nil {
		t.Fatalf("unique: %v", err)
	}
	if attempt != 2 {
		t.Fatalf("attempt got %d want 2", attempt)
	}
	if taken[code] {
		t.Fatalf("returned an active code %s", code)
	}
}

func TestUniqueOrderCode_Exhausted(t *testing.T) {
	_, _, err := UniqueOrderCode("res-abc123", 0, func(string) bool { return true })
	if !errors.Is(err, ErrOrderCodeExhausted) {
		t.Fatalf("got %v want ErrOrderCodeExhausted", err)
	}
}
