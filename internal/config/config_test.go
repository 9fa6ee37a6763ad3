package config

import (
	"testing"
)

func TestParseOrigins(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty means allow all", "", nil},
		{"single", "https://app.example.com", []string{"https://app.example.com"}},
		{"multiple with spaces", "https://a.com, https://b.com ,https://c.com", []string{"https://a.com", "https://b.com", "https://c.com"}},
		{"trailing comma", "https://a.com,", []string{"https://a.com"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := parseOrigins(tc.raw)
			if len(got) != len(tc.want) {
				t.Fatalf("parseOrigins(%q) = %v, want %v", tc.raw, got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("origin %d: got %q, want %q", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("TEST_INT_VALID", "42")
	t.Setenv("TEST_INT_GARBAGE", "not-a-number")

	if got := getEnvInt("TEST_INT_VALID", 7); got != 42 {
		t.Errorf("valid value: got %d, want 42", got)
	}
	if got := getEnvInt("TEST_INT_GARBAGE", 7); got != 7 {
		t.Errorf("garbage value: got %d, want fallback 7", got)
	}
	if got := getEnvInt("TEST_INT_MISSING", 7); got != 7 {
		t.Errorf("missing value: got %d, want fallback 7", got)
	}
}

func TestCacheKeys(t *testing.T) {
	if got := CacheKey.UserSessionKey(12); got != "login:12" {
		t.Errorf("UserSessionKey: got %q", got)
	}
	if got := CacheKey.QuizPayloadKey("abc"); got != "quiz:abc:payload" {
		t.Errorf("QuizPayloadKey: got %q", got)
	}
	if got := CacheKey.StudentHistoryKey(3); got != "student:3:history" {
		t.Errorf("StudentHistoryKey: got %q", got)
	}

	// Filtered and unfiltered catalog views must never collide.
	all := CacheKey.QuizCatalogKey("", "", "")
	math7 := CacheKey.QuizCatalogKey("Math", "7", "")
	if all == math7 {
		t.Errorf("catalog keys collide: %q", all)
	}
	if math7 == CacheKey.QuizCatalogKey("Math", "7", "arithmetic") {
		t.Errorf("category filter does not change the catalog key")
	}
}
