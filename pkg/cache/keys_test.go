package cache

import (
	"errors"
	"testing"
)

func TestNormalizeQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{
			name:  "already normalized",
			query: "kitchen rental",
			want:  "kitchen rental",
		},
		{
			name:  "mixed case",
			query: "Kitchen Rental",
			want:  "kitchen rental",
		},
		{
			name:  "leading and trailing whitespace",
			query: " kitchen rental ",
			want:  "kitchen rental",
		},
		{
			name:  "internal whitespace runs",
			query: "Kitchen  Rental",
			want:  "kitchen rental",
		},
		{
			name:  "tabs and newlines",
			query: "kitchen\trental\nnew york",
			want:  "kitchen rental new york",
		},
		{
			name:  "empty string",
			query: "",
			want:  "",
		},
		{
			name:  "whitespace only",
			query: "   \t ",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeQuery(tt.query)
			if got != tt.want {
				t.Errorf("NormalizeQuery(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}

// TestNormalizeQuery_Idempotent ensures normalizing an already-normalized
// string yields the same string.
func TestNormalizeQuery_Idempotent(t *testing.T) {
	queries := []string{
		"Kitchen  Rental",
		" kitchen rental New York NY ",
		"",
		"a",
		"commercial KITCHEN for rent\tchicago il",
	}

	for _, q := range queries {
		once := NormalizeQuery(q)
		twice := NormalizeQuery(once)
		if once != twice {
			t.Errorf("NormalizeQuery not idempotent for %q: %q != %q", q, once, twice)
		}
	}
}

func TestTokenKey(t *testing.T) {
	tests := []struct {
		name  string
		query string
		page  int
		want  string
	}{
		{
			name:  "page 2 encodes page 1",
			query: "kitchen rental New York NY",
			page:  2,
			want:  "token:kitchen rental new york ny:1",
		},
		{
			name:  "page 1 encodes page 0",
			query: "kitchen rental",
			page:  1,
			want:  "token:kitchen rental:0",
		},
		{
			name:  "raw query is normalized",
			query: "  Kitchen   Rental  ",
			page:  3,
			want:  "token:kitchen rental:2",
		},
		{
			name:  "empty query",
			query: "",
			page:  1,
			want:  "token::0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TokenKey(tt.query, tt.page)
			if err != nil {
				t.Fatalf("TokenKey(%q, %d) error: %v", tt.query, tt.page, err)
			}
			if got != tt.want {
				t.Errorf("TokenKey(%q, %d) = %q, want %q", tt.query, tt.page, got, tt.want)
			}
		})
	}
}

func TestTokenKey_InvalidPage(t *testing.T) {
	for _, page := range []int{0, -1, -100} {
		_, err := TokenKey("kitchen rental", page)
		if !errors.Is(err, ErrInvalidPage) {
			t.Errorf("TokenKey(page=%d) error = %v, want ErrInvalidPage", page, err)
		}
	}
}

// TestTokenKey_DistinctPages ensures distinct pages for the same query
// produce distinct keys.
func TestTokenKey_DistinctPages(t *testing.T) {
	seen := make(map[string]int)
	for page := 1; page <= 50; page++ {
		key, err := TokenKey("kitchen rental", page)
		if err != nil {
			t.Fatalf("TokenKey(page=%d) error: %v", page, err)
		}
		if prev, dup := seen[key]; dup {
			t.Errorf("pages %d and %d collide on key %q", prev, page, key)
		}
		seen[key] = page
	}
}

// TestTokenKey_EquivalentQueries ensures queries differing only in case or
// whitespace derive identical keys.
func TestTokenKey_EquivalentQueries(t *testing.T) {
	variants := []string{
		"kitchen rental new york ny",
		"Kitchen Rental New York NY",
		" kitchen  rental new york ny ",
		"KITCHEN RENTAL\tNEW YORK NY",
	}

	want, err := TokenKey(variants[0], 2)
	if err != nil {
		t.Fatalf("TokenKey error: %v", err)
	}
	for _, v := range variants[1:] {
		got, err := TokenKey(v, 2)
		if err != nil {
			t.Fatalf("TokenKey(%q) error: %v", v, err)
		}
		if got != want {
			t.Errorf("TokenKey(%q, 2) = %q, want %q", v, got, want)
		}
	}
}

func TestEstimateKey(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"kitchen rental New York NY", "total:kitchen rental new york ny"},
		{"  Shared  Kitchen  ", "total:shared kitchen"},
		{"", "total:"},
	}

	for _, tt := range tests {
		got := EstimateKey(tt.query)
		if got != tt.want {
			t.Errorf("EstimateKey(%q) = %q, want %q", tt.query, got, tt.want)
		}
	}
}
