// internal/storage/archive/s3_test.go
package archive

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/newthinker/mocha/internal/core"
)

func TestS3Storage_ImplementsStorage(t *testing.T) {
	var _ Storage = (*S3Storage)(nil)
}

func TestS3Storage_Key(t *testing.T) {
	tests := []struct {
		prefix string
		path   string
		want   string
		rel    string
	}{
		{"", "file.txt", "file.txt", "file.txt"},
		{"archive", "file.txt", "archive/file.txt", "file.txt"},
		{"archive/", "results/BHP/ma_crossover.json", "archive/results/BHP/ma_crossover.json", "results/BHP/ma_crossover.json"},
		{"/archive/", "/results//x.json", "archive/results/x.json", "results/x.json"},
	}

	for _, tt := range tests {
		s, err := NewS3(S3Config{Bucket: "runs", Prefix: tt.prefix})
		if err != nil {
			t.Fatalf("NewS3: %v", err)
		}
		got := s.key(tt.path)
		if got != tt.want {
			t.Errorf("key(%q) with prefix %q = %q, want %q", tt.path, tt.prefix, got, tt.want)
		}
		if rel := s.relative(got); rel != tt.rel {
			t.Errorf("relative(%q) = %q, want %q", got, rel, tt.rel)
		}
	}
}

func TestNewS3_RequiresBucket(t *testing.T) {
	_, err := NewS3(S3Config{})
	if !errors.Is(err, core.ErrConfigMissing) {
		t.Errorf("expected ErrConfigMissing, got %v", err)
	}
}

func TestIsNotFound(t *testing.T) {
	if !isNotFound(fmt.Errorf("head: %w", &types.NotFound{})) {
		t.Error("wrapped NotFound should match")
	}
	if !isNotFound(&types.NoSuchKey{}) {
		t.Error("NoSuchKey should match")
	}
	if isNotFound(errors.New("access denied")) || isNotFound(nil) {
		t.Error("other errors should not match")
	}
}

func TestContentType(t *testing.T) {
	if contentType("results/a/b.json") != "application/json" {
		t.Error("expected json content type")
	}
	if contentType("ledgers/a/b.csv") != "text/csv" {
		t.Error("expected csv content type")
	}
}
