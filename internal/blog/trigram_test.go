package blog

import (
	"math"
	"testing"
)

func TestTrigramSimilarityIdenticalStrings(t *testing.T) {
	t.Parallel()

	if got := TrigramSimilarity("concurrency in go", "concurrency in go"); got != 1.0 {
		t.Fatalf("expected similarity 1.0 for identical strings, got %f", got)
	}
}

func TestTrigramSimilarityIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	if got := TrigramSimilarity("Hello World", "hello world"); got != 1.0 {
		t.Fatalf("expected similarity 1.0 regardless of case, got %f", got)
	}
}

func TestTrigramSimilarityDisjointStrings(t *testing.T) {
	t.Parallel()

	if got := TrigramSimilarity("abc", "xyz"); got != 0 {
		t.Fatalf("expected similarity 0 for disjoint trigram sets, got %f", got)
	}
}

func TestTrigramSimilarityEmptyInput(t *testing.T) {
	t.Parallel()

	if got := TrigramSimilarity("", "anything"); got != 0 {
		t.Fatalf("expected similarity 0 for empty input, got %f", got)
	}
	if got := TrigramSimilarity("anything", ""); got != 0 {
		t.Fatalf("expected similarity 0 for empty input, got %f", got)
	}
}

func TestTrigramSimilarityIsSymmetric(t *testing.T) {
	t.Parallel()

	a, b := "go concurrency", "go concurrency patterns"

	forward := TrigramSimilarity(a, b)
	backward := TrigramSimilarity(b, a)

	if forward != backward {
		t.Fatalf("expected symmetric measure, got %f and %f", forward, backward)
	}
	if forward <= 0 || forward >= 1 {
		t.Fatalf("expected partial overlap strictly between 0 and 1, got %f", forward)
	}
}

func TestTrigramSimilarityPartialOverlapScore(t *testing.T) {
	t.Parallel()

	// "go concurrency" contributes 15 trigrams, "go concurrency patterns"
	// shares all of them and adds 9 from the extra word: 15/24.
	got := TrigramSimilarity("go concurrency", "go concurrency patterns")
	want := 15.0 / 24.0

	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected similarity %f, got %f", want, got)
	}
}

func TestTrigramSimilarityIgnoresPunctuation(t *testing.T) {
	t.Parallel()

	if got := TrigramSimilarity("go, concurrency!", "go concurrency"); got != 1.0 {
		t.Fatalf("expected punctuation to be ignored, got %f", got)
	}
}
