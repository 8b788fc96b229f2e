package basename

import (
	"fmt"
	"testing"

	"github.com/copyq/itemsync/internal/errs"
)

func TestUniqueEmptyNameDefaultsToCopyq0000(t *testing.T) {
	a := New(nil)
	got, err := a.Unique("")
	if err != nil {
		t.Fatal(err)
	}
	if got != "copyq_0000" {
		t.Fatalf("got %q, want %q", got, "copyq_0000")
	}
}

func TestUniqueSanitizesPathSeparators(t *testing.T) {
	a := New(nil)
	got, err := a.Unique("a/b\\c")
	if err != nil {
		t.Fatal(err)
	}
	if got != "a_b_c" {
		t.Fatalf("got %q, want %q", got, "a_b_c")
	}
}

func TestUniqueResolvesCollisionWithNumericSuffix(t *testing.T) {
	a := New(nil)
	first, err := a.Unique("copyq_0000")
	if err != nil {
		t.Fatal(err)
	}
	second, err := a.Unique("copyq_0000")
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Fatalf("expected distinct names, got %q twice", first)
	}
	if second != "copyq_0001" {
		t.Fatalf("got %q, want %q", second, "copyq_0001")
	}
}

func TestReserveSeedsUsedNames(t *testing.T) {
	a := New(nil)
	a.Reserve("copyq_0000")
	got, err := a.Unique("copyq_0000")
	if err != nil {
		t.Fatal(err)
	}
	if got == "copyq_0000" {
		t.Fatal("expected a reserved name to be treated as taken")
	}
}

func TestUniqueDashInsertedWhenNoTrailingDigits(t *testing.T) {
	a := New(nil)
	a.Reserve("foo.txt")
	got, err := a.Unique("foo.txt")
	if err != nil {
		t.Fatal(err)
	}
	if got != "foo-1.txt" {
		t.Fatalf("got %q, want %q", got, "foo-1.txt")
	}
}

func TestUniquePreservesZeroPaddedWidth(t *testing.T) {
	a := New(nil)
	a.Reserve("foo001.txt")
	got, err := a.Unique("foo001.txt")
	if err != nil {
		t.Fatal(err)
	}
	if got != "foo002.txt" {
		t.Fatalf("got %q, want %q", got, "foo002.txt")
	}
}

func TestUniqueExhaustionReturnsErrNameExhausted(t *testing.T) {
	a := New(nil)
	for i := 1; i <= maxCounter; i++ {
		a.Reserve(fmt.Sprintf("dup-%d", i))
	}
	a.Reserve("dup")
	if _, err := a.Unique("dup"); err != errs.ErrNameExhausted {
		t.Fatalf("got %v, want ErrNameExhausted", err)
	}
}

func TestUniqueTriesTheBoundaryCounterValue(t *testing.T) {
	a := New(nil)
	for i := 1; i < maxCounter; i++ {
		a.Reserve(fmt.Sprintf("dup-%d", i))
	}
	a.Reserve("dup")
	got, err := a.Unique("dup")
	if err != nil {
		t.Fatalf("expected counter %d itself to be a valid candidate, got error %v", maxCounter, err)
	}
	want := fmt.Sprintf("dup-%d", maxCounter)
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestUniqueSameNameTwiceInARowIncrementsField(t *testing.T) {
	a := New(nil)
	a.Reserve("note-01")
	got, err := a.Unique("note-01")
	if err != nil {
		t.Fatal(err)
	}
	if got != "note-02" {
		t.Fatalf("got %q, want %q", got, "note-02")
	}
}
