package journal

import (
	"reflect"
	"sort"
	"testing"
)

func TestSplitTags(t *testing.T) {
	got := SplitTags(" тревога , сон ,работа")
	want := []string{"тревога", "сон", "работа"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitTags = %v, want %v", got, want)
	}
}

func TestSplitTags_DropsEmptyTokens(t *testing.T) {
	got := SplitTags("a,, ,b,")
	want := []string{"a", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitTags = %v, want %v", got, want)
	}
}

func TestSplitTags_Empty(t *testing.T) {
	if got := SplitTags(""); len(got) != 0 {
		t.Errorf("SplitTags(\"\") = %v, want none", got)
	}
}

func TestUniqueTags(t *testing.T) {
	got := UniqueTags([]string{"a, b ,a", "b,c"})
	sort.Strings(got)
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("UniqueTags = %v, want %v", got, want)
	}
}

func TestUniqueTags_WhitespaceVariantsCollapse(t *testing.T) {
	got := UniqueTags([]string{"сон ,  сон", "сон"})
	if len(got) != 1 || got[0] != "сон" {
		t.Errorf("UniqueTags = %v, want [сон]", got)
	}
}
