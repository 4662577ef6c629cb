package lens

import (
	"reflect"
	"testing"
)

func TestSeedsFromIssue(t *testing.T) {
	text := "Crash in app/payments.py when calling charge_card() twice.\n" +
		"Also see utils/retry.py and backoff() there."
	got := SeedsFromIssue(text)
	want := []string{"app/payments.py", "backoff", "charge_card", "utils/retry.py"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("seeds = %v, want %v", got, want)
	}
}

func TestSeedsFromTestLog(t *testing.T) {
	text := `FAILED tests/test_api.py::test_charge
  File "app/payments.py", line 42, in charge_card
  File "utils/retry.py", line 7, in backoff
app/payments.py:42: AssertionError`
	got := SeedsFromTestLog(text)
	for _, want := range []string{"app/payments.py", "charge_card", "backoff"} {
		if !containsString(got, want) {
			t.Errorf("seeds %v missing %q", got, want)
		}
	}
}

func TestSeedsFromTicket(t *testing.T) {
	text := "Regression at app/db.py:101 after save_record() change"
	got := SeedsFromTicket(text)
	for _, want := range []string{"app/db.py", "save_record"} {
		if !containsString(got, want) {
			t.Errorf("seeds %v missing %q", got, want)
		}
	}
}

func TestSeedsDeduped(t *testing.T) {
	got := SeedsFromIssue("foo() foo() foo()")
	if !reflect.DeepEqual(got, []string{"foo"}) {
		t.Errorf("seeds = %v, want [foo]", got)
	}
}

func TestSeedsFromEmptyText(t *testing.T) {
	if got := SeedsFromIssue("no code references here"); len(got) != 0 {
		t.Errorf("seeds = %v, want none", got)
	}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
