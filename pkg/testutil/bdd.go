package testutil

import "testing"

// Scenario names a behaviour and runs its steps as nested subtests:
//
//	testutil.Scenario(t, "returning citizen", func(t *testing.T) {
//		testutil.Given(t, "a saved profile", ...)
//		testutil.Then(t, "the home view shows completion", ...)
//	})
func Scenario(t *testing.T, name string, fn func(t *testing.T)) {
	t.Helper()
	t.Run(name, fn)
}

// Given, When and Then prefix the step so failures read as the behaviour that broke.
func Given(t *testing.T, desc string, fn func(t *testing.T)) bool {
	t.Helper()
	return step(t, "Given", desc, fn)
}

func When(t *testing.T, desc string, fn func(t *testing.T)) bool {
	t.Helper()
	return step(t, "When", desc, fn)
}

func Then(t *testing.T, desc string, fn func(t *testing.T)) bool {
	t.Helper()
	return step(t, "Then", desc, fn)
}

// step stops the scenario once a step fails; later steps depend on earlier state.
func step(t *testing.T, keyword, desc string, fn func(t *testing.T)) bool {
	t.Helper()
	ok := t.Run(keyword+" "+desc, fn)
	if !ok {
		t.FailNow()
	}
	return ok
}
