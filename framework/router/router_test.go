package router

import "testing"

func TestRouteMatch(t *testing.T) {
	tests := []struct {
		name        string
		pattern     string
		path        string
		matched     bool
		expectedKey string
		expectedVal string
	}{
		{name: "root", pattern: "/", path: "/", matched: true},
		{name: "static", pattern: "/notes", path: "/notes", matched: true},
		{name: "trailing slash", pattern: "/notes", path: "/notes/", matched: true},
		{name: "wildcard", pattern: "/notes/[id]", path: "/notes/12", matched: true, expectedKey: "id", expectedVal: "12"},
		{name: "static mismatch", pattern: "/notes", path: "/Error", matched: false},
		{name: "length mismatch", pattern: "/notes/[id]", path: "/notes", matched: false},
		{name: "dot segments", pattern: "/notes/[id]", path: "/notes/x/../3", matched: true, expectedKey: "id", expectedVal: "3"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			params, ok := MustCompile(tc.pattern).Match(tc.path)
			if ok != tc.matched {
				t.Fatalf("expected matched=%v for %q, got %v", tc.matched, tc.path, ok)
			}
			if tc.expectedKey == "" {
				return
			}
			if got := params[tc.expectedKey]; got != tc.expectedVal {
				t.Fatalf("expected param %q=%q, got %q", tc.expectedKey, tc.expectedVal, got)
			}
		})
	}
}

func TestCompileRejectsInvalidPatterns(t *testing.T) {
	invalid := []string{"/notes/[id", "/notes/id]", "/notes/[1d]", "/a[b]c", "/[id]/[id]"}
	for _, pattern := range invalid {
		if _, err := Compile(pattern); err == nil {
			t.Fatalf("expected compile error for %q", pattern)
		}
	}
}

func TestIDParser(t *testing.T) {
	parse := ID("/notes/[id]")

	params, ok := parse("/notes/2")
	if !ok || params.ID != 2 {
		t.Fatalf("expected id 2, got %+v (%v)", params, ok)
	}

	for _, path := range []string{"/notes/abc", "/notes/0", "/notes/-1", "/notes"} {
		if _, ok := parse(path); ok {
			t.Fatalf("did not expect %q to parse", path)
		}
	}
}

func TestExactParser(t *testing.T) {
	parse := Exact("/notes/live")
	if _, ok := parse("/notes/live"); !ok {
		t.Fatal("expected exact match")
	}
	if _, ok := parse("/notes"); ok {
		t.Fatal("did not expect prefix match")
	}
}

func TestIDRequiresIDSegment(t *testing.T) {
	defer func() {
		recovered := recover()
		if recovered == nil {
			t.Fatal("expected panic for pattern without [id]")
		}
		if msg, _ := recovered.(string); msg != `route pattern "/notes/[slug]" has no [id] segment` {
			t.Fatalf("unexpected panic %v", recovered)
		}
	}()
	ID("/notes/[slug]")
}

func TestRoutePatternIsPreserved(t *testing.T) {
	if got := MustCompile("/notes/[id]").Pattern(); got != "/notes/[id]" {
		t.Fatalf("expected original pattern, got %q", got)
	}
}
