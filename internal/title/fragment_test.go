package title

import "testing"

func TestParseKind(t *testing.T) {
	cases := map[string]Kind{
		"static":    KindStatic,
		"variable":  KindVariable,
		"VARIABLE":  KindVariable,
		"Random":    KindRandom,
		"timestamp": KindTimestamp,
		" uuid ":    KindUUID,
		"UuId":      KindUUID,
		"":          KindStatic,
		"counter":   KindStatic,
	}
	for input, want := range cases {
		if got := ParseKind(input); got != want {
			t.Fatalf("ParseKind(%q) = %s, want %s", input, got, want)
		}
	}
}

func TestTemplateKinds(t *testing.T) {
	tmpl := Template{{Value: "a", Type: "static"}, {Value: "3", Type: "RANDOM"}, {Type: "bogus"}}
	got := tmpl.Kinds()
	want := []string{"static", "random", "static"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Kinds()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
