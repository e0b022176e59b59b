package citation

import (
	"reflect"
	"testing"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name  string
		items []Item
		want  string
	}{
		{
			name:  "single key",
			items: []Item{{ID: "doe"}},
			want:  "[@doe]",
		},
		{
			name:  "prefix and locator",
			items: []Item{{ID: "doe", Prefix: "see", Locator: "p. 12"}},
			want:  "[see @doe p. 12]",
		},
		{
			name:  "suppressed author",
			items: []Item{{ID: "doe", SuppressAuthor: true}},
			want:  "[-@doe]",
		},
		{
			name:  "several items",
			items: []Item{{ID: "doe", Locator: "p. 3"}, {ID: "roe"}},
			want:  "[@doe p. 3;@roe]",
		},
		{
			name:  "author only",
			items: []Item{{ID: "doe", AuthorOnly: true}, {ID: "ignored"}},
			want:  "@doe",
		},
		{
			name:  "empty group",
			items: nil,
			want:  "[]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Render(tt.items); got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseItems(t *testing.T) {
	tests := []struct {
		input string
		want  []Item
		ok    bool
	}{
		{"@doe", []Item{{ID: "doe"}}, true},
		{"see @doe, p. 12", []Item{{ID: "doe", Prefix: "see", Locator: "p. 12"}}, true},
		{"-@doe", []Item{{ID: "doe", SuppressAuthor: true}}, true},
		{"see -@doe 33", []Item{{ID: "doe", Prefix: "see", SuppressAuthor: true, Locator: "33"}}, true},
		{"@doe; @roe chap. 2", []Item{{ID: "doe"}, {ID: "roe", Locator: "chap. 2"}}, true},
		{"@doe:2001.x", []Item{{ID: "doe:2001.x"}}, true},
		{"just text", nil, false},
		{"mail@example.com", nil, false},
		{"@doe; no key", nil, false},
		{"@", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseItems(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseItems(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseItems(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestRenderParseItems(t *testing.T) {
	items := []Item{{ID: "doe", Prefix: "see", Locator: "p. 3"}, {ID: "roe", SuppressAuthor: true}}
	rendered := Render(items)
	got, ok := ParseItems(rendered[1 : len(rendered)-1])
	if !ok || !reflect.DeepEqual(got, items) {
		t.Errorf("ParseItems(Render()) = %+v, want %+v", got, items)
	}
}
