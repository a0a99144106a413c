package genai

import "testing"

func TestStripLeadingMarkdown(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain text untouched", in: "Just a paragraph.", want: "Just a paragraph."},
		{name: "leading heading markers", in: "## A Heading\nBody", want: "A Heading\nBody"},
		{name: "code fence", in: "```markdown\nThe post body.\n```", want: "The post body."},
		{name: "fence without language", in: "```\ncontent\n```\n", want: "content"},
		{name: "leading whitespace", in: "\n\n  # Title", want: "Title"},
		{name: "empty", in: "", want: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StripLeadingMarkdown(tc.in); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
