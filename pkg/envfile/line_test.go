package envfile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentstation/envsync/pkg/envfile"
)

func ptr(s string) *string { return &s }

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want envfile.Line
	}{
		{name: "empty", raw: "", want: envfile.Line{Kind: envfile.KindBlank}},
		{name: "whitespace only", raw: " \t ", want: envfile.Line{Kind: envfile.KindBlank}},
		{name: "carriage return", raw: "\r", want: envfile.Line{Kind: envfile.KindBlank}},
		{name: "comment", raw: "# desc", want: envfile.Line{Kind: envfile.KindComment, Text: " desc"}},
		{name: "comment without space", raw: "#desc", want: envfile.Line{Kind: envfile.KindComment, Text: "desc"}},
		{name: "indented comment", raw: "   # desc  ", want: envfile.Line{Kind: envfile.KindComment, Text: " desc"}},
		{
			name: "simple assignment",
			raw:  "KEY=value",
			want: envfile.Line{Kind: envfile.KindAssignment, Key: "KEY", Value: "value"},
		},
		{
			name: "spacing around operator",
			raw:  "  KEY = value  ",
			want: envfile.Line{Kind: envfile.KindAssignment, Key: "KEY", Value: "value"},
		},
		{
			name: "empty value",
			raw:  "KEY=",
			want: envfile.Line{Kind: envfile.KindAssignment, Key: "KEY"},
		},
		{
			name: "whitespace value",
			raw:  "KEY=   ",
			want: envfile.Line{Kind: envfile.KindAssignment, Key: "KEY"},
		},
		{
			name: "split on first operator",
			raw:  "DSN=postgres://u:p@h/db?sslmode=disable",
			want: envfile.Line{Kind: envfile.KindAssignment, Key: "DSN", Value: "postgres://u:p@h/db?sslmode=disable"},
		},
		{
			name: "inline comment",
			raw:  "KEY=value # This is inline",
			want: envfile.Line{Kind: envfile.KindAssignment, Key: "KEY", Value: "value", InlineComment: ptr(" This is inline")},
		},
		{
			name: "inline comment on empty value",
			raw:  "KEY= # fill me",
			want: envfile.Line{Kind: envfile.KindAssignment, Key: "KEY", InlineComment: ptr(" fill me")},
		},
		{
			name: "inline comment directly after operator",
			raw:  "KEY=#note",
			want: envfile.Line{Kind: envfile.KindAssignment, Key: "KEY", InlineComment: ptr("note")},
		},
		{
			name: "hash inside double quotes",
			raw:  `KEY="a # b" # c`,
			want: envfile.Line{Kind: envfile.KindAssignment, Key: "KEY", Value: `"a # b"`, InlineComment: ptr(" c")},
		},
		{
			name: "hash inside single quotes",
			raw:  `KEY='a # b'`,
			want: envfile.Line{Kind: envfile.KindAssignment, Key: "KEY", Value: `'a # b'`},
		},
		{
			name: "escaped hash",
			raw:  `KEY=a \# b`,
			want: envfile.Line{Kind: envfile.KindAssignment, Key: "KEY", Value: `a \# b`},
		},
		{
			name: "escaped quote keeps string open",
			raw:  `KEY="a \" # b"`,
			want: envfile.Line{Kind: envfile.KindAssignment, Key: "KEY", Value: `"a \" # b"`},
		},
		{
			name: "hash inside a word",
			raw:  "URL=http://host/#frag",
			want: envfile.Line{Kind: envfile.KindAssignment, Key: "URL", Value: "http://host/#frag"},
		},
		{
			name: "unterminated quote",
			raw:  `KEY="abc # c`,
			want: envfile.Line{Kind: envfile.KindAssignment, Key: "KEY", Value: `"abc # c`},
		},
		{
			name: "bare key",
			raw:  "invalid line without equals",
			want: envfile.Line{Kind: envfile.KindAssignment, Key: "invalid line without equals", Bare: true},
		},
		{
			name: "bare key with inline comment",
			raw:  "FEATURE # toggled",
			want: envfile.Line{Kind: envfile.KindAssignment, Key: "FEATURE", InlineComment: ptr(" toggled"), Bare: true},
		},
		{
			name: "crlf",
			raw:  "KEY=value\r",
			want: envfile.Line{Kind: envfile.KindAssignment, Key: "KEY", Value: "value"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, envfile.Classify(tt.raw))
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "blank", envfile.KindBlank.String())
	assert.Equal(t, "comment", envfile.KindComment.String())
	assert.Equal(t, "assignment", envfile.KindAssignment.String())
	assert.Equal(t, "unknown", envfile.Kind(42).String())
}
