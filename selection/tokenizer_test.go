package selection

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func Test_tokenizer_getLineColumn(t *testing.T) {
	type fields struct {
		text   string
		cursor int
		line   int
		column int
	}
	type args struct {
		skip int
	}
	tests := []struct {
		name       string
		fields     fields
		args       args
		wantLine   int
		wantColumn int
	}{
		{
			name: "empty text, cursor overflow, skip 10",
			fields: fields{
				text:   "",
				cursor: 100,
			},
			args: args{
				skip: 10,
			},
			wantLine:   1,
			wantColumn: 1,
		},
		{
			name: "cursor overflow, skip 10",
			fields: fields{
				text:   "aaaa",
				cursor: 100,
			},
			args: args{
				skip: 10,
			},
			wantLine:   1,
			wantColumn: 5,
		},
		{
			name: "multilined, cursor overflow, skip 10",
			fields: fields{
				text:   "aaaa\nbbb\ncc",
				cursor: 100,
			},
			args: args{
				skip: 10,
			},
			wantLine:   3,
			wantColumn: 3,
		},
		{
			name: "skip 0",
			fields: fields{
				text:   "aaaa\nbbb\ncc",
				cursor: 1,
			},
			args: args{
				skip: 0,
			},
			wantLine:   1,
			wantColumn: 2,
		},
		{
			name: "first column, second line",
			fields: fields{
				text:   "aaaa\nbbb\ncc",
				cursor: 5,
			},
			args: args{
				skip: 0,
			},
			wantLine:   2,
			wantColumn: 1,
		},
		{
			name: "first column, third line, skip 3",
			fields: fields{
				text:   "aaaa\nbbb\ncc",
				cursor: 5,
			},
			args: args{
				skip: 3,
			},
			wantLine:   2,
			wantColumn: 4,
		},
		{
			name: "first column, second line, skip 4",
			fields: fields{
				text:   "aaaa\nbbb\ncc",
				cursor: 5,
			},
			args: args{
				skip: 4,
			},
			wantLine:   3,
			wantColumn: 1,
		},
		{
			name: "cursor 0, skip 0",
			fields: fields{
				text:   "aaaa\nbbb\ncc",
				cursor: 0,
			},
			args: args{
				skip: 0,
			},
			wantLine:   1,
			wantColumn: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := &tokenizer{
				text:   tt.fields.text,
				cursor: tt.fields.cursor,
				line:   tt.fields.line,
				column: tt.fields.column,
			}
			got, got1 := tr.getLineColumn(tt.args.skip)
			if got != tt.wantLine {
				t.Errorf("tokenizer.getLineColumn() got line = %v, want line %v", got, tt.wantLine)
			}
			if got1 != tt.wantColumn {
				t.Errorf("tokenizer.getLineColumn() got column = %v, want column %v", got1, tt.wantColumn)
			}
		})
	}
}

func Test_tokenizer_tokenize(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		aliases      map[string]string
		placeholders bool
		want         []tokenType
		wantErr      bool
	}{
		{
			name: "comparison chain",
			text: "(pt_2>=20)&&(pt_2<25)",
			want: []tokenType{leftParenthesis, identifier, greaterEqual, numberLiteral, rightParenthesis, and, leftParenthesis, identifier, less, numberLiteral, rightParenthesis},
		},
		{
			name: "not equal is not a negation",
			text: "a != !b",
			want: []tokenType{identifier, notEqual, not, identifier},
		},
		{
			name: "numbers",
			text: "1 2. .5 1e-3 2.5E+4",
			want: []tokenType{numberLiteral, numberLiteral, numberLiteral, numberLiteral, numberLiteral},
		},
		{
			name:         "placeholders and calls",
			text:         "pow([0], 2)",
			placeholders: true,
			want:         []tokenType{identifier, leftParenthesis, parameter, comma, numberLiteral, rightParenthesis},
		},
		{
			name:    "placeholders need opting in",
			text:    "[0] > 20",
			wantErr: true,
		},
		{
			name:    "aliases",
			text:    "a and not b or c",
			aliases: map[string]string{"and": "&&", "or": "||", "not": "!"},
			want:    []tokenType{identifier, and, not, identifier, or, identifier},
		},
		{
			name:    "alias to unknown operator",
			text:    "a xor b",
			aliases: map[string]string{"xor": "^"},
			wantErr: true,
		},
		{
			name:    "single ampersand",
			text:    "a & b",
			wantErr: true,
		},
		{
			name:    "assignment",
			text:    "a = b",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := newTokenizer(tt.text, Config{Aliases: tt.aliases, Placeholders: tt.placeholders}).tokenize()
			if (err != nil) != tt.wantErr {
				t.Fatalf("tokenize() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			got := make([]tokenType, len(tokens))
			for i, tk := range tokens {
				got[i] = tk._type
			}

			if diff := cmp.Diff(got, tt.want); diff != "" {
				t.Error(diff)
			}
		})
	}
}

func TestTokenValues(t *testing.T) {
	tokens, err := newTokenizer("x > 2.5e1 && [3]", Config{Placeholders: true}).tokenize()
	if err != nil {
		t.Fatal(err)
	}

	if tokens[2].value != 25 {
		t.Errorf("number value = %v, want 25", tokens[2].value)
	}

	if tokens[4].index != 3 {
		t.Errorf("parameter index = %v, want 3", tokens[4].index)
	}

	if tokens[4].line != 1 || tokens[4].column != 14 {
		t.Errorf("parameter position = %d:%d, want 1:14", tokens[4].line, tokens[4].column)
	}
}
