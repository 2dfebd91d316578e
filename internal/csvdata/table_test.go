package csvdata_test

import (
	"testing"

	"github.com/petasbytes/csv-agent/internal/csvdata"
)

func TestParse_Basic(t *testing.T) {
	tbl, err := csvdata.Parse("name,score\nAlice,90\nBob,70\nCara,85")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(tbl.Headers) != 2 || tbl.Headers[0] != "name" || tbl.Headers[1] != "score" {
		t.Fatalf("unexpected headers: %v", tbl.Headers)
	}
	if len(tbl.Rows) != 3 {
		t.Fatalf("want 3 rows, got %d", len(tbl.Rows))
	}
	if v, ok := tbl.Cell(tbl.Rows[1], "score"); !ok || v != "70" {
		t.Fatalf("Cell(Bob, score) = %q,%v", v, ok)
	}
}

func TestParse_QuotedFieldsAndEmbeddedDelimiters(t *testing.T) {
	tbl, err := csvdata.Parse("city,note\n\"Paris, FR\",\"said \"\"hi\"\"\"\n")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got := tbl.Rows[0][0]; got != "Paris, FR" {
		t.Fatalf("embedded comma lost: %q", got)
	}
	if got := tbl.Rows[0][1]; got != `said "hi"` {
		t.Fatalf("escaped quotes lost: %q", got)
	}
}

func TestParse_RaggedRowsRetained(t *testing.T) {
	tbl, err := csvdata.Parse("a,b,c\n1,2\n3,4,5,6\n")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(tbl.Rows) != 2 {
		t.Fatalf("want 2 rows, got %d", len(tbl.Rows))
	}
	if _, ok := tbl.Cell(tbl.Rows[0], "c"); ok {
		t.Fatal("missing cell should be absent")
	}
	if v, ok := tbl.Cell(tbl.Rows[1], "c"); !ok || v != "5" {
		t.Fatalf("Cell(row2, c) = %q,%v", v, ok)
	}
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		name string
		in   string
		kind csvdata.ErrorKind
		msg  string
	}{
		{"empty", "", csvdata.ErrEmpty, "CSV data is empty."},
		{"whitespace", "  \n\t ", csvdata.ErrEmpty, "CSV data is empty."},
		{"header_only", "a,b\n", csvdata.ErrMalformed, "Invalid or empty CSV data."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := csvdata.Parse(tc.in)
			if err == nil {
				t.Fatal("expected error")
			}
			if !csvdata.IsKind(err, tc.kind) {
				t.Fatalf("want kind %v, got %v", tc.kind, err)
			}
			if err.Error() != tc.msg {
				t.Fatalf("message: got %q want %q", err.Error(), tc.msg)
			}
		})
	}
}

func TestTable_DuplicateHeadersFirstWins(t *testing.T) {
	tbl, err := csvdata.Parse("x,x,y\n1,2,3\n")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if v, _ := tbl.Cell(tbl.Rows[0], "x"); v != "1" {
		t.Fatalf("want first x column, got %q", v)
	}
	cols := tbl.Columns()
	if len(cols) != 2 || cols[0] != "x" || cols[1] != "y" {
		t.Fatalf("unexpected Columns(): %v", cols)
	}
}
