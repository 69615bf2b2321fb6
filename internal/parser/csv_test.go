package parser_test

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/KaramelBytes/inflammation-cli/internal/models"
	"github.com/KaramelBytes/inflammation-cli/internal/parser"
)

func TestLoadCSV(t *testing.T) {
	p := writeFile(t, "inflammation-01.csv", "1,2,3\n4,5,6\n\n")
	got, err := parser.LoadCSV(p)
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	want := models.Table{{1, 2, 3}, {4, 5, 6}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("table = %v, want %v", got, want)
	}
}

func TestLoadCSVNaN(t *testing.T) {
	p := writeFile(t, "gaps.csv", "0, nan, 2.5\nNaN,1,0\n")
	got, err := parser.LoadCSV(p)
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	if !math.IsNaN(got[0][1]) || !math.IsNaN(got[1][0]) {
		t.Fatalf("expected NaN cells, got %v", got)
	}
	if got[0][2] != 2.5 {
		t.Fatalf("cell [0][2] = %v", got[0][2])
	}
}

func TestLoadCSVErrors(t *testing.T) {
	cases := []struct {
		name    string
		content string
		record  int
		msg     string
	}{
		{"text cell", "1,2\n3,General\n", 1, `"General" is not a number`},
		{"ragged", "1,2,3\n4,5\n", 1, "ragged"},
		{"infinite", "1,2\n1,inf\n", 1, "non-finite"},
		{"negative infinite", "-Inf,2\n", 0, "non-finite"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parser.LoadCSV(writeFile(t, "bad.csv", tc.content))
			var pe *parser.ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *ParseError, got %T: %v", err, err)
			}
			if pe.Record != tc.record {
				t.Fatalf("record = %d, want %d", pe.Record, tc.record)
			}
			if !strings.Contains(err.Error(), tc.msg) {
				t.Fatalf("error %q does not mention %q", err, tc.msg)
			}
		})
	}
}
