package ingest

import (
	"bytes"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestParseTable_CSV(t *testing.T) {
	t.Run("basic file", func(t *testing.T) {
		data := []byte("Roll,Email,Week 1\n20CS001,a@x.edu,5\n20CS002,b@x.edu,7\n")

		rows, err := ParseTable("scores.csv", data, ',')
		if err != nil {
			t.Fatalf("ParseTable failed: %v", err)
		}
		if len(rows) != 3 {
			t.Fatalf("got %d rows, want 3", len(rows))
		}
		if rows[1][0] != "20CS001" || rows[2][2] != "7" {
			t.Errorf("unexpected cells: %+v", rows)
		}
	})

	t.Run("BOM and whitespace are stripped", func(t *testing.T) {
		data := []byte("\xef\xbb\xbfRoll,Email,Week 1\n 20CS001 , a@x.edu ,5\n")

		rows, err := ParseTable("scores.csv", data, ',')
		if err != nil {
			t.Fatalf("ParseTable failed: %v", err)
		}
		if rows[0][0] != "Roll" {
			t.Errorf("header cell = %q, want %q", rows[0][0], "Roll")
		}
		if rows[1][0] != "20CS001" {
			t.Errorf("cell = %q, want trimmed %q", rows[1][0], "20CS001")
		}
	})

	t.Run("short and blank rows are dropped silently", func(t *testing.T) {
		data := []byte("Roll,Email,Week 1\n20CS001,a@x.edu,5\ntrailing\n\n,,\n20CS002,b@x.edu,7\n")

		rows, err := ParseTable("scores.csv", data, ',')
		if err != nil {
			t.Fatalf("ParseTable failed: %v", err)
		}
		// header + the two full data rows survive
		if len(rows) != 3 {
			t.Fatalf("got %d rows, want 3: %+v", len(rows), rows)
		}
	})

	t.Run("header only fails", func(t *testing.T) {
		_, err := ParseTable("scores.csv", []byte("Roll,Email,Week 1\n"), ',')
		if !errors.Is(err, ErrEmptyOrMalformedInput) {
			t.Errorf("error = %v, want ErrEmptyOrMalformedInput", err)
		}
	})

	t.Run("empty file fails", func(t *testing.T) {
		_, err := ParseTable("scores.csv", []byte(""), ',')
		if !errors.Is(err, ErrEmptyOrMalformedInput) {
			t.Errorf("error = %v, want ErrEmptyOrMalformedInput", err)
		}
	})
}

func TestParseTable_XLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	cells := [][]interface{}{
		{"Roll", "Email", "Week 1", "Week 2"},
		{"20CS001", "a@x.edu", 5, nil}, // trailing empty cell
		{"20CS002", "b@x.edu", 7, 9},
	}
	for i, row := range cells {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("SetSheetRow failed: %v", err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	rows, err := ParseTable("noc25_cs52.xlsx", buf.Bytes(), ',')
	if err != nil {
		t.Fatalf("ParseTable failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3: %+v", len(rows), rows)
	}
	// The row with a trailing empty score must be padded, not dropped.
	if len(rows[1]) != 4 {
		t.Errorf("row 1 has %d cells, want 4 (padded)", len(rows[1]))
	}
	if rows[2][3] != "9" {
		t.Errorf("cell = %q, want %q", rows[2][3], "9")
	}
}
