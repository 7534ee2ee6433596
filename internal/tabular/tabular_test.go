package tabular

import (
	"path/filepath"
	"testing"
)

func TestNewTablePadsAndMarksMissing(t *testing.T) {
	table := NewTable(
		[]string{"A", "B"},
		[][]string{
			{"1"},
			{"2", "x"},
			{" ", "3"},
		},
	)

	if table.RowCount() != 3 {
		t.Fatalf("RowCount = %d, want 3", table.RowCount())
	}

	cell, ok := table.Cell(0, "B")
	if !ok || !cell.Missing {
		t.Fatalf("short row should pad with a missing cell, got %+v", cell)
	}
	cell, _ = table.Cell(2, "A")
	if !cell.Missing {
		t.Fatalf("whitespace-only entry should be missing, got %+v", cell)
	}
	cell, _ = table.Cell(1, "B")
	if cell.Missing || cell.Value != "x" {
		t.Fatalf("unexpected cell: %+v", cell)
	}
}

func TestCellFloat(t *testing.T) {
	if v, err := (Cell{Value: " 87.5 "}).Float(); err != nil || v != 87.5 {
		t.Fatalf("Float() = %v, %v", v, err)
	}
	if _, err := (Cell{Value: "absent"}).Float(); err == nil {
		t.Fatal("textual cell should not parse as a number")
	}
	if _, err := (Cell{Missing: true}).Float(); err == nil {
		t.Fatal("missing cell should not parse as a number")
	}
}

func TestSelectRows(t *testing.T) {
	table := NewTable(
		[]string{"A"},
		[][]string{{"one"}, {"two"}, {"three"}},
	)

	view := table.SelectRows([]int{2, 0})
	if view.RowCount() != 2 {
		t.Fatalf("RowCount = %d, want 2", view.RowCount())
	}
	first, _ := view.Cell(0, "A")
	second, _ := view.Cell(1, "A")
	if first.Value != "three" || second.Value != "one" {
		t.Fatalf("selection order not preserved: %q, %q", first.Value, second.Value)
	}
}

func TestAppendColumnPadsShorterSide(t *testing.T) {
	table := NewTable([]string{"A"}, [][]string{{"1"}, {"2"}, {"3"}})

	table.AppendColumn("B", []Cell{{Value: "x"}})
	cell, _ := table.Cell(2, "B")
	if !cell.Missing {
		t.Fatalf("short appended column should be padded, got %+v", cell)
	}

	table.AppendColumn("C", []Cell{{Value: "a"}, {Value: "b"}, {Value: "c"}, {Value: "d"}})
	if table.RowCount() != 4 {
		t.Fatalf("RowCount = %d, want 4 after a longer append", table.RowCount())
	}
	cell, _ = table.Cell(3, "A")
	if !cell.Missing {
		t.Fatalf("existing columns should be padded to the longer append, got %+v", cell)
	}
}

func TestAppendColumnToEmptyTable(t *testing.T) {
	table := &Table{}
	table.AppendColumn("A", []Cell{{Value: "1"}, {Value: "2"}})
	if table.RowCount() != 2 {
		t.Fatalf("RowCount = %d, want 2", table.RowCount())
	}
}

func TestMemStore(t *testing.T) {
	store := NewMemStore()
	if _, err := store.ReadTable("nope.xlsx"); err == nil {
		t.Fatal("reading an absent table should fail")
	}

	want := NewTable([]string{"A"}, [][]string{{"1"}})
	if err := store.WriteTable("t.xlsx", want); err != nil {
		t.Fatalf("WriteTable failed: %v", err)
	}
	got, err := store.ReadTable("t.xlsx")
	if err != nil {
		t.Fatalf("ReadTable failed: %v", err)
	}
	if got != want {
		t.Fatal("MemStore should hand back the stored table")
	}
}

func TestXLSXStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grades.xlsx")
	store := NewXLSXStore()

	if _, err := store.ReadTable(path); err == nil {
		t.Fatal("reading an absent workbook should fail")
	}

	table := NewTable(
		[]string{"2017", "2018"},
		[][]string{
			{"85", "72"},
			{"64", "91"},
		},
	)
	if err := store.WriteTable(path, table); err != nil {
		t.Fatalf("WriteTable failed: %v", err)
	}

	got, err := store.ReadTable(path)
	if err != nil {
		t.Fatalf("ReadTable failed: %v", err)
	}
	names := got.ColumnNames()
	if len(names) != 2 || names[0] != "2017" || names[1] != "2018" {
		t.Fatalf("unexpected header: %v", names)
	}
	if got.RowCount() != 2 {
		t.Fatalf("RowCount = %d, want 2", got.RowCount())
	}
	cell, _ := got.Cell(1, "2018")
	if cell.Value != "91" {
		t.Fatalf("round-tripped cell = %+v", cell)
	}
}
