package spreadsheet

import (
	"context"
	"fmt"
	"io"
	"reflect"

	"github.com/xuri/excelize/v2"

	"github.com/BruksfildServices01/studio-manager/internal/httperr"
	"github.com/BruksfildServices01/studio-manager/internal/store"
)

// sheet binds a worksheet name to the snapshot slice it holds.
type sheet struct {
	name string
	rows any
}

func sheetsOf(snap *store.Snapshot) []sheet {
	return []sheet{
		{"clientes", &snap.Clients},
		{"servicos", &snap.Services},
		{"produtos", &snap.Products},
		{"agendamentos", &snap.Appointments},
		{"registros_financeiros", &snap.FinancialEntries},
	}
}

// Write encodes snap as a workbook with one sheet per collection: a header
// row of field names, then one record per row.
func Write(w io.Writer, snap *store.Snapshot) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, sh := range sheetsOf(snap) {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sh.name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(sh.name); err != nil {
			return err
		}
		if err := writeSheet(f, sh.name, reflect.ValueOf(sh.rows).Elem()); err != nil {
			return fmt.Errorf("sheet %s: %w", sh.name, err)
		}
	}

	_, err := f.WriteTo(w)
	return err
}

func writeSheet(f *excelize.File, name string, slice reflect.Value) error {
	cols := columns(slice.Type().Elem())

	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c.name
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return err
	}

	for r := 0; r < slice.Len(); r++ {
		rec := slice.Index(r)
		row := make([]any, len(cols))
		for i, c := range cols {
			s, err := encode(rec.FieldByIndex(c.index))
			if err != nil {
				return fmt.Errorf("row %d, %s: %w", r+2, c.name, err)
			}
			row[i] = s
		}

		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

// Read decodes a workbook written by Write. Missing sheets are empty
// collections; unknown columns are ignored.
func Read(r io.Reader) (*store.Snapshot, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_workbook", err.Error())
	}
	defer f.Close()

	present := map[string]bool{}
	for _, name := range f.GetSheetList() {
		present[name] = true
	}

	snap := &store.Snapshot{}
	for _, sh := range sheetsOf(snap) {
		if !present[sh.name] {
			continue
		}
		rows, err := f.GetRows(sh.name)
		if err != nil {
			return nil, httperr.ErrValidation("invalid_workbook", err.Error())
		}
		if err := readSheet(rows, reflect.ValueOf(sh.rows).Elem()); err != nil {
			return nil, httperr.ErrValidation("invalid_workbook", fmt.Sprintf("sheet %s: %v", sh.name, err))
		}
	}
	return snap, nil
}

func readSheet(rows [][]string, slice reflect.Value) error {
	if len(rows) == 0 {
		return nil
	}

	byName := map[string]column{}
	for _, c := range columns(slice.Type().Elem()) {
		byName[c.name] = c
	}

	header := rows[0]
	for r, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		rec := reflect.New(slice.Type().Elem()).Elem()
		for i, name := range header {
			c, ok := byName[name]
			if !ok {
				continue
			}
			var cell string
			if i < len(row) {
				cell = row[i]
			}
			if err := decode(cell, rec.FieldByIndex(c.index)); err != nil {
				return fmt.Errorf("row %d, %s: %w", r+2, name, err)
			}
		}
		slice.Set(reflect.Append(slice, rec))
	}
	return nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}

// Export writes the current store contents.
func Export(ctx context.Context, st *store.Store, w io.Writer) error {
	snap, err := st.Snapshot(ctx)
	if err != nil {
		return err
	}
	return Write(w, snap)
}

// Import replaces the store contents with the workbook, atomically.
func Import(ctx context.Context, st *store.Store, r io.Reader) (*store.Snapshot, error) {
	snap, err := Read(r)
	if err != nil {
		return nil, err
	}
	if err := st.Restore(ctx, snap); err != nil {
		return nil, err
	}
	return snap, nil
}
