package reservations

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// valuesAPI is the subset of the Sheets API used by SheetsStore. Row indexes
// are zero based and include the header row.
type valuesAPI interface {
	Get(ctx context.Context, rng string) ([][]any, error)
	Append(ctx context.Context, rng string, rows [][]any) error
	Update(ctx context.Context, rng string, rows [][]any) error
	DeleteRow(ctx context.Context, worksheet string, row int) error
}

// SheetsStore keeps reservations in a Google Sheets worksheet. The first row
// is a header and is never read or modified.
type SheetsStore struct {
	api       valuesAPI
	worksheet string
}

// NewSheetsStore connects to a spreadsheet. opts carry credentials, e.g.
// option.WithCredentialsFile.
func NewSheetsStore(ctx context.Context, spreadsheetID, worksheet string, opts ...option.ClientOption) (*SheetsStore, error) {
	if spreadsheetID == "" {
		return nil, errors.New("reservations: spreadsheet id required")
	}
	if worksheet == "" {
		worksheet = "Reservations"
	}
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, unavailable("sheets client", err)
	}
	return &SheetsStore{api: &sheetsValues{svc: svc, spreadsheetID: spreadsheetID}, worksheet: worksheet}, nil
}

func newSheetsStoreWithAPI(api valuesAPI, worksheet string) *SheetsStore {
	if api == nil {
		panic("reservations: sheets api required")
	}
	return &SheetsStore{api: api, worksheet: worksheet}
}

func (s *SheetsStore) tableRange() string {
	return fmt.Sprintf("'%s'!A:I", s.worksheet)
}

func (s *SheetsStore) cellRange(row int, field Field) string {
	col := string(rune('A' + int(field)))
	return fmt.Sprintf("'%s'!%s%d", s.worksheet, col, row+1)
}

func (s *SheetsStore) Append(ctx context.Context, r Record) error {
	if err := s.api.Append(ctx, s.tableRange(), [][]any{toCells(r.Row())}); err != nil {
		return unavailable("sheets append", err)
	}
	return nil
}

// rows returns data rows with their sheet row index.
func (s *SheetsStore) rows(ctx context.Context) ([]int, []Record, error) {
	values, err := s.api.Get(ctx, s.tableRange())
	if err != nil {
		return nil, nil, unavailable("sheets read", err)
	}
	var (
		idx     []int
		records []Record
	)
	for i, row := range values {
		if i == 0 {
			continue
		}
		idx = append(idx, i)
		records = append(records, RecordFromRow(fromCells(row)))
	}
	return idx, records, nil
}

func (s *SheetsStore) FindAll(ctx context.Context) ([]Record, error) {
	_, records, err := s.rows(ctx)
	return records, err
}

func (s *SheetsStore) FindByPhone(ctx context.Context, phone string) ([]Record, error) {
	_, records, err := s.rows(ctx)
	if err != nil {
		return nil, err
	}
	var out []Record
	for _, r := range records {
		if r.Confirmed() && samePhone(r, phone) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *SheetsStore) find(ctx context.Context, key Key) (int, bool, error) {
	idx, records, err := s.rows(ctx)
	if err != nil {
		return 0, false, err
	}
	for i, r := range records {
		if key.Matches(r) {
			return idx[i], true, nil
		}
	}
	return 0, false, nil
}

func (s *SheetsStore) UpdateField(ctx context.Context, key Key, field Field, value string) (bool, error) {
	if !field.Valid() {
		return false, fmt.Errorf("reservations: unknown %s", field)
	}
	row, ok, err := s.find(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := s.api.Update(ctx, s.cellRange(row, field), [][]any{{value}}); err != nil {
		return false, unavailable("sheets update", err)
	}
	return true, nil
}

func (s *SheetsStore) Delete(ctx context.Context, key Key) (bool, error) {
	row, ok, err := s.find(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := s.api.DeleteRow(ctx, s.worksheet, row); err != nil {
		return false, unavailable("sheets delete", err)
	}
	return true, nil
}

func toCells(row []string) []any {
	cells := make([]any, len(row))
	for i, v := range row {
		cells[i] = v
	}
	return cells
}

func fromCells(row []any) []string {
	out := make([]string, len(row))
	for i, v := range row {
		if v != nil {
			out[i] = fmt.Sprint(v)
		}
	}
	return out
}

// sheetsValues adapts the generated Sheets client to valuesAPI.
type sheetsValues struct {
	svc           *sheets.Service
	spreadsheetID string
}

func (v *sheetsValues) Get(ctx context.Context, rng string) ([][]any, error) {
	resp, err := v.svc.Spreadsheets.Values.Get(v.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

func (v *sheetsValues) Append(ctx context.Context, rng string, rows [][]any) error {
	_, err := v.svc.Spreadsheets.Values.Append(v.spreadsheetID, rng, &sheets.ValueRange{Values: rows}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	return err
}

func (v *sheetsValues) Update(ctx context.Context, rng string, rows [][]any) error {
	_, err := v.svc.Spreadsheets.Values.Update(v.spreadsheetID, rng, &sheets.ValueRange{Values: rows}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	return err
}

func (v *sheetsValues) DeleteRow(ctx context.Context, worksheet string, row int) error {
	sheetID, err := v.sheetID(ctx, worksheet)
	if err != nil {
		return err
	}
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			DeleteDimension: &sheets.DeleteDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:         sheetID,
					Dimension:       "ROWS",
					StartIndex:      int64(row),
					EndIndex:        int64(row + 1),
					ForceSendFields: []string{"SheetId"},
				},
			},
		}},
	}
	_, err = v.svc.Spreadsheets.BatchUpdate(v.spreadsheetID, req).Context(ctx).Do()
	return err
}

func (v *sheetsValues) sheetID(ctx context.Context, worksheet string) (int64, error) {
	ss, err := v.svc.Spreadsheets.Get(v.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, err
	}
	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.Title == worksheet {
			return sh.Properties.SheetId, nil
		}
	}
	return 0, fmt.Errorf("worksheet %q not found", worksheet)
}
