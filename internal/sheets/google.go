package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// Google is the Backend implementation over the Google Sheets v4 API.
type Google struct {
	svc *sheetsapi.Service
}

// NewGoogle builds a Sheets client. With an empty credentialsFile the
// client falls back to application default credentials.
func NewGoogle(ctx context.Context, credentialsFile string) (*Google, error) {
	opts := []option.ClientOption{option.WithScopes(sheetsapi.SpreadsheetsScope)}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	svc, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets client: %w", err)
	}
	return &Google{svc: svc}, nil
}

func (g *Google) ListTabs(ctx context.Context, spreadsheetID string) ([]Tab, error) {
	resp, err := g.svc.Spreadsheets.Get(spreadsheetID).
		Fields("sheets.properties.sheetId", "sheets.properties.title", "sheets.properties.index").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("list tabs of %s: %w", spreadsheetID, err)
	}
	tabs := make([]Tab, 0, len(resp.Sheets))
	for _, s := range resp.Sheets {
		tabs = append(tabs, Tab{
			Name:  s.Properties.Title,
			ID:    s.Properties.SheetId,
			Index: s.Properties.Index,
		})
	}
	return tabs, nil
}

func (g *Google) CopyTab(ctx context.Context, srcSpreadsheetID string, srcTabID int64, destSpreadsheetID string) (int64, error) {
	props, err := g.svc.Spreadsheets.Sheets.CopyTo(srcSpreadsheetID, srcTabID,
		&sheetsapi.CopySheetToAnotherSpreadsheetRequest{
			DestinationSpreadsheetId: destSpreadsheetID,
		}).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("copy tab %d to %s: %w", srcTabID, destSpreadsheetID, err)
	}
	return props.SheetId, nil
}

func (g *Google) RenameTab(ctx context.Context, spreadsheetID string, tabID int64, name string) error {
	err := g.batchUpdate(ctx, spreadsheetID, &sheetsapi.Request{
		UpdateSheetProperties: &sheetsapi.UpdateSheetPropertiesRequest{
			Properties: &sheetsapi.SheetProperties{SheetId: tabID, Title: name},
			Fields:     "title",
		},
	})
	if err != nil {
		return fmt.Errorf("rename tab %d to %q: %w", tabID, name, err)
	}
	return nil
}

func (g *Google) ReadRange(ctx context.Context, spreadsheetID, a1 string) ([][]string, error) {
	return g.read(ctx, spreadsheetID, a1, "FORMATTED_VALUE")
}

func (g *Google) ReadFormulas(ctx context.Context, spreadsheetID, a1 string) ([][]string, error) {
	return g.read(ctx, spreadsheetID, a1, "FORMULA")
}

func (g *Google) read(ctx context.Context, spreadsheetID, a1, render string) ([][]string, error) {
	resp, err := g.svc.Spreadsheets.Values.Get(spreadsheetID, a1).
		ValueRenderOption(render).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", a1, err)
	}
	out := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = fmt.Sprint(v)
		}
		out[i] = cells
	}
	return out, nil
}

func (g *Google) WriteRanges(ctx context.Context, spreadsheetID string, writes []RangeWrite) error {
	if len(writes) == 0 {
		return nil
	}
	data := make([]*sheetsapi.ValueRange, len(writes))
	for i, w := range writes {
		values := make([][]any, len(w.Values))
		copy(values, w.Values)
		data[i] = &sheetsapi.ValueRange{Range: w.Range, Values: values}
	}
	_, err := g.svc.Spreadsheets.Values.BatchUpdate(spreadsheetID,
		&sheetsapi.BatchUpdateValuesRequest{
			ValueInputOption: "USER_ENTERED",
			Data:             data,
		}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write %d ranges to %s: %w", len(writes), spreadsheetID, err)
	}
	return nil
}

func (g *Google) HideRows(ctx context.Context, spreadsheetID string, tabID int64, ranges []DimRange) error {
	return g.hideDimension(ctx, spreadsheetID, tabID, "ROWS", ranges)
}

func (g *Google) HideColumns(ctx context.Context, spreadsheetID string, tabID int64, ranges []DimRange) error {
	return g.hideDimension(ctx, spreadsheetID, tabID, "COLUMNS", ranges)
}

func (g *Google) hideDimension(ctx context.Context, spreadsheetID string, tabID int64, dim string, ranges []DimRange) error {
	if len(ranges) == 0 {
		return nil
	}
	reqs := make([]*sheetsapi.Request, len(ranges))
	for i, r := range ranges {
		reqs[i] = &sheetsapi.Request{
			UpdateDimensionProperties: &sheetsapi.UpdateDimensionPropertiesRequest{
				Range: &sheetsapi.DimensionRange{
					SheetId:    tabID,
					Dimension:  dim,
					StartIndex: r.Start,
					EndIndex:   r.End,
				},
				Properties: &sheetsapi.DimensionProperties{
					HiddenByUser:    true,
					ForceSendFields: []string{"HiddenByUser"},
				},
				Fields: "hiddenByUser",
			},
		}
	}
	if err := g.batchUpdate(ctx, spreadsheetID, reqs...); err != nil {
		return fmt.Errorf("hide %s on tab %d: %w", dim, tabID, err)
	}
	return nil
}

func (g *Google) DeleteTab(ctx context.Context, spreadsheetID string, tabID int64) error {
	err := g.batchUpdate(ctx, spreadsheetID, &sheetsapi.Request{
		DeleteSheet: &sheetsapi.DeleteSheetRequest{SheetId: tabID},
	})
	if err != nil {
		return fmt.Errorf("delete tab %d: %w", tabID, err)
	}
	return nil
}

func (g *Google) batchUpdate(ctx context.Context, spreadsheetID string, reqs ...*sheetsapi.Request) error {
	_, err := g.svc.Spreadsheets.BatchUpdate(spreadsheetID,
		&sheetsapi.BatchUpdateSpreadsheetRequest{Requests: reqs}).
		Context(ctx).Do()
	return err
}
