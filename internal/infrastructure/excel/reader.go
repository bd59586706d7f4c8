package excel

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Botiquin-api/internal/application/ingest"
)

// Nombres de hoja esperados en el libro maestro de inventario.
const (
	sheetSuppliers = "SuppliersTb"
	sheetMedicines = "MedicinesTb"
	sheetBatches   = "BatchesTb"
	sheetDosage    = "DailyDosageTb"
)

// dateLayouts formatos de fecha de vencimiento aceptados en celdas de texto.
var dateLayouts = []string{"2006-01-02", "02/01/2006", "01-02-06", "2006-01-02 15:04:05"}

// ReadWorkbook abre el XLSX en path y devuelve las filas normalizadas de las
// cuatro hojas. Las hojas ausentes se tratan como vacías salvo MedicinesTb,
// que es obligatoria.
func ReadWorkbook(path string) (*ingest.Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("abrir libro excel: %w", err)
	}
	defer f.Close()

	wb := &ingest.Workbook{}

	suppliers, err := readSheet(f, sheetSuppliers)
	if err != nil {
		return nil, err
	}
	for _, rec := range suppliers {
		wb.Suppliers = append(wb.Suppliers, ingest.SupplierRow{
			ID:           rec.str("supplier_id"),
			Name:         rec.str("supplier_name"),
			LeadTimeDays: rec.intval("lead_time"),
		})
	}

	medicines, err := readSheet(f, sheetMedicines)
	if err != nil {
		return nil, err
	}
	if len(medicines) == 0 {
		return nil, fmt.Errorf("hoja %s vacía o ausente", sheetMedicines)
	}
	for _, rec := range medicines {
		wb.Medicines = append(wb.Medicines, ingest.MedicineRow{
			ID:           rec.str("id"),
			Name:         rec.str("medicine_name"),
			Salt:         rec.str("salt"),
			Uses:         rec.str("uses"),
			DailyDose:    rec.dec("daily_dose"),
			SupplierID:   rec.str("supplier_id"),
			ReorderLevel: rec.dec("reorder_level"),
		})
	}

	batches, err := readSheet(f, sheetBatches)
	if err != nil {
		return nil, err
	}
	for _, rec := range batches {
		wb.Batches = append(wb.Batches, ingest.BatchRow{
			MedicineID: rec.str("medicine_id"),
			BatchNo:    rec.str("batch_no"),
			StockUnits: rec.dec("stock_units"),
			ExpiryDate: rec.date("expiry_date"),
		})
	}

	dosages, err := readSheet(f, sheetDosage)
	if err != nil {
		return nil, err
	}
	for _, rec := range dosages {
		wb.Dosages = append(wb.Dosages, ingest.DosageRow{
			MedicineID:      rec.str("medicine_id"),
			BeforeBreakfast: rec.dec("before_bf"),
			AfterBreakfast:  rec.dec("after_bf"),
			Evening:         rec.dec("at_8pm"),
			AfterDinner:     rec.dec("after_dinner"),
		})
	}

	return wb, nil
}

// record fila indexada por cabecera normalizada.
type record map[string]string

// readSheet lee una hoja como lista de records. La primera fila es la
// cabecera; las columnas sin nombre (colas vacías del Excel) se descartan.
func readSheet(f *excelize.File, sheet string) ([]record, error) {
	idx, err := f.GetSheetIndex(sheet)
	if err != nil || idx < 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("leer hoja %s: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	headers := rows[0]
	for i, h := range headers {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	var out []record
	for _, row := range rows[1:] {
		rec := make(record, len(headers))
		empty := true
		for j, name := range headers {
			if name == "" {
				continue
			}
			var cell string
			if j < len(row) {
				cell = strings.TrimSpace(row[j])
			}
			if cell != "" {
				empty = false
			}
			rec[name] = cell
		}
		if !empty {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r record) str(key string) string { return r[key] }

func (r record) dec(key string) decimal.Decimal {
	v := r[key]
	if v == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func (r record) intval(key string) int {
	return int(r.dec(key).IntPart())
}

func (r record) date(key string) *time.Time {
	v := r[key]
	if v == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &t
		}
	}
	return nil
}
