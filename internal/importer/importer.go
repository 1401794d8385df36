package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/spec-kit/it-inventory/internal/domain"
)

// ErrUnsupportedFormat is returned for uploads that are neither CSV nor XLSX.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Format identifies an upload encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DetectFormat picks the decoder from the file name, falling back to the content type.
func DetectFormat(filename, contentType string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	}
	ct := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	switch ct {
	case "text/csv", "application/csv":
		return FormatCSV, nil
	case xlsxContentType:
		return FormatXLSX, nil
	}
	return "", ErrUnsupportedFormat
}

// Row is a record keyed by normalized header name.
type Row struct {
	Line   int
	Values map[string]string
}

// Get returns the trimmed value for a column.
func (r Row) Get(column string) string {
	return strings.TrimSpace(r.Values[column])
}

// ReadRows decodes every data row below the header row.
func ReadRows(format Format, r io.Reader) ([]Row, error) {
	var records [][]string
	var err error
	switch format {
	case FormatCSV:
		records, err = readCSV(r)
	case FormatXLSX:
		records, err = readXLSX(r)
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, err
	}
	return toRows(records), nil
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return records, nil
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

func toRows(records [][]string) []Row {
	if len(records) == 0 {
		return nil
	}
	header := make([]string, len(records[0]))
	for i, name := range records[0] {
		header[i] = normalizeHeader(name)
	}

	var rows []Row
	for i, record := range records[1:] {
		if blank(record) {
			continue
		}
		values := make(map[string]string, len(header))
		for col, name := range header {
			if name == "" || col >= len(record) {
				continue
			}
			values[name] = record[col]
		}
		rows = append(rows, Row{Line: i + 2, Values: values})
	}
	return rows
}

func normalizeHeader(name string) string {
	name = strings.TrimPrefix(name, "\ufeff")
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.ReplaceAll(name, " ", "_")
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Equipment maps a row onto the equipment insert shape.
func Equipment(row Row) (domain.Equipment, error) {
	locationID, err := strconv.ParseInt(row.Get("id_ubicacion"), 10, 64)
	if err != nil {
		return domain.Equipment{}, fmt.Errorf("line %d: invalid id_ubicacion %q", row.Line, row.Get("id_ubicacion"))
	}
	e := domain.Equipment{
		Type:            row.Get("tipo"),
		Brand:           row.Get("marca"),
		Model:           row.Get("modelo"),
		OperatingSystem: row.Get("sistema_operativo"),
		Motherboard:     row.Get("placa_base"),
		Processor:       row.Get("procesador"),
		RAM:             row.Get("memoria_ram"),
		HardDrive:       row.Get("disco_duro"),
		GraphicsCard:    row.Get("tarjeta_grafica"),
		CoolingSystem:   row.Get("sistema_refrigeracion"),
		OpticalDrive:    row.Get("unidad_optica"),
		SoundCard:       row.Get("tarjeta_sonido"),
		NetworkCard:     row.Get("tarjeta_red"),
		Keyboard:        row.Get("teclado"),
		Mouse:           row.Get("raton"),
		Monitor:         row.Get("monitor"),
		Speakers:        row.Get("altavoces"),
		Cables:          row.Get("cables_conectores"),
		LocationID:      locationID,
		Status:          row.Get("estado"),
	}
	for column, value := range map[string]string{"tipo": e.Type, "marca": e.Brand, "modelo": e.Model, "estado": e.Status} {
		if value == "" {
			return domain.Equipment{}, fmt.Errorf("line %d: missing %s", row.Line, column)
		}
	}
	return e, nil
}
