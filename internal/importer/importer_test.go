package importer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const sampleCSV = "\ufefftipo,marca,modelo,id_ubicacion,estado,Memoria RAM\n" +
	"Sobremesa,Dell,Optiplex 7010,1,operativo,16GB\n" +
	",,,,,\n" +
	"Portátil,HP,ProBook,x,operativo,8GB\n"

func TestDetectFormat(t *testing.T) {
	cases := []struct {
		name, file, contentType string
		want                    Format
		wantErr                 bool
	}{
		{"csv extension", "equipos.CSV", "", FormatCSV, false},
		{"xlsx extension", "equipos.xlsx", "application/octet-stream", FormatXLSX, false},
		{"csv content type", "blob", "text/csv; charset=utf-8", FormatCSV, false},
		{"xlsx content type", "blob", xlsxContentType, FormatXLSX, false},
		{"pdf", "equipos.pdf", "application/pdf", "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DetectFormat(tc.file, tc.contentType)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestReadRowsCSV(t *testing.T) {
	rows, err := ReadRows(FormatCSV, strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, "Dell", rows[0].Get("marca"))
	assert.Equal(t, "16GB", rows[0].Get("memoria_ram"))
	assert.Equal(t, 4, rows[1].Line)

	eq, err := Equipment(rows[0])
	require.NoError(t, err)
	assert.Equal(t, int64(1), eq.LocationID)
	assert.Equal(t, "Optiplex 7010", eq.Model)
	assert.Equal(t, "16GB", eq.RAM)

	_, err = Equipment(rows[1])
	assert.ErrorContains(t, err, "id_ubicacion")
}

func TestReadRowsXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"tipo", "marca", "modelo", "id_ubicacion", "estado"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"Servidor", "Lenovo", "ThinkSystem", 2, "en reparación"}))
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	rows, err := ReadRows(FormatXLSX, &buf)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	eq, err := Equipment(rows[0])
	require.NoError(t, err)
	assert.Equal(t, "Lenovo", eq.Brand)
	assert.Equal(t, int64(2), eq.LocationID)
	assert.Equal(t, "en reparación", eq.Status)
}

func TestEquipmentRequiresCoreColumns(t *testing.T) {
	_, err := Equipment(Row{Line: 7, Values: map[string]string{"id_ubicacion": "1", "tipo": "Sobremesa"}})
	assert.ErrorContains(t, err, "line 7: missing")
}

func TestReadRowsRejectsUnknownFormat(t *testing.T) {
	_, err := ReadRows("pdf", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
