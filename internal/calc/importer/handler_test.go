package importer

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		for j, v := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, v))
		}
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func postWorkbook(t *testing.T, wb *bytes.Buffer) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "fp.xlsx")
	require.NoError(t, err)
	_, err = part.Write(wb.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/user/tools/fp/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()
	h := &Handler{}
	h.Fp(rr, req)
	return rr
}

func TestImportFp(t *testing.T) {
	wb := buildWorkbook(t, [][]any{
		{"sds", "ap", "rpo", "ie", "rmu", "z_ft", "h_ft"},
		{1.0, 1.0, 2.5, 1.0, 1.0, 48, 48},
		{0.5, 1.4, 1.5, 1.5, 1.3, 0, 64},
	})
	rr := postWorkbook(t, wb)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var res FpImportResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	require.Equal(t, 2, res.Count)
	assert.InDelta(t, 0.48, res.Results[0].Fp, 1e-9)
}

func TestImportFpSkipsBadRows(t *testing.T) {
	wb := buildWorkbook(t, [][]any{
		{"sds", "ap", "rpo", "ie", "rmu", "z_ft", "h_ft"},
		{"not a number", 1.0, 2.5, 1.0, 1.0, 48, 48},
		{1.0, 1.0, 2.5, 1.0, 1.0, 60, 48}, // z above roof
		{1.0, 1.0, 2.5, 1.0, 1.0, 48, 48},
	})
	rr := postWorkbook(t, wb)
	require.Equal(t, http.StatusOK, rr.Code)

	var res FpImportResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.Equal(t, 1, res.Count)
}

func TestImportFpRejectsEmptySheet(t *testing.T) {
	wb := buildWorkbook(t, [][]any{{"sds", "ap", "rpo", "ie", "rmu", "z_ft", "h_ft"}})
	rr := postWorkbook(t, wb)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestImportFpRequiresFile(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/user/tools/fp/import", nil)
	rr := httptest.NewRecorder()
	h := &Handler{}
	h.Fp(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
