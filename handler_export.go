package main

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"

	"github.com/xuri/excelize/v2"
)

func fmtPrice(p *float64) string {
	if p == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *p)
}

// handleExportDolls exports heads and bodies to CSV or Excel.
func handleExportDolls(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	headers := []string{"Type", "Name", "Maker", "Mold", "Skin Tone", "Size", "Ownership", "Payment",
		"Original Price", "Actual Price", "Total Price", "Deposit", "Final Payment", "Release", "Received", "Notes"}
	var data [][]string

	for _, t := range []dollTable{dollHeads, dollBodies} {
		rows, err := db.Query("SELECT " + dollPartCols + " FROM " + t.table + " ORDER BY sort_order, id")
		if err != nil {
			jsonErr(w, err.Error(), 500)
			return
		}
		for rows.Next() {
			d, err := scanDollPart(rows)
			if err != nil {
				rows.Close()
				jsonErr(w, err.Error(), 500)
				return
			}
			data = append(data, []string{t.label, d.Name, d.Maker, d.Mold, d.SkinTone, d.SizeCategory,
				d.OwnershipStatus, d.PaymentStatus,
				fmtPrice(d.OriginalPrice), fmtPrice(d.ActualPrice), fmtPrice(d.TotalPrice),
				fmtPrice(d.Deposit), fmtPrice(d.FinalPayment), d.ReleaseDate, d.ReceivedDate, d.Notes})
		}
		rows.Close()
	}

	logAudit(getUsername(r), "EXPORT", "dolls", format, fmt.Sprintf("Exported %d doll parts as %s", len(data), format))

	if format == "xlsx" {
		exportExcel(w, "Dolls", headers, data)
	} else {
		exportCSV(w, "dolls.csv", headers, data)
	}
}

// handleExportWardrobe exports wardrobe items to CSV or Excel.
func handleExportWardrobe(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	rows, err := db.Query("SELECT " + wardrobeCols + " FROM wardrobe_items ORDER BY sort_order, id")
	if err != nil {
		jsonErr(w, err.Error(), 500)
		return
	}
	defer rows.Close()

	headers := []string{"Name", "Category", "Ownership", "Total Price", "Deposit", "Final Payment", "Sizes", "Notes"}
	var data [][]string
	for rows.Next() {
		it, err := scanWardrobeItem(rows)
		if err != nil {
			jsonErr(w, err.Error(), 500)
			return
		}
		data = append(data, []string{it.Name, it.Category, it.OwnershipStatus,
			fmtPrice(it.TotalPrice), fmtPrice(it.Deposit), fmtPrice(it.FinalPayment),
			strings.Join(it.Sizes, ", "), it.Notes})
	}

	logAudit(getUsername(r), "EXPORT", "wardrobe", format, fmt.Sprintf("Exported %d wardrobe items as %s", len(data), format))

	if format == "xlsx" {
		exportExcel(w, "Wardrobe", headers, data)
	} else {
		exportCSV(w, "wardrobe.csv", headers, data)
	}
}

// exportCSV writes data to CSV format.
func exportCSV(w http.ResponseWriter, filename string, headers []string, data [][]string) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(headers); err != nil {
		http.Error(w, "Failed to write CSV headers", 500)
		return
	}
	for _, row := range data {
		if err := writer.Write(row); err != nil {
			http.Error(w, "Failed to write CSV row", 500)
			return
		}
	}
}

// exportExcel writes data to Excel format.
func exportExcel(w http.ResponseWriter, sheetName string, headers []string, data [][]string) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		http.Error(w, "Failed to create Excel sheet", 500)
		return
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D3D3D3"}, Pattern: 1},
	})
	if err != nil {
		http.Error(w, "Failed to create header style", 500)
		return
	}

	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}
	for rowIdx, row := range data {
		for colIdx, value := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}
	for i := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, col, col, 15)
	}
	if sheetName != "Sheet1" {
		f.DeleteSheet("Sheet1")
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.xlsx", strings.ToLower(sheetName)))

	if err := f.Write(w); err != nil {
		http.Error(w, "Failed to write Excel file", 500)
		return
	}
}
