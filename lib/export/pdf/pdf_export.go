package pdfexport

import (
	"bytes"
	"fmt"
	"ncp-tracker-backend/models"
	ncpapimodels "ncp-tracker-backend/models/api/ncp"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
)

const (
	labelWidth = 55
	lineHeight = 6
	timeFormat = "2006-01-02 15:04"
)

type row struct {
	label string
	value string
}

// GenerateReport renders the printable form of a single NCP report, photo is optional.
func GenerateReport(view ncpapimodels.NcpReportView, photo *models.File) (pdfFile []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("GenerateReport panic recover: %v", r)
		}
	}()
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("NCP %s", view.NcpID), true)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("NCP %s - page %d", view.NcpID, pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(fmt.Sprintf("Non-Conformance Product report %s", view.NcpID)), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("Status: %s", view.StatusHuman)), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	writeSection(pdf, tr, "Submission", []row{
		{"SKU", view.SkuCode},
		{"Machine", view.MachineCode},
		{"Incident", strings.TrimSpace(view.IncidentDate + " " + view.IncidentTime)},
		{"Hold quantity", strings.TrimSpace(view.HoldQuantity.String() + " " + view.Uom)},
		{"Description", view.ProblemDescription},
		{"Submitted by", view.SubmittedBy},
		{"Submitted at", formatTime(&view.SubmittedAt)},
		{"QA Leader", view.QaLeader},
	})
	writeSection(pdf, tr, "QA Leader", []row{
		{"Approved by", view.QaApprovedBy},
		{"Approved at", formatTime(view.QaApprovedAt)},
		{"Disposition", view.Disposition},
		{"Sorted", view.SortedQuantity},
		{"Released", view.ReleasedQuantity},
		{"Rejected", view.RejectedQuantity},
		{"Team Leader", view.AssignedTeamLeader},
		{"Rejected by", view.QaRejectedBy},
		{"Rejection reason", view.QaRejectionReason},
	})
	writeSection(pdf, tr, "Team Leader", []row{
		{"Processed by", view.TlProcessedBy},
		{"Processed at", formatTime(view.TlProcessedAt)},
		{"Root cause", view.RootCauseAnalysis},
		{"Corrective action", view.CorrectiveAction},
		{"Preventive action", view.PreventiveAction},
	})
	writeSection(pdf, tr, "Process Lead", []row{
		{"Approved by", view.ProcessApprovedBy},
		{"Approved at", formatTime(view.ProcessApprovedAt)},
		{"Comment", view.ProcessComment},
		{"Returned by", view.ProcessRejectedBy},
		{"Return reason", view.ProcessRejectionReason},
	})
	writeSection(pdf, tr, "QA Manager", []row{
		{"Approved by", view.ManagerApprovedBy},
		{"Approved at", formatTime(view.ManagerApprovedAt)},
		{"Comment", view.ManagerComment},
		{"Returned by", view.ManagerRejectedBy},
		{"Return reason", view.ManagerRejectionReason},
		{"Archived at", formatTime(view.ArchivedAt)},
	})

	if err = putImg(pdf, photo); err != nil {
		return nil, err
	}
	if photo != nil {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, "Photo", "B", 1, "L", false, 0, "")
		pdf.Ln(2)
		pdf.ImageOptions(photo.FileName, pdf.GetX(), pdf.GetY(), 80, 0, true,
			fpdf.ImageOptions{ImageType: imageType(photo)}, 0, "")
	}

	if pdf.Error() != nil {
		return nil, pdf.Error()
	}
	buf := new(bytes.Buffer)
	if err = pdf.Output(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeSection skips empty rows, a stage not reached yet prints nothing.
func writeSection(pdf *fpdf.Fpdf, tr func(string) string, title string, rows []row) {
	filled := make([]row, 0, len(rows))
	for _, item := range rows {
		if item.value != "" {
			filled = append(filled, item)
		}
	}
	if len(filled) == 0 {
		return
	}
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, tr(title), "B", 1, "L", false, 0, "")
	pdf.Ln(1)
	for _, item := range filled {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(labelWidth, lineHeight, tr(item.label), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, lineHeight, tr(item.value), "", "L", false)
	}
	pdf.Ln(3)
}

func putImg(pdf *fpdf.Fpdf, fileData *models.File) error {
	if fileData == nil {
		return nil
	}
	options := fpdf.ImageOptions{
		ReadDpi:   false,
		ImageType: imageType(fileData),
	}
	pdf.RegisterImageOptionsReader(fileData.FileName, options, bytes.NewReader(fileData.Body))
	return pdf.Error()
}

func imageType(fileData *models.File) string {
	if fileData.ContentType == "image/png" {
		return "PNG"
	}
	return "JPG"
}

func formatTime(value *time.Time) string {
	if value == nil || value.IsZero() {
		return ""
	}
	return value.UTC().Format(timeFormat)
}
