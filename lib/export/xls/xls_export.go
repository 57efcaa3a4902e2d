package xlsexport

import (
	"bytes"
	ncpapimodels "ncp-tracker-backend/models/api/ncp"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

const timeFormat = "2006-01-02 15:04"

type Provider interface {
	ExportNcpList(list []ncpapimodels.NcpReportView) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{}
}

type impl struct{}

var ncpHeaders = []string{"NCP ID", "Status", "SKU", "Machine", "Incident date", "Incident time", "Quantity", "UOM",
	"Description", "Submitted by", "Submitted at", "QA Leader", "Disposition", "Team Leader", "Root cause",
	"Corrective action", "Preventive action", "Archived at"}

func (i impl) ExportNcpList(list []ncpapimodels.NcpReportView) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("failed to close xlsx file")
		}
	}()
	sheet := "Sheet1"
	row := 0
	row, err := writeHeader(f, sheet, row, ncpHeaders)
	if err != nil {
		return nil, errors.Wrap(err, "failed to write xlsx header")
	}
	if len(list) != 0 {
		_, err = writeNcpData(f, sheet, list, row)
		if err != nil {
			return nil, errors.Wrap(err, "failed to write xlsx data")
		}
	}
	if err = f.SetSheetName(sheet, "NCP reports"); err != nil {
		return nil, errors.Wrap(err, "failed to name xlsx sheet")
	}
	return f.WriteToBuffer()
}

func writeNcpData(f *excelize.File, sheet string, list []ncpapimodels.NcpReportView, row int) (int, error) {
	if err := applyDataCellStyle(f, sheet, 1, row+1, len(ncpHeaders), row+len(list)); err != nil {
		return row, err
	}
	for _, item := range list {
		row++
		quantity, _ := item.HoldQuantity.Float64()
		values := []interface{}{
			item.NcpID,
			item.StatusHuman,
			item.SkuCode,
			item.MachineCode,
			item.IncidentDate,
			item.IncidentTime,
			quantity,
			item.Uom,
			item.ProblemDescription,
			item.SubmittedBy,
			formatTime(&item.SubmittedAt),
			item.QaLeader,
			item.Disposition,
			item.AssignedTeamLeader,
			item.RootCauseAnalysis,
			item.CorrectiveAction,
			item.PreventiveAction,
			formatTime(item.ArchivedAt),
		}
		for idx, value := range values {
			if err := writeColumn(f, sheet, idx+1, row, value); err != nil {
				return row, err
			}
		}
	}
	return row, nil
}

func formatTime(value *time.Time) string {
	if value == nil || value.IsZero() {
		return ""
	}
	return value.UTC().Format(timeFormat)
}
