package ncphandler

import (
	"context"
	"fmt"
	"ncp-tracker-backend/models"
	dbmodels "ncp-tracker-backend/models/db"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm/schema"
)

var (
	reportSchemaOnce sync.Once
	reportSchema     *schema.Schema
	reportSchemaErr  error

	timeType    = reflect.TypeOf(time.Time{})
	timePtrType = reflect.TypeOf(&time.Time{})
	decimalType = reflect.TypeOf(decimal.Decimal{})
)

// lockedColumns cannot be changed even by a super edit.
var lockedColumns = map[string]bool{
	"id":         true,
	"ncp_id":     true,
	"created_at": true,
	"updated_at": true,
}

func getReportSchema() (*schema.Schema, error) {
	reportSchemaOnce.Do(func() {
		reportSchema, reportSchemaErr = schema.Parse(&dbmodels.NcpReport{}, &sync.Map{}, schema.NamingStrategy{})
	})
	return reportSchema, reportSchemaErr
}

// editableField resolves a column name of ncp_reports that a super edit may touch.
func editableField(column string) (*schema.Field, error) {
	sch, err := getReportSchema()
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse NCP report schema")
	}
	field, ok := sch.FieldsByDBName[column]
	if !ok || lockedColumns[column] {
		return nil, models.NewValidationError("Field %q cannot be edited", column)
	}
	return field, nil
}

// columnValue reads the stored value of field as audit text.
func columnValue(field *schema.Field, rec *dbmodels.NcpReport) string {
	value, _ := field.ValueOf(context.Background(), reflect.ValueOf(rec))
	return stringify(value)
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case models.NcpStatus:
		return string(v)
	case *time.Time:
		if v == nil {
			return ""
		}
		return v.UTC().Format(time.RFC3339)
	case time.Time:
		if v.IsZero() {
			return ""
		}
		return v.UTC().Format(time.RFC3339)
	case decimal.Decimal:
		return v.String()
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// convertValue turns a raw JSON value into what the column stores, plus its audit text.
func convertValue(field *schema.Field, raw any) (dbValue any, text string, err error) {
	rawText := ""
	if raw != nil {
		rawText = strings.TrimSpace(fmt.Sprint(raw))
	}
	switch {
	case field.DBName == "status":
		status := models.NcpStatus(rawText)
		if !status.IsValid() {
			return nil, "", models.NewValidationError("Status %q is unknown", rawText)
		}
		return status, rawText, nil
	case field.FieldType == decimalType:
		value, err := decimal.NewFromString(rawText)
		if err != nil {
			return nil, "", models.NewValidationError("%s must be a number", field.DBName)
		}
		return value, value.String(), nil
	case field.FieldType == timePtrType:
		if rawText == "" {
			return (*time.Time)(nil), "", nil
		}
		value, err := time.Parse(time.RFC3339, rawText)
		if err != nil {
			return nil, "", models.NewValidationError("%s must be an RFC3339 time", field.DBName)
		}
		return &value, stringify(value), nil
	case field.FieldType == timeType:
		value, err := time.Parse(time.RFC3339, rawText)
		if err != nil {
			return nil, "", models.NewValidationError("%s must be an RFC3339 time", field.DBName)
		}
		return value, stringify(value), nil
	case field.FieldType.Kind() == reflect.String:
		return rawText, rawText, nil
	default:
		return nil, "", models.NewValidationError("Field %q cannot be edited", field.DBName)
	}
}
