package services

import (
	"bytes"
	"fmt"
	"strings"

	"dealer-console/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/xuri/excelize/v2"
)

const userSheet = "Users"

var userExportHeaders = []string{"User ID", "Username", "Full name", "Email", "Phone", "Role", "Status", "Dealer ID"}

// Columns an import workbook must carry, matched case-insensitively against
// the header row.
var userImportColumns = []string{"username", "full name", "email", "role"}

var cellValidator = validator.New()

// ValidateUserWorkbook checks an import file before it is uploaded. Row
// numbers in field names are 1-based as shown in a spreadsheet.
func ValidateUserWorkbook(content []byte) error {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return domain.ValidationError{Field: "file", Message: "not a readable xlsx workbook"}
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return domain.ValidationError{Field: "file", Message: "first sheet cannot be read"}
	}
	if len(rows) < 2 {
		return domain.ValidationError{Field: "file", Message: "workbook has no user rows"}
	}

	index := map[string]int{}
	for i, h := range rows[0] {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	var errs domain.ValidationErrors
	for _, col := range userImportColumns {
		if _, ok := index[col]; !ok {
			errs = append(errs, domain.ValidationError{Field: "header", Message: fmt.Sprintf("missing column %q", col)})
		}
	}
	if len(errs) > 0 {
		return errs
	}

	cell := func(row []string, col string) string {
		i := index[col]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	for n, row := range rows[1:] {
		field := fmt.Sprintf("row %d", n+2)
		if strings.TrimSpace(strings.Join(row, "")) == "" {
			continue
		}
		if cell(row, "username") == "" {
			errs = append(errs, domain.ValidationError{Field: field, Message: "username is required"})
		}
		if email := cell(row, "email"); cellValidator.Var(email, "required,email") != nil {
			errs = append(errs, domain.ValidationError{Field: field, Message: fmt.Sprintf("invalid email %q", email)})
		}
		switch domain.Role(strings.ToUpper(cell(row, "role"))) {
		case domain.RoleAdmin, domain.RoleEVMStaff, domain.RoleDealerManager, domain.RoleDealerStaff:
		default:
			errs = append(errs, domain.ValidationError{Field: field, Message: fmt.Sprintf("unknown role %q", cell(row, "role"))})
		}
	}
	return errs.OrNil()
}

// BuildUserWorkbook renders users into an xlsx file.
func BuildUserWorkbook(users []domain.User) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", userSheet); err != nil {
		return nil, err
	}

	bold, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
	})
	for i, h := range userExportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetCellValue(userSheet, col+"1", h)
		f.SetCellStyle(userSheet, col+"1", col+"1", bold)
	}

	for i, u := range users {
		row := []any{u.UserID, u.Username, u.FullName, u.Email, u.Phone, string(u.Role), string(u.Status), u.DealerID}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(userSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	widths := []float64{10, 18, 24, 30, 16, 18, 12, 10}
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(userSheet, col, col, w)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
