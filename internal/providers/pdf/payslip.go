package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"

	payrolldomain "github.com/rivierasoft/monapaie/internal/payroll/domain"
	ratescheduledomain "github.com/rivierasoft/monapaie/internal/rateschedule/domain"
)

type PayslipData struct {
	CompanyName string
	Period      string

	EmployeeName string
	Matricule    string
	Residency    string

	Gross string

	Lines []ChargeLine

	TotalSalarial string
	TotalPatronal string

	TicketSalarial string
	TicketPatronal string

	Withholding string

	Net          string
	EmployerCost string

	Issues []string
}

// ChargeLine is one printed contribution rubric. Empty amounts mean the
// side does not contribute under this code.
type ChargeLine struct {
	Code           string
	SalarialRate   string
	SalarialAmount string
	PatronalRate   string
	PatronalAmount string
}

// BuildPayslipData flattens a computed payslip into printable strings.
// Schedule codes keep the schedule order; overlay codes added by the
// cross-border adjuster follow, sorted.
func BuildPayslipData(companyName string, year, month int, input payrolldomain.EmployeeInput, slip payrolldomain.Payslip, schedule ratescheduledomain.RateSchedule) PayslipData {
	data := PayslipData{
		CompanyName:  companyName,
		Period:       fmt.Sprintf("%04d-%02d", year, month),
		EmployeeName: fmt.Sprintf("%s %s", input.FirstName, input.LastName),
		Matricule:    input.Matricule,
		Residency:    input.ResidencyCountry,

		Gross:          formatEuros(slip.GrossCents),
		TotalSalarial:  formatEuros(slip.TotalSalarialCents),
		TotalPatronal:  formatEuros(slip.TotalPatronalCents),
		TicketSalarial: formatEuros(slip.TicketSalarialCents),
		TicketPatronal: formatEuros(slip.TicketPatronalCents),
		Withholding:    formatEuros(slip.WithholdingCents),
		Net:            formatEuros(slip.NetCents),
		EmployerCost:   formatEuros(slip.EmployerCostCents),
		Issues:         slip.Issues,
	}

	seen := make(map[string]bool)
	for _, line := range schedule.Lines {
		seen[line.Code] = true
		printed := ChargeLine{Code: line.Code}
		if line.SalarialRate != 0 {
			printed.SalarialRate = formatRate(line.SalarialRate)
			printed.SalarialAmount = formatEuros(slip.SalarialByCode[line.Code])
		}
		if line.PatronalRate != 0 {
			printed.PatronalRate = formatRate(line.PatronalRate)
			printed.PatronalAmount = formatEuros(slip.PatronalByCode[line.Code])
		}
		data.Lines = append(data.Lines, printed)
	}

	extras := make([]string, 0)
	for code := range slip.SalarialByCode {
		if !seen[code] {
			extras = append(extras, code)
		}
	}
	sort.Strings(extras)
	for _, code := range extras {
		data.Lines = append(data.Lines, ChargeLine{
			Code:           code,
			SalarialAmount: formatEuros(slip.SalarialByCode[code]),
		})
	}

	return data
}

type PDFProvider struct{}

func New() Provider {
	return &PDFProvider{}
}

func (p *PDFProvider) GeneratePayslip(ctx context.Context, data PayslipData) (io.Reader, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(10,
		text.NewCol(12, "Bulletin de paie", props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	m.AddRow(20,
		col.New(6).Add(
			text.New(data.CompanyName, props.Text{Style: fontstyle.Bold}),
			text.New("Period: "+data.Period, props.Text{Top: 5}),
		),
		col.New(6).Add(
			text.New(data.EmployeeName, props.Text{Style: fontstyle.Bold}),
			text.New("Matricule: "+data.Matricule, props.Text{Top: 5}),
			text.New("Residency: "+data.Residency, props.Text{Top: 9}),
		),
	)

	m.AddRow(10,
		text.NewCol(8, "Gross pay", props.Text{Size: 10, Style: fontstyle.Bold}),
		text.NewCol(4, data.Gross, props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}),
	)

	// Table header
	m.AddRow(10,
		text.NewCol(4, "Contribution", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Rate (emp.)", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Employee", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Rate (empr.)", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Employer", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	for _, line := range data.Lines {
		m.AddRow(8,
			text.NewCol(4, line.Code, props.Text{Size: 9}),
			text.NewCol(2, line.SalarialRate, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, line.SalarialAmount, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, line.PatronalRate, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, line.PatronalAmount, props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(10,
		col.New(6),
		text.NewCol(3, "Total charges", props.Text{Size: 9, Style: fontstyle.Bold}),
		text.NewCol(3, data.TotalSalarial+" / "+data.TotalPatronal, props.Text{Size: 9, Align: align.Right}),
	)

	if data.TicketSalarial != "0.00" || data.TicketPatronal != "0.00" {
		m.AddRow(8,
			col.New(6),
			text.NewCol(3, "Tickets restaurant", props.Text{Size: 9}),
			text.NewCol(3, data.TicketSalarial+" / "+data.TicketPatronal, props.Text{Size: 9, Align: align.Right}),
		)
	}

	if data.Withholding != "0.00" {
		m.AddRow(8,
			col.New(6),
			text.NewCol(3, "Source withholding", props.Text{Size: 9}),
			text.NewCol(3, data.Withholding, props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(12,
		col.New(6),
		text.NewCol(3, "Net pay", props.Text{Size: 11, Style: fontstyle.Bold}),
		text.NewCol(3, data.Net, props.Text{Size: 11, Style: fontstyle.Bold, Align: align.Right}),
	)
	m.AddRow(8,
		col.New(6),
		text.NewCol(3, "Employer cost", props.Text{Size: 9}),
		text.NewCol(3, data.EmployerCost, props.Text{Size: 9, Align: align.Right}),
	)

	if len(data.Issues) > 0 {
		m.AddRow(8,
			text.NewCol(12, "For review:", props.Text{Size: 9, Style: fontstyle.Bold}),
		)
		for _, issue := range data.Issues {
			m.AddRow(6,
				text.NewCol(12, "- "+issue, props.Text{Size: 8}),
			)
		}
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(doc.GetBytes()), nil
}

func formatEuros(cents int64) string {
	return fmt.Sprintf("%.2f", float64(cents)/100)
}

func formatRate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', -1, 64) + "%"
}
