package progress

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

const dateLayout = "2006-01-02"

// RenderReportPDF writes a one-document summary of the report to w.
func RenderReportPDF(r Report, w io.Writer) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Evaluation progress", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Evaluation progress")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	period := r.Data.Period
	pdf.Cell(0, 7, fmt.Sprintf("Period: %s (%s to %s, %s)", period.Name,
		period.StartDate.Format(dateLayout), period.EndDate.Format(dateLayout), period.Status))
	pdf.Ln(6)
	employee := r.Data.Employee
	pdf.Cell(0, 7, fmt.Sprintf("Employee: %s %s", employee.EmployeeNumber, employee.Name))
	pdf.Ln(6)
	if employee.DepartmentName != "" {
		pdf.Cell(0, 7, "Department: "+employee.DepartmentName)
		pdf.Ln(6)
	}
	if r.Status.IsExcluded {
		pdf.Cell(0, 7, "Excluded from evaluation")
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Stages")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	criteria := r.Status.WbsCriteria
	stageRow(pdf, "WBS criteria", criteria.Status, criteria.WbsWithCriteriaCount, criteria.TotalWbsCount)
	sum := r.Status.Summary
	for _, stage := range []struct {
		label string
		s     StageSummary
	}{
		{"Self evaluation to evaluator", sum.SelfToEvaluator},
		{"Self evaluation to manager", sum.SelfToManager},
		{"Primary downward evaluation", sum.DownwardPrimary},
		{"Secondary downward evaluation", sum.DownwardSecondary},
		{"Peer evaluation", sum.Peer},
		{"Final evaluation", sum.Final},
	} {
		stageRow(pdf, stage.label, stage.s.Status, stage.s.Completed, stage.s.Total)
	}
	pdf.Ln(4)

	for _, p := range r.Data.Projects {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, fmt.Sprintf("Project %s %s", p.ProjectCode, p.ProjectName))
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 10)
		for _, w := range p.WbsList {
			self := "not started"
			if w.SelfEvaluation != nil {
				switch {
				case w.SelfEvaluation.SubmittedToManager:
					self = "submitted to manager"
				case w.SelfEvaluation.SubmittedToEvaluator:
					self = "submitted to evaluator"
				default:
					self = "draft"
				}
			}
			pdf.Cell(0, 6, fmt.Sprintf("%s %s: %d criteria, self %s, primary %s, secondary %s, %d deliverables",
				w.WbsCode, w.Title, len(w.Criteria), self,
				doneLabel(w.PrimaryDownward.IsCompleted), doneLabel(w.SecondaryDownward.IsCompleted), len(w.Deliverables)))
			pdf.Ln(6)
		}
		pdf.Ln(2)
	}

	return pdf.Output(w)
}

func stageRow(pdf *gofpdf.Fpdf, label, status string, completed, total int) {
	pdf.CellFormat(80, 6, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(30, 6, status, "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("%d / %d", completed, total), "", 1, "L", false, 0, "")
}

func doneLabel(done bool) string {
	if done {
		return "done"
	}
	return "open"
}
