package leaverequest

import (
	"bytes"
	"fmt"
	"strings"
)

// buildLeaveFormPDF renders the approved/rejected leave form as a
// minimal single-page PDF. The output only needs to open in a viewer
// and print, so the page is assembled by hand instead of pulling in a
// PDF library.
func buildLeaveFormPDF(l *LeaveRequest) ([]byte, error) {
	lines := []string{
		"BUREAU OF FIRE PROTECTION",
		"APPLICATION FOR LEAVE",
		"",
		fmt.Sprintf("Request No.:  %s", l.ID),
		fmt.Sprintf("Personnel:    %s", l.PersonnelID),
		fmt.Sprintf("Leave Type:   %s", l.LeaveType),
		fmt.Sprintf("Period:       %s to %s", l.StartDate.Format("2006-01-02"), l.EndDate.Format("2006-01-02")),
		fmt.Sprintf("Total Days:   %d", l.NumDays),
		fmt.Sprintf("Working Days: %d", l.WorkingDays),
		fmt.Sprintf("Status:       %s", l.Status),
	}
	if l.ApproveFor != nil {
		lines = append(lines,
			fmt.Sprintf("Disposition:  %s", *l.ApproveFor),
			fmt.Sprintf("With Pay:     %s day(s)", l.PaidDays.String()),
			fmt.Sprintf("Without Pay:  %s day(s)", l.UnpaidDays.String()),
		)
	}
	if l.BalanceBefore != nil && l.BalanceAfter != nil {
		lines = append(lines,
			fmt.Sprintf("Credits Before: %s", l.BalanceBefore.String()),
			fmt.Sprintf("Credits After:  %s", l.BalanceAfter.String()),
		)
	}
	if l.RejectionReason != nil {
		lines = append(lines, fmt.Sprintf("Remarks:      %s", *l.RejectionReason))
	}
	if l.DecidedAt != nil {
		lines = append(lines, "", fmt.Sprintf("Decided on %s", l.DecidedAt.Format("2006-01-02 15:04 MST")))
	}

	var content strings.Builder
	content.WriteString("BT\n/F1 12 Tf\n16 TL\n50 790 Td\n")
	for i, line := range lines {
		escaped := pdfEscape(line)
		if i == 0 {
			content.WriteString(fmt.Sprintf("(%s) Tj\n", escaped))
			continue
		}
		content.WriteString(fmt.Sprintf("T* (%s) Tj\n", escaped))
	}
	content.WriteString("ET")

	stream := content.String()
	objects := []string{
		"1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n",
		"2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n",
		"3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>\nendobj\n",
		"4 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Courier >>\nendobj\n",
		fmt.Sprintf("5 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n", len(stream), stream),
	}

	var out bytes.Buffer
	out.WriteString("%PDF-1.4\n")
	offsets := make([]int, 0, len(objects)+1)
	offsets = append(offsets, 0)

	for _, obj := range objects {
		offsets = append(offsets, out.Len())
		out.WriteString(obj)
	}

	xrefStart := out.Len()
	out.WriteString(fmt.Sprintf("xref\n0 %d\n", len(offsets)))
	out.WriteString("0000000000 65535 f \n")
	for i := 1; i < len(offsets); i++ {
		out.WriteString(fmt.Sprintf("%010d 00000 n \n", offsets[i]))
	}
	out.WriteString(fmt.Sprintf("trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF", len(offsets), xrefStart))

	return out.Bytes(), nil
}

func pdfEscape(v string) string {
	replacer := strings.NewReplacer("\\", "\\\\", "(", "\\(", ")", "\\)")
	return replacer.Replace(v)
}
