package pdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"secularai/internal/models"
)

// TranscriptExporter renders a session transcript to PDF.
type TranscriptExporter interface {
	Render(session *models.ChatSession, messages []*models.ChatMessage) ([]byte, error)
}

type transcriptExporter struct{}

func NewTranscriptExporter() TranscriptExporter {
	return &transcriptExporter{}
}

func (e *transcriptExporter) Render(session *models.ChatSession, messages []*models.ChatMessage) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(session.Title, false)
	pdf.SetAuthor("SecularAI", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, session.Title, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	sub := fmt.Sprintf("%s / %s  -  %s", session.ReligionID, session.ScriptureID, session.CreatedAt.Format("02.01.2006"))
	pdf.CellFormat(0, 6, sub, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	for _, m := range messages {
		label := "Guide"
		if m.Role == models.RoleUser {
			label = "You"
		}
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, 6, fmt.Sprintf("%s  (%s)", label, m.CreatedAt.Format("15:04")), "", 1, "L", false, 0, "")

		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 5.5, m.Content, "", "L", false)

		for _, v := range m.Verses {
			pdf.SetFont("Helvetica", "I", 10)
			pdf.MultiCell(0, 5, fmt.Sprintf("%s: %q", v.Reference, v.Text), "", "L", false)
		}
		pdf.Ln(3)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("transcript pdf: %w", err)
	}
	return buf.Bytes(), nil
}
