package app

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/chriscorrea/nearest/internal/tfidf"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	warningStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Render formats result in the requested output format. Weights and scores are
// shown with precision decimal places; JSON carries the rounded matrix and raw scores.
func Render(result *Result, format OutputFormat, precision int) (string, error) {
	switch format {
	case Markdown:
		return renderMarkdown(result, precision), nil
	case Text:
		return renderText(result, precision), nil
	case JSON:
		return renderJSON(result, precision)
	default:
		return "", fmt.Errorf("unsupported output format %v", format)
	}
}

// Verdict is the headline used for the best match.
func Verdict(result *Result) string {
	if result.Confident {
		return "Most similar document"
	}
	return "Answer (low confidence)"
}

func formatFloat(v float64, precision int) string {
	return strconv.FormatFloat(v, 'f', precision, 64)
}

// rankingTable returns headers and rows describing every document by rank.
func rankingTable(result *Result, precision int) ([]string, [][]string) {
	headers := []string{"Document", "Similarity", "Words", "Characters", "Stems"}
	if result.BM25 {
		headers = append(headers, "BM25")
	}

	rows := make([][]string, 0, len(result.Ranking))
	for _, d := range result.Ranking {
		row := []string{
			d.Label,
			formatFloat(d.Score, precision),
			strconv.Itoa(d.Words),
			strconv.Itoa(d.Characters),
			strconv.Itoa(d.Stems),
		}
		if result.BM25 {
			row = append(row, formatFloat(d.BM25, precision))
		}
		rows = append(rows, row)
	}
	return headers, rows
}

// matrixTable returns headers and rows for the rounded weight matrix.
func matrixTable(m tfidf.Matrix, precision int) ([]string, [][]string) {
	rounded := m.Round(precision)

	headers := append([]string{""}, rounded.Columns...)
	rows := make([][]string, len(rounded.Rows))
	for i, label := range rounded.Rows {
		row := make([]string, 0, len(rounded.Columns)+1)
		row = append(row, label)
		for _, v := range rounded.Values[i] {
			row = append(row, formatFloat(v, precision))
		}
		rows[i] = row
	}
	return headers, rows
}

func renderMarkdown(result *Result, precision int) string {
	var b strings.Builder

	b.WriteString("## TF-IDF matrix\n\n")
	headers, rows := matrixTable(result.Matrix, precision)
	if len(result.Matrix.Columns) == 0 {
		b.WriteString("_No recognised terms in any document._\n\n")
	} else {
		writeMarkdownTable(&b, headers, rows)
	}

	b.WriteString("## Result\n\n")
	fmt.Fprintf(&b, "**Question:** %s\n\n", result.Question)
	fmt.Fprintf(&b, "**%s (%s):** %s\n\n", Verdict(result), result.Best.Label, result.Best.Text)
	fmt.Fprintf(&b, "**Similarity:** `%s`\n\n", formatFloat(result.Best.Score, precision))

	b.WriteString("## Ranking\n\n")
	headers, rows = rankingTable(result, precision)
	writeMarkdownTable(&b, headers, rows)

	return strings.TrimRight(b.String(), "\n") + "\n"
}

func writeMarkdownTable(b *strings.Builder, headers []string, rows [][]string) {
	escape := func(cells []string) string {
		escaped := make([]string, len(cells))
		for i, c := range cells {
			escaped[i] = strings.ReplaceAll(c, "|", `\|`)
		}
		return "| " + strings.Join(escaped, " | ") + " |\n"
	}

	b.WriteString(escape(headers))
	align := make([]string, len(headers))
	for i := range align {
		if i == 0 {
			align[i] = "---"
		} else {
			align[i] = "---:"
		}
	}
	b.WriteString("| " + strings.Join(align, " | ") + " |\n")
	for _, row := range rows {
		b.WriteString(escape(row))
	}
	b.WriteString("\n")
}

func renderText(result *Result, precision int) string {
	var b strings.Builder

	b.WriteString(headingStyle.Render("TF-IDF matrix") + "\n")
	headers, rows := matrixTable(result.Matrix, precision)
	if len(result.Matrix.Columns) == 0 {
		b.WriteString(mutedStyle.Render("No recognised terms in any document.") + "\n")
	} else {
		b.WriteString(textTable(headers, rows) + "\n")
	}

	b.WriteString("\n" + headingStyle.Render("Result") + "\n")
	fmt.Fprintf(&b, "Question: %s\n", result.Question)

	verdict := successStyle
	if !result.Confident {
		verdict = warningStyle
	}
	fmt.Fprintf(&b, "%s %s\n", verdict.Render(Verdict(result)+" ("+result.Best.Label+"):"), result.Best.Text)
	fmt.Fprintf(&b, "Similarity: %s\n", formatFloat(result.Best.Score, precision))

	b.WriteString("\n" + headingStyle.Render("Ranking") + "\n")
	headers, rows = rankingTable(result, precision)
	b.WriteString(textTable(headers, rows) + "\n")

	return b.String()
}

func textTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(cellStyle).
		String()
}

// cellStyle styles a lipgloss table cell. Row 0 is the header; data rows start at 1.
func cellStyle(row, col int) lipgloss.Style {
	style := lipgloss.NewStyle().Padding(0, 1)
	switch {
	case row == 0:
		return style.Bold(true)
	case col > 0:
		return style.Align(lipgloss.Right)
	default:
		return style
	}
}

// jsonReport is the JSON shape of a Result.
type jsonReport struct {
	Question          string          `json:"question"`
	Matrix            tfidf.Matrix    `json:"matrix"`
	Scores            []float64       `json:"scores"`
	Ranking           []DocumentScore `json:"ranking"`
	BestDocument      string          `json:"best_document"`
	BestDocumentIndex int             `json:"best_document_index"` // 1-based
	SimilarityScore   float64         `json:"similarity_score"`
	Confident         bool            `json:"confident"`
	Threshold         float64         `json:"threshold"`
}

func renderJSON(result *Result, precision int) (string, error) {
	report := jsonReport{
		Question:          result.Question,
		Matrix:            result.Matrix.Round(precision),
		Scores:            result.Scores(),
		Ranking:           result.Ranking,
		BestDocument:      result.Best.Text,
		BestDocumentIndex: result.Best.Position,
		SimilarityScore:   result.Best.Score,
		Confident:         result.Confident,
		Threshold:         result.Threshold,
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode JSON: %w", err)
	}
	return string(data) + "\n", nil
}
