package main

import (
	"doc-chat/domain"
	"doc-chat/render"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
)

const previewLength = 60

var (
	successStyle = color.New(color.FgGreen, color.OpBold)
	failureStyle = color.New(color.FgRed, color.OpBold)
	fieldStyle   = color.New(color.FgCyan)
	headerStyle  = color.New(color.BgBlack, color.FgGreen)
	userStyle    = color.New(color.FgBlue, color.OpBold)
	botStyle     = color.New(color.FgMagenta, color.OpBold)
)

func printSuccess(out io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintln(out, successStyle.Render("✓ ")+fmt.Sprintf(format, args...))
}

func printFailure(out io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintln(out, failureStyle.Render("✗ ")+fmt.Sprintf(format, args...))
}

func printField(out io.Writer, name, value string) {
	_, _ = fmt.Fprintf(out, "  %s %s\n", fieldStyle.Render(name+":"), value)
}

func printAnswer(out io.Writer, reply domain.Message) {
	_, _ = fmt.Fprintln(out, render.Markdown(reply.Content, render.DefaultStyles()))
	if reply.Model != "" {
		_, _ = fmt.Fprintln(out, headerStyle.Render(" "+reply.Model+" "))
	}
}

func newTable(out io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(out)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)
	return table
}

func printDocuments(out io.Writer, docs []domain.DocumentInfo) {
	if len(docs) == 0 {
		_, _ = fmt.Fprintln(out, "No documents uploaded yet.")
		return
	}
	table := newTable(out, []string{"Document ID", "Filename", "Uploaded", "Size"})
	for _, doc := range docs {
		table.Append([]string{
			doc.ID.String(),
			doc.Filename,
			uploadDate(doc),
			strconv.FormatInt(doc.FileSize, 10),
		})
	}
	table.Render()
	_, _ = fmt.Fprintf(out, "%d document(s)\n", len(docs))
}

func uploadDate(doc domain.DocumentInfo) string {
	if doc.UploadDate.IsZero() {
		return doc.RawUploadDate
	}
	return doc.UploadDate.Local().Format(time.DateTime)
}

func printHits(out io.Writer, hits []domain.SearchHit) {
	if len(hits) == 0 {
		_, _ = fmt.Fprintln(out, "No matching messages.")
		return
	}
	table := newTable(out, []string{"Score", "Document ID", "Role", "Time", "Content"})
	for _, hit := range hits {
		table.Append([]string{
			strconv.FormatFloat(hit.Score, 'f', 2, 64),
			hit.Message.DocumentID.String(),
			string(hit.Message.Role),
			hit.Message.CreatedAt.Local().Format(time.DateTime),
			preview(hit.Message.Content),
		})
	}
	table.Render()
}

func printTranscript(out io.Writer, messages []domain.Message) {
	if len(messages) == 0 {
		_, _ = fmt.Fprintln(out, "No stored messages for this document.")
		return
	}
	for _, msg := range messages {
		style := userStyle
		if msg.Role == domain.RoleAssistant {
			style = botStyle
		}
		_, _ = fmt.Fprintf(out, "%s %s\n%s\n\n",
			style.Render(string(msg.Role)),
			msg.CreatedAt.Local().Format(time.DateTime),
			msg.Content)
	}
}

func preview(content string) string {
	flat := strings.Join(strings.Fields(content), " ")
	runes := []rune(flat)
	if len(runes) <= previewLength {
		return flat
	}
	return string(runes[:previewLength]) + "…"
}
