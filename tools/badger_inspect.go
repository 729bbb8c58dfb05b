package main

import (
	"doc-chat/internal"
	"doc-chat/repositories"
	"flag"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"
)

func main() {
	historyDir := flag.String("dir", os.Getenv("HISTORY_DIR"), "docchat history directory")
	prefix := flag.String("prefix", internal.DefaultInspectPrefix, "Prefix to scan, e.g. msg:{document_id}:")
	flag.Parse()

	if *historyDir == "" {
		log.Fatal("Missing history directory: pass -dir or set HISTORY_DIR")
	}

	db, err := repositories.OpenStoreReadOnly(*historyDir, logs.GetLoggerFromLevel(slog.LevelWarn))
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	if err := inspect(db, *prefix, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

// inspect prints one row per stored message under prefix.
func inspect(db *badger.DB, prefix string, out io.Writer) error {
	rows, err := internal.ScanRows(db, prefix, internal.MessageMapper)
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Key", "Role", "Time", "Message", "Document", "Content"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	for _, row := range rows {
		table.Append([]string{row.Key, row.Type, row.Timestamp, row.EntityID, row.Namespace, row.Detail})
	}
	table.Render()
	return nil
}
