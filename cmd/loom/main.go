package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"loom/internal/cli"
	"loom/internal/logging"
	"loom/parser"
	"loom/parser/xmlcsv"
	"loom/parser/zipfile"
)

func main() {
	logging.InitFromEnv()

	parser.Register("xml_to_csv_parser", "XmlToCsvParser", xmlcsv.New)
	parser.Register("zip_file_parser", "ZipFileParser", zipfile.New)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCommand()
	if err := root.ExecuteContext(ctx); err != nil {
		logging.L().Error("loom", "err", err)
		os.Exit(1)
	}
}
