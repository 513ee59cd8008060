package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"oasis-proxy/internal/config"
	"oasis-proxy/internal/export"
	"oasis-proxy/internal/logging"
	"oasis-proxy/internal/model"
	"oasis-proxy/internal/oasis"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "fetch":
		cmdFetch(os.Args[2:])
	case "parse":
		cmdParse(os.Args[2:])
	case "url":
		cmdURL(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli fetch --param queryname=ENE_SLRS --param market_run_id=RTM --param startdatetime=20210818T07:00-0000 --param enddatetime=20210819T07:00-0000 [--out report.csv]")
	fmt.Println("  cli parse --file report.zip --report ENE_SLRS [--totals] [--out report.csv]")
	fmt.Println("  cli url --param queryname=PRC_LMP --param market_run_id=RTM ...")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - --param may be repeated; order is kept in the upstream query")
	fmt.Println("  - output is JSON on stdout unless --out names a .csv file")
}

// params collects repeated --param key=value flags in order.
type params struct {
	req *model.Request
}

func (p *params) String() string { return "" }

func (p *params) Set(s string) error {
	k, v, ok := strings.Cut(s, "=")
	if !ok || k == "" {
		return fmt.Errorf("expected key=value, got %q", s)
	}
	if p.req == nil {
		p.req = model.NewRequest()
	}
	p.req.Set(k, v)
	return nil
}

func cmdFetch(args []string) {
	fs := flag.NewFlagSet("fetch", flag.ExitOnError)
	var p params
	fs.Var(&p, "param", "Request field as key=value (repeatable)")
	cfgPath := fs.String("config", "", "Path to YAML config (optional)")
	outPath := fs.String("out", "", "Output path (.csv or .json); stdout when empty")
	_ = fs.Parse(args)

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fatal(err)
	}
	logger := logging.New(os.Stderr, false)
	client := cfg.Upstream.NewClient()
	client.Logger = logger
	service := oasis.NewService(cfg.Upstream.BaseURL, client, logger)

	report, err := service.GetReport(context.Background(), p.req)
	if err != nil {
		fatal(err)
	}
	if err := writeReport(*outPath, report); err != nil {
		fatal(err)
	}
}

func cmdParse(args []string) {
	fs := flag.NewFlagSet("parse", flag.ExitOnError)
	filePath := fs.String("file", "", "Path to a zip downloaded from OASIS")
	reportType := fs.String("report", "", "Report type (queryname) of the file")
	totals := fs.Bool("totals", false, "Keep the Caiso_Totals group")
	outPath := fs.String("out", "", "Output path (.csv or .json); stdout when empty")
	_ = fs.Parse(args)

	if *filePath == "" || *reportType == "" {
		fmt.Println("--file and --report are required")
		os.Exit(2)
	}

	raw, err := os.ReadFile(*filePath)
	if err != nil {
		fatal(err)
	}
	archive, err := oasis.OpenArchive(raw)
	if err != nil {
		fatal(err)
	}
	service := oasis.NewService("", nil, logging.New(os.Stderr, false))
	report, err := service.Parse(archive, oasis.ReportType(*reportType), *totals)
	if err != nil {
		fatal(err)
	}
	if err := writeReport(*outPath, report); err != nil {
		fatal(err)
	}
}

func cmdURL(args []string) {
	fs := flag.NewFlagSet("url", flag.ExitOnError)
	var p params
	fs.Var(&p, "param", "Request field as key=value (repeatable)")
	base := fs.String("base", oasis.DefaultBaseURL, "Upstream base URL")
	_ = fs.Parse(args)

	u, err := oasis.BuildURL(*base, p.req)
	if err != nil {
		fatal(err)
	}
	fmt.Println(u)
}

func writeReport(path string, report *model.Report) error {
	if path == "" {
		return encodeReport(os.Stdout, path, report)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encodeReport(f, path, report); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func encodeReport(out io.Writer, path string, report *model.Report) error {
	if strings.HasSuffix(path, ".csv") {
		return export.WriteReportCSV(out, report)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func fatal(err error) {
	slog.Error("command failed", "error", err)
	os.Exit(1)
}
