package app

import (
	"fmt"
	"io"
	"sort"

	"taxlot/app/outfmt"
	"taxlot/basis"
	"taxlot/date"
	"taxlot/ledger"
	"taxlot/log"
	"taxlot/util"
)

type DescribedReader struct {
	Desc   string
	Reader io.Reader
}

type Options struct {
	Window                 date.Range
	RenderFullDollarValues bool
}

// RunTaxlotApp loads CSV ledger entries, scans each configured account
// group for disposals in the window, and renders the per-security
// disposal tables, the aggregate gains table, and the diagnostic tree.
// A scan with errored disposals still renders everything; the returned
// error then reflects the overall failure.
func RunTaxlotApp(
	csvFileReaders []DescribedReader,
	cfg *Config,
	options Options,
	writer outfmt.LotWriter,
	diagWriter io.Writer,
	errPrinter log.ErrorPrinter) (retErr error) {

	allEntries := make([]*ledger.Entry, 0, 20)
	for _, csvReader := range csvFileReaders {
		entries, err := ledger.ParseEntryCsv(csvReader.Reader, csvReader.Desc)
		if err != nil {
			errPrinter.Ln("Error:", err)
			retErr = err
			return
		}
		allEntries = append(allEntries, entries...)
	}

	ldgr := ledger.NewLedger(cfg.LocalCurrency)
	ldgr.AddEntries(allEntries)

	allDisposals := make([]*basis.Disposal, 0, 8)
	diags := make([]*basis.ScanResult, 0, 2)
	for _, group := range cfg.groupsForLedger(allEntries) {
		accounts := util.NewSet(group.Accounts...)
		res := basis.ScanDisposals(ldgr, accounts, options.Window)
		allDisposals = append(allDisposals, res.Disposals...)
		diags = append(diags, res)
	}

	disposalsBySec := basis.SplitDisposalsBySecurity(allDisposals)
	secGains := make(map[string]*basis.CumulativeGains)
	for sec, secDisposals := range disposalsBySec {
		secGains[sec] = basis.CalcSecurityCumulativeGains(secDisposals)
	}

	secs := util.MapKeys(disposalsBySec)
	sort.Strings(secs)
	for _, sec := range secs {
		tableModel := basis.RenderDisposalTableModel(
			disposalsBySec[sec], secGains[sec], options.RenderFullDollarValues)
		if err := writer.PrintRenderTable(outfmt.Disposals, sec, tableModel); err != nil {
			return err
		}
	}

	aggGains := basis.CalcCumulativeGains(secGains)
	aggModel := basis.RenderAggregateGains(aggGains, options.RenderFullDollarValues)
	if err := writer.PrintRenderTable(outfmt.AggregateGains, "", aggModel); err != nil {
		return err
	}

	for _, res := range diags {
		res.Diags.Render(diagWriter)
		if res.Diags.HasErrors() && retErr == nil {
			retErr = fmt.Errorf("some disposals could not be processed; see diagnostics")
		}
	}
	return
}
