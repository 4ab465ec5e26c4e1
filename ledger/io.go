package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"taxlot/date"
)

var CsvDateFormat string = date.DefaultFormat

type ColParser func(string, *Entry) error

var colParserMap = map[string]ColParser{
	"account":   parseAccount,
	"date":      parseEntryDate,
	"tx id":     parseTxId,
	"commodity": parseCommoditySymbol,
	"kind":      parseCommodityKind,
	"amount":    parseAmount,
	"memo":      parseMemo,
}

var ColNames []string

func init() {
	ColNames = make([]string, 0, len(colParserMap))
	for name := range colParserMap {
		ColNames = append(ColNames, name)
	}
}

func DefaultEntry() *Entry {
	return &Entry{
		Account: "", Commodity: Commodity{Kind: SecurityKind},
		Amount: decimal.Zero, Date: date.Date{}, TxId: "", Memo: "",
	}
}

func CheckEntrySanity(e *Entry) error {
	if e.Account == "" {
		return fmt.Errorf("Entry has no account")
	} else if (e.Date == date.Date{}) {
		return fmt.Errorf("Entry has no date")
	} else if e.TxId == "" {
		return fmt.Errorf("Entry has no transaction id")
	} else if e.Commodity.Symbol == "" {
		return fmt.Errorf("Entry has no commodity")
	}
	return nil
}

// ParseEntryCsv parses ledger entries from r. desc names the source in
// error messages (typically the file name). The first row must be a
// header of recognized column names; unrecognized columns are warned
// about and ignored.
func ParseEntryCsv(r io.Reader, desc string) ([]*Entry, error) {
	csvR := csv.NewReader(r)
	records, err := csvR.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("Failed to parse CSV %s: %v", desc, err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("No rows found in %s", desc)
	}

	header := records[0]
	colParsers := make([]ColParser, len(header))
	for i, col := range header {
		sanCol := strings.TrimSpace(strings.ToLower(col))
		if parser, ok := colParserMap[sanCol]; ok {
			colParsers[i] = parser
		} else {
			fmt.Fprintf(os.Stderr, "Warning: Unrecognized column %s\n", sanCol)
			colParsers[i] = parseNothing
		}
	}

	entries := make([]*Entry, 0, len(records)-1)
	for i, record := range records[1:] {
		entry := DefaultEntry()
		for j, col := range record {
			err = colParsers[j](col, entry)
			if err != nil {
				return nil, fmt.Errorf("Error parsing %s at line:col %d:%d: %v", desc, i+1, j, err)
			}
		}
		err = CheckEntrySanity(entry)
		if err != nil {
			return nil, fmt.Errorf("Error parsing %s at line %d: %v", desc, i+1, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func ParseEntryCsvFile(fname string) ([]*Entry, error) {
	fp, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	return ParseEntryCsv(fp, fname)
}

func parseNothing(data string, e *Entry) error {
	return nil
}

func parseAccount(data string, e *Entry) error {
	e.Account = strings.TrimSpace(data)
	return nil
}

func parseEntryDate(data string, e *Entry) error {
	d, err := date.Parse(CsvDateFormat, strings.TrimSpace(data))
	if err != nil {
		return err
	}
	e.Date = d
	return nil
}

func parseTxId(data string, e *Entry) error {
	e.TxId = strings.TrimSpace(data)
	return nil
}

func parseCommoditySymbol(data string, e *Entry) error {
	e.Commodity.Symbol = strings.TrimSpace(data)
	return nil
}

func parseCommodityKind(data string, e *Entry) error {
	switch strings.TrimSpace(strings.ToLower(data)) {
	case "cash":
		e.Commodity.Kind = CashKind
	case "security":
		e.Commodity.Kind = SecurityKind
	default:
		return fmt.Errorf("Invalid commodity kind: '%s'", data)
	}
	return nil
}

func parseAmount(data string, e *Entry) error {
	amount, err := decimal.NewFromString(strings.TrimSpace(data))
	if err != nil {
		return fmt.Errorf("Error parsing amount: %v", err)
	}
	e.Amount = amount
	return nil
}

func parseMemo(data string, e *Entry) error {
	e.Memo = data
	return nil
}
