package fundval

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/phuslu/log"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

// Alipay bill export parsing. The export is a GB18030-encoded CSV with a
// free-form preamble before the real header row; fund purchases are the
// wealth-management rows whose product description carries the fund name
// and the operation.

const (
	billCategoryWealth = "投资理财" // the wealth management category
	billProductPrefix  = "蚂蚁财富-"
	billOpBuy          = "买入"
	billOpRecurring    = "定投"
)

// billTimeFormats are the timestamp layouts seen in bill exports.
var billTimeFormats = []string{"2006-01-02 15:04:05", "2006/01/02 15:04"}

// SkippedRow records a wealth-management bill row that was not imported.
type SkippedRow struct {
	Line   int
	Reason string
	Raw    string
}

// ImportResult is the outcome of parsing one bill export.
type ImportResult struct {
	Transactions []Transaction
	Skipped      []SkippedRow
}

// ImportAlipayBill parses an Alipay bill export and extracts fund purchase
// transactions. The aliases map translates the bill's fund display name to
// the fund code used everywhere else; wealth-management rows with no alias
// are reported as skipped, never dropped silently.
//
// The reader must provide the raw export bytes; decoding from GB18030
// happens here.
func ImportAlipayBill(r io.Reader, aliases map[string]string) (*ImportResult, error) {
	cr := csv.NewReader(transform.NewReader(r, simplifiedchinese.GB18030.NewDecoder()))
	cr.FieldsPerRecord = -1 // the preamble has no fixed shape

	res := &ImportResult{}
	var cols map[string]int
	line := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("cannot read bill: %w", err)
		}
		line++

		if cols == nil {
			cols = headerColumns(record)
			continue
		}

		get := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		if get("交易分类") != billCategoryWealth {
			continue
		}

		raw := strings.Join(record, ",")
		tx, reason := parseBillRow(get, aliases)
		if reason != "" {
			res.Skipped = append(res.Skipped, SkippedRow{Line: line, Reason: reason, Raw: raw})
			continue
		}
		res.Transactions = append(res.Transactions, tx)
	}
	if cols == nil {
		return nil, fmt.Errorf("not an alipay bill export: no header row found")
	}
	log.Info().Int("transactions", len(res.Transactions)).Int("skipped", len(res.Skipped)).Msg("bill parsed")
	return res, nil
}

// headerColumns recognizes the header row of the export and maps column
// names to their index. It returns nil for preamble rows.
func headerColumns(record []string) map[string]int {
	cols := make(map[string]int, len(record))
	for i, name := range record {
		cols[strings.TrimSpace(name)] = i
	}
	if _, ok := cols["交易时间"]; !ok {
		return nil
	}
	return cols
}

// parseBillRow turns one wealth-management row into a transaction, or
// explains why it cannot.
func parseBillRow(get func(string) string, aliases map[string]string) (Transaction, string) {
	desc := get("商品说明")
	if desc == "" {
		desc = get("商品名称")
	}
	name, op, ok := splitProduct(desc)
	if !ok {
		return Transaction{}, fmt.Sprintf("unrecognized product %q", desc)
	}
	if op != billOpBuy && op != billOpRecurring {
		return Transaction{}, fmt.Sprintf("not a purchase: %q", op)
	}

	code, ok := aliases[name]
	if !ok {
		return Transaction{}, fmt.Sprintf("no fund code alias for %q", name)
	}

	at, err := parseBillTime(get("交易时间"))
	if err != nil {
		return Transaction{}, err.Error()
	}

	amount, err := parseBillAmount(get("金额"))
	if err != nil {
		return Transaction{}, err.Error()
	}

	tx := NewBuy(code, amount, at, desc)
	if err := tx.Validate(); err != nil {
		return Transaction{}, err.Error()
	}
	return tx, ""
}

// splitProduct decomposes "蚂蚁财富-<fund name>-<operation>". Fund names can
// themselves contain dashes, so only the last one separates the operation.
func splitProduct(desc string) (name, op string, ok bool) {
	rest, found := strings.CutPrefix(desc, billProductPrefix)
	if !found {
		return "", "", false
	}
	i := strings.LastIndex(rest, "-")
	if i <= 0 {
		return "", "", false
	}
	return rest[:i], rest[i+1:], true
}

func parseBillTime(s string) (time.Time, error) {
	for _, layout := range billTimeFormats {
		if at, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return at, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized transaction time %q", s)
}

func parseBillAmount(s string) (float64, error) {
	s = strings.TrimPrefix(s, "¥")
	s = strings.ReplaceAll(s, ",", "")
	amount, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("unrecognized amount %q", s)
	}
	return amount, nil
}
