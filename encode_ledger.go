package fundval

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// The ledger is a JSONL stream: one transaction per line, each line a
// self-identifying object. Only "buy" exists today; the command field keeps
// the format open for redemptions later.
const cmdBuy = "buy"

// buyRecord is the wire form of a Transaction.
type buyRecord struct {
	Command  string          `json:"command"`
	Fund     string          `json:"fund"`
	Time     string          `json:"time"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency,omitempty"`
	Memo     string          `json:"memo,omitempty"`
}

// MarshalJSON implements the json.Marshaler interface with a stable field order.
func (t Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("command", cmdBuy)
	w.Append("fund", t.Fund)
	w.Append("time", t.At.Format(TimeFormat))
	w.Append("amount", t.Amount.value.Round(2))
	w.Optional("currency", t.Amount.cur)
	w.Optional("memo", t.Memo)
	return w.MarshalJSON()
}

// EncodeTransaction writes a single transaction as one JSONL line.
func EncodeTransaction(w io.Writer, tx Transaction) error {
	b, err := json.Marshal(tx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", b)
	return err
}

// EncodeLedger writes the whole ledger in canonical JSONL form.
func EncodeLedger(w io.Writer, l *Ledger) error {
	for _, tx := range l.transactions {
		if err := EncodeTransaction(w, tx); err != nil {
			return err
		}
	}
	return nil
}

// LoadLedger reads the ledger file. A missing file is an empty ledger:
// the tool must run before the first purchase is ever recorded.
func LoadLedger(path string) (*Ledger, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return NewLedger(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read ledger %q: %w", path, err)
	}
	defer f.Close()
	l, err := DecodeLedger(f)
	if err != nil {
		return nil, fmt.Errorf("cannot decode ledger %q: %w", path, err)
	}
	return l, nil
}

// AppendToLedgerFile appends transactions to the ledger file, creating it
// on first use. Existing lines are never rewritten.
func AppendToLedgerFile(path string, txs ...Transaction) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("cannot open ledger %q: %w", path, err)
	}
	defer f.Close()
	for _, tx := range txs {
		if err := EncodeTransaction(f, tx); err != nil {
			return fmt.Errorf("cannot append to ledger %q: %w", path, err)
		}
	}
	return nil
}

// DecodeLedger decodes transactions from a stream of JSONL data, one
// object per line, and returns a chronologically sorted ledger.
func DecodeLedger(r io.Reader) (*Ledger, error) {
	ledger := NewLedger()
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}

		var rec buyRecord
		if err := json.Unmarshal(lineBytes, &rec); err != nil {
			return nil, fmt.Errorf("could not decode ledger line %q: %w", string(lineBytes), err)
		}
		if rec.Command != cmdBuy {
			return nil, fmt.Errorf("unknown ledger command %q in line %q", rec.Command, string(lineBytes))
		}

		at, err := time.Parse(TimeFormat, rec.Time)
		if err != nil {
			return nil, fmt.Errorf("invalid time in ledger line %q: %w", string(lineBytes), err)
		}
		cur := rec.Currency
		if cur == "" {
			cur = DefaultCurrency
		}
		tx := Transaction{
			Fund:   rec.Fund,
			Amount: M(rec.Amount, cur),
			At:     at,
			Memo:   rec.Memo,
		}
		if err := ledger.Append(tx); err != nil {
			return nil, fmt.Errorf("invalid transaction in line %q: %w", string(lineBytes), err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	ledger.stableSort()
	return ledger, nil
}
