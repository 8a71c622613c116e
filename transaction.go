package fundval

import (
	"errors"
	"slices"
	"sort"
	"time"
)

// TimeFormat is the format purchase timestamps are persisted in.
const TimeFormat = time.RFC3339

// Transaction is the immutable record of one fund purchase. It is created
// once at import time and never mutated afterwards.
type Transaction struct {
	Fund   string    // fund code, e.g. "017641"
	Amount Money     // amount paid, always positive
	At     time.Time // order timestamp, local market time
	Memo   string    // optional free-text note
}

// Date returns the calendar date the order was placed on.
func (t Transaction) Date() Date { return DateOf(t.At) }

// Equal reports whether two transactions are the same record.
func (t Transaction) Equal(o Transaction) bool {
	return t.Fund == o.Fund && t.Amount.Equal(o.Amount) && t.At.Equal(o.At) && t.Memo == o.Memo
}

// Validate checks the transaction invariants before it enters the ledger.
func (t Transaction) Validate() error {
	if t.Fund == "" {
		return errors.New("fund code is missing")
	}
	if !t.Amount.IsPositive() {
		return errors.New("purchase amount must be positive")
	}
	if t.At.IsZero() {
		return errors.New("purchase timestamp is missing")
	}
	return nil
}

// NewBuy creates a purchase transaction.
func NewBuy(fund string, amount float64, at time.Time, memo string) Transaction {
	return Transaction{Fund: fund, Amount: CNY(amount), At: at, Memo: memo}
}

// Ledger is the append-only list of purchase transactions, the whole
// recorded portfolio. Within one fund, insertion order is purchase order;
// duplicate timestamps are allowed (two orders the same minute happen).
type Ledger struct {
	transactions []Transaction
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger { return &Ledger{} }

// Append validates and adds transactions to the ledger.
func (l *Ledger) Append(txs ...Transaction) error {
	for _, tx := range txs {
		if err := tx.Validate(); err != nil {
			return err
		}
		l.transactions = append(l.transactions, tx)
	}
	return nil
}

// Len returns the number of transactions in the ledger.
func (l *Ledger) Len() int { return len(l.transactions) }

// Transactions returns all transactions in ledger order.
func (l *Ledger) Transactions() []Transaction { return slices.Clone(l.transactions) }

// Of returns the transactions of one fund, in purchase order.
func (l *Ledger) Of(fund string) []Transaction {
	var txs []Transaction
	for _, tx := range l.transactions {
		if tx.Fund == fund {
			txs = append(txs, tx)
		}
	}
	return txs
}

// Funds returns the distinct fund codes present in the ledger, sorted,
// so every iteration over the portfolio is deterministic.
func (l *Ledger) Funds() []string {
	seen := make(map[string]struct{})
	var funds []string
	for _, tx := range l.transactions {
		if _, ok := seen[tx.Fund]; !ok {
			seen[tx.Fund] = struct{}{}
			funds = append(funds, tx.Fund)
		}
	}
	sort.Strings(funds)
	return funds
}

// Invested returns the total amount paid into one fund.
func (l *Ledger) Invested(fund string) Money {
	total := CNY(0)
	for _, tx := range l.transactions {
		if tx.Fund == fund {
			total = total.Add(tx.Amount)
		}
	}
	return total
}

// Contains reports whether an identical transaction is already recorded.
// Bill imports are re-runnable; this is what keeps them idempotent.
func (l *Ledger) Contains(tx Transaction) bool {
	for _, t := range l.transactions {
		if t.Equal(tx) {
			return true
		}
	}
	return false
}

// stableSort orders transactions chronologically, preserving insertion
// order among equal timestamps.
func (l *Ledger) stableSort() {
	sort.SliceStable(l.transactions, func(i, j int) bool {
		return l.transactions[i].At.Before(l.transactions[j].At)
	})
}
