package core

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDateComparisons(t *testing.T) {
	asOf := time.Date(2024, 3, 15, 18, 45, 0, 0, time.UTC)
	cases := []struct {
		d                Date
		day, month, year bool
	}{
		{NewDate(2024, 3, 15), true, true, true},
		{NewDate(2024, 3, 1), false, true, true},
		{NewDate(2024, 1, 15), false, false, true},
		{NewDate(2023, 3, 15), false, false, false},
		{Date{}, false, false, false},
	}
	for i, tc := range cases {
		if got := tc.d.SameDay(asOf); got != tc.day {
			t.Errorf("case %d SameDay = %v, want %v", i, got, tc.day)
		}
		if got := tc.d.SameMonth(asOf); got != tc.month {
			t.Errorf("case %d SameMonth = %v, want %v", i, got, tc.month)
		}
		if got := tc.d.SameYear(asOf); got != tc.year {
			t.Errorf("case %d SameYear = %v, want %v", i, got, tc.year)
		}
	}
}

func TestDateUnmarshalJSON(t *testing.T) {
	cases := []struct {
		in    string
		known bool
		year  int
	}{
		{`"2024-03-15"`, true, 2024},
		{`"2024-03-15T10:30:00Z"`, true, 2024},
		{`"2024-03-15T10:30:00"`, true, 2024},
		{`null`, false, 0},
		{`""`, false, 0},
		{`"not-a-date"`, false, 0},
	}
	for _, tc := range cases {
		var d Date
		if err := json.Unmarshal([]byte(tc.in), &d); err != nil {
			t.Fatalf("%s: unexpected error %v", tc.in, err)
		}
		if d.Known() != tc.known {
			t.Errorf("%s: Known = %v, want %v", tc.in, d.Known(), tc.known)
		}
		if tc.known && d.Year() != tc.year {
			t.Errorf("%s: year = %d, want %d", tc.in, d.Year(), tc.year)
		}
	}
}

func TestDateMarshalJSON(t *testing.T) {
	b, err := json.Marshal(NewDate(2024, 3, 5))
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `"2024-03-05"` {
		t.Fatalf("marshal = %s, want \"2024-03-05\"", b)
	}

	b, err = json.Marshal(Date{})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "null" {
		t.Fatalf("zero date marshal = %s, want null", b)
	}
}

func TestTransactionDecodeLenient(t *testing.T) {
	// Missing amount decodes to 0, bad date to unknown; the record itself
	// still decodes.
	raw := `{"id":"t1","type":"EXPENSE","category":"Food","date":"garbage","paymentMethod":"CASH"}`
	var tx Transaction
	if err := json.Unmarshal([]byte(raw), &tx); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if tx.Amount != 0 {
		t.Errorf("Amount = %v, want 0", tx.Amount)
	}
	if tx.Date.Known() {
		t.Error("expected unknown date")
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Type: Expense, PaymentMethod: Cash, Amount: 10,
		Category: "Food", Date: NewDate(2024, 1, 1),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name string
		mut  func(*Transaction)
		want error
	}{
		{"bad type", func(tx *Transaction) { tx.Type = "TRANSFER" }, ErrInvalidType},
		{"bad method", func(tx *Transaction) { tx.PaymentMethod = "VENMO" }, ErrInvalidMethod},
		{"negative amount", func(tx *Transaction) { tx.Amount = -1 }, ErrNegativeAmount},
		{"blank category", func(tx *Transaction) { tx.Category = "  " }, ErrEmptyCategory},
		{"zero date", func(tx *Transaction) { tx.Date = Date{} }, ErrMissingDate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx := good
			tc.mut(&tx)
			if err := tx.Validate(); err != tc.want {
				t.Fatalf("Validate = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestUserValidate(t *testing.T) {
	if err := (User{Name: "Alice"}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (User{Name: " "}).Validate(); err != ErrEmptyName {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
}
