package repository

import (
	"bytes"
	"strings"
	"testing"
)

func TestDecode_TrimsAndSkips(t *testing.T) {
	input := "{\n" +
		"  \"1234567890123456789_balance\": \"10000.000000\",\n" +
		"\t1234567890123456789_locked :  false\n" +
		"no colon here\n" +
		"  \"1234567890123456789_name\": \"张三\"\n" +
		"}"
	got, err := Decode(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Decode err=%v", err)
	}
	want := map[string]string{
		"1234567890123456789_balance": "10000.000000",
		"1234567890123456789_locked":  "false",
		"1234567890123456789_name":    "张三",
	}
	if len(got) != len(want) {
		t.Fatalf("got %d entries %v, want %d", len(got), got, len(want))
	}
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("%s=%q want %q", k, got[k], v)
		}
	}
}

func TestEncode_Format(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, map[string]string{"b": "2", "a": "1"}); err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"a\": \"1\",\n  \"b\": \"2\"\n}"
	if buf.String() != want {
		t.Fatalf("got %q want %q", buf.String(), want)
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	data := map[string]string{
		PasswordKey("1234567890123456789"):        "$2a$04$abcdefghijklmnopqrstuv",
		BalanceKey("1234567890123456789"):         "8000.00",
		DailyWithdrawalKey("1234567890123456789"): "2000.00",
		LockedKey("1234567890123456789"):          "true",
		IDCardKey("1234567890123456789"):          "11010119900307123X",
		NameKey("1234567890123456789"):            "张三",
	}
	var buf bytes.Buffer
	if err := Encode(&buf, data); err != nil {
		t.Fatal(err)
	}
	got, err := Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(data) {
		t.Fatalf("got %v want %v", got, data)
	}
	for k, v := range data {
		if got[k] != v {
			t.Fatalf("%s=%q want %q", k, got[k], v)
		}
	}
}

func TestEncode_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, nil); err != nil {
		t.Fatal(err)
	}
	got, err := Decode(&buf)
	if err != nil || len(got) != 0 {
		t.Fatalf("got %v err=%v", got, err)
	}
}
