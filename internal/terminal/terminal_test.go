package terminal

import (
	"atm-simulator/internal/repository"
	"atm-simulator/internal/services"
	"atm-simulator/internal/session"
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func newTestTerminal(t *testing.T, script string) (*Terminal, *bytes.Buffer, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.json")
	store := repository.NewStore(repository.NewFileBackend(path))
	ledger := services.NewLedger(store, services.NewAuthService(bcrypt.MinCost))
	out := &bytes.Buffer{}
	return New(session.NewController(ledger, nil), strings.NewReader(script), out), out, path
}

func TestTerminal_RegisterWithdrawExit(t *testing.T) {
	script := strings.Join([]string{
		"2", // open a new account
		"1", // register
		"1234567890123456789",
		"111111",
		"11010119900307123X",
		"张三",
		"2", // withdraw
		"1",
		"2000",
		"2", // back
		"6", // exit
	}, "\n") + "\n"

	term, out, path := newTestTerminal(t, script)
	if err := term.Run(context.Background(), session.New()); err != nil {
		t.Fatalf("Run err=%v", err)
	}

	text := out.String()
	for _, want := range []string{
		"Account registered! Initial balance: 10000",
		"Withdrawal successful: 2000",
		"Remaining today: 3000",
		"Goodbye",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("output missing %q:\n%s", want, text)
		}
	}

	store := repository.NewStore(repository.NewFileBackend(path))
	if err := store.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := store.Get(repository.BalanceKey("1234567890123456789")); got != "8000.00" {
		t.Fatalf("balance=%q", got)
	}
}

func TestTerminal_InvalidChoiceAndEOF(t *testing.T) {
	term, out, _ := newTestTerminal(t, "9\nabc\n")
	if err := term.Run(context.Background(), session.New()); err != nil {
		t.Fatalf("Run err=%v", err)
	}
	if !strings.Contains(out.String(), "Enter a number between 1 and 3") {
		t.Fatalf("output:\n%s", out.String())
	}
}

func TestTerminal_CanceledContext(t *testing.T) {
	term, _, _ := newTestTerminal(t, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := term.Run(ctx, session.New()); err != nil {
		t.Fatalf("Run err=%v", err)
	}
}

type failingBackend struct{}

func (failingBackend) Name() string { return "broken" }
func (failingBackend) Load(context.Context) (map[string]string, error) {
	return map[string]string{}, nil
}
func (failingBackend) Save(context.Context, map[string]string) error {
	return errors.New("read-only filesystem")
}

func TestTerminal_FatalPersistError(t *testing.T) {
	store := repository.NewStore(failingBackend{})
	ledger := services.NewLedger(store, services.NewAuthService(bcrypt.MinCost))
	script := "2\n1\n1234567890123456789\n111111\n11010119900307123X\n张三\n"
	out := &bytes.Buffer{}
	term := New(session.NewController(ledger, nil), strings.NewReader(script), out)

	err := term.Run(context.Background(), session.New())
	if !errors.Is(err, repository.ErrPersist) {
		t.Fatalf("err=%v", err)
	}
	if !strings.Contains(out.String(), "FATAL") {
		t.Fatalf("output:\n%s", out.String())
	}
}

func TestStartupStatus(t *testing.T) {
	if !strings.Contains(StartupStatus(true), "not found") || StartupStatus(false) != "WELCOME!" {
		t.Fatal("unexpected startup status")
	}
}
