package ui

import (
	"errors"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	dashboardDomain "github.com/fd1az/superboost/business/dashboard/domain"
	tokenDomain "github.com/fd1az/superboost/business/token/domain"
)

var torex = common.HexToAddress("0xda09bfa42eb482858f54c92d083e79a44191327b")

func testView() *dashboardDomain.View {
	return &dashboardDomain.View{
		Pair:  tokenDomain.TokenPair{Target: torex, UnderlyingToken: common.HexToAddress("0x0b2C639c533813f4Aa9D7837CAf62653d097Ff85")},
		State: tokenDomain.AccountTokenState{Balance: "250.5"},
		Positions: []dashboardDomain.PositionRow{
			{PoolID: "0xpool", Monthly: "100.0000", Received: "0.010000", ReceivedUSD: "30.00"},
		},
		HasActive: true,
		Boosts:    []dashboardDomain.Boost{{Name: "USDC / ETH", FromToken: "USDC", ToToken: "ETH", Live: true, Torex: torex}},
	}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func keyPress(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_ViewAndCounters(t *testing.T) {
	m := update(t, New(), ViewMsg{View: testView(), CanSign: true})
	m = update(t, m, StreamedMsg{PoolID: "0xpool", Streamed: decimal.RequireFromString("0.25")})

	out := m.View()
	for _, want := range []string{Title, "USDC → ETH", "100.0000", "0.2500000000", "$30.00", "250.5"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModel_DeleteDispatchesSelectedPool(t *testing.T) {
	var (
		mu  sync.Mutex
		got []ActionRequest
		wg  sync.WaitGroup
	)
	wg.Add(1)
	OnAction = func(r ActionRequest) {
		defer wg.Done()
		mu.Lock()
		got = append(got, r)
		mu.Unlock()
	}
	defer func() { OnAction = nil }()

	m := update(t, New(), ViewMsg{View: testView(), CanSign: true})
	update(t, m, keyPress("d"))
	wg.Wait()

	if len(got) != 1 || got[0].Kind != "delete" || got[0].PoolID != "0xpool" {
		t.Errorf("requests = %+v", got)
	}
}

func TestModel_WatchOnlyBlocksActions(t *testing.T) {
	called := false
	OnAction = func(ActionRequest) { called = true }
	defer func() { OnAction = nil }()

	m := update(t, New(), ViewMsg{View: testView(), CanSign: false})
	m = update(t, m, keyPress("r"))

	if m.lastAction != StatusConnectWallet {
		t.Errorf("lastAction = %q", m.lastAction)
	}
	if called {
		t.Errorf("action dispatched without a signer")
	}
}

func TestModel_StartFormProgress(t *testing.T) {
	m := update(t, New(), ViewMsg{View: testView(), CanSign: true})
	m = update(t, m, keyPress("n"))
	if !m.formOpen {
		t.Fatal("form not open")
	}

	m = update(t, m, ActionMsg{Kind: "start", Step: "approving", Status: "Approving 1/2"})
	if !strings.Contains(m.View(), "Approving 1/2") {
		t.Errorf("missing approval label")
	}

	m = update(t, m, ActionMsg{Kind: "start", Step: "failed", Status: "Transaction failed. Please try again.", Err: errors.New("reverted")})
	if m.form.Busy() || len(m.errors) != 1 {
		t.Errorf("busy = %v errors = %v", m.form.Busy(), m.errors)
	}
}
