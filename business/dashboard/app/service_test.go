package app_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/fd1az/superboost/business/dashboard/app"
	"github.com/fd1az/superboost/business/dashboard/domain"
	positionDomain "github.com/fd1az/superboost/business/position/domain"
	pricingDomain "github.com/fd1az/superboost/business/pricing/domain"
	tokenDomain "github.com/fd1az/superboost/business/token/domain"
	"github.com/fd1az/superboost/internal/logger"
)

var account = common.HexToAddress("0x1111111111111111111111111111111111111111")

type stubPositions struct {
	snap *positionDomain.Snapshot
	err  error
}

func (s *stubPositions) Account() common.Address { return account }
func (s *stubPositions) Refresh(context.Context) (*positionDomain.Snapshot, error) {
	return s.snap, s.err
}

type stubTokens struct{ err error }

func (s *stubTokens) LoadAccount(context.Context, common.Address, common.Address, common.Address) (tokenDomain.TokenPair, tokenDomain.AccountTokenState, error) {
	return tokenDomain.TokenPair{}, tokenDomain.AccountTokenState{Balance: "12.5"}, s.err
}

type stubPrices struct {
	quote *pricingDomain.Quote
	last  *pricingDomain.Quote
}

func (s *stubPrices) ETHUSD(context.Context) (pricingDomain.Quote, error) {
	if s.quote == nil {
		return pricingDomain.Quote{}, errors.New("price api down")
	}
	return *s.quote, nil
}

func (s *stubPrices) Last() (pricingDomain.Quote, bool) {
	if s.last == nil {
		return pricingDomain.Quote{}, false
	}
	return *s.last, true
}

// snapshot has one pool whose member streams 1e15 wei/s and has received
// 0.5 ETH.
func snapshot() *positionDomain.Snapshot {
	return &positionDomain.Snapshot{
		Account: account,
		Pools: []positionDomain.Pool{{
			ID: "0xpool",
			Members: []positionDomain.PoolMember{{
				ID: "0xmember",
				Account: positionDomain.Account{
					Outflows: []positionDomain.Outflow{{CurrentFlowRate: "1000000000000000", CreatedAtTimestamp: "1700000000"}},
					PoolMemberships: []positionDomain.PoolMembership{{
						PerUnitSettledValue: "500000000000000000",
					}},
				},
			}},
		}},
	}
}

func quote(p int64) *pricingDomain.Quote {
	q := pricingDomain.NewETHUSD(decimal.NewFromInt(p), time.Now(), "stub")
	return &q
}

func newService(pos app.Positions, tok app.Tokens, pr app.Prices) *app.DashboardService {
	return app.NewDashboardService(pos, tok, pr, app.Targets{}, []domain.Boost{{Name: "USDC / ETH", Live: true}},
		logger.New(io.Discard, logger.LevelError, "test", nil))
}

func TestDashboard_Refresh(t *testing.T) {
	svc := newService(&stubPositions{snap: snapshot()}, &stubTokens{}, &stubPrices{quote: quote(3000)})

	v, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if !v.HasActive || len(v.Positions) != 1 {
		t.Fatalf("view = %+v", v)
	}

	row := v.Positions[0]
	if row.Monthly != "2592.0000" {
		t.Errorf("monthly = %s", row.Monthly)
	}
	if row.Received != "0.500000" || row.ReceivedUSD != "1500.00" {
		t.Errorf("received = %s (%s USD)", row.Received, row.ReceivedUSD)
	}
	if v.State.Balance != "12.5" || len(v.Boosts) != 1 || len(v.Warnings) != 0 {
		t.Errorf("view = %+v", v)
	}
}

func TestDashboard_DegradedSources(t *testing.T) {
	svc := newService(&stubPositions{snap: snapshot()}, &stubTokens{err: errors.New("rpc")}, &stubPrices{last: quote(2000)})

	v, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if len(v.Warnings) != 2 {
		t.Errorf("warnings = %v", v.Warnings)
	}
	if v.Positions[0].ReceivedUSD != "1000.00" {
		t.Errorf("usd from last quote = %q", v.Positions[0].ReceivedUSD)
	}
}

func TestDashboard_NoQuoteAtAll(t *testing.T) {
	svc := newService(&stubPositions{snap: snapshot()}, &stubTokens{}, &stubPrices{})

	v, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if v.Quote != nil || v.Positions[0].ReceivedUSD != "" {
		t.Errorf("row = %+v", v.Positions[0])
	}
}

func TestDashboard_IndexerFailureIsFatal(t *testing.T) {
	svc := newService(&stubPositions{err: errors.New("502")}, &stubTokens{}, &stubPrices{quote: quote(1)})

	if _, err := svc.Refresh(context.Background()); err == nil {
		t.Errorf("expected error")
	}
}

func TestDashboard_ComposeUsesGivenSnapshot(t *testing.T) {
	pos := &stubPositions{err: errors.New("must not be called")}
	svc := newService(pos, &stubTokens{}, &stubPrices{quote: quote(2000)})

	v := svc.Compose(context.Background(), snapshot())
	if len(v.Positions) != 1 || v.Positions[0].ReceivedUSD != "1000.00" {
		t.Errorf("view = %+v", v)
	}

	if empty := svc.Compose(context.Background(), nil); empty.HasActive || len(empty.Positions) != 0 {
		t.Errorf("nil snapshot view = %+v", empty)
	}
}
