package app_test

import (
	"context"
	"errors"
	"io"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fd1az/superboost/business/token/app"
	"github.com/fd1az/superboost/internal/apperror"
	"github.com/fd1az/superboost/internal/logger"
)

var (
	torex   = common.HexToAddress("0xda09bfa42eb482858f54c92d083e79a44191327b")
	usdcx   = common.HexToAddress("0x35Adeb0638EB192755B6E52544650603Fe65A006")
	ethx    = common.HexToAddress("0x4ac8bD1bDaE47beeF2D1c6Aa62229509b962Aa0d")
	usdc    = common.HexToAddress("0x0b2C639c533813f4Aa9D7837CAf62653d097Ff85")
	account = common.HexToAddress("0x1111111111111111111111111111111111111111")
	spender = common.HexToAddress("0xfD01285b9435bc45C243E5e7F978E288B2912de6")
)

type stubReader struct {
	pairCalls  int
	underlying common.Address
	pairErr    error
	balErr     error
	calls      []string
}

func (s *stubReader) PairedTokens(context.Context, common.Address) (common.Address, common.Address, error) {
	s.pairCalls++
	s.calls = append(s.calls, "getPairedTokens")
	return usdcx, ethx, s.pairErr
}

func (s *stubReader) UnderlyingToken(context.Context, common.Address) (common.Address, error) {
	s.calls = append(s.calls, "getUnderlyingToken")
	return s.underlying, nil
}

func (s *stubReader) NativeBalance(context.Context, common.Address) (*big.Int, error) {
	s.calls = append(s.calls, "eth_getBalance")
	if s.balErr != nil {
		return nil, s.balErr
	}
	return new(big.Int).Mul(big.NewInt(15), big.NewInt(1e17)), nil
}

func (s *stubReader) BalanceOf(context.Context, common.Address, common.Address) (*big.Int, error) {
	s.calls = append(s.calls, "balanceOf")
	if s.balErr != nil {
		return nil, s.balErr
	}
	return big.NewInt(12_500_000), nil
}

func (s *stubReader) Allowance(context.Context, common.Address, common.Address, common.Address) (*big.Int, error) {
	s.calls = append(s.calls, "allowance")
	return big.NewInt(0), nil
}

func (s *stubReader) Decimals(context.Context, common.Address) (uint8, error) {
	s.calls = append(s.calls, "decimals")
	return 6, nil
}

func newService(r app.ChainReader) *app.TokenService {
	return app.NewTokenService(r, logger.New(io.Discard, logger.LevelError, "test", nil))
}

func TestResolveTokenPair_CachedPerTarget(t *testing.T) {
	r := &stubReader{underlying: usdc}
	svc := newService(r)
	defer svc.Close()

	for range 2 {
		pair, err := svc.ResolveTokenPair(context.Background(), torex)
		if err != nil {
			t.Fatalf("ResolveTokenPair: %v", err)
		}
		if pair.InToken != usdcx || pair.UnderlyingToken != usdc || pair.IsNativeUnderlying() {
			t.Errorf("pair = %+v", pair)
		}
	}
	if r.pairCalls != 1 {
		t.Errorf("getPairedTokens called %d times, want 1", r.pairCalls)
	}
}

func TestLoadAccount_ResolutionFailureStopsReads(t *testing.T) {
	r := &stubReader{pairErr: errors.New("execution reverted")}
	svc := newService(r)
	defer svc.Close()

	_, state, err := svc.LoadAccount(context.Background(), torex, account, spender)
	if !apperror.HasCode(err, apperror.CodeResolutionError) {
		t.Fatalf("err = %v, want ResolutionError", err)
	}
	if state.Balance != "" || len(r.calls) != 1 {
		t.Errorf("reads after failed resolution: %v", r.calls)
	}
}

func TestFetchAccountState(t *testing.T) {
	tests := []struct {
		name          string
		underlying    common.Address
		balErr        error
		wantBalance   string
		wantAllowance string
	}{
		{"erc20", usdc, nil, "12.5", "0"},
		{"native", common.Address{}, nil, "1.5", ""},
		{"read failure degrades", usdc, errors.New("rpc down"), "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(&stubReader{balErr: tt.balErr})
			defer svc.Close()

			state := svc.FetchAccountState(context.Background(), tt.underlying, account, spender)
			if state.Balance != tt.wantBalance || state.Allowance != tt.wantAllowance {
				t.Errorf("state = %+v", state)
			}
			if (tt.balErr == nil) != state.Known() {
				t.Errorf("Known() = %v", state.Known())
			}
		})
	}
}
