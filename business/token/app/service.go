package app

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fd1az/superboost/business/token/domain"
	"github.com/fd1az/superboost/internal/apperror"
	"github.com/fd1az/superboost/internal/asset"
	"github.com/fd1az/superboost/internal/cache"
	"github.com/fd1az/superboost/internal/logger"
)

// TokenService resolves TOREX token pairs and reads account balances.
type TokenService struct {
	reader ChainReader
	pairs  *cache.Cache[common.Address, domain.TokenPair]
	logger logger.LoggerInterface
}

// NewTokenService creates a TokenService. Resolved pairs are cached for the
// life of the service.
func NewTokenService(reader ChainReader, log logger.LoggerInterface) *TokenService {
	return &TokenService{
		reader: reader,
		pairs:  cache.New[common.Address, domain.TokenPair](time.Hour),
		logger: log,
	}
}

// ResolveTokenPair reads the in/out tokens of target and the underlying of
// the in-token. Any failure means target is not a usable TOREX.
func (s *TokenService) ResolveTokenPair(ctx context.Context, target common.Address) (domain.TokenPair, error) {
	if pair, ok := s.pairs.Get(ctx, target); ok {
		return pair, nil
	}

	in, out, err := s.reader.PairedTokens(ctx, target)
	if err != nil {
		return domain.TokenPair{}, apperror.New(apperror.CodeResolutionError,
			apperror.WithCause(err),
			apperror.WithContext("getPairedTokens on "+target.Hex()))
	}

	underlying, err := s.reader.UnderlyingToken(ctx, in)
	if err != nil {
		return domain.TokenPair{}, apperror.New(apperror.CodeResolutionError,
			apperror.WithCause(err),
			apperror.WithContext("getUnderlyingToken on "+in.Hex()))
	}

	pair := domain.TokenPair{
		Target:          target,
		InToken:         in,
		OutToken:        out,
		UnderlyingToken: underlying,
	}
	s.pairs.Set(ctx, target, pair, 0)

	s.logger.Info(ctx, "token pair resolved",
		"torex", target.Hex(),
		"in_token", in.Hex(),
		"out_token", out.Hex(),
		"underlying", underlying.Hex(),
	)
	return pair, nil
}

// FetchAccountState reads balance and allowance of underlying for account.
// It never fails: a read error is logged and yields empty strings.
func (s *TokenService) FetchAccountState(ctx context.Context, underlying, account, spender common.Address) domain.AccountTokenState {
	state, err := s.fetchAccountState(ctx, underlying, account, spender)
	if err != nil {
		s.logger.Warn(ctx, "account state unavailable",
			"code", apperror.CodeBalanceFetchError,
			"token", underlying.Hex(),
			"account", account.Hex(),
			"error", err,
		)
		return domain.AccountTokenState{}
	}
	return state
}

func (s *TokenService) fetchAccountState(ctx context.Context, underlying, account, spender common.Address) (domain.AccountTokenState, error) {
	wrap := func(err error, call string) error {
		return apperror.New(apperror.CodeBalanceFetchError,
			apperror.WithCause(err),
			apperror.WithContext(call))
	}

	if asset.IsNative(underlying) {
		bal, err := s.reader.NativeBalance(ctx, account)
		if err != nil {
			return domain.AccountTokenState{}, wrap(err, "eth_getBalance")
		}
		return domain.AccountTokenState{
			Balance:    asset.FormatUnits(bal, asset.ETH.Decimals()),
			BalanceRaw: bal,
			Decimals:   asset.ETH.Decimals(),
		}, nil
	}

	bal, err := s.reader.BalanceOf(ctx, underlying, account)
	if err != nil {
		return domain.AccountTokenState{}, wrap(err, "balanceOf")
	}
	dec, err := s.reader.Decimals(ctx, underlying)
	if err != nil {
		return domain.AccountTokenState{}, wrap(err, "decimals")
	}
	allowance, err := s.reader.Allowance(ctx, underlying, account, spender)
	if err != nil {
		return domain.AccountTokenState{}, wrap(err, "allowance")
	}

	return domain.AccountTokenState{
		Balance:    asset.FormatUnits(bal, dec),
		Allowance:  asset.FormatUnits(allowance, dec),
		BalanceRaw: bal,
		Decimals:   dec,
	}, nil
}

// LoadAccount resolves target and then reads the account state. A
// resolution failure stops before any balance read.
func (s *TokenService) LoadAccount(ctx context.Context, target, account, spender common.Address) (domain.TokenPair, domain.AccountTokenState, error) {
	pair, err := s.ResolveTokenPair(ctx, target)
	if err != nil {
		return domain.TokenPair{}, domain.AccountTokenState{}, err
	}
	if account == (common.Address{}) {
		return pair, domain.AccountTokenState{}, nil
	}
	return pair, s.FetchAccountState(ctx, pair.UnderlyingToken, account, spender), nil
}

// BalanceOrZero is the raw balance, zero when unknown.
func BalanceOrZero(s domain.AccountTokenState) *big.Int {
	if s.BalanceRaw == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(s.BalanceRaw)
}

// Close stops the pair cache janitor.
func (s *TokenService) Close() {
	s.pairs.Close()
}
