// Package ethereum implements the token read port over JSON-RPC.
package ethereum

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/superboost/business/token/app"
	"github.com/fd1az/superboost/internal/apperror"
	"github.com/fd1az/superboost/internal/circuitbreaker"
	"github.com/fd1az/superboost/internal/logger"
)

const (
	tracerName = "github.com/fd1az/superboost/business/token/infra/ethereum"
	meterName  = "github.com/fd1az/superboost/business/token/infra/ethereum"
)

var _ app.ChainReader = (*Reader)(nil)

// Caller is the subset of ethclient the reader uses.
type Caller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
}

type readerMetrics struct {
	calls   metric.Int64Counter
	errors  metric.Int64Counter
	latency metric.Float64Histogram
}

// Reader issues read-only contract calls against the latest block.
type Reader struct {
	client      Caller
	callTimeout time.Duration

	torexABI      abi.ABI
	superTokenABI abi.ABI
	erc20ABI      abi.ABI

	logger logger.LoggerInterface
	cb     *circuitbreaker.CircuitBreaker[[]byte]

	tracer  trace.Tracer
	metrics *readerMetrics
}

// NewReader parses the ABIs and wires the breaker. callTimeout bounds each
// call; zero leaves the caller's deadline alone.
func NewReader(client Caller, callTimeout time.Duration, log logger.LoggerInterface) (*Reader, error) {
	r := &Reader{
		client:      client,
		callTimeout: callTimeout,
		logger:      log,
		cb:          circuitbreaker.New[[]byte](circuitbreaker.DefaultConfig("token-reader")),
		tracer:      otel.Tracer(tracerName),
	}

	for _, def := range []struct {
		dst *abi.ABI
		src string
	}{
		{&r.torexABI, TorexABI},
		{&r.superTokenABI, SuperTokenABI},
		{&r.erc20ABI, ERC20ABI},
	} {
		parsed, err := abi.JSON(strings.NewReader(def.src))
		if err != nil {
			return nil, fmt.Errorf("failed to parse ABI: %w", err)
		}
		*def.dst = parsed
	}

	if err := r.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to init metrics: %w", err)
	}
	return r, nil
}

func (r *Reader) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	r.metrics = &readerMetrics{}

	r.metrics.calls, err = meter.Int64Counter(
		"token_read_calls_total",
		metric.WithDescription("Total read-only contract calls"),
	)
	if err != nil {
		return err
	}

	r.metrics.errors, err = meter.Int64Counter(
		"token_read_errors_total",
		metric.WithDescription("Total failed read-only contract calls"),
	)
	if err != nil {
		return err
	}

	r.metrics.latency, err = meter.Float64Histogram(
		"token_read_latency_ms",
		metric.WithDescription("Read call latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	return err
}

// call packs method, runs eth_call through the breaker and unpacks the
// outputs. An empty return means the contract lacks the method.
func (r *Reader) call(ctx context.Context, contractABI abi.ABI, to common.Address, method string, args ...any) ([]any, error) {
	ctx, span := r.tracer.Start(ctx, "token.call",
		trace.WithAttributes(
			attribute.String("method", method),
			attribute.String("to", to.Hex()),
		),
	)
	defer span.End()

	attrs := metric.WithAttributes(attribute.String("method", method))
	r.metrics.calls.Add(ctx, 1, attrs)
	start := time.Now()

	fail := func(err error) ([]any, error) {
		r.metrics.errors.Add(ctx, 1, attrs)
		span.RecordError(err)
		span.SetStatus(codes.Error, method+" failed")
		return nil, err
	}

	data, err := contractABI.Pack(method, args...)
	if err != nil {
		return fail(apperror.New(apperror.CodeContractCallFailed,
			apperror.WithCause(err),
			apperror.WithContext("pack "+method)))
	}

	if r.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.callTimeout)
		defer cancel()
	}

	out, err := r.cb.Execute(func() ([]byte, error) {
		return r.client.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	})
	r.metrics.latency.Record(ctx, float64(time.Since(start).Milliseconds()), attrs)
	if err != nil {
		return fail(apperror.Wrap(err, apperror.CodeContractCallFailed, method+" on "+to.Hex()))
	}
	if len(out) == 0 {
		return fail(apperror.New(apperror.CodeContractCallFailed,
			apperror.WithContext(method+" returned no data from "+to.Hex())))
	}

	values, err := contractABI.Unpack(method, out)
	if err != nil {
		return fail(apperror.New(apperror.CodeContractCallFailed,
			apperror.WithCause(err),
			apperror.WithContext("unpack "+method)))
	}

	span.SetStatus(codes.Ok, "ok")
	return values, nil
}

func (r *Reader) PairedTokens(ctx context.Context, torex common.Address) (common.Address, common.Address, error) {
	out, err := r.call(ctx, r.torexABI, torex, "getPairedTokens")
	if err != nil {
		return common.Address{}, common.Address{}, err
	}
	in, ok1 := out[0].(common.Address)
	outTok, ok2 := out[1].(common.Address)
	if !ok1 || !ok2 {
		return common.Address{}, common.Address{}, unexpected("getPairedTokens")
	}
	return in, outTok, nil
}

func (r *Reader) UnderlyingToken(ctx context.Context, superToken common.Address) (common.Address, error) {
	out, err := r.call(ctx, r.superTokenABI, superToken, "getUnderlyingToken")
	if err != nil {
		return common.Address{}, err
	}
	addr, ok := out[0].(common.Address)
	if !ok {
		return common.Address{}, unexpected("getUnderlyingToken")
	}
	return addr, nil
}

func (r *Reader) NativeBalance(ctx context.Context, account common.Address) (*big.Int, error) {
	ctx, span := r.tracer.Start(ctx, "token.native_balance")
	defer span.End()

	bal, err := r.client.BalanceAt(ctx, account, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "balance failed")
		return nil, apperror.Wrap(err, apperror.CodeEthereumRPCError, "eth_getBalance")
	}
	span.SetStatus(codes.Ok, "ok")
	return bal, nil
}

func (r *Reader) BalanceOf(ctx context.Context, token, account common.Address) (*big.Int, error) {
	return r.uint256(ctx, token, "balanceOf", account)
}

func (r *Reader) Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error) {
	return r.uint256(ctx, token, "allowance", owner, spender)
}

func (r *Reader) Decimals(ctx context.Context, token common.Address) (uint8, error) {
	out, err := r.call(ctx, r.erc20ABI, token, "decimals")
	if err != nil {
		return 0, err
	}
	dec, ok := out[0].(uint8)
	if !ok {
		return 0, unexpected("decimals")
	}
	return dec, nil
}

func (r *Reader) uint256(ctx context.Context, token common.Address, method string, args ...any) (*big.Int, error) {
	out, err := r.call(ctx, r.erc20ABI, token, method, args...)
	if err != nil {
		return nil, err
	}
	v, ok := out[0].(*big.Int)
	if !ok {
		return nil, unexpected(method)
	}
	return v, nil
}

func unexpected(method string) error {
	return apperror.New(apperror.CodeContractCallFailed,
		apperror.WithContext("unexpected output type from "+method))
}
