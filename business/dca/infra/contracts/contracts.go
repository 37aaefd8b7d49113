// Package contracts encodes the write calls of the DCA flows and reads the
// macro parameters.
package contracts

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

	"github.com/fd1az/superboost/business/dca/app"
	"github.com/fd1az/superboost/internal/apperror"
	"github.com/fd1az/superboost/internal/circuitbreaker"
	"github.com/fd1az/superboost/internal/logger"
)

const (
	tracerName = "github.com/fd1az/superboost/business/dca/infra/contracts"
	meterName  = "github.com/fd1az/superboost/business/dca/infra/contracts"
)

var (
	_ app.CallEncoder   = (*Encoder)(nil)
	_ app.ParamsBuilder = (*Encoder)(nil)
)

// Caller is the eth_call subset of ethclient.
type Caller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

type encoderMetrics struct {
	paramsCalls   metric.Int64Counter
	paramsErrors  metric.Int64Counter
	paramsLatency metric.Float64Histogram
}

// Encoder packs calldata for the five contracts the flows touch.
type Encoder struct {
	client      Caller
	callTimeout time.Duration

	erc20     abi.ABI
	forwarder abi.ABI
	sbMacro   abi.ABI
	cfa       abi.ABI
	rewards   abi.ABI

	logger logger.LoggerInterface
	cb     *circuitbreaker.CircuitBreaker[[]byte]

	tracer  trace.Tracer
	metrics *encoderMetrics
}

// NewEncoder parses the ABIs. client is only used by BuildParams.
func NewEncoder(client Caller, callTimeout time.Duration, log logger.LoggerInterface) (*Encoder, error) {
	e := &Encoder{
		client:      client,
		callTimeout: callTimeout,
		logger:      log,
		cb:          circuitbreaker.New[[]byte](circuitbreaker.DefaultConfig("sb-macro")),
		tracer:      otel.Tracer(tracerName),
	}

	for _, def := range []struct {
		dst *abi.ABI
		src string
	}{
		{&e.erc20, ERC20ApproveABI},
		{&e.forwarder, MacroForwarderABI},
		{&e.sbMacro, SBMacroABI},
		{&e.cfa, CFAForwarderABI},
		{&e.rewards, RewardsABI},
	} {
		parsed, err := abi.JSON(strings.NewReader(def.src))
		if err != nil {
			return nil, fmt.Errorf("failed to parse ABI: %w", err)
		}
		*def.dst = parsed
	}

	if err := e.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to init metrics: %w", err)
	}
	return e, nil
}

func (e *Encoder) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	e.metrics = &encoderMetrics{}

	e.metrics.paramsCalls, err = meter.Int64Counter(
		"dca_get_params_total",
		metric.WithDescription("Total getParams calls"),
	)
	if err != nil {
		return err
	}

	e.metrics.paramsErrors, err = meter.Int64Counter(
		"dca_get_params_errors_total",
		metric.WithDescription("Total failed getParams calls"),
	)
	if err != nil {
		return err
	}

	e.metrics.paramsLatency, err = meter.Float64Histogram(
		"dca_get_params_latency_ms",
		metric.WithDescription("getParams latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	return err
}

func pack(a abi.ABI, method string, args ...any) ([]byte, error) {
	data, err := a.Pack(method, args...)
	if err != nil {
		return nil, apperror.New(apperror.CodeParamsEncodingFailed,
			apperror.WithCause(err),
			apperror.WithContext("pack "+method))
	}
	return data, nil
}

func (e *Encoder) Approve(spender common.Address, amount *big.Int) ([]byte, error) {
	return pack(e.erc20, "approve", spender, amount)
}

func (e *Encoder) RunMacro(macro common.Address, params []byte) ([]byte, error) {
	return pack(e.forwarder, "runMacro", macro, params)
}

func (e *Encoder) DeleteFlow(token, sender, receiver common.Address) ([]byte, error) {
	return pack(e.cfa, "deleteFlow", token, sender, receiver, []byte{})
}

func (e *Encoder) RegisterOrUpdateStream(user common.Address) ([]byte, error) {
	return pack(e.rewards, "registerOrUpdateStream", user)
}

// BuildParams asks the SB macro to encode its runMacro parameters. It is a
// pure call, so it runs against the latest block.
func (e *Encoder) BuildParams(ctx context.Context, macro common.Address, req app.ParamsRequest) ([]byte, error) {
	ctx, span := e.tracer.Start(ctx, "dca.getParams",
		trace.WithAttributes(
			attribute.String("macro", macro.Hex()),
			attribute.String("torex", req.Torex.Hex()),
			attribute.String("flow_rate", req.FlowRate.String()),
		),
	)
	defer span.End()

	e.metrics.paramsCalls.Add(ctx, 1)
	start := time.Now()

	fail := func(err error) ([]byte, error) {
		e.metrics.paramsErrors.Add(ctx, 1)
		span.RecordError(err)
		span.SetStatus(codes.Error, "getParams failed")
		return nil, err
	}

	upgrade := req.UpgradeAmount
	if upgrade == nil {
		upgrade = new(big.Int)
	}
	data, err := pack(e.sbMacro, "getParams", req.Torex, req.FlowRate, req.Distributor, req.Referrer, upgrade)
	if err != nil {
		return fail(err)
	}

	if e.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.callTimeout)
		defer cancel()
	}

	out, err := e.cb.Execute(func() ([]byte, error) {
		return e.client.CallContract(ctx, ethereum.CallMsg{To: &macro, Data: data}, nil)
	})
	e.metrics.paramsLatency.Record(ctx, float64(time.Since(start).Milliseconds()))
	if err != nil {
		return fail(apperror.Wrap(err, apperror.CodeContractCallFailed, "getParams on "+macro.Hex()))
	}

	values, err := e.sbMacro.Unpack("getParams", out)
	if err != nil {
		return fail(apperror.New(apperror.CodeContractCallFailed,
			apperror.WithCause(err),
			apperror.WithContext("unpack getParams")))
	}
	params, ok := values[0].([]byte)
	if !ok || len(params) == 0 {
		return fail(apperror.New(apperror.CodeContractCallFailed,
			apperror.WithContext("getParams returned no params")))
	}

	span.SetStatus(codes.Ok, "ok")
	e.logger.Debug(ctx, "macro params built", "torex", req.Torex.Hex(), "bytes", len(params))
	return params, nil
}
