package app

import (
	"context"
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fd1az/superboost/business/blockchain/domain"
	"github.com/fd1az/superboost/internal/apperror"
	"github.com/fd1az/superboost/internal/logger"
)

// BlockchainService submits transactions and waits for them with an
// explicit confirmation bound.
type BlockchainService struct {
	wallet         Wallet
	gasOracle      FeeOracle
	head           HeadReader
	confirmTimeout time.Duration
	logger         logger.LoggerInterface
}

// NewBlockchainService creates a new BlockchainService.
func NewBlockchainService(wallet Wallet, gasOracle FeeOracle, head HeadReader, confirmTimeout time.Duration, log logger.LoggerInterface) *BlockchainService {
	return &BlockchainService{
		wallet:         wallet,
		gasOracle:      gasOracle,
		head:           head,
		confirmTimeout: confirmTimeout,
		logger:         log,
	}
}

// Account is the connected account; the zero address when none is set.
func (s *BlockchainService) Account() common.Address {
	return s.wallet.Account()
}

// CanSign reports whether a signing key is loaded.
func (s *BlockchainService) CanSign() bool {
	return s.wallet.CanSign()
}

// Fees returns the current fee suggestion.
func (s *BlockchainService) Fees(ctx context.Context) (*domain.FeeQuote, error) {
	return s.gasOracle.Fees(ctx)
}

// BlockNumber returns the chain head.
func (s *BlockchainService) BlockNumber(ctx context.Context) (uint64, error) {
	return s.head.BlockNumber(ctx)
}

// Execute signs and sends req, reports the hash through onSent, then waits
// for the receipt. A reverted receipt is returned together with a
// TransactionReverted error; an expired wait yields ConfirmationTimeout.
func (s *BlockchainService) Execute(ctx context.Context, req domain.TxRequest, onSent func(common.Hash)) (*domain.Receipt, error) {
	if !s.wallet.CanSign() {
		return nil, apperror.New(apperror.CodeWalletUnavailable,
			apperror.WithContext(req.Label))
	}

	tx, err := s.wallet.Send(ctx, req)
	if err != nil {
		return nil, err
	}
	if onSent != nil {
		onSent(tx.Hash())
	}
	s.logger.Info(ctx, "transaction sent", "label", req.Label, "hash", tx.Hash().Hex(), "gas_limit", req.GasLimit)

	waitCtx, cancel := context.WithTimeout(ctx, s.confirmTimeout)
	defer cancel()

	raw, err := s.wallet.WaitConfirmed(waitCtx, tx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperror.New(apperror.CodeConfirmationTimeout,
				apperror.WithCause(err),
				apperror.WithContext(req.Label+" "+tx.Hash().Hex()))
		}
		return nil, apperror.Wrap(err, apperror.CodeEthereumRPCError, "waiting for "+req.Label)
	}

	receipt := domain.NewReceipt(raw)
	if !receipt.Succeeded {
		s.logger.Warn(ctx, "transaction reverted", "label", req.Label, "hash", receipt.Hash.Hex(), "block", receipt.BlockNumber)
		return receipt, apperror.New(apperror.CodeTransactionReverted,
			apperror.WithContext(req.Label+" "+receipt.Hash.Hex()))
	}

	s.logger.Info(ctx, "transaction confirmed", "label", req.Label, "hash", receipt.Hash.Hex(), "block", receipt.BlockNumber, "gas_used", receipt.GasUsed)
	return receipt, nil
}
