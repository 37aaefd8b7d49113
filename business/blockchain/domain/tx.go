package domain

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// TxRequest is a contract call to sign and broadcast. GasLimit is a fixed
// ceiling chosen by the caller; it is never estimated.
type TxRequest struct {
	Label    string
	To       common.Address
	Data     []byte
	GasLimit uint64
}

// Receipt is the confirmed outcome of a submitted transaction.
type Receipt struct {
	Hash        common.Hash
	BlockNumber uint64
	GasUsed     uint64
	Succeeded   bool
}

// NewReceipt flattens a go-ethereum receipt.
func NewReceipt(r *types.Receipt) *Receipt {
	out := &Receipt{
		Hash:      r.TxHash,
		GasUsed:   r.GasUsed,
		Succeeded: r.Status == types.ReceiptStatusSuccessful,
	}
	if r.BlockNumber != nil {
		out.BlockNumber = r.BlockNumber.Uint64()
	}
	return out
}
