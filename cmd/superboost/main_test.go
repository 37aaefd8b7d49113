package main

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	dcaApp "github.com/fd1az/superboost/business/dca/app"
	dcaDomain "github.com/fd1az/superboost/business/dca/domain"
	positionDomain "github.com/fd1az/superboost/business/position/domain"
	"github.com/fd1az/superboost/internal/apperror"
	"github.com/fd1az/superboost/internal/logger"
)

func TestActionMsg(t *testing.T) {
	hash := common.HexToHash("0xabc")
	msg := actionMsg(dcaApp.Event{
		Kind:   dcaDomain.KindStart,
		Key:    "start:0x1",
		Step:   dcaDomain.Approving,
		Status: dcaDomain.StatusApproving,
		TxHash: hash,
	})
	if msg.Kind != "start" || msg.Step != "approving" || msg.TxHash != hash.Hex() {
		t.Errorf("msg = %+v", msg)
	}
	if msg.Terminal() {
		t.Errorf("approving must not be terminal")
	}

	if got := actionMsg(dcaApp.Event{Step: dcaDomain.Failed}); got.TxHash != "" || !got.Terminal() {
		t.Errorf("failed msg = %+v", got)
	}
}

func TestRejectionStatus(t *testing.T) {
	wallet := apperror.New(apperror.CodeWalletUnavailable, apperror.WithMessage("Please connect your wallet first."))
	if got := rejectionStatus(wallet); got != "Please connect your wallet first." {
		t.Errorf("got %q", got)
	}
	if got := rejectionStatus(errors.New("boom")); got != "boom" {
		t.Errorf("got %q", got)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]logger.Level{
		"debug": logger.LevelDebug,
		"warn":  logger.LevelWarn,
		"error": logger.LevelError,
		"":      logger.LevelInfo,
		"loud":  logger.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestHasPool(t *testing.T) {
	ps := []positionDomain.ActivePosition{{PoolID: "0xa"}, {PoolID: "0xb"}}
	if !hasPool(ps, "0xb") || hasPool(ps, "0xc") {
		t.Errorf("hasPool mismatch")
	}
}
