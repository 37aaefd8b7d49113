package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ethereum/go-ethereum/common"

	blockchainDI "github.com/fd1az/superboost/business/blockchain/di"
	blockchainDomain "github.com/fd1az/superboost/business/blockchain/domain"
	dashboardDI "github.com/fd1az/superboost/business/dashboard/di"
	dcaApp "github.com/fd1az/superboost/business/dca/app"
	dcaDI "github.com/fd1az/superboost/business/dca/di"
	dcaDomain "github.com/fd1az/superboost/business/dca/domain"
	positionDI "github.com/fd1az/superboost/business/position/di"
	positionDomain "github.com/fd1az/superboost/business/position/domain"
	pricingDI "github.com/fd1az/superboost/business/pricing/di"
	streamApp "github.com/fd1az/superboost/business/stream/app"
	streamDI "github.com/fd1az/superboost/business/stream/di"
	"github.com/fd1az/superboost/internal/apperror"
	"github.com/fd1az/superboost/internal/monolith"
	"github.com/fd1az/superboost/pkg/ui"
)

const viewRefreshInterval = 30 * time.Second

func runTUI(ctx context.Context, mono monolith.App, modules []monolith.Module) error {
	startSignal := make(chan struct{}, 1)
	ui.OnStartModules = func() {
		select {
		case startSignal <- struct{}{}:
		default:
		}
	}

	// Show the welcome screen before any connection is attempted.
	p := tea.NewProgram(ui.New(), tea.WithAltScreen())
	ui.Program = p

	errCh := make(chan error, 1)
	go func() {
		select {
		case <-startSignal:
		case <-ctx.Done():
			errCh <- nil
			return
		}

		ui.Send(ui.StartupMsg{Step: "config", Status: "connected"})
		if err := startDashboard(ctx, mono, modules); err != nil {
			ui.Send(ui.ErrorMsg{Error: err})
			errCh <- err
			return
		}

		<-ctx.Done()
		errCh <- nil
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	select {
	case err := <-errCh:
		return err
	default:
		return nil
	}
}

// startDashboard starts the modules and binds every service callback to a
// UI message.
func startDashboard(ctx context.Context, mono monolith.App, modules []monolith.Module) error {
	sr := mono.Services()
	bc := blockchainDI.GetBlockchainService(sr)
	positions := positionDI.GetPositionService(sr)
	dash := dashboardDI.GetDashboardService(sr)
	seq := dcaDI.GetSequencer(sr)
	est := streamDI.GetEstimator(sr)
	canSign := bc.CanSign()

	// Listeners go in before Startup so the first snapshot is not missed.
	positions.OnUpdate(func(s *positionDomain.Snapshot) {
		go func() {
			ui.Send(ui.ViewMsg{View: dash.Compose(ctx, s), CanSign: canSign})
		}()
	})
	est.OnUpdate(func(u streamApp.Update) {
		ui.Send(ui.StreamedMsg{PoolID: u.PoolID, Streamed: u.Streamed})
	})
	seq.Subscribe(func(e dcaApp.Event) {
		ui.Send(actionMsg(e))
	})
	heads := blockchainDI.GetHeadWatcher(sr)
	heads.OnHead(func(h blockchainDomain.Head) {
		ui.Send(ui.BlockMsg{Number: h.Number})
		if h.FeeCap != nil {
			ui.Send(ui.GasPriceMsg{GweiPrice: blockchainDomain.Gwei(h.FeeCap)})
		}
	})
	heads.OnStatus(func(s blockchainDomain.ConnectionStatus) {
		ui.Send(ui.ConnectionStatusMsg{Name: "rpc", Connected: s.State == blockchainDomain.StateConnected, Latency: s.Latency})
	})

	ui.Send(ui.StartupMsg{Step: "rpc", Status: "connecting"})
	start := time.Now()
	n, err := bc.BlockNumber(ctx)
	if err != nil {
		ui.Send(ui.StartupMsg{Step: "rpc", Status: "failed", Message: err.Error()})
		return fmt.Errorf("rpc unreachable: %w", err)
	}
	ui.Send(ui.StartupMsg{Step: "rpc", Status: "connected", Message: fmt.Sprintf("block %d", n)})
	ui.Send(ui.ConnectionStatusMsg{Name: "rpc", Connected: true, Latency: time.Since(start)})
	ui.Send(ui.BlockMsg{Number: n})

	ui.Send(ui.StartupMsg{Step: "subgraph", Status: "connecting"})
	ui.Send(ui.StartupMsg{Step: "price", Status: "connecting"})
	if err := mono.StartModules(ctx, modules...); err != nil {
		return fmt.Errorf("failed to start modules: %w", err)
	}
	reportStartup(ctx, mono)

	ui.OnAction = func(req ui.ActionRequest) { dispatchAction(ctx, seq, req) }
	ui.OnRefresh = func() { refreshView(ctx, mono) }

	go func() {
		ticker := time.NewTicker(viewRefreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				refreshView(ctx, mono)
			}
		}
	}()
	return nil
}

// reportStartup marks the indexer and price steps from the state the
// module startups left behind.
func reportStartup(ctx context.Context, mono monolith.App) {
	sr := mono.Services()

	if positionDI.GetPositionService(sr).Latest() != nil {
		ui.Send(ui.StartupMsg{Step: "subgraph", Status: "connected"})
	} else {
		ui.Send(ui.StartupMsg{Step: "subgraph", Status: "failed", Message: "no snapshot yet"})
		// Without a snapshot no ViewMsg has been sent; send one so the
		// dashboard opens with balances and the price.
		refreshView(ctx, mono)
	}

	if _, ok := pricingDI.GetPricingService(sr).Last(); ok {
		ui.Send(ui.StartupMsg{Step: "price", Status: "connected"})
	} else {
		ui.Send(ui.StartupMsg{Step: "price", Status: "failed", Message: "price unavailable"})
	}
}

// refreshView reloads the snapshot; the position listener turns it into a
// ViewMsg.
func refreshView(ctx context.Context, mono monolith.App) {
	sr := mono.Services()
	positions := positionDI.GetPositionService(sr)
	snap, err := positions.Refresh(ctx)
	if err != nil {
		ui.Send(ui.ErrorMsg{Error: err})
	}
	// No listener fires on failure or without an account.
	if err != nil || snap == nil {
		view := dashboardDI.GetDashboardService(sr).Compose(ctx, positions.Latest())
		ui.Send(ui.ViewMsg{View: view, CanSign: blockchainDI.GetBlockchainService(sr).CanSign()})
	}
}

// dispatchAction runs one user request to completion. Progress reaches the
// UI through the sequencer subscription.
func dispatchAction(ctx context.Context, seq *dcaApp.Sequencer, req ui.ActionRequest) {
	var (
		res *dcaApp.ActionResult
		err error
	)
	switch dcaDomain.Kind(req.Kind) {
	case dcaDomain.KindStart:
		res, err = seq.StartStream(ctx, dcaDomain.StreamIntent{
			MonthlyRate:   req.MonthlyRate,
			UpgradeAmount: req.UpgradeAmount,
		})
	case dcaDomain.KindDelete:
		res, err = seq.DeleteStream(ctx, req.PoolID)
	case dcaDomain.KindRegister:
		res, err = seq.RegisterRewards(ctx, req.PoolID)
	default:
		err = fmt.Errorf("unknown action %q", req.Kind)
	}
	if err != nil && res == nil {
		// Rejected before the first event.
		ui.Send(ui.ActionMsg{Kind: req.Kind, Step: dcaDomain.Failed.String(), Status: rejectionStatus(err), Err: err})
	}
}

func rejectionStatus(err error) string {
	return apperror.UserMessage(err, err.Error())
}

func actionMsg(e dcaApp.Event) ui.ActionMsg {
	msg := ui.ActionMsg{
		Kind:   string(e.Kind),
		Key:    e.Key,
		Step:   e.Step.String(),
		Status: e.Status,
		Err:    e.Err,
	}
	if e.TxHash != (common.Hash{}) {
		msg.TxHash = e.TxHash.Hex()
	}
	return msg
}
