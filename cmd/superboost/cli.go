package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	blockchainDI "github.com/fd1az/superboost/business/blockchain/di"
	blockchainDomain "github.com/fd1az/superboost/business/blockchain/domain"
	dashboardDI "github.com/fd1az/superboost/business/dashboard/di"
	dashboardDomain "github.com/fd1az/superboost/business/dashboard/domain"
	dcaApp "github.com/fd1az/superboost/business/dca/app"
	dcaDI "github.com/fd1az/superboost/business/dca/di"
	dcaDomain "github.com/fd1az/superboost/business/dca/domain"
	positionDI "github.com/fd1az/superboost/business/position/di"
	positionDomain "github.com/fd1az/superboost/business/position/domain"
	pricingDI "github.com/fd1az/superboost/business/pricing/di"
	streamApp "github.com/fd1az/superboost/business/stream/app"
	streamDI "github.com/fd1az/superboost/business/stream/di"
	streamDomain "github.com/fd1az/superboost/business/stream/domain"
	"github.com/fd1az/superboost/internal/di"
	"github.com/fd1az/superboost/internal/logger"
	"github.com/fd1az/superboost/internal/monolith"
)

const followLogInterval = 5 * time.Second

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))

func runCLI(ctx context.Context, mono monolith.Monolith, log *logger.Logger, args []string) error {
	if len(args) == 0 {
		return follow(ctx, mono, log)
	}

	sr := mono.Services()
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "positions":
		view, err := dashboardDI.GetDashboardService(sr).Refresh(ctx)
		if err != nil {
			return err
		}
		printPositions(view, time.Now())
		return nil

	case "account":
		view, err := dashboardDI.GetDashboardService(sr).Refresh(ctx)
		if err != nil {
			return err
		}
		printAccount(view)
		return nil

	case "boosts":
		printBoosts(dashboardDI.GetDashboardService(sr).Boosts())
		return nil

	case "price":
		q, err := pricingDI.GetPricingService(sr).ETHUSD(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("ETH/USD %s (%s, %s)\n", q.Price.Rate().StringFixed(2), q.Source, q.Price.Timestamp().Format(time.RFC3339))
		return nil

	case "start":
		if len(rest) < 1 {
			return fmt.Errorf("usage: start <monthly> [upgrade|max]")
		}
		intent := dcaDomain.StreamIntent{MonthlyRate: rest[0]}
		if len(rest) > 1 {
			intent.UpgradeAmount = rest[1]
		}
		return runAction(func(seq *dcaApp.Sequencer) (*dcaApp.ActionResult, error) {
			return seq.StartStream(ctx, intent)
		}, sr)

	case "delete", "register":
		pool, err := selectPool(mono, rest)
		if err != nil {
			return err
		}
		return runAction(func(seq *dcaApp.Sequencer) (*dcaApp.ActionResult, error) {
			if cmd == "delete" {
				return seq.DeleteStream(ctx, pool)
			}
			return seq.RegisterRewards(ctx, pool)
		}, sr)

	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// selectPool returns the pool named in args, or the first active one.
func selectPool(mono monolith.Monolith, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	active := positionDI.GetPositionService(mono.Services()).Positions()
	if len(active) == 0 {
		return "", fmt.Errorf("no active stream")
	}
	return active[0].PoolID, nil
}

func runAction(do func(*dcaApp.Sequencer) (*dcaApp.ActionResult, error), sr di.ServiceRegistry) error {
	seq := dcaDI.GetSequencer(sr)
	seq.Subscribe(func(e dcaApp.Event) {
		if e.TxHash != (common.Hash{}) {
			fmt.Printf("  tx %s\n", e.TxHash.Hex())
			return
		}
		fmt.Printf("[%s] %s\n", e.Step, e.Status)
	})

	res, err := do(seq)
	if err != nil {
		return err
	}

	hashes := make([]string, 0, len(res.TxHashes))
	for _, h := range res.TxHashes {
		hashes = append(hashes, h.Hex())
	}
	fmt.Printf("%s finished in %s: %s\n", res.Key, res.FinishedAt.Sub(res.StartedAt).Round(time.Millisecond), strings.Join(hashes, ", "))
	return nil
}

func printPositions(v *dashboardDomain.View, now time.Time) {
	fmt.Println(headerStyle.Render("Positions for " + v.Account.Hex()))
	if len(v.Positions) == 0 {
		fmt.Println("no active stream")
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("POOL", "MONTHLY", "STREAMED", "RECEIVED", "USD")
	for _, p := range v.Positions {
		streamed := streamDomain.EstimateStreamed(p.FlowRate, p.StartedAt, now)
		usd := p.ReceivedUSD
		if usd == "" {
			usd = "-"
		}
		t.Row(p.PoolID, p.Monthly, streamed.StringFixed(dashboardDomain.StreamedPlaces), p.Received, usd)
	}
	fmt.Println(t)
	printWarnings(v)
}

func printAccount(v *dashboardDomain.View) {
	fmt.Println(headerStyle.Render("Account " + v.Account.Hex()))

	t := table.New().Border(lipgloss.HiddenBorder())
	t.Row("TOREX", v.Pair.Target.Hex())
	t.Row("In token", v.Pair.InToken.Hex())
	t.Row("Out token", v.Pair.OutToken.Hex())
	t.Row("Underlying", v.Pair.UnderlyingToken.Hex())
	t.Row("Balance", v.State.Balance)
	t.Row("Allowance", v.State.Allowance)
	t.Row("Active stream", fmt.Sprintf("%t", v.HasActive))
	if v.Quote != nil {
		t.Row("ETH/USD", v.Quote.Price.Rate().StringFixed(dashboardDomain.USDPlaces))
	}
	fmt.Println(t)
	printWarnings(v)
}

func printBoosts(boosts []dashboardDomain.Boost) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("BOOST", "PAIR", "VOLUME/MO", "REWARDS/DAY", "APR", "LIVE")
	for _, b := range boosts {
		live := "soon"
		if b.Live {
			live = "live"
		}
		t.Row(b.Name, b.FromToken+" > "+b.ToToken, b.MonthlyVolume, b.DailyRewards, b.APR, live)
	}
	fmt.Println(t)
}

func printWarnings(v *dashboardDomain.View) {
	for _, w := range v.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %v\n", w)
	}
}

// follow logs snapshot changes and, every few seconds, the live counters
// until ctx is done.
func follow(ctx context.Context, mono monolith.Monolith, log *logger.Logger) error {
	sr := mono.Services()

	var (
		mu      sync.Mutex
		current = make(map[string]decimal.Decimal)
	)
	streamDI.GetEstimator(sr).OnUpdate(func(u streamApp.Update) {
		mu.Lock()
		current[u.PoolID] = u.Streamed
		mu.Unlock()
	})
	positions := positionDI.GetPositionService(sr)
	positions.OnUpdate(func(s *positionDomain.Snapshot) {
		active := positionDomain.Project(s)
		log.Info(ctx, "positions updated", "active", len(active))

		mu.Lock()
		for id := range current {
			if !hasPool(active, id) {
				delete(current, id)
			}
		}
		mu.Unlock()
	})

	blockchainDI.GetHeadWatcher(sr).OnStatus(func(s blockchainDomain.ConnectionStatus) {
		log.Info(ctx, "rpc connection changed", "state", s.State, "last_block", s.LastBlock, "failures", s.Failures)
	})

	log.Info(ctx, "following streams", "account", positions.Account().Hex(), "active", len(positions.Positions()))

	ticker := time.NewTicker(followLogInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info(ctx, "shutting down")
			return nil
		case <-ticker.C:
			mu.Lock()
			ids := make([]string, 0, len(current))
			for id := range current {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			for _, id := range ids {
				log.Info(ctx, "total streamed", "pool", id, "streamed", current[id].StringFixed(dashboardDomain.StreamedPlaces))
			}
			mu.Unlock()
		}
	}
}

func hasPool(ps []positionDomain.ActivePosition, id string) bool {
	for _, p := range ps {
		if p.PoolID == id {
			return true
		}
	}
	return false
}
