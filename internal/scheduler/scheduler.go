package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/mdsiyam69/Clarity/internal/model"
	"github.com/mdsiyam69/Clarity/internal/notifier"
	"github.com/mdsiyam69/Clarity/internal/scanner"
)

// Scanner is the part of scanner.Scanner the scheduler drives.
type Scanner interface {
	Scan(ctx context.Context, markets []model.Market, topN int) *model.ScanResult
	Analyze(ctx context.Context, symbol string, market model.Market) (*model.StockRecommendation, error)
}

// Notifier delivers reports.
type Notifier interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler manages the cron tasks and chat commands.
type Scheduler struct {
	Cron     *cron.Cron
	Scanner  Scanner
	Notifier Notifier
	Markets  []model.Market
	TopN     int
	Retries  int
	Ctx      context.Context

	log     zerolog.Logger
	running sync.Mutex
}

// NewScheduler creates a new Scheduler. A nil notifier writes reports to the log.
func NewScheduler(ctx context.Context, sc Scanner, n Notifier, markets []model.Market, topN int, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		Scanner:  sc,
		Notifier: n,
		Markets:  markets,
		TopN:     topN,
		Retries:  3,
		Ctx:      ctx,
		log:      log,
	}
}

// RegisterAll registers the daily scan.
func (s *Scheduler) RegisterAll(dailyCron string) error {
	if _, err := s.Cron.AddFunc(dailyCron, s.dailyScan); err != nil {
		return fmt.Errorf("register daily scan: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info().Int("jobs", len(s.Cron.Entries())).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
}

// RunNow executes the daily scan immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.dailyScan()
}

func (s *Scheduler) dailyScan() {
	s.scanAndSend(s.Markets)
}

// scanAndSend runs one scan at a time; a trigger arriving mid-scan is dropped.
func (s *Scheduler) scanAndSend(markets []model.Market) bool {
	if !s.running.TryLock() {
		s.log.Warn().Msg("scan already running, trigger ignored")
		return false
	}
	defer s.running.Unlock()

	s.log.Info().Interface("markets", markets).Msg("running scan")
	res := s.Scanner.Scan(s.Ctx, markets, s.TopN)
	s.trySend(notifier.FormatScanReport(res))
	return true
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	args := fields[1:]
	switch fields[0] {
	case "/scan", "每日扫描":
		markets := s.Markets
		if len(args) > 0 {
			parsed, err := model.ParseMarkets(splitList(args))
			if err != nil {
				return notifier.FormatError("扫描", err)
			}
			markets = parsed
		}
		if !s.scanAndSend(markets) {
			return "⏳ 扫描进行中，请稍后"
		}
		return ""
	case "/stock", "个股":
		if len(args) == 0 {
			return "用法: /stock 600519"
		}
		rec, err := s.Scanner.Analyze(ctx, args[0], "")
		if errors.Is(err, scanner.ErrInsufficientData) {
			return fmt.Sprintf("⚠️ %s 历史数据不足 %d 个交易日", args[0], model.MinHistoryBars)
		}
		if err != nil {
			return notifier.FormatError("分析 "+args[0], err)
		}
		return notifier.FormatRecommendation(rec)
	case "/top", "推荐":
		n := s.TopN
		if len(args) > 0 {
			if v, err := strconv.Atoi(args[0]); err == nil && v > 0 {
				n = v
			}
		}
		if !s.running.TryLock() {
			return "⏳ 扫描进行中，请稍后"
		}
		defer s.running.Unlock()
		return notifier.FormatScanReport(s.Scanner.Scan(ctx, s.Markets, n))
	default:
		return helpText
	}
}

const helpText = "可用命令:\n" +
	"• /scan [a,us,hk] 执行市场扫描\n" +
	"• /stock 代码 分析单只股票\n" +
	"• /top [N] 返回前 N 只推荐"

func splitList(args []string) []string {
	var out []string
	for _, a := range args {
		out = append(out, strings.Split(a, ",")...)
	}
	return out
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		s.log.Info().Msg("no notifier configured, report follows\n" + text)
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, s.Retries); err != nil {
		s.log.Error().Err(err).Msg("send notification")
	}
}
