package notify

import (
	"StorePing/entity"
	"StorePing/internal/lib/sl"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// TenantSource enumerates tenants eligible for the daily summary.
type TenantSource interface {
	AllLinkedTenants() ([]entity.Tenant, error)
}

// StatsSource computes a tenant's "today" aggregate.
type StatsSource interface {
	TodayStats(tenant *entity.Tenant) (entity.OrderStats, error)
}

// SummaryScheduler sends each tenant's daily summary at a configured
// hour:minute, at most once per (tenant, date). The per-date sent set — not
// mutual exclusion — is what keeps overlapping ticks harmless. A tick
// missing the exact minute delays the summary to the next day; that
// limitation is inherited deliberately.
type SummaryScheduler struct {
	tenants TenantSource
	stats   StatsSource
	sender  Sender
	log     *slog.Logger
	loc     *time.Location
	hour    int
	minute  int
	now     func() time.Time

	cron *cron.Cron

	mu      sync.Mutex
	sentDay string
	sent    map[string]bool
}

func NewSummaryScheduler(d *Dispatcher, hour, minute int, log *slog.Logger) *SummaryScheduler {
	return &SummaryScheduler{
		log:    log.With(sl.Module("summary scheduler")),
		loc:    d.loc,
		hour:   hour,
		minute: minute,
		now:    time.Now,
		sent:   make(map[string]bool),
	}
}

func (s *SummaryScheduler) SetTenantSource(ts TenantSource) { s.tenants = ts }
func (s *SummaryScheduler) SetStatsSource(ss StatsSource)   { s.stats = ss }
func (s *SummaryScheduler) SetSender(sender Sender)         { s.sender = sender }

// Start begins the per-minute tick. The tick itself decides whether the
// configured send time has arrived.
func (s *SummaryScheduler) Start() error {
	if s.tenants == nil || s.stats == nil || s.sender == nil {
		return fmt.Errorf("summary scheduler not fully wired")
	}
	s.cron = cron.New(cron.WithLocation(s.loc))
	_, err := s.cron.AddFunc("* * * * *", func() {
		s.tick(s.now().In(s.loc))
	})
	if err != nil {
		return fmt.Errorf("schedule summary tick: %w", err)
	}
	s.cron.Start()
	s.log.With(
		slog.Int("hour", s.hour),
		slog.Int("minute", s.minute),
	).Info("daily summary schedule started")
	return nil
}

func (s *SummaryScheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// tick resets the sent set on a date change, gates on the configured
// hour:minute, and walks all linked tenants. A per-tenant failure is logged
// and leaves the tenant unmarked so a later tick in the same minute retries.
func (s *SummaryScheduler) tick(now time.Time) {
	dayKey := now.Format("2006-01-02")

	s.mu.Lock()
	if s.sentDay != dayKey {
		s.sent = make(map[string]bool)
		s.sentDay = dayKey
	}
	s.mu.Unlock()

	if now.Hour() != s.hour || now.Minute() != s.minute {
		return
	}

	tenants, err := s.tenants.AllLinkedTenants()
	if err != nil {
		s.log.With(sl.Err(err)).Error("list tenants for summary")
		return
	}

	for i := range tenants {
		tenant := &tenants[i]
		key := tenant.Slug

		s.mu.Lock()
		already := s.sent[key]
		s.mu.Unlock()
		if already {
			continue
		}

		stats, err := s.stats.TodayStats(tenant)
		if err != nil {
			s.log.With(slog.String("tenant", tenant.Slug), sl.Err(err)).
				Error("daily summary stats")
			continue
		}

		text := FormatEvent(KindDailySummary, map[string]any{
			"order_count": float64(stats.OrderCount),
			"revenue":     stats.Revenue,
			"avg_order":   stats.AvgOrder,
			"date":        dayKey,
		}, tenant.CurrencySymbol)

		if err := s.sender.Send(tenant.TelegramChatId, text, nil); err != nil {
			s.log.With(slog.String("tenant", tenant.Slug), sl.Err(err)).
				Error("daily summary send failed")
			continue
		}

		s.mu.Lock()
		s.sent[key] = true
		s.mu.Unlock()

		s.log.With(slog.String("tenant", tenant.Slug)).Info("daily summary sent")
	}
}
