package app

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"communityboard/internal/repository"
)

const (
	historyLimit  = 30
	rankingLimit  = 20
	historyLayout = "2006-01-02 15:04:05"
)

// LoginRecordStore is the slice of the login-record repository the
// telemetry service needs.
type LoginRecordStore interface {
	ListByUser(ctx context.Context, userID uint, limit int) ([]repository.HistoryRow, error)
	CountByUserWithin(ctx context.Context, start, end time.Time, limit int) ([]repository.LoginCount, error)
}

// UsernameResolver batch-resolves user ids to usernames.
type UsernameResolver interface {
	UsernamesByIDs(ctx context.Context, ids []uint) (map[uint]string, error)
}

// RankingsCache holds a computed weekly result for a short while. Both
// sides are best-effort; errors only get logged.
type RankingsCache interface {
	Get(ctx context.Context, weekKey string) (*WeeklyRankings, error)
	Set(ctx context.Context, weekKey string, rankings *WeeklyRankings) error
}

type HistoryEntry struct {
	LoginTime string  `json:"login_time"`
	IPAddress string  `json:"ip_address"`
	Username  *string `json:"username"`
}

type RankingEntry struct {
	Username   *string `json:"username"`
	LoginCount int64   `json:"login_count"`
	Rank       int     `json:"rank"`
}

type RankingPeriod struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type WeeklyRankings struct {
	Rankings []RankingEntry `json:"rankings"`
	Period   RankingPeriod  `json:"period"`
}

type LoginRecordService struct {
	records LoginRecordStore
	users   UsernameResolver
	cache   RankingsCache
	loc     *time.Location
	now     func() time.Time
	log     *logrus.Logger
}

// NewLoginRecordService builds the telemetry aggregator. cache may be nil,
// in which case every rankings request recomputes.
func NewLoginRecordService(records LoginRecordStore, users UsernameResolver, cache RankingsCache, loc *time.Location, log *logrus.Logger) *LoginRecordService {
	if loc == nil {
		loc = time.Local
	}
	return &LoginRecordService{
		records: records,
		users:   users,
		cache:   cache,
		loc:     loc,
		now:     time.Now,
		log:     log,
	}
}

// History returns the caller's most recent 30 logins, newest first, with
// timestamps rendered in the reference timezone.
func (s *LoginRecordService) History(ctx context.Context, userID uint) ([]HistoryEntry, error) {
	rows, err := s.records.ListByUser(ctx, userID, historyLimit)
	if err != nil {
		return nil, err
	}

	entries := make([]HistoryEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, HistoryEntry{
			LoginTime: row.LoginTime.In(s.loc).Format(historyLayout),
			IPAddress: row.IPAddress,
			Username:  row.Username,
		})
	}
	return entries, nil
}

// WeeklyRankings ranks the top 20 users by login count over the current
// calendar week, Monday 00:00:00 through Sunday 23:59:59 in the reference
// timezone. Tied users share a rank and the tie consumes rank slots:
// counts 10,8,8,5 rank as 1,2,2,4. A week with no logins yields an empty
// list together with the period bounds.
func (s *LoginRecordService) WeeklyRankings(ctx context.Context) (*WeeklyRankings, error) {
	start, end := weekBounds(s.now().In(s.loc))
	weekKey := start.Format("2006-01-02")

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, weekKey)
		if err != nil {
			s.log.WithError(err).Warn("rankings cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	counts, err := s.records.CountByUserWithin(ctx, start, end, rankingLimit)
	if err != nil {
		return nil, err
	}

	result := &WeeklyRankings{
		Rankings: []RankingEntry{},
		Period: RankingPeriod{
			Start: start.Format(time.RFC3339),
			End:   end.Format(time.RFC3339),
		},
	}

	if len(counts) > 0 {
		ids := make([]uint, 0, len(counts))
		for _, c := range counts {
			ids = append(ids, c.UserID)
		}
		names, err := s.users.UsernamesByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		result.Rankings = assignRanks(counts, names)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, weekKey, result); err != nil {
			s.log.WithError(err).Warn("rankings cache write failed")
		}
	}
	return result, nil
}

// weekBounds returns the Monday 00:00:00 and Sunday 23:59:59 enclosing
// now, in now's location.
func weekBounds(now time.Time) (time.Time, time.Time) {
	daysSinceMonday := (int(now.Weekday()) + 6) % 7
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, -daysSinceMonday)
	end := start.AddDate(0, 0, 7).Add(-time.Second)
	return start, end
}

// assignRanks walks counts (already sorted descending) handing out ranks.
// Equal counts share the previous rank; when the count drops, the next
// rank skips one slot per tied row. A user missing from names renders a
// nil username rather than failing the aggregation.
func assignRanks(counts []repository.LoginCount, names map[uint]string) []RankingEntry {
	entries := make([]RankingEntry, 0, len(counts))

	rank := 1
	tied := 0
	var prev int64
	for i, c := range counts {
		switch {
		case i == 0:
			prev = c.Count
			tied = 1
		case c.Count < prev:
			rank += tied
			prev = c.Count
			tied = 1
		default:
			tied++
		}

		var username *string
		if name, ok := names[c.UserID]; ok {
			n := name
			username = &n
		}
		entries = append(entries, RankingEntry{
			Username:   username,
			LoginCount: c.Count,
			Rank:       rank,
		})
	}
	return entries
}
