package appointment

import (
	"context"
	"time"

	"github.com/alignwork/api/internal/platform/apperr"
	"github.com/alignwork/api/internal/platform/cache"
	"github.com/alignwork/api/internal/platform/db"
	"github.com/alignwork/api/internal/platform/validation"
)

type Service struct {
	repo         Repository
	patients     PatientDirectory
	consultorios ConsultorioDirectory
	stats        *cache.Store[MegaStats]
	tx           db.TxRunner

	now func() time.Time
}

func NewService(repo Repository, patients PatientDirectory, consultorios ConsultorioDirectory, stats *cache.Store[MegaStats], tx db.TxRunner) *Service {
	return &Service{
		repo:         repo,
		patients:     patients,
		consultorios: consultorios,
		stats:        stats,
		tx:           tx,
		now:          time.Now,
	}
}

// parseInstant accepts an RFC 3339 instant and returns it in UTC.
func parseInstant(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// Create books an appointment. All validation runs before any storage
// access; the referential checks and the insert share one transaction.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Appointment, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	startsAt, err := parseInstant(in.StartsAt)
	if err != nil {
		return nil, apperr.ValidationField("startsAt", "invalid_datetime", "startsAt must be an RFC 3339 instant")
	}
	if in.DurationMin < MinDurationMin || in.DurationMin > MaxDurationMin {
		return nil, apperr.ValidationField("durationMin", "duration_out_of_range", "duration must be between 15 and 480 minutes")
	}

	now := s.now()
	if startsAt.Before(now) {
		return nil, apperr.ValidationField("startsAt", "starts_at_past", "startsAt cannot be in the past")
	}
	if startsAt.After(now.Add(MaxAdvance)) {
		return nil, apperr.ValidationField("startsAt", "starts_at_too_far", "startsAt cannot be more than 2 years ahead")
	}

	status := in.Status
	if status == "" {
		status = StatusPending
	}

	a := &Appointment{
		TenantID:      in.TenantID,
		PatientID:     in.PatientID,
		ConsultorioID: in.ConsultorioID,
		StartsAt:      startsAt,
		DurationMin:   in.DurationMin,
		Status:        status,
	}
	err = s.tx(ctx, func(ctx context.Context) error {
		ok, err := s.patients.Exists(ctx, in.TenantID, in.PatientID)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.NotFound("patient not found")
		}
		if in.ConsultorioID != nil {
			ok, err := s.consultorios.Exists(ctx, in.TenantID, *in.ConsultorioID)
			if err != nil {
				return err
			}
			if !ok {
				return apperr.NotFound("consultorio not found")
			}
		}
		return s.repo.Create(ctx, a)
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// UpdateStatus transitions an appointment's status. Start and duration are
// immutable; there is no reschedule.
func (s *Service) UpdateStatus(ctx context.Context, tenantID string, id int64, in StatusInput) (*Appointment, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	var updated *Appointment
	err := s.tx(ctx, func(ctx context.Context) error {
		a, err := s.repo.FindByID(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if a == nil {
			return apperr.NotFound("appointment not found")
		}
		a.Status = in.Status
		if err := s.repo.UpdateStatus(ctx, a); err != nil {
			return err
		}
		updated = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Summarize fetches every appointment in [from, to) and tallies the rows
// landing on today and tomorrow as seen from the zone. The range is caller
// controlled, so this always recomputes from raw rows.
func (s *Service) Summarize(ctx context.Context, tenantID string, from, to time.Time, zone string) (Summary, error) {
	loc, err := LoadZone(zone)
	if err != nil {
		return Summary{}, err
	}

	appts, err := s.repo.ListInRange(ctx, tenantID, from.UTC(), to.UTC())
	if err != nil {
		return Summary{}, err
	}

	todayLocal := s.now().In(loc)
	ty, tm, td := todayLocal.Date()
	tomorrowLocal := todayLocal.AddDate(0, 0, 1)
	my, mm, md := tomorrowLocal.Date()

	var sum Summary
	for _, a := range appts {
		ay, am, ad := a.StartsAt.In(loc).Date()

		var day *DayStats
		switch {
		case ay == ty && am == tm && ad == td:
			day = &sum.Today
		case ay == my && am == mm && ad == md:
			day = &sum.Tomorrow
		default:
			continue
		}

		day.Total++
		switch a.Status {
		case StatusConfirmed:
			day.Confirmed++
		default:
			day.Pending++
		}
	}
	return sum, nil
}

// MegaStats returns the four-bucket snapshot for the tenant's local day,
// served from the cache when a live entry exists. The second return value
// reports whether this was a cache hit.
func (s *Service) MegaStats(ctx context.Context, tenantID, zone string) (MegaStats, bool, error) {
	loc, err := LoadZone(zone)
	if err != nil {
		return MegaStats{}, false, err
	}

	now := s.now()
	key := tenantID + "|" + zone + "|" + now.In(loc).Format("2006-01-02")

	if snapshot, ok := s.stats.Get(key); ok {
		return snapshot, true, nil
	}

	buckets := BucketsAt(now, loc)
	var snapshot MegaStats
	for _, b := range []struct {
		window Interval
		dst    *BucketStats
	}{
		{buckets.Today, &snapshot.Today},
		{buckets.Week, &snapshot.Week},
		{buckets.Month, &snapshot.Month},
		{buckets.NextMonth, &snapshot.NextMonth},
	} {
		stats, err := s.repo.CountByStatus(ctx, tenantID, b.window.Start, b.window.End)
		if err != nil {
			return MegaStats{}, false, err
		}
		*b.dst = stats
	}

	// Concurrent misses race benignly; last write wins.
	s.stats.Set(key, snapshot)
	return snapshot, false, nil
}
