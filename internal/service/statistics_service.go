package service

import (
	"context"
	"math"

	"github.com/hsh-clinic/clinic-backend/internal/model"
)

// StatisticsService builds the super-admin dashboard aggregates.
type StatisticsService struct {
	stats StatisticsStore
}

// NewStatisticsService creates a new StatisticsService.
func NewStatisticsService(stats StatisticsStore) *StatisticsService {
	return &StatisticsService{stats: stats}
}

// Summary returns row counts, per-student and per-clinic averages and the
// most-reserved clinic.
func (s *StatisticsService) Summary(ctx context.Context) (*model.Statistics, error) {
	out, err := s.stats.GetSummaryCounts(ctx)
	if err != nil {
		return nil, storageErr(err)
	}

	out.StatusCounts, err = s.stats.GetStatusCounts(ctx)
	if err != nil {
		return nil, storageErr(err)
	}

	clinics, err := s.stats.GetClinicCounts(ctx)
	if err != nil {
		return nil, storageErr(err)
	}
	out.MostReservedClinic = mostReserved(clinics)

	out.AvgReservationsPerStudent = ratio(out.Reservations, out.Students)
	out.AvgReservationsPerClinic = ratio(out.Reservations, out.Clinics)
	return out, nil
}

// Monthly returns twelve buckets for year, zero-filled.
func (s *StatisticsService) Monthly(ctx context.Context, year int) ([]model.MonthlyCount, error) {
	counts, err := s.stats.GetMonthlyCounts(ctx, year)
	if err != nil {
		return nil, storageErr(err)
	}
	out := make([]model.MonthlyCount, 12)
	for i := range out {
		out[i] = model.MonthlyCount{Month: i + 1, Count: counts[i+1]}
	}
	return out, nil
}

// mostReserved returns the clinic with the highest count. On ties the
// first one seen wins.
func mostReserved(clinics []model.ClinicCount) *model.ClinicCount {
	var best *model.ClinicCount
	for i := range clinics {
		if best == nil || clinics[i].Count > best.Count {
			best = &clinics[i]
		}
	}
	return best
}

func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return math.Round(float64(n)/float64(d)*100) / 100
}
