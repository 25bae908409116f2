package service

import (
	"context"
	"math"
	"sort"

	"github.com/titaniclabs/titanic-api/services/statistics/internal/client"
)

// Summary aggregates one slice of the passenger list. Average age skips
// passengers whose age is unknown.
type Summary struct {
	Count      int     `json:"count"`
	AverageAge float64 `json:"average_age"`
	AgeKnown   int     `json:"age_known"`
	AvgFare    float64 `json:"avg_fare"`
	MinFare    float64 `json:"min_fare"`
	MaxFare    float64 `json:"max_fare"`
	Male       int     `json:"male"`
	Female     int     `json:"female"`
}

type GroupedSummary struct {
	Key string `json:"key"`
	Summary
}

type Fetcher interface {
	AllPassengers(ctx context.Context) ([]client.Passenger, error)
}

type StatisticsService struct {
	Passengers Fetcher
}

func New(passengers Fetcher) *StatisticsService {
	return &StatisticsService{Passengers: passengers}
}

func (s *StatisticsService) Overall(ctx context.Context) (*Summary, error) {
	all, err := s.Passengers.AllPassengers(ctx)
	if err != nil {
		return nil, err
	}
	sum := summarize(all)
	return &sum, nil
}

func (s *StatisticsService) ByClass(ctx context.Context) ([]GroupedSummary, error) {
	return s.grouped(ctx, func(p client.Passenger) string {
		switch p.Pclass {
		case 1:
			return "1"
		case 2:
			return "2"
		default:
			return "3"
		}
	})
}

func (s *StatisticsService) ByEmbarked(ctx context.Context) ([]GroupedSummary, error) {
	return s.grouped(ctx, func(p client.Passenger) string { return p.Embarked })
}

func (s *StatisticsService) grouped(ctx context.Context, key func(client.Passenger) string) ([]GroupedSummary, error) {
	all, err := s.Passengers.AllPassengers(ctx)
	if err != nil {
		return nil, err
	}

	buckets := make(map[string][]client.Passenger)
	for _, p := range all {
		k := key(p)
		buckets[k] = append(buckets[k], p)
	}

	out := make([]GroupedSummary, 0, len(buckets))
	for k, group := range buckets {
		out = append(out, GroupedSummary{Key: k, Summary: summarize(group)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func summarize(passengers []client.Passenger) Summary {
	sum := Summary{
		Count:   len(passengers),
		MinFare: math.Inf(1),
	}
	if sum.Count == 0 {
		sum.MinFare = 0
		return sum
	}

	var ageTotal, fareTotal float64
	for _, p := range passengers {
		if p.Age != nil {
			ageTotal += float64(*p.Age)
			sum.AgeKnown++
		}
		fareTotal += p.Fare
		if p.Fare < sum.MinFare {
			sum.MinFare = p.Fare
		}
		if p.Fare > sum.MaxFare {
			sum.MaxFare = p.Fare
		}
		switch p.Sex {
		case "male":
			sum.Male++
		case "female":
			sum.Female++
		}
	}
	if sum.AgeKnown > 0 {
		sum.AverageAge = round2(ageTotal / float64(sum.AgeKnown))
	}
	sum.AvgFare = round2(fareTotal / float64(sum.Count))
	sum.MinFare = round2(sum.MinFare)
	sum.MaxFare = round2(sum.MaxFare)
	return sum
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
