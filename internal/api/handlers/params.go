package handlers

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ksr-21/smartstock/internal/domain"
	"github.com/ksr-21/smartstock/internal/forecast"
)

var errInvalidParam = errors.New("invalid parameter")

func invalidParam(name string, value any) error {
	return fmt.Errorf("%w: %s=%v", errInvalidParam, name, value)
}

// simulationRequest is the JSON form of a what-if scenario. Event names a
// preset; ActiveEvent supplies a custom one and wins when both are set.
type simulationRequest struct {
	Horizon           int                  `json:"horizon"`
	DemandMultiplier  *float64             `json:"demand_multiplier"`
	LeadTimeDelayDays int                  `json:"lead_time_delay_days"`
	IsPromotionActive bool                 `json:"is_promotion_active"`
	Event             string               `json:"event"`
	ActiveEvent       *domain.SpecialEvent `json:"active_event"`
}

func (r simulationRequest) params() (domain.SimulationParams, error) {
	sim := domain.DefaultSimulation()
	if r.DemandMultiplier != nil {
		if m := *r.DemandMultiplier; !finite(m) || m <= 0 || m > forecast.MaxDemandMultiplier {
			return sim, invalidParam("demand_multiplier", *r.DemandMultiplier)
		}
		sim.DemandMultiplier = *r.DemandMultiplier
	}
	if r.LeadTimeDelayDays < 0 {
		return sim, invalidParam("lead_time_delay_days", r.LeadTimeDelayDays)
	}
	if r.Horizon < 0 {
		return sim, invalidParam("horizon", r.Horizon)
	}
	sim.LeadTimeDelayDays = r.LeadTimeDelayDays
	sim.IsPromotionActive = r.IsPromotionActive

	switch {
	case r.ActiveEvent != nil:
		for category, boost := range r.ActiveEvent.CategoryBoosts {
			if !finite(boost) || boost > forecast.MaxDemandMultiplier {
				return sim, invalidParam("category_boosts."+category, boost)
			}
		}
		sim.ActiveEvent = r.ActiveEvent
	case strings.TrimSpace(r.Event) != "":
		event, ok := forecast.FindEvent(r.Event)
		if !ok {
			return sim, invalidParam("event", r.Event)
		}
		sim.ActiveEvent = event
	}

	return sim, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// parseSimulationQuery reads a scenario from query parameters.
func parseSimulationQuery(c *gin.Context) (int, domain.SimulationParams, error) {
	var req simulationRequest

	if v := strings.TrimSpace(c.Query("horizon")); v != "" {
		h, err := strconv.Atoi(v)
		if err != nil {
			return 0, domain.SimulationParams{}, invalidParam("horizon", v)
		}
		req.Horizon = h
	}

	if v := strings.TrimSpace(c.Query("demand_multiplier")); v != "" {
		m, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, domain.SimulationParams{}, invalidParam("demand_multiplier", v)
		}
		req.DemandMultiplier = &m
	}

	if v := strings.TrimSpace(c.Query("lead_time_delay")); v != "" {
		d, err := strconv.Atoi(v)
		if err != nil {
			return 0, domain.SimulationParams{}, invalidParam("lead_time_delay", v)
		}
		req.LeadTimeDelayDays = d
	}

	if v := strings.TrimSpace(c.Query("promotion")); v != "" {
		p, err := strconv.ParseBool(v)
		if err != nil {
			return 0, domain.SimulationParams{}, invalidParam("promotion", v)
		}
		req.IsPromotionActive = p
	}

	req.Event = c.Query("event")

	sim, err := req.params()
	return req.Horizon, sim, err
}

// parseDay reads a YYYY-MM-DD query parameter, falling back to now.
func parseDay(c *gin.Context, name string, now time.Time) (time.Time, error) {
	v := strings.TrimSpace(c.Query(name))
	if v == "" {
		return now, nil
	}
	day, err := time.Parse(domain.DateLayout, v)
	if err != nil {
		return time.Time{}, invalidParam(name, v)
	}
	return day, nil
}

func parseRole(c *gin.Context) domain.UserRole {
	return domain.ParseUserRole(c.DefaultQuery("role", string(domain.RoleRetailer)))
}
