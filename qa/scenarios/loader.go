package scenarios

import (
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/charterbid/core/allocation"
	"github.com/kilianp07/charterbid/core/roster"
)

type DriverDef struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	Seniority string `yaml:"seniority"`
	Trained   bool   `yaml:"trained"`
}

type RouteDef struct {
	ID        string `yaml:"id"`
	Driver    string `yaml:"driver"`
	Days      string `yaml:"days"`
	Departure string `yaml:"departure"`
	Return    string `yaml:"return"`
}

type CharterDef struct {
	ID       string `yaml:"id"`
	Buses    int    `yaml:"buses"`
	Date     string `yaml:"date"`
	Pickup   string `yaml:"pickup"`
	Return   string `yaml:"return"`
	Training bool   `yaml:"training,omitempty"`
}

type RejectDef struct {
	Driver string `yaml:"driver"`
	Route  string `yaml:"route"`
}

type ConfigDef struct {
	MaxHours        float64 `yaml:"max_hours,omitempty"`
	PaddingMinutes  *int    `yaml:"padding_minutes,omitempty"`
	SeniorityOffset int     `yaml:"seniority_offset,omitempty"`
	MaxRounds       int     `yaml:"max_rounds,omitempty"`
	EnforceTraining bool    `yaml:"enforce_training,omitempty"`
}

// ToConfig overlays the scenario settings on the defaults.
func (c ConfigDef) ToConfig() allocation.Config {
	cfg := allocation.DefaultConfig()
	if c.MaxHours > 0 {
		cfg.MaxHours = c.MaxHours
	}
	if c.PaddingMinutes != nil {
		cfg.PaddingMinutes = *c.PaddingMinutes
	}
	if c.MaxRounds > 0 {
		cfg.MaxRounds = c.MaxRounds
	}
	cfg.SeniorityOffset = c.SeniorityOffset
	cfg.EnforceTraining = c.EnforceTraining
	return cfg
}

type Expected struct {
	// Assignments maps a trip to its drivers in assignment order.
	Assignments map[string][]string `yaml:"assignments"`
	// Unassigned maps a trip to its open seats.
	Unassigned map[string]int `yaml:"unassigned"`
	// Status maps driver then trip to the diagnostic status text.
	Status     map[string]map[string]string `yaml:"status"`
	Labels     []string                     `yaml:"labels,omitempty"`
	Rounds     int                          `yaml:"rounds,omitempty"`
	NextOffset *int                         `yaml:"next_offset,omitempty"`
	Gaps       int                          `yaml:"gaps"`
}

type Scenario struct {
	Name           string              `yaml:"name"`
	Description    string              `yaml:"description,omitempty"`
	Config         ConfigDef           `yaml:"config"`
	Drivers        []DriverDef         `yaml:"drivers"`
	StandardRoutes []RouteDef          `yaml:"standard_routes,omitempty"`
	Charters       []CharterDef        `yaml:"charters"`
	Bids           map[string][]string `yaml:"bids"`
	ForceRejects   []RejectDef         `yaml:"force_rejects,omitempty"`
	Expected       Expected            `yaml:"expected"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Input converts the scenario tables to roster rows. Bid rows are emitted in
// driver ID order.
func (sc *Scenario) Input() (roster.Input, []roster.ForceReject) {
	var in roster.Input
	for _, d := range sc.Drivers {
		in.Seniority = append(in.Seniority, roster.SeniorityRow{
			FullName: d.Name, DriverID: d.ID, SeniorityNumber: d.Seniority, Trained: d.Trained,
		})
	}
	for _, r := range sc.StandardRoutes {
		in.StandardRoutes = append(in.StandardRoutes, roster.StandardRouteRow{
			RouteID: r.ID, DriverID: r.Driver, Days: r.Days, Departure: r.Departure, Return: r.Return,
		})
	}
	for _, c := range sc.Charters {
		in.Charters = append(in.Charters, roster.CharterRow{
			TripID: c.ID, Buses: c.Buses, Pickup: c.Pickup, Return: c.Return, Date: c.Date, RequiresTraining: c.Training,
		})
	}
	ids := make([]string, 0, len(sc.Bids))
	for id := range sc.Bids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		in.Bids = append(in.Bids, roster.BidRow{DriverID: id, Bids: sc.Bids[id]})
	}
	var rejects []roster.ForceReject
	for _, fr := range sc.ForceRejects {
		rejects = append(rejects, roster.ForceReject{DriverID: fr.Driver, RouteID: fr.Route})
	}
	return in, rejects
}
