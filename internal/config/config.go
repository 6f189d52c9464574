package config

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

const dateLayout = "2006-01-02"

// Date is a wrapper around time.Time for YAML date parsing.
type Date struct {
	Time time.Time
}

func (d *Date) UnmarshalYAML(value *yaml.Node) error {
	t, err := time.Parse(dateLayout, value.Value)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", value.Value, err)
	}
	d.Time = t
	return nil
}

func (d Date) String() string {
	return d.Time.Format(dateLayout)
}

type BlackoutDate struct {
	Date   Date   `yaml:"date"`
	Reason string `yaml:"reason"`
}

type Season struct {
	StartDate     Date           `yaml:"start_date"`
	EndDate       Date           `yaml:"end_date"`
	BlackoutDates []BlackoutDate `yaml:"blackout_dates"`
}

type Reservation struct {
	Date      *Date    `yaml:"date"`
	StartDate *Date    `yaml:"start_date"`
	EndDate   *Date    `yaml:"end_date"`
	Times     []string `yaml:"times"`
	Reason    string   `yaml:"reason"`
}

// Dates returns all dates covered by this reservation.
// Supports single date (date:) or range (start_date:/end_date:).
func (r *Reservation) Dates() []time.Time {
	if r.StartDate != nil && r.EndDate != nil {
		var dates []time.Time
		d := r.StartDate.Time
		for !d.After(r.EndDate.Time) {
			dates = append(dates, d)
			d = d.AddDate(0, 0, 1)
		}
		return dates
	}
	if r.Date != nil {
		return []time.Time{r.Date.Time}
	}
	return nil
}

// Ground is a venue. Every slot on it admits only matches of its format.
type Ground struct {
	Name         string        `yaml:"name"`
	Format       string        `yaml:"format"`
	Reservations []Reservation `yaml:"reservations"`
}

// Group is a round-robin pool of teams playing one format.
type Group struct {
	Name   string   `yaml:"name"`
	Format string   `yaml:"format"`
	Teams  []string `yaml:"teams"`
}

type TimeSlots struct {
	Weekday      []string `yaml:"weekday"`
	Saturday     []string `yaml:"saturday"`
	Sunday       []string `yaml:"sunday"`
	HolidayDates []Date   `yaml:"holiday_dates"`
}

// Conflict forbids two teams from sharing a slot (same_slot) or a date (same_day).
type Conflict struct {
	Teams []string `yaml:"teams"`
	Level string   `yaml:"level"`
}

// TeamBlackout lists dates on which a team cannot play or umpire.
type TeamBlackout struct {
	Team   string `yaml:"team"`
	Dates  []Date `yaml:"dates"`
	Reason string `yaml:"reason"`
}

type Umpiring struct {
	Enabled bool `yaml:"enabled"`
	// Pool restricts umpiring duty to these teams. Empty means every team.
	Pool []string `yaml:"pool"`
}

type Knockout struct {
	Format             string `yaml:"format"`
	QualifiersPerGroup int    `yaml:"qualifiers_per_group"`
	StartDate          *Date  `yaml:"start_date"`
}

type Config struct {
	Season          Season         `yaml:"season"`
	Grounds         []Ground       `yaml:"grounds"`
	TimeSlots       TimeSlots      `yaml:"time_slots"`
	Groups          []Group        `yaml:"groups"`
	Strategy        string         `yaml:"strategy"`
	Conflicts       []Conflict     `yaml:"conflicts"`
	Blackouts       []TeamBlackout `yaml:"blackouts"`
	Umpiring        Umpiring       `yaml:"umpiring"`
	ExpectedMatches map[string]int `yaml:"expected_matches"`
	Knockout        Knockout       `yaml:"knockout"`
}

// AllTeams returns all team names across all groups.
func (c *Config) AllTeams() []string {
	var teams []string
	for _, g := range c.Groups {
		teams = append(teams, g.Teams...)
	}
	return teams
}

// TeamFormats maps every team to the format of its group.
func (c *Config) TeamFormats() map[string]string {
	formats := make(map[string]string)
	for _, g := range c.Groups {
		for _, t := range g.Teams {
			formats[t] = g.Format
		}
	}
	return formats
}

// GroupOf returns the group a team belongs to.
func (c *Config) GroupOf(team string) (Group, bool) {
	for _, g := range c.Groups {
		for _, t := range g.Teams {
			if t == team {
				return g, true
			}
		}
	}
	return Group{}, false
}

// UmpirePool returns the teams eligible for umpiring duty, or nil when
// umpiring is disabled.
func (c *Config) UmpirePool() []string {
	if !c.Umpiring.Enabled {
		return nil
	}
	if len(c.Umpiring.Pool) > 0 {
		return c.Umpiring.Pool
	}
	return c.AllTeams()
}

// LoadFromBytes parses YAML bytes into a Config and validates it.
func LoadFromBytes(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Strategy == "" {
		cfg.Strategy = "round_robin"
	}
	if cfg.Knockout.QualifiersPerGroup == 0 {
		cfg.Knockout.QualifiersPerGroup = 2
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromFile reads and parses a YAML config file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromBytes(data)
}

// validate reports every problem in the config, not just the first.
func (c *Config) validate() error {
	var errs error

	if !c.Season.EndDate.Time.After(c.Season.StartDate.Time) {
		errs = multierr.Append(errs, fmt.Errorf("end date %s must be after start date %s",
			c.Season.EndDate, c.Season.StartDate))
	}

	if len(c.Groups) == 0 {
		errs = multierr.Append(errs, fmt.Errorf("at least one group is required"))
	}

	if len(c.Grounds) == 0 {
		errs = multierr.Append(errs, fmt.Errorf("at least one ground is required"))
	}

	// Check for duplicate team names
	seen := make(map[string]string)
	for _, g := range c.Groups {
		if len(g.Teams) < 2 {
			errs = multierr.Append(errs, fmt.Errorf("group %q needs at least 2 teams", g.Name))
		}
		if g.Format == "" {
			errs = multierr.Append(errs, fmt.Errorf("group %q has no format", g.Name))
		}
		for _, team := range g.Teams {
			if prev, ok := seen[team]; ok {
				errs = multierr.Append(errs, fmt.Errorf("team %q appears in both %q and %q groups", team, prev, g.Name))
				continue
			}
			seen[team] = g.Name
		}
	}

	for _, gr := range c.Grounds {
		if gr.Format == "" {
			errs = multierr.Append(errs, fmt.Errorf("ground %q has no format", gr.Name))
		}
		for _, r := range gr.Reservations {
			errs = multierr.Append(errs, validateReservation(gr.Name, r))
		}
	}

	for i, cf := range c.Conflicts {
		if len(cf.Teams) != 2 {
			errs = multierr.Append(errs, fmt.Errorf("conflict %d: must name exactly 2 teams", i+1))
			continue
		}
		if cf.Teams[0] == cf.Teams[1] {
			errs = multierr.Append(errs, fmt.Errorf("conflict %d: team %q conflicts with itself", i+1, cf.Teams[0]))
		}
		for _, t := range cf.Teams {
			if _, ok := seen[t]; !ok {
				errs = multierr.Append(errs, fmt.Errorf("conflict %d: unknown team %q", i+1, t))
			}
		}
		if cf.Level != "same_slot" && cf.Level != "same_day" {
			errs = multierr.Append(errs, fmt.Errorf("conflict %d: level %q must be same_slot or same_day", i+1, cf.Level))
		}
	}

	for _, b := range c.Blackouts {
		if _, ok := seen[b.Team]; !ok {
			errs = multierr.Append(errs, fmt.Errorf("blackout: unknown team %q", b.Team))
		}
	}

	for _, t := range c.Umpiring.Pool {
		if _, ok := seen[t]; !ok {
			errs = multierr.Append(errs, fmt.Errorf("umpiring pool: unknown team %q", t))
		}
	}

	for t, n := range c.ExpectedMatches {
		if _, ok := seen[t]; !ok {
			errs = multierr.Append(errs, fmt.Errorf("expected_matches: unknown team %q", t))
		}
		if n < 0 {
			errs = multierr.Append(errs, fmt.Errorf("expected_matches: %q has negative count %d", t, n))
		}
	}

	if c.Knockout.QualifiersPerGroup < 0 {
		errs = multierr.Append(errs, fmt.Errorf("knockout: qualifiers_per_group must be positive"))
	}

	return errs
}

func validateReservation(ground string, r Reservation) error {
	hasDate := r.Date != nil
	hasRange := r.StartDate != nil || r.EndDate != nil
	if !hasDate && !hasRange {
		return fmt.Errorf("ground %q: reservation must have either 'date' or 'start_date'/'end_date'", ground)
	}
	if hasDate && hasRange {
		return fmt.Errorf("ground %q: reservation cannot have both 'date' and 'start_date'/'end_date'", ground)
	}
	if hasRange && (r.StartDate == nil || r.EndDate == nil) {
		return fmt.Errorf("ground %q: reservation with date range must have both 'start_date' and 'end_date'", ground)
	}
	if hasRange && r.EndDate.Time.Before(r.StartDate.Time) {
		return fmt.Errorf("ground %q: reservation end_date must be on or after start_date", ground)
	}
	return nil
}
