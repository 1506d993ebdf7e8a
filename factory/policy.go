/*
Package factory converts external award, table and shift documents into
engine types.

PURPOSE:
  Awards and bracket tables are edited outside the engine and exchanged as
  JSON (or YAML) documents. The factory maps those documents onto
  award.Policy, generic.Table and shift.Interval and back again, so that an
  exported file can be re-imported unchanged.

WHY A SEPARATE SCHEMA?
  - Documents use plain numbers; the engine uses exact decimals
  - Older exports lack fields added later (saturdayRate, sundayRate...)
    and may carry fields the engine ignores (maxWeeklyHours...)
  - Ids were numeric in early exports and are strings now

AWARD SCHEMA (camelCase, every rate optional):
  {
    "id": "general-retail",
    "name": "General Retail Industry Award",
    "normalRate": 1.0,
    "overtimeRate": 1.5,
    "weekendRate": 2.0,
    "nightShiftRate": 1.25,
    "nightShiftStart": "22:00",
    "nightShiftEnd": "06:00",
    "mealAllowance1": 15.5,
    "customAllowances": [{"name": "tools", "amount": 12}]
  }

TABLE SCHEMA (keyed by financial year, null max = unbounded):
  {"2024-2025": [{"min": 0, "max": 18200, "rate": 0}, ..., {"min": 180001, "max": null, "rate": 0.45}]}

USAGE:
  policies, err := factory.ParseAwards(data, factory.FormatFromPath(path))
  rules, err := policies[0].Rules()

SEE ALSO:
  - award/policy.go: Policy definition
  - factory/tables.go: Bracket tables
  - factory/shift.go: Shift schedules
*/
package factory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/warp/award-engine/award"
	"github.com/warp/award-engine/generic"
)

// =============================================================================
// FORMAT
// =============================================================================

type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// FormatFromPath picks YAML for .yaml/.yml files, JSON otherwise.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	default:
		return JSON
	}
}

func decode(data []byte, format Format, v any) error {
	if format == YAML {
		return yaml.Unmarshal(data, v)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	return dec.Decode(v)
}

func encode(v any, format Format) ([]byte, error) {
	if format == YAML {
		return yaml.Marshal(v)
	}
	return json.MarshalIndent(v, "", "  ")
}

// =============================================================================
// AWARD SCHEMA TYPES
// =============================================================================

// AwardID accepts both string and numeric ids.
type AwardID string

func (id *AwardID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = AwardID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("award id must be a string or number: %w", err)
	}
	*id = AwardID(n.String())
	return nil
}

// AwardJSON is the document form of an award.
type AwardJSON struct {
	ID   AwardID `json:"id" yaml:"id"`
	Name string  `json:"name" yaml:"name"`

	NormalRate         *float64 `json:"normalRate,omitempty" yaml:"normalRate,omitempty"`
	OvertimeRate       *float64 `json:"overtimeRate,omitempty" yaml:"overtimeRate,omitempty"`
	Overtime2Rate      *float64 `json:"overtime2Rate,omitempty" yaml:"overtime2Rate,omitempty"`
	Overtime2Hours     *float64 `json:"overtime2Hours,omitempty" yaml:"overtime2Hours,omitempty"`
	MaxDailyHours      *float64 `json:"maxDailyHours,omitempty" yaml:"maxDailyHours,omitempty"`
	WeekendRate        *float64 `json:"weekendRate,omitempty" yaml:"weekendRate,omitempty"`
	SaturdayRate       *float64 `json:"saturdayRate,omitempty" yaml:"saturdayRate,omitempty"`
	SundayRate         *float64 `json:"sundayRate,omitempty" yaml:"sundayRate,omitempty"`
	AfternoonShiftRate *float64 `json:"afternoonShiftRate,omitempty" yaml:"afternoonShiftRate,omitempty"`
	NightShiftRate     *float64 `json:"nightShiftRate,omitempty" yaml:"nightShiftRate,omitempty"`

	AfternoonShiftStart string `json:"afternoonShiftStart,omitempty" yaml:"afternoonShiftStart,omitempty"`
	AfternoonShiftEnd   string `json:"afternoonShiftEnd,omitempty" yaml:"afternoonShiftEnd,omitempty"`
	NightShiftStart     string `json:"nightShiftStart,omitempty" yaml:"nightShiftStart,omitempty"`
	NightShiftEnd       string `json:"nightShiftEnd,omitempty" yaml:"nightShiftEnd,omitempty"`
	WindowBoundary      string `json:"windowBoundary,omitempty" yaml:"windowBoundary,omitempty"`

	MinBreakHours          *float64 `json:"minBreakHours,omitempty" yaml:"minBreakHours,omitempty"`
	MinBreakHoursSleepover *float64 `json:"minBreakHoursSleepover,omitempty" yaml:"minBreakHoursSleepover,omitempty"`
	HasSleepover           bool     `json:"hasSleepover" yaml:"hasSleepover"`
	SleeperRate            float64  `json:"sleeperRate" yaml:"sleeperRate"`

	MealAllowance1      float64  `json:"mealAllowance1" yaml:"mealAllowance1"`
	MealAllowance1Hours *float64 `json:"mealAllowance1Hours,omitempty" yaml:"mealAllowance1Hours,omitempty"`
	MealAllowance2Hours *float64 `json:"mealAllowance2Hours,omitempty" yaml:"mealAllowance2Hours,omitempty"`
	FirstAidAllowance   float64  `json:"firstAidAllowance" yaml:"firstAidAllowance"`
	FirstAidMaxAmount   *float64 `json:"firstAidMaxAmount,omitempty" yaml:"firstAidMaxAmount,omitempty"`

	CustomAllowances []CustomAllowanceJSON `json:"customAllowances" yaml:"customAllowances"`
}

type CustomAllowanceJSON struct {
	Name   string  `json:"name" yaml:"name"`
	Amount float64 `json:"amount" yaml:"amount"`
}

// =============================================================================
// PARSE / ENCODE
// =============================================================================

// ParseAwards decodes a list of awards. A single award object is accepted
// too. Every award is checked by resolving its rules.
func ParseAwards(data []byte, format Format) ([]award.Policy, error) {
	var docs []AwardJSON
	if err := decode(data, format, &docs); err != nil {
		var single AwardJSON
		if err2 := decode(data, format, &single); err2 != nil {
			return nil, fmt.Errorf("failed to parse awards: %w", err)
		}
		docs = []AwardJSON{single}
	}

	policies := make([]award.Policy, 0, len(docs))
	for i, aj := range docs {
		p, err := ToPolicy(aj)
		if err != nil {
			return nil, fmt.Errorf("award %d: %w", i+1, err)
		}
		policies = append(policies, p)
	}
	return policies, nil
}

// EncodeAwards writes awards in the document schema.
func EncodeAwards(policies []award.Policy, format Format) ([]byte, error) {
	docs := make([]AwardJSON, 0, len(policies))
	for _, p := range policies {
		docs = append(docs, FromPolicy(p))
	}
	return encode(docs, format)
}

// ToPolicy converts a document into a Policy and validates it.
func ToPolicy(aj AwardJSON) (award.Policy, error) {
	if aj.ID == "" {
		return award.Policy{}, generic.NewConfigError("id", "award id is required")
	}

	p := award.Policy{
		ID:   award.ID(aj.ID),
		Name: aj.Name,

		NormalRate:         optional(aj.NormalRate),
		OvertimeRate:       optional(aj.OvertimeRate),
		Overtime2Rate:      optional(aj.Overtime2Rate),
		Overtime2Hours:     optional(aj.Overtime2Hours),
		MaxDailyHours:      optional(aj.MaxDailyHours),
		WeekendRate:        optional(aj.WeekendRate),
		SaturdayRate:       optional(aj.SaturdayRate),
		SundayRate:         optional(aj.SundayRate),
		AfternoonShiftRate: optional(aj.AfternoonShiftRate),
		NightShiftRate:     optional(aj.NightShiftRate),

		AfternoonShiftStart: aj.AfternoonShiftStart,
		AfternoonShiftEnd:   aj.AfternoonShiftEnd,
		NightShiftStart:     aj.NightShiftStart,
		NightShiftEnd:       aj.NightShiftEnd,
		WindowBoundary:      generic.Boundary(aj.WindowBoundary),

		MinBreakHours:          optional(aj.MinBreakHours),
		MinBreakHoursSleepover: optional(aj.MinBreakHoursSleepover),
		HasSleepover:           aj.HasSleepover,
		SleeperRate:            decimal.NewFromFloat(aj.SleeperRate),

		MealAllowance1:      decimal.NewFromFloat(aj.MealAllowance1),
		MealAllowance1Hours: optional(aj.MealAllowance1Hours),
		MealAllowance2Hours: optional(aj.MealAllowance2Hours),
		FirstAidAllowance:   decimal.NewFromFloat(aj.FirstAidAllowance),
		FirstAidMaxAmount:   optional(aj.FirstAidMaxAmount),
	}
	for _, c := range aj.CustomAllowances {
		p.CustomAllowances = append(p.CustomAllowances, award.CustomAllowance{
			Name:   c.Name,
			Amount: decimal.NewFromFloat(c.Amount),
		})
	}

	if _, err := p.Rules(); err != nil {
		return award.Policy{}, err
	}
	return p, nil
}

// FromPolicy converts a Policy into its document form. Absent optional
// fields stay absent.
func FromPolicy(p award.Policy) AwardJSON {
	aj := AwardJSON{
		ID:   AwardID(p.ID),
		Name: p.Name,

		NormalRate:         floatPtr(p.NormalRate),
		OvertimeRate:       floatPtr(p.OvertimeRate),
		Overtime2Rate:      floatPtr(p.Overtime2Rate),
		Overtime2Hours:     floatPtr(p.Overtime2Hours),
		MaxDailyHours:      floatPtr(p.MaxDailyHours),
		WeekendRate:        floatPtr(p.WeekendRate),
		SaturdayRate:       floatPtr(p.SaturdayRate),
		SundayRate:         floatPtr(p.SundayRate),
		AfternoonShiftRate: floatPtr(p.AfternoonShiftRate),
		NightShiftRate:     floatPtr(p.NightShiftRate),

		AfternoonShiftStart: p.AfternoonShiftStart,
		AfternoonShiftEnd:   p.AfternoonShiftEnd,
		NightShiftStart:     p.NightShiftStart,
		NightShiftEnd:       p.NightShiftEnd,
		WindowBoundary:      string(p.WindowBoundary),

		MinBreakHours:          floatPtr(p.MinBreakHours),
		MinBreakHoursSleepover: floatPtr(p.MinBreakHoursSleepover),
		HasSleepover:           p.HasSleepover,
		SleeperRate:            p.SleeperRate.InexactFloat64(),

		MealAllowance1:      p.MealAllowance1.InexactFloat64(),
		MealAllowance1Hours: floatPtr(p.MealAllowance1Hours),
		MealAllowance2Hours: floatPtr(p.MealAllowance2Hours),
		FirstAidAllowance:   p.FirstAidAllowance.InexactFloat64(),
		FirstAidMaxAmount:   floatPtr(p.FirstAidMaxAmount),

		CustomAllowances: []CustomAllowanceJSON{},
	}
	for _, c := range p.CustomAllowances {
		aj.CustomAllowances = append(aj.CustomAllowances, CustomAllowanceJSON{
			Name:   c.Name,
			Amount: c.Amount.InexactFloat64(),
		})
	}
	return aj
}

// =============================================================================
// HELPERS
// =============================================================================

func optional(f *float64) *decimal.Decimal {
	if f == nil {
		return nil
	}
	return generic.Ptr(decimal.NewFromFloat(*f))
}

func floatPtr(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}
	f := d.InexactFloat64()
	return &f
}
