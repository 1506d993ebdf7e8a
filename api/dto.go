/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Awards and tables are
  exchanged in the factory document schema (camelCase, the import/export
  format). Calculation requests and results use snake_case DTOs.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  Awards:   factory.AwardJSON
  Tables:   factory.TableSetJSON
  Hours:    ClassifyRequest, ClassifyResponse, ShiftDTO, GroupDTO, HoursDTO
  Pay:      PayRequest, PayResponse, ComponentsDTO, AllowancesDTO

ROUNDING:
  The engine carries full precision. Money and hours are rounded to cents
  here, on the way out, and nowhere else.

VALIDATION:
  Request DTOs carry go-playground/validator tags, checked in handlers
  before any engine call.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/: Document schemas
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/award-engine/factory"
	"github.com/warp/award-engine/generic"
	"github.com/warp/award-engine/pay"
	"github.com/warp/award-engine/shift"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// ClassifyRequest runs a shift list through classification and aggregation.
type ClassifyRequest struct {
	AwardID        string              `json:"award_id" validate:"required"`
	EmploymentType string              `json:"employment_type" validate:"omitempty,oneof=full-time part-time casual"`
	Shifts         []factory.ShiftJSON `json:"shifts" validate:"required,min=1"`
}

// HoursInput is pre-bucketed hours, as entered in manual mode.
type HoursInput struct {
	Normal      float64 `json:"normal" validate:"gte=0"`
	Overtime1   float64 `json:"overtime1" validate:"gte=0"`
	Overtime2   float64 `json:"overtime2" validate:"gte=0"`
	Saturday    float64 `json:"saturday" validate:"gte=0"`
	Sunday      float64 `json:"sunday" validate:"gte=0"`
	Afternoon   float64 `json:"afternoon" validate:"gte=0"`
	Night       float64 `json:"night" validate:"gte=0"`
	BrokenShift float64 `json:"broken_shift" validate:"gte=0"`
}

// AllowancesInput is the allowance entries for the period. Meal counts are
// only read in manual mode; with shifts they come from aggregation.
type AllowancesInput struct {
	Manual          float64  `json:"manual" validate:"gte=0"`
	MealCount1      int      `json:"meal_count_1" validate:"gte=0"`
	MealCount2      int      `json:"meal_count_2" validate:"gte=0"`
	FirstAidHours   float64  `json:"first_aid_hours" validate:"gte=0"`
	SleepoverAmount float64  `json:"sleepover_amount" validate:"gte=0"`
	Custom          []string `json:"custom"`
}

// PayRequest prices either manual hours or a shift list, never both.
type PayRequest struct {
	AwardID        string              `json:"award_id" validate:"required"`
	BaseRate       float64             `json:"base_rate" validate:"gt=0"`
	PayPeriod      string              `json:"pay_period" validate:"omitempty,oneof=weekly fortnightly"`
	Year           string              `json:"year"`
	EmploymentType string              `json:"employment_type" validate:"omitempty,oneof=full-time part-time casual"`
	HasLoanDebt    bool                `json:"has_loan_debt"`
	Hours          *HoursInput         `json:"hours" validate:"required_without=Shifts,excluded_with=Shifts"`
	Shifts         []factory.ShiftJSON `json:"shifts" validate:"required_without=Hours"`
	Allowances     AllowancesInput     `json:"allowances"`
}

func (h HoursInput) buckets() shift.Buckets {
	return shift.Buckets{
		Normal:      decimal.NewFromFloat(h.Normal),
		Overtime1:   decimal.NewFromFloat(h.Overtime1),
		Overtime2:   decimal.NewFromFloat(h.Overtime2),
		Saturday:    decimal.NewFromFloat(h.Saturday),
		Sunday:      decimal.NewFromFloat(h.Sunday),
		Afternoon:   decimal.NewFromFloat(h.Afternoon),
		Night:       decimal.NewFromFloat(h.Night),
		BrokenShift: decimal.NewFromFloat(h.BrokenShift),
	}
}

func (a AllowancesInput) allowances() pay.Allowances {
	return pay.Allowances{
		Manual:          decimal.NewFromFloat(a.Manual),
		MealCount1:      a.MealCount1,
		MealCount2:      a.MealCount2,
		FirstAidHours:   decimal.NewFromFloat(a.FirstAidHours),
		SleepoverAmount: decimal.NewFromFloat(a.SleepoverAmount),
		CustomSelected:  a.Custom,
	}
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type WarningDTO struct {
	Code    string `json:"code"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

type HoursDTO struct {
	Normal      float64 `json:"normal"`
	Overtime1   float64 `json:"overtime1"`
	Overtime2   float64 `json:"overtime2"`
	Saturday    float64 `json:"saturday"`
	Sunday      float64 `json:"sunday"`
	Afternoon   float64 `json:"afternoon"`
	Night       float64 `json:"night"`
	BrokenShift float64 `json:"broken_shift"`
	Total       float64 `json:"total"`
}

type ShiftDTO struct {
	Index          int          `json:"index"`
	Start          string       `json:"start"`
	End            string       `json:"end"`
	Category       string       `json:"category"`
	Duration       float64      `json:"duration"`
	WorkingHours   float64      `json:"working_hours"`
	SleepoverHours float64      `json:"sleepover_hours"`
	Broken         bool         `json:"broken"`
	Hours          HoursDTO     `json:"hours"`
	Warnings       []WarningDTO `json:"warnings"`
}

type GroupDTO struct {
	Shifts     []int   `json:"shifts"`
	Hours      float64 `json:"hours"`
	Merged     bool    `json:"merged"`
	MealCount1 int     `json:"meal_count_1"`
	MealCount2 int     `json:"meal_count_2"`
}

// ClassifyResponse is the aggregated schedule.
type ClassifyResponse struct {
	AwardID       string       `json:"award_id"`
	Shifts        []ShiftDTO   `json:"shifts"`
	Groups        []GroupDTO   `json:"groups"`
	Totals        HoursDTO     `json:"totals"`
	MealCount1    int          `json:"meal_count_1"`
	MealCount2    int          `json:"meal_count_2"`
	MealAllowance float64      `json:"meal_allowance"`
	Warnings      []WarningDTO `json:"warnings"`
}

type ComponentsDTO struct {
	Normal    float64 `json:"normal"`
	Overtime1 float64 `json:"overtime1"`
	Overtime2 float64 `json:"overtime2"`
	Saturday  float64 `json:"saturday"`
	Sunday    float64 `json:"sunday"`
	Afternoon float64 `json:"afternoon"`
	Night     float64 `json:"night"`
	Total     float64 `json:"total"`
}

type CustomAllowanceDTO struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

type AllowancesDTO struct {
	Manual    float64              `json:"manual"`
	Meal      float64              `json:"meal"`
	FirstAid  float64              `json:"first_aid"`
	Sleepover float64              `json:"sleepover"`
	Custom    []CustomAllowanceDTO `json:"custom"`
	Total     float64              `json:"total"`
}

// PayResponse is the pay breakdown. Schedule is set when shifts were given.
type PayResponse struct {
	AwardID          string            `json:"award_id"`
	Year             string            `json:"year"`
	PayPeriod        string            `json:"pay_period"`
	Components       ComponentsDTO     `json:"components"`
	Allowances       AllowancesDTO     `json:"allowances"`
	Gross            float64           `json:"gross"`
	PeriodsPerYear   int64             `json:"periods_per_year"`
	Annualized       float64           `json:"annualized"`
	Tax              float64           `json:"tax"`
	LoanRepayment    float64           `json:"loan_repayment"`
	Net              float64           `json:"net"`
	BrokenShiftHours float64           `json:"broken_shift_hours"`
	Warnings         []WarningDTO      `json:"warnings"`
	Schedule         *ClassifyResponse `json:"schedule,omitempty"`
}

// SeedDTO reports what POST /api/defaults/load stored.
type SeedDTO struct {
	Awards    int `json:"awards"`
	TableSets int `json:"table_sets"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func cents(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func toWarningDTOs(ws []generic.Warning) []WarningDTO {
	out := make([]WarningDTO, 0, len(ws))
	for _, w := range ws {
		out = append(out, WarningDTO{Code: string(w.Code), Title: w.Title, Message: w.Message})
	}
	return out
}

func toHoursDTO(b shift.Buckets) HoursDTO {
	return HoursDTO{
		Normal:      cents(b.Normal),
		Overtime1:   cents(b.Overtime1),
		Overtime2:   cents(b.Overtime2),
		Saturday:    cents(b.Saturday),
		Sunday:      cents(b.Sunday),
		Afternoon:   cents(b.Afternoon),
		Night:       cents(b.Night),
		BrokenShift: cents(b.BrokenShift),
		Total:       cents(b.Total()),
	}
}

func toClassifyResponse(awardID string, res shift.Result) ClassifyResponse {
	shifts := make([]ShiftDTO, 0, len(res.Shifts))
	for _, s := range res.Shifts {
		shifts = append(shifts, ShiftDTO{
			Index:          s.Index,
			Start:          s.Interval.Start.Format(time.RFC3339),
			End:            s.Interval.End.Format(time.RFC3339),
			Category:       string(s.Category),
			Duration:       cents(s.Duration),
			WorkingHours:   cents(s.WorkingHours),
			SleepoverHours: cents(s.SleepoverHours),
			Broken:         s.Broken,
			Hours:          toHoursDTO(s.Buckets),
			Warnings:       toWarningDTOs(s.Warnings),
		})
	}

	groups := make([]GroupDTO, 0, len(res.Groups))
	for _, g := range res.Groups {
		groups = append(groups, GroupDTO{
			Shifts:     g.Shifts,
			Hours:      cents(g.Hours),
			Merged:     g.Merged,
			MealCount1: g.MealCount1,
			MealCount2: g.MealCount2,
		})
	}

	return ClassifyResponse{
		AwardID:       awardID,
		Shifts:        shifts,
		Groups:        groups,
		Totals:        toHoursDTO(res.Totals),
		MealCount1:    res.MealCount1,
		MealCount2:    res.MealCount2,
		MealAllowance: cents(res.MealAllowance),
		Warnings:      toWarningDTOs(res.Warnings),
	}
}

func toPayResponse(awardID, year string, period pay.Period, res pay.Result) PayResponse {
	c := res.Components
	custom := make([]CustomAllowanceDTO, 0, len(res.Allowances.Custom))
	for _, a := range res.Allowances.Custom {
		custom = append(custom, CustomAllowanceDTO{Name: a.Name, Amount: cents(a.Amount)})
	}

	return PayResponse{
		AwardID:   awardID,
		Year:      year,
		PayPeriod: string(period),
		Components: ComponentsDTO{
			Normal:    cents(c.Normal),
			Overtime1: cents(c.Overtime1),
			Overtime2: cents(c.Overtime2),
			Saturday:  cents(c.Saturday),
			Sunday:    cents(c.Sunday),
			Afternoon: cents(c.Afternoon),
			Night:     cents(c.Night),
			Total:     cents(c.Total()),
		},
		Allowances: AllowancesDTO{
			Manual:    cents(res.Allowances.Manual),
			Meal:      cents(res.Allowances.Meal),
			FirstAid:  cents(res.Allowances.FirstAid),
			Sleepover: cents(res.Allowances.Sleepover),
			Custom:    custom,
			Total:     cents(res.Allowances.Total()),
		},
		Gross:            cents(res.Gross),
		PeriodsPerYear:   res.PeriodsPerYear,
		Annualized:       cents(res.Annualized),
		Tax:              cents(res.Tax),
		LoanRepayment:    cents(res.LoanRepayment),
		Net:              cents(res.Net),
		BrokenShiftHours: cents(res.BrokenShiftHours),
		Warnings:         toWarningDTOs(res.Warnings),
	}
}
