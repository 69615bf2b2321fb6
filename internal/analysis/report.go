package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/KaramelBytes/inflammation-cli/internal/models"
	"github.com/KaramelBytes/inflammation-cli/internal/utils"
)

// Options controls report contents and rendering.
type Options struct {
	// Normalise adds the per-patient normalised table to the report.
	Normalise bool
	// Precision is the number of decimal places used by Markdown. Negative means default.
	Precision int
}

// DefaultOptions returns reasonable defaults for reports.
func DefaultOptions() Options {
	return Options{Precision: 3}
}

// Report summarises an observation table day by day.
type Report struct {
	ID       string
	Name     string
	Patients int
	Days     int
	// Missing counts NaN readings in the input.
	Missing int

	Mean   []float64
	Max    []float64
	Min    []float64
	StdDev []float64

	Normalised models.Table
	Warnings   []string

	precision int
}

// Analyze computes the daily statistics of t and, when requested, its normalised form.
func Analyze(name string, t models.Table, opt Options) (*Report, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	patients, days := t.Shape()
	rep := &Report{
		ID:        uuid.NewString(),
		Name:      name,
		Patients:  patients,
		Days:      days,
		Missing:   t.CountNaN(),
		precision: opt.Precision,
	}
	if rep.precision < 0 {
		rep.precision = DefaultOptions().Precision
	}

	var err error
	if rep.Mean, err = models.DailyMean(t); err != nil {
		return nil, fmt.Errorf("daily mean: %w", err)
	}
	if rep.Max, err = models.DailyMax(t); err != nil {
		return nil, fmt.Errorf("daily max: %w", err)
	}
	if rep.Min, err = models.DailyMin(t); err != nil {
		return nil, fmt.Errorf("daily min: %w", err)
	}
	if rep.StdDev, err = models.DailyStdDev(t); err != nil {
		return nil, fmt.Errorf("daily std dev: %w", err)
	}
	if opt.Normalise {
		if rep.Normalised, err = models.PatientNormalise(t); err != nil {
			return nil, fmt.Errorf("normalise: %w", err)
		}
	}

	if patients == 0 {
		rep.Warnings = append(rep.Warnings, "no patient records")
	}
	if rep.Missing > 0 {
		nanDays := 0
		for _, m := range rep.Mean {
			if math.IsNaN(m) {
				nanDays++
			}
		}
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("%d missing readings; daily statistics are NaN on %d/%d days", rep.Missing, nanDays, days))
	}
	return rep, nil
}

// Markdown renders a compact report suitable for terminals or standalone docs.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Report: %s\n", r.ID))
	b.WriteString(fmt.Sprintf("Patients: %d\n", r.Patients))
	b.WriteString(fmt.Sprintf("Days: %d\n", r.Days))
	if r.Missing > 0 {
		b.WriteString(fmt.Sprintf("Missing readings: %d\n", r.Missing))
	}

	if r.Days > 0 {
		b.WriteString("\n[DAILY STATISTICS]\n")
		b.WriteString("| Day | Mean | Max | Min | Std |\n")
		b.WriteString("| --- | --- | --- | --- | --- |\n")
		for d := 0; d < r.Days; d++ {
			b.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s |\n", d+1,
				r.num(r.Mean[d]), r.num(r.Max[d]), r.num(r.Min[d]), r.num(r.StdDev[d])))
		}
	}

	if len(r.Normalised) > 0 {
		b.WriteString("\n[NORMALISED]\n")
		for i, row := range r.Normalised {
			b.WriteString(fmt.Sprintf("- patient %d:", i+1))
			for _, v := range row {
				b.WriteString(" ")
				b.WriteString(r.num(v))
			}
			b.WriteString("\n")
		}
	}

	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (r *Report) num(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.*f", r.precision, v)
}

type dayJSON struct {
	Day    int      `json:"day"`
	Mean   *float64 `json:"mean"`
	Max    *float64 `json:"max"`
	Min    *float64 `json:"min"`
	StdDev *float64 `json:"std_dev"`
}

type reportJSON struct {
	ID         string      `json:"id"`
	Name       string      `json:"name,omitempty"`
	Patients   int         `json:"patients"`
	Days       int         `json:"days"`
	Missing    int         `json:"missing"`
	Daily      []dayJSON   `json:"daily"`
	Normalised [][]float64 `json:"normalised,omitempty"`
	Warnings   []string    `json:"warnings,omitempty"`
}

// JSON renders the report as indented JSON. NaN statistics are written as null.
func (r *Report) JSON() ([]byte, error) {
	out := reportJSON{
		ID:         r.ID,
		Name:       r.Name,
		Patients:   r.Patients,
		Days:       r.Days,
		Missing:    r.Missing,
		Daily:      make([]dayJSON, r.Days),
		Normalised: r.Normalised,
		Warnings:   r.Warnings,
	}
	for d := 0; d < r.Days; d++ {
		out.Daily[d] = dayJSON{
			Day:    d + 1,
			Mean:   nullable(r.Mean[d]),
			Max:    nullable(r.Max[d]),
			Min:    nullable(r.Min[d]),
			StdDev: nullable(r.StdDev[d]),
		}
	}
	return utils.PrettyJSON(out)
}

func nullable(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}
