package dataset

import (
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/stat/distuv"
)

// Sample column names produced by GenerateSample.
const (
	SampleAge               = "age"
	SampleIncome            = "income"
	SampleEducationYears    = "education_years"
	SampleExperienceYears   = "experience_years"
	SampleSatisfaction      = "satisfaction_score"
	SampleDepartment        = "department"
	SampleCity              = "city"
	SamplePerformanceRating = "performance_rating"
	SampleHireDate          = "hire_date"
)

var (
	sampleDepartments = []string{"Engineering", "Sales", "Marketing", "HR", "Finance"}
	sampleCities      = []string{"New York", "Los Angeles", "Chicago", "Houston", "Phoenix"}
	sampleRatingProbs = []float64{0.05, 0.15, 0.4, 0.3, 0.1}
	sampleHireStart   = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
)

// GenerateSample builds a synthetic employee table of n rows for demos and
// tests. Income grows with education and experience; satisfaction grows with
// rating and income and is missing in 5% of rows. The same seed always
// yields the same table.
func GenerateSample(n int, seed uint64) *Table {
	src := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	rng := rand.New(src)

	ageDist := distuv.Normal{Mu: 35, Sigma: 12, Src: rng}
	incomeDist := distuv.LogNormal{Mu: 10.5, Sigma: 0.5, Src: rng}
	eduDist := distuv.Normal{Mu: 14, Sigma: 3, Src: rng}
	expDist := distuv.Exponential{Rate: 1.0 / 8, Src: rng}
	satDist := distuv.Beta{Alpha: 2, Beta: 1, Src: rng}
	ratingDist := distuv.NewCategorical(sampleRatingProbs, rng)

	age := make([]float64, n)
	income := make([]float64, n)
	edu := make([]float64, n)
	exp := make([]float64, n)
	sat := make([]float64, n)
	rating := make([]float64, n)
	dept := make([]string, n)
	city := make([]string, n)
	hire := make([]string, n)

	for i := 0; i < n; i++ {
		age[i] = clip(math.Trunc(ageDist.Rand()), 18, 65)
		inc := incomeDist.Rand()
		edu[i] = math.Trunc(clip(eduDist.Rand(), 8, 22))
		exp[i] = math.Trunc(clip(expDist.Rand(), 0, age[i]-18))
		rawSat := satDist.Rand() * 10
		dept[i] = sampleDepartments[rng.IntN(len(sampleDepartments))]
		city[i] = sampleCities[rng.IntN(len(sampleCities))]
		rating[i] = ratingDist.Rand() + 1

		inc *= (1 + 0.1*edu[i]) * (1 + 0.05*exp[i])
		income[i] = math.Round(inc*100) / 100

		s := rawSat + 0.3*rating[i] + math.Log(income[i])*0.1
		sat[i] = math.Round(clip(s, 0, 10)*10) / 10
	}

	for _, i := range rng.Perm(n)[:n*5/100] {
		sat[i] = math.NaN()
	}
	for i := range hire {
		hire[i] = sampleHireStart.AddDate(0, 0, rng.IntN(1400)).Format("2006-01-02")
	}

	t, err := NewTable(
		NewNumericColumn(SampleAge, age),
		NewNumericColumn(SampleIncome, income),
		NewNumericColumn(SampleEducationYears, edu),
		NewNumericColumn(SampleExperienceYears, exp),
		NewNumericColumn(SampleSatisfaction, sat),
		NewCategoricalColumn(SampleDepartment, dept, nil),
		NewCategoricalColumn(SampleCity, city, nil),
		NewNumericColumn(SamplePerformanceRating, rating),
		NewCategoricalColumn(SampleHireDate, hire, nil),
	)
	if err != nil {
		// columns are built with equal lengths and distinct names
		panic(err)
	}
	return t
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
