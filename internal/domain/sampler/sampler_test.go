package sampler_test

import (
	"errors"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/okian/onomastikon/internal/domain/model"
	"github.com/okian/onomastikon/internal/domain/sampler"
	"github.com/okian/onomastikon/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

const draws = 10_000

func testMetrics() *metrics.Manager {
	return metrics.NewManager(metrics.WithPrometheusRegistry(prometheus.NewRegistry()))
}

func newSampler(first, last model.NameTable) *sampler.Sampler {
	return sampler.New(first, last, sampler.WithSeed(42), sampler.WithMetrics(testMetrics()))
}

var (
	spanishFirst = model.NameTable{
		{Name: "Maria", Gender: "F", Locale: "ES", Occurrences: 650},
		{Name: "Carmen", Gender: "F", Locale: "ES", Occurrences: 640},
		{Name: "Jose", Gender: "M", Locale: "ES", Occurrences: 599},
	}
	spanishLast = model.NameTable{
		{Name: "Garcia", Gender: "F", Locale: "ES", Occurrences: 1450},
		{Name: "Lopez", Gender: "F", Locale: "ES", Occurrences: 870},
		{Name: "Garcia", Gender: "M", Locale: "ES", Occurrences: 1450},
	}
)

func TestSampleWeighted(t *testing.T) {
	Convey("Given a sampler", t, func() {
		s := newSampler(nil, nil)

		Convey("When the table has no record of the gender", func() {
			table := model.NameTable{{Name: "Jose", Gender: "M", Occurrences: 5}}

			Convey("Then the draw is absent without error", func() {
				for _, weighted := range []bool{true, false} {
					rec, ok, err := s.SampleWeighted(table, "F", weighted)
					So(err, ShouldBeNil)
					So(ok, ShouldBeFalse)
					So(rec, ShouldResemble, model.NameRecord{})
				}
			})
		})

		Convey("When the table is empty", func() {
			_, ok, err := s.SampleWeighted(nil, "F", true)
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)
		})

		Convey("When the occurrences sum past the int64 range", func() {
			table := model.NameTable{
				{Name: "Ana", Gender: "F", Occurrences: math.MaxInt64},
				{Name: "Bea", Gender: "F", Occurrences: 1},
			}

			Convey("Then a weighted draw reports the overflow", func() {
				_, ok, err := s.SampleWeighted(table, "F", true)
				So(errors.Is(err, sampler.ErrWeightOverflow), ShouldBeTrue)
				So(errors.Is(err, sampler.ErrNoSamplableRecords), ShouldBeFalse)
				So(ok, ShouldBeFalse)
			})

			Convey("And an unweighted draw still succeeds", func() {
				_, ok, err := s.SampleWeighted(table, "F", false)
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)
			})
		})

		Convey("When every candidate has zero occurrences", func() {
			table := model.NameTable{
				{Name: "A", Gender: "F", Occurrences: 0},
				{Name: "B", Gender: "F", Occurrences: 0},
				{Name: "C", Gender: "M", Occurrences: 10},
			}

			Convey("Then a weighted draw fails", func() {
				_, ok, err := s.SampleWeighted(table, "F", true)
				So(errors.Is(err, sampler.ErrNoSamplableRecords), ShouldBeTrue)
				So(ok, ShouldBeFalse)
			})

			Convey("And an unweighted draw still succeeds", func() {
				rec, ok, err := s.SampleWeighted(table, "F", false)
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)
				So(rec.Gender, ShouldEqual, "F")
			})
		})

		Convey("When weights are heavily skewed", func() {
			table := model.NameTable{
				{Name: "A", Gender: "F", Occurrences: 1},
				{Name: "B", Gender: "F", Occurrences: 1000},
			}

			Convey("Then the heavy record dominates", func() {
				counts := map[string]int{}
				var failed int
				for i := 0; i < draws; i++ {
					rec, ok, err := s.SampleWeighted(table, "F", true)
					if err != nil || !ok {
						failed++
					}
					counts[rec.Name]++
				}
				So(failed, ShouldEqual, 0)
				So(float64(counts["B"])/draws, ShouldBeGreaterThan, 0.95)
			})
		})

		Convey("When a record has zero occurrences among weighted ones", func() {
			table := model.NameTable{
				{Name: "Zero", Gender: "F", Occurrences: 0},
				{Name: "One", Gender: "F", Occurrences: 1},
				{Name: "AlsoZero", Gender: "F", Occurrences: 0},
			}

			Convey("Then it is never drawn", func() {
				for i := 0; i < 1000; i++ {
					rec, _, err := s.SampleWeighted(table, "F", true)
					So(err, ShouldBeNil)
					So(rec.Name, ShouldEqual, "One")
				}
			})
		})

		Convey("When drawing without weights", func() {
			table := model.NameTable{
				{Name: "A", Gender: "F", Occurrences: 1},
				{Name: "B", Gender: "F", Occurrences: 100000},
			}

			Convey("Then both records come up roughly equally", func() {
				counts := map[string]int{}
				for i := 0; i < draws; i++ {
					rec, _, _ := s.SampleWeighted(table, "F", false)
					counts[rec.Name]++
				}
				ratio := float64(counts["A"]) / draws
				So(ratio, ShouldBeBetween, 0.45, 0.55)
			})
		})

		Convey("When gender differs only by case", func() {
			table := model.NameTable{{Name: "A", Gender: "F", Occurrences: 1}}
			_, ok, err := s.SampleWeighted(table, "f", true)
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)
		})
	})
}

func TestSeededSamplersAgree(t *testing.T) {
	Convey("Given two samplers with the same seed", t, func() {
		a := sampler.New(spanishFirst, spanishLast, sampler.WithSeed(7), sampler.WithMetrics(testMetrics()))
		b := sampler.New(spanishFirst, spanishLast, sampler.WithRand(rand.New(rand.NewSource(7))), sampler.WithMetrics(testMetrics()))

		Convey("Then they produce the same names", func() {
			for i := 0; i < 50; i++ {
				x, err := a.RandomName("F", true, 50, 50)
				So(err, ShouldBeNil)
				y, err := b.RandomName("F", true, 50, 50)
				So(err, ShouldBeNil)
				So(x, ShouldEqual, y)
			}
		})
	})
}

func TestRandomFirstAndLastName(t *testing.T) {
	Convey("Given Spanish tables", t, func() {
		s := newSampler(spanishFirst, spanishLast)

		Convey("When drawing a female first name", func() {
			name, ok, err := s.RandomFirstName("F", true)
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
			So(name, ShouldBeIn, []string{"Maria", "Carmen"})
		})

		Convey("When drawing a male last name without weights", func() {
			name, ok, err := s.RandomLastName("M", false)
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
			So(name, ShouldEqual, "Garcia")
		})

		Convey("When the gender is unknown", func() {
			_, ok, err := s.RandomFirstName("X", true)
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)

			_, ok, err = s.RandomLastName("X", true)
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)
		})

		Convey("When the caller mutates the source tables afterwards", func() {
			first := spanishFirst.Clone()
			s := newSampler(first, spanishLast)
			first[0].Gender = "X"
			first[1].Gender = "X"

			Convey("Then the sampler is unaffected", func() {
				_, ok, err := s.RandomFirstName("F", true)
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)
				So(s.FirstNames(), ShouldResemble, spanishFirst)
			})
		})
	})
}

func TestRandomFullName(t *testing.T) {
	Convey("Given Spanish tables", t, func() {
		s := newSampler(spanishFirst, spanishLast)

		Convey("When no middle name is requested", func() {
			name, ok, err := s.RandomFullName("F", true, false)
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)

			Convey("Then the result is first and last, single-spaced", func() {
				parts := strings.Split(name, " ")
				So(len(parts), ShouldEqual, 2)
				So(parts[0], ShouldBeIn, []string{"Maria", "Carmen"})
				So(parts[1], ShouldBeIn, []string{"Garcia", "Lopez"})
			})
		})

		Convey("When a middle name is requested", func() {
			Convey("Then exactly one middle segment is embedded", func() {
				for i := 0; i < 200; i++ {
					name, ok, err := s.RandomFullName("F", false, true)
					So(err, ShouldBeNil)
					So(ok, ShouldBeTrue)
					parts := strings.Split(name, " ")
					So(len(parts), ShouldEqual, 3)
					So(parts[1], ShouldBeIn, []string{"Maria", "Carmen"})
					So(parts[2], ShouldBeIn, []string{"Garcia", "Lopez"})
				}
			})
		})

		Convey("When the first-name table lacks the gender", func() {
			s := newSampler(model.NameTable{{Name: "Jose", Gender: "M", Occurrences: 1}}, spanishLast)
			name, ok, err := s.RandomFullName("F", true, true)
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)
			So(name, ShouldEqual, "")
		})

		Convey("When the last-name table lacks the gender", func() {
			s := newSampler(spanishFirst, model.NameTable{{Name: "Garcia", Gender: "M", Occurrences: 1}})
			_, ok, err := s.RandomFullName("F", true, false)
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)
		})

		Convey("When a first name is empty", func() {
			s := newSampler(model.NameTable{{Name: "", Gender: "F", Occurrences: 3}}, spanishLast)
			name, ok, err := s.RandomFullName("F", true, true)

			Convey("Then no blank part is joined in", func() {
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)
				So(name, ShouldBeIn, []string{"Garcia", "Lopez"})
			})
		})

		Convey("When both tables are empty", func() {
			s := newSampler(nil, nil)
			_, ok, err := s.RandomFullName("F", true, false)
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)
		})

		Convey("When first names only have zero weights", func() {
			s := newSampler(model.NameTable{{Name: "Ana", Gender: "F", Occurrences: 0}}, spanishLast)

			Convey("Then the weighted first-name draw fails even with useWeights off", func() {
				_, _, err := s.RandomFullName("F", false, false)
				So(errors.Is(err, sampler.ErrNoSamplableRecords), ShouldBeTrue)
			})
		})
	})
}

func TestRandomName(t *testing.T) {
	Convey("Given Spanish tables", t, func() {
		s := newSampler(spanishFirst, spanishLast)

		Convey("When both probabilities are zero", func() {
			Convey("Then the name is exactly first and last", func() {
				for i := 0; i < 200; i++ {
					name, err := s.RandomName("F", true, 0, 0)
					So(err, ShouldBeNil)
					parts := strings.Split(name, " ")
					So(len(parts), ShouldEqual, 2)
					So(name, ShouldNotContainSubstring, "-")
				}
			})
		})

		Convey("When the probabilities are out of range", func() {
			Convey("Then they saturate instead of failing", func() {
				for i := 0; i < 200; i++ {
					never, err := s.RandomName("F", true, -5, -5)
					So(err, ShouldBeNil)
					So(len(strings.Fields(never)), ShouldEqual, 2)
					So(never, ShouldNotContainSubstring, "-")

					always, err := s.RandomName("F", true, 150, 150)
					So(err, ShouldBeNil)
					So(len(strings.Fields(always)), ShouldEqual, 3)
					So(strings.Count(always, "-"), ShouldEqual, 1)
				}
			})
		})

		Convey("When the second last name is certain", func() {
			Convey("Then the surname is always hyphenated", func() {
				for i := 0; i < 200; i++ {
					name, err := s.RandomName("F", true, 0, 100)
					So(err, ShouldBeNil)
					parts := strings.Split(name, " ")
					So(len(parts), ShouldEqual, 2)
					surnames := strings.Split(parts[1], "-")
					So(len(surnames), ShouldEqual, 2)
					So(surnames[0], ShouldBeIn, []string{"Garcia", "Lopez"})
					So(surnames[1], ShouldBeIn, []string{"Garcia", "Lopez"})
				}
			})
		})

		Convey("When the second given name is certain", func() {
			Convey("Then two given names precede the surname", func() {
				for i := 0; i < 200; i++ {
					name, err := s.RandomName("F", false, 100, 0)
					So(err, ShouldBeNil)
					parts := strings.Split(name, " ")
					So(len(parts), ShouldEqual, 3)
					So(parts[0], ShouldBeIn, []string{"Maria", "Carmen"})
					So(parts[1], ShouldBeIn, []string{"Maria", "Carmen"})
				}
			})
		})

		Convey("When both extras are certain", func() {
			name, err := s.RandomName("M", true, 100, 100)
			So(err, ShouldBeNil)
			So(name, ShouldEqual, "Jose Jose Garcia-Garcia")
		})

		Convey("When the probability is fifty percent", func() {
			Convey("Then roughly half of the names get a second surname", func() {
				hyphenated := 0
				for i := 0; i < draws; i++ {
					name, _ := s.RandomName("F", true, 0, 50)
					if strings.Contains(name, "-") {
						hyphenated++
					}
				}
				So(float64(hyphenated)/draws, ShouldBeBetween, 0.45, 0.55)
			})
		})

		Convey("When the gender has no records at all", func() {
			name, err := s.RandomName("X", true, 100, 100)

			Convey("Then the result is the empty string, not an error", func() {
				So(err, ShouldBeNil)
				So(name, ShouldEqual, "")
			})
		})

		Convey("When only last names exist for the gender", func() {
			s := newSampler(nil, spanishLast)
			name, err := s.RandomName("F", true, 100, 100)
			So(err, ShouldBeNil)

			Convey("Then no dangling separators appear", func() {
				So(strings.HasPrefix(name, " "), ShouldBeFalse)
				So(strings.Contains(name, " "), ShouldBeFalse)
				So(len(strings.Split(name, "-")), ShouldEqual, 2)
			})
		})

		Convey("When only first names exist for the gender", func() {
			s := newSampler(spanishFirst, nil)
			name, err := s.RandomName("F", true, 0, 100)
			So(err, ShouldBeNil)
			So(name, ShouldBeIn, []string{"Maria", "Carmen"})
		})

		Convey("When weighted draws hit zero total weight", func() {
			s := newSampler(spanishFirst, model.NameTable{{Name: "Nowak", Gender: "F", Occurrences: 0}})
			_, err := s.RandomName("F", true, 0, 0)
			So(errors.Is(err, sampler.ErrNoSamplableRecords), ShouldBeTrue)
		})
	})
}

func TestSamplerMetrics(t *testing.T) {
	Convey("Given a sampler with its own metrics registry", t, func() {
		registry := prometheus.NewRegistry()
		m := metrics.NewManager(metrics.WithPrometheusRegistry(registry))
		s := sampler.New(spanishFirst, spanishLast, sampler.WithSeed(1), sampler.WithMetrics(m))

		Convey("When drawing present and absent first names", func() {
			_, _, _ = s.RandomFirstName("F", true)
			_, _, _ = s.RandomFirstName("X", true)
			_, _, _ = s.RandomFirstName("M", false)

			Convey("Then draws and absences are counted per table", func() {
				want := `
# HELP onomastikon_names_absent_draws_total Draws that found no record for the requested gender
# TYPE onomastikon_names_absent_draws_total counter
onomastikon_names_absent_draws_total{table="first_names"} 1
# HELP onomastikon_names_draws_total Total number of random draws against a table
# TYPE onomastikon_names_draws_total counter
onomastikon_names_draws_total{table="first_names",weighted="false"} 1
onomastikon_names_draws_total{table="first_names",weighted="true"} 2
# HELP onomastikon_names_names_generated_total Total number of names returned to callers by kind
# TYPE onomastikon_names_names_generated_total counter
onomastikon_names_names_generated_total{kind="first"} 2
`
				err := testutil.GatherAndCompare(registry, strings.NewReader(want),
					"onomastikon_names_absent_draws_total",
					"onomastikon_names_draws_total",
					"onomastikon_names_names_generated_total",
				)
				So(err, ShouldBeNil)
			})
		})
	})
}
