// Package metrics exports loadout summaries as Prometheus metrics, written to
// a node_exporter textfile so a collector can pick them up.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/roach88/ballast/internal/mass"
	"github.com/roach88/ballast/internal/pointmass"
)

// Collector holds the gauges for one ballast invocation.
type Collector struct {
	registry *prometheus.Registry

	totalMass *prometheus.GaugeVec
	weight    *prometheus.GaugeVec
	cg        *prometheus.GaugeVec
	elements  *prometheus.GaugeVec
	errors    *prometheus.CounterVec
}

// NewCollector creates a collector with its own registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		totalMass: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "ballast_total_mass_kg",
				Help: "Total mass of a loadout in kilograms",
			},
			[]string{"loadout"},
		),
		weight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "ballast_weight_newtons",
				Help: "Weight of a loadout in newtons under standard gravity",
			},
			[]string{"loadout"},
		),
		cg: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "ballast_cg_meters",
				Help: "Centre of gravity of a loadout in meters",
			},
			[]string{"loadout", "axis"},
		),
		elements: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "ballast_elements",
				Help: "Number of masses in a loadout",
			},
			[]string{"loadout"},
		),
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ballast_errors_total",
				Help: "Rejected operations by error kind",
			},
			[]string{"op", "kind"},
		),
	}

	c.registry.MustRegister(c.totalMass, c.weight, c.cg, c.elements, c.errors)
	return c
}

// Registry exposes the underlying registry.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Record sets the gauges for a loadout. The centre of gravity gauges are
// left unset when it is undefined.
func (c *Collector) Record(loadout string, ms *mass.Masses) {
	c.totalMass.WithLabelValues(loadout).Set(mass.MassKg(ms))
	c.weight.WithLabelValues(loadout).Set(mass.WeightN(ms))
	c.elements.WithLabelValues(loadout).Set(float64(ms.Len()))

	if ms.Amount() == 0 {
		return
	}
	cg, err := ms.CG()
	if err != nil {
		return
	}
	c.cg.WithLabelValues(loadout, "x").Set(cg.X)
	c.cg.WithLabelValues(loadout, "y").Set(cg.Y)
	c.cg.WithLabelValues(loadout, "z").Set(cg.Z)
}

// Observer counts rejected operations. Combine it with other observers using
// pointmass.Chain.
func (c *Collector) Observer() pointmass.Observer {
	return func(e *pointmass.Error) {
		c.errors.WithLabelValues(e.Op, string(e.Kind)).Inc()
	}
}

// WriteTextfile writes all metrics in the text exposition format.
func (c *Collector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}
