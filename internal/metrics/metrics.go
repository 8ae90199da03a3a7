// Package metrics provides a minimal Prometheus-exposition-format metrics
// registry for optimization runs: iteration counters, acceptance-ratio and
// score histograms, and best-score gauges, scraped over an HTTP handler.
package metrics

import (
	"fmt"
	"net/http"
	"sync"
)

// Registry holds named counters, gauges, and histograms.
type Registry struct {
	counters   map[string]*Counter
	gauges     map[string]*Gauge
	histograms map[string]*Histogram
	mu         sync.RWMutex
}

// Counter is a monotonically increasing value, optionally labeled.
type Counter struct {
	Name   string
	Help   string
	Labels []string
	values map[string]float64
	mu     sync.RWMutex
}

// Gauge is a point-in-time value that can go up or down.
type Gauge struct {
	Name   string
	Help   string
	Labels []string
	values map[string]float64
	mu     sync.RWMutex
}

// Histogram buckets observations by upper bound.
type Histogram struct {
	Name    string
	Help    string
	Labels  []string
	Buckets []float64
	counts  map[string][]int
	sums    map[string]float64
	mu      sync.RWMutex
}

var (
	registry *Registry
	once     sync.Once
)

// GetRegistry returns the process-wide metrics registry, seeding it with
// the default optimizer metrics on first use.
func GetRegistry() *Registry {
	once.Do(func() {
		registry = &Registry{
			counters:   make(map[string]*Counter),
			gauges:     make(map[string]*Gauge),
			histograms: make(map[string]*Histogram),
		}
		initDefaultMetrics()
	})
	return registry
}

func initDefaultMetrics() {
	registry.NewCounter("localsearch_iterations_total", "outer iterations executed", []string{"driver"})
	registry.NewCounter("localsearch_trials_total", "candidate trials generated", []string{"driver"})
	registry.NewCounter("localsearch_acceptances_total", "trials accepted into the current solution", []string{"driver"})

	registry.NewHistogram("localsearch_acceptance_ratio", "running acceptance ratio at each progress callback",
		[]string{"driver"},
		[]float64{0.01, 0.05, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.8, 1.0})

	registry.NewHistogram("localsearch_score_delta", "trial score minus current score",
		[]string{"driver"},
		[]float64{-10, -1, -0.1, -0.01, 0, 0.01, 0.1, 1, 10})

	registry.NewGauge("localsearch_best_score", "best score observed so far", []string{"driver", "run_id"})
	registry.NewGauge("localsearch_beta", "current inverse temperature, for temperature-driven kernels", []string{"driver", "run_id", "replica"})
	registry.NewGauge("localsearch_active_runs", "number of optimization runs currently in progress", []string{})
}

// NewCounter registers and returns a new counter.
func (r *Registry) NewCounter(name, help string, labels []string) *Counter {
	r.mu.Lock()
	defer r.mu.Unlock()

	counter := &Counter{
		Name:   name,
		Help:   help,
		Labels: labels,
		values: make(map[string]float64),
	}
	r.counters[name] = counter
	return counter
}

// NewGauge registers and returns a new gauge.
func (r *Registry) NewGauge(name, help string, labels []string) *Gauge {
	r.mu.Lock()
	defer r.mu.Unlock()

	gauge := &Gauge{
		Name:   name,
		Help:   help,
		Labels: labels,
		values: make(map[string]float64),
	}
	r.gauges[name] = gauge
	return gauge
}

// NewHistogram registers and returns a new histogram.
func (r *Registry) NewHistogram(name, help string, labels []string, buckets []float64) *Histogram {
	r.mu.Lock()
	defer r.mu.Unlock()

	histogram := &Histogram{
		Name:    name,
		Help:    help,
		Labels:  labels,
		Buckets: buckets,
		counts:  make(map[string][]int),
		sums:    make(map[string]float64),
	}
	r.histograms[name] = histogram
	return histogram
}

// GetCounter looks up a registered counter by name, or nil.
func (r *Registry) GetCounter(name string) *Counter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.counters[name]
}

// GetGauge looks up a registered gauge by name, or nil.
func (r *Registry) GetGauge(name string) *Gauge {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.gauges[name]
}

// GetHistogram looks up a registered histogram by name, or nil.
func (r *Registry) GetHistogram(name string) *Histogram {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.histograms[name]
}

// Inc increments a counter by 1.
func (c *Counter) Inc(labelValues ...string) {
	c.Add(1, labelValues...)
}

// Add increments a counter by value.
func (c *Counter) Add(value float64, labelValues ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := labelKey(labelValues)
	c.values[key] += value
}

// Set assigns a gauge's current value.
func (g *Gauge) Set(value float64, labelValues ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	key := labelKey(labelValues)
	g.values[key] = value
}

// Inc increments a gauge by 1.
func (g *Gauge) Inc(labelValues ...string) {
	g.Add(1, labelValues...)
}

// Dec decrements a gauge by 1.
func (g *Gauge) Dec(labelValues ...string) {
	g.Add(-1, labelValues...)
}

// Add adjusts a gauge by value.
func (g *Gauge) Add(value float64, labelValues ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	key := labelKey(labelValues)
	g.values[key] += value
}

// Observe records a value into the appropriate bucket.
func (h *Histogram) Observe(value float64, labelValues ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	key := labelKey(labelValues)

	if _, exists := h.counts[key]; !exists {
		h.counts[key] = make([]int, len(h.Buckets)+1)
	}

	idx := len(h.Buckets) // +Inf bucket
	for i, bucket := range h.Buckets {
		if value <= bucket {
			idx = i
			break
		}
	}
	h.counts[key][idx]++

	h.sums[key] += value
}

func labelKey(labels []string) string {
	if len(labels) == 0 {
		return ""
	}
	key := ""
	for i, l := range labels {
		if i > 0 {
			key += ","
		}
		key += l
	}
	return key
}

// Handler serves the registry in Prometheus text exposition format.
func Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		reg := GetRegistry()
		reg.mu.RLock()
		defer reg.mu.RUnlock()

		for _, counter := range reg.counters {
			fmt.Fprintf(w, "# HELP %s %s\n", counter.Name, counter.Help)
			fmt.Fprintf(w, "# TYPE %s counter\n", counter.Name)

			counter.mu.RLock()
			for key, value := range counter.values {
				if key == "" {
					fmt.Fprintf(w, "%s %f\n", counter.Name, value)
				} else {
					fmt.Fprintf(w, "%s{%s} %f\n", counter.Name, formatLabels(counter.Labels, key), value)
				}
			}
			counter.mu.RUnlock()
		}

		for _, gauge := range reg.gauges {
			fmt.Fprintf(w, "# HELP %s %s\n", gauge.Name, gauge.Help)
			fmt.Fprintf(w, "# TYPE %s gauge\n", gauge.Name)

			gauge.mu.RLock()
			for key, value := range gauge.values {
				if key == "" {
					fmt.Fprintf(w, "%s %f\n", gauge.Name, value)
				} else {
					fmt.Fprintf(w, "%s{%s} %f\n", gauge.Name, formatLabels(gauge.Labels, key), value)
				}
			}
			gauge.mu.RUnlock()
		}

		for _, histogram := range reg.histograms {
			fmt.Fprintf(w, "# HELP %s %s\n", histogram.Name, histogram.Help)
			fmt.Fprintf(w, "# TYPE %s histogram\n", histogram.Name)

			histogram.mu.RLock()
			for key, counts := range histogram.counts {
				cumulative := 0
				for i, bucket := range histogram.Buckets {
					cumulative += counts[i]
					if key == "" {
						fmt.Fprintf(w, "%s_bucket{le=\"%f\"} %d\n", histogram.Name, bucket, cumulative)
					} else {
						fmt.Fprintf(w, "%s_bucket{%s,le=\"%f\"} %d\n", histogram.Name, formatLabels(histogram.Labels, key), bucket, cumulative)
					}
				}
				cumulative += counts[len(histogram.Buckets)]
				if key == "" {
					fmt.Fprintf(w, "%s_bucket{le=\"+Inf\"} %d\n", histogram.Name, cumulative)
					fmt.Fprintf(w, "%s_sum %f\n", histogram.Name, histogram.sums[key])
					fmt.Fprintf(w, "%s_count %d\n", histogram.Name, cumulative)
				} else {
					fmt.Fprintf(w, "%s_bucket{%s,le=\"+Inf\"} %d\n", histogram.Name, formatLabels(histogram.Labels, key), cumulative)
					fmt.Fprintf(w, "%s_sum{%s} %f\n", histogram.Name, formatLabels(histogram.Labels, key), histogram.sums[key])
					fmt.Fprintf(w, "%s_count{%s} %d\n", histogram.Name, formatLabels(histogram.Labels, key), cumulative)
				}
			}
			histogram.mu.RUnlock()
		}
	})
}

func formatLabels(names []string, values string) string {
	vals := splitLabelKey(values)
	result := ""
	for i, name := range names {
		if i > 0 {
			result += ","
		}
		val := ""
		if i < len(vals) {
			val = vals[i]
		}
		result += fmt.Sprintf("%s=\"%s\"", name, val)
	}
	return result
}

func splitLabelKey(key string) []string {
	if key == "" {
		return nil
	}
	var result []string
	current := ""
	for _, c := range key {
		if c == ',' {
			result = append(result, current)
			current = ""
		} else {
			current += string(c)
		}
	}
	result = append(result, current)
	return result
}

// RecordIteration records one outer-loop iteration: it increments the
// iteration counter, observes the acceptance ratio, and updates the
// best-score gauge for the given driver/run.
func RecordIteration(driver, runID string, acceptanceRatio, bestScore float64) {
	reg := GetRegistry()

	counter := reg.GetCounter("localsearch_iterations_total")
	if counter != nil {
		counter.Inc(driver)
	}

	histogram := reg.GetHistogram("localsearch_acceptance_ratio")
	if histogram != nil {
		histogram.Observe(acceptanceRatio, driver)
	}

	gauge := reg.GetGauge("localsearch_best_score")
	if gauge != nil {
		gauge.Set(bestScore, driver, runID)
	}
}

// RecordTrial records a single candidate trial: it increments the trial
// counter, records the accept/reject outcome, and observes the score
// delta (trial score minus current score).
func RecordTrial(driver string, accepted bool, scoreDelta float64) {
	reg := GetRegistry()

	trials := reg.GetCounter("localsearch_trials_total")
	if trials != nil {
		trials.Inc(driver)
	}
	if accepted {
		accepts := reg.GetCounter("localsearch_acceptances_total")
		if accepts != nil {
			accepts.Inc(driver)
		}
	}

	histogram := reg.GetHistogram("localsearch_score_delta")
	if histogram != nil {
		histogram.Observe(scoreDelta, driver)
	}
}

// SetBeta records the current inverse temperature for a temperature-driven
// kernel or schedule. replica distinguishes multiple concurrent chains
// sharing one run (e.g. a parallel tempering ladder rung); pass "" for a
// driver that owns a single beta.
func SetBeta(driver, runID, replica string, beta float64) {
	reg := GetRegistry()
	gauge := reg.GetGauge("localsearch_beta")
	if gauge != nil {
		gauge.Set(beta, driver, runID, replica)
	}
}

// RunStarted increments the active-runs gauge.
func RunStarted() {
	reg := GetRegistry()
	if gauge := reg.GetGauge("localsearch_active_runs"); gauge != nil {
		gauge.Inc()
	}
}

// RunFinished decrements the active-runs gauge.
func RunFinished() {
	reg := GetRegistry()
	if gauge := reg.GetGauge("localsearch_active_runs"); gauge != nil {
		gauge.Dec()
	}
}
