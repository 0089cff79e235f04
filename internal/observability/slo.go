package observability

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/yungbote/neurobridge-studyplan/internal/platform/logger"
)

type rollingSum struct {
	values []float64
	idx    int
	total  float64
}

func newRollingSum(size int) *rollingSum {
	if size < 1 {
		size = 1
	}
	return &rollingSum{values: make([]float64, size)}
}

func (r *rollingSum) add(v float64) {
	r.total += v - r.values[r.idx]
	r.values[r.idx] = v
	r.idx++
	if r.idx >= len(r.values) {
		r.idx = 0
	}
}

// SLOEvaluator turns the monotonic counters into windowed SLIs and burn rates.
// schedule_llm_success treats every unplanned fallback (LLM down or invalid output) as bad;
// quota fallbacks are expected and do not burn budget.
type SLOEvaluator struct {
	metrics *Metrics
	log     *logger.Logger

	interval    time.Duration
	windowLabel string

	apiAvailTarget    float64
	apiLatencyTarget  float64
	scheduleLLMTarget float64
	burnWarn          float64

	apiTotal      *rollingSum
	apiError      *rollingSum
	apiGood       *rollingSum
	scheduleTotal *rollingSum
	scheduleBad   *rollingSum

	prevApiTotal      float64
	prevApiError      float64
	prevApiGood       float64
	prevScheduleTotal float64
	prevScheduleBad   float64
}

func (m *Metrics) StartSLOEvaluator(ctx context.Context, log *logger.Logger) {
	if m == nil || !sloEnabled() {
		return
	}
	eval := newSLOEvaluator(m, log)
	go eval.run(ctx)
	if log != nil {
		log.Info("SLO evaluator started", "window", eval.windowLabel, "interval", eval.interval.String())
	}
}

func newSLOEvaluator(m *Metrics, log *logger.Logger) *SLOEvaluator {
	interval := parseDurationSeconds("SLO_EVAL_INTERVAL_SECONDS", 60)
	windowHours := parseFloat("SLO_WINDOW_HOURS", 720)
	if windowHours < 1 {
		windowHours = 24
	}
	window := time.Duration(windowHours * float64(time.Hour))
	size := int(window / interval)
	if size < 1 {
		size = 1
	}
	return &SLOEvaluator{
		metrics:           m,
		log:               log,
		interval:          interval,
		windowLabel:       formatWindowLabel(window),
		apiAvailTarget:    clamp01(parseFloat("SLO_API_AVAIL_TARGET", 0.995)),
		apiLatencyTarget:  clamp01(parseFloat("SLO_API_LATENCY_TARGET", 0.95)),
		scheduleLLMTarget: clamp01(parseFloat("SLO_SCHEDULE_LLM_TARGET", 0.9)),
		burnWarn:          parseFloat("SLO_ALERT_BURN_RATE_WARN", 2),
		apiTotal:          newRollingSum(size),
		apiError:          newRollingSum(size),
		apiGood:           newRollingSum(size),
		scheduleTotal:     newRollingSum(size),
		scheduleBad:       newRollingSum(size),
	}
}

func (e *SLOEvaluator) run(ctx context.Context) {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.evaluate()
		}
	}
}

func (e *SLOEvaluator) evaluate() {
	if e.metrics == nil {
		return
	}
	apiTotal := e.metrics.apiReqTotal.Value()
	apiError := e.metrics.apiReqError.Value()
	apiGood := e.metrics.apiReqGood.Value()
	scheduleTotal := e.metrics.scheduleRuns.Value()
	scheduleBad := e.metrics.scheduleFallback.Value()

	e.apiTotal.add(delta(apiTotal, e.prevApiTotal))
	e.apiError.add(delta(apiError, e.prevApiError))
	e.apiGood.add(delta(apiGood, e.prevApiGood))
	e.scheduleTotal.add(delta(scheduleTotal, e.prevScheduleTotal))
	e.scheduleBad.add(delta(scheduleBad, e.prevScheduleBad))

	e.prevApiTotal = apiTotal
	e.prevApiError = apiError
	e.prevApiGood = apiGood
	e.prevScheduleTotal = scheduleTotal
	e.prevScheduleBad = scheduleBad

	e.evalSLO("api_availability", e.apiTotal.total, e.apiError.total, e.apiAvailTarget)
	e.evalSLO("api_latency", e.apiTotal.total, e.apiTotal.total-e.apiGood.total, e.apiLatencyTarget)
	e.evalSLO("schedule_llm_success", e.scheduleTotal.total, e.scheduleBad.total, e.scheduleLLMTarget)
}

func (e *SLOEvaluator) evalSLO(name string, total float64, bad float64, target float64) {
	if total <= 0 {
		e.metrics.sloCompliance.Set(1, name, e.windowLabel)
		e.metrics.sloBudget.Set(1, name, e.windowLabel)
		e.metrics.sloBurn.Set(0, name, e.windowLabel)
		return
	}
	sli := clamp01(1 - bad/total)
	burn := 0.0
	if target < 1 {
		burn = (1 - sli) / (1 - target)
	}
	budget := clamp01(1 - burn)
	e.metrics.sloCompliance.Set(sli, name, e.windowLabel)
	e.metrics.sloBudget.Set(budget, name, e.windowLabel)
	e.metrics.sloBurn.Set(burn, name, e.windowLabel)

	if e.log != nil && e.burnWarn > 0 && burn >= e.burnWarn {
		e.log.Warn("slo burn rate high", "slo", name, "window", e.windowLabel, "sli", sli, "target", target, "burn_rate", burn)
	}
}

func delta(current, prev float64) float64 {
	if current < prev {
		return current
	}
	return current - prev
}

func parseDurationSeconds(key string, def int) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return time.Duration(def) * time.Second
	}
	if v, err := strconv.Atoi(raw); err == nil && v > 0 {
		return time.Duration(v) * time.Second
	}
	return time.Duration(def) * time.Second
}

func parseFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return def
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func formatWindowLabel(window time.Duration) string {
	hours := window.Hours()
	if hours >= 24 && int(hours)%24 == 0 && hours == float64(int(hours)) {
		return strconv.Itoa(int(hours/24)) + "d"
	}
	if hours >= 1 {
		return strconv.Itoa(int(hours)) + "h"
	}
	return strconv.Itoa(int(window.Minutes())) + "m"
}

func sloEnabled() bool {
	v := strings.TrimSpace(strings.ToLower(os.Getenv("SLO_ENABLED")))
	return v == "1" || v == "true" || v == "yes" || v == "on"
}
