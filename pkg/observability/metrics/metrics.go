package metrics

import (
	"fmt"
	"net/http"
	"sync/atomic"
)

var (
	predictionsServed   atomic.Int64
	predictionsFailed   atomic.Int64
	predictionsDegraded atomic.Int64
	historyQueries      atomic.Int64
	reportsGenerated    atomic.Int64
)

func IncPredictionServed()   { predictionsServed.Add(1) }
func IncPredictionFailed()   { predictionsFailed.Add(1) }
func IncPredictionDegraded() { predictionsDegraded.Add(1) }
func IncHistoryQuery()       { historyQueries.Add(1) }
func IncReportGenerated()    { reportsGenerated.Add(1) }

func WritePrometheus(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	fmt.Fprintf(w, "# HELP glycora_predictions_served_total Number of inference requests completed.\n")
	fmt.Fprintf(w, "# TYPE glycora_predictions_served_total counter\n")
	fmt.Fprintf(w, "glycora_predictions_served_total %d\n", predictionsServed.Load())

	fmt.Fprintf(w, "# HELP glycora_predictions_failed_total Number of inference requests that errored.\n")
	fmt.Fprintf(w, "# TYPE glycora_predictions_failed_total counter\n")
	fmt.Fprintf(w, "glycora_predictions_failed_total %d\n", predictionsFailed.Load())

	fmt.Fprintf(w, "# HELP glycora_predictions_degraded_total Number of inference requests with at least one coerced field.\n")
	fmt.Fprintf(w, "# TYPE glycora_predictions_degraded_total counter\n")
	fmt.Fprintf(w, "glycora_predictions_degraded_total %d\n", predictionsDegraded.Load())

	fmt.Fprintf(w, "# HELP glycora_history_queries_total Number of history and report queries served.\n")
	fmt.Fprintf(w, "# TYPE glycora_history_queries_total counter\n")
	fmt.Fprintf(w, "glycora_history_queries_total %d\n", historyQueries.Load())

	fmt.Fprintf(w, "# HELP glycora_reports_generated_total Number of patient reports rendered.\n")
	fmt.Fprintf(w, "# TYPE glycora_reports_generated_total counter\n")
	fmt.Fprintf(w, "glycora_reports_generated_total %d\n", reportsGenerated.Load())
}

func Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WritePrometheus(w)
	})
}
