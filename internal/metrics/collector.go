package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "practice_interview"

var (
	sessionsDesc = prometheus.NewDesc(namespace+"_sessions_total",
		"Practice sessions by outcome.", []string{"outcome"}, nil)
	questionsDesc = prometheus.NewDesc(namespace+"_questions_asked_total",
		"Questions asked across all sessions.", nil, nil)
	emptyAnswersDesc = prometheus.NewDesc(namespace+"_answers_empty_total",
		"Answers recorded as no answer.", nil, nil)
	fallbacksDesc = prometheus.NewDesc(namespace+"_evaluation_fallbacks_total",
		"Evaluations replaced by the canned fallback.", nil, nil)
	persistFailuresDesc = prometheus.NewDesc(namespace+"_persist_failures_total",
		"Session summaries that failed to persist.", nil, nil)
	apiCallsDesc = prometheus.NewDesc(namespace+"_ai_calls_total",
		"Calls to the generative AI endpoint.", []string{"result"}, nil)
)

// Describe и Collect отдают счетчики Metrics в Prometheus
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	ch <- sessionsDesc
	ch <- questionsDesc
	ch <- emptyAnswersDesc
	ch <- fallbacksDesc
	ch <- persistFailuresDesc
	ch <- apiCallsDesc
}

func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	s := m.GetSnapshot()

	ch <- prometheus.MustNewConstMetric(sessionsDesc, prometheus.CounterValue, float64(s.SessionsStarted), "started")
	ch <- prometheus.MustNewConstMetric(sessionsDesc, prometheus.CounterValue, float64(s.SessionsCompleted), "completed")
	ch <- prometheus.MustNewConstMetric(sessionsDesc, prometheus.CounterValue, float64(s.SessionsAborted), "aborted")
	ch <- prometheus.MustNewConstMetric(questionsDesc, prometheus.CounterValue, float64(s.QuestionsAsked))
	ch <- prometheus.MustNewConstMetric(emptyAnswersDesc, prometheus.CounterValue, float64(s.AnswersEmpty))
	ch <- prometheus.MustNewConstMetric(fallbacksDesc, prometheus.CounterValue, float64(s.EvaluationFallbacks))
	ch <- prometheus.MustNewConstMetric(persistFailuresDesc, prometheus.CounterValue, float64(s.PersistFailures))
	ch <- prometheus.MustNewConstMetric(apiCallsDesc, prometheus.CounterValue, float64(s.APICallsSuccessful), "success")
	ch <- prometheus.MustNewConstMetric(apiCallsDesc, prometheus.CounterValue, float64(s.APICallsTotal-s.APICallsSuccessful), "failure")
}
